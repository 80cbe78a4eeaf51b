package memory

import (
	"context"
	"testing"

	"github.com/mateuscelis/sistema/internal/core"
)

func TestUpsertAndRemove(t *testing.T) {
	store := New()
	ctx := context.Background()

	f := core.Faturamento{
		ID:             7,
		ClienteID:      1,
		ClienteNome:    "Cliente Teste",
		Descricao:      "Mensalidade",
		Valor:          120.50,
		DataVencimento: "2025-05-10",
		Status:         core.StatusPendente,
		Tipo:           core.TipoUnico,
	}

	ref, err := store.Upsert(ctx, f)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if ref != "mem:7" {
		t.Errorf("ref = %q, want mem:7", ref)
	}

	// Upsert with the same id replaces, never duplicates.
	f.Valor = 200
	if _, err := store.Upsert(ctx, f); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", store.Len())
	}
	got, ok := store.Get(7)
	if !ok {
		t.Fatal("Get(7) missing")
	}
	if got.Valor != 200 {
		t.Errorf("Valor = %v, want 200", got.Valor)
	}

	if err := store.Remove(ctx, 7); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d after remove, want 0", store.Len())
	}

	// Removing an unknown id is fine.
	if err := store.Remove(ctx, 99); err != nil {
		t.Errorf("Remove unknown id: %v", err)
	}
}

func TestUpsertValidates(t *testing.T) {
	store := New()
	_, err := store.Upsert(context.Background(), core.Faturamento{ID: 1})
	if err == nil {
		t.Fatal("Upsert should reject an invalid faturamento")
	}
}

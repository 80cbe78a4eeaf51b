package worker

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mateuscelis/sistema/internal/amqp"
	"github.com/mateuscelis/sistema/internal/core"
	"github.com/mateuscelis/sistema/internal/export/memory"
	"github.com/mateuscelis/sistema/internal/storage"
)

func newWorker(t *testing.T) (*ExportWorker, *storage.Repository, *memory.Store) {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	store := memory.New()
	return NewExportWorker(repo, store, store), repo, store
}

func seedFaturamento(t *testing.T, repo *storage.Repository) core.Faturamento {
	t.Helper()
	ctx := context.Background()
	cliente, err := repo.CreateCliente(ctx, core.Cliente{Nome: "Cliente Teste"})
	if err != nil {
		t.Fatalf("create cliente: %v", err)
	}
	f, err := repo.CreateFaturamento(ctx, core.Faturamento{
		ClienteID:      cliente.ID,
		Descricao:      "Consultoria",
		Valor:          500,
		DataVencimento: "2025-06-10",
		Status:         core.StatusPendente,
		Tipo:           core.TipoUnico,
	})
	if err != nil {
		t.Fatalf("create faturamento: %v", err)
	}
	return f
}

func TestHandleSyncMessageExport(t *testing.T) {
	w, repo, store := newWorker(t)
	f := seedFaturamento(t, repo)
	ctx := context.Background()

	msg := amqp.NewFaturamentoSyncMessage(f.ID, amqp.AcaoExportar)
	if err := w.HandleSyncMessage(ctx, msg); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}

	got, ok := store.Get(f.ID)
	if !ok {
		t.Fatalf("faturamento %d not exported", f.ID)
	}
	if got.Descricao != "Consultoria" || got.Valor != 500 {
		t.Errorf("exported row = %+v", got)
	}
}

func TestHandleSyncMessageRemove(t *testing.T) {
	w, repo, store := newWorker(t)
	f := seedFaturamento(t, repo)
	ctx := context.Background()

	if err := w.HandleSyncMessage(ctx, amqp.NewFaturamentoSyncMessage(f.ID, amqp.AcaoExportar)); err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := w.HandleSyncMessage(ctx, amqp.NewFaturamentoSyncMessage(f.ID, amqp.AcaoRemover)); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("store has %d rows after remove, want 0", store.Len())
	}
}

func TestExportOfDeletedRowDegradesToRemove(t *testing.T) {
	w, repo, store := newWorker(t)
	f := seedFaturamento(t, repo)
	ctx := context.Background()

	if err := w.HandleSyncMessage(ctx, amqp.NewFaturamentoSyncMessage(f.ID, amqp.AcaoExportar)); err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := repo.DeleteFaturamento(ctx, f.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// A stale export message for a deleted id must clean up, not fail.
	if err := w.HandleSyncMessage(ctx, amqp.NewFaturamentoSyncMessage(f.ID, amqp.AcaoExportar)); err != nil {
		t.Fatalf("stale export: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("store has %d rows, want 0", store.Len())
	}
}

func TestResyncAll(t *testing.T) {
	w, repo, store := newWorker(t)
	seedFaturamento(t, repo)
	seedFaturamento(t, repo)

	if err := w.ResyncAll(context.Background()); err != nil {
		t.Fatalf("ResyncAll: %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("store has %d rows, want 2", store.Len())
	}
}

func TestUnknownAcaoIsDropped(t *testing.T) {
	w, _, store := newWorker(t)

	msg := amqp.NewFaturamentoSyncMessage(1, "explodir")
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("unknown acao should not error: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("store has %d rows, want 0", store.Len())
	}
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/mateuscelis/sistema/internal/core"
)

func TestProcessAtrasados(t *testing.T) {
	repo := newTestRepo(t)
	cliente := newTestCliente(t, repo)
	svc := NewFaturamentoService(repo, nil)
	proc := NewProcessor(repo, svc)
	ctx := context.Background()

	vencido, err := svc.Create(ctx, core.Faturamento{
		ClienteID: cliente.ID, Descricao: "Vencido", Valor: 100, DataVencimento: "2025-01-10",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	emDia, err := svc.Create(ctx, core.Faturamento{
		ClienteID: cliente.ID, Descricao: "Em dia", Valor: 100, DataVencimento: "2025-12-10",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	count, err := proc.ProcessAtrasados(ctx, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ProcessAtrasados: %v", err)
	}
	if count != 1 {
		t.Fatalf("marked %d faturamentos, want 1", count)
	}

	got, err := repo.GetFaturamento(ctx, vencido.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != core.StatusAtrasado {
		t.Errorf("vencido status = %s, want %s", got.Status, core.StatusAtrasado)
	}
	got, err = repo.GetFaturamento(ctx, emDia.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != core.StatusPendente {
		t.Errorf("em dia status = %s, want %s", got.Status, core.StatusPendente)
	}
}

func TestProcessRecorrentesCatchUp(t *testing.T) {
	repo := newTestRepo(t)
	cliente := newTestCliente(t, repo)
	svc := NewFaturamentoService(repo, nil)
	proc := NewProcessor(repo, svc)
	ctx := context.Background()

	template, err := svc.Create(ctx, core.Faturamento{
		ClienteID:      cliente.ID,
		Descricao:      "Mensalidade hospedagem",
		Valor:          80,
		DataVencimento: "2025-01-10",
		Tipo:           core.TipoRecorrente,
		Recorrencia:    core.RecorrenciaMensal,
	})
	if err != nil {
		t.Fatalf("Create template: %v", err)
	}

	// Three cycles behind: occurrences for fev, mar and the upcoming abr.
	gerados, err := proc.ProcessRecorrentes(ctx, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ProcessRecorrentes: %v", err)
	}
	if gerados != 3 {
		t.Fatalf("gerados = %d, want 3", gerados)
	}

	faturamentos, err := repo.ListFaturamentosDoCliente(ctx, cliente.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	vencimentos := map[string]bool{}
	for _, f := range faturamentos {
		vencimentos[f.DataVencimento] = true
		if f.ID == template.ID {
			continue
		}
		if f.FaturamentoPaiID == nil || *f.FaturamentoPaiID != template.ID {
			t.Errorf("ocorrencia %d not linked to template %d", f.ID, template.ID)
		}
		if f.Tipo != core.TipoRecorrente {
			t.Errorf("ocorrencia %d tipo = %s, want %s", f.ID, f.Tipo, core.TipoRecorrente)
		}
	}
	for _, venc := range []string{"2025-02-10", "2025-03-10", "2025-04-10"} {
		if !vencimentos[venc] {
			t.Errorf("missing ocorrencia with vencimento %s", venc)
		}
	}

	// Running again before the next due date must be a no-op.
	gerados, err = proc.ProcessRecorrentes(ctx, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ProcessRecorrentes again: %v", err)
	}
	if gerados != 0 {
		t.Errorf("second run gerados = %d, want 0", gerados)
	}
}

func TestProcessRecorrentesIgnoresCancelados(t *testing.T) {
	repo := newTestRepo(t)
	cliente := newTestCliente(t, repo)
	svc := NewFaturamentoService(repo, nil)
	proc := NewProcessor(repo, svc)
	ctx := context.Background()

	template, err := svc.Create(ctx, core.Faturamento{
		ClienteID:      cliente.ID,
		Descricao:      "Assinatura encerrada",
		Valor:          50,
		DataVencimento: "2025-01-10",
		Tipo:           core.TipoRecorrente,
		Recorrencia:    core.RecorrenciaMensal,
	})
	if err != nil {
		t.Fatalf("Create template: %v", err)
	}
	template.Status = core.StatusCancelado
	if err := svc.Update(ctx, template, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("cancel template: %v", err)
	}

	gerados, err := proc.ProcessRecorrentes(ctx, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ProcessRecorrentes: %v", err)
	}
	if gerados != 0 {
		t.Errorf("gerados = %d, want 0 for cancelled template", gerados)
	}
}

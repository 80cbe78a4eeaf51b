// Package worker consumes faturamento sync messages and mirrors the rows
// into the configured export destination.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mateuscelis/sistema/internal/amqp"
	"github.com/mateuscelis/sistema/internal/export"
	"github.com/mateuscelis/sistema/internal/storage"
)

// ExportWorker keeps the spreadsheet in sync with the faturamentos table.
type ExportWorker struct {
	repo    *storage.Repository
	writer  export.FaturamentoWriter
	remover export.FaturamentoRemover
}

func NewExportWorker(repo *storage.Repository, writer export.FaturamentoWriter, remover export.FaturamentoRemover) *ExportWorker {
	return &ExportWorker{repo: repo, writer: writer, remover: remover}
}

// HandleSyncMessage processes one message from the queue. Export messages for
// ids deleted in the meantime degrade to a removal, so a slow worker never
// resurrects deleted rows.
func (w *ExportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.FaturamentoSyncMessage) error {
	switch msg.Acao {
	case amqp.AcaoExportar:
		return w.handleExport(ctx, msg.FaturamentoID)
	case amqp.AcaoRemover:
		return w.handleRemove(ctx, msg.FaturamentoID)
	default:
		// Unknown ações are dropped, requeueing would loop forever.
		slog.WarnContext(ctx, "Acao desconhecida ignorada",
			"faturamento_id", msg.FaturamentoID,
			"acao", msg.Acao)
		return nil
	}
}

func (w *ExportWorker) handleExport(ctx context.Context, id int64) error {
	f, err := w.repo.GetFaturamento(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return w.handleRemove(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("get faturamento %d: %w", id, err)
	}

	ref, err := w.writer.Upsert(ctx, f)
	if err != nil {
		return fmt.Errorf("export faturamento %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Faturamento sincronizado",
		"faturamento_id", id,
		"ref", ref,
		"descricao", f.Descricao,
		"valor", f.Valor)
	return nil
}

func (w *ExportWorker) handleRemove(ctx context.Context, id int64) error {
	if w.remover == nil {
		slog.WarnContext(ctx, "Nenhum removedor configurado, pulando remocao",
			"faturamento_id", id)
		return nil
	}
	if err := w.remover.Remove(ctx, id); err != nil {
		return fmt.Errorf("remove faturamento %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Faturamento removido do destino de exportacao",
		"faturamento_id", id)
	return nil
}

// ResyncAll re-exports every faturamento. Run at worker startup to recover
// from messages lost while the worker was down.
func (w *ExportWorker) ResyncAll(ctx context.Context) error {
	faturamentos, err := w.repo.ListFaturamentos(ctx)
	if err != nil {
		return fmt.Errorf("list faturamentos: %w", err)
	}
	if len(faturamentos) == 0 {
		slog.InfoContext(ctx, "Nenhum faturamento para ressincronizar")
		return nil
	}

	synced := 0
	failed := 0
	for _, f := range faturamentos {
		if _, err := w.writer.Upsert(ctx, f); err != nil {
			slog.ErrorContext(ctx, "Falha ao ressincronizar faturamento",
				"faturamento_id", f.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Ressincronizacao concluida",
		"total", len(faturamentos),
		"sincronizados", synced,
		"falhas", failed)
	if failed > 0 {
		return fmt.Errorf("resync finished with %d failures", failed)
	}
	return nil
}

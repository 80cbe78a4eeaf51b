// Package services holds the billing rules that sit between the HTTP
// handlers and storage: parcela generation, payment-date transitions,
// recurrence processing and export publishing.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/mateuscelis/sistema/internal/core"
	"github.com/mateuscelis/sistema/internal/storage"
)

// ExportPublisher publishes faturamento lifecycle messages for the export
// worker. A nil publisher disables exporting.
type ExportPublisher interface {
	PublishFaturamentoExport(ctx context.Context, id int64) error
	PublishFaturamentoDelete(ctx context.Context, id int64) error
}

// FaturamentoService orchestrates faturamento writes across storage and the
// export pipeline.
type FaturamentoService struct {
	repo      *storage.Repository
	publisher ExportPublisher
}

func NewFaturamentoService(repo *storage.Repository, publisher ExportPublisher) *FaturamentoService {
	return &FaturamentoService{repo: repo, publisher: publisher}
}

// Create validates and persists a faturamento. For tipo personalizado the
// submitted valor is a total: it is split into numero_parcelas monthly
// parcelas, the rounding remainder landing on the first. The first parcela is
// the returned (parent) row; the rest link back via faturamento_pai_id.
func (s *FaturamentoService) Create(ctx context.Context, f core.Faturamento) (core.Faturamento, error) {
	if f.Status == "" {
		f.Status = core.StatusPendente
	}
	if f.Tipo == "" {
		f.Tipo = core.TipoUnico
	}
	if err := f.Validate(); err != nil {
		return core.Faturamento{}, err
	}

	if f.Tipo != core.TipoPersonalizado {
		created, err := s.repo.CreateFaturamento(ctx, f)
		if err != nil {
			return core.Faturamento{}, err
		}
		s.publishExport(ctx, created.ID)
		return created, nil
	}

	valores := splitParcelas(f.Valor, f.NumeroParcelas)
	vencimento, err := core.ParseData(f.DataVencimento)
	if err != nil {
		return core.Faturamento{}, core.ErrDataInvalida
	}

	parent := f
	parent.Valor = valores[0]
	parent.ParcelaAtual = 1
	parent.Descricao = fmt.Sprintf("%s (1/%d)", f.Descricao, f.NumeroParcelas)
	created, err := s.repo.CreateFaturamento(ctx, parent)
	if err != nil {
		return core.Faturamento{}, err
	}
	s.publishExport(ctx, created.ID)

	for i := 2; i <= f.NumeroParcelas; i++ {
		vencimento = vencimento.AddDate(0, 1, 0)
		parcela := f
		parcela.Valor = valores[i-1]
		parcela.ParcelaAtual = i
		parcela.Descricao = fmt.Sprintf("%s (%d/%d)", f.Descricao, i, f.NumeroParcelas)
		parcela.DataVencimento = vencimento.Format(core.LayoutData)
		parcela.FaturamentoPaiID = &created.ID
		row, err := s.repo.CreateFaturamento(ctx, parcela)
		if err != nil {
			return core.Faturamento{}, fmt.Errorf("create parcela %d: %w", i, err)
		}
		s.publishExport(ctx, row.ID)
	}

	slog.InfoContext(ctx, "Faturamento parcelado criado",
		"faturamento_id", created.ID,
		"cliente_id", f.ClienteID,
		"numero_parcelas", f.NumeroParcelas,
		"valor_total", f.Valor)
	return created, nil
}

// Update applies an edit, enforcing the payment-date transition: moving to
// pago stamps data_pagamento with today when absent; leaving pago clears it.
func (s *FaturamentoService) Update(ctx context.Context, f core.Faturamento, hoje time.Time) error {
	if err := f.Validate(); err != nil {
		return err
	}

	if f.Status == core.StatusPago {
		if f.DataPagamento == "" {
			f.DataPagamento = hoje.Format(core.LayoutData)
		}
	} else {
		f.DataPagamento = ""
	}

	if err := s.repo.UpdateFaturamento(ctx, f); err != nil {
		return err
	}
	s.publishExport(ctx, f.ID)
	return nil
}

func (s *FaturamentoService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteFaturamento(ctx, id); err != nil {
		return err
	}
	if s.publisher != nil {
		if err := s.publisher.PublishFaturamentoDelete(ctx, id); err != nil {
			// Export is best-effort; the local delete already succeeded.
			slog.ErrorContext(ctx, "Falha ao publicar delete para exportacao",
				"faturamento_id", id, "error", err)
		}
	}
	return nil
}

func (s *FaturamentoService) publishExport(ctx context.Context, id int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishFaturamentoExport(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Falha ao publicar faturamento para exportacao",
			"faturamento_id", id, "error", err)
	}
}

// splitParcelas divides a total into n cent-exact parts, remainder on the
// first.
func splitParcelas(total float64, n int) []float64 {
	totalCents := int64(math.Round(total * 100))
	base := totalCents / int64(n)
	resto := totalCents % int64(n)

	valores := make([]float64, n)
	for i := range valores {
		cents := base
		if i == 0 {
			cents += resto
		}
		valores[i] = float64(cents) / 100.0
	}
	return valores
}

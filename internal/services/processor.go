package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mateuscelis/sistema/internal/core"
	"github.com/mateuscelis/sistema/internal/storage"
)

// maxOcorrenciasPorExecucao caps catch-up generation for a single template in
// one run, so a template idle for years cannot flood the table.
const maxOcorrenciasPorExecucao = 24

// Processor runs the periodic billing maintenance: marking pendente
// faturamentos atrasado once past due, and issuing the next occurrences of
// recurring templates.
type Processor struct {
	repo *storage.Repository
	svc  *FaturamentoService
}

func NewProcessor(repo *storage.Repository, svc *FaturamentoService) *Processor {
	return &Processor{repo: repo, svc: svc}
}

// Run executes one maintenance pass.
func (p *Processor) Run(ctx context.Context, now time.Time) error {
	atrasados, err := p.ProcessAtrasados(ctx, now)
	if err != nil {
		return err
	}
	gerados, err := p.ProcessRecorrentes(ctx, now)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Processamento concluido",
		"atrasados", atrasados,
		"ocorrencias_geradas", gerados)
	return nil
}

// ProcessAtrasados marks pendente faturamentos whose vencimento has passed.
func (p *Processor) ProcessAtrasados(ctx context.Context, now time.Time) (int64, error) {
	count, err := p.repo.MarkOverdue(ctx, now.Format(core.LayoutData))
	if err != nil {
		return 0, fmt.Errorf("process atrasados: %w", err)
	}
	return count, nil
}

// ProcessRecorrentes walks every recurring template and, whenever its latest
// occurrence has fallen due, issues the next one (catching up on missed
// cycles). A template with a broken recorrência is logged and skipped.
func (p *Processor) ProcessRecorrentes(ctx context.Context, now time.Time) (int, error) {
	templates, err := p.repo.ListRecorrentes(ctx)
	if err != nil {
		return 0, fmt.Errorf("process recorrentes: %w", err)
	}

	gerados := 0
	for _, template := range templates {
		n, err := p.processTemplate(ctx, template, now)
		if err != nil {
			slog.ErrorContext(ctx, "Falha ao processar recorrencia",
				"faturamento_id", template.ID,
				"recorrencia", string(template.Recorrencia),
				"error", err)
			continue
		}
		gerados += n
	}
	return gerados, nil
}

func (p *Processor) processTemplate(ctx context.Context, template core.Faturamento, now time.Time) (int, error) {
	checker, err := CheckerFor(template.Recorrencia)
	if err != nil {
		return 0, err
	}

	ultima, err := p.repo.UltimaOcorrencia(ctx, template.ID)
	if err != nil {
		return 0, err
	}
	venc, err := core.ParseData(ultima.DataVencimento)
	if err != nil {
		return 0, fmt.Errorf("vencimento invalido %q: %w", ultima.DataVencimento, err)
	}

	gerados := 0
	for !now.Before(venc) && gerados < maxOcorrenciasPorExecucao {
		venc = checker.Proxima(venc)
		ocorrencia := core.Faturamento{
			ClienteID:        template.ClienteID,
			ProdutoServicoID: template.ProdutoServicoID,
			Descricao:        template.Descricao,
			Valor:            template.Valor,
			DataVencimento:   venc.Format(core.LayoutData),
			Status:           core.StatusPendente,
			Tipo:             core.TipoRecorrente,
			Recorrencia:      template.Recorrencia,
			FaturamentoPaiID: &template.ID,
		}
		if _, err := p.svc.Create(ctx, ocorrencia); err != nil {
			return gerados, fmt.Errorf("create ocorrencia: %w", err)
		}
		gerados++
	}
	return gerados, nil
}

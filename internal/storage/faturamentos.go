package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mateuscelis/sistema/internal/core"
)

const faturamentoCols = `f.id, f.cliente_id, f.produto_servico_id, f.descricao, f.valor,
	f.data_vencimento, f.data_pagamento, f.status, f.tipo, f.recorrencia,
	f.numero_parcelas, f.parcela_atual, f.faturamento_pai_id, f.data_criacao`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFaturamento(row rowScanner, withClienteNome bool) (core.Faturamento, error) {
	var (
		f           core.Faturamento
		produtoID   sql.NullInt64
		pagamento   sql.NullString
		recorrencia sql.NullString
		parcelas    sql.NullInt64
		parcela     sql.NullInt64
		paiID       sql.NullInt64
		nome        sql.NullString
	)
	dest := []any{
		&f.ID, &f.ClienteID, &produtoID, &f.Descricao, &f.Valor,
		&f.DataVencimento, &pagamento, &f.Status, &f.Tipo, &recorrencia,
		&parcelas, &parcela, &paiID, &f.DataCriacao,
	}
	if withClienteNome {
		dest = append(dest, &nome)
	}
	if err := row.Scan(dest...); err != nil {
		return core.Faturamento{}, err
	}
	if produtoID.Valid {
		f.ProdutoServicoID = &produtoID.Int64
	}
	f.DataPagamento = pagamento.String
	f.Recorrencia = core.Recorrencia(recorrencia.String)
	f.NumeroParcelas = int(parcelas.Int64)
	f.ParcelaAtual = int(parcela.Int64)
	if paiID.Valid {
		f.FaturamentoPaiID = &paiID.Int64
	}
	f.ClienteNome = nome.String
	return f, nil
}

func (r *Repository) CreateFaturamento(ctx context.Context, f core.Faturamento) (core.Faturamento, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO faturamentos (cliente_id, produto_servico_id, descricao, valor,
			data_vencimento, data_pagamento, status, tipo, recorrencia,
			numero_parcelas, parcela_atual, faturamento_pai_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, data_criacao`,
		f.ClienteID, nullInt64(f.ProdutoServicoID), f.Descricao, f.Valor,
		f.DataVencimento, nullString(f.DataPagamento), f.Status, f.Tipo,
		nullString(string(f.Recorrencia)), nullInt(f.NumeroParcelas),
		nullInt(f.ParcelaAtual), nullInt64(f.FaturamentoPaiID))
	if err := row.Scan(&f.ID, &f.DataCriacao); err != nil {
		return core.Faturamento{}, fmt.Errorf("create faturamento: %w", err)
	}
	return f, nil
}

func (r *Repository) GetFaturamento(ctx context.Context, id int64) (core.Faturamento, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+faturamentoCols+`, c.nome
		FROM faturamentos f JOIN clientes c ON c.id = f.cliente_id
		WHERE f.id = ?`, id)
	f, err := scanFaturamento(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Faturamento{}, ErrNotFound
	}
	if err != nil {
		return core.Faturamento{}, fmt.Errorf("get faturamento: %w", err)
	}
	return f, nil
}

func (r *Repository) ListFaturamentos(ctx context.Context) ([]core.Faturamento, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+faturamentoCols+`, c.nome
		FROM faturamentos f JOIN clientes c ON c.id = f.cliente_id
		ORDER BY f.data_criacao DESC, f.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list faturamentos: %w", err)
	}
	return collectFaturamentos(rows, true)
}

func (r *Repository) ListFaturamentosDoCliente(ctx context.Context, clienteID int64) ([]core.Faturamento, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+faturamentoCols+`
		FROM faturamentos f
		WHERE f.cliente_id = ?
		ORDER BY f.data_criacao DESC, f.id DESC`, clienteID)
	if err != nil {
		return nil, fmt.Errorf("list faturamentos do cliente: %w", err)
	}
	return collectFaturamentos(rows, false)
}

func (r *Repository) UpdateFaturamento(ctx context.Context, f core.Faturamento) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE faturamentos
		SET descricao = ?, valor = ?, data_vencimento = ?, data_pagamento = ?, status = ?
		WHERE id = ?`,
		f.Descricao, f.Valor, f.DataVencimento, nullString(f.DataPagamento), f.Status, f.ID)
	if err != nil {
		return fmt.Errorf("update faturamento: %w", err)
	}
	return requireAffected(res)
}

func (r *Repository) DeleteFaturamento(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM faturamentos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete faturamento: %w", err)
	}
	return requireAffected(res)
}

// DashboardStats aggregates totals across all faturamentos. "vencido" counts
// rows already marked atrasado plus pendente rows past due on hoje.
func (r *Repository) DashboardStats(ctx context.Context, hoje string) (core.DashboardStats, error) {
	var stats core.DashboardStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'pendente' THEN valor END), 0),
			COALESCE(SUM(CASE WHEN status = 'atrasado'
				OR (status = 'pendente' AND data_vencimento < ?) THEN valor END), 0),
			COALESCE(SUM(CASE WHEN status = 'pago' THEN valor END), 0),
			COALESCE(SUM(CASE WHEN status = 'cancelado' THEN valor END), 0)
		FROM faturamentos`, hoje).
		Scan(&stats.AReceber, &stats.Vencido, &stats.Recebido, &stats.Cancelado)
	if err != nil {
		return core.DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+faturamentoCols+`, c.nome
		FROM faturamentos f JOIN clientes c ON c.id = f.cliente_id
		ORDER BY f.data_criacao DESC, f.id DESC
		LIMIT 10`)
	if err != nil {
		return core.DashboardStats{}, fmt.Errorf("ultimos faturamentos: %w", err)
	}
	stats.UltimosFaturamentos, err = collectFaturamentos(rows, true)
	if err != nil {
		return core.DashboardStats{}, err
	}
	return stats, nil
}

// ResumoMensal aggregates the faturamentos whose vencimento falls in
// (mes, ano) and returns them alongside the four totals.
func (r *Repository) ResumoMensal(ctx context.Context, mes, ano int, hoje string) (core.ResumoMensal, error) {
	resumo := core.ResumoMensal{Mes: mes, Ano: ano}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+faturamentoCols+`, c.nome
		FROM faturamentos f JOIN clientes c ON c.id = f.cliente_id
		WHERE CAST(strftime('%m', f.data_vencimento) AS INTEGER) = ?
		  AND CAST(strftime('%Y', f.data_vencimento) AS INTEGER) = ?
		ORDER BY f.data_vencimento, f.id`, mes, ano)
	if err != nil {
		return core.ResumoMensal{}, fmt.Errorf("resumo mensal: %w", err)
	}
	faturamentos, err := collectFaturamentos(rows, true)
	if err != nil {
		return core.ResumoMensal{}, err
	}

	resumo.Faturamentos = faturamentos
	for _, f := range faturamentos {
		switch {
		case f.Status == core.StatusAtrasado,
			f.Status == core.StatusPendente && f.DataVencimento < hoje:
			resumo.TotalVencido += f.Valor
		}
		switch f.Status {
		case core.StatusPendente:
			resumo.TotalPendente += f.Valor
		case core.StatusPago:
			resumo.TotalRecebido += f.Valor
		case core.StatusCancelado:
			resumo.TotalCancelado += f.Valor
		}
	}
	return resumo, nil
}

// MarkOverdue flips pendente faturamentos past due on hoje to atrasado and
// returns how many rows changed.
func (r *Repository) MarkOverdue(ctx context.Context, hoje string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE faturamentos SET status = 'atrasado'
		WHERE status = 'pendente' AND data_vencimento < ?`, hoje)
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}
	return res.RowsAffected()
}

// ListRecorrentes returns the template rows for recurring billing: tipo
// recorrente faturamentos that are not themselves generated occurrences.
func (r *Repository) ListRecorrentes(ctx context.Context) ([]core.Faturamento, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+faturamentoCols+`
		FROM faturamentos f
		WHERE f.tipo = 'recorrente' AND f.faturamento_pai_id IS NULL
		  AND f.status != 'cancelado'
		ORDER BY f.id`)
	if err != nil {
		return nil, fmt.Errorf("list recorrentes: %w", err)
	}
	return collectFaturamentos(rows, false)
}

// UltimaOcorrencia returns the latest vencimento among a recurring template
// and its generated occurrences.
func (r *Repository) UltimaOcorrencia(ctx context.Context, paiID int64) (core.Faturamento, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+faturamentoCols+`
		FROM faturamentos f
		WHERE f.id = ? OR f.faturamento_pai_id = ?
		ORDER BY f.data_vencimento DESC, f.id DESC
		LIMIT 1`, paiID, paiID)
	f, err := scanFaturamento(row, false)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Faturamento{}, ErrNotFound
	}
	if err != nil {
		return core.Faturamento{}, fmt.Errorf("ultima ocorrencia: %w", err)
	}
	return f, nil
}

func collectFaturamentos(rows *sql.Rows, withClienteNome bool) ([]core.Faturamento, error) {
	defer rows.Close()
	faturamentos := []core.Faturamento{}
	for rows.Next() {
		f, err := scanFaturamento(rows, withClienteNome)
		if err != nil {
			return nil, fmt.Errorf("scan faturamento: %w", err)
		}
		faturamentos = append(faturamentos, f)
	}
	return faturamentos, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

func nullInt64(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

// Package storage persists clientes, produtos, anotações and faturamentos in
// SQLite. Schema is managed by embedded migrations; foreign keys are enabled
// so deleting a cliente cascades over everything it owns.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mateuscelis/sistema/internal/core"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("registro nao encontrado")

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

// Ping reports whether the database is reachable, for readiness checks.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Clientes

func (r *Repository) CreateCliente(ctx context.Context, c core.Cliente) (core.Cliente, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO clientes (nome, contato, email, telefone)
		VALUES (?, ?, ?, ?)
		RETURNING id, data_cadastro`,
		c.Nome, c.Contato, c.Email, c.Telefone)
	if err := row.Scan(&c.ID, &c.DataCadastro); err != nil {
		return core.Cliente{}, fmt.Errorf("create cliente: %w", err)
	}
	return c, nil
}

func (r *Repository) ListClientes(ctx context.Context) ([]core.Cliente, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, nome, contato, email, telefone, data_cadastro
		FROM clientes ORDER BY nome`)
	if err != nil {
		return nil, fmt.Errorf("list clientes: %w", err)
	}
	defer rows.Close()

	clientes := []core.Cliente{}
	for rows.Next() {
		var c core.Cliente
		if err := rows.Scan(&c.ID, &c.Nome, &c.Contato, &c.Email, &c.Telefone, &c.DataCadastro); err != nil {
			return nil, fmt.Errorf("scan cliente: %w", err)
		}
		clientes = append(clientes, c)
	}
	return clientes, rows.Err()
}

func (r *Repository) GetCliente(ctx context.Context, id int64) (core.Cliente, error) {
	var c core.Cliente
	err := r.db.QueryRowContext(ctx, `
		SELECT id, nome, contato, email, telefone, data_cadastro
		FROM clientes WHERE id = ?`, id).
		Scan(&c.ID, &c.Nome, &c.Contato, &c.Email, &c.Telefone, &c.DataCadastro)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Cliente{}, ErrNotFound
	}
	if err != nil {
		return core.Cliente{}, fmt.Errorf("get cliente: %w", err)
	}
	return c, nil
}

// GetClienteDetalhe loads a cliente with its produtos, anotações and
// faturamentos embedded, the shape served by GET /clientes/{id}.
func (r *Repository) GetClienteDetalhe(ctx context.Context, id int64) (core.ClienteDetalhe, error) {
	cliente, err := r.GetCliente(ctx, id)
	if err != nil {
		return core.ClienteDetalhe{}, err
	}

	detalhe := core.ClienteDetalhe{Cliente: cliente}

	if detalhe.Produtos, err = r.ListProdutosDoCliente(ctx, id); err != nil {
		return core.ClienteDetalhe{}, err
	}
	if detalhe.Anotacoes, err = r.ListAnotacoesDoCliente(ctx, id); err != nil {
		return core.ClienteDetalhe{}, err
	}
	if detalhe.Faturamentos, err = r.ListFaturamentosDoCliente(ctx, id); err != nil {
		return core.ClienteDetalhe{}, err
	}
	return detalhe, nil
}

func (r *Repository) UpdateCliente(ctx context.Context, c core.Cliente) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE clientes SET nome = ?, contato = ?, email = ?, telefone = ?
		WHERE id = ?`,
		c.Nome, c.Contato, c.Email, c.Telefone, c.ID)
	if err != nil {
		return fmt.Errorf("update cliente: %w", err)
	}
	return requireAffected(res)
}

func (r *Repository) DeleteCliente(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clientes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete cliente: %w", err)
	}
	return requireAffected(res)
}

// Produtos/Serviços

func (r *Repository) CreateProduto(ctx context.Context, p core.ProdutoServico) (core.ProdutoServico, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO produtos_servicos (cliente_id, nome, descricao, valor)
		VALUES (?, ?, ?, ?)
		RETURNING id, data_cadastro`,
		p.ClienteID, p.Nome, p.Descricao, p.Valor)
	if err := row.Scan(&p.ID, &p.DataCadastro); err != nil {
		return core.ProdutoServico{}, fmt.Errorf("create produto: %w", err)
	}
	return p, nil
}

func (r *Repository) GetProduto(ctx context.Context, id int64) (core.ProdutoServico, error) {
	var p core.ProdutoServico
	err := r.db.QueryRowContext(ctx, `
		SELECT id, cliente_id, nome, descricao, valor, data_cadastro
		FROM produtos_servicos WHERE id = ?`, id).
		Scan(&p.ID, &p.ClienteID, &p.Nome, &p.Descricao, &p.Valor, &p.DataCadastro)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ProdutoServico{}, ErrNotFound
	}
	if err != nil {
		return core.ProdutoServico{}, fmt.Errorf("get produto: %w", err)
	}
	return p, nil
}

func (r *Repository) ListProdutosDoCliente(ctx context.Context, clienteID int64) ([]core.ProdutoServico, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, cliente_id, nome, descricao, valor, data_cadastro
		FROM produtos_servicos WHERE cliente_id = ? ORDER BY nome`, clienteID)
	if err != nil {
		return nil, fmt.Errorf("list produtos: %w", err)
	}
	defer rows.Close()

	produtos := []core.ProdutoServico{}
	for rows.Next() {
		var p core.ProdutoServico
		if err := rows.Scan(&p.ID, &p.ClienteID, &p.Nome, &p.Descricao, &p.Valor, &p.DataCadastro); err != nil {
			return nil, fmt.Errorf("scan produto: %w", err)
		}
		produtos = append(produtos, p)
	}
	return produtos, rows.Err()
}

func (r *Repository) UpdateProduto(ctx context.Context, p core.ProdutoServico) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE produtos_servicos SET nome = ?, descricao = ?, valor = ?
		WHERE id = ?`,
		p.Nome, p.Descricao, p.Valor, p.ID)
	if err != nil {
		return fmt.Errorf("update produto: %w", err)
	}
	return requireAffected(res)
}

func (r *Repository) DeleteProduto(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM produtos_servicos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete produto: %w", err)
	}
	return requireAffected(res)
}

// Anotações

func (r *Repository) CreateAnotacao(ctx context.Context, a core.Anotacao) (core.Anotacao, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO anotacoes (cliente_id, titulo, conteudo)
		VALUES (?, ?, ?)
		RETURNING id, data_criacao`,
		a.ClienteID, a.Titulo, a.Conteudo)
	if err := row.Scan(&a.ID, &a.DataCriacao); err != nil {
		return core.Anotacao{}, fmt.Errorf("create anotacao: %w", err)
	}
	return a, nil
}

func (r *Repository) GetAnotacao(ctx context.Context, id int64) (core.Anotacao, error) {
	var a core.Anotacao
	err := r.db.QueryRowContext(ctx, `
		SELECT id, cliente_id, titulo, conteudo, data_criacao
		FROM anotacoes WHERE id = ?`, id).
		Scan(&a.ID, &a.ClienteID, &a.Titulo, &a.Conteudo, &a.DataCriacao)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Anotacao{}, ErrNotFound
	}
	if err != nil {
		return core.Anotacao{}, fmt.Errorf("get anotacao: %w", err)
	}
	return a, nil
}

func (r *Repository) ListAnotacoesDoCliente(ctx context.Context, clienteID int64) ([]core.Anotacao, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, cliente_id, titulo, conteudo, data_criacao
		FROM anotacoes WHERE cliente_id = ? ORDER BY data_criacao DESC`, clienteID)
	if err != nil {
		return nil, fmt.Errorf("list anotacoes: %w", err)
	}
	defer rows.Close()

	anotacoes := []core.Anotacao{}
	for rows.Next() {
		var a core.Anotacao
		if err := rows.Scan(&a.ID, &a.ClienteID, &a.Titulo, &a.Conteudo, &a.DataCriacao); err != nil {
			return nil, fmt.Errorf("scan anotacao: %w", err)
		}
		anotacoes = append(anotacoes, a)
	}
	return anotacoes, rows.Err()
}

func (r *Repository) UpdateAnotacao(ctx context.Context, a core.Anotacao) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE anotacoes SET titulo = ?, conteudo = ? WHERE id = ?`,
		a.Titulo, a.Conteudo, a.ID)
	if err != nil {
		return fmt.Errorf("update anotacao: %w", err)
	}
	return requireAffected(res)
}

func (r *Repository) DeleteAnotacao(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM anotacoes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete anotacao: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

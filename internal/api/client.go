// Package api is the remote data gateway used by the terminal client. All
// access to the REST backend goes through Client; failures come back as
// *RemoteError so callers can decide how to surface them.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/mateuscelis/sistema/internal/core"
	"github.com/mateuscelis/sistema/internal/log"
)

// RemoteError describes a non-2xx backend response.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("erro %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *log.Logger
}

func NewClient(baseURL string, logger *log.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
		logger:  logger.WithComponent(log.ComponentAPI),
	}
}

// do performs one request. A non-nil body is JSON-encoded; a non-nil out is
// filled from a JSON response. 204 responses leave out untouched.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "Falha na requisicao",
			log.FieldMethod, method,
			log.FieldPath, path,
			log.FieldError, err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		remote := &RemoteError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp),
		}
		c.logger.ErrorContext(ctx, "Resposta de erro do servidor",
			log.FieldMethod, method,
			log.FieldPath, path,
			log.FieldStatusCode, resp.StatusCode,
			log.FieldError, remote.Message)
		return remote
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response of %s %s: %w", method, path, err)
	}
	return nil
}

// errorMessage extracts the {"error": ...} payload, falling back to the raw
// body and finally to the HTTP status text.
func errorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(data) == 0 {
		return http.StatusText(resp.StatusCode)
	}

	if ct, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil && ct == "application/json" {
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
			return payload.Error
		}
	}

	msg := strings.TrimSpace(string(data))
	if msg == "" {
		return http.StatusText(resp.StatusCode)
	}
	return msg
}

// Clientes

func (c *Client) ListClientes(ctx context.Context) ([]core.Cliente, error) {
	var clientes []core.Cliente
	if err := c.do(ctx, http.MethodGet, "/clientes", nil, &clientes); err != nil {
		return nil, err
	}
	return clientes, nil
}

func (c *Client) CreateCliente(ctx context.Context, cliente core.Cliente) (core.Cliente, error) {
	var created core.Cliente
	if err := c.do(ctx, http.MethodPost, "/clientes", cliente, &created); err != nil {
		return core.Cliente{}, err
	}
	return created, nil
}

func (c *Client) GetCliente(ctx context.Context, id int64) (core.ClienteDetalhe, error) {
	var detalhe core.ClienteDetalhe
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/clientes/%d", id), nil, &detalhe); err != nil {
		return core.ClienteDetalhe{}, err
	}
	return detalhe, nil
}

func (c *Client) UpdateCliente(ctx context.Context, cliente core.Cliente) (core.Cliente, error) {
	var updated core.Cliente
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/clientes/%d", cliente.ID), cliente, &updated); err != nil {
		return core.Cliente{}, err
	}
	return updated, nil
}

func (c *Client) DeleteCliente(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/clientes/%d", id), nil, nil)
}

// Produtos

func (c *Client) CreateProduto(ctx context.Context, clienteID int64, produto core.ProdutoServico) (core.ProdutoServico, error) {
	var created core.ProdutoServico
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/clientes/%d/produtos", clienteID), produto, &created); err != nil {
		return core.ProdutoServico{}, err
	}
	return created, nil
}

func (c *Client) GetProduto(ctx context.Context, id int64) (core.ProdutoServico, error) {
	var produto core.ProdutoServico
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/produtos/%d", id), nil, &produto); err != nil {
		return core.ProdutoServico{}, err
	}
	return produto, nil
}

func (c *Client) UpdateProduto(ctx context.Context, produto core.ProdutoServico) (core.ProdutoServico, error) {
	var updated core.ProdutoServico
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/produtos/%d", produto.ID), produto, &updated); err != nil {
		return core.ProdutoServico{}, err
	}
	return updated, nil
}

func (c *Client) DeleteProduto(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/produtos/%d", id), nil, nil)
}

// Anotações

func (c *Client) CreateAnotacao(ctx context.Context, clienteID int64, anotacao core.Anotacao) (core.Anotacao, error) {
	var created core.Anotacao
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/clientes/%d/anotacoes", clienteID), anotacao, &created); err != nil {
		return core.Anotacao{}, err
	}
	return created, nil
}

func (c *Client) GetAnotacao(ctx context.Context, id int64) (core.Anotacao, error) {
	var anotacao core.Anotacao
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/anotacoes/%d", id), nil, &anotacao); err != nil {
		return core.Anotacao{}, err
	}
	return anotacao, nil
}

func (c *Client) UpdateAnotacao(ctx context.Context, anotacao core.Anotacao) (core.Anotacao, error) {
	var updated core.Anotacao
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/anotacoes/%d", anotacao.ID), anotacao, &updated); err != nil {
		return core.Anotacao{}, err
	}
	return updated, nil
}

func (c *Client) DeleteAnotacao(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/anotacoes/%d", id), nil, nil)
}

// Faturamentos

func (c *Client) ListFaturamentos(ctx context.Context) ([]core.Faturamento, error) {
	var faturamentos []core.Faturamento
	if err := c.do(ctx, http.MethodGet, "/faturamentos", nil, &faturamentos); err != nil {
		return nil, err
	}
	return faturamentos, nil
}

func (c *Client) CreateFaturamento(ctx context.Context, clienteID int64, faturamento core.Faturamento) (core.Faturamento, error) {
	var created core.Faturamento
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/clientes/%d/faturamentos", clienteID), faturamento, &created); err != nil {
		return core.Faturamento{}, err
	}
	return created, nil
}

func (c *Client) GetFaturamento(ctx context.Context, id int64) (core.Faturamento, error) {
	var faturamento core.Faturamento
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/faturamentos/%d", id), nil, &faturamento); err != nil {
		return core.Faturamento{}, err
	}
	return faturamento, nil
}

func (c *Client) UpdateFaturamento(ctx context.Context, faturamento core.Faturamento) (core.Faturamento, error) {
	var updated core.Faturamento
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/faturamentos/%d", faturamento.ID), faturamento, &updated); err != nil {
		return core.Faturamento{}, err
	}
	return updated, nil
}

func (c *Client) DeleteFaturamento(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/faturamentos/%d", id), nil, nil)
}

// UpdateStatus changes one faturamento's status through the regular update
// endpoint, carrying the stored row so no other field moves.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status core.Status) (core.Faturamento, error) {
	faturamento, err := c.GetFaturamento(ctx, id)
	if err != nil {
		return core.Faturamento{}, err
	}
	faturamento.Status = status
	return c.UpdateFaturamento(ctx, faturamento)
}

// MarkOverdue asks the server to flip every pendente faturamento past due to
// atrasado, returning how many rows changed.
func (c *Client) MarkOverdue(ctx context.Context) (int64, error) {
	var resp struct {
		Message string `json:"message"`
		Count   int64  `json:"count"`
	}
	if err := c.do(ctx, http.MethodPost, "/faturamentos/update-status", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// ListFaturamentosComClientes assembles the aggregate faturamento list from
// each cliente's detail, attaching cliente_nome. Detail fetches run
// sequentially; a failed cliente is logged and skipped so one bad record
// cannot empty the whole listing.
func (c *Client) ListFaturamentosComClientes(ctx context.Context) ([]core.Faturamento, error) {
	clientes, err := c.ListClientes(ctx)
	if err != nil {
		return nil, err
	}

	faturamentos := make([]core.Faturamento, 0)
	for _, cliente := range clientes {
		detalhe, err := c.GetCliente(ctx, cliente.ID)
		if err != nil {
			c.logger.ErrorContext(ctx, "Falha ao carregar detalhe do cliente, pulando",
				log.FieldClienteID, cliente.ID,
				log.FieldClienteNome, cliente.Nome,
				log.FieldError, err)
			continue
		}
		for _, f := range detalhe.Faturamentos {
			f.ClienteNome = cliente.Nome
			faturamentos = append(faturamentos, f)
		}
	}
	return faturamentos, nil
}

// Dashboard

func (c *Client) DashboardStats(ctx context.Context) (core.DashboardStats, error) {
	var stats core.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, &stats); err != nil {
		return core.DashboardStats{}, err
	}
	return stats, nil
}

func (c *Client) ResumoMensal(ctx context.Context, mes, ano int) (core.ResumoMensal, error) {
	var resumo core.ResumoMensal
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/resumo-mensal?mes=%d&ano=%d", mes, ano), nil, &resumo); err != nil {
		return core.ResumoMensal{}, err
	}
	return resumo, nil
}

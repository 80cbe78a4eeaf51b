package core

import (
	"errors"
	"strings"
)

// Status de um faturamento ao longo do seu ciclo de vida.
const (
	StatusPendente  Status = "pendente"
	StatusPago      Status = "pago"
	StatusAtrasado  Status = "atrasado"
	StatusCancelado Status = "cancelado"
)

// Tipo de cobrança.
const (
	TipoUnico         Tipo = "unico"
	TipoRecorrente    Tipo = "recorrente"
	TipoPersonalizado Tipo = "personalizado"
)

// Período de recorrência para faturamentos recorrentes.
const (
	RecorrenciaSemanal   Recorrencia = "semanal"
	RecorrenciaQuinzenal Recorrencia = "quinzenal"
	RecorrenciaMensal    Recorrencia = "mensal"
	RecorrenciaAnual     Recorrencia = "anual"
)

type (
	Status      string
	Tipo        string
	Recorrencia string

	Cliente struct {
		ID           int64  `json:"id"`
		Nome         string `json:"nome"`
		Contato      string `json:"contato"`
		Email        string `json:"email"`
		Telefone     string `json:"telefone"`
		DataCadastro string `json:"data_cadastro,omitempty"`
	}

	// ClienteDetalhe is the payload of GET /clientes/{id}: the cliente with
	// its owned collections embedded.
	ClienteDetalhe struct {
		Cliente
		Produtos     []ProdutoServico `json:"produtos"`
		Anotacoes    []Anotacao       `json:"anotacoes"`
		Faturamentos []Faturamento    `json:"faturamentos"`
	}

	ProdutoServico struct {
		ID           int64   `json:"id"`
		ClienteID    int64   `json:"cliente_id"`
		Nome         string  `json:"nome"`
		Descricao    string  `json:"descricao,omitempty"`
		Valor        float64 `json:"valor"`
		DataCadastro string  `json:"data_cadastro,omitempty"`
	}

	Anotacao struct {
		ID          int64  `json:"id"`
		ClienteID   int64  `json:"cliente_id"`
		Titulo      string `json:"titulo"`
		Conteudo    string `json:"conteudo"`
		DataCriacao string `json:"data_criacao,omitempty"`
	}

	Faturamento struct {
		ID               int64       `json:"id"`
		ClienteID        int64       `json:"cliente_id"`
		ProdutoServicoID *int64      `json:"produto_servico_id,omitempty"`
		Descricao        string      `json:"descricao"`
		Valor            float64     `json:"valor"`
		DataVencimento   string      `json:"data_vencimento"`
		DataPagamento    string      `json:"data_pagamento,omitempty"`
		Status           Status      `json:"status"`
		Tipo             Tipo        `json:"tipo"`
		Recorrencia      Recorrencia `json:"recorrencia,omitempty"`
		NumeroParcelas   int         `json:"numero_parcelas,omitempty"`
		ParcelaAtual     int         `json:"parcela_atual,omitempty"`
		FaturamentoPaiID *int64      `json:"faturamento_pai_id,omitempty"`
		DataCriacao      string      `json:"data_criacao,omitempty"`

		// ClienteNome is display-only and filled where a join is available;
		// it is never written back to the server.
		ClienteNome string `json:"cliente_nome,omitempty"`
	}

	// ResumoMensal aggregates faturamento totals for one calendar month.
	ResumoMensal struct {
		Mes            int           `json:"mes"`
		Ano            int           `json:"ano"`
		TotalPendente  float64       `json:"total_pendente"`
		TotalVencido   float64       `json:"total_vencido"`
		TotalRecebido  float64       `json:"total_recebido"`
		TotalCancelado float64       `json:"total_cancelado"`
		Faturamentos   []Faturamento `json:"faturamentos"`
	}

	// DashboardStats mirrors GET /dashboard/stats.
	DashboardStats struct {
		AReceber            float64       `json:"a_receber"`
		Vencido             float64       `json:"vencido"`
		Recebido            float64       `json:"recebido"`
		Cancelado           float64       `json:"cancelado"`
		UltimosFaturamentos []Faturamento `json:"ultimos_faturamentos"`
	}
)

var (
	ErrNomeVazio           = errors.New("nome vazio")
	ErrNomeMuitoLongo      = errors.New("nome muito longo (max 100 caracteres)")
	ErrTituloVazio         = errors.New("titulo vazio")
	ErrConteudoVazio       = errors.New("conteudo vazio")
	ErrDescricaoVazia      = errors.New("descricao vazia")
	ErrDescricaoMuitoLonga = errors.New("descricao muito longa (max 200 caracteres)")
	ErrValorInvalido       = errors.New("valor invalido")
	ErrDataInvalida        = errors.New("data invalida")
	ErrStatusInvalido      = errors.New("status invalido")
	ErrTipoInvalido        = errors.New("tipo invalido")
	ErrRecorrenciaInvalida = errors.New("recorrencia invalida")
	ErrParcelasInvalidas   = errors.New("numero de parcelas invalido")
)

func (s Status) Valid() bool {
	switch s {
	case StatusPendente, StatusPago, StatusAtrasado, StatusCancelado:
		return true
	}
	return false
}

func (t Tipo) Valid() bool {
	switch t {
	case TipoUnico, TipoRecorrente, TipoPersonalizado:
		return true
	}
	return false
}

func (r Recorrencia) Valid() bool {
	switch r {
	case RecorrenciaSemanal, RecorrenciaQuinzenal, RecorrenciaMensal, RecorrenciaAnual:
		return true
	}
	return false
}

func (c Cliente) Validate() error {
	if strings.TrimSpace(c.Nome) == "" {
		return ErrNomeVazio
	}
	if len(c.Nome) > 100 {
		return ErrNomeMuitoLongo
	}
	return nil
}

func (p ProdutoServico) Validate() error {
	if strings.TrimSpace(p.Nome) == "" {
		return ErrNomeVazio
	}
	if p.Valor <= 0 {
		return ErrValorInvalido
	}
	return nil
}

func (a Anotacao) Validate() error {
	if strings.TrimSpace(a.Titulo) == "" {
		return ErrTituloVazio
	}
	if strings.TrimSpace(a.Conteudo) == "" {
		return ErrConteudoVazio
	}
	return nil
}

func (f Faturamento) Validate() error {
	if strings.TrimSpace(f.Descricao) == "" {
		return ErrDescricaoVazia
	}
	if len(f.Descricao) > 200 {
		return ErrDescricaoMuitoLonga
	}
	if f.Valor <= 0 {
		return ErrValorInvalido
	}
	if _, err := ParseData(f.DataVencimento); err != nil {
		return ErrDataInvalida
	}
	if f.Status != "" && !f.Status.Valid() {
		return ErrStatusInvalido
	}
	tipo := f.Tipo
	if tipo == "" {
		tipo = TipoUnico
	}
	if !tipo.Valid() {
		return ErrTipoInvalido
	}
	switch tipo {
	case TipoRecorrente:
		if !f.Recorrencia.Valid() {
			return ErrRecorrenciaInvalida
		}
	case TipoPersonalizado:
		if f.NumeroParcelas < 2 {
			return ErrParcelasInvalidas
		}
	}
	return nil
}

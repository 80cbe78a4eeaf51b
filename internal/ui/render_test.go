package ui

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mateuscelis/sistema/internal/core"
)

func TestRenderFaturamentosEmptyState(t *testing.T) {
	out := RenderFaturamentos(nil, 0, 80)

	if !strings.Contains(out, placeholderFaturamentos) {
		t.Errorf("missing placeholder, got %q", out)
	}
	// Exactly one placeholder line and zero data rows.
	if n := strings.Count(out, "\n"); n != 1 {
		t.Errorf("empty state has %d lines, want 1", n)
	}
}

func TestRenderFaturamentosRowsAndOrder(t *testing.T) {
	faturamentos := []core.Faturamento{
		{ID: 1, ClienteNome: "Alfa", Descricao: "Antigo", Valor: 10, DataVencimento: "2025-01-10", Status: core.StatusPago, DataCriacao: "2025-01-01T10:00:00"},
		{ID: 2, ClienteNome: "Beta", Descricao: "Recente", Valor: 20, DataVencimento: "2025-03-10", Status: core.StatusPendente, DataCriacao: "2025-03-01T10:00:00"},
		{ID: 3, ClienteNome: "Gama", Descricao: "SemData", Valor: 30, DataVencimento: "2025-02-10", Status: core.StatusPendente, DataCriacao: "invalida"},
	}

	out := RenderFaturamentos(faturamentos, -1, 120)

	// Header + 3 data rows.
	if n := strings.Count(out, "\n"); n != 4 {
		t.Fatalf("output has %d lines, want 4:\n%s", n, out)
	}

	// Descending by data_criacao, unparseable dates last.
	iRecente := strings.Index(out, "Recente")
	iAntigo := strings.Index(out, "Antigo")
	iSemData := strings.Index(out, "SemData")
	if !(iRecente < iAntigo && iAntigo < iSemData) {
		t.Errorf("order wrong: Recente@%d Antigo@%d SemData@%d", iRecente, iAntigo, iSemData)
	}
}

func TestRenderClientes(t *testing.T) {
	if out := RenderClientes(nil, 0, 80); !strings.Contains(out, placeholderClientes) {
		t.Errorf("empty state = %q", out)
	}

	clientes := []core.Cliente{
		{ID: 1, Nome: "Empresa Alfa", Email: "a@alfa.com"},
		{ID: 2, Nome: "Empresa Beta", Email: "b@beta.com"},
	}
	out := RenderClientes(clientes, 1, 80)
	if n := strings.Count(out, "\n"); n != 2 {
		t.Errorf("output has %d lines, want 2", n)
	}
	if !strings.Contains(out, "> ") {
		t.Error("cursor row not marked")
	}
}

func TestRenderClientesPreservaUTF8EmLarguraEstreita(t *testing.T) {
	clientes := []core.Cliente{
		{ID: 1, Nome: strings.Repeat("ção", 20), Email: "joão@empresa.com.br"},
	}

	// Every width must cut between runes, never through one.
	for width := 1; width < 60; width++ {
		out := RenderClientes(clientes, 0, width)
		if !utf8.ValidString(out) {
			t.Fatalf("width %d produced invalid UTF-8: %q", width, out)
		}
	}
}

func TestRenderProdutosEmptyAndRows(t *testing.T) {
	if out := RenderProdutos(nil, 0, 80); !strings.Contains(out, placeholderProdutos) {
		t.Errorf("empty state = %q", out)
	}

	produtos := []core.ProdutoServico{{ID: 1, Nome: "Hospedagem", Valor: 49.9}}
	out := RenderProdutos(produtos, -1, 80)
	if !strings.Contains(out, "Hospedagem") || !strings.Contains(out, "R$ 49,90") {
		t.Errorf("row = %q", out)
	}
}

func TestRenderAnotacoesSortsDescending(t *testing.T) {
	anotacoes := []core.Anotacao{
		{ID: 1, Titulo: "Primeira", Conteudo: "x", DataCriacao: "2025-01-01T08:00:00"},
		{ID: 2, Titulo: "Segunda", Conteudo: "y", DataCriacao: "2025-05-01T08:00:00"},
	}
	out := RenderAnotacoes(anotacoes, -1, 80)

	if strings.Index(out, "Segunda") > strings.Index(out, "Primeira") {
		t.Errorf("anotações not descending:\n%s", out)
	}
}

func TestRenderDashboardTotals(t *testing.T) {
	stats := core.DashboardStats{AReceber: 1234.56, Recebido: 10}
	resumo := core.ResumoMensal{Mes: 6, Ano: 2025, TotalPendente: 100}

	out := RenderDashboard(stats, resumo, 100)
	if !strings.Contains(out, "R$ 1.234,56") {
		t.Errorf("a_receber not formatted BRL:\n%s", out)
	}
	if !strings.Contains(out, "Junho") || !strings.Contains(out, "2025") {
		t.Errorf("resumo header missing month name:\n%s", out)
	}
	if !strings.Contains(out, placeholderUltimos) {
		t.Errorf("empty recent list placeholder missing:\n%s", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("curto", 10); got != "curto" {
		t.Errorf("truncate(curto) = %q", got)
	}
	if got := truncate("uma descricao bem comprida", 10); got != "uma des..." {
		t.Errorf("truncate long = %q", got)
	}
}

package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mateuscelis/sistema/internal/core"
)

// Empty-state placeholders, one line each.
const (
	placeholderClientes     = "Nenhum cliente cadastrado"
	placeholderFaturamentos = "Nenhum faturamento encontrado"
	placeholderProdutos     = "Nenhum produto ou serviço cadastrado"
	placeholderAnotacoes    = "Nenhuma anotação cadastrada"
	placeholderUltimos      = "Nenhum faturamento recente"
)

// SortPorCriacao returns a copy sorted by data_criacao descending. Rows with
// absent or unparseable dates sort as the zero time, landing at the end.
func SortPorCriacao(faturamentos []core.Faturamento) []core.Faturamento {
	out := append([]core.Faturamento(nil), faturamentos...)
	sort.SliceStable(out, func(i, j int) bool {
		return core.ParseTimestamp(out[i].DataCriacao).After(core.ParseTimestamp(out[j].DataCriacao))
	})
	return out
}

// SortAnotacoes returns a copy sorted by data_criacao descending, same zero
// time rule as SortPorCriacao.
func SortAnotacoes(anotacoes []core.Anotacao) []core.Anotacao {
	out := append([]core.Anotacao(nil), anotacoes...)
	sort.SliceStable(out, func(i, j int) bool {
		return core.ParseTimestamp(out[i].DataCriacao).After(core.ParseTimestamp(out[j].DataCriacao))
	})
	return out
}

// RenderDashboard paints the four aggregate totals, the selected month's
// resumo and the recent faturamentos.
func RenderDashboard(stats core.DashboardStats, resumo core.ResumoMensal, width int) string {
	var b strings.Builder

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("A receber", stats.AReceber, "214"),
		statCard("Vencido", stats.Vencido, "196"),
		statCard("Recebido", stats.Recebido, "42"),
		statCard("Cancelado", stats.Cancelado, "243"),
	)
	b.WriteString(cards + "\n\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf("Resumo de %s de %d", core.NomeMes(resumo.Mes), resumo.Ano)) + "\n")
	b.WriteString(fmt.Sprintf("  Pendente: %s   Vencido: %s   Recebido: %s   Cancelado: %s\n\n",
		core.FormatBRL(resumo.TotalPendente),
		core.FormatBRL(resumo.TotalVencido),
		core.FormatBRL(resumo.TotalRecebido),
		core.FormatBRL(resumo.TotalCancelado)))

	b.WriteString(headerStyle.Render("Últimos faturamentos") + "\n")
	if len(stats.UltimosFaturamentos) == 0 {
		b.WriteString(mutedStyle.Render(placeholderUltimos) + "\n")
	} else {
		for _, f := range SortPorCriacao(stats.UltimosFaturamentos) {
			b.WriteString(faturamentoLinha(f, width) + "\n")
		}
	}
	return b.String()
}

func statCard(label string, valor float64, color string) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color)).
		Padding(0, 2).
		Margin(0, 1)
	return style.Render(fmt.Sprintf("%s\n%s", mutedStyle.Render(label), core.FormatBRL(valor)))
}

// RenderClientes paints one card line per cliente; cursor marks the selected
// row.
func RenderClientes(clientes []core.Cliente, cursor, width int) string {
	if len(clientes) == 0 {
		return mutedStyle.Render(placeholderClientes) + "\n"
	}

	var b strings.Builder
	for i, c := range clientes {
		linha := fmt.Sprintf("%-30s %-25s %s", truncate(c.Nome, 30), truncate(c.Email, 25), truncate(c.Telefone, 18))
		if width > 0 {
			linha = truncate(linha, width)
		}
		if i == cursor {
			b.WriteString(selectedStyle.Render("> "+linha) + "\n")
		} else {
			b.WriteString("  " + linha + "\n")
		}
	}
	return b.String()
}

// RenderFaturamentos paints the aggregate faturamento table, newest first.
func RenderFaturamentos(faturamentos []core.Faturamento, cursor, width int) string {
	if len(faturamentos) == 0 {
		return mutedStyle.Render(placeholderFaturamentos) + "\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-20s %-28s %12s  %-10s %-10s", "Cliente", "Descrição", "Valor", "Vencimento", "Status")) + "\n")
	for i, f := range SortPorCriacao(faturamentos) {
		linha := faturamentoLinha(f, width)
		if i == cursor {
			b.WriteString(selectedStyle.Render("> "+linha) + "\n")
		} else {
			b.WriteString("  " + linha + "\n")
		}
	}
	return b.String()
}

func faturamentoLinha(f core.Faturamento, width int) string {
	linha := fmt.Sprintf("%-20s %-28s %12s  %-10s %s",
		truncate(f.ClienteNome, 20),
		truncate(f.Descricao, 28),
		core.FormatBRL(f.Valor),
		core.FormatData(f.DataVencimento),
		statusStyle(string(f.Status)).Render(string(f.Status)))
	return linha
}

// RenderProdutos paints the produto list of the open cliente.
func RenderProdutos(produtos []core.ProdutoServico, cursor, width int) string {
	if len(produtos) == 0 {
		return mutedStyle.Render(placeholderProdutos) + "\n"
	}

	var b strings.Builder
	for i, p := range produtos {
		linha := fmt.Sprintf("%-30s %12s  %s", truncate(p.Nome, 30), core.FormatBRL(p.Valor), truncate(p.Descricao, 30))
		if i == cursor {
			b.WriteString(selectedStyle.Render("> "+linha) + "\n")
		} else {
			b.WriteString("  " + linha + "\n")
		}
	}
	return b.String()
}

// RenderAnotacoes paints anotações newest first, título plus conteúdo.
func RenderAnotacoes(anotacoes []core.Anotacao, cursor, width int) string {
	if len(anotacoes) == 0 {
		return mutedStyle.Render(placeholderAnotacoes) + "\n"
	}

	var b strings.Builder
	for i, a := range SortAnotacoes(anotacoes) {
		titulo := fmt.Sprintf("%s  %s", truncate(a.Titulo, 40), mutedStyle.Render(core.FormatData(a.DataCriacao)))
		if i == cursor {
			b.WriteString(selectedStyle.Render("> "+titulo) + "\n")
		} else {
			b.WriteString("  " + titulo + "\n")
		}
		b.WriteString("    " + truncate(a.Conteudo, max(20, width-4)) + "\n")
	}
	return b.String()
}

func truncate(s string, limit int) string {
	if limit <= 3 || len([]rune(s)) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}

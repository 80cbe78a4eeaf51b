package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mateuscelis/sistema/internal/core"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Sistema de Gestão de Clientes"))
	b.WriteString("\n")
	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")

	switch {
	case m.confirm != nil:
		b.WriteString(m.viewConfirm())
	case m.form != nil:
		b.WriteString(m.viewForm())
	default:
		b.WriteString(m.viewBody())
	}

	b.WriteString("\n")
	if m.toast != nil {
		b.WriteString(m.viewToast())
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) viewTabs() string {
	tabs := []struct {
		tab   Tab
		label string
	}{
		{TabDashboard, "1 Dashboard"},
		{TabClientes, "2 Clientes"},
		{TabFaturamentos, "3 Faturamentos"},
	}
	parts := make([]string, len(tabs))
	for i, t := range tabs {
		style := tabStyle
		if t.tab == m.state.CurrentTab {
			style = activeTabStyle
		}
		parts[i] = style.Render(t.label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) viewBody() string {
	if m.loading {
		return mutedStyle.Render("Carregando...")
	}

	width := m.width
	if width == 0 {
		width = 100
	}

	switch m.state.CurrentTab {
	case TabDashboard:
		return RenderDashboard(m.stats, m.resumo, width)
	case TabClientes:
		if m.state.CurrentClienteID != 0 {
			return m.viewDetalhe(width)
		}
		return RenderClientes(m.clientes, m.cursor, width)
	case TabFaturamentos:
		return RenderFaturamentos(m.faturamentos, m.cursor, width)
	}
	return ""
}

func (m Model) viewDetalhe(width int) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(m.detalhe.Cliente.Nome))
	b.WriteString("\n")
	contato := m.detalhe.Cliente.Contato
	if m.detalhe.Cliente.Email != "" {
		contato += "  " + m.detalhe.Cliente.Email
	}
	if m.detalhe.Cliente.Telefone != "" {
		contato += "  " + m.detalhe.Cliente.Telefone
	}
	if strings.TrimSpace(contato) != "" {
		b.WriteString(mutedStyle.Render(strings.TrimSpace(contato)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	subs := []struct {
		tab   DetailTab
		label string
	}{
		{DetailFaturamentos, "[f] Faturamentos"},
		{DetailProdutos, "[p] Produtos"},
		{DetailAnotacoes, "[a] Anotações"},
	}
	parts := make([]string, len(subs))
	for i, s := range subs {
		style := tabStyle
		if s.tab == m.state.CurrentDetailTab {
			style = activeTabStyle
		}
		parts[i] = style.Render(s.label)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	b.WriteString("\n\n")

	switch m.state.CurrentDetailTab {
	case DetailProdutos:
		b.WriteString(RenderProdutos(m.detalhe.Produtos, m.cursor, width))
	case DetailAnotacoes:
		b.WriteString(RenderAnotacoes(m.detalhe.Anotacoes, m.cursor, width))
	default:
		b.WriteString(RenderFaturamentos(m.detalhe.Faturamentos, m.cursor, width))
	}
	return b.String()
}

func (m Model) viewForm() string {
	form := m.form
	var b strings.Builder

	b.WriteString(headerStyle.Render(form.schema.Title))
	b.WriteString("\n\n")

	fields := form.visible()
	for i, field := range fields {
		label := field.Label
		if field.Required {
			label += " *"
		}
		marker := "  "
		if i == form.focus {
			marker = selectedStyle.Render("> ")
		}
		b.WriteString(marker)
		b.WriteString(mutedStyle.Render(label+": "))

		if field.Kind == FieldSelect {
			value := ""
			if len(field.Options) > 0 {
				value = field.Options[form.selects[field.Name]]
			}
			if i == form.focus {
				b.WriteString(selectedStyle.Render("< " + value + " >"))
			} else {
				b.WriteString(value)
			}
		} else {
			b.WriteString(form.inputs[field.Name].View())
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: próximo/salvar  tab/shift+tab: navegar  ←/→: opções  esc: cancelar"))
	return boxStyle.Render(b.String())
}

func (m Model) viewConfirm() string {
	var b strings.Builder
	b.WriteString(warnStyle.Render(m.confirm.prompt))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("y: confirmar  n: cancelar"))
	return boxStyle.Render(b.String())
}

func (m Model) viewToast() string {
	switch m.toast.kind {
	case toastSuccess:
		return successStyle.Render(m.toast.text)
	case toastError:
		return errorStyle.Render(fmt.Sprintf("Erro: %s", m.toast.text))
	default:
		return warnStyle.Render(m.toast.text)
	}
}

func (m Model) helpLine() string {
	if m.form != nil || m.confirm != nil {
		return ""
	}
	switch m.state.CurrentTab {
	case TabDashboard:
		return "←/→: mês anterior/seguinte  1/2/3: abas  q: sair"
	case TabClientes:
		if m.state.CurrentClienteID != 0 {
			return "f/p/a: seções  n: novo  e: editar  d: excluir  s: marcar " +
				string(core.StatusPago) + "  esc: voltar  q: sair"
		}
		return "enter: detalhes  n: novo  e: editar  d: excluir  1/2/3: abas  q: sair"
	case TabFaturamentos:
		return "n: novo  e: editar  d: excluir  s: marcar " +
			string(core.StatusPago) + "  1/2/3: abas  q: sair"
	}
	return ""
}

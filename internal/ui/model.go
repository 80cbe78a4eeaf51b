package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mateuscelis/sistema/internal/api"
	"github.com/mateuscelis/sistema/internal/core"
	"github.com/mateuscelis/sistema/internal/log"
)

const toastDuration = 3 * time.Second

// Messages emitted by gateway commands.
type (
	clientesMsg     []core.Cliente
	faturamentosMsg []core.Faturamento
	detalheMsg      core.ClienteDetalhe
	dashboardMsg    struct {
		stats  core.DashboardStats
		resumo core.ResumoMensal
	}
	// mutationMsg reports a completed write so the model can run the
	// refresh fan-out.
	mutationMsg struct {
		kind      Mutation
		clienteID int64
		text      string
	}
	errMsg        struct{ err error }
	clearToastMsg struct{}
)

type toastKind int

const (
	toastSuccess toastKind = iota
	toastError
	toastInfo
)

type toast struct {
	text string
	kind toastKind
}

// confirmState guards a destructive action behind y/n.
type confirmState struct {
	prompt string
	action tea.Cmd
}

// Model is the Bubble Tea root of the terminal client.
type Model struct {
	client *api.Client
	logger *log.Logger

	state  ViewState
	width  int
	height int

	loading bool
	toast   *toast

	clientes     []core.Cliente
	faturamentos []core.Faturamento
	stats        core.DashboardStats
	resumo       core.ResumoMensal
	detalhe      core.ClienteDetalhe

	cursor int

	form    *formState
	confirm *confirmState
}

func NewModel(client *api.Client, logger *log.Logger) Model {
	return Model{
		client: client,
		logger: logger.WithComponent(log.ComponentUI),
		state:  NewViewState(time.Now()),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Sequence(m.markOverdueCmd(), m.load(LoadDashboard))
}

// markOverdueCmd runs the server-side overdue sweep once at startup so the
// first dashboard already shows pendente rows past due as atrasado.
func (m Model) markOverdueCmd() tea.Cmd {
	client := m.client
	logger := m.logger
	return func() tea.Msg {
		if _, err := client.MarkOverdue(context.Background()); err != nil {
			logger.Error("failed to mark overdue faturamentos", log.FieldError, err)
		}
		return nil
	}
}

// load dispatches one gateway fetch as a command.
func (m Model) load(load Load) tea.Cmd {
	client := m.client
	mes, ano := m.state.Mes, m.state.Ano
	clienteID := m.state.CurrentClienteID

	switch load {
	case LoadDashboard:
		return func() tea.Msg {
			ctx := context.Background()
			stats, err := client.DashboardStats(ctx)
			if err != nil {
				return errMsg{err}
			}
			resumo, err := client.ResumoMensal(ctx, mes, ano)
			if err != nil {
				return errMsg{err}
			}
			return dashboardMsg{stats: stats, resumo: resumo}
		}
	case LoadClientes:
		return func() tea.Msg {
			clientes, err := client.ListClientes(context.Background())
			if err != nil {
				return errMsg{err}
			}
			return clientesMsg(clientes)
		}
	case LoadFaturamentos:
		return func() tea.Msg {
			faturamentos, err := client.ListFaturamentosComClientes(context.Background())
			if err != nil {
				return errMsg{err}
			}
			return faturamentosMsg(faturamentos)
		}
	case LoadClienteDetalhe:
		if clienteID == 0 {
			return nil
		}
		return func() tea.Msg {
			detalhe, err := client.GetCliente(context.Background(), clienteID)
			if err != nil {
				return errMsg{err}
			}
			return detalheMsg(detalhe)
		}
	}
	return nil
}

func (m Model) loadAll(loads []Load) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(loads))
	for _, l := range loads {
		if cmd := m.load(l); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m Model) showToast(text string, kind toastKind) (Model, tea.Cmd) {
	m.toast = &toast{text: text, kind: kind}
	return m, tea.Tick(toastDuration, func(time.Time) tea.Msg { return clearToastMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case clientesMsg:
		m.loading = false
		m.clientes = msg
		m.clampCursor()
		return m, nil

	case faturamentosMsg:
		m.loading = false
		m.faturamentos = msg
		m.clampCursor()
		return m, nil

	case detalheMsg:
		m.loading = false
		m.detalhe = core.ClienteDetalhe(msg)
		m.clampCursor()
		return m, nil

	case dashboardMsg:
		m.loading = false
		m.stats = msg.stats
		m.resumo = msg.resumo
		return m, nil

	case mutationMsg:
		m.form = nil
		loads := m.state.RefreshAfter(msg.kind, msg.clienteID)
		model, toastCmd := m.showToast(msg.text, toastSuccess)
		return model, tea.Batch(toastCmd, model.loadAll(loads))

	case errMsg:
		m.loading = false
		m.logger.Error("operation failed", log.FieldError, msg.err)
		// The form, when open, stays open so the user can correct and retry.
		return m.showToast(msg.err.Error(), toastError)

	case clearToastMsg:
		m.toast = nil
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}
	if m.form != nil {
		return m.handleFormKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "1":
		return m.switchTab(TabDashboard)
	case "2":
		return m.switchTab(TabClientes)
	case "3":
		return m.switchTab(TabFaturamentos)

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}
		return m, nil
	}

	switch m.state.CurrentTab {
	case TabDashboard:
		return m.handleDashboardKey(msg)
	case TabClientes:
		if m.state.CurrentClienteID != 0 {
			return m.handleDetalheKey(msg)
		}
		return m.handleClientesKey(msg)
	case TabFaturamentos:
		return m.handleFaturamentosKey(msg)
	}
	return m, nil
}

func (m Model) switchTab(tab Tab) (tea.Model, tea.Cmd) {
	load := m.state.SwitchTab(tab)
	m.cursor = 0
	m.loading = true
	return m, m.load(load)
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		load := m.state.PreviousMonth()
		m.loading = true
		return m, m.load(load)
	case "right", "l":
		load := m.state.NextMonth()
		m.loading = true
		return m, m.load(load)
	}
	return m, nil
}

func (m Model) handleClientesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if c, ok := m.clienteSelecionado(); ok {
			load := m.state.OpenCliente(c.ID)
			m.cursor = 0
			m.loading = true
			return m, m.load(load)
		}
	case "n":
		return m.openClienteForm(nil)
	case "e":
		if c, ok := m.clienteSelecionado(); ok {
			return m.openClienteForm(&c)
		}
	case "d":
		if c, ok := m.clienteSelecionado(); ok {
			return m.confirmDelete(
				fmt.Sprintf("Excluir cliente %q e tudo que pertence a ele?", c.Nome),
				m.deleteClienteCmd(c.ID))
		}
	}
	return m, nil
}

func (m Model) handleDetalheKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		load := m.state.CloseDetalhe()
		m.cursor = 0
		m.loading = true
		return m, m.load(load)

	case "f":
		return m.switchDetailTab(DetailFaturamentos)
	case "p":
		return m.switchDetailTab(DetailProdutos)
	case "a":
		return m.switchDetailTab(DetailAnotacoes)

	case "n":
		switch m.state.CurrentDetailTab {
		case DetailProdutos:
			return m.openProdutoForm(nil)
		case DetailAnotacoes:
			return m.openAnotacaoForm(nil)
		case DetailFaturamentos:
			return m.openFaturamentoForm(nil, m.state.CurrentClienteID)
		}

	case "e":
		return m.editSelecionadoNoDetalhe()

	case "d":
		return m.deleteSelecionadoNoDetalhe()

	case "s":
		if m.state.CurrentDetailTab == DetailFaturamentos {
			if f, ok := m.faturamentoSelecionadoNoDetalhe(); ok {
				return m, m.updateStatusCmd(f.ID, core.StatusPago, f.ClienteID)
			}
		}
	}
	return m, nil
}

func (m Model) switchDetailTab(tab DetailTab) (tea.Model, tea.Cmd) {
	load := m.state.SwitchDetailTab(tab)
	m.cursor = 0
	m.loading = true
	return m, m.load(load)
}

func (m Model) handleFaturamentosKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		if len(m.clientes) == 0 {
			// Missing precondition: need a cliente to bill.
			return m.showToast("Cadastre um cliente antes de criar um faturamento", toastInfo)
		}
		return m.openFaturamentoForm(nil, 0)

	case "e":
		if f, ok := m.faturamentoSelecionado(); ok {
			return m.openFaturamentoForm(&f, f.ClienteID)
		}

	case "d":
		if f, ok := m.faturamentoSelecionado(); ok {
			return m.confirmDelete(
				fmt.Sprintf("Excluir faturamento %q?", f.Descricao),
				m.deleteFaturamentoCmd(f.ID, f.ClienteID))
		}

	case "s":
		if f, ok := m.faturamentoSelecionado(); ok {
			return m, m.updateStatusCmd(f.ID, core.StatusPago, f.ClienteID)
		}
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "s":
		action := m.confirm.action
		m.confirm = nil
		m.loading = true
		return m, action
	case "n", "esc":
		// Declined: a no-op.
		m.confirm = nil
		return m, nil
	}
	return m, nil
}

func (m Model) confirmDelete(prompt string, action tea.Cmd) (tea.Model, tea.Cmd) {
	m.confirm = &confirmState{prompt: prompt, action: action}
	return m, nil
}

// Selection helpers

func (m Model) listLen() int {
	switch m.state.CurrentTab {
	case TabClientes:
		if m.state.CurrentClienteID != 0 {
			switch m.state.CurrentDetailTab {
			case DetailProdutos:
				return len(m.detalhe.Produtos)
			case DetailAnotacoes:
				return len(m.detalhe.Anotacoes)
			default:
				return len(m.detalhe.Faturamentos)
			}
		}
		return len(m.clientes)
	case TabFaturamentos:
		return len(m.faturamentos)
	}
	return 0
}

func (m *Model) clampCursor() {
	if n := m.listLen(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) clienteSelecionado() (core.Cliente, bool) {
	if m.cursor < 0 || m.cursor >= len(m.clientes) {
		return core.Cliente{}, false
	}
	return m.clientes[m.cursor], true
}

func (m Model) faturamentoSelecionado() (core.Faturamento, bool) {
	ordered := SortPorCriacao(m.faturamentos)
	if m.cursor < 0 || m.cursor >= len(ordered) {
		return core.Faturamento{}, false
	}
	return ordered[m.cursor], true
}

func (m Model) faturamentoSelecionadoNoDetalhe() (core.Faturamento, bool) {
	ordered := SortPorCriacao(m.detalhe.Faturamentos)
	if m.cursor < 0 || m.cursor >= len(ordered) {
		return core.Faturamento{}, false
	}
	return ordered[m.cursor], true
}

func (m Model) editSelecionadoNoDetalhe() (tea.Model, tea.Cmd) {
	switch m.state.CurrentDetailTab {
	case DetailProdutos:
		if m.cursor >= 0 && m.cursor < len(m.detalhe.Produtos) {
			p := m.detalhe.Produtos[m.cursor]
			return m.openProdutoForm(&p)
		}
	case DetailAnotacoes:
		ordered := SortAnotacoes(m.detalhe.Anotacoes)
		if m.cursor >= 0 && m.cursor < len(ordered) {
			a := ordered[m.cursor]
			return m.openAnotacaoForm(&a)
		}
	case DetailFaturamentos:
		if f, ok := m.faturamentoSelecionadoNoDetalhe(); ok {
			return m.openFaturamentoForm(&f, f.ClienteID)
		}
	}
	return m, nil
}

func (m Model) deleteSelecionadoNoDetalhe() (tea.Model, tea.Cmd) {
	switch m.state.CurrentDetailTab {
	case DetailProdutos:
		if m.cursor >= 0 && m.cursor < len(m.detalhe.Produtos) {
			p := m.detalhe.Produtos[m.cursor]
			return m.confirmDelete(
				fmt.Sprintf("Excluir produto %q?", p.Nome),
				m.deleteProdutoCmd(p.ID, p.ClienteID))
		}
	case DetailAnotacoes:
		ordered := SortAnotacoes(m.detalhe.Anotacoes)
		if m.cursor >= 0 && m.cursor < len(ordered) {
			a := ordered[m.cursor]
			return m.confirmDelete(
				fmt.Sprintf("Excluir anotação %q?", a.Titulo),
				m.deleteAnotacaoCmd(a.ID, a.ClienteID))
		}
	case DetailFaturamentos:
		if f, ok := m.faturamentoSelecionadoNoDetalhe(); ok {
			return m.confirmDelete(
				fmt.Sprintf("Excluir faturamento %q?", f.Descricao),
				m.deleteFaturamentoCmd(f.ID, f.ClienteID))
		}
	}
	return m, nil
}

// Mutation commands

func (m Model) deleteClienteCmd(id int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.DeleteCliente(context.Background(), id); err != nil {
			return errMsg{err}
		}
		return mutationMsg{kind: MutationClienteDelete, clienteID: id, text: "Cliente excluído"}
	}
}

func (m Model) deleteProdutoCmd(id, clienteID int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.DeleteProduto(context.Background(), id); err != nil {
			return errMsg{err}
		}
		return mutationMsg{kind: MutationProduto, clienteID: clienteID, text: "Produto excluído"}
	}
}

func (m Model) deleteAnotacaoCmd(id, clienteID int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.DeleteAnotacao(context.Background(), id); err != nil {
			return errMsg{err}
		}
		return mutationMsg{kind: MutationAnotacao, clienteID: clienteID, text: "Anotação excluída"}
	}
}

func (m Model) deleteFaturamentoCmd(id, clienteID int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.DeleteFaturamento(context.Background(), id); err != nil {
			return errMsg{err}
		}
		return mutationMsg{kind: MutationFaturamento, clienteID: clienteID, text: "Faturamento excluído"}
	}
}

func (m Model) updateStatusCmd(id int64, status core.Status, clienteID int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if _, err := client.UpdateStatus(context.Background(), id, status); err != nil {
			return errMsg{err}
		}
		return mutationMsg{kind: MutationFaturamento, clienteID: clienteID,
			text: fmt.Sprintf("Status atualizado para %s", status)}
	}
}

// Forms

func (m Model) openClienteForm(edit *core.Cliente) (tea.Model, tea.Cmd) {
	schema := ClienteSchema(edit != nil)
	prefill := map[string]string{}
	if edit != nil {
		prefill = map[string]string{
			"nome": edit.Nome, "contato": edit.Contato,
			"email": edit.Email, "telefone": edit.Telefone,
		}
	}

	client := m.client
	var editID int64
	if edit != nil {
		editID = edit.ID
	}
	submit := func(values map[string]string) tea.Cmd {
		return func() tea.Msg {
			cliente, err := CoerceCliente(values)
			if err != nil {
				return errMsg{err}
			}
			ctx := context.Background()
			if editID != 0 {
				cliente.ID = editID
				if _, err := client.UpdateCliente(ctx, cliente); err != nil {
					return errMsg{err}
				}
				return mutationMsg{kind: MutationCliente, clienteID: editID, text: "Cliente atualizado"}
			}
			created, err := client.CreateCliente(ctx, cliente)
			if err != nil {
				return errMsg{err}
			}
			return mutationMsg{kind: MutationCliente, clienteID: created.ID, text: "Cliente criado"}
		}
	}

	m.form = newFormState(schema, prefill, submit)
	return m, textinput.Blink
}

func (m Model) openProdutoForm(edit *core.ProdutoServico) (tea.Model, tea.Cmd) {
	clienteID := m.state.CurrentClienteID
	if clienteID == 0 {
		return m.showToast("Selecione um cliente antes de cadastrar produtos", toastInfo)
	}

	schema := ProdutoSchema(edit != nil)
	prefill := map[string]string{}
	var editID int64
	if edit != nil {
		editID = edit.ID
		prefill = map[string]string{
			"nome": edit.Nome, "descricao": edit.Descricao,
			"valor": fmt.Sprintf("%.2f", edit.Valor),
		}
	}

	client := m.client
	submit := func(values map[string]string) tea.Cmd {
		return func() tea.Msg {
			produto, err := CoerceProduto(values)
			if err != nil {
				return errMsg{err}
			}
			ctx := context.Background()
			if editID != 0 {
				produto.ID = editID
				if _, err := client.UpdateProduto(ctx, produto); err != nil {
					return errMsg{err}
				}
				return mutationMsg{kind: MutationProduto, clienteID: clienteID, text: "Produto atualizado"}
			}
			if _, err := client.CreateProduto(ctx, clienteID, produto); err != nil {
				return errMsg{err}
			}
			return mutationMsg{kind: MutationProduto, clienteID: clienteID, text: "Produto criado"}
		}
	}

	m.form = newFormState(schema, prefill, submit)
	return m, textinput.Blink
}

func (m Model) openAnotacaoForm(edit *core.Anotacao) (tea.Model, tea.Cmd) {
	clienteID := m.state.CurrentClienteID
	if clienteID == 0 {
		return m.showToast("Selecione um cliente antes de criar anotações", toastInfo)
	}

	schema := AnotacaoSchema(edit != nil)
	prefill := map[string]string{}
	var editID int64
	if edit != nil {
		editID = edit.ID
		prefill = map[string]string{"titulo": edit.Titulo, "conteudo": edit.Conteudo}
	}

	client := m.client
	submit := func(values map[string]string) tea.Cmd {
		return func() tea.Msg {
			anotacao, err := CoerceAnotacao(values)
			if err != nil {
				return errMsg{err}
			}
			ctx := context.Background()
			if editID != 0 {
				anotacao.ID = editID
				if _, err := client.UpdateAnotacao(ctx, anotacao); err != nil {
					return errMsg{err}
				}
				return mutationMsg{kind: MutationAnotacao, clienteID: clienteID, text: "Anotação atualizada"}
			}
			if _, err := client.CreateAnotacao(ctx, clienteID, anotacao); err != nil {
				return errMsg{err}
			}
			return mutationMsg{kind: MutationAnotacao, clienteID: clienteID, text: "Anotação criada"}
		}
	}

	m.form = newFormState(schema, prefill, submit)
	return m, textinput.Blink
}

// openFaturamentoForm opens the create/edit form. With clienteID zero (the
// aggregate tab) a cliente picker is prepended, fed by the pre-fetched
// cliente list.
func (m Model) openFaturamentoForm(edit *core.Faturamento, clienteID int64) (tea.Model, tea.Cmd) {
	schema := FaturamentoSchema(edit != nil)
	if edit == nil && clienteID == 0 {
		options := make([]string, len(m.clientes))
		for i, c := range m.clientes {
			options[i] = fmt.Sprintf("%d: %s", c.ID, c.Nome)
		}
		schema.Fields = append([]FieldSpec{
			{Name: "cliente", Label: "Cliente", Kind: FieldSelect, Required: true, Options: options},
		}, schema.Fields...)
	}

	prefill := map[string]string{}
	var editID int64
	if edit != nil {
		editID = edit.ID
		prefill = map[string]string{
			"descricao":       edit.Descricao,
			"valor":           fmt.Sprintf("%.2f", edit.Valor),
			"data_vencimento": edit.DataVencimento,
			"data_pagamento":  edit.DataPagamento,
			"status":          string(edit.Status),
		}
	}

	client := m.client
	submit := func(values map[string]string) tea.Cmd {
		return func() tea.Msg {
			faturamento, err := CoerceFaturamento(values)
			if err != nil {
				return errMsg{err}
			}
			ctx := context.Background()
			if editID != 0 {
				faturamento.ID = editID
				if _, err := client.UpdateFaturamento(ctx, faturamento); err != nil {
					return errMsg{err}
				}
				return mutationMsg{kind: MutationFaturamento, clienteID: clienteID, text: "Faturamento atualizado"}
			}

			alvo := clienteID
			if alvo == 0 {
				alvo, err = clienteIDFromOption(values["cliente"])
				if err != nil {
					return errMsg{err}
				}
			}
			if _, err := client.CreateFaturamento(ctx, alvo, faturamento); err != nil {
				return errMsg{err}
			}
			return mutationMsg{kind: MutationFaturamento, clienteID: alvo, text: "Faturamento criado"}
		}
	}

	m.form = newFormState(schema, prefill, submit)
	return m, textinput.Blink
}

// clienteIDFromOption parses the "id: nome" picker option back to an id.
func clienteIDFromOption(option string) (int64, error) {
	raw, _, ok := strings.Cut(option, ":")
	if !ok {
		return 0, fmt.Errorf("cliente inválido: %q", option)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("cliente inválido: %q", option)
	}
	return id, nil
}

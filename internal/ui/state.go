// Package ui is the terminal client: view state, renderers, forms and the
// Bubble Tea model that ties them to the remote gateway.
package ui

import "time"

// Top-level tabs.
type Tab string

const (
	TabDashboard    Tab = "dashboard"
	TabClientes     Tab = "clientes"
	TabFaturamentos Tab = "faturamentos"
)

// Sub-tabs of the cliente detail view.
type DetailTab string

const (
	DetailFaturamentos DetailTab = "faturamentos"
	DetailProdutos     DetailTab = "produtos"
	DetailAnotacoes    DetailTab = "anotacoes"
)

// Load identifies a data load the model must dispatch.
type Load int

const (
	LoadNothing Load = iota
	LoadDashboard
	LoadClientes
	LoadFaturamentos
	LoadClienteDetalhe
)

// Mutation classifies a completed write for refresh fan-out.
type Mutation int

const (
	MutationCliente Mutation = iota
	MutationClienteDelete
	MutationProduto
	MutationAnotacao
	MutationFaturamento
)

// ViewState is the single owner of navigation state. It is passed explicitly
// to whoever needs it; nothing reads it from package globals.
type ViewState struct {
	CurrentTab       Tab
	CurrentDetailTab DetailTab

	// CurrentClienteID is nonzero while a cliente detail view is open.
	CurrentClienteID int64

	// Dashboard period.
	Mes int
	Ano int
}

func NewViewState(now time.Time) ViewState {
	return ViewState{
		CurrentTab:       TabDashboard,
		CurrentDetailTab: DetailFaturamentos,
		Mes:              int(now.Month()),
		Ano:              now.Year(),
	}
}

// SwitchTab activates the named tab and returns its load. Switching is
// idempotent: re-selecting the active tab re-runs the load. Any open detail
// view is closed.
func (s *ViewState) SwitchTab(tab Tab) Load {
	s.CurrentTab = tab
	s.CurrentClienteID = 0
	switch tab {
	case TabDashboard:
		return LoadDashboard
	case TabClientes:
		return LoadClientes
	case TabFaturamentos:
		return LoadFaturamentos
	}
	return LoadNothing
}

// OpenCliente enters the detail view for a cliente.
func (s *ViewState) OpenCliente(id int64) Load {
	s.CurrentTab = TabClientes
	s.CurrentClienteID = id
	s.CurrentDetailTab = DetailFaturamentos
	return LoadClienteDetalhe
}

// CloseDetalhe navigates back to the cliente list.
func (s *ViewState) CloseDetalhe() Load {
	s.CurrentClienteID = 0
	return LoadClientes
}

// SwitchDetailTab activates a detail sub-tab. With a cliente open the detail
// is re-fetched so the newly visible sub-tab repaints from fresh data.
func (s *ViewState) SwitchDetailTab(tab DetailTab) Load {
	s.CurrentDetailTab = tab
	if s.CurrentClienteID != 0 {
		return LoadClienteDetalhe
	}
	return LoadNothing
}

// PreviousMonth moves the dashboard period back one month, rolling the year.
// Years are unbounded in both directions.
func (s *ViewState) PreviousMonth() Load {
	s.Mes--
	if s.Mes < 1 {
		s.Mes = 12
		s.Ano--
	}
	return LoadDashboard
}

// NextMonth moves the dashboard period forward one month, rolling the year.
func (s *ViewState) NextMonth() Load {
	s.Mes++
	if s.Mes > 12 {
		s.Mes = 1
		s.Ano++
	}
	return LoadDashboard
}

// RefreshAfter computes which loads to re-run after a mutation touching the
// given cliente. Deleting the open cliente navigates back to the list first.
func (s *ViewState) RefreshAfter(m Mutation, clienteID int64) []Load {
	switch m {
	case MutationCliente:
		loads := []Load{LoadClientes}
		if s.detalheAberto(clienteID) {
			loads = append(loads, LoadClienteDetalhe)
		}
		return loads

	case MutationClienteDelete:
		if s.detalheAberto(clienteID) {
			s.CloseDetalhe()
		}
		// The cascade removed the cliente's faturamentos too.
		return []Load{LoadClientes, LoadFaturamentos, LoadDashboard}

	case MutationProduto, MutationAnotacao:
		if s.detalheAberto(clienteID) {
			return []Load{LoadClienteDetalhe}
		}
		return nil

	case MutationFaturamento:
		loads := []Load{LoadFaturamentos, LoadDashboard}
		if s.detalheAberto(clienteID) {
			loads = append(loads, LoadClienteDetalhe)
		}
		return loads
	}
	return nil
}

func (s *ViewState) detalheAberto(clienteID int64) bool {
	return s.CurrentClienteID != 0 && s.CurrentClienteID == clienteID
}

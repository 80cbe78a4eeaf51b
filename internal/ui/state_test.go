package ui

import (
	"testing"
	"time"
)

func TestNewViewStateDefaults(t *testing.T) {
	now := time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)
	s := NewViewState(now)

	if s.CurrentTab != TabDashboard {
		t.Errorf("CurrentTab = %s, want dashboard", s.CurrentTab)
	}
	if s.Mes != 8 || s.Ano != 2025 {
		t.Errorf("period = %d/%d, want 8/2025", s.Mes, s.Ano)
	}
}

func TestSwitchTabIsIdempotent(t *testing.T) {
	s := NewViewState(time.Now())

	if load := s.SwitchTab(TabClientes); load != LoadClientes {
		t.Errorf("first switch load = %v, want LoadClientes", load)
	}
	// Re-selecting the active tab re-runs its load.
	if load := s.SwitchTab(TabClientes); load != LoadClientes {
		t.Errorf("repeat switch load = %v, want LoadClientes", load)
	}
}

func TestSwitchTabClosesDetail(t *testing.T) {
	s := NewViewState(time.Now())
	s.OpenCliente(7)

	s.SwitchTab(TabFaturamentos)
	if s.CurrentClienteID != 0 {
		t.Errorf("CurrentClienteID = %d after tab switch, want 0", s.CurrentClienteID)
	}
}

func TestSwitchDetailTab(t *testing.T) {
	s := NewViewState(time.Now())

	// Without a cliente open nothing loads.
	if load := s.SwitchDetailTab(DetailProdutos); load != LoadNothing {
		t.Errorf("load = %v without open cliente, want LoadNothing", load)
	}

	s.OpenCliente(7)
	if load := s.SwitchDetailTab(DetailAnotacoes); load != LoadClienteDetalhe {
		t.Errorf("load = %v with open cliente, want LoadClienteDetalhe", load)
	}
	if s.CurrentDetailTab != DetailAnotacoes {
		t.Errorf("CurrentDetailTab = %s", s.CurrentDetailTab)
	}
}

func TestMonthNavigationRoundTrip(t *testing.T) {
	tests := []struct {
		mes, ano int
	}{
		{1, 2025},
		{6, 2025},
		{12, 2024},
	}

	for _, tt := range tests {
		s := ViewState{Mes: tt.mes, Ano: tt.ano}

		s.NextMonth()
		s.PreviousMonth()
		if s.Mes != tt.mes || s.Ano != tt.ano {
			t.Errorf("next+previous from %d/%d = %d/%d", tt.mes, tt.ano, s.Mes, s.Ano)
		}

		s.PreviousMonth()
		s.NextMonth()
		if s.Mes != tt.mes || s.Ano != tt.ano {
			t.Errorf("previous+next from %d/%d = %d/%d", tt.mes, tt.ano, s.Mes, s.Ano)
		}
	}
}

func TestMonthNavigationYearBoundary(t *testing.T) {
	s := ViewState{Mes: 1, Ano: 2025}
	if load := s.PreviousMonth(); load != LoadDashboard {
		t.Errorf("load = %v, want LoadDashboard", load)
	}
	if s.Mes != 12 || s.Ano != 2024 {
		t.Errorf("previous from 1/2025 = %d/%d, want 12/2024", s.Mes, s.Ano)
	}

	s = ViewState{Mes: 12, Ano: 2024}
	s.NextMonth()
	if s.Mes != 1 || s.Ano != 2025 {
		t.Errorf("next from 12/2024 = %d/%d, want 1/2025", s.Mes, s.Ano)
	}
}

func loadsEqual(got, want []Load) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestRefreshAfterFaturamento(t *testing.T) {
	s := NewViewState(time.Now())

	got := s.RefreshAfter(MutationFaturamento, 7)
	if !loadsEqual(got, []Load{LoadFaturamentos, LoadDashboard}) {
		t.Errorf("without detail open: %v", got)
	}

	s.OpenCliente(7)
	got = s.RefreshAfter(MutationFaturamento, 7)
	if !loadsEqual(got, []Load{LoadFaturamentos, LoadDashboard, LoadClienteDetalhe}) {
		t.Errorf("with same cliente open: %v", got)
	}

	// A different open cliente does not refresh its detail.
	s.OpenCliente(9)
	got = s.RefreshAfter(MutationFaturamento, 7)
	if !loadsEqual(got, []Load{LoadFaturamentos, LoadDashboard}) {
		t.Errorf("with other cliente open: %v", got)
	}
}

func TestRefreshAfterProdutoAnotacao(t *testing.T) {
	s := NewViewState(time.Now())

	if got := s.RefreshAfter(MutationProduto, 7); got != nil {
		t.Errorf("produto without detail open: %v", got)
	}

	s.OpenCliente(7)
	if got := s.RefreshAfter(MutationAnotacao, 7); !loadsEqual(got, []Load{LoadClienteDetalhe}) {
		t.Errorf("anotacao with detail open: %v", got)
	}
}

func TestRefreshAfterClienteDeleteNavigatesBack(t *testing.T) {
	s := NewViewState(time.Now())
	s.OpenCliente(7)

	got := s.RefreshAfter(MutationClienteDelete, 7)
	if s.CurrentClienteID != 0 {
		t.Errorf("detail still open after deleting its cliente")
	}
	if !loadsEqual(got, []Load{LoadClientes, LoadFaturamentos, LoadDashboard}) {
		t.Errorf("loads = %v", got)
	}

	// Deleting some other cliente keeps the open detail.
	s.OpenCliente(9)
	s.RefreshAfter(MutationClienteDelete, 7)
	if s.CurrentClienteID != 9 {
		t.Errorf("open detail closed by unrelated delete")
	}
}

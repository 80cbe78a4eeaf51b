package ui

import (
	"errors"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mateuscelis/sistema/internal/api"
	"github.com/mateuscelis/sistema/internal/core"
	"github.com/mateuscelis/sistema/internal/log"
)

func newTestModel() Model {
	logger := log.New(log.Config{Level: slog.LevelError, Component: log.ComponentUI})
	return NewModel(api.NewClient("http://127.0.0.1:0", logger), logger)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNovoFaturamentoSemClientesMostraAviso(t *testing.T) {
	m := newTestModel()
	m.state.CurrentTab = TabFaturamentos

	updated, _ := m.Update(keyRune('n'))
	got := updated.(Model)

	if got.form != nil {
		t.Fatal("form should not open without clientes")
	}
	if got.toast == nil || got.toast.kind != toastInfo {
		t.Fatalf("expected info toast, got %+v", got.toast)
	}
}

func TestConfirmacaoDeExclusaoRecusada(t *testing.T) {
	m := newTestModel()
	m.state.CurrentTab = TabClientes
	m.clientes = []core.Cliente{{ID: 1, Nome: "Empresa Alfa"}}

	updated, _ := m.Update(keyRune('d'))
	got := updated.(Model)
	if got.confirm == nil {
		t.Fatal("expected confirm prompt after d")
	}

	updated, cmd := got.Update(keyRune('n'))
	got = updated.(Model)
	if got.confirm != nil {
		t.Fatal("declining should clear the confirm prompt")
	}
	if cmd != nil {
		t.Fatal("declining should not run any command")
	}
}

func TestMutationMsgFechaFormEDisparaRecargas(t *testing.T) {
	m := newTestModel()
	m.state.CurrentTab = TabFaturamentos
	m.form = newFormState(ClienteSchema(false), nil, func(map[string]string) tea.Cmd { return nil })

	updated, cmd := m.Update(mutationMsg{kind: MutationFaturamento, clienteID: 1, text: "ok"})
	got := updated.(Model)

	if got.form != nil {
		t.Fatal("mutation success should close the form")
	}
	if got.toast == nil || got.toast.kind != toastSuccess {
		t.Fatalf("expected success toast, got %+v", got.toast)
	}
	if cmd == nil {
		t.Fatal("expected refresh commands after mutation")
	}
}

func TestErrMsgMantemFormAberto(t *testing.T) {
	m := newTestModel()
	m.form = newFormState(ClienteSchema(false), nil, func(map[string]string) tea.Cmd { return nil })

	updated, _ := m.Update(errMsg{errors.New("falhou")})
	got := updated.(Model)

	if got.form == nil {
		t.Fatal("error should keep the form open for retry")
	}
	if got.toast == nil || got.toast.kind != toastError {
		t.Fatalf("expected error toast, got %+v", got.toast)
	}
}

func TestFormularioCondicionalNaTela(t *testing.T) {
	form := newFormState(FaturamentoSchema(false), nil, func(map[string]string) tea.Cmd { return nil })

	visible := fieldNames(form.visible())
	if contains(visible, "recorrencia") || contains(visible, "numero_parcelas") {
		t.Fatalf("conditional fields should start hidden with tipo unico, got %v", visible)
	}

	// Cycle tipo to recorrente and re-check.
	for i, f := range form.visible() {
		if f.Name == "tipo" {
			form.focus = i
			form.cycleSelect(f, 1)
			break
		}
	}
	visible = fieldNames(form.visible())
	if !contains(visible, "recorrencia") {
		t.Fatalf("recorrencia should appear for tipo recorrente, got %v", visible)
	}
	if contains(visible, "numero_parcelas") {
		t.Fatalf("numero_parcelas should stay hidden for tipo recorrente, got %v", visible)
	}
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

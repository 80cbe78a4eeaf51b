package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// formState drives an open form. Text fields are backed by textinput models;
// select fields cycle through their options with left/right. Visibility is
// recomputed after every keystroke so conditional fields appear and
// disappear as the user changes the controlling value.
type formState struct {
	schema  FormSchema
	inputs  map[string]*textinput.Model
	selects map[string]int
	focus   int
	submit  func(values map[string]string) tea.Cmd
}

func newFormState(schema FormSchema, prefill map[string]string, submit func(map[string]string) tea.Cmd) *formState {
	f := &formState{
		schema:  schema,
		inputs:  make(map[string]*textinput.Model),
		selects: make(map[string]int),
		submit:  submit,
	}
	for _, field := range schema.Fields {
		if field.Kind == FieldSelect {
			f.selects[field.Name] = 0
			if v, ok := prefill[field.Name]; ok {
				for i, opt := range field.Options {
					if opt == v {
						f.selects[field.Name] = i
						break
					}
				}
			}
			continue
		}
		input := textinput.New()
		input.Prompt = ""
		input.CharLimit = 200
		if v, ok := prefill[field.Name]; ok {
			input.SetValue(v)
		}
		f.inputs[field.Name] = &input
	}
	f.syncFocus()
	return f
}

// values snapshots every field, visible or not. Coercion is responsible for
// ignoring values behind hidden fields.
func (f *formState) values() map[string]string {
	out := make(map[string]string, len(f.schema.Fields))
	for _, field := range f.schema.Fields {
		if field.Kind == FieldSelect {
			if len(field.Options) > 0 {
				out[field.Name] = field.Options[f.selects[field.Name]]
			}
			continue
		}
		out[field.Name] = strings.TrimSpace(f.inputs[field.Name].Value())
	}
	return out
}

func (f *formState) visible() []FieldSpec {
	return f.schema.VisibleFields(f.values())
}

func (f *formState) focusedField() (FieldSpec, bool) {
	fields := f.visible()
	if f.focus < 0 || f.focus >= len(fields) {
		return FieldSpec{}, false
	}
	return fields[f.focus], true
}

// syncFocus clamps focus to the visible range and moves textinput focus to
// the right field.
func (f *formState) syncFocus() {
	fields := f.visible()
	if f.focus >= len(fields) {
		f.focus = len(fields) - 1
	}
	if f.focus < 0 {
		f.focus = 0
	}
	for _, input := range f.inputs {
		input.Blur()
	}
	if len(fields) == 0 {
		return
	}
	if input, ok := f.inputs[fields[f.focus].Name]; ok {
		input.Focus()
	}
}

func (f *formState) nextField() {
	if f.focus < len(f.visible())-1 {
		f.focus++
	}
	f.syncFocus()
}

func (f *formState) prevField() {
	if f.focus > 0 {
		f.focus--
	}
	f.syncFocus()
}

func (f *formState) cycleSelect(field FieldSpec, delta int) {
	n := len(field.Options)
	if n == 0 {
		return
	}
	f.selects[field.Name] = ((f.selects[field.Name]+delta)%n + n) % n
	f.syncFocus()
}

// handleFormKey processes keys while a form is open.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form := m.form

	switch msg.String() {
	case "esc":
		m.form = nil
		return m, nil

	case "tab", "down":
		form.nextField()
		return m, nil

	case "shift+tab", "up":
		form.prevField()
		return m, nil

	case "enter":
		if form.focus < len(form.visible())-1 {
			form.nextField()
			return m, nil
		}
		values := form.values()
		if err := checkRequired(form.schema, values); err != nil {
			return m.showToast(err.Error(), toastError)
		}
		m.loading = true
		return m, form.submit(values)

	case "left", "right":
		if field, ok := form.focusedField(); ok && field.Kind == FieldSelect {
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			form.cycleSelect(field, delta)
			return m, nil
		}
	}

	field, ok := form.focusedField()
	if !ok || field.Kind == FieldSelect {
		return m, nil
	}
	input := form.inputs[field.Name]
	updated, cmd := input.Update(msg)
	*input = updated
	// The keystroke may have changed a value another field's visibility
	// depends on.
	form.syncFocus()
	return m, cmd
}

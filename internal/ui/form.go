package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mateuscelis/sistema/internal/core"
)

// FieldKind selects input handling and coercion for one form field.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldValor
	FieldData
	FieldInt
	FieldSelect
)

// FieldSpec describes one field of an entity form. Visibility, when set, is
// re-evaluated against the current values on every change.
type FieldSpec struct {
	Name     string
	Label    string
	Kind     FieldKind
	Required bool
	Options  []string
	Visible  func(values map[string]string) bool
}

// FormSchema is a declarative entity form: the generic form component renders
// and collects it without entity-specific glue.
type FormSchema struct {
	Title  string
	Fields []FieldSpec
}

// VisibleFields filters the schema down to the fields visible for the current
// values.
func (s FormSchema) VisibleFields(values map[string]string) []FieldSpec {
	fields := make([]FieldSpec, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Visible == nil || f.Visible(values) {
			fields = append(fields, f)
		}
	}
	return fields
}

func ClienteSchema(edit bool) FormSchema {
	title := "Novo cliente"
	if edit {
		title = "Editar cliente"
	}
	return FormSchema{
		Title: title,
		Fields: []FieldSpec{
			{Name: "nome", Label: "Nome", Kind: FieldText, Required: true},
			{Name: "contato", Label: "Contato", Kind: FieldText},
			{Name: "email", Label: "E-mail", Kind: FieldText},
			{Name: "telefone", Label: "Telefone", Kind: FieldText},
		},
	}
}

func ProdutoSchema(edit bool) FormSchema {
	title := "Novo produto/serviço"
	if edit {
		title = "Editar produto/serviço"
	}
	return FormSchema{
		Title: title,
		Fields: []FieldSpec{
			{Name: "nome", Label: "Nome", Kind: FieldText, Required: true},
			{Name: "descricao", Label: "Descrição", Kind: FieldText},
			{Name: "valor", Label: "Valor (R$)", Kind: FieldValor, Required: true},
		},
	}
}

func AnotacaoSchema(edit bool) FormSchema {
	title := "Nova anotação"
	if edit {
		title = "Editar anotação"
	}
	return FormSchema{
		Title: title,
		Fields: []FieldSpec{
			{Name: "titulo", Label: "Título", Kind: FieldText, Required: true},
			{Name: "conteudo", Label: "Conteúdo", Kind: FieldText, Required: true},
		},
	}
}

func FaturamentoSchema(edit bool) FormSchema {
	title := "Novo faturamento"
	fields := []FieldSpec{
		{Name: "descricao", Label: "Descrição", Kind: FieldText, Required: true},
		{Name: "valor", Label: "Valor (R$)", Kind: FieldValor, Required: true},
		{Name: "data_vencimento", Label: "Vencimento (AAAA-MM-DD)", Kind: FieldData, Required: true},
	}
	if edit {
		title = "Editar faturamento"
		fields = append(fields,
			FieldSpec{Name: "data_pagamento", Label: "Pagamento (AAAA-MM-DD)", Kind: FieldData},
			FieldSpec{Name: "status", Label: "Status", Kind: FieldSelect,
				Options: []string{"pendente", "pago", "atrasado", "cancelado"}},
		)
	} else {
		fields = append(fields,
			FieldSpec{Name: "tipo", Label: "Tipo", Kind: FieldSelect, Required: true,
				Options: []string{"unico", "recorrente", "personalizado"}},
			// Conditional sub-fields, re-evaluated on every tipo change.
			FieldSpec{Name: "recorrencia", Label: "Recorrência", Kind: FieldSelect,
				Options: []string{"semanal", "quinzenal", "mensal", "anual"},
				Visible: func(v map[string]string) bool { return v["tipo"] == "recorrente" }},
			FieldSpec{Name: "numero_parcelas", Label: "Número de parcelas", Kind: FieldInt,
				Visible: func(v map[string]string) bool { return v["tipo"] == "personalizado" }},
		)
	}
	return FormSchema{Title: title, Fields: fields}
}

// checkRequired validates required visible fields, returning the first
// missing label.
func checkRequired(schema FormSchema, values map[string]string) error {
	for _, f := range schema.VisibleFields(values) {
		if f.Required && strings.TrimSpace(values[f.Name]) == "" {
			return fmt.Errorf("campo obrigatório: %s", f.Label)
		}
	}
	return nil
}

// CoerceCliente builds a Cliente from collected form values.
func CoerceCliente(values map[string]string) (core.Cliente, error) {
	cliente := core.Cliente{
		Nome:     strings.TrimSpace(values["nome"]),
		Contato:  strings.TrimSpace(values["contato"]),
		Email:    strings.TrimSpace(values["email"]),
		Telefone: strings.TrimSpace(values["telefone"]),
	}
	if err := cliente.Validate(); err != nil {
		return core.Cliente{}, err
	}
	return cliente, nil
}

// CoerceProduto builds a ProdutoServico, coercing valor (comma or dot).
func CoerceProduto(values map[string]string) (core.ProdutoServico, error) {
	valor, err := core.ParseValor(values["valor"])
	if err != nil {
		return core.ProdutoServico{}, err
	}
	produto := core.ProdutoServico{
		Nome:      strings.TrimSpace(values["nome"]),
		Descricao: strings.TrimSpace(values["descricao"]),
		Valor:     valor,
	}
	if err := produto.Validate(); err != nil {
		return core.ProdutoServico{}, err
	}
	return produto, nil
}

func CoerceAnotacao(values map[string]string) (core.Anotacao, error) {
	anotacao := core.Anotacao{
		Titulo:   strings.TrimSpace(values["titulo"]),
		Conteudo: strings.TrimSpace(values["conteudo"]),
	}
	if err := anotacao.Validate(); err != nil {
		return core.Anotacao{}, err
	}
	return anotacao, nil
}

// CoerceFaturamento builds a Faturamento from form values: valor accepts
// comma or dot, numero_parcelas becomes an int. Hidden conditional fields are
// dropped even if they hold stale text.
func CoerceFaturamento(values map[string]string) (core.Faturamento, error) {
	valor, err := core.ParseValor(values["valor"])
	if err != nil {
		return core.Faturamento{}, err
	}

	f := core.Faturamento{
		Descricao:      strings.TrimSpace(values["descricao"]),
		Valor:          valor,
		DataVencimento: strings.TrimSpace(values["data_vencimento"]),
		DataPagamento:  strings.TrimSpace(values["data_pagamento"]),
		Status:         core.Status(strings.TrimSpace(values["status"])),
		Tipo:           core.Tipo(strings.TrimSpace(values["tipo"])),
	}

	switch f.Tipo {
	case core.TipoRecorrente:
		f.Recorrencia = core.Recorrencia(strings.TrimSpace(values["recorrencia"]))
	case core.TipoPersonalizado:
		raw := strings.TrimSpace(values["numero_parcelas"])
		n, err := strconv.Atoi(raw)
		if err != nil {
			return core.Faturamento{}, core.ErrParcelasInvalidas
		}
		f.NumeroParcelas = n
	}

	if f.Status == "" {
		f.Status = core.StatusPendente
	}
	if f.Tipo == "" {
		f.Tipo = core.TipoUnico
	}
	if err := f.Validate(); err != nil {
		return core.Faturamento{}, err
	}
	return f, nil
}

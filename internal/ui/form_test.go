package ui

import (
	"errors"
	"testing"

	"github.com/mateuscelis/sistema/internal/core"
)

func fieldNames(fields []FieldSpec) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func containsField(fields []FieldSpec, name string) bool {
	for _, f := range fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func TestFaturamentoSchemaConditionalVisibility(t *testing.T) {
	schema := FaturamentoSchema(false)

	tests := []struct {
		tipo            string
		wantRecorrencia bool
		wantParcelas    bool
	}{
		{"unico", false, false},
		{"recorrente", true, false},
		{"personalizado", false, true},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run("tipo="+tt.tipo, func(t *testing.T) {
			visible := schema.VisibleFields(map[string]string{"tipo": tt.tipo})
			if got := containsField(visible, "recorrencia"); got != tt.wantRecorrencia {
				t.Errorf("recorrencia visible = %v, want %v (fields %v)", got, tt.wantRecorrencia, fieldNames(visible))
			}
			if got := containsField(visible, "numero_parcelas"); got != tt.wantParcelas {
				t.Errorf("numero_parcelas visible = %v, want %v (fields %v)", got, tt.wantParcelas, fieldNames(visible))
			}
		})
	}
}

func TestCoerceFaturamentoValor(t *testing.T) {
	base := map[string]string{
		"descricao":       "Mensalidade",
		"data_vencimento": "2025-06-10",
		"tipo":            "unico",
	}

	for raw, want := range map[string]float64{
		"1234.56": 1234.56,
		"1234,56": 1234.56,
		"100":     100,
	} {
		values := map[string]string{"valor": raw}
		for k, v := range base {
			values[k] = v
		}
		f, err := CoerceFaturamento(values)
		if err != nil {
			t.Errorf("CoerceFaturamento(valor=%q): %v", raw, err)
			continue
		}
		if f.Valor != want {
			t.Errorf("valor %q = %v, want %v", raw, f.Valor, want)
		}
	}
}

func TestCoerceFaturamentoParcelas(t *testing.T) {
	values := map[string]string{
		"descricao":       "Projeto",
		"valor":           "900",
		"data_vencimento": "2025-06-10",
		"tipo":            "personalizado",
		"numero_parcelas": "3",
	}
	f, err := CoerceFaturamento(values)
	if err != nil {
		t.Fatalf("CoerceFaturamento: %v", err)
	}
	if f.NumeroParcelas != 3 {
		t.Errorf("NumeroParcelas = %d, want 3", f.NumeroParcelas)
	}

	values["numero_parcelas"] = "tres"
	if _, err := CoerceFaturamento(values); !errors.Is(err, core.ErrParcelasInvalidas) {
		t.Errorf("non-numeric parcelas: %v, want ErrParcelasInvalidas", err)
	}
}

func TestCoerceFaturamentoDropsHiddenFields(t *testing.T) {
	// Stale recorrencia typed while tipo was recorrente must not leak into a
	// tipo=unico submit.
	values := map[string]string{
		"descricao":       "Avulso",
		"valor":           "50",
		"data_vencimento": "2025-06-10",
		"tipo":            "unico",
		"recorrencia":     "mensal",
		"numero_parcelas": "5",
	}
	f, err := CoerceFaturamento(values)
	if err != nil {
		t.Fatalf("CoerceFaturamento: %v", err)
	}
	if f.Recorrencia != "" || f.NumeroParcelas != 0 {
		t.Errorf("hidden fields leaked: recorrencia=%q parcelas=%d", f.Recorrencia, f.NumeroParcelas)
	}
}

func TestCoerceFaturamentoDefaults(t *testing.T) {
	f, err := CoerceFaturamento(map[string]string{
		"descricao":       "Simples",
		"valor":           "10",
		"data_vencimento": "2025-06-10",
	})
	if err != nil {
		t.Fatalf("CoerceFaturamento: %v", err)
	}
	if f.Status != core.StatusPendente || f.Tipo != core.TipoUnico {
		t.Errorf("defaults = %s/%s", f.Status, f.Tipo)
	}
}

func TestCoerceClienteRequiresNome(t *testing.T) {
	if _, err := CoerceCliente(map[string]string{"nome": "  "}); !errors.Is(err, core.ErrNomeVazio) {
		t.Errorf("err = %v, want ErrNomeVazio", err)
	}

	cliente, err := CoerceCliente(map[string]string{"nome": "Alfa", "email": "a@alfa.com"})
	if err != nil {
		t.Fatalf("CoerceCliente: %v", err)
	}
	if cliente.Nome != "Alfa" || cliente.Email != "a@alfa.com" {
		t.Errorf("cliente = %+v", cliente)
	}
}

func TestCoerceProdutoParsesValor(t *testing.T) {
	produto, err := CoerceProduto(map[string]string{"nome": "Hospedagem", "valor": "49,90"})
	if err != nil {
		t.Fatalf("CoerceProduto: %v", err)
	}
	if produto.Valor != 49.90 {
		t.Errorf("valor = %v, want 49.90", produto.Valor)
	}

	if _, err := CoerceProduto(map[string]string{"nome": "X", "valor": "abc"}); err == nil {
		t.Error("invalid valor should fail")
	}
}

func TestCheckRequiredHonorsVisibility(t *testing.T) {
	schema := FormSchema{Fields: []FieldSpec{
		{Name: "a", Label: "A", Required: true},
		{Name: "b", Label: "B", Required: true,
			Visible: func(v map[string]string) bool { return v["a"] == "mostrar" }},
	}}

	// b hidden: only a is required.
	if err := checkRequired(schema, map[string]string{"a": "x"}); err != nil {
		t.Errorf("hidden required field enforced: %v", err)
	}
	// b visible and empty: error.
	if err := checkRequired(schema, map[string]string{"a": "mostrar"}); err == nil {
		t.Error("visible required field not enforced")
	}
}

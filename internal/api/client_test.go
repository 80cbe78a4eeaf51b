package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mateuscelis/sistema/internal/core"
	"github.com/mateuscelis/sistema/internal/log"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Level: slog.LevelError, Component: log.ComponentAPI})
}

func TestDoDecodesSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/clientes" || r.Method != http.MethodGet {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"nome":"Empresa Alfa"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	clientes, err := c.ListClientes(context.Background())
	if err != nil {
		t.Fatalf("ListClientes: %v", err)
	}
	if len(clientes) != 1 || clientes[0].Nome != "Empresa Alfa" {
		t.Fatalf("clientes = %+v", clientes)
	}
}

func TestDoReturnsRemoteErrorWithJSONMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"registro não encontrado"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	_, err := c.GetCliente(context.Background(), 99)
	if err == nil {
		t.Fatal("want error")
	}

	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("error type = %T", err)
	}
	if re.StatusCode != http.StatusNotFound || re.Message != "registro não encontrado" {
		t.Fatalf("remote error = %+v", re)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should be true")
	}
}

func TestDoFallsBackToRawTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("gateway indisponivel"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	err := c.DeleteCliente(context.Background(), 1)

	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("error type = %T", err)
	}
	if re.StatusCode != http.StatusBadGateway || re.Message != "gateway indisponivel" {
		t.Fatalf("remote error = %+v", re)
	}
}

func TestDoEmptyBodyErrorUsesStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	err := c.DeleteCliente(context.Background(), 1)

	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("error type = %T", err)
	}
	if re.Message != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("message = %q", re.Message)
	}
}

func TestDoHandles204(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	if err := c.DeleteFaturamento(context.Background(), 3); err != nil {
		t.Fatalf("DeleteFaturamento: %v", err)
	}
}

func TestCreateSendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":10,"nome":"Nova"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	created, err := c.CreateCliente(context.Background(), core.Cliente{Nome: "Nova"})
	if err != nil {
		t.Fatalf("CreateCliente: %v", err)
	}
	if created.ID != 10 {
		t.Fatalf("created = %+v", created)
	}
}

func TestListFaturamentosComClientesSkipsFailedDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /clientes", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"nome":"Boa"},{"id":2,"nome":"Quebrada"},{"id":3,"nome":"Outra"}]`))
	})
	mux.HandleFunc("GET /clientes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.PathValue("id") {
		case "1":
			w.Write([]byte(`{"id":1,"nome":"Boa","produtos":[],"anotacoes":[],"faturamentos":[{"id":11,"cliente_id":1,"descricao":"A","valor":10,"data_vencimento":"2025-01-10","status":"pendente","tipo":"unico"}]}`))
		case "3":
			w.Write([]byte(`{"id":3,"nome":"Outra","produtos":[],"anotacoes":[],"faturamentos":[{"id":31,"cliente_id":3,"descricao":"B","valor":20,"data_vencimento":"2025-02-10","status":"pendente","tipo":"unico"}]}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"erro interno do servidor"}`))
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	faturamentos, err := c.ListFaturamentosComClientes(context.Background())
	if err != nil {
		t.Fatalf("ListFaturamentosComClientes: %v", err)
	}

	// Cliente 2 failed: its faturamentos are skipped, the rest survive.
	if len(faturamentos) != 2 {
		t.Fatalf("got %d faturamentos, want 2", len(faturamentos))
	}
	nomes := map[int64]string{11: "Boa", 31: "Outra"}
	for _, f := range faturamentos {
		if f.ClienteNome != nomes[f.ID] {
			t.Errorf("faturamento %d cliente_nome = %q, want %q", f.ID, f.ClienteNome, nomes[f.ID])
		}
	}
}

func TestListFaturamentosComClientesFailsWhenListingFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	if _, err := c.ListFaturamentosComClientes(context.Background()); err == nil {
		t.Fatal("want error when the cliente listing itself fails")
	}
}

func TestUpdateStatusUsesRegularUpdate(t *testing.T) {
	var gotPut core.Faturamento
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/faturamentos/7":
			w.Write([]byte(`{"id":7,"cliente_id":3,"descricao":"Consultoria","valor":500,"data_vencimento":"2025-07-10","status":"pendente"}`))
		case r.Method == http.MethodPut && r.URL.Path == "/faturamentos/7":
			if err := json.NewDecoder(r.Body).Decode(&gotPut); err != nil {
				t.Errorf("decode put body: %v", err)
			}
			gotPut.DataPagamento = "2025-07-12"
			json.NewEncoder(w).Encode(gotPut)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	updated, err := c.UpdateStatus(context.Background(), 7, core.StatusPago)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if gotPut.Status != core.StatusPago {
		t.Errorf("put status = %q, want pago", gotPut.Status)
	}
	if gotPut.Descricao != "Consultoria" || gotPut.Valor != 500 {
		t.Errorf("put body lost fields: %+v", gotPut)
	}
	if updated.DataPagamento == "" {
		t.Errorf("updated = %+v, want data_pagamento set", updated)
	}
}

func TestMarkOverdue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/faturamentos/update-status" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"2 faturamentos atualizados","count":2}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	count, err := c.MarkOverdue(context.Background())
	if err != nil {
		t.Fatalf("MarkOverdue: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
}

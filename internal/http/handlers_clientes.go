package http

import (
	"net/http"

	"github.com/mateuscelis/sistema/internal/core"
	"github.com/mateuscelis/sistema/internal/log"
)

func (s *Server) handleListClientes(w http.ResponseWriter, r *http.Request) {
	clientes, err := s.repo.ListClientes(r.Context())
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, clientes)
}

func (s *Server) handleCreateCliente(w http.ResponseWriter, r *http.Request) {
	var cliente core.Cliente
	if err := decodeJSON(r, &cliente); err != nil {
		respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if err := cliente.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.repo.CreateCliente(r.Context(), cliente)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "Cliente criado",
		log.FieldClienteID, created.ID,
		log.FieldClienteNome, created.Nome)
	respondJSON(w, http.StatusCreated, created)
}

// handleGetCliente returns the cliente with produtos, anotações and
// faturamentos embedded.
func (s *Server) handleGetCliente(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	detalhe, err := s.repo.GetClienteDetalhe(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, detalhe)
}

func (s *Server) handleUpdateCliente(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var cliente core.Cliente
	if err := decodeJSON(r, &cliente); err != nil {
		respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	cliente.ID = id
	if err := cliente.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.UpdateCliente(r.Context(), cliente); err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	// Cached aggregates embed cliente_nome.
	s.invalidateAggregates()

	updated, err := s.repo.GetCliente(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCliente(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.DeleteCliente(r.Context(), id); err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	// The cascade also removed the cliente's faturamentos.
	s.invalidateAggregates()

	s.logger.InfoContext(r.Context(), "Cliente removido", log.FieldClienteID, id)
	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"net/http"

	"github.com/mateuscelis/sistema/internal/core"
	"github.com/mateuscelis/sistema/internal/log"
)

func (s *Server) handleCreateProduto(w http.ResponseWriter, r *http.Request) {
	clienteID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var produto core.ProdutoServico
	if err := decodeJSON(r, &produto); err != nil {
		respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	produto.ClienteID = clienteID
	if err := produto.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Reject unknown clientes up front so the FK error never surfaces as 500.
	if _, err := s.repo.GetCliente(r.Context(), clienteID); err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	created, err := s.repo.CreateProduto(r.Context(), produto)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "Produto criado",
		log.FieldProdutoID, created.ID,
		log.FieldClienteID, clienteID)
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetProduto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	produto, err := s.repo.GetProduto(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, produto)
}

func (s *Server) handleUpdateProduto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := s.repo.GetProduto(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	var produto core.ProdutoServico
	if err := decodeJSON(r, &produto); err != nil {
		respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	produto.ID = id
	produto.ClienteID = existing.ClienteID
	if err := produto.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.UpdateProduto(r.Context(), produto); err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	updated, err := s.repo.GetProduto(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProduto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.DeleteProduto(r.Context(), id); err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "Produto removido", log.FieldProdutoID, id)
	w.WriteHeader(http.StatusNoContent)
}

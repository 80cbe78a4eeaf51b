package http

import (
	"net/http"

	"github.com/mateuscelis/sistema/internal/core"
	"github.com/mateuscelis/sistema/internal/log"
)

func (s *Server) handleCreateAnotacao(w http.ResponseWriter, r *http.Request) {
	clienteID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var anotacao core.Anotacao
	if err := decodeJSON(r, &anotacao); err != nil {
		respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	anotacao.ClienteID = clienteID
	if err := anotacao.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.repo.GetCliente(r.Context(), clienteID); err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	created, err := s.repo.CreateAnotacao(r.Context(), anotacao)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "Anotacao criada",
		log.FieldAnotacaoID, created.ID,
		log.FieldClienteID, clienteID)
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetAnotacao(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	anotacao, err := s.repo.GetAnotacao(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, anotacao)
}

func (s *Server) handleUpdateAnotacao(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := s.repo.GetAnotacao(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	var anotacao core.Anotacao
	if err := decodeJSON(r, &anotacao); err != nil {
		respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	anotacao.ID = id
	anotacao.ClienteID = existing.ClienteID
	if err := anotacao.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.UpdateAnotacao(r.Context(), anotacao); err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	updated, err := s.repo.GetAnotacao(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAnotacao(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.DeleteAnotacao(r.Context(), id); err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "Anotacao removida", log.FieldAnotacaoID, id)
	w.WriteHeader(http.StatusNoContent)
}

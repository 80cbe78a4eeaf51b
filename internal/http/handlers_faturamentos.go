package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mateuscelis/sistema/internal/core"
	"github.com/mateuscelis/sistema/internal/log"
)

func (s *Server) handleListFaturamentos(w http.ResponseWriter, r *http.Request) {
	faturamentos, err := s.repo.ListFaturamentos(r.Context())
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, faturamentos)
}

func (s *Server) handleCreateFaturamento(w http.ResponseWriter, r *http.Request) {
	clienteID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var faturamento core.Faturamento
	if err := decodeJSON(r, &faturamento); err != nil {
		respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	faturamento.ClienteID = clienteID

	if _, err := s.repo.GetCliente(r.Context(), clienteID); err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	created, err := s.svc.Create(r.Context(), faturamento)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	s.invalidateAggregates()

	s.logger.InfoContext(r.Context(), "Faturamento criado",
		log.FieldFaturamentoID, created.ID,
		log.FieldClienteID, clienteID,
		log.FieldValor, created.Valor,
		log.FieldTipo, string(created.Tipo))
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetFaturamento(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	faturamento, err := s.repo.GetFaturamento(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, faturamento)
}

// handleUpdateFaturamento overlays the editable fields onto the stored row,
// so tipo, recorrência and parcela links never change after creation.
func (s *Server) handleUpdateFaturamento(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := s.repo.GetFaturamento(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	var payload core.Faturamento
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	existing.Descricao = payload.Descricao
	existing.Valor = payload.Valor
	existing.DataVencimento = payload.DataVencimento
	existing.DataPagamento = payload.DataPagamento
	if payload.Status != "" {
		existing.Status = payload.Status
	}

	if err := s.svc.Update(r.Context(), existing, time.Now()); err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	s.invalidateAggregates()

	updated, err := s.repo.GetFaturamento(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteFaturamento(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.svc.Delete(r.Context(), id); err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	s.invalidateAggregates()

	s.logger.InfoContext(r.Context(), "Faturamento removido", log.FieldFaturamentoID, id)
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateStatus sweeps every pendente faturamento past due into
// atrasado, the same pass the background processor runs on its ticker. No
// payload; the response carries how many rows changed.
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	count, err := s.repo.MarkOverdue(r.Context(), hoje())
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	if count > 0 {
		s.invalidateAggregates()
	}

	s.logger.InfoContext(r.Context(), "Faturamentos vencidos marcados",
		log.FieldStatus, string(core.StatusAtrasado), "count", count)
	respondJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("%d faturamentos atualizados", count),
		"count":   count,
	})
}

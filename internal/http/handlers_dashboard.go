package http

import (
	"fmt"
	"net/http"
)

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	dia := hoje()
	key := "stats:" + dia
	if stats, ok := s.statsCache.Get(key); ok {
		respondJSON(w, http.StatusOK, stats)
		return
	}

	stats, err := s.repo.DashboardStats(r.Context(), dia)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.statsCache.Set(key, stats)
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleResumoMensal(w http.ResponseWriter, r *http.Request) {
	mes, ano, ok := parseMesAno(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "mes ou ano inválido")
		return
	}

	dia := hoje()
	key := fmt.Sprintf("resumo:%04d-%02d:%s", ano, mes, dia)
	if resumo, ok := s.resumoCache.Get(key); ok {
		respondJSON(w, http.StatusOK, resumo)
		return
	}

	resumo, err := s.repo.ResumoMensal(r.Context(), mes, ano, dia)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.resumoCache.Set(key, resumo)
	respondJSON(w, http.StatusOK, resumo)
}

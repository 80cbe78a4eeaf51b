package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mateuscelis/sistema/internal/core"
	"github.com/mateuscelis/sistema/internal/storage"
)

const maxBodySize = 1 << 20

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondDomainError maps an error to the API taxonomy: not-found → 404,
// validation sentinels → 400, anything else → 500 with a generic message.
func (s *Server) respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "registro não encontrado")
	case isValidationError(err):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.ErrorContext(r.Context(), "Erro interno",
			"path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "erro interno do servidor")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrNomeVazio,
		core.ErrNomeMuitoLongo,
		core.ErrTituloVazio,
		core.ErrConteudoVazio,
		core.ErrDescricaoVazia,
		core.ErrDescricaoMuitoLonga,
		core.ErrValorInvalido,
		core.ErrDataInvalida,
		core.ErrStatusInvalido,
		core.ErrTipoInvalido,
		core.ErrRecorrenciaInvalida,
		core.ErrParcelasInvalidas,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id inválido: %q", raw)
	}
	return id, nil
}

// parseMesAno reads mes/ano query parameters, defaulting to the current
// month. The returned ok is false when mes is out of range.
func parseMesAno(r *http.Request) (mes, ano int, ok bool) {
	now := time.Now()
	mes, ano = int(now.Month()), now.Year()

	if v := strings.TrimSpace(r.URL.Query().Get("mes")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, false
		}
		mes = m
	}
	if v := strings.TrimSpace(r.URL.Query().Get("ano")); v != "" {
		a, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, false
		}
		ano = a
	}
	if mes < 1 || mes > 12 || ano < 1 {
		return 0, 0, false
	}
	return mes, ano, true
}

func hoje() string {
	return time.Now().Format(core.LayoutData)
}

// Package http exposes the billing REST API consumed by the terminal client.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/mateuscelis/sistema/internal/cache"
	"github.com/mateuscelis/sistema/internal/core"
	"github.com/mateuscelis/sistema/internal/log"
	"github.com/mateuscelis/sistema/internal/services"
	"github.com/mateuscelis/sistema/internal/storage"
)

type Server struct {
	http.Server
	repo   *storage.Repository
	svc    *services.FaturamentoService
	logger *log.Logger

	rateLimiter *rateLimiter

	// Aggregate responses are cached until the next mutation or TTL.
	statsCache  *cache.LRUCache[core.DashboardStats]
	resumoCache *cache.LRUCache[core.ResumoMensal]
	caches      *cache.Manager

	shutdownOnce sync.Once
}

// NewServer wires routes, caches and middleware into a ready-to-run server.
func NewServer(addr string, repo *storage.Repository, svc *services.FaturamentoService, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		repo:        repo,
		svc:         svc,
		logger:      logger.WithComponent(log.ComponentHTTP),
		rateLimiter: newRateLimiter(),
		statsCache:  cache.NewLRUCache[core.DashboardStats](16, 5*time.Minute),
		resumoCache: cache.NewLRUCache[core.ResumoMensal](100, 5*time.Minute),
		caches:      cache.NewManager(),
	}
	s.caches.Register(s.statsCache)
	s.caches.Register(s.resumoCache)
	s.caches.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /clientes", s.handleListClientes)
	mux.HandleFunc("POST /clientes", s.handleCreateCliente)
	mux.HandleFunc("GET /clientes/{id}", s.handleGetCliente)
	mux.HandleFunc("PUT /clientes/{id}", s.handleUpdateCliente)
	mux.HandleFunc("DELETE /clientes/{id}", s.handleDeleteCliente)

	mux.HandleFunc("POST /clientes/{id}/produtos", s.handleCreateProduto)
	mux.HandleFunc("GET /produtos/{id}", s.handleGetProduto)
	mux.HandleFunc("PUT /produtos/{id}", s.handleUpdateProduto)
	mux.HandleFunc("DELETE /produtos/{id}", s.handleDeleteProduto)

	mux.HandleFunc("POST /clientes/{id}/anotacoes", s.handleCreateAnotacao)
	mux.HandleFunc("GET /anotacoes/{id}", s.handleGetAnotacao)
	mux.HandleFunc("PUT /anotacoes/{id}", s.handleUpdateAnotacao)
	mux.HandleFunc("DELETE /anotacoes/{id}", s.handleDeleteAnotacao)

	mux.HandleFunc("GET /faturamentos", s.handleListFaturamentos)
	mux.HandleFunc("POST /clientes/{id}/faturamentos", s.handleCreateFaturamento)
	mux.HandleFunc("GET /faturamentos/{id}", s.handleGetFaturamento)
	mux.HandleFunc("PUT /faturamentos/{id}", s.handleUpdateFaturamento)
	mux.HandleFunc("DELETE /faturamentos/{id}", s.handleDeleteFaturamento)
	mux.HandleFunc("POST /faturamentos/update-status", s.handleUpdateStatus)

	mux.HandleFunc("GET /dashboard/stats", s.handleDashboardStats)
	mux.HandleFunc("GET /resumo-mensal", s.handleResumoMensal)

	handler := s.withProtections(mux)
	handler = log.Middleware(s.logger)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the full middleware chain for tests.
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

// withProtections applies rate limiting to mutating requests and sets
// hardening headers on every response.
func (s *Server) withProtections(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP(r)) {
			s.logger.Warn("Limite de requisicoes excedido",
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "limite de requisições excedido")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// invalidateAggregates drops cached dashboard and resumo responses. Called
// after any write that can change totals.
func (s *Server) invalidateAggregates() {
	s.statsCache.Purge()
	s.resumoCache.Purge()
}

// Shutdown stops the HTTP server and the background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "banco de dados indisponível")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

package http

import (
	"context"
	"net/http"
	"time"

	"hushall/internal/cache"
	applog "hushall/internal/log"
	"hushall/internal/services"
)

const (
	summaryCacheSize = 128
	summaryCacheTTL  = 30 * time.Second
)

// Server is the JSON API over the budget service. Period summaries are
// served from a short-lived cache that mutations invalidate, so the live
// view never lags a write by more than one request.
type Server struct {
	http.Server

	budget       *services.BudgetService
	logger       *applog.Logger
	summaryCache *cache.LRUCache[summaryJSON]
}

func NewServer(addr string, budget *services.BudgetService, logger *applog.Logger, cacheManager *cache.Manager) *Server {
	s := &Server{
		budget:       budget,
		logger:       logger.WithComponent(applog.ComponentHTTP),
		summaryCache: cache.NewLRUCache[summaryJSON](summaryCacheSize, summaryCacheTTL),
	}
	if cacheManager != nil {
		cacheManager.Register(s.summaryCache)
	}

	s.Server = http.Server{
		Addr:         addr,
		Handler:      applog.Middleware(logger)(s.routes()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/periods", s.handleListPeriods)
	mux.HandleFunc("POST /api/periods", s.handleCreatePeriod)
	mux.HandleFunc("GET /api/periods/{id}", s.handleGetPeriod)
	mux.HandleFunc("DELETE /api/periods/{id}", s.handleDeletePeriod)

	mux.HandleFunc("GET /api/periods/{id}/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/periods/{id}/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/periods/{id}/summary", s.handleSummary)
	mux.HandleFunc("GET /api/periods/{id}/members", s.handleMemberSummaries)
	mux.HandleFunc("GET /api/periods/{id}/duplicates", s.handleDuplicates)
	mux.HandleFunc("POST /api/periods/{id}/import/preview", s.handleImportPreview)
	mux.HandleFunc("POST /api/periods/{id}/import", s.handleImportCommit)

	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	return mux
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Shutdown stops the server and the underlying service.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.Server.Shutdown(ctx); err != nil {
		return err
	}
	return s.budget.Close()
}

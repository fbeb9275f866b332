// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/filmcat/internal/domain/types"
	"github.com/okian/filmcat/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the controller implementation.
type Dependencies interface {
	// Read operations.
	View() types.View
	Query(term, category, sort string) types.View
	Categories() []string
	Status() types.Status

	// Commands. Each returns the recomputed view.
	Search(ctx context.Context, term string) types.View
	ClearSearch(ctx context.Context) types.View
	SelectCategory(ctx context.Context, category string) types.View
	SelectSort(ctx context.Context, key string) types.View
	Reset(ctx context.Context) types.View
	Reload(ctx context.Context) (types.View, error)
}

// Server wires HTTP routes for the catalog API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	catalogHandler *CatalogHandler
	log            logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		healthHandler:  NewHealthHandler(deps),
		statsHandler:   NewStatsHandler(statsProvider),
		catalogHandler: NewCatalogHandler(deps, log),
		log:            log,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	c := s.catalogHandler
	mux.HandleFunc("/api/view", MetricsMiddleware(c.HandleView, "view"))
	mux.HandleFunc("/api/categories", MetricsMiddleware(c.HandleCategories, "categories"))
	mux.HandleFunc("/api/films", MetricsMiddleware(c.HandleFilms, "films"))
	mux.HandleFunc("/api/search", MetricsMiddleware(c.HandleSearch, "search"))
	mux.HandleFunc("/api/search/clear", MetricsMiddleware(c.HandleClearSearch, "search_clear"))
	mux.HandleFunc("/api/category", MetricsMiddleware(c.HandleCategory, "category"))
	mux.HandleFunc("/api/sort", MetricsMiddleware(c.HandleSort, "sort"))
	mux.HandleFunc("/api/reset", MetricsMiddleware(c.HandleReset, "reset"))
	mux.HandleFunc("/api/reload", MetricsMiddleware(c.HandleReload, "reload"))
	mux.HandleFunc("/cards", MetricsMiddleware(c.HandleCards, "cards"))
}

// Handler wraps mux with the request id and access log middleware.
func (s *Server) Handler(mux http.Handler) http.Handler {
	return RequestID(AccessLog(s.log, mux))
}

type searchRequest struct {
	Term string `json:"term"`
}

type categoryRequest struct {
	Category string `json:"category"`
}

type sortRequest struct {
	Sort string `json:"sort"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// allowMethod writes 405 and reports false when r.Method is not method.
func allowMethod(w http.ResponseWriter, r *http.Request, op, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
	return false
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/filmcat/internal/domain/types"
	"github.com/okian/filmcat/pkg/metrics"
)

// StatusProvider reports the catalog lifecycle status.
type StatusProvider interface {
	Status() types.Status
}

// HealthHandler handles health check and metrics requests.
type HealthHandler struct {
	status StatusProvider
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(status StatusProvider) *HealthHandler {
	return &HealthHandler{status: status}
}

type healthResponse struct {
	Status  string       `json:"status"`
	Catalog types.Status `json:"catalog"`
}

// HandleHealth handles GET /healthz. The process is live whenever it
// answers; the catalog status is reported alongside.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, "api.healthz", http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Catalog: h.status.Status()})
}

// MetricsHandler serves the custom Prometheus registry.
func (h *HealthHandler) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}

package handlers

import (
	"net/http"

	"vectoradmin/internal/contextutil"
	"vectoradmin/internal/service"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	console service.ConsoleService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(console service.ConsoleService) *HealthHandler {
	return &HealthHandler{console: console}
}

// ServeHTTP handles HTTP requests for health checks.
//
// Check whether the connected server answers its heartbeat.
// Returns 200 OK if healthy, 503 Service Unavailable otherwise.
//
// swagger:route GET /api/health healthCheck
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Server is reachable
//	'503':
//	  description: Server is unreachable
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	status := h.console.Health(ctx)
	httpStatus := http.StatusOK
	if status.Status != "healthy" {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(ctx, w, httpStatus, status)
}

// CapabilitiesHandler serves the capability matrix of the connected server.
type CapabilitiesHandler struct {
	console service.ConsoleService
}

// NewCapabilitiesHandler creates a new CapabilitiesHandler.
func NewCapabilitiesHandler(console service.ConsoleService) *CapabilitiesHandler {
	return &CapabilitiesHandler{console: console}
}

// ServeHTTP returns the cached matrix; ?refresh=true re-runs detection.
func (h *CapabilitiesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	refresh := parseBool(r.URL.Query().Get("refresh"))
	writeJSON(ctx, w, http.StatusOK, h.console.Capabilities(ctx, refresh))
}

package handlers

import (
	"net/http"

	"vectoradmin/internal/service"
)

// AnalysisHandler serves the embedding projection and similarity views.
type AnalysisHandler struct {
	console service.ConsoleService
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(console service.ConsoleService) *AnalysisHandler {
	return &AnalysisHandler{console: console}
}

// Visualize handles POST /api/collections/{collection}/visualize.
func (h *AnalysisHandler) Visualize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.VisualizeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	vis, err := h.console.Visualize(ctx, collectionParam(r), req)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to visualize collection")
		return
	}
	writeJSON(ctx, w, http.StatusOK, vis)
}

// Similarity handles POST /api/collections/{collection}/similarity.
func (h *AnalysisHandler) Similarity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.SimilarityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := h.console.Similarity(ctx, collectionParam(r), req)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to compute similarity")
		return
	}
	writeJSON(ctx, w, http.StatusOK, result)
}

package handlers

import (
	"net/http"

	"vectoradmin/internal/service"
)

// RecordHandler serves record browsing, deletion, queries and previews.
type RecordHandler struct {
	console service.ConsoleService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(console service.ConsoleService) *RecordHandler {
	return &RecordHandler{console: console}
}

// List handles POST /api/collections/{collection}/records. The body is an
// optional service.RecordsRequest; limit and offset may also be given as
// query parameters.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.RecordsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	var ok bool
	if req.Limit, ok = queryInt(r, "limit", req.Limit); !ok {
		writeError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}
	if req.Offset, ok = queryInt(r, "offset", req.Offset); !ok {
		writeError(w, http.StatusBadRequest, "offset must be an integer")
		return
	}

	page, err := h.console.GetRecords(ctx, collectionParam(r), req)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to get records")
		return
	}
	writeJSON(ctx, w, http.StatusOK, page)
}

// Delete handles POST /api/collections/{collection}/records/delete.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.DeleteRecordsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.console.DeleteRecords(ctx, collectionParam(r), req); err != nil {
		handleServiceError(w, ctx, err, "Failed to delete records")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// QueryResponse wraps ranked query matches.
type QueryResponse struct {
	Matches []service.QueryMatch `json:"matches"`
}

// Query handles POST /api/collections/{collection}/query.
func (h *RecordHandler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.QueryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	matches, err := h.console.Query(ctx, collectionParam(r), req)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to run query")
		return
	}
	writeJSON(ctx, w, http.StatusOK, QueryResponse{Matches: matches})
}

// Preview handles GET /api/collections/{collection}/records/{recordID}/preview.
// With ?format=html the rendered document is returned as a page fragment.
func (h *RecordHandler) Preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	preview, err := h.console.Preview(ctx, collectionParam(r), urlParam(r, "recordID"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to render preview")
		return
	}
	if r.URL.Query().Get("format") == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(preview.HTML))
		return
	}
	writeJSON(ctx, w, http.StatusOK, preview)
}

package handlers

import (
	"fmt"
	"net/http"

	"vectoradmin/internal/contextutil"
	"vectoradmin/internal/export"
	"vectoradmin/internal/service"
)

// maxImportBytes bounds uploaded export documents.
const maxImportBytes = 512 << 20

// TransferHandler serves export, import and mirroring.
type TransferHandler struct {
	console service.ConsoleService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(console service.ConsoleService) *TransferHandler {
	return &TransferHandler{console: console}
}

// SavedExportResponse names the stored export file.
type SavedExportResponse struct {
	Key     string `json:"key"`
	Records int    `json:"records"`
}

// Export handles GET /api/collections/{collection}/export. The document is
// sent as a download, or written to the export store with ?save=true.
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	doc, err := h.console.Export(ctx, collectionParam(r), func(fetched int) {
		logger.DebugContext(ctx, "export progress", "fetched", fetched)
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to export collection")
		return
	}

	if parseBool(r.URL.Query().Get("save")) {
		key, err := h.console.SaveExport(ctx, doc)
		if err != nil {
			handleServiceError(w, ctx, err, "Failed to save export")
			return
		}
		writeJSON(ctx, w, http.StatusCreated, SavedExportResponse{Key: key, Records: doc.Data.Len()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName()))
	if err := export.Encode(w, doc); err != nil {
		logger.ErrorContext(ctx, "failed to stream export", "error", err)
	}
}

// Import handles POST /api/import[?name=override]. The body is an export document.
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, err := export.Decode(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to read export document")
		return
	}
	col, err := h.console.Import(ctx, doc, r.URL.Query().Get("name"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to import collection")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, col)
}

// MirrorRequest names the Qdrant collection to copy into.
type MirrorRequest struct {
	Target string `json:"target"`
}

// Mirror handles POST /api/collections/{collection}/mirror.
func (h *TransferHandler) Mirror(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req MirrorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	report, err := h.console.Mirror(ctx, collectionParam(r), req.Target)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to mirror collection")
		return
	}
	writeJSON(ctx, w, http.StatusOK, report)
}

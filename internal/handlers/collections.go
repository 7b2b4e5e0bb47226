package handlers

import (
	"net/http"

	"vectoradmin/internal/contextutil"
	"vectoradmin/internal/service"
)

// CollectionHandler serves collection listing, lookup and deletion.
type CollectionHandler struct {
	console service.ConsoleService
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(console service.ConsoleService) *CollectionHandler {
	return &CollectionHandler{console: console}
}

// List handles GET /api/collections.
func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	collections, err := h.console.ListCollections(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list collections")
		return
	}
	writeJSON(ctx, w, http.StatusOK, collections)
}

// Get handles GET /api/collections/{collection}.
func (h *CollectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	collection, err := h.console.GetCollection(ctx, collectionParam(r))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to get collection")
		return
	}
	writeJSON(ctx, w, http.StatusOK, collection)
}

// Delete handles DELETE /api/collections/{collection}. The parameter is
// the collection name.
func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := collectionParam(r)
	if err := h.console.DeleteCollection(ctx, name); err != nil {
		handleServiceError(w, ctx, err, "Failed to delete collection")
		return
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "collection deleted via api", "collection", name)
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"vectoradmin/internal/chroma"
	"vectoradmin/internal/contextutil"
	"vectoradmin/internal/export"
	"vectoradmin/internal/mirror"
	"vectoradmin/internal/service"
	"vectoradmin/internal/vectorstore"
)

// maxBodyBytes bounds JSON request bodies other than imports.
const maxBodyBytes = 1 << 20

// ErrorResponse represents an error response.
//
// swagger:model ErrorResponse
type ErrorResponse struct {
	Error string `json:"error"`

	// Kind of upstream failure: http, validation, network or timeout
	Kind string `json:"kind,omitempty"`

	// CORS is set when a network failure looks like a cross-origin rejection.
	CORS bool `json:"cors,omitempty"`

	// Guidance tells the operator how to fix a CORS failure.
	Guidance string `json:"guidance,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeErrorResponse(w, status, ErrorResponse{Error: msg})
}

func writeErrorResponse(w http.ResponseWriter, status int, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// decodeBody decodes a JSON request body into v. An empty body leaves v
// unchanged.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	ctx := r.Context()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
func handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		logger.WarnContext(ctx, "validation error", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, export.ErrInvalidDocument), errors.Is(err, mirror.ErrNoEmbeddings):
		logger.WarnContext(ctx, "invalid input", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrNotConfigured):
		writeError(w, http.StatusNotImplemented, err.Error())
	case errors.Is(err, vectorstore.ErrCollectionMismatch):
		writeError(w, http.StatusConflict, err.Error())
	case chroma.KindOf(err) != chroma.KindUnknown:
		writeClientError(w, ctx, err)
	default:
		logger.ErrorContext(ctx, "service error", "error", err)
		writeError(w, http.StatusInternalServerError, defaultMsg)
	}
}

// writeClientError maps a protocol error to a response. Upstream 4xx
// statuses pass through; everything else the server did wrong is a 502,
// and a timeout is a 504.
func writeClientError(w http.ResponseWriter, ctx context.Context, err error) {
	kind := chroma.KindOf(err)
	resp := ErrorResponse{Error: err.Error(), Kind: kind.String()}
	status := http.StatusBadGateway

	switch kind {
	case chroma.KindHTTP:
		var httpErr *chroma.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status >= 400 && httpErr.Status < 500 {
			status = httpErr.Status
		}
	case chroma.KindTimeout:
		status = http.StatusGatewayTimeout
	case chroma.KindNetwork:
		var networkErr *chroma.NetworkError
		if errors.As(err, &networkErr) && networkErr.IsCORS {
			resp.CORS = true
			resp.Guidance = networkErr.Guidance
		}
	}

	contextutil.LoggerFromContext(ctx).WarnContext(ctx, "upstream request failed",
		"kind", resp.Kind, "status", status, "error", err)
	writeErrorResponse(w, status, resp)
}

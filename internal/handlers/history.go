package handlers

import (
	"net/http"
	"time"

	"vectoradmin/internal/chroma"
	"vectoradmin/internal/service"
	"vectoradmin/internal/storage"
)

// HistoryHandler serves saved profiles, the audit log and growth snapshots.
type HistoryHandler struct {
	console service.ConsoleService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(console service.ConsoleService) *HistoryHandler {
	return &HistoryHandler{console: console}
}

// ProfileResponse is a saved connection with its secrets masked.
type ProfileResponse struct {
	Name       string                  `json:"name"`
	Connection chroma.ConnectionConfig `json:"connection"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

// ProfileRequest is the body of PUT /api/profiles/{name}.
type ProfileRequest struct {
	Connection chroma.ConnectionConfig `json:"connection"`
}

// AuditEntryResponse is one audit log line.
type AuditEntryResponse struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	Collection string    `json:"collection"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// SnapshotResponse is one growth data point.
type SnapshotResponse struct {
	Count   int       `json:"count"`
	TakenAt time.Time `json:"taken_at"`
}

const masked = "********"

func toProfileResponse(p storage.Profile) ProfileResponse {
	c := p.Connection
	if c.Credentials.Token != "" {
		c.Credentials.Token = masked
	}
	if c.Credentials.Password != "" {
		c.Credentials.Password = masked
	}
	return ProfileResponse{Name: p.Name, Connection: c, UpdatedAt: p.UpdatedAt}
}

// ListProfiles handles GET /api/profiles.
func (h *HistoryHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profiles, err := h.console.ListProfiles(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list profiles")
		return
	}
	out := make([]ProfileResponse, len(profiles))
	for i, p := range profiles {
		out[i] = toProfileResponse(p)
	}
	writeJSON(ctx, w, http.StatusOK, out)
}

// SaveProfile handles PUT /api/profiles/{name}.
func (h *HistoryHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p := &storage.Profile{Name: urlParam(r, "name"), Connection: req.Connection}
	if err := h.console.SaveProfile(ctx, p); err != nil {
		handleServiceError(w, ctx, err, "Failed to save profile")
		return
	}
	writeJSON(ctx, w, http.StatusOK, toProfileResponse(*p))
}

// DeleteProfile handles DELETE /api/profiles/{name}.
func (h *HistoryHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.console.DeleteProfile(ctx, urlParam(r, "name")); err != nil {
		handleServiceError(w, ctx, err, "Failed to delete profile")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AuditLog handles GET /api/audit[?limit=n].
func (h *HistoryHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, ok := queryInt(r, "limit", 100)
	if !ok || limit < 1 || limit > 1000 {
		writeError(w, http.StatusBadRequest, "limit must be between 1 and 1000")
		return
	}
	entries, err := h.console.AuditLog(ctx, limit)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to read audit log")
		return
	}
	out := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = AuditEntryResponse{
			ID:         e.ID,
			Action:     e.Action,
			Collection: e.Collection,
			Detail:     e.Detail,
			CreatedAt:  e.CreatedAt,
		}
	}
	writeJSON(ctx, w, http.StatusOK, out)
}

// Snapshots handles GET /api/collections/{collection}/snapshots. The
// parameter is the collection id.
func (h *HistoryHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	snapshots, err := h.console.Snapshots(ctx, collectionParam(r))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to read snapshots")
		return
	}
	out := make([]SnapshotResponse, len(snapshots))
	for i, s := range snapshots {
		out[i] = SnapshotResponse{Count: s.Count, TakenAt: s.TakenAt}
	}
	writeJSON(ctx, w, http.StatusOK, out)
}

package service

import (
	"context"
	"fmt"
	"time"

	"vectoradmin/internal/chroma"
	"vectoradmin/internal/contextutil"
)

// CollectionSummary is a collection with its record count. Count is nil
// when the count request failed.
type CollectionSummary struct {
	chroma.Collection
	Count *int `json:"count,omitempty"`
}

// HealthStatus reports whether the connected server is reachable.
type HealthStatus struct {
	// Overall health status: "healthy" or "unhealthy"
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Issues    []string          `json:"issues,omitempty"`
}

// Health pings the server heartbeat.
func (c *Console) Health(ctx context.Context) HealthStatus {
	logger := contextutil.LoggerFromContext(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, chroma.ProbeTimeout)
	defer cancel()

	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    map[string]string{},
	}
	if _, err := c.client.Heartbeat(checkCtx); err != nil {
		logger.WarnContext(ctx, "server health check failed", "kind", chroma.KindOf(err).String(), "error", err)
		status.Status = "unhealthy"
		status.Checks["server"] = "error"
		status.Issues = append(status.Issues, "server_"+chroma.KindOf(err).String())
		if chroma.IsCORS(err) {
			status.Issues = append(status.Issues, "cors")
		}
	} else {
		status.Checks["server"] = "ok"
	}
	status.Checks["api_version"] = string(c.client.Session().Version())
	return status
}

// ListCollections returns every collection with a best-effort count.
func (c *Console) ListCollections(ctx context.Context) ([]CollectionSummary, error) {
	collections, err := c.client.ListCollections(ctx)
	if err != nil {
		return nil, WrapError(err, "list collections")
	}
	out := make([]CollectionSummary, len(collections))
	for i, col := range collections {
		out[i] = c.summarize(ctx, col)
	}
	return out, nil
}

// GetCollection returns one collection by name or id.
func (c *Console) GetCollection(ctx context.Context, nameOrID string) (CollectionSummary, error) {
	if nameOrID == "" {
		return CollectionSummary{}, &ValidationError{Field: "collection", Message: "cannot be empty"}
	}
	col, err := c.client.GetCollection(ctx, nameOrID)
	if err != nil {
		return CollectionSummary{}, WrapError(err, fmt.Sprintf("get collection %s", nameOrID))
	}
	return c.summarize(ctx, col), nil
}

// DeleteCollection removes a collection by name and audits it.
func (c *Console) DeleteCollection(ctx context.Context, name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Message: "cannot be empty"}
	}
	if err := c.client.DeleteCollection(ctx, name); err != nil {
		return WrapError(err, fmt.Sprintf("delete collection %s", name))
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "collection deleted", "collection", name)
	c.record(ctx, "delete_collection", name, "")
	return nil
}

func (c *Console) summarize(ctx context.Context, col chroma.Collection) CollectionSummary {
	s := CollectionSummary{Collection: col}
	n, err := c.client.CountRecords(ctx, col.ID)
	if err != nil {
		contextutil.LoggerFromContext(ctx).DebugContext(ctx, "count failed", "collection", col.Name, "error", err)
		return s
	}
	s.Count = &n
	return s
}

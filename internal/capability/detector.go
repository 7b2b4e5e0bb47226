// Package capability builds the per-session matrix of operations the
// connected server actually answers.
package capability

import (
	"context"
	"time"

	"vectoradmin/internal/chroma"
	"vectoradmin/internal/contextutil"
)

// Detector probes a server once per session and caches the result on the
// client's session.
type Detector struct {
	client       *chroma.Client
	probeTimeout time.Duration
}

// NewDetector creates a Detector for client.
func NewDetector(client *chroma.Client) *Detector {
	return &Detector{
		client:       client,
		probeTimeout: chroma.ProbeTimeout,
	}
}

// Cached returns the last detected capabilities, if detection has run.
func (d *Detector) Cached() (chroma.Capabilities, bool) {
	return d.client.Session().Capabilities()
}

// Detect re-runs version detection and every probe. Probe failures become
// false and are never returned as errors. When the server has no
// collections the item-level capabilities are assumed true, since there is
// nothing to test them against.
func (d *Detector) Detect(ctx context.Context) chroma.Capabilities {
	logger := contextutil.LoggerFromContext(ctx)

	version := d.client.DetectAPIVersion(ctx)
	caps := chroma.Capabilities{APIVersion: string(version)}

	caps.Heartbeat = d.probe(ctx, "heartbeat", func(ctx context.Context) error {
		_, err := d.client.Heartbeat(ctx)
		return err
	})
	caps.Version = d.probe(ctx, "version", func(ctx context.Context) error {
		v, err := d.client.ServerVersion(ctx)
		caps.ServerVersion = v
		return err
	})

	var collections []chroma.Collection
	caps.ListCollections = d.probe(ctx, "list_collections", func(ctx context.Context) error {
		var err error
		collections, err = d.client.ListCollections(ctx)
		return err
	})

	switch {
	case caps.ListCollections && len(collections) == 0:
		caps.GetCollection = true
		caps.CountCollection = true
		caps.GetItems = true
		caps.Query = true
	case caps.ListCollections:
		d.probeCollection(ctx, collections[0], &caps)
	}

	d.client.Session().SetCapabilities(caps)
	logger.InfoContext(ctx, "capabilities detected",
		"api_version", caps.APIVersion,
		"heartbeat", caps.Heartbeat,
		"list_collections", caps.ListCollections,
		"get_items", caps.GetItems,
		"query", caps.Query,
	)
	return caps
}

// probeCollection checks the item-level operations against a real collection.
// The query probe reuses an embedding from the get probe; when the collection
// holds no embedded record the query capability is assumed.
func (d *Detector) probeCollection(ctx context.Context, col chroma.Collection, caps *chroma.Capabilities) {
	caps.GetCollection = d.probe(ctx, "get_collection", func(ctx context.Context) error {
		_, err := d.client.GetCollection(ctx, col.Name)
		return err
	})
	caps.CountCollection = d.probe(ctx, "count_collection", func(ctx context.Context) error {
		_, err := d.client.CountRecords(ctx, col.ID)
		return err
	})

	var sample []float64
	caps.GetItems = d.probe(ctx, "get_items", func(ctx context.Context) error {
		batch, err := d.client.GetItems(ctx, col.ID, chroma.GetRequest{
			Limit:   1,
			Include: []string{chroma.IncludeEmbeddings},
		})
		if err == nil && batch.Len() > 0 {
			sample = batch.Embedding(0)
		}
		return err
	})

	if len(sample) == 0 {
		caps.Query = true
		return
	}
	caps.Query = d.probe(ctx, "query", func(ctx context.Context) error {
		_, err := d.client.Query(ctx, col.ID, chroma.QueryRequest{
			QueryEmbeddings: [][]float64{sample},
			NResults:        1,
		})
		return err
	})
}

func (d *Detector) probe(ctx context.Context, name string, fn func(context.Context) error) bool {
	probeCtx, cancel := context.WithTimeout(ctx, d.probeTimeout)
	defer cancel()

	if err := fn(probeCtx); err != nil {
		contextutil.LoggerFromContext(ctx).DebugContext(ctx, "capability probe failed",
			"probe", name, "kind", chroma.KindOf(err).String(), "error", err)
		return false
	}
	return true
}

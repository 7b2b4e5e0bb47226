// Package mirror copies exported collections into a Qdrant collection.
package mirror

import (
	"context"
	"errors"
	"fmt"

	"vectoradmin/internal/contextutil"
	"vectoradmin/internal/export"
	"vectoradmin/internal/vectorstore"
)

// DefaultBatchSize is the number of points sent per upsert.
const DefaultBatchSize = 256

// ErrNoEmbeddings is returned when a document has no record with an embedding.
var ErrNoEmbeddings = errors.New("no records with embeddings")

// Payload keys written for every point.
const (
	PayloadSourceID   = "source_id"
	PayloadCollection = "source_collection"
	PayloadDocument   = "document"
	PayloadMetadata   = "metadata"
)

// Report summarises a Copy.
type Report struct {
	Target      string `json:"target"`
	Mirrored    int    `json:"mirrored"`
	Skipped     int    `json:"skipped"`
	VectorSize  int    `json:"vector_size"`
	Distance    string `json:"distance"`
	PointsCount int    `json:"points_count"`
}

// Mirror pushes export documents into a VectorStore.
type Mirror struct {
	store     vectorstore.VectorStore
	batchSize int
}

// New creates a Mirror writing to store.
func New(store vectorstore.VectorStore) *Mirror {
	return &Mirror{store: store, batchSize: DefaultBatchSize}
}

// Copy upserts every record of doc that has an embedding into target.
// Point ids are derived from the source collection and record id, so
// copying the same document twice overwrites instead of duplicating.
// Records without an embedding, or whose dimension differs from the
// first embedded record, are skipped.
func (m *Mirror) Copy(ctx context.Context, doc export.Document, target string) (Report, error) {
	logger := contextutil.LoggerFromContext(ctx)
	report := Report{Target: target}

	data := doc.Data
	dim := 0
	for i := range data.Len() {
		if e := data.Embedding(i); len(e) > 0 {
			dim = len(e)
			break
		}
	}
	if dim == 0 {
		return report, fmt.Errorf("mirror %s: %w", doc.Name, ErrNoEmbeddings)
	}
	report.VectorSize = dim
	spec := vectorstore.CollectionSpec{
		Name:       target,
		VectorSize: dim,
		Distance:   vectorstore.DistanceFromMetadata(doc.Metadata),
	}
	report.Distance = string(spec.Distance)

	if err := m.store.EnsureCollection(ctx, spec); err != nil {
		return report, fmt.Errorf("prepare %s: %w", target, err)
	}

	batch := make([]vectorstore.Point, 0, m.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := m.store.Upsert(ctx, target, batch); err != nil {
			return fmt.Errorf("upsert into %s after %d points: %w", target, report.Mirrored, err)
		}
		report.Mirrored += len(batch)
		batch = batch[:0]
		return nil
	}

	for i, id := range data.IDs {
		embedding := data.Embedding(i)
		if len(embedding) != dim {
			report.Skipped++
			continue
		}

		meta := map[string]any{
			PayloadSourceID:   id,
			PayloadCollection: doc.Name,
		}
		if text, ok := data.Document(i); ok {
			meta[PayloadDocument] = text
		}
		if md := data.Metadata(i); len(md) > 0 {
			meta[PayloadMetadata] = md
		}

		batch = append(batch, vectorstore.Point{
			ID:   vectorstore.PointID(doc.Name, id),
			Vec:  toFloat32(embedding),
			Meta: meta,
		})
		if len(batch) == m.batchSize {
			if err := flush(); err != nil {
				return report, err
			}
		}
	}
	if err := flush(); err != nil {
		return report, err
	}

	count, err := m.store.PointsCount(ctx, target)
	if err != nil {
		logger.WarnContext(ctx, "failed to read mirrored point count", "target", target, "error", err)
	} else {
		report.PointsCount = count
	}

	if report.Skipped > 0 {
		logger.WarnContext(ctx, "skipped records without usable embeddings", "collection", doc.Name, "skipped", report.Skipped)
	}
	logger.InfoContext(ctx, "mirrored collection", "collection", doc.Name, "target", target, "points", report.Mirrored)
	return report, nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

package schedule

import (
	"context"
	"errors"
	"fmt"

	"vectoradmin/internal/chroma"
	"vectoradmin/internal/contextutil"
	"vectoradmin/internal/storage"
)

// CollectionCounter is the protocol surface SnapshotJob reads.
type CollectionCounter interface {
	ListCollections(ctx context.Context) ([]chroma.Collection, error)
	CountRecords(ctx context.Context, collectionID string) (int, error)
}

// SnapshotJob records the record count of every collection.
type SnapshotJob struct {
	counter   CollectionCounter
	snapshots storage.SnapshotStore
}

// NewSnapshotJob creates a SnapshotJob.
func NewSnapshotJob(counter CollectionCounter, snapshots storage.SnapshotStore) *SnapshotJob {
	return &SnapshotJob{counter: counter, snapshots: snapshots}
}

func (j *SnapshotJob) Name() string {
	return "growth_snapshot"
}

// Run lists collections and records one snapshot per collection. A
// collection whose count fails is skipped and reported in the returned
// error; the others are still recorded.
func (j *SnapshotJob) Run(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	collections, err := j.counter.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}

	var (
		errs     []error
		recorded int
	)
	for _, col := range collections {
		count, err := j.counter.CountRecords(ctx, col.ID)
		if err != nil {
			logger.WarnContext(ctx, "snapshot count failed", "collection", col.Name, "error", err)
			errs = append(errs, fmt.Errorf("count %s: %w", col.Name, err))
			continue
		}
		if err := j.snapshots.Record(ctx, &storage.Snapshot{
			CollectionID:   col.ID,
			CollectionName: col.Name,
			Count:          count,
		}); err != nil {
			return fmt.Errorf("record snapshot for %s: %w", col.Name, err)
		}
		recorded++
	}

	logger.InfoContext(ctx, "recorded growth snapshots", "collections", len(collections), "recorded", recorded)
	return errors.Join(errs...)
}

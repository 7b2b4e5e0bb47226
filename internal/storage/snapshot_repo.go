package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_snapshot_store.go -package=mocks vectoradmin/internal/storage SnapshotStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SnapshotStore keeps the growth history of collections.
type SnapshotStore interface {
	// Record stores s and sets its ID. A zero TakenAt is set to now.
	Record(ctx context.Context, s *Snapshot) error
	// ListByCollection returns snapshots oldest first.
	ListByCollection(ctx context.Context, collectionID string) ([]Snapshot, error)
}

// SnapshotRepo implements SnapshotStore on SQLite.
type SnapshotRepo struct {
	db *sql.DB
}

// NewSnapshotRepo creates a new SnapshotRepo.
func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

func (r *SnapshotRepo) Record(ctx context.Context, s *Snapshot) error {
	if s.TakenAt.IsZero() {
		s.TakenAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO growth_snapshots (collection_id, collection_name, record_count, taken_at) VALUES (?, ?, ?, ?)",
		s.CollectionID, s.CollectionName, s.Count, formatTime(s.TakenAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get snapshot id: %w", err)
	}
	s.ID = id
	return nil
}

func (r *SnapshotRepo) ListByCollection(ctx context.Context, collectionID string) ([]Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, collection_id, collection_name, record_count, taken_at
		 FROM growth_snapshots WHERE collection_id = ? ORDER BY taken_at, id`,
		collectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	snapshots := []Snapshot{}
	for rows.Next() {
		var (
			s          Snapshot
			takenAtStr string
		)
		if err := rows.Scan(&s.ID, &s.CollectionID, &s.CollectionName, &s.Count, &takenAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if s.TakenAt, err = parseTime(takenAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse taken_at timestamp: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	return snapshots, nil
}

package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_audit_store.go -package=mocks vectoradmin/internal/storage AuditStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditStore records console operations that change server state.
type AuditStore interface {
	// Record assigns ID and CreatedAt when they are empty and stores the entry.
	Record(ctx context.Context, e *AuditEntry) error
	// List returns the newest entries first, at most limit of them.
	List(ctx context.Context, limit int) ([]AuditEntry, error)
}

// AuditRepo implements AuditStore on SQLite.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Record(ctx context.Context, e *AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO audit_log (id, action, collection, detail, created_at) VALUES (?, ?, ?, ?, ?)",
		e.ID, e.Action, e.Collection, e.Detail, formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepo) List(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, action, collection, detail, created_at FROM audit_log ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := []AuditEntry{}
	for rows.Next() {
		var (
			e            AuditEntry
			createdAtStr string
		)
		if err := rows.Scan(&e.ID, &e.Action, &e.Collection, &e.Detail, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if e.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit log: %w", err)
	}
	return entries, nil
}

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// timeLayout is how timestamps are written to TEXT columns. Fixed-width
// fractions keep lexical order equal to time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const (
	maxOpenConns = 4
	busyTimeout  = 5 * time.Second
)

// New opens the console database at path. The file is created if
// missing; its directory must exist.
func New(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d", path, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// WAL allows one writer next to readers; extra connections would only
	// queue on the write lock.
	db.SetMaxOpenConns(maxOpenConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return db, nil
}

// Migrate creates the console's tables. It is idempotent.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS connection_profiles (
			name TEXT PRIMARY KEY,
			base_url TEXT NOT NULL,
			mode TEXT NOT NULL,
			proxy_origin TEXT NOT NULL DEFAULT '',
			auth_type TEXT NOT NULL,
			token TEXT NOT NULL DEFAULT '',
			username TEXT NOT NULL DEFAULT '',
			password TEXT NOT NULL DEFAULT '',
			header_name TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS audit_log (
			id TEXT PRIMARY KEY,
			action TEXT NOT NULL,
			collection TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_created_at ON audit_log (created_at);`,
		`CREATE TABLE IF NOT EXISTS growth_snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			collection_id TEXT NOT NULL,
			collection_name TEXT NOT NULL,
			record_count INTEGER NOT NULL,
			taken_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_growth_snapshots_collection ON growth_snapshots (collection_id, taken_at);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

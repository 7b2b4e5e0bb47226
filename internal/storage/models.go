package storage

import (
	"time"

	"vectoradmin/internal/chroma"
)

// Profile is a saved connection.
type Profile struct {
	Name       string
	Connection chroma.ConnectionConfig
	UpdatedAt  time.Time
}

// AuditEntry records one destructive or bulk console operation.
type AuditEntry struct {
	ID         string    // UUID
	Action     string    // e.g. "delete_collection", "import"
	Collection string    // collection name or id the action targeted
	Detail     string    // free-form summary
	CreatedAt  time.Time
}

// Snapshot is the record count of a collection at a point in time.
type Snapshot struct {
	ID             int64
	CollectionID   string
	CollectionName string
	Count          int
	TakenAt        time.Time
}

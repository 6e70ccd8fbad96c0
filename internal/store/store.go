// Package store provides durable persistence for processed-event records.
package store

import (
	"context"
	"fmt"

	"earnings-bot/internal/models"
)

// ProcessedStore records which earnings events have already been posted.
// Records are append-only: marking is the last step of handling an event,
// and a marked key is never posted again.
type ProcessedStore interface {
	// IsProcessed reports whether a record exists for the key.
	IsProcessed(key models.EventKey) bool

	// MarkProcessed durably appends a record for the key. Marking an
	// already-processed key is a no-op.
	MarkProcessed(ctx context.Context, key models.EventKey, link string) error

	// Records returns a copy of all records in insertion order.
	Records() []models.ProcessedRecord

	// Close releases underlying resources.
	Close() error
}

// Open creates a ProcessedStore for the configured backend.
func Open(backend, path string) (ProcessedStore, error) {
	switch backend {
	case "file", "":
		return OpenFileStore(path)
	case "sqlite":
		return OpenSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

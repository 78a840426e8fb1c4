// Package ports declares the contracts the content store depends on.
// Adapters under internal/adapters implement them; the app layer sees only
// these interfaces and domain types.
package ports

import (
	"context"
)

// BlobStore is durable key/value storage for serialized collections.
//
// Implementations exist for memory, local files, SQLite, PostgreSQL and a
// remote HTTP service. Each must honor ctx cancellation.
type BlobStore interface {
	// Get returns the bytes stored under key.
	// Returns domain.ErrNotFound if the key has never been written.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// CheckedBlobStore is a BlobStore that can report its own health and must
// be closed on shutdown.
type CheckedBlobStore interface {
	BlobStore
	HealthChecker

	Close() error
}

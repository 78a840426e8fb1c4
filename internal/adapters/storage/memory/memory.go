// Package memory is a process-local ports.BlobStore. Contents vanish with
// the process; it backs tests and throwaway runs.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jsamuelsen/campus-qa/internal/domain"
)

// Store keeps blobs in a map.
type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// New returns an empty store.
func New() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

// Get returns a copy of the blob under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, domain.NewNotFoundError(domain.EntityBlob, key)
	}

	return slices.Clone(data), nil
}

// Put stores a copy of value.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.blobs[key] = slices.Clone(value)
	s.mu.Unlock()

	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.blobs, key)
	s.mu.Unlock()

	return nil
}

// Keys lists stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.blobs))
	for k := range s.blobs {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "storage.memory" }

// Check implements ports.HealthChecker.
func (s *Store) Check(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }

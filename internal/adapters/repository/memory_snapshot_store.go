package repository

import (
	"context"
	"sync"

	"github.com/codescalper/sankalp/internal/core/domain"
)

// InMemorySnapshotStore is the default backend: a single process keeps the
// slot in a map. Bytes are copied on the way in and out so callers can never
// alias the stored record.
type InMemorySnapshotStore struct {
	store map[string][]byte

	mu sync.RWMutex
}

var _ domain.SnapshotStore = (*InMemorySnapshotStore)(nil)

func NewInMemorySnapshotStore() *InMemorySnapshotStore {
	return &InMemorySnapshotStore{
		store: make(map[string][]byte),
	}
}

func (r *InMemorySnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, ok := r.store[key]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (r *InMemorySnapshotStore) Set(ctx context.Context, key string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	r.store[key] = stored
	return nil
}

func (r *InMemorySnapshotStore) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[key]; !ok {
		return domain.ErrSnapshotNotFound
	}

	delete(r.store, key)
	return nil
}

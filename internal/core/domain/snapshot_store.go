package domain

import "context"

// SnapshotStore is the key-value persistence slot for a serialized ledger.
// One record lives under one well-known key.
type SnapshotStore interface {
	// Get retrieves the raw record, or ErrSnapshotNotFound when the slot is empty.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes the raw record, replacing any previous value.
	Set(ctx context.Context, key string, data []byte) error

	// Delete purges the record. An empty slot is reported as ErrSnapshotNotFound.
	Delete(ctx context.Context, key string) error
}

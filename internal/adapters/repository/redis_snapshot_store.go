package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/codescalper/sankalp/internal/core/domain"
)

var _ domain.SnapshotStore = (*RedisSnapshotStore)(nil)

// RedisSnapshotStore keeps the ledger slot in Redis. Records carry no TTL:
// a sankalp lives until the user resets it.
type RedisSnapshotStore struct {
	client *redis.Client
}

func NewRedisSnapshotStore(client *redis.Client) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client}
}

func (r *RedisSnapshotStore) slotKey(key string) string {
	return fmt.Sprintf("sankalp:snapshot:%s", key)
}

func (r *RedisSnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.slotKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("redis snapshot store: read failed: %w", err)
	}
	return data, nil
}

func (r *RedisSnapshotStore) Set(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, r.slotKey(key), data, 0).Err(); err != nil {
		return fmt.Errorf("redis snapshot store: write failed: %w", err)
	}
	return nil
}

func (r *RedisSnapshotStore) Delete(ctx context.Context, key string) error {
	deleted, err := r.client.Del(ctx, r.slotKey(key)).Result()
	if err != nil {
		return fmt.Errorf("redis snapshot store: delete failed: %w", err)
	}
	if deleted == 0 {
		return domain.ErrSnapshotNotFound
	}
	return nil
}

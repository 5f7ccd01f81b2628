package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/codescalper/sankalp/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var _ domain.SnapshotStore = (*PostgresSnapshotStore)(nil)

const snapshotTableSchema = `
CREATE TABLE IF NOT EXISTS sankalp_snapshots (
    slot_key   TEXT PRIMARY KEY,
    data       JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresSnapshotStore keeps the ledger slot as a single row per key.
type PostgresSnapshotStore struct {
	db *sqlx.DB
}

func NewPostgresSnapshotStore(db *sqlx.DB) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{db: db}
}

// Migrate creates the slot table if it does not exist yet.
func (r *PostgresSnapshotStore) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, snapshotTableSchema); err != nil {
		return fmt.Errorf("postgres snapshot store: migration failed: %w", err)
	}
	return nil
}

func (r *PostgresSnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	query := `SELECT data FROM sankalp_snapshots WHERE slot_key = $1`

	err := r.db.GetContext(ctx, &data, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("postgres snapshot store: read failed: %w", err)
	}
	return data, nil
}

func (r *PostgresSnapshotStore) Set(ctx context.Context, key string, data []byte) error {
	query := `
        INSERT INTO sankalp_snapshots (slot_key, data, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (slot_key)
        DO UPDATE SET data = EXCLUDED.data, updated_at = now()`

	_, err := r.db.ExecContext(ctx, query, key, data)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return fmt.Errorf("postgres snapshot store: write failed (pq code %s): %w", pqErr.Code, err)
		}
		return fmt.Errorf("postgres snapshot store: write failed: %w", err)
	}
	return nil
}

func (r *PostgresSnapshotStore) Delete(ctx context.Context, key string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sankalp_snapshots WHERE slot_key = $1`, key)
	if err != nil {
		return fmt.Errorf("postgres snapshot store: delete failed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres snapshot store: delete failed: %w", err)
	}
	if affected == 0 {
		return domain.ErrSnapshotNotFound
	}
	return nil
}

package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codescalper/sankalp/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	_ = godotenv.Load("../../../.env")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("DB_USER", "sankalp_user"),
		getEnv("DB_PASSWORD", "secret"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "sankalp_db"),
	)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Skipf("Skipping Postgres integration test: %v", err)
	}
	return db
}

func TestPostgresSnapshotStore_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewPostgresSnapshotStore(db)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	key := fmt.Sprintf("test_%s", uuid.NewString())
	defer db.Exec("DELETE FROM sankalp_snapshots WHERE slot_key = $1", key)

	t.Run("Empty slot", func(t *testing.T) {
		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Upsert keeps a single row per slot", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, []byte(`{"totalDays":7,"version":1}`)))
		require.NoError(t, store.Set(ctx, key, []byte(`{"totalDays":21,"version":1}`)))

		var count int
		require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM sankalp_snapshots WHERE slot_key = $1", key))
		assert.Equal(t, 1, count)

		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.JSONEq(t, `{"totalDays":21,"version":1}`, string(got))
	})

	t.Run("Delete purges the row", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, key))

		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

		assert.ErrorIs(t, store.Delete(ctx, key), domain.ErrSnapshotNotFound)
	})
}

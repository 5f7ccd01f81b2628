package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestNewRedisClient_Integration(t *testing.T) {
	_ = godotenv.Load("../../../.env")

	host := getEnv("REDIS_HOST", "localhost")
	port := getEnv("REDIS_PORT", "6379")
	pass := os.Getenv("REDIS_PASSWORD")

	rdb, err := NewRedisClient(host, port, pass, 1)
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()

	t.Run("Connection ping", func(t *testing.T) {
		pong, err := rdb.Ping(ctx).Result()
		assert.NoError(t, err)
		assert.Equal(t, "PONG", pong)
	})

	t.Run("Set and get a value", func(t *testing.T) {
		key := "sankalp_test_key"
		require.NoError(t, rdb.Set(ctx, key, "hello", 1*time.Minute).Err())
		defer rdb.Del(ctx, key)

		val, err := rdb.Get(ctx, key).Result()
		assert.NoError(t, err)
		assert.Equal(t, "hello", val)
	})

	t.Run("Missing key reports redis.Nil", func(t *testing.T) {
		_, err := rdb.Get(ctx, "sankalp_test_missing").Result()
		assert.ErrorIs(t, err, redis.Nil)
	})

	t.Run("Bad address fails fast", func(t *testing.T) {
		_, err := NewRedisClient("localhost", "9999", "", 0)
		assert.Error(t, err)
	})
}

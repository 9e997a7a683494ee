//go:build integration

package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/crudforge/pkg/cache"
	"github.com/dmitrymomot/crudforge/store/redis"
)

func newRedisCache(t *testing.T, prefix string) (*cache.Redis, goredis.UniversalClient) {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}

	cfg := redis.DefaultConfig(url)
	cfg.RetryAttempts = 1
	client, err := redis.Connect(context.Background(), cfg)
	require.NoError(t, err, "failed to connect to Redis")
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedis(client, prefix, time.Minute), client
}

func TestRedis(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	prefix := "test-" + uuid.NewString()
	c, client := newRedisCache(t, prefix)

	_, err := c.Get(ctx, "missing")
	require.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), -1))

	got, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", string(got))

	ttl, err := client.TTL(ctx, prefix+":a").Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)

	ttl, err = client.TTL(ctx, prefix+":b").Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl, "negative TTL persists")

	require.NoError(t, c.Delete(ctx, "a", "b"))
	_, err = c.Get(ctx, "b")
	require.ErrorIs(t, err, cache.ErrNotFound)
	require.NoError(t, c.Delete(ctx))
	require.NoError(t, c.Close())
}

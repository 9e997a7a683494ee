package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/crudforge/pkg/cache"
)

type fakeClock struct {
	now time.Time
	mu  sync.Mutex
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemory_GetSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory()

	_, err := c.Get(ctx, "missing")
	require.ErrorIs(t, err, cache.ErrNotFound)

	value := []byte(`{"id":1}`)
	require.NoError(t, c.Set(ctx, "products:1", value, 0))

	value[0] = 'x'
	got, err := c.Get(ctx, "products:1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, string(got), "stored value must not alias the caller's slice")

	got[0] = 'y'
	again, err := c.Get(ctx, "products:1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, string(again))

	require.NoError(t, c.Set(ctx, "products:1", []byte(`{"id":2}`), 0))
	got, err = c.Get(ctx, "products:1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":2}`, string(got))

	stats := c.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, uint64(3), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestMemory_TTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := cache.NewMemory(cache.WithClock(clock.Now), cache.WithDefaultTTL(time.Minute))

	require.NoError(t, c.Set(ctx, "default", []byte("a"), 0))
	require.NoError(t, c.Set(ctx, "short", []byte("b"), time.Second))
	require.NoError(t, c.Set(ctx, "forever", []byte("c"), -1))

	clock.Advance(time.Second)
	_, err := c.Get(ctx, "short")
	require.ErrorIs(t, err, cache.ErrNotFound)
	_, err = c.Get(ctx, "default")
	require.NoError(t, err)

	clock.Advance(time.Hour)
	_, err = c.Get(ctx, "default")
	require.ErrorIs(t, err, cache.ErrNotFound)
	_, err = c.Get(ctx, "forever")
	require.NoError(t, err)

	assert.Equal(t, 1, c.Len())
}

func TestMemory_Eviction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory(cache.WithMaxEntries(2))

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))

	_, err := c.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "c", []byte("3"), 0))

	_, err = c.Get(ctx, "b")
	require.ErrorIs(t, err, cache.ErrNotFound, "least recently used entry is evicted")
	_, err = c.Get(ctx, "a")
	require.NoError(t, err)
	_, err = c.Get(ctx, "c")
	require.NoError(t, err)

	assert.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestMemory_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Delete(ctx, "a", "b", "missing"))
	require.NoError(t, c.Delete(ctx))
	assert.Zero(t, c.Len())
}

func TestMemory_Close(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory()
	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Close())

	_, err := c.Get(ctx, "a")
	require.ErrorIs(t, err, cache.ErrClosed)
	require.ErrorIs(t, c.Set(ctx, "a", nil, 0), cache.ErrClosed)
	require.ErrorIs(t, c.Delete(ctx, "a"), cache.ErrClosed)
}

func TestMemory_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory(cache.WithMaxEntries(8))

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Go(func() {
			key := string(rune('a' + i%10))
			for range 100 {
				_ = c.Set(ctx, key, []byte(key), 0)
				_, _ = c.Get(ctx, key)
				_ = c.Delete(ctx, key)
			}
		})
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 8)
}

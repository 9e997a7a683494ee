package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a cache backed by a Redis server. Keys are namespaced as
// "{prefix}:{key}" when a prefix is set.
type Redis struct {
	client     redis.UniversalClient
	prefix     string
	defaultTTL time.Duration
}

// NewRedis wraps client. The client's lifecycle stays with the caller.
func NewRedis(client redis.UniversalClient, prefix string, defaultTTL time.Duration) *Redis {
	return &Redis{
		client:     client,
		prefix:     prefix,
		defaultTTL: resolveTTL(defaultTTL, DefaultTTL),
	}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	// Redis treats 0 as no expiry.
	ttl = max(resolveTTL(ttl, r.defaultTTL), 0)
	return r.client.Set(ctx, r.key(key), value, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	return r.client.Del(ctx, full...).Err()
}

// Close is a no-op.
func (r *Redis) Close() error { return nil }

func (r *Redis) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

var _ Cache = (*Redis)(nil)

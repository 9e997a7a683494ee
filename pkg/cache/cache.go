// Package cache holds encoded documents keyed by string, in process or in Redis.
//
// Values are opaque byte slices; callers own the encoding. TTL semantics for
// Set are shared by every backend: a positive duration expires the entry,
// zero uses the backend's default and a negative duration never expires.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a key is absent or expired.
	ErrNotFound = errors.New("cache: entry not found")

	// ErrClosed is returned by operations on a closed cache.
	ErrClosed = errors.New("cache: closed")
)

// Cache stores byte payloads with expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// DefaultTTL applies when Set is called with a zero TTL and no other
// default was configured.
const DefaultTTL = 5 * time.Minute

func resolveTTL(ttl, def time.Duration) time.Duration {
	if ttl == 0 {
		return def
	}
	return ttl
}

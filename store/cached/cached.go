// Package cached wraps a store with a read-through document cache.
//
// Find results are cached under "{collection}:{id}" as the same JSON snapshot
// the drivers persist. Concurrent misses for one key share a single backend
// read. A successful Commit drops the keys of every staged model; a failed
// Commit drops them too, since the backend state is then unknown. All is
// never cached.
package cached

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/crudforge/pkg/cache"
	"github.com/dmitrymomot/crudforge/store"
)

// Store decorates another store with a cache.
type Store[M store.Model[ID], ID comparable] struct {
	inner  store.Store[M, ID]
	cache  cache.Cache
	group  singleflight.Group
	logger *slog.Logger
	ttl    time.Duration
}

// Option configures a cached Store.
type Option func(*options)

type options struct {
	logger *slog.Logger
	ttl    time.Duration
}

// WithTTL sets the lifetime of cached entries. Zero uses the cache default.
func WithTTL(d time.Duration) Option {
	return func(o *options) { o.ttl = d }
}

// WithLogger reports cache failures. Failures never fail the request;
// the backend result is returned instead.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New wraps inner with c.
func New[M store.Model[ID], ID comparable](inner store.Store[M, ID], c cache.Cache, opts ...Option) *Store[M, ID] {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[M, ID]{
		inner:  inner,
		cache:  c,
		logger: o.logger,
		ttl:    o.ttl,
	}
}

// Collection implements store.Store.
func (s *Store[M, ID]) Collection() string { return s.inner.Collection() }

// Session implements store.Store.
func (s *Store[M, ID]) Session() store.Session[M, ID] {
	return &session[M, ID]{inner: s.inner.Session(), store: s}
}

// Unwrap returns the decorated store.
func (s *Store[M, ID]) Unwrap() store.Store[M, ID] { return s.inner }

func (s *Store[M, ID]) key(id ID) string {
	return s.inner.Collection() + ":" + store.FormatID(id)
}

type session[M store.Model[ID], ID comparable] struct {
	inner   store.Session[M, ID]
	store   *Store[M, ID]
	touched []M
}

func (ss *session[M, ID]) All(ctx context.Context) ([]M, error) {
	return ss.inner.All(ctx)
}

func (ss *session[M, ID]) Find(ctx context.Context, id ID) (M, error) {
	var zero M
	s := ss.store
	key := s.key(id)

	if data, err := s.cache.Get(ctx, key); err == nil {
		if m, err := store.Decode[M](data); err == nil {
			return m, nil
		}
		s.logger.WarnContext(ctx, "dropping undecodable cache entry", slog.String("key", key))
	} else if !errors.Is(err, cache.ErrNotFound) {
		s.logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.Any("error", err))
	}

	data, err, _ := s.group.Do(key, func() (any, error) {
		m, err := ss.inner.Find(ctx, id)
		if err != nil {
			return nil, err
		}
		data, err := store.Encode(m)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.Any("error", err))
		}
		return data, nil
	})
	if err != nil {
		return zero, err
	}
	// Each caller decodes its own copy; the shared snapshot is never mutated.
	return store.Decode[M](data.([]byte))
}

func (ss *session[M, ID]) Insert(m M) {
	ss.inner.Insert(m)
	ss.touched = append(ss.touched, m)
}

func (ss *session[M, ID]) Remove(m M) {
	ss.inner.Remove(m)
	ss.touched = append(ss.touched, m)
}

func (ss *session[M, ID]) ApplyCurrentValues(target, source M) error {
	if err := ss.inner.ApplyCurrentValues(target, source); err != nil {
		return err
	}
	ss.touched = append(ss.touched, target)
	return nil
}

func (ss *session[M, ID]) Commit(ctx context.Context) error {
	err := ss.inner.Commit(ctx)

	if len(ss.touched) > 0 {
		keys := make([]string, 0, len(ss.touched))
		for _, m := range ss.touched {
			keys = append(keys, ss.store.key(m.GetID()))
		}
		ss.touched = nil
		// The request context may already be cancelled; invalidation must still run.
		// Stale entries then live until their TTL expires.
		if derr := ss.store.cache.Delete(context.WithoutCancel(ctx), keys...); derr != nil {
			ss.store.logger.ErrorContext(ctx, "cache invalidation failed",
				slog.Any("keys", keys), slog.Any("error", derr))
		}
	}
	return err
}

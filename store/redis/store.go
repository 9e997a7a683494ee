package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/crudforge/store"
)

const maxCommitAttempts = 16

// Store keeps one collection in Redis: a hash of JSON documents keyed by
// identity, a sorted set preserving insertion order, and a sequence counter.
// Keys share a hash tag so a collection stays on one cluster slot.
type Store[M store.Model[ID], ID comparable] struct {
	client   redis.UniversalClient
	name     string
	docsKey  string
	orderKey string
	seqKey   string
	opts     store.Options[ID]
}

// New binds a collection to client.
func New[M store.Model[ID], ID comparable](client redis.UniversalClient, collection string, opts ...store.Option[ID]) (*Store[M, ID], error) {
	if collection == "" {
		return nil, store.ErrEmptyCollection
	}
	return &Store[M, ID]{
		client:   client,
		name:     collection,
		docsKey:  fmt.Sprintf("crud:{%s}:docs", collection),
		orderKey: fmt.Sprintf("crud:{%s}:order", collection),
		seqKey:   fmt.Sprintf("crud:{%s}:seq", collection),
		opts:     store.BuildOptions(opts...),
	}, nil
}

// Collection implements store.Store.
func (s *Store[M, ID]) Collection() string { return s.name }

// Session implements store.Store.
func (s *Store[M, ID]) Session() store.Session[M, ID] {
	return &session[M, ID]{
		Tracker: store.NewTracker[M, ID](s.opts),
		store:   s,
	}
}

type session[M store.Model[ID], ID comparable] struct {
	store.Tracker[M, ID]
	store *Store[M, ID]
}

func (ss *session[M, ID]) All(ctx context.Context) ([]M, error) {
	s := ss.store

	ids, err := s.client.ZRange(ctx, s.orderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list %s: %w", s.name, err)
	}
	if len(ids) == 0 {
		return []M{}, nil
	}

	vals, err := s.client.HMGet(ctx, s.docsKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list %s: %w", s.name, err)
	}

	out := make([]M, 0, len(vals))
	for _, v := range vals {
		body, ok := v.(string)
		if !ok {
			// removed between ZRANGE and HMGET
			continue
		}
		m, err := store.Decode[M]([]byte(body))
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (ss *session[M, ID]) Find(ctx context.Context, id ID) (M, error) {
	var zero M
	s := ss.store

	key := store.FormatID(id)
	body, err := s.client.HGet(ctx, s.docsKey, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, fmt.Errorf("%w: %s/%s", store.ErrNotFound, s.name, key)
	}
	if err != nil {
		return zero, fmt.Errorf("redis: find %s/%s: %w", s.name, key, err)
	}

	return store.Decode[M](body)
}

type staged struct {
	key  string
	body []byte
	kind store.ChangeKind
}

// Commit validates staged changes against a WATCHed snapshot and applies
// them in one MULTI/EXEC, retrying when a concurrent writer interferes.
func (ss *session[M, ID]) Commit(ctx context.Context) error {
	pending := ss.Pending()
	if len(pending) == 0 {
		return nil
	}

	changes := make([]staged, 0, len(pending))
	var added int64
	for _, c := range pending {
		ch := staged{key: store.FormatID(c.ID), kind: c.Kind}
		if c.Kind != store.Deleted {
			body, err := store.Encode(c.Model)
			if err != nil {
				return err
			}
			ch.body = body
		}
		if c.Kind == store.Added {
			added++
		}
		changes = append(changes, ch)
	}

	s := ss.store
	apply := func(tx *redis.Tx) error {
		present := make(map[string]bool, len(changes))
		for _, ch := range changes {
			exists, ok := present[ch.key]
			if !ok {
				var err error
				exists, err = tx.HExists(ctx, s.docsKey, ch.key).Result()
				if err != nil {
					return fmt.Errorf("redis: commit %s: %w", s.name, err)
				}
			}

			switch ch.kind {
			case store.Added:
				if exists {
					return fmt.Errorf("%w: %s/%s", store.ErrDuplicate, s.name, ch.key)
				}
				present[ch.key] = true
			case store.Modified:
				if !exists {
					return fmt.Errorf("%w: %s/%s", store.ErrNotFound, s.name, ch.key)
				}
				present[ch.key] = true
			case store.Deleted:
				if !exists {
					return fmt.Errorf("%w: %s/%s", store.ErrNotFound, s.name, ch.key)
				}
				present[ch.key] = false
			}
		}

		// Gaps left by a failed EXEC are harmless; scores only order entries.
		var next int64
		if added > 0 {
			last, err := tx.IncrBy(ctx, s.seqKey, added).Result()
			if err != nil {
				return fmt.Errorf("redis: commit %s: %w", s.name, err)
			}
			next = last - added
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, ch := range changes {
				switch ch.kind {
				case store.Added:
					next++
					pipe.HSet(ctx, s.docsKey, ch.key, ch.body)
					pipe.ZAdd(ctx, s.orderKey, redis.Z{Score: float64(next), Member: ch.key})
				case store.Modified:
					pipe.HSet(ctx, s.docsKey, ch.key, ch.body)
				case store.Deleted:
					pipe.HDel(ctx, s.docsKey, ch.key)
					pipe.ZRem(ctx, s.orderKey, ch.key)
				}
			}
			return nil
		})
		return err
	}

	for range maxCommitAttempts {
		err := s.client.Watch(ctx, apply, s.docsKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return err
		}
		ss.Reset()
		return nil
	}

	return fmt.Errorf("%w: %s", ErrCommitConflict, s.name)
}

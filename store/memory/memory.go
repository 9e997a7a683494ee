// Package memory is an in-process store driver. Models are kept as JSON
// snapshots, so sessions never share mutable state with each other or with
// the committed data.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/dmitrymomot/crudforge/store"
)

// Store is an in-memory collection.
type Store[M store.Model[ID], ID comparable] struct {
	name  string
	opts  store.Options[ID]
	rows  map[ID][]byte
	order []ID
	mu    sync.RWMutex
}

// New creates an empty in-memory collection.
func New[M store.Model[ID], ID comparable](collection string, opts ...store.Option[ID]) (*Store[M, ID], error) {
	if collection == "" {
		return nil, store.ErrEmptyCollection
	}
	return &Store[M, ID]{
		name: collection,
		opts: store.BuildOptions(opts...),
		rows: make(map[ID][]byte),
	}, nil
}

// MustNew is like New but panics on error.
func MustNew[M store.Model[ID], ID comparable](collection string, opts ...store.Option[ID]) *Store[M, ID] {
	s, err := New[M, ID](collection, opts...)
	if err != nil {
		panic(err)
	}
	return s
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

// Len returns the number of committed models.
func (s *Store[M, ID]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

type session[M store.Model[ID], ID comparable] struct {
	store.Tracker[M, ID]
	store *Store[M, ID]
}

func (ss *session[M, ID]) All(ctx context.Context) ([]M, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := ss.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]M, 0, len(s.order))
	for _, id := range s.order {
		m, err := store.Decode[M](s.rows[id])
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (ss *session[M, ID]) Find(ctx context.Context, id ID) (M, error) {
	var zero M
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	s := ss.store
	s.mu.RLock()
	data, ok := s.rows[id]
	s.mu.RUnlock()

	if !ok {
		return zero, fmt.Errorf("%w: %s/%s", store.ErrNotFound, s.name, store.FormatID(id))
	}
	return store.Decode[M](data)
}

func (ss *session[M, ID]) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pending := ss.Pending()
	if len(pending) == 0 {
		return nil
	}

	s := ss.store
	s.mu.Lock()
	defer s.mu.Unlock()

	// Changes are applied to copies and swapped in only when all succeed.
	rows := maps.Clone(s.rows)
	order := slices.Clone(s.order)

	for _, c := range pending {
		switch c.Kind {
		case store.Added:
			if _, ok := rows[c.ID]; ok {
				return fmt.Errorf("%w: %s/%s", store.ErrDuplicate, s.name, store.FormatID(c.ID))
			}
			data, err := store.Encode(c.Model)
			if err != nil {
				return err
			}
			rows[c.ID] = data
			order = append(order, c.ID)
		case store.Modified:
			if _, ok := rows[c.ID]; !ok {
				return fmt.Errorf("%w: %s/%s", store.ErrNotFound, s.name, store.FormatID(c.ID))
			}
			data, err := store.Encode(c.Model)
			if err != nil {
				return err
			}
			rows[c.ID] = data
		case store.Deleted:
			if _, ok := rows[c.ID]; !ok {
				return fmt.Errorf("%w: %s/%s", store.ErrNotFound, s.name, store.FormatID(c.ID))
			}
			delete(rows, c.ID)
			order = slices.DeleteFunc(order, func(id ID) bool { return id == c.ID })
		}
	}

	s.rows = rows
	s.order = order
	ss.Reset()
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/crudforge/store"
)

const (
	selectAllSQL = `SELECT body FROM crud_documents WHERE collection = $1 ORDER BY seq`
	selectOneSQL = `SELECT body FROM crud_documents WHERE collection = $1 AND id = $2`
	insertSQL    = `INSERT INTO crud_documents (collection, id, body) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`
	updateSQL    = `UPDATE crud_documents SET body = $3, updated_at = now() WHERE collection = $1 AND id = $2`
	deleteSQL    = `DELETE FROM crud_documents WHERE collection = $1 AND id = $2`
)

// Store keeps one collection as JSONB documents in the crud_documents table.
// Identities are stored in their textual form (store.FormatID).
type Store[M store.Model[ID], ID comparable] struct {
	pool *pgxpool.Pool
	name string
	opts store.Options[ID]
}

// New binds a collection to pool. Run Migrate before first use.
func New[M store.Model[ID], ID comparable](pool *pgxpool.Pool, collection string, opts ...store.Option[ID]) (*Store[M, ID], error) {
	if collection == "" {
		return nil, store.ErrEmptyCollection
	}
	return &Store[M, ID]{
		pool: pool,
		name: collection,
		opts: store.BuildOptions(opts...),
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
	rows, err := ss.store.pool.Query(ctx, selectAllSQL, ss.store.name)
	if err != nil {
		return nil, fmt.Errorf("postgres: list %s: %w", ss.store.name, err)
	}

	bodies, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, fmt.Errorf("postgres: list %s: %w", ss.store.name, err)
	}

	out := make([]M, 0, len(bodies))
	for _, body := range bodies {
		m, err := store.Decode[M](body)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (ss *session[M, ID]) Find(ctx context.Context, id ID) (M, error) {
	var zero M

	key := store.FormatID(id)
	var body []byte
	err := ss.store.pool.QueryRow(ctx, selectOneSQL, ss.store.name, key).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, fmt.Errorf("%w: %s/%s", store.ErrNotFound, ss.store.name, key)
	}
	if err != nil {
		return zero, fmt.Errorf("postgres: find %s/%s: %w", ss.store.name, key, err)
	}

	return store.Decode[M](body)
}

func (ss *session[M, ID]) Commit(ctx context.Context) error {
	pending := ss.Pending()
	if len(pending) == 0 {
		return nil
	}

	name := ss.store.name
	err := WithTx(ctx, ss.store.pool, func(tx pgx.Tx) error {
		for _, c := range pending {
			key := store.FormatID(c.ID)

			var (
				tag pgconn.CommandTag
				err error
			)
			switch c.Kind {
			case store.Added, store.Modified:
				body, encErr := store.Encode(c.Model)
				if encErr != nil {
					return encErr
				}
				if c.Kind == store.Added {
					tag, err = tx.Exec(ctx, insertSQL, name, key, body)
				} else {
					tag, err = tx.Exec(ctx, updateSQL, name, key, body)
				}
			case store.Deleted:
				tag, err = tx.Exec(ctx, deleteSQL, name, key)
			}
			if err != nil {
				return fmt.Errorf("postgres: %s %s/%s: %w", c.Kind, name, key, err)
			}

			if tag.RowsAffected() == 0 {
				if c.Kind == store.Added {
					return fmt.Errorf("%w: %s/%s", store.ErrDuplicate, name, key)
				}
				return fmt.Errorf("%w: %s/%s", store.ErrNotFound, name, key)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	ss.Reset()
	return nil
}

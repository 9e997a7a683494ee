package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrymomot/crudforge/store"
)

const (
	selectAllSQL = `SELECT body FROM crud_documents WHERE collection = ? ORDER BY seq`
	selectOneSQL = `SELECT body FROM crud_documents WHERE collection = ? AND id = ?`
	insertSQL    = `INSERT INTO crud_documents (collection, id, body) VALUES (?, ?, ?) ON CONFLICT (collection, id) DO NOTHING`
	updateSQL    = `UPDATE crud_documents SET body = ?, updated_at = CURRENT_TIMESTAMP WHERE collection = ? AND id = ?`
	deleteSQL    = `DELETE FROM crud_documents WHERE collection = ? AND id = ?`
)

// Store keeps one collection as JSON documents in the crud_documents table.
type Store[M store.Model[ID], ID comparable] struct {
	db   *sql.DB
	name string
	opts store.Options[ID]
}

// New binds a collection to db. Run Migrate before first use.
func New[M store.Model[ID], ID comparable](db *sql.DB, collection string, opts ...store.Option[ID]) (*Store[M, ID], error) {
	if collection == "" {
		return nil, store.ErrEmptyCollection
	}
	return &Store[M, ID]{
		db:   db,
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
	rows, err := ss.store.db.QueryContext(ctx, selectAllSQL, ss.store.name)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list %s: %w", ss.store.name, err)
	}
	defer rows.Close()

	out := make([]M, 0)
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("sqlite: list %s: %w", ss.store.name, err)
		}
		m, err := store.Decode[M](body)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list %s: %w", ss.store.name, err)
	}
	return out, nil
}

func (ss *session[M, ID]) Find(ctx context.Context, id ID) (M, error) {
	var zero M

	key := store.FormatID(id)
	var body []byte
	err := ss.store.db.QueryRowContext(ctx, selectOneSQL, ss.store.name, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, fmt.Errorf("%w: %s/%s", store.ErrNotFound, ss.store.name, key)
	}
	if err != nil {
		return zero, fmt.Errorf("sqlite: find %s/%s: %w", ss.store.name, key, err)
	}

	return store.Decode[M](body)
}

func (ss *session[M, ID]) Commit(ctx context.Context) error {
	pending := ss.Pending()
	if len(pending) == 0 {
		return nil
	}

	name := ss.store.name
	err := WithTx(ctx, ss.store.db, func(tx *sql.Tx) error {
		for _, c := range pending {
			key := store.FormatID(c.ID)

			var (
				res sql.Result
				err error
			)
			switch c.Kind {
			case store.Added:
				body, encErr := store.Encode(c.Model)
				if encErr != nil {
					return encErr
				}
				res, err = tx.ExecContext(ctx, insertSQL, name, key, string(body))
			case store.Modified:
				body, encErr := store.Encode(c.Model)
				if encErr != nil {
					return encErr
				}
				res, err = tx.ExecContext(ctx, updateSQL, string(body), name, key)
			case store.Deleted:
				res, err = tx.ExecContext(ctx, deleteSQL, name, key)
			default:
				continue
			}
			if err != nil {
				return fmt.Errorf("sqlite: %s %s/%s: %w", c.Kind, name, key, err)
			}

			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("sqlite: %s %s/%s: %w", c.Kind, name, key, err)
			}
			if n == 0 {
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

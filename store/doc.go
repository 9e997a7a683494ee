// Package store defines the persistence contract used by generated CRUD
// endpoints, plus helpers shared by the drivers in its subpackages.
//
// A Store is one collection. Each request opens a Session, a unit of work
// that reads committed state and stages Insert, Remove and
// ApplyCurrentValues calls until Commit applies them atomically:
//
//	sess := products.Session()
//	p, err := sess.Find(ctx, 42)
//	if errors.Is(err, store.ErrNotFound) {
//	    // 404
//	}
//	sess.Remove(p)
//	if err := sess.Commit(ctx); err != nil {
//	    return err
//	}
//
// Drivers:
//   - store/memory: in-process, for tests and prototypes
//   - store/postgres: JSONB documents through pgx
//   - store/sqlite: JSON documents through database/sql and go-sqlite3
//   - store/redis: hash-per-collection documents through go-redis
//
// Models are serialized as JSON by every driver, so their exported fields
// and json tags define the stored shape.
package store

// Package sqlite is a SQLite store driver built on database/sql and
// github.com/mattn/go-sqlite3 (cgo).
//
// The layout mirrors store/postgres: one crud_documents table keyed by
// (collection, id) with a JSON body and an autoincrement sequence for
// insertion order, migrated with goose.
//
//	db, err := sqlite.Open(ctx, "data/crud.db")
//	if err != nil {
//		return err
//	}
//	if err := sqlite.Migrate(ctx, db, logger); err != nil {
//		return err
//	}
//	orders, err := sqlite.New[*Order](db, "orders", store.WithIDGenerator(store.UUIDGenerator()))
package sqlite

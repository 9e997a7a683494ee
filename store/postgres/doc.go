// Package postgres is a PostgreSQL store driver built on pgx.
//
// Every collection lives in one shared crud_documents table keyed by
// (collection, id), with the model serialized to JSONB and an identity
// column preserving insertion order. The schema is embedded and applied
// with goose.
//
// # Usage
//
//	pool, err := postgres.Connect(ctx, postgres.DefaultConfig(os.Getenv("DATABASE_URL")))
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := postgres.Migrate(ctx, pool, "", logger); err != nil {
//		return err
//	}
//
//	products, err := postgres.New[*Product](pool, "products",
//		store.WithIDGenerator(store.Sequence(1)),
//	)
//
// Commit runs all staged changes in one transaction through [WithTx]. An
// insert of an existing identity fails with store.ErrDuplicate; updating or
// removing a missing one fails with store.ErrNotFound.
package postgres

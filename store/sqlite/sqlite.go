package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

var (
	ErrFailedToOpenDB    = errors.New("sqlite: failed to open database")
	ErrHealthcheckFailed = errors.New("sqlite: healthcheck failed")
	ErrSetDialect        = errors.New("sqlite migrator: failed to set dialect")
	ErrApplyMigrations   = errors.New("sqlite migrator: failed to apply migrations")
)

// Open opens a SQLite database at path in WAL mode.
// ":memory:" opens a private in-memory database limited to one connection,
// since every new connection would otherwise see an empty database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.Join(ErrFailedToOpenDB, errors.New("empty path"))
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	db, err := sql.Open("sqlite3", path+sep+"_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenDB, err)
	}

	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -64000", // 64MB
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, errors.Join(ErrFailedToOpenDB, err)
		}
	}

	return db, nil
}

// Healthcheck returns a closure suitable for readiness checks.
func Healthcheck(db *sql.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		if db == nil {
			return ErrHealthcheckFailed
		}
		if err := db.PingContext(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Shutdown returns a hook that closes the database.
func Shutdown(db *sql.DB) func(ctx context.Context) error {
	return func(context.Context) error {
		return db.Close()
	}
}

// WithTx executes fn within a transaction, rolling back on error or panic.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

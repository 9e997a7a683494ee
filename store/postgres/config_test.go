package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/crudforge/store"
	"github.com/dmitrymomot/crudforge/store/postgres"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (i *item) GetID() int   { return i.ID }
func (i *item) SetID(id int) { i.ID = id }

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := postgres.DefaultConfig("postgres://localhost/db")
	require.Equal(t, "postgres://localhost/db", cfg.ConnectionString)
	require.Equal(t, "crud_schema_migrations", cfg.MigrationsTable)
	require.Equal(t, 3, cfg.RetryAttempts)
	require.Equal(t, 5*time.Second, cfg.RetryInterval)
	require.Equal(t, int32(10), cfg.MaxOpenConns)
}

func TestConnect_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := postgres.Connect(context.Background(), postgres.Config{ConnectionString: "://bad"})
	require.ErrorIs(t, err, postgres.ErrFailedToParseDBConfig)
}

func TestNew_EmptyCollection(t *testing.T) {
	t.Parallel()

	_, err := postgres.New[*item, int](nil, "")
	require.ErrorIs(t, err, store.ErrEmptyCollection)
}

func TestSession_EmptyCommit(t *testing.T) {
	t.Parallel()

	s, err := postgres.New[*item, int](nil, "items")
	require.NoError(t, err)
	require.Equal(t, "items", s.Collection())

	// Nothing staged: no transaction is opened, so a nil pool is never touched.
	require.NoError(t, s.Session().Commit(context.Background()))
}

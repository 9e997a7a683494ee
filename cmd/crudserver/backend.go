package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/crudforge/cmd/crudserver/inventory"
	"github.com/dmitrymomot/crudforge/config"
	"github.com/dmitrymomot/crudforge/pkg/cache"
	"github.com/dmitrymomot/crudforge/pkg/health"
	"github.com/dmitrymomot/crudforge/store"
	"github.com/dmitrymomot/crudforge/store/cached"
	"github.com/dmitrymomot/crudforge/store/memory"
	"github.com/dmitrymomot/crudforge/store/postgres"
	redisstore "github.com/dmitrymomot/crudforge/store/redis"
	"github.com/dmitrymomot/crudforge/store/sqlite"
)

// ErrNoMigrations is returned by backend.migrate for schemaless drivers.
var ErrNoMigrations = errors.New("driver has no migrations")

// backend is an opened store driver.
type backend struct {
	factory  inventory.StoreFactory
	checks   health.Checks
	migrate  func(ctx context.Context) error
	shutdown []func(ctx context.Context) error
	driver   string
}

// close releases the driver connection.
func (b *backend) close(ctx context.Context) error {
	var errs []error
	for _, fn := range b.shutdown {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// useCache puts a read-through cache in front of every store b opens.
func (b *backend) useCache(ctx context.Context, cfg config.CacheConfig, log *slog.Logger) error {
	var c cache.Cache
	switch cfg.Driver {
	case "":
		return nil
	case config.CacheMemory:
		c = cache.NewMemory(cache.WithMaxEntries(cfg.MaxEntries), cache.WithDefaultTTL(cfg.TTL))
	case config.CacheRedis:
		client, err := redisstore.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		if b.checks == nil {
			b.checks = health.Checks{}
		}
		b.checks["cache"] = redisstore.Healthcheck(client)
		b.shutdown = append(b.shutdown, redisstore.Shutdown(client))
		c = cache.NewRedis(client, cfg.Prefix, cfg.TTL)
	default:
		return fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
	b.shutdown = append(b.shutdown, func(context.Context) error { return c.Close() })

	opts := []cached.Option{cached.WithTTL(cfg.TTL), cached.WithLogger(log)}
	products, orders := b.factory.Products, b.factory.Orders
	b.factory.Products = func(o ...store.Option[int]) (store.Store[*inventory.Product, int], error) {
		s, err := products(o...)
		if err != nil {
			return nil, err
		}
		return cached.New(s, c, opts...), nil
	}
	b.factory.Orders = func(o ...store.Option[uuid.UUID]) (store.Store[*inventory.Order, uuid.UUID], error) {
		s, err := orders(o...)
		if err != nil {
			return nil, err
		}
		return cached.New(s, c, opts...), nil
	}
	return nil
}

func noMigrations(context.Context) error { return ErrNoMigrations }

// openBackend connects to the configured store driver.
func openBackend(ctx context.Context, cfg config.StoreConfig, log *slog.Logger) (*backend, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memoryBackend(), nil
	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return postgresBackend(pool, cfg.Postgres.MigrationsTable, log), nil
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return sqliteBackend(db, log), nil
	case config.DriverRedis:
		client, err := redisstore.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return redisBackend(client), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

func memoryBackend() *backend {
	return &backend{
		driver:  config.DriverMemory,
		migrate: noMigrations,
		factory: inventory.StoreFactory{
			Products: func(opts ...store.Option[int]) (store.Store[*inventory.Product, int], error) {
				return memory.New[*inventory.Product, int](inventory.ProductsCollection, opts...)
			},
			Orders: func(opts ...store.Option[uuid.UUID]) (store.Store[*inventory.Order, uuid.UUID], error) {
				return memory.New[*inventory.Order, uuid.UUID](inventory.OrdersCollection, opts...)
			},
		},
	}
}

func postgresBackend(pool *pgxpool.Pool, migrationsTable string, log *slog.Logger) *backend {
	return &backend{
		driver: config.DriverPostgres,
		checks: health.Checks{"postgres": postgres.Healthcheck(pool)},
		migrate: func(ctx context.Context) error {
			return postgres.Migrate(ctx, pool, migrationsTable, log)
		},
		shutdown: []func(context.Context) error{postgres.Shutdown(pool)},
		factory: inventory.StoreFactory{
			Products: func(opts ...store.Option[int]) (store.Store[*inventory.Product, int], error) {
				return postgres.New[*inventory.Product, int](pool, inventory.ProductsCollection, opts...)
			},
			Orders: func(opts ...store.Option[uuid.UUID]) (store.Store[*inventory.Order, uuid.UUID], error) {
				return postgres.New[*inventory.Order, uuid.UUID](pool, inventory.OrdersCollection, opts...)
			},
		},
	}
}

func sqliteBackend(db *sql.DB, log *slog.Logger) *backend {
	return &backend{
		driver: config.DriverSQLite,
		checks: health.Checks{"sqlite": sqlite.Healthcheck(db)},
		migrate: func(ctx context.Context) error {
			return sqlite.Migrate(ctx, db, log)
		},
		shutdown: []func(context.Context) error{sqlite.Shutdown(db)},
		factory: inventory.StoreFactory{
			Products: func(opts ...store.Option[int]) (store.Store[*inventory.Product, int], error) {
				return sqlite.New[*inventory.Product, int](db, inventory.ProductsCollection, opts...)
			},
			Orders: func(opts ...store.Option[uuid.UUID]) (store.Store[*inventory.Order, uuid.UUID], error) {
				return sqlite.New[*inventory.Order, uuid.UUID](db, inventory.OrdersCollection, opts...)
			},
		},
	}
}

func redisBackend(client goredis.UniversalClient) *backend {
	return &backend{
		driver:   config.DriverRedis,
		checks:   health.Checks{"redis": redisstore.Healthcheck(client)},
		migrate:  noMigrations,
		shutdown: []func(context.Context) error{redisstore.Shutdown(client)},
		factory: inventory.StoreFactory{
			Products: func(opts ...store.Option[int]) (store.Store[*inventory.Product, int], error) {
				return redisstore.New[*inventory.Product, int](client, inventory.ProductsCollection, opts...)
			},
			Orders: func(opts ...store.Option[uuid.UUID]) (store.Store[*inventory.Order, uuid.UUID], error) {
				return redisstore.New[*inventory.Order, uuid.UUID](client, inventory.OrdersCollection, opts...)
			},
		},
	}
}

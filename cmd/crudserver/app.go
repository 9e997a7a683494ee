package main

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/crudforge"
	"github.com/dmitrymomot/crudforge/cmd/crudserver/inventory"
	"github.com/dmitrymomot/crudforge/config"
	"github.com/dmitrymomot/crudforge/di"
	"github.com/dmitrymomot/crudforge/middlewares"
	"github.com/dmitrymomot/crudforge/pkg/metrics"
	"github.com/dmitrymomot/crudforge/registry"
)

// server is a configured App with the resources it owns.
type server struct {
	app       *crudforge.App
	container *di.Container
	backend   *backend
}

// close releases the container singletons, then the driver.
func (s *server) close(ctx context.Context) error {
	cerr := s.container.Close()
	berr := s.backend.close(ctx)
	if cerr != nil {
		return cerr
	}
	return berr
}

// buildServer wires the inventory registry onto an App backed by b.
func buildServer(ctx context.Context, cfg *config.Config, b *backend, log *slog.Logger, collector *metrics.Collector) (*server, error) {
	stores, err := inventory.OpenStores(ctx, b.factory)
	if err != nil {
		return nil, err
	}

	c := di.New()
	if err := inventory.Provide(c, stores, inventory.NewBuildInfo(Version, Commit)); err != nil {
		return nil, err
	}

	reg, err := inventory.NewRegistry(append(cfg.RegistryOptions(), registry.WithLogger(log))...)
	if err != nil {
		return nil, err
	}

	mw := []crudforge.Middleware{middlewares.RequestID(), middlewares.Recover()}
	if len(cfg.Server.CORSOrigins) > 0 {
		mw = append(mw, middlewares.CORS(middlewares.WithAllowOrigins(cfg.Server.CORSOrigins...)))
	}
	mw = append(mw, middlewares.Timeout(cfg.Server.RequestTimeout))

	health := make([]crudforge.HealthOption, 0, len(b.checks))
	for name, check := range b.checks {
		health = append(health, crudforge.WithReadinessCheck(name, check))
	}

	opts := []crudforge.Option{
		crudforge.WithCustomLogger(log),
		crudforge.WithContainer(c),
		crudforge.WithMiddleware(mw...),
		crudforge.WithHealthChecks(health...),
		crudforge.WithRegistry(reg),
	}
	if cfg.Metrics.Enabled && collector != nil {
		opts = append(opts, crudforge.WithMetrics(collector, cfg.Metrics.Path))
	}

	app, err := crudforge.New(opts...)
	if err != nil {
		return nil, err
	}
	return &server{app: app, container: c, backend: b}, nil
}

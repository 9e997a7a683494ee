package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/crudforge"
	"github.com/dmitrymomot/crudforge/middlewares"
	"github.com/dmitrymomot/crudforge/pkg/metrics"
)

var (
	serveAddr    string
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		log, err := cfg.Logger(middlewares.RequestIDExtractor())
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		b, err := openBackend(ctx, cfg.Store, log)
		if err != nil {
			return err
		}

		if err := b.useCache(ctx, cfg.Cache, log); err != nil {
			_ = b.close(ctx)
			return err
		}

		if serveMigrate {
			if err := b.migrate(ctx); err != nil && !errors.Is(err, ErrNoMigrations) {
				_ = b.close(ctx)
				return err
			}
		}

		srv, err := buildServer(ctx, cfg, b, log, metrics.New())
		if err != nil {
			_ = b.close(ctx)
			return err
		}

		return srv.app.Run(cfg.Server.Addr,
			crudforge.Logger(log),
			crudforge.WithContext(ctx),
			crudforge.ShutdownTimeout(cfg.Server.ShutdownTimeout),
			crudforge.ServerTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.IdleTimeout),
			crudforge.ShutdownHook(srv.close),
		)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Apply store migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

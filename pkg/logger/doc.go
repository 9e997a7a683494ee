// Package logger provides structured logging with context extraction and
// optional Sentry reporting, built on log/slog.
//
// # Basic Usage
//
//	log := logger.New(middlewares.RequestIDExtractor())
//	log.InfoContext(ctx, "product created", slog.Int("id", 7))
//	// {"level":"INFO","msg":"product created","id":7,"request_id":"0190..."}
//
// Extractors run on every log call, so request-scoped values stay fresh.
//
// # Configuration
//
// NewWithConfig selects level, format and destination; ParseLevel reads
// level names from configuration files:
//
//	level, err := logger.ParseLevel(cfg.Log.Level)
//	log := logger.NewWithConfig(logger.Config{Level: level, Format: logger.FormatText})
//
// # Sentry Integration
//
// When a DSN is configured, records fan out to stdout and Sentry. Errors
// create Sentry issues; warnings are kept as logs. Without a DSN, or if the
// SDK fails to initialize, logging continues to stdout only.
//
//	log := logger.NewWithSentry(logger.SentryConfig{DSN: os.Getenv("SENTRY_DSN")})
//
// NewNope returns a logger that discards everything; it is the default of
// every component that accepts a logger.
package logger

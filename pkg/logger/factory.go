package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ErrInvalidLevel is returned by ParseLevel for unknown level names.
var ErrInvalidLevel = errors.New("logger: invalid level")

// Format selects the stdout encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config controls the stdout handler and optional Sentry fan-out.
type Config struct {
	Output io.Writer    `yaml:"-"`
	Format Format       `yaml:"format"`
	Sentry SentryConfig `yaml:"sentry"`
	Level  slog.Level   `yaml:"-"`
}

// New creates a JSON-formatted logger with optional context extractors.
func New(extractors ...ContextExtractor) *slog.Logger {
	return NewWithConfig(Config{}, extractors...)
}

// NewWithConfig creates a logger writing to cfg.Output (stdout by default)
// and, when cfg.Sentry.DSN is set, to Sentry.
func NewWithConfig(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	stdout := newStdoutHandler(cfg)
	if cfg.Sentry.DSN == "" {
		return slog.New(NewContextHandler(stdout, extractors...))
	}
	return newSentryLogger(cfg.Sentry, stdout, extractors...)
}

// ParseLevel parses debug, info, warn (or warning) and error.
// An empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

func newStdoutHandler(cfg Config) slog.Handler {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == FormatText {
		return slog.NewTextHandler(out, opts)
	}
	return slog.NewJSONHandler(out, opts)
}

package health

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultTimeout = 5 * time.Second

	// StatusHealthy indicates all checks passed.
	StatusHealthy = "healthy"
	// StatusUnhealthy indicates one or more checks failed.
	StatusUnhealthy = "unhealthy"
)

// CheckFunc is the standard health check function signature.
// Store drivers expose closures of this shape (postgres.Healthcheck, redis.Healthcheck).
type CheckFunc func(ctx context.Context) error

// Checks is a map of named health check functions.
type Checks map[string]CheckFunc

// Response represents a health check response.
type Response struct {
	Checks map[string]Check `json:"checks,omitempty"`
	Status string           `json:"status"`
}

// Check represents the status of a single health check.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type config struct {
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures health check behavior.
type Option func(*config)

// WithTimeout sets the timeout for all checks.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger for failed checks.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		timeout: defaultTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Evaluate runs all checks concurrently under a shared timeout.
// A failing check never cancels the others. The returned error joins
// ErrCheckFailed (or ErrCheckTimeout) with every individual failure.
func Evaluate(ctx context.Context, checks Checks, opts ...Option) (*Response, error) {
	return runChecks(ctx, checks, newConfig(opts...))
}

func runChecks(ctx context.Context, checks Checks, cfg *config) (*Response, error) {
	if len(checks) == 0 {
		return &Response{Status: StatusHealthy}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		g       errgroup.Group
		results = make(map[string]Check, len(checks))
	)

	for name, check := range checks {
		g.Go(func() error {
			result := Check{Status: StatusHealthy}
			err := check(ctx)
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					err = errors.Join(ErrCheckTimeout, err)
				}
				result.Status = StatusUnhealthy
				result.Error = err.Error()
				cfg.logger.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
				)
			}

			mu.Lock()
			results[name] = result
			mu.Unlock()

			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}

	// errgroup keeps only the first error; rebuild the full set from results.
	resp := &Response{Status: StatusHealthy, Checks: results}
	if g.Wait() == nil {
		return resp, nil
	}

	resp.Status = StatusUnhealthy
	errs := []error{ErrCheckFailed}
	for name, c := range results {
		if c.Status == StatusUnhealthy {
			errs = append(errs, fmt.Errorf("%s: %s", name, c.Error))
		}
	}
	return resp, errors.Join(errs...)
}

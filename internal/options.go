package internal

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/crudforge/di"
	"github.com/dmitrymomot/crudforge/pkg/health"
	"github.com/dmitrymomot/crudforge/pkg/logger"
)

// Option configures the application.
type Option func(*App)

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithModules registers modules contributing services and routes.
// Modules map their routes after all plain handlers.
func WithModules(m ...Module) Option {
	return func(a *App) {
		for _, mod := range m {
			if mod != nil {
				a.modules = append(a.modules, mod)
			}
		}
	}
}

// WithContainer sets the dependency container. Without it, New creates one
// when a module is registered. A caller-supplied container is not closed by Run.
func WithContainer(c *di.Container) Option {
	return func(a *App) {
		a.container = c
	}
}

// WithMount attaches a plain http.Handler at pattern, outside the Router.
//
// Example:
//
//	crudforge.WithMount("/metrics", m.Handler())
func WithMount(pattern string, h http.Handler) Option {
	return func(a *App) {
		if pattern != "" && h != nil {
			a.mounts = append(a.mounts, mount{handler: h, pattern: pattern})
		}
	}
}

// WithRequestObserver records every routed request, e.g. into metrics.
func WithRequestObserver(o RequestObserver) Option {
	return func(a *App) {
		a.observer = o
	}
}

// WithErrorHandler sets a custom error handler for handler errors.
// Called when a handler returns a non-nil error.
//
// Example:
//
//	crudforge.WithErrorHandler(func(c crudforge.Context, err error) error {
//	    return c.JSON(http.StatusInternalServerError, map[string]string{
//	        "error": err.Error(),
//	    })
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithHealthChecks enables health check endpoints with optional configuration.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	crudforge.WithHealthChecks(
//	    crudforge.WithReadinessCheck("store", postgres.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			checks:        make(health.Checks),
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger creates a logger with a component name and optional extractors.
// Extractors pull values from context (e.g., request_id).
//
// Example:
//
//	crudforge.New(
//	    crudforge.WithLogger("api", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(extractors...).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

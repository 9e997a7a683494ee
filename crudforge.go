package crudforge

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/crudforge/di"
	"github.com/dmitrymomot/crudforge/internal"
	"github.com/dmitrymomot/crudforge/pkg/health"
	"github.com/dmitrymomot/crudforge/pkg/logger"
	"github.com/dmitrymomot/crudforge/pkg/metrics"
	"github.com/dmitrymomot/crudforge/registry"
)

// Type aliases - public API
type (
	// App orchestrates the application lifecycle.
	// It manages HTTP routing, middleware, modules and graceful shutdown.
	App = internal.App

	// Router is the interface handlers and controllers use to declare routes.
	Router = internal.Router

	// Route is a registered endpoint. Customizers annotate it.
	Route = internal.Route

	// RouteInfo is the read-only description of a Route.
	RouteInfo = internal.RouteInfo

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Module contributes services and routes to an App.
	Module = internal.Module

	// RequestObserver receives one call per handled route.
	RequestObserver = internal.RequestObserver

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// HTTPError carries a status code and a client-facing message.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// ResponseWriter wraps http.ResponseWriter with status tracking.
	ResponseWriter = internal.ResponseWriter

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor
)

// ErrEmptyBody is returned by Context.BindJSON when the request has no body.
var ErrEmptyBody = internal.ErrEmptyBody

// New creates a new application with the given options.
//
// Example:
//
//	reg := registry.New()
//	reg.MustAdd(registry.Controller(NewProductsController))
//
//	app, err := crudforge.New(
//	    crudforge.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    crudforge.WithRegistry(reg),
//	)
//	if err != nil {
//	    return err
//	}
//
//	err = app.Run(":8080", crudforge.Logger(log))
func New(opts ...Option) (*App, error) {
	return internal.New(opts...)
}

// App options

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithModules registers modules. Every module registers its services
// before any module maps routes.
func WithModules(m ...Module) Option {
	return internal.WithModules(m...)
}

// WithRegistry maps every controller and endpoint of reg.
// It is WithModules for the common single-registry case.
func WithRegistry(reg *registry.Registry) Option {
	return internal.WithModules(reg)
}

// WithContainer uses c instead of a container owned by the App.
// The caller closes c.
func WithContainer(c *di.Container) Option {
	return internal.WithContainer(c)
}

// WithMount attaches a plain http.Handler under pattern.
func WithMount(pattern string, h http.Handler) Option {
	return internal.WithMount(pattern, h)
}

// WithRequestObserver reports every handled route to o.
func WithRequestObserver(o RequestObserver) Option {
	return internal.WithRequestObserver(o)
}

// WithMetrics records request metrics in c and serves them at path
// ("/metrics" when empty).
func WithMetrics(c *metrics.Collector, path string) Option {
	if path == "" {
		path = "/metrics"
	}
	return func(a *App) {
		internal.WithRequestObserver(c)(a)
		internal.WithMount(path, c.Handler())(a)
	}
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
// Operations disabled on a controller answer through it when another
// operation still serves the same path.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks enables liveness and readiness endpoints.
//
// Example:
//
//	crudforge.WithHealthChecks(
//	    crudforge.WithReadinessCheck("store", postgres.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a JSON logger tagged with component.
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// Health options

// WithLivenessPath sets a custom liveness endpoint path.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger sets the server logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// ServerTimeouts overrides the HTTP server read, write and idle timeouts.
func ServerTimeouts(read, write, idle time.Duration) RunOption {
	return internal.ServerTimeouts(read, write, idle)
}

// StartupHook registers a function to run before the server accepts
// connections, such as schema migrations.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function to run during shutdown.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets a custom base context for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Context helpers

// ContextValue retrieves a typed value from the context.
// Returns the zero value of T if the key is not found or type assertion fails.
//
// Example:
//
//	type tenantKey struct{}
//
//	tenant := crudforge.ContextValue[string](c, tenantKey{})
func ContextValue[T any](c Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}

// Error helpers

// NewHTTPError creates an HTTPError with the given status.
func NewHTTPError(code int, message string) *HTTPError {
	return internal.NewHTTPError(code, message)
}

// ErrBadRequest creates a 400 error.
func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

// ErrNotFound creates a 404 error.
func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

// ErrConflict creates a 409 error.
func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrConflict(message, opts...)
}

// ErrUnprocessable creates a 422 error.
func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnprocessable(message, opts...)
}

// ErrInternal creates a 500 error.
func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrInternal(message, opts...)
}

// WithError attaches the underlying error, which is never rendered.
func WithError(err error) HTTPErrorOption {
	return internal.WithError(err)
}

// WithErrorCode sets an application-specific error code.
func WithErrorCode(code string) HTTPErrorOption {
	return internal.WithErrorCode(code)
}

// IsHTTPError reports whether err wraps an HTTPError.
func IsHTTPError(err error) bool {
	return internal.IsHTTPError(err)
}

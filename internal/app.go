package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/crudforge/di"
	"github.com/dmitrymomot/crudforge/pkg/health"
	"github.com/dmitrymomot/crudforge/pkg/logger"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// App orchestrates the application lifecycle.
// It manages HTTP routing, middleware, and graceful shutdown.
// App is immutable after creation - all configuration is done via New().
type App struct {
	router                  chi.Router
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	healthConfig            *healthConfig
	logger                  *slog.Logger
	container               *di.Container
	observer                RequestObserver
	middlewares             []Middleware
	handlers                []Handler
	modules                 []Module
	mounts                  []mount
	routes                  []*Route
	ownsContainer           bool
	routesMu                sync.Mutex
}

type mount struct {
	handler http.Handler
	pattern string
}

// New creates a new application with the given options.
// Services of every module are registered before any module maps routes,
// so controllers may depend on services contributed by other modules.
//
// Example:
//
//	app, err := crudforge.New(
//	    crudforge.WithLogger("api"),
//	    crudforge.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    crudforge.WithRegistry(reg),
//	)
func New(opts ...Option) (*App, error) {
	a := &App{
		router: chi.NewRouter(),
		logger: logger.NewNope(),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.container == nil && len(a.modules) > 0 {
		a.container = di.New()
		a.ownsContainer = true
	}

	for _, m := range a.modules {
		if err := m.RegisterServices(a.container); err != nil {
			return nil, fmt.Errorf("register services: %w", err)
		}
	}

	if err := a.setupRoutes(); err != nil {
		return nil, err
	}

	a.logger.Info("application configured", slog.Int("routes", len(a.routes)))
	return a, nil
}

// Router returns the underlying chi.Router.
func (a *App) Router() chi.Router {
	return a.router
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Container returns the dependency container, or nil when none is configured.
func (a *App) Container() *di.Container {
	return a.container
}

// Routes returns every route declared through Router, in registration order.
func (a *App) Routes() []RouteInfo {
	a.routesMu.Lock()
	defer a.routesMu.Unlock()

	out := make([]RouteInfo, 0, len(a.routes))
	for _, r := range a.routes {
		out = append(out, r.Info())
	}
	return out
}

// Run starts the HTTP server and blocks until shutdown.
// A container created by New is closed after the configured shutdown hooks.
//
// Example:
//
//	err := app.Run(":8080", crudforge.Logger(log))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)

	shutdownHooks := slices.Clone(cfg.shutdownHooks)
	if a.ownsContainer {
		shutdownHooks = append(shutdownHooks, func(context.Context) error {
			return a.container.Close()
		})
	}

	return runServer(runtimeConfig{
		handler:         a.router,
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		readTimeout:     cfg.readTimeout,
		writeTimeout:    cfg.writeTimeout,
		idleTimeout:     cfg.idleTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

// setupRoutes configures the router with middleware, handlers and modules.
// chi requires every middleware to be in place before the first route.
func (a *App) setupRoutes() error {
	if a.notFoundHandler != nil {
		a.router.NotFound(a.wrapHandler(a.notFoundHandler))
	}
	if a.methodNotAllowedHandler != nil {
		a.router.MethodNotAllowed(a.wrapHandler(a.methodNotAllowedHandler))
	}

	if a.container != nil {
		a.router.Use(a.scopeMiddleware)
	}

	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	for _, m := range a.mounts {
		a.router.Mount(m.pattern, m.handler)
	}

	if a.healthConfig != nil {
		opts := []health.Option{health.WithLogger(a.logger)}
		live := health.LivenessHandler()
		ready := health.ReadinessHandler(a.healthConfig.checks, opts...)
		a.router.Get(a.healthConfig.livenessPath, live)
		a.router.Head(a.healthConfig.livenessPath, live)
		a.router.Get(a.healthConfig.readinessPath, ready)
		a.router.Head(a.healthConfig.readinessPath, ready)
	}

	r := &routerAdapter{router: a.router, app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}

	for _, m := range a.modules {
		if err := m.MapRoutes(a.container, r); err != nil {
			return fmt.Errorf("map routes: %w", err)
		}
	}

	return nil
}

func (a *App) addRoute(r *Route) {
	a.routesMu.Lock()
	defer a.routesMu.Unlock()
	a.routes = append(a.routes, r)
}

// scopeMiddleware opens a dependency scope per request and closes it,
// with every scoped io.Closer it built, once the response is done.
func (a *App) scopeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope := a.container.NewScope(r.Context())
		defer func() {
			if err := scope.Close(); err != nil {
				a.logger.WarnContext(r.Context(), "failed to close request scope", slog.Any("error", err))
			}
		}()
		next.ServeHTTP(w, r.WithContext(di.WithScope(r.Context(), scope)))
	})
}

// wrapHandler converts a HandlerFunc to http.HandlerFunc using the app's error handler.
func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

// handleError handles errors from handlers using the configured error handler.
func (a *App) handleError(c Context, err error) {
	if c.Written() {
		return
	}
	if a.errorHandler != nil {
		if herr := a.errorHandler(c, err); herr != nil {
			a.logger.ErrorContext(c, "error handler failed", slog.Any("error", herr))
		}
		return
	}
	_ = a.defaultErrorHandler(c, err)
}

// defaultErrorHandler renders HTTPErrors with their status, an expired
// request deadline as 503 and any other error as 500, logging server-side
// failures.
func (a *App) defaultErrorHandler(c Context, err error) error {
	var herr *HTTPError
	switch {
	case errors.As(err, &herr):
	case errors.Is(err, context.DeadlineExceeded):
		herr = ErrServiceUnavailable("request timed out", WithError(err))
	default:
		herr = ErrInternal(http.StatusText(http.StatusInternalServerError), WithError(err))
	}

	if herr.Code >= http.StatusInternalServerError {
		c.LogError("request failed",
			slog.String("method", c.Request().Method),
			slog.String("path", c.Request().URL.Path),
			slog.Any("error", err),
		)
	}

	return c.JSON(herr.Code, herr.Body())
}

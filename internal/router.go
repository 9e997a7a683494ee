package internal

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
)

// Router is the interface handlers use to declare routes.
// It provides HTTP method routing and grouping capabilities.
type Router interface {
	// GET registers a handler for GET requests.
	GET(path string, h HandlerFunc, mw ...Middleware) *Route

	// POST registers a handler for POST requests.
	POST(path string, h HandlerFunc, mw ...Middleware) *Route

	// PUT registers a handler for PUT requests.
	PUT(path string, h HandlerFunc, mw ...Middleware) *Route

	// PATCH registers a handler for PATCH requests.
	PATCH(path string, h HandlerFunc, mw ...Middleware) *Route

	// DELETE registers a handler for DELETE requests.
	DELETE(path string, h HandlerFunc, mw ...Middleware) *Route

	// HEAD registers a handler for HEAD requests.
	HEAD(path string, h HandlerFunc, mw ...Middleware) *Route

	// OPTIONS registers a handler for OPTIONS requests.
	OPTIONS(path string, h HandlerFunc, mw ...Middleware) *Route

	// Group creates an inline route group.
	// All routes defined inside fn share no common pattern prefix.
	Group(fn func(r Router))

	// Route creates a route group with a pattern prefix.
	// All routes defined inside fn share the pattern prefix.
	Route(pattern string, fn func(r Router))

	// Use appends middleware to the router's middleware stack.
	// It must be called before any route is declared on this router.
	Use(mw ...Middleware)

	// Tags sets default tags for routes declared afterwards on this
	// router and on groups created from it.
	Tags(tags ...string)

	// Mount attaches an http.Handler at the given pattern.
	Mount(pattern string, h http.Handler)

	// Prefix returns the accumulated pattern prefix of this router.
	Prefix() string
}

// routerAdapter wraps chi.Router to implement the Router interface.
type routerAdapter struct {
	router chi.Router
	app    *App
	prefix string
	tags   []string
}

func (r *routerAdapter) GET(path string, h HandlerFunc, mw ...Middleware) *Route {
	return r.handle(http.MethodGet, path, h, mw)
}

func (r *routerAdapter) POST(path string, h HandlerFunc, mw ...Middleware) *Route {
	return r.handle(http.MethodPost, path, h, mw)
}

func (r *routerAdapter) PUT(path string, h HandlerFunc, mw ...Middleware) *Route {
	return r.handle(http.MethodPut, path, h, mw)
}

func (r *routerAdapter) PATCH(path string, h HandlerFunc, mw ...Middleware) *Route {
	return r.handle(http.MethodPatch, path, h, mw)
}

func (r *routerAdapter) DELETE(path string, h HandlerFunc, mw ...Middleware) *Route {
	return r.handle(http.MethodDelete, path, h, mw)
}

func (r *routerAdapter) HEAD(path string, h HandlerFunc, mw ...Middleware) *Route {
	return r.handle(http.MethodHead, path, h, mw)
}

func (r *routerAdapter) OPTIONS(path string, h HandlerFunc, mw ...Middleware) *Route {
	return r.handle(http.MethodOptions, path, h, mw)
}

func (r *routerAdapter) Group(fn func(Router)) {
	r.router.Group(func(cr chi.Router) {
		fn(r.child(cr, r.prefix))
	})
}

func (r *routerAdapter) Route(pattern string, fn func(Router)) {
	r.router.Route(pattern, func(cr chi.Router) {
		fn(r.child(cr, joinPattern(r.prefix, pattern)))
	})
}

func (r *routerAdapter) Use(mw ...Middleware) {
	for _, m := range mw {
		r.router.Use(r.app.adaptMiddleware(m))
	}
}

func (r *routerAdapter) Tags(tags ...string) {
	r.tags = appendTags(r.tags, tags...)
}

func (r *routerAdapter) Mount(pattern string, h http.Handler) {
	r.router.Mount(pattern, h)
}

func (r *routerAdapter) Prefix() string {
	return r.prefix
}

func (r *routerAdapter) child(cr chi.Router, prefix string) *routerAdapter {
	return &routerAdapter{
		router: cr,
		app:    r.app,
		prefix: prefix,
		tags:   slices.Clone(r.tags),
	}
}

func (r *routerAdapter) handle(method, path string, h HandlerFunc, mw []Middleware) *Route {
	if path == "" {
		path = "/"
	}

	route := newRoute(method, joinPattern(r.prefix, path), h, r.tags, mw)
	r.router.Method(method, path, r.app.serveRoute(route))
	r.app.addRoute(route)

	r.app.logger.Debug("route registered",
		slog.String("method", method),
		slog.String("pattern", route.Pattern()),
	)
	return route
}

// serveRoute adapts a Route to http.Handler. The route's middleware chain is
// resolved at request time so annotations added after registration apply.
func (a *App) serveRoute(route *Route) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		c := newContext(w, req, a)
		if err := route.chain()(c); err != nil {
			a.handleError(c, err)
		}
		if a.observer != nil {
			a.observer.ObserveRequest(route.Method(), route.Pattern(), c.ResponseWriter().Status(), time.Since(start))
		}
	}
}

// adaptMiddleware converts a Middleware to chi middleware.
// Middleware is written against Context while chi expects http.Handler wrappers.
func (a *App) adaptMiddleware(mw Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextFunc := func(c Context) error {
				next.ServeHTTP(c.Response(), c.Request())
				return nil
			}
			c := newContext(w, r, a)
			if err := mw(nextFunc)(c); err != nil {
				a.handleError(c, err)
			}
		})
	}
}

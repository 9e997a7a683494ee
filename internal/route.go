package internal

import (
	"slices"
	"strings"
	"sync"
)

// RouteInfo describes a registered route.
type RouteInfo struct {
	Method      string   `json:"method"`
	Pattern     string   `json:"pattern"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Route is a handle to a registered endpoint. Annotations and route-level
// middleware can be added until the App starts serving; the handler chain
// is assembled on the first request.
//
// Example:
//
//	r.GET("/ping", ping).
//	    WithName("ping").
//	    WithTags("diagnostics").
//	    Use(middlewares.Timeout(time.Second))
type Route struct {
	handler     HandlerFunc
	compiled    HandlerFunc
	method      string
	pattern     string
	name        string
	description string
	tags        []string
	middlewares []Middleware
	once        sync.Once
	mu          sync.Mutex
}

func newRoute(method, pattern string, h HandlerFunc, tags []string, mw []Middleware) *Route {
	return &Route{
		method:      method,
		pattern:     pattern,
		handler:     h,
		tags:        slices.Clone(tags),
		middlewares: slices.Clone(mw),
	}
}

// WithName sets a unique, human-readable route name.
func (r *Route) WithName(name string) *Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.name = name
	return r
}

// WithDescription sets a free-form route description.
func (r *Route) WithDescription(description string) *Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.description = description
	return r
}

// WithTags adds tags. Duplicates and empty tags are ignored.
func (r *Route) WithTags(tags ...string) *Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags = appendTags(r.tags, tags...)
	return r
}

// Use appends route-level middleware. The first added runs outermost.
func (r *Route) Use(mw ...Middleware) *Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = append(r.middlewares, mw...)
	return r
}

// Method returns the HTTP method.
func (r *Route) Method() string { return r.method }

// Pattern returns the full route pattern including group prefixes.
func (r *Route) Pattern() string { return r.pattern }

// Info returns a snapshot of the route's annotations.
func (r *Route) Info() RouteInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RouteInfo{
		Method:      r.method,
		Pattern:     r.pattern,
		Name:        r.name,
		Description: r.description,
		Tags:        slices.Clone(r.tags),
	}
}

// chain returns the handler wrapped in its middleware, built once.
func (r *Route) chain() HandlerFunc {
	r.once.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		h := r.handler
		for _, m := range slices.Backward(r.middlewares) {
			h = m(h)
		}
		r.compiled = h
	})
	return r.compiled
}

func appendTags(dst []string, tags ...string) []string {
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" && !slices.Contains(dst, t) {
			dst = append(dst, t)
		}
	}
	return dst
}

// joinPattern joins a group prefix with a route path the way chi resolves it.
func joinPattern(prefix, path string) string {
	if path == "" || path == "/" {
		if prefix == "" {
			return "/"
		}
		return prefix
	}
	return strings.TrimSuffix(prefix, "/") + path
}

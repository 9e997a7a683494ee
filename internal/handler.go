package internal

import (
	"time"

	"github.com/dmitrymomot/crudforge/di"
)

// Handler declares routes on a router.
//
// Example:
//
//	type PingEndpoint struct{}
//
//	func (PingEndpoint) Routes(r crudforge.Router) {
//	    r.GET("/ping", func(c crudforge.Context) error {
//	        return c.String(http.StatusOK, "pong")
//	    })
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// It receives a Context and returns an error.
// Returning a non-nil error triggers the error handler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect/modify the request, short-circuit processing,
// or wrap the response.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from handlers.
type ErrorHandler func(Context, error) error

// Module contributes services and routes to an App in two phases:
// RegisterServices runs for every module before any MapRoutes call.
type Module interface {
	RegisterServices(c *di.Container) error
	MapRoutes(c *di.Container, r Router) error
}

// RequestObserver records per-route request outcomes.
type RequestObserver interface {
	ObserveRequest(method, pattern string, status int, elapsed time.Duration)
}

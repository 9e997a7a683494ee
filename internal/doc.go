// Package internal provides the core types and implementation of the
// crudforge HTTP host.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/crudforge" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: owns the chi router, middleware, health probes and graceful shutdown
//   - Router: declares routes and groups; verb methods return a *Route
//   - Route: handle for annotating a route (name, tags, description) and
//     attaching route-level middleware
//   - Context: request/response access, JSON helpers and the per-request
//     dependency scope
//   - Handler: a type that declares routes on a Router
//   - Module: a two-phase contributor of services and routes (the endpoint
//     registry implements it)
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to store
// sessions and other blocking calls:
//
//	func (h *stockEndpoint) get(c crudforge.Context) error {
//	    p, err := h.products.Session().Find(c, id)
//	    ...
//	}
//
// # Route annotations
//
// Verb methods return the registered *Route:
//
//	r.Route("/api/products", func(r crudforge.Router) {
//	    r.Tags("products")
//	    r.DELETE("/{id}", remove).WithDescription("Deletes a product")
//	})
//
// Annotations are collected by App.Routes, which powers route listing.
//
// # Dependency scopes
//
// When the App has a di.Container (set with WithContainer or created for
// modules), every request runs inside its own di.Scope. Scoped services are
// built at most once per request and closed when the request ends:
//
//	scope, err := c.Scope()
//	if err != nil {
//	    return err
//	}
//	repo, err := di.Resolve[*Repo](scope)
//
// # Errors
//
// Handlers return errors. HTTPError values choose the response status; any
// other error renders a 500 and is logged. WithErrorHandler replaces this.
package internal

// Package crud generates REST endpoints for a model and identity type.
//
// An Engine binds a store.Store to a route group whose prefix is derived from
// the controller type name ("ProductsController" maps to /api/products) and
// emits up to five routes:
//
//	GET    /api/products       list    200
//	GET    /api/products/{id}  get     200, 404
//	POST   /api/products       create  201 + Location
//	PUT    /api/products/{id}  update  204, 404
//	DELETE /api/products/{id}  delete  204, 404
//
// # Operation cascade
//
// Options holds one layer per operation plus a shared All layer. Resolving an
// operation applies the All layer first and the operation's own layer second:
// the operation is active unless either layer disables it, and customizers of
// both layers run in that order against the registered route.
//
//	err := e.ConfigureCRUD(func(o *crud.Options) {
//	    o.Disable(crud.List)
//	    o.Configure(crud.All, func(r *crudforge.Route) { r.WithTags("catalog") })
//	    o.Configure(crud.Delete, func(r *crudforge.Route) { r.WithDescription("Deletes a product") })
//	})
//
// Disabling All turns off every generated route; included endpoints are still
// mapped.
//
// # Included endpoints
//
// Hand-written endpoints (any crudforge.Handler) are mapped into the same
// group after the CRUD routes. They are referenced by type, or by the module
// they were registered in, and built through a Resolver at Map time:
//
//	crud.Include[*StockEndpoint](e)
//	e.IncludeModule("products")
//
// Map runs once per engine; a second call returns ErrAlreadyMapped.
package crud

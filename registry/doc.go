// Package registry discovers the controllers and endpoints of an
// application from an explicit, statically built list.
//
// Entries are declared once, with a typed factory each:
//
//	reg := registry.New(registry.WithLogger(log))
//	err := reg.Add(
//	    registry.Controller(inventory.NewProductsController),
//	    registry.Endpoint(inventory.NewStockEndpoint, registry.InModule("products")),
//	    registry.Endpoint(inventory.NewVersionEndpoint),
//	)
//
// The registry is a crudforge Module. Passed to the App with
// crudforge.WithRegistry, it runs in two phases:
//
//  1. RegisterServices registers every entry as a scoped service of the
//     App's container. Nothing is instantiated.
//  2. MapRoutes builds each controller, applies operations disabled by
//     configuration (WithDisabled), and maps it under its own group. Every
//     endpoint not included by a controller, by type or through its module,
//     is mapped on the root router.
//
// Startup fails on duplicate entries, unknown modules or include keys,
// factory errors, and controllers sharing a base path.
package registry

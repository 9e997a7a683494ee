// Package crudforge generates REST endpoints for data models.
//
// A controller embeds a [crud.Engine] bound to a [store.Store]; the engine
// maps list, get, create, update and delete under the controller's base
// path. A [registry.Registry] discovers every controller and standalone
// endpoint, registers them with the request-scoped container and maps them
// onto the App. Everything is explicit: no reflection walks the program,
// only the entries you add are served.
//
// # Quick Start
//
//	type Product struct {
//	    ID    int     `json:"id"`
//	    Name  string  `json:"name"`
//	    Price float64 `json:"price"`
//	}
//
//	func (p *Product) GetID() int   { return p.ID }
//	func (p *Product) SetID(id int) { p.ID = id }
//
//	type ProductsController struct {
//	    *crud.Engine[*Product, int]
//	}
//
//	func NewProductsController(s *di.Scope) (*ProductsController, error) {
//	    st, err := di.Resolve[store.Store[*Product, int]](s)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &ProductsController{crud.New(crud.NameOf[ProductsController](), st)}, nil
//	}
//
//	c := di.New()
//	st, _ := memory.New[*Product, int]("products", store.WithIDGenerator(store.Sequence(1)))
//	_ = di.Value[store.Store[*Product, int]](c, st)
//
//	reg := registry.New()
//	reg.MustAdd(registry.Controller(NewProductsController))
//
//	app, err := crudforge.New(crudforge.WithContainer(c), crudforge.WithRegistry(reg))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// The controller now serves GET/POST /api/products and
// GET/PUT/DELETE /api/products/{id}.
//
// # Options cascade
//
// Operations are configured per controller. A setting on [crud.All]
// applies to every operation; a setting on a specific operation adds to
// it:
//
//	c.ConfigureCRUD(func(o *crud.Options) {
//	    o.Disable(crud.List)
//	    o.Configure(crud.Delete, func(r *crudforge.Route) {
//	        r.WithDescription("Soft-deletes a product")
//	    })
//	})
//
// Deployment overlays apply on top through [registry.WithDisabled].
//
// # Endpoints
//
// Any [Handler] can be registered as an endpoint. Controllers include
// endpoints by type or by module; included endpoints are mapped under the
// controller's base path, the rest under the root router.
//
// # Middleware
//
// Middleware wraps handlers to add cross-cutting concerns. The
// middlewares package provides request IDs, panic recovery, timeouts
// and CORS:
//
//	app, err := crudforge.New(
//	    crudforge.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	        middlewares.Timeout(10*time.Second),
//	    ),
//	    crudforge.WithRegistry(reg),
//	)
//
// # Shutdown
//
// Run handles SIGINT/SIGTERM for graceful shutdown. Register cleanup
// functions with ShutdownHook:
//
//	err := app.Run(":8080",
//	    crudforge.ShutdownHook(postgres.Shutdown(pool)),
//	)
package crudforge

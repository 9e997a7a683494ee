package crud

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrymomot/crudforge/di"
	"github.com/dmitrymomot/crudforge/internal"
	"github.com/dmitrymomot/crudforge/store"
)

// Controller owns a route group: generated CRUD routes plus included
// endpoints. Types embedding *Engine implement it.
type Controller interface {
	// Name returns the controller type name.
	Name() string

	// BasePath returns the route group prefix.
	BasePath() string

	// ConfigureCRUD applies fn to the operation cascade.
	ConfigureCRUD(fn func(o *Options)) error

	// Includes returns the included endpoint keys and modules.
	Includes() (keys []di.Key, modules []string)

	// Map registers the controller's routes under r.
	// It may run only once.
	Map(r internal.Router, res Resolver) error
}

type include struct {
	key    di.Key
	module string
}

// Engine generates CRUD routes for one model and identity type. It is
// configured while its controller is constructed and is read-only once
// Map has run.
//
// Example:
//
//	type ProductsController struct {
//	    *crud.Engine[*Product, int]
//	}
//
//	func NewProductsController(st store.Store[*Product, int]) *ProductsController {
//	    e := crud.New(crud.NameOf[ProductsController](), st)
//	    e.ConfigureCRUD(func(o *crud.Options) { o.Disable(crud.List) })
//	    crud.Include[*StockEndpoint](e)
//	    return &ProductsController{Engine: e}
//	}
type Engine[M store.Model[ID], ID comparable] struct {
	store    store.Store[M, ID]
	options  *Options
	name     string
	basePath string
	group    []func(r internal.Router)
	includes []include
	mapped   bool
}

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	basePath string
}

// WithBasePath overrides the base path derived from the controller name.
func WithBasePath(path string) EngineOption {
	return func(c *engineConfig) {
		c.basePath = path
	}
}

// New creates an engine for the controller type called name.
func New[M store.Model[ID], ID comparable](name string, st store.Store[M, ID], opts ...EngineOption) *Engine[M, ID] {
	cfg := engineConfig{basePath: BasePath(name)}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Engine[M, ID]{
		store:    st,
		options:  NewOptions(),
		name:     name,
		basePath: cfg.basePath,
	}
}

func (e *Engine[M, ID]) Name() string     { return e.name }
func (e *Engine[M, ID]) BasePath() string { return e.basePath }

// Store returns the persistence collaborator.
func (e *Engine[M, ID]) Store() store.Store[M, ID] { return e.store }

// ConfigureGroup adds a customizer applied to the route group before any
// route is added to it. Customizers run in the order they were added.
func (e *Engine[M, ID]) ConfigureGroup(fn func(r internal.Router)) {
	if fn != nil {
		e.group = append(e.group, fn)
	}
}

// ConfigureCRUD runs fn against the operation cascade immediately.
// It reports operations outside the declared set and calls made after Map.
func (e *Engine[M, ID]) ConfigureCRUD(fn func(o *Options)) error {
	if e.mapped {
		return fmt.Errorf("%w: %s", ErrAlreadyMapped, e.name)
	}
	if fn != nil {
		fn(e.options)
	}
	return e.options.Err()
}

// Include appends endpoint keys mapped into the group after the CRUD routes.
func (e *Engine[M, ID]) Include(keys ...di.Key) {
	for _, k := range keys {
		if k != nil {
			e.includes = append(e.includes, include{key: k})
		}
	}
}

// IncludeModule appends every endpoint declared in the named modules.
func (e *Engine[M, ID]) IncludeModule(modules ...string) {
	for _, m := range modules {
		e.includes = append(e.includes, include{module: m})
	}
}

func (e *Engine[M, ID]) Includes() ([]di.Key, []string) {
	var (
		keys    []di.Key
		modules []string
	)
	for _, inc := range e.includes {
		if inc.key != nil {
			keys = append(keys, inc.key)
		} else {
			modules = append(modules, inc.module)
		}
	}
	return keys, modules
}

// Options returns a copy of the operation cascade.
func (e *Engine[M, ID]) Options() *Options {
	return e.options.Clone()
}

// Mapped reports whether Map has run.
func (e *Engine[M, ID]) Mapped() bool { return e.mapped }

// Map creates the controller group under r and registers, in order, the
// group customizers, every active CRUD operation and the included endpoints.
func (e *Engine[M, ID]) Map(r internal.Router, res Resolver) error {
	if e.mapped {
		return fmt.Errorf("%w: %s", ErrAlreadyMapped, e.name)
	}
	if e.store == nil {
		return fmt.Errorf("%w: %s has no store", ErrNotConfigured, e.name)
	}
	if err := e.options.Err(); err != nil {
		return fmt.Errorf("%s: %w", e.name, err)
	}

	endpoints, err := e.resolveIncludes(res)
	if err != nil {
		return fmt.Errorf("%s: %w", e.name, err)
	}
	e.mapped = true

	r.Route(e.basePath, func(g internal.Router) {
		g.Tags(ResourceName(e.name))
		for _, fn := range e.group {
			fn(g)
		}

		if !e.options.AllDisabled() {
			e.mapCRUD(g)
		}

		for _, h := range endpoints {
			h.Routes(g)
		}
	})
	return nil
}

func (e *Engine[M, ID]) mapCRUD(g internal.Router) {
	h := handlers[M, ID]{store: e.store, location: g.Prefix()}

	for _, op := range Operations() {
		opts := e.options.Resolve(op)
		if !opts.Active {
			continue
		}

		var route *internal.Route
		switch op {
		case List:
			route = g.GET("", h.list)
		case GetByID:
			route = g.GET("/{id}", h.get)
		case Create:
			route = g.POST("", h.create)
		case Update:
			route = g.PUT("/{id}", h.update)
		case Delete:
			route = g.DELETE("/{id}", h.remove)
		}
		route.WithName(ResourceName(e.name) + "." + op.String())
		opts.Apply(route)
	}
}

// resolveIncludes instantiates included endpoints before any route is
// registered, so a failing include leaves the router untouched.
func (e *Engine[M, ID]) resolveIncludes(res Resolver) ([]internal.Handler, error) {
	if len(e.includes) == 0 {
		return nil, nil
	}
	if res == nil {
		return nil, errors.New("crud: includes configured without a resolver")
	}

	var keys []di.Key
	for _, inc := range e.includes {
		if inc.key != nil {
			keys = append(keys, inc.key)
			continue
		}
		members, err := res.Members(inc.module)
		if err != nil {
			return nil, err
		}
		keys = append(keys, members...)
	}

	out := make([]internal.Handler, 0, len(keys))
	seen := make([]di.Key, 0, len(keys))
	for _, k := range keys {
		if slices.Contains(seen, k) {
			continue
		}
		seen = append(seen, k)

		h, err := res.Endpoint(k)
		if err != nil {
			return nil, fmt.Errorf("include %s: %w", k, err)
		}
		out = append(out, h)
	}
	return out, nil
}

// Include appends the endpoint type T to a controller's include list.
//
//	crud.Include[*StockEndpoint](engine)
func Include[T internal.Handler](c interface{ Include(keys ...di.Key) }) {
	c.Include(di.KeyOf[T]())
}

package inventory

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/crudforge"
	"github.com/dmitrymomot/crudforge/crud"
	"github.com/dmitrymomot/crudforge/di"
	"github.com/dmitrymomot/crudforge/store"
)

// ProductsModule groups endpoints served under the products controller.
const ProductsModule = "products"

// ProductsController serves /api/products. Listing the whole catalogue is
// disabled; clients read single products and the stock summary instead.
type ProductsController struct {
	*crud.Engine[*Product, int]
}

// NewProductsController is the registry factory of ProductsController.
func NewProductsController(s *di.Scope) (*ProductsController, error) {
	st, err := di.Resolve[store.Store[*Product, int]](s)
	if err != nil {
		return nil, err
	}

	e := crud.New(crud.NameOf[ProductsController](), st)
	err = e.ConfigureCRUD(func(o *crud.Options) {
		o.Disable(crud.List)
		o.Configure(crud.Delete, func(r *crudforge.Route) {
			r.WithDescription("Removes a product from the catalogue").WithTags("admin")
		})
	})
	if err != nil {
		return nil, err
	}
	e.IncludeModule(ProductsModule)

	return &ProductsController{Engine: e}, nil
}

// OrdersController serves /api/orders with uuid identities.
type OrdersController struct {
	*crud.Engine[*Order, uuid.UUID]
}

// NewOrdersController is the registry factory of OrdersController.
func NewOrdersController(s *di.Scope) (*OrdersController, error) {
	st, err := di.Resolve[store.Store[*Order, uuid.UUID]](s)
	if err != nil {
		return nil, err
	}

	e := crud.New(crud.NameOf[OrdersController](), st)
	e.ConfigureGroup(func(r crudforge.Router) {
		r.Use(noStore)
	})
	err = e.ConfigureCRUD(func(o *crud.Options) {
		o.Configure(crud.All, func(r *crudforge.Route) { r.WithTags("sales") })
		o.Configure(crud.Create, func(r *crudforge.Route) {
			r.WithDescription("Places an order")
		})
	})
	if err != nil {
		return nil, err
	}
	crud.Include[*CancelOrderEndpoint](e)

	return &OrdersController{Engine: e}, nil
}

// noStore keeps order data out of shared caches.
func noStore(next crudforge.HandlerFunc) crudforge.HandlerFunc {
	return func(c crudforge.Context) error {
		c.SetHeader("Cache-Control", "no-store")
		return next(c)
	}
}

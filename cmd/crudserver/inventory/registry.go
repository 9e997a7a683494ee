package inventory

import (
	"github.com/dmitrymomot/crudforge/di"
	"github.com/dmitrymomot/crudforge/registry"
)

// NewRegistry registers every inventory controller and endpoint.
func NewRegistry(opts ...registry.Option) (*registry.Registry, error) {
	reg := registry.New(opts...)
	err := reg.Add(
		registry.Controller(NewProductsController),
		registry.Controller(NewOrdersController),
		registry.Endpoint(NewStockEndpoint, registry.InModule(ProductsModule)),
		registry.Endpoint(NewCancelOrderEndpoint),
		registry.Endpoint(NewVersionEndpoint),
		registry.Endpoint(NewPingEndpoint),
	)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Provide registers the stores and build information the entries depend on.
func Provide(c *di.Container, stores *Stores, info BuildInfo) error {
	if err := stores.Provide(c); err != nil {
		return err
	}
	return di.Value(c, info)
}

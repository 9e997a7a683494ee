package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/crudforge/di"
	"github.com/dmitrymomot/crudforge/store"
)

// StoreFactory opens the inventory collections on one backend.
type StoreFactory struct {
	Products func(opts ...store.Option[int]) (store.Store[*Product, int], error)
	Orders   func(opts ...store.Option[uuid.UUID]) (store.Store[*Order, uuid.UUID], error)
}

// Stores are the inventory collections.
type Stores struct {
	Products store.Store[*Product, int]
	Orders   store.Store[*Order, uuid.UUID]
}

// OpenStores opens both collections. Product identities continue after the
// highest stored one so restarts of a persistent backend do not collide.
func OpenStores(ctx context.Context, f StoreFactory) (*Stores, error) {
	first, err := f.Products()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ProductsCollection, err)
	}
	next, err := NextProductID(ctx, first)
	if err != nil {
		return nil, err
	}

	products, err := f.Products(store.WithIDGenerator(store.Sequence(next)))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ProductsCollection, err)
	}
	orders, err := f.Orders(store.WithIDGenerator(store.UUIDGenerator()))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", OrdersCollection, err)
	}
	return &Stores{Products: products, Orders: orders}, nil
}

// NextProductID returns one past the highest stored product identity.
func NextProductID(ctx context.Context, st store.Store[*Product, int]) (int, error) {
	items, err := st.Session().All(ctx)
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", ProductsCollection, err)
	}
	next := 1
	for _, p := range items {
		if p.ID >= next {
			next = p.ID + 1
		}
	}
	return next, nil
}

// Provide registers the stores as container singletons.
func (s *Stores) Provide(c *di.Container) error {
	if err := di.Value(c, s.Products); err != nil {
		return err
	}
	return di.Value(c, s.Orders)
}

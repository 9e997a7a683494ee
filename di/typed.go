package di

import (
	"context"
	"fmt"
)

// Provide registers a typed factory for T.
//
// Example:
//
//	di.Provide(c, di.Scoped, func(s *di.Scope) (*ProductsController, error) {
//	    st, err := di.Resolve[store.Store[*Product, int]](s)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return NewProductsController(st), nil
//	})
func Provide[T any](c *Container, lt Lifetime, fn func(s *Scope) (T, error)) error {
	if fn == nil {
		return ErrInvalidProvider
	}
	return c.Register(KeyOf[T](), lt, func(s *Scope) (any, error) {
		return fn(s)
	})
}

// Value registers an already built singleton for T.
func Value[T any](c *Container, v T) error {
	return c.Register(KeyOf[T](), Singleton, func(*Scope) (any, error) {
		return v, nil
	})
}

// Resolve returns the service registered for T.
func Resolve[T any](s *Scope) (T, error) {
	var zero T
	v, err := s.Get(KeyOf[T]())
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: want %s, got %T", ErrTypeMismatch, KeyOf[T](), v)
	}
	return t, nil
}

type scopeKey struct{}

// WithScope stores s in ctx.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFrom returns the scope stored in ctx, if any.
func ScopeFrom(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(*Scope)
	return s, ok && s != nil
}

// ResolveFrom resolves T from the scope stored in ctx.
func ResolveFrom[T any](ctx context.Context) (T, error) {
	s, ok := ScopeFrom(ctx)
	if !ok {
		var zero T
		return zero, ErrNoScope
	}
	return Resolve[T](s)
}

package crud

import (
	"fmt"
	"slices"

	"github.com/dmitrymomot/crudforge/di"
	"github.com/dmitrymomot/crudforge/internal"
)

// Resolver builds the endpoints a controller includes.
type Resolver interface {
	// Endpoint instantiates the endpoint registered under key.
	Endpoint(key di.Key) (internal.Handler, error)

	// Members returns the endpoint keys declared in a module, in
	// registration order. Returns ErrUnknownModule for undeclared modules.
	Members(module string) ([]di.Key, error)
}

// ScopeResolver resolves endpoints from a dependency scope.
type ScopeResolver struct {
	Scope   *di.Scope
	Modules map[string][]di.Key
}

// NewScopeResolver returns a Resolver backed by s.
func NewScopeResolver(s *di.Scope, modules map[string][]di.Key) *ScopeResolver {
	return &ScopeResolver{Scope: s, Modules: modules}
}

func (r *ScopeResolver) Endpoint(key di.Key) (internal.Handler, error) {
	v, err := r.Scope.Get(key)
	if err != nil {
		return nil, err
	}
	h, ok := v.(internal.Handler)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotEndpoint, key)
	}
	return h, nil
}

func (r *ScopeResolver) Members(module string) ([]di.Key, error) {
	keys, ok := r.Modules[module]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModule, module)
	}
	return slices.Clone(keys), nil
}

package registry

import (
	"github.com/dmitrymomot/crudforge/crud"
	"github.com/dmitrymomot/crudforge/di"
	"github.com/dmitrymomot/crudforge/internal"
)

// Kind is the capability an entry provides.
type Kind uint8

const (
	// KindController entries own a route group.
	KindController Kind = iota + 1
	// KindEndpoint entries contribute routes directly.
	KindEndpoint
)

func (k Kind) String() string {
	switch k {
	case KindController:
		return "controller"
	case KindEndpoint:
		return "endpoint"
	default:
		return "unknown"
	}
}

// Entry is a registered controller or endpoint type with its factory.
type Entry struct {
	key     di.Key
	factory di.Factory
	name    string
	module  string
	kind    Kind
}

// EntryOption configures an Entry.
type EntryOption func(*Entry)

// InModule declares that an endpoint belongs to module. Controllers
// include whole modules with IncludeModule.
func InModule(module string) EntryOption {
	return func(e *Entry) {
		e.module = module
	}
}

// Controller registers controller type C built by fn.
//
// Example:
//
//	registry.Controller(func(s *di.Scope) (*ProductsController, error) {
//	    st, err := di.Resolve[store.Store[*Product, int]](s)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return NewProductsController(st)
//	})
func Controller[C crud.Controller](fn func(s *di.Scope) (C, error), opts ...EntryOption) Entry {
	return newEntry(KindController, crud.NameOf[C](), di.KeyOf[C](), fn, opts)
}

// Endpoint registers endpoint type E built by fn.
func Endpoint[E internal.Handler](fn func(s *di.Scope) (E, error), opts ...EntryOption) Entry {
	return newEntry(KindEndpoint, crud.NameOf[E](), di.KeyOf[E](), fn, opts)
}

func newEntry[T any](kind Kind, name string, key di.Key, fn func(*di.Scope) (T, error), opts []EntryOption) Entry {
	e := Entry{key: key, name: name, kind: kind}
	if fn != nil {
		e.factory = func(s *di.Scope) (any, error) {
			return fn(s)
		}
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Key returns the dependency key of the registered type.
func (e Entry) Key() di.Key { return e.key }

// Kind returns the entry capability.
func (e Entry) Kind() Kind { return e.kind }

// Name returns the declared type name.
func (e Entry) Name() string { return e.name }

// Module returns the module the entry belongs to, if any.
func (e Entry) Module() string { return e.module }

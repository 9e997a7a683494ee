package registry

import (
	"log/slog"

	"github.com/dmitrymomot/crudforge/crud"
	"github.com/dmitrymomot/crudforge/pkg/logger"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to report discovery phases.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithDisabled disables operations of a controller before it is mapped.
// The controller is matched by its resource name, so "products" and
// "ProductsController" address the same controller.
//
// Example:
//
//	registry.New(registry.WithDisabled("products", crud.Delete))
func WithDisabled(controller string, ops ...crud.Operation) Option {
	return func(r *Registry) {
		name := crud.ResourceName(controller)
		r.overlays[name] = append(r.overlays[name], ops...)
	}
}

func defaultLogger() *slog.Logger {
	return logger.NewNope()
}

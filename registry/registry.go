package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/crudforge/crud"
	"github.com/dmitrymomot/crudforge/di"
	"github.com/dmitrymomot/crudforge/internal"
)

// Registry is the statically built list of controller and endpoint types
// of an application. It implements the App's two-phase Module contract:
// RegisterServices registers every entry with the container and builds
// nothing; MapRoutes instantiates entries and maps their routes.
//
// Both phases iterate the same entry list, so what gets mapped is always
// what was registered.
type Registry struct {
	logger     *slog.Logger
	overlays   map[string][]crud.Operation
	index      map[di.Key]int
	entries    []Entry
	registered bool
	mapped     bool
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		logger:   defaultLogger(),
		overlays: make(map[string][]crud.Operation),
		index:    make(map[di.Key]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add appends entries. Entries are mapped in the order they were added.
func (r *Registry) Add(entries ...Entry) error {
	if r.registered {
		return ErrSealed
	}

	var errs []error
	for _, e := range entries {
		if e.key == nil || e.factory == nil || (e.kind != KindController && e.kind != KindEndpoint) {
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidEntry, e.name))
			continue
		}
		if _, ok := r.index[e.key]; ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateEntry, e.key))
			continue
		}
		r.index[e.key] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return errors.Join(errs...)
}

// MustAdd is like Add but panics on error.
func (r *Registry) MustAdd(entries ...Entry) *Registry {
	if err := r.Add(entries...); err != nil {
		panic(err)
	}
	return r
}

// Entries returns every entry in registration order.
func (r *Registry) Entries() []Entry {
	return slices.Clone(r.entries)
}

// Lookup returns the entry registered under key.
func (r *Registry) Lookup(key di.Key) (Entry, bool) {
	i, ok := r.index[key]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Of returns the entries of the given kind in registration order.
func (r *Registry) Of(kind Kind) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Modules returns endpoint keys grouped by module, in registration order.
func (r *Registry) Modules() map[string][]di.Key {
	out := make(map[string][]di.Key)
	for _, e := range r.Of(KindEndpoint) {
		if e.module != "" {
			out[e.module] = append(out[e.module], e.key)
		}
	}
	return out
}

// RegisterServices registers every entry as a scoped service.
func (r *Registry) RegisterServices(c *di.Container) error {
	if r.registered {
		return ErrSealed
	}
	if c == nil {
		return fmt.Errorf("%w: nil container", ErrNotRegistered)
	}

	for _, e := range r.entries {
		if err := c.Register(e.key, di.Scoped, e.factory); err != nil {
			return fmt.Errorf("register %s %s: %w", e.kind, e.name, err)
		}
		r.logger.Debug("service registered",
			slog.String("kind", e.kind.String()),
			slog.String("type", e.name),
		)
	}
	r.registered = true

	r.logger.Info("endpoint services registered",
		slog.Int("controllers", len(r.Of(KindController))),
		slog.Int("endpoints", len(r.Of(KindEndpoint))),
	)
	return nil
}

// MapRoutes instantiates every controller, applies configured overlays and
// maps it on root. Endpoints that no controller includes, directly or
// through a module, are then mapped on root.
func (r *Registry) MapRoutes(c *di.Container, root internal.Router) error {
	if !r.registered {
		return ErrNotRegistered
	}
	if r.mapped {
		return fmt.Errorf("%w: registry", crud.ErrAlreadyMapped)
	}

	scope := c.NewScope(context.Background())
	defer func() {
		if err := scope.Close(); err != nil {
			r.logger.Warn("close discovery scope", slog.Any("error", err))
		}
	}()

	modules := r.Modules()
	res := crud.NewScopeResolver(scope, modules)

	controllers, err := r.controllers(scope)
	if err != nil {
		return err
	}

	owned := make(map[di.Key]struct{})
	for _, ctrl := range controllers {
		keys, mods := ctrl.Includes()
		for _, k := range keys {
			owned[k] = struct{}{}
		}
		for _, m := range mods {
			for _, k := range modules[m] {
				owned[k] = struct{}{}
			}
		}
	}

	for _, ctrl := range controllers {
		if err := ctrl.Map(root, res); err != nil {
			return err
		}
		r.logger.Info("controller mapped",
			slog.String("controller", ctrl.Name()),
			slog.String("base_path", ctrl.BasePath()),
		)
	}

	for _, e := range r.Of(KindEndpoint) {
		if _, ok := owned[e.key]; ok {
			continue
		}
		h, err := res.Endpoint(e.key)
		if err != nil {
			return fmt.Errorf("endpoint %s: %w", e.name, err)
		}
		h.Routes(root)
		r.logger.Debug("endpoint mapped", slog.String("endpoint", e.name))
	}

	r.mapped = true
	return nil
}

// controllers instantiates every controller and applies overlays. Base
// path collisions and overlays naming no controller fail before anything
// is mapped.
func (r *Registry) controllers(scope *di.Scope) ([]crud.Controller, error) {
	entries := r.Of(KindController)
	out := make([]crud.Controller, 0, len(entries))
	paths := make(map[string]string, len(entries))
	names := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		v, err := scope.Get(e.key)
		if err != nil {
			return nil, fmt.Errorf("controller %s: %w", e.name, err)
		}
		ctrl, ok := v.(crud.Controller)
		if !ok {
			return nil, fmt.Errorf("%w: %s is %T", ErrUnexpectedInstance, e.name, v)
		}

		if prev, ok := paths[ctrl.BasePath()]; ok {
			return nil, fmt.Errorf("%w: %s used by %s and %s", ErrDuplicateBasePath, ctrl.BasePath(), prev, ctrl.Name())
		}
		paths[ctrl.BasePath()] = ctrl.Name()

		name := crud.ResourceName(ctrl.Name())
		names[name] = struct{}{}
		if ops := r.overlays[name]; len(ops) > 0 {
			if err := ctrl.ConfigureCRUD(func(o *crud.Options) { o.Disable(ops...) }); err != nil {
				return nil, fmt.Errorf("controller %s: %w", e.name, err)
			}
			r.logger.Debug("operations disabled by configuration",
				slog.String("controller", ctrl.Name()),
				slog.Any("operations", ops),
			)
		}
		out = append(out, ctrl)
	}

	for name := range r.overlays {
		if _, ok := names[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownController, name)
		}
	}
	return out, nil
}

var _ internal.Module = (*Registry)(nil)

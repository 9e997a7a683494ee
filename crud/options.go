package crud

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrymomot/crudforge/internal"
)

// RouteCustomizer decorates a generated route after it is registered.
type RouteCustomizer func(r *internal.Route)

// EndpointOptions is the resolved configuration of one operation.
type EndpointOptions struct {
	// Customizers run in order: the All layer first, then the operation's own.
	Customizers []RouteCustomizer
	Active      bool
}

// Apply runs every customizer against r.
func (o EndpointOptions) Apply(r *internal.Route) {
	for _, fn := range o.Customizers {
		fn(r)
	}
}

type layer struct {
	customizers []RouteCustomizer
	disabled    bool
}

// Options is the operation cascade of a controller: a shared All layer
// composed with one layer per operation. The zero value is ready to use.
//
// Example:
//
//	opts.Disable(crud.List).
//	    Configure(crud.All, func(r *crudforge.Route) { r.WithTags("catalog") }).
//	    Configure(crud.Delete, func(r *crudforge.Route) { r.WithDescription("Deletes a product") })
type Options struct {
	layers map[Operation]*layer
	errs   []error
}

// NewOptions returns an empty cascade with every operation active.
func NewOptions() *Options {
	return &Options{}
}

// Disable turns operations off. Disabling All turns off every operation.
func (o *Options) Disable(ops ...Operation) *Options {
	for _, op := range ops {
		if l := o.layer(op); l != nil {
			l.disabled = true
		}
	}
	return o
}

// Configure appends customizers for op. Customizers registered on All run
// for every emitted operation, before the operation's own.
func (o *Options) Configure(op Operation, fns ...RouteCustomizer) *Options {
	l := o.layer(op)
	if l == nil {
		return o
	}
	for _, fn := range fns {
		if fn != nil {
			l.customizers = append(l.customizers, fn)
		}
	}
	return o
}

// Resolve builds a fresh EndpointOptions for op: active unless the All
// layer or the operation's layer disables it, customized by both layers.
func (o *Options) Resolve(op Operation) EndpointOptions {
	res := EndpointOptions{Active: op.Valid()}
	if !op.Valid() {
		return res
	}

	apply := func(l *layer) {
		if l == nil {
			return
		}
		if l.disabled {
			res.Active = false
		}
		res.Customizers = append(res.Customizers, l.customizers...)
	}

	apply(o.layers[All])
	if op != All {
		apply(o.layers[op])
	}
	return res
}

// AllDisabled reports whether the controller-wide switch is off.
func (o *Options) AllDisabled() bool {
	l := o.layers[All]
	return l != nil && l.disabled
}

// Err reports operations outside the declared set passed to Disable or
// Configure.
func (o *Options) Err() error {
	return errors.Join(o.errs...)
}

// Clone returns a deep copy of the cascade.
func (o *Options) Clone() *Options {
	c := &Options{errs: slices.Clone(o.errs)}
	if len(o.layers) > 0 {
		c.layers = make(map[Operation]*layer, len(o.layers))
		for op, l := range o.layers {
			c.layers[op] = &layer{
				customizers: slices.Clone(l.customizers),
				disabled:    l.disabled,
			}
		}
	}
	return c
}

func (o *Options) layer(op Operation) *layer {
	if !op.Valid() {
		o.errs = append(o.errs, fmt.Errorf("%w: %s", ErrUnknownOperation, op))
		return nil
	}
	if o.layers == nil {
		o.layers = make(map[Operation]*layer)
	}
	l, ok := o.layers[op]
	if !ok {
		l = &layer{}
		o.layers[op] = l
	}
	return l
}

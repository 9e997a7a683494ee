package store

// Options holds settings shared by all drivers.
type Options[ID comparable] struct {
	// IDGenerator fills zero identities on Insert. Nil leaves them as-is.
	IDGenerator func() ID
}

// Option configures a store.
type Option[ID comparable] func(*Options[ID])

// WithIDGenerator sets the generator used for models inserted without an identity.
//
// Example:
//
//	memory.New[*Order, uuid.UUID]("orders", store.WithIDGenerator(store.UUIDGenerator()))
func WithIDGenerator[ID comparable](fn func() ID) Option[ID] {
	return func(o *Options[ID]) {
		o.IDGenerator = fn
	}
}

// BuildOptions applies opts over defaults.
func BuildOptions[ID comparable](opts ...Option[ID]) Options[ID] {
	var o Options[ID]
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

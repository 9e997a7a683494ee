package di

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"sync"
)

// Lifetime controls how long a resolved instance is reused.
type Lifetime uint8

const (
	// Transient instances are built on every resolution.
	Transient Lifetime = iota
	// Scoped instances are built once per Scope.
	Scoped
	// Singleton instances are built once per Container.
	Singleton
)

func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case Scoped:
		return "scoped"
	case Singleton:
		return "singleton"
	default:
		return fmt.Sprintf("lifetime(%d)", uint8(l))
	}
}

// Key identifies a registered service.
// Keys are only compared; nothing is ever invoked through them.
type Key = reflect.Type

// KeyOf returns the Key of T.
func KeyOf[T any]() Key {
	return reflect.TypeFor[T]()
}

// Factory builds a service instance. It may resolve its own
// dependencies from the given scope.
type Factory func(s *Scope) (any, error)

type provider struct {
	factory  Factory
	lifetime Lifetime
}

type singletonCell struct {
	value any
	err   error
	once  sync.Once
}

// Container holds service factories keyed by type.
// Registration is expected to finish before the first scope is opened.
//
// Singletons are built in the container's root scope, never in the scope
// that first asked for them, so they cannot capture request-scoped
// instances. Resolving a Scoped service while building a singleton fails
// with ErrCaptiveDependency.
type Container struct {
	providers  map[Key]provider
	singletons map[Key]*singletonCell
	root       *scopeState
	order      []Key
	mu         sync.RWMutex
}

// New creates an empty container.
func New() *Container {
	c := &Container{
		providers:  make(map[Key]provider),
		singletons: make(map[Key]*singletonCell),
	}
	c.root = c.newRootState()
	return c
}

func (c *Container) newRootState() *scopeState {
	return &scopeState{
		container: c,
		ctx:       context.Background(),
		instances: make(map[Key]any),
		root:      true,
	}
}

// Register adds a factory under key.
// Returns ErrDuplicate if the key is already registered.
func (c *Container) Register(key Key, lt Lifetime, f Factory) error {
	if key == nil || f == nil {
		return ErrInvalidProvider
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.providers[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, key)
	}
	c.providers[key] = provider{factory: f, lifetime: lt}
	c.order = append(c.order, key)
	return nil
}

// Has reports whether key is registered.
func (c *Container) Has(key Key) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.providers[key]
	return ok
}

// Lifetime returns the lifetime registered for key.
func (c *Container) Lifetime(key Key) (Lifetime, bool) {
	p, ok := c.provider(key)
	return p.lifetime, ok
}

// Keys returns registered keys in registration order.
func (c *Container) Keys() []Key {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.order)
}

// NewScope opens a resolution scope bound to ctx.
// Callers must Close the scope to release scoped instances.
func (c *Container) NewScope(ctx context.Context) *Scope {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Scope{
		state: &scopeState{
			container: c,
			ctx:       ctx,
			instances: make(map[Key]any),
		},
	}
}

// Close releases singletons implementing io.Closer in reverse build order,
// then transient instances built for them.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, key := range slices.Backward(c.order) {
		cell, ok := c.singletons[key]
		if !ok || cell.err != nil {
			continue
		}
		if cl, ok := cell.value.(io.Closer); ok {
			if err := cl.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	clear(c.singletons)

	root := &Scope{state: c.root}
	c.root = c.newRootState()
	if err := root.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Container) provider(key Key) (provider, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.providers[key]
	return p, ok
}

func (c *Container) singleton(key Key, p provider, chain []Key) (any, error) {
	c.mu.Lock()
	cell, ok := c.singletons[key]
	if !ok {
		cell = &singletonCell{}
		c.singletons[key] = cell
	}
	root := c.root
	c.mu.Unlock()

	cell.once.Do(func() {
		cell.value, cell.err = p.factory(&Scope{state: root, chain: chain})
	})
	return cell.value, cell.err
}

type scopeState struct {
	container *Container
	ctx       context.Context
	instances map[Key]any
	closers   []io.Closer
	closed    bool
	root      bool
	mu        sync.Mutex
}

// Scope resolves services. Scoped instances are cached per scope.
// A Scope may be used from multiple goroutines.
type Scope struct {
	state *scopeState
	chain []Key
}

// Context returns the context the scope was opened with.
func (s *Scope) Context() context.Context {
	return s.state.ctx
}

// Container returns the owning container.
func (s *Scope) Container() *Container {
	return s.state.container
}

// Get resolves the service registered under key.
func (s *Scope) Get(key Key) (any, error) {
	p, ok := s.state.container.provider(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, key)
	}

	if slices.Contains(s.chain, key) {
		return nil, fmt.Errorf("%w: %s", ErrCycle, formatChain(append(s.chain, key)))
	}

	if p.lifetime == Scoped {
		if s.state.root {
			return nil, fmt.Errorf("%w: %s", ErrCaptiveDependency, formatChain(append(s.chain, key)))
		}
		s.state.mu.Lock()
		if s.state.closed {
			s.state.mu.Unlock()
			return nil, ErrScopeClosed
		}
		if v, ok := s.state.instances[key]; ok {
			s.state.mu.Unlock()
			return v, nil
		}
		s.state.mu.Unlock()
	}

	chain := append(slices.Clone(s.chain), key)

	if p.lifetime == Singleton {
		v, err := s.state.container.singleton(key, p, chain)
		if err != nil {
			return nil, fmt.Errorf("di: resolve %s: %w", key, err)
		}
		return v, nil
	}

	v, err := p.factory(&Scope{state: s.state, chain: chain})
	if err != nil {
		return nil, fmt.Errorf("di: resolve %s: %w", key, err)
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if p.lifetime == Scoped {
		// A concurrent resolution may have won the race.
		if existing, ok := s.state.instances[key]; ok {
			return existing, nil
		}
		s.state.instances[key] = v
	}
	if cl, ok := v.(io.Closer); ok {
		s.state.closers = append(s.state.closers, cl)
	}
	return v, nil
}

// Close releases scoped and transient instances implementing io.Closer,
// newest first. Subsequent scoped resolutions fail with ErrScopeClosed.
func (s *Scope) Close() error {
	s.state.mu.Lock()
	if s.state.closed {
		s.state.mu.Unlock()
		return nil
	}
	s.state.closed = true
	closers := s.state.closers
	s.state.closers = nil
	clear(s.state.instances)
	s.state.mu.Unlock()

	var errs []error
	for _, cl := range slices.Backward(closers) {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func formatChain(chain []Key) string {
	out := ""
	for i, k := range chain {
		if i > 0 {
			out += " -> "
		}
		out += k.String()
	}
	return out
}

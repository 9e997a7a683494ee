// Package di is a small typed dependency container.
//
// Services are registered as factories keyed by their Go type and resolved
// through a Scope. Three lifetimes are supported: Transient (new instance per
// resolution), Scoped (one instance per Scope, typically per HTTP request) and
// Singleton (one instance per Container).
//
// There is no reflection-driven construction: every service has an explicit
// factory, and the type is only used as a lookup key.
//
// # Usage
//
//	c := di.New()
//	_ = di.Value(c, pool)
//	_ = di.Provide(c, di.Scoped, func(s *di.Scope) (*Repo, error) {
//	    p, err := di.Resolve[*pgxpool.Pool](s)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return NewRepo(p), nil
//	})
//
//	scope := c.NewScope(ctx)
//	defer scope.Close()
//	repo, err := di.Resolve[*Repo](scope)
//
// Scoped and transient values implementing io.Closer are closed when their
// scope is closed; singletons are closed by Container.Close.
//
// Singleton factories run in the container's root scope with a background
// context. They may depend on singletons and transients; depending on a
// Scoped service fails with ErrCaptiveDependency.
package di

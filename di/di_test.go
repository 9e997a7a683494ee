package di_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/crudforge/di"
)

type config struct{ name string }

type repo struct {
	cfg    *config
	closed bool
}

func (r *repo) Close() error {
	r.closed = true
	return nil
}

type service struct{ repo *repo }

func TestLifetime_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "transient", di.Transient.String())
	require.Equal(t, "scoped", di.Scoped.String())
	require.Equal(t, "singleton", di.Singleton.String())
	require.Equal(t, "lifetime(9)", di.Lifetime(9).String())
}

func TestContainer_Register(t *testing.T) {
	t.Parallel()

	t.Run("rejects duplicates", func(t *testing.T) {
		t.Parallel()

		c := di.New()
		require.NoError(t, di.Value(c, &config{}))
		require.ErrorIs(t, di.Value(c, &config{}), di.ErrDuplicate)
	})

	t.Run("rejects nil factory", func(t *testing.T) {
		t.Parallel()

		c := di.New()
		require.ErrorIs(t, c.Register(di.KeyOf[*config](), di.Scoped, nil), di.ErrInvalidProvider)
		require.ErrorIs(t, di.Provide[*config](c, di.Scoped, nil), di.ErrInvalidProvider)
	})

	t.Run("keeps registration order", func(t *testing.T) {
		t.Parallel()

		c := di.New()
		require.NoError(t, di.Value(c, &config{}))
		require.NoError(t, di.Provide(c, di.Scoped, func(*di.Scope) (*repo, error) { return &repo{}, nil }))

		require.Equal(t, []di.Key{di.KeyOf[*config](), di.KeyOf[*repo]()}, c.Keys())
		require.True(t, c.Has(di.KeyOf[*repo]()))
		require.False(t, c.Has(di.KeyOf[*service]()))

		lt, ok := c.Lifetime(di.KeyOf[*repo]())
		require.True(t, ok)
		require.Equal(t, di.Scoped, lt)
	})
}

func TestScope_Lifetimes(t *testing.T) {
	t.Parallel()

	var built atomic.Int32
	c := di.New()
	require.NoError(t, di.Value(c, &config{name: "main"}))
	require.NoError(t, di.Provide(c, di.Scoped, func(s *di.Scope) (*repo, error) {
		built.Add(1)
		cfg, err := di.Resolve[*config](s)
		if err != nil {
			return nil, err
		}
		return &repo{cfg: cfg}, nil
	}))
	require.NoError(t, di.Provide(c, di.Transient, func(s *di.Scope) (*service, error) {
		r, err := di.Resolve[*repo](s)
		if err != nil {
			return nil, err
		}
		return &service{repo: r}, nil
	}))

	s1 := c.NewScope(context.Background())
	a, err := di.Resolve[*service](s1)
	require.NoError(t, err)
	b, err := di.Resolve[*service](s1)
	require.NoError(t, err)

	require.NotSame(t, a, b, "transient services are rebuilt")
	require.Same(t, a.repo, b.repo, "scoped services are shared within a scope")
	require.Equal(t, "main", a.repo.cfg.name)

	s2 := c.NewScope(context.Background())
	other, err := di.Resolve[*service](s2)
	require.NoError(t, err)
	require.NotSame(t, a.repo, other.repo)
	require.Same(t, a.repo.cfg, other.repo.cfg, "singletons are shared across scopes")
	require.Equal(t, int32(2), built.Load())
}

func TestScope_Close(t *testing.T) {
	t.Parallel()

	c := di.New()
	require.NoError(t, di.Provide(c, di.Scoped, func(*di.Scope) (*repo, error) { return &repo{}, nil }))

	s := c.NewScope(context.Background())
	r, err := di.Resolve[*repo](s)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.True(t, r.closed)
	require.NoError(t, s.Close(), "close is idempotent")

	_, err = di.Resolve[*repo](s)
	require.ErrorIs(t, err, di.ErrScopeClosed)
}

func TestContainer_CloseSingletons(t *testing.T) {
	t.Parallel()

	c := di.New()
	require.NoError(t, di.Provide(c, di.Singleton, func(*di.Scope) (*repo, error) { return &repo{}, nil }))

	s := c.NewScope(context.Background())
	r, err := di.Resolve[*repo](s)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.False(t, r.closed, "scopes do not close singletons")

	require.NoError(t, c.Close())
	require.True(t, r.closed)
}

func TestContainer_SingletonsBuildInRootScope(t *testing.T) {
	t.Parallel()

	type ctxKey struct{}

	t.Run("scoped dependency is rejected", func(t *testing.T) {
		t.Parallel()

		c := di.New()
		require.NoError(t, di.Provide(c, di.Scoped, func(*di.Scope) (*repo, error) { return &repo{}, nil }))
		require.NoError(t, di.Provide(c, di.Singleton, func(s *di.Scope) (*service, error) {
			r, err := di.Resolve[*repo](s)
			return &service{repo: r}, err
		}))

		s := c.NewScope(context.Background())
		t.Cleanup(func() { _ = s.Close() })

		_, err := di.Resolve[*service](s)
		require.ErrorIs(t, err, di.ErrCaptiveDependency)

		r, err := di.Resolve[*repo](s)
		require.NoError(t, err, "the scoped service itself still resolves")
		require.NotNil(t, r)
	})

	t.Run("transient dependency outlives the requesting scope", func(t *testing.T) {
		t.Parallel()

		c := di.New()
		require.NoError(t, di.Provide(c, di.Transient, func(*di.Scope) (*repo, error) { return &repo{}, nil }))
		require.NoError(t, di.Provide(c, di.Singleton, func(s *di.Scope) (*service, error) {
			require.Nil(t, s.Context().Value(ctxKey{}), "singletons never see request context")
			r, err := di.Resolve[*repo](s)
			return &service{repo: r}, err
		}))

		s := c.NewScope(context.WithValue(context.Background(), ctxKey{}, "request"))
		svc, err := di.Resolve[*service](s)
		require.NoError(t, err)
		require.NoError(t, s.Close())
		require.False(t, svc.repo.closed, "closing the request scope leaves singleton dependencies alone")

		again, err := di.Resolve[*service](c.NewScope(context.Background()))
		require.NoError(t, err)
		require.Same(t, svc, again)

		require.NoError(t, c.Close())
		require.True(t, svc.repo.closed)
	})
}

func TestScope_Errors(t *testing.T) {
	t.Parallel()

	t.Run("not registered", func(t *testing.T) {
		t.Parallel()

		_, err := di.Resolve[*repo](di.New().NewScope(context.Background()))
		require.ErrorIs(t, err, di.ErrNotRegistered)
	})

	t.Run("factory error is wrapped", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		c := di.New()
		require.NoError(t, di.Provide(c, di.Scoped, func(*di.Scope) (*repo, error) { return nil, boom }))

		_, err := di.Resolve[*repo](c.NewScope(context.Background()))
		require.ErrorIs(t, err, boom)
	})

	t.Run("cycle", func(t *testing.T) {
		t.Parallel()

		c := di.New()
		require.NoError(t, di.Provide(c, di.Scoped, func(s *di.Scope) (*repo, error) {
			_, err := di.Resolve[*service](s)
			return &repo{}, err
		}))
		require.NoError(t, di.Provide(c, di.Scoped, func(s *di.Scope) (*service, error) {
			r, err := di.Resolve[*repo](s)
			return &service{repo: r}, err
		}))

		_, err := di.Resolve[*service](c.NewScope(context.Background()))
		require.ErrorIs(t, err, di.ErrCycle)
	})

	t.Run("type mismatch", func(t *testing.T) {
		t.Parallel()

		c := di.New()
		require.NoError(t, c.Register(di.KeyOf[*repo](), di.Scoped, func(*di.Scope) (any, error) {
			return &config{}, nil
		}))

		_, err := di.Resolve[*repo](c.NewScope(context.Background()))
		require.ErrorIs(t, err, di.ErrTypeMismatch)
	})
}

func TestScope_ConcurrentScopedResolution(t *testing.T) {
	t.Parallel()

	c := di.New()
	require.NoError(t, di.Provide(c, di.Scoped, func(*di.Scope) (*repo, error) { return &repo{}, nil }))
	s := c.NewScope(context.Background())

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[*repo]struct{})
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := di.Resolve[*repo](s)
			if err != nil {
				return
			}
			mu.Lock()
			seen[r] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, 1)
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	c := di.New()
	require.NoError(t, di.Value(c, &config{name: "ctx"}))

	_, err := di.ResolveFrom[*config](context.Background())
	require.ErrorIs(t, err, di.ErrNoScope)

	s := c.NewScope(context.Background())
	ctx := di.WithScope(context.Background(), s)

	got, ok := di.ScopeFrom(ctx)
	require.True(t, ok)
	require.Same(t, s, got)

	cfg, err := di.ResolveFrom[*config](ctx)
	require.NoError(t, err)
	require.Equal(t, "ctx", cfg.name)
}

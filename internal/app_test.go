package internal_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/crudforge/di"
	"github.com/dmitrymomot/crudforge/internal"
)

type handlerFunc func(r internal.Router)

func (f handlerFunc) Routes(r internal.Router) { f(r) }

func newApp(t *testing.T, opts ...internal.Option) *internal.App {
	t.Helper()

	app, err := internal.New(opts...)
	require.NoError(t, err)
	return app
}

func do(app http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestApp_Routing(t *testing.T) {
	t.Parallel()

	app := newApp(t, internal.WithHandlers(handlerFunc(func(r internal.Router) {
		r.Route("/api/widgets", func(r internal.Router) {
			r.GET("", func(c internal.Context) error {
				return c.String(http.StatusOK, "list")
			})
			r.GET("/{id}", func(c internal.Context) error {
				return c.String(http.StatusOK, "get "+c.Param("id"))
			})
			r.POST("/", func(c internal.Context) error {
				return c.NoContent(http.StatusCreated)
			})
		})
	})))

	t.Run("empty path maps to group root", func(t *testing.T) {
		t.Parallel()
		rec := do(app, http.MethodGet, "/api/widgets", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "list", rec.Body.String())
	})

	t.Run("url params", func(t *testing.T) {
		t.Parallel()
		rec := do(app, http.MethodGet, "/api/widgets/42", "")
		require.Equal(t, "get 42", rec.Body.String())
	})

	t.Run("unknown method is 405", func(t *testing.T) {
		t.Parallel()
		rec := do(app, http.MethodDelete, "/api/widgets", "")
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("unknown path is 404", func(t *testing.T) {
		t.Parallel()
		rec := do(app, http.MethodGet, "/api/gadgets", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestApp_Routes(t *testing.T) {
	t.Parallel()

	app := newApp(t, internal.WithHandlers(handlerFunc(func(r internal.Router) {
		r.GET("/ping", func(c internal.Context) error { return nil }).WithName("ping")

		r.Route("/api/products", func(r internal.Router) {
			r.Tags("products")
			r.GET("/", func(c internal.Context) error { return nil })
			r.DELETE("/{id}", func(c internal.Context) error { return nil }).
				WithTags("admin", "products", " ").
				WithDescription("Deletes a product")
		})
	})))

	routes := app.Routes()
	require.Len(t, routes, 3)

	require.Equal(t, internal.RouteInfo{Method: http.MethodGet, Pattern: "/ping", Name: "ping"}, routes[0])
	require.Equal(t, internal.RouteInfo{
		Method:  http.MethodGet,
		Pattern: "/api/products",
		Tags:    []string{"products"},
	}, routes[1])
	require.Equal(t, internal.RouteInfo{
		Method:      http.MethodDelete,
		Pattern:     "/api/products/{id}",
		Description: "Deletes a product",
		Tags:        []string{"products", "admin"},
	}, routes[2])
}

func TestApp_Middleware(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(name string) internal.Middleware {
		return func(next internal.HandlerFunc) internal.HandlerFunc {
			return func(c internal.Context) error {
				mu.Lock()
				order = append(order, name)
				mu.Unlock()
				return next(c)
			}
		}
	}

	app := newApp(t,
		internal.WithMiddleware(record("global")),
		internal.WithHandlers(handlerFunc(func(r internal.Router) {
			r.Route("/api", func(r internal.Router) {
				r.Use(record("group"))
				r.GET("/x", func(c internal.Context) error {
					return c.NoContent(http.StatusNoContent)
				}, record("inline")).Use(record("route"))
			})
		})),
	)

	rec := do(app, http.MethodGet, "/api/x", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, []string{"global", "group", "inline", "route"}, order)
}

func TestApp_DefaultErrorHandler(t *testing.T) {
	t.Parallel()

	app := newApp(t, internal.WithHandlers(handlerFunc(func(r internal.Router) {
		r.GET("/missing", func(c internal.Context) error {
			return internal.ErrNotFound("widget 7 not found")
		})
		r.GET("/boom", func(c internal.Context) error {
			return errors.New("database exploded")
		})
		r.GET("/written", func(c internal.Context) error {
			_ = c.String(http.StatusAccepted, "partial")
			return errors.New("late failure")
		})
		r.GET("/deadline", func(c internal.Context) error {
			return fmt.Errorf("query products: %w", context.DeadlineExceeded)
		})
	})))

	t.Run("http error keeps status", func(t *testing.T) {
		t.Parallel()
		rec := do(app, http.MethodGet, "/missing", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.JSONEq(t, `{"error":"widget 7 not found","title":"Not Found"}`, rec.Body.String())
	})

	t.Run("plain error is 500 without details", func(t *testing.T) {
		t.Parallel()
		rec := do(app, http.MethodGet, "/boom", "")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.NotContains(t, rec.Body.String(), "database exploded")
	})

	t.Run("expired deadline is 503", func(t *testing.T) {
		t.Parallel()
		rec := do(app, http.MethodGet, "/deadline", "")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Contains(t, rec.Body.String(), "request timed out")
	})

	t.Run("written response is left alone", func(t *testing.T) {
		t.Parallel()
		rec := do(app, http.MethodGet, "/written", "")
		require.Equal(t, http.StatusAccepted, rec.Code)
		require.Equal(t, "partial", rec.Body.String())
	})
}

func TestApp_CustomErrorHandler(t *testing.T) {
	t.Parallel()

	app := newApp(t,
		internal.WithErrorHandler(func(c internal.Context, err error) error {
			return c.String(http.StatusTeapot, err.Error())
		}),
		internal.WithHandlers(handlerFunc(func(r internal.Router) {
			r.GET("/", func(c internal.Context) error { return errors.New("custom") })
		})),
	)

	rec := do(app, http.MethodGet, "/", "")
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, "custom", rec.Body.String())
}

type closer struct {
	closed *int
	mu     *sync.Mutex
}

func (c *closer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	*c.closed++
	return nil
}

func TestApp_RequestScope(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		closed int
	)
	c := di.New()
	require.NoError(t, di.Provide(c, di.Scoped, func(*di.Scope) (*closer, error) {
		return &closer{closed: &closed, mu: &mu}, nil
	}))

	app := newApp(t,
		internal.WithContainer(c),
		internal.WithHandlers(handlerFunc(func(r internal.Router) {
			r.GET("/scoped", func(ctx internal.Context) error {
				scope, err := ctx.Scope()
				if err != nil {
					return err
				}
				a, err := di.Resolve[*closer](scope)
				if err != nil {
					return err
				}
				b, err := di.Resolve[*closer](scope)
				if err != nil {
					return err
				}
				if a != b {
					return errors.New("scoped instance rebuilt")
				}
				return ctx.NoContent(http.StatusNoContent)
			})
		})),
	)

	require.Equal(t, http.StatusNoContent, do(app, http.MethodGet, "/scoped", "").Code)
	require.Equal(t, http.StatusNoContent, do(app, http.MethodGet, "/scoped", "").Code)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 2, closed)
}

func TestContext_ScopeWithoutContainer(t *testing.T) {
	t.Parallel()

	app := newApp(t, internal.WithHandlers(handlerFunc(func(r internal.Router) {
		r.GET("/", func(c internal.Context) error {
			_, err := c.Scope()
			if errors.Is(err, di.ErrNoScope) {
				return c.NoContent(http.StatusNoContent)
			}
			return err
		})
	})))

	require.Equal(t, http.StatusNoContent, do(app, http.MethodGet, "/", "").Code)
}

func TestContext_BindJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name"`
	}

	app := newApp(t, internal.WithHandlers(handlerFunc(func(r internal.Router) {
		r.POST("/", func(c internal.Context) error {
			var p payload
			if err := c.BindJSON(&p); err != nil {
				if errors.Is(err, internal.ErrEmptyBody) {
					return internal.ErrBadRequest("empty")
				}
				return internal.ErrBadRequest("malformed", internal.WithError(err))
			}
			return c.JSON(http.StatusOK, p)
		})
	})))

	rec := do(app, http.MethodPost, "/", `{"name":"bolt"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"name":"bolt"}`, rec.Body.String())

	rec = do(app, http.MethodPost, "/", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "empty")

	rec = do(app, http.MethodPost, "/", `{"name":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "malformed")
}

type module struct {
	registered *[]string
	name       string
	fail       error
}

func (m module) RegisterServices(*di.Container) error {
	*m.registered = append(*m.registered, "services:"+m.name)
	return nil
}

func (m module) MapRoutes(_ *di.Container, r internal.Router) error {
	*m.registered = append(*m.registered, "routes:"+m.name)
	if m.fail != nil {
		return m.fail
	}
	r.GET("/"+m.name, func(c internal.Context) error { return c.String(http.StatusOK, m.name) })
	return nil
}

func TestApp_Modules(t *testing.T) {
	t.Parallel()

	t.Run("services are registered before routes", func(t *testing.T) {
		t.Parallel()

		var calls []string
		app := newApp(t, internal.WithModules(
			module{name: "a", registered: &calls},
			module{name: "b", registered: &calls},
		))

		require.Equal(t, []string{"services:a", "services:b", "routes:a", "routes:b"}, calls)
		require.NotNil(t, app.Container())
		require.Equal(t, "b", do(app, http.MethodGet, "/b", "").Body.String())
	})

	t.Run("route mapping errors fail New", func(t *testing.T) {
		t.Parallel()

		var calls []string
		boom := errors.New("boom")
		_, err := internal.New(internal.WithModules(module{name: "a", registered: &calls, fail: boom}))
		require.ErrorIs(t, err, boom)
	})
}

type observation struct {
	method  string
	pattern string
	status  int
}

type recorder struct {
	mu  sync.Mutex
	got []observation
}

func (r *recorder) ObserveRequest(method, pattern string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, observation{method, pattern, status})
}

func TestApp_RequestObserver(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	app := newApp(t,
		internal.WithRequestObserver(rec),
		internal.WithHandlers(handlerFunc(func(r internal.Router) {
			r.Route("/api/items", func(r internal.Router) {
				r.GET("/{id}", func(c internal.Context) error {
					return internal.ErrNotFound("nope")
				})
			})
		})),
	)

	do(app, http.MethodGet, "/api/items/9", "")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Equal(t, []observation{{http.MethodGet, "/api/items/{id}", http.StatusNotFound}}, rec.got)
}

func TestApp_HealthChecks(t *testing.T) {
	t.Parallel()

	app := newApp(t, internal.WithHealthChecks(
		internal.WithReadinessCheck("store", func(context.Context) error { return errors.New("down") }),
	))

	require.Equal(t, http.StatusOK, do(app, http.MethodGet, "/health/live", "").Code)
	require.Equal(t, http.StatusServiceUnavailable, do(app, http.MethodGet, "/health/ready", "").Code)

	rec := do(app, http.MethodHead, "/health/ready", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Empty(t, rec.Body.String())
	require.Equal(t, http.StatusOK, do(app, http.MethodHead, "/health/live", "").Code)
}

func TestApp_Mount(t *testing.T) {
	t.Parallel()

	app := newApp(t, internal.WithMount("/metrics", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("metrics"))
	})))

	require.Equal(t, "metrics", do(app, http.MethodGet, "/metrics", "").Body.String())
}

func TestApp_Run(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	var started, stopped bool
	app := newApp(t)

	done := make(chan error, 1)
	go func() {
		done <- app.Run("127.0.0.1:0",
			internal.WithContext(ctx),
			internal.ServerTimeouts(time.Second, time.Second, 0),
			internal.StartupHook(func(context.Context) error { started = true; return nil }),
			internal.ShutdownHook(func(context.Context) error { stopped = true; return nil }),
		)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	require.True(t, started)
	require.True(t, stopped)
}

func TestApp_RunStartupHookFails(t *testing.T) {
	t.Parallel()

	app := newApp(t)
	err := app.Run("127.0.0.1:0", internal.StartupHook(func(context.Context) error {
		return errors.New("migrations failed")
	}))
	require.ErrorIs(t, err, internal.ErrStartupHook)
}

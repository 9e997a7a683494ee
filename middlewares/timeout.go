package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/crudforge/internal"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// Timeout returns middleware that bounds request handling by d.
//
// The deadline is carried by the request context, which store sessions
// receive, so a slow query is cancelled rather than abandoned. When the
// deadline passes before a response is written, the handler's result is
// replaced by a 503 wrapping a *TimeoutError.
func Timeout(d time.Duration) internal.Middleware {
	if d <= 0 {
		d = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ctx, cancel := context.WithTimeout(c.Context(), d)
			defer cancel()
			c.SetContext(ctx)

			err := next(c)
			if !errors.Is(ctx.Err(), context.DeadlineExceeded) || c.Written() {
				return err
			}

			c.LogWarn("request timeout", "timeout", d.String())
			return internal.ErrServiceUnavailable("request timed out",
				internal.WithError(errors.Join(&TimeoutError{Duration: d}, err)),
			)
		}
	}
}

package middlewares

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/crudforge/internal"
)

// DefaultCORSMaxAge is the default preflight cache duration.
const DefaultCORSMaxAge = 12 * time.Hour

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	// AllowOriginFunc, when set, decides instead of AllowOrigins and the
	// accepted origin is always echoed back.
	AllowOriginFunc func(origin string) bool

	// AllowOrigins lists allowed origins; "*" allows any.
	AllowOrigins []string

	AllowMethods []string
	AllowHeaders []string

	// ExposeHeaders defaults to Location and X-Request-ID so browser
	// clients can follow the Location of a created entity.
	ExposeHeaders []string

	MaxAge time.Duration

	// AllowCredentials echoes the request origin instead of "*".
	AllowCredentials bool
}

// DefaultCORSConfig matches the generated CRUD surface.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Location", "X-Request-ID"},
		MaxAge:        DefaultCORSMaxAge,
	}
}

// CORSOption configures CORSConfig.
type CORSOption func(*CORSConfig)

// WithAllowOrigins sets the allowed origins.
func WithAllowOrigins(origins ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowOrigins = origins
	}
}

// WithAllowOriginFunc sets a dynamic origin validator.
func WithAllowOriginFunc(fn func(origin string) bool) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowOriginFunc = fn
	}
}

// WithAllowMethods sets the allowed HTTP methods.
func WithAllowMethods(methods ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowMethods = methods
	}
}

// WithAllowHeaders sets the allowed request headers.
func WithAllowHeaders(headers ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowHeaders = headers
	}
}

// WithExposeHeaders sets the headers exposed to the client.
func WithExposeHeaders(headers ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.ExposeHeaders = headers
	}
}

// WithAllowCredentials enables credentials support.
func WithAllowCredentials() CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowCredentials = true
	}
}

// WithMaxAge sets the preflight cache duration.
func WithMaxAge(d time.Duration) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.MaxAge = d
	}
}

// CORS returns middleware answering preflight requests and decorating
// cross-origin responses. Requests from disallowed origins pass through
// without CORS headers and are blocked by the browser.
//
// Register it as App middleware: preflight requests for routes that only
// declare other methods never reach route-level middleware.
func CORS(opts ...CORSOption) internal.Middleware {
	cfg := DefaultCORSConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		methods  = strings.Join(cfg.AllowMethods, ", ")
		headers  = strings.Join(cfg.AllowHeaders, ", ")
		exposed  = strings.Join(cfg.ExposeHeaders, ", ")
		maxAge   = strconv.Itoa(int(cfg.MaxAge.Seconds()))
		wildcard = cfg.AllowOriginFunc == nil && slices.Contains(cfg.AllowOrigins, "*")
	)

	allowed := func(origin string) bool {
		if cfg.AllowOriginFunc != nil {
			return cfg.AllowOriginFunc(origin)
		}
		return wildcard || slices.Contains(cfg.AllowOrigins, origin)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			origin := c.Header("Origin")
			if origin == "" || !allowed(origin) {
				return next(c)
			}

			h := c.Response().Header()
			h.Add("Vary", "Origin")
			if cfg.AllowCredentials || !wildcard {
				h.Set("Access-Control-Allow-Origin", origin)
			} else {
				h.Set("Access-Control-Allow-Origin", "*")
			}
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if exposed != "" {
				h.Set("Access-Control-Expose-Headers", exposed)
			}

			if c.Request().Method != http.MethodOptions || c.Header("Access-Control-Request-Method") == "" {
				return next(c)
			}

			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			if cfg.MaxAge > 0 {
				h.Set("Access-Control-Max-Age", maxAge)
			}
			return c.NoContent(http.StatusNoContent)
		}
	}
}

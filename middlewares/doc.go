// Package middlewares provides HTTP middleware for crudforge applications.
//
// # Request ID
//
// RequestID keeps an upstream X-Request-ID (or X-Correlation-ID) or
// generates a v7 UUID, stores it in the request context and echoes it in
// the response. Pair it with RequestIDExtractor to log it:
//
//	app, err := crudforge.New(
//	    crudforge.WithLogger("api", middlewares.RequestIDExtractor()),
//	    crudforge.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover turns panics into *PanicError values for the App's error handler,
// which renders them as 500.
//
// # Timeout
//
// Timeout puts a deadline on the request context. Store sessions receive
// that context, so queries are cancelled when it expires; the response is
// then a 503 wrapping a *TimeoutError:
//
//	crudforge.WithMiddleware(middlewares.Timeout(5 * time.Second))
//
// # CORS
//
// CORS answers preflight requests and exposes the Location header of
// created entities to browser clients:
//
//	crudforge.WithMiddleware(middlewares.CORS(
//	    middlewares.WithAllowOrigins("https://app.example.com"),
//	    middlewares.WithAllowCredentials(),
//	))
//
// Middleware order matters: RequestID should run first so later middleware
// and handlers log the ID, then Recover.
package middlewares

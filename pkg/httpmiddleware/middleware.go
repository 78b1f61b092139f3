// Package httpmiddleware provides the HTTP middleware chain used by the
// storefront server: panic recovery, CORS, per-client rate limiting, request
// identifiers, and request logging.
package httpmiddleware

import "net/http"

// Middleware wraps an http.Handler with additional behaviour.
type Middleware = func(next http.Handler) http.Handler

// Wrap applies middlewares to h so that the first middleware in the list is
// the outermost handler.
func Wrap(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

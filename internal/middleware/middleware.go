// Package middleware provides the gateway's HTTP middleware chain:
// tracing, logging, metrics, and rate limiting around the proxy handler.
package middleware

import "net/http"

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Chain composes middleware into one. Applied in the order given:
// Chain(a, b, c)(handler) = a(b(c(handler))), so the first middleware
// is the outermost wrapper and sees the request first.
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

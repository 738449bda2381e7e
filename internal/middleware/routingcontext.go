package middleware

import (
	"net/http"

	"github.com/routeway/gateway/internal/router"
)

// RoutingContext seeds the per-request result slot the proxy handler
// fills after resolution. Must sit outside any middleware that reads
// the matched definition (logging, metrics).
func RoutingContext() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = r.WithContext(router.NewResultContext(r.Context()))
			next.ServeHTTP(w, r)
		})
	}
}

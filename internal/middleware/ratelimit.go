package middleware

import (
	"net"
	"net/http"

	"github.com/routeway/gateway/internal/observe"
	"github.com/routeway/gateway/internal/ratelimit"
)

// RateLimit rejects requests with 429 when the client exceeds its
// per-client budget. Clients are keyed by IP; metrics may be nil.
func RateLimit(limiter *ratelimit.PerClient, m *observe.Metrics) Middleware {
	return RateLimitWithKeyFunc(limiter, m, clientIP)
}

// RateLimitWithKeyFunc is like RateLimit but uses a custom function to
// extract the client key (e.g. an API key header instead of the IP).
func RateLimitWithKeyFunc(limiter *ratelimit.PerClient, m *observe.Metrics, keyFunc func(*http.Request) string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)

			if !limiter.Allow(key) {
				if m != nil {
					m.RateLimitedTotal.WithLabelValues(key).Inc()
				}
				http.Error(w, "rate limited", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

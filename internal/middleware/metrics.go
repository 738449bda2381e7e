package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/routeway/gateway/internal/observe"
	"github.com/routeway/gateway/internal/router"
)

// Metrics records request counts and latencies per matched definition.
// Requests that matched nothing are labeled "none".
func Metrics(m *observe.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rc := NewResponseCapture(w)

			next.ServeHTTP(rc, r)

			definition := "none"
			if res := router.ResultFrom(r.Context()); res != nil {
				definition = res.Definition.ID
			}

			m.RequestsTotal.WithLabelValues(definition, strconv.Itoa(rc.StatusCode), r.Method).Inc()
			m.RequestDuration.WithLabelValues(definition).Observe(time.Since(start).Seconds())
		})
	}
}

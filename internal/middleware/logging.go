package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/routeway/gateway/internal/observe"
	"github.com/routeway/gateway/internal/router"
)

// Logging logs each request as structured JSON: method, path, host,
// status, latency, trace ID, and the matched definition when the
// resolver left one in the request context.
func Logging(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rc := NewResponseCapture(w)

			next.ServeHTTP(rc, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"host", r.Host,
				"status", rc.StatusCode,
				"latency_ms", time.Since(start).Milliseconds(),
				"trace_id", observe.TraceIDFrom(r.Context()),
			}
			if res := router.ResultFrom(r.Context()); res != nil {
				attrs = append(attrs, "definition_id", res.Definition.ID)
			}
			logger.Info("request completed", attrs...)
		})
	}
}

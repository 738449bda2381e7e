package middleware

import (
	"net/http"

	"github.com/routeway/gateway/internal/observe"
)

// Tracing extracts or generates a request trace ID, stores it in the
// context, and sets it on both the forwarded request and the response.
func Tracing() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := observe.TraceIDFromRequest(r)

			r = r.WithContext(observe.WithTraceID(r.Context(), traceID))
			r.Header.Set(observe.TraceHeader, traceID)
			w.Header().Set(observe.TraceHeader, traceID)

			next.ServeHTTP(w, r)
		})
	}
}

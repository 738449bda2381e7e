package observe

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
)

// TraceHeader is the header carrying the request trace ID, propagated
// to the upstream and echoed back to the client.
const TraceHeader = "X-Request-ID"

// traceKey is the context key for the trace ID.
type traceKey struct{}

// GenerateTraceID creates a random 16-byte hex string.
func GenerateTraceID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return fmt.Sprintf("%x", b)
}

// TraceIDFromRequest extracts or generates a trace ID for the request.
// If the client sent X-Request-ID, reuse it. Otherwise, generate a new one.
func TraceIDFromRequest(r *http.Request) string {
	if id := r.Header.Get(TraceHeader); id != "" {
		return id
	}
	return GenerateTraceID()
}

// WithTraceID stores the trace ID in the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceIDFrom retrieves the trace ID from context.
func TraceIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(traceKey{}).(string); ok {
		return id
	}
	return ""
}

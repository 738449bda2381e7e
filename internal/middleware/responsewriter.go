package middleware

import "net/http"

// ResponseCapture wraps http.ResponseWriter to record the status code
// and bytes written, since the standard interface exposes neither after
// the fact. Logging and metrics middleware both need it.
type ResponseCapture struct {
	http.ResponseWriter
	StatusCode int
	Written    int64
}

// NewResponseCapture wraps a ResponseWriter.
func NewResponseCapture(w http.ResponseWriter) *ResponseCapture {
	return &ResponseCapture{
		ResponseWriter: w,
		StatusCode:     http.StatusOK, // default if WriteHeader is never called
	}
}

// WriteHeader captures the status code then delegates.
func (rc *ResponseCapture) WriteHeader(code int) {
	rc.StatusCode = code
	rc.ResponseWriter.WriteHeader(code)
}

// Write captures bytes written then delegates.
func (rc *ResponseCapture) Write(b []byte) (int, error) {
	n, err := rc.ResponseWriter.Write(b)
	rc.Written += int64(n)
	return n, err
}

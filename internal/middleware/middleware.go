// Package middleware holds the request pipeline stages installed by the
// bootstrap in front of every route.
package middleware

import "net/http"

// Middleware wraps an http.Handler with a request-processing stage.
type Middleware func(http.Handler) http.Handler

// Chain wraps h with mws so that the first middleware sees the request first.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type contextKey string

const (
	// ContextKeyPayload is the key for the decoded JSON request body.
	ContextKeyPayload contextKey = "payload"

	// ContextKeyRequestID is the key for the request correlation ID.
	ContextKeyRequestID contextKey = "request_id"
)

// statusRecorder captures the status code written by downstream handlers.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func (rw *statusRecorder) Status() int {
	if rw.status == 0 {
		return http.StatusOK
	}
	return rw.status
}

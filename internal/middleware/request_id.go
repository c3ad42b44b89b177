// Package middleware provides the HTTP middleware for the VinPed API:
// request IDs, structured request logging, panic recovery, security
// headers, CORS, rate limiting, body size limits and the auth gate.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const (
	// RequestIDKey is the context key holding the request ID.
	RequestIDKey contextKey = "request_id"
	// TraceIDKey is the context key holding an optional trace ID.
	TraceIDKey contextKey = "trace_id"
)

// RequestIDHeader is the header the request ID is read from and echoed to.
const RequestIDHeader = "X-Request-ID"

// TraceIDHeader carries an optional caller-supplied trace ID.
const TraceIDHeader = "X-Trace-ID"

// RequestID tags every request with an ID, honoring an incoming
// X-Request-ID header and minting a UUID otherwise. The ID is placed in
// the context and echoed on the response so clients and logs can be
// correlated.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), RequestIDKey, id)
		w.Header().Set(RequestIDHeader, id)

		if trace := r.Header.Get(TraceIDHeader); trace != "" {
			ctx = context.WithValue(ctx, TraceIDKey, trace)
			w.Header().Set(TraceIDHeader, trace)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request ID from the context, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// GetTraceID returns the trace ID from the context, or "".
func GetTraceID(ctx context.Context) string {
	id, _ := ctx.Value(TraceIDKey).(string)
	return id
}

package guard

import (
	"context"
	"net/http"
	"strings"
)

// Context keys for transport-level values.
type contextKey int

const (
	headersKey contextKey = iota
)

// WithHeaders returns a new context with the given HTTP headers attached.
// The guard reads the bearer token from these headers.
func WithHeaders(ctx context.Context, headers map[string][]string) context.Context {
	return context.WithValue(ctx, headersKey, headers)
}

// HeadersFromContext retrieves HTTP headers from the context.
// Returns nil if no headers are present.
func HeadersFromContext(ctx context.Context) map[string][]string {
	h, _ := ctx.Value(headersKey).(map[string][]string)
	return h
}

// GetHeader retrieves a single header value from the context.
// Returns the first value if multiple values exist, or empty string if not found.
func GetHeader(ctx context.Context, key string) string {
	headers := HeadersFromContext(ctx)
	if headers == nil {
		return ""
	}
	values := headers[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// BearerFromHeader extracts the token from an Authorization header
// value. The scheme comparison is case-insensitive; a missing or
// non-Bearer scheme yields an empty string.
func BearerFromHeader(value string) string {
	const prefix = "bearer "
	if len(value) <= len(prefix) {
		return ""
	}
	if !strings.EqualFold(value[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(value[len(prefix):])
}

// BearerFromContext extracts the bearer token from the headers stored
// in the context by WithAuthHeaders.
func BearerFromContext(ctx context.Context) string {
	return BearerFromHeader(GetHeader(ctx, "Authorization"))
}

// WithAuthHeaders is HTTP middleware that extracts request headers
// into the context so the guard can read the bearer token.
//
// Usage:
//
//	mux.Handle("/mcp", guard.WithAuthHeaders(handler))
func WithAuthHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithHeaders(r.Context(), r.Header)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package authz

import (
	"context"

	"github.com/ledgai/mcpauth/scope"
	"github.com/ledgai/mcpauth/token"
)

// Context is the immutable per-request authorization value: who is
// calling, what they may do, and which upstream credentials their tool
// calls must use.
//
// Owned exclusively by the request-handling flow; built once, never
// mutated, discarded at request end.
type Context struct {
	// Subject is the opaque tenant/user identifier.
	Subject string

	// Scopes are the granted permission scopes.
	Scopes scope.Set

	// Credentials are the resolved upstream API credentials.
	Credentials token.TenantCredentials

	// DevMode marks contexts built with authorization disabled, so audit
	// logging can distinguish the local-development bypass from normal
	// authorized access.
	DevMode bool
}

// HasScope reports whether the context grants the scope.
func (c *Context) HasScope(sc scope.Scope) bool {
	return c.Scopes.Has(sc)
}

// Context keys for request-scoped values.
type contextKey int

const authContextKey contextKey = iota

// WithContext attaches the authorization context to a request context.
func WithContext(ctx context.Context, ac *Context) context.Context {
	return context.WithValue(ctx, authContextKey, ac)
}

// FromContext retrieves the authorization context, or nil if absent.
func FromContext(ctx context.Context) *Context {
	ac, _ := ctx.Value(authContextKey).(*Context)
	return ac
}

// SubjectFromContext retrieves the subject, or empty string if absent.
func SubjectFromContext(ctx context.Context) string {
	ac := FromContext(ctx)
	if ac == nil {
		return ""
	}
	return ac.Subject
}

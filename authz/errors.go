package authz

import (
	"errors"
	"fmt"

	"github.com/ledgai/mcpauth/scope"
	"github.com/ledgai/mcpauth/token"
)

// Sentinel errors for context construction and enforcement.
var (
	ErrMissingCredentials = errors.New("authz: missing credentials")
	ErrForbidden          = errors.New("authz: access denied")
)

// DenialError explains why a tool invocation was denied.
type DenialError struct {
	// Subject is the caller that was denied.
	Subject string

	// Tool is the tool the caller attempted to invoke.
	Tool string

	// Reason is a human-readable explanation. It never contains token or
	// credential material.
	Reason string

	// Cause is the underlying sentinel.
	Cause error
}

// Error returns the denial message.
func (e *DenialError) Error() string {
	return fmt.Sprintf("authorization denied: subject=%q tool=%q reason=%q", e.Subject, e.Tool, e.Reason)
}

// Unwrap returns the cause for errors.Is/As support.
func (e *DenialError) Unwrap() error {
	return e.Cause
}

// Denial kinds, stable across releases for machine consumption.
const (
	KindInvalidSignature   = "invalid_signature"
	KindTokenExpired       = "token_expired"
	KindMalformedClaims    = "malformed_claims"
	KindUnknownScope       = "unknown_scope"
	KindMissingCredentials = "missing_credentials"
	KindForbidden          = "forbidden"
	KindUnknownTool        = "unknown_tool"
	KindUnknownBundle      = "unknown_bundle"
	KindInternal           = "internal"
)

// Denial maps any pipeline error onto a caller-visible kind and reason.
// Reasons never echo the raw token or credential secret values.
func Denial(err error) (kind string, reason string) {
	switch {
	case errors.Is(err, token.ErrInvalidSignature):
		return KindInvalidSignature, "token signature does not verify"
	case errors.Is(err, token.ErrExpired):
		return KindTokenExpired, "token has expired"
	case errors.Is(err, scope.ErrUnknownScope):
		return KindUnknownScope, "token grants an unknown scope"
	case errors.Is(err, token.ErrMalformedClaims):
		return KindMalformedClaims, "token claims are malformed"
	case errors.Is(err, ErrMissingCredentials):
		return KindMissingCredentials, "no upstream credentials available"
	case errors.Is(err, scope.ErrUnknownTool):
		return KindUnknownTool, "tool is not registered"
	case errors.Is(err, scope.ErrUnknownBundle):
		return KindUnknownBundle, "scope bundle is not defined"
	case errors.Is(err, ErrForbidden):
		return KindForbidden, "granted scopes do not satisfy the tool requirement"
	default:
		return KindInternal, "authorization failed"
	}
}

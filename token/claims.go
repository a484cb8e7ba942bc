package token

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ledgai/mcpauth/scope"
)

// TenantCredentials is the caller's upstream trading-platform API identity
// embedded in the token payload.
type TenantCredentials struct {
	UserID         string
	APIToken       string
	OrganizationID string
}

// Validate checks that every credential field is populated. A credential
// record with any field missing is a hard failure, never a silent fallback.
func (c TenantCredentials) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("%w: tenant credentials missing user_id", ErrMalformedClaims)
	}
	if c.APIToken == "" {
		return fmt.Errorf("%w: tenant credentials missing api_token", ErrMalformedClaims)
	}
	if c.OrganizationID == "" {
		return fmt.Errorf("%w: tenant credentials missing organization_id", ErrMalformedClaims)
	}
	return nil
}

// Claims is the decoded, verified payload of a bearer token.
// Immutable once returned by Verifier.Verify.
type Claims struct {
	// Issuer is the iss claim.
	Issuer string

	// Audience is the aud claim.
	Audience string

	// Subject is the opaque tenant/user identifier (sub claim).
	Subject string

	// IssuedAt and ExpiresAt bound the token's validity window.
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Scopes are the granted permission scopes, normalized to a set.
	Scopes scope.Set

	// Credentials are the tenant's upstream API credentials, or nil when
	// the claim was entirely absent from the payload.
	Credentials *TenantCredentials
}

// TokenDigest returns a short, stable identifier for a raw token suitable
// for audit records. It never reveals token content.
func TokenDigest(raw string) string {
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:12]
}

package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ledgai/mcpauth/scope"
)

// EnvironmentProduction marks a process whose configuration forbids
// dev-token issuance.
const EnvironmentProduction = "production"

// IssuerConfig configures the development token issuer.
type IssuerConfig struct {
	// Issuer and Audience are stamped into every minted token and must
	// match the verifier's expectations.
	Issuer   string
	Audience string

	// Environment is the deployment environment name. NewIssuer fails when
	// it equals EnvironmentProduction.
	Environment string

	// Now supplies the current time. Default: time.Now.
	Now func() time.Time
}

// Issuer mints HS256-signed tokens for local development and testing.
type Issuer struct {
	config IssuerConfig
	secret []byte
}

// NewIssuer creates a dev token issuer. Construction is refused outright in
// a production environment; callers should treat that as a fatal startup
// error rather than retrying.
func NewIssuer(config IssuerConfig, secret []byte) (*Issuer, error) {
	if config.Environment == EnvironmentProduction {
		return nil, ErrProductionEnvironment
	}
	if len(secret) == 0 {
		return nil, fmt.Errorf("token: issuer requires a signing secret")
	}
	if config.Issuer == "" || config.Audience == "" {
		return nil, fmt.Errorf("token: issuer requires issuer and audience")
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Issuer{config: config, secret: secret}, nil
}

// Issue signs a token for the given subject carrying the scope set and,
// when non-nil, the tenant credential record.
func (i *Issuer) Issue(subject string, scopes scope.Set, creds *TenantCredentials, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("token: issue requires a subject")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token: issue requires a positive ttl")
	}
	if creds != nil {
		if err := creds.Validate(); err != nil {
			return "", err
		}
	}

	now := i.config.Now()
	claims := jwt.MapClaims{
		"iss":    i.config.Issuer,
		"aud":    i.config.Audience,
		"sub":    subject,
		"iat":    now.Unix(),
		"exp":    now.Add(ttl).Unix(),
		"scopes": scopes.Strings(),
	}
	if creds != nil {
		claims["qc_credentials"] = map[string]any{
			"user_id":         creds.UserID,
			"api_token":       creds.APIToken,
			"organization_id": creds.OrganizationID,
		}
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ledgai/mcpauth/scope"
)

// VerifierConfig configures the token verifier.
type VerifierConfig struct {
	// Issuer is the expected iss claim. Required.
	Issuer string

	// Audience is the expected aud claim. Required.
	Audience string

	// AllowedMethods lists acceptable signing algorithm names.
	// Default: ["HS256"]
	AllowedMethods []string

	// Now supplies the current time. Default: time.Now.
	Now func() time.Time
}

// Verifier validates bearer tokens against the configured key material and
// decodes their payload into Claims.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Purity: Verify is a function of the raw token and the current time;
//     it performs no I/O beyond the key provider and keeps no state.
//   - Errors: every failure maps onto the package sentinels; raw parser
//     failures (bad base64, truncated token) normalize to ErrMalformedClaims.
type Verifier struct {
	config VerifierConfig
	keys   KeyProvider
	parser *jwt.Parser
}

// NewVerifier creates a verifier with the given configuration and keys.
func NewVerifier(config VerifierConfig, keys KeyProvider) *Verifier {
	if len(config.AllowedMethods) == 0 {
		config.AllowedMethods = []string{"HS256"}
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods(config.AllowedMethods),
		jwt.WithTimeFunc(config.Now),
		jwt.WithExpirationRequired(),
	)

	return &Verifier{
		config: config,
		keys:   keys,
		parser: parser,
	}
}

// Verify checks the signature and validity window of a raw token and
// decodes its claims.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty token", ErrMalformedClaims)
	}

	// Expiry is checked before signature verification so that an expired
	// token reports Expired regardless of signature validity.
	if err := v.precheckExpiry(raw); err != nil {
		return nil, err
	}

	parsed, err := v.parser.Parse(raw, func(t *jwt.Token) (any, error) {
		kid := ""
		if kidVal, ok := t.Header["kid"].(string); ok {
			kid = kidVal
		}
		return v.keys.GetKey(ctx, kid)
	})
	if err != nil {
		return nil, normalizeParseError(err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidSignature
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims shape", ErrMalformedClaims)
	}

	return v.decodeClaims(mapClaims)
}

// precheckExpiry decodes the unverified payload and rejects tokens whose
// exp is missing or not strictly in the future.
func (v *Verifier) precheckExpiry(raw string) error {
	unverified := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, unverified); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedClaims, "undecodable token")
	}
	exp, err := unverified.GetExpirationTime()
	if err != nil || exp == nil {
		return fmt.Errorf("%w: missing expiry", ErrMalformedClaims)
	}
	if !v.config.Now().Before(exp.Time) {
		return ErrExpired
	}
	return nil
}

// normalizeParseError maps library errors onto the package taxonomy.
func normalizeParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	default:
		return fmt.Errorf("%w: %s", ErrMalformedClaims, "token rejected")
	}
}

func (v *Verifier) decodeClaims(mc jwt.MapClaims) (*Claims, error) {
	issuer, _ := mc["iss"].(string)
	if issuer == "" || issuer != v.config.Issuer {
		return nil, fmt.Errorf("%w: issuer mismatch", ErrMalformedClaims)
	}

	if !audienceMatches(mc["aud"], v.config.Audience) {
		return nil, fmt.Errorf("%w: audience mismatch", ErrMalformedClaims)
	}

	subject, _ := mc["sub"].(string)
	if subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrMalformedClaims)
	}

	iat, err := mc.GetIssuedAt()
	if err != nil || iat == nil {
		return nil, fmt.Errorf("%w: missing issued-at", ErrMalformedClaims)
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: missing expiry", ErrMalformedClaims)
	}

	scopes, err := decodeScopes(mc["scopes"])
	if err != nil {
		return nil, err
	}

	creds, err := decodeCredentials(mc["qc_credentials"])
	if err != nil {
		return nil, err
	}

	return &Claims{
		Issuer:      issuer,
		Audience:    v.config.Audience,
		Subject:     subject,
		IssuedAt:    iat.Time,
		ExpiresAt:   exp.Time,
		Scopes:      scopes,
		Credentials: creds,
	}, nil
}

func audienceMatches(claim any, expected string) bool {
	switch aud := claim.(type) {
	case string:
		return aud != "" && aud == expected
	case []any:
		for _, a := range aud {
			if s, ok := a.(string); ok && s == expected {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// decodeScopes normalizes the scopes claim to a set. Duplicates collapse;
// scope strings absent from the registry are rejected, not ignored.
func decodeScopes(claim any) (scope.Set, error) {
	if claim == nil {
		return scope.NewSet(), nil
	}
	list, ok := claim.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: scopes claim is not a list", ErrMalformedClaims)
	}

	scopes := make(scope.Set, len(list))
	for _, entry := range list {
		s, ok := entry.(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-string scope entry", ErrMalformedClaims)
		}
		e, ok := scope.Lookup(s)
		if !ok {
			return nil, fmt.Errorf("%w: %q", scope.ErrUnknownScope, s)
		}
		scopes[e.ID] = struct{}{}
	}
	return scopes, nil
}

// decodeCredentials decodes the qc_credentials claim. An entirely absent
// claim yields nil; a present record must carry exactly the three known
// fields, each non-empty.
func decodeCredentials(claim any) (*TenantCredentials, error) {
	if claim == nil {
		return nil, nil
	}
	record, ok := claim.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: tenant credentials claim is not an object", ErrMalformedClaims)
	}

	for key := range record {
		switch key {
		case "user_id", "api_token", "organization_id":
		default:
			return nil, fmt.Errorf("%w: unexpected tenant credential field %q", ErrMalformedClaims, key)
		}
	}

	creds := &TenantCredentials{
		UserID:         credentialString(record["user_id"]),
		APIToken:       credentialString(record["api_token"]),
		OrganizationID: credentialString(record["organization_id"]),
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	return creds, nil
}

// credentialString accepts string fields and numeric user IDs, which some
// token issuers emit as JSON numbers.
func credentialString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}
		return ""
	default:
		return ""
	}
}

package health

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgai/mcpauth/scope"
	"github.com/ledgai/mcpauth/token"
)

// AuthCheckerConfig configures the authorization self-test.
type AuthCheckerConfig struct {
	// Enabled mirrors the runtime auth gate. When false the checker
	// reports degraded, since every request runs in dev mode.
	Enabled bool

	// Secret is the HMAC key shared with the verifier. Empty when key
	// resolution happens via JWKS; the self-test is skipped then.
	Secret []byte

	// Issuer and Audience must match the verifier configuration.
	Issuer   string
	Audience string
}

// AuthChecker verifies the authorization layer end to end by minting a
// short-lived token and running it back through a verifier.
type AuthChecker struct {
	config   AuthCheckerConfig
	issuer   *token.Issuer
	verifier *token.Verifier
}

const selfTestTTL = time.Minute

// NewAuthChecker creates the checker. An error means the signing key or
// verifier configuration is unusable, which callers should surface at
// startup rather than per probe.
func NewAuthChecker(cfg AuthCheckerConfig) (*AuthChecker, error) {
	c := &AuthChecker{config: cfg}

	if len(cfg.Secret) > 0 {
		// Self-test tokens never leave the process, so the issuer is
		// always constructed in a non-production mode.
		issuer, err := token.NewIssuer(token.IssuerConfig{
			Issuer:      cfg.Issuer,
			Audience:    cfg.Audience,
			Environment: "development",
		}, cfg.Secret)
		if err != nil {
			return nil, fmt.Errorf("health: self-test issuer: %w", err)
		}
		c.issuer = issuer
		c.verifier = token.NewVerifier(token.VerifierConfig{
			Issuer:   cfg.Issuer,
			Audience: cfg.Audience,
		}, token.NewStaticKeyProvider(cfg.Secret))
	}

	return c, nil
}

// Name returns the checker name.
func (c *AuthChecker) Name() string {
	return "auth"
}

// Check reports the authorization layer status.
func (c *AuthChecker) Check(ctx context.Context) Result {
	details := map[string]any{
		"enabled": c.config.Enabled,
		"tools":   scope.ToolCount(),
		"scopes":  scope.Count(),
	}

	if !c.config.Enabled {
		return Degraded("authorization disabled, requests run in dev mode").WithDetails(details)
	}

	if c.issuer == nil {
		details["self_test"] = "skipped"
		return Healthy("authorization enabled, remote key verification").WithDetails(details)
	}

	if err := c.selfTest(ctx); err != nil {
		details["self_test"] = "failed"
		return Unhealthy("token self-test failed", err).WithDetails(details)
	}

	details["self_test"] = "ok"
	return Healthy("authorization enabled").WithDetails(details)
}

func (c *AuthChecker) selfTest(ctx context.Context) error {
	const subject = "health-self-test"

	raw, err := c.issuer.Issue(subject, scope.NewSet(scope.AccountRead), nil, selfTestTTL)
	if err != nil {
		return fmt.Errorf("mint: %w", err)
	}

	claims, err := c.verifier.Verify(ctx, raw)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if claims.Subject != subject {
		return fmt.Errorf("subject mismatch: got %q", claims.Subject)
	}
	return nil
}

// Command devtoken mints scoped development tokens and inspects
// existing ones. It refuses to run against a production environment.
//
// Usage:
//
//	devtoken -bundle readonly -subject alice -ttl 1h
//	devtoken -inspect <token>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ledgai/mcpauth/config"
	"github.com/ledgai/mcpauth/scope"
	"github.com/ledgai/mcpauth/token"
)

func main() {
	var (
		bundle    = flag.String("bundle", "readonly", "scope bundle to grant: "+strings.Join(scope.BundleNames(), "|"))
		subject   = flag.String("subject", "dev-local", "token subject")
		ttl       = flag.Duration("ttl", time.Hour, "token lifetime")
		inspect   = flag.String("inspect", "", "validate and print an existing token instead of minting")
		withCreds = flag.Bool("credentials", true, "embed the environment tenant credentials in the token")
	)
	flag.Parse()

	// Missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	if cfg.IsProduction() {
		fatal(fmt.Errorf("refusing to run in a production environment"))
	}

	if *inspect != "" {
		if err := inspectToken(cfg, *inspect); err != nil {
			fatal(err)
		}
		return
	}

	if err := mintToken(cfg, *bundle, *subject, *ttl, *withCreds); err != nil {
		fatal(err)
	}
}

func mintToken(cfg config.Config, bundle, subject string, ttl time.Duration, withCreds bool) error {
	scopes, err := scope.ResolveBundle(bundle)
	if err != nil {
		return err
	}

	issuer, err := token.NewIssuer(token.IssuerConfig{
		Issuer:      cfg.Issuer,
		Audience:    cfg.Audience,
		Environment: string(cfg.Environment),
	}, []byte(cfg.SecretKey))
	if err != nil {
		return err
	}

	var creds *token.TenantCredentials
	if withCreds {
		c := cfg.Fallback
		switch {
		case c.Validate() == nil:
			creds = &c
		case c == (token.TenantCredentials{}):
			fmt.Fprintln(os.Stderr, "devtoken: no environment credentials set, minting without qc_credentials")
		default:
			return fmt.Errorf("environment credentials incomplete: %w", c.Validate())
		}
	}

	raw, err := issuer.Issue(subject, scopes, creds, ttl)
	if err != nil {
		return err
	}

	fmt.Println(raw)
	fmt.Fprintf(os.Stderr, "\nbundle=%s scopes=%d expires=%s\n", bundle, len(scopes), time.Now().Add(ttl).UTC().Format(time.RFC3339))
	fmt.Fprintf(os.Stderr, "example header:\n  Authorization: Bearer %s\n", raw)
	return nil
}

func inspectToken(cfg config.Config, raw string) error {
	verifier := token.NewVerifier(token.VerifierConfig{
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
	}, token.NewStaticKeyProvider([]byte(cfg.SecretKey)))

	claims, err := verifier.Verify(context.Background(), raw)
	if err != nil {
		return fmt.Errorf("token invalid: %w", err)
	}

	out := map[string]any{
		"issuer":     claims.Issuer,
		"audience":   claims.Audience,
		"subject":    claims.Subject,
		"issued_at":  claims.IssuedAt.UTC().Format(time.RFC3339),
		"expires_at": claims.ExpiresAt.UTC().Format(time.RFC3339),
		"scopes":     claims.Scopes.Strings(),
	}
	if claims.Credentials != nil {
		// Never print the API token itself.
		out["credentials"] = map[string]any{
			"user_id":         claims.Credentials.UserID,
			"organization_id": claims.Credentials.OrganizationID,
			"api_token":       "[REDACTED]",
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "devtoken:", err)
	os.Exit(1)
}

package authz

import (
	"context"
	"fmt"

	"github.com/ledgai/mcpauth/audit"
	"github.com/ledgai/mcpauth/scope"
	"github.com/ledgai/mcpauth/token"
)

// BuilderConfig configures authorization context construction.
type BuilderConfig struct {
	// Enabled gates the whole authorization layer. When false every
	// context is a dev-mode context with all scopes granted and fallback
	// credentials; token scope checks are bypassed entirely.
	Enabled bool

	// AllowFallbackCredentials permits tokens without an embedded
	// credential record to use the process-wide fallback credentials.
	AllowFallbackCredentials bool

	// Fallback is the process-wide credential set sourced from the
	// environment at startup. OrganizationID may be empty.
	Fallback token.TenantCredentials

	// DevSubject is the subject assigned to dev-mode contexts.
	// Default: "dev-local".
	DevSubject string
}

// Builder derives authorization contexts from verified claims.
type Builder struct {
	config   BuilderConfig
	recorder audit.Recorder
}

// NewBuilder creates a context builder. A nil recorder disables auditing.
func NewBuilder(config BuilderConfig, recorder audit.Recorder) *Builder {
	if config.DevSubject == "" {
		config.DevSubject = "dev-local"
	}
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &Builder{config: config, recorder: recorder}
}

// Build constructs the per-request authorization context.
//
// With authorization disabled the claims may be nil and are otherwise
// ignored. With authorization enabled the claims must come from a
// successful Verify call.
func (b *Builder) Build(ctx context.Context, claims *token.Claims) (*Context, error) {
	if !b.config.Enabled {
		return b.buildDev(ctx, claims)
	}

	if claims == nil {
		return nil, fmt.Errorf("authz: build requires verified claims")
	}

	creds, err := b.resolveCredentials(claims)
	if err != nil {
		return nil, err
	}

	ac := &Context{
		Subject:     claims.Subject,
		Scopes:      claims.Scopes.Clone(),
		Credentials: creds,
	}
	b.recordBuild(ctx, ac)
	return ac, nil
}

func (b *Builder) buildDev(ctx context.Context, claims *token.Claims) (*Context, error) {
	if !fallbackUsable(b.config.Fallback) {
		return nil, fmt.Errorf("%w: fallback credentials not configured", ErrMissingCredentials)
	}

	subject := b.config.DevSubject
	if claims != nil && claims.Subject != "" {
		subject = claims.Subject
	}

	ac := &Context{
		Subject:     subject,
		Scopes:      scope.All(),
		Credentials: b.config.Fallback,
		DevMode:     true,
	}
	b.recordBuild(ctx, ac)
	return ac, nil
}

// resolveCredentials prefers the token's embedded record. The fallback is
// used only when the record is entirely absent and configuration permits;
// a present-but-invalid record never reaches this point (Verify rejects it).
func (b *Builder) resolveCredentials(claims *token.Claims) (token.TenantCredentials, error) {
	if claims.Credentials != nil {
		if err := claims.Credentials.Validate(); err != nil {
			return token.TenantCredentials{}, err
		}
		return *claims.Credentials, nil
	}
	if b.config.AllowFallbackCredentials && fallbackUsable(b.config.Fallback) {
		return b.config.Fallback, nil
	}
	return token.TenantCredentials{}, fmt.Errorf("%w: token carries no tenant credentials", ErrMissingCredentials)
}

// fallbackUsable checks the environment-sourced credential pair. Unlike
// token-embedded records, the fallback organization ID is optional.
func fallbackUsable(c token.TenantCredentials) bool {
	return c.UserID != "" && c.APIToken != ""
}

func (b *Builder) recordBuild(ctx context.Context, ac *Context) {
	rec := audit.NewRecord(audit.EventContextBuilt)
	rec.Subject = ac.Subject
	rec.DevMode = ac.DevMode
	rec.ScopeCount = len(ac.Scopes)
	b.recorder.Record(ctx, rec)
}

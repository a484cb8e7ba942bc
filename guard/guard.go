package guard

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/ledgai/mcpauth/audit"
	"github.com/ledgai/mcpauth/authz"
	"github.com/ledgai/mcpauth/telemetry"
	"github.com/ledgai/mcpauth/token"
)

// Verifier validates a raw bearer token into claims.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Verify must honor cancellation/deadlines.
// - Errors: failures wrap the token package sentinels.
type Verifier interface {
	Verify(ctx context.Context, raw string) (*token.Claims, error)
}

// Config configures a Guard.
type Config struct {
	// Enabled gates token verification. When false, every request
	// builds a dev-mode context from fallback credentials.
	Enabled bool

	// ExemptMethods bypass the pipeline entirely. Nil selects the
	// protocol handshake defaults.
	ExemptMethods []string
}

// DefaultExemptMethods are protocol-level methods that run before any
// token can exist on the session.
func DefaultExemptMethods() []string {
	return []string{"initialize", "notifications/initialized", "ping"}
}

// Guard runs the full authorization pipeline for tool invocations.
type Guard struct {
	enabled   bool
	verifier  Verifier
	builder   *authz.Builder
	enforcer  *authz.Enforcer
	recorder  audit.Recorder
	decisions telemetry.Decisions
	tracer    trace.Tracer
	exempt    map[string]struct{}
}

// Option customizes a Guard.
type Option func(*Guard)

// WithDecisions attaches decision metrics to the guard.
func WithDecisions(d telemetry.Decisions) Option {
	return func(g *Guard) {
		if d != nil {
			g.decisions = d
		}
	}
}

// WithTracer attaches a tracer for per-invocation spans.
func WithTracer(t trace.Tracer) Option {
	return func(g *Guard) {
		if t != nil {
			g.tracer = t
		}
	}
}

// New creates a Guard. A nil recorder disables auditing of pipeline
// failures; the builder and enforcer keep their own recorders.
func New(cfg Config, verifier Verifier, builder *authz.Builder, enforcer *authz.Enforcer, recorder audit.Recorder, opts ...Option) *Guard {
	exempt := cfg.ExemptMethods
	if exempt == nil {
		exempt = DefaultExemptMethods()
	}
	exemptSet := make(map[string]struct{}, len(exempt))
	for _, m := range exempt {
		exemptSet[m] = struct{}{}
	}

	if recorder == nil {
		recorder = audit.NopRecorder{}
	}

	g := &Guard{
		enabled:   cfg.Enabled,
		verifier:  verifier,
		builder:   builder,
		enforcer:  enforcer,
		recorder:  recorder,
		decisions: telemetry.NopDecisions{},
		tracer:    tracenoop.NewTracerProvider().Tracer("noop"),
		exempt:    exemptSet,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Exempt reports whether a method bypasses authorization.
func (g *Guard) Exempt(method string) bool {
	_, ok := g.exempt[method]
	return ok
}

// Authorize runs verification, context construction, and enforcement
// for one tool invocation. The returned context carries the scopes and
// tenant credentials for the call. Exempt methods return a nil context
// and a nil error.
//
// The pipeline is fail-closed: any stage error denies the request.
func (g *Guard) Authorize(ctx context.Context, rawToken, toolName string) (*authz.Context, error) {
	if g.Exempt(toolName) {
		return nil, nil
	}

	start := time.Now()
	ac, err := g.run(ctx, rawToken, toolName)

	kind := ""
	if err != nil {
		kind, _ = authz.Denial(err)
	}
	devMode := ac != nil && ac.DevMode
	g.decisions.RecordDecision(ctx, toolName, devMode, time.Since(start), kind)

	if err != nil {
		return nil, err
	}
	return ac, nil
}

func (g *Guard) run(ctx context.Context, rawToken, toolName string) (*authz.Context, error) {
	claims, err := g.verify(ctx, rawToken, toolName)
	if err != nil {
		return nil, err
	}

	ac, err := g.builder.Build(ctx, claims)
	if err != nil {
		return nil, g.deny(ctx, rawToken, toolName, err)
	}

	if err := g.enforcer.Authorize(ctx, ac, toolName); err != nil {
		return ac, err
	}
	return ac, nil
}

// verify validates the bearer token when auth is enabled. When auth is
// disabled a present token is still parsed on a best-effort basis so
// the dev context can carry its subject, but failures are ignored.
func (g *Guard) verify(ctx context.Context, rawToken, toolName string) (*token.Claims, error) {
	if !g.enabled {
		if rawToken == "" {
			return nil, nil
		}
		claims, err := g.verifier.Verify(ctx, rawToken)
		if err != nil {
			return nil, nil
		}
		return claims, nil
	}

	claims, err := g.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, g.deny(ctx, rawToken, toolName, err)
	}
	return claims, nil
}

// deny wraps a pipeline failure into a DenialError and audits it. The
// audit record carries a token digest, never the token itself.
func (g *Guard) deny(ctx context.Context, rawToken, toolName string, cause error) error {
	kind, reason := authz.Denial(cause)

	rec := audit.NewRecord(audit.EventDecision)
	rec.Tool = toolName
	rec.Decision = audit.DecisionDeny
	rec.Kind = kind
	if rawToken != "" {
		rec.TokenDigest = token.TokenDigest(rawToken)
	}
	g.recorder.Record(ctx, rec)

	if d, ok := cause.(*authz.DenialError); ok {
		return d
	}
	return &authz.DenialError{
		Tool:   toolName,
		Reason: reason,
		Cause:  cause,
	}
}

// ExecuteFunc is the signature for tool execution functions.
type ExecuteFunc func(ctx context.Context, toolName string, input any) (any, error)

// Wrap decorates a tool executor with the authorization pipeline and a
// tracing span. The bearer token is read from the request context set
// by WithAuthHeaders. On success the downstream context carries the
// authorization context for credential resolution.
func (g *Guard) Wrap(fn ExecuteFunc) ExecuteFunc {
	return func(ctx context.Context, toolName string, input any) (any, error) {
		ctx, span := g.tracer.Start(ctx, "authz.guard."+toolName,
			trace.WithAttributes(attribute.String("tool", toolName)),
		)
		defer span.End()

		ac, err := g.Authorize(ctx, BearerFromContext(ctx), toolName)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "authorization denied")
			return nil, err
		}
		span.SetStatus(codes.Ok, "")

		if ac != nil {
			span.SetAttributes(attribute.Bool("dev_mode", ac.DevMode))
			ctx = authz.WithContext(ctx, ac)
		}
		return fn(ctx, toolName, input)
	}
}

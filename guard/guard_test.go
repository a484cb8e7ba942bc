package guard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ledgai/mcpauth/audit"
	"github.com/ledgai/mcpauth/authz"
	"github.com/ledgai/mcpauth/scope"
	"github.com/ledgai/mcpauth/token"
)

var (
	guardSecret = []byte("guard-test-secret")
	guardNow    = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
)

type captureRecorder struct {
	mu      sync.Mutex
	records []audit.Record
}

func (c *captureRecorder) Record(_ context.Context, rec audit.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
}

func (c *captureRecorder) byEvent(event string) []audit.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []audit.Record
	for _, r := range c.records {
		if r.Event == event {
			out = append(out, r)
		}
	}
	return out
}

type guardFixture struct {
	guard    *Guard
	issuer   *token.Issuer
	recorder *captureRecorder
}

func newGuardFixture(t *testing.T, enabled bool, fallback token.TenantCredentials) *guardFixture {
	t.Helper()

	issuer, err := token.NewIssuer(token.IssuerConfig{
		Issuer:      "ledgai",
		Audience:    "quantconnect-mcp",
		Environment: "development",
		Now:         func() time.Time { return guardNow },
	}, guardSecret)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	verifier := token.NewVerifier(token.VerifierConfig{
		Issuer:   "ledgai",
		Audience: "quantconnect-mcp",
		Now:      func() time.Time { return guardNow },
	}, token.NewStaticKeyProvider(guardSecret))

	recorder := &captureRecorder{}
	builder := authz.NewBuilder(authz.BuilderConfig{
		Enabled:                  enabled,
		AllowFallbackCredentials: fallback.UserID != "",
		Fallback:                 fallback,
	}, recorder)
	enforcer := authz.NewEnforcer(recorder)

	return &guardFixture{
		guard:    New(Config{Enabled: enabled}, verifier, builder, enforcer, recorder),
		issuer:   issuer,
		recorder: recorder,
	}
}

func (f *guardFixture) mint(t *testing.T, scopes scope.Set) string {
	t.Helper()
	creds := &token.TenantCredentials{UserID: "12345", APIToken: "tok", OrganizationID: "org"}
	raw, err := f.issuer.Issue("u1", scopes, creds, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return raw
}

func TestGuard_Authorize_Allow(t *testing.T) {
	f := newGuardFixture(t, true, token.TenantCredentials{})
	raw := f.mint(t, scope.NewSet(scope.ProjectsRead))

	ac, err := f.guard.Authorize(context.Background(), raw, "read_project")
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if ac.Subject != "u1" {
		t.Errorf("subject = %q", ac.Subject)
	}
	if ac.DevMode {
		t.Error("unexpected dev mode")
	}
	if ac.Credentials.UserID != "12345" {
		t.Errorf("credentials user = %q", ac.Credentials.UserID)
	}
}

func TestGuard_Authorize_Denials(t *testing.T) {
	f := newGuardFixture(t, true, token.TenantCredentials{})

	tests := []struct {
		name     string
		rawToken func(t *testing.T) string
		tool     string
		wantErr  error
	}{
		{
			name:     "missing token",
			rawToken: func(t *testing.T) string { return "" },
			tool:     "read_project",
			wantErr:  token.ErrMalformedClaims,
		},
		{
			name:     "garbage token",
			rawToken: func(t *testing.T) string { return "xx.yy.zz" },
			tool:     "read_project",
			wantErr:  token.ErrMalformedClaims,
		},
		{
			name: "insufficient scope",
			rawToken: func(t *testing.T) string {
				return f.mint(t, scope.NewSet(scope.ProjectsRead))
			},
			tool:    "create_backtest",
			wantErr: authz.ErrForbidden,
		},
		{
			name: "unknown tool",
			rawToken: func(t *testing.T) string {
				return f.mint(t, scope.NewSet(scope.ProjectsRead))
			},
			tool:    "mint_money",
			wantErr: scope.ErrUnknownTool,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.guard.Authorize(context.Background(), tt.rawToken(t), tt.tool)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
			var denial *authz.DenialError
			if !errors.As(err, &denial) {
				t.Errorf("error type = %T, want *DenialError", err)
			}
		})
	}
}

func TestGuard_Authorize_ExpiredBeatsSignature(t *testing.T) {
	f := newGuardFixture(t, true, token.TenantCredentials{})

	// Token expired an hour ago, signed with the wrong key.
	otherIssuer, err := token.NewIssuer(token.IssuerConfig{
		Issuer:      "ledgai",
		Audience:    "quantconnect-mcp",
		Environment: "development",
		Now:         func() time.Time { return guardNow.Add(-2 * time.Hour) },
	}, []byte("some-other-secret"))
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	raw, err := otherIssuer.Issue("u1", scope.NewSet(scope.ProjectsRead), nil, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = f.guard.Authorize(context.Background(), raw, "read_project")
	if !errors.Is(err, token.ErrExpired) {
		t.Errorf("got %v, want ErrExpired", err)
	}
}

func TestGuard_Authorize_Exempt(t *testing.T) {
	f := newGuardFixture(t, true, token.TenantCredentials{})

	for _, method := range DefaultExemptMethods() {
		ac, err := f.guard.Authorize(context.Background(), "", method)
		if err != nil {
			t.Errorf("method %q: %v", method, err)
		}
		if ac != nil {
			t.Errorf("method %q: expected nil context", method)
		}
	}
}

func TestGuard_Authorize_Disabled(t *testing.T) {
	fallback := token.TenantCredentials{UserID: "99999", APIToken: "env-tok"}
	f := newGuardFixture(t, false, fallback)

	t.Run("no token required", func(t *testing.T) {
		ac, err := f.guard.Authorize(context.Background(), "", "delete_live_algorithm")
		if err != nil {
			t.Fatalf("Authorize: %v", err)
		}
		if !ac.DevMode {
			t.Error("expected dev mode")
		}
		if ac.Credentials != fallback {
			t.Errorf("credentials = %+v", ac.Credentials)
		}
	})

	t.Run("invalid token tolerated", func(t *testing.T) {
		ac, err := f.guard.Authorize(context.Background(), "broken-token", "read_project")
		if err != nil {
			t.Fatalf("Authorize: %v", err)
		}
		if ac.Subject != "dev-local" {
			t.Errorf("subject = %q, want dev-local", ac.Subject)
		}
	})

	t.Run("valid token subject carried through", func(t *testing.T) {
		raw := f.mint(t, scope.NewSet(scope.ProjectsRead))
		ac, err := f.guard.Authorize(context.Background(), raw, "read_project")
		if err != nil {
			t.Fatalf("Authorize: %v", err)
		}
		if ac.Subject != "u1" {
			t.Errorf("subject = %q, want u1", ac.Subject)
		}
		if !ac.DevMode {
			t.Error("expected dev mode")
		}
	})

	t.Run("unknown tool still denied", func(t *testing.T) {
		_, err := f.guard.Authorize(context.Background(), "", "mint_money")
		if !errors.Is(err, scope.ErrUnknownTool) {
			t.Errorf("got %v, want ErrUnknownTool", err)
		}
	})
}

func TestGuard_AuditsVerificationFailures(t *testing.T) {
	f := newGuardFixture(t, true, token.TenantCredentials{})

	_, err := f.guard.Authorize(context.Background(), "xx.yy.zz", "read_project")
	if err == nil {
		t.Fatal("expected denial")
	}

	decisions := f.recorder.byEvent(audit.EventDecision)
	if len(decisions) == 0 {
		t.Fatal("expected a decision audit record")
	}
	rec := decisions[len(decisions)-1]
	if rec.Decision != audit.DecisionDeny {
		t.Errorf("decision = %q", rec.Decision)
	}
	if rec.Kind != authz.KindMalformedClaims {
		t.Errorf("kind = %q, want %q", rec.Kind, authz.KindMalformedClaims)
	}
	if rec.TokenDigest == "" {
		t.Error("expected a token digest on the record")
	}
	if rec.TokenDigest == "xx.yy.zz" {
		t.Error("record must not carry the raw token")
	}
}

func TestGuard_Wrap(t *testing.T) {
	f := newGuardFixture(t, true, token.TenantCredentials{})
	raw := f.mint(t, scope.NewSet(scope.ProjectsRead))

	var gotSubject string
	fn := f.guard.Wrap(func(ctx context.Context, toolName string, input any) (any, error) {
		gotSubject = authz.SubjectFromContext(ctx)
		return "ok", nil
	})

	ctx := WithHeaders(context.Background(), map[string][]string{
		"Authorization": {"Bearer " + raw},
	})

	out, err := fn(ctx, "read_project", nil)
	if err != nil {
		t.Fatalf("wrapped call: %v", err)
	}
	if out != "ok" {
		t.Errorf("result = %v", out)
	}
	if gotSubject != "u1" {
		t.Errorf("downstream subject = %q, want u1", gotSubject)
	}

	// A denied call never reaches the inner function.
	called := false
	denied := f.guard.Wrap(func(ctx context.Context, toolName string, input any) (any, error) {
		called = true
		return nil, nil
	})
	if _, err := denied(ctx, "delete_project", nil); err == nil {
		t.Fatal("expected denial")
	}
	if called {
		t.Error("inner function ran despite denial")
	}
}

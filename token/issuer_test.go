package token

import (
	"errors"
	"testing"
	"time"

	"github.com/ledgai/mcpauth/scope"
)

func TestNewIssuer(t *testing.T) {
	valid := IssuerConfig{
		Issuer:      "ledgai",
		Audience:    "quantconnect-mcp",
		Environment: "development",
	}

	t.Run("refuses production", func(t *testing.T) {
		cfg := valid
		cfg.Environment = EnvironmentProduction
		_, err := NewIssuer(cfg, testSecret)
		if !errors.Is(err, ErrProductionEnvironment) {
			t.Errorf("expected ErrProductionEnvironment, got %v", err)
		}
	})

	t.Run("requires secret", func(t *testing.T) {
		if _, err := NewIssuer(valid, nil); err == nil {
			t.Error("expected error for empty secret")
		}
	})

	t.Run("requires issuer and audience", func(t *testing.T) {
		cfg := valid
		cfg.Audience = ""
		if _, err := NewIssuer(cfg, testSecret); err == nil {
			t.Error("expected error for empty audience")
		}
	})

	t.Run("accepts development", func(t *testing.T) {
		if _, err := NewIssuer(valid, testSecret); err != nil {
			t.Errorf("NewIssuer: %v", err)
		}
	})
}

func TestIssuer_Issue_Validation(t *testing.T) {
	issuer, err := NewIssuer(IssuerConfig{
		Issuer:      "ledgai",
		Audience:    "quantconnect-mcp",
		Environment: "development",
		Now:         func() time.Time { return testNow },
	}, testSecret)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	scopes := scope.NewSet(scope.ProjectsRead)

	t.Run("requires subject", func(t *testing.T) {
		if _, err := issuer.Issue("", scopes, nil, time.Hour); err == nil {
			t.Error("expected error for empty subject")
		}
	})

	t.Run("requires positive ttl", func(t *testing.T) {
		if _, err := issuer.Issue("u1", scopes, nil, 0); err == nil {
			t.Error("expected error for zero ttl")
		}
	})

	t.Run("rejects partial credentials", func(t *testing.T) {
		creds := &TenantCredentials{UserID: "12345", APIToken: "tok-abc"}
		_, err := issuer.Issue("u1", scopes, creds, time.Hour)
		if !errors.Is(err, ErrMalformedClaims) {
			t.Errorf("expected ErrMalformedClaims, got %v", err)
		}
	})
}

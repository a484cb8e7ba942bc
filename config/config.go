package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ledgai/mcpauth/token"
)

// Environment names the deployment environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Config is the resolved runtime configuration.
type Config struct {
	// Enabled gates the entire authorization layer. When false,
	// requests run in dev mode against fallback credentials.
	Enabled bool

	// SecretKey is the HMAC signing key for token verification.
	// Required when Enabled is true and no JWKS URL is configured.
	SecretKey string

	// Issuer and Audience are matched against token claims exactly.
	Issuer   string
	Audience string

	// AllowFallbackCredentials permits tokens without embedded
	// credentials to fall back to the environment credentials.
	AllowFallbackCredentials bool

	// Fallback holds the environment tenant credentials, if any.
	Fallback token.TenantCredentials

	// Environment is development or production. Dev-only facilities
	// such as token minting refuse to run in production.
	Environment Environment

	// JWKSURL, when set, switches key resolution from the static
	// secret to a remote JWKS document.
	JWKSURL string

	// LogLevel is the minimum audit log level (debug|info|warn|error).
	LogLevel string
}

// Defaults applied when the environment leaves a key unset.
const (
	DefaultIssuer   = "ledgai"
	DefaultAudience = "quantconnect-mcp"
	DefaultLogLevel = "info"
)

// Load reads configuration from the process environment. Every value
// passes through strict ${VAR} expansion before use.
func Load() (Config, error) {
	cfg := Config{
		Enabled:     true,
		Issuer:      DefaultIssuer,
		Audience:    DefaultAudience,
		Environment: EnvDevelopment,
		LogLevel:    DefaultLogLevel,
	}

	var err error
	if cfg.Enabled, err = boolVar("ENABLE_AUTH", true); err != nil {
		return Config{}, err
	}
	if cfg.AllowFallbackCredentials, err = boolVar("ALLOW_FALLBACK_CREDENTIALS", false); err != nil {
		return Config{}, err
	}

	if cfg.SecretKey, err = stringVar("JWT_SECRET_KEY", ""); err != nil {
		return Config{}, err
	}
	if cfg.Issuer, err = stringVar("JWT_ISSUER", DefaultIssuer); err != nil {
		return Config{}, err
	}
	if cfg.Audience, err = stringVar("JWT_AUDIENCE", DefaultAudience); err != nil {
		return Config{}, err
	}
	if cfg.JWKSURL, err = stringVar("JWKS_URL", ""); err != nil {
		return Config{}, err
	}
	if cfg.LogLevel, err = stringVar("LOG_LEVEL", DefaultLogLevel); err != nil {
		return Config{}, err
	}

	env, err := stringVar("MCP_ENVIRONMENT", string(EnvDevelopment))
	if err != nil {
		return Config{}, err
	}
	cfg.Environment = Environment(strings.ToLower(env))

	if cfg.Fallback.UserID, err = stringVar("QUANTCONNECT_USER_ID", ""); err != nil {
		return Config{}, err
	}
	if cfg.Fallback.APIToken, err = stringVar("QUANTCONNECT_API_TOKEN", ""); err != nil {
		return Config{}, err
	}
	if cfg.Fallback.OrganizationID, err = stringVar("QUANTCONNECT_ORGANIZATION_ID", ""); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("unknown environment: %q", c.Environment)
	}

	if c.Enabled && c.SecretKey == "" && c.JWKSURL == "" {
		return errors.New("JWT_SECRET_KEY or JWKS_URL is required when auth is enabled")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.LogLevel)
	}

	return nil
}

// IsProduction reports whether the configuration targets production.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func stringVar(key, fallback string) (string, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	expanded, err := ExpandEnvStrict(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	return expanded, nil
}

func boolVar(key string, fallback bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("%s: expected boolean, got %q", key, raw)
	}
	return v, nil
}

package token

import "errors"

// Sentinel errors for token verification and issuance.
var (
	ErrInvalidSignature = errors.New("token: invalid signature")
	ErrExpired          = errors.New("token: expired")
	ErrMalformedClaims  = errors.New("token: malformed claims")
	ErrKeyNotFound      = errors.New("token: signing key not found")

	// ErrProductionEnvironment is returned by NewIssuer when the process is
	// configured as production. It is a startup-time abort, not a
	// per-request failure.
	ErrProductionEnvironment = errors.New("token: dev issuer refused in production environment")
)

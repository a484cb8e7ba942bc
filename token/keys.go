package token

import "context"

// KeyProvider retrieves signing keys for token verification.
type KeyProvider interface {
	// GetKey returns the verification key for the given key ID.
	GetKey(ctx context.Context, keyID string) (any, error)
}

// StaticKeyProvider provides a fixed HMAC secret.
type StaticKeyProvider struct {
	key []byte
}

// NewStaticKeyProvider creates a static key provider.
func NewStaticKeyProvider(key []byte) *StaticKeyProvider {
	return &StaticKeyProvider{key: key}
}

// GetKey returns the static secret regardless of key ID.
func (p *StaticKeyProvider) GetKey(_ context.Context, _ string) (any, error) {
	return p.key, nil
}

var _ KeyProvider = (*StaticKeyProvider)(nil)

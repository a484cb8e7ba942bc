// Package token verifies and decodes the signed bearer tokens that carry a
// caller's identity, granted scopes, and tenant upstream credentials.
//
// Verification is a pure, bounded, in-memory computation over the raw token
// string and the current time. The signing algorithm is configuration: a
// static HMAC secret or an RSA key set fetched from a JWKS endpoint. The
// package never logs token or credential material; TokenDigest produces a
// truncated hash suitable for audit correlation.
//
// The Issuer mints development tokens for local testing only and refuses to
// construct in an environment marked production.
package token

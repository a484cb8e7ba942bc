// Package health reports the operational status of the authorization
// layer. The AuthChecker proves the signing key works by minting and
// verifying a short-lived token; the Aggregator combines checkers and
// exposes them over the standard liveness/readiness/detail endpoints.
//
// Status semantics:
//   - Healthy: verification is enabled and the self-test round-trips.
//   - Degraded: authorization is disabled, requests run in dev mode.
//   - Unhealthy: the self-test fails with verification enabled.
package health

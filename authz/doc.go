// Package authz derives the per-request authorization context from
// verified token claims and enforces tool scope requirements against it.
//
// A Context is built once per request, is read-only for the remainder of
// request handling, and is never shared across requests. Enforcement is
// pure: the same context and tool name always yield the same decision.
package authz

// Package audit emits the authorization audit trail: one record per
// context build and one per allow/deny decision.
//
// Records carry the subject, the tool, the decision, and the dev-mode
// flag, never raw tokens or credential secrets. The structured logger
// additionally redacts well-known secret field keys.
package audit

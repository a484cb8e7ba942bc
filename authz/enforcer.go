package authz

import (
	"context"
	"strings"

	"github.com/ledgai/mcpauth/audit"
	"github.com/ledgai/mcpauth/scope"
)

// Enforcer decides whether a context may invoke a tool.
//
// The decision is pure and idempotent: repeated calls with the same inputs
// always yield the same verdict. The only side effect is an audit record
// per decision.
type Enforcer struct {
	recorder audit.Recorder
}

// NewEnforcer creates an enforcer. A nil recorder disables auditing.
func NewEnforcer(recorder audit.Recorder) *Enforcer {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &Enforcer{recorder: recorder}
}

// Authorize checks the tool's scope requirement against the context.
//
// A request is authorized when the granted scopes intersect the tool's
// required set (any-of semantics). Unknown tool names are denied, never
// silently allowed, including in dev mode.
func (e *Enforcer) Authorize(ctx context.Context, ac *Context, tool string) error {
	required, err := scope.RequiredScopes(tool)
	if err != nil {
		denial := &DenialError{
			Subject: ac.Subject,
			Tool:    tool,
			Reason:  "unknown tool",
			Cause:   err,
		}
		e.record(ctx, ac, tool, KindUnknownTool)
		return denial
	}

	if !ac.Scopes.Intersects(required) {
		denial := &DenialError{
			Subject: ac.Subject,
			Tool:    tool,
			Reason:  "requires one of: " + strings.Join(required.Strings(), ", "),
			Cause:   ErrForbidden,
		}
		e.record(ctx, ac, tool, KindForbidden)
		return denial
	}

	e.record(ctx, ac, tool, "")
	return nil
}

func (e *Enforcer) record(ctx context.Context, ac *Context, tool, denialKind string) {
	rec := audit.NewRecord(audit.EventDecision)
	rec.Subject = ac.Subject
	rec.Tool = tool
	rec.DevMode = ac.DevMode
	if denialKind == "" {
		rec.Decision = audit.DecisionAllow
	} else {
		rec.Decision = audit.DecisionDeny
		rec.Kind = denialKind
	}
	e.recorder.Record(ctx, rec)
}

package authz

import (
	"context"
	"testing"

	"github.com/ledgai/mcpauth/scope"
)

func TestContextPlumbing(t *testing.T) {
	ac := testContext(scope.ProjectsRead)
	ctx := WithContext(context.Background(), ac)

	if got := FromContext(ctx); got != ac {
		t.Error("FromContext did not return the attached context")
	}
	if got := SubjectFromContext(ctx); got != "u1" {
		t.Errorf("subject = %q, want u1", got)
	}

	empty := context.Background()
	if FromContext(empty) != nil {
		t.Error("FromContext on a bare context must return nil")
	}
	if SubjectFromContext(empty) != "" {
		t.Error("SubjectFromContext on a bare context must return empty")
	}
}

func TestContext_HasScope(t *testing.T) {
	ac := testContext(scope.ProjectsRead, scope.FilesRead)

	if !ac.HasScope(scope.ProjectsRead) {
		t.Error("expected qc:projects:read")
	}
	if ac.HasScope(scope.AdminWrite) {
		t.Error("did not expect qc:admin:write")
	}
}

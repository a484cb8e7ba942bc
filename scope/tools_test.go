package scope

import (
	"errors"
	"testing"
)

func TestRequiredScopes(t *testing.T) {
	tests := []struct {
		name string
		tool string
		want Set
	}{
		{name: "read tool", tool: "read_project", want: NewSet(ProjectsRead)},
		{name: "write tool", tool: "create_backtest", want: NewSet(BacktestsWrite)},
		{name: "delete tool", tool: "delete_live_algorithm", want: NewSet(LiveDelete)},
		{name: "multi-scope tool", tool: "broadcast_live_command", want: NewSet(LiveExecute, AdminWrite)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequiredScopes(tt.tool)
			if err != nil {
				t.Fatalf("RequiredScopes(%q): %v", tt.tool, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d scopes, want %d", len(got), len(tt.want))
			}
			for sc := range tt.want {
				if !got.Has(sc) {
					t.Errorf("missing required scope %q", sc)
				}
			}
		})
	}

	t.Run("unknown tool", func(t *testing.T) {
		_, err := RequiredScopes("mint_money")
		if !errors.Is(err, ErrUnknownTool) {
			t.Errorf("expected ErrUnknownTool, got %v", err)
		}
	})
}

func TestToolScopes_AllRegistered(t *testing.T) {
	for tool, required := range toolScopes {
		if len(required) == 0 {
			t.Errorf("tool %q requires no scopes", tool)
		}
		for _, sc := range required {
			if _, ok := Lookup(string(sc)); !ok {
				t.Errorf("tool %q references unregistered scope %q", tool, sc)
			}
		}
	}
}

func TestKnownTool(t *testing.T) {
	if !KnownTool("read_account") {
		t.Error("read_account should be known")
	}
	if KnownTool("") {
		t.Error("empty tool name should be unknown")
	}
	if KnownTool("READ_ACCOUNT") {
		t.Error("tool names are case-sensitive")
	}
}

func TestTools_SortedAndComplete(t *testing.T) {
	tools := Tools()
	if len(tools) != ToolCount() {
		t.Fatalf("Tools() returned %d names, want %d", len(tools), ToolCount())
	}
	for i := 1; i < len(tools); i++ {
		if tools[i-1] >= tools[i] {
			t.Fatalf("tools not sorted: %q before %q", tools[i-1], tools[i])
		}
	}
}

func BenchmarkSet_Intersects(b *testing.B) {
	granted, _ := ResolveBundle(BundleTrader)
	required, _ := RequiredScopes("create_backtest")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !granted.Intersects(required) {
			b.Fatal("expected intersection")
		}
	}
}

package scope

import (
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantOK bool
	}{
		{name: "known scope", raw: "qc:projects:read", wantOK: true},
		{name: "known admin scope", raw: "qc:admin:write", wantOK: true},
		{name: "unknown action", raw: "qc:projects:fly", wantOK: false},
		{name: "unknown category", raw: "qc:widgets:read", wantOK: false},
		{name: "wrong prefix", raw: "aws:projects:read", wantOK: false},
		{name: "empty string", raw: "", wantOK: false},
		{name: "case sensitive", raw: "QC:PROJECTS:READ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := Lookup(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && string(entry.ID) != tt.raw {
				t.Errorf("entry ID = %q, want %q", entry.ID, tt.raw)
			}
		})
	}
}

func TestRegistry_EntriesComplete(t *testing.T) {
	for id, entry := range registry {
		if entry.Description == "" {
			t.Errorf("scope %q has no description", id)
		}
		if entry.Category == "" {
			t.Errorf("scope %q has no category", id)
		}
		if !strings.HasPrefix(string(id), "qc:"+string(entry.Category)+":") {
			t.Errorf("scope %q does not match its category %q", id, entry.Category)
		}
	}
}

func TestAll_ReturnsFreshSet(t *testing.T) {
	a := All()
	b := All()

	if len(a) != Count() {
		t.Fatalf("All() has %d scopes, want %d", len(a), Count())
	}

	delete(a, ProjectsRead)
	if !b.Has(ProjectsRead) {
		t.Error("mutating one All() result must not affect another")
	}
}

func TestInCategory(t *testing.T) {
	live := InCategory(CategoryLive)

	want := NewSet(LiveRead, LiveWrite, LiveExecute, LiveDelete)
	if len(live) != len(want) {
		t.Fatalf("live category has %d scopes, want %d", len(live), len(want))
	}
	for sc := range want {
		if !live.Has(sc) {
			t.Errorf("live category missing %q", sc)
		}
	}
}

package scope

import (
	"errors"
	"testing"
)

func TestResolveBundle(t *testing.T) {
	t.Run("readonly excludes writes", func(t *testing.T) {
		s, err := ResolveBundle(BundleReadonly)
		if err != nil {
			t.Fatalf("ResolveBundle: %v", err)
		}
		if !s.Has(ProjectsRead) {
			t.Error("readonly should grant qc:projects:read")
		}
		for sc := range s {
			if s := string(sc); !hasReadonlySuffix(s) {
				t.Errorf("readonly bundle grants non-read scope %q", sc)
			}
		}
	})

	t.Run("trader grants live execute but not delete", func(t *testing.T) {
		s, err := ResolveBundle(BundleTrader)
		if err != nil {
			t.Fatalf("ResolveBundle: %v", err)
		}
		if !s.Has(LiveExecute) {
			t.Error("trader should grant qc:live:execute")
		}
		if s.Has(LiveDelete) {
			t.Error("trader should not grant qc:live:delete")
		}
		if s.Has(AdminWrite) {
			t.Error("trader should not grant qc:admin:write")
		}
	})

	t.Run("admin covers full catalogue", func(t *testing.T) {
		s, err := ResolveBundle(BundleAdmin)
		if err != nil {
			t.Fatalf("ResolveBundle: %v", err)
		}
		if len(s) != Count() {
			t.Errorf("admin bundle has %d scopes, want %d", len(s), Count())
		}
		if !s.Has(LiveDelete) {
			t.Error("admin should grant qc:live:delete")
		}
		if !s.Has(AdminWrite) {
			t.Error("admin should grant qc:admin:write")
		}
	})

	t.Run("admin set is a copy", func(t *testing.T) {
		a, _ := ResolveBundle(BundleAdmin)
		delete(a, LiveDelete)

		b, _ := ResolveBundle(BundleAdmin)
		if !b.Has(LiveDelete) {
			t.Error("mutating a resolved admin bundle must not affect the catalogue")
		}
	})

	t.Run("unknown bundle", func(t *testing.T) {
		_, err := ResolveBundle("superuser")
		if !errors.Is(err, ErrUnknownBundle) {
			t.Errorf("expected ErrUnknownBundle, got %v", err)
		}
	})

	t.Run("returned set is a copy", func(t *testing.T) {
		a, _ := ResolveBundle(BundleReadonly)
		delete(a, ProjectsRead)

		b, _ := ResolveBundle(BundleReadonly)
		if !b.Has(ProjectsRead) {
			t.Error("mutating a resolved bundle must not affect the catalogue")
		}
	})
}

func hasReadonlySuffix(s string) bool {
	const suffix = ":read"
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

func TestBundleNames(t *testing.T) {
	names := BundleNames()
	want := []string{BundleAdmin, BundleReadonly, BundleTrader}
	if len(names) != len(want) {
		t.Fatalf("got %d bundles, want %d", len(names), len(want))
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("names[%d] = %q, want %q", i, names[i], n)
		}
	}
}

package scope

import (
	"fmt"
	"sort"
)

// Bundle names.
const (
	BundleReadonly = "readonly"
	BundleTrader   = "trader"
	BundleAdmin    = "admin"
)

// bundles maps bundle names to their expanded scope sets. The admin bundle
// is not listed here: it is the closure over the full catalogue, and the
// catalogue is registered in init functions that run after this map literal
// is evaluated, so admin expands at resolve time instead.
var bundles = map[string]Set{
	BundleReadonly: NewSet(
		AccountRead,
		ProjectsRead,
		FilesRead,
		BacktestsRead,
		OptimizationsRead,
		LiveRead,
		ObjectsRead,
		AIRead,
		CollaborationRead,
	),
	BundleTrader: NewSet(
		AccountRead,
		ProjectsRead,
		ProjectsWrite,
		FilesRead,
		FilesWrite,
		CompileExecute,
		BacktestsRead,
		BacktestsWrite,
		OptimizationsRead,
		OptimizationsWrite,
		LiveRead,
		LiveWrite,
		LiveExecute,
		ObjectsRead,
		ObjectsWrite,
		AIRead,
		AIExecute,
	),
}

// ResolveBundle returns the scope set for a named bundle.
// The returned set is a copy; callers may mutate it freely.
func ResolveBundle(name string) (Set, error) {
	if name == BundleAdmin {
		return All(), nil
	}
	b, ok := bundles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBundle, name)
	}
	return b.Clone(), nil
}

// BundleNames returns all bundle names in lexical order.
func BundleNames() []string {
	names := make([]string, 0, len(bundles)+1)
	names = append(names, BundleAdmin)
	for name := range bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

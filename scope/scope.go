package scope

import "sort"

// Scope is a named permission unit of the form "qc:<category>:<action>".
type Scope string

// Category groups scopes by the resource they govern.
type Category string

// Resource categories.
const (
	CategoryAccount       Category = "account"
	CategoryProjects      Category = "projects"
	CategoryFiles         Category = "files"
	CategoryCompile       Category = "compile"
	CategoryBacktests     Category = "backtests"
	CategoryOptimizations Category = "optimizations"
	CategoryLive          Category = "live"
	CategoryObjects       Category = "objects"
	CategoryAI            Category = "ai"
	CategoryCollaboration Category = "collaboration"
	CategoryAdmin         Category = "admin"
)

// The closed scope catalogue. Not every category has every action: compile
// only supports execute, account only supports read.
const (
	AccountRead Scope = "qc:account:read"

	ProjectsRead   Scope = "qc:projects:read"
	ProjectsWrite  Scope = "qc:projects:write"
	ProjectsDelete Scope = "qc:projects:delete"

	FilesRead   Scope = "qc:files:read"
	FilesWrite  Scope = "qc:files:write"
	FilesDelete Scope = "qc:files:delete"

	CompileExecute Scope = "qc:compile:execute"

	BacktestsRead   Scope = "qc:backtests:read"
	BacktestsWrite  Scope = "qc:backtests:write"
	BacktestsDelete Scope = "qc:backtests:delete"

	OptimizationsRead   Scope = "qc:optimizations:read"
	OptimizationsWrite  Scope = "qc:optimizations:write"
	OptimizationsDelete Scope = "qc:optimizations:delete"

	LiveRead    Scope = "qc:live:read"
	LiveWrite   Scope = "qc:live:write"
	LiveExecute Scope = "qc:live:execute"
	LiveDelete  Scope = "qc:live:delete"

	ObjectsRead   Scope = "qc:objects:read"
	ObjectsWrite  Scope = "qc:objects:write"
	ObjectsDelete Scope = "qc:objects:delete"

	AIRead    Scope = "qc:ai:read"
	AIExecute Scope = "qc:ai:execute"

	CollaborationRead   Scope = "qc:collaboration:read"
	CollaborationWrite  Scope = "qc:collaboration:write"
	CollaborationDelete Scope = "qc:collaboration:delete"

	AdminRead  Scope = "qc:admin:read"
	AdminWrite Scope = "qc:admin:write"
)

// Set is an unordered collection of scopes.
type Set map[Scope]struct{}

// NewSet creates a set from the given scopes. Duplicates collapse.
func NewSet(scopes ...Scope) Set {
	s := make(Set, len(scopes))
	for _, sc := range scopes {
		s[sc] = struct{}{}
	}
	return s
}

// Has reports whether the set contains the scope.
func (s Set) Has(sc Scope) bool {
	_, ok := s[sc]
	return ok
}

// Intersects reports whether the two sets share at least one scope.
func (s Set) Intersects(other Set) bool {
	// Iterate over the smaller set.
	small, large := s, other
	if len(other) < len(s) {
		small, large = other, s
	}
	for sc := range small {
		if _, ok := large[sc]; ok {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for sc := range s {
		out[sc] = struct{}{}
	}
	return out
}

// Sorted returns the scopes in lexical order.
func (s Set) Sorted() []Scope {
	out := make([]Scope, 0, len(s))
	for sc := range s {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the sorted scope identifiers as plain strings.
func (s Set) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, sc := range sorted {
		out[i] = string(sc)
	}
	return out
}

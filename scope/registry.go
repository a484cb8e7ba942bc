package scope

import "fmt"

// Entry describes a single registry scope.
type Entry struct {
	// ID is the scope identifier.
	ID Scope

	// Category is the resource category the scope belongs to.
	Category Category

	// Description is a short human-readable summary.
	Description string
}

// registry is the process-wide scope catalogue, keyed by identifier.
// Populated once below; never mutated afterwards.
var registry = map[Scope]Entry{}

func register(id Scope, category Category, description string) {
	if _, exists := registry[id]; exists {
		panic(fmt.Sprintf("scope: duplicate registration of %q", id))
	}
	registry[id] = Entry{ID: id, Category: category, Description: description}
}

func init() {
	register(AccountRead, CategoryAccount, "read organization and account details")

	register(ProjectsRead, CategoryProjects, "read and list projects")
	register(ProjectsWrite, CategoryProjects, "create and update projects")
	register(ProjectsDelete, CategoryProjects, "delete projects")

	register(FilesRead, CategoryFiles, "read project files")
	register(FilesWrite, CategoryFiles, "create and update project files")
	register(FilesDelete, CategoryFiles, "delete project files")

	register(CompileExecute, CategoryCompile, "trigger project compilation")

	register(BacktestsRead, CategoryBacktests, "read backtests, charts, orders and insights")
	register(BacktestsWrite, CategoryBacktests, "create and update backtests")
	register(BacktestsDelete, CategoryBacktests, "delete backtests")

	register(OptimizationsRead, CategoryOptimizations, "read and estimate optimizations")
	register(OptimizationsWrite, CategoryOptimizations, "create, update and abort optimizations")
	register(OptimizationsDelete, CategoryOptimizations, "delete optimizations")

	register(LiveRead, CategoryLive, "read live algorithms, portfolios, orders and logs")
	register(LiveWrite, CategoryLive, "deploy live algorithms and authorize brokerage connections")
	register(LiveExecute, CategoryLive, "stop, liquidate and command live algorithms")
	register(LiveDelete, CategoryLive, "delete live algorithms")

	register(ObjectsRead, CategoryObjects, "read object store entries")
	register(ObjectsWrite, CategoryObjects, "upload object store entries")
	register(ObjectsDelete, CategoryObjects, "delete object store entries")

	register(AIRead, CategoryAI, "search platform documentation")
	register(AIExecute, CategoryAI, "run AI code assistance")

	register(CollaborationRead, CategoryCollaboration, "read project collaborators")
	register(CollaborationWrite, CategoryCollaboration, "add and update project collaborators")
	register(CollaborationDelete, CategoryCollaboration, "remove project collaborators")

	register(AdminRead, CategoryAdmin, "read platform and server version information")
	register(AdminWrite, CategoryAdmin, "broadcast administrative commands")
}

// Lookup returns the registry entry for a raw scope identifier.
func Lookup(raw string) (Entry, bool) {
	e, ok := registry[Scope(raw)]
	return e, ok
}

// All returns the full scope catalogue as a fresh set.
func All() Set {
	s := make(Set, len(registry))
	for id := range registry {
		s[id] = struct{}{}
	}
	return s
}

// InCategory returns all scopes belonging to the given category.
func InCategory(c Category) Set {
	s := make(Set)
	for id, e := range registry {
		if e.Category == c {
			s[id] = struct{}{}
		}
	}
	return s
}

// Count returns the number of registered scopes.
func Count() int {
	return len(registry)
}

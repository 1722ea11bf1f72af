package order

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ordrect/ordrect/pkg/rect"
)

// ConflictReport describes why no consistent order exists. It is a first-class
// result value, not an error: an unresolvable constraint set is an expected,
// actionable outcome, and the caller needs the exact conflict set to repair
// the input.
//
// Reports are deterministic: the same graph always produces the same report.
type ConflictReport struct {
	// Nodes lists every rectangle involved in a cycle, in ascending ID order.
	Nodes []rect.ID `json:"nodes"`

	// Groups partitions Nodes into strongly connected components. Each group
	// is sorted by ID; groups are sorted by their first member.
	Groups [][]rect.ID `json:"groups"`

	// Cycle is one exemplar cycle as a sequence of constraint edges. The
	// first edge starts at the same identifier the last edge ends at.
	Cycle []Constraint `json:"cycle"`
}

// String formats the report as a single line, e.g.
// "cycle detected among [a b c]: a→b → b→c → c→a".
func (r *ConflictReport) String() string {
	parts := make([]string, len(r.Cycle))
	for i, c := range r.Cycle {
		parts[i] = c.String()
	}
	return fmt.Sprintf("cycle detected among %v: %s", r.Nodes, strings.Join(parts, " → "))
}

// newConflictReport identifies the minimal node sets involved in cycles via
// Tarjan's strongly-connected-component algorithm and extracts one exemplar
// cycle from the first cyclic component. All traversal runs over sorted node
// and successor sets, so the report is reproducible run to run.
func newConflictReport(g *Graph) *ConflictReport {
	sccs := cyclicComponents(g)

	report := &ConflictReport{Groups: sccs}
	for _, scc := range sccs {
		report.Nodes = append(report.Nodes, scc...)
	}
	slices.Sort(report.Nodes)

	if len(sccs) > 0 {
		report.Cycle = exemplarCycle(g, sccs[0])
	}
	return report
}

// cyclicComponents returns the strongly connected components that contain a
// cycle (size > 1; self-constraints are rejected at build time, so single-node
// components are always acyclic). Components and their members are sorted.
func cyclicComponents(g *Graph) [][]rect.ID {
	var (
		index    int
		stack    []rect.ID
		onStack  = make(map[rect.ID]bool)
		indices  = make(map[rect.ID]int)
		lowlinks = make(map[rect.ID]int)
		result   [][]rect.ID
	)

	var strongConnect func(v rect.ID)
	strongConnect = func(v rect.ID) {
		indices[v] = index
		lowlinks[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.Successors(v) {
			if _, seen := indices[w]; !seen {
				strongConnect(w)
				lowlinks[v] = min(lowlinks[v], lowlinks[w])
			} else if onStack[w] {
				lowlinks[v] = min(lowlinks[v], indices[w])
			}
		}

		if lowlinks[v] == indices[v] {
			var scc []rect.ID
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			if len(scc) > 1 {
				slices.Sort(scc)
				result = append(result, scc)
			}
		}
	}

	for _, id := range g.IDs() {
		if _, seen := indices[id]; !seen {
			strongConnect(id)
		}
	}

	slices.SortFunc(result, func(a, b []rect.ID) int {
		return strings.Compare(string(a[0]), string(b[0]))
	})
	return result
}

// exemplarCycle walks one representative cycle through the component,
// starting and ending at its smallest identifier. Successors are tried in
// ascending order, so the walk is deterministic.
func exemplarCycle(g *Graph, scc []rect.ID) []Constraint {
	members := make(map[rect.ID]bool, len(scc))
	for _, id := range scc {
		members[id] = true
	}
	start := scc[0]

	// DFS for a path start → ... → start confined to the component. Strong
	// connectivity guarantees one exists.
	visited := map[rect.ID]bool{}
	var path []Constraint

	var walk func(v rect.ID) bool
	walk = func(v rect.ID) bool {
		for _, w := range g.Successors(v) {
			if !members[w] {
				continue
			}
			if w == start {
				path = append(path, Constraint{Before: v, After: w})
				return true
			}
			if visited[w] {
				continue
			}
			visited[w] = true
			path = append(path, Constraint{Before: v, After: w})
			if walk(w) {
				return true
			}
			path = path[:len(path)-1]
		}
		return false
	}

	visited[start] = true
	walk(start)
	return path
}

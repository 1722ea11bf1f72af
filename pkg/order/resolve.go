package order

import (
	"slices"
	"strings"

	"github.com/ordrect/ordrect/pkg/rect"
)

// Comparator is a total order over rectangle identifiers, used to break ties
// among ready nodes during resolution. It returns a negative value when a
// sorts before b, zero when equal, positive otherwise. The comparator is
// applied consistently across the whole run, so any total order yields a
// deterministic result.
type Comparator func(a, b rect.ID) int

// ByID is the default comparator: ascending identifier.
func ByID(a, b rect.ID) int { return strings.Compare(string(a), string(b)) }

// ResolveOption configures a resolution run.
type ResolveOption func(*resolveConfig)

type resolveConfig struct {
	cmp Comparator
}

// WithComparator replaces the default ascending-ID tie-break.
// The comparator must be a total order; equal verdicts fall back to ID order
// so the run stays deterministic.
func WithComparator(cmp Comparator) ResolveOption {
	return func(c *resolveConfig) { c.cmp = cmp }
}

// Resolve performs a deterministic topological sort over the constraint graph.
//
// Exactly one of the two results is non-nil: either a total order over all
// rectangle identifiers (index 0 = earliest/bottom-most), or a
// [ConflictReport] describing the cycle that makes the input unsatisfiable.
// A partial order is never returned.
//
// Given the same graph and comparator, repeated calls produce identical
// output: ready-set ties are broken by the comparator (default ascending ID)
// and all internal iteration runs over sorted node and edge sets, never over
// raw map order.
func Resolve(g *Graph, opts ...ResolveOption) ([]rect.ID, *ConflictReport) {
	cfg := resolveConfig{cmp: ByID}
	for _, opt := range opts {
		opt(&cfg)
	}
	cmp := func(a, b rect.ID) int {
		if v := cfg.cmp(a, b); v != 0 {
			return v
		}
		return ByID(a, b)
	}

	inDegree := make(map[rect.ID]int, g.NodeCount())
	ready := make([]rect.ID, 0, g.NodeCount())
	for _, id := range g.IDs() {
		inDegree[id] = g.InDegree(id)
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}
	slices.SortFunc(ready, cmp)

	out := make([]rect.ID, 0, g.NodeCount())
	for len(ready) > 0 {
		curr := ready[0]
		ready = ready[1:]
		out = append(out, curr)

		for _, succ := range g.Successors(curr) {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				pos, _ := slices.BinarySearchFunc(ready, succ, cmp)
				ready = slices.Insert(ready, pos, succ)
			}
		}
	}

	if len(out) < g.NodeCount() {
		return nil, newConflictReport(g)
	}
	return out, nil
}

// Package order builds constraint graphs over rectangle collections and
// resolves them into deterministic linear orders.
//
// The package has two halves. [Build] assembles a fresh [Graph] from
// rectangles and pairwise "before" constraints, rejecting structural problems
// (duplicate identifiers, directly contradictory assertions) immediately.
// [Resolve] then performs a deterministic topological sort over the graph and
// either returns a total order or a structured [ConflictReport] naming the
// rectangles involved in a cycle.
//
// Ordering semantics: a constraint (A before B) places A earlier in the
// resolved sequence. Index 0 is the earliest position — for stacking
// interpretations, the bottom-most rectangle. The package itself attaches no
// further spatial meaning to "before"; that is the caller's contract.
package order

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/ordrect/ordrect/pkg/rect"
)

var (
	// ErrInvalidRectangleID is returned by [Build] when an item carries an
	// empty identifier. All rectangles must have non-empty IDs.
	ErrInvalidRectangleID = errors.New("rectangle ID must not be empty")

	// ErrDuplicateRectangle is returned by [Build] when two items share an
	// identifier. Rectangle IDs must be unique within a graph.
	ErrDuplicateRectangle = errors.New("duplicate rectangle ID")

	// ErrUnknownRectangle is returned by [Build] when a constraint references
	// an identifier that is not in the rectangle set.
	ErrUnknownRectangle = errors.New("unknown rectangle ID")

	// ErrSelfConstraint is returned by [Build] when a constraint orders a
	// rectangle relative to itself.
	ErrSelfConstraint = errors.New("constraint must reference two distinct rectangles")

	// ErrConflictingConstraint is returned by [Build] when both (A before B)
	// and (B before A) are asserted. Direct contradictions are structural
	// conflicts caught at build time, not deferred to the resolver.
	ErrConflictingConstraint = errors.New("conflicting constraint")
)

// Constraint is a directed "before" assertion between two rectangle
// identifiers: Before must appear earlier in the resolved order than After.
type Constraint struct {
	Before rect.ID `json:"before"`
	After  rect.ID `json:"after"`
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s→%s", c.Before, c.After)
}

// Item pairs a rectangle with its identifier for graph construction.
type Item struct {
	ID   rect.ID
	Rect rect.Rectangle
}

// BuildOption configures graph construction.
type BuildOption func(*buildConfig)

type buildConfig struct {
	disjointEdges    bool
	inferContainment bool
}

// WithDisjointEdges keeps constraints between spatially disjoint rectangles
// as graph edges. By default such constraints are accepted but carry no
// semantic weight, so they do not create edges.
func WithDisjointEdges() BuildOption {
	return func(c *buildConfig) { c.disjointEdges = true }
}

// WithContainmentInference adds an inferred edge container→contained for every
// containment pair, so contained rectangles resolve later (on top of their
// container). Inference never overrides an explicit constraint: when the
// caller asserted the opposite direction, no inferred edge is added.
func WithContainmentInference() BuildOption {
	return func(c *buildConfig) { c.inferContainment = true }
}

// Graph is a directed constraint graph over rectangle identifiers.
// A Graph is a fresh value owned by a single resolution run: it is never
// mutated after [Build] returns, so concurrent reads are safe.
type Graph struct {
	rects    map[rect.ID]rect.Rectangle
	ids      []rect.ID // sorted
	outgoing map[rect.ID][]rect.ID
	incoming map[rect.ID][]rect.ID
	edges    []Constraint
}

// Build assembles a constraint graph from rectangles and caller-asserted
// constraints.
//
// Duplicate constraints are de-duplicated. Constraints between disjoint
// rectangles are dropped unless [WithDisjointEdges] is set. Returns
// [ErrDuplicateRectangle], [ErrUnknownRectangle], [ErrSelfConstraint] or
// [ErrConflictingConstraint] for structurally invalid input; transitive
// contradictions are left for [Resolve] to detect.
func Build(items []Item, constraints []Constraint, opts ...BuildOption) (*Graph, error) {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	g := &Graph{
		rects:    make(map[rect.ID]rect.Rectangle, len(items)),
		outgoing: make(map[rect.ID][]rect.ID),
		incoming: make(map[rect.ID][]rect.ID),
	}

	for _, it := range items {
		if it.ID == "" {
			return nil, ErrInvalidRectangleID
		}
		if _, exists := g.rects[it.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRectangle, it.ID)
		}
		g.rects[it.ID] = it.Rect
	}
	g.ids = slices.Sorted(maps.Keys(g.rects))

	// Direct contradictions are checked against the full asserted set, before
	// any overlap gating: (A,B) plus (B,A) is invalid even for disjoint pairs.
	asserted := make(map[Constraint]bool, len(constraints))
	for _, c := range constraints {
		if c.Before == c.After {
			return nil, fmt.Errorf("%w: %s", ErrSelfConstraint, c.Before)
		}
		if _, ok := g.rects[c.Before]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRectangle, c.Before)
		}
		if _, ok := g.rects[c.After]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRectangle, c.After)
		}
		if asserted[Constraint{Before: c.After, After: c.Before}] {
			return nil, fmt.Errorf("%w: both %s and %s asserted", ErrConflictingConstraint, Constraint{Before: c.After, After: c.Before}, c)
		}
		asserted[c] = true
	}

	seen := make(map[Constraint]bool, len(constraints))
	for _, c := range constraints {
		if seen[c] {
			continue
		}
		seen[c] = true
		if !cfg.disjointEdges && rect.Overlap(g.rects[c.Before], g.rects[c.After]) == rect.Disjoint {
			continue
		}
		g.addEdge(c)
	}

	if cfg.inferContainment {
		g.inferContainment(seen)
	}

	for id := range g.outgoing {
		slices.Sort(g.outgoing[id])
	}
	for id := range g.incoming {
		slices.Sort(g.incoming[id])
	}
	return g, nil
}

func (g *Graph) addEdge(c Constraint) {
	g.edges = append(g.edges, c)
	g.outgoing[c.Before] = append(g.outgoing[c.Before], c.After)
	g.incoming[c.After] = append(g.incoming[c.After], c.Before)
}

// inferContainment adds container→contained edges for every containment pair
// not already covered by an explicit constraint in either direction.
func (g *Graph) inferContainment(seen map[Constraint]bool) {
	for i, a := range g.ids {
		for _, b := range g.ids[i+1:] {
			var c Constraint
			switch rect.Overlap(g.rects[a], g.rects[b]) {
			case rect.Contains:
				c = Constraint{Before: a, After: b}
			case rect.ContainedBy:
				c = Constraint{Before: b, After: a}
			default:
				continue
			}
			if seen[c] || seen[Constraint{Before: c.After, After: c.Before}] {
				continue
			}
			seen[c] = true
			g.addEdge(c)
		}
	}
}

// NodeCount returns the number of rectangles in the graph.
func (g *Graph) NodeCount() int { return len(g.ids) }

// EdgeCount returns the number of constraint edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// IDs returns all rectangle identifiers in ascending order.
// The returned slice is shared; treat it as read-only.
func (g *Graph) IDs() []rect.ID { return g.ids }

// Edges returns a copy of all constraint edges in insertion order.
func (g *Graph) Edges() []Constraint { return slices.Clone(g.edges) }

// Successors returns the identifiers this rectangle must precede, in
// ascending order. Treat the returned slice as read-only.
func (g *Graph) Successors(id rect.ID) []rect.ID { return g.outgoing[id] }

// Predecessors returns the identifiers that must precede this rectangle, in
// ascending order. Treat the returned slice as read-only.
func (g *Graph) Predecessors(id rect.ID) []rect.ID { return g.incoming[id] }

// InDegree returns the number of constraints targeting the rectangle.
func (g *Graph) InDegree(id rect.ID) int { return len(g.incoming[id]) }

// Rect returns the rectangle for the given identifier and true, or the zero
// rectangle and false when the identifier is unknown.
func (g *Graph) Rect(id rect.ID) (rect.Rectangle, bool) {
	r, ok := g.rects[id]
	return r, ok
}

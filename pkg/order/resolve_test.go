package order

import (
	"slices"
	"testing"

	"github.com/ordrect/ordrect/pkg/rect"
)

func mustBuild(t *testing.T, items []Item, constraints []Constraint, opts ...BuildOption) *Graph {
	t.Helper()
	g, err := Build(items, constraints, opts...)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return g
}

func TestResolveSimple(t *testing.T) {
	g := mustBuild(t,
		[]Item{item("a", 0, 0, 10, 10), item("b", 5, 5, 15, 15)},
		[]Constraint{{Before: "a", After: "b"}},
	)

	got, conflict := Resolve(g)
	if conflict != nil {
		t.Fatalf("Resolve() conflict: %v", conflict)
	}
	want := []rect.ID{"a", "b"}
	if !slices.Equal(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

// With no constraints, disjoint rectangles resolve to ascending ID order.
func TestResolveNoConstraints(t *testing.T) {
	g := mustBuild(t, []Item{
		item("r3", 100, 100, 110, 110),
		item("r1", 0, 0, 10, 10),
		item("r2", 50, 50, 60, 60),
	}, nil)

	got, conflict := Resolve(g)
	if conflict != nil {
		t.Fatalf("Resolve() conflict: %v", conflict)
	}
	want := []rect.ID{"r1", "r2", "r3"}
	if !slices.Equal(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

// Every returned order must be a valid linearization: each constraint's
// Before appears at a lower index than its After.
func TestResolveIsLinearization(t *testing.T) {
	items := []Item{
		item("a", 0, 0, 10, 10),
		item("b", 5, 5, 15, 15),
		item("c", 8, 8, 20, 20),
		item("d", 0, 5, 12, 18),
		item("e", 4, 0, 16, 9),
	}
	constraints := []Constraint{
		{Before: "c", After: "a"},
		{Before: "c", After: "b"},
		{Before: "e", After: "d"},
		{Before: "b", After: "e"},
	}
	g := mustBuild(t, items, constraints)

	got, conflict := Resolve(g)
	if conflict != nil {
		t.Fatalf("Resolve() conflict: %v", conflict)
	}
	pos := make(map[rect.ID]int, len(got))
	for i, id := range got {
		pos[id] = i
	}
	for _, c := range constraints {
		if pos[c.Before] >= pos[c.After] {
			t.Errorf("constraint %v violated in %v", c, got)
		}
	}
}

func TestResolveDeterministic(t *testing.T) {
	items := []Item{
		item("d", 0, 0, 10, 10),
		item("b", 2, 2, 12, 12),
		item("c", 4, 4, 14, 14),
		item("a", 6, 6, 16, 16),
	}
	g := mustBuild(t, items, []Constraint{{Before: "d", After: "b"}})

	first, conflict := Resolve(g)
	if conflict != nil {
		t.Fatalf("Resolve() conflict: %v", conflict)
	}
	for i := 0; i < 20; i++ {
		again, _ := Resolve(g)
		if !slices.Equal(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, again, first)
		}
	}
}

func TestResolveComparator(t *testing.T) {
	// Areas: big=400, mid=100, tiny=4. All overlap; no constraints.
	items := []Item{
		item("big", 0, 0, 20, 20),
		item("mid", 5, 5, 15, 15),
		item("tiny", 9, 9, 11, 11),
	}
	g := mustBuild(t, items, nil)

	areas := map[rect.ID]float64{}
	for _, it := range items {
		areas[it.ID] = it.Rect.Area()
	}
	byArea := func(a, b rect.ID) int {
		switch {
		case areas[a] < areas[b]:
			return -1
		case areas[a] > areas[b]:
			return 1
		}
		return 0
	}

	got, conflict := Resolve(g, WithComparator(byArea))
	if conflict != nil {
		t.Fatalf("Resolve() conflict: %v", conflict)
	}
	want := []rect.ID{"tiny", "mid", "big"}
	if !slices.Equal(got, want) {
		t.Errorf("Resolve(byArea) = %v, want %v", got, want)
	}
}

func TestResolveCycle(t *testing.T) {
	g := mustBuild(t, overlappingItems(), []Constraint{
		{Before: "a", After: "b"},
		{Before: "b", After: "c"},
		{Before: "c", After: "a"},
	})

	got, conflict := Resolve(g)
	if got != nil {
		t.Fatalf("Resolve() = %v, want nil order", got)
	}
	if conflict == nil {
		t.Fatal("Resolve() returned no conflict for a cyclic graph")
	}

	wantNodes := []rect.ID{"a", "b", "c"}
	if !slices.Equal(conflict.Nodes, wantNodes) {
		t.Errorf("Nodes = %v, want %v", conflict.Nodes, wantNodes)
	}

	wantCycle := []Constraint{
		{Before: "a", After: "b"},
		{Before: "b", After: "c"},
		{Before: "c", After: "a"},
	}
	if !slices.Equal(conflict.Cycle, wantCycle) {
		t.Errorf("Cycle = %v, want %v", conflict.Cycle, wantCycle)
	}
}

// A cycle among some rectangles must fail the whole resolution; no partial
// order over the acyclic remainder is returned.
func TestResolveNoPartialOrder(t *testing.T) {
	items := append(overlappingItems(),
		item("d", 0, 0, 30, 30),
		item("e", 1, 1, 29, 29),
	)
	g := mustBuild(t, items, []Constraint{
		{Before: "d", After: "e"}, // satisfiable
		{Before: "a", After: "b"},
		{Before: "b", After: "c"},
		{Before: "c", After: "a"}, // cycle
	})
	got, conflict := Resolve(g)
	if got != nil {
		t.Fatalf("Resolve() = %v, want nil order", got)
	}
	if conflict == nil {
		t.Fatal("expected conflict")
	}
	// Only the cyclic component is implicated.
	wantNodes := []rect.ID{"a", "b", "c"}
	if !slices.Equal(conflict.Nodes, wantNodes) {
		t.Errorf("Nodes = %v, want %v", conflict.Nodes, wantNodes)
	}
	if len(conflict.Groups) != 1 || !slices.Equal(conflict.Groups[0], wantNodes) {
		t.Errorf("Groups = %v, want [[a b c]]", conflict.Groups)
	}
}

func TestResolveConflictDeterministic(t *testing.T) {
	items := append(overlappingItems(),
		item("x", 0, 0, 50, 50),
		item("y", 1, 1, 49, 49),
	)
	g := mustBuild(t, items, []Constraint{
		{Before: "a", After: "b"},
		{Before: "b", After: "c"},
		{Before: "c", After: "a"},
		{Before: "x", After: "y"},
	})

	first, conflict := Resolve(g)
	if first != nil || conflict == nil {
		t.Fatal("expected conflict")
	}
	for i := 0; i < 20; i++ {
		_, again := Resolve(g)
		if again == nil {
			t.Fatal("conflict vanished on re-run")
		}
		if !slices.Equal(again.Nodes, conflict.Nodes) || !slices.Equal(again.Cycle, conflict.Cycle) {
			t.Fatalf("run %d: conflict differs: %v vs %v", i, again, conflict)
		}
	}
}

func TestResolveTwoCycles(t *testing.T) {
	// Two independent 3-cycles. Direct two-node contradictions are caught at
	// build time, so three nodes is the smallest cycle the resolver can see.
	items := []Item{
		item("a", 0, 0, 10, 10),
		item("b", 1, 1, 11, 11),
		item("m", 2, 2, 12, 12),
		item("n", 3, 3, 13, 13),
		item("p", 4, 4, 14, 14),
		item("q", 5, 5, 15, 15),
	}
	g := mustBuild(t, items, []Constraint{
		{Before: "a", After: "b"},
		{Before: "b", After: "m"},
		{Before: "m", After: "a"},
		{Before: "n", After: "p"},
		{Before: "p", After: "q"},
		{Before: "q", After: "n"},
	})

	_, conflict := Resolve(g)
	if conflict == nil {
		t.Fatal("expected conflict")
	}
	if len(conflict.Groups) != 2 {
		t.Fatalf("Groups = %v, want two components", conflict.Groups)
	}
	if !slices.Equal(conflict.Groups[0], []rect.ID{"a", "b", "m"}) {
		t.Errorf("Groups[0] = %v, want [a b m]", conflict.Groups[0])
	}
	if !slices.Equal(conflict.Groups[1], []rect.ID{"n", "p", "q"}) {
		t.Errorf("Groups[1] = %v, want [n p q]", conflict.Groups[1])
	}
	// Exemplar comes from the first group.
	if len(conflict.Cycle) == 0 || conflict.Cycle[0].Before != "a" {
		t.Errorf("Cycle = %v, want walk starting at a", conflict.Cycle)
	}
}

func TestConflictReportString(t *testing.T) {
	g := mustBuild(t, overlappingItems(), []Constraint{
		{Before: "a", After: "b"},
		{Before: "b", After: "c"},
		{Before: "c", After: "a"},
	})
	_, conflict := Resolve(g)
	if conflict == nil {
		t.Fatal("expected conflict")
	}
	want := "cycle detected among [a b c]: a→b → b→c → c→a"
	if got := conflict.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

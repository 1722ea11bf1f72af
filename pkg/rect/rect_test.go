package rect

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name                     string
		left, top, right, bottom float64
		wantErr                  bool
	}{
		{name: "Valid", left: 0, top: 0, right: 10, bottom: 10},
		{name: "Negative", left: -5, top: -5, right: 5, bottom: 5},
		{name: "ZeroWidth", left: 3, top: 0, right: 3, bottom: 10},
		{name: "ZeroHeight", left: 0, top: 4, right: 10, bottom: 4},
		{name: "Point", left: 1, top: 1, right: 1, bottom: 1},
		{name: "LeftAfterRight", left: 10, top: 0, right: 0, bottom: 10, wantErr: true},
		{name: "TopBelowBottom", left: 0, top: 10, right: 10, bottom: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.left, tt.top, tt.right, tt.bottom)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidGeometry) {
					t.Fatalf("New() error = %v, want ErrInvalidGeometry", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}
			if r.Left > r.Right || r.Top > r.Bottom {
				t.Errorf("New() produced inverted bounds: %v", r)
			}
		})
	}
}

func TestArea(t *testing.T) {
	r, _ := New(1, 2, 4, 6)
	if got := r.Area(); got != 12 {
		t.Errorf("Area() = %v, want 12", got)
	}
	line, _ := New(0, 0, 10, 0)
	if got := line.Area(); got != 0 {
		t.Errorf("degenerate Area() = %v, want 0", got)
	}
}

func TestOverlap(t *testing.T) {
	mk := func(l, t, r, b float64) Rectangle {
		return Rectangle{Left: l, Top: t, Right: r, Bottom: b}
	}

	tests := []struct {
		name string
		a, b Rectangle
		want OverlapKind
	}{
		{name: "Disjoint", a: mk(0, 0, 10, 10), b: mk(20, 20, 30, 30), want: Disjoint},
		{name: "DisjointOneAxis", a: mk(0, 0, 10, 10), b: mk(20, 0, 30, 10), want: Disjoint},
		{name: "TouchingEdge", a: mk(0, 0, 10, 10), b: mk(10, 0, 20, 10), want: Touching},
		{name: "TouchingCorner", a: mk(0, 0, 10, 10), b: mk(10, 10, 20, 20), want: Touching},
		{name: "Overlapping", a: mk(0, 0, 10, 10), b: mk(5, 5, 15, 15), want: Overlapping},
		{name: "Contains", a: mk(0, 0, 10, 10), b: mk(2, 2, 8, 8), want: Contains},
		{name: "ContainedBy", a: mk(2, 2, 8, 8), b: mk(0, 0, 10, 10), want: ContainedBy},
		{name: "Equal", a: mk(0, 0, 10, 10), b: mk(0, 0, 10, 10), want: Contains},
		{name: "ContainsSharedEdge", a: mk(0, 0, 10, 10), b: mk(0, 2, 5, 8), want: Contains},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlap(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlap(a, b) = %v, want %v", got, tt.want)
			}
		})
	}
}

// The containment kinds must be exact inverses when operands are swapped, and
// the symmetric kinds must be unaffected by operand order.
func TestOverlapInverse(t *testing.T) {
	mk := func(l, t, r, b float64) Rectangle {
		return Rectangle{Left: l, Top: t, Right: r, Bottom: b}
	}
	pairs := []struct {
		name string
		a, b Rectangle
	}{
		{name: "Disjoint", a: mk(0, 0, 1, 1), b: mk(5, 5, 6, 6)},
		{name: "Touching", a: mk(0, 0, 1, 1), b: mk(1, 0, 2, 1)},
		{name: "Overlapping", a: mk(0, 0, 4, 4), b: mk(2, 2, 6, 6)},
		{name: "Containment", a: mk(0, 0, 10, 10), b: mk(1, 1, 9, 9)},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			ab := Overlap(tt.a, tt.b)
			ba := Overlap(tt.b, tt.a)
			if ba != ab.Inverse() {
				t.Errorf("Overlap(b, a) = %v, want inverse of %v = %v", ba, ab, ab.Inverse())
			}
		})
	}
}

func TestOverlapReflexive(t *testing.T) {
	r, _ := New(3, 4, 9, 12)
	// A rectangle compared with itself is mutual containment.
	if got := Overlap(r, r); got != Contains {
		t.Errorf("Overlap(r, r) = %v, want Contains", got)
	}
}

func TestKindString(t *testing.T) {
	if Disjoint.String() != "disjoint" || ContainedBy.String() != "contained-by" {
		t.Errorf("unexpected kind names: %v, %v", Disjoint, ContainedBy)
	}
}

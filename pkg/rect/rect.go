// Package rect provides the axis-aligned rectangle primitive and the pure
// overlap relation used by the ordering engine.
//
// Rectangles are immutable value types addressed by opaque [ID] tokens. The
// coordinate system follows screen conventions: Left ≤ Right on the horizontal
// axis and Top ≤ Bottom on the vertical axis. Degenerate rectangles (zero
// width or height) are valid.
//
// The overlap relation is computed purely from coordinates and carries no
// hidden state:
//
//	a, _ := rect.New(0, 0, 10, 10)
//	b, _ := rect.New(5, 5, 15, 15)
//	rect.Overlap(a, b) // rect.Overlapping
package rect

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry is returned by [New] when Left > Right or Top > Bottom.
// Malformed rectangles are rejected at construction and never enter the
// data model.
var ErrInvalidGeometry = errors.New("invalid geometry: left must not exceed right and top must not exceed bottom")

// ID is an opaque rectangle identifier. IDs are assigned by the owning set at
// insertion time and are unique within a single collection. Their natural
// (lexicographic) order is the default tie-break used by the resolver.
type ID string

// Rectangle is an immutable axis-aligned rectangle. The zero value is the
// degenerate rectangle at the origin. Construct with [New] to get validation.
type Rectangle struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// New creates a rectangle from two opposite corners.
// Returns [ErrInvalidGeometry] when left > right or top > bottom.
// Zero-width and zero-height rectangles are permitted.
func New(left, top, right, bottom float64) (Rectangle, error) {
	if left > right || top > bottom {
		return Rectangle{}, fmt.Errorf("%w: (%v, %v, %v, %v)", ErrInvalidGeometry, left, top, right, bottom)
	}
	return Rectangle{Left: left, Top: top, Right: right, Bottom: bottom}, nil
}

// Width returns the horizontal extent of the rectangle.
func (r Rectangle) Width() float64 { return r.Right - r.Left }

// Height returns the vertical extent of the rectangle.
func (r Rectangle) Height() float64 { return r.Bottom - r.Top }

// Area returns the area of the rectangle. Degenerate rectangles have area 0.
// Area is the basis for the resolver's optional largest-last tie-break.
func (r Rectangle) Area() float64 { return r.Width() * r.Height() }

// Contains reports whether r fully contains other (non-strict: a rectangle
// contains itself).
func (r Rectangle) Contains(other Rectangle) bool {
	return r.Left <= other.Left && r.Top <= other.Top &&
		r.Right >= other.Right && r.Bottom >= other.Bottom
}

// Intersects reports whether the closed regions of r and other share at least
// one point. Touching edges count as intersection.
func (r Rectangle) Intersects(other Rectangle) bool {
	return r.Left <= other.Right && other.Left <= r.Right &&
		r.Top <= other.Bottom && other.Top <= r.Bottom
}

func (r Rectangle) String() string {
	return fmt.Sprintf("(%v, %v, %v, %v)", r.Left, r.Top, r.Right, r.Bottom)
}

// OverlapKind classifies the spatial relationship between two rectangles.
type OverlapKind int

const (
	// Disjoint means the closed regions share no point.
	Disjoint OverlapKind = iota
	// Touching means the regions share only boundary points (the
	// intersection has zero area).
	Touching
	// Overlapping means the interiors intersect but neither rectangle
	// contains the other.
	Overlapping
	// Contains means the first rectangle fully contains the second.
	// Identical rectangles report Contains from both sides.
	Contains
	// ContainedBy means the first rectangle is fully inside the second.
	ContainedBy
)

var overlapNames = map[OverlapKind]string{
	Disjoint:    "disjoint",
	Touching:    "touching",
	Overlapping: "overlapping",
	Contains:    "contains",
	ContainedBy: "contained-by",
}

func (k OverlapKind) String() string {
	if s, ok := overlapNames[k]; ok {
		return s
	}
	return fmt.Sprintf("OverlapKind(%d)", int(k))
}

// Inverse returns the kind observed from the opposite operand order.
// Contains and ContainedBy are inverses of one another; the symmetric kinds
// map to themselves.
func (k OverlapKind) Inverse() OverlapKind {
	switch k {
	case Contains:
		return ContainedBy
	case ContainedBy:
		return Contains
	default:
		return k
	}
}

// Overlap classifies the spatial relationship between a and b. It is pure and
// O(1): repeated calls with the same operands always return the same kind.
//
// Identical rectangles are mutual containment, so both Overlap(a, b) and
// Overlap(b, a) report [Contains] when a == b.
func Overlap(a, b Rectangle) OverlapKind {
	if !a.Intersects(b) {
		return Disjoint
	}
	switch {
	case a.Contains(b):
		return Contains
	case b.Contains(a):
		return ContainedBy
	}

	// Closed regions intersect; zero-area intersection means edge contact only.
	w := min(a.Right, b.Right) - max(a.Left, b.Left)
	h := min(a.Bottom, b.Bottom) - max(a.Top, b.Top)
	if w == 0 || h == 0 {
		return Touching
	}
	return Overlapping
}

// Package textview renders rectangle collections as labeled ASCII grids and
// parses them back.
//
// The grid uses a one-based integer coordinate system where X is the row axis
// (downward) and Y the column axis (rightward); a [GridRect] (1, 2, 3, 4)
// covers rows 1–3 and columns 2–4 inclusive. Rectangle outlines are drawn
// with '#', and when order labels are enabled the 1-based position of each
// rectangle is written into its top-left border:
//
//	1##
//	###
//	   2####
//	3# #   #
//	## #   #
//	## #   #
//	   #####
//
// Rendering and parsing round-trip exactly: [Parse] on the output of
// [Viewer.Render] reconstructs the original rectangles in the same order.
// Float-coordinate rectangles enter the grid world through [Discretize].
package textview

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Grid cell values. Digit cells hold 0–9 directly.
const (
	// EmptyCell marks a cell covered by no rectangle border.
	EmptyCell = -2
	// BoundCell marks a cell on a rectangle border.
	BoundCell = -1
)

const (
	emptyRune = ' '
	boundRune = '#'
)

var (
	// ErrInvalidGridRect is returned by [NewViewer] for rectangles with
	// non-positive coordinates or without strictly positive extent. The grid
	// world has no room for degenerate rectangles: a border needs at least
	// two rows and two columns.
	ErrInvalidGridRect = errors.New("invalid grid rectangle")

	// ErrNoRectangles is returned by [FromGrid] when the grid contains no
	// rectangle cells at all.
	ErrNoRectangles = errors.New("no rectangles found")

	// ErrUnlabeled is returned by [FromGrid] when the grid has borders but no
	// order labels to anchor reconstruction.
	ErrUnlabeled = errors.New("all rectangles are unlabeled")

	// ErrMissingLabel is returned by [FromGrid] when the recovered labels are
	// not consecutive, which means a rectangle was drawn over completely.
	ErrMissingLabel = errors.New("missing rectangle label")

	// ErrBadStructure is returned by [FromGrid] when the cells cannot be
	// explained by a set of labeled rectangles, or when re-rendering the
	// reconstruction does not reproduce the input exactly.
	ErrBadStructure = errors.New("grid does not match a labeled rectangle set")
)

// GridRect is a rectangle in one-based inclusive grid coordinates.
// X is the row axis, Y the column axis.
type GridRect struct {
	X1, Y1, X2, Y2 int
}

func (g GridRect) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", g.X1, g.Y1, g.X2, g.Y2)
}

// Viewer renders an ordered slice of grid rectangles. The slice order is the
// display order: rectangle i is drawn after rectangle i−1 (covering it where
// they overlap) and labeled i+1.
type Viewer struct {
	rects []GridRect
}

// NewViewer validates the rectangles and returns a viewer over them.
// Every rectangle must have coordinates ≥ 1, X1 < X2 and Y1 < Y2.
func NewViewer(rects []GridRect) (*Viewer, error) {
	for _, r := range rects {
		if r.X1 < 1 || r.Y1 < 1 || r.X1 >= r.X2 || r.Y1 >= r.Y2 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidGridRect, r)
		}
	}
	return &Viewer{rects: append([]GridRect(nil), rects...)}, nil
}

// Rects returns a copy of the viewer's rectangles in display order.
func (v *Viewer) Rects() []GridRect { return append([]GridRect(nil), v.rects...) }

// Len returns the number of rectangles.
func (v *Viewer) Len() int { return len(v.rects) }

// Equal reports whether both viewers hold identical rectangles in the same
// order.
func (v *Viewer) Equal(other *Viewer) bool {
	if len(v.rects) != len(other.rects) {
		return false
	}
	for i := range v.rects {
		if v.rects[i] != other.rects[i] {
			return false
		}
	}
	return true
}

// HUnits returns the height of the occupied region in grid rows.
func (v *Viewer) HUnits() int {
	minX, maxX := v.rects[0].X1, v.rects[0].X2
	for _, r := range v.rects[1:] {
		minX = min(minX, r.X1)
		maxX = max(maxX, r.X2)
	}
	return maxX - minX + 1
}

// WUnits returns the width of the occupied region in grid columns.
func (v *Viewer) WUnits() int {
	minY, maxY := v.rects[0].Y1, v.rects[0].Y2
	for _, r := range v.rects[1:] {
		minY = min(minY, r.Y1)
		maxY = max(maxY, r.Y2)
	}
	return maxY - minY + 1
}

// ToGrid draws the rectangles into a cell grid sized to the bottom-right
// extent. Later rectangles overwrite earlier ones. With showOrder, the
// decimal digits of each rectangle's 1-based position are written into its
// top-left border; digits that would run past the right edge of the grid
// are dropped.
func (v *Viewer) ToGrid(showOrder bool) [][]int {
	var maxX, maxY int
	for _, r := range v.rects {
		maxX = max(maxX, r.X2)
		maxY = max(maxY, r.Y2)
	}

	grid := make([][]int, maxX)
	for i := range grid {
		grid[i] = make([]int, maxY)
		for j := range grid[i] {
			grid[i][j] = EmptyCell
		}
	}

	for i, r := range v.rects {
		x1, y1 := r.X1-1, r.Y1-1
		for y := y1; y < r.Y2; y++ {
			grid[x1][y] = BoundCell
			grid[r.X2-1][y] = BoundCell
		}
		for x := x1; x < r.X2; x++ {
			grid[x][y1] = BoundCell
			grid[x][r.Y2-1] = BoundCell
		}

		if showOrder {
			row := grid[x1]
			for j, d := range digits(i + 1) {
				if y1+j >= len(row) {
					break
				}
				row[y1+j] = d
			}
		}
	}
	return grid
}

// Render formats the grid as text: '#' for borders, spaces for empty cells,
// decimal digits for order labels. Lines are newline-separated without a
// trailing newline.
func (v *Viewer) Render(showOrder bool) string {
	grid := v.ToGrid(showOrder)
	var b strings.Builder
	for i, row := range grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, cell := range row {
			switch cell {
			case EmptyCell:
				b.WriteByte(emptyRune)
			case BoundCell:
				b.WriteByte(boundRune)
			default:
				b.WriteByte(byte('0' + cell))
			}
		}
	}
	return b.String()
}

// Fprint writes the rendered grid plus a trailing newline to w.
func (v *Viewer) Fprint(w io.Writer, showOrder bool) error {
	_, err := fmt.Fprintln(w, v.Render(showOrder))
	return err
}

// digits splits a positive integer into its decimal digits.
func digits(n int) []int {
	s := fmt.Sprintf("%d", n)
	out := make([]int, len(s))
	for i := range s {
		out[i] = int(s[i] - '0')
	}
	return out
}

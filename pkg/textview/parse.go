package textview

import (
	"fmt"
	"sort"
	"strings"
)

// Parse reconstructs a viewer from rendered text. The input must use the
// [Viewer.Render] vocabulary: '#' borders, spaces, and decimal order labels.
// Lines may have trailing spaces trimmed; they are padded back to a
// rectangular grid before parsing.
func Parse(s string) (*Viewer, error) {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	width := 0
	for _, line := range lines {
		width = max(width, len(line))
	}

	grid := make([][]int, len(lines))
	for i, line := range lines {
		row := make([]int, width)
		for j := range row {
			row[j] = EmptyCell
		}
		for j := 0; j < len(line); j++ {
			switch ch := line[j]; {
			case ch == emptyRune:
				// already EmptyCell
			case ch == boundRune:
				row[j] = BoundCell
			case ch >= '0' && ch <= '9':
				row[j] = int(ch - '0')
			default:
				return nil, fmt.Errorf("%w: unexpected character %q", ErrBadStructure, ch)
			}
		}
		grid[i] = row
	}
	return FromGrid(grid)
}

// FromGrid reconstructs rectangles from a labeled cell grid.
//
// The grid must have been produced by [Viewer.ToGrid] with order labels (or
// be equivalent to such output). Reconstruction peels rectangles off
// top-to-bottom by following their borders — including rectangles whose
// interior is hollow because a later rectangle was drawn over them — and then
// verifies the result by re-rendering: any cell mismatch means the grid does
// not describe a consistent labeled set.
//
// Returns [ErrNoRectangles], [ErrUnlabeled], [ErrMissingLabel] (labels must
// be consecutive) or [ErrBadStructure].
func FromGrid(grid [][]int) (*Viewer, error) {
	h := len(grid)
	if h == 0 {
		return nil, ErrNoRectangles
	}
	w := len(grid[0])
	for _, row := range grid {
		if len(row) != w {
			return nil, fmt.Errorf("%w: ragged grid", ErrBadStructure)
		}
	}

	hasCells, hasLabels := false, false
	for _, row := range grid {
		for _, c := range row {
			if c != EmptyCell {
				hasCells = true
			}
			if c >= 0 {
				hasLabels = true
			}
		}
	}
	if !hasCells {
		return nil, ErrNoRectangles
	}
	if !hasLabels {
		return nil, ErrUnlabeled
	}

	cp := make([][]int, h)
	for i, row := range grid {
		cp[i] = append([]int(nil), row...)
	}

	found := make(map[int]GridRect)
	for {
		x, y, ok := nextLabel(cp)
		if !ok {
			break
		}

		r, label, err := peelRect(cp, x, y)
		if err != nil {
			return nil, err
		}
		if _, dup := found[label]; dup {
			return nil, fmt.Errorf("%w: duplicate label %d", ErrBadStructure, label)
		}
		found[label] = r

		for i := r.X1 - 1; i < r.X2; i++ {
			for j := r.Y1 - 1; j < r.Y2; j++ {
				cp[i][j] = EmptyCell
			}
		}
	}

	labels := make([]int, 0, len(found))
	for n := range found {
		labels = append(labels, n)
	}
	sort.Ints(labels)
	for i, n := range labels {
		if n != labels[0]+i {
			return nil, fmt.Errorf("%w: label %d", ErrMissingLabel, labels[0]+i)
		}
	}

	rects := make([]GridRect, len(labels))
	for i, n := range labels {
		rects[i] = found[n]
	}
	v, err := NewViewer(rects)
	if err != nil {
		return nil, err
	}

	if err := verify(v, grid); err != nil {
		return nil, err
	}
	return v, nil
}

// nextLabel scans rows top to bottom for the first digit cell.
func nextLabel(grid [][]int) (x, y int, ok bool) {
	for i, row := range grid {
		for j, c := range row {
			if c >= 0 {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// peelRect extracts the rectangle whose label starts at (x, y), returning its
// one-based bounds and full (possibly multi-digit) label. A rectangle whose
// interior cell just inside the label corner is empty is hollow — a later
// rectangle was drawn over its middle — and is traced strictly along its
// borders; otherwise the first non-border cell marks the far edge.
func peelRect(grid [][]int, x, y int) (GridRect, int, error) {
	h, w := len(grid), len(grid[0])
	if x+1 >= h || y+1 >= w {
		return GridRect{}, 0, fmt.Errorf("%w: rectangle at (%d, %d) truncated", ErrBadStructure, x, y)
	}

	label := grid[x][y]
	hasHole := grid[x+1][y+1] == EmptyCell
	checkDigits := true

	right, rightFound := 0, false
	for yy := y + 1; yy < w; yy++ {
		v := grid[x][yy]
		if v == EmptyCell || (v != BoundCell && !checkDigits) {
			if hasHole {
				return GridRect{}, 0, fmt.Errorf("%w: rectangle at (%d, %d) broken at right", ErrBadStructure, x, y)
			}
			right, rightFound = yy-1, true
			break
		}
		if checkDigits {
			if v != BoundCell {
				label = 10*label + v
			} else {
				checkDigits = false
			}
		}
		if hasHole && grid[x+1][yy] == BoundCell {
			right, rightFound = yy, true
			break
		}
	}
	if !rightFound {
		if hasHole {
			return GridRect{}, 0, fmt.Errorf("%w: rectangle at (%d, %d) not matched at right", ErrBadStructure, x, y)
		}
		right = w - 1
	}

	bottom, bottomFound := 0, false
	for xx := x + 1; xx < h; xx++ {
		if grid[xx][y] != BoundCell {
			if hasHole {
				return GridRect{}, 0, fmt.Errorf("%w: rectangle at (%d, %d) broken at bottom", ErrBadStructure, x, y)
			}
			bottom, bottomFound = xx-1, true
			break
		}
		if hasHole && grid[xx][y+1] == BoundCell {
			bottom, bottomFound = xx, true
			break
		}
	}
	if !bottomFound {
		if hasHole {
			return GridRect{}, 0, fmt.Errorf("%w: rectangle at (%d, %d) not matched at bottom", ErrBadStructure, x, y)
		}
		bottom = h - 1
	}

	return GridRect{X1: x + 1, Y1: y + 1, X2: bottom + 1, Y2: right + 1}, label, nil
}

// verify re-renders the reconstruction and compares it cell by cell against
// the input. Input cells beyond the re-rendered extent must be empty.
func verify(v *Viewer, grid [][]int) error {
	rendered := v.ToGrid(true)
	for i, row := range grid {
		for j, want := range row {
			got := EmptyCell
			if i < len(rendered) && j < len(rendered[i]) {
				got = rendered[i][j]
			}
			if got != want {
				return fmt.Errorf("%w: mismatch at (%d, %d), possibly unlabeled or malformed rectangles", ErrBadStructure, i, j)
			}
		}
	}
	return nil
}

package textview

import (
	"errors"
	"fmt"
	"math"

	"github.com/ordrect/ordrect/pkg/rect"
)

// ErrCannotDiscretize is returned by [Discretize] when the input has no
// spatial extent to map onto a grid (no rectangles, or all bounds collapse to
// a single value).
var ErrCannotDiscretize = errors.New("cannot discretize rectangles")

// Discretize maps float-coordinate rectangles onto a one-based integer grid
// of at most units cells per axis, preserving their relative arrangement.
// All rectangles share one scale: the smallest left/top bound maps to 1 and
// the largest right/bottom bound to units. Starts are floored and ends are
// ceiled, so every rectangle keeps at least its true coverage.
//
// Rectangles so thin that start and end round to the same grid line produce
// degenerate [GridRect] values, which [NewViewer] rejects; pick more units
// for such inputs.
func Discretize(rects []rect.Rectangle, units int) ([]GridRect, error) {
	if len(rects) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrCannotDiscretize)
	}
	if units < 2 {
		return nil, fmt.Errorf("%w: units must be at least 2, got %d", ErrCannotDiscretize, units)
	}

	mn := math.Inf(1)
	mx := math.Inf(-1)
	for _, r := range rects {
		mn = min(mn, r.Top, r.Left)
		mx = max(mx, r.Bottom, r.Right)
	}
	if mx == mn {
		return nil, fmt.Errorf("%w: zero extent", ErrCannotDiscretize)
	}

	scale := float64(units-1) / (mx - mn)
	out := make([]GridRect, len(rects))
	for i, r := range rects {
		out[i] = GridRect{
			X1: int(math.Floor((r.Top-mn)*scale)) + 1,
			Y1: int(math.Floor((r.Left-mn)*scale)) + 1,
			X2: int(math.Ceil((r.Bottom-mn)*scale)) + 1,
			Y2: int(math.Ceil((r.Right-mn)*scale)) + 1,
		}
	}
	return out, nil
}

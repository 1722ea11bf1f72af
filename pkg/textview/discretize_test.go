package textview

import (
	"errors"
	"strings"
	"testing"

	"github.com/ordrect/ordrect/pkg/rect"
)

// box builds a rectangle from grid-style (x1, y1, x2, y2) coordinates where
// x is the row axis, matching the viewer's convention.
func box(x1, y1, x2, y2 float64) rect.Rectangle {
	return rect.Rectangle{Left: y1, Top: x1, Right: y2, Bottom: x2}
}

func TestDiscretize(t *testing.T) {
	tests := []struct {
		name  string
		rects []rect.Rectangle
		units int
		want  []GridRect
	}{
		{
			name:  "IntegerExact",
			rects: []rect.Rectangle{box(1, 2, 3, 4), box(5, 6, 7, 8)},
			units: 8,
			want:  []GridRect{{1, 2, 3, 4}, {5, 6, 7, 8}},
		},
		{
			name:  "IntegerCoarse",
			rects: []rect.Rectangle{box(1, 2, 3, 4), box(5, 6, 7, 8)},
			units: 4,
			want:  []GridRect{{1, 1, 2, 3}, {2, 3, 4, 4}},
		},
		{
			name:  "Float",
			rects: []rect.Rectangle{box(0.1, 0.04, 0.3, 0.22), box(0.87, 0.6, 1.5, 0.9)},
			units: 12,
			want:  []GridRect{{1, 1, 3, 3}, {7, 5, 12, 8}},
		},
		{
			name:  "FloatFine",
			rects: []rect.Rectangle{box(0.1, 0.04, 0.3, 0.22), box(0.87, 0.6, 1.5, 0.9)},
			units: 25,
			want:  []GridRect{{1, 1, 6, 4}, {14, 10, 26, 16}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Discretize(tt.rects, tt.units)
			if err != nil {
				t.Fatalf("Discretize() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Discretize() returned %d rects, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("rect %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDiscretizeErrors(t *testing.T) {
	if _, err := Discretize(nil, 10); !errors.Is(err, ErrCannotDiscretize) {
		t.Errorf("empty input: error = %v, want ErrCannotDiscretize", err)
	}
	if _, err := Discretize([]rect.Rectangle{box(1, 1, 2, 2)}, 1); !errors.Is(err, ErrCannotDiscretize) {
		t.Errorf("units < 2: error = %v, want ErrCannotDiscretize", err)
	}
	point := []rect.Rectangle{{Left: 3, Top: 3, Right: 3, Bottom: 3}}
	if _, err := Discretize(point, 10); !errors.Is(err, ErrCannotDiscretize) {
		t.Errorf("zero extent: error = %v, want ErrCannotDiscretize", err)
	}
}

func TestDiscretizeThenRender(t *testing.T) {
	rects := []rect.Rectangle{
		box(0.1, 0.2, 0.23, 1),
		box(0.35, 0.45, 0.74, 0.8),
	}
	grid, err := Discretize(rects, 12)
	if err != nil {
		t.Fatalf("Discretize() error: %v", err)
	}
	v, err := NewViewer(grid)
	if err != nil {
		t.Fatalf("NewViewer() error: %v", err)
	}

	want := strings.Join([]string{
		" 1##########",
		" #         #",
		" ###########",
		"    2#####  ",
		"    #    #  ",
		"    #    #  ",
		"    #    #  ",
		"    #    #  ",
		"    ######  ",
	}, "\n")
	if got := v.Render(true); got != want {
		t.Errorf("Render(true) =\n%s\nwant:\n%s", got, want)
	}
}

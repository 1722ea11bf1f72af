package cli

import (
	"testing"

	"github.com/ordrect/ordrect/pkg/cache"
)

func TestSetOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    orderOpts
		wantN   int
		wantErr bool
	}{
		{"defaults", orderOpts{}, 0, false},
		{"id tie-break", orderOpts{tieBreak: "id"}, 0, false},
		{"area tie-break", orderOpts{tieBreak: "area"}, 1, false},
		{"infer", orderOpts{infer: true}, 1, false},
		{"all", orderOpts{infer: true, disjointEdges: true, tieBreak: "area"}, 3, false},
		{"unknown tie-break", orderOpts{tieBreak: "height"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.opts.setOptions()
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.wantN {
				t.Errorf("options = %d, want %d", len(got), tt.wantN)
			}
		})
	}
}

func TestKeyOpts(t *testing.T) {
	tests := []struct {
		name string
		opts orderOpts
		want cache.OrderKeyOpts
	}{
		{"defaults", orderOpts{}, cache.OrderKeyOpts{}},
		{"id tie-break", orderOpts{tieBreak: "id"}, cache.OrderKeyOpts{}},
		{"area tie-break", orderOpts{tieBreak: "area"}, cache.OrderKeyOpts{TieBreak: "area"}},
		{"all", orderOpts{infer: true, disjointEdges: true, tieBreak: "area"},
			cache.OrderKeyOpts{Inference: true, DisjointEdges: true, TieBreak: "area"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.keyOpts(); got != tt.want {
				t.Errorf("keyOpts() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		input  string
		format string
		want   string
	}{
		{"layout.json", "svg", "layout.svg"},
		{"layout.json", "dot", "layout.dot"},
		{"layout", "png", "layout.png"},
		{"-", "svg", "graph.svg"},
	}

	for _, tt := range tests {
		if got := outputName(tt.input, tt.format); got != tt.want {
			t.Errorf("outputName(%q, %q) = %q, want %q", tt.input, tt.format, got, tt.want)
		}
	}
}

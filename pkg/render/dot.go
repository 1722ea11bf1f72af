// Package render converts constraint graphs into visual outputs.
//
// The graph is first serialized to Graphviz DOT, then rasterized to SVG
// or PNG through [github.com/goccy/go-graphviz]. Cycle members reported
// by a conflict can be highlighted so an unresolvable set is easy to
// inspect.
//
//	dot := render.ToDOT(g, render.Options{})
//	svg, err := render.SVG(dot)
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/ordrect/ordrect/pkg/order"
	"github.com/ordrect/ordrect/pkg/rect"
)

// Options configures constraint graph rendering.
type Options struct {
	// Detailed includes rectangle geometry in node labels.
	// When false, only the rectangle ID is shown.
	Detailed bool

	// Highlight marks the given rectangles (typically cycle members from
	// a conflict report) with a red outline.
	Highlight []rect.ID
}

// ToDOT converts a constraint graph to Graphviz DOT format.
// Edges point from earlier to later rectangles. The resulting DOT string
// can be rasterized with [SVG] or [PNG].
func ToDOT(g *order.Graph, opts Options) string {
	highlighted := make(map[rect.ID]bool, len(opts.Highlight))
	for _, id := range opts.Highlight {
		highlighted[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, id := range g.IDs() {
		r, _ := g.Rect(id)
		label := fmtLabel(id, r, opts.Detailed)
		attrs := fmtAttrs(label, highlighted[id])
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	edges := g.Edges()
	slices.SortFunc(edges, func(a, b order.Constraint) int {
		if v := strings.Compare(string(a.Before), string(b.Before)); v != 0 {
			return v
		}
		return strings.Compare(string(a.After), string(b.After))
	})
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Before, e.After)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(id rect.ID, r rect.Rectangle, detailed bool) string {
	if !detailed {
		return string(id)
	}
	return fmt.Sprintf("%s\n%s\narea: %g", id, r, r.Area())
}

func fmtAttrs(label string, highlight bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if highlight {
		attrs = append(attrs, "color=red", "penwidth=2", "fontcolor=red")
	}
	return attrs
}

// SVG renders a DOT graph to SVG using Graphviz.
func SVG(dot string) ([]byte, error) {
	out, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// PNG renders a DOT graph to PNG using Graphviz.
func PNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg element so the image scales
// cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

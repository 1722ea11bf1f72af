// Package pkg provides the core libraries for ordrect rectangle ordering.
//
// # Overview
//
// ordrect maintains sets of axis-aligned rectangles with drawing-order
// constraints, resolves them into a deterministic bottom-to-top ordering,
// and renders the result. The pkg directory is organized into four main
// areas:
//
//  1. [rect], [order], [set] - Domain logic (geometry, constraint graphs,
//     the ordered set aggregate)
//  2. [textview], [render] - Output (ASCII grids, Graphviz diagrams)
//  3. [rectio] - Serialization (the canonical JSON document format)
//  4. [cache], [errors], [observability], [buildinfo] - Infrastructure
//
// # Quick Start
//
// Build a set, resolve the order, and print an ASCII preview:
//
//	import (
//	    "github.com/ordrect/ordrect/pkg/rect"
//	    "github.com/ordrect/ordrect/pkg/set"
//	)
//
//	// 1. Insert rectangles
//	s := set.New()
//	a, _ := rect.New(0, 0, 10, 10)
//	b, _ := rect.New(5, 5, 15, 15)
//	idA, _ := s.Insert(a)
//	idB, _ := s.Insert(b)
//
//	// 2. Constrain the drawing order
//	_ = s.AddConstraint(idA, idB)
//
//	// 3. Resolve bottom to top
//	ids, conflict := s.Order()
//
//	// 4. Render the stacking as text
//	view, _ := s.View(40)
//
// # Main Packages
//
// ## Domain Logic
//
// [rect] - Axis-aligned rectangle geometry: validated construction and the
// five-way overlap classification (disjoint, touching, overlapping,
// contains, contained-by).
//
// [order] - Constraint graph construction and deterministic topological
// resolution. Cycles surface as structured conflict reports carrying the
// strongly connected components and an exemplar cycle.
//
// [set] - The mutable, concurrency-safe aggregate tying geometry and
// constraints together, with cached resolution.
//
// ## Output
//
// [textview] - ASCII grid rendering with order labels, grid parsing back
// into rectangles, and continuous-to-grid discretization.
//
// [render] - Constraint graph diagrams via Graphviz DOT, SVG, and PNG.
//
// ## Serialization
//
// [rectio] - The canonical JSON document format used by the CLI, the HTTP
// API, and the artifact cache.
//
// ## Infrastructure
//
// [cache] - Pluggable artifact caches: file-based for the CLI, Redis for
// server deployments, and a null backend.
//
// [errors] - Structured error codes shared by the CLI and API surfaces.
//
// [observability] - Optional instrumentation hooks with no-op defaults.
//
// [rect]: github.com/ordrect/ordrect/pkg/rect
// [order]: github.com/ordrect/ordrect/pkg/order
// [set]: github.com/ordrect/ordrect/pkg/set
// [textview]: github.com/ordrect/ordrect/pkg/textview
// [render]: github.com/ordrect/ordrect/pkg/render
// [rectio]: github.com/ordrect/ordrect/pkg/rectio
// [cache]: github.com/ordrect/ordrect/pkg/cache
// [errors]: github.com/ordrect/ordrect/pkg/errors
// [observability]: github.com/ordrect/ordrect/pkg/observability
// [buildinfo]: github.com/ordrect/ordrect/pkg/buildinfo
package pkg

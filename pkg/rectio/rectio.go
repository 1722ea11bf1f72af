// Package rectio provides the canonical JSON format for rectangle sets.
//
// The format is human-readable and round-trips exactly: export → re-import
// produces an equivalent set. It is used by the CLI, the HTTP API and the
// artifact cache.
//
//	{
//	  "rectangles": [
//	    {"id": "a", "left": 0, "top": 0, "right": 10, "bottom": 10}
//	  ],
//	  "constraints": [
//	    {"before": "a", "after": "b"}
//	  ]
//	}
package rectio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	apperrors "github.com/ordrect/ordrect/pkg/errors"
	"github.com/ordrect/ordrect/pkg/order"
	"github.com/ordrect/ordrect/pkg/rect"
	"github.com/ordrect/ordrect/pkg/set"
)

// Document is the serialization format for a rectangle set and its
// constraints.
type Document struct {
	Rectangles  []Rectangle        `json:"rectangles"`
	Constraints []order.Constraint `json:"constraints,omitempty"`
}

// Rectangle is the wire form of one identified rectangle.
type Rectangle struct {
	ID     rect.ID `json:"id"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// FromSet snapshots a set into a document. Rectangles are sorted by ID and
// constraints by (before, after) for deterministic output.
func FromSet(s *set.Set) Document {
	ids := s.IDs()
	slices.Sort(ids)

	doc := Document{Rectangles: make([]Rectangle, 0, len(ids))}
	for _, id := range ids {
		r, ok := s.Rect(id)
		if !ok {
			continue
		}
		doc.Rectangles = append(doc.Rectangles, Rectangle{
			ID: id, Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom,
		})
	}

	doc.Constraints = s.Constraints()
	slices.SortFunc(doc.Constraints, func(a, b order.Constraint) int {
		if v := strings.Compare(string(a.Before), string(b.Before)); v != 0 {
			return v
		}
		return strings.Compare(string(a.After), string(b.After))
	})
	return doc
}

// ToSet materializes a document into a fresh set. Identifiers are checked
// at this boundary because document IDs flow into file names, DOT node
// names and cache keys; geometry and constraint problems surface as the
// usual rect and order package errors.
func ToSet(doc Document, opts ...set.Option) (*set.Set, error) {
	s := set.New(opts...)
	for _, rj := range doc.Rectangles {
		if err := apperrors.ValidateRectangleID(string(rj.ID)); err != nil {
			return nil, err
		}
		r, err := rect.New(rj.Left, rj.Top, rj.Right, rj.Bottom)
		if err != nil {
			return nil, fmt.Errorf("rectangle %s: %w", rj.ID, err)
		}
		if err := s.InsertWithID(rj.ID, r); err != nil {
			return nil, fmt.Errorf("rectangle %s: %w", rj.ID, err)
		}
	}
	for _, c := range doc.Constraints {
		if err := s.AddConstraint(c.Before, c.After); err != nil {
			return nil, fmt.Errorf("constraint %s: %w", c, err)
		}
	}
	return s, nil
}

// Items converts the document's rectangles for direct graph construction,
// bypassing the set aggregate.
func (d Document) Items() ([]order.Item, error) {
	items := make([]order.Item, len(d.Rectangles))
	for i, rj := range d.Rectangles {
		r, err := rect.New(rj.Left, rj.Top, rj.Right, rj.Bottom)
		if err != nil {
			return nil, fmt.Errorf("rectangle %s: %w", rj.ID, err)
		}
		items[i] = order.Item{ID: rj.ID, Rect: r}
	}
	return items, nil
}

// Marshal encodes a document as indented JSON.
func Marshal(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a document from JSON bytes.
func Unmarshal(data []byte) (Document, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes a document as indented JSON to w.
func Write(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a document from r.
func Read(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	return doc, nil
}

// WriteFile writes a document to a JSON file created with 0644 permissions.
func WriteFile(doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(doc, f)
}

// ReadFile reads a document from a JSON file.
func ReadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

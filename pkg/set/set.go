// Package set provides the ordered rectangle set: the public aggregate that
// owns a collection of rectangles and their precedence constraints and
// exposes the resolved order.
//
// A [Set] caches its last resolution and invalidates the cache on any
// mutation, so repeated [Set.Order] calls on an unmodified set are free.
// Resolution semantics follow [github.com/ordrect/ordrect/pkg/order]: index 0
// of the resolved sequence is the earliest (bottom-most) rectangle.
//
// A Set is safe for concurrent use: reads share a lock, mutations take it
// exclusively.
package set

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ordrect/ordrect/pkg/observability"
	"github.com/ordrect/ordrect/pkg/order"
	"github.com/ordrect/ordrect/pkg/rect"
	"github.com/ordrect/ordrect/pkg/textview"
)

// ErrUnresolved is returned by [Set.View] when the set has no consistent
// order. Use [Set.Order] to obtain the full conflict report.
var ErrUnresolved = errors.New("set has no consistent order")

// Option configures a Set at construction time.
type Option func(*Set)

// WithContainmentInference enables the opt-in inference policy: containing
// rectangles are ordered before the rectangles they contain.
func WithContainmentInference() Option {
	return func(s *Set) { s.buildOpts = append(s.buildOpts, order.WithContainmentInference()) }
}

// WithDisjointEdges keeps constraints between disjoint rectangles as graph
// edges instead of dropping them.
func WithDisjointEdges() Option {
	return func(s *Set) { s.buildOpts = append(s.buildOpts, order.WithDisjointEdges()) }
}

// WithComparator installs a custom tie-break for resolution. The comparator
// must be a total order over identifiers.
func WithComparator(cmp order.Comparator) Option {
	return func(s *Set) { s.cmp = cmp }
}

// WithAreaTieBreak resolves ties by ascending rectangle area, then by
// identifier, so smaller rectangles surface earlier among unconstrained
// peers.
func WithAreaTieBreak() Option {
	return func(s *Set) { s.areaTieBreak = true }
}

// Set owns rectangles and constraints and caches the last resolution.
type Set struct {
	mu sync.RWMutex

	id      uuid.UUID
	seq     int
	rects   map[rect.ID]rect.Rectangle
	inserts []rect.ID // insertion order
	cons    []order.Constraint

	buildOpts    []order.BuildOption
	cmp          order.Comparator
	areaTieBreak bool

	// Cached resolution, invalidated on every mutation.
	resolved bool
	lastIDs  []rect.ID
	lastRep  *order.ConflictReport
}

// New creates an empty set. Each set gets a unique identity token, visible
// via [Set.ID], for logging and cache scoping.
func New(opts ...Option) *Set {
	s := &Set{
		id:    uuid.New(),
		rects: make(map[rect.ID]rect.Rectangle),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the set's identity token.
func (s *Set) ID() uuid.UUID { return s.id }

// Insert validates the rectangle, assigns it a fresh identifier and adds it
// to the set. Returns [rect.ErrInvalidGeometry] for malformed coordinates;
// the set is left unchanged on failure.
func (s *Set) Insert(r rect.Rectangle) (rect.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := rect.New(r.Left, r.Top, r.Right, r.Bottom); err != nil {
		return "", err
	}
	s.seq++
	id := rect.ID(fmt.Sprintf("r%06d", s.seq))
	s.insertLocked(id, r)
	return id, nil
}

// InsertWithID adds a rectangle under a caller-chosen identifier, typically
// when reloading a serialized set. Returns [order.ErrDuplicateRectangle] when
// the identifier is taken and [order.ErrInvalidRectangleID] when it is empty.
func (s *Set) InsertWithID(id rect.ID, r rect.Rectangle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		return order.ErrInvalidRectangleID
	}
	if _, err := rect.New(r.Left, r.Top, r.Right, r.Bottom); err != nil {
		return err
	}
	if _, exists := s.rects[id]; exists {
		return fmt.Errorf("%w: %s", order.ErrDuplicateRectangle, id)
	}
	s.insertLocked(id, r)
	return nil
}

func (s *Set) insertLocked(id rect.ID, r rect.Rectangle) {
	s.rects[id] = r
	s.inserts = append(s.inserts, id)
	s.invalidateLocked()
}

// Remove deletes a rectangle and every constraint that references it.
// Returns [order.ErrUnknownRectangle] when the identifier is not present.
func (s *Set) Remove(id rect.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rects[id]; !ok {
		return fmt.Errorf("%w: %s", order.ErrUnknownRectangle, id)
	}
	delete(s.rects, id)
	s.inserts = slices.DeleteFunc(s.inserts, func(x rect.ID) bool { return x == id })
	s.cons = slices.DeleteFunc(s.cons, func(c order.Constraint) bool {
		return c.Before == id || c.After == id
	})
	s.invalidateLocked()
	return nil
}

// AddConstraint asserts that a comes before b. Duplicate assertions are
// ignored. Returns [order.ErrUnknownRectangle] for unknown identifiers,
// [order.ErrSelfConstraint] when a == b, and [order.ErrConflictingConstraint]
// when the opposite direction was already asserted — direct contradictions
// are rejected immediately rather than surfacing as resolution conflicts.
func (s *Set) AddConstraint(a, b rect.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a == b {
		return fmt.Errorf("%w: %s", order.ErrSelfConstraint, a)
	}
	for _, id := range []rect.ID{a, b} {
		if _, ok := s.rects[id]; !ok {
			return fmt.Errorf("%w: %s", order.ErrUnknownRectangle, id)
		}
	}
	c := order.Constraint{Before: a, After: b}
	if slices.Contains(s.cons, c) {
		return nil
	}
	if slices.Contains(s.cons, order.Constraint{Before: b, After: a}) {
		return fmt.Errorf("%w: both %s→%s and %s→%s asserted", order.ErrConflictingConstraint, b, a, a, b)
	}
	s.cons = append(s.cons, c)
	s.invalidateLocked()
	return nil
}

// ClearConstraints removes all constraints.
func (s *Set) ClearConstraints() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cons = nil
	s.invalidateLocked()
}

func (s *Set) invalidateLocked() {
	s.resolved = false
	s.lastIDs = nil
	s.lastRep = nil
}

// Len returns the number of rectangles.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rects)
}

// IDs returns all rectangle identifiers in insertion order.
func (s *Set) IDs() []rect.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.inserts)
}

// Rect returns the rectangle for the identifier and true, or false when
// unknown.
func (s *Set) Rect(id rect.ID) (rect.Rectangle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rects[id]
	return r, ok
}

// Constraints returns a copy of the asserted constraints in assertion order.
func (s *Set) Constraints() []order.Constraint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.cons)
}

// QueryOverlap classifies the spatial relationship between two rectangles in
// the set. Returns [order.ErrUnknownRectangle] for unknown identifiers.
func (s *Set) QueryOverlap(a, b rect.ID) (rect.OverlapKind, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ra, ok := s.rects[a]
	if !ok {
		return rect.Disjoint, fmt.Errorf("%w: %s", order.ErrUnknownRectangle, a)
	}
	rb, ok := s.rects[b]
	if !ok {
		return rect.Disjoint, fmt.Errorf("%w: %s", order.ErrUnknownRectangle, b)
	}
	return rect.Overlap(ra, rb), nil
}

// Order resolves the set into a total order, or a conflict report when the
// constraints are cyclic. Exactly one of the results is non-nil.
//
// The result is cached: repeated calls on an unmodified set return the same
// sequences without recomputation. Any insert, removal or constraint change
// invalidates the cache.
func (s *Set) Order() ([]rect.ID, *order.ConflictReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderLocked()
}

func (s *Set) orderLocked() ([]rect.ID, *order.ConflictReport) {
	if !s.resolved {
		ctx := context.Background()
		observability.Resolve().OnBuildStart(ctx, len(s.rects), len(s.cons))
		start := time.Now()
		// The set's invariants make Build infallible here: identifiers are
		// unique and constraints were validated at assertion time.
		g, err := order.Build(s.itemsLocked(), s.cons, s.buildOpts...)
		if err != nil {
			panic(fmt.Sprintf("set: invariant violation: %v", err))
		}
		observability.Resolve().OnBuildComplete(ctx, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)

		observability.Resolve().OnResolveStart(ctx, g.NodeCount(), g.EdgeCount())
		start = time.Now()
		s.lastIDs, s.lastRep = order.Resolve(g, s.resolveOptsLocked()...)
		observability.Resolve().OnResolveComplete(ctx, g.NodeCount(), time.Since(start), s.lastRep != nil)
		s.resolved = true
	}
	if s.lastRep != nil {
		return nil, s.lastRep
	}
	return slices.Clone(s.lastIDs), nil
}

func (s *Set) itemsLocked() []order.Item {
	items := make([]order.Item, len(s.inserts))
	for i, id := range s.inserts {
		items[i] = order.Item{ID: id, Rect: s.rects[id]}
	}
	return items
}

func (s *Set) resolveOptsLocked() []order.ResolveOption {
	switch {
	case s.cmp != nil:
		return []order.ResolveOption{order.WithComparator(s.cmp)}
	case s.areaTieBreak:
		areas := make(map[rect.ID]float64, len(s.rects))
		for id, r := range s.rects {
			areas[id] = r.Area()
		}
		return []order.ResolveOption{order.WithComparator(func(a, b rect.ID) int {
			switch {
			case areas[a] < areas[b]:
				return -1
			case areas[a] > areas[b]:
				return 1
			}
			return strings.Compare(string(a), string(b))
		})}
	}
	return nil
}

// View renders the set as a labeled ASCII grid of at most units cells per
// axis. Rectangles are numbered by their resolved order, 1 being the
// bottom-most. Returns [ErrUnresolved] when the constraints are cyclic.
func (s *Set) View(units int) (string, error) {
	return s.view(units, true)
}

// ViewPlain renders the grid without order labels. Rectangles are still
// drawn bottom to top in the resolved order.
func (s *Set) ViewPlain(units int) (string, error) {
	return s.view(units, false)
}

func (s *Set) view(units int, showOrder bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, conflict := s.orderLocked()
	if conflict != nil {
		return "", fmt.Errorf("%w: %s", ErrUnresolved, conflict)
	}

	rects := make([]rect.Rectangle, len(ids))
	for i, id := range ids {
		rects[i] = s.rects[id]
	}
	grid, err := textview.Discretize(rects, units)
	if err != nil {
		return "", err
	}
	v, err := textview.NewViewer(grid)
	if err != nil {
		return "", err
	}
	return v.Render(showOrder), nil
}

// WriteView writes [Set.View] output plus a trailing newline to w.
func (s *Set) WriteView(w io.Writer, units int) error {
	view, err := s.View(units)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, view)
	return err
}

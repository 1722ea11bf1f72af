// Package cache provides pluggable byte caches for expensive artifacts.
//
// Resolved orderings, text views and rendered graph images are derived
// entirely from a rectangle document, so they cache well: the document
// hash plus the operation options form the key. Three backends exist:
//
//   - FileCache: on-disk cache for CLI usage
//   - RedisCache: shared cache for server deployments
//   - NullCache: disabled caching
//
// Keys are built through the Keyer interface so callers never assemble
// key strings by hand.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with TTL support.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss.
// Errors are reserved for backend failures, not for missing keys.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// OrderKeyOpts captures the options that change a resolved ordering.
type OrderKeyOpts struct {
	Inference     bool   `json:"inference"`
	DisjointEdges bool   `json:"disjoint_edges"`
	TieBreak      string `json:"tie_break"`
}

// ViewKeyOpts captures the options that change a text view. The ordering
// options participate because the resolved order numbers every label.
type ViewKeyOpts struct {
	Order     OrderKeyOpts `json:"order"`
	Units     int          `json:"units"`
	ShowOrder bool         `json:"show_order"`
}

// RenderKeyOpts captures the options that change a graph render. The
// ordering options participate because they decide the edge set and which
// nodes are highlighted.
type RenderKeyOpts struct {
	Order  OrderKeyOpts `json:"order"`
	Format string       `json:"format"`
}

// Keyer generates cache keys for the artifact types.
// docHash is the content hash of the canonical JSON document.
type Keyer interface {
	OrderKey(docHash string, opts OrderKeyOpts) string
	ViewKey(docHash string, opts ViewKeyOpts) string
	RenderKey(docHash string, opts RenderKeyOpts) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// OrderKey generates a key for a resolved ordering.
func (k *DefaultKeyer) OrderKey(docHash string, opts OrderKeyOpts) string {
	return hashKey("order", docHash, opts)
}

// ViewKey generates a key for a rendered text view.
func (k *DefaultKeyer) ViewKey(docHash string, opts ViewKeyOpts) string {
	return hashKey("view", docHash, opts)
}

// RenderKey generates a key for a rendered graph artifact.
func (k *DefaultKeyer) RenderKey(docHash string, opts RenderKeyOpts) string {
	return hashKey("render", docHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)

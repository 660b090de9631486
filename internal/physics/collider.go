// Package physics stores box colliders in a spatial hash and answers the
// overlap queries lights use to find nearby occluders.
package physics

import (
	"sync"

	"chosenoffset.com/polylight/internal/core/geom"
)

// LayerMask is a bit set of physics layers.
type LayerMask int32

const (
	// AllLayers matches every layer.
	AllLayers LayerMask = -1
	// DefaultLayer is the layer new colliders are placed on.
	DefaultLayer LayerMask = 1 << 0
)

// Has reports whether any bit of layer is set in m.
func (m LayerMask) Has(layer LayerMask) bool {
	return m&layer != 0
}

// Collider is an axis-aligned box in world space.
type Collider struct {
	Bounds geom.Rect
	// Layer holds the layer bits this collider lives on.
	Layer LayerMask
	// IsTrigger colliders are reported by queries but do not block light.
	IsTrigger bool
	// Tag is free-form data for the owner (a tile name, an entity id...).
	Tag string

	registered geom.Rect
	world      *World
}

// NewBoxCollider creates a collider on DefaultLayer.
func NewBoxCollider(bounds geom.Rect) *Collider {
	return &Collider{Bounds: bounds, Layer: DefaultLayer}
}

// ColliderScratch is a reusable result buffer for overlap queries. One caller
// at a time may fill and drain it: hold the lock from the query until Clear.
type ColliderScratch struct {
	mu    sync.Mutex
	items []*Collider
}

// NewColliderScratch creates a scratch buffer that holds up to size results.
func NewColliderScratch(size int) *ColliderScratch {
	return &ColliderScratch{items: make([]*Collider, size)}
}

// Lock acquires exclusive use of the buffer.
func (s *ColliderScratch) Lock() { s.mu.Lock() }

// Unlock releases the buffer.
func (s *ColliderScratch) Unlock() { s.mu.Unlock() }

// Items returns the full backing slice; its length is the query capacity.
func (s *ColliderScratch) Items() []*Collider {
	return s.items
}

// Clear drops the first n entries so no collider outlives the frame it was
// queried in. Entries past n are left as they are.
func (s *ColliderScratch) Clear(n int) {
	clear(s.items[:min(n, len(s.items))])
}

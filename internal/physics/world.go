package physics

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"chosenoffset.com/polylight/internal/core/geom"
)

// World owns the registered colliders and their spatial hash. Overlap queries
// may run from several goroutines at once; registration changes wait for them.
type World struct {
	mu        sync.RWMutex
	hash      *SpatialHash
	colliders []*Collider
}

// NewWorld creates an empty world whose hash uses cellSize cells.
func NewWorld(cellSize float32) *World {
	return &World{hash: NewSpatialHash(cellSize)}
}

// Add registers c. Adding a collider twice is a no-op.
func (w *World) Add(c *Collider) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if c.world == w {
		return
	}
	c.world = w
	c.registered = c.Bounds
	w.colliders = append(w.colliders, c)
	w.hash.Insert(c, c.registered)
}

// Remove unregisters c.
func (w *World) Remove(c *Collider) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if c.world != w {
		return
	}
	w.hash.Remove(c, c.registered)
	for i, other := range w.colliders {
		if other == c {
			w.colliders = append(w.colliders[:i], w.colliders[i+1:]...)
			break
		}
	}
	c.world = nil
}

// Update re-hashes c after its Bounds changed.
func (w *World) Update(c *Collider) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if c.world != w || c.registered == c.Bounds {
		return
	}
	w.hash.Remove(c, c.registered)
	c.registered = c.Bounds
	w.hash.Insert(c, c.registered)
}

// Colliders returns every registered collider in insertion order.
func (w *World) Colliders() []*Collider {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.colliders
}

// OverlapCircleAll writes every collider on layerMask that touches the circle
// into results and returns how many were written. At most len(results)
// colliders are reported.
func (w *World) OverlapCircleAll(center mgl32.Vec2, radius float32, results []*Collider, layerMask LayerMask) int {
	if len(results) == 0 {
		return 0
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	count := 0
	broadphase := geom.RectFromCenter(center, mgl32.Vec2{radius, radius})
	w.hash.Query(broadphase, func(c *Collider) bool {
		if !layerMask.Has(c.Layer) {
			return true
		}
		if !c.Bounds.OverlapsCircle(center, radius) {
			return true
		}
		results[count] = c
		count++
		return count < len(results)
	})
	return count
}

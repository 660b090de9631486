package physics

import (
	"math"
	"sync"

	"chosenoffset.com/polylight/internal/core/geom"
)

// SpatialHash buckets colliders by the grid cells their bounds cover.
type SpatialHash struct {
	cellSize float32
	cells    map[uint64][]*Collider

	// dedupe sets for colliders spanning several cells, one per running query
	seen sync.Pool
}

// NewSpatialHash creates a hash with square cells of the given size.
func NewSpatialHash(cellSize float32) *SpatialHash {
	if cellSize <= 0 {
		cellSize = 100
	}
	h := &SpatialHash{
		cellSize: cellSize,
		cells:    make(map[uint64][]*Collider),
	}
	h.seen.New = func() any {
		return make(map[*Collider]struct{})
	}
	return h
}

// Insert registers c under every cell touched by bounds.
func (h *SpatialHash) Insert(c *Collider, bounds geom.Rect) {
	minX, minY, maxX, maxY := h.cellRange(bounds)
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			key := hashKey(x, y)
			h.cells[key] = append(h.cells[key], c)
		}
	}
}

// Remove unregisters c from every cell touched by bounds.
func (h *SpatialHash) Remove(c *Collider, bounds geom.Rect) {
	minX, minY, maxX, maxY := h.cellRange(bounds)
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			key := hashKey(x, y)
			cell := h.cells[key]
			for i, other := range cell {
				if other == c {
					cell = append(cell[:i], cell[i+1:]...)
					break
				}
			}
			if len(cell) == 0 {
				delete(h.cells, key)
			} else {
				h.cells[key] = cell
			}
		}
	}
}

// Clear removes every collider.
func (h *SpatialHash) Clear() {
	clear(h.cells)
}

// Query calls fn once for each collider in the cells covered by bounds, in
// cell order. Iteration stops when fn returns false. Results are broadphase
// candidates; callers test the exact shape themselves. Queries may run
// concurrently with each other but not with Insert, Remove or Clear.
func (h *SpatialHash) Query(bounds geom.Rect, fn func(c *Collider) bool) {
	seen := h.seen.Get().(map[*Collider]struct{})
	defer func() {
		clear(seen)
		h.seen.Put(seen)
	}()

	minX, minY, maxX, maxY := h.cellRange(bounds)
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for _, c := range h.cells[hashKey(x, y)] {
				if _, ok := seen[c]; ok {
					continue
				}
				seen[c] = struct{}{}
				if !fn(c) {
					return
				}
			}
		}
	}
}

func (h *SpatialHash) cellRange(bounds geom.Rect) (minX, minY, maxX, maxY int) {
	return h.cellIndex(bounds.Left()), h.cellIndex(bounds.Top()),
		h.cellIndex(bounds.Right()), h.cellIndex(bounds.Bottom())
}

func (h *SpatialHash) cellIndex(pos float32) int {
	return int(math.Floor(float64(pos / h.cellSize)))
}

// hashKey mixes cell coordinates with large primes.
func hashKey(x, y int) uint64 {
	const p1 = 73856093
	const p2 = 19349663
	return uint64(x*p1 ^ y*p2)
}

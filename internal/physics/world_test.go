package physics

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/polylight/internal/core/geom"
)

func TestSpatialHashInsertionAndQuery(t *testing.T) {
	hash := NewSpatialHash(2.0)

	c1 := NewBoxCollider(geom.NewRect(0, 0, 1, 1))
	c2 := NewBoxCollider(geom.NewRect(3, 3, 1, 1))
	hash.Insert(c1, c1.Bounds)
	hash.Insert(c2, c2.Bounds)

	collect := func(r geom.Rect) []*Collider {
		var out []*Collider
		hash.Query(r, func(c *Collider) bool {
			out = append(out, c)
			return true
		})
		return out
	}

	assert.Equal(t, []*Collider{c1}, collect(c1.Bounds))
	assert.Equal(t, []*Collider{c2}, collect(c2.Bounds))
	// cells 0 and 1 on both axes
	assert.Len(t, collect(geom.NewRect(1, 1, 2, 2)), 2)

	hash.Remove(c1, c1.Bounds)
	assert.Empty(t, collect(c1.Bounds))
}

func TestSpatialHashQueryDeduplicates(t *testing.T) {
	hash := NewSpatialHash(1.0)
	wide := NewBoxCollider(geom.NewRect(0, 0, 5, 5))
	hash.Insert(wide, wide.Bounds)

	calls := 0
	hash.Query(geom.NewRect(0, 0, 5, 5), func(c *Collider) bool {
		calls++
		return true
	})
	assert.Equal(t, 1, calls)
}

func TestOverlapCircleAll(t *testing.T) {
	w := NewWorld(32)
	near := NewBoxCollider(geom.NewRect(10, -5, 10, 10))
	far := NewBoxCollider(geom.NewRect(200, 200, 10, 10))
	corner := NewBoxCollider(geom.NewRect(40, 40, 10, 10)) // inside the broadphase square, outside the circle
	w.Add(near)
	w.Add(far)
	w.Add(corner)

	results := make([]*Collider, 10)
	n := w.OverlapCircleAll(mgl32.Vec2{0, 0}, 50, results, AllLayers)

	require.Equal(t, 1, n)
	assert.Same(t, near, results[0])
	assert.Nil(t, results[1], "entries past the count are untouched")
}

func TestOverlapCircleAllLayerMask(t *testing.T) {
	w := NewWorld(32)
	walls := NewBoxCollider(geom.NewRect(0, 0, 10, 10))
	glass := NewBoxCollider(geom.NewRect(0, 0, 10, 10))
	glass.Layer = 1 << 3
	w.Add(walls)
	w.Add(glass)

	results := make([]*Collider, 4)
	assert.Equal(t, 2, w.OverlapCircleAll(mgl32.Vec2{5, 5}, 20, results, AllLayers))
	assert.Equal(t, 1, w.OverlapCircleAll(mgl32.Vec2{5, 5}, 20, results, DefaultLayer))
	assert.Same(t, walls, results[0])
	assert.Equal(t, 0, w.OverlapCircleAll(mgl32.Vec2{5, 5}, 20, results, 1<<5))
}

func TestOverlapCircleAllRespectsCapacity(t *testing.T) {
	w := NewWorld(16)
	for i := 0; i < 8; i++ {
		w.Add(NewBoxCollider(geom.NewRect(float32(i*4), 0, 2, 2)))
	}

	results := make([]*Collider, 3)
	assert.Equal(t, 3, w.OverlapCircleAll(mgl32.Vec2{16, 0}, 100, results, AllLayers))
	assert.Equal(t, 0, w.OverlapCircleAll(mgl32.Vec2{16, 0}, 100, nil, AllLayers))
}

func TestOverlapCircleAllConcurrentQueries(t *testing.T) {
	w := NewWorld(8)
	// each box spans several cells so the dedupe set is exercised
	for i := 0; i < 16; i++ {
		w.Add(NewBoxCollider(geom.NewRect(float32(i*20), 0, 18, 18)))
	}

	const workers = 4
	counts := make([]int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results := make([]*Collider, 32)
			for frame := 0; frame < 200; frame++ {
				counts[i] = w.OverlapCircleAll(mgl32.Vec2{160, 9}, 400, results, AllLayers)
			}
		}(i)
	}
	wg.Wait()

	for _, n := range counts {
		assert.Equal(t, 16, n)
	}
}

func TestWorldUpdateAndRemove(t *testing.T) {
	w := NewWorld(10)
	c := NewBoxCollider(geom.NewRect(0, 0, 5, 5))
	w.Add(c)
	w.Add(c)
	require.Len(t, w.Colliders(), 1)

	c.Bounds = geom.NewRect(100, 100, 5, 5)
	w.Update(c)

	results := make([]*Collider, 2)
	assert.Equal(t, 0, w.OverlapCircleAll(mgl32.Vec2{2, 2}, 5, results, AllLayers))
	assert.Equal(t, 1, w.OverlapCircleAll(mgl32.Vec2{102, 102}, 5, results, AllLayers))

	w.Remove(c)
	assert.Empty(t, w.Colliders())
	assert.Equal(t, 0, w.OverlapCircleAll(mgl32.Vec2{102, 102}, 5, results, AllLayers))
}

func TestColliderScratchClear(t *testing.T) {
	s := NewColliderScratch(4)
	c := NewBoxCollider(geom.NewRect(0, 0, 1, 1))
	items := s.Items()
	items[0], items[1], items[3] = c, c, c

	s.Clear(2)
	assert.Nil(t, items[0])
	assert.Nil(t, items[1])
	assert.Same(t, c, items[3], "only the used entries are cleared")

	s.Clear(99)
	assert.Nil(t, items[3])
}

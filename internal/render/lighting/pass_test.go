package lighting

import (
	"errors"
	"image/color"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/polylight/internal/core/geom"
	"chosenoffset.com/polylight/internal/physics"
	"chosenoffset.com/polylight/internal/render"
)

type passFixture struct {
	query   *fakeQuery
	scratch *physics.ColliderScratch
	solver  *fakeSolver
	submit  *fakeSubmitter
	surface *fakeSurface
	pass    *Pass
}

func newPassFixture() *passFixture {
	f := &passFixture{
		query:   &fakeQuery{},
		scratch: physics.NewColliderScratch(10),
		solver:  &fakeSolver{},
		submit:  &fakeSubmitter{},
		surface: newFakeSurface(),
	}
	f.pass = NewPass(f.query, f.scratch, f.submit)
	return f
}

func (f *passFixture) light(radius float32, opts ...Option) *PolygonLight {
	l := NewPolygonLight(radius, append([]Option{WithSolver(f.solver)}, opts...)...)
	l.Bind(f.surface)
	return l
}

func TestRenderSquareBoundary(t *testing.T) {
	f := newPassFixture()
	f.solver.frames = [][]mgl32.Vec2{{{-50, -50}, {50, -50}, {50, 50}, {-50, 50}}}
	l := f.light(50)

	result, err := f.pass.Render(l, wideCamera())
	require.NoError(t, err)
	assert.Equal(t, Submitted, result)

	require.Len(t, f.submit.calls, 1)
	call := f.submit.calls[0]
	assert.Equal(t, 5, call.VertexCount)
	assert.GreaterOrEqual(t, len(call.Indices), 4*3)
	assert.Equal(t, 2, call.PrimitiveCount, "vertex count halved, not the fan triangle count")
	assert.Equal(t, render.TriangleList, call.PrimitiveType)
	assert.Same(t, f.surface, call.Effect)
	assert.Equal(t, 1, f.solver.released)
}

func TestRenderPowerOffDoesNoWork(t *testing.T) {
	f := newPassFixture()
	f.solver.frames = [][]mgl32.Vec2{{{0, 0}, {1, 0}}}
	l := f.light(50, WithPower(0))

	result, err := f.pass.Render(l, wideCamera())
	require.NoError(t, err)
	assert.Equal(t, SkippedPowerOff, result)
	assert.Zero(t, f.query.calls)
	assert.Zero(t, f.solver.begins)
	assert.Empty(t, f.submit.calls)
}

func TestRenderKeepsIndexHighWaterMark(t *testing.T) {
	f := newPassFixture()
	f.solver.frames = [][]mgl32.Vec2{
		ring(3, mgl32.Vec2{}, 20),
		ring(10, mgl32.Vec2{}, 20),
		ring(3, mgl32.Vec2{}, 20),
	}
	l := f.light(20, WithTriangleHint(0))

	want := []int{3, 10, 10}
	for frame, capacity := range want {
		_, err := f.pass.Render(l, wideCamera())
		require.NoError(t, err)
		assert.Equal(t, capacity, l.Mesh().TriangleCapacity(), "frame %d", frame)
	}
	assert.Equal(t, 4, f.submit.calls[2].VertexCount)
}

func TestRenderNotVisible(t *testing.T) {
	f := newPassFixture()
	l := f.light(10, WithPosition(mgl32.Vec2{1000, 1000}))
	cam := fakeCamera{bounds: geom.NewRect(0, 0, 100, 100)}

	result, err := f.pass.Render(l, cam)
	require.NoError(t, err)
	assert.Equal(t, SkippedNotVisible, result)
	assert.Zero(t, f.query.calls)
}

func TestRenderWithoutCulling(t *testing.T) {
	f := newPassFixture()
	f.pass = NewPass(f.query, f.scratch, f.submit, WithoutCulling())
	f.solver.frames = [][]mgl32.Vec2{ring(4, mgl32.Vec2{1000, 1000}, 10)}
	l := f.light(10, WithPosition(mgl32.Vec2{1000, 1000}))

	result, err := f.pass.Render(l, fakeCamera{bounds: geom.NewRect(0, 0, 100, 100)})
	require.NoError(t, err)
	assert.Equal(t, Submitted, result)
}

func TestRenderDegenerateBoundary(t *testing.T) {
	f := newPassFixture()
	f.solver.frames = [][]mgl32.Vec2{{{5, 0}}}
	l := f.light(10)

	result, err := f.pass.Render(l, wideCamera())
	require.NoError(t, err)
	assert.Equal(t, SkippedDegenerate, result)
	assert.Equal(t, 1, f.query.calls)
	assert.Empty(t, f.submit.calls)
}

func TestRenderSkipsTriggersAndClearsScratch(t *testing.T) {
	f := newPassFixture()
	wall := physics.NewBoxCollider(geom.NewRect(5, 0, 2, 2))
	trigger := physics.NewBoxCollider(geom.NewRect(-5, 0, 2, 2))
	trigger.IsTrigger = true
	f.query.colliders = []*physics.Collider{wall, trigger}
	f.solver.frames = [][]mgl32.Vec2{ring(4, mgl32.Vec2{}, 10)}
	l := f.light(10, WithLayers(1<<2))

	_, err := f.pass.Render(l, wideCamera())
	require.NoError(t, err)

	assert.Equal(t, []geom.Rect{wall.Bounds}, f.solver.added)
	assert.Equal(t, physics.LayerMask(1<<2), f.query.lastMask)
	assert.Equal(t, 10, f.query.lastCap)
	for i, c := range f.scratch.Items() {
		assert.Nil(t, c, "scratch entry %d", i)
	}
}

func TestRenderSetsParameters(t *testing.T) {
	f := newPassFixture()
	f.solver.frames = [][]mgl32.Vec2{ring(4, mgl32.Vec2{3, 4}, 10)}
	l := f.light(10,
		WithPosition(mgl32.Vec2{3, 4}),
		WithColor(color.NRGBA{R: 255, G: 0, B: 102, A: 255}),
		WithPower(0.5),
	)
	cam := wideCamera()
	cam.vp = mgl32.Ortho2D(0, 100, 100, 0)

	_, err := f.pass.Render(l, cam)
	require.NoError(t, err)

	assert.Equal(t, cam.vp, f.surface.mats[render.ParamViewProjectionMatrix])
	assert.Equal(t, mgl32.Vec3{3, 4, 0}, f.surface.vecs[render.ParamLightSource])
	assert.InDelta(t, 0.5, f.surface.vecs[render.ParamLightColor].X(), 1e-6)
	assert.InDelta(t, 0.2, f.surface.vecs[render.ParamLightColor].Z(), 1e-6)
	assert.Equal(t, float32(10), f.surface.floats[render.ParamLightRadius])
}

func TestRenderWrapsSubmitError(t *testing.T) {
	f := newPassFixture()
	boom := errors.New("device lost")
	f.submit.err = boom
	f.solver.frames = [][]mgl32.Vec2{ring(4, mgl32.Vec2{}, 10)}

	_, err := f.pass.Render(f.light(10), wideCamera())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestRenderWithoutEffect(t *testing.T) {
	f := newPassFixture()
	l := NewPolygonLight(10, WithSolver(f.solver))

	_, err := f.pass.Render(l, wideCamera())
	assert.ErrorIs(t, err, ErrNoEffect)
	assert.Zero(t, f.query.calls)
}

func TestRenderIndexUnderflow(t *testing.T) {
	f := newPassFixture()
	// more boundary points than uint16 indices can address
	f.solver.frames = [][]mgl32.Vec2{make([]mgl32.Vec2, 2*maxTriangles+4)}
	l := f.light(10)

	_, err := f.pass.Render(l, wideCamera())
	assert.ErrorIs(t, err, ErrIndexUnderflow)
	assert.Empty(t, f.submit.calls)
}

func TestRenderWithWorldAndVisibilityComputer(t *testing.T) {
	world := physics.NewWorld(32)
	world.Add(physics.NewBoxCollider(geom.NewRect(30, -10, 20, 20)))
	world.Add(physics.NewBoxCollider(geom.NewRect(400, 400, 20, 20)))

	submit := &fakeSubmitter{}
	pass := NewPass(world, physics.NewColliderScratch(10), submit)
	l := NewPolygonLight(100)
	l.Bind(newFakeSurface())

	result, err := pass.Render(l, wideCamera())
	require.NoError(t, err)
	require.Equal(t, Submitted, result)

	call := submit.calls[0]
	points := call.VertexCount - 1
	assert.Zero(t, points%2, "boundary arrives in wedge pairs")
	assert.Equal(t, points/2, call.PrimitiveCount)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, call.Vertices[0].Position)

	bounds := l.Bounds()
	for _, v := range call.Vertices[:call.VertexCount] {
		assert.True(t, v.UV.X() >= bounds.Left()-1e-3 && v.UV.X() <= bounds.Right()+1e-3, "x %v", v.UV)
		assert.True(t, v.UV.Y() >= bounds.Top()-1e-3 && v.UV.Y() <= bounds.Bottom()+1e-3, "y %v", v.UV)
	}
	for _, idx := range call.Indices[:call.PrimitiveCount*3] {
		assert.Less(t, int(idx), call.VertexCount)
	}
}

// countingQuery records how many queries overlap in time.
type countingQuery struct {
	world    *physics.World
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (q *countingQuery) OverlapCircleAll(center mgl32.Vec2, radius float32, results []*physics.Collider, mask physics.LayerMask) int {
	n := q.inFlight.Add(1)
	defer q.inFlight.Add(-1)
	for {
		peak := q.peak.Load()
		if n <= peak || q.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	return q.world.OverlapCircleAll(center, radius, results, mask)
}

func sharedWorld() *physics.World {
	world := physics.NewWorld(16)
	for i := 0; i < 8; i++ {
		world.Add(physics.NewBoxCollider(geom.NewRect(float32(i*30-120), 40, 20, 20)))
	}
	return world
}

// renderConcurrently renders one light per pass from its own goroutine and
// returns every pass's submitted calls.
func renderConcurrently(t *testing.T, query OccluderQuery, scratches []*physics.ColliderScratch) [][]render.DrawCall {
	t.Helper()

	const frames = 50
	submits := make([]*fakeSubmitter, len(scratches))
	errs := make([]error, len(scratches))
	var wg sync.WaitGroup
	for i, scratch := range scratches {
		submits[i] = &fakeSubmitter{}
		pass := NewPass(query, scratch, submits[i])
		l := NewPolygonLight(150, WithPosition(mgl32.Vec2{float32(i * 10), 0}))
		l.Bind(newFakeSurface())

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for frame := 0; frame < frames; frame++ {
				if _, err := pass.Render(l, wideCamera()); err != nil {
					errs[i] = err
					return
				}
			}
		}(i)
	}
	wg.Wait()

	calls := make([][]render.DrawCall, len(scratches))
	for i := range scratches {
		require.NoError(t, errs[i])
		require.Len(t, submits[i].calls, frames)
		calls[i] = submits[i].calls
	}
	return calls
}

func TestRenderPassesWithOwnScratchShareWorld(t *testing.T) {
	world := sharedWorld()
	scratches := []*physics.ColliderScratch{
		physics.NewColliderScratch(10),
		physics.NewColliderScratch(10),
		physics.NewColliderScratch(10),
	}

	calls := renderConcurrently(t, world, scratches)

	for i, perPass := range calls {
		submit := &fakeSubmitter{}
		l := NewPolygonLight(150, WithPosition(mgl32.Vec2{float32(i * 10), 0}))
		l.Bind(newFakeSurface())
		_, err := NewPass(world, physics.NewColliderScratch(10), submit).Render(l, wideCamera())
		require.NoError(t, err)
		want := submit.calls[0].VertexCount

		for _, call := range perPass {
			assert.Equal(t, want, call.VertexCount, "pass %d sees the same occluders as a lone render", i)
		}
	}
	for _, s := range scratches {
		for _, c := range s.Items() {
			assert.Nil(t, c)
		}
	}
}

func TestRenderSharedScratchIsSingleWriter(t *testing.T) {
	query := &countingQuery{world: sharedWorld()}
	scratch := physics.NewColliderScratch(10)

	renderConcurrently(t, query, []*physics.ColliderScratch{scratch, scratch, scratch, scratch})

	assert.Equal(t, int32(1), query.peak.Load(), "queries through one scratch never overlap")
	for _, c := range scratch.Items() {
		assert.Nil(t, c)
	}
}

func TestFrameResultString(t *testing.T) {
	assert.Equal(t, "submitted", Submitted.String())
	assert.Equal(t, "power off", SkippedPowerOff.String())
	assert.Equal(t, "FrameResult(9)", FrameResult(9).String())
}

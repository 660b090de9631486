package lighting

import (
	"github.com/go-gl/mathgl/mgl32"

	"chosenoffset.com/polylight/internal/core/geom"
	"chosenoffset.com/polylight/internal/physics"
	"chosenoffset.com/polylight/internal/render"
)

type fakeSurface struct {
	floats     map[string]float32
	vecs       map[string]mgl32.Vec3
	mats       map[string]mgl32.Mat4
	floatCalls int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		floats: make(map[string]float32),
		vecs:   make(map[string]mgl32.Vec3),
		mats:   make(map[string]mgl32.Mat4),
	}
}

func (s *fakeSurface) SetFloat(name string, v float32) {
	s.floatCalls++
	s.floats[name] = v
}

func (s *fakeSurface) SetVec3(name string, v mgl32.Vec3)  { s.vecs[name] = v }
func (s *fakeSurface) SetMatrix(name string, m mgl32.Mat4) { s.mats[name] = m }

type fakeQuery struct {
	colliders []*physics.Collider
	calls     int
	lastMask  physics.LayerMask
	lastCap   int
}

func (q *fakeQuery) OverlapCircleAll(center mgl32.Vec2, radius float32, results []*physics.Collider, mask physics.LayerMask) int {
	q.calls++
	q.lastMask = mask
	q.lastCap = len(results)
	return copy(results, q.colliders)
}

// fakeSolver returns one scripted boundary per frame, repeating the last.
type fakeSolver struct {
	frames   [][]mgl32.Vec2
	frame    int
	begins   int
	added    []geom.Rect
	released int
}

func (s *fakeSolver) Begin(mgl32.Vec2, float32) {
	s.begins++
	s.added = s.added[:0]
}

func (s *fakeSolver) AddSquareOccluder(r geom.Rect) { s.added = append(s.added, r) }

func (s *fakeSolver) End() []mgl32.Vec2 {
	if len(s.frames) == 0 {
		return nil
	}
	i := min(s.frame, len(s.frames)-1)
	s.frame++
	return s.frames[i]
}

func (s *fakeSolver) Release([]mgl32.Vec2) { s.released++ }

type fakeSubmitter struct {
	calls []render.DrawCall
	err   error
}

func (s *fakeSubmitter) DrawIndexed(call render.DrawCall) error {
	s.calls = append(s.calls, call)
	return s.err
}

type fakeCamera struct {
	bounds geom.Rect
	vp     mgl32.Mat4
}

func (c fakeCamera) Bounds() geom.Rect          { return c.bounds }
func (c fakeCamera) ViewProjection() mgl32.Mat4 { return c.vp }

func wideCamera() fakeCamera {
	return fakeCamera{bounds: geom.NewRect(-500, -500, 1000, 1000), vp: mgl32.Ident4()}
}

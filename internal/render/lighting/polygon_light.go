// Package lighting renders 2D point lights that cast hard shadows from box
// colliders. Each light owns a triangle-fan mesh rebuilt every frame from the
// visible region around it.
package lighting

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"chosenoffset.com/polylight/internal/core/dirty"
	"chosenoffset.com/polylight/internal/core/geom"
	"chosenoffset.com/polylight/internal/core/shadows"
	"chosenoffset.com/polylight/internal/physics"
	"chosenoffset.com/polylight/internal/render"
)

// VisibilitySolver computes the lit boundary around a light.
type VisibilitySolver interface {
	Begin(center mgl32.Vec2, radius float32)
	AddSquareOccluder(bounds geom.Rect)
	// End returns the boundary points. The caller hands them back via Release.
	End() []mgl32.Vec2
	Release(points []mgl32.Vec2)
}

// PolygonLight is a point light whose lit area is clipped by colliders.
type PolygonLight struct {
	// ID identifies the light in a Manager.
	ID string
	// Color tints the light.
	Color color.NRGBA
	// CollidesWithLayers selects which collider layers cast shadows.
	CollidesWithLayers physics.LayerMask

	radius      float32
	power       float32
	position    mgl32.Vec2
	localOffset mgl32.Vec2
	bounds      *dirty.Value[geom.Rect]

	surface      render.ParameterSurface
	solver       VisibilitySolver
	mesh         *Mesh
	triangleHint int
}

// Option configures a PolygonLight.
type Option func(*PolygonLight)

// WithColor sets the light colour.
func WithColor(c color.NRGBA) Option {
	return func(l *PolygonLight) { l.Color = c }
}

// WithPower sets the initial power.
func WithPower(p float32) Option {
	return func(l *PolygonLight) { l.power = p }
}

// WithLayers sets the layers that block the light.
func WithLayers(m physics.LayerMask) Option {
	return func(l *PolygonLight) { l.CollidesWithLayers = m }
}

// WithPosition places the light.
func WithPosition(p mgl32.Vec2) Option {
	return func(l *PolygonLight) { l.position = p }
}

// WithLocalOffset offsets the light from its position.
func WithLocalOffset(o mgl32.Vec2) Option {
	return func(l *PolygonLight) { l.localOffset = o }
}

// WithTriangleHint sets how many triangles the mesh provisions up front.
func WithTriangleHint(n int) Option {
	return func(l *PolygonLight) { l.triangleHint = n }
}

// WithSolver replaces the default visibility solver.
func WithSolver(s VisibilitySolver) Option {
	return func(l *PolygonLight) { l.solver = s }
}

// NewPolygonLight creates a white light at full power.
func NewPolygonLight(radius float32, opts ...Option) *PolygonLight {
	l := &PolygonLight{
		ID:                 uuid.NewString(),
		Color:              color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		CollidesWithLayers: physics.AllLayers,
		radius:             radius,
		power:              1,
		triangleHint:       DefaultTriangleHint,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.solver == nil {
		l.solver = shadows.NewVisibilityComputer()
	}
	l.mesh = NewMesh(l.triangleHint)
	l.bounds = dirty.New(l.computeBounds)
	return l
}

func (l *PolygonLight) computeBounds() geom.Rect {
	size := l.radius * 2
	return geom.CalculateBounds(l.position, l.localOffset, mgl32.Vec2{l.radius, l.radius},
		mgl32.Vec2{1, 1}, 0, size, size)
}

// Radius returns the influence radius.
func (l *PolygonLight) Radius() float32 { return l.radius }

// SetRadius changes the radius and pushes it to the bound effect.
func (l *PolygonLight) SetRadius(r float32) {
	if r == l.radius {
		return
	}
	l.radius = r
	l.bounds.Invalidate()
	if l.surface != nil {
		l.surface.SetFloat(render.ParamLightRadius, r)
	}
}

// Power returns the light power.
func (l *PolygonLight) Power() float32 { return l.power }

// SetPower sets the power. Zero or less turns the light off.
func (l *PolygonLight) SetPower(p float32) { l.power = p }

// Enabled reports whether the light has any power.
func (l *PolygonLight) Enabled() bool { return l.power > 0 }

// Position returns the light's anchor position.
func (l *PolygonLight) Position() mgl32.Vec2 { return l.position }

// SetPosition moves the light.
func (l *PolygonLight) SetPosition(p mgl32.Vec2) {
	if p == l.position {
		return
	}
	l.position = p
	l.bounds.Invalidate()
}

// LocalOffset returns the offset from Position.
func (l *PolygonLight) LocalOffset() mgl32.Vec2 { return l.localOffset }

// SetLocalOffset moves the light relative to its position.
func (l *PolygonLight) SetLocalOffset(o mgl32.Vec2) {
	if o == l.localOffset {
		return
	}
	l.localOffset = o
	l.bounds.Invalidate()
}

// Center is the world position the light shines from.
func (l *PolygonLight) Center() mgl32.Vec2 {
	return l.position.Add(l.localOffset)
}

// Width is the diameter of the light.
func (l *PolygonLight) Width() float32 { return l.radius * 2 }

// Height is the diameter of the light.
func (l *PolygonLight) Height() float32 { return l.radius * 2 }

// Bounds returns the square the light covers, recomputed only after the
// radius or the position changed.
func (l *PolygonLight) Bounds() geom.Rect {
	return l.bounds.Get()
}

// Bind attaches the effect that receives the light's shader parameters.
func (l *PolygonLight) Bind(surface render.ParameterSurface) {
	l.surface = surface
	if surface != nil {
		surface.SetFloat(render.ParamLightRadius, l.radius)
	}
}

// Surface returns the bound effect, or nil.
func (l *PolygonLight) Surface() render.ParameterSurface { return l.surface }

// Mesh returns the light's mesh as built by the last rendered frame.
func (l *PolygonLight) Mesh() *Mesh { return l.mesh }

// scaledColor is the colour premultiplied by power, in [0,1] per channel.
func (l *PolygonLight) scaledColor() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(l.Color.R) / 255,
		float32(l.Color.G) / 255,
		float32(l.Color.B) / 255,
	}.Mul(l.power)
}

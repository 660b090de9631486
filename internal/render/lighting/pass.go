package lighting

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"chosenoffset.com/polylight/internal/core/geom"
	"chosenoffset.com/polylight/internal/logging"
	"chosenoffset.com/polylight/internal/physics"
	"chosenoffset.com/polylight/internal/render"
)

var (
	// ErrIndexUnderflow means a draw would read past the provisioned indices.
	ErrIndexUnderflow = errors.New("lighting: primitive count exceeds provisioned indices")
	// ErrNoEffect means the light was rendered before an effect was bound.
	ErrNoEffect = errors.New("lighting: light has no effect bound")
)

// OccluderQuery finds colliders near a point.
type OccluderQuery interface {
	OverlapCircleAll(center mgl32.Vec2, radius float32, results []*physics.Collider, layerMask physics.LayerMask) int
}

// Camera is what the pass culls and projects against.
type Camera interface {
	Bounds() geom.Rect
	ViewProjection() mgl32.Mat4
}

// FrameResult tells what Render did with a light.
type FrameResult int

const (
	// Submitted means the mesh was drawn.
	Submitted FrameResult = iota
	// SkippedPowerOff means the light has no power.
	SkippedPowerOff
	// SkippedNotVisible means the light is outside the camera.
	SkippedNotVisible
	// SkippedDegenerate means fewer than three vertices were produced.
	SkippedDegenerate
)

func (r FrameResult) String() string {
	switch r {
	case Submitted:
		return "submitted"
	case SkippedPowerOff:
		return "power off"
	case SkippedNotVisible:
		return "not visible"
	case SkippedDegenerate:
		return "degenerate"
	default:
		return fmt.Sprintf("FrameResult(%d)", int(r))
	}
}

// Pass renders lights one at a time. The collider scratch may be shared
// between passes; it is locked while a light consumes it.
type Pass struct {
	query   OccluderQuery
	scratch *physics.ColliderScratch
	submit  render.Submitter
	culling bool
}

// PassOption configures a Pass.
type PassOption func(*Pass)

// WithoutCulling renders lights even when they are outside the camera.
func WithoutCulling() PassOption {
	return func(p *Pass) { p.culling = false }
}

// NewPass creates a pass that finds occluders through query, using scratch as
// the result buffer, and draws through submit.
func NewPass(query OccluderQuery, scratch *physics.ColliderScratch, submit render.Submitter, opts ...PassOption) *Pass {
	p := &Pass{
		query:   query,
		scratch: scratch,
		submit:  submit,
		culling: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetSubmitter changes where meshes are drawn.
func (p *Pass) SetSubmitter(s render.Submitter) {
	p.submit = s
}

// Render builds the light's mesh for this frame and submits it.
func (p *Pass) Render(light *PolygonLight, cam Camera) (FrameResult, error) {
	if light.power <= 0 {
		return SkippedPowerOff, nil
	}
	if p.culling && !cam.Bounds().Intersects(light.Bounds()) {
		return SkippedNotVisible, nil
	}
	if light.surface == nil {
		return SkippedDegenerate, fmt.Errorf("%w: light %s", ErrNoEffect, light.ID)
	}

	center := light.Center()
	p.collectOccluders(light, center)

	points := light.solver.End()
	light.mesh.Build(center, points)
	light.solver.Release(points)

	mesh := light.mesh
	if !mesh.Drawable() {
		logging.Logger().Debug("light skipped", "light", light.ID, "vertices", mesh.VertexCount())
		return SkippedDegenerate, nil
	}

	surface := light.surface
	surface.SetMatrix(render.ParamViewProjectionMatrix, cam.ViewProjection())
	surface.SetVec3(render.ParamLightSource, center.Vec3(0))
	surface.SetVec3(render.ParamLightColor, light.scaledColor())
	surface.SetFloat(render.ParamLightRadius, light.radius)

	primitives := mesh.PrimitiveCount()
	indices := mesh.Indices()
	if primitives*3 > len(indices) {
		return SkippedDegenerate, fmt.Errorf("%w: %d primitives, %d indices", ErrIndexUnderflow, primitives, len(indices))
	}

	err := p.submit.DrawIndexed(render.DrawCall{
		Effect:         surface,
		Vertices:       mesh.Vertices(),
		VertexCount:    mesh.VertexCount(),
		Indices:        indices,
		PrimitiveCount: primitives,
		PrimitiveType:  render.TriangleList,
	})
	if err != nil {
		return SkippedDegenerate, fmt.Errorf("failed to submit light %s: %w", light.ID, err)
	}
	return Submitted, nil
}

// collectOccluders feeds every solid collider near the light to its solver.
// The scratch is held from the query until its entries are cleared.
func (p *Pass) collectOccluders(light *PolygonLight, center mgl32.Vec2) {
	p.scratch.Lock()
	defer p.scratch.Unlock()

	items := p.scratch.Items()
	n := p.query.OverlapCircleAll(center, light.radius, items, light.CollidesWithLayers)

	light.solver.Begin(center, light.radius)
	for _, c := range items[:n] {
		if c.IsTrigger {
			continue
		}
		light.solver.AddSquareOccluder(c.Bounds)
	}
	p.scratch.Clear(n)
}

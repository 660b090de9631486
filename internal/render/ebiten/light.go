package ebiten

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"chosenoffset.com/polylight/internal/core/buffer"
	"chosenoffset.com/polylight/internal/logging"
	"chosenoffset.com/polylight/internal/render"
)

//go:embed shaders/polygon_light.kage
var polygonLightShader []byte

// ErrForeignEffect is returned when a draw call carries an effect that was
// not created by this backend.
var ErrForeignEffect = errors.New("ebiten: effect was not created by this backend")

// uniformNames maps light parameter names to Kage uniform names.
var uniformNames = map[string]string{
	render.ParamLightRadius: "LightRadius",
	render.ParamLightSource: "LightSource",
	render.ParamLightColor:  "LightColor",
}

// LightEffect is the compiled polygon light shader and its uniforms. The
// view-projection matrix is applied to vertices on the CPU before drawing.
type LightEffect struct {
	shader         *ebiten.Shader
	uniforms       map[string]any
	viewProjection mgl32.Mat4
}

// NewLightEffect compiles the polygon light shader.
func NewLightEffect() (*LightEffect, error) {
	shader, err := ebiten.NewShader(polygonLightShader)
	if err != nil {
		return nil, fmt.Errorf("failed to compile polygon light shader: %w", err)
	}
	return &LightEffect{
		shader:         shader,
		uniforms:       make(map[string]any, len(uniformNames)),
		viewProjection: mgl32.Ident4(),
	}, nil
}

// SetFloat sets a float uniform. Unknown names are ignored.
func (e *LightEffect) SetFloat(name string, v float32) {
	if u, ok := uniformNames[name]; ok {
		e.uniforms[u] = v
	}
}

// SetVec3 sets a vec3 uniform. Unknown names are ignored.
func (e *LightEffect) SetVec3(name string, v mgl32.Vec3) {
	if u, ok := uniformNames[name]; ok {
		e.uniforms[u] = []float32{v.X(), v.Y(), v.Z()}
	}
}

// SetMatrix stores the view-projection matrix.
func (e *LightEffect) SetMatrix(name string, m mgl32.Mat4) {
	if name == render.ParamViewProjectionMatrix {
		e.viewProjection = m
	}
}

// Dispose releases the shader.
func (e *LightEffect) Dispose() {
	if e.shader != nil {
		e.shader.Dispose()
	}
}

// LightTarget draws light meshes additively onto an image.
type LightTarget struct {
	dst      *ebiten.Image
	vertices *buffer.List[ebiten.Vertex]
	indices  []uint16
}

// NewLightTarget creates a target drawing onto dst.
func NewLightTarget(dst render.Image) *LightTarget {
	return &LightTarget{
		dst:      unwrap(dst),
		vertices: buffer.New[ebiten.Vertex](64),
	}
}

// DrawIndexed projects the call's vertices to the target and draws the
// triangles they reach with the light shader.
func (t *LightTarget) DrawIndexed(call render.DrawCall) error {
	effect, ok := call.Effect.(*LightEffect)
	if !ok {
		return fmt.Errorf("%w: %T", ErrForeignEffect, call.Effect)
	}
	if call.PrimitiveType != render.TriangleList {
		return fmt.Errorf("ebiten: unsupported primitive type %d", call.PrimitiveType)
	}

	w, h := t.dst.Bounds().Dx(), t.dst.Bounds().Dy()
	t.vertices.Reset()
	for _, v := range call.Vertices[:call.VertexCount] {
		x, y := render.ProjectToScreen(effect.viewProjection, v.Position, w, h)
		t.vertices.Add(ebiten.Vertex{
			DstX:   x,
			DstY:   y,
			SrcX:   v.UV.X(),
			SrcY:   v.UV.Y(),
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: 1,
		})
	}

	var dropped int
	t.indices, dropped = render.AppendReachableIndices(t.indices[:0], call)
	if dropped > 0 {
		logging.Logger().Debug("dropped light triangles past the vertex count",
			"dropped", dropped, "vertices", call.VertexCount, "primitives", call.PrimitiveCount)
	}
	if len(t.indices) == 0 {
		return nil
	}

	t.dst.DrawTrianglesShader(t.vertices.Items(), t.indices, effect.shader, &ebiten.DrawTrianglesShaderOptions{
		Uniforms: effect.uniforms,
		Blend:    ebiten.BlendLighter,
	})
	return nil
}

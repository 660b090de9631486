package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"chosenoffset.com/polylight/internal/core/buffer"
	"chosenoffset.com/polylight/internal/logging"
	"chosenoffset.com/polylight/internal/render"
)

// DefaultTriangleHint is how many fan triangles a new light provisions.
const DefaultTriangleHint = 20

// maxTriangles is the largest fan whose indices fit in uint16: triangle k
// references vertex 2k+2.
const maxTriangles = math.MaxUint16 / 2

// Mesh is a triangle fan around a light: vertex 0 is the centre and every
// following vertex is a boundary point. Vertices and indices are kept between
// frames and only ever grow.
type Mesh struct {
	vertices *buffer.List[render.LightVertex]
	indices  *buffer.List[uint16]
}

// NewMesh creates a mesh with index storage for triangleHint triangles.
func NewMesh(triangleHint int) *Mesh {
	m := &Mesh{
		vertices: buffer.New[render.LightVertex](triangleHint + 1),
		indices:  buffer.New[uint16](triangleHint * 3),
	}
	m.computeTriangleIndices(triangleHint)
	return m
}

// computeTriangleIndices rewrites the index list with count triangles
// (0, 2k+2, 2k+1).
func (m *Mesh) computeTriangleIndices(count int) {
	if count > maxTriangles {
		logging.Logger().Warn("light mesh clamped to uint16 index range",
			"requested", count, "triangles", maxTriangles)
		count = maxTriangles
	}
	if count < 0 {
		count = 0
	}

	m.indices.Reset()
	m.indices.Reserve(count * 3)
	for k := 0; k < count; k++ {
		i := uint16(2 * k)
		m.indices.WriteAt(3*k, 0)
		m.indices.WriteAt(3*k+1, i+2)
		m.indices.WriteAt(3*k+2, i+1)
	}
}

// Build refills the mesh for a light at center with the given boundary
// points, in the order they are given.
func (m *Mesh) Build(center mgl32.Vec2, points []mgl32.Vec2) {
	m.vertices.Reset()
	m.vertices.Add(render.LightVertex{Position: center.Vec3(0), UV: center})
	for _, p := range points {
		m.vertices.Add(render.LightVertex{Position: p.Vec3(0), UV: p})
	}

	if min(len(points), maxTriangles) > m.TriangleCapacity() {
		m.computeTriangleIndices(len(points))
		logging.Logger().Debug("light mesh indices regrown", "triangles", m.TriangleCapacity())
	}
}

// Vertices returns the vertices written by the last Build.
func (m *Mesh) Vertices() []render.LightVertex {
	return m.vertices.Items()
}

// VertexCount returns the number of vertices written by the last Build.
func (m *Mesh) VertexCount() int {
	return m.vertices.Len()
}

// Indices returns every provisioned index, including triangles the current
// vertex count does not reach.
func (m *Mesh) Indices() []uint16 {
	return m.indices.Items()
}

// TriangleCapacity is the number of triangles the index list holds.
func (m *Mesh) TriangleCapacity() int {
	return m.indices.Len() / 3
}

// PrimitiveCount is the number of triangles submitted for this mesh. It is
// half the vertex count: with boundary points arriving in wedge pairs this
// draws every wedge.
func (m *Mesh) PrimitiveCount() int {
	return m.vertices.Len() / 2
}

// Drawable reports whether the mesh has at least one full triangle.
func (m *Mesh) Drawable() bool {
	return m.vertices.Len() >= 3
}

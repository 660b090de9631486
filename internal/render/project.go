package render

import "github.com/go-gl/mathgl/mgl32"

// ProjectToScreen maps a world position through a view-projection matrix to
// pixel coordinates on a width x height target. Pixel (0, 0) is the top-left.
func ProjectToScreen(viewProjection mgl32.Mat4, p mgl32.Vec3, width, height int) (x, y float32) {
	clip := viewProjection.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w == 0 {
		w = 1
	}
	ndcX, ndcY := clip.X()/w, clip.Y()/w

	x = (ndcX + 1) / 2 * float32(width)
	y = (1 - ndcY) / 2 * float32(height)
	return x, y
}

// AppendReachableIndices appends the triangles of call whose three indices
// all fall below VertexCount and reports how many triangles were dropped.
func AppendReachableIndices(dst []uint16, call DrawCall) (out []uint16, dropped int) {
	limit := min(call.PrimitiveCount*3, len(call.Indices)-len(call.Indices)%3)
	for k := 0; k+3 <= limit; k += 3 {
		a, b, c := call.Indices[k], call.Indices[k+1], call.Indices[k+2]
		if int(a) >= call.VertexCount || int(b) >= call.VertexCount || int(c) >= call.VertexCount {
			dropped++
			continue
		}
		dst = append(dst, a, b, c)
	}
	return dst, dropped
}

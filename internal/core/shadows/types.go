package shadows

import "github.com/go-gl/mathgl/mgl32"

// Point represents a 2D point in world space.
type Point struct {
	X, Y float64
}

// PointFromVec converts an mgl32 vector to a Point.
func PointFromVec(v mgl32.Vec2) Point {
	return Point{X: float64(v.X()), Y: float64(v.Y())}
}

// Vec converts p back to an mgl32 vector.
func (p Point) Vec() mgl32.Vec2 {
	return mgl32.Vec2{float32(p.X), float32(p.Y)}
}

// Segment represents an occluding edge that blocks light.
type Segment struct {
	A, B Point
}

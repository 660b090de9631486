package shadows

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"chosenoffset.com/polylight/internal/core/geom"
)

const (
	angleEpsilon    = 1e-7
	parallelEpsilon = 1e-10
)

// VisibilityComputer builds the lit region around a point light as a list of
// encounter points. Usage per frame:
//
//	v.Begin(center, radius)
//	v.AddSquareOccluder(box) // any number of times
//	points := v.End()
//	// ... consume points ...
//	v.Release(points)
//
// End returns the points in pairs: each pair is the near edge of one angular
// wedge of light, so points 2k and 2k+1 form a triangle with the centre. The
// pairs are ordered by increasing angle and never overlap.
type VisibilityComputer struct {
	origin   Point
	radius   float64
	segments []Segment
	angles   []float64
	pool     [][]mgl32.Vec2
}

// NewVisibilityComputer creates an empty computer.
func NewVisibilityComputer() *VisibilityComputer {
	return &VisibilityComputer{
		segments: make([]Segment, 0, 64),
		angles:   make([]float64, 0, 128),
	}
}

// Begin starts a new computation for a light at center. The light's square
// of influence is added as the outer boundary, so every ray terminates.
func (v *VisibilityComputer) Begin(center mgl32.Vec2, radius float32) {
	v.origin = PointFromVec(center)
	v.radius = float64(radius)
	v.segments = v.segments[:0]

	boundary := geom.RectFromCenter(center, mgl32.Vec2{radius, radius})
	for _, seg := range rectSegments(boundary) {
		v.segments = append(v.segments, seg)
	}
}

// AddSquareOccluder adds the four edges of an axis-aligned box.
func (v *VisibilityComputer) AddSquareOccluder(bounds geom.Rect) {
	for _, seg := range rectSegments(bounds) {
		v.segments = append(v.segments, seg)
	}
}

// AddLineOccluder adds a single blocking segment from a to b.
func (v *VisibilityComputer) AddLineOccluder(a, b mgl32.Vec2) {
	v.segments = append(v.segments, Segment{A: PointFromVec(a), B: PointFromVec(b)})
}

// End sweeps around the origin and returns the encounter points. The slice is
// owned by the caller until it is handed back with Release.
func (v *VisibilityComputer) End() []mgl32.Vec2 {
	out := v.acquire()

	v.angles = collectAngles(v.angles, v.origin, v.segments)
	n := len(v.angles)
	for i := 0; i < n; i++ {
		start := v.angles[i]
		end := v.angles[(i+1)%n]
		if i == n-1 {
			end += 2 * math.Pi
		}
		if end-start <= angleEpsilon {
			continue
		}

		seg, ok := v.nearestSegment((start + end) / 2)
		if !ok {
			continue
		}

		out = append(out, v.pointOn(seg, start).Vec(), v.pointOn(seg, end).Vec())
	}

	return out
}

// Release returns a slice obtained from End for reuse.
func (v *VisibilityComputer) Release(points []mgl32.Vec2) {
	if points == nil {
		return
	}
	v.pool = append(v.pool, points[:0])
}

func (v *VisibilityComputer) acquire() []mgl32.Vec2 {
	if n := len(v.pool); n > 0 {
		points := v.pool[n-1]
		v.pool = v.pool[:n-1]
		return points
	}
	return make([]mgl32.Vec2, 0, 32)
}

// nearestSegment casts a ray at angle and returns the closest segment it hits.
func (v *VisibilityComputer) nearestSegment(angle float64) (Segment, bool) {
	dx, dy := math.Cos(angle), math.Sin(angle)

	closestDist := math.Inf(1)
	var closest Segment
	found := false
	for _, seg := range v.segments {
		if hit, dist, _ := raySegmentIntersection(v.origin, dx, dy, seg); hit && dist < closestDist {
			closestDist = dist
			closest = seg
			found = true
		}
	}
	return closest, found
}

// pointOn returns where the ray at angle meets the line through seg. Rays
// that run parallel to the line stop at the light's boundary instead.
func (v *VisibilityComputer) pointOn(seg Segment, angle float64) Point {
	dx, dy := math.Cos(angle), math.Sin(angle)
	if p, ok := rayLineIntersection(v.origin, dx, dy, seg); ok {
		return p
	}
	return Point{X: v.origin.X + dx*v.radius*math.Sqrt2, Y: v.origin.Y + dy*v.radius*math.Sqrt2}
}

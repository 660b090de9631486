package shadows

import (
	"math"
	"sort"

	"chosenoffset.com/polylight/internal/core/geom"
)

// rectSegments returns the four edges of r, wound clockwise on a y-down screen.
func rectSegments(r geom.Rect) [4]Segment {
	left, top := float64(r.Left()), float64(r.Top())
	right, bottom := float64(r.Right()), float64(r.Bottom())

	return [4]Segment{
		{A: Point{left, top}, B: Point{right, top}},       // top
		{A: Point{right, top}, B: Point{right, bottom}},   // right
		{A: Point{right, bottom}, B: Point{left, bottom}}, // bottom
		{A: Point{left, bottom}, B: Point{left, top}},     // left
	}
}

// collectAngles fills dst with the angle from origin to every segment
// endpoint, normalized to [0, 2π), sorted and with near-duplicates removed.
func collectAngles(dst []float64, origin Point, segments []Segment) []float64 {
	dst = dst[:0]
	for _, seg := range segments {
		dst = append(dst, angleTo(origin, seg.A), angleTo(origin, seg.B))
	}
	if len(dst) == 0 {
		return dst
	}

	sort.Float64s(dst)

	// compact in place
	unique := dst[:1]
	for _, a := range dst[1:] {
		if a-unique[len(unique)-1] > angleEpsilon {
			unique = append(unique, a)
		}
	}
	return unique
}

// angleTo returns the angle of p as seen from origin in [0, 2π).
func angleTo(origin, p Point) float64 {
	angle := math.Atan2(p.Y-origin.Y, p.X-origin.X)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}

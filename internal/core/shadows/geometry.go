package shadows

import "math"

// raySegmentIntersection checks if the ray from origin along (dx, dy) hits seg.
// Returns whether it hits, the distance along the ray and the hit point.
func raySegmentIntersection(origin Point, dx, dy float64, seg Segment) (bool, float64, Point) {
	// Ray: P = origin + t*(dx, dy), t >= 0
	// Segment: Q = A + u*(B - A), 0 <= u <= 1
	segDX := seg.B.X - seg.A.X
	segDY := seg.B.Y - seg.A.Y

	denominator := dx*segDY - dy*segDX
	if math.Abs(denominator) < parallelEpsilon {
		return false, 0, Point{}
	}

	diffX := seg.A.X - origin.X
	diffY := seg.A.Y - origin.Y

	u := (diffX*dy - diffY*dx) / denominator
	t := (diffX*segDY - diffY*segDX) / denominator

	if u >= 0 && u <= 1 && t >= 0 {
		return true, t, Point{X: origin.X + t*dx, Y: origin.Y + t*dy}
	}

	return false, 0, Point{}
}

// rayLineIntersection is raySegmentIntersection against the infinite line
// through seg. A ray parallel to the line reports ok == false.
func rayLineIntersection(origin Point, dx, dy float64, seg Segment) (Point, bool) {
	segDX := seg.B.X - seg.A.X
	segDY := seg.B.Y - seg.A.Y

	denominator := dx*segDY - dy*segDX
	if math.Abs(denominator) < parallelEpsilon {
		return Point{}, false
	}

	diffX := seg.A.X - origin.X
	diffY := seg.A.Y - origin.Y
	t := (diffX*segDY - diffY*segDX) / denominator

	return Point{X: origin.X + t*dx, Y: origin.Y + t*dy}, true
}

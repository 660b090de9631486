// Package geom contains the 2D rectangle used for light bounds, collider
// shapes and camera culling.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Rect is an axis-aligned rectangle. X, Y is the top-left corner; Y grows down.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// NewRect creates a rectangle from its top-left corner and size.
func NewRect(x, y, width, height float32) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// RectFromCenter creates a rectangle centred on c with the given half extents.
func RectFromCenter(c, halfExtents mgl32.Vec2) Rect {
	return Rect{
		X:      c.X() - halfExtents.X(),
		Y:      c.Y() - halfExtents.Y(),
		Width:  halfExtents.X() * 2,
		Height: halfExtents.Y() * 2,
	}
}

func (r Rect) Left() float32   { return r.X }
func (r Rect) Right() float32  { return r.X + r.Width }
func (r Rect) Top() float32    { return r.Y }
func (r Rect) Bottom() float32 { return r.Y + r.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() mgl32.Vec2 {
	return mgl32.Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Corners returns the four corners clockwise from the top-left.
func (r Rect) Corners() [4]mgl32.Vec2 {
	return [4]mgl32.Vec2{
		{r.Left(), r.Top()},
		{r.Right(), r.Top()},
		{r.Right(), r.Bottom()},
		{r.Left(), r.Bottom()},
	}
}

// Contains reports whether p lies inside r (edges included).
func (r Rect) Contains(p mgl32.Vec2) bool {
	return p.X() >= r.Left() && p.X() <= r.Right() && p.Y() >= r.Top() && p.Y() <= r.Bottom()
}

// Intersects reports whether r and o overlap. Touching edges do not count.
func (r Rect) Intersects(o Rect) bool {
	return o.Left() < r.Right() && r.Left() < o.Right() &&
		o.Top() < r.Bottom() && r.Top() < o.Bottom()
}

// OverlapsCircle reports whether the circle at center with the given radius
// touches r.
func (r Rect) OverlapsCircle(center mgl32.Vec2, radius float32) bool {
	closest := mgl32.Vec2{
		mgl32.Clamp(center.X(), r.Left(), r.Right()),
		mgl32.Clamp(center.Y(), r.Top(), r.Bottom()),
	}
	d := closest.Sub(center)
	return d.Dot(d) <= radius*radius
}

// CalculateBounds places a width x height box, anchored at origin and scaled,
// at parentPosition+position and returns the axis-aligned rectangle that
// encloses it after rotating by rotation radians around the anchor.
func CalculateBounds(parentPosition, position, origin, scale mgl32.Vec2, rotation, width, height float32) Rect {
	worldPos := parentPosition.Add(position)
	if rotation == 0 {
		return Rect{
			X:      worldPos.X() - origin.X()*scale.X(),
			Y:      worldPos.Y() - origin.Y()*scale.Y(),
			Width:  width * scale.X(),
			Height: height * scale.Y(),
		}
	}

	rot := mgl32.Rotate2D(rotation)
	local := [4]mgl32.Vec2{
		{-origin.X(), -origin.Y()},
		{width - origin.X(), -origin.Y()},
		{width - origin.X(), height - origin.Y()},
		{-origin.X(), height - origin.Y()},
	}

	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := -float32(math.MaxFloat32), -float32(math.MaxFloat32)
	for _, c := range local {
		scaled := mgl32.Vec2{c.X() * scale.X(), c.Y() * scale.Y()}
		p := rot.Mul2x1(scaled).Add(worldPos)
		minX = min(minX, p.X())
		minY = min(minY, p.Y())
		maxX = max(maxX, p.X())
		maxY = max(maxY, p.Y())
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Package camera provides the 2D camera the light pass culls and projects
// against.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"chosenoffset.com/polylight/internal/core/geom"
)

// Camera looks at a rectangle of the world. Position is the world point shown
// at the top-left corner of the viewport.
type Camera struct {
	Position mgl32.Vec2
	Width    int
	Height   int
	Zoom     float32
}

// New creates a camera with a viewport of width x height pixels and zoom 1.
func New(width, height int) *Camera {
	return &Camera{Width: width, Height: height, Zoom: 1}
}

func (c *Camera) zoom() float32 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

// Bounds returns the visible world rectangle.
func (c *Camera) Bounds() geom.Rect {
	z := c.zoom()
	return geom.NewRect(c.Position.X(), c.Position.Y(), float32(c.Width)/z, float32(c.Height)/z)
}

// ViewProjection maps the visible world rectangle to clip space with y
// pointing down the screen.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	b := c.Bounds()
	return mgl32.Ortho2D(b.Left(), b.Right(), b.Bottom(), b.Top())
}

// CenterOn moves the camera so p is in the middle of the viewport.
func (c *Camera) CenterOn(p mgl32.Vec2) {
	b := c.Bounds()
	c.Position = mgl32.Vec2{p.X() - b.Width/2, p.Y() - b.Height/2}
}

// ScreenToWorld converts a viewport pixel to world coordinates.
func (c *Camera) ScreenToWorld(x, y int) mgl32.Vec2 {
	z := c.zoom()
	return mgl32.Vec2{c.Position.X() + float32(x)/z, c.Position.Y() + float32(y)/z}
}

// WorldToScreen converts a world position to viewport pixels.
func (c *Camera) WorldToScreen(p mgl32.Vec2) (x, y float32) {
	z := c.zoom()
	return (p.X() - c.Position.X()) * z, (p.Y() - c.Position.Y()) * z
}

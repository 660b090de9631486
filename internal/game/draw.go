package game

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"chosenoffset.com/polylight/internal/core/geom"
	"chosenoffset.com/polylight/internal/logging"
	"chosenoffset.com/polylight/internal/physics"
	"chosenoffset.com/polylight/internal/render"
)

// Draw renders the game to the screen.
func (g *Game) Draw(screen render.Image) {
	w, h := screen.Size()

	// Ensure render textures exist and are the right size
	if g.SceneTexture == nil || needsResize(g.SceneTexture, w, h) {
		if g.SceneTexture != nil {
			g.SceneTexture.Dispose()
		}
		g.SceneTexture = g.Renderer.NewImage(w, h)
	}
	if g.LightMap == nil || needsResize(g.LightMap, w, h) {
		if g.LightMap != nil {
			g.LightMap.Dispose()
		}
		g.LightMap = g.Renderer.NewImage(w, h)
		g.lightTarget = g.Renderer.NewLightTarget(g.LightMap)
	}
	g.FrameCount++

	// Step 1: Render the scene to an offscreen texture
	g.SceneTexture.Clear()
	g.drawFloor(g.SceneTexture)
	g.drawColliders(g.SceneTexture)

	// Step 2: Accumulate every light on top of the ambient level
	g.drawLightMap()

	// Step 3: Darken the scene by the light map
	screen.DrawImage(g.SceneTexture, nil)
	screen.DrawImage(g.LightMap, &render.DrawImageOptions{Blend: render.BlendMultiply})

	// Step 4: Draw UI elements on top (unaffected by lighting)
	if g.ShowDebug {
		g.drawDebug(screen)
	}
	g.drawUI(screen)
	g.drawHUD(screen)
}

func needsResize(img render.Image, w, h int) bool {
	bounds := img.Bounds()
	return bounds.Dx() != w || bounds.Dy() != h
}

func (g *Game) drawLightMap() {
	a := uint8(g.Lights.Ambient() * 255)
	g.LightMap.Fill(color.RGBA{a, a, a, 255})

	g.Pass.SetSubmitter(g.lightTarget)
	stats, err := g.Lights.RenderAll(g.Pass, g.Camera)
	g.LastStats = stats
	if err != nil && err.Error() != g.lastErr {
		// reported once per distinct failure
		g.lastErr = err.Error()
		logging.Logger().Error("light pass failed", "frame", g.FrameCount, "err", err)
	}
}

func (g *Game) drawFloor(dst render.Image) {
	dst.Fill(floorColor)

	size := float32(g.Level.TileSize)
	for y := 0; y < g.Level.Height; y++ {
		for x := 0; x < g.Level.Width; x++ {
			sx, sy := g.Camera.WorldToScreen(g.Level.TileCenter(x, y))
			g.Renderer.StrokeRect(dst, sx-size/2, sy-size/2, size, size, 1, gridColor)
		}
	}
}

func (g *Game) drawColliders(dst render.Image) {
	view := g.Camera.Bounds()
	for _, c := range g.World.Colliders() {
		if !view.Intersects(c.Bounds) {
			continue
		}
		clr := wallColor
		switch {
		case c.IsTrigger:
			clr = triggerColor
		case c.Layer != physics.DefaultLayer:
			clr = glassColor
		}
		x, y, w, h := g.toScreen(c.Bounds)
		g.Renderer.FillRect(dst, x, y, w, h, clr)
	}
}

// toScreen converts a world rectangle to viewport pixels.
func (g *Game) toScreen(r geom.Rect) (x, y, w, h float32) {
	x, y = g.Camera.WorldToScreen(mgl32.Vec2{r.Left(), r.Top()})
	right, bottom := g.Camera.WorldToScreen(mgl32.Vec2{r.Right(), r.Bottom()})
	return x, y, right - x, bottom - y
}

func (g *Game) drawDebug(screen render.Image) {
	for _, l := range g.Lights.Lights() {
		x, y, w, h := g.toScreen(l.Bounds())
		g.Renderer.StrokeRect(screen, x, y, w, h, 1, boundsColor)
		g.Renderer.FillCircle(screen, x+w/2, y+h/2, 4, l.Color)
	}
}

func (g *Game) drawUI(screen render.Image) {
	// Draw on-screen messages
	y := 50.0
	for _, msg := range g.Messages {
		alpha := uint8(255 * (msg.TimeLeft / msg.MaxTime))
		g.Renderer.DrawText(screen, msg.Text, 20, int(y), color.RGBA{255, 255, 255, alpha})
		y += 20
	}
}

func (g *Game) drawHUD(screen render.Image) {
	l := g.PlayerLight
	lines := []string{
		fmt.Sprintf("%s  lights %d/%d  vertices %d", g.Level.Name, g.LastStats.Submitted, g.Lights.Len(), g.LastStats.Vertices),
		fmt.Sprintf("radius %.0f  power %.2f  triangles %d", l.Radius(), l.Power(), l.Mesh().TriangleCapacity()),
		"WASD/click move  Up/Down radius  L light  Space debug  Esc quit",
	}
	for i, line := range lines {
		g.Renderer.DrawText(screen, line, 8, 8+i*14, textColor)
	}
}

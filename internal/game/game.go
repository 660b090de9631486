// Package game is an interactive scene for the shadow-casting lights: a
// movable player light walks a tile level lit by the level's own lights.
package game

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"chosenoffset.com/polylight/internal/config"
	"chosenoffset.com/polylight/internal/logging"
	"chosenoffset.com/polylight/internal/physics"
	"chosenoffset.com/polylight/internal/render"
	"chosenoffset.com/polylight/internal/render/camera"
	"chosenoffset.com/polylight/internal/render/lighting"
	"chosenoffset.com/polylight/internal/world/level"
)

const (
	minRadius = 8

	// offsetStep and maxOffset bound how far the arrow keys shift the
	// player light's occlusion origin away from its centre.
	offsetStep = 1
	maxOffset  = 16
)

// Game holds all game state and logic.
type Game struct {
	ScreenWidth  int
	ScreenHeight int
	Config       *config.Config
	Level        *level.Level
	World        *physics.World
	Camera       *camera.Camera
	Renderer     render.Renderer
	InputMgr     render.InputManager

	// Lighting
	Lights      *lighting.Manager
	Pass        *lighting.Pass
	PlayerLight *lighting.PolygonLight
	effects     []render.LightEffect
	LastStats   lighting.FrameStats

	// Render targets
	SceneTexture render.Image
	LightMap     render.Image
	lightTarget  render.Submitter

	// UI state
	Messages  []Message
	ShowDebug bool

	// Debug
	FrameCount int
	lastErr    string
}

// New builds a game for lvl: colliders are registered in a fresh physics
// world and every level light plus the player light gets its own effect.
func New(cfg *config.Config, lvl *level.Level, r render.Renderer, input render.InputManager) (*Game, error) {
	g := &Game{
		ScreenWidth:  cfg.Window.Width,
		ScreenHeight: cfg.Window.Height,
		Config:       cfg,
		Level:        lvl,
		World:        physics.NewWorld(cfg.Physics.CellSize),
		Camera:       camera.New(cfg.Window.Width, cfg.Window.Height),
		Renderer:     r,
		InputMgr:     input,
		Lights:       lighting.NewManager(),
	}

	for _, c := range lvl.Colliders() {
		g.World.Add(c)
	}
	g.Pass = lighting.NewPass(g.World, physics.NewColliderScratch(cfg.Lighting.ColliderCacheSize), nil)
	g.Lights.SetAmbient(cfg.Lighting.Ambient)

	g.PlayerLight = lighting.NewPolygonLight(cfg.Lighting.Radius,
		lighting.WithPosition(lvl.TileCenter(lvl.PlayerSpawn.X, lvl.PlayerSpawn.Y)),
		lighting.WithColor(cfg.LightColor()),
		lighting.WithPower(cfg.Lighting.Power),
		lighting.WithTriangleHint(cfg.Lighting.InitialTriangles),
	)
	if err := g.addLight(g.PlayerLight); err != nil {
		return nil, err
	}

	for i, spec := range lvl.Lights {
		clr, err := config.ParseHexColor(spec.Color)
		if err != nil {
			return nil, fmt.Errorf("level light %d: %w", i, err)
		}
		l := lighting.NewPolygonLight(spec.Radius,
			lighting.WithPosition(lvl.TileCenter(spec.X, spec.Y)),
			lighting.WithColor(clr),
			lighting.WithPower(spec.Power),
			lighting.WithTriangleHint(cfg.Lighting.InitialTriangles),
		)
		if err := g.addLight(l); err != nil {
			return nil, err
		}
	}

	logging.Logger().Info("level loaded",
		"level", lvl.Name, "colliders", len(g.World.Colliders()), "lights", g.Lights.Len())
	g.UpdateCamera()
	return g, nil
}

func (g *Game) addLight(l *lighting.PolygonLight) error {
	effect, err := g.Renderer.NewLightEffect()
	if err != nil {
		return fmt.Errorf("failed to create light effect: %w", err)
	}
	g.effects = append(g.effects, effect)
	l.Bind(effect)
	g.Lights.Add(l)
	return nil
}

// Close releases the light effects and render targets.
func (g *Game) Close() {
	for _, e := range g.effects {
		e.Dispose()
	}
	g.effects = nil
	if g.SceneTexture != nil {
		g.SceneTexture.Dispose()
	}
	if g.LightMap != nil {
		g.LightMap.Dispose()
	}
}

// Update handles game logic updates.
func (g *Game) Update() error {
	// Delta time for timers (assuming 60 FPS)
	dt := 1.0 / 60.0
	g.updateMessages(dt)

	if g.InputMgr.IsKeyJustPressed(render.KeyEscape) {
		return render.ErrQuit
	}

	g.movePlayerLight()

	if g.InputMgr.IsKeyPressed(render.KeyUp) {
		g.PlayerLight.SetRadius(g.PlayerLight.Radius() + g.Config.Lighting.RadiusStep)
	}
	if g.InputMgr.IsKeyPressed(render.KeyDown) {
		g.PlayerLight.SetRadius(max(minRadius, g.PlayerLight.Radius()-g.Config.Lighting.RadiusStep))
	}

	g.nudgeLightOffset()

	// Toggle player light with L key
	if g.InputMgr.IsKeyJustPressed(render.KeyL) {
		if g.PlayerLight.Enabled() {
			g.PlayerLight.SetPower(0)
			g.ShowMessage("Light source deactivated")
		} else {
			g.PlayerLight.SetPower(g.Config.Lighting.Power)
			g.ShowMessage("Light source activated")
		}
	}

	if g.InputMgr.IsKeyJustPressed(render.KeySpace) {
		g.ShowDebug = !g.ShowDebug
	}

	g.UpdateCamera()
	return nil
}

// movePlayerLight applies WASD movement and mouse placement, keeping the
// light inside the level.
func (g *Game) movePlayerLight() {
	pos := g.PlayerLight.Position()
	speed := g.Config.Lighting.MoveSpeed

	if g.InputMgr.IsKeyPressed(render.KeyW) {
		pos[1] -= speed
	}
	if g.InputMgr.IsKeyPressed(render.KeyS) {
		pos[1] += speed
	}
	if g.InputMgr.IsKeyPressed(render.KeyA) {
		pos[0] -= speed
	}
	if g.InputMgr.IsKeyPressed(render.KeyD) {
		pos[0] += speed
	}
	if g.InputMgr.IsMouseButtonPressed(render.MouseButtonLeft) {
		pos = g.Camera.ScreenToWorld(g.InputMgr.GetCursorPosition())
	}

	w, h := g.Level.WorldSize()
	pos = mgl32.Vec2{mgl32.Clamp(pos.X(), 0, w), mgl32.Clamp(pos.Y(), 0, h)}
	g.PlayerLight.SetPosition(pos)
}

// nudgeLightOffset moves the player light's local offset along x with the
// left and right arrows.
func (g *Game) nudgeLightOffset() {
	offset := g.PlayerLight.LocalOffset()
	if g.InputMgr.IsKeyPressed(render.KeyLeft) {
		offset[0] -= offsetStep
	}
	if g.InputMgr.IsKeyPressed(render.KeyRight) {
		offset[0] += offsetStep
	}
	offset[0] = mgl32.Clamp(offset.X(), -maxOffset, maxOffset)
	g.PlayerLight.SetLocalOffset(offset)
}

// Layout returns the game's logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.ScreenWidth, g.ScreenHeight
}

// UpdateCamera centres the camera on the player light, clamped to the level.
func (g *Game) UpdateCamera() {
	g.Camera.CenterOn(g.PlayerLight.Center())

	view := g.Camera.Bounds()
	w, h := g.Level.WorldSize()
	x := mgl32.Clamp(g.Camera.Position.X(), 0, max(0, w-view.Width))
	y := mgl32.Clamp(g.Camera.Position.Y(), 0, max(0, h-view.Height))
	g.Camera.Position = mgl32.Vec2{x, y}
}

func (g *Game) updateMessages(dt float64) {
	var active []Message
	for _, msg := range g.Messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	g.Messages = active
}

// ShowMessage adds a new message to be displayed on screen.
func (g *Game) ShowMessage(text string) {
	g.Messages = append(g.Messages, Message{
		Text:     text,
		TimeLeft: 3.0,
		MaxTime:  3.0,
	})
	log.Printf("Message: %s", text)
}

package render

import (
	"errors"
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Renderer is the main rendering interface that abstracts the underlying
// graphics engine. This allows swapping rendering backends without changing
// game logic.
type Renderer interface {
	// Image operations
	NewImage(width, height int) Image

	// Vector operations (for drawing shapes)
	FillRect(dst Image, x, y, width, height float32, clr color.Color)
	StrokeRect(dst Image, x, y, width, height, strokeWidth float32, clr color.Color)
	FillCircle(dst Image, x, y, radius float32, clr color.Color)

	// Text operations
	DrawText(dst Image, text string, x, y int, clr color.Color)

	// Light operations
	NewLightEffect() (LightEffect, error)
	NewLightTarget(dst Image) Submitter
}

// Image represents a renderable image surface that can be drawn to or drawn from.
type Image interface {
	Bounds() image.Rectangle
	Size() (width, height int)

	Fill(clr color.Color)
	Clear()

	DrawImage(src Image, opts *DrawImageOptions)

	Dispose()
}

// BlendMode selects how a drawn image combines with the destination.
type BlendMode int

const (
	// BlendSourceOver is regular alpha blending.
	BlendSourceOver BlendMode = iota
	// BlendLighter adds source to destination.
	BlendLighter
	// BlendMultiply multiplies destination by source, used to apply a light map.
	BlendMultiply
)

// DrawImageOptions contains options for drawing an image.
type DrawImageOptions struct {
	Blend BlendMode
}

// LightVertex is one vertex of a light mesh. UV carries the world-space
// position of the vertex, not a texture coordinate.
type LightVertex struct {
	Position mgl32.Vec3
	UV       mgl32.Vec2
}

// PrimitiveType is the topology of an indexed draw.
type PrimitiveType int

const (
	// TriangleList draws one triangle per three indices.
	TriangleList PrimitiveType = iota
)

// Names of the parameters a light effect accepts.
const (
	ParamLightRadius          = "lightRadius"
	ParamViewProjectionMatrix = "viewProjectionMatrix"
	ParamLightSource          = "lightSource"
	ParamLightColor           = "lightColor"
)

// ParameterSurface receives shader parameters by name.
type ParameterSurface interface {
	SetFloat(name string, v float32)
	SetVec3(name string, v mgl32.Vec3)
	SetMatrix(name string, m mgl32.Mat4)
}

// LightEffect is a compiled light shader together with its parameters.
type LightEffect interface {
	ParameterSurface
	Dispose()
}

// DrawCall is one indexed draw of a light mesh. Vertices and Indices may be
// longer than the ranges the call uses.
type DrawCall struct {
	Effect         ParameterSurface
	Vertices       []LightVertex
	VertexCount    int
	Indices        []uint16
	PrimitiveCount int
	PrimitiveType  PrimitiveType
}

// Submitter draws light meshes onto a target.
type Submitter interface {
	DrawIndexed(call DrawCall) error
}

// InputManager handles input from the user (keyboard, mouse, etc).
type InputManager interface {
	IsKeyPressed(key Key) bool
	IsKeyJustPressed(key Key) bool
	GetCursorPosition() (x, y int)
	IsMouseButtonPressed(button MouseButton) bool
}

// Key represents a keyboard key.
type Key int

// Key constants for common keys
const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyL // Light toggle key
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEscape
)

// MouseButton represents a mouse button.
type MouseButton int

// Mouse button constants
const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// Game represents the game interface that the engine will call.
type Game interface {
	// Update updates the game logic. It is called every tick (typically 60 times per second).
	Update() error

	// Draw draws the game screen. It is called every frame.
	Draw(screen Image)

	// Layout accepts the outside size (e.g., window size) and returns the logical screen size.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine represents the game engine that manages the game loop and window.
type Engine interface {
	SetWindowSize(width, height int)
	SetWindowTitle(title string)
	SetWindowResizable(resizable bool)

	// RunGame runs the game loop with the provided game.
	// This is a blocking call that runs until the game ends.
	RunGame(game Game) error
}

// ErrQuit is returned from Game.Update to end the game loop cleanly.
var ErrQuit = errors.New("render: quit requested")

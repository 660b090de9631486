// Package level loads tile levels whose solid tiles become light-blocking
// box colliders.
package level

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"chosenoffset.com/polylight/internal/config"
	"chosenoffset.com/polylight/internal/core/geom"
	"chosenoffset.com/polylight/internal/physics"
)

//go:embed levels/default.json
var defaultLevel []byte

// emptyTile is a tile with no legend entry.
const emptyTile = '.'

// SpawnPoint is a tile coordinate.
type SpawnPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// TileDef describes what a legend character places.
type TileDef struct {
	BlocksLight bool `json:"blocks_light"`
	Trigger     bool `json:"trigger"` // Reported by queries, casts no shadow
	Layer       int  `json:"layer"`   // Physics layer bit index (0-30)
}

// LightSpec places a light at the centre of a tile.
type LightSpec struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Radius float32 `json:"radius"`
	Power  float32 `json:"power"`
	Color  string  `json:"color"` // Hex "RRGGBB"
}

// Level is a grid of tiles. Each row of Tiles is a string with one legend
// character per tile.
type Level struct {
	Name        string             `json:"name"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	TileSize    int                `json:"tile_size"` // Tile size in world pixels
	PlayerSpawn SpawnPoint         `json:"player_spawn"`
	Legend      map[string]TileDef `json:"legend"`
	Tiles       []string           `json:"tiles"`
	Lights      []LightSpec        `json:"lights"`
}

// LoadLevel loads a level from a JSON file.
func LoadLevel(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level file %s: %w", path, err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load level %s: %w", path, err)
	}
	return lvl, nil
}

// LoadDefault returns the built-in level.
func LoadDefault() (*Level, error) {
	return Parse(defaultLevel)
}

// Parse decodes and validates a level.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("failed to parse level: %w", err)
	}
	if err := validateLevel(&lvl); err != nil {
		return nil, fmt.Errorf("invalid level data: %w", err)
	}
	return &lvl, nil
}

// validateLevel checks if the level data is valid
func validateLevel(lvl *Level) error {
	if lvl.Width <= 0 || lvl.Height <= 0 {
		return fmt.Errorf("invalid level dimensions: %dx%d", lvl.Width, lvl.Height)
	}
	if lvl.TileSize <= 0 {
		return fmt.Errorf("invalid tile size: %d", lvl.TileSize)
	}

	for key, def := range lvl.Legend {
		if len(key) != 1 || key[0] == emptyTile {
			return fmt.Errorf("legend key %q must be a single character other than %q", key, emptyTile)
		}
		if def.Layer < 0 || def.Layer > 30 {
			return fmt.Errorf("legend %q: layer %d out of range", key, def.Layer)
		}
	}

	if len(lvl.Tiles) != lvl.Height {
		return fmt.Errorf("tiles array height mismatch: expected %d, got %d", lvl.Height, len(lvl.Tiles))
	}
	for y, row := range lvl.Tiles {
		if len(row) != lvl.Width {
			return fmt.Errorf("tiles array width mismatch at row %d: expected %d, got %d", y, lvl.Width, len(row))
		}
		for x := 0; x < len(row); x++ {
			if row[x] == emptyTile {
				continue
			}
			if _, ok := lvl.Legend[string(row[x])]; !ok {
				return fmt.Errorf("tile %q at (%d, %d) has no legend entry", row[x], x, y)
			}
		}
	}

	if !lvl.inBounds(lvl.PlayerSpawn.X, lvl.PlayerSpawn.Y) {
		return fmt.Errorf("player spawn (%d, %d) outside the level", lvl.PlayerSpawn.X, lvl.PlayerSpawn.Y)
	}
	for i, l := range lvl.Lights {
		if !lvl.inBounds(l.X, l.Y) {
			return fmt.Errorf("light %d at (%d, %d) outside the level", i, l.X, l.Y)
		}
		if l.Radius <= 0 {
			return fmt.Errorf("light %d: radius must be positive, got %g", i, l.Radius)
		}
		if _, err := config.ParseHexColor(l.Color); err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}
	return nil
}

func (l *Level) inBounds(x, y int) bool {
	return x >= 0 && x < l.Width && y >= 0 && y < l.Height
}

// TileAt returns the tile character at the given grid coordinates.
func (l *Level) TileAt(x, y int) (byte, error) {
	if !l.inBounds(x, y) {
		return 0, fmt.Errorf("coordinates out of bounds: (%d, %d)", x, y)
	}
	return l.Tiles[y][x], nil
}

// BlocksLight reports whether the tile at the given coordinates casts shadows.
func (l *Level) BlocksLight(x, y int) bool {
	def, ok := l.tileDef(x, y)
	return ok && def.BlocksLight && !def.Trigger
}

func (l *Level) tileDef(x, y int) (TileDef, bool) {
	tile, err := l.TileAt(x, y)
	if err != nil || tile == emptyTile {
		return TileDef{}, false
	}
	def, ok := l.Legend[string(tile)]
	return def, ok
}

// WorldSize is the level size in world pixels.
func (l *Level) WorldSize() (width, height float32) {
	return float32(l.Width * l.TileSize), float32(l.Height * l.TileSize)
}

// TileCenter returns the world position of the centre of a tile.
func (l *Level) TileCenter(x, y int) mgl32.Vec2 {
	size := float32(l.TileSize)
	return mgl32.Vec2{(float32(x) + 0.5) * size, (float32(y) + 0.5) * size}
}

// Colliders returns one box collider per horizontal run of identical
// light-blocking tiles.
func (l *Level) Colliders() []*physics.Collider {
	var out []*physics.Collider
	size := float32(l.TileSize)

	for y, row := range l.Tiles {
		for x := 0; x < len(row); {
			def, ok := l.tileDef(x, y)
			if !ok || !def.BlocksLight {
				x++
				continue
			}

			start := x
			for x < len(row) && row[x] == row[start] {
				x++
			}

			c := physics.NewBoxCollider(geom.NewRect(float32(start)*size, float32(y)*size, float32(x-start)*size, size))
			c.Layer = physics.LayerMask(1) << def.Layer
			c.IsTrigger = def.Trigger
			c.Tag = string(row[start])
			out = append(out, c)
		}
	}
	return out
}

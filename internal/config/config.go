// Package config holds the settings of the light demo. Settings are loaded
// from a JSON file on top of defaults, so a file only names what it changes.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
)

// Config holds every setting of the demo.
type Config struct {
	Window   WindowConfig   `json:"window"`
	Lighting LightingConfig `json:"lighting"`
	Physics  PhysicsConfig  `json:"physics"`

	// Level is the path of the level file to load. Empty uses the built-in level.
	Level string `json:"level"`
}

// WindowConfig defines the window and logical screen.
type WindowConfig struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Title     string `json:"title"`
	Resizable bool   `json:"resizable"`
}

// LightingConfig defines how lights are created and composited.
type LightingConfig struct {
	ColliderCacheSize int     `json:"collider_cache_size"` // Max occluders a light considers per frame
	InitialTriangles  int     `json:"initial_triangles"`   // Fan triangles a new light provisions
	Ambient           float32 `json:"ambient"`             // Light level of unlit areas (0-1)

	// Player light
	Radius     float32 `json:"radius"`
	Power      float32 `json:"power"`
	Color      string  `json:"color"`      // Hex "RRGGBB"
	MoveSpeed  float32 `json:"move_speed"` // Pixels per tick
	RadiusStep float32 `json:"radius_step"`
}

// PhysicsConfig defines the collider spatial hash.
type PhysicsConfig struct {
	CellSize float32 `json:"cell_size"`
}

// DefaultConfig returns the settings used when no file overrides them.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:     960,
			Height:    640,
			Title:     "polylight",
			Resizable: true,
		},
		Lighting: LightingConfig{
			ColliderCacheSize: 10,
			InitialTriangles:  20,
			Ambient:           0.15,
			Radius:            200,
			Power:             1,
			Color:             "FFE0B0",
			MoveSpeed:         3,
			RadiusStep:        4,
		},
		Physics: PhysicsConfig{
			CellSize: 100,
		},
	}
}

// LoadConfig loads the config from a JSON file. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig() // Start with defaults
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks the values a run cannot start without.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Lighting.ColliderCacheSize <= 0 {
		return fmt.Errorf("collider_cache_size must be positive, got %d", c.Lighting.ColliderCacheSize)
	}
	if c.Lighting.InitialTriangles < 0 {
		return fmt.Errorf("initial_triangles must not be negative, got %d", c.Lighting.InitialTriangles)
	}
	if c.Lighting.Radius <= 0 {
		return fmt.Errorf("radius must be positive, got %g", c.Lighting.Radius)
	}
	if _, err := ParseHexColor(c.Lighting.Color); err != nil {
		return err
	}
	return nil
}

// LightColor returns the parsed player light colour.
func (c *Config) LightColor() color.NRGBA {
	clr, err := ParseHexColor(c.Lighting.Color)
	if err != nil {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return clr
}

// ParseHexColor parses "RRGGBB", with or without a leading '#'.
func ParseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("color %q must have 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

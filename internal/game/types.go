package game

import "image/color"

// Message represents an on-screen message that fades over time.
type Message struct {
	Text     string
	TimeLeft float64 // Seconds remaining
	MaxTime  float64 // Initial duration
}

// Scene colours.
var (
	floorColor   = color.RGBA{150, 140, 125, 255}
	gridColor    = color.RGBA{130, 120, 108, 255}
	wallColor    = color.RGBA{70, 60, 55, 255}
	glassColor   = color.RGBA{90, 150, 170, 255}
	triggerColor = color.RGBA{200, 180, 60, 255}
	boundsColor  = color.RGBA{255, 0, 255, 255}
	textColor    = color.RGBA{255, 255, 255, 255}
)

// Package app defines the full-screen apps the deck rotates through, and the launcher that rotates them.
package app

import (
	"image"
	"image/color"

	"github.com/ajanata/pixeldeck/internal/input"
)

// Display is the drawing API an app gets every frame. *display.Surface implements it.
type Display interface {
	Size() (w, h int16)
	DrawText(text string, at image.Point, c color.RGBA)
	TextWidth(text string) int
	DrawBitmap(img image.Image, at image.Point)
	DrawLine(from, to image.Point, c color.RGBA)
	DrawTriangle(a, b, c image.Point, col color.RGBA, filled bool)
}

type App interface {
	// Name is used for logging.
	Name() string
	// Draw renders the current state. It is called once per frame and must not block: anything slow has to
	// be resident already.
	Draw(Display)
	// Enable is called when the app becomes the active one.
	Enable()
	// Disable is called when the app stops being the active one.
	Disable()
	// Input handles one event while the app is active. Apps no-op on events they don't care about.
	Input(input.Event)
}

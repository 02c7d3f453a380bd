package display

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ajanata/pixeldeck/internal/input"
)

// canvas is the in-memory frame every backend draws into before presenting.
type canvas struct {
	img *image.RGBA
	w   int16
	h   int16
}

func newCanvas(w, h int16) canvas {
	c := canvas{
		img: image.NewRGBA(image.Rect(0, 0, int(w), int(h))),
		w:   w,
		h:   h,
	}
	c.Clear()
	return c
}

func (c *canvas) Size() (w, h int16) {
	return c.w, c.h
}

func (c *canvas) SetPixel(x, y int16, col color.RGBA) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.img.SetRGBA(int(x), int(y), col)
}

func (c *canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(Black), image.Point{}, draw.Src)
}

// At returns the pixel at x, y.
func (c *canvas) At(x, y int) color.RGBA {
	return c.img.RGBAAt(x, y)
}

// Offscreen is a backend that never leaves memory. Present is free.
type Offscreen struct {
	canvas
	frames int
}

func NewOffscreen(w, h int16) *Offscreen {
	return &Offscreen{canvas: newCanvas(w, h)}
}

func (o *Offscreen) Present() ([]input.Event, error) {
	o.frames++
	return nil, nil
}

// Frames is how many times Present was called.
func (o *Offscreen) Frames() int {
	return o.frames
}

func (o *Offscreen) Close() error {
	return nil
}

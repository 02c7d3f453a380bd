// Package display is the drawing surface shared by every app. A Surface wraps exactly one Backend
// (an LED matrix, a terminal window, or an offscreen buffer) so apps never care which one is live.
package display

import (
	"errors"
	"image"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"

	"github.com/ajanata/pixeldeck/internal/input"
	"github.com/ajanata/pixeldeck/internal/mirror"
)

// ErrQuit is returned by Present when the user closed the simulated window.
var ErrQuit = errors.New("display: quit requested")

var (
	Black = color.RGBA{A: 0xFF}
	White = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// Backend is a pixel canvas plus whatever it takes to get that canvas in front of a viewer.
type Backend interface {
	Size() (w, h int16)
	SetPixel(x, y int16, c color.RGBA)
	// Clear resets every pixel to black.
	Clear()
	// Present pushes the finished frame out and returns any input gathered while doing so.
	// It may block: the hardware backend waits for vsync, the simulated one paces to its framerate.
	Present() ([]input.Event, error)
	Close() error
}

// Surface is the backend-agnostic drawing API. It also satisfies drivers.Displayer.
type Surface struct {
	backend Backend
	target  drivers.Displayer
	font    tinyfont.Fonter
	w, h    int16
}

var _ drivers.Displayer = (*Surface)(nil)

type Option func(*Surface)

// WithMirror flips everything drawn on the surface along axis.
func WithMirror(axis mirror.Axis) Option {
	return func(s *Surface) {
		if axis != mirror.None {
			s.target = mirror.New(s.target, axis)
		}
	}
}

// WithFont replaces the default TomThumb font used by DrawText.
func WithFont(f tinyfont.Fonter) Option {
	return func(s *Surface) {
		s.font = f
	}
}

func New(b Backend, opts ...Option) *Surface {
	w, h := b.Size()
	s := &Surface{
		backend: b,
		target:  pixels{b},
		font:    &tinyfont.TomThumb,
		w:       w,
		h:       h,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Surface) Size() (x, y int16) {
	return s.w, s.h
}

// SetPixel draws a single pixel. Off-canvas coordinates are dropped.
func (s *Surface) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	s.target.SetPixel(x, y, c)
}

// Display presents the current frame and throws away any input it gathered.
// It exists so Displayer-based writers (the boot console) can flush on their own.
func (s *Surface) Display() error {
	_, err := s.Present()
	return err
}

func (s *Surface) Clear() {
	s.backend.Clear()
}

func (s *Surface) Present() ([]input.Event, error) {
	return s.backend.Present()
}

func (s *Surface) Close() error {
	return s.backend.Close()
}

// DrawText writes a single line of text. at is the left end of the baseline.
func (s *Surface) DrawText(text string, at image.Point, c color.RGBA) {
	tinyfont.WriteLine(s, s.font, int16(at.X), int16(at.Y), text, c)
}

// TextWidth is how many pixels DrawText would advance for text.
func (s *Surface) TextWidth(text string) int {
	_, outbox := tinyfont.LineWidth(s.font, text)
	return int(outbox)
}

// DrawBitmap copies img onto the surface with its top left corner at at, clipping anything off-canvas.
func (s *Surface) DrawBitmap(img image.Image, at image.Point) {
	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		xx := x - b.Min.X + at.X
		if xx < 0 || xx >= int(s.w) {
			continue
		}
		for y := b.Min.Y; y < b.Max.Y; y++ {
			yy := y - b.Min.Y + at.Y
			if yy < 0 || yy >= int(s.h) {
				continue
			}
			// RGBA returns 16 bit channels
			r, g, bl, a := img.At(x, y).RGBA()
			s.target.SetPixel(int16(xx), int16(yy), color.RGBA{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(bl >> 8),
				A: uint8(a >> 8),
			})
		}
	}
}

func (s *Surface) DrawLine(from, to image.Point, c color.RGBA) {
	tinydraw.Line(s, int16(from.X), int16(from.Y), int16(to.X), int16(to.Y), c)
}

func (s *Surface) DrawTriangle(a, b, c image.Point, col color.RGBA, filled bool) {
	if filled {
		tinydraw.FilledTriangle(s, int16(a.X), int16(a.Y), int16(b.X), int16(b.Y), int16(c.X), int16(c.Y), col)
		return
	}
	tinydraw.Triangle(s, int16(a.X), int16(a.Y), int16(b.X), int16(b.Y), int16(c.X), int16(c.Y), col)
}

// pixels lets a Backend sit underneath Displayer decorators. Presenting stays with the Surface.
type pixels struct {
	Backend
}

func (pixels) Display() error { return nil }

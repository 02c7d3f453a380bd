package display

import (
	"fmt"
	"image/color"

	"github.com/ajanata/pixeldeck/internal/input"
)

// Matrix is the LED panel controller. Render swaps the filled canvas in on the next vsync and blocks
// until it has, which is what paces the whole render loop on real hardware.
//
// github.com/mcuadros/go-rpi-rgb-led-matrix's Matrix satisfies this.
type Matrix interface {
	Geometry() (width, height int)
	Set(position int, c color.Color)
	Render() error
	Close() error
}

// Hardware draws into a local canvas and hands it to the matrix controller every frame.
type Hardware struct {
	canvas
	m Matrix
}

func NewHardware(m Matrix) (*Hardware, error) {
	w, h := m.Geometry()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("matrix reports unusable geometry %dx%d", w, h)
	}
	return &Hardware{
		canvas: newCanvas(int16(w), int16(h)),
		m:      m,
	}, nil
}

func (hw *Hardware) Present() ([]input.Event, error) {
	w := int(hw.w)
	for y := 0; y < int(hw.h); y++ {
		for x := 0; x < w; x++ {
			hw.m.Set(y*w+x, hw.img.RGBAAt(x, y))
		}
	}
	if err := hw.m.Render(); err != nil {
		return nil, fmt.Errorf("render matrix: %w", err)
	}
	return nil, nil
}

func (hw *Hardware) Close() error {
	return hw.m.Close()
}

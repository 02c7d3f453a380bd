// Package mirror flips a Displayer for panels that are mounted sideways or upside down.
package mirror

import (
	"fmt"
	"image/color"
	"strings"

	"tinygo.org/x/drivers"
)

// Axis selects which coordinates get flipped.
type Axis uint8

const (
	Horizontal Axis = 1 << iota
	Vertical

	None Axis = 0
	Both      = Horizontal | Vertical
)

func (a Axis) String() string {
	switch a {
	case None:
		return "none"
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Both:
		return "both"
	default:
		return "INVALID"
	}
}

// ParseAxis is the inverse of Axis.String.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return None, nil
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	case "both", "180":
		return Both, nil
	}
	return None, fmt.Errorf("unknown mirror axis %q", s)
}

type Mirror struct {
	d    drivers.Displayer
	axis Axis
	w, h int16
}

func New(d drivers.Displayer, axis Axis) *Mirror {
	w, h := d.Size()
	return &Mirror{
		d:    d,
		axis: axis,
		w:    w,
		h:    h,
	}
}

func (m *Mirror) Size() (x, y int16) {
	return m.w, m.h
}

func (m *Mirror) SetPixel(x, y int16, c color.RGBA) {
	if m.axis&Horizontal != 0 {
		x = m.w - x - 1
	}
	if m.axis&Vertical != 0 {
		y = m.h - y - 1
	}
	m.d.SetPixel(x, y, c)
}

func (m *Mirror) Display() error {
	return m.d.Display()
}

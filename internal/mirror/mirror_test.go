package mirror

import (
	"image"
	"image/color"
	"testing"
)

type grid struct {
	px map[image.Point]color.RGBA
}

func (g *grid) Size() (int16, int16) { return 4, 2 }

func (g *grid) SetPixel(x, y int16, c color.RGBA) {
	g.px[image.Pt(int(x), int(y))] = c
}

func (g *grid) Display() error { return nil }

func TestMirrorAxes(t *testing.T) {
	red := color.RGBA{R: 0xFF, A: 0xFF}
	tests := []struct {
		axis Axis
		want image.Point
	}{
		{None, image.Pt(0, 0)},
		{Horizontal, image.Pt(3, 0)},
		{Vertical, image.Pt(0, 1)},
		{Both, image.Pt(3, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.axis.String(), func(t *testing.T) {
			g := &grid{px: map[image.Point]color.RGBA{}}
			m := New(g, tt.axis)
			if w, h := m.Size(); w != 4 || h != 2 {
				t.Fatalf("size %dx%d", w, h)
			}
			m.SetPixel(0, 0, red)
			if g.px[tt.want] != red || len(g.px) != 1 {
				t.Fatalf("pixel landed at %v, want %v", g.px, tt.want)
			}
		})
	}
}

func TestParseAxis(t *testing.T) {
	for _, a := range []Axis{None, Horizontal, Vertical, Both} {
		got, err := ParseAxis(a.String())
		if err != nil || got != a {
			t.Errorf("ParseAxis(%q) = %v, %v", a.String(), got, err)
		}
	}
	if _, err := ParseAxis("diagonal"); err == nil {
		t.Error("expected error for unknown axis")
	}
}

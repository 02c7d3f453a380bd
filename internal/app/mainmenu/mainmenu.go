// Package mainmenu is the idle screen: a picture with the time and date on top.
package mainmenu

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/sirupsen/logrus"

	"github.com/ajanata/pixeldeck/internal/app"
	"github.com/ajanata/pixeldeck/internal/input"
	"github.com/ajanata/pixeldeck/internal/media"
)

const (
	timeFormat    = "15:04"
	secondsFormat = "15:04:05"
	dateFormat    = "02.01"
)

var (
	timeAt = image.Pt(2, 6)
	dateAt = image.Pt(2, 13)
	shadow = color.RGBA{A: 0xFF}
)

var ErrNoBackgrounds = errors.New("mainmenu: no background images")

type Menu struct {
	names   []string
	imgs    []image.Image
	current int
	seconds bool

	now  func() time.Time
	pick func(n int) int
	log  logrus.FieldLogger
}

var _ app.App = (*Menu)(nil)

type Option func(*Menu)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Menu) {
		m.now = now
	}
}

// WithPicker replaces the random background choice made on every Enable.
func WithPicker(pick func(n int) int) Option {
	return func(m *Menu) {
		m.pick = pick
	}
}

// New loads every built-in background up front so that switching pictures never touches the disk.
func New(log logrus.FieldLogger, opts ...Option) (*Menu, error) {
	names, err := media.Names(media.TypeFull)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrNoBackgrounds
	}

	m := &Menu{
		names: names,
		now:   time.Now,
		pick:  rand.Intn,
		log:   log,
	}
	for _, n := range names {
		img, err := media.LoadImage(media.TypeFull, n)
		if err != nil {
			return nil, err
		}
		m.imgs = append(m.imgs, img)
	}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

func (m *Menu) Name() string {
	return "mainmenu"
}

// Enable shows a random background.
func (m *Menu) Enable() {
	m.current = m.pick(len(m.imgs))
	m.log.WithField("background", m.names[m.current]).Debug("main menu background")
}

func (m *Menu) Disable() {}

// Background is the name of the picture being shown.
func (m *Menu) Background() string {
	return m.names[m.current]
}

func (m *Menu) Input(ev input.Event) {
	switch ev {
	case input.Next:
		m.current = (m.current + 1) % len(m.imgs)
	case input.Prev:
		m.current = (m.current + len(m.imgs) - 1) % len(m.imgs)
	case input.Pressed:
		m.seconds = !m.seconds
	}
}

func (m *Menu) Draw(d app.Display) {
	now := m.now()
	d.DrawBitmap(m.imgs[m.current], image.Point{})

	format := timeFormat
	if m.seconds {
		format = secondsFormat
	}
	c := tint(now)
	text(d, now.Format(format), timeAt, c)
	text(d, now.Format(dateFormat), dateAt, c)
}

// text draws s with a drop shadow so it stays readable on bright pictures.
func text(d app.Display, s string, at image.Point, c color.RGBA) {
	d.DrawText(s, at.Add(image.Pt(1, 1)), shadow)
	d.DrawText(s, at, c)
}

// tint walks the text colour once around the hue circle per day.
func tint(t time.Time) color.RGBA {
	minute := t.Hour()*60 + t.Minute()
	hue := float64(minute) / (24 * 60) * 360
	r, g, b := colorful.Hsv(hue, 0.3, 1).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

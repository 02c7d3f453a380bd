package display

import (
	"fmt"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/ajanata/pixeldeck/internal/input"
)

// upperHalf renders two vertically stacked pixels per cell: foreground on top, background below.
const upperHalf = '▀'

// Simulated shows the canvas in a terminal. Keys stand in for the encoder and its button.
type Simulated struct {
	canvas
	screen tcell.Screen
	events chan tcell.Event
	log    logrus.FieldLogger

	frameTime time.Duration
	lastFrame time.Time
	closed    bool
}

type SimulatedOption func(*Simulated)

// WithFramerate caps how often Present returns. Zero disables pacing.
func WithFramerate(fps uint) SimulatedOption {
	return func(s *Simulated) {
		if fps == 0 {
			s.frameTime = 0
			return
		}
		s.frameTime = time.Second / time.Duration(fps)
	}
}

func WithLogger(log logrus.FieldLogger) SimulatedOption {
	return func(s *Simulated) {
		s.log = log
	}
}

// NewSimulated takes ownership of screen, initializes it and starts pumping its events.
func NewSimulated(screen tcell.Screen, w, h int16, opts ...SimulatedOption) (*Simulated, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("unusable simulator size %dx%d", w, h)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	screen.HideCursor()
	screen.Clear()

	s := &Simulated{
		canvas:    newCanvas(w, h),
		screen:    screen,
		events:    make(chan tcell.Event, 64),
		log:       logrus.StandardLogger(),
		frameTime: time.Second / 60,
	}
	for _, o := range opts {
		o(s)
	}
	go s.pump()
	return s, nil
}

// pump forwards terminal events until the screen is finalized.
func (s *Simulated) pump() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			close(s.events)
			return
		}
		s.events <- ev
	}
}

func (s *Simulated) Present() ([]input.Event, error) {
	s.paint()
	s.screen.Show()

	if s.frameTime > 0 {
		if wait := s.frameTime - time.Since(s.lastFrame); wait > 0 {
			time.Sleep(wait)
		}
	}
	s.lastFrame = time.Now()

	var evs []input.Event
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				return evs, ErrQuit
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if isQuit(ev) {
					return evs, ErrQuit
				}
				if in, ok := keyInput(ev); ok {
					evs = append(evs, in)
				}
			case *tcell.EventResize:
				s.log.Debug("terminal resized")
				s.screen.Sync()
			}
		default:
			return evs, nil
		}
	}
}

func (s *Simulated) paint() {
	for y := int16(0); y < s.h; y += 2 {
		for x := int16(0); x < s.w; x++ {
			top := s.img.RGBAAt(int(x), int(y))
			bottom := Black
			if y+1 < s.h {
				bottom = s.img.RGBAAt(int(x), int(y+1))
			}
			style := tcell.StyleDefault.Foreground(termColor(top)).Background(termColor(bottom))
			s.screen.SetContent(int(x), int(y/2), upperHalf, nil, style)
		}
	}
}

func (s *Simulated) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.screen.Fini()
	return nil
}

func termColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

func keyInput(ev *tcell.EventKey) (input.Event, bool) {
	switch ev.Key() {
	case tcell.KeyRight, tcell.KeyDown:
		return input.Next, true
	case tcell.KeyLeft, tcell.KeyUp:
		return input.Prev, true
	case tcell.KeyEnter:
		return input.Pressed, true
	case tcell.KeyTab:
		return input.Held, true
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return input.Held, true
		}
	}
	return 0, false
}

// Package pixeldeck is the render loop of a small LED panel that rotates through full-screen apps.
package pixeldeck

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/ajanata/textbuf"
	"github.com/sirupsen/logrus"

	"github.com/ajanata/pixeldeck/internal/app"
	"github.com/ajanata/pixeldeck/internal/display"
	"github.com/ajanata/pixeldeck/internal/input"
)

// fpsLogEvery is how often the measured frame rate is logged.
const fpsLogEvery = time.Minute

// Deck owns the surface and drives the launcher one frame at a time.
type Deck struct {
	surface *display.Surface
	boot    *textbuf.Buffer
	log     logrus.FieldLogger

	init  bool
	start time.Time

	tick      uint32
	lastSec   time.Time
	lastTicks uint32
	lastFPS   uint32
	lastLog   time.Time
}

func New(surface *display.Surface, log logrus.FieldLogger) (*Deck, error) {
	if surface == nil {
		return nil, errors.New("must provide a display surface")
	}
	if log == nil {
		return nil, errors.New("must provide a logger")
	}
	return &Deck{
		surface: surface,
		log:     log,
		start:   time.Now(),
	}, nil
}

// Init puts a boot console on the panel. Until Run starts, Bootf writes to it.
func (d *Deck) Init() error {
	if d.init {
		return errors.New("already initialized")
	}
	d.log.Info("starting init")

	var err error
	d.boot, err = textbuf.New(d.surface, textbuf.FontSize6x8)
	if err != nil {
		return fmt.Errorf("init boot console: %w", err)
	}
	d.boot.AutoFlush = true

	w, h := d.boot.Size()
	if w < 8 || h < 4 {
		return errors.New("unusably small display")
	}

	if err := d.boot.SetLineInverse(0, "PIXELDECK"); err != nil {
		return fmt.Errorf("boot msg: %w", err)
	}
	// we already validated it has at least 4 lines
	_ = d.boot.SetY(1)

	mem := runtime.MemStats{}
	runtime.ReadMemStats(&mem)
	d.Bootf("%d CPU %dM", runtime.NumCPU(), mem.Sys>>20)

	d.init = true
	return nil
}

// Bootf prints one line on the boot console and logs it.
func (d *Deck) Bootf(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	d.log.Info(msg)
	if d.boot != nil && d.boot.AutoFlush {
		// the console is cosmetic; a line that doesn't fit is not worth failing over
		_ = d.boot.Println(msg)
	}
}

// Run draws frames until ctx is done or the simulated window is closed. Frame pacing comes from the
// backend's Present.
func (d *Deck) Run(ctx context.Context, l *app.Launcher, inputs <-chan input.Event) error {
	if !d.init {
		return errors.New("not initialized")
	}
	d.boot.AutoFlush = false
	d.log.WithField("boot", time.Since(d.start).Round(100*time.Millisecond)).Info("deck online")

	for ctx.Err() == nil {
		err := d.RunTick(l, inputs)
		if errors.Is(err, display.ErrQuit) {
			d.log.Info("quit requested")
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// RunTick runs a single iteration of the main loop: draw the active app, present, then hand every
// input gathered since the last frame to the launcher.
func (d *Deck) RunTick(l *app.Launcher, inputs <-chan input.Event) error {
	d.tick++
	if time.Since(d.lastSec) >= time.Second {
		d.lastFPS = d.tick - d.lastTicks
		d.lastSec = time.Now()
		d.lastTicks = d.tick
		if time.Since(d.lastLog) >= fpsLogEvery {
			d.log.WithField("fps", d.lastFPS).Debug("frame rate")
			d.lastLog = d.lastSec
		}
	}

	d.surface.Clear()
	l.Draw(d.surface)
	evs, err := d.surface.Present()
	if err != nil {
		return err
	}

	for _, ev := range evs {
		d.handle(l, ev)
	}
	for {
		select {
		case ev, ok := <-inputs:
			if !ok {
				return nil
			}
			d.handle(l, ev)
		default:
			return nil
		}
	}
}

func (d *Deck) handle(l *app.Launcher, ev input.Event) {
	d.log.WithField("event", ev).Debug("input")
	l.HandleInput(ev)
}

// FPS is the number of frames drawn during the last full second.
func (d *Deck) FPS() uint32 {
	return d.lastFPS
}

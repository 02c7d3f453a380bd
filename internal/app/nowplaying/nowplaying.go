// Package nowplaying shows what the music service is playing and turns the knob into a remote.
//
// All network traffic happens on a background Worker. The widget only ever reads the latest snapshot the
// worker published, so drawing never waits on the network.
package nowplaying

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ajanata/pixeldeck/internal/animation/marquee"
	"github.com/ajanata/pixeldeck/internal/app"
	"github.com/ajanata/pixeldeck/internal/input"
	"github.com/ajanata/pixeldeck/internal/media"
)

var (
	titleColor   = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	artistColor  = color.RGBA{R: 0x90, G: 0x90, B: 0x90, A: 0xFF}
	accentColor  = color.RGBA{R: 0x1D, G: 0xB9, B: 0x54, A: 0xFF}
	trackColor   = color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xFF}
	nothingColor = color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xFF}
)

const nothingPlayed = "Nothing playing"

// Widget is the now-playing app.
type Widget struct {
	worker *Worker
	cell   *cell
	active atomic.Bool
	log    logrus.FieldLogger
	now    func() time.Time

	// render-side state, only touched from Draw
	cached   *Snapshot
	title    *marquee.Marquee
	titleFor string
	coverFor *Snapshot
	cover    image.Image
}

var _ app.App = (*Widget)(nil)

type Option func(*Widget)

// WithInterval changes how often the worker ticks. Polls happen every other tick.
func WithInterval(d time.Duration) Option {
	return func(w *Widget) {
		w.worker.interval = d
	}
}

// WithClock replaces time.Now for both the worker and the progress display.
func WithClock(now func() time.Time) Option {
	return func(w *Widget) {
		w.now = now
		w.worker.now = now
	}
}

// New builds the widget and its worker. inputs is the deck's input channel: the worker sends Held on it
// when playback starts or stops so the launcher can bring the widget up or put it away. Call Run to start
// polling.
func New(client Client, covers CoverFetcher, inputs chan<- input.Event, log logrus.FieldLogger, opts ...Option) *Widget {
	w := &Widget{
		cell: &cell{},
		log:  log,
		now:  time.Now,
	}
	w.worker = newWorker(client, covers, w.cell, inputs, &w.active, log.WithField("worker", "nowplaying"))
	for _, o := range opts {
		o(w)
	}
	return w
}

// Run polls the service until ctx is done.
func (w *Widget) Run(ctx context.Context) {
	w.worker.Run(ctx)
}

// Worker exposes the background worker, mostly so it can be ticked by hand.
func (w *Widget) Worker() *Worker {
	return w.worker
}

func (w *Widget) Name() string {
	return "nowplaying"
}

func (w *Widget) Enable() {
	w.active.Store(true)
	w.titleFor = ""
}

func (w *Widget) Disable() {
	w.active.Store(false)
}

// Active reports whether the launcher is currently showing the widget.
func (w *Widget) Active() bool {
	return w.active.Load()
}

// Input turns Next, Prev and Pressed into skip, back and play/pause. The command runs on the worker's
// next tick.
func (w *Widget) Input(ev input.Event) {
	w.worker.Command(ev)
}

// Draw renders the newest snapshot it can get without waiting, or the last one it had.
func (w *Widget) Draw(d app.Display) {
	if s, ok := w.cell.tryLoad(); ok && s != nil {
		w.cached = s
	}
	s := w.cached

	width, height := d.Size()
	if !s.HasTrack() {
		tw := d.TextWidth(nothingPlayed)
		x := (int(width) - tw) / 2
		if x < 0 {
			x = 0
		}
		d.DrawText(nothingPlayed, image.Pt(x, int(height)/2+2), nothingColor)
		return
	}

	w.loadCover(s)
	left := 2
	if w.cover != nil {
		left = w.cover.Bounds().Dx() + 2
	}
	right := int(width) - 1

	if w.title == nil || w.titleFor != s.Title {
		w.title = marquee.New(right - left)
		w.title.Reset(d.TextWidth(s.Title))
		w.titleFor = s.Title
	}
	x := left - w.title.Offset()
	d.DrawText(s.Title, image.Pt(x, 7), titleColor)
	if w.title.Scrolls() {
		d.DrawText(s.Title, image.Pt(x+w.title.Period(), 7), titleColor)
	}
	w.title.Advance()

	d.DrawText(s.Artist(), image.Pt(left, 14), artistColor)

	// play state
	if s.Paused {
		d.DrawLine(image.Pt(left, 18), image.Pt(left, 23), titleColor)
		d.DrawLine(image.Pt(left+1, 18), image.Pt(left+1, 23), titleColor)
		d.DrawLine(image.Pt(left+3, 18), image.Pt(left+3, 23), titleColor)
		d.DrawLine(image.Pt(left+4, 18), image.Pt(left+4, 23), titleColor)
	} else {
		d.DrawTriangle(image.Pt(left, 18), image.Pt(left, 23), image.Pt(left+4, 20), accentColor, true)
	}

	elapsed := s.Elapsed(w.now())
	d.DrawText(clock(elapsed), image.Pt(left+7, 23), artistColor)

	// progress
	bar := int(height) - 3
	d.DrawLine(image.Pt(left, bar), image.Pt(right, bar), trackColor)
	if s.Duration > 0 {
		filled := left + int(int64(right-left)*int64(elapsed)/int64(s.Duration))
		d.DrawLine(image.Pt(left, bar), image.Pt(filled, bar), accentColor)
	}

	// the cover goes last so it hides the title scrolling out of its box
	if w.cover != nil {
		d.DrawBitmap(w.cover, image.Point{})
	}
}

func (w *Widget) loadCover(s *Snapshot) {
	if w.coverFor == s {
		return
	}
	if w.coverFor != nil && len(s.Cover) > 0 && len(w.coverFor.Cover) > 0 && &s.Cover[0] == &w.coverFor.Cover[0] {
		// same art carried over to a new snapshot
		w.coverFor = s
		return
	}
	w.coverFor = s
	w.cover = nil
	if len(s.Cover) == 0 {
		return
	}
	img, err := media.Decode(s.Cover)
	if err != nil {
		w.log.WithError(err).Debug("could not decode cover art")
		return
	}
	w.cover = img
}

// clock formats d as m:ss.
func clock(d time.Duration) string {
	sec := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}

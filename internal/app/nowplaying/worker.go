package nowplaying

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ajanata/pixeldeck/internal/input"
)

const (
	// DefaultInterval is how often the worker wakes up to run queued commands.
	DefaultInterval = time.Second
	// pollEvery is how many ticks pass between two polls of the service.
	pollEvery = 2
	// commandQueue is how many remote commands may wait for the next tick.
	commandQueue = 8
)

// Worker talks to the music service. It owns every network call, so the render loop never waits on one.
type Worker struct {
	client   Client
	covers   CoverFetcher
	cell     *cell
	cmds     chan input.Event
	inputs   chan<- input.Event
	active   *atomic.Bool
	log      logrus.FieldLogger
	interval time.Duration
	now      func() time.Time

	tick    uint64
	last    *Snapshot
	playing bool
}

func newWorker(client Client, covers CoverFetcher, c *cell, inputs chan<- input.Event, active *atomic.Bool, log logrus.FieldLogger) *Worker {
	return &Worker{
		client:   client,
		covers:   covers,
		cell:     c,
		cmds:     make(chan input.Event, commandQueue),
		inputs:   inputs,
		active:   active,
		log:      log,
		interval: DefaultInterval,
		now:      time.Now,
	}
}

// Run ticks until ctx is done. The first tick happens right away.
func (w *Worker) Run(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()

	w.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.Tick(ctx)
		}
	}
}

// Tick runs every queued command, then polls the service on every other tick starting with the first.
func (w *Worker) Tick(ctx context.Context) {
	w.tick++
	w.drain(ctx)
	if w.tick%pollEvery == 1 {
		w.poll(ctx)
	}
}

// Command queues ev for the next tick. A full queue drops the command, and reports false.
func (w *Worker) Command(ev input.Event) bool {
	switch ev {
	case input.Next, input.Prev, input.Pressed:
	default:
		return false
	}
	if !input.Send(w.cmds, ev) {
		w.log.WithField("command", ev).Debug("command queue full, dropped")
		return false
	}
	return true
}

func (w *Worker) drain(ctx context.Context) {
	for {
		select {
		case ev := <-w.cmds:
			w.apply(ctx, ev)
		default:
			return
		}
	}
}

func (w *Worker) apply(ctx context.Context, ev input.Event) {
	var err error
	switch ev {
	case input.Next:
		err = w.client.Next(ctx)
	case input.Prev:
		err = w.client.Previous(ctx)
	case input.Pressed:
		if w.playing {
			err = w.client.Pause(ctx)
		} else {
			err = w.client.Resume(ctx)
		}
		if err == nil {
			w.playing = !w.playing
		}
	}
	if err != nil {
		w.log.WithError(err).WithField("command", ev).Warn("player command failed")
	}
}

func (w *Worker) poll(ctx context.Context) {
	pb, err := w.client.Playback(ctx)
	if err != nil {
		w.log.WithError(err).Debug("could not get playback state")
		return
	}
	item, err := w.client.PlayingItem(ctx)
	if err != nil {
		w.log.WithError(err).Debug("could not get playing item")
		return
	}

	next := &Snapshot{Taken: w.now()}
	if pb != nil {
		next.Paused = !pb.Playing
		next.Progress = pb.Progress
		next.Device = pb.Device
	}
	if item != nil {
		next.Title = item.Name
		next.Artists = item.Artists
		next.Duration = item.Duration
		next.Cover = w.cover(ctx, item)
	}

	w.playing = pb != nil && pb.Playing
	had := w.last.HasTrack()
	w.last = next
	w.cell.publish(next)

	if had != next.HasTrack() {
		w.signal(next.HasTrack())
	}
}

// cover returns the art for item, reusing the last bytes while the track stays the same.
func (w *Worker) cover(ctx context.Context, item *Item) []byte {
	if w.last.HasTrack() && w.last.Title == item.Name {
		return w.last.Cover
	}
	if item.CoverURL == "" || w.covers == nil {
		return nil
	}
	raw, err := w.covers.Fetch(ctx, item.CoverURL)
	if err != nil {
		w.log.WithError(err).WithField("url", item.CoverURL).Debug("could not fetch cover art")
		return nil
	}
	return raw
}

// signal asks the launcher to rotate when playback started while the widget is hidden, or stopped while
// it is showing. It never blocks the worker.
func (w *Worker) signal(playing bool) {
	if playing == w.active.Load() {
		return
	}
	if !input.Send(w.inputs, input.Held) {
		w.log.Debug("input queue full, not switching apps")
		return
	}
	w.log.WithField("playing", playing).Debug("requested app switch")
}

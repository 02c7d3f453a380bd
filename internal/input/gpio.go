package input

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// PollInterval is how often the poller samples the lines.
const PollInterval = time.Millisecond

// Pin is a single readable input line.
type Pin interface {
	Read() gpio.Level
}

// Pins names the physical lines of the encoder and its push switch, as understood by gpioreg.ByName.
type Pins struct {
	Clock  string
	Data   string
	Switch string
}

// DefaultPins are the BCM pins the encoder board is usually wired to.
var DefaultPins = Pins{Clock: "GPIO25", Data: "GPIO8", Switch: "GPIO7"}

var errNoPin = errors.New("no such gpio")

// Poller samples an encoder and a button on a fixed interval and emits events.
type Poller struct {
	clk, dat, sw Pin
	log          logrus.FieldLogger

	enc Encoder
	btn Button
	now func() time.Time
}

// NewPoller builds a poller over already configured lines.
func NewPoller(clk, dat, sw Pin, log logrus.FieldLogger) *Poller {
	return &Poller{
		clk: clk,
		dat: dat,
		sw:  sw,
		log: log,
		enc: NewEncoder(),
		btn: NewButton(),
		now: time.Now,
	}
}

// OpenPoller looks up the named lines and configures them as pulled-up inputs.
// The host drivers must already be initialized (host.Init).
func OpenPoller(pins Pins, log logrus.FieldLogger) (*Poller, error) {
	var lines [3]gpio.PinIO
	for i, name := range []string{pins.Clock, pins.Data, pins.Switch} {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("open %q: %w", name, errNoPin)
		}
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("configure %q: %w", name, err)
		}
		lines[i] = p
	}
	log.WithField("pins", pins).Info("input lines configured")
	return NewPoller(lines[0], lines[1], lines[2], log), nil
}

// Poll takes one sample of every line and returns the events it produced, encoder first.
func (p *Poller) Poll() []Event {
	var evs []Event
	if ev, ok := p.enc.Sample(p.clk.Read(), p.dat.Read()); ok {
		evs = append(evs, ev)
	}
	if ev, ok := p.btn.Sample(p.sw.Read(), p.now()); ok {
		evs = append(evs, ev)
	}
	return evs
}

// Run polls until ctx is done, sending every event to out.
func (p *Poller) Run(ctx context.Context, out chan<- Event) {
	t := time.NewTicker(PollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		for _, ev := range p.Poll() {
			p.log.WithField("event", ev).Debug("input")
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

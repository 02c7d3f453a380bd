package input

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

const (
	// MinPress is the shortest press accepted as Pressed. Anything shorter is contact bounce.
	MinPress = 75 * time.Millisecond
	// MaxPress is the upper bound (exclusive) for Pressed.
	MaxPress = 500 * time.Millisecond
	// MinHold is the shortest press accepted as Held. Presses between MaxPress and MinHold are
	// ambiguous and produce no event.
	MinHold = 1000 * time.Millisecond
)

// Encoder tracks the clock line of a quadrature rotary encoder.
// The zero value is not ready for use; the encoder lines idle high with pull-ups so start from NewEncoder.
type Encoder struct {
	clk gpio.Level
}

func NewEncoder() Encoder {
	return Encoder{clk: gpio.High}
}

// Sample feeds one reading of the clock and data lines, taken in the same instant.
// On a clock transition, a data line that disagrees with the new clock level means Next, otherwise Prev.
func (e *Encoder) Sample(clk, dat gpio.Level) (Event, bool) {
	if clk == e.clk {
		return 0, false
	}
	e.clk = clk
	if dat != clk {
		return Next, true
	}
	return Prev, true
}

// Button tracks an active-low push button.
type Button struct {
	level   gpio.Level
	pressed time.Time
}

func NewButton() Button {
	return Button{level: gpio.High}
}

// Sample feeds one reading of the button line taken at now.
// A high->low edge starts a press; the following low->high edge classifies it by duration.
func (b *Button) Sample(level gpio.Level, now time.Time) (Event, bool) {
	prev := b.level
	b.level = level
	switch {
	case prev == gpio.High && level == gpio.Low:
		b.pressed = now
	case prev == gpio.Low && level == gpio.High:
		return Classify(now.Sub(b.pressed))
	}
	return 0, false
}

// Classify maps how long the button was held to an event.
func Classify(held time.Duration) (Event, bool) {
	switch {
	case held > MinPress && held < MaxPress:
		return Pressed, true
	case held > MinHold:
		return Held, true
	default:
		return 0, false
	}
}

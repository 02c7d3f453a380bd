// Package input turns raw rotary encoder and push button levels into discrete input events.
package input

// Event is a single discrete user input. It carries no payload.
type Event uint8

const (
	// Next is one detent of the encoder in the clockwise direction.
	Next Event = iota
	// Prev is one detent of the encoder in the counter-clockwise direction.
	Prev
	// Pressed is a short press of the button.
	Pressed
	// Held is a long press of the button. The launcher uses it to switch apps.
	Held
)

func (e Event) String() string {
	switch e {
	case Next:
		return "next"
	case Prev:
		return "prev"
	case Pressed:
		return "pressed"
	case Held:
		return "held"
	default:
		return "INVALID"
	}
}

// Send delivers ev to ch without blocking. It reports whether the event was delivered.
func Send(ch chan<- Event, ev Event) bool {
	select {
	case ch <- ev:
		return true
	default:
		return false
	}
}

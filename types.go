package pixeldeck

import "fmt"

// Mode selects the display backend.
type Mode uint8

const (
	// ModeSimulated draws the panel into the terminal and reads the keyboard instead of the encoder.
	ModeSimulated Mode = iota
	// ModeHardware drives a HUB75 matrix and reads the encoder over GPIO.
	ModeHardware
)

func (m Mode) String() string {
	switch m {
	case ModeSimulated:
		return "simulated"
	case ModeHardware:
		return "hardware"
	default:
		return "INVALID"
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "simulated", "sim", "":
		return ModeSimulated, nil
	case "hardware", "hw":
		return ModeHardware, nil
	default:
		return 0, fmt.Errorf("unknown display mode %q", s)
	}
}

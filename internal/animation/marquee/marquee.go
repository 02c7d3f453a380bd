// Package marquee scrolls a line that is wider than the box it has to fit in.
package marquee

const (
	// DefaultPause is how many frames the line rests at its start before each pass.
	DefaultPause = 90
	// DefaultEvery moves the line one pixel every this many frames.
	DefaultEvery = 3
	// Gap is the blank space between the end of the line and its repeat.
	Gap = 8
)

type Marquee struct {
	window  int
	content int
	offset  int

	Pause int
	Every int

	held  int
	frame int
}

func New(window int) *Marquee {
	return &Marquee{
		window: window,
		Pause:  DefaultPause,
		Every:  DefaultEvery,
	}
}

// Reset starts over with a line that is content pixels wide.
func (m *Marquee) Reset(content int) {
	m.content = content
	m.offset = 0
	m.held = 0
	m.frame = 0
}

// Scrolls reports whether the line needs to move at all.
func (m *Marquee) Scrolls() bool {
	return m.content > m.window
}

// Offset is how far the line has moved left. Draw it at x-Offset and, when Scrolls, again at
// x-Offset+Period so the wrap is seamless.
func (m *Marquee) Offset() int {
	return m.offset
}

// Period is the distance after which the line repeats.
func (m *Marquee) Period() int {
	return m.content + Gap
}

// Advance moves to the next frame.
func (m *Marquee) Advance() {
	if !m.Scrolls() {
		return
	}
	if m.offset == 0 && m.held < m.Pause {
		m.held++
		return
	}
	m.frame++
	if m.Every > 1 && m.frame%m.Every != 0 {
		return
	}
	m.offset++
	if m.offset >= m.Period() {
		m.offset = 0
		m.held = 0
	}
}

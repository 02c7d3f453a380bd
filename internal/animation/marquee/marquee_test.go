package marquee

import "testing"

func TestShortLineStaysPut(t *testing.T) {
	m := New(30)
	m.Reset(20)
	for i := 0; i < 500; i++ {
		m.Advance()
	}
	if m.Scrolls() || m.Offset() != 0 {
		t.Fatalf("offset %d for a line that fits", m.Offset())
	}
}

func TestLongLinePausesScrollsAndWraps(t *testing.T) {
	m := New(30)
	m.Pause = 5
	m.Every = 1
	m.Reset(40)

	for i := 0; i < 5; i++ {
		m.Advance()
		if m.Offset() != 0 {
			t.Fatalf("moved during pause at frame %d", i)
		}
	}
	m.Advance()
	if m.Offset() != 1 {
		t.Fatalf("offset %d after pause, want 1", m.Offset())
	}
	for m.Offset() != 0 {
		m.Advance()
	}
	// wrapped after a whole period, and pauses again
	m.Advance()
	if m.Offset() != 0 {
		t.Fatal("no pause after wrap")
	}
}

func TestEverySlowsScroll(t *testing.T) {
	m := New(10)
	m.Pause = 0
	m.Every = 3
	m.Reset(100)
	for i := 0; i < 9; i++ {
		m.Advance()
	}
	if m.Offset() != 3 {
		t.Fatalf("offset %d after 9 frames at 1px/3 frames", m.Offset())
	}
}

package nowplaying

import (
	"strings"
	"sync"
	"time"
)

// Snapshot is everything the widget needs to draw one frame. Once published it is never modified, so
// sharing the pointer (and the Cover slice) between goroutines is safe.
type Snapshot struct {
	Title    string
	Artists  []string
	Duration time.Duration
	Progress time.Duration
	Paused   bool
	Device   string
	// Cover is the album art as BMP bytes, or nil.
	Cover []byte
	// Taken is when the service reported Progress.
	Taken time.Time
}

// HasTrack reports whether something is loaded. A nil snapshot has no track.
func (s *Snapshot) HasTrack() bool {
	return s != nil && s.Title != ""
}

// Artist joins the artist names for display.
func (s *Snapshot) Artist() string {
	return strings.Join(s.Artists, ", ")
}

// Elapsed extrapolates the playback position to now, so the progress bar moves between polls.
func (s *Snapshot) Elapsed(now time.Time) time.Duration {
	e := s.Progress
	if !s.Paused && !s.Taken.IsZero() {
		e += now.Sub(s.Taken)
	}
	if s.Duration > 0 && e > s.Duration {
		e = s.Duration
	}
	if e < 0 {
		e = 0
	}
	return e
}

// cell holds the latest snapshot. There is exactly one writer (the worker). Readers on the render path
// only ever try the lock and fall back to their own copy, so a slow writer can never stall a frame.
type cell struct {
	mu   sync.RWMutex
	snap *Snapshot
}

func (c *cell) publish(s *Snapshot) {
	c.mu.Lock()
	c.snap = s
	c.mu.Unlock()
}

// tryLoad returns the latest snapshot, or false if the writer holds the lock right now.
func (c *cell) tryLoad() (*Snapshot, bool) {
	if !c.mu.TryRLock() {
		return nil, false
	}
	defer c.mu.RUnlock()
	return c.snap, true
}

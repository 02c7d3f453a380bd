package nowplaying

import (
	"context"
	"time"
)

// Playback is the player state of the account.
type Playback struct {
	Playing  bool
	Progress time.Duration
	Device   string
}

// Item is the track that is currently loaded in the player.
type Item struct {
	Name     string
	Artists  []string
	Duration time.Duration
	// CoverURL is the album art. The smallest image that still covers the panel is preferred.
	CoverURL string
}

// Client is the music service. Every call may fail; failures only ever cost the current tick.
type Client interface {
	// Playback returns nil without an error when no device is active.
	Playback(ctx context.Context) (*Playback, error)
	// PlayingItem returns nil without an error when nothing is loaded.
	PlayingItem(ctx context.Context) (*Item, error)
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
}

// CoverFetcher downloads album art and returns it as a BMP sized for the panel.
type CoverFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

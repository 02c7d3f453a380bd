// Package spotify connects the now-playing widget to the Spotify Web API.
package spotify

import (
	"context"
	"time"

	spotifyapi "github.com/zmb3/spotify/v2"

	"github.com/ajanata/pixeldeck/internal/app/nowplaying"
)

// Client implements nowplaying.Client.
type Client struct {
	api       *spotifyapi.Client
	market    string
	coverSize int
}

var _ nowplaying.Client = (*Client)(nil)

// NewClient wraps an API client. market restricts track lookups to one country and may be empty.
// coverSize is the edge of the art the panel shows, used to pick the smallest image that covers it.
func NewClient(api *spotifyapi.Client, market string, coverSize int) *Client {
	return &Client{api: api, market: market, coverSize: coverSize}
}

func (c *Client) opts() []spotifyapi.RequestOption {
	if c.market == "" {
		return nil
	}
	return []spotifyapi.RequestOption{spotifyapi.Market(c.market)}
}

func (c *Client) Playback(ctx context.Context) (*nowplaying.Playback, error) {
	st, err := c.api.PlayerState(ctx, c.opts()...)
	if err != nil {
		return nil, err
	}
	if st == nil || (st.Device.Name == "" && !st.Playing) {
		return nil, nil
	}
	return &nowplaying.Playback{
		Playing:  st.Playing,
		Progress: time.Duration(st.Progress) * time.Millisecond,
		Device:   st.Device.Name,
	}, nil
}

func (c *Client) PlayingItem(ctx context.Context) (*nowplaying.Item, error) {
	cp, err := c.api.PlayerCurrentlyPlaying(ctx, c.opts()...)
	if err != nil {
		return nil, err
	}
	if cp == nil || cp.Item == nil {
		return nil, nil
	}

	t := cp.Item
	item := &nowplaying.Item{
		Name:     t.Name,
		Duration: time.Duration(t.Duration) * time.Millisecond,
		CoverURL: c.pickCover(t.Album.Images),
	}
	for _, a := range t.Artists {
		item.Artists = append(item.Artists, a.Name)
	}
	return item, nil
}

// pickCover returns the smallest image at least coverSize wide, or the largest one if none are.
func (c *Client) pickCover(imgs []spotifyapi.Image) string {
	best := -1
	largest := -1
	for i, img := range imgs {
		w := int(img.Width)
		if largest < 0 || w > int(imgs[largest].Width) {
			largest = i
		}
		if w >= c.coverSize && (best < 0 || w < int(imgs[best].Width)) {
			best = i
		}
	}
	if best < 0 {
		best = largest
	}
	if best < 0 {
		return ""
	}
	return imgs[best].URL
}

func (c *Client) Next(ctx context.Context) error {
	return c.api.Next(ctx)
}

func (c *Client) Previous(ctx context.Context) error {
	return c.api.Previous(ctx)
}

func (c *Client) Pause(ctx context.Context) error {
	return c.api.Pause(ctx)
}

func (c *Client) Resume(ctx context.Context) error {
	return c.api.Play(ctx)
}

// Package coverart downloads album art and shrinks it to the panel.
package coverart

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"

	"github.com/ajanata/pixeldeck/internal/media"
)

// maxBytes caps a download. Album art is a few hundred kilobytes at most.
const maxBytes = 4 << 20

// Fetcher turns an image URL into a size x size BMP.
type Fetcher struct {
	client *http.Client
	size   int
}

// New returns a Fetcher that uses client, or http.DefaultClient if client is nil.
func New(client *http.Client, size int) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client, size: size}
}

// Fetch downloads url, decodes it as JPEG or PNG and returns it scaled to a square BMP.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("coverart: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coverart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coverart: %s: %s", url, resp.Status)
	}

	src, _, err := image.Decode(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("coverart: decode %s: %w", url, err)
	}

	return Scale(src, f.size)
}

// Scale resizes src to a size x size square and encodes it as BMP.
func Scale(src image.Image, size int) ([]byte, error) {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := media.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("coverart: encode: %w", err)
	}
	return buf.Bytes(), nil
}

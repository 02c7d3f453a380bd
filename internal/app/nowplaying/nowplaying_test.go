package nowplaying

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/ajanata/pixeldeck/internal/input"
	"github.com/ajanata/pixeldeck/internal/media"
)

type fakeClient struct {
	mu       sync.Mutex
	playback *Playback
	item     *Item
	err      error
	calls    map[string]int
	cmdErr   error
}

func newFakeClient() *fakeClient {
	return &fakeClient{calls: map[string]int{}}
}

func (c *fakeClient) play(pb *Playback, item *Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playback, c.item, c.err = pb, item, nil
}

func (c *fakeClient) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *fakeClient) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}

func (c *fakeClient) record(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[name]++
	return c.cmdErr
}

func (c *fakeClient) Playback(context.Context) (*Playback, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["playback"]++
	return c.playback, c.err
}

func (c *fakeClient) PlayingItem(context.Context) (*Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["item"]++
	return c.item, c.err
}

func (c *fakeClient) Next(context.Context) error     { return c.record("next") }
func (c *fakeClient) Previous(context.Context) error { return c.record("previous") }
func (c *fakeClient) Pause(context.Context) error    { return c.record("pause") }
func (c *fakeClient) Resume(context.Context) error   { return c.record("resume") }

type fakeCovers struct {
	mu      sync.Mutex
	fetches int
	raw     []byte
}

func (f *fakeCovers) Fetch(context.Context, string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	return f.raw, nil
}

// recorder is an app.Display that remembers what was drawn.
type recorder struct {
	texts   []string
	bitmaps int
	lines   int
	tris    int
}

func (r *recorder) Size() (int16, int16) { return 64, 32 }
func (r *recorder) DrawText(text string, _ image.Point, _ color.RGBA) {
	r.texts = append(r.texts, text)
}
func (r *recorder) TextWidth(text string) int                           { return 4 * len(text) }
func (r *recorder) DrawBitmap(image.Image, image.Point)                 { r.bitmaps++ }
func (r *recorder) DrawLine(image.Point, image.Point, color.RGBA)       { r.lines++ }
func (r *recorder) DrawTriangle(_, _, _ image.Point, _ color.RGBA, _ bool) { r.tris++ }

func (r *recorder) drew(s string) bool {
	for _, t := range r.texts {
		if t == s {
			return true
		}
	}
	return false
}

func coverBMP(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 0x80, A: 0xFF}), image.Point{}, draw.Src)
	var buf bytes.Buffer
	if err := media.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newWidget(client Client, covers CoverFetcher, inputs chan input.Event) *Widget {
	log, _ := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return New(client, covers, inputs, log)
}

func pending(ch chan input.Event) int {
	n := 0
	for {
		select {
		case <-ch:
			n++
		default:
			return n
		}
	}
}

func foo() (*Playback, *Item) {
	return &Playback{Playing: true, Progress: 10 * time.Second, Device: "Kitchen"},
		&Item{Name: "Foo", Artists: []string{"A", "B"}, Duration: 3 * time.Minute, CoverURL: "http://covers/foo"}
}

func TestPollsEveryOtherTick(t *testing.T) {
	c := newFakeClient()
	w := newWidget(c, nil, make(chan input.Event, 4))
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		w.Worker().Tick(ctx)
	}
	if got := c.count("playback"); got != 3 {
		t.Fatalf("%d polls in 5 ticks, want 3", got)
	}
}

func TestHeldSentWhenPlaybackStartsWhileHidden(t *testing.T) {
	c := newFakeClient()
	inputs := make(chan input.Event, 4)
	w := newWidget(c, nil, inputs)
	ctx := context.Background()

	w.Worker().Tick(ctx)
	w.Worker().Tick(ctx)
	if n := pending(inputs); n != 0 {
		t.Fatalf("%d events while nothing plays", n)
	}

	c.play(foo())
	w.Worker().Tick(ctx)
	select {
	case ev := <-inputs:
		if ev != input.Held {
			t.Fatalf("got %v, want held", ev)
		}
	default:
		t.Fatal("no held after playback started")
	}

	// still playing: no more switching
	w.Worker().Tick(ctx)
	w.Worker().Tick(ctx)
	if n := pending(inputs); n != 0 {
		t.Fatalf("%d extra events", n)
	}
}

func TestNoHeldWhenAlreadyShowing(t *testing.T) {
	c := newFakeClient()
	c.play(foo())
	inputs := make(chan input.Event, 4)
	w := newWidget(c, nil, inputs)
	w.Enable()
	w.Worker().Tick(context.Background())
	if n := pending(inputs); n != 0 {
		t.Fatalf("%d events, want none", n)
	}
}

func TestHeldSentWhenPlaybackStopsWhileShowing(t *testing.T) {
	c := newFakeClient()
	c.play(foo())
	inputs := make(chan input.Event, 4)
	w := newWidget(c, nil, inputs)
	w.Enable()
	ctx := context.Background()
	w.Worker().Tick(ctx)

	c.play(nil, nil)
	w.Worker().Tick(ctx)
	w.Worker().Tick(ctx)
	if n := pending(inputs); n != 1 {
		t.Fatalf("%d events after playback stopped, want 1", n)
	}

	// stopping while hidden is left alone
	c.play(foo())
	w.Disable()
	w.Worker().Tick(ctx)
	w.Worker().Tick(ctx)
	pending(inputs)
	c.play(nil, nil)
	w.Worker().Tick(ctx)
	w.Worker().Tick(ctx)
	if n := pending(inputs); n != 0 {
		t.Fatalf("%d events while hidden, want none", n)
	}
}

func TestHeldNeverBlocksWorker(t *testing.T) {
	c := newFakeClient()
	c.play(foo())
	inputs := make(chan input.Event) // nobody listening
	w := newWidget(c, nil, inputs)

	done := make(chan struct{})
	go func() {
		w.Worker().Tick(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker blocked on a full input queue")
	}
}

func TestCoverFetchedOncePerTrack(t *testing.T) {
	c := newFakeClient()
	c.play(foo())
	covers := &fakeCovers{raw: coverBMP(t)}
	w := newWidget(c, covers, make(chan input.Event, 4))
	ctx := context.Background()

	w.Worker().Tick(ctx)
	w.Worker().Tick(ctx)
	pb, item := foo()
	pb.Progress = 12 * time.Second
	c.play(pb, item)
	w.Worker().Tick(ctx)

	if covers.fetches != 1 {
		t.Fatalf("%d fetches for one track", covers.fetches)
	}
	s, _ := w.cell.tryLoad()
	if s.Progress != 12*time.Second {
		t.Fatalf("progress %v, want the new poll's", s.Progress)
	}
	if !bytes.Equal(s.Cover, covers.raw) {
		t.Fatal("cover not carried over")
	}

	_, item = foo()
	item.Name = "Bar"
	c.play(pb, item)
	w.Worker().Tick(ctx)
	w.Worker().Tick(ctx)
	if covers.fetches != 2 {
		t.Fatalf("%d fetches after the track changed, want 2", covers.fetches)
	}
}

func TestFailedPollKeepsSnapshot(t *testing.T) {
	c := newFakeClient()
	c.play(foo())
	w := newWidget(c, nil, make(chan input.Event, 4))
	ctx := context.Background()
	w.Worker().Tick(ctx)
	before, _ := w.cell.tryLoad()

	c.fail(errors.New("503"))
	w.Worker().Tick(ctx)
	w.Worker().Tick(ctx)
	after, _ := w.cell.tryLoad()
	if after != before {
		t.Fatal("failed poll replaced the snapshot")
	}
}

func TestCommands(t *testing.T) {
	c := newFakeClient()
	c.play(foo())
	w := newWidget(c, nil, make(chan input.Event, 4))
	ctx := context.Background()
	w.Worker().Tick(ctx)

	w.Input(input.Next)
	w.Input(input.Prev)
	w.Input(input.Pressed)
	if c.count("next") != 0 {
		t.Fatal("command ran before the next tick")
	}
	w.Worker().Tick(ctx)
	if c.count("next") != 1 || c.count("previous") != 1 {
		t.Fatalf("calls %v", c.calls)
	}
	if c.count("pause") != 1 || c.count("resume") != 0 {
		t.Fatalf("pressed while playing: calls %v", c.calls)
	}

	w.Input(input.Pressed)
	w.Worker().Tick(ctx)
	if c.count("resume") != 1 {
		t.Fatalf("pressed while paused: calls %v", c.calls)
	}

	if w.Worker().Command(input.Held) {
		t.Fatal("held accepted as a command")
	}
}

func TestCommandErrorsAreSwallowed(t *testing.T) {
	c := newFakeClient()
	c.cmdErr = errors.New("no active device")
	w := newWidget(c, nil, make(chan input.Event, 4))
	w.Input(input.Next)
	w.Worker().Tick(context.Background())
	if c.count("next") != 1 {
		t.Fatal("command not attempted")
	}
}

func TestCommandQueueDropsWhenFull(t *testing.T) {
	w := newWidget(newFakeClient(), nil, make(chan input.Event, 4))
	for i := 0; i < commandQueue; i++ {
		if !w.Worker().Command(input.Next) {
			t.Fatalf("command %d dropped", i)
		}
	}
	if w.Worker().Command(input.Next) {
		t.Fatal("command accepted past queue capacity")
	}
}

func TestDrawNothingPlaying(t *testing.T) {
	w := newWidget(newFakeClient(), nil, make(chan input.Event, 4))
	var r recorder
	w.Draw(&r)
	if !r.drew(nothingPlayed) {
		t.Fatalf("drew %v", r.texts)
	}
}

func TestDrawTrack(t *testing.T) {
	c := newFakeClient()
	c.play(foo())
	w := newWidget(c, &fakeCovers{raw: coverBMP(t)}, make(chan input.Event, 4))
	w.Worker().Tick(context.Background())

	var r recorder
	w.Draw(&r)
	if !r.drew("Foo") || !r.drew("A, B") {
		t.Fatalf("drew %v", r.texts)
	}
	if r.bitmaps != 1 {
		t.Fatalf("%d bitmaps, want the cover", r.bitmaps)
	}
	if r.tris != 1 {
		t.Fatal("no play symbol")
	}
	var elapsed bool
	for _, s := range r.texts {
		if strings.HasPrefix(s, "0:1") {
			elapsed = true
		}
	}
	if !elapsed {
		t.Fatalf("no elapsed time in %v", r.texts)
	}
}

func TestDrawNeverWaitsForWriter(t *testing.T) {
	c := newFakeClient()
	c.play(foo())
	w := newWidget(c, nil, make(chan input.Event, 4))
	w.Worker().Tick(context.Background())

	var r recorder
	w.Draw(&r)

	w.cell.mu.Lock()
	defer w.cell.mu.Unlock()

	done := make(chan struct{})
	go func() {
		var r recorder
		w.Draw(&r)
		if !r.drew("Foo") {
			t.Error("did not fall back to the cached snapshot")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("draw blocked on the snapshot lock")
	}
}

func TestSnapshotsNeverTear(t *testing.T) {
	c := &cell{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		for i := 1; ctx.Err() == nil; i++ {
			n := strings.Repeat("x", i%50+1)
			c.publish(&Snapshot{Title: n, Artists: []string{n}, Duration: time.Duration(len(n))})
		}
	}()

	for i := 0; i < 10000; i++ {
		s, ok := c.tryLoad()
		if !ok || s == nil {
			continue
		}
		if s.Artists[0] != s.Title || s.Duration != time.Duration(len(s.Title)) {
			t.Fatalf("torn snapshot %+v", s)
		}
	}
}

func TestElapsed(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := &Snapshot{Title: "x", Progress: 10 * time.Second, Duration: 20 * time.Second, Taken: now}
	if e := s.Elapsed(now.Add(3 * time.Second)); e != 13*time.Second {
		t.Errorf("playing: %v", e)
	}
	if e := s.Elapsed(now.Add(time.Minute)); e != 20*time.Second {
		t.Errorf("past the end: %v", e)
	}
	s.Paused = true
	if e := s.Elapsed(now.Add(3 * time.Second)); e != 10*time.Second {
		t.Errorf("paused: %v", e)
	}
}

func TestClock(t *testing.T) {
	for d, want := range map[time.Duration]string{
		0:                            "0:00",
		9 * time.Second:              "0:09",
		83 * time.Second:             "1:23",
		61*time.Minute + time.Second: "61:01",
	} {
		if got := clock(d); got != want {
			t.Errorf("clock(%v) = %q, want %q", d, got, want)
		}
	}
}

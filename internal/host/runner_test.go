package host

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/traffic-signal-mcp/internal/signal"
)

// lockstepSource hands out the next image only after the previous one has
// been processed, so no frame is ever dropped.
type lockstepSource struct {
	images []image.Image
	next   int
	done   chan struct{}
}

func (s *lockstepSource) Next(ctx context.Context) (*Frame, error) {
	if s.next > 0 {
		select {
		case <-s.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.next >= len(s.images) {
		return nil, io.EOF
	}
	s.next++
	return &Frame{ID: uint64(s.next), Name: "f", Image: s.images[s.next-1], Captured: time.Now()}, nil
}

// signallingProcessor tells the source when a frame has been handled.
type signallingProcessor struct {
	inner Processor
	done  chan struct{}
}

func (p signallingProcessor) Process(img image.Image) (*signal.Result, error) {
	defer func() { p.done <- struct{}{} }()
	return p.inner.Process(img)
}

// collector is a Sink that keeps every report.
type collector struct {
	mu      sync.Mutex
	reports []Report
}

func (c *collector) Send(_ context.Context, r Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = append(c.reports, r)
	return nil
}

func redLampFrame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	for y := 0; y < 240; y++ {
		for x := 0; x < 320; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if x >= 40 && x < 120 && y >= 20 && y < 100 {
				c = color.RGBA{200, 0, 0, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestRunner_Run(t *testing.T) {
	lamp := signal.Candidate{Center: image.Pt(80, 60), Radius: 20}
	pipeline := signal.New(signal.WithDetector(signal.DetectorFunc(func(*image.Gray) ([]signal.Candidate, error) {
		return []signal.Candidate{lamp}, nil
	})))

	done := make(chan struct{}, 1)
	src := &lockstepSource{
		images: []image.Image{redLampFrame(), nil, redLampFrame()},
		done:   done,
	}
	sink := &collector{}

	var logs bytes.Buffer
	runner := NewRunner(signallingProcessor{inner: pipeline, done: done}, zerolog.New(&logs))

	stats, err := runner.Run(context.Background(), src, sink)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Published != 3 || stats.Processed != 2 || stats.Invalid != 1 || stats.Dropped != 0 {
		t.Errorf("stats: got %+v, want published=3 processed=2 invalid=1 dropped=0", stats)
	}
	if stats.States[signal.StateStop] != 2 {
		t.Errorf("STOP count: got %d, want 2", stats.States[signal.StateStop])
	}

	if len(sink.reports) != 2 {
		t.Fatalf("reports: got %d, want 2", len(sink.reports))
	}
	r := sink.reports[0]
	if r.Session != runner.Session() || r.Session == "" {
		t.Errorf("session: got %q, want %q", r.Session, runner.Session())
	}
	if r.State != signal.StateStop || r.Candidate == nil || *r.Candidate != lamp {
		t.Errorf("report: got state=%s candidate=%+v", r.State, r.Candidate)
	}
	if r.ROI == nil || *r.ROI != (signal.Region{X: 60, Y: 40, Width: 40, Height: 40}) {
		t.Errorf("ROI: got %+v", r.ROI)
	}
	if r.Frame == nil {
		t.Error("report should carry the working frame")
	}
	if sink.reports[1].FrameID != 3 {
		t.Errorf("second report frame: got %d, want 3", sink.reports[1].FrameID)
	}
	if !strings.Contains(logs.String(), "frame rejected") {
		t.Errorf("invalid frame not logged: %q", logs.String())
	}
}

// stubProcessor returns a fixed state without looking at the frame.
type stubProcessor struct{ delay time.Duration }

func (p stubProcessor) Process(img image.Image) (*signal.Result, error) {
	if img == nil {
		return nil, signal.ErrInvalidFrame
	}
	time.Sleep(p.delay)
	return &signal.Result{State: signal.StateNoSignal}, nil
}

func TestRunner_DropsUnderLoad(t *testing.T) {
	images := make([]image.Image, 50)
	for i := range images {
		images[i] = image.NewRGBA(image.Rect(0, 0, 2, 2))
	}

	runner := NewRunner(stubProcessor{delay: 2 * time.Millisecond}, zerolog.Nop())
	stats, err := runner.Run(context.Background(), &SliceSource{Images: images}, SinkFunc(func(context.Context, Report) error {
		return nil
	}))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Published != 50 {
		t.Errorf("published: got %d, want 50", stats.Published)
	}
	// Every frame is either processed or overwritten.
	if uint64(stats.Processed)+stats.Dropped != 50 {
		t.Errorf("processed %d + dropped %d != 50", stats.Processed, stats.Dropped)
	}
	if stats.Processed == 0 {
		t.Error("no frame processed")
	}
}

// blockingSource never produces a frame.
type blockingSource struct{}

func (blockingSource) Next(ctx context.Context) (*Frame, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRunner_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := NewRunner(stubProcessor{}, zerolog.Nop())

	errc := make(chan error, 1)
	go func() {
		_, err := runner.Run(ctx, blockingSource{}, SinkFunc(func(context.Context, Report) error { return nil }))
		errc <- err
	}()

	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run error: got %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

// failingSource reports a hardware-style error.
type failingSource struct{ err error }

func (s failingSource) Next(context.Context) (*Frame, error) {
	return nil, s.err
}

func TestRunner_SourceError(t *testing.T) {
	camErr := errors.New("camera unplugged")
	runner := NewRunner(stubProcessor{}, zerolog.Nop())

	_, err := runner.Run(context.Background(), failingSource{err: camErr}, SinkFunc(func(context.Context, Report) error { return nil }))
	if !errors.Is(err, camErr) {
		t.Errorf("Run error: got %v, want %v", err, camErr)
	}
}

func TestRunner_SinkErrorDoesNotStop(t *testing.T) {
	done := make(chan struct{}, 1)
	runner := NewRunner(signallingProcessor{inner: stubProcessor{}, done: done}, zerolog.Nop())
	calls := 0
	src := &lockstepSource{images: []image.Image{image.NewRGBA(image.Rect(0, 0, 2, 2))}, done: done}

	stats, err := runner.Run(context.Background(), src, SinkFunc(func(context.Context, Report) error {
		calls++
		return errors.New("viewer gone")
	}))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if calls != 1 || stats.Processed != 1 {
		t.Errorf("calls=%d processed=%d, want 1/1", calls, stats.Processed)
	}
}

package host

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ironsheep/traffic-signal-mcp/internal/imaging"
)

// Frame is one image handed to the pipeline.
type Frame struct {
	ID       uint64
	Name     string
	Image    image.Image
	Captured time.Time

	// Err is set when the frame could not be loaded; Image is nil then.
	Err error
}

// Source produces frames. Next blocks until a frame is ready and returns
// io.EOF once the source is exhausted.
type Source interface {
	Next(ctx context.Context) (*Frame, error)
}

// DirSource replays the image files of a directory in name order, one every
// interval, as a stand-in for a camera.
type DirSource struct {
	paths    []string
	interval time.Duration

	mu   sync.Mutex
	next int
	last time.Time
}

// NewDirSource lists the supported image files in dir.
func NewDirSource(dir string, interval time.Duration) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !imaging.IsSupported(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no supported images in %s", dir)
	}
	sort.Strings(paths)

	return &DirSource{paths: paths, interval: interval}, nil
}

// Len returns the number of frames the source will replay.
func (s *DirSource) Len() int {
	return len(s.paths)
}

// Next loads the next file. A file that fails to decode still yields a frame,
// with Err set, so the consumer can reject it and move on.
func (s *DirSource) Next(ctx context.Context) (*Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.paths) {
		return nil, io.EOF
	}

	if !s.last.IsZero() && s.interval > 0 {
		wait := time.Until(s.last.Add(s.interval))
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.paths[s.next]
	s.next++
	s.last = time.Now()

	img, err := imaging.LoadImage(path)
	return &Frame{
		ID:       uint64(s.next),
		Name:     filepath.Base(path),
		Image:    img,
		Captured: s.last,
		Err:      err,
	}, nil
}

// SliceSource replays in-memory images.
type SliceSource struct {
	Images   []image.Image
	Interval time.Duration

	mu   sync.Mutex
	next int
}

func (s *SliceSource) Next(ctx context.Context) (*Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.Images) {
		return nil, io.EOF
	}
	if s.next > 0 && s.Interval > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.Interval):
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img := s.Images[s.next]
	s.next++
	return &Frame{
		ID:       uint64(s.next),
		Name:     fmt.Sprintf("frame-%04d", s.next),
		Image:    img,
		Captured: time.Now(),
	}, nil
}

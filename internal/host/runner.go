package host

import (
	"context"
	"errors"
	"image"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ironsheep/traffic-signal-mcp/internal/signal"
)

// Processor classifies one frame. *signal.Pipeline implements it.
type Processor interface {
	Process(frame image.Image) (*signal.Result, error)
}

// Stats summarises a Run.
type Stats struct {
	Published int                  `json:"published"`
	Processed int                  `json:"processed"`
	Invalid   int                  `json:"invalid"`
	Failed    int                  `json:"failed"`
	Dropped   uint64               `json:"dropped"`
	States    map[signal.State]int `json:"states"`
}

// Runner drives a Processor from a Source through a Mailbox.
type Runner struct {
	proc    Processor
	log     zerolog.Logger
	session string
}

// NewRunner creates a Runner with a fresh session ID.
func NewRunner(proc Processor, log zerolog.Logger) *Runner {
	return &Runner{
		proc:    proc,
		log:     log,
		session: uuid.NewString(),
	}
}

// Session identifies this runner in every report it emits.
func (r *Runner) Session() string {
	return r.session
}

// Run pulls frames from src until it is exhausted or ctx is done.
//
// Frames are handed over through a latest-wins Mailbox, so a slow processor
// skips frames instead of queueing them. Invalid frames and processing
// failures are logged, counted and skipped. Sink errors are logged and do not stop the run.
//
// Run returns nil when src reports io.EOF, ctx.Err() on cancellation, and the
// source's error otherwise.
func (r *Runner) Run(ctx context.Context, src Source, sink Sink) (Stats, error) {
	mb := NewMailbox()
	stop := context.AfterFunc(ctx, mb.Close)
	defer stop()

	var (
		wg        sync.WaitGroup
		srcErr    error
		published int
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer mb.Close()
		for {
			f, err := src.Next(ctx)
			if err != nil {
				if !errors.Is(err, io.EOF) {
					srcErr = err
				}
				return
			}
			published++
			mb.Publish(f)
		}
	}()

	stats := Stats{States: make(map[signal.State]int)}
	for {
		f, ok := mb.Take()
		if !ok {
			break
		}
		if ctx.Err() != nil {
			break
		}
		r.handle(ctx, f, sink, &stats)
	}

	wg.Wait()
	stats.Published = published
	stats.Dropped = mb.Drops()

	r.log.Info().
		Str("session", r.session).
		Int("published", stats.Published).
		Int("processed", stats.Processed).
		Int("invalid", stats.Invalid).
		Int("failed", stats.Failed).
		Uint64("dropped", stats.Dropped).
		Msg("run finished")

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, srcErr
}

func (r *Runner) handle(ctx context.Context, f *Frame, sink Sink, stats *Stats) {
	log := r.log.With().Uint64("frame_id", f.ID).Str("frame", f.Name).Logger()

	if f.Err != nil {
		stats.Invalid++
		log.Warn().Err(f.Err).Msg("skipping unreadable frame")
		return
	}

	start := time.Now()
	res, err := r.proc.Process(f.Image)
	if errors.Is(err, signal.ErrInvalidFrame) {
		stats.Invalid++
		log.Warn().Err(err).Msg("frame rejected")
		return
	}
	if err != nil {
		stats.Failed++
		log.Error().Err(err).Msg("failed to process frame")
		return
	}
	latency := time.Since(start)

	stats.Processed++
	stats.States[res.State]++

	if err := sink.Send(ctx, NewReport(r.session, f, res, latency)); err != nil {
		log.Error().Err(err).Msg("failed to deliver report")
	}
}

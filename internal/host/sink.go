package host

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// Sink receives one Report per processed frame.
type Sink interface {
	Send(ctx context.Context, r Report) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, r Report) error

func (f SinkFunc) Send(ctx context.Context, r Report) error {
	return f(ctx, r)
}

// LogSink writes each report as a structured log line.
type LogSink struct {
	Log zerolog.Logger
}

func (s LogSink) Send(_ context.Context, r Report) error {
	ev := s.Log.Info()
	if r.Ambiguous {
		ev = s.Log.Warn().Strs("labels", r.Labels)
	}
	ev = ev.
		Uint64("frame_id", r.FrameID).
		Str("frame", r.FrameName).
		Float64("latency_ms", r.LatencyMS)
	if r.Candidate != nil {
		ev = ev.
			Int("cx", r.Candidate.Center.X).
			Int("cy", r.Candidate.Center.Y).
			Int("radius", r.Candidate.Radius)
	}
	ev.Str("state", string(r.State)).Msg("signal state")
	return nil
}

// MultiSink sends each report to every sink in order. All sinks are tried;
// their errors are joined.
type MultiSink []Sink

func (m MultiSink) Send(ctx context.Context, r Report) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

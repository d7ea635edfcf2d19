package signal

import (
	"fmt"
	"image"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/ironsheep/traffic-signal-mcp/internal/imaging"
)

// Result is the outcome of processing one frame.
type Result struct {
	// Frame is the blurred working frame, echoed for display.
	Frame *image.RGBA `json:"-"`

	State State `json:"state"`

	// Candidate is the accepted circle that was classified; nil for NO SIGNAL.
	Candidate *Candidate `json:"candidate,omitempty"`

	// ROI is the region the ratios were computed over; empty for NO SIGNAL.
	ROI image.Rectangle `json:"-"`

	Ratios ColorRatios `json:"ratios"`

	// Detected is the number of raw circles; Rejected how many failed the post-filter.
	Detected int `json:"detected"`
	Rejected int `json:"rejected"`
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDetector replaces the native Hough detector.
func WithDetector(d CircleDetector) Option {
	return func(p *Pipeline) {
		p.locator.Detector = d
	}
}

// WithLogger sets the logger used for per-frame debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.log = l
	}
}

// Pipeline runs the per-frame detection stages. It holds no per-frame state.
type Pipeline struct {
	locator CircleLocator
	log     zerolog.Logger
}

// New creates a Pipeline using HoughDetector unless overridden.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		locator: CircleLocator{Detector: HoughDetector{}},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Locator returns the circle locator the pipeline runs.
func (p *Pipeline) Locator() CircleLocator {
	return p.locator
}

// Process classifies one frame.
//
// The frame is blurred into a private copy, which is returned in Result.Frame.
// The first candidate that passes the post-filter is classified and resolved;
// later candidates are not considered. With no accepted candidate the state is
// StateNoSignal.
func (p *Pipeline) Process(frame image.Image) (*Result, error) {
	if isNilImage(frame) || frame.Bounds().Empty() {
		return nil, ErrInvalidFrame
	}

	working := Smooth(frame)
	gray := ToGrayscale(working)
	rows := working.Bounds().Dy()

	raw, err := p.locator.Detect(gray)
	if err != nil {
		return nil, err
	}
	accepted := Filter(raw, rows)

	result := &Result{
		Frame:    working,
		State:    StateNoSignal,
		Detected: len(raw),
		Rejected: len(raw) - len(accepted),
	}

	if len(accepted) == 0 {
		p.log.Debug().
			Int("detected", result.Detected).
			Int("rejected", result.Rejected).
			Str("state", string(result.State)).
			Msg("no candidate accepted")
		return result, nil
	}

	c := accepted[0]
	if len(accepted) > 1 {
		p.log.Debug().
			Int("ignored", len(accepted)-1).
			Msg("committing to first accepted candidate")
	}

	result.Candidate = &c
	result.ROI = RegionOfInterest(c, working.Bounds())
	result.Ratios = Classify(working, result.ROI)
	result.State = Resolve(result.Ratios)

	p.log.Debug().
		Int("detected", result.Detected).
		Int("rejected", result.Rejected).
		Int("cx", c.Center.X).
		Int("cy", c.Center.Y).
		Int("radius", c.Radius).
		Float64("red", result.Ratios.Red).
		Float64("green", result.Ratios.Green).
		Float64("yellow", result.Ratios.Yellow).
		Str("state", string(result.State)).
		Msg("frame classified")

	return result, nil
}

// Describe renders a one-line summary of r for logs and CLI output.
func (r *Result) Describe() string {
	if r.Candidate == nil {
		return fmt.Sprintf("%s (%d circles, %d rejected)", r.State, r.Detected, r.Rejected)
	}
	return fmt.Sprintf("%s at (%d,%d) r=%d red=%.2f green=%.2f yellow=%.2f",
		r.State, r.Candidate.Center.X, r.Candidate.Center.Y, r.Candidate.Radius,
		r.Ratios.Red, r.Ratios.Green, r.Ratios.Yellow)
}

// Annotate draws the classified candidate, its ROI and the state label on a
// copy of the working frame.
func (r *Result) Annotate() *image.RGBA {
	var markers []imaging.Marker
	if r.Candidate != nil {
		markers = append(markers, imaging.Marker{
			Center: r.Candidate.Center,
			Radius: r.Candidate.Radius,
			Color:  imaging.CandidateColor,
		})
	}
	return imaging.Annotate(r.Frame, markers, r.ROI, string(r.State))
}

// isNilImage catches both a nil interface and a typed nil pointer.
func isNilImage(img image.Image) bool {
	if img == nil {
		return true
	}
	v := reflect.ValueOf(img)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

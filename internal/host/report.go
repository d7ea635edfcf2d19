package host

import (
	"image"
	"time"

	"github.com/ironsheep/traffic-signal-mcp/internal/signal"
)

// Report is what sinks receive for every processed frame.
type Report struct {
	Session   string             `json:"session"`
	FrameID   uint64             `json:"frame_id"`
	FrameName string             `json:"frame_name,omitempty"`
	State     signal.State       `json:"state"`
	Labels    []string           `json:"labels,omitempty"`
	Ambiguous bool               `json:"ambiguous"`
	Candidate *signal.Candidate  `json:"candidate,omitempty"`
	ROI       *signal.Region     `json:"roi,omitempty"`
	Ratios    signal.ColorRatios `json:"ratios"`
	Detected  int                `json:"detected"`
	Rejected  int                `json:"rejected"`
	LatencyMS float64            `json:"latency_ms"`
	Timestamp time.Time          `json:"timestamp"`

	// Frame is the blurred working frame for sinks that render it.
	Frame *image.RGBA `json:"-"`
}

// NewReport builds the report for one processed frame.
func NewReport(session string, f *Frame, res *signal.Result, latency time.Duration) Report {
	r := Report{
		Session:   session,
		FrameID:   f.ID,
		FrameName: f.Name,
		State:     res.State,
		Labels:    res.State.Labels(),
		Ambiguous: res.State.Ambiguous(),
		Candidate: res.Candidate,
		Ratios:    res.Ratios,
		Detected:  res.Detected,
		Rejected:  res.Rejected,
		LatencyMS: float64(latency.Microseconds()) / 1000,
		Timestamp: time.Now().UTC(),
		Frame:     res.Frame,
	}
	if res.Candidate != nil {
		roi := signal.RegionOf(res.ROI)
		r.ROI = &roi
	}
	return r
}

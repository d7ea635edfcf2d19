package signal

import (
	"fmt"
	"image"

	"github.com/ironsheep/traffic-signal-mcp/internal/detection"
)

// Radius limits for an accepted candidate, inclusive.
const (
	MinRadius = 20
	MaxRadius = 100
)

// Candidate is a circle hypothesised to be a signal lamp.
type Candidate struct {
	Center image.Point `json:"center"`
	Radius int         `json:"radius"`
	Votes  int         `json:"votes,omitempty"`
}

// CircleDetector finds raw circles in a grayscale frame. Results come back
// in the order the transform produced them.
type CircleDetector interface {
	DetectCircles(gray *image.Gray) ([]Candidate, error)
}

// DetectorFunc adapts a function to CircleDetector.
type DetectorFunc func(gray *image.Gray) ([]Candidate, error)

func (f DetectorFunc) DetectCircles(gray *image.Gray) ([]Candidate, error) {
	return f(gray)
}

// HoughDetector runs the native gradient Hough transform with the parameters
// from detection.DefaultHoughParams.
type HoughDetector struct{}

func (HoughDetector) DetectCircles(gray *image.Gray) ([]Candidate, error) {
	circles, err := detection.HoughCircles(gray, detection.DefaultHoughParams(gray.Bounds().Dy()))
	if err != nil {
		return nil, err
	}
	return fromCircles(circles), nil
}

// OpenCVDetector runs OpenCV's HOUGH_GRADIENT with the same parameters.
// It fails with detection.ErrOpenCVUnavailable unless built with -tags gocv.
type OpenCVDetector struct{}

func (OpenCVDetector) DetectCircles(gray *image.Gray) ([]Candidate, error) {
	circles, err := detection.HoughCirclesOpenCV(gray, detection.DefaultHoughParams(gray.Bounds().Dy()))
	if err != nil {
		return nil, err
	}
	return fromCircles(circles), nil
}

func fromCircles(circles []detection.Circle) []Candidate {
	out := make([]Candidate, len(circles))
	for i, c := range circles {
		out[i] = Candidate{
			Center: image.Pt(c.Center.X, c.Center.Y),
			Radius: c.Radius,
			Votes:  c.Votes,
		}
	}
	return out
}

// Accept reports whether c passes the post-filter for a frame with the given
// number of rows: radius within [MinRadius, MaxRadius] and center no lower
// than rows/3.
func Accept(c Candidate, rows int) bool {
	return RejectReason(c, rows) == ""
}

// RejectReason names the post-filter rule c fails, or "" when it passes.
func RejectReason(c Candidate, rows int) string {
	switch {
	case c.Radius < MinRadius:
		return fmt.Sprintf("radius %d below %d", c.Radius, MinRadius)
	case c.Radius > MaxRadius:
		return fmt.Sprintf("radius %d above %d", c.Radius, MaxRadius)
	case c.Center.Y > rows/3:
		return fmt.Sprintf("center y %d below row %d", c.Center.Y, rows/3)
	}
	return ""
}

// Filter keeps the candidates that pass Accept, preserving order.
func Filter(raw []Candidate, rows int) []Candidate {
	out := make([]Candidate, 0, len(raw))
	for _, c := range raw {
		if Accept(c, rows) {
			out = append(out, c)
		}
	}
	return out
}

// CircleLocator pairs a detector with the post-filter.
type CircleLocator struct {
	Detector CircleDetector
}

// Detect returns the detector's raw circles.
func (l CircleLocator) Detect(gray *image.Gray) ([]Candidate, error) {
	d := l.Detector
	if d == nil {
		d = HoughDetector{}
	}
	raw, err := d.DetectCircles(gray)
	if err != nil {
		return nil, fmt.Errorf("failed to detect circles: %w", err)
	}
	return raw, nil
}

// Locate returns the accepted candidates in detection order. No circles is an
// empty result, not an error.
func (l CircleLocator) Locate(gray *image.Gray) ([]Candidate, error) {
	raw, err := l.Detect(gray)
	if err != nil {
		return nil, err
	}
	return Filter(raw, gray.Bounds().Dy()), nil
}

package detection

import (
	"errors"
	"image"
	"math"
	"sort"

	"github.com/ironsheep/traffic-signal-mcp/internal/imaging"
)

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Circle represents a circle found by the Hough transform.
type Circle struct {
	// Center is the detected center point of the circle.
	Center Point `json:"center"`

	// Radius is the detected radius in pixels.
	Radius int `json:"radius"`

	// Votes is the number of edge pixels supporting the chosen radius.
	Votes int `json:"votes"`

	// Confidence is Votes divided by the circumference, capped at 1.0.
	Confidence float64 `json:"confidence"`
}

// HoughParams configures HoughCircles.
//
// The fields mirror the parameters of OpenCV's HOUGH_GRADIENT method so that
// both backends can be driven from the same values.
type HoughParams struct {
	// DP is the inverse ratio of accumulator resolution to image resolution.
	// 1 means the accumulator has the same size as the image.
	DP float64

	// MinDist is the minimum distance between the centers of reported circles.
	MinDist float64

	// EdgeThreshold is the upper Canny threshold. The lower one is half of it.
	EdgeThreshold float64

	// VoteThreshold is the accumulator threshold for center candidates, also
	// applied to the radius support count.
	VoteThreshold int

	// MinRadius and MaxRadius bound the radii searched, inclusive.
	MinRadius int
	MaxRadius int
}

// DefaultHoughParams returns the parameters tuned for signal lamps in a frame
// with the given number of rows.
func DefaultHoughParams(rows int) HoughParams {
	return HoughParams{
		DP:            1.0,
		MinDist:       float64(rows) / 8,
		EdgeThreshold: 100,
		VoteThreshold: 30,
		MinRadius:     20,
		MaxRadius:     100,
	}
}

var (
	// ErrInvalidParams is returned when HoughParams cannot describe a search.
	ErrInvalidParams = errors.New("invalid hough parameters")

	// ErrOpenCVUnavailable is returned by HoughCirclesOpenCV in builds without
	// the gocv tag.
	ErrOpenCVUnavailable = errors.New("opencv backend not compiled in (build with -tags gocv)")
)

func (p HoughParams) validate() error {
	if p.DP < 1 {
		return errors.Join(ErrInvalidParams, errors.New("dp must be >= 1"))
	}
	if p.MinRadius < 0 || p.MaxRadius < p.MinRadius {
		return errors.Join(ErrInvalidParams, errors.New("radius range is empty"))
	}
	if p.VoteThreshold < 1 {
		return errors.Join(ErrInvalidParams, errors.New("vote threshold must be positive"))
	}
	return nil
}

// HoughCircles finds circles in a grayscale image with the gradient Hough transform.
//
// Circles are returned in transform order: strongest center first.
// The grayscale image is expected to be smoothed already.
//
// # Algorithm
//
//  1. Edge Detection: Canny with thresholds EdgeThreshold/2 and EdgeThreshold
//  2. Center Voting: every edge pixel votes along both directions of its
//     gradient, once per accumulator cell, for distances MinRadius..MaxRadius
//  3. Center Selection: accumulator cells above VoteThreshold that are local
//     maxima against their 4 neighbours, sorted by votes (stable on ties)
//  4. Suppression: centers closer than MinDist to an accepted circle are dropped
//  5. Radius Estimation: distances from the center to all edge pixels are
//     binned; the best-supported radius wins (smaller radius on ties) and the
//     circle is kept when its support exceeds VoteThreshold
//
// # Confidence Score
//
// Confidence is calculated as: votes / (2π × radius), capped at 1.0.
//
// # Limitations
//
//   - Concentric circles collapse onto a single center
//   - Partially occluded lamps lose support in step 5
func HoughCircles(gray *image.Gray, p HoughParams) ([]Circle, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	edges := imaging.Canny(gray, p.EdgeThreshold/2, p.EdgeThreshold)
	width, height := edges.Width, edges.Height
	if width == 0 || height == 0 {
		return []Circle{}, nil
	}

	// Collect edge pixels once; both voting and radius estimation walk them.
	points := make([]Point, 0, 1024)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if edges.Edges[y*width+x] {
				points = append(points, Point{X: x, Y: y})
			}
		}
	}
	if len(points) == 0 {
		return []Circle{}, nil
	}

	acc := newAccumulator(width, height, p.DP)
	for _, pt := range points {
		i := pt.Y*width + pt.X
		acc.vote(pt, edges.GradX[i], edges.GradY[i], p.MinRadius, p.MaxRadius)
	}

	centers := acc.peaks(p.VoteThreshold)

	circles := make([]Circle, 0)
	minDist2 := p.MinDist * p.MinDist
	hist := make([]int, p.MaxRadius+1)

	for _, c := range centers {
		cx := float64(c.X) * p.DP
		cy := float64(c.Y) * p.DP

		if tooClose(circles, cx, cy, minDist2) {
			continue
		}

		radius, support := estimateRadius(points, cx, cy, p.MinRadius, p.MaxRadius, hist)
		if support <= p.VoteThreshold {
			continue
		}

		circles = append(circles, Circle{
			Center:     Point{X: int(math.Round(cx)), Y: int(math.Round(cy))},
			Radius:     radius,
			Votes:      support,
			Confidence: math.Min(float64(support)/(2*math.Pi*float64(radius)), 1.0),
		})
	}

	return circles, nil
}

// accumulator is the center-voting grid. It carries a one-cell border so the
// peak search never needs bounds checks.
type accumulator struct {
	cols, rows int // interior size
	stride     int
	dp         float64
	cells      []int
}

func newAccumulator(width, height int, dp float64) *accumulator {
	cols := int(math.Ceil(float64(width) / dp))
	rows := int(math.Ceil(float64(height) / dp))
	return &accumulator{
		cols:   cols,
		rows:   rows,
		stride: cols + 2,
		dp:     dp,
		cells:  make([]int, (cols+2)*(rows+2)),
	}
}

// vote casts votes from one edge pixel along +/- its gradient direction.
func (a *accumulator) vote(pt Point, gx, gy float64, minR, maxR int) {
	mag := math.Hypot(gx, gy)
	if mag == 0 {
		return
	}
	vx, vy := gx/mag, gy/mag

	for _, sign := range [2]float64{1, -1} {
		last := -1
		for r := minR; r <= maxR; r++ {
			ax := int(math.Round((float64(pt.X) + sign*vx*float64(r)) / a.dp))
			ay := int(math.Round((float64(pt.Y) + sign*vy*float64(r)) / a.dp))
			if ax < 0 || ay < 0 || ax >= a.cols || ay >= a.rows {
				break
			}
			idx := (ay+1)*a.stride + ax + 1
			if idx == last {
				continue
			}
			a.cells[idx]++
			last = idx
		}
	}
}

type peak struct {
	X, Y  int
	Votes int
}

// peaks returns cells above threshold that dominate their 4 neighbours,
// strongest first. Plateaus resolve to the top-left cell.
func (a *accumulator) peaks(threshold int) []peak {
	out := make([]peak, 0)
	for y := 0; y < a.rows; y++ {
		for x := 0; x < a.cols; x++ {
			idx := (y+1)*a.stride + x + 1
			v := a.cells[idx]
			if v > threshold &&
				v > a.cells[idx-1] && v >= a.cells[idx+1] &&
				v > a.cells[idx-a.stride] && v >= a.cells[idx+a.stride] {
				out = append(out, peak{X: x, Y: y, Votes: v})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Votes > out[j].Votes
	})
	return out
}

func tooClose(circles []Circle, cx, cy, minDist2 float64) bool {
	for _, c := range circles {
		dx := float64(c.Center.X) - cx
		dy := float64(c.Center.Y) - cy
		if dx*dx+dy*dy < minDist2 {
			return true
		}
	}
	return false
}

// estimateRadius bins the distance from (cx, cy) to every edge point and
// returns the best-supported radius in [minR, maxR] with its count.
// hist is scratch space of length maxR+1.
func estimateRadius(points []Point, cx, cy float64, minR, maxR int, hist []int) (int, int) {
	for i := range hist {
		hist[i] = 0
	}

	lo := float64(minR) - 0.5
	hi := float64(maxR) + 0.5
	for _, pt := range points {
		dx := float64(pt.X) - cx
		dy := float64(pt.Y) - cy
		// Cheap reject before the square root.
		if math.Abs(dx) >= hi || math.Abs(dy) >= hi {
			continue
		}
		d := math.Sqrt(dx*dx + dy*dy)
		if d < lo || d >= hi {
			continue
		}
		r := int(math.Round(d))
		if r < minR || r > maxR {
			continue
		}
		hist[r]++
	}

	best, support := minR, 0
	for r := minR; r <= maxR; r++ {
		if hist[r] > support {
			best, support = r, hist[r]
		}
	}
	return best, support
}

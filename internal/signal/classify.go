package signal

import (
	"image"

	"github.com/ironsheep/traffic-signal-mcp/internal/imaging"
)

// Colour bands on the OpenCV HSV scale (H 0-179, S and V 0-255), inclusive.
var (
	RedBand = imaging.HSVRange{
		Lo: imaging.HSV{H: 0, S: 100, V: 100},
		Hi: imaging.HSV{H: 10, S: 255, V: 255},
	}
	GreenBand = imaging.HSVRange{
		Lo: imaging.HSV{H: 40, S: 100, V: 100},
		Hi: imaging.HSV{H: 80, S: 255, V: 255},
	}
	YellowBand = imaging.HSVRange{
		Lo: imaging.HSV{H: 15, S: 150, V: 150},
		Hi: imaging.HSV{H: 35, S: 255, V: 255},
	}
)

// ColorRatios holds the fraction of region pixels falling in each band.
// Each value is in [0,1]; they need not sum to 1.
type ColorRatios struct {
	Red    float64 `json:"red"`
	Green  float64 `json:"green"`
	Yellow float64 `json:"yellow"`
}

// Bands returns the names of the bands c falls in.
func Bands(c imaging.HSV) []string {
	out := make([]string, 0, 1)
	if RedBand.Contains(c) {
		out = append(out, "red")
	}
	if GreenBand.Contains(c) {
		out = append(out, "green")
	}
	if YellowBand.Contains(c) {
		out = append(out, "yellow")
	}
	return out
}

// RegionOfInterest returns the bounding square of c clipped to bounds.
// The result is always inside bounds and may be empty when c lies outside.
func RegionOfInterest(c Candidate, bounds image.Rectangle) image.Rectangle {
	r := image.Rect(
		c.Center.X-c.Radius, c.Center.Y-c.Radius,
		c.Center.X+c.Radius, c.Center.Y+c.Radius,
	)
	return r.Intersect(bounds)
}

// Classify counts the pixels of frame inside roi that fall in each band and
// divides by the region area. An empty region yields zero ratios.
func Classify(frame image.Image, roi image.Rectangle) ColorRatios {
	roi = roi.Intersect(frame.Bounds())
	if roi.Empty() {
		return ColorRatios{}
	}

	var red, green, yellow int
	for y := roi.Min.Y; y < roi.Max.Y; y++ {
		for x := roi.Min.X; x < roi.Max.X; x++ {
			c := imaging.ToHSV(frame.At(x, y))
			if RedBand.Contains(c) {
				red++
			}
			if GreenBand.Contains(c) {
				green++
			}
			if YellowBand.Contains(c) {
				yellow++
			}
		}
	}

	area := float64(roi.Dx() * roi.Dy())
	return ColorRatios{
		Red:    float64(red) / area,
		Green:  float64(green) / area,
		Yellow: float64(yellow) / area,
	}
}

// Region is the JSON form of a region of interest.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RegionOf converts a rectangle to its origin-and-size form.
func RegionOf(r image.Rectangle) Region {
	return Region{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// EdgeMap holds the output of Canny edge extraction on a grayscale image.
//
// GradX and GradY keep the raw Sobel responses so that callers (the Hough
// circle transform in particular) can recover the gradient direction at every
// edge pixel. All slices are row-major with Width*Height entries.
type EdgeMap struct {
	Width  int
	Height int

	// Edges marks the pixels that survived non-maximum suppression and hysteresis.
	Edges []bool

	// GradX is the horizontal Sobel response (positive = brighter to the right).
	GradX []float64

	// GradY is the vertical Sobel response (positive = brighter downward).
	GradY []float64
}

// IsEdge reports whether (x, y) is an edge pixel. Out-of-range points are not edges.
func (m *EdgeMap) IsEdge(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Edges[y*m.Width+x]
}

// Count returns the number of edge pixels.
func (m *EdgeMap) Count() int {
	n := 0
	for _, e := range m.Edges {
		if e {
			n++
		}
	}
	return n
}

// Canny extracts edges from a grayscale image.
//
// The image is used as-is; callers smooth it beforehand if they need to.
//
// # Algorithm
//
//  1. Gradient computation: 3×3 Sobel operators on the raw 0-255 intensities,
//     magnitude = |Gx| + |Gy| (L1 norm)
//  2. Non-maximum suppression along the quantized gradient direction
//     (0°, 45°, 90°, 135°)
//  3. Hysteresis: pixels with magnitude > high seed edges, which then grow
//     through 8-connected pixels with magnitude > low
//
// Thresholds are in Sobel units: a sharp 0→255 step yields a magnitude of 1020.
func Canny(gray *image.Gray, low, high float64) *EdgeMap {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	n := width * height

	m := &EdgeMap{
		Width:  width,
		Height: height,
		Edges:  make([]bool, n),
		GradX:  make([]float64, n),
		GradY:  make([]float64, n),
	}
	if width == 0 || height == 0 {
		return m
	}

	at := func(x, y int) float64 {
		x = clamp(x, 0, width-1)
		y = clamp(y, 0, height-1)
		return float64(gray.Pix[y*gray.Stride+x])
	}

	magnitude := make([]float64, n)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := (at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)) -
				(at(x-1, y-1) + 2*at(x-1, y) + at(x-1, y+1))
			gy := (at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)) -
				(at(x-1, y-1) + 2*at(x, y-1) + at(x+1, y-1))
			i := y*width + x
			m.GradX[i] = gx
			m.GradY[i] = gy
			magnitude[i] = math.Abs(gx) + math.Abs(gy)
		}
	}

	// Non-maximum suppression. Border pixels are never edges.
	const (
		tan22 = 0.41421356 // tan(22.5°)
		tan67 = 2.41421356 // tan(67.5°)
	)
	candidate := make([]bool, n)
	var seeds []int
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			mag := magnitude[i]
			if mag <= low {
				continue
			}

			ax := math.Abs(m.GradX[i])
			ay := math.Abs(m.GradY[i])

			var n1, n2 float64
			switch {
			case ay <= ax*tan22:
				// Gradient is horizontal: compare left and right.
				n1, n2 = magnitude[i-1], magnitude[i+1]
			case ay >= ax*tan67:
				// Gradient is vertical: compare up and down.
				n1, n2 = magnitude[i-width], magnitude[i+width]
			case (m.GradX[i] > 0) == (m.GradY[i] > 0):
				// Down-right / up-left diagonal (Y grows downward).
				n1, n2 = magnitude[i-width-1], magnitude[i+width+1]
			default:
				n1, n2 = magnitude[i-width+1], magnitude[i+width-1]
			}

			// Strict on one side so plateaus stay one pixel wide.
			if mag > n1 && mag >= n2 {
				candidate[i] = true
				if mag > high {
					seeds = append(seeds, i)
				}
			}
		}
	}

	// Hysteresis: flood from strong pixels through connected candidates.
	stack := seeds
	for _, i := range seeds {
		m.Edges[i] = true
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				j := ny*width + nx
				if candidate[j] && !m.Edges[j] {
					m.Edges[j] = true
					stack = append(stack, j)
				}
			}
		}
	}

	return m
}

// EdgeDetectResult contains an edge map encoded as base64 PNG.
//
// The image is grayscale with edge pixels in white (255) and the rest black.
type EdgeDetectResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	EdgePixels  int    `json:"edge_pixels"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EdgeDetect runs Canny on img and renders the resulting edge map as a PNG.
//
// No smoothing is applied here; pass an already blurred frame to see exactly
// what the circle detector sees.
func EdgeDetect(img image.Image, low, high float64) (*EdgeDetectResult, error) {
	edges := Canny(Grayscale(img), low, high)

	out := image.NewGray(image.Rect(0, 0, edges.Width, edges.Height))
	for i, e := range edges.Edges {
		if e {
			out.SetGray(i%edges.Width, i/edges.Width, color.Gray{Y: 255})
		}
	}

	encoded, err := EncodePNGBase64(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode edge image: %w", err)
	}

	return &EdgeDetectResult{
		Width:       edges.Width,
		Height:      edges.Height,
		EdgePixels:  edges.Count(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

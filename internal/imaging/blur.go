package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/disintegration/imaging"
)

// GaussianKernel returns a normalized 1-D Gaussian kernel of the given odd size.
//
// Weights are exp(-k²/(2σ²)) for k in [-size/2, size/2], divided by their sum.
// A non-positive sigma falls back to the OpenCV rule
// σ = 0.3*((size-1)*0.5 - 1) + 0.8.
func GaussianKernel(size int, sigma float64) []float64 {
	if size < 1 {
		size = 1
	}
	if size%2 == 0 {
		size++
	}
	if sigma <= 0 {
		sigma = 0.3*(float64(size-1)*0.5-1) + 0.8
	}

	half := size / 2
	weights := make([]float64, size)
	var sum float64
	for i := range weights {
		k := float64(i - half)
		weights[i] = math.Exp(-(k * k) / (2 * sigma * sigma))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// GaussianBlur smooths an image with a size×size Gaussian kernel.
//
// The blur is separable: a horizontal pass followed by a vertical pass, both run
// through bild's convolution engine. Border pixels are replicated and the alpha
// channel is carried through unchanged.
//
// The source image is not modified. The result always has its origin at (0,0).
func GaussianBlur(img image.Image, size int, sigma float64) *image.RGBA {
	weights := GaussianKernel(size, sigma)

	horizontal := convolution.NewKernel(len(weights), 1)
	copy(horizontal.Matrix, weights)

	opts := &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: true}

	// Normalize the origin first so every later stage can index from (0,0).
	src := imaging.Clone(img)
	pass := convolution.Convolve(src, horizontal, opts)
	return convolution.Convolve(pass, horizontal.Transposed(), opts)
}

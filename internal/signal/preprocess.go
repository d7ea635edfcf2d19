package signal

import (
	"image"

	"github.com/ironsheep/traffic-signal-mcp/internal/imaging"
)

// Blur parameters applied to every frame.
const (
	BlurKernelSize = 9
	BlurSigma      = 2.0
)

// Smooth returns a blurred copy of frame. The copy becomes the working frame
// for every later stage; frame itself is not written to.
func Smooth(frame image.Image) *image.RGBA {
	return imaging.GaussianBlur(frame, BlurKernelSize, BlurSigma)
}

// ToGrayscale derives the luminance frame used for circle detection.
func ToGrayscale(frame image.Image) *image.Gray {
	return imaging.Grayscale(frame)
}

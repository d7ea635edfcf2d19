//go:build gocv

package detection

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

// OpenCVAvailable reports whether HoughCirclesOpenCV is backed by OpenCV.
const OpenCVAvailable = true

// HoughCirclesOpenCV runs OpenCV's HOUGH_GRADIENT transform with the same
// parameters as HoughCircles. OpenCV does not report accumulator support, so
// Votes and Confidence are left at zero.
func HoughCirclesOpenCV(gray *image.Gray, p HoughParams) ([]Circle, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	mat, err := gocv.ImageGrayToMatGray(gray)
	if err != nil {
		return nil, fmt.Errorf("failed to convert frame to mat: %w", err)
	}
	defer mat.Close()

	found := gocv.NewMat()
	defer found.Close()

	gocv.HoughCirclesWithParams(mat, &found, gocv.HoughGradient,
		p.DP, p.MinDist,
		p.EdgeThreshold, float64(p.VoteThreshold),
		p.MinRadius, p.MaxRadius)

	if found.Empty() || found.Cols() == 0 {
		return []Circle{}, nil
	}

	circles := make([]Circle, found.Cols())
	for i := range circles {
		circles[i] = Circle{
			Center: Point{
				X: int(math.Round(float64(found.GetFloatAt(0, i*3)))),
				Y: int(math.Round(float64(found.GetFloatAt(0, i*3+1)))),
			},
			Radius: int(math.Round(float64(found.GetFloatAt(0, i*3+2)))),
		}
	}
	return circles, nil
}

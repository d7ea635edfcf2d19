//go:build !gocv

package detection

import "image"

// OpenCVAvailable reports whether HoughCirclesOpenCV is backed by OpenCV.
const OpenCVAvailable = false

// HoughCirclesOpenCV always fails in builds without the gocv tag.
func HoughCirclesOpenCV(gray *image.Gray, p HoughParams) ([]Circle, error) {
	return nil, ErrOpenCVUnavailable
}

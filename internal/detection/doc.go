// Package detection locates circular signal lamps in grayscale frames.
//
// The main entry point is HoughCircles, a gradient Hough circle transform
// written against the Canny edge map from the imaging package. The same
// parameters drive HoughCirclesOpenCV, an OpenCV-backed implementation that is
// compiled in only with the gocv build tag:
//
//	go build -tags gocv ./...
//
// Without the tag HoughCirclesOpenCV returns ErrOpenCVUnavailable.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// # Performance Considerations
//
// Voting cost is O(edge pixels × (MaxRadius − MinRadius)). Radius estimation
// walks every edge pixel once per surviving center. Frames should be smoothed
// before detection; noise produces edge pixels that vote for nothing useful.
//
// # Limitations
//
// The transform works best on lamps that are close to circular and contrast
// with their housing. Strongly elliptical lamps (steep viewing angles) and
// concentric rings may be missed or merged.
package detection

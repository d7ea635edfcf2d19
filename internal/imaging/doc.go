// Package imaging provides the image primitives used by the signal detector.
//
// This package implements the low-level operations the detection pipeline is
// built from: loading frames, Gaussian smoothing, grayscale derivation,
// HSV conversion, Canny edge extraction, region cropping and annotation of
// the echoed frame. All operations work with standard Go image.Image types and
// use a coordinate system where (0,0) is at the top-left corner, X increases
// rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Regions are image.Rectangle values: Min is inclusive, Max is exclusive
//
// # Ownership
//
// No function in this package writes to its input image. Every transform
// (GaussianBlur, Grayscale, CropROI, Annotate) returns a freshly allocated
// image owned by the caller, so a frame handed to the pipeline stays intact.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and can be called concurrently on different images.
//
// # Color Representation
//
// HSV values follow the 8-bit OpenCV convention so that band definitions can
// be written the way they are usually published:
//   - H: 0-179 (degrees halved)
//   - S: 0-255
//   - V: 0-255
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Coordinates outside image bounds
//   - Empty regions
//   - File I/O errors during image loading
//   - Encoding errors during image output
package imaging

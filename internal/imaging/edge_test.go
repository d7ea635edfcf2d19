package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createSquareImage draws a filled square of the given gray level on black.
func createSquareImage(width, height, x1, y1, x2, y2 int, level uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			img.SetGray(x, y, color.Gray{Y: level})
		}
	}
	return img
}

func TestCanny_Square(t *testing.T) {
	img := createSquareImage(60, 60, 20, 20, 40, 40, 255)

	edges := Canny(img, 50, 100)

	if edges.Width != 60 || edges.Height != 60 {
		t.Fatalf("dimensions: got %dx%d, want 60x60", edges.Width, edges.Height)
	}
	if edges.Count() == 0 {
		t.Fatal("expected edges around the square")
	}

	// The left side of the square must be marked on the boundary columns only.
	found := false
	for x := 18; x <= 21; x++ {
		if edges.IsEdge(x, 30) {
			found = true
		}
	}
	if !found {
		t.Error("no edge found on the left side of the square")
	}

	// Interior and far background carry no edges.
	if edges.IsEdge(30, 30) {
		t.Error("square interior marked as edge")
	}
	if edges.IsEdge(5, 5) {
		t.Error("background marked as edge")
	}
}

func TestCanny_EdgesAreThin(t *testing.T) {
	img := createSquareImage(60, 60, 20, 20, 40, 40, 255)
	edges := Canny(img, 50, 100)

	// Along row 30, the left boundary must be a single-pixel run.
	run := 0
	for x := 10; x < 30; x++ {
		if edges.IsEdge(x, 30) {
			run++
		}
	}
	if run != 1 {
		t.Errorf("left boundary run length: got %d, want 1", run)
	}
}

func TestCanny_GradientDirection(t *testing.T) {
	img := createSquareImage(60, 60, 20, 20, 40, 40, 255)
	edges := Canny(img, 50, 100)

	// On the left side, intensity rises to the right.
	i := 30*edges.Width + 20
	if edges.GradX[i] <= 0 {
		t.Errorf("GradX on left side: got %f, want > 0", edges.GradX[i])
	}
	// On the top side, intensity rises downward.
	i = 20*edges.Width + 30
	if edges.GradY[i] <= 0 {
		t.Errorf("GradY on top side: got %f, want > 0", edges.GradY[i])
	}
}

func TestCanny_UniformImage(t *testing.T) {
	img := createSquareImage(40, 40, 0, 0, 40, 40, 128)
	if n := Canny(img, 50, 100).Count(); n != 0 {
		t.Errorf("uniform image produced %d edge pixels", n)
	}
}

func TestCanny_WeakStepBelowThreshold(t *testing.T) {
	// A 10-level step gives a Sobel response of 40, below the low threshold.
	img := createSquareImage(40, 40, 20, 0, 40, 40, 10)
	if n := Canny(img, 50, 100).Count(); n != 0 {
		t.Errorf("weak step produced %d edge pixels", n)
	}
}

func TestCanny_EmptyImage(t *testing.T) {
	edges := Canny(image.NewGray(image.Rect(0, 0, 0, 0)), 50, 100)
	if edges.Count() != 0 {
		t.Error("empty image should have no edges")
	}
	if edges.IsEdge(0, 0) {
		t.Error("IsEdge out of range should be false")
	}
}

func TestEdgeDetect(t *testing.T) {
	img := createInMemoryImage(80, 60, color.Black)
	for y := 20; y < 40; y++ {
		for x := 30; x < 50; x++ {
			img.Set(x, y, color.White)
		}
	}

	result, err := EdgeDetect(img, 50, 100)
	if err != nil {
		t.Fatalf("EdgeDetect failed: %v", err)
	}

	if result.Width != 80 || result.Height != 60 {
		t.Errorf("dimensions: got %dx%d, want 80x60", result.Width, result.Height)
	}
	if result.EdgePixels == 0 {
		t.Error("expected edge pixels")
	}

	decoded := decodeBase64PNG(t, result.ImageBase64)
	if decoded.Bounds().Dx() != 80 || decoded.Bounds().Dy() != 60 {
		t.Errorf("decoded dimensions: got %dx%d, want 80x60",
			decoded.Bounds().Dx(), decoded.Bounds().Dy())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tt := range tests {
		if got := clamp(tt.val, tt.min, tt.max); got != tt.want {
			t.Errorf("clamp(%d, %d, %d) = %d, want %d", tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}

package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createInMemoryImage creates a solid color image in memory
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with 4 colored quadrants
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue
			} else {
				c = color.RGBA{255, 255, 255, 255} // White
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestToHSV(t *testing.T) {
	tests := []struct {
		name  string
		color color.Color
		want  HSV
	}{
		{"signal red", color.RGBA{200, 0, 0, 255}, HSV{H: 0, S: 255, V: 200}},
		{"pure green", color.RGBA{0, 255, 0, 255}, HSV{H: 60, S: 255, V: 255}},
		{"pure blue", color.RGBA{0, 0, 255, 255}, HSV{H: 120, S: 255, V: 255}},
		{"amber", color.RGBA{255, 200, 0, 255}, HSV{H: 24, S: 255, V: 255}},
		{"yellow", color.RGBA{255, 255, 0, 255}, HSV{H: 30, S: 255, V: 255}},
		{"black", color.RGBA{0, 0, 0, 255}, HSV{H: 0, S: 0, V: 0}},
		{"white", color.RGBA{255, 255, 255, 255}, HSV{H: 0, S: 0, V: 255}},
		{"gray", color.RGBA{128, 128, 128, 255}, HSV{H: 0, S: 0, V: 128}},
		{"transparent", color.RGBA{0, 0, 0, 0}, HSV{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToHSV(tt.color)
			if got != tt.want {
				t.Errorf("ToHSV(%v) = %+v, want %+v", tt.color, got, tt.want)
			}
		})
	}
}

func TestToHSV_HueWrapsBelow180(t *testing.T) {
	// Hue 359.x° rounds to 180 on the halved scale and must wrap to 0.
	got := ToHSV(color.RGBA{255, 0, 2, 255})
	if got.H >= 180 {
		t.Errorf("H = %d, want < 180", got.H)
	}
}

func TestHSVRange_Contains(t *testing.T) {
	red := HSVRange{Lo: HSV{0, 100, 100}, Hi: HSV{10, 255, 255}}

	tests := []struct {
		name string
		c    HSV
		want bool
	}{
		{"inside", HSV{5, 200, 200}, true},
		{"low corner inclusive", HSV{0, 100, 100}, true},
		{"high corner inclusive", HSV{10, 255, 255}, true},
		{"hue above", HSV{11, 200, 200}, false},
		{"saturation below", HSV{5, 99, 200}, false},
		{"value below", HSV{5, 200, 99}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := red.Contains(tt.c); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestGrayscale(t *testing.T) {
	img := createPatternImage(20, 20)

	gray := Grayscale(img)
	if gray.Bounds() != image.Rect(0, 0, 20, 20) {
		t.Fatalf("bounds: got %v, want (0,0)-(20,20)", gray.Bounds())
	}

	tests := []struct {
		name string
		x, y int
		want uint8
	}{
		{"red quadrant", 0, 0, 76},     // 0.299*255
		{"green quadrant", 15, 0, 150}, // 0.587*255
		{"blue quadrant", 0, 15, 29},   // 0.114*255
		{"white quadrant", 15, 15, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gray.GrayAt(tt.x, tt.y).Y
			if diff := int(got) - int(tt.want); diff < -1 || diff > 1 {
				t.Errorf("GrayAt(%d,%d) = %d, want %d±1", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestGrayscale_OffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 10, 30, 20))
	gray := Grayscale(img)
	if gray.Bounds() != image.Rect(0, 0, 20, 10) {
		t.Errorf("bounds: got %v, want (0,0)-(20,10)", gray.Bounds())
	}
}

func TestSampleColor(t *testing.T) {
	img := createPatternImage(100, 100)

	result, err := SampleColor(img, 10, 10)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}

	if result.Hex != "#FF0000" {
		t.Errorf("Hex: got %s, want #FF0000", result.Hex)
	}
	if result.RGB != (RGBColor{255, 0, 0}) {
		t.Errorf("RGB: got %+v, want {255 0 0}", result.RGB)
	}
	if result.RGBA.A != 255 {
		t.Errorf("Alpha: got %d, want 255", result.RGBA.A)
	}
	if result.HSV != (HSV{H: 0, S: 255, V: 255}) {
		t.Errorf("HSV: got %+v, want {0 255 255}", result.HSV)
	}
}

func TestSampleColor_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(50, 50, color.Black)

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 10},
		{"negative y", 10, -1},
		{"x at width", 50, 10},
		{"y at height", 10, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SampleColor(img, tt.x, tt.y); err == nil {
				t.Errorf("SampleColor(%d,%d) should fail", tt.x, tt.y)
			}
		})
	}
}

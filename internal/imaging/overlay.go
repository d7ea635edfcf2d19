package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Marker is a circle to outline on an annotated frame.
type Marker struct {
	Center image.Point
	Radius int
	Color  color.RGBA
}

// Default overlay colors.
var (
	CandidateColor = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	RejectedColor  = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	ROIColor       = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	LabelColor     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	LabelBgColor   = color.RGBA{R: 0, G: 0, B: 0, A: 180}
)

// Annotate draws circle markers, a region outline and a text label on a copy of img.
//
// An empty box is skipped, as is an empty label. The label is rendered with
// basicfont.Face7x13 in the top-left corner over a dark backing rectangle.
// The source image is not modified.
func Annotate(img image.Image, markers []Marker, box image.Rectangle, label string) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	for _, m := range markers {
		drawCircle(result, m.Center.X, m.Center.Y, m.Radius, m.Color)
	}

	if !box.Empty() {
		drawRect(result, box, ROIColor)
	}

	if label != "" {
		drawLabel(result, 4, 4, label, LabelColor, LabelBgColor)
	}

	return result
}

// drawCircle outlines a circle using the midpoint algorithm.
func drawCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	if radius <= 0 {
		return
	}
	x := radius
	y := 0
	err := 0

	for x >= y {
		setClipped(img, cx+x, cy+y, c)
		setClipped(img, cx+y, cy+x, c)
		setClipped(img, cx-y, cy+x, c)
		setClipped(img, cx-x, cy+y, c)
		setClipped(img, cx-x, cy-y, c)
		setClipped(img, cx-y, cy-x, c)
		setClipped(img, cx+y, cy-x, c)
		setClipped(img, cx+x, cy-y, c)

		if err <= 0 {
			y++
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

// drawRect outlines r (Max exclusive).
func drawRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		setClipped(img, x, r.Min.Y, c)
		setClipped(img, x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		setClipped(img, r.Min.X, y, c)
		setClipped(img, r.Max.X-1, y, c)
	}
}

// drawLabel draws text with a translucent background box at (x, y) top-left.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Height

	backing := image.Rect(x-2, y-2, x+width+2, y+height+2).Intersect(img.Bounds())
	draw.Draw(img, backing, image.NewUniform(bg), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y + face.Ascent)},
	}
	d.DrawString(text)
}

func setClipped(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

// ParseHexColor parses a hex color string like "#FF0000" or "#FF000080".
func ParseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/disintegration/imaging"
)

// Marker is one keypoint to draw: a circle of the given radius around
// (X, Y) and a tick from the centre toward Angle (radians, +X toward +Y).
type Marker struct {
	X      int
	Y      int
	Radius float64
	Angle  float64
}

// Annotate draws markers over a copy of img and returns it as PNG. See
// DrawMarkers for the marker semantics.
func Annotate(img image.Image, markers []Marker, showLabels bool, colorHex string) (*PreviewResult, error) {
	return EncodePreview(DrawMarkers(img, markers, showLabels, colorHex))
}

// DrawMarkers draws markers over a copy of img. Marker coordinates are
// relative to the top-left corner of img. When showLabels is set, each
// marker is numbered with its index. An unparsable colorHex falls back to
// opaque red.
func DrawMarkers(img image.Image, markers []Marker, showLabels bool, colorHex string) *image.NRGBA {
	markColor, err := parseHexColor(colorHex)
	if err != nil {
		markColor = color.RGBA{255, 0, 0, 255}
	}

	result := imaging.Clone(img)
	for i, m := range markers {
		drawCircle(result, m.X, m.Y, m.Radius, markColor)
		drawTick(result, m.X, m.Y, m.Radius, m.Angle, markColor)
		if showLabels {
			drawLabel(result, m.X+int(m.Radius)+2, m.Y-3, strconv.Itoa(i),
				color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 180})
		}
	}
	return result
}

func drawCircle(img *image.NRGBA, cx, cy int, radius float64, c color.RGBA) {
	if radius < 1 {
		img.Set(cx, cy, c)
		return
	}
	steps := int(math.Ceil(2 * math.Pi * radius * 2))
	for i := 0; i < steps; i++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(steps))
		img.Set(cx+int(math.Round(radius*cos)), cy+int(math.Round(radius*sin)), c)
	}
}

func drawTick(img *image.NRGBA, cx, cy int, length, angle float64, c color.RGBA) {
	sin, cos := math.Sincos(angle)
	for t := 0.0; t <= length; t += 0.5 {
		img.Set(cx+int(math.Round(t*cos)), cy+int(math.Round(t*sin)), c)
	}
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
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

// drawLabel writes text in a 3x5 pixel digit font on a filled background.
// Characters without a glyph leave a gap.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			if image.Pt(x+dx, y+dy).In(bounds) {
				img.Set(x+dx, y+dy, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' && image.Pt(cx+col, y+row).In(bounds) {
					img.Set(cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}

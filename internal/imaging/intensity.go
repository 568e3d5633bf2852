package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/lucasb-eyer/go-colorful"
)

// GrayMode selects how colour pixels are reduced to a single intensity.
type GrayMode string

const (
	// GrayLuma weights the channels with the ITU-R BT.601 coefficients
	// (0.299 R + 0.587 G + 0.114 B), quantized to 8 bits.
	GrayLuma GrayMode = "luma"

	// GrayLightness uses CIE L*, which tracks perceived brightness more
	// closely than luma for saturated colours.
	GrayLightness GrayMode = "lightness"
)

// BT.601 luma weights
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// ParseGrayMode converts a user-supplied name to a GrayMode. The empty
// string selects GrayLuma.
func ParseGrayMode(name string) (GrayMode, error) {
	switch GrayMode(name) {
	case "", GrayLuma:
		return GrayLuma, nil
	case GrayLightness:
		return GrayLightness, nil
	}
	return "", fmt.Errorf("unknown gray mode %q (want %q or %q)", name, GrayLuma, GrayLightness)
}

// Intensity converts img into a row-major array of intensities in [0, 1]:
// rows[y][x] is the pixel in column x of row y, counted from the top-left
// corner of img.Bounds(). Fully transparent pixels are 0.
func Intensity(img image.Image, mode GrayMode) ([][]float64, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("image has no pixels")
	}

	switch mode {
	case "", GrayLuma:
		return lumaIntensity(img), nil
	case GrayLightness:
		return lightnessIntensity(img), nil
	}
	return nil, fmt.Errorf("unknown gray mode %q", mode)
}

func lumaIntensity(img image.Image) [][]float64 {
	gray := effect.GrayscaleWithWeights(img, lumaR, lumaG, lumaB)
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()

	rows := make([][]float64, h)
	for y := 0; y < h; y++ {
		rows[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			rows[y][x] = float64(gray.Pix[y*gray.Stride+x*4]) / 255
		}
	}
	return rows
}

func lightnessIntensity(img image.Image) [][]float64 {
	bounds := img.Bounds()
	rows := make([][]float64, bounds.Dy())
	for y := range rows {
		rows[y] = make([]float64, bounds.Dx())
		for x := range rows[y] {
			col, ok := colorful.MakeColor(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			if !ok {
				continue
			}
			l, _, _ := col.Lab()
			rows[y][x] = math.Max(0, math.Min(1, l))
		}
	}
	return rows
}

// IntensityImage renders intensities in [0, 1] as an 8-bit gray image.
// Values outside the range are clipped.
func IntensityImage(rows [][]float64) *image.Gray {
	h := len(rows)
	w := 0
	if h > 0 {
		w = len(rows[0])
	}
	gray := image.NewGray(image.Rect(0, 0, w, h))
	for y, row := range rows {
		for x, v := range row {
			gray.Pix[y*gray.Stride+x] = uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
		}
	}
	return gray
}

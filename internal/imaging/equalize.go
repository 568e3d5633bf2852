package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/histogram"
)

// Equalize spreads the luma histogram of img over the full 0-255 range and
// returns the result as a gray image with its origin at (0, 0).
//
// Each level v maps to round(255 * (cdf(v) - cdfMin) / (N - cdfMin)), where
// cdf is the cumulative histogram, cdfMin its first non-zero bin and N the
// number of pixels. An image with a single gray level is returned as is.
func Equalize(img image.Image) *image.Gray {
	gray := effect.GrayscaleWithWeights(img, lumaR, lumaG, lumaB)
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}

	cdf := histogram.NewRGBAHistogram(gray).R.Cumulative().Bins
	total := cdf[len(cdf)-1]
	cdfMin := 0
	for _, c := range cdf {
		if c > 0 {
			cdfMin = c
			break
		}
	}

	var lut [256]uint8
	for v := range lut {
		if total == cdfMin {
			lut[v] = uint8(v)
			continue
		}
		scaled := float64(cdf[v]-cdfMin) / float64(total-cdfMin) * 255
		lut[v] = uint8(math.Round(math.Max(0, scaled)))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Pix[y*out.Stride+x] = lut[gray.Pix[y*gray.Stride+x*4]]
		}
	}
	return out
}

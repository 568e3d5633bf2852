package surf

import "math"

// haarLobe returns the lobe width, in pixels, of the Haar wavelets used at
// the given scale.
func haarLobe(scale float64) int {
	h := int(math.Round(scale))
	if h < 1 {
		h = 1
	}
	return h
}

// haarAt returns the horizontal and vertical Haar wavelet responses at pixel
// (x, y). Each response is the difference of two h-wide boxes flanking the
// pixel on either side, 2h+1 pixels long, so the wavelet is centred on the
// pixel itself. Boxes hanging over the image edge are clamped by BoxSum.
func haarAt(ii *IntegralImage, x, y, h int) (dx, dy float64) {
	dx = ii.BoxSum(x+1, y-h, x+h+1, y+h+1) - ii.BoxSum(x-h, y-h, x, y+h+1)
	dy = ii.BoxSum(x-h, y+1, x+h+1, y+h+1) - ii.BoxSum(x-h, y-h, x+h+1, y)
	return dx, dy
}

// gaussianWeight is an unnormalized 2-D Gaussian evaluated at (dx, dy).
func gaussianWeight(dx, dy, sigma float64) float64 {
	return math.Exp(-(dx*dx + dy*dy) / (2 * sigma * sigma))
}

package surf

import "fmt"

// IntegralImage is a summed-area table of an Image. The cell at row r and
// column c holds the sum of all pixels with y < r and x < c, so the table has
// one more row and column than the image, and its first row and column are
// zero.
//
// An IntegralImage is read-only after construction and safe for concurrent
// use.
type IntegralImage struct {
	width  int // image width; the table is (width+1) wide
	height int // image height
	sums   []float64
}

// Integrate builds the integral image of img. It fails with ErrInvalidInput
// when img is nil or empty.
func Integrate(img *Image) (*IntegralImage, error) {
	if img.Empty() {
		return nil, fmt.Errorf("%w: cannot integrate an empty image", ErrInvalidInput)
	}

	w, h := img.width, img.height
	stride := w + 1
	sums := make([]float64, stride*(h+1))
	for y := 0; y < h; y++ {
		var rowSum float64
		above := y * stride
		cur := (y + 1) * stride
		for x := 0; x < w; x++ {
			rowSum += img.pix[y*w+x]
			sums[cur+x+1] = sums[above+x+1] + rowSum
		}
	}

	return &IntegralImage{width: w, height: h, sums: sums}, nil
}

// Width returns the width of the integrated image.
func (ii *IntegralImage) Width() int { return ii.width }

// Height returns the height of the integrated image.
func (ii *IntegralImage) Height() int { return ii.height }

// At returns the table cell at row r, column c, with 0 <= r <= Height and
// 0 <= c <= Width.
func (ii *IntegralImage) At(r, c int) float64 {
	return ii.sums[r*(ii.width+1)+c]
}

// BoxSum returns the sum of the pixels in the half-open rectangle
// [x1, x2) x [y1, y2).
//
// Coordinates are clamped to the image before the lookup, so a rectangle that
// hangs over an edge is silently truncated to its visible part. A rectangle
// that is empty after clamping sums to 0.
func (ii *IntegralImage) BoxSum(x1, y1, x2, y2 int) float64 {
	x1 = clamp(x1, 0, ii.width)
	x2 = clamp(x2, 0, ii.width)
	y1 = clamp(y1, 0, ii.height)
	y2 = clamp(y2, 0, ii.height)
	if x2 <= x1 || y2 <= y1 {
		return 0
	}

	stride := ii.width + 1
	return ii.sums[y2*stride+x2] - ii.sums[y1*stride+x2] - ii.sums[y2*stride+x1] + ii.sums[y1*stride+x1]
}

// clamp constrains val to [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

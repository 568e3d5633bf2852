package surf

import (
	"fmt"
	"math"
)

// Image is an immutable 2-D array of intensities, normally in [0, 1].
// Build one with NewImage; the zero value is an empty image that every
// consumer rejects.
type Image struct {
	width  int
	height int
	pix    []float64 // row-major, len == width*height
}

// NewImage validates rows and copies them into an Image. rows[y][x] is the
// intensity of the pixel in column x of row y.
//
// It fails with ErrInvalidInput when rows is empty, when any row is empty or
// differs in length from the first one, or when any value is NaN or
// infinite.
func NewImage(rows [][]float64) (*Image, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: image is empty", ErrInvalidInput)
	}
	width := len(rows[0])
	pix := make([]float64, 0, width*len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrInvalidInput, y, len(row), width)
		}
		for x, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: non-finite value at (%d,%d)", ErrInvalidInput, x, y)
			}
		}
		pix = append(pix, row...)
	}
	return &Image{width: width, height: len(rows), pix: pix}, nil
}

// Width returns the number of columns.
func (im *Image) Width() int { return im.width }

// Height returns the number of rows.
func (im *Image) Height() int { return im.height }

// At returns the intensity at (x, y). It panics if the point is outside the
// image.
func (im *Image) At(x, y int) float64 {
	return im.pix[y*im.width+x]
}

// Empty reports whether the image has no pixels.
func (im *Image) Empty() bool {
	return im == nil || im.width == 0 || im.height == 0
}

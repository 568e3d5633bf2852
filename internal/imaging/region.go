package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrInvalidRegion is returned when a region is empty, inverted or reaches
// outside the image.
var ErrInvalidRegion = errors.New("invalid region")

// Region is a rectangle of an image, in pixels relative to its top-left
// corner. (X1, Y1) is inclusive, (X2, Y2) is exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Width returns X2 - X1.
func (r Region) Width() int { return r.X2 - r.X1 }

// Height returns Y2 - Y1.
func (r Region) Height() int { return r.Y2 - r.Y1 }

// Offset returns the top-left corner, which is what must be added to
// coordinates measured inside the cropped region to get back to the source
// image.
func (r Region) Offset() image.Point { return image.Pt(r.X1, r.Y1) }

// Validate checks r against an image of the given size.
func (r Region) Validate(width, height int) error {
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return fmt.Errorf("%w: x1 must be < x2 and y1 must be < y2, got (%d,%d)-(%d,%d)",
			ErrInvalidRegion, r.X1, r.Y1, r.X2, r.Y2)
	}
	if r.X1 < 0 || r.Y1 < 0 || r.X2 > width || r.Y2 > height {
		return fmt.Errorf("%w: (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			ErrInvalidRegion, r.X1, r.Y1, r.X2, r.Y2, width, height)
	}
	return nil
}

// CropRegion returns the part of img covered by r as a new image with its
// origin at (0, 0).
func CropRegion(img image.Image, r Region) (image.Image, error) {
	bounds := img.Bounds()
	if err := r.Validate(bounds.Dx(), bounds.Dy()); err != nil {
		return nil, err
	}
	rect := image.Rect(r.X1, r.Y1, r.X2, r.Y2).Add(bounds.Min)
	return imaging.Crop(img, rect), nil
}

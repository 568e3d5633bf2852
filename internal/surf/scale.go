package surf

import (
	"image"
	"math"
)

// ScaleLevel pairs a filter size with its scale factor and the geometry
// derived from it.
type ScaleLevel struct {
	// Index is the position of the level in Config.FilterSizes.
	Index int `json:"index"`

	// FilterSize is the side of the box filter footprint in pixels.
	FilterSize int `json:"filter_size"`

	// Scale is FilterSize / BaseFilterSize.
	Scale float64 `json:"scale"`
}

// NewScaleLevel returns the level with the given index and filter size.
func NewScaleLevel(index, filterSize int) ScaleLevel {
	return ScaleLevel{
		Index:      index,
		FilterSize: filterSize,
		Scale:      float64(filterSize) / BaseFilterSize,
	}
}

// Lobe returns the lobe length of the box filters: the largest odd integer
// not above FilterSize/3. An odd lobe keeps every filter centred on a pixel,
// and three lobes never exceed the footprint.
func (l ScaleLevel) Lobe() int {
	lobe := l.FilterSize / 3
	if lobe%2 == 0 {
		lobe--
	}
	return lobe
}

// Border returns the distance from each image edge that a pixel must keep for
// the whole filter footprint to fit inside the image.
func (l ScaleLevel) Border() int {
	return (l.FilterSize - 1) / 2
}

// Threshold returns the response floor of this level for the given base
// threshold: base * (BaseFilterSize/FilterSize)^4.
func (l ScaleLevel) Threshold(base float64) float64 {
	return base * math.Pow(BaseFilterSize/float64(l.FilterSize), 4)
}

// SuppressionRadius returns the half-width of the same-scale window a
// candidate must dominate. It grows with the filter size.
func (l ScaleLevel) SuppressionRadius() int {
	return l.Lobe()
}

// Interior returns the rectangle of pixels whose footprint fits inside a
// width x height image. The rectangle is empty when the image is too small
// for this level.
func (l ScaleLevel) Interior(width, height int) image.Rectangle {
	b := l.Border()
	if width-b <= b || height-b <= b {
		return image.Rectangle{}
	}
	return image.Rectangle{Min: image.Pt(b, b), Max: image.Pt(width-b, height-b)}
}

// ResponseMap holds the Hessian determinant approximation of one scale level
// for every pixel of the image. Values outside the level's interior are zero.
// A ResponseMap is never modified after DetectCandidates returns it.
type ResponseMap struct {
	Level    ScaleLevel
	width    int
	height   int
	interior image.Rectangle
	values   []float64
}

func newResponseMap(level ScaleLevel, width, height int) *ResponseMap {
	return &ResponseMap{
		Level:    level,
		width:    width,
		height:   height,
		interior: level.Interior(width, height),
		values:   make([]float64, width*height),
	}
}

// Interior returns the region in which the map holds real responses.
func (m *ResponseMap) Interior() image.Rectangle { return m.interior }

// At returns the response at (x, y), or 0 when the point is outside the
// image.
func (m *ResponseMap) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return 0
	}
	return m.values[y*m.width+x]
}

func (m *ResponseMap) set(x, y int, v float64) {
	m.values[y*m.width+x] = v
}

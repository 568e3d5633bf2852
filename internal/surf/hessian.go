package surf

import (
	"image"
	"math"
)

// hessianWeight balances the Dxy term against Dxx*Dyy. Box filters
// underestimate the mixed derivative relative to a Gaussian second
// derivative, and 0.81 (0.9²) compensates for it.
const hessianWeight = 0.81

// Candidate is a local maximum of one level's response map. After
// suppression it is the keypoint record that still lacks an orientation.
type Candidate struct {
	X        int        `json:"x"`
	Y        int        `json:"y"`
	Level    ScaleLevel `json:"level"`
	Response float64    `json:"response"`
}

// Scale returns the scale factor of the level the candidate was found at.
func (c Candidate) Scale() float64 { return c.Level.Scale }

// Detection is the output of DetectCandidates: one response map per scale
// level, indexed like Config.FilterSizes, and the raw candidates of all
// levels.
type Detection struct {
	Maps []*ResponseMap

	// Candidates are ordered by level, then in raster order (row by row,
	// left to right) within a level.
	Candidates []Candidate
}

// DetectCandidates builds the response map of every level in cfg and
// collects the pixels that exceed the level threshold and strictly dominate
// their neighbourhood.
//
// Levels are processed concurrently; the result does not depend on the
// number of workers.
func DetectCandidates(ii *IntegralImage, cfg Config) (*Detection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	levels := cfg.Levels()
	maps := make([]*ResponseMap, len(levels))
	found := make([][]Candidate, len(levels))

	forEach(len(levels), cfg.Workers, func(i int) {
		maps[i] = computeResponseMap(ii, levels[i])
		found[i] = findCandidates(maps[i], levels[i].Threshold(cfg.ThresholdBase))
	})

	det := &Detection{Maps: maps, Candidates: make([]Candidate, 0)}
	for _, cs := range found {
		det.Candidates = append(det.Candidates, cs...)
	}
	return det, nil
}

// computeResponseMap evaluates the normalized determinant approximation at
// every interior pixel of one level.
func computeResponseMap(ii *IntegralImage, level ScaleLevel) *ResponseMap {
	m := newResponseMap(level, ii.width, ii.height)
	norm := math.Pow(level.Scale, 4)
	r := m.interior
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dxx, dyy, dxy := hessianAt(ii, x, y, level.Lobe())
			m.set(x, y, (dxx*dyy-hessianWeight*dxy*dxy)/norm)
		}
	}
	return m
}

// hessianAt approximates the second-order derivatives at (x, y) with box
// filters of lobe length l (odd).
//
// Dxx is three l-wide, (2l-1)-tall lobes side by side weighted +1, -2, +1,
// computed as the whole 3l-wide box minus three times the middle lobe. Dyy
// is the transpose. Dxy uses four l x l boxes in the quadrants around the
// pixel, leaving its row and column out: top-right and bottom-left count
// positive, top-left and bottom-right negative. All three filters sum to zero
// over a constant image.
func hessianAt(ii *IntegralImage, x, y, l int) (dxx, dyy, dxy float64) {
	half := (l - 1) / 2
	outer := (3*l - 1) / 2

	dxx = ii.BoxSum(x-outer, y-l+1, x+outer+1, y+l) -
		3*ii.BoxSum(x-half, y-l+1, x+half+1, y+l)
	dyy = ii.BoxSum(x-l+1, y-outer, x+l, y+outer+1) -
		3*ii.BoxSum(x-l+1, y-half, x+l, y+half+1)
	dxy = ii.BoxSum(x+1, y-l, x+l+1, y) +
		ii.BoxSum(x-l, y+1, x, y+l+1) -
		ii.BoxSum(x-l, y-l, x, y) -
		ii.BoxSum(x+1, y+1, x+l+1, y+l+1)
	return dxx, dyy, dxy
}

// findCandidates scans the interior of m in raster order for responses above
// threshold that are strict maxima of their neighbourhood.
func findCandidates(m *ResponseMap, threshold float64) []Candidate {
	radius := m.Level.SuppressionRadius()
	r := m.interior
	out := make([]Candidate, 0)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			v := m.At(x, y)
			if !(v > threshold) {
				continue
			}
			if !isStrictMaximum(m, x, y, radius) {
				continue
			}
			out = append(out, Candidate{X: x, Y: y, Level: m.Level, Response: v})
		}
	}
	return out
}

// isStrictMaximum reports whether the response at (x, y) is greater than
// every other response within radius (a square window). An equal neighbour
// disqualifies the pixel, so plateaus produce no candidate at all.
func isStrictMaximum(m *ResponseMap, x, y, radius int) bool {
	v := m.At(x, y)
	window := image.Rect(x-radius, y-radius, x+radius+1, y+radius+1).
		Intersect(image.Rect(0, 0, m.width, m.height))
	for ny := window.Min.Y; ny < window.Max.Y; ny++ {
		for nx := window.Min.X; nx < window.Max.X; nx++ {
			if nx == x && ny == y {
				continue
			}
			if m.At(nx, ny) >= v {
				return false
			}
		}
	}
	return true
}

package surf

import "math"

// orientationRadius is the radius of the sampling disc in units of scale.
const orientationRadius = 6

// Keypoint is a candidate that survived suppression and received its
// dominant orientation.
type Keypoint struct {
	X        int        `json:"x"`
	Y        int        `json:"y"`
	Level    ScaleLevel `json:"level"`
	Response float64    `json:"response"`

	// Orientation is the dominant gradient direction in radians, in
	// [0, 2π), measured from +X toward +Y. It is 0 for flat neighbourhoods.
	Orientation float64 `json:"orientation"`
}

// Scale returns the scale factor of the keypoint.
func (k Keypoint) Scale() float64 { return k.Level.Scale }

// Orient estimates the dominant orientation of c.
//
// Haar responses are sampled at offsets (round(i*s), round(j*s)) for every
// integer i, j with i²+j² <= 36, weighted by a Gaussian with σ = 3s and
// summed. The orientation is the angle of the summed vector. Samples whose
// centre falls outside the image are skipped. A sample whose centre is inside
// but whose wavelet overhangs the edge is kept, with the overhanging box
// clamped by BoxSum, so near the border the missing side reads as zero and
// pulls the vector away from the edge.
func Orient(ii *IntegralImage, c Candidate) Keypoint {
	s := c.Scale()
	h := haarLobe(s)
	sigma := orientationRadius * s / 2

	var sumX, sumY float64
	for j := -orientationRadius; j <= orientationRadius; j++ {
		for i := -orientationRadius; i <= orientationRadius; i++ {
			if i*i+j*j > orientationRadius*orientationRadius {
				continue
			}
			ox, oy := float64(i)*s, float64(j)*s
			px := c.X + int(math.Round(ox))
			py := c.Y + int(math.Round(oy))
			if px < 0 || py < 0 || px >= ii.width || py >= ii.height {
				continue
			}
			w := gaussianWeight(ox, oy, sigma)
			dx, dy := haarAt(ii, px, py, h)
			sumX += w * dx
			sumY += w * dy
		}
	}

	return Keypoint{
		X:           c.X,
		Y:           c.Y,
		Level:       c.Level,
		Response:    c.Response,
		Orientation: normalizeAngle(math.Atan2(sumY, sumX)),
	}
}

// OrientAll orients every candidate, one task per candidate. The result is
// index-aligned with candidates.
func OrientAll(ii *IntegralImage, candidates []Candidate, workers int) []Keypoint {
	keypoints := make([]Keypoint, len(candidates))
	forEach(len(candidates), workers, func(i int) {
		keypoints[i] = Orient(ii, candidates[i])
	})
	return keypoints
}

// normalizeAngle maps theta into [0, 2π).
func normalizeAngle(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	if theta >= 2*math.Pi {
		theta = 0
	}
	return theta
}

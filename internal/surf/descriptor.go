package surf

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// DescriptorLength is the number of elements in a Descriptor.
	DescriptorLength = 64

	descriptorGrid    = 4   // sub-regions per side
	subregionSamples  = 5   // samples per sub-region side
	descriptorSamples = descriptorGrid * subregionSamples
	descriptorSigma   = 3.3 // Gaussian σ in units of scale
)

// Descriptor summarizes the neighbourhood of a keypoint. It is either unit
// length or, for a perfectly flat neighbourhood, all zero.
type Descriptor [DescriptorLength]float64

// Norm returns the Euclidean length of d.
func (d Descriptor) Norm() float64 {
	return floats.Norm(d[:], 2)
}

// IsZero reports whether every element of d is zero.
func (d Descriptor) IsZero() bool {
	for _, v := range d {
		if v != 0 {
			return false
		}
	}
	return true
}

// Similarity returns the cosine similarity of a and b, or 0 when either is
// the zero vector.
func Similarity(a, b Descriptor) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a[:], b[:]) / (na * nb)
}

// Describe computes the descriptor of kp.
//
// A square window of 20s x 20s centred on the keypoint and rotated by its
// orientation is split into 4x4 sub-regions. Each sub-region holds 5x5
// samples spaced s apart. At every sample the Haar responses are rotated into
// the keypoint frame, weighted by a Gaussian with σ = 3.3s centred on the
// keypoint, and added to the sub-region's (Σdx, Σ|dx|, Σdy, Σ|dy|). The
// sixteen groups are concatenated row by row and normalized to unit length.
//
// Samples are never skipped. Near the border the wavelet boxes are clamped
// to the image by BoxSum, so an edge reads as a step down to zero and the
// sub-regions facing it pick up a response even over a flat patch.
func Describe(ii *IntegralImage, kp Keypoint) Descriptor {
	s := kp.Scale()
	h := haarLobe(s)
	sigma := descriptorSigma * s
	sin, cos := math.Sincos(kp.Orientation)
	centre := float64(descriptorSamples-1) / 2

	var d Descriptor
	for j := 0; j < descriptorSamples; j++ {
		v := (float64(j) - centre) * s
		for i := 0; i < descriptorSamples; i++ {
			u := (float64(i) - centre) * s
			px := kp.X + int(math.Round(u*cos-v*sin))
			py := kp.Y + int(math.Round(u*sin+v*cos))

			w := gaussianWeight(u, v, sigma)
			dx, dy := haarAt(ii, px, py, h)
			rx := w * (dx*cos + dy*sin)
			ry := w * (dy*cos - dx*sin)

			k := ((j/subregionSamples)*descriptorGrid + i/subregionSamples) * 4
			d[k] += rx
			d[k+1] += math.Abs(rx)
			d[k+2] += ry
			d[k+3] += math.Abs(ry)
		}
	}

	if n := d.Norm(); n > 0 {
		floats.Scale(1/n, d[:])
	}
	return d
}

// DescribeAll describes every keypoint, one task per keypoint. The result is
// index-aligned with keypoints.
func DescribeAll(ii *IntegralImage, keypoints []Keypoint, workers int) []Descriptor {
	descriptors := make([]Descriptor, len(keypoints))
	forEach(len(keypoints), workers, func(i int) {
		descriptors[i] = Describe(ii, keypoints[i])
	})
	return descriptors
}

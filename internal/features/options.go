package features

import (
	"fmt"
	"math"

	"github.com/ironsheep/surf-tools-mcp/internal/imaging"
	"github.com/ironsheep/surf-tools-mcp/internal/surf"
)

// Options controls preprocessing, detection and output shaping.
type Options struct {
	// Detector holds the scale-space parameters passed to surf.Detect.
	Detector surf.Config `json:"detector"`

	// GrayMode selects the colour to intensity conversion.
	GrayMode imaging.GrayMode `json:"gray_mode,omitempty"`

	// Equalize spreads the luma histogram before detection.
	Equalize bool `json:"equalize,omitempty"`

	// BlurSigma, when positive, smooths the image with a Gaussian of this
	// standard deviation (in pixels) before detection.
	BlurSigma float64 `json:"blur_sigma,omitempty"`

	// Region restricts detection to part of the image. Keypoint coordinates
	// are still reported relative to the whole image.
	Region *imaging.Region `json:"region,omitempty"`

	// IncludeDescriptors adds the 64-element descriptor to every keypoint.
	IncludeDescriptors bool `json:"include_descriptors,omitempty"`

	// MaxKeypoints keeps only the N strongest keypoints. Zero keeps all.
	MaxKeypoints int `json:"max_keypoints,omitempty"`
}

// DefaultOptions returns the detector defaults with luma conversion and no
// extra preprocessing.
func DefaultOptions() Options {
	return Options{
		Detector: surf.DefaultConfig(),
		GrayMode: imaging.GrayLuma,
	}
}

// Validate checks o, including the detector configuration.
func (o Options) Validate() error {
	if err := o.Detector.Validate(); err != nil {
		return err
	}
	if _, err := imaging.ParseGrayMode(string(o.GrayMode)); err != nil {
		return err
	}
	if o.BlurSigma < 0 || math.IsNaN(o.BlurSigma) || math.IsInf(o.BlurSigma, 0) {
		return fmt.Errorf("blur_sigma must be a non-negative number, got %v", o.BlurSigma)
	}
	if o.MaxKeypoints < 0 {
		return fmt.Errorf("max_keypoints must not be negative, got %d", o.MaxKeypoints)
	}
	return nil
}

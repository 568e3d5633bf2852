package features

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/disintegration/imaging"

	imgproc "github.com/ironsheep/surf-tools-mcp/internal/imaging"
	"github.com/ironsheep/surf-tools-mcp/internal/surf"
)

// Keypoint is one detected feature in source-image coordinates.
type Keypoint struct {
	X                  int       `json:"x"`
	Y                  int       `json:"y"`
	FilterSize         int       `json:"filter_size"`
	Scale              float64   `json:"scale"`
	Response           float64   `json:"response"`
	Orientation        float64   `json:"orientation"`
	OrientationDegrees float64   `json:"orientation_degrees"`
	Descriptor         []float64 `json:"descriptor,omitempty"`
}

// Result is the output of Extract.
type Result struct {
	// Width and Height are the size of the image the detector saw, which is
	// the region when one was given.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Region echoes Options.Region.
	Region *imgproc.Region `json:"region,omitempty"`

	Count     int        `json:"count"`
	Keypoints []Keypoint `json:"keypoints"`

	// Discarded is the number of keypoints dropped by MaxKeypoints.
	Discarded int        `json:"discarded,omitempty"`
	Stats     surf.Stats `json:"stats"`
}

// Preprocess applies the image steps of opts to img and returns the
// intensity array the detector consumes.
func Preprocess(img image.Image, opts Options) ([][]float64, error) {
	if opts.Region != nil {
		cropped, err := imgproc.CropRegion(img, *opts.Region)
		if err != nil {
			return nil, err
		}
		img = cropped
	}
	if opts.BlurSigma > 0 {
		img = imaging.Blur(img, opts.BlurSigma)
	}
	if opts.Equalize {
		img = imgproc.Equalize(img)
	}
	return imgproc.Intensity(img, opts.GrayMode)
}

// Extract detects keypoints in img.
//
// Errors wrap surf.ErrInvalidConfig for a bad detector configuration and
// imaging.ErrInvalidRegion for a bad region. An image without features
// yields an empty result, not an error.
func Extract(img image.Image, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	rows, err := Preprocess(img, opts)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	intensity, err := surf.NewImage(rows)
	if err != nil {
		return nil, err
	}
	detected, err := surf.Detect(intensity, opts.Detector)
	if err != nil {
		return nil, err
	}

	keep := strongest(detected.Keypoints, opts.MaxKeypoints)
	var offset image.Point
	if opts.Region != nil {
		offset = opts.Region.Offset()
	}

	result := &Result{
		Width:     intensity.Width(),
		Height:    intensity.Height(),
		Region:    opts.Region,
		Count:     len(keep),
		Keypoints: make([]Keypoint, 0, len(keep)),
		Discarded: detected.Len() - len(keep),
		Stats:     detected.Stats,
	}
	for _, i := range keep {
		kp := detected.Keypoints[i]
		out := Keypoint{
			X:                  kp.X + offset.X,
			Y:                  kp.Y + offset.Y,
			FilterSize:         kp.Level.FilterSize,
			Scale:              kp.Scale(),
			Response:           kp.Response,
			Orientation:        kp.Orientation,
			OrientationDegrees: kp.Orientation * 180 / math.Pi,
		}
		if opts.IncludeDescriptors {
			d := detected.Descriptors[i]
			out.Descriptor = append([]float64(nil), d[:]...)
		}
		result.Keypoints = append(result.Keypoints, out)
	}
	return result, nil
}

// strongest returns the indices of the n keypoints with the highest
// response, in their original order. Equal responses favour the earlier
// keypoint. n <= 0 keeps everything.
func strongest(kps []surf.Keypoint, n int) []int {
	idx := make([]int, len(kps))
	for i := range idx {
		idx[i] = i
	}
	if n <= 0 || n >= len(kps) {
		return idx
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return kps[idx[a]].Response > kps[idx[b]].Response
	})
	idx = idx[:n]
	sort.Ints(idx)
	return idx
}

// Markers converts the keypoints of r into overlay markers. The circle
// radius is half the filter size, which is the footprint the detector
// looked at.
func (r *Result) Markers() []imgproc.Marker {
	markers := make([]imgproc.Marker, len(r.Keypoints))
	for i, kp := range r.Keypoints {
		markers[i] = imgproc.Marker{
			X:      kp.X,
			Y:      kp.Y,
			Radius: float64(kp.FilterSize) / 2,
			Angle:  kp.Orientation,
		}
	}
	return markers
}

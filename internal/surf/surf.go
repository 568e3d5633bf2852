package surf

// Stats counts what happened to the candidates of one Detect call.
type Stats struct {
	// Candidates is the number of raw local maxima across all levels.
	Candidates int `json:"candidates"`

	// CrossScaleSuppressed is the number of candidates vetoed by a finer
	// level.
	CrossScaleSuppressed int `json:"cross_scale_suppressed"`

	// ClusterSuppressed is the number of candidates removed as duplicates of
	// a stronger nearby candidate.
	ClusterSuppressed int `json:"cluster_suppressed"`

	// DegenerateDescriptors is the number of keypoints whose descriptor is
	// all zero.
	DegenerateDescriptors int `json:"degenerate_descriptors"`
}

// Result holds the keypoints found by Detect and their descriptors.
// Descriptors[i] describes Keypoints[i]. Both slices are empty, never nil,
// when nothing was found.
type Result struct {
	Keypoints   []Keypoint   `json:"keypoints"`
	Descriptors []Descriptor `json:"descriptors"`
	Stats       Stats        `json:"stats"`
}

// Len returns the number of keypoints.
func (r *Result) Len() int { return len(r.Keypoints) }

// Detect runs the whole pipeline on img.
//
// Keypoints are ordered by scale level, then by discovery order within a
// level. An image without any keypoint yields an empty Result and a nil
// error. Detect fails with ErrInvalidConfig for a bad cfg and with
// ErrInvalidInput for an empty image; both are checked before any scale is
// processed.
func Detect(img *Image, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ii, err := Integrate(img)
	if err != nil {
		return nil, err
	}

	det, err := DetectCandidates(ii, cfg)
	if err != nil {
		return nil, err
	}
	crossed := SuppressCrossScale(det.Maps, det.Candidates, cfg.CrossScaleMargin)
	survivors := SuppressClusters(crossed, cfg.ClusterRadiusFactor)

	keypoints := OrientAll(ii, survivors, cfg.Workers)
	descriptors := DescribeAll(ii, keypoints, cfg.Workers)

	stats := Stats{
		Candidates:           len(det.Candidates),
		CrossScaleSuppressed: len(det.Candidates) - len(crossed),
		ClusterSuppressed:    len(crossed) - len(survivors),
	}
	for _, d := range descriptors {
		if d.IsZero() {
			stats.DegenerateDescriptors++
		}
	}

	return &Result{Keypoints: keypoints, Descriptors: descriptors, Stats: stats}, nil
}

package surf

import (
	"fmt"
	"math"
)

// BaseFilterSize is the filter size whose scale factor is 1. Scale factors of
// all other levels are expressed relative to it.
const BaseFilterSize = 9

// Config holds the tunable parameters of the detector. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// FilterSizes lists the box filter sizes defining the scale space. Every
	// size must be odd and at least BaseFilterSize, and the list must be
	// strictly ascending.
	FilterSizes []int `json:"filter_sizes"`

	// ThresholdBase is the response floor at the base scale. A level with
	// filter size fs uses ThresholdBase * (BaseFilterSize/fs)^4.
	ThresholdBase float64 `json:"threshold_base"`

	// CrossScaleMargin is the factor by which a finer level's response must
	// exceed a candidate's response to veto it. Must be at least 1.
	CrossScaleMargin float64 `json:"cross_scale_margin"`

	// ClusterRadiusFactor sets the spatial suppression radius per unit of
	// filter size of the weaker point in a pair. Must be positive.
	ClusterRadiusFactor float64 `json:"cluster_radius_factor"`

	// Workers bounds the number of concurrent tasks. Zero uses GOMAXPROCS,
	// one runs everything on the calling goroutine.
	Workers int `json:"workers,omitempty"`
}

// DefaultConfig returns the configuration used when the caller has no
// preference: four scale levels (9, 15, 21, 27), threshold 5, cross-scale
// margin 3 and a cluster radius of one filter size.
func DefaultConfig() Config {
	return Config{
		FilterSizes:         []int{9, 15, 21, 27},
		ThresholdBase:       5.0,
		CrossScaleMargin:    3.0,
		ClusterRadiusFactor: 1.0,
	}
}

// Validate reports the first problem found in c. The returned error wraps
// ErrInvalidConfig.
func (c Config) Validate() error {
	if len(c.FilterSizes) == 0 {
		return fmt.Errorf("%w: no filter sizes", ErrInvalidConfig)
	}
	for i, fs := range c.FilterSizes {
		if fs < BaseFilterSize {
			return fmt.Errorf("%w: filter size %d is below %d", ErrInvalidConfig, fs, BaseFilterSize)
		}
		if fs%2 == 0 {
			return fmt.Errorf("%w: filter size %d is even", ErrInvalidConfig, fs)
		}
		if i > 0 && fs <= c.FilterSizes[i-1] {
			return fmt.Errorf("%w: filter sizes must be strictly ascending (%d after %d)",
				ErrInvalidConfig, fs, c.FilterSizes[i-1])
		}
	}
	if !(c.ThresholdBase > 0) || math.IsInf(c.ThresholdBase, 0) {
		return fmt.Errorf("%w: threshold base must be a positive number, got %v", ErrInvalidConfig, c.ThresholdBase)
	}
	if !(c.CrossScaleMargin >= 1) || math.IsInf(c.CrossScaleMargin, 0) {
		return fmt.Errorf("%w: cross-scale margin must be at least 1, got %v", ErrInvalidConfig, c.CrossScaleMargin)
	}
	if !(c.ClusterRadiusFactor > 0) || math.IsInf(c.ClusterRadiusFactor, 0) {
		return fmt.Errorf("%w: cluster radius factor must be positive, got %v", ErrInvalidConfig, c.ClusterRadiusFactor)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// Levels returns the scale levels described by c in ascending order.
// It does not validate c.
func (c Config) Levels() []ScaleLevel {
	levels := make([]ScaleLevel, len(c.FilterSizes))
	for i, fs := range c.FilterSizes {
		levels[i] = NewScaleLevel(i, fs)
	}
	return levels
}

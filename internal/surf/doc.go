// Package surf detects scale- and rotation-invariant keypoints in a grayscale
// image and computes a 64-element descriptor for each of them.
//
// The package is the numerical core of the server. It consumes plain
// intensity arrays (see NewImage) and never touches files, colour models or
// encoders; those live in the imaging package.
//
// # Pipeline
//
// Data flows strictly forward, and every stage returns a new value instead of
// mutating its input:
//
//  1. Integral image: a summed-area table with one row and one column of zero
//     padding, giving O(1) rectangle sums (IntegralImage.BoxSum).
//  2. Hessian detector: for every configured filter size, box filters
//     approximate the second-order derivatives Dxx, Dyy and Dxy and the
//     response (Dxx*Dyy - 0.81*Dxy²)/s⁴ is stored in a ResponseMap. Pixels
//     above the per-scale threshold that are strict local maxima become
//     Candidates.
//  3. Suppression: a cross-scale pass lets finer levels veto coarser
//     candidates, then a spatial pass collapses clusters of nearby
//     candidates to their strongest member.
//  4. Orientation: Gaussian-weighted Haar responses on a disc of radius 6s
//     give each surviving candidate a dominant direction (Keypoint).
//  5. Descriptor: Haar responses sampled on a 4x4 grid of sub-regions rotated
//     to the keypoint orientation, concatenated and unit-normalized.
//
// # Coordinate System
//
// Coordinates are 0-based with the origin at the top-left pixel; X grows to
// the right and Y grows downward. Rectangles passed to BoxSum are half-open:
// (x1, y1) inclusive, (x2, y2) exclusive. Orientations are measured in
// radians from the +X axis toward the +Y axis and normalized into [0, 2π).
//
// # Scale
//
// A scale level pairs an odd filter size with the scale factor
// fs/BaseFilterSize. The image is never resampled; only the filter footprint
// grows. A keypoint found with filter size fs lies at least (fs-1)/2 pixels
// away from every image edge.
//
// # Concurrency
//
// Detect is deterministic. Response maps are built one task per scale level
// and orientations/descriptors one task per keypoint, bounded by
// Config.Workers. Tasks share only read-only structures and write into
// pre-sized, index-addressed slots, so the output does not depend on
// scheduling.
//
// # Error Handling
//
// Malformed input (empty, ragged or non-finite arrays) fails with
// ErrInvalidInput before any scale is processed, and an invalid Config fails
// with ErrInvalidConfig. An image without keypoints is not an error: Detect
// returns an empty Result. Per-keypoint degeneracies (flat regions) yield an
// orientation of 0 and an all-zero descriptor without affecting other
// keypoints.
package surf

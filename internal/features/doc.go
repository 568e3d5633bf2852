// Package features runs keypoint extraction on decoded images.
//
// It chains the preprocessing steps of package imaging (region crop,
// optional blur, optional histogram equalization, gray conversion) into
// surf.Detect and reshapes the result for JSON clients: keypoints are
// reported in source-image coordinates, orientations in both radians and
// degrees, and descriptors only on request.
//
// # Selecting Keypoints
//
// When Options.MaxKeypoints is positive, only the strongest keypoints are
// kept. Selection is by response; the survivors keep their detection order
// (scale level first, then raster order), so truncating never reorders the
// output.
package features

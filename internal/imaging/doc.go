// Package imaging prepares decoded images for keypoint detection and turns
// detection results back into pictures.
//
// It sits between the file system and the detector: it loads and caches
// source images, crops a region of interest, reduces colour to a single
// intensity channel, optionally equalizes the histogram, and renders
// intensity arrays and keypoint overlays as PNG previews.
//
// # Coordinate System
//
// All pixel coordinates are 0-based and relative to the top-left corner of
// the image being processed, whatever its Bounds().Min:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// Intensity arrays are row-major: rows[y][x].
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Every other function is
// stateless and never modifies its input image.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Regions that are empty or reach outside the image (ErrInvalidRegion)
//   - Unknown gray modes
//   - File I/O errors during image loading
//   - Encoding errors during preview output
package imaging

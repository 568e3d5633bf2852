package surf

import "errors"

var (
	// ErrInvalidInput is returned for empty, wrongly shaped or non-finite
	// intensity arrays.
	ErrInvalidInput = errors.New("invalid input image")

	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

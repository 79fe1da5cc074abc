package imageprocessing

import "errors"

var (
	// ErrInvalidInput is returned when an image is missing, malformed or could not be decoded.
	ErrInvalidInput = errors.New("invalid input image")

	// ErrInvalidConfiguration is returned when dither options cannot be honored, e.g. colorCount < 2.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrNoImage is returned when processing is requested before an image was loaded.
	ErrNoImage = errors.New("no image loaded")

	// ErrNoResult is returned when an export is requested before anything was processed.
	ErrNoResult = errors.New("no processed image")
)

package qoi

import "errors"

var (
	// ErrMalformedHeader is returned for a bad magic, channel count, color space or size.
	ErrMalformedHeader = errors.New("malformed header")
	// ErrMissingEndMarker is returned when the stream does not end with EndMarker.
	ErrMissingEndMarker = errors.New("missing end marker")
	// ErrTruncatedStream is returned when the chunks run out before every pixel is decoded.
	ErrTruncatedStream = errors.New("truncated stream")
	// ErrSizeMismatch is returned when a pixel count does not match width*height.
	ErrSizeMismatch = errors.New("pixel count does not match the image size")
)

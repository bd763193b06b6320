package encoder

import (
	"image"
)

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the output format name ("jpeg", "png", "webp").
	Format() string

	// Encode converts the image to bytes at the given quality (1-100).
	// Lossless formats ignore quality.
	Encode(img image.Image, quality int) ([]byte, error)

	// Available reports whether the encoder can be used in this build.
	Available() bool

	// Extension returns the preferred file extension without dot.
	Extension() string
}

const defaultQuality = 82

func clampQuality(q int) int {
	if q <= 0 || q > 100 {
		return defaultQuality
	}
	return q
}

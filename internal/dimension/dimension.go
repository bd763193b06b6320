// Package dimension reads pixel dimensions from image headers without
// decoding pixel data.
package dimension

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/fumiama/imgsz"
	_ "golang.org/x/image/webp"
)

// Size is an image's stored width and height in pixels.
type Size struct {
	Width  int
	Height int
}

// Read returns the dimensions encoded in data. ok is false when the header
// cannot be parsed or reports a non-positive size; callers record 0x0.
func Read(data []byte) (Size, bool) {
	if len(data) == 0 {
		return Size{}, false
	}
	if sz, _, err := imgsz.DecodeSize(bytes.NewReader(data)); err == nil && sz.Width > 0 && sz.Height > 0 {
		return Size{Width: sz.Width, Height: sz.Height}, true
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return Size{}, false
	}
	return Size{Width: cfg.Width, Height: cfg.Height}, true
}

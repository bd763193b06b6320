package encoder

import (
	"bytes"
	"image"

	"github.com/chai2010/webp"
)

// WebPEncoder encodes lossy WebP through the libwebp bundled with
// chai2010/webp, so no cwebp binary is needed at build time.
type WebPEncoder struct{}

func (e *WebPEncoder) Format() string    { return "webp" }
func (e *WebPEncoder) Extension() string { return "webp" }
func (e *WebPEncoder) Available() bool   { return true }

func (e *WebPEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(64 * 1024)

	err := webp.Encode(&buf, img, &webp.Options{Quality: float32(clampQuality(quality))})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

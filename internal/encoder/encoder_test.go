package encoder

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"testing"

	"github.com/mraz2766/photobuild/internal/fixture"
	_ "golang.org/x/image/webp"
)

func TestRegistryNormalize(t *testing.T) {
	r := NewRegistry()
	for _, f := range []string{"jpg", "JPEG", ".jpg", "png", ".PNG", "webp"} {
		if r.Get(f) == nil {
			t.Errorf("no encoder for %q", f)
		}
	}
	if r.Get("avif") != nil {
		t.Error("unexpected avif encoder")
	}
	if got := Normalize(".JPG"); got != "jpeg" {
		t.Errorf("Normalize(.JPG) = %q", got)
	}
}

func TestEncodersRoundtrip(t *testing.T) {
	img := fixture.Gradient(64, 48)
	r := NewRegistry()
	for _, format := range r.Available() {
		enc := r.Get(format)
		data, err := enc.Encode(img, 80)
		if err != nil {
			t.Fatalf("%s: encode: %v", format, err)
		}
		cfg, got, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("%s: decode: %v", format, err)
		}
		if got != format {
			t.Errorf("%s: decoded as %s", format, got)
		}
		if cfg.Width != 64 || cfg.Height != 48 {
			t.Errorf("%s: got %dx%d", format, cfg.Width, cfg.Height)
		}
	}
}

func TestJPEGQualityAffectsSize(t *testing.T) {
	img := fixture.Gradient(200, 200)
	enc := &JPEGEncoder{}
	lo, err := enc.Encode(img, 10)
	if err != nil {
		t.Fatal(err)
	}
	hi, err := enc.Encode(img, 95)
	if err != nil {
		t.Fatal(err)
	}
	if len(lo) >= len(hi) {
		t.Errorf("q10 (%d bytes) not smaller than q95 (%d bytes)", len(lo), len(hi))
	}
}

//go:build ignore

// gen_fixtures creates a small photo tree for a manual end-to-end run:
// categories, a rotated camera JPEG, an oversized PNG and a stray text file.
// Usage: go run gen_fixtures.go <output_dir> && photobuild build --src <output_dir>
package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/mraz2766/photobuild/internal/fixture"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]

	// Root photo (General category).
	write(dir, "welcome.jpg", encodeJPEG(fixture.Gradient(800, 533)))

	// Landscapes: one oversized PNG that will be fitted inside max-dimension.
	write(dir, "landscapes/wide-panorama.png", encodePNG(fixture.Gradient(3200, 900)))
	write(dir, "landscapes/lake_at_dawn.jpg", cameraJPEG(1200, 800, 1))

	// Portraits: stored sideways with Exif orientation 6.
	write(dir, "portraits/studio-01.jpg", cameraJPEG(900, 600, 6))
	for i := 1; i <= 3; i++ {
		write(dir, fmt.Sprintf("portraits/card-%d.png", i), encodePNG(solidWithBorder(200, 300, uint8(i*60))))
	}

	// Collision pair and an unsupported file.
	write(dir, "misc/photo.jpg", encodeJPEG(fixture.Gradient(300, 200)))
	write(dir, "misc/photo.png", encodePNG(alphaGradient(100, 100)))
	write(dir, "misc/notes.txt", []byte("not a photo"))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 10 fixtures in %s\n", dir)
}

func cameraJPEG(w, h int, orientation uint16) []byte {
	tiff := fixture.BuildTIFF(
		[]fixture.Entry{
			fixture.ASCII(fixture.TagMake, "FUJIFILM"),
			fixture.ASCII(fixture.TagModel, "X-T4"),
			fixture.Short(fixture.TagOrientation, orientation),
		},
		[]fixture.Entry{
			fixture.Rational(fixture.TagExposureTime, 1, 250),
			fixture.Rational(fixture.TagFNumber, 28, 10),
			fixture.Short(fixture.TagISO, 320),
			fixture.ASCII(fixture.TagLensModel, "XF35mmF1.4 R"),
		},
	)
	return fixture.InsertExif(encodeJPEG(fixture.Gradient(w, h)), tiff)
}

func solidWithBorder(w, h int, base uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: base, G: base + 40, B: base + 80, A: 255}
			if x < 4 || x >= w-4 || y < 4 || y >= h-4 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func encodeJPEG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func write(dir, rel string, data []byte) {
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		panic(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		panic(err)
	}
}

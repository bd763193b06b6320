package transcode

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/mraz2766/photobuild/internal/encoder"
	apperrors "github.com/mraz2766/photobuild/internal/errors"
	"github.com/mraz2766/photobuild/internal/exifpatch"
)

// GoBackend decodes with the image registry, transforms with imaging and
// encodes through the encoder registry.
type GoBackend struct {
	registry *encoder.Registry
}

// NewGoBackend creates the default backend.
func NewGoBackend() *GoBackend {
	return &GoBackend{registry: encoder.NewRegistry()}
}

func (b *GoBackend) Name() string { return "go" }

func (b *GoBackend) Optimize(data []byte, info Info, opts OptimizeOptions) ([]byte, error) {
	enc := b.registry.Get(info.Format)
	if enc == nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, info.Format)
	}
	img, err := decode(data)
	if err != nil {
		return nil, err
	}

	img = applyOrientation(img, info.Orientation)
	img = fitInside(img, opts.MaxDimension)

	out, err := enc.Encode(img, opts.Quality)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", enc.Format(), err)
	}
	if opts.KeepMetadata && enc.Format() == "jpeg" {
		out = exifpatch.Transplant(data, out)
	}
	return out, nil
}

func (b *GoBackend) Preview(data []byte, info Info, opts PreviewOptions) ([]byte, error) {
	enc := b.registry.Get(opts.Format)
	if enc == nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, opts.Format)
	}
	img, err := decode(data)
	if err != nil {
		return nil, err
	}

	img = applyOrientation(img, info.Orientation)
	if opts.Width > 0 && img.Bounds().Dx() > opts.Width {
		img = imaging.Resize(img, opts.Width, 0, imaging.Lanczos)
	}

	out, err := enc.Encode(img, opts.Quality)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", enc.Format(), err)
	}
	return out, nil
}

func decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, apperrors.ErrEmptyInput
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, apperrors.ErrInvalidDimensions
	}
	return img, nil
}

// fitInside scales img down so its longest edge is at most maxDim, keeping
// the aspect ratio. Smaller images are returned unchanged.
func fitInside(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	if maxDim <= 0 || max(b.Dx(), b.Dy()) <= maxDim {
		return img
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
}

// applyOrientation transforms an image according to its Exif orientation.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

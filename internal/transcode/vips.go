//go:build vips

package transcode

import (
	"fmt"
	"sync"

	govips "github.com/davidbyttow/govips/v2/vips"

	"github.com/mraz2766/photobuild/internal/encoder"
	apperrors "github.com/mraz2766/photobuild/internal/errors"
	"github.com/mraz2766/photobuild/internal/profile"
)

func init() {
	Register(profile.BackendVips, func() (Backend, error) { return NewVipsBackend(), nil })
}

var vipsStartup sync.Once

// VipsBackend uses libvips through govips. Only built with -tags vips.
type VipsBackend struct{}

// NewVipsBackend starts libvips once per process.
func NewVipsBackend() *VipsBackend {
	vipsStartup.Do(func() {
		govips.LoggingSettings(nil, govips.LogLevelWarning)
		govips.Startup(&govips.Config{ConcurrencyLevel: 1})
	})
	return &VipsBackend{}
}

func (b *VipsBackend) Name() string { return "vips" }

// Close shuts libvips down. The backend cannot be used afterwards.
func (b *VipsBackend) Close() error {
	govips.Shutdown()
	return nil
}

func (b *VipsBackend) Optimize(data []byte, info Info, opts OptimizeOptions) ([]byte, error) {
	ref, err := load(data)
	if err != nil {
		return nil, err
	}
	defer ref.Close()

	longest := max(ref.Width(), ref.Height())
	if opts.MaxDimension > 0 && longest > opts.MaxDimension {
		if err := ref.Resize(float64(opts.MaxDimension)/float64(longest), govips.KernelLanczos3); err != nil {
			return nil, fmt.Errorf("vips resize: %w", err)
		}
	}
	return export(ref, info.Format, opts.Quality, !opts.KeepMetadata)
}

func (b *VipsBackend) Preview(data []byte, info Info, opts PreviewOptions) ([]byte, error) {
	ref, err := load(data)
	if err != nil {
		return nil, err
	}
	defer ref.Close()

	if opts.Width > 0 && ref.Width() > opts.Width {
		if err := ref.Resize(float64(opts.Width)/float64(ref.Width()), govips.KernelLanczos3); err != nil {
			return nil, fmt.Errorf("vips resize: %w", err)
		}
	}
	return export(ref, opts.Format, opts.Quality, true)
}

// load decodes data and bakes the Exif orientation into the pixels.
func load(data []byte) (*govips.ImageRef, error) {
	if len(data) == 0 {
		return nil, apperrors.ErrEmptyInput
	}
	ref, err := govips.NewImageFromBuffer(data)
	if err != nil {
		return nil, fmt.Errorf("vips decode: %w", err)
	}
	if err := ref.AutoRotate(); err != nil {
		ref.Close()
		return nil, fmt.Errorf("vips autorotate: %w", err)
	}
	return ref, nil
}

func export(ref *govips.ImageRef, format string, quality int, strip bool) ([]byte, error) {
	var (
		buf []byte
		err error
	)
	switch encoder.Normalize(format) {
	case "jpeg":
		ep := govips.NewJpegExportParams()
		ep.Quality = quality
		ep.StripMetadata = strip
		buf, _, err = ref.ExportJpeg(ep)
	case "png":
		ep := govips.NewPngExportParams()
		ep.StripMetadata = strip
		buf, _, err = ref.ExportPng(ep)
	case "webp":
		ep := govips.NewWebpExportParams()
		ep.Quality = quality
		ep.StripMetadata = strip
		buf, _, err = ref.ExportWebp(ep)
	default:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("vips export %s: %w", format, err)
	}
	return buf, nil
}

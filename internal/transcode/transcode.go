// Package transcode normalizes oversized or rotated originals in place and
// generates the reduced-size previews shown in the gallery grid.
package transcode

import (
	"fmt"
	"io"
	"sort"

	"github.com/mraz2766/photobuild/internal/dimension"
	"github.com/mraz2766/photobuild/internal/encoder"
	apperrors "github.com/mraz2766/photobuild/internal/errors"
	"github.com/mraz2766/photobuild/internal/exifmeta"
	"github.com/mraz2766/photobuild/internal/fsx"
	"github.com/mraz2766/photobuild/internal/profile"
)

// Info describes a source image as found on disk.
type Info struct {
	Width       int    // 0 if unknown
	Height      int    // 0 if unknown
	Orientation int    // Exif orientation, 1 when absent
	Format      string // canonical encoder format: jpeg, png, webp
}

// DisplayWidth is the width after the orientation is applied.
func (i Info) DisplayWidth() int {
	if i.Orientation >= 5 && i.Orientation <= 8 {
		return i.Height
	}
	return i.Width
}

// OptimizeOptions controls how an original is rewritten.
type OptimizeOptions struct {
	MaxDimension int
	Quality      int
	KeepMetadata bool
}

// PreviewOptions controls preview generation. Previews never carry metadata.
type PreviewOptions struct {
	Width   int
	Quality int
	Format  string
}

// Backend is a codec engine. Implementations must return encoded bytes in
// info.Format from Optimize and in opts.Format from Preview, with the
// orientation applied to the pixels.
type Backend interface {
	Name() string
	Optimize(data []byte, info Info, opts OptimizeOptions) ([]byte, error)
	Preview(data []byte, info Info, opts PreviewOptions) ([]byte, error)
}

// Factory constructs a backend.
type Factory func() (Backend, error)

var backends = map[string]Factory{
	profile.BackendGo: func() (Backend, error) { return NewGoBackend(), nil },
}

// Register makes a backend available by name. Backends that depend on
// optional system libraries register themselves from build-tagged files.
func Register(name string, f Factory) {
	backends[name] = f
}

// Backends lists registered backend names.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for n := range backends {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Result is the outcome of NormalizeOriginal.
type Result struct {
	Data    []byte // bytes now on disk
	Info    Info   // info of Data
	Updated bool   // the original was rewritten
}

// PreviewResult is the outcome of EnsurePreview.
type PreviewResult struct {
	Written bool
	Skipped bool
}

// Transcoder applies a profile using one backend.
type Transcoder struct {
	profile    profile.Profile
	backend    Backend
	extractor  *exifmeta.Extractor
	previewExt string
}

// New creates a transcoder for p using the backend named in the profile.
func New(p profile.Profile) (*Transcoder, error) {
	name := p.Backend
	if name == "" {
		name = profile.BackendGo
	}
	f, ok := backends[name]
	if !ok {
		return nil, apperrors.NewFatal(apperrors.CategoryConfig, "backend",
			fmt.Errorf("backend %q not available in this build (have: %v)", name, Backends()))
	}
	b, err := f()
	if err != nil {
		return nil, apperrors.WrapFatal(apperrors.CategoryConfig, "backend "+name, err)
	}
	return NewWithBackend(p, b), nil
}

// NewWithBackend creates a transcoder with an explicit backend.
func NewWithBackend(p profile.Profile, b Backend) *Transcoder {
	ext := encoder.Normalize(p.PreviewFormat)
	if enc := encoder.NewRegistry().Get(p.PreviewFormat); enc != nil {
		ext = enc.Extension()
	}
	return &Transcoder{
		profile:    p,
		backend:    b,
		extractor:  exifmeta.New(),
		previewExt: "." + ext,
	}
}

// Backend returns the backend in use.
func (t *Transcoder) Backend() Backend { return t.backend }

// PreviewExt returns the preview file extension including the dot.
func (t *Transcoder) PreviewExt() string { return t.previewExt }

// Close releases backend resources, if the backend holds any.
func (t *Transcoder) Close() error {
	if c, ok := t.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Probe reads orientation and dimensions from data.
func (t *Transcoder) Probe(data []byte, format string) Info {
	info := Info{Orientation: 1, Format: encoder.Normalize(format)}
	if tags, ok := t.extractor.Tags(data); ok {
		info.Orientation = tags.Orientation()
	}
	if sz, ok := dimension.Read(data); ok {
		info.Width, info.Height = sz.Width, sz.Height
	}
	return info
}

// NeedsOptimization reports whether an original must be rewritten: it is
// stored rotated or flipped, or its longest edge exceeds the profile maximum.
func (t *Transcoder) NeedsOptimization(info Info) bool {
	if info.Orientation != 0 && info.Orientation != 1 {
		return true
	}
	return max(info.Width, info.Height) > t.profile.MaxDimension
}

// NormalizeOriginal rewrites the original at path when NeedsOptimization
// says so. On any failure the returned Result still carries the unmodified
// bytes so the caller can continue with them.
func (t *Transcoder) NormalizeOriginal(path, format string, data []byte) (Result, error) {
	info := t.Probe(data, format)
	res := Result{Data: data, Info: info}
	if !t.NeedsOptimization(info) {
		return res, nil
	}

	out, err := t.backend.Optimize(data, info, OptimizeOptions{
		MaxDimension: t.profile.MaxDimension,
		Quality:      t.profile.OriginalQuality,
		KeepMetadata: t.profile.KeepMetadata,
	})
	if err != nil {
		return res, apperrors.Wrap(apperrors.CategoryOptimize, "optimize "+path, err)
	}
	if err := fsx.WriteFileAtomic(path, out); err != nil {
		return res, apperrors.Wrap(apperrors.CategoryOptimize, "write "+path, err)
	}

	return Result{Data: out, Info: t.Probe(out, format), Updated: true}, nil
}

// EnsurePreview writes the preview for data to previewPath. An existing
// preview is kept unless the original was just rewritten.
func (t *Transcoder) EnsurePreview(data []byte, info Info, previewPath string, originalUpdated bool) (PreviewResult, error) {
	if !originalUpdated && fsx.Exists(previewPath) {
		return PreviewResult{Skipped: true}, nil
	}

	out, err := t.backend.Preview(data, info, PreviewOptions{
		Width:   t.profile.EffectivePreviewWidth(info.DisplayWidth()),
		Quality: t.profile.PreviewQuality,
		Format:  t.profile.PreviewFormat,
	})
	if err != nil {
		return PreviewResult{}, apperrors.Wrap(apperrors.CategoryPreview, "preview "+previewPath, err)
	}
	if err := fsx.WriteFileAtomic(previewPath, out); err != nil {
		return PreviewResult{}, apperrors.Wrap(apperrors.CategoryPreview, "write "+previewPath, err)
	}
	return PreviewResult{Written: true}, nil
}

package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/mraz2766/photobuild/internal/errors"
	"github.com/mraz2766/photobuild/internal/exifmeta"
	"github.com/mraz2766/photobuild/internal/manifest"
	"github.com/mraz2766/photobuild/internal/profile"
	"github.com/mraz2766/photobuild/internal/transcode"
)

// Config holds all parameters for a build pipeline run.
type Config struct {
	SourceDir   string // originals, rewritten in place when optimized
	PreviewDir  string // mirrored tree of previews
	SrcPrefix   string // URL prefix for originals, e.g. "/photos"
	ThumbPrefix string // URL prefix for previews, e.g. "/thumbnails"
	Profile     profile.Profile

	// Warn receives recoverable per-file problems. Defaults to the
	// pipeline logger's Warn.
	Warn func(msg string, args ...any)
}

// Pipeline walks the source tree and assembles the gallery manifest. It
// processes one file at a time.
type Pipeline struct {
	cfg        Config
	log        *slog.Logger
	transcoder *transcode.Transcoder
	extractor  *exifmeta.Extractor

	manifest *manifest.Manifest
	nextID   int
	previews map[string]string // preview rel path -> source rel path
}

// New creates a configured pipeline.
func New(cfg Config, log *slog.Logger) (*Pipeline, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := cfg.Profile.Validate(); err != nil {
		return nil, apperrors.WrapFatal(apperrors.CategoryConfig, "profile", err)
	}
	tr, err := transcode.New(cfg.Profile)
	if err != nil {
		return nil, err
	}
	if cfg.Warn == nil {
		cfg.Warn = log.Warn
	}
	return &Pipeline{
		cfg:        cfg,
		log:        log,
		transcoder: tr,
		extractor:  exifmeta.New(),
	}, nil
}

// Close releases the transcoder backend.
func (p *Pipeline) Close() error {
	return p.transcoder.Close()
}

// Run executes the full build pipeline and returns the manifest. Only fatal
// errors are returned; per-file problems are reported through Config.Warn
// and counted in the manifest stats.
func (p *Pipeline) Run() (*manifest.Manifest, error) {
	p.manifest = manifest.New()
	p.nextID = 0
	p.previews = make(map[string]string)

	if err := checkRoots(p.cfg.SourceDir, p.cfg.PreviewDir); err != nil {
		return nil, err
	}

	info, err := os.Stat(p.cfg.SourceDir)
	if errors.Is(err, fs.ErrNotExist) {
		p.warn("source directory not found, writing empty manifest", "dir", p.cfg.SourceDir)
		return p.manifest, nil
	}
	if err != nil {
		return nil, apperrors.WrapFatal(apperrors.CategoryWalk, "stat "+p.cfg.SourceDir, err)
	}
	if !info.IsDir() {
		return nil, apperrors.NewFatal(apperrors.CategoryWalk, "stat "+p.cfg.SourceDir,
			fmt.Errorf("not a directory"))
	}

	p.log.Debug("starting build",
		"src", p.cfg.SourceDir,
		"previews", p.cfg.PreviewDir,
		"profile", p.cfg.Profile.Name,
		"backend", p.transcoder.Backend().Name())

	start := time.Now()
	if err := Walk(p.cfg.SourceDir, p.cfg.PreviewDir, p.process); err != nil {
		return nil, err
	}

	p.log.Info("processed photos",
		"count", p.manifest.Stats.TotalPhotos,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return p.manifest, nil
}

// checkRoots rejects a preview root at or below the source root: the walk
// would descend into its own mirror and previews would be read back as
// sources.
func checkRoots(srcDir, previewDir string) error {
	src, err := filepath.Abs(srcDir)
	if err != nil {
		return apperrors.WrapFatal(apperrors.CategoryConfig, "source "+srcDir, err)
	}
	prev, err := filepath.Abs(previewDir)
	if err != nil {
		return apperrors.WrapFatal(apperrors.CategoryConfig, "previews "+previewDir, err)
	}
	rel, err := filepath.Rel(src, prev)
	if err != nil {
		return nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	return apperrors.NewFatal(apperrors.CategoryConfig, "previews "+previewDir,
		fmt.Errorf("%w: %s is under %s", apperrors.ErrPreviewInSource, previewDir, srcDir))
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.manifest != nil {
		p.manifest.Stats.Warnings++
	}
	p.cfg.Warn(msg, args...)
}

package pipeline

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	apperrors "github.com/mraz2766/photobuild/internal/errors"
	"github.com/mraz2766/photobuild/internal/manifest"
)

// process handles a single source image: read, normalize the original,
// ensure the preview, extract metadata and append the record. Only fatal
// errors are returned.
func (p *Pipeline) process(src Source) error {
	data, err := os.ReadFile(src.AbsPath)
	if err != nil {
		p.warn("skipping unreadable file", "path", src.RelPath,
			"err", apperrors.Wrap(apperrors.CategoryRead, "read", err))
		return nil
	}

	previewRel := p.previewPath(src)
	previewAbs := filepath.Join(p.cfg.PreviewDir, filepath.FromSlash(previewRel))
	stats := &p.manifest.Stats

	res, err := p.transcoder.NormalizeOriginal(src.AbsPath, src.Format, data)
	if err != nil {
		p.warn("original left unchanged", "path", src.RelPath, "err", err)
	} else if res.Updated {
		stats.OriginalsUpdated++
		p.log.Info("optimized original", "path", src.RelPath,
			"width", res.Info.Width, "height", res.Info.Height)
	}

	pres, err := p.transcoder.EnsurePreview(res.Data, res.Info, previewAbs, res.Updated)
	switch {
	case err != nil:
		stats.PreviewsFailed++
		p.warn("preview not generated", "path", src.RelPath, "err", err)
	case pres.Skipped:
		stats.PreviewsSkipped++
	case pres.Written:
		stats.PreviewsWritten++
		p.log.Debug("wrote preview", "path", previewRel)
	}

	p.nextID++
	p.manifest.Append(manifest.Photo{
		ID:        p.nextID,
		Src:       path.Join(p.cfg.SrcPrefix, src.RelPath),
		Thumbnail: path.Join(p.cfg.ThumbPrefix, previewRel),
		Title:     Title(src.Base),
		Width:     res.Info.Width,
		Height:    res.Info.Height,
		Category:  src.Category,
		Exif:      p.extractor.Extract(res.Data),
	})
	return nil
}

// previewPath returns the slash-separated preview path for src relative to
// the preview root. A base shared by several images in one directory
// (photo.jpg, photo.png) gets the source extension folded into every one of
// their names: photo-jpg.webp, photo-png.webp. Unique bases keep the plain
// name, so a file's preview name depends only on its directory's contents.
func (p *Pipeline) previewPath(src Source) string {
	ext := p.transcoder.PreviewExt()
	base := src.Base
	if src.SharedBase {
		base += "-" + strings.ToLower(strings.TrimPrefix(src.Ext, "."))
	}
	rel := path.Join(src.RelDir, base+ext)
	owner, taken := p.previews[rel]
	if !taken {
		p.previews[rel] = src.RelPath
		return rel
	}

	// photo.jpg next to photo.JPG, or photo.png next to photo-png.jpg.
	var alt string
	for n := 2; ; n++ {
		alt = path.Join(src.RelDir, fmt.Sprintf("%s-%d%s", base, n, ext))
		if _, taken := p.previews[alt]; !taken {
			break
		}
	}
	p.previews[alt] = src.RelPath
	p.warn("preview name collision", "path", src.RelPath, "with", owner, "preview", alt,
		"err", apperrors.New(apperrors.CategoryPreview, "preview "+rel, apperrors.ErrPreviewCollision))
	return alt
}

package pipeline

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mraz2766/photobuild/internal/encoder"
	apperrors "github.com/mraz2766/photobuild/internal/errors"
)

// DefaultCategory is used for photos stored directly in the source root.
const DefaultCategory = "General"

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the source root, with forward slashes.
	RelPath string
	// RelDir is the directory part of RelPath, "" for the root.
	RelDir string
	// Base is the file name without its extension, or the whole file name
	// when that would leave nothing (".jpg").
	Base string
	// SharedBase is set when another image in the same directory has the
	// same Base (photo.jpg and photo.png).
	SharedBase bool
	// Ext is the extension as found on disk, including the dot.
	Ext string
	// Format is the canonical format name (jpeg, png, webp).
	Format string
	// Category is derived from the first directory below the root.
	Category string
	// Size is the file size in bytes.
	Size int64
}

// imageExtensions lists recognized image file extensions.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// IsImage reports whether name has a supported image extension.
func IsImage(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// Walk traverses srcRoot in lexical order. Every directory is mirrored under
// previewRoot before any of its files is visited; a mirror that cannot be
// created aborts the walk. Files without a supported extension are skipped.
func Walk(srcRoot, previewRoot string, visit func(Source) error) error {
	bases := make(map[string]map[string]int) // rel dir -> image base -> count
	return filepath.WalkDir(srcRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return apperrors.WrapFatal(apperrors.CategoryWalk, "walk "+p, err)
		}

		rel, err := filepath.Rel(srcRoot, p)
		if err != nil {
			return apperrors.WrapFatal(apperrors.CategoryWalk, "walk "+p, err)
		}

		if d.IsDir() {
			mirror := filepath.Join(previewRoot, rel)
			if err := os.MkdirAll(mirror, 0o755); err != nil {
				return apperrors.WrapFatal(apperrors.CategoryWalk, "mkdir "+mirror, err)
			}
			counts, err := imageBases(p)
			if err != nil {
				return apperrors.WrapFatal(apperrors.CategoryWalk, "read "+p, err)
			}
			bases[filepath.ToSlash(rel)] = counts
			return nil
		}

		if !IsImage(p) {
			return nil
		}

		src := newSource(p, filepath.ToSlash(rel))
		dirKey := src.RelDir
		if dirKey == "" {
			dirKey = "."
		}
		src.SharedBase = bases[dirKey][src.Base] > 1
		if info, err := d.Info(); err == nil {
			src.Size = info.Size()
		}
		return visit(src)
	})
}

// imageBases counts the image files in dir by base name.
func imageBases(dir string) (map[string]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		counts[baseName(e.Name())]++
	}
	return counts, nil
}

func baseName(file string) string {
	if base := strings.TrimSuffix(file, path.Ext(file)); base != "" {
		return base
	}
	return file
}

func newSource(absPath, rel string) Source {
	dir, file := path.Split(rel)
	ext := path.Ext(file)
	return Source{
		AbsPath:  absPath,
		RelPath:  rel,
		RelDir:   strings.TrimSuffix(dir, "/"),
		Base:     baseName(file),
		Ext:      ext,
		Format:   encoder.Normalize(ext),
		Category: Category(rel),
	}
}

// Category returns the gallery category for a slash-separated relative path:
// the first directory, capitalized, or DefaultCategory at the root.
func Category(rel string) string {
	first, _, nested := strings.Cut(rel, "/")
	if !nested || first == "" {
		return DefaultCategory
	}
	r, size := utf8.DecodeRuneInString(first)
	return string(unicode.ToUpper(r)) + first[size:]
}

// Title turns a file base name into a display title: "-" and "_" become
// spaces and runs of whitespace collapse.
func Title(base string) string {
	t := strings.Join(strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(base)), " ")
	if t == "" {
		return base
	}
	return t
}

// Package exifmeta reads descriptive Exif tags from image bytes and turns
// them into the display strings stored in the gallery manifest.
//
// Missing metadata is the normal case (PNG screenshots, stripped exports), so
// nothing here returns an error to the caller: parsers that fail simply yield
// no tags.
package exifmeta

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mraz2766/photobuild/internal/manifest"
)

// Tag is one parsed Exif value. Description is a human-readable rendering
// when the parser has one; Value is the raw value as text.
type Tag struct {
	Value       string
	Description string
}

// TagSet maps Exif tag names (e.g. "Model", "FNumber") to their values.
type TagSet map[string]Tag

// Lookup returns the first usable value among names: a tag's description if
// present, else its raw value. It returns "" when none of the tags is set.
func (ts TagSet) Lookup(names ...string) string {
	for _, name := range names {
		t, ok := ts[name]
		if !ok {
			continue
		}
		if t.Description != "" {
			return t.Description
		}
		if t.Value != "" {
			return t.Value
		}
	}
	return ""
}

// Orientation returns the Exif orientation (1..8), or 1 when the tag is
// missing or out of range.
func (ts TagSet) Orientation() int {
	v, err := strconv.Atoi(strings.TrimSpace(ts.Lookup("Orientation")))
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}

// Tag lookup order per manifest field.
var (
	CameraTags   = []string{"Model", "Make"}
	LensTags     = []string{"LensModel", "Lens", "LensSpecification", "LensInfo"}
	ISOTags      = []string{"ISOSpeedRatings", "PhotographicSensitivity"}
	ApertureTags = []string{"FNumber"}
	ShutterTags  = []string{"ExposureTime"}
)

// Parser decodes the Exif block of an image.
type Parser interface {
	Name() string
	Parse(data []byte) (TagSet, error)
}

// Extractor tries its parsers in order and keeps the first non-empty result.
type Extractor struct {
	parsers []Parser
}

// New returns an Extractor using parsers, or the default chain (goexif for
// JPEG/TIFF, then go-exif for any other container) when none are given.
func New(parsers ...Parser) *Extractor {
	if len(parsers) == 0 {
		parsers = []Parser{GoexifParser{}, DsopreaParser{}}
	}
	return &Extractor{parsers: parsers}
}

var defaultExtractor = New()

// Tags returns the parsed tags and whether any parser found metadata.
func (e *Extractor) Tags(data []byte) (TagSet, bool) {
	if len(data) == 0 {
		return TagSet{}, false
	}
	for _, p := range e.parsers {
		tags, err := safeParse(p, data)
		if err == nil && len(tags) > 0 {
			return tags, true
		}
	}
	return TagSet{}, false
}

// Extract returns the display-ready Exif record for data.
func (e *Extractor) Extract(data []byte) manifest.Exif {
	tags, _ := e.Tags(data)
	return FromTags(tags)
}

// Tags parses data with the default parser chain.
func Tags(data []byte) (TagSet, bool) { return defaultExtractor.Tags(data) }

// Extract builds the manifest Exif record with the default parser chain.
func Extract(data []byte) manifest.Exif { return defaultExtractor.Extract(data) }

// FromTags maps a tag set onto the manifest fields, applying placeholders.
func FromTags(tags TagSet) manifest.Exif {
	return manifest.Exif{
		Camera:   orDefault(tags.Lookup(CameraTags...), manifest.UnknownCamera),
		Lens:     orDefault(tags.Lookup(LensTags...), manifest.UnknownLens),
		ISO:      tags.Lookup(ISOTags...),
		Aperture: FormatAperture(tags.Lookup(ApertureTags...)),
		Shutter:  FormatShutter(tags.Lookup(ShutterTags...)),
	}
}

// Third-party parsers run on arbitrary file contents; a panic in one of them
// counts as "no metadata".
func safeParse(p Parser, data []byte) (tags TagSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			tags, err = nil, fmt.Errorf("%s: panic: %v", p.Name(), r)
		}
	}()
	return p.Parse(data)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func cleanString(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

// formatRatio renders num/den as the shortest decimal, e.g. 1/250 -> "0.004".
func formatRatio(num, den int64) string {
	return strconv.FormatFloat(float64(num)/float64(den), 'f', -1, 64)
}

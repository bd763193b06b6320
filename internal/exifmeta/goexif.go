package exifmeta

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// GoexifParser reads Exif from JPEG and TIFF streams with rwcarlsen/goexif.
type GoexifParser struct{}

func (GoexifParser) Name() string { return "goexif" }

func (GoexifParser) Parse(data []byte) (TagSet, error) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	w := tagWalker{tags: TagSet{}}
	if err := x.Walk(w); err != nil {
		return nil, err
	}
	return w.tags, nil
}

type tagWalker struct {
	tags TagSet
}

func (w tagWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if t, ok := goexifTag(tag); ok {
		w.tags[string(name)] = t
	}
	return nil
}

func goexifTag(tag *tiff.Tag) (Tag, bool) {
	if tag == nil || tag.Count == 0 {
		return Tag{}, false
	}
	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return Tag{}, false
		}
		s = cleanString(s)
		return Tag{Value: s, Description: s}, s != ""

	case tiff.RatVal:
		parts := make([]string, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			num, den, err := tag.Rat2(i)
			if err != nil || den == 0 {
				return Tag{}, false
			}
			parts = append(parts, formatRatio(num, den))
		}
		return Tag{Value: strings.Join(parts, " ")}, true

	case tiff.IntVal:
		parts := make([]string, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			v, err := tag.Int(i)
			if err != nil {
				return Tag{}, false
			}
			parts = append(parts, strconv.Itoa(v))
		}
		return Tag{Value: strings.Join(parts, " ")}, true

	case tiff.FloatVal:
		v, err := tag.Float(0)
		if err != nil {
			return Tag{}, false
		}
		return Tag{Value: strconv.FormatFloat(v, 'f', -1, 64)}, true
	}
	return Tag{}, false
}

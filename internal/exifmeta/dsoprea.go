package exifmeta

import (
	"strconv"
	"strings"

	dsexif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
)

// DsopreaParser locates an Exif block anywhere in the byte stream with
// dsoprea/go-exif, which also covers PNG eXIf chunks and WebP EXIF chunks.
type DsopreaParser struct{}

func (DsopreaParser) Name() string { return "go-exif" }

func (DsopreaParser) Parse(data []byte) (TagSet, error) {
	rawExif, err := dsexif.SearchAndExtractExif(data)
	if err != nil {
		return nil, err
	}

	im, err := exifcommon.NewIfdMappingWithStandard()
	if err != nil {
		return nil, err
	}
	ti := dsexif.NewTagIndex()

	_, index, err := dsexif.Collect(im, ti, rawExif)
	if err != nil {
		return nil, err
	}

	tags := TagSet{}
	cb := func(ifd *dsexif.Ifd, ite *dsexif.IfdTagEntry) error {
		v, err := ite.Value()
		if err != nil {
			// Unparseable or unknown-typed entries are skipped, not fatal.
			return nil
		}
		if t, ok := dsoTag(v); ok {
			if _, seen := tags[ite.TagName()]; !seen {
				tags[ite.TagName()] = t
			}
		}
		return nil
	}
	if err := index.RootIfd.EnumerateTagsRecursively(cb); err != nil {
		return nil, err
	}
	return tags, nil
}

func dsoTag(v interface{}) (Tag, bool) {
	var parts []string
	switch val := v.(type) {
	case string:
		s := cleanString(val)
		return Tag{Value: s, Description: s}, s != ""
	case []exifcommon.Rational:
		for _, r := range val {
			if r.Denominator == 0 {
				return Tag{}, false
			}
			parts = append(parts, formatRatio(int64(r.Numerator), int64(r.Denominator)))
		}
	case []exifcommon.SignedRational:
		for _, r := range val {
			if r.Denominator == 0 {
				return Tag{}, false
			}
			parts = append(parts, formatRatio(int64(r.Numerator), int64(r.Denominator)))
		}
	case []uint16:
		for _, n := range val {
			parts = append(parts, strconv.FormatUint(uint64(n), 10))
		}
	case []uint32:
		for _, n := range val {
			parts = append(parts, strconv.FormatUint(uint64(n), 10))
		}
	case []int32:
		for _, n := range val {
			parts = append(parts, strconv.FormatInt(int64(n), 10))
		}
	default:
		return Tag{}, false
	}
	if len(parts) == 0 {
		return Tag{}, false
	}
	return Tag{Value: strings.Join(parts, " ")}, true
}

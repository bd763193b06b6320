package exifmeta

import (
	"errors"
	"testing"

	"github.com/mraz2766/photobuild/internal/fixture"
	"github.com/mraz2766/photobuild/internal/manifest"
)

func TestFormatShutter(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"0.004", "1/250"},
		{"0.0025", "1/400"},
		{"0.5", "1/2"},
		{"1/250", "1/250"},
		{"2", "2"},
		{"1", "1"},
		{"0", "0"},
		{"-0.5", "-0.5"},
		{"bulb", "bulb"},
	}
	for _, tt := range tests {
		if got := FormatShutter(tt.in); got != tt.want {
			t.Errorf("FormatShutter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAperture(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"1.8", "f/1.8"},
		{"f/1.8", "f/1.8"},
		{"F2.8", "F2.8"},
		{"11", "f/11"},
	}
	for _, tt := range tests {
		if got := FormatAperture(tt.in); got != tt.want {
			t.Errorf("FormatAperture(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLookupFallback(t *testing.T) {
	tags := TagSet{
		"Make":              {Value: "Canon", Description: "Canon"},
		"LensSpecification": {Value: "24 70 2.8 2.8"},
		"Lens":              {},
	}
	ex := FromTags(tags)
	if ex.Camera != "Canon" {
		t.Errorf("camera: got %q, want Make fallback", ex.Camera)
	}
	if ex.Lens != "24 70 2.8 2.8" {
		t.Errorf("lens: got %q, want LensSpecification fallback", ex.Lens)
	}

	tags["Model"] = Tag{Value: "EOS R5", Description: "EOS R5"}
	tags["LensModel"] = Tag{Value: "RF24-70mm"}
	ex = FromTags(tags)
	if ex.Camera != "EOS R5" || ex.Lens != "RF24-70mm" {
		t.Errorf("primary tags not preferred: %+v", ex)
	}
}

func TestLookupPrefersDescription(t *testing.T) {
	tags := TagSet{"ExposureTime": {Value: "0.004", Description: "1/250"}}
	if got := tags.Lookup("ExposureTime"); got != "1/250" {
		t.Errorf("got %q", got)
	}
}

func TestFromTagsPlaceholders(t *testing.T) {
	want := manifest.Exif{Camera: manifest.UnknownCamera, Lens: manifest.UnknownLens}
	if got := FromTags(TagSet{}); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if got := FromTags(nil); got != want {
		t.Errorf("nil tags: got %+v", got)
	}
}

func TestOrientation(t *testing.T) {
	if got := (TagSet{}).Orientation(); got != 1 {
		t.Errorf("missing orientation: got %d", got)
	}
	if got := (TagSet{"Orientation": {Value: "6"}}).Orientation(); got != 6 {
		t.Errorf("got %d, want 6", got)
	}
	if got := (TagSet{"Orientation": {Value: "42"}}).Orientation(); got != 1 {
		t.Errorf("out of range: got %d", got)
	}
}

func cameraJPEG(t *testing.T) []byte {
	return fixture.JPEGWithExif(t, 32, 24,
		[]fixture.Entry{
			fixture.ASCII(fixture.TagMake, "Fujifilm"),
			fixture.ASCII(fixture.TagModel, "X-T4"),
			fixture.Short(fixture.TagOrientation, 6),
		},
		[]fixture.Entry{
			fixture.Rational(fixture.TagExposureTime, 1, 250),
			fixture.Rational(fixture.TagFNumber, 28, 10),
			fixture.Short(fixture.TagISO, 400),
			fixture.ASCII(fixture.TagLensModel, "XF35mmF1.4 R"),
		},
	)
}

func TestExtractJPEG(t *testing.T) {
	want := manifest.Exif{
		Camera:   "X-T4",
		Lens:     "XF35mmF1.4 R",
		ISO:      "400",
		Aperture: "f/2.8",
		Shutter:  "1/250",
	}
	if got := Extract(cameraJPEG(t)); got != want {
		t.Errorf("got %+v\nwant %+v", got, want)
	}
}

func TestParsersAgree(t *testing.T) {
	data := cameraJPEG(t)
	for _, p := range []Parser{GoexifParser{}, DsopreaParser{}} {
		tags, ok := New(p).Tags(data)
		if !ok {
			t.Errorf("%s: no tags", p.Name())
			continue
		}
		if got := tags.Lookup(CameraTags...); got != "X-T4" {
			t.Errorf("%s: camera %q", p.Name(), got)
		}
		if got := tags.Orientation(); got != 6 {
			t.Errorf("%s: orientation %d", p.Name(), got)
		}
		if got := FormatShutter(tags.Lookup(ShutterTags...)); got != "1/250" {
			t.Errorf("%s: shutter %q", p.Name(), got)
		}
	}
}

func TestExtractWithoutMetadata(t *testing.T) {
	for name, data := range map[string][]byte{
		"png":     fixture.PNG(t, 8, 8),
		"jpeg":    fixture.JPEG(t, 8, 8),
		"garbage": []byte("definitely not an image"),
		"empty":   nil,
	} {
		got := Extract(data)
		if got.Camera != manifest.UnknownCamera || got.Lens != manifest.UnknownLens {
			t.Errorf("%s: placeholders missing: %+v", name, got)
		}
		if got.ISO != "" || got.Aperture != "" || got.Shutter != "" {
			t.Errorf("%s: expected empty numeric fields: %+v", name, got)
		}
	}
}

type panicParser struct{}

func (panicParser) Name() string                  { return "panic" }
func (panicParser) Parse([]byte) (TagSet, error) { panic("boom") }

type failParser struct{}

func (failParser) Name() string                  { return "fail" }
func (failParser) Parse([]byte) (TagSet, error) { return nil, errors.New("nope") }

type staticParser TagSet

func (staticParser) Name() string                    { return "static" }
func (p staticParser) Parse([]byte) (TagSet, error) { return TagSet(p), nil }

func TestExtractorChain(t *testing.T) {
	e := New(panicParser{}, failParser{}, staticParser{"Model": {Value: "Z6"}})
	tags, ok := e.Tags([]byte("x"))
	if !ok {
		t.Fatal("chain stopped before the working parser")
	}
	if tags.Lookup("Model") != "Z6" {
		t.Errorf("got %v", tags)
	}

	if _, ok := New(panicParser{}).Tags([]byte("x")); ok {
		t.Error("panicking parser reported metadata")
	}
}

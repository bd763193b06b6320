package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuiltins(t *testing.T) {
	want := map[string]Profile{
		"default": {PreviewWidth: 600, PreviewQuality: 75, MaxDimension: 2560, OriginalQuality: 85, KeepMetadata: true},
		"hq":      {PreviewWidth: 900, PreviewQuality: 82, MaxDimension: 3840, OriginalQuality: 90, KeepMetadata: true},
		"minimal": {PreviewWidth: 400, PreviewQuality: 65, MaxDimension: 1920, OriginalQuality: 80, KeepMetadata: false},
	}
	for name, w := range want {
		p, err := Get(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if p.PreviewWidth != w.PreviewWidth || p.PreviewQuality != w.PreviewQuality ||
			p.MaxDimension != w.MaxDimension || p.OriginalQuality != w.OriginalQuality ||
			p.KeepMetadata != w.KeepMetadata || p.PreviewFormat != "webp" {
			t.Errorf("%s: got %+v", name, p)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestGetUnknown(t *testing.T) {
	_, err := Get("telegram")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "default") {
		t.Errorf("error does not list available profiles: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Profile)
	}{
		{"zero width", func(p *Profile) { p.PreviewWidth = 0 }},
		{"negative max", func(p *Profile) { p.MaxDimension = -1 }},
		{"quality 0", func(p *Profile) { p.PreviewQuality = 0 }},
		{"quality 101", func(p *Profile) { p.OriginalQuality = 101 }},
		{"avif", func(p *Profile) { p.PreviewFormat = "avif" }},
		{"backend", func(p *Profile) { p.Backend = "imagemagick" }},
	}
	for _, tt := range tests {
		p := Default()
		tt.mutate(&p)
		if err := p.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	body := "name: site\npreview_width: 480\npreview_format: jpeg\nkeep_metadata: false\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "site" || p.PreviewWidth != 480 || p.PreviewFormat != "jpeg" || p.KeepMetadata {
		t.Errorf("got %+v", p)
	}
	if p.MaxDimension != 2560 || p.PreviewQuality != 75 {
		t.Errorf("unset fields did not inherit defaults: %+v", p)
	}
}

func TestLoadFileRejects(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"unknown.yaml": "preview_widht: 480\n",
		"invalid.yaml": "preview_quality: 500\n",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFile(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestEffectivePreviewWidth(t *testing.T) {
	p := Default()
	if got := p.EffectivePreviewWidth(4000); got != 600 {
		t.Errorf("large original: got %d", got)
	}
	if got := p.EffectivePreviewWidth(300); got != 300 {
		t.Errorf("small original must not be upscaled: got %d", got)
	}
	if got := p.EffectivePreviewWidth(0); got != 600 {
		t.Errorf("unknown width: got %d", got)
	}
}

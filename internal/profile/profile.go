package profile

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"
)

// Backends understood by the transcoder.
const (
	BackendGo   = "go"
	BackendVips = "vips"
)

// Profile defines how originals are normalized and previews are generated.
type Profile struct {
	Name            string `json:"name"`
	PreviewWidth    int    `json:"preview_width"`    // preview target width, never upscaled
	PreviewQuality  int    `json:"preview_quality"`  // 1-100
	PreviewFormat   string `json:"preview_format"`   // webp, jpeg or png
	MaxDimension    int    `json:"max_dimension"`    // longest edge allowed for originals
	OriginalQuality int    `json:"original_quality"` // 1-100, used when an original is rewritten
	KeepMetadata    bool   `json:"keep_metadata"`    // keep Exif in rewritten originals
	Backend         string `json:"backend,omitempty"`
}

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:            "default",
		PreviewWidth:    600,
		PreviewQuality:  75,
		PreviewFormat:   "webp",
		MaxDimension:    2560,
		OriginalQuality: 85,
		KeepMetadata:    true,
		Backend:         BackendGo,
	},
	"hq": {
		Name:            "hq",
		PreviewWidth:    900,
		PreviewQuality:  82,
		PreviewFormat:   "webp",
		MaxDimension:    3840,
		OriginalQuality: 90,
		KeepMetadata:    true,
		Backend:         BackendGo,
	},
	"minimal": {
		Name:            "minimal",
		PreviewWidth:    400,
		PreviewQuality:  65,
		PreviewFormat:   "webp",
		MaxDimension:    1920,
		OriginalQuality: 80,
		KeepMetadata:    false,
		Backend:         BackendGo,
	},
}

// Default returns the default profile.
func Default() Profile {
	return profiles["default"]
}

// Get returns a built-in profile by name.
func Get(name string) (Profile, error) {
	if p, ok := profiles[name]; ok {
		return p, nil
	}
	return Profile{}, fmt.Errorf("unknown profile %q (available: %s)", name, strings.Join(Names(), ", "))
}

// Names lists the built-in profiles in sorted order.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadFile reads a YAML (or JSON) profile. Fields left out of the file keep
// the values of the default profile.
func LoadFile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, err
	}
	p := Default()
	p.Name = ""
	if err := yaml.UnmarshalStrict(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = path
	}
	return p, p.Validate()
}

// Validate rejects out-of-range values.
func (p Profile) Validate() error {
	switch {
	case p.PreviewWidth <= 0:
		return fmt.Errorf("profile %s: preview_width must be positive, got %d", p.Name, p.PreviewWidth)
	case p.MaxDimension <= 0:
		return fmt.Errorf("profile %s: max_dimension must be positive, got %d", p.Name, p.MaxDimension)
	case p.PreviewQuality < 1 || p.PreviewQuality > 100:
		return fmt.Errorf("profile %s: preview_quality must be 1-100, got %d", p.Name, p.PreviewQuality)
	case p.OriginalQuality < 1 || p.OriginalQuality > 100:
		return fmt.Errorf("profile %s: original_quality must be 1-100, got %d", p.Name, p.OriginalQuality)
	}
	switch strings.ToLower(p.PreviewFormat) {
	case "webp", "jpeg", "jpg", "png":
	default:
		return fmt.Errorf("profile %s: unsupported preview_format %q", p.Name, p.PreviewFormat)
	}
	switch p.Backend {
	case "", BackendGo, BackendVips:
	default:
		return fmt.Errorf("profile %s: unknown backend %q", p.Name, p.Backend)
	}
	return nil
}

// EffectivePreviewWidth returns the preview width for an original of the
// given width. Previews are never wider than their original.
func (p Profile) EffectivePreviewWidth(originalWidth int) int {
	if originalWidth > 0 && originalWidth < p.PreviewWidth {
		return originalWidth
	}
	return p.PreviewWidth
}

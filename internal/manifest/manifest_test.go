package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func samplePhoto(id int, category string) Photo {
	return Photo{
		ID:        id,
		Src:       "/photos/" + category + "/img.jpg",
		Thumbnail: "/thumbnails/" + category + "/img.webp",
		Title:     "img",
		Width:     800,
		Height:    600,
		Category:  category,
		Exif: Exif{
			Camera: "X-T4", Lens: UnknownLens,
			ISO: "200", Aperture: "f/2.8", Shutter: "1/500",
		},
	}
}

func TestManifestRoundtrip(t *testing.T) {
	m := New()
	m.Append(samplePhoto(1, "Portraits"))
	m.Append(samplePhoto(2, "Portraits"))
	m.Append(samplePhoto(3, "General"))

	path := filepath.Join(t.TempDir(), "data", "photos.json")
	if err := WriteJSON(m, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	m2, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(m2.Photos) != 3 {
		t.Fatalf("photos: got %d", len(m2.Photos))
	}
	if m2.Photos[0] != m.Photos[0] {
		t.Errorf("record changed in roundtrip:\n got %+v\nwant %+v", m2.Photos[0], m.Photos[0])
	}
	if m2.Stats.Categories["Portraits"] != 2 || m2.Stats.Categories["General"] != 1 {
		t.Errorf("categories: got %v", m2.Stats.Categories)
	}
}

func TestMarshalSchema(t *testing.T) {
	m := New()
	m.Append(samplePhoto(1, "Street"))
	data, err := Marshal(m)
	if err != nil {
		t.Fatal(err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("manifest is not a JSON array: %v", err)
	}
	for _, key := range []string{"id", "src", "thumbnail", "title", "width", "height", "category", "exif"} {
		if _, ok := raw[0][key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	exif, ok := raw[0]["exif"].(map[string]any)
	if !ok {
		t.Fatal("exif is not an object")
	}
	for _, key := range []string{"camera", "lens", "iso", "aperture", "shutter"} {
		if _, ok := exif[key].(string); !ok {
			t.Errorf("exif.%s is not a string", key)
		}
	}
	if !strings.Contains(string(data), "\n  {") {
		t.Error("manifest is not indented")
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("missing trailing newline")
	}
}

func TestEmptyManifestIsArray(t *testing.T) {
	data, err := Marshal(&Manifest{})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(data)); got != "[]" {
		t.Errorf("empty manifest: got %q, want []", got)
	}
}

func TestWriteJSONOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photos.json")
	big := New()
	for i := 1; i <= 5; i++ {
		big.Append(samplePhoto(i, "A"))
	}
	if err := WriteJSON(big, path); err != nil {
		t.Fatal(err)
	}
	if err := WriteJSON(New(), path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("previous manifest merged instead of replaced: %s", data)
	}
}

func TestLoadIgnoresUnknownFields(t *testing.T) {
	raw := `[{"id": 1, "src": "/photos/a.jpg", "thumbnail": "/thumbnails/a.webp",
		"title": "a", "width": 1, "height": 1, "category": "General",
		"exif": {"camera": "c", "lens": "l", "iso": "", "aperture": "", "shutter": "", "gps": "x"},
		"future_field": true}]`
	path := filepath.Join(t.TempDir(), "photos.json")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("load with unknown fields: %v", err)
	}
	if len(m.Photos) != 1 || m.Photos[0].Exif.Camera != "c" {
		t.Errorf("unexpected manifest: %+v", m.Photos)
	}
}

func TestLoadRejectsObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photos.json")
	if err := os.WriteFile(path, []byte(`{"version": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for non-array manifest")
	}
}

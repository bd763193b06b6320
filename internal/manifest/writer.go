package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mraz2766/photobuild/internal/fsx"
)

// New creates an empty manifest.
func New() *Manifest {
	return &Manifest{
		Photos: make([]Photo, 0),
		Stats:  Stats{Categories: make(map[string]int)},
	}
}

// Append adds p and counts it towards the category totals.
func (m *Manifest) Append(p Photo) {
	m.Photos = append(m.Photos, p)
	m.Stats.TotalPhotos = len(m.Photos)
	if m.Stats.Categories == nil {
		m.Stats.Categories = make(map[string]int)
	}
	m.Stats.Categories[p.Category]++
}

// Marshal renders the photo list as indented JSON with a trailing newline.
// An empty manifest renders as "[]".
func Marshal(m *Manifest) ([]byte, error) {
	photos := m.Photos
	if photos == nil {
		photos = []Photo{}
	}
	data, err := json.MarshalIndent(photos, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteJSON replaces the manifest file at path, creating its directory.
func WriteJSON(m *Manifest, path string) error {
	data, err := Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}
	return fsx.WriteFileAtomic(path, data)
}

// Load reads a manifest written by WriteJSON. Build statistics are rebuilt
// from the records where possible.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var photos []Photo
	if err := json.Unmarshal(data, &photos); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m := New()
	for _, p := range photos {
		m.Append(p)
	}
	return m, nil
}

package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mraz2766/photobuild/internal/fixture"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		rel, want string
	}{
		{"a.jpg", "General"},
		{"portraits/a.jpg", "Portraits"},
		{"Portraits/a.jpg", "Portraits"},
		{"travel/japan/a.jpg", "Travel"},
		{"élan/a.jpg", "Élan"},
		{"2024/a.jpg", "2024"},
	}
	for _, tt := range tests {
		if got := Category(tt.rel); got != tt.want {
			t.Errorf("Category(%q) = %q, want %q", tt.rel, got, tt.want)
		}
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		base, want string
	}{
		{"sunset", "sunset"},
		{"golden-hour_shot", "golden hour shot"},
		{"a--b__c", "a b c"},
		{"IMG_0042", "IMG 0042"},
		{"---", "---"},
		{".jpg", ".jpg"},
	}
	for _, tt := range tests {
		if got := Title(tt.base); got != tt.want {
			t.Errorf("Title(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestWalkFiltersAndOrders(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	for _, rel := range []string{"b.jpeg", "a.PNG", "x/z.webp", "x/readme.md", "c.gif", "d.heic"} {
		fixture.Write(t, src, rel, []byte("x"))
	}

	var got []Source
	err := Walk(src, filepath.Join(root, "out"), func(s Source) error {
		got = append(got, s)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"a.PNG", "b.jpeg", "x/z.webp"}
	if len(got) != len(want) {
		t.Fatalf("got %d sources: %+v", len(got), got)
	}
	for i, rel := range want {
		if got[i].RelPath != rel {
			t.Errorf("source %d: got %q, want %q", i, got[i].RelPath, rel)
		}
	}

	z := got[2]
	if z.RelDir != "x" || z.Base != "z" || z.Ext != ".webp" || z.Format != "webp" || z.Category != "X" || z.Size != 1 {
		t.Errorf("source fields: %+v", z)
	}
	if got[0].Format != "png" || got[1].Format != "jpeg" {
		t.Errorf("formats: %q, %q", got[0].Format, got[1].Format)
	}
	if _, err := os.Stat(filepath.Join(root, "out", "x")); err != nil {
		t.Errorf("mirror not created: %v", err)
	}
}

func TestWalkMarksSharedBases(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	for _, rel := range []string{"photo.jpg", "photo.png", "photo.txt", "solo.jpg", "x/photo.webp", ".jpg"} {
		fixture.Write(t, src, rel, []byte("x"))
	}

	shared := map[string]bool{}
	bases := map[string]string{}
	err := Walk(src, filepath.Join(root, "out"), func(s Source) error {
		shared[s.RelPath] = s.SharedBase
		bases[s.RelPath] = s.Base
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]bool{
		".jpg":         false,
		"photo.jpg":    true,
		"photo.png":    true,
		"solo.jpg":     false,
		"x/photo.webp": false,
	}
	if len(shared) != len(want) {
		t.Fatalf("got %v", shared)
	}
	for rel, w := range want {
		if shared[rel] != w {
			t.Errorf("%s: SharedBase = %v, want %v", rel, shared[rel], w)
		}
	}
	if bases[".jpg"] != ".jpg" {
		t.Errorf("extension-only name: base %q", bases[".jpg"])
	}
}

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mraz2766/photobuild/internal/manifest"
)

var statsCmd = &cobra.Command{
	Use:   "stats [manifest_or_dir]",
	Short: "Display statistics for a gallery manifest",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// manifestArg resolves an optional manifest argument. A directory is taken
// to contain photos.json.
func manifestArg(args []string) (string, error) {
	if len(args) == 0 {
		return defaultManifest, nil
	}
	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, filepath.Base(defaultManifest))
	}
	return path, nil
}

func runStats(cmd *cobra.Command, args []string) error {
	path, err := manifestArg(args)
	if err != nil {
		return err
	}
	m, err := manifest.Load(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	printStats(cmd.OutOrStdout(), m)
	return nil
}

type galleryStats struct {
	total      int
	withCamera int
	withLens   int
	withExpo   int // ISO, aperture and shutter all present
	zeroSize   []string
	cameras    map[string]int
}

func collectStats(m *manifest.Manifest) galleryStats {
	s := galleryStats{total: len(m.Photos), cameras: map[string]int{}}
	for _, p := range m.Photos {
		if p.Exif.Camera != manifest.UnknownCamera && p.Exif.Camera != "" {
			s.withCamera++
			s.cameras[p.Exif.Camera]++
		}
		if p.Exif.Lens != manifest.UnknownLens && p.Exif.Lens != "" {
			s.withLens++
		}
		if p.Exif.ISO != "" && p.Exif.Aperture != "" && p.Exif.Shutter != "" {
			s.withExpo++
		}
		if p.Width == 0 || p.Height == 0 {
			s.zeroSize = append(s.zeroSize, p.Src)
		}
	}
	return s
}

func printStats(w io.Writer, m *manifest.Manifest) {
	s := collectStats(m)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Total photos:     %d\n", s.total)
	fmt.Fprintf(w, "  Categories:       %d\n", len(m.Stats.Categories))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  Category breakdown:")
	for _, c := range sortedCategories(m.Stats.Categories) {
		fmt.Fprintf(w, "    %-30s %4d\n", truncKey(c, 30), m.Stats.Categories[c])
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  Exif coverage:")
	fmt.Fprintf(w, "    camera            %d / %d\n", s.withCamera, s.total)
	fmt.Fprintf(w, "    lens              %d / %d\n", s.withLens, s.total)
	fmt.Fprintf(w, "    exposure          %d / %d\n", s.withExpo, s.total)
	fmt.Fprintln(w)

	if len(s.cameras) > 0 {
		type camCount struct {
			name  string
			count int
		}
		var cams []camCount
		for name, n := range s.cameras {
			cams = append(cams, camCount{name, n})
		}
		sort.Slice(cams, func(i, j int) bool {
			if cams[i].count != cams[j].count {
				return cams[i].count > cams[j].count
			}
			return cams[i].name < cams[j].name
		})
		n := min(len(cams), 10)
		fmt.Fprintf(w, "  Top %d cameras:\n", n)
		for _, c := range cams[:n] {
			fmt.Fprintf(w, "    %-30s %4d\n", truncKey(c.name, 30), c.count)
		}
		fmt.Fprintln(w)
	}

	if len(s.zeroSize) > 0 {
		fmt.Fprintf(w, "  Warnings (%d):\n", len(s.zeroSize))
		for _, src := range s.zeroSize {
			fmt.Fprintf(w, "    ⚠ %s has unknown dimensions\n", src)
		}
		fmt.Fprintln(w)
	}
}

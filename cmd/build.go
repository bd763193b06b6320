package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/mraz2766/photobuild/internal/errors"
	"github.com/mraz2766/photobuild/internal/hasher"
	"github.com/mraz2766/photobuild/internal/logger"
	"github.com/mraz2766/photobuild/internal/manifest"
	"github.com/mraz2766/photobuild/internal/pipeline"
	"github.com/mraz2766/photobuild/internal/profile"
)

var (
	buildSrcDir       string
	buildThumbDir     string
	buildManifest     string
	buildSrcPrefix    string
	buildThumbPrefix  string
	buildProfile      string
	buildProfileFile  string
	buildPreviewWidth int
	buildQuality      int
	buildMaxDimension int
	buildBackend      string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Optimize originals, generate previews and write the gallery manifest",
	Long: `Walks the source tree (jpg, jpeg, png, webp), mirrors its directories
into the preview tree and processes one photo at a time:

  - originals that are rotated via Exif or larger than max-dimension are
    re-encoded upright and fitted inside the limit, in place
  - a preview is written unless one already exists for an unchanged original
  - camera, lens, ISO, aperture and shutter are read from Exif

The manifest is rewritten from scratch on every run.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.StringVar(&buildSrcDir, "src", defaultSrcDir, "source photo directory")
	f.StringVar(&buildThumbDir, "thumbs", defaultThumbDir, "preview output directory")
	f.StringVar(&buildManifest, "manifest", defaultManifest, "manifest output path")
	f.StringVar(&buildSrcPrefix, "src-prefix", defaultSrcPrefix, "URL prefix for originals")
	f.StringVar(&buildThumbPrefix, "thumb-prefix", defaultThumbPrefix, "URL prefix for previews")
	f.StringVarP(&buildProfile, "profile", "p", "default", "processing profile ("+strings.Join(profile.Names(), ", ")+")")
	f.StringVar(&buildProfileFile, "profile-file", "", "YAML profile file (overrides --profile)")
	f.IntVar(&buildPreviewWidth, "preview-width", 0, "preview width in px (0 = profile default)")
	f.IntVarP(&buildQuality, "quality", "q", 0, "preview quality 1-100 (0 = profile default)")
	f.IntVar(&buildMaxDimension, "max-dimension", 0, "longest edge for originals (0 = profile default)")
	f.StringVar(&buildBackend, "backend", "", "codec backend: go or vips (empty = profile default)")
	rootCmd.AddCommand(buildCmd)
}

func resolveProfile() (profile.Profile, error) {
	var (
		prof profile.Profile
		err  error
	)
	if buildProfileFile != "" {
		prof, err = profile.LoadFile(buildProfileFile)
	} else {
		prof, err = profile.Get(buildProfile)
	}
	if err != nil {
		return profile.Profile{}, apperrors.WrapFatal(apperrors.CategoryConfig, "profile", err)
	}

	if buildPreviewWidth > 0 {
		prof.PreviewWidth = buildPreviewWidth
	}
	if buildQuality > 0 {
		prof.PreviewQuality = buildQuality
	}
	if buildMaxDimension > 0 {
		prof.MaxDimension = buildMaxDimension
	}
	if buildBackend != "" {
		prof.Backend = buildBackend
	}
	if err := prof.Validate(); err != nil {
		return profile.Profile{}, apperrors.WrapFatal(apperrors.CategoryConfig, "profile", err)
	}
	return prof, nil
}

func runBuild(cmd *cobra.Command, _ []string) error {
	start := time.Now()
	defer logger.Close()

	prof, err := resolveProfile()
	if err != nil {
		return err
	}

	log := logger.Get()
	log.Debug("configuration",
		"src", buildSrcDir,
		"thumbs", buildThumbDir,
		"manifest", buildManifest,
		"profile", prof.Name,
		"preview_width", prof.PreviewWidth,
		"max_dimension", prof.MaxDimension)

	p, err := pipeline.New(pipeline.Config{
		SourceDir:   buildSrcDir,
		PreviewDir:  buildThumbDir,
		SrcPrefix:   buildSrcPrefix,
		ThumbPrefix: buildThumbPrefix,
		Profile:     prof,
		Warn:        logger.AddSummaryWarning,
	}, log)
	if err != nil {
		return err
	}
	defer p.Close()

	m, err := p.Run()
	if err != nil {
		return err
	}

	if err := manifest.WriteJSON(m, buildManifest); err != nil {
		return apperrors.WrapFatal(apperrors.CategoryManifest, "write "+buildManifest, err)
	}

	rep := buildReport{
		manifest: m,
		path:     buildManifest,
		elapsed:  time.Since(start),
	}
	if st, err := os.Stat(buildManifest); err == nil {
		rep.size = st.Size()
	}
	if digest, err := hasher.FileHash(buildManifest, hasher.DigestLen); err == nil {
		rep.digest = digest
	}
	printBuildReport(cmd.OutOrStdout(), rep)
	return nil
}

type buildReport struct {
	manifest *manifest.Manifest
	path     string
	size     int64
	digest   string
	elapsed  time.Duration
}

func printBuildReport(w io.Writer, r buildReport) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║            photobuild build complete             ║")
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════╝")
	fmt.Fprintln(w)

	s := r.manifest.Stats
	fmt.Fprintf(w, "  Photos:      %d\n", s.TotalPhotos)
	fmt.Fprintf(w, "  Originals:   %d rewritten\n", s.OriginalsUpdated)
	fmt.Fprintf(w, "  Previews:    %d written, %d up to date", s.PreviewsWritten, s.PreviewsSkipped)
	if s.PreviewsFailed > 0 {
		fmt.Fprintf(w, ", %d failed", s.PreviewsFailed)
	}
	fmt.Fprintln(w)
	if s.Warnings > 0 {
		fmt.Fprintf(w, "  Warnings:    %d\n", s.Warnings)
	}
	fmt.Fprintf(w, "  Time:        %s\n", r.elapsed.Round(time.Millisecond))
	fmt.Fprintln(w)

	if len(s.Categories) > 0 {
		fmt.Fprintln(w, "  Categories:")
		for _, c := range sortedCategories(s.Categories) {
			fmt.Fprintf(w, "    %-30s %4d\n", truncKey(c, 30), s.Categories[c])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "  Manifest:    %s (%s", filepath.ToSlash(r.path), formatBytes(r.size))
	if r.digest != "" {
		fmt.Fprintf(w, ", xxh64 %s", r.digest)
	}
	fmt.Fprintln(w, ")")
	fmt.Fprintln(w)
}

func sortedCategories(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for c := range counts {
		names = append(names, c)
	}
	sort.Strings(names)
	return names
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}

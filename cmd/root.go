package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mraz2766/photobuild/internal/logger"
)

// Default site layout.
const (
	defaultSrcDir      = "public/photos"
	defaultThumbDir    = "public/thumbnails"
	defaultManifest    = "src/data/photos.json"
	defaultSrcPrefix   = "/photos"
	defaultThumbPrefix = "/thumbnails"
)

var (
	version = "0.1.0"
	verbose bool
	logJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "photobuild",
	Short: "Build-time asset pipeline for a static photo gallery",
	Long: `photobuild walks a tree of photos, shrinks and uprights oversized or
rotated originals in place, generates WebP previews in a mirrored tree and
writes the JSON manifest the gallery site renders from.

Reruns are cheap: untouched originals and existing previews are left alone.`,
	Version: version,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.Init(verbose, logJSON)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON lines instead of colored text")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"photobuild %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

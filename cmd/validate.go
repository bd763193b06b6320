package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mraz2766/photobuild/internal/manifest"
)

var (
	validateSrcDir      string
	validateThumbDir    string
	validateSrcPrefix   string
	validateThumbPrefix string
	validateSkipFiles   bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [manifest_or_dir]",
	Short: "Validate a gallery manifest and check referenced files exist",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func init() {
	f := validateCmd.Flags()
	f.StringVar(&validateSrcDir, "src", defaultSrcDir, "source photo directory")
	f.StringVar(&validateThumbDir, "thumbs", defaultThumbDir, "preview directory")
	f.StringVar(&validateSrcPrefix, "src-prefix", defaultSrcPrefix, "URL prefix for originals")
	f.StringVar(&validateThumbPrefix, "thumb-prefix", defaultThumbPrefix, "URL prefix for previews")
	f.BoolVar(&validateSkipFiles, "skip-files", false, "only check the manifest, not the files it references")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, err := manifestArg(args)
	if err != nil {
		return err
	}
	m, err := manifest.Load(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	opts := validateOptions{
		srcPrefix:   validateSrcPrefix,
		thumbPrefix: validateThumbPrefix,
	}
	if !validateSkipFiles {
		opts.srcDir = validateSrcDir
		opts.thumbDir = validateThumbDir
	}
	errs := validateManifest(m, opts)

	w := cmd.OutOrStdout()
	if len(errs) == 0 {
		fmt.Fprintln(w, "  ✓ Manifest is valid")
		fmt.Fprintf(w, "  ✓ %d photos in %d categories\n", len(m.Photos), len(m.Stats.Categories))
		return nil
	}

	fmt.Fprintf(w, "  ✗ Manifest has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(w, "    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

type validateOptions struct {
	srcPrefix   string
	thumbPrefix string
	srcDir      string // empty skips file checks
	thumbDir    string
}

func validateManifest(m *manifest.Manifest, opts validateOptions) []string {
	var errs []string
	seenThumbs := map[string]int{}

	for i, p := range m.Photos {
		label := fmt.Sprintf("photo[%d] %q", i, p.Src)

		if p.ID != i+1 {
			errs = append(errs, fmt.Sprintf("%s: id %d, want %d", label, p.ID, i+1))
		}
		if p.Title == "" {
			errs = append(errs, fmt.Sprintf("%s: empty title", label))
		}
		if p.Category == "" {
			errs = append(errs, fmt.Sprintf("%s: empty category", label))
		}
		if p.Width < 0 || p.Height < 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid dimensions %dx%d", label, p.Width, p.Height))
		}

		srcRel, ok := checkURL(p.Src, opts.srcPrefix)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: src must start with %s/ and use forward slashes", label, opts.srcPrefix))
		}
		thumbRel, tok := checkURL(p.Thumbnail, opts.thumbPrefix)
		if !tok {
			errs = append(errs, fmt.Sprintf("%s: thumbnail %q must start with %s/ and use forward slashes",
				label, p.Thumbnail, opts.thumbPrefix))
		}

		if prev, dup := seenThumbs[p.Thumbnail]; dup {
			errs = append(errs, fmt.Sprintf("%s: thumbnail %q already used by photo[%d]", label, p.Thumbnail, prev))
		}
		seenThumbs[p.Thumbnail] = i

		if opts.srcDir != "" && ok {
			if _, err := os.Stat(filepath.Join(opts.srcDir, filepath.FromSlash(srcRel))); err != nil {
				errs = append(errs, fmt.Sprintf("%s: original not found", label))
			}
		}
		if opts.thumbDir != "" && tok {
			if _, err := os.Stat(filepath.Join(opts.thumbDir, filepath.FromSlash(thumbRel))); err != nil {
				errs = append(errs, fmt.Sprintf("%s: preview not found: %s", label, p.Thumbnail))
			}
		}
	}

	return errs
}

// checkURL verifies url is prefix + "/" + a slash-separated relative path
// and returns that relative path.
func checkURL(url, prefix string) (string, bool) {
	if strings.Contains(url, `\`) {
		return "", false
	}
	rel, ok := strings.CutPrefix(url, strings.TrimSuffix(prefix, "/")+"/")
	if !ok || rel == "" || strings.HasPrefix(rel, "/") {
		return "", false
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." {
			return "", false
		}
	}
	return rel, true
}

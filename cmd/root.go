package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "augset",
	Short: "Randomized augmentation for small image training sets",
	Long: `augset — expands small training corpora (medical scans, rare-class
samples) by generating randomized geometric and photometric variants
of every source image.

Each variant applies a translate → rotate → warp → blur → brightness →
contrast pipeline with uniquely sampled parameters, plus an optional
mirrored twin, and records everything in a reproducible manifest.`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"augset %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[augset] "+format+"\n", args...)
	}
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/AnyUserName/augset-cli/internal/manifest"
	"github.com/AnyUserName/augset-cli/internal/pipeline"
	"github.com/AnyUserName/augset-cli/internal/profile"
	"github.com/spf13/cobra"
)

var (
	augmentOutDir  string
	augmentProfile string
	augmentConfig  string
	augmentCount   int
	augmentSeed    int64
	augmentWorkers int
	augmentMirror  bool
)

var augmentCmd = &cobra.Command{
	Use:   "augment <input_dir>",
	Short: "Generate randomized augmented variants for every image in a directory",
	Long: `Scans the input directory for images (png, jpg, jpeg, webp, gif, bmp,
tiff), generates the requested number of uniquely-parameterized variants
per image, optionally a mirrored twin of each, and writes a manifest.

Output filenames follow the source key: <key>_<i>.<ext> and <key>_<i>m.<ext>
for the mirrored twin. A fixed --seed reproduces the whole export tree.`,
	Args: cobra.ExactArgs(1),
	RunE: runAugment,
}

func init() {
	augmentCmd.Flags().StringVarP(&augmentOutDir, "out", "o", "./Export", "output directory")
	augmentCmd.Flags().StringVarP(&augmentProfile, "profile", "p", "default", "augmentation profile")
	augmentCmd.Flags().StringVar(&augmentConfig, "config", "", "TOML profile file (overrides --profile)")
	augmentCmd.Flags().IntVarP(&augmentCount, "count", "n", 0, "variants per image (0 = profile default)")
	augmentCmd.Flags().Int64Var(&augmentSeed, "seed", -1, "random seed (-1 = derive from clock)")
	augmentCmd.Flags().IntVarP(&augmentWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	augmentCmd.Flags().BoolVar(&augmentMirror, "mirror", true, "also save a mirrored copy of each variant")
	rootCmd.AddCommand(augmentCmd)
}

func runAugment(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	start := time.Now()

	// Resolve absolute paths.
	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(augmentOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	// Load profile, file override first.
	var prof profile.Profile
	if augmentConfig != "" {
		prof, err = profile.Load(augmentConfig)
		if err != nil {
			return err
		}
	} else {
		prof = profile.Get(augmentProfile)
	}
	if augmentCount > 0 {
		prof.Count = augmentCount
	}
	if cmd.Flags().Changed("mirror") {
		prof.Mirror = augmentMirror
	}

	seed := augmentSeed
	if seed == -1 {
		seed = time.Now().UTC().UnixNano()
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (count=%d, mirror=%t, seed=%d)", prof.Name, prof.Count, prof.Mirror, seed)

	// Create output dir.
	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	// Run pipeline.
	p := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Profile:   prof,
		Seed:      seed,
		Workers:   augmentWorkers,
		Verbose:   verbose,
	})

	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	// Write manifest.
	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	elapsed := time.Since(start)

	// Print report.
	printAugmentReport(m, elapsed)

	return nil
}

func printAugmentReport(m *manifest.Manifest, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║              augset run complete                 ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	stats := m.Stats
	expansion := float64(0)
	if stats.TotalSources > 0 {
		expansion = float64(stats.TotalVariants) / float64(stats.TotalSources)
	}

	fmt.Printf("  Sources:     %d\n", stats.TotalSources)
	fmt.Printf("  Variants:    %d  (×%.1f per source)\n", stats.TotalVariants, expansion)
	fmt.Printf("  Input size:  %s\n", formatBytes(stats.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(stats.TotalOutputBytes))
	if stats.CollisionRetries > 0 {
		fmt.Printf("  Retries:     %d duplicate parameter draws discarded\n", stats.CollisionRetries)
	}
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))

	if m.BuildInfo != nil {
		fmt.Printf("  Workers:     %d\n", m.BuildInfo.Workers)
		fmt.Printf("  Seed:        %d  (rerun with --seed %d to reproduce)\n",
			m.BuildInfo.Seed, m.BuildInfo.Seed)
	}
	fmt.Println()

	// Top 10 heaviest sources.
	if len(m.Assets) > 0 {
		type assetSize struct {
			key        string
			inputSize  int64
			outputSize int64
		}
		var items []assetSize
		for key, a := range m.Assets {
			var outSum int64
			for _, v := range a.Variants {
				outSum += v.Size
			}
			items = append(items, assetSize{key, a.Original.Size, outSum})
		}
		sort.Slice(items, func(i, j int) bool {
			return items[i].inputSize > items[j].inputSize
		})
		n := len(items)
		if n > 10 {
			n = 10
		}
		fmt.Printf("  Top %d heaviest (original → variants):\n", n)
		for _, it := range items[:n] {
			fmt.Printf("    %-40s %8s → %8s\n",
				truncKey(it.key, 40),
				formatBytes(it.inputSize),
				formatBytes(it.outputSize),
			)
		}
		fmt.Println()
	}

	// Manifest path.
	fmt.Printf("  Manifest:    %s\n", manifest.FileName)
	fmt.Println()
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

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/augset-cli/internal/manifest"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a generated export directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	path := args[0]

	// If path is a directory, look for manifest inside.
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, manifest.FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	var m manifest.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}

	printStats(&m)
	return nil
}

func printStats(m *manifest.Manifest) {
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	fmt.Printf("  Profile:          %s\n", m.Profile)
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:          %d\n", m.BuildInfo.Workers)
		fmt.Printf("  Seed:             %d\n", m.BuildInfo.Seed)
		fmt.Printf("  Count per source: %d  (mirror: %t)\n", m.BuildInfo.Count, m.BuildInfo.Mirror)
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Total sources:    %d\n", s.TotalSources)
	fmt.Printf("  Total variants:   %d\n", s.TotalVariants)
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalSources > 0 {
		fmt.Printf("  Expansion:        ×%.1f variants per source\n",
			float64(s.TotalVariants)/float64(s.TotalSources))
	}
	if s.CollisionRetries > 0 {
		fmt.Printf("  Retries:          %d duplicate draws discarded\n", s.CollisionRetries)
	}
	fmt.Println()

	// Per-format breakdown.
	formatStats := map[string]struct {
		count int
		bytes int64
	}{}
	mirrored := 0
	for _, a := range m.Assets {
		for _, v := range a.Variants {
			fs := formatStats[v.Format]
			fs.count++
			fs.bytes += v.Size
			formatStats[v.Format] = fs
			if v.Mirrored {
				mirrored++
			}
		}
	}

	fmt.Println("  Format breakdown:")
	for _, f := range []string{"webp", "jpeg", "png"} {
		if fs, ok := formatStats[f]; ok {
			fmt.Printf("    %-6s  %4d files  %s\n", f, fs.count, formatBytes(fs.bytes))
		}
	}
	fmt.Printf("  Mirrored twins:   %d\n", mirrored)
	fmt.Println()

	// Per-source variant counts (sorted for stable output).
	var keys []string
	for key := range m.Assets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	// Warnings.
	var warnings []string
	for _, key := range keys {
		if len(m.Assets[key].Variants) == 0 {
			warnings = append(warnings, fmt.Sprintf("asset %q has no variants", key))
		}
	}
	if len(warnings) > 0 {
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
		fmt.Println()
	}
}

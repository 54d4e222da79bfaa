package pipeline

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/AnyUserName/augset-cli/internal/encoder"
	"github.com/AnyUserName/augset-cli/internal/manifest"
	"github.com/AnyUserName/augset-cli/internal/profile"
)

// Config holds all parameters for an augmentation run.
type Config struct {
	InputDir  string
	OutputDir string
	Profile   profile.Profile
	Seed      int64 // base RNG seed; source i draws from Seed+i
	Workers   int
	Verbose   bool
}

// Pipeline orchestrates augmentation across a source tree.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Pipeline{
		cfg:      cfg,
		registry: encoder.NewRegistry(),
	}
}

// Run executes the full augmentation pipeline and returns the manifest.
// Sources are independent, so they are processed in parallel; each gets its
// own seeded generator, so no state is shared between workers.
func (p *Pipeline) Run() (*manifest.Manifest, error) {
	// Log encoder availability.
	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[augset] %s\n", p.registry.String())
	}

	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}

	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[augset] found %d images\n", len(sources))
	}

	// Step 2: Augment images in parallel.
	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			if p.cfg.Verbose {
				fmt.Fprintf(os.Stderr, "[augset] augmenting: %s\n", s.Key)
			}

			results[idx] = processSource(s, idx, p.cfg, p.registry)

			if p.cfg.Verbose && results[idx].err == nil {
				fmt.Fprintf(os.Stderr, "[augset] done: %s (%d variants)\n",
					s.Key, len(results[idx].asset.Variants))
			}
		}(i, src)
	}
	wg.Wait()

	// Step 3: Collect results into manifest.
	m := manifest.New(p.cfg.Profile.Name)

	var errs []error
	var totalRetries int
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		m.Assets[r.key] = r.asset
		totalRetries += r.retries
	}

	// Report errors but don't fail the entire run for partial failures.
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[augset] error: %v\n", e)
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d images failed to process", len(errs))
		}
		fmt.Fprintf(os.Stderr, "[augset] warning: %d of %d images had errors\n",
			len(errs), len(sources))
	}

	m.BuildInfo = &manifest.BuildInfo{
		Workers: p.cfg.Workers,
		Seed:    p.cfg.Seed,
		Count:   p.cfg.Profile.Count,
		Mirror:  p.cfg.Profile.Mirror,
	}
	m.Stats.CollisionRetries = totalRetries
	m.ComputeStats()
	return m, nil
}

// Package profile bundles augmentation settings into named presets and loads
// user overrides from TOML files.
package profile

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/AnyUserName/augset-cli/internal/augment"
)

// Profile defines one augmentation run: how many variants per source image,
// whether to also emit a mirrored copy of each, the sampling ranges, and the
// encoding quality for lossy outputs.
type Profile struct {
	Name    string         `toml:"name"`
	Count   int            `toml:"count"`
	Mirror  bool           `toml:"mirror"`
	Quality int            `toml:"quality"`
	Ranges  augment.Ranges `toml:"ranges"`
}

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:    "default",
		Count:   5,
		Mirror:  true,
		Quality: 90,
		Ranges:  augment.DefaultRanges(),
	},
	"conservative": {
		Name:    "conservative",
		Count:   3,
		Mirror:  false,
		Quality: 92,
		Ranges: augment.Ranges{
			TranslateX:    augment.Range{Min: -1, Max: 1},
			TranslateY:    augment.Range{Min: -1, Max: 1},
			Rotate:        augment.Range{Min: -2, Max: 2},
			WarpAmplitude: augment.Range{Min: 0.5, Max: 0.75},
			WarpFrequency: augment.Range{Min: 1, Max: 3},
			Blur:          augment.Range{Min: 0, Max: 0.25},
			Brightness:    augment.Range{Min: 0.95, Max: 1.05},
			Contrast:      augment.Range{Min: 1, Max: 1.1},
		},
	},
	"aggressive": {
		Name:    "aggressive",
		Count:   10,
		Mirror:  true,
		Quality: 88,
		Ranges: augment.Ranges{
			TranslateX:    augment.Range{Min: -3, Max: 3},
			TranslateY:    augment.Range{Min: -3, Max: 3},
			Rotate:        augment.Range{Min: -8, Max: 8},
			WarpAmplitude: augment.Range{Min: 0.5, Max: 1.5},
			WarpFrequency: augment.Range{Min: 1, Max: 6},
			Blur:          augment.Range{Min: 0, Max: 0.8},
			Brightness:    augment.Range{Min: 0.85, Max: 1.15},
			Contrast:      augment.Range{Min: 1, Max: 1.3},
		},
	},
}

// Get returns a profile by name. Falls back to default if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles["default"]
	p.Name = name // preserve requested name
	return p
}

// Load reads a TOML profile file on top of the default profile, so a file
// may override any subset of fields. The resulting ranges are validated
// before the profile is returned.
func Load(path string) (Profile, error) {
	p := profiles["default"]
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Profile{}, fmt.Errorf("load profile %s: %w", path, err)
	}
	if p.Count <= 0 {
		return Profile{}, fmt.Errorf("profile %s: count must be positive, got %d", path, p.Count)
	}
	if err := p.Ranges.Validate(); err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

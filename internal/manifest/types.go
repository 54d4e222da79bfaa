package manifest

import "github.com/AnyUserName/augset-cli/internal/augment"

// Manifest is the top-level output of an augset run.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	BasePath    string           `json:"base_path"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Assets      map[string]Asset `json:"assets"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures run parameters so an export tree can be reproduced.
type BuildInfo struct {
	Workers int   `json:"workers"`
	Seed    int64 `json:"seed"`
	Count   int   `json:"count"`
	Mirror  bool  `json:"mirror"`
}

// Asset describes one source image and all variants generated from it.
type Asset struct {
	Original OriginalInfo `json:"original"`
	Variants []Variant    `json:"variants"`
}

// OriginalInfo holds metadata about the source image.
type OriginalInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
}

// Variant is one augmented output written to disk. Width and height may
// exceed the original's: rotation expands the canvas to fit.
type Variant struct {
	Path      string         `json:"path"`      // relative to base_path
	Format    string         `json:"format"`    // "png", "jpeg", "webp"
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	Size      int64          `json:"size"`      // bytes on disk
	Hash      string         `json:"hash"`      // first 16 hex chars of xxhash64
	Signature string         `json:"signature"` // xxhash64 of the sampled parameter tuple
	Mirrored  bool           `json:"mirrored,omitempty"`
	Params    augment.Params `json:"params"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalSources     int   `json:"total_sources"`
	TotalVariants    int   `json:"total_variants"`
	CollisionRetries int   `json:"collision_retries,omitempty"` // parameter draws discarded as duplicates
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

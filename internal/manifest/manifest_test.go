package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/augset-cli/internal/augment"
)

func TestManifestRoundtrip(t *testing.T) {
	m := New("test-profile")
	m.BuildInfo = &BuildInfo{Workers: 4, Seed: 42, Count: 5, Mirror: true}
	m.Assets["scans/lesion_01"] = Asset{
		Original: OriginalInfo{
			Width: 800, Height: 600,
			Format: "png", Size: 100000,
		},
		Variants: []Variant{
			{
				Path: "scans/lesion_01_0.png", Format: "png",
				Width: 812, Height: 614, Size: 95000,
				Hash: "abcd1234abcd1234", Signature: "00ff00ff00ff00ff",
				Params: augment.Params{Rotate: 2.5, Brightness: 1.02, Contrast: 1.1},
			},
			{
				Path: "scans/lesion_01_0m.png", Format: "png",
				Width: 812, Height: 614, Size: 95012,
				Hash: "1234abcd1234abcd", Signature: "00ff00ff00ff00ff",
				Mirrored: true,
				Params:   augment.Params{Rotate: 2.5, Brightness: 1.02, Contrast: 1.1},
			},
		},
	}
	m.Stats.CollisionRetries = 1
	m.ComputeStats()

	// Write to temp file.
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := WriteJSON(m, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Read back and parse.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var m2 Manifest
	if err := json.Unmarshal(data, &m2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Verify fields.
	if m2.Version != SupportedManifestVersion {
		t.Errorf("version: got %d, want %d", m2.Version, SupportedManifestVersion)
	}
	if m2.Profile != "test-profile" {
		t.Errorf("profile: got %q", m2.Profile)
	}
	if m2.BuildInfo == nil {
		t.Fatal("build_info missing")
	}
	if m2.BuildInfo.Seed != 42 {
		t.Errorf("seed: got %d", m2.BuildInfo.Seed)
	}
	if !m2.BuildInfo.Mirror {
		t.Error("mirror flag lost")
	}

	a, ok := m2.Assets["scans/lesion_01"]
	if !ok {
		t.Fatal("asset scans/lesion_01 missing")
	}
	if len(a.Variants) != 2 {
		t.Fatalf("variants: got %d", len(a.Variants))
	}
	if a.Variants[0].Params.Rotate != 2.5 {
		t.Errorf("variant params rotate: got %g", a.Variants[0].Params.Rotate)
	}
	if !a.Variants[1].Mirrored {
		t.Error("mirrored variant flag lost")
	}
	if a.Variants[0].Signature != a.Variants[1].Signature {
		t.Error("mirrored twin should share its variant's signature")
	}

	// Stats.
	if m2.Stats.TotalSources != 1 {
		t.Errorf("total_sources: got %d", m2.Stats.TotalSources)
	}
	if m2.Stats.TotalVariants != 2 {
		t.Errorf("total_variants: got %d", m2.Stats.TotalVariants)
	}
	if m2.Stats.CollisionRetries != 1 {
		t.Errorf("collision_retries: got %d", m2.Stats.CollisionRetries)
	}
	if m2.Stats.TotalOutputBytes != 95000+95012 {
		t.Errorf("total_output_bytes: got %d", m2.Stats.TotalOutputBytes)
	}
}

func TestManifestVersion(t *testing.T) {
	m := New("v-test")
	if m.Version != SupportedManifestVersion {
		t.Errorf("new manifest version: got %d, want %d", m.Version, SupportedManifestVersion)
	}
}

func TestManifestIgnoresUnknownFields(t *testing.T) {
	// Simulate a future manifest with extra fields.
	raw := `{
		"version": 1,
		"generated_at": "2026-01-01T00:00:00Z",
		"profile": "test",
		"base_path": "./",
		"future_field": "should be ignored",
		"build_info": { "workers": 8, "seed": 7, "count": 5, "mirror": false, "new_flag": true },
		"assets": {},
		"stats": { "total_input_bytes": 0, "total_output_bytes": 0, "total_sources": 0, "total_variants": 0, "new_stat": 42 }
	}`

	var m Manifest
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal with unknown fields: %v", err)
	}
	if m.Version != 1 {
		t.Errorf("version: got %d", m.Version)
	}
	if m.BuildInfo == nil || m.BuildInfo.Workers != 8 {
		t.Error("build_info not parsed correctly")
	}
}

package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/augset-cli/internal/augment"
)

func TestGetKnownProfiles(t *testing.T) {
	for _, name := range []string{"default", "conservative", "aggressive"} {
		p := Get(name)
		if p.Name != name {
			t.Errorf("Get(%q).Name = %q", name, p.Name)
		}
		if p.Count <= 0 {
			t.Errorf("profile %q has no count", name)
		}
		if err := p.Ranges.Validate(); err != nil {
			t.Errorf("profile %q ranges invalid: %v", name, err)
		}
	}
}

func TestGetFallback(t *testing.T) {
	p := Get("no-such-profile")
	if p.Name != "no-such-profile" {
		t.Errorf("fallback should preserve requested name, got %q", p.Name)
	}
	if p.Count != Get("default").Count {
		t.Error("fallback should carry default settings")
	}
}

func TestLoadOverridesSubset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	content := `name = "custom"
count = 7
mirror = false

[ranges.rotate]
min = -10.0
max = 10.0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Name != "custom" || p.Count != 7 || p.Mirror {
		t.Errorf("overridden fields wrong: %+v", p)
	}
	if p.Ranges.Rotate != (augment.Range{Min: -10, Max: 10}) {
		t.Errorf("rotate range not overridden: %+v", p.Ranges.Rotate)
	}
	// Untouched fields keep the default profile's values.
	if p.Ranges.TranslateX != (augment.Range{Min: -2, Max: 2}) {
		t.Errorf("translate_x should keep default: %+v", p.Ranges.TranslateX)
	}
	if p.Quality != Get("default").Quality {
		t.Errorf("quality should keep default: %d", p.Quality)
	}
}

func TestLoadRejectsBadCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("count = -3\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for negative count")
	}
}

func TestLoadRejectsInvalidRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inverted.toml")
	content := `[ranges.blur]
min = 1.0
max = 0.0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for inverted range")
	}
	if !errors.Is(err, augment.ErrInvalidRange) {
		t.Errorf("error %v is not ErrInvalidRange", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

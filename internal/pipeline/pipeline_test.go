package pipeline

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/augset-cli/internal/profile"
)

// writePNG writes a small gradient fixture under dir.
func writePNG(t *testing.T, dir, name string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 13), G: uint8(y * 11), B: 90, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
}

func testProfile(count int, mirror bool) profile.Profile {
	p := profile.Get("default")
	p.Count = count
	p.Mirror = mirror
	return p
}

func TestScanImages(t *testing.T) {
	in := t.TempDir()
	writePNG(t, in, "a.png", 8, 8)
	writePNG(t, in, "sub/b.png", 8, 8)
	if err := os.WriteFile(filepath.Join(in, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(in, ".cache"), 0o755); err != nil {
		t.Fatal(err)
	}
	writePNG(t, in, ".cache/c.png", 8, 8)

	sources, err := ScanImages(in)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2 (hidden dirs and non-images skipped)", len(sources))
	}

	keys := map[string]bool{}
	for _, s := range sources {
		keys[s.Key] = true
		if s.Format != "png" {
			t.Errorf("source %s: format %q", s.Key, s.Format)
		}
		if s.Size <= 0 {
			t.Errorf("source %s: size %d", s.Key, s.Size)
		}
	}
	if !keys["a"] || !keys["sub/b"] {
		t.Errorf("unexpected keys: %v", keys)
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writePNG(t, in, "scan.png", 16, 16)
	writePNG(t, in, "deep/tissue.png", 12, 12)

	p := New(Config{
		InputDir:  in,
		OutputDir: out,
		Profile:   testProfile(3, true),
		Seed:      42,
		Workers:   2,
	})
	m, err := p.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if m.Stats.TotalSources != 2 {
		t.Errorf("total_sources: got %d", m.Stats.TotalSources)
	}
	// 3 variants + 3 mirrored twins per source.
	if m.Stats.TotalVariants != 12 {
		t.Errorf("total_variants: got %d, want 12", m.Stats.TotalVariants)
	}

	asset, ok := m.Assets["scan"]
	if !ok {
		t.Fatal("asset scan missing")
	}
	if asset.Original.Width != 16 || asset.Original.Format != "png" {
		t.Errorf("original info wrong: %+v", asset.Original)
	}

	sigs := map[string]bool{}
	for _, v := range asset.Variants {
		full := filepath.Join(out, v.Path)
		info, err := os.Stat(full)
		if err != nil {
			t.Fatalf("variant file missing: %s", v.Path)
		}
		if info.Size() != v.Size {
			t.Errorf("size mismatch for %s: manifest=%d disk=%d", v.Path, v.Size, info.Size())
		}
		if v.Mirrored != strings.HasSuffix(strings.TrimSuffix(v.Path, ".png"), "m") {
			t.Errorf("mirror flag/naming mismatch for %s", v.Path)
		}
		if !v.Mirrored {
			if sigs[v.Signature] {
				t.Errorf("duplicate signature %s", v.Signature)
			}
			sigs[v.Signature] = true
		}

		// Every output must decode back.
		f, err := os.Open(full)
		if err != nil {
			t.Fatal(err)
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", v.Path, err)
		}
		if img.Bounds().Dx() != v.Width || img.Bounds().Dy() != v.Height {
			t.Errorf("dims mismatch for %s", v.Path)
		}
	}
	if len(sigs) != 3 {
		t.Errorf("got %d distinct signatures, want 3", len(sigs))
	}

	// Nested source keeps its subdirectory.
	deep := m.Assets["deep/tissue"]
	if len(deep.Variants) == 0 || !strings.HasPrefix(deep.Variants[0].Path, "deep/") {
		t.Error("nested source lost its subdirectory")
	}
}

func TestPipelineReproducibleWithSeed(t *testing.T) {
	in := t.TempDir()
	writePNG(t, in, "scan.png", 10, 10)

	run := func() map[string]string {
		out := t.TempDir()
		p := New(Config{
			InputDir:  in,
			OutputDir: out,
			Profile:   testProfile(2, false),
			Seed:      7,
			Workers:   1,
		})
		m, err := p.Run()
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		hashes := map[string]string{}
		for _, a := range m.Assets {
			for _, v := range a.Variants {
				hashes[v.Path] = v.Hash
			}
		}
		return hashes
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("runs produced different variant counts: %d vs %d", len(a), len(b))
	}
	for path, hash := range a {
		if b[path] != hash {
			t.Errorf("hash for %s differs between identically-seeded runs", path)
		}
	}
}

func TestPipelineEmptyDir(t *testing.T) {
	p := New(Config{InputDir: t.TempDir(), OutputDir: t.TempDir(), Profile: testProfile(1, false)})
	if _, err := p.Run(); err == nil {
		t.Fatal("expected error for empty input dir")
	}
}

func TestPipelineAllCorrupt(t *testing.T) {
	in := t.TempDir()
	if err := os.WriteFile(filepath.Join(in, "broken.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := New(Config{InputDir: in, OutputDir: t.TempDir(), Profile: testProfile(1, false)})
	if _, err := p.Run(); err == nil {
		t.Fatal("expected error when every source fails to decode")
	}
}

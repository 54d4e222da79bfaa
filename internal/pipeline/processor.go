package pipeline

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/AnyUserName/augset-cli/internal/augment"
	"github.com/AnyUserName/augset-cli/internal/encoder"
	"github.com/AnyUserName/augset-cli/internal/hasher"
	"github.com/AnyUserName/augset-cli/internal/manifest"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// processResult holds the result of augmenting a single source image.
type processResult struct {
	key     string
	asset   manifest.Asset
	err     error
	retries int // parameter draws discarded as signature collisions
}

// processSource handles a single source image: decode, generate the unique
// variants, encode and write each (plus its mirrored twin when enabled), and
// record everything in the asset entry.
func processSource(src Source, index int, cfg Config, registry *encoder.Registry) processResult {
	result := processResult{key: src.Key}

	// Open and decode image.
	f, err := os.Open(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("open %s: %w", src.RelPath, err)
		return result
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		result.err = fmt.Errorf("decode %s: %w", src.RelPath, err)
		return result
	}

	bounds := img.Bounds()
	result.asset = manifest.Asset{
		Original: manifest.OriginalInfo{
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
			Format: src.Format,
			Size:   src.Size,
		},
	}

	// Per-source RNG derived from the base seed and the source index:
	// workers never share RNG state and a fixed seed reproduces the whole
	// export tree regardless of scheduling.
	rng := rand.New(rand.NewSource(cfg.Seed + int64(index)))
	gen := augment.New(cfg.Profile.Ranges, rng)

	variants, err := gen.Generate(img, cfg.Profile.Count)
	if err != nil {
		result.err = fmt.Errorf("generate %s: %w", src.RelPath, err)
		return result
	}
	result.retries = gen.Retries

	// Variants keep the source's format; PNG when it has no encoder.
	enc := registry.ResolveFor(src.Format)
	if enc == nil {
		result.err = fmt.Errorf("no encoder for %s", src.RelPath)
		return result
	}

	// Ensure output subdirectory exists.
	keyDir := filepath.Dir(src.Key)
	if keyDir != "." {
		os.MkdirAll(filepath.Join(cfg.OutputDir, keyDir), 0o755)
	}

	for i, v := range variants {
		name := fmt.Sprintf("%s_%d", filepath.Base(src.Key), i)
		rec, err := writeVariant(v.Image, v.Params, false, name, keyDir, cfg, enc)
		if err != nil {
			result.err = err
			return result
		}
		result.asset.Variants = append(result.asset.Variants, rec)

		if cfg.Profile.Mirror {
			rec, err = writeVariant(augment.Mirror(v.Image), v.Params, true, name+"m", keyDir, cfg, enc)
			if err != nil {
				result.err = err
				return result
			}
			result.asset.Variants = append(result.asset.Variants, rec)
		}
	}

	return result
}

// writeVariant encodes one variant image, writes it under the output
// directory and returns its manifest record.
func writeVariant(img image.Image, params augment.Params, mirrored bool,
	name, keyDir string, cfg Config, enc encoder.Encoder) (manifest.Variant, error) {

	data, err := enc.Encode(img, cfg.Profile.Quality)
	if err != nil {
		return manifest.Variant{}, fmt.Errorf("encode %s: %w", name, err)
	}

	fileName := fmt.Sprintf("%s.%s", name, enc.Extension())
	relPath := filepath.ToSlash(filepath.Join(keyDir, fileName))

	outPath := filepath.Join(cfg.OutputDir, relPath)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return manifest.Variant{}, fmt.Errorf("write %s: %w", relPath, err)
	}

	b := img.Bounds()
	return manifest.Variant{
		Path:      relPath,
		Format:    enc.Format(),
		Width:     b.Dx(),
		Height:    b.Dy(),
		Size:      int64(len(data)),
		Hash:      hasher.ContentHash(data, 16),
		Signature: fmt.Sprintf("%016x", params.Signature().Fingerprint()),
		Mirrored:  mirrored,
		Params:    params,
	}, nil
}

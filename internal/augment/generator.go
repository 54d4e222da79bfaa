package augment

import (
	"fmt"
	"image"
	"math/rand"
	"time"
)

// Generator produces unique augmented variants of source images.
// Not safe for concurrent use (it owns one RNG); callers parallelizing
// across source images should give each its own Generator.
type Generator struct {
	Ranges Ranges
	Rand   *rand.Rand

	// Retries counts signature collisions discarded across Generate calls.
	Retries int
}

// New returns a generator over the given ranges. A nil rng gets a
// clock-seeded source; tests should inject a fixed seed.
func New(ranges Ranges, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UTC().UnixNano()))
	}
	return &Generator{Ranges: ranges, Rand: rng}
}

// Variant is one augmented output together with the parameters that
// produced it.
type Variant struct {
	Image  *image.NRGBA
	Params Params
}

// Generate returns exactly count variants of img, in generation order, each
// from a distinct parameter signature. A draw whose signature was already
// accepted in this call is discarded and redrawn without counting toward
// count; with continuous uniform draws collisions are vanishingly rare, but
// the loop tolerates any number of them rather than truncating the output.
//
// The ranges table and the image shape are validated before any pixel work.
// On error no partial result is returned.
func (g *Generator) Generate(img image.Image, count int) ([]Variant, error) {
	if err := g.Ranges.Validate(); err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrUnsupportedShape, b.Dx(), b.Dy())
	}
	if g.Rand == nil {
		g.Rand = rand.New(rand.NewSource(time.Now().UTC().UnixNano()))
	}

	seen := make(map[Signature]struct{}, count)
	variants := make([]Variant, 0, count)
	for len(variants) < count {
		p := g.Ranges.Sample(g.Rand)
		sig := p.Signature()
		if _, dup := seen[sig]; dup {
			g.Retries++
			continue
		}
		seen[sig] = struct{}{}
		variants = append(variants, Variant{Image: p.Apply(img), Params: p})
	}
	return variants, nil
}

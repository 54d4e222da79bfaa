package augment

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"math"
	"math/rand"

	"github.com/cespare/xxhash/v2"
)

var (
	// ErrInvalidRange marks a malformed min/max pair (non-finite bound or
	// min above max). Reported before any pixel work starts.
	ErrInvalidRange = errors.New("invalid parameter range")

	// ErrUnsupportedShape marks an input buffer with zero width or height.
	ErrUnsupportedShape = errors.New("unsupported image shape")
)

// Range is a closed interval sampled uniformly.
type Range struct {
	Min float64 `json:"min" toml:"min"`
	Max float64 `json:"max" toml:"max"`
}

func (r Range) validate(name string) error {
	for _, v := range []float64{r.Min, r.Max} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s: non-finite bound %v", ErrInvalidRange, name, v)
		}
	}
	if r.Min > r.Max {
		return fmt.Errorf("%w: %s: min %g > max %g", ErrInvalidRange, name, r.Min, r.Max)
	}
	return nil
}

func (r Range) sample(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Ranges is the sampling table for one generation run: one closed interval
// per transform parameter, drawn uniformly with inclusive bounds.
type Ranges struct {
	TranslateX    Range `json:"translate_x" toml:"translate_x"`
	TranslateY    Range `json:"translate_y" toml:"translate_y"`
	Rotate        Range `json:"rotate" toml:"rotate"`
	WarpAmplitude Range `json:"warp_amplitude" toml:"warp_amplitude"`
	WarpFrequency Range `json:"warp_frequency" toml:"warp_frequency"`
	Blur          Range `json:"blur" toml:"blur"`
	Brightness    Range `json:"brightness" toml:"brightness"`
	Contrast      Range `json:"contrast" toml:"contrast"`
}

// DefaultRanges returns the stock augmentation table: distortions small
// enough to preserve labels on medical-style imagery.
func DefaultRanges() Ranges {
	return Ranges{
		TranslateX:    Range{Min: -2, Max: 2},     // pixels
		TranslateY:    Range{Min: -2, Max: 2},     // pixels
		Rotate:        Range{Min: -4, Max: 4},     // degrees
		WarpAmplitude: Range{Min: 0.5, Max: 1},    // pixels
		WarpFrequency: Range{Min: 1, Max: 5},      // spatial frequency
		Blur:          Range{Min: 0, Max: 0.5},    // gaussian radius, pixels
		Brightness:    Range{Min: 0.9, Max: 1.1},  // factor
		Contrast:      Range{Min: 1, Max: 1.2},    // factor
	}
}

// Validate checks every range and fails fast on the first malformed one.
func (r Ranges) Validate() error {
	checks := []struct {
		name string
		rg   Range
	}{
		{"translate_x", r.TranslateX},
		{"translate_y", r.TranslateY},
		{"rotate", r.Rotate},
		{"warp_amplitude", r.WarpAmplitude},
		{"warp_frequency", r.WarpFrequency},
		{"blur", r.Blur},
		{"brightness", r.Brightness},
		{"contrast", r.Contrast},
	}
	for _, c := range checks {
		if err := c.rg.validate(c.name); err != nil {
			return err
		}
	}
	return nil
}

// Sample draws one value per parameter from rng.
func (r Ranges) Sample(rng *rand.Rand) Params {
	return Params{
		TranslateX:    r.TranslateX.sample(rng),
		TranslateY:    r.TranslateY.sample(rng),
		Rotate:        r.Rotate.sample(rng),
		WarpAmplitude: r.WarpAmplitude.sample(rng),
		WarpFrequency: r.WarpFrequency.sample(rng),
		Blur:          r.Blur.sample(rng),
		Brightness:    r.Brightness.sample(rng),
		Contrast:      r.Contrast.sample(rng),
	}
}

// Params is one fully-specified draw from the ranges table.
type Params struct {
	TranslateX    float64 `json:"translate_x"`
	TranslateY    float64 `json:"translate_y"`
	Rotate        float64 `json:"rotate"`
	WarpAmplitude float64 `json:"warp_amplitude"`
	WarpFrequency float64 `json:"warp_frequency"`
	Blur          float64 `json:"blur"`
	Brightness    float64 `json:"brightness"`
	Contrast      float64 `json:"contrast"`
}

// Signature is the ordered tuple of sampled parameter values, used as the
// deduplication key within one generation run. Comparable, so it can key a
// map directly.
type Signature [8]float64

// Signature returns the ordered tuple for p.
func (p Params) Signature() Signature {
	return Signature{
		p.TranslateX, p.TranslateY,
		p.Rotate,
		p.WarpAmplitude, p.WarpFrequency,
		p.Blur,
		p.Brightness, p.Contrast,
	}
}

// Fingerprint is the xxHash64 of the signature's raw float bits, recorded in
// manifests as a compact stand-in for the full tuple.
func (s Signature) Fingerprint() uint64 {
	var buf [len(s) * 8]byte
	for i, v := range s {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return xxhash.Sum64(buf[:])
}

// Apply materializes one variant: the full pipeline in fixed order
// translate → rotate → warp → gaussian blur → brightness → contrast.
// The order is load-bearing; warp after rotate distorts the already-rotated
// field. The source image is never mutated.
func (p Params) Apply(img image.Image) *image.NRGBA {
	return From(img).
		Translate(p.TranslateX, p.TranslateY).
		Rotate(p.Rotate).
		Warp(p.WarpAmplitude, p.WarpFrequency).
		Gaussian(p.Blur).
		Brightness(p.Brightness).
		Contrast(p.Contrast).
		Image()
}

// Package augment implements the pixel-level transforms and the randomized
// variant generator used to expand small training image sets.
//
// Every transform is pure: it takes an image, returns a freshly allocated
// NRGBA buffer and never mutates its input. Point remaps (contrast,
// brightness) go through a 256-entry lookup table built from an exact float
// curve, clamped and then truncated — saturating, never wrapping. Stochastic
// transforms take an explicit *rand.Rand so callers can seed them.
package augment

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/disintegration/imaging"
)

// zeroFill is the background pixel for areas a transform exposes
// (rotate corners, translate edges).
var zeroFill = color.NRGBA{}

// Warp applies a sinusoidal distortion to both axes. For every destination
// pixel (x, y) the source coordinate is
//
//	src_x = clamp(x + amplitude·sin(2π·frequency·y/height), 0, width-1)
//	src_y = clamp(y + amplitude·sin(2π·frequency·x/width),  0, height-1)
//
// Each axis is displaced by a wave driven by the *other* axis, producing a
// coupled ripple rather than two independent waves. Nearest-neighbor backward
// mapping; coordinates are clamped in float and then truncated (post-clamp
// they are non-negative, so truncation equals floor). Canvas size unchanged.
func Warp(img image.Image, amplitude, frequency float64) *image.NRGBA {
	src := imaging.Clone(img)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}

	// The x displacement depends only on the row, the y displacement only
	// on the column, so both waves can be tabulated once.
	xOff := make([]float64, h)
	for y := 0; y < h; y++ {
		xOff[y] = amplitude * math.Sin(2*math.Pi*frequency*float64(y)/float64(h))
	}
	yOff := make([]float64, w)
	for x := 0; x < w; x++ {
		yOff[x] = amplitude * math.Sin(2*math.Pi*frequency*float64(x)/float64(w))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx := int(clampF(float64(x)+xOff[y], 0, float64(w-1)))
			sy := int(clampF(float64(y)+yOff[x], 0, float64(h-1)))
			di := y*dst.Stride + x*4
			si := sy*src.Stride + sx*4
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}

// Mirror flips the image horizontally. Exact pixel correspondence.
func Mirror(img image.Image) *image.NRGBA {
	return imaging.FlipH(img)
}

// Flip flips the image vertically. Exact pixel correspondence.
func Flip(img image.Image) *image.NRGBA {
	return imaging.FlipV(img)
}

// Translate shifts the image content by (dx, dy); positive values move it
// right and down. Backward-mapped nearest-neighbor: the sub-pixel part of the
// shift is resolved by rounding, pixels shifted in from outside the original
// bounds are zero-filled. Canvas size unchanged.
func Translate(img image.Image, dx, dy float64) *image.NRGBA {
	src := imaging.Clone(img)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	// Constant shift: rounding once gives the same result as rounding
	// x-dx per pixel, since x is integral.
	ox := int(math.Round(dx))
	oy := int(math.Round(dy))

	for y := 0; y < h; y++ {
		sy := y - oy
		if sy < 0 || sy >= h {
			continue // row stays zero-filled
		}
		for x := 0; x < w; x++ {
			sx := x - ox
			if sx < 0 || sx >= w {
				continue
			}
			di := y*dst.Stride + x*4
			si := sy*src.Stride + sx*4
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}

// Rotate rotates the image counter-clockwise by angle degrees about its
// center. The canvas expands to fit the rotated content; exposed corners are
// zero-filled. Rotate(0) is an exact identity (imaging special-cases it).
func Rotate(img image.Image, angle float64) *image.NRGBA {
	return imaging.Rotate(img, angle, zeroFill)
}

// Blur applies a separable box blur with the given radius in pixels.
// The kernel spans [i-radius, i+radius] with fractional weights on the
// partial edge pixels, normalized by 2·radius+1; borders clamp to the edge
// pixel. A radius of zero (or less) is the identity.
func Blur(img image.Image, radius float64) *image.NRGBA {
	src := imaging.Clone(img)
	if radius <= 0 {
		return src
	}
	tmp := boxPass(src, radius, true)
	return boxPass(tmp, radius, false)
}

// boxPass runs one horizontal or vertical box-filter pass over all four
// channels.
func boxPass(src *image.NRGBA, radius float64, horizontal bool) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	full := int(radius)
	frac := radius - float64(full)
	norm := 1 / (2*radius + 1)

	lines, n := h, w
	if !horizontal {
		lines, n = w, h
	}

	// at returns the pixel offset for position i along the current line.
	// src comes from Clone (or a prior pass), so src and dst share the
	// compact 4·w stride.
	at := func(line, i int) int {
		if horizontal {
			return line*src.Stride + i*4
		}
		return i*src.Stride + line*4
	}

	for line := 0; line < lines; line++ {
		for i := 0; i < n; i++ {
			var acc [4]float64
			for j := i - full; j <= i+full; j++ {
				si := at(line, clampI(j, 0, n-1))
				for c := 0; c < 4; c++ {
					acc[c] += float64(src.Pix[si+c])
				}
			}
			if frac > 0 {
				lo := at(line, clampI(i-full-1, 0, n-1))
				hi := at(line, clampI(i+full+1, 0, n-1))
				for c := 0; c < 4; c++ {
					acc[c] += frac * (float64(src.Pix[lo+c]) + float64(src.Pix[hi+c]))
				}
			}
			di := at(line, i)
			for c := 0; c < 4; c++ {
				dst.Pix[di+c] = uint8(clampF(acc[c]*norm+0.5, 0, 255))
			}
		}
	}
	return dst
}

// Gaussian applies a Gaussian blur with the given radius in pixels (the
// radius is used as imaging's sigma). A radius of zero (or less) is the
// identity.
func Gaussian(img image.Image, radius float64) *image.NRGBA {
	if radius <= 0 {
		return imaging.Clone(img)
	}
	return imaging.Blur(img, radius)
}

// Curve maps one sample value to its remapped value. The arithmetic is exact
// float math; clamping to [0, 255] and truncation to the integer sample type
// happen only when the lookup table is built.
type Curve func(float64) float64

// ContrastCurve remaps samples around the mid-point: c' = 128 + factor·(c−128).
func ContrastCurve(factor float64) Curve {
	return func(c float64) float64 { return 128 + factor*(c-128) }
}

// BrightnessCurve scales samples: c' = factor·c.
func BrightnessCurve(factor float64) Curve {
	return func(c float64) float64 { return factor * c }
}

// applyCurve maps R, G and B through a 256-entry LUT built from f; alpha
// passes through. Values saturate at the range boundaries.
func applyCurve(img image.Image, f Curve) *image.NRGBA {
	dst := imaging.Clone(img)
	var lut [256]uint8
	for i := range lut {
		lut[i] = uint8(clampF(f(float64(i)), 0, 255))
	}
	pix := dst.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = lut[pix[i]]
		pix[i+1] = lut[pix[i+1]]
		pix[i+2] = lut[pix[i+2]]
	}
	return dst
}

// Contrast remaps every sample with ContrastCurve(factor), saturating.
func Contrast(img image.Image, factor float64) *image.NRGBA {
	return applyCurve(img, ContrastCurve(factor))
}

// Brightness remaps every sample with BrightnessCurve(factor), saturating.
func Brightness(img image.Image, factor float64) *image.NRGBA {
	return applyCurve(img, BrightnessCurve(factor))
}

// Fireflies replaces each R, G and B sample independently with the given
// brightness value with probability density (i.i.d. Bernoulli per sample, not
// spatially correlated). A nil rng falls back to a clock-seeded one; tests
// should always inject a seeded source.
func Fireflies(img image.Image, density, brightness float64, rng *rand.Rand) *image.NRGBA {
	dst := imaging.Clone(img)
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UTC().UnixNano()))
	}
	v := uint8(clampF(brightness, 0, 255))
	pix := dst.Pix
	for i := 0; i < len(pix); i += 4 {
		for c := 0; c < 3; c++ {
			if rng.Float64() < density {
				pix[i+c] = v
			}
		}
	}
	return dst
}

// Augmented is a fluent wrapper over an image buffer. Every method applies
// one transform and returns a new Augmented holding a fresh buffer; the
// receiver is never mutated.
type Augmented struct {
	img *image.NRGBA
}

// From wraps any image for fluent chaining.
func From(img image.Image) Augmented {
	return Augmented{img: imaging.Clone(img)}
}

// Image returns the underlying buffer.
func (a Augmented) Image() *image.NRGBA { return a.img }

func (a Augmented) Warp(amplitude, frequency float64) Augmented {
	return Augmented{img: Warp(a.img, amplitude, frequency)}
}

func (a Augmented) Mirror() Augmented { return Augmented{img: Mirror(a.img)} }

func (a Augmented) Flip() Augmented { return Augmented{img: Flip(a.img)} }

func (a Augmented) Translate(dx, dy float64) Augmented {
	return Augmented{img: Translate(a.img, dx, dy)}
}

func (a Augmented) Rotate(angle float64) Augmented { return Augmented{img: Rotate(a.img, angle)} }

func (a Augmented) Blur(radius float64) Augmented { return Augmented{img: Blur(a.img, radius)} }

func (a Augmented) Gaussian(radius float64) Augmented {
	return Augmented{img: Gaussian(a.img, radius)}
}

func (a Augmented) Contrast(factor float64) Augmented {
	return Augmented{img: Contrast(a.img, factor)}
}

func (a Augmented) Brightness(factor float64) Augmented {
	return Augmented{img: Brightness(a.img, factor)}
}

func (a Augmented) Fireflies(density, brightness float64, rng *rand.Rand) Augmented {
	return Augmented{img: Fireflies(a.img, density, brightness, rng)}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package encoder

import (
	"fmt"
	"strings"
)

// Registry holds all available encoders keyed by format.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry, probing all encoders for availability.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}

	// Register all encoders. Only available ones will be used.
	all := []Encoder{
		&WebPEncoder{},
		&JPEGEncoder{},
		&PNGEncoder{},
	}

	for _, enc := range all {
		if enc.Available() {
			r.encoders[enc.Format()] = enc
		}
	}

	return r
}

// Get returns an encoder for the given format, or nil if unavailable.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[strings.ToLower(format)]
}

// Available returns all available format names.
func (r *Registry) Available() []string {
	var result []string
	// Maintain priority order.
	for _, f := range []string{"webp", "jpeg", "png"} {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// ResolveFor returns the encoder matching the source image's format, so a
// variant lands on disk in the same format it was read from. Sources with no
// matching encoder (gif, bmp, tiff — or webp when cwebp is missing) fall
// back to PNG, which is always available and lossless.
func (r *Registry) ResolveFor(sourceFormat string) Encoder {
	if enc := r.Get(sourceFormat); enc != nil {
		return enc
	}
	return r.Get("png")
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}

package encoder

import (
	"fmt"
	"strings"
)

// Registry holds the available encoders keyed by format name.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry with every encoder that is available.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}

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

// Normalize maps a format name or file extension to a canonical format:
// "JPG", ".jpeg" and "jpeg" all become "jpeg". Unknown values are returned
// lowercased without the dot.
func Normalize(format string) string {
	f := strings.TrimPrefix(strings.ToLower(format), ".")
	if f == "jpg" {
		return "jpeg"
	}
	return f
}

// Get returns an encoder for the given format or extension, or nil if
// unavailable.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[Normalize(format)]
}

// Available returns all available format names.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range []string{"webp", "jpeg", "png"} {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}

// Package codec puts jsonbourne behind a content-type keyed Codec
// interface, next to binary codecs that share its value model.
//
// Usage:
//
//	c := codec.MustGet("application/msgpack")
//	b, err := c.Encode(map[string]any{"a": 1})
package codec

// Codec encodes/decodes values for one content type.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Encode serializes v to bytes.
	Encode(v any) ([]byte, error)

	// Decode deserializes bytes into v.
	// The target must be a pointer.
	Decode(data []byte, v any) error

	// ContentType returns the MIME type (e.g., "application/json").
	ContentType() string

	// Name returns a short name for logs and flags (e.g., "json").
	Name() string
}

// Default returns the default codec (JSON on the default Lib).
func Default() Codec {
	return JSON{}
}

package codec

import "github.com/rbaliyan/jsonbourne"

// ContentTypeJSON is the MIME type of the JSON codec.
const ContentTypeJSON = "application/json"

// JSON implements Codec with a jsonbourne Lib, so the bytes match
// jsonbourne.Dumpb for the same value and options.
//
// The zero value uses the package default Lib at call time.
type JSON struct {
	// Lib to encode with. Nil means jsonbourne.Default().
	Lib *jsonbourne.Lib
	// Options applied to every Encode call.
	Options []jsonbourne.EncodeOption
}

// Compile-time check.
var _ Codec = JSON{}

func (c JSON) lib() *jsonbourne.Lib {
	if c.Lib != nil {
		return c.Lib
	}
	return jsonbourne.Default()
}

// Encode serializes v to JSON bytes.
func (c JSON) Encode(v any) ([]byte, error) {
	return c.lib().Dumpb(v, c.Options...)
}

// Decode deserializes JSON bytes into v.
func (c JSON) Decode(data []byte, v any) error {
	return c.lib().Unmarshal(data, v)
}

// ContentType returns the MIME type for JSON.
func (JSON) ContentType() string {
	return ContentTypeJSON
}

// Name returns "json".
func (JSON) Name() string {
	return "json"
}

package jsonbourne

import (
	"encoding/json"
	"errors"
)

// Backend names.
const (
	Stdlib    = "json"
	Sonic     = "sonic"
	GoJSON    = "goccy"
	JSONIter  = "jsoniter"
	Segmentio = "segmentio"
)

// Backend is one JSON implementation behind the Dumps/Dumpb/Loads contract.
// Implementations must be safe for concurrent use.
//
// Encode receives a normalized tree (see Normalize): nil, bool, int64,
// uint64, float32, float64, string, []any, map[string]any and json.Marshaler
// number literals. Given the same tree and options every backend must
// produce byte-identical output.
type Backend interface {
	// Name returns a short identifier for the backend (e.g., "json", "sonic").
	Name() string

	// Usable reports whether the backend can run on this platform.
	Usable() bool

	// Encode serializes a normalized tree.
	Encode(v any, o *EncodeOptions) ([]byte, error)

	// Decode parses JSON into native containers.
	// Errors are the backend's own; Lib wraps them in a DecodeError.
	Decode(data []byte, o *DecodeOptions) (any, error)

	// Unmarshal decodes JSON into a Go value. The target must be a pointer.
	Unmarshal(data []byte, v any) error
}

var (
	newline = []byte{'\n'}

	errInvalidJSON = errors.New("invalid json")
)

// finish applies the options shared by every adapter to encoded output.
func finish(b []byte, o *EncodeOptions) []byte {
	if o.AppendNewline {
		b = append(b, '\n')
	}
	return b
}

// checkValid rejects anything encoding/json would not accept. Some
// libraries parse leniently (leading zeros, raw control characters,
// trailing data), so their adapters validate first.
func checkValid(data []byte) error {
	if json.Valid(data) {
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return errInvalidJSON
}

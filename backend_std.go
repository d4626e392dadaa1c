package jsonbourne

import (
	"bytes"
	"encoding/json"
)

// stdBackend implements Backend using encoding/json.
// It is always registered and is the fallback when no preferred backend
// is available.
type stdBackend struct{}

// Name returns the backend identifier
func (stdBackend) Name() string {
	return Stdlib
}

// Usable always reports true.
func (stdBackend) Usable() bool {
	return true
}

// Encode serializes a normalized tree with encoding/json
func (stdBackend) Encode(v any, o *EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if o.Pretty {
		enc.SetIndent("", DefaultIndent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return finish(bytes.TrimSuffix(buf.Bytes(), newline), o), nil
}

// Decode parses JSON with encoding/json
func (stdBackend) Decode(data []byte, o *DecodeOptions) (any, error) {
	var v any
	if !o.UseNumber {
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
	// the decoder stops after the first value, so validate the whole input
	// first to reject trailing garbage the same way Unmarshal does
	if err := checkValid(data); err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Unmarshal decodes JSON into v with encoding/json
func (stdBackend) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Compile-time check
var _ Backend = stdBackend{}

//go:build !nosegmentio

package jsonbourne

import (
	"bytes"

	"github.com/segmentio/encoding/json"
)

// segmentioBackend implements Backend using segmentio/encoding/json.
// Build with the nosegmentio tag to leave it out.
type segmentioBackend struct{}

// Name returns the backend identifier
func (segmentioBackend) Name() string {
	return Segmentio
}

// Usable always reports true.
func (segmentioBackend) Usable() bool {
	return true
}

// Encode serializes a normalized tree with segmentio/encoding
func (segmentioBackend) Encode(v any, o *EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetSortMapKeys(true)
	if o.Pretty {
		enc.SetIndent("", DefaultIndent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return finish(bytes.TrimSuffix(buf.Bytes(), newline), o), nil
}

// Decode parses JSON with segmentio/encoding
func (segmentioBackend) Decode(data []byte, o *DecodeOptions) (any, error) {
	if err := checkValid(data); err != nil {
		return nil, err
	}
	var v any
	if !o.UseNumber {
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Unmarshal decodes JSON into v with segmentio/encoding
func (segmentioBackend) Unmarshal(data []byte, v any) error {
	if err := checkValid(data); err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Compile-time check
var _ Backend = segmentioBackend{}

func init() {
	Register(segmentioBackend{})
}

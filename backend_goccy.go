//go:build !nogoccy

package jsonbourne

import (
	"bytes"

	"github.com/goccy/go-json"
)

// goccyBackend implements Backend using goccy/go-json, which compiles a
// specialised encoder per type. Build with the nogoccy tag to leave it out.
type goccyBackend struct{}

// Name returns the backend identifier
func (goccyBackend) Name() string {
	return GoJSON
}

// Usable always reports true; go-json is pure Go.
func (goccyBackend) Usable() bool {
	return true
}

// Encode serializes a normalized tree with go-json
func (goccyBackend) Encode(v any, o *EncodeOptions) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	if o.Pretty {
		b, err = json.MarshalIndentWithOption(v, "", DefaultIndent, json.DisableHTMLEscape())
	} else {
		b, err = json.MarshalWithOption(v, json.DisableHTMLEscape())
	}
	if err != nil {
		return nil, err
	}
	return finish(b, o), nil
}

// Decode parses JSON with go-json
func (goccyBackend) Decode(data []byte, o *DecodeOptions) (any, error) {
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

// Unmarshal decodes JSON into v with go-json
func (goccyBackend) Unmarshal(data []byte, v any) error {
	if err := checkValid(data); err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Compile-time check
var _ Backend = goccyBackend{}

func init() {
	Register(goccyBackend{})
}

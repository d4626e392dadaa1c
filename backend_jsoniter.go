//go:build !nojsoniter

package jsonbourne

import (
	"bytes"
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
)

var (
	jsoniterAPI = jsoniter.Config{
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
	}.Froze()

	jsoniterNumberAPI = jsoniter.Config{
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
		UseNumber:              true,
	}.Froze()
)

// jsoniterBackend implements Backend using json-iterator/go.
// Build with the nojsoniter tag to leave it out.
type jsoniterBackend struct{}

// Name returns the backend identifier
func (jsoniterBackend) Name() string {
	return JSONIter
}

// Usable always reports true; json-iterator is pure Go.
func (jsoniterBackend) Usable() bool {
	return true
}

// Encode serializes a normalized tree with json-iterator.
// Pretty output is laid out by json.Indent: json-iterator indents through
// a separately frozen config per step, and one shared layout keeps the
// whitespace identical to the other adapters.
func (jsoniterBackend) Encode(v any, o *EncodeOptions) ([]byte, error) {
	b, err := jsoniterAPI.Marshal(v)
	if err != nil {
		return nil, err
	}
	if o.Pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, b, "", DefaultIndent); err != nil {
			return nil, err
		}
		b = buf.Bytes()
	}
	return finish(b, o), nil
}

// Decode parses JSON with json-iterator
func (jsoniterBackend) Decode(data []byte, o *DecodeOptions) (any, error) {
	if err := checkValid(data); err != nil {
		return nil, err
	}
	api := jsoniterAPI
	if o.UseNumber {
		api = jsoniterNumberAPI
	}
	var v any
	if err := api.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Unmarshal decodes JSON into v with json-iterator
func (jsoniterBackend) Unmarshal(data []byte, v any) error {
	if err := checkValid(data); err != nil {
		return err
	}
	return jsoniterAPI.Unmarshal(data, v)
}

// Compile-time check
var _ Backend = jsoniterBackend{}

func init() {
	Register(jsoniterBackend{})
}

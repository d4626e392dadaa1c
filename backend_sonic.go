//go:build (amd64 || arm64) && !nosonic

package jsonbourne

import (
	"github.com/bytedance/sonic"
)

var (
	// sonic.ConfigStd minus HTML escaping; the other adapters match this.
	sonicAPI = sonic.Config{
		SortMapKeys:      true,
		CompactMarshaler: true,
		CopyString:       true,
		ValidateString:   true,
		NoEncoderNewline: true,
	}.Froze()

	sonicNumberAPI = sonic.Config{
		SortMapKeys:      true,
		CompactMarshaler: true,
		CopyString:       true,
		ValidateString:   true,
		NoEncoderNewline: true,
		UseNumber:        true,
	}.Froze()
)

// sonicBackend implements Backend using bytedance/sonic, a JIT and SIMD
// accelerated encoder. Only compiled on amd64 and arm64; build with the
// nosonic tag to leave it out.
type sonicBackend struct{}

// Name returns the backend identifier
func (sonicBackend) Name() string {
	return Sonic
}

// Usable reports true; the build constraint already excludes platforms
// sonic cannot run on.
func (sonicBackend) Usable() bool {
	return true
}

// Encode serializes a normalized tree with sonic
func (sonicBackend) Encode(v any, o *EncodeOptions) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	if o.Pretty {
		b, err = sonicAPI.MarshalIndent(v, "", DefaultIndent)
	} else {
		b, err = sonicAPI.Marshal(v)
	}
	if err != nil {
		return nil, err
	}
	return finish(b, o), nil
}

// Decode parses JSON with sonic
func (sonicBackend) Decode(data []byte, o *DecodeOptions) (any, error) {
	if err := checkValid(data); err != nil {
		return nil, err
	}
	api := sonicAPI
	if o.UseNumber {
		api = sonicNumberAPI
	}
	var v any
	if err := api.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Unmarshal decodes JSON into v with sonic
func (sonicBackend) Unmarshal(data []byte, v any) error {
	if err := checkValid(data); err != nil {
		return err
	}
	return sonicAPI.Unmarshal(data, v)
}

// Compile-time check
var _ Backend = sonicBackend{}

func init() {
	Register(sonicBackend{})
}

package jsonbourne

import (
	"context"
	"sync"
	"sync/atomic"
)

var (
	defaultLib     atomic.Pointer[Lib]
	defaultLibOnce sync.Once
)

// Default returns the package Lib used by the free functions. It is
// created on first use (after every backend has registered) unless
// SetDefault installed one first.
func Default() *Lib {
	defaultLibOnce.Do(func() {
		defaultLib.CompareAndSwap(nil, New())
	})
	return defaultLib.Load()
}

// SetDefault replaces the package Lib. A nil Lib is ignored.
func SetDefault(l *Lib) {
	if l == nil {
		return
	}
	defaultLibOnce.Do(func() {})
	defaultLib.Store(l)
}

// Dumps encodes data to a JSON string with the default Lib
func Dumps(data any, opts ...EncodeOption) (string, error) {
	return Default().Dumps(data, opts...)
}

// Dumpb encodes data to JSON bytes with the default Lib
func Dumpb(data any, opts ...EncodeOption) ([]byte, error) {
	return Default().Dumpb(data, opts...)
}

// Stringify is an alias of Dumps.
func Stringify(data any, opts ...EncodeOption) (string, error) {
	return Default().Dumps(data, opts...)
}

// Loads decodes JSON with the default Lib
func Loads(data []byte, opts ...DecodeOption) (any, error) {
	return Default().Loads(data, opts...)
}

// LoadsString decodes a JSON string with the default Lib
func LoadsString(s string, opts ...DecodeOption) (any, error) {
	return Default().LoadsString(s, opts...)
}

// Parse is an alias of Loads.
func Parse(data []byte, opts ...DecodeOption) (any, error) {
	return Default().Loads(data, opts...)
}

// LoadsLines decodes JSON Lines with the default Lib
func LoadsLines(data []byte, opts ...DecodeOption) ([]any, error) {
	return Default().LoadsLines(data, opts...)
}

// DumpsLines encodes JSON Lines with the default Lib
func DumpsLines(values []any, opts ...EncodeOption) ([]byte, error) {
	return Default().DumpsLines(values, opts...)
}

// Unmarshal decodes JSON into v with the default Lib
func Unmarshal(data []byte, v any) error {
	return Default().Unmarshal(data, v)
}

// JSONCopy deep copies data through JSON with the default Lib
func JSONCopy(data any, opts ...EncodeOption) (any, error) {
	return Default().JSONCopy(data, opts...)
}

// WriteFile writes data as JSON to path with the default Lib
func WriteFile(ctx context.Context, path string, data any, opts ...EncodeOption) (int, error) {
	return Default().WriteFile(ctx, path, data, opts...)
}

// WriteLinesFile writes values as JSON Lines with the default Lib.
func WriteLinesFile(ctx context.Context, path string, values []any, opts ...EncodeOption) (int, error) {
	return Default().WriteLinesFile(ctx, path, values, opts...)
}

// ReadFile reads the JSON file at path with the default Lib
func ReadFile(ctx context.Context, path string, opts ...DecodeOption) (any, error) {
	return Default().ReadFile(ctx, path, opts...)
}

// Which returns the backend selected by the default Lib
func Which() string {
	return Default().Which()
}

// Use selects a backend on the default Lib
func Use(name string) error {
	return Default().Use(name)
}

// UseSonic selects the sonic backend on the default Lib
func UseSonic() error {
	return Default().UseSonic()
}

// UseGoJSON selects the goccy/go-json backend on the default Lib
func UseGoJSON() error {
	return Default().UseGoJSON()
}

// UseJSONIter selects the json-iterator backend on the default Lib
func UseJSONIter() error {
	return Default().UseJSONIter()
}

// UseSegmentio selects the segmentio/encoding backend on the default Lib
func UseSegmentio() error {
	return Default().UseSegmentio()
}

// UseStdlib selects the encoding/json backend on the default Lib
func UseStdlib() error {
	return Default().UseStdlib()
}

// UseJSON is an alias of UseStdlib.
func UseJSON() error {
	return Default().UseJSON()
}

// SonicUsable reports whether sonic is available to the default Lib
func SonicUsable() bool {
	return Default().SonicUsable()
}

// GoJSONUsable reports whether goccy/go-json is available to the default Lib
func GoJSONUsable() bool {
	return Default().GoJSONUsable()
}

// JSONIterUsable reports whether json-iterator is available to the default Lib
func JSONIterUsable() bool {
	return Default().JSONIterUsable()
}

// SegmentioUsable reports whether segmentio/encoding is available to the default Lib
func SegmentioUsable() bool {
	return Default().SegmentioUsable()
}

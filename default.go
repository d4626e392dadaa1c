package jsonbourne

import (
	"bytes"
	"cmp"
	"encoding"
	"encoding/json"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"reflect"
	"slices"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Dumpable is consulted before anything else; JSONDumpable returns the
// value to encode in place of the receiver.
type Dumpable interface {
	JSONDumpable() any
}

// Matrix is a homogeneous numeric array (the gonum mat.Matrix method set).
// It encodes as a nested list of rows.
type Matrix interface {
	Dims() (r, c int)
	At(i, j int) float64
}

// Ejecter exposes its plain data through Eject.
type Ejecter interface {
	Eject() any
}

// ToDicter exposes its plain data through ToDict.
type ToDicter interface {
	ToDict() map[string]any
}

// Dicter exposes its plain data through Dict.
type Dicter interface {
	Dict() map[string]any
}

// DefaultEncode is the shared default encoder. It returns a JSON encodable
// substitute for values with no native representation; first match wins:
//
//   - Dumpable, proto.Message (protojson)
//   - *big.Int as a JSON integer
//   - Matrix as nested rows
//   - byte slices as UTF-8 strings
//   - *os.File and fs.DirEntry as their path/name
//   - time.Time as RFC 3339 with nanoseconds
//   - time.Duration as total seconds
//   - *big.Float and *big.Rat as decimal strings
//   - Ejecter, ToDicter, Dicter
//   - sets (map[K]struct{}) as sorted lists
//   - encoding.TextMarshaler as a string, json.Marshaler as its output
//
// Anything else fails with an UnsupportedValueError.
func DefaultEncode(v any) (any, error) {
	switch x := v.(type) {
	case Dumpable:
		return x.JSONDumpable(), nil
	case proto.Message:
		b, err := protojson.Marshal(x)
		if err != nil {
			return nil, &UnsupportedValueError{Value: v, Reason: err.Error()}
		}
		return decodeLiteral(b)
	case *big.Int:
		if x == nil {
			return nil, nil
		}
		return json.Number(x.String()), nil
	case Matrix:
		r, c := x.Dims()
		rows := make([]any, r)
		for i := range r {
			row := make([]any, c)
			for j := range c {
				row[j] = x.At(i, j)
			}
			rows[i] = row
		}
		return rows, nil
	case json.RawMessage:
		return decodeLiteral(x)
	case []byte:
		return string(x), nil
	case *os.File:
		return x.Name(), nil
	case fs.DirEntry:
		return x.Name(), nil
	case time.Time:
		return x.Format(time.RFC3339Nano), nil
	case time.Duration:
		return x.Seconds(), nil
	case *big.Float:
		if x == nil {
			return nil, nil
		}
		return x.Text('f', -1), nil
	case *big.Rat:
		if x == nil {
			return nil, nil
		}
		if n, exact := x.FloatPrec(); exact {
			return x.FloatString(n), nil
		}
		return x.RatString(), nil
	case Ejecter:
		return x.Eject(), nil
	case ToDicter:
		return x.ToDict(), nil
	case Dicter:
		return x.Dict(), nil
	}

	rv := reflect.ValueOf(v)
	switch {
	case !rv.IsValid():
		return nil, nil
	case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8:
		return string(rv.Bytes()), nil
	case isSet(rv.Type()):
		return setMembers(rv), nil
	}

	switch x := v.(type) {
	case encoding.TextMarshaler:
		b, err := x.MarshalText()
		if err != nil {
			return nil, &UnsupportedValueError{Value: v, Reason: err.Error()}
		}
		return string(b), nil
	case json.Marshaler:
		b, err := x.MarshalJSON()
		if err != nil {
			return nil, &UnsupportedValueError{Value: v, Reason: err.Error()}
		}
		return decodeLiteral(b)
	}
	return nil, &UnsupportedValueError{Value: v}
}

// decodeLiteral turns JSON produced by a value's own marshaler back into a
// tree, keeping number literals exact.
func decodeLiteral(b []byte) (any, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeFailure, err)
	}
	return v, nil
}

// isSet reports whether t is a map used as a set (zero-size values).
func isSet(t reflect.Type) bool {
	return t.Kind() == reflect.Map && t.Elem().Kind() == reflect.Struct && t.Elem().Size() == 0
}

// setMembers returns the keys of a set in a stable order.
func setMembers(rv reflect.Value) []any {
	keys := rv.MapKeys()
	slices.SortFunc(keys, compareKeys)
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k.Interface()
	}
	return out
}

func compareKeys(a, b reflect.Value) int {
	switch {
	case a.CanInt() && b.CanInt():
		return cmp.Compare(a.Int(), b.Int())
	case a.CanUint() && b.CanUint():
		return cmp.Compare(a.Uint(), b.Uint())
	case a.CanFloat() && b.CanFloat():
		return cmp.Compare(a.Float(), b.Float())
	case a.Kind() == reflect.String && b.Kind() == reflect.String:
		return cmp.Compare(a.String(), b.String())
	}
	return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
}

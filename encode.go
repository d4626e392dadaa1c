package jsonbourne

import (
	"bytes"
	"errors"
	"fmt"
)

// Dumpb encodes data to JSON bytes with the selected backend.
//
// Values with no native JSON form go through the default encoder
// (DefaultEncode, or the func given with WithDefault). Output is identical
// whichever backend is selected.
//
// Example:
//
//	b, err := lib.Dumpb(map[string]int{"a": 1}, jsonbourne.WithPretty())
func (l *Lib) Dumpb(data any, opts ...EncodeOption) ([]byte, error) {
	b := l.Backend()
	o := newEncodeOptions(opts...)
	out, err := l.encode(b, data, o)
	if err != nil {
		l.metrics.Failed(b.Name(), "encode")
		return nil, err
	}
	l.metrics.Encoded(b.Name())
	return out, nil
}

func (l *Lib) encode(b Backend, data any, o *EncodeOptions) ([]byte, error) {
	tree, err := canonical(data, o)
	if err != nil {
		return nil, err
	}
	out, err := b.Encode(tree, o)
	if err != nil {
		return nil, errors.Join(ErrEncodeFailure, err)
	}
	return out, nil
}

// Dumps encodes data to a JSON string with the selected backend.
func (l *Lib) Dumps(data any, opts ...EncodeOption) (string, error) {
	out, err := l.Dumpb(data, opts...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Stringify is an alias of Dumps.
func (l *Lib) Stringify(data any, opts ...EncodeOption) (string, error) {
	return l.Dumps(data, opts...)
}

// DumpsLines encodes each value on its own line (JSON Lines / NDJSON).
// Pretty output is ignored; every line ends with '\n'.
func (l *Lib) DumpsLines(values []any, opts ...EncodeOption) ([]byte, error) {
	b := l.Backend()
	out, err := l.dumpsLines(b, values, newEncodeOptions(opts...))
	if err != nil {
		l.metrics.Failed(b.Name(), "encode")
		return nil, err
	}
	l.metrics.Encoded(b.Name())
	return out, nil
}

func (l *Lib) dumpsLines(b Backend, values []any, o *EncodeOptions) ([]byte, error) {
	o.Pretty = false
	o.AppendNewline = true
	var buf bytes.Buffer
	for i, v := range values {
		out, err := l.encode(b, v, o)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		buf.Write(out)
	}
	return buf.Bytes(), nil
}

// JSONCopy deep copies data by encoding and decoding it, leaving only
// native containers (map[string]any, []any, scalars) in the result.
func (l *Lib) JSONCopy(data any, opts ...EncodeOption) (any, error) {
	b := l.Backend()
	o := newEncodeOptions(opts...)
	out, err := l.encode(b, data, o)
	if err != nil {
		l.metrics.Failed(b.Name(), "encode")
		return nil, err
	}
	return l.decode(b, out, &DecodeOptions{})
}

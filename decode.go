package jsonbourne

import (
	"bytes"

	"github.com/tailscale/hujson"
)

// Loads decodes JSON into native containers with the selected backend:
// objects become map[string]any, arrays []any, numbers float64 (or
// json.Number with WithUseNumber).
//
// Malformed input fails with a DecodeError wrapping the backend's error.
// With WithLines the result is a []any holding one value per line.
func (l *Lib) Loads(data []byte, opts ...DecodeOption) (any, error) {
	b := l.Backend()
	o := newDecodeOptions(opts...)
	if o.Lines {
		values, err := l.loadsLines(b, data, o)
		if err != nil {
			return nil, err
		}
		return values, nil
	}
	return l.decode(b, data, o)
}

// LoadsString decodes a JSON string; see Loads.
func (l *Lib) LoadsString(s string, opts ...DecodeOption) (any, error) {
	return l.Loads([]byte(s), opts...)
}

// Parse is an alias of Loads.
func (l *Lib) Parse(data []byte, opts ...DecodeOption) (any, error) {
	return l.Loads(data, opts...)
}

// LoadsLines decodes JSON Lines / NDJSON input, one value per non-blank line.
func (l *Lib) LoadsLines(data []byte, opts ...DecodeOption) ([]any, error) {
	return l.loadsLines(l.Backend(), data, newDecodeOptions(opts...))
}

// Unmarshal decodes JSON into v with the selected backend.
// The target must be a pointer.
func (l *Lib) Unmarshal(data []byte, v any) error {
	b := l.Backend()
	if err := b.Unmarshal(data, v); err != nil {
		l.metrics.Failed(b.Name(), "decode")
		return &DecodeError{Backend: b.Name(), Err: err}
	}
	l.metrics.Decoded(b.Name())
	return nil
}

func (l *Lib) decode(b Backend, data []byte, o *DecodeOptions) (any, error) {
	if o.JSONC {
		std, err := standardize(data)
		if err != nil {
			l.metrics.Failed(b.Name(), "decode")
			return nil, &DecodeError{Backend: b.Name(), Err: err}
		}
		data = std
	}
	v, err := b.Decode(data, o)
	if err != nil {
		l.metrics.Failed(b.Name(), "decode")
		return nil, &DecodeError{Backend: b.Name(), Err: err}
	}
	l.metrics.Decoded(b.Name())
	return v, nil
}

func (l *Lib) loadsLines(b Backend, data []byte, o *DecodeOptions) ([]any, error) {
	values := []any{}
	for i, line := range bytes.Split(data, newline) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		v, err := l.decode(b, line, o)
		if err != nil {
			if de, ok := err.(*DecodeError); ok {
				de.Line = i + 1
			}
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// standardize turns JSONC (comments, trailing commas) into plain JSON.
// hujson rewrites the value in place, so it gets its own copy.
func standardize(data []byte) ([]byte, error) {
	return hujson.Standardize(bytes.Clone(data))
}

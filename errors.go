package jsonbourne

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors. Use errors.Is() to check for them; the typed errors
// below wrap them so callers can also reach the details with errors.As().
//
// Example:
//
//	if err := lib.UseSonic(); errors.Is(err, jsonbourne.ErrBackendUnavailable) {
//	    // sonic was not compiled in (nosonic tag or unsupported arch)
//	}
var (
	// ErrBackendUnavailable indicates a requested backend is not registered
	// in this binary or cannot run on this platform.
	ErrBackendUnavailable = errors.New("json backend unavailable")

	// ErrUnsupportedValue indicates a value has no JSON representation,
	// even after the default encoder was consulted.
	ErrUnsupportedValue = errors.New("unsupported value")

	// ErrEncodeFailure indicates a backend failed to marshal a normalized value.
	ErrEncodeFailure = errors.New("failed to encode json")

	// ErrDecodeFailure indicates malformed JSON input.
	ErrDecodeFailure = errors.New("failed to decode json")

	// ErrNotObject indicates a JSON document that was expected to be an
	// object decoded to something else.
	ErrNotObject = errors.New("json value is not an object")

	// ErrKeyNotFound indicates a dot-notation lookup hit a missing key or
	// a value that is not an object.
	ErrKeyNotFound = errors.New("key not found")
)

// BackendUnavailableError is returned by the Use* selectors when the
// named backend cannot be used.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("%v: %q", ErrBackendUnavailable, e.Name)
}

func (e *BackendUnavailableError) Unwrap() error {
	return ErrBackendUnavailable
}

// IsBackendUnavailable checks if an error indicates an unavailable backend.
func IsBackendUnavailable(err error) bool {
	var unavailable *BackendUnavailableError
	return errors.As(err, &unavailable)
}

// UnsupportedValueError names a value that cannot be encoded as JSON.
type UnsupportedValueError struct {
	Value  any
	Reason string
}

func (e *UnsupportedValueError) Error() string {
	msg := fmt.Sprintf("cannot encode obj as JSON: %s", describe(e.Value))
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *UnsupportedValueError) Unwrap() error {
	return ErrUnsupportedValue
}

// IsUnsupportedValue checks if an error indicates an unencodable value.
func IsUnsupportedValue(err error) bool {
	var unsupported *UnsupportedValueError
	return errors.As(err, &unsupported)
}

// DecodeError reports malformed JSON. Err is the backend's own error,
// left untouched so errors.As can still reach backend specific types.
type DecodeError struct {
	Backend string
	Line    int // 1-based line for JSON Lines input, 0 otherwise
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%v (%s): line %d: %v", ErrDecodeFailure, e.Backend, e.Line, e.Err)
	}
	return fmt.Sprintf("%v (%s): %v", ErrDecodeFailure, e.Backend, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecodeFailure, e.Err}
}

// IsDecodeError checks if an error indicates malformed JSON.
func IsDecodeError(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}

// describe renders a value for error messages without risking a panic on
// exotic types.
func describe(v any) string {
	if v == nil {
		return "<nil>"
	}
	t := reflect.TypeOf(v)
	switch t.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return fmt.Sprintf("%s(%p)", t, v)
	}
	return fmt.Sprintf("%v (%s)", v, t)
}

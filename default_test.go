package jsonbourne

import (
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type grid struct{}

func (grid) Dims() (int, int) { return 2, 2 }

func (grid) At(i, j int) float64 { return float64(i*2 + j) }

type ejected struct{}

func (ejected) Eject() any { return []int{1, 2} }

type toDicted struct{ n int }

func (d toDicted) ToDict() map[string]any { return map[string]any{"n": d.n} }

type dicted struct{}

func (dicted) Dict() map[string]any { return map[string]any{"kind": "dict"} }

type dumpable struct{ secret string }

func (d dumpable) JSONDumpable() any { return map[string]string{"masked": strings.Repeat("*", len(d.secret))} }

type level int

func (l level) MarshalText() ([]byte, error) { return []byte("level-" + string(rune('0'+l))), nil }

type rawer struct{}

func (rawer) MarshalJSON() ([]byte, error) { return []byte(`{"z": 1, "a": [true]}`), nil }

func TestDefaultEncodeRules(t *testing.T) {
	lib := New(WithBackend(Stdlib))
	f, err := os.Create(filepath.Join(t.TempDir(), "report.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"bytes", []byte("hi"), `"hi"`},
		{"duration", 48 * time.Hour, `172800`},
		{"fractional duration", 1500 * time.Millisecond, `1.5`},
		{"time", time.Date(2021, 3, 4, 5, 6, 7, 8, time.UTC), `"2021-03-04T05:06:07.000000008Z"`},
		{"uuid", id, `"6ba7b810-9dad-11d1-80b4-00c04fd430c8"`},
		{"set", map[string]struct{}{"b": {}, "a": {}, "c": {}}, `["a","b","c"]`},
		{"int set", map[int]struct{}{10: {}, 2: {}}, `[2,10]`},
		{"matrix", grid{}, `[[0,1],[2,3]]`},
		{"ejecter", ejected{}, `[1,2]`},
		{"to dict", toDicted{n: 4}, `{"n":4}`},
		{"dict", dicted{}, `{"kind":"dict"}`},
		{"dumpable", dumpable{secret: "abc"}, `{"masked":"***"}`},
		{"big int", huge, `123456789012345678901234567890`},
		{"big float", big.NewFloat(0.5), `"0.5"`},
		{"big rat exact", big.NewRat(1, 4), `"0.25"`},
		{"big rat repeating", big.NewRat(1, 3), `"1/3"`},
		{"file", f, `"` + f.Name() + `"`},
		{"proto", wrapperspb.String("x"), `"x"`},
		{"text marshaler", level(3), `"level-3"`},
		{"json marshaler", rawer{}, `{"a":[true],"z":1}`},
		{"raw message", json.RawMessage(`{"b": 1, "a": 2}`), `{"a":2,"b":1}`},
		{"json number", json.Number("1e400"), `1e400`},
		{"nested", map[string]any{"d": []any{time.Minute}}, `{"d":[60]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lib.Dumps(tt.value)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestUnsupportedValues(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"chan", make(chan int)},
		{"func", func() {}},
		{"complex", complex(1, 2)},
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
		{"nested chan", map[string]any{"a": []any{make(chan int)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Dumps(tt.value)
			if !errors.Is(err, ErrUnsupportedValue) {
				t.Fatalf("expected ErrUnsupportedValue, got %v", err)
			}
			var unsupported *UnsupportedValueError
			if !errors.As(err, &unsupported) {
				t.Fatalf("expected UnsupportedValueError, got %T", err)
			}
			if !strings.HasPrefix(err.Error(), "cannot encode obj as JSON") {
				t.Errorf("unexpected message %q", err.Error())
			}
		})
	}
}

func TestWithDefault(t *testing.T) {
	def := func(v any) (any, error) {
		if _, ok := v.(chan int); ok {
			return "<chan>", nil
		}
		return DefaultEncode(v)
	}

	got, err := Dumps(map[string]any{"c": make(chan int), "d": time.Second}, WithDefault(def))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if got != `{"c":"<chan>","d":1}` {
		t.Errorf("unexpected output %s", got)
	}

	// the override applies to one call only
	if _, err := Dumps(make(chan int)); !IsUnsupportedValue(err) {
		t.Errorf("expected UnsupportedValueError, got %v", err)
	}
}

func TestDefaultFuncError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Dumps([]any{1, func() {}}, WithDefault(func(any) (any, error) { return nil, boom }))
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestDefaultFuncRecursionBounded(t *testing.T) {
	var loop DefaultFunc = func(v any) (any, error) { return func() {}, nil }
	_, err := Dumps(func() {}, WithDefault(loop))
	if !IsUnsupportedValue(err) {
		t.Fatalf("expected UnsupportedValueError, got %v", err)
	}
}

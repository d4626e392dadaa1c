package jsonbourne

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type base struct {
	ID      int    `json:"id"`
	Created string `json:"created,omitempty"`
}

type Audit struct {
	By string `json:"by"`
}

type account struct {
	base
	*Audit
	Name    string            `json:"name"`
	Email   string            `json:"email,omitempty"`
	Secret  string            `json:"-"`
	Dash    string            `json:"-,"`
	Labels  map[string]string `json:"labels,omitempty"`
	Balance *big.Int          `json:"balance"`
	Expires time.Time         `json:"expires,omitzero"`
	Plain   bool
	private int
}

func TestNormalizeStruct(t *testing.T) {
	a := account{
		base:    base{ID: 7},
		Audit:   &Audit{By: "ops"},
		Name:    "ada",
		Secret:  "hunter2",
		Dash:    "dash",
		Balance: big.NewInt(100),
		private: 1,
	}
	got, err := Normalize(a)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	want := map[string]any{
		"id":      int64(7),
		"by":      "ops",
		"name":    "ada",
		"-":       "dash",
		"balance": int64(100),
		"Plain":   false,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeNilEmbeddedPointer(t *testing.T) {
	got, err := Normalize(account{Name: "x"})
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	m := got.(map[string]any)
	if _, ok := m["by"]; ok {
		t.Error("fields behind a nil embedded pointer must be skipped")
	}
	if m["balance"] != nil {
		t.Errorf("expected nil balance, got %v", m["balance"])
	}
}

func TestNormalizeShadowing(t *testing.T) {
	type inner struct {
		Name string `json:"name"`
		Deep string `json:"deep"`
	}
	type outer struct {
		inner
		Name string `json:"name"`
	}
	got, err := Normalize(outer{inner: inner{Name: "inner", Deep: "d"}, Name: "outer"})
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	want := map[string]any{"name": "outer", "deep": "d"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeMapKeys(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"int keys", map[int]string{2: "b", 10: "j", 1: "a"}, `{"1":"a","10":"j","2":"b"}`},
		{"uint keys", map[uint8]bool{3: true}, `{"3":true}`},
		{"text keys", map[level]int{1: 1}, `{"level-1":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Dumps(tt.value)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	if _, err := Dumps(map[float64]int{1.5: 1}); !IsUnsupportedValue(err) {
		t.Errorf("expected UnsupportedValueError for float keys, got %v", err)
	}
}

func TestNormalizeScalars(t *testing.T) {
	var nilSlice []int
	var nilMap map[string]int
	var nilPtr *int
	n := 5

	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"nil", nil, nil},
		{"nil slice", nilSlice, nil},
		{"nil map", nilMap, nil},
		{"nil pointer", nilPtr, nil},
		{"pointer", &n, int64(5)},
		{"uint64", uint64(1 << 63), uint64(1 << 63)},
		{"float32", float32(1.5), float32(1.5)},
		{"array", [2]string{"a", "b"}, []any{"a", "b"}},
		{"number int", json.Number("42"), int64(42)},
		{"number big", json.Number("18446744073709551616"), rawNumber("18446744073709551616")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.value)
			if err != nil {
				t.Fatalf("normalize failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := Normalize(json.Number("12abc")); !IsUnsupportedValue(err) {
		t.Errorf("expected UnsupportedValueError for a bad number, got %v", err)
	}
}

func TestBigNumbersStayExact(t *testing.T) {
	in := `{"a":123456789012345678901234567890,"b":-0.1e-7}`
	for _, name := range DefaultRegistry().Available() {
		t.Run(name, func(t *testing.T) {
			lib := New(WithBackend(name))
			v, err := lib.Loads([]byte(in), WithUseNumber())
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			out, err := lib.Dumps(v)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			if out != in {
				t.Errorf("expected %s, got %s", in, out)
			}
		})
	}
}

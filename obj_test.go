package jsonbourne

import (
	"errors"
	"maps"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleObj() Obj {
	return Objectify(map[string]any{
		"falsey_dict":   map[string]any{},
		"falsey_list":   []any{},
		"falsey_string": "",
		"is_false":      false,
		"a":             nil,
		"b":             2.0,
		"c": map[string]any{
			"d":             "herm",
			"e":             nil,
			"falsey_dict":   map[string]any{},
			"falsey_list":   []any{},
			"falsey_string": "",
			"is_false":      false,
		},
	})
}

func TestObjectifyNested(t *testing.T) {
	o := Objectify(map[string]any{"a": map[string]any{"b": []any{map[string]any{"c": 1}}}})
	inner, ok := o["a"].(Obj)
	if !ok {
		t.Fatalf("expected nested Obj, got %T", o["a"])
	}
	list := inner["b"].([]any)
	if _, ok := list[0].(Obj); !ok {
		t.Errorf("expected Obj inside list, got %T", list[0])
	}

	plain := o.Eject()
	if _, ok := plain["a"].(map[string]any); !ok {
		t.Errorf("expected map[string]any after Eject, got %T", plain["a"])
	}
	if diff := cmp.Diff(Unjsonify(o), any(plain)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterNone(t *testing.T) {
	o := sampleObj()

	got := o.FilterNone(false)
	if _, ok := got["a"]; ok {
		t.Error("expected a removed")
	}
	if _, ok := got["c"].(Obj)["e"]; !ok {
		t.Error("non-recursive filter must keep nested nil")
	}
	if _, ok := got["falsey_string"]; !ok {
		t.Error("expected false-y values kept")
	}

	got = o.FilterNone(true)
	if _, ok := got["c"].(Obj)["e"]; ok {
		t.Error("recursive filter must drop nested nil")
	}
	if len(got["c"].(Obj)) != 5 {
		t.Errorf("expected 5 nested keys, got %v", got["c"])
	}
	if _, ok := o["a"]; !ok {
		t.Error("filter must not modify the receiver")
	}
}

func TestFilterFalse(t *testing.T) {
	o := sampleObj()

	got := o.FilterFalse(false)
	if diff := cmp.Diff([]string{"b", "c"}, slices.Sorted(maps.Keys(got))); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if len(got["c"].(Obj)) != 6 {
		t.Errorf("non-recursive filter must keep nested values, got %v", got["c"])
	}

	got = o.FilterFalse(true)
	want := Obj{"b": 2.0, "c": Obj{"d": "herm"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDotLookup(t *testing.T) {
	o := Objectify(map[string]any{
		"a":      map[string]any{"b": map[string]any{"c": 3.0}},
		"list":   []any{1.0},
		"dotted": map[string]any{"x.y": "z"},
	})

	v, err := o.DotLookup("a.b.c")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if v != 3.0 {
		t.Errorf("expected 3, got %v", v)
	}

	v, err = o.DotLookupPath("dotted", "x.y")
	if err != nil || v != "z" {
		t.Errorf("expected z, got %v %v", v, err)
	}

	for _, key := range []string{"a.missing", "list.0", "a.b.c.d", "nope"} {
		if _, err := o.DotLookup(key); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("%s: expected ErrKeyNotFound, got %v", key, err)
		}
	}
}

func TestDotSet(t *testing.T) {
	o := Obj{}
	if err := o.DotSet("a.b.c", 1); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := o.DotSet("a.b.d", 2); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	want := Obj{"a": Obj{"b": Obj{"c": 1, "d": 2}}}
	if diff := cmp.Diff(want, o); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if err := o.DotSet("a.b.c.x", 3); !errors.Is(err, ErrNotObject) {
		t.Errorf("expected ErrNotObject, got %v", err)
	}
}

func TestDotKeysAndItems(t *testing.T) {
	o := Objectify(map[string]any{
		"b": 1.0,
		"a": map[string]any{"y": "y", "x": map[string]any{}},
	})
	wantKeys := [][]string{{"a", "x"}, {"a", "y"}, {"b"}}
	if diff := cmp.Diff(wantKeys, o.DotKeys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	wantItems := []DotItem{
		{Key: []string{"a", "x"}, Value: Obj{}},
		{Key: []string{"a", "y"}, Value: "y"},
		{Key: []string{"b"}, Value: 1.0},
	}
	if diff := cmp.Diff(wantItems, o.DotItems()); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestObjJSON(t *testing.T) {
	o, err := FromJSON([]byte(`{"b":{"c":[1,2]},"a":"x"}`))
	if err != nil {
		t.Fatalf("from json failed: %v", err)
	}
	if _, ok := o["b"].(Obj); !ok {
		t.Errorf("expected nested Obj, got %T", o["b"])
	}
	s, err := o.ToJSON()
	if err != nil {
		t.Fatalf("to json failed: %v", err)
	}
	if s != `{"a":"x","b":{"c":[1,2]}}` {
		t.Errorf("unexpected output %s", s)
	}

	if _, err := FromJSON([]byte(`[1]`)); !errors.Is(err, ErrNotObject) {
		t.Errorf("expected ErrNotObject, got %v", err)
	}
	if _, err := FromJSON([]byte(`{`)); !IsDecodeError(err) {
		t.Errorf("expected DecodeError, got %v", err)
	}
}

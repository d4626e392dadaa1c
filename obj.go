package jsonbourne

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Obj is a JSON object with dot-notation helpers. It encodes like any
// other map[string]any.
//
// Example:
//
//	o, _ := jsonbourne.FromJSON([]byte(`{"a":{"b":1}}`))
//	v, _ := o.DotLookup("a.b") // 1.0
type Obj map[string]any

// DotItem is a leaf of an Obj together with its key path.
type DotItem struct {
	Key   []string
	Value any
}

// Objectify converts m and every nested map[string]any to Obj.
func Objectify(m map[string]any) Obj {
	if m == nil {
		return Obj{}
	}
	return Jsonify(m).(Obj)
}

// Jsonify walks v turning every map[string]any into an Obj. Lists are
// walked; other values are returned as is.
func Jsonify(v any) any {
	switch t := v.(type) {
	case Obj:
		out := make(Obj, len(t))
		for k, val := range t {
			out[k] = Jsonify(val)
		}
		return out
	case map[string]any:
		out := make(Obj, len(t))
		for k, val := range t {
			out[k] = Jsonify(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Jsonify(val)
		}
		return out
	}
	return v
}

// Unjsonify is the inverse of Jsonify: every Obj becomes map[string]any.
func Unjsonify(v any) any {
	switch t := v.(type) {
	case Obj:
		return Unjsonify(map[string]any(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Unjsonify(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Unjsonify(val)
		}
		return out
	}
	return v
}

// child returns v as an object when it is one.
func child(v any) (Obj, bool) {
	switch t := v.(type) {
	case Obj:
		return t, true
	case map[string]any:
		return Obj(t), true
	}
	return nil, false
}

// DotLookup returns the value at a dot-separated key path ("a.b.c").
// Use DotLookupPath for keys that contain dots.
func (o Obj) DotLookup(key string) (any, error) {
	return o.DotLookupPath(strings.Split(key, ".")...)
}

// DotLookupPath returns the value at the given key path.
// Returns an error wrapping ErrKeyNotFound naming how far the lookup got.
func (o Obj) DotLookupPath(path ...string) (any, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty key path", ErrKeyNotFound)
	}
	var cur any = o
	for i, part := range path {
		obj, ok := child(cur)
		if !ok {
			return nil, fmt.Errorf("%w: %s (lookup reached %s => %v)",
				ErrKeyNotFound, strings.Join(path, "."), strings.Join(path[:i], "."), cur)
		}
		if cur, ok = obj[part]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, strings.Join(path[:i+1], "."))
		}
	}
	return cur, nil
}

// DotSet stores v at a dot-separated key path, creating intermediate
// objects. Fails if an intermediate value exists and is not an object.
func (o Obj) DotSet(key string, v any) error {
	return o.DotSetPath(strings.Split(key, "."), v)
}

// DotSetPath is DotSet with an explicit key path.
func (o Obj) DotSetPath(path []string, v any) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: empty key path", ErrKeyNotFound)
	}
	cur := o
	for i, part := range path[:len(path)-1] {
		next, exists := cur[part]
		if !exists || next == nil {
			created := Obj{}
			cur[part] = created
			cur = created
			continue
		}
		obj, ok := child(next)
		if !ok {
			return fmt.Errorf("%w: %s is %T, not an object",
				ErrNotObject, strings.Join(path[:i+1], "."), next)
		}
		cur = obj
	}
	cur[path[len(path)-1]] = v
	return nil
}

// DotKeys returns the key path of every leaf, sorted. Empty nested objects
// are leaves.
func (o Obj) DotKeys() [][]string {
	items := o.DotItems()
	keys := make([][]string, len(items))
	for i, it := range items {
		keys[i] = it.Key
	}
	return keys
}

// DotItems returns every leaf with its key path, sorted by path.
func (o Obj) DotItems() []DotItem {
	var items []DotItem
	o.dotItems(nil, &items)
	slices.SortFunc(items, func(a, b DotItem) int {
		return slices.Compare(a.Key, b.Key)
	})
	return items
}

func (o Obj) dotItems(prefix []string, items *[]DotItem) {
	for k, v := range o {
		path := append(slices.Clone(prefix), k)
		if obj, ok := child(v); ok && len(obj) > 0 {
			obj.dotItems(path, items)
			continue
		}
		*items = append(*items, DotItem{Key: path, Value: v})
	}
}

// FilterNone returns a copy without nil values. Recursive also filters
// nested objects.
func (o Obj) FilterNone(recursive bool) Obj {
	return o.filter(func(v any) bool { return v != nil }, recursive)
}

// FilterFalse returns a copy without false-y values: nil, false, zero
// numbers, empty strings, lists and objects. Recursive also filters
// nested objects; a nested object emptied by filtering is kept.
func (o Obj) FilterFalse(recursive bool) Obj {
	return o.filter(truthy, recursive)
}

func (o Obj) filter(keep func(any) bool, recursive bool) Obj {
	out := make(Obj, len(o))
	for k, v := range o {
		if !keep(v) {
			continue
		}
		if obj, ok := child(v); ok && recursive {
			v = obj.filter(keep, true)
		}
		out[k] = v
	}
	return out
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// Eject returns the plain map[string]any tree, with nested Obj values
// converted too.
func (o Obj) Eject() map[string]any {
	return Unjsonify(map[string]any(o)).(map[string]any)
}

// ToJSON encodes o with the default Lib.
func (o Obj) ToJSON(opts ...EncodeOption) (string, error) {
	return Default().Dumps(o, opts...)
}

// FromJSON decodes a JSON object into an Obj with the selected backend.
// Returns an error wrapping ErrNotObject for any other JSON value.
func (l *Lib) FromJSON(data []byte, opts ...DecodeOption) (Obj, error) {
	o := newDecodeOptions(opts...)
	o.Lines = false
	v, err := l.decode(l.Backend(), data, o)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotObject, v)
	}
	return Objectify(m), nil
}

// FromJSON decodes a JSON object into an Obj with the default Lib.
func FromJSON(data []byte, opts ...DecodeOption) (Obj, error) {
	return Default().FromJSON(data, opts...)
}

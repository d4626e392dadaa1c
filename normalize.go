package jsonbourne

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"math/big"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"google.golang.org/protobuf/proto"
)

// maxDepth bounds nesting so a default func that keeps returning values
// needing conversion fails instead of recursing forever.
const maxDepth = 1000

var (
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()
	numberType   = reflect.TypeFor[json.Number]()
	bigIntType   = reflect.TypeFor[*big.Int]()
	bigFloatType = reflect.TypeFor[*big.Float]()
	bigRatType   = reflect.TypeFor[*big.Rat]()
	fileType     = reflect.TypeFor[*os.File]()
	anyType      = reflect.TypeFor[any]()

	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()

	// number literal types of other JSON packages (same method set as json.Number)
	numberLikeType = reflect.TypeFor[interface {
		Float64() (float64, error)
		Int64() (int64, error)
		String() string
	}]()

	// values implementing any of these go to the default func
	hookIfaces = []reflect.Type{
		reflect.TypeFor[Dumpable](),
		reflect.TypeFor[proto.Message](),
		reflect.TypeFor[Matrix](),
		reflect.TypeFor[Ejecter](),
		reflect.TypeFor[ToDicter](),
		reflect.TypeFor[Dicter](),
		reflect.TypeFor[fs.DirEntry](),
		textMarshalerType,
		reflect.TypeFor[json.Marshaler](),
	}
)

// rawNumber is a validated JSON number literal. Every backend writes a
// json.Marshaler's output verbatim, which keeps big integers exact.
type rawNumber string

func (n rawNumber) MarshalJSON() ([]byte, error) {
	return []byte(n), nil
}

// rawJSON is a string or object already encoded by encoding/json.
type rawJSON string

func (r rawJSON) MarshalJSON() ([]byte, error) {
	return []byte(r), nil
}

// Normalize converts v into a tree of native values: nil, bool, int64,
// uint64, float32, float64, string, []any, map[string]any and exact
// number literals. Values with no native JSON form are passed to the
// default func (DefaultEncode unless WithDefault is given).
func Normalize(v any, opts ...EncodeOption) (any, error) {
	o := newEncodeOptions(opts...)
	n := &normalizer{def: o.Default}
	return n.value(reflect.ValueOf(v))
}

// canonical normalizes v into the tree every Backend encodes. On top of
// Normalize it settles whatever the JSON libraries write differently:
// floats become literals in encoding/json's format, strings and keys with
// invalid UTF-8, control characters or line separators are pre-encoded by
// encoding/json, and struct fields keep declaration order unless
// o.SortKeys is set.
func canonical(v any, o *EncodeOptions) (any, error) {
	n := &normalizer{def: o.Default, canonical: true, ordered: !o.SortKeys}
	return n.value(reflect.ValueOf(v))
}

type normalizer struct {
	def       DefaultFunc
	canonical bool
	ordered   bool
	depth     int
}

func (n *normalizer) value(rv reflect.Value) (any, error) {
	if !rv.IsValid() {
		return nil, nil
	}
	n.depth++
	defer func() { n.depth-- }()
	if n.depth > maxDepth {
		return nil, &UnsupportedValueError{Value: rv.Type().String(), Reason: fmt.Sprintf("nesting exceeds %d levels", maxDepth)}
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return n.value(rv.Elem())
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
		// a hook on the element wins over one promoted to the pointer
		if hv, ok := hooked(rv.Elem()); ok {
			return n.fallback(hv)
		}
		if hv, ok := hooked(rv); ok {
			return n.fallback(hv)
		}
		return n.value(rv.Elem())
	}

	if rv.Type() == numberType || (rv.Kind() == reflect.String && rv.Type().Implements(numberLikeType)) {
		return numberLiteral(rv.String())
	}
	if hv, ok := hooked(rv); ok {
		return n.fallback(hv)
	}

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &UnsupportedValueError{Value: f, Reason: "non-finite float"}
		}
		bits := rv.Type().Bits()
		switch {
		case n.canonical:
			return floatLiteral(f, bits), nil
		case bits == 32:
			return float32(f), nil
		}
		return f, nil
	case reflect.String:
		if n.canonical {
			return stringLiteral(rv.String())
		}
		return rv.String(), nil
	case reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
		return n.list(rv)
	case reflect.Array:
		return n.list(rv)
	case reflect.Map:
		if rv.IsNil() {
			return nil, nil
		}
		return n.object(rv)
	case reflect.Struct:
		return n.structure(rv)
	}
	// chan, func, complex, unsafe pointer
	return n.fallback(rv)
}

// fallback hands a value to the default func and normalizes the result.
func (n *normalizer) fallback(rv reflect.Value) (any, error) {
	if !rv.CanInterface() {
		return nil, &UnsupportedValueError{Value: rv.Type().String(), Reason: "unexported value"}
	}
	out, err := n.def(rv.Interface())
	if err != nil {
		return nil, err
	}
	return n.value(reflect.ValueOf(out))
}

func (n *normalizer) list(rv reflect.Value) (any, error) {
	out := make([]any, rv.Len())
	for i := range out {
		v, err := n.value(rv.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (n *normalizer) object(rv reflect.Value) (any, error) {
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, err := mapKey(iter.Key())
		if err != nil {
			return nil, err
		}
		v, err := n.value(iter.Value())
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return n.finishObject(out)
}

func (n *normalizer) structure(rv reflect.Value) (any, error) {
	fields := cachedFields(rv.Type())
	names := make([]string, 0, len(fields))
	values := make([]any, 0, len(fields))
	for _, f := range fields {
		fv, ok := fieldByIndex(rv, f.index)
		if !ok {
			continue
		}
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		if f.omitZero && fv.IsZero() {
			continue
		}
		v, err := n.value(fv)
		if err != nil {
			return nil, err
		}
		names = append(names, f.name)
		values = append(values, v)
	}
	if n.ordered {
		if obj, ok := orderedObject(names, values); ok {
			return obj, nil
		}
	}
	out := make(map[string]any, len(names))
	for i, name := range names {
		out[name] = values[i]
	}
	return n.finishObject(out)
}

// finishObject pre-encodes an object holding a key that needsLiteral.
func (n *normalizer) finishObject(out map[string]any) (any, error) {
	if !n.canonical {
		return out, nil
	}
	for k := range out {
		if needsLiteral(k) {
			return encodeLiteral(out)
		}
	}
	return out, nil
}

// orderedObject returns a struct whose fields encode as names, in order,
// holding values. Every backend writes struct fields in declaration
// order. It reports false for names a json tag cannot carry.
func orderedObject(names []string, values []any) (any, bool) {
	key := strings.Join(names, "\x00")
	t, ok := orderedCache.Load(key)
	if !ok {
		fields := make([]reflect.StructField, len(names))
		for i, name := range names {
			if !validTagName(name) {
				return nil, false
			}
			fields[i] = reflect.StructField{
				Name: "F" + strconv.Itoa(i),
				Type: anyType,
				// the trailing comma keeps a field named "-"
				Tag: reflect.StructTag(`json:"` + name + `,"`),
			}
		}
		t, _ = orderedCache.LoadOrStore(key, reflect.StructOf(fields))
	}
	sv := reflect.New(t.(reflect.Type)).Elem()
	for i, v := range values {
		if v != nil {
			sv.Field(i).Set(reflect.ValueOf(v))
		}
	}
	return sv.Interface(), true
}

var orderedCache sync.Map // map[string]reflect.Type, keyed by the joined names

// validTagName matches the names encoding/json accepts in a struct tag.
func validTagName(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case strings.ContainsRune("!#$%&()*+-./:;<=>?@[]^_{|}~ ", c):
		case !unicode.IsLetter(c) && !unicode.IsDigit(c):
			return false
		}
	}
	return true
}

// floatLiteral formats f the way encoding/json does: shortest form,
// exponent notation outside [1e-6, 1e21), exponent without a leading zero.
func floatLiteral(f float64, bits int) rawNumber {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) ||
			bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	b := strconv.AppendFloat(nil, f, format, -1, bits)
	if format == 'e' {
		// e-07 -> e-7
		if n := len(b); n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	return rawNumber(b)
}

// stringLiteral pre-encodes s when the JSON libraries disagree on it.
func stringLiteral(s string) (any, error) {
	if !needsLiteral(s) {
		return s, nil
	}
	return encodeLiteral(s)
}

// needsLiteral reports whether s holds invalid UTF-8, a control character,
// U+2028 or U+2029. encoding/json writes these as \ufffd per invalid byte,
// \b, \f and \u00XX or \u2028; the other libraries each differ somewhere.
func needsLiteral(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 {
			return true
		}
	}
	return !utf8.ValidString(s) ||
		strings.ContainsRune(s, '\u2028') || strings.ContainsRune(s, '\u2029')
}

// encodeLiteral writes v with encoding/json, HTML escaping off.
func encodeLiteral(v any) (rawJSON, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return rawJSON(bytes.TrimSuffix(buf.Bytes(), newline)), nil
}

// hooked reports whether rv needs the default func, returning the value
// to hand it. Addressable values are also checked through their pointer
// so pointer-receiver hooks (big.Int fields, for example) are found.
func hooked(rv reflect.Value) (reflect.Value, bool) {
	if typeHooked(rv.Type()) {
		return rv, true
	}
	if rv.Kind() != reflect.Pointer && rv.CanAddr() && typeHooked(reflect.PointerTo(rv.Type())) {
		return rv.Addr(), true
	}
	return rv, false
}

var hookCache sync.Map // map[reflect.Type]bool

func typeHooked(t reflect.Type) bool {
	if v, ok := hookCache.Load(t); ok {
		return v.(bool)
	}
	h := computeHooked(t)
	hookCache.Store(t, h)
	return h
}

func computeHooked(t reflect.Type) bool {
	switch t {
	case timeType, durationType, bigIntType, bigFloatType, bigRatType, fileType:
		return true
	}
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return true
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return true
		}
	case reflect.Map:
		if isSet(t) {
			return true
		}
	}
	for _, iface := range hookIfaces {
		if t.Implements(iface) {
			return true
		}
	}
	return false
}

// mapKey renders a map key the way encoding/json does: strings as is,
// then TextMarshaler, then integers.
func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if k.Type().Implements(textMarshalerType) {
		if k.Kind() == reflect.Pointer && k.IsNil() {
			return "", nil
		}
		b, err := k.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return "", &UnsupportedValueError{Value: k.Interface(), Reason: err.Error()}
		}
		return string(b), nil
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", &UnsupportedValueError{Value: k.Interface(), Reason: "unsupported map key type " + k.Type().String()}
}

// numberLiteral keeps numbers that fit 64 bits as native values and the
// rest as exact literals.
func numberLiteral(s string) (any, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return u, nil
	}
	if !validNumber(s) {
		return nil, &UnsupportedValueError{Value: s, Reason: "invalid number literal"}
	}
	return rawNumber(s), nil
}

// validNumber reports whether s is a JSON number per RFC 8259.
func validNumber(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' {
		s = s[1:]
		if s == "" {
			return false
		}
	}
	switch {
	case s[0] == '0':
		s = s[1:]
	case '1' <= s[0] && s[0] <= '9':
		s = strings.TrimLeft(s, "0123456789")
	default:
		return false
	}
	if len(s) >= 2 && s[0] == '.' && isDigit(s[1]) {
		s = strings.TrimLeft(s[1:], "0123456789")
	}
	if len(s) >= 2 && (s[0] == 'e' || s[0] == 'E') {
		s = s[1:]
		if s[0] == '+' || s[0] == '-' {
			s = s[1:]
			if s == "" {
				return false
			}
		}
		if !isDigit(s[0]) {
			return false
		}
		s = strings.TrimLeft(s, "0123456789")
	}
	return s == ""
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// field describes one encoded struct field.
type field struct {
	name      string
	index     []int
	omitEmpty bool
	omitZero  bool
}

var fieldCache sync.Map // map[reflect.Type][]field

func cachedFields(t reflect.Type) []field {
	if f, ok := fieldCache.Load(t); ok {
		return f.([]field)
	}
	f, _ := fieldCache.LoadOrStore(t, typeFields(t))
	return f.([]field)
}

// typeFields follows encoding/json's visible-field rules for tags and
// embedded structs: `json:"-"` skips, the tag name renames, untagged
// embedded structs are flattened and shallower fields shadow deeper ones.
func typeFields(t reflect.Type) []field {
	type level struct {
		typ   reflect.Type
		index []int
	}
	var (
		fields  []field
		seen    = map[string]int{} // name -> depth
		visited = map[reflect.Type]bool{}
		current []level
		next    = []level{{typ: t}}
	)
	for depth := 0; len(next) > 0; depth++ {
		current, next = next, nil
		for _, lv := range current {
			if visited[lv.typ] {
				continue
			}
			visited[lv.typ] = true
			for i := range lv.typ.NumField() {
				sf := lv.typ.Field(i)
				tag := sf.Tag.Get("json")
				if tag == "-" {
					continue
				}
				name, opts, _ := strings.Cut(tag, ",")
				index := append(cloneIndex(lv.index), i)

				if sf.Anonymous {
					ft := sf.Type
					if ft.Kind() == reflect.Pointer {
						ft = ft.Elem()
					}
					if name == "" && ft.Kind() == reflect.Struct {
						next = append(next, level{typ: ft, index: index})
						continue
					}
					if !sf.IsExported() && ft.Kind() != reflect.Struct {
						continue
					}
				} else if !sf.IsExported() {
					continue
				}

				if name == "" {
					name = sf.Name
				}
				if d, ok := seen[name]; ok && d < depth {
					continue
				}
				seen[name] = depth
				fields = append(fields, field{
					name:      name,
					index:     index,
					omitEmpty: hasOption(opts, "omitempty"),
					omitZero:  hasOption(opts, "omitzero"),
				})
			}
		}
	}
	return fields
}

func cloneIndex(index []int) []int {
	return append(make([]int, 0, len(index)+1), index...)
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == want {
			return true
		}
	}
	return false
}

// fieldByIndex walks embedded pointers, reporting false at a nil one.
func fieldByIndex(rv reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return reflect.Value{}, false
			}
			rv = rv.Elem()
		}
		rv = rv.Field(x)
	}
	return rv, true
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

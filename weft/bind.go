package weft

import (
	"fmt"
	"math"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
)

// ============================================================
// Go Value Binding
// ============================================================
//
// Marshal and Unmarshal convert between native Go values and the value
// tree, mirroring encoding/json's conventions. Struct fields keep their
// declaration order; map keys are sorted, since Go maps have no order of
// their own. Field names default to snake_case and may be overridden with a
// `weft` tag:
//
//	type Item struct {
//		SKU      string  `weft:"sku"`
//		Quantity int     // emitted as "quantity"
//		Note     string  `weft:"note,omitempty"`
//		Internal string  `weft:"-"`
//	}

var (
	valuePtrType = reflect.TypeOf((*Value)(nil))
	timeType     = reflect.TypeOf(time.Time{})
	urlType      = reflect.TypeOf(url.URL{})
)

// Marshal converts a Go value into a Value.
func Marshal(in interface{}) (*Value, error) {
	if in == nil {
		return Null(), nil
	}
	return marshalReflect(reflect.ValueOf(in))
}

func marshalReflect(rv reflect.Value) (*Value, error) {
	if !rv.IsValid() {
		return Null(), nil
	}

	switch rv.Type() {
	case valuePtrType:
		v := rv.Interface().(*Value)
		if v == nil {
			return Null(), nil
		}
		return v, nil
	case timeType:
		return Date(rv.Interface().(time.Time)), nil
	case urlType:
		u := rv.Interface().(url.URL)
		return URL(&u), nil
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return marshalReflect(rv.Elem())

	case reflect.Bool:
		return Bool(rv.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("weft: %d overflows int64", u)
		}
		return Int(int64(u)), nil

	case reflect.Float32, reflect.Float64:
		return Double(rv.Float()), nil

	case reflect.String:
		return String(rv.String()), nil

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Binary(rv.Bytes()), nil
		}
		if rv.IsNil() {
			return Null(), nil
		}
		return marshalSequence(rv)

	case reflect.Array:
		return marshalSequence(rv)

	case reflect.Map:
		return marshalMap(rv)

	case reflect.Struct:
		fields, err := marshalStructFields(rv)
		if err != nil {
			return nil, err
		}
		return Object(fields...), nil

	default:
		return nil, fmt.Errorf("weft: cannot marshal %s", rv.Type())
	}
}

func marshalSequence(rv reflect.Value) (*Value, error) {
	elems := make([]*Value, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		v, err := marshalReflect(rv.Index(i))
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		elems[i] = v
	}
	return Array(elems...), nil
}

func marshalMap(rv reflect.Value) (*Value, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("weft: map key type %s is not a string", rv.Type().Key())
	}
	if rv.IsNil() {
		return Null(), nil
	}
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		v, err := marshalReflect(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())))
		if err != nil {
			return nil, fmt.Errorf("%q: %w", k, err)
		}
		fields = append(fields, Field{Name: k, Value: v})
	}
	return Object(fields...), nil
}

func marshalStructFields(rv reflect.Value) ([]Field, error) {
	rt := rv.Type()
	var fields []Field
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}
		name, omitEmpty, skip := fieldName(sf)
		if skip {
			continue
		}
		fv := rv.Field(i)

		// anonymous embedded structs flatten into the parent
		if sf.Anonymous && sf.Tag.Get("weft") == "" && sf.Type.Kind() == reflect.Struct &&
			sf.Type != timeType && sf.Type != urlType {
			nested, err := marshalStructFields(fv)
			if err != nil {
				return nil, err
			}
			fields = append(fields, nested...)
			continue
		}

		if omitEmpty && isEmptyValue(fv) {
			continue
		}
		v, err := marshalReflect(fv)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", sf.Name, err)
		}
		fields = append(fields, Field{Name: name, Value: v})
	}
	return fields, nil
}

// fieldName resolves a struct field's wire name from its tag, defaulting to
// the snake_case of the Go name.
func fieldName(sf reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := sf.Tag.Get("weft")
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = strcase.ToSnake(sf.Name)
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

func isEmptyValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.String:
		return rv.Len() == 0
	default:
		return rv.IsZero()
	}
}

// Unmarshal populates a Go value from a Value. out must be a non-nil
// pointer. Object keys with no matching field are ignored.
func Unmarshal(v *Value, out interface{}) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("weft: Unmarshal target must be a non-nil pointer, got %T", out)
	}
	return unmarshalReflect(v, rv.Elem())
}

func unmarshalReflect(v *Value, rv reflect.Value) error {
	if rv.Type() == valuePtrType {
		rv.Set(reflect.ValueOf(v))
		return nil
	}

	if v.IsNull() {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}

	switch rv.Type() {
	case timeType:
		if t, ok := v.DateValue(); ok {
			rv.Set(reflect.ValueOf(t))
			return nil
		}
		if s, ok := v.StringValue(); ok {
			t, err := time.Parse(time.RFC3339Nano, s)
			if err == nil {
				rv.Set(reflect.ValueOf(t))
				return nil
			}
		}
		return unmarshalError(v, rv)
	case urlType:
		if u, ok := v.URLValue(); ok {
			rv.Set(reflect.ValueOf(*u))
			return nil
		}
		if s, ok := v.StringValue(); ok {
			u, err := url.Parse(s)
			if err == nil && u.Scheme != "" {
				rv.Set(reflect.ValueOf(*u))
				return nil
			}
		}
		return unmarshalError(v, rv)
	}

	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return unmarshalReflect(v, rv.Elem())

	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return unmarshalError(v, rv)
		}
		rv.Set(reflect.ValueOf(nativeValue(v)))
		return nil

	case reflect.Bool:
		if b, ok := v.BoolValue(); ok {
			rv.SetBool(b)
			return nil
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if i, ok := v.IntValue(); ok && !rv.OverflowInt(i) {
			rv.SetInt(i)
			return nil
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if i, ok := v.IntValue(); ok && i >= 0 && !rv.OverflowUint(uint64(i)) {
			rv.SetUint(uint64(i))
			return nil
		}

	case reflect.Float32, reflect.Float64:
		if f, ok := v.DoubleValue(); ok {
			rv.SetFloat(f)
			return nil
		}

	case reflect.String:
		if s, ok := v.StringValue(); ok {
			rv.SetString(s)
			return nil
		}

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			if b, ok := v.BinaryValue(); ok {
				rv.SetBytes(append([]byte(nil), b...))
				return nil
			}
		}
		if elems, ok := v.ArrayValue(); ok {
			out := reflect.MakeSlice(rv.Type(), len(elems), len(elems))
			for i, e := range elems {
				if err := unmarshalReflect(e, out.Index(i)); err != nil {
					return fmt.Errorf("[%d]: %w", i, err)
				}
			}
			rv.Set(out)
			return nil
		}

	case reflect.Map:
		if fields, ok := v.ObjectFields(); ok {
			return unmarshalIntoMap(fields, rv)
		}

	case reflect.Struct:
		if fields, ok := v.ObjectFields(); ok {
			return unmarshalIntoStruct(fields, rv)
		}
	}

	return unmarshalError(v, rv)
}

func unmarshalError(v *Value, rv reflect.Value) error {
	return fmt.Errorf("weft: cannot unmarshal %s into %s", v.Kind(), rv.Type())
}

func unmarshalIntoMap(fields []Field, rv reflect.Value) error {
	if rv.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("weft: map key type %s is not a string", rv.Type().Key())
	}
	out := reflect.MakeMapWithSize(rv.Type(), len(fields))
	for _, f := range fields {
		ev := reflect.New(rv.Type().Elem()).Elem()
		if err := unmarshalReflect(f.Value, ev); err != nil {
			return fmt.Errorf("%q: %w", f.Name, err)
		}
		out.SetMapIndex(reflect.ValueOf(f.Name).Convert(rv.Type().Key()), ev)
	}
	rv.Set(out)
	return nil
}

func unmarshalIntoStruct(fields []Field, rv reflect.Value) error {
	targets := make(map[string]reflect.Value)
	collectFieldTargets(rv, targets)
	for _, f := range fields {
		target, ok := targets[f.Name]
		if !ok {
			continue // unknown keys are ignored
		}
		if err := unmarshalReflect(f.Value, target); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return nil
}

func collectFieldTargets(rv reflect.Value, targets map[string]reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		name, _, skip := fieldName(sf)
		if skip {
			continue
		}
		if sf.Anonymous && sf.Tag.Get("weft") == "" && sf.Type.Kind() == reflect.Struct &&
			sf.Type != timeType && sf.Type != urlType {
			collectFieldTargets(rv.Field(i), targets)
			continue
		}
		if _, dup := targets[name]; !dup {
			targets[name] = rv.Field(i)
		}
	}
}

// nativeValue materializes a Value as plain Go data. Objects become
// map[string]interface{}, which cannot carry key order; callers that need
// order must work with the Value itself.
func nativeValue(v *Value) interface{} {
	switch v.Kind() {
	case KindNull:
		return nil
	case KindBool:
		return v.boolVal
	case KindInt:
		return v.intVal
	case KindDouble:
		return v.doubleVal
	case KindString:
		return v.strVal
	case KindDate:
		return v.dateVal
	case KindURL:
		return v.urlVal
	case KindBinary:
		return append([]byte(nil), v.binVal...)
	case KindArray:
		out := make([]interface{}, len(v.arrVal))
		for i, e := range v.arrVal {
			out[i] = nativeValue(e)
		}
		return out
	case KindObject:
		out := make(map[string]interface{}, len(v.objVal))
		for _, f := range v.objVal {
			out[f.Name] = nativeValue(f.Value)
		}
		return out
	default:
		return nil
	}
}

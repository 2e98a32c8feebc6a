package weft

import (
	"net/url"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindDouble
	KindString
	KindDate
	KindURL
	KindBinary
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindURL:
		return "url"
	case KindBinary:
		return "binary"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value represents a WEFT value. Values are immutable after construction;
// derivation helpers such as WithField and Append return new Values.
type Value struct {
	kind Kind

	// Scalar payloads (only one valid based on kind)
	boolVal   bool
	intVal    int64
	doubleVal float64
	strVal    string
	dateVal   time.Time
	urlVal    *url.URL
	binVal    []byte

	// Container payloads
	arrVal []*Value
	objVal []Field
}

// Field is a single named entry of an object. Object fields keep their
// declaration order, which is significant in WEFT.
type Field struct {
	Name  string
	Value *Value
}

// F creates a Field for use in Object construction.
func F(name string, value *Value) Field {
	return Field{Name: name, Value: value}
}

// ============================================================
// Constructors
// ============================================================

// Null creates a null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{kind: KindBool, boolVal: v}
}

// Int creates an integer value.
func Int(v int64) *Value {
	return &Value{kind: KindInt, intVal: v}
}

// Double creates a floating-point value.
func Double(v float64) *Value {
	return &Value{kind: KindDouble, doubleVal: v}
}

// String creates a string value.
func String(v string) *Value {
	return &Value{kind: KindString, strVal: v}
}

// Date creates a date value.
func Date(v time.Time) *Value {
	return &Value{kind: KindDate, dateVal: v}
}

// URL creates a URL value.
func URL(v *url.URL) *Value {
	return &Value{kind: KindURL, urlVal: v}
}

// Binary creates a binary value. The byte slice is not copied; callers must
// not modify it afterwards.
func Binary(v []byte) *Value {
	return &Value{kind: KindBinary, binVal: v}
}

// Array creates an array value. Element order is preserved exactly.
func Array(elems ...*Value) *Value {
	return &Value{kind: KindArray, arrVal: elems}
}

// Object creates an object value from ordered fields.
func Object(fields ...Field) *Value {
	return &Value{kind: KindObject, objVal: fields}
}

// ObjectOf creates an object from a mapping plus an explicit key order.
// Keys listed in keyOrder but absent from the mapping are silently skipped,
// which tolerates incremental construction. Duplicate keys in keyOrder take
// their first occurrence. Mapping keys not listed in keyOrder are dropped.
func ObjectOf(mapping map[string]*Value, keyOrder []string) *Value {
	fields := make([]Field, 0, len(keyOrder))
	seen := make(map[string]bool, len(keyOrder))
	for _, k := range keyOrder {
		if seen[k] {
			continue
		}
		seen[k] = true
		v, ok := mapping[k]
		if !ok {
			continue
		}
		fields = append(fields, Field{Name: k, Value: v})
	}
	return &Value{kind: KindObject, objVal: fields}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind. A nil Value is null.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// BoolValue returns the boolean payload if the kind matches.
func (v *Value) BoolValue() (bool, bool) {
	if v == nil || v.kind != KindBool {
		return false, false
	}
	return v.boolVal, true
}

// IntValue returns the integer payload if the kind matches. A Double is
// never truncated to an integer.
func (v *Value) IntValue() (int64, bool) {
	if v == nil || v.kind != KindInt {
		return 0, false
	}
	return v.intVal, true
}

// DoubleValue returns the floating-point payload. An Int also succeeds,
// widened losslessly; this is the only cross-kind coercion.
func (v *Value) DoubleValue() (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch v.kind {
	case KindDouble:
		return v.doubleVal, true
	case KindInt:
		return float64(v.intVal), true
	default:
		return 0, false
	}
}

// StringValue returns the string payload if the kind matches.
func (v *Value) StringValue() (string, bool) {
	if v == nil || v.kind != KindString {
		return "", false
	}
	return v.strVal, true
}

// DateValue returns the date payload if the kind matches.
func (v *Value) DateValue() (time.Time, bool) {
	if v == nil || v.kind != KindDate {
		return time.Time{}, false
	}
	return v.dateVal, true
}

// URLValue returns the URL payload if the kind matches.
func (v *Value) URLValue() (*url.URL, bool) {
	if v == nil || v.kind != KindURL {
		return nil, false
	}
	return v.urlVal, true
}

// BinaryValue returns the binary payload if the kind matches. Callers must
// not modify the returned slice.
func (v *Value) BinaryValue() ([]byte, bool) {
	if v == nil || v.kind != KindBinary {
		return nil, false
	}
	return v.binVal, true
}

// ArrayValue returns the elements if the kind matches. Callers must not
// modify the returned slice.
func (v *Value) ArrayValue() ([]*Value, bool) {
	if v == nil || v.kind != KindArray {
		return nil, false
	}
	return v.arrVal, true
}

// ObjectFields returns the ordered fields if the kind matches. Callers must
// not modify the returned slice.
func (v *Value) ObjectFields() ([]Field, bool) {
	if v == nil || v.kind != KindObject {
		return nil, false
	}
	return v.objVal, true
}

// Field returns the value of a named object field.
func (v *Value) Field(name string) (*Value, bool) {
	if v == nil || v.kind != KindObject {
		return nil, false
	}
	for _, f := range v.objVal {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns an object's key order. Callers must not modify the returned
// slice's backing entries.
func (v *Value) Keys() []string {
	if v == nil || v.kind != KindObject {
		return nil
	}
	keys := make([]string, len(v.objVal))
	for i, f := range v.objVal {
		keys[i] = f.Name
	}
	return keys
}

// Index returns the i-th array element.
func (v *Value) Index(i int) (*Value, bool) {
	if v == nil || v.kind != KindArray || i < 0 || i >= len(v.arrVal) {
		return nil, false
	}
	return v.arrVal[i], true
}

// Len returns the element count of an array or field count of an object.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case KindArray:
		return len(v.arrVal)
	case KindObject:
		return len(v.objVal)
	default:
		return 0
	}
}

// ============================================================
// Derivation
// ============================================================

// WithField returns a new object with the named field replaced in place, or
// appended if absent. The receiver must be an object and is not modified.
func (v *Value) WithField(name string, val *Value) *Value {
	if v == nil || v.kind != KindObject {
		return Object(Field{Name: name, Value: val})
	}
	fields := make([]Field, len(v.objVal), len(v.objVal)+1)
	copy(fields, v.objVal)
	for i := range fields {
		if fields[i].Name == name {
			fields[i].Value = val
			return &Value{kind: KindObject, objVal: fields}
		}
	}
	fields = append(fields, Field{Name: name, Value: val})
	return &Value{kind: KindObject, objVal: fields}
}

// Append returns a new array with the given elements appended. The receiver
// must be an array and is not modified.
func (v *Value) Append(elems ...*Value) *Value {
	if v == nil || v.kind != KindArray {
		return Array(elems...)
	}
	out := make([]*Value, 0, len(v.arrVal)+len(elems))
	out = append(out, v.arrVal...)
	out = append(out, elems...)
	return &Value{kind: KindArray, arrVal: out}
}

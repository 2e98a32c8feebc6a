package weft

// IsNull returns true for a null value.
func (v *Value) IsNull() bool {
	return v == nil || v.kind == KindNull
}

// IsPrimitive returns true for every leaf kind: null, bool, int, double,
// string, date, url and binary. Arrays and objects are containers. Producers
// use this to decide whether a node can be rendered on a single line.
func (v *Value) IsPrimitive() bool {
	if v == nil {
		return true
	}
	switch v.kind {
	case KindArray, KindObject:
		return false
	default:
		return true
	}
}

// IsArray returns true for an array value.
func (v *Value) IsArray() bool {
	return v != nil && v.kind == KindArray
}

// IsObject returns true for an object value.
func (v *Value) IsObject() bool {
	return v != nil && v.kind == KindObject
}

// IsArrayOfPrimitives returns true for an array whose elements are all
// primitive. An empty array satisfies this vacuously.
func (v *Value) IsArrayOfPrimitives() bool {
	if !v.IsArray() {
		return false
	}
	for _, e := range v.arrVal {
		if !e.IsPrimitive() {
			return false
		}
	}
	return true
}

// IsArrayOfArrays returns true for an array whose elements are all arrays.
// An empty array satisfies this vacuously.
func (v *Value) IsArrayOfArrays() bool {
	if !v.IsArray() {
		return false
	}
	for _, e := range v.arrVal {
		if !e.IsArray() {
			return false
		}
	}
	return true
}

// IsArrayOfObjects returns true for an array whose elements are all objects.
// An empty array satisfies this vacuously. The emitter requires this before
// considering tabular form.
func (v *Value) IsArrayOfObjects() bool {
	if !v.IsArray() {
		return false
	}
	for _, e := range v.arrVal {
		if !e.IsObject() {
			return false
		}
	}
	return true
}

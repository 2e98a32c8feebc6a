package weft

import (
	"bytes"
	"math"
)

// Equal reports structural equality: identical kinds and payloads, with
// array element order and object field order both significant. Two objects
// holding the same fields in different orders are not equal. Dates compare
// by instant, NaN compares equal to NaN.
func (v *Value) Equal(o *Value) bool {
	if v.Kind() != o.Kind() {
		return false
	}
	if v == nil || o == nil {
		return true // both null
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolVal == o.boolVal
	case KindInt:
		return v.intVal == o.intVal
	case KindDouble:
		if math.IsNaN(v.doubleVal) && math.IsNaN(o.doubleVal) {
			return true
		}
		return v.doubleVal == o.doubleVal
	case KindString:
		return v.strVal == o.strVal
	case KindDate:
		return v.dateVal.Equal(o.dateVal)
	case KindURL:
		if v.urlVal == nil || o.urlVal == nil {
			return v.urlVal == o.urlVal
		}
		return v.urlVal.String() == o.urlVal.String()
	case KindBinary:
		return bytes.Equal(v.binVal, o.binVal)
	case KindArray:
		if len(v.arrVal) != len(o.arrVal) {
			return false
		}
		for i := range v.arrVal {
			if !v.arrVal[i].Equal(o.arrVal[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.objVal) != len(o.objVal) {
			return false
		}
		for i := range v.objVal {
			if v.objVal[i].Name != o.objVal[i].Name {
				return false
			}
			if !v.objVal[i].Value.Equal(o.objVal[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

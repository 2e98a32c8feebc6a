package weft

import "fmt"

// Decode reconstructs a Value from a source node. The three container shapes
// are probed in fixed order, first success wins:
//
//  1. Keyed, provided it yields at least one key. A successful-but-empty
//     keyed view falls through: some sources report an empty keyed view even
//     for non-object data, and requiring a key disambiguates. A key repeated
//     within one view is a DecodeError, never a silent overwrite.
//  2. List. An empty list view is accepted and yields an empty array.
//  3. Scalar, classified by trying null, int, bool, double, string — in that
//     exact order, stopping at the first success. The order is a
//     compatibility contract: trying bool late keeps 0/1 integers numeric,
//     and trying string last keeps numbers from classifying as text.
//
// Date, URL and Binary are never produced here; they require an explicitly
// typed decode context. If every probe fails, Decode returns a *DecodeError
// addressing the node and no partial Value.
func Decode(src Source) (*Value, error) {
	return decodeNode(src, "$")
}

func decodeNode(src Source, path string) (*Value, error) {
	if ks, ok := src.Keyed(); ok {
		keys := ks.Keys()
		if len(keys) > 0 {
			return decodeObject(ks, keys, path)
		}
	}

	if ls, ok := src.List(); ok {
		return decodeArray(ls, path)
	}

	if ss, ok := src.Scalar(); ok {
		if ss.Null() {
			return Null(), nil
		}
		if i, ok := ss.Int(); ok {
			return Int(i), nil
		}
		if b, ok := ss.Bool(); ok {
			return Bool(b), nil
		}
		if f, ok := ss.Double(); ok {
			return Double(f), nil
		}
		if s, ok := ss.String(); ok {
			return String(s), nil
		}
		return nil, &DecodeError{Path: path, Reason: "scalar matches none of null, int, bool, double, string"}
	}

	return nil, &DecodeError{Path: path, Reason: "node offers no keyed, list or scalar view"}
}

func decodeObject(ks KeyedSource, keys []string, path string) (*Value, error) {
	fields := make([]Field, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		// Field lookup is by name, so a repeated key could only ever
		// resolve to its first value. Refuse rather than drop data.
		if _, dup := seen[k]; dup {
			return nil, &DecodeError{Path: path + "." + k, Reason: fmt.Sprintf("duplicate key %q", k)}
		}
		seen[k] = struct{}{}
		child, ok := ks.Field(k)
		if !ok {
			return nil, &DecodeError{Path: path + "." + k, Reason: "key announced but field missing"}
		}
		v, err := decodeNode(child, path+"."+k)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: k, Value: v})
	}
	return Object(fields...), nil
}

func decodeArray(ls ListSource, path string) (*Value, error) {
	n := ls.Len()
	elems := make([]*Value, 0, n)
	for i := 0; i < n; i++ {
		v, err := decodeNode(ls.Index(i), fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return Array(elems...), nil
}

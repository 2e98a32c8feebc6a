package weft

import "fmt"

// Encode serializes a Value into a sink. Scalars go to their single-value
// writers, arrays stream elements in order, and objects stream fields in
// their held order — never a sorted or hashed order. Given a sink/source
// pair that round-trips scalars exactly, Decode(Encode(v)) equals v.
func Encode(v *Value, sink Sink) error {
	switch v.Kind() {
	case KindNull:
		return sink.Null()
	case KindBool:
		return sink.Bool(v.boolVal)
	case KindInt:
		return sink.Int(v.intVal)
	case KindDouble:
		return sink.Double(v.doubleVal)
	case KindString:
		return sink.String(v.strVal)
	case KindDate:
		return sink.Date(v.dateVal)
	case KindURL:
		return sink.URL(v.urlVal)
	case KindBinary:
		return sink.Binary(v.binVal)
	case KindArray:
		if err := sink.BeginArray(); err != nil {
			return err
		}
		for _, e := range v.arrVal {
			if err := Encode(e, sink); err != nil {
				return err
			}
		}
		return sink.EndArray()
	case KindObject:
		if err := sink.BeginObject(); err != nil {
			return err
		}
		for _, f := range v.objVal {
			if err := sink.Key(f.Name); err != nil {
				return err
			}
			if err := Encode(f.Value, sink); err != nil {
				return err
			}
		}
		return sink.EndObject()
	default:
		return fmt.Errorf("weft: unknown kind %d", v.Kind())
	}
}

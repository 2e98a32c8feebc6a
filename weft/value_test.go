package weft

import (
	"math"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		name string
	}{
		{KindNull, "null"},
		{KindBool, "bool"},
		{KindInt, "int"},
		{KindDouble, "double"},
		{KindString, "string"},
		{KindDate, "date"},
		{KindURL, "url"},
		{KindBinary, "binary"},
		{KindArray, "array"},
		{KindObject, "object"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.kind.String())
	}
}

func TestAccessors_MatchingKind(t *testing.T) {
	b, ok := Bool(true).BoolValue()
	require.True(t, ok)
	assert.True(t, b)

	i, ok := Int(42).IntValue()
	require.True(t, ok)
	assert.Equal(t, int64(42), i)

	s, ok := String("hi").StringValue()
	require.True(t, ok)
	assert.Equal(t, "hi", s)

	now := time.Now()
	d, ok := Date(now).DateValue()
	require.True(t, ok)
	assert.True(t, now.Equal(d))

	u, ok := URL(mustURL(t, "https://example.com/a")).URLValue()
	require.True(t, ok)
	assert.Equal(t, "https://example.com/a", u.String())

	bin, ok := Binary([]byte{1, 2}).BinaryValue()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2}, bin)

	elems, ok := Array(Int(1), Int(2)).ArrayValue()
	require.True(t, ok)
	assert.Len(t, elems, 2)

	fields, ok := Object(F("a", Int(1))).ObjectFields()
	require.True(t, ok)
	assert.Equal(t, "a", fields[0].Name)
}

func TestAccessors_MismatchedKind(t *testing.T) {
	v := String("1")
	_, ok := v.BoolValue()
	assert.False(t, ok)
	_, ok = v.IntValue()
	assert.False(t, ok)
	_, ok = v.DoubleValue()
	assert.False(t, ok)
	_, ok = v.ArrayValue()
	assert.False(t, ok)
	_, ok = v.ObjectFields()
	assert.False(t, ok)
}

func TestDoubleValue_WidensInt(t *testing.T) {
	f, ok := Int(7).DoubleValue()
	require.True(t, ok)
	assert.Equal(t, 7.0, f)

	// the coercion is one-way: a double never truncates to int
	_, ok = Double(7.0).IntValue()
	assert.False(t, ok)
}

func TestIsPrimitive(t *testing.T) {
	primitives := []*Value{
		Null(), Bool(false), Int(0), Double(0), String(""),
		Date(time.Time{}), URL(mustURL(t, "https://x")), Binary(nil),
	}
	for _, v := range primitives {
		assert.True(t, v.IsPrimitive(), "%s should be primitive", v.Kind())
	}
	assert.False(t, Array().IsPrimitive())
	assert.False(t, Object().IsPrimitive())
}

func TestArrayShapes(t *testing.T) {
	tests := []struct {
		name    string
		v       *Value
		prims   bool
		arrays  bool
		objects bool
	}{
		{"empty array satisfies all vacuously", Array(), true, true, true},
		{"primitives", Array(Int(1), String("x"), Null()), true, false, false},
		{"arrays", Array(Array(Int(1)), Array()), false, true, false},
		{"objects", Array(Object(F("a", Int(1))), Object()), false, false, true},
		{"heterogeneous", Array(Int(1), Object()), false, false, false},
		{"mixed scalar and string", Array(Int(1), String("x")), true, false, false},
		{"not an array", Object(), false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.prims, tt.v.IsArrayOfPrimitives())
			assert.Equal(t, tt.arrays, tt.v.IsArrayOfArrays())
			assert.Equal(t, tt.objects, tt.v.IsArrayOfObjects())
		})
	}
}

func TestObjectOf_SkipsOrphanKeys(t *testing.T) {
	mapping := map[string]*Value{"a": Int(1), "b": Int(2)}

	// "ghost" is listed but absent from the mapping: silently skipped
	v := ObjectOf(mapping, []string{"b", "ghost", "a"})
	assert.Equal(t, []string{"b", "a"}, v.Keys())

	// duplicate keys keep their first occurrence
	v = ObjectOf(mapping, []string{"a", "b", "a"})
	assert.Equal(t, []string{"a", "b"}, v.Keys())

	// mapping entries not listed in keyOrder are dropped
	v = ObjectOf(mapping, []string{"b"})
	assert.Equal(t, []string{"b"}, v.Keys())
}

func TestField_Lookup(t *testing.T) {
	v := Object(F("a", Int(1)), F("b", Int(2)))

	got, ok := v.Field("b")
	require.True(t, ok)
	assert.True(t, got.Equal(Int(2)))

	_, ok = v.Field("missing")
	assert.False(t, ok)

	_, ok = Int(1).Field("a")
	assert.False(t, ok)
}

func TestWithField_DoesNotMutate(t *testing.T) {
	orig := Object(F("a", Int(1)))

	updated := orig.WithField("a", Int(9))
	replaced, _ := updated.Field("a")
	assert.True(t, replaced.Equal(Int(9)))

	appended := orig.WithField("b", Int(2))
	assert.Equal(t, []string{"a", "b"}, appended.Keys())

	// the original is untouched either way
	av, _ := orig.Field("a")
	assert.True(t, av.Equal(Int(1)))
	assert.Equal(t, 1, orig.Len())
}

func TestAppend_DoesNotMutate(t *testing.T) {
	orig := Array(Int(1))
	grown := orig.Append(Int(2), Int(3))

	assert.Equal(t, 1, orig.Len())
	assert.Equal(t, 3, grown.Len())
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  *Value
		equal bool
	}{
		{"null", Null(), Null(), true},
		{"nil is null", nil, Null(), true},
		{"int", Int(1), Int(1), true},
		{"int vs double", Int(1), Double(1), false},
		{"double nan", Double(math.NaN()), Double(math.NaN()), true},
		{"string", String("a"), String("a"), true},
		{"binary", Binary([]byte{1}), Binary([]byte{1}), true},
		{"binary differs", Binary([]byte{1}), Binary([]byte{2}), false},
		{"array order", Array(Int(1), Int(2)), Array(Int(2), Int(1)), false},
		{
			"same fields same order",
			Object(F("a", Int(1)), F("b", Int(2))),
			Object(F("a", Int(1)), F("b", Int(2))),
			true,
		},
		{
			// same mapping, different key order: not equal
			"same fields different order",
			Object(F("a", Int(1)), F("b", Int(2))),
			Object(F("b", Int(2)), F("a", Int(1))),
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b))
			assert.Equal(t, tt.equal, tt.b.Equal(tt.a))
		})
	}
}

func TestEqual_Dates(t *testing.T) {
	utc := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	offset := utc.In(time.FixedZone("X", 3600))
	assert.True(t, Date(utc).Equal(Date(offset)), "dates compare by instant")
}

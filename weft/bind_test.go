package weft

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderLine struct {
	SKU      string `weft:"sku"`
	Quantity int
	Note     string `weft:"note,omitempty"`
	Internal string `weft:"-"`
}

type order struct {
	ID      string
	Total   float64
	Lines   []orderLine
	Created time.Time
	Site    *url.URL
	Blob    []byte
	Extra   map[string]int
}

func TestMarshal_Struct(t *testing.T) {
	v, err := Marshal(orderLine{SKU: "a1", Quantity: 2, Internal: "hidden"})
	require.NoError(t, err)

	// declaration order, snake_case defaults, omitempty and "-" honored
	assert.Equal(t, []string{"sku", "quantity"}, v.Keys())

	sku, _ := v.Field("sku")
	assert.True(t, sku.Equal(String("a1")))
	qty, _ := v.Field("quantity")
	assert.True(t, qty.Equal(Int(2)))
}

func TestMarshal_SpecialTypes(t *testing.T) {
	created := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	site := &url.URL{Scheme: "https", Host: "example.com"}

	v, err := Marshal(order{
		ID:      "o1",
		Created: created,
		Site:    site,
		Blob:    []byte{1, 2, 3},
	})
	require.NoError(t, err)

	c, _ := v.Field("created")
	assert.Equal(t, KindDate, c.Kind())
	s, _ := v.Field("site")
	assert.Equal(t, KindURL, s.Kind())
	b, _ := v.Field("blob")
	assert.Equal(t, KindBinary, b.Kind())
}

func TestMarshal_MapKeysSorted(t *testing.T) {
	v, err := Marshal(map[string]int{"b": 2, "a": 1, "c": 3})
	require.NoError(t, err)
	// maps carry no order of their own, so the binder invents a stable one
	assert.Equal(t, []string{"a", "b", "c"}, v.Keys())
}

func TestMarshal_Scalars(t *testing.T) {
	tests := []struct {
		in   interface{}
		want *Value
	}{
		{nil, Null()},
		{true, Bool(true)},
		{42, Int(42)},
		{int8(-3), Int(-3)},
		{uint16(7), Int(7)},
		{1.5, Double(1.5)},
		{float32(0.5), Double(0.5)},
		{"x", String("x")},
		{[]int{1, 2}, Array(Int(1), Int(2))},
	}
	for _, tt := range tests {
		v, err := Marshal(tt.in)
		require.NoError(t, err)
		assert.True(t, v.Equal(tt.want), "%v: got %s", tt.in, v.Kind())
	}
}

func TestMarshal_Unsupported(t *testing.T) {
	_, err := Marshal(make(chan int))
	assert.Error(t, err)

	_, err = Marshal(map[int]string{1: "x"})
	assert.Error(t, err)
}

func TestUnmarshal_Struct(t *testing.T) {
	v := Object(
		F("sku", String("b7")),
		F("quantity", Int(9)),
		F("note", String("fragile")),
		F("unknown", Int(1)), // ignored
	)
	var line orderLine
	require.NoError(t, Unmarshal(v, &line))
	assert.Equal(t, orderLine{SKU: "b7", Quantity: 9, Note: "fragile"}, line)
}

func TestUnmarshal_RoundTrip(t *testing.T) {
	in := order{
		ID:      "o1",
		Total:   99.5,
		Lines:   []orderLine{{SKU: "a1", Quantity: 2}, {SKU: "b7", Quantity: 9}},
		Created: time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
		Site:    &url.URL{Scheme: "https", Host: "example.com"},
		Blob:    []byte("raw"),
		Extra:   map[string]int{"x": 1},
	}
	v, err := Marshal(in)
	require.NoError(t, err)

	var out order
	require.NoError(t, Unmarshal(v, &out))
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Total, out.Total)
	assert.Equal(t, in.Lines, out.Lines)
	assert.True(t, in.Created.Equal(out.Created))
	assert.Equal(t, in.Site.String(), out.Site.String())
	assert.Equal(t, in.Blob, out.Blob)
	assert.Equal(t, in.Extra, out.Extra)
}

func TestUnmarshal_Interface(t *testing.T) {
	v := Object(F("a", Int(1)), F("b", Array(String("x"), Null())))
	var out interface{}
	require.NoError(t, Unmarshal(v, &out))
	assert.Equal(t, map[string]interface{}{
		"a": int64(1),
		"b": []interface{}{"x", nil},
	}, out)
}

func TestUnmarshal_KindMismatch(t *testing.T) {
	var n int
	err := Unmarshal(String("7"), &n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot unmarshal")

	// doubles never silently truncate into ints
	err = Unmarshal(Double(7.0), &n)
	require.Error(t, err)

	// but ints widen into floats
	var f float64
	require.NoError(t, Unmarshal(Int(7), &f))
	assert.Equal(t, 7.0, f)
}

func TestUnmarshal_BadTarget(t *testing.T) {
	assert.Error(t, Unmarshal(Int(1), nil))
	var n int
	assert.Error(t, Unmarshal(Int(1), n))
}

func TestUnmarshal_NullZeroes(t *testing.T) {
	out := orderLine{SKU: "left-over"}
	require.NoError(t, Unmarshal(Object(F("sku", Null())), &out))
	assert.Equal(t, "", out.SKU)
}

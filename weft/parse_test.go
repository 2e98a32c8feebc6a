package weft

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseText_Scalars(t *testing.T) {
	tests := []struct {
		input string
		want  *Value
	}{
		{"~", Null()},
		{"null", Null()},
		{"true", Bool(true)},
		{"false", Bool(false)},
		{"42", Int(42)},
		{"-7", Int(-7)},
		{"1.5", Double(1.5)},
		{"2e3", Double(2000)},
		{"inf", Double(math.Inf(1))},
		{"-inf", Double(math.Inf(-1))},
		{"word", String("word")},
		{`"two words"`, String("two words")},
		{`"1"`, String("1")},
		{"@2026-08-29T10:00:00Z", Date(time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC))},
		{"@2026-08-29", Date(time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC))},
		{"<https://example.com/a?b=c>", URL(mustURL(t, "https://example.com/a?b=c"))},
		{`b64"aGVsbG8="`, Binary([]byte("hello"))},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseText(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got.Kind(), tt.want.Kind())
		})
	}
}

func TestParseText_NaN(t *testing.T) {
	got, err := ParseText("nan")
	require.NoError(t, err)
	f, ok := got.DoubleValue()
	require.True(t, ok)
	assert.True(t, math.IsNaN(f))
}

func TestParseText_Containers(t *testing.T) {
	got, err := ParseText(`{name: order-7 lines: [1 2.0 "x"] empty: [] meta: {ok: true}}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "lines", "empty", "meta"}, got.Keys())

	lines, _ := got.Field("lines")
	assert.True(t, lines.Equal(Array(Int(1), Double(2.0), String("x"))))

	empty, _ := got.Field("empty")
	assert.True(t, empty.Equal(Array()))

	meta, _ := got.Field("meta")
	ok, _ := meta.Field("ok")
	assert.True(t, ok.Equal(Bool(true)))
}

func TestParseText_KeyOrderPreserved(t *testing.T) {
	got, err := ParseText(`{b: 1 a: 2}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, got.Keys())
	assert.Equal(t, "{b: 1 a: 2}", Emit(got))
}

func TestParseText_Tabular(t *testing.T) {
	input := `@tab [sku qty]
a1 2
b7 9
@end`
	got, err := ParseText(input)
	require.NoError(t, err)
	want := Array(
		Object(F("sku", String("a1")), F("qty", Int(2))),
		Object(F("sku", String("b7")), F("qty", Int(9))),
	)
	assert.True(t, got.Equal(want))
}

func TestParseText_TabularNestedCells(t *testing.T) {
	// rows carry a fixed value count per column, so cells may themselves be
	// containers without any row delimiter
	input := `@tab [id tags] 1 [a b] 2 [] @end`
	got, err := ParseText(input)
	require.NoError(t, err)
	want := Array(
		Object(F("id", Int(1)), F("tags", Array(String("a"), String("b")))),
		Object(F("id", Int(2)), F("tags", Array())),
	)
	assert.True(t, got.Equal(want))
}

func TestParseText_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"trailing data", "1 2"},
		{"unterminated array", "[1 2"},
		{"unterminated object", "{a: 1"},
		{"missing colon", "{a 1}"},
		{"missing key", "{: 1}"},
		{"duplicate key", "{a: 1 a: 2}"},
		{"int overflow", "9223372036854775808"},
		{"bad date", "@2026-13-99T99:00:00Z"},
		{"url without scheme", "<not-a-url>"},
		{"bad base64", `b64"!!"`},
		{"tab without columns", "@tab [] @end"},
		{"tab duplicate column", "@tab [a a] 1 2 @end"},
		{"tab unterminated", "@tab [a] 1"},
		{"stray end", "@end"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseText(tt.input)
			require.Error(t, err)
			var perr *ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestParseText_ErrorPosition(t *testing.T) {
	_, err := ParseText("{a: 1\n b: }")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Pos.Line)
}

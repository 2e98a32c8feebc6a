package weft

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// EmitOptions configures the text emitter.
type EmitOptions struct {
	// Pretty adds newlines and indentation for readability.
	Pretty bool

	// Indent string for pretty mode (default "  ").
	Indent string

	// Tabular renders homogeneous object arrays as @tab blocks.
	Tabular bool

	// TabularThreshold is the minimum row count for tabular mode (default 2).
	TabularThreshold int
}

// DefaultEmitOptions returns compact output with tabular mode on.
func DefaultEmitOptions() EmitOptions {
	return EmitOptions{
		Pretty:           false,
		Indent:           "  ",
		Tabular:          true,
		TabularThreshold: 2,
	}
}

// Emit converts a Value to compact WEFT text. Object fields are written in
// their held order.
func Emit(v *Value) string {
	return EmitWithOptions(v, DefaultEmitOptions())
}

// EmitIndent converts a Value to indented WEFT text.
func EmitIndent(v *Value) string {
	opts := DefaultEmitOptions()
	opts.Pretty = true
	return EmitWithOptions(v, opts)
}

// EmitWithOptions converts a Value with custom options.
func EmitWithOptions(v *Value, opts EmitOptions) string {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	if opts.TabularThreshold <= 0 {
		opts.TabularThreshold = 2
	}
	e := &emitter{opts: opts}
	e.emit(v, 0)
	return e.sb.String()
}

type emitter struct {
	sb   strings.Builder
	opts EmitOptions
}

func (e *emitter) emit(v *Value, depth int) {
	switch v.Kind() {
	case KindNull:
		e.sb.WriteString("~")

	case KindBool:
		if v.boolVal {
			e.sb.WriteString("true")
		} else {
			e.sb.WriteString("false")
		}

	case KindInt:
		e.sb.WriteString(strconv.FormatInt(v.intVal, 10))

	case KindDouble:
		e.emitFloat(v.doubleVal)

	case KindString:
		e.emitString(v.strVal)

	case KindDate:
		e.sb.WriteString("@")
		e.sb.WriteString(v.dateVal.Format(time.RFC3339Nano))

	case KindURL:
		e.sb.WriteString("<")
		if v.urlVal != nil {
			e.sb.WriteString(v.urlVal.String())
		}
		e.sb.WriteString(">")

	case KindBinary:
		e.sb.WriteString(`b64"`)
		e.sb.WriteString(base64.StdEncoding.EncodeToString(v.binVal))
		e.sb.WriteString(`"`)

	case KindArray:
		if cols, ok := e.tabularColumns(v); ok {
			e.emitTabular(v, cols, depth)
		} else {
			e.emitArray(v, depth)
		}

	case KindObject:
		e.emitObject(v, depth)
	}
}

func (e *emitter) emitFloat(f float64) {
	switch {
	case math.IsNaN(f):
		e.sb.WriteString("nan")
	case math.IsInf(f, 1):
		e.sb.WriteString("inf")
	case math.IsInf(f, -1):
		e.sb.WriteString("-inf")
	default:
		s := strconv.FormatFloat(f, 'g', -1, 64)
		// keep a marker so the value re-reads as a float, not an int
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		e.sb.WriteString(s)
	}
}

func (e *emitter) emitString(s string) {
	if isBareString(s) {
		e.sb.WriteString(s)
	} else {
		e.sb.WriteString(`"`)
		e.sb.WriteString(escapeString(s))
		e.sb.WriteString(`"`)
	}
}

func (e *emitter) emitArray(v *Value, depth int) {
	e.sb.WriteString("[")
	if e.opts.Pretty && len(v.arrVal) > 0 {
		for _, elem := range v.arrVal {
			e.sb.WriteString("\n")
			e.writeIndent(depth + 1)
			e.emit(elem, depth+1)
		}
		e.sb.WriteString("\n")
		e.writeIndent(depth)
	} else {
		for i, elem := range v.arrVal {
			if i > 0 {
				e.sb.WriteString(" ")
			}
			e.emit(elem, depth+1)
		}
	}
	e.sb.WriteString("]")
}

func (e *emitter) emitObject(v *Value, depth int) {
	e.sb.WriteString("{")
	if e.opts.Pretty && len(v.objVal) > 0 {
		for _, f := range v.objVal {
			e.sb.WriteString("\n")
			e.writeIndent(depth + 1)
			e.emitString(f.Name)
			e.sb.WriteString(": ")
			e.emit(f.Value, depth+1)
		}
		e.sb.WriteString("\n")
		e.writeIndent(depth)
	} else {
		for i, f := range v.objVal {
			if i > 0 {
				e.sb.WriteString(" ")
			}
			e.emitString(f.Name)
			e.sb.WriteString(": ")
			e.emit(f.Value, depth+1)
		}
	}
	e.sb.WriteString("}")
}

// tabularColumns reports whether an array should render as a @tab block and
// returns its column names. Eligible arrays hold at least TabularThreshold
// objects sharing one identical key sequence.
func (e *emitter) tabularColumns(v *Value) ([]string, bool) {
	if !e.opts.Tabular || v.Len() < e.opts.TabularThreshold {
		return nil, false
	}
	if !v.IsArrayOfObjects() {
		return nil, false
	}
	cols := v.arrVal[0].Keys()
	if len(cols) == 0 {
		return nil, false
	}
	for _, row := range v.arrVal[1:] {
		keys := row.Keys()
		if len(keys) != len(cols) {
			return nil, false
		}
		for i := range keys {
			if keys[i] != cols[i] {
				return nil, false
			}
		}
	}
	return cols, true
}

func (e *emitter) emitTabular(v *Value, cols []string, depth int) {
	e.sb.WriteString("@tab [")
	for i, col := range cols {
		if i > 0 {
			e.sb.WriteString(" ")
		}
		e.emitString(col)
	}
	e.sb.WriteString("]")

	// Row cells are always compact; rows need no delimiter because each one
	// holds exactly one value per column.
	cellOpts := e.opts
	cellOpts.Pretty = false
	for _, row := range v.arrVal {
		e.sb.WriteString("\n")
		if e.opts.Pretty {
			e.writeIndent(depth + 1)
		}
		for i, col := range cols {
			if i > 0 {
				e.sb.WriteString(" ")
			}
			cell, _ := row.Field(col)
			sub := &emitter{opts: cellOpts}
			sub.emit(cell, 0)
			e.sb.WriteString(sub.sb.String())
		}
	}
	e.sb.WriteString("\n")
	if e.opts.Pretty {
		e.writeIndent(depth)
	}
	e.sb.WriteString("@end")
}

func (e *emitter) writeIndent(depth int) {
	for i := 0; i < depth; i++ {
		e.sb.WriteString(e.opts.Indent)
	}
}

// reservedWords may not appear as bare strings: the lexer gives them literal
// meaning. b64 is reserved because it would fuse with a following quote.
var reservedWords = map[string]bool{
	"null": true, "true": true, "false": true,
	"nan": true, "inf": true, "b64": true,
}

// isBareString reports whether a string may be emitted unquoted.
func isBareString(s string) bool {
	if s == "" || reservedWords[s] {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	if !unicode.IsLetter(first) && first != '_' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < utf8.RuneSelf && !isBareByte(s[i]) {
			return false
		}
	}
	return true
}

// escapeString escapes a string for quoted output.
func escapeString(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

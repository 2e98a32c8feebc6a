package weft

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ============================================================
// JSON Bridge
// ============================================================
//
// Order-preserving JSON source and sink. encoding/json's map decoding would
// destroy key order, so the source reads the raw token stream into a node
// tree that keeps fields as declared. Numbers stay json.Number so the int
// and double scalar probes can tell 1 from 1.0.
//
// On the JSON side dates become RFC 3339 strings, URLs plain strings and
// binary standard base64 strings.

// FromJSON decodes JSON bytes into a Value, preserving object key order.
func FromJSON(data []byte) (*Value, error) {
	src, err := NewJSONSource(data)
	if err != nil {
		return nil, err
	}
	return Decode(src)
}

// ToJSON encodes a Value as compact JSON, emitting object keys in held
// order. NaN and infinities have no JSON form and return an error.
func ToJSON(v *Value) ([]byte, error) {
	sink := NewJSONSink()
	if err := Encode(v, sink); err != nil {
		return nil, err
	}
	return sink.Bytes(), nil
}

// ============================================================
// Source
// ============================================================

// jsonNode is one parsed JSON node. Exactly one of the shape fields is
// meaningful, chosen by shape.
type jsonNode struct {
	shape  byte // 'o', 'a' or 's'
	fields []jsonField
	elems  []*jsonNode
	tok    json.Token // nil, bool, json.Number or string
}

type jsonField struct {
	name string
	node *jsonNode
}

// NewJSONSource parses JSON bytes into a Source. The whole document is read
// up front; probing a node never consumes anything.
func NewJSONSource(data []byte) (Source, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	node, err := readJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("weft: invalid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("weft: trailing data after JSON value")
	}
	return node, nil
}

func readJSONValue(dec *json.Decoder) (*jsonNode, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return readJSONObject(dec)
		case '[':
			return readJSONArray(dec)
		default:
			return nil, fmt.Errorf("unexpected %q", t)
		}
	default:
		// nil, bool, json.Number or string
		return &jsonNode{shape: 's', tok: tok}, nil
	}
}

func readJSONObject(dec *json.Decoder) (*jsonNode, error) {
	n := &jsonNode{shape: 'o'}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		child, err := readJSONValue(dec)
		if err != nil {
			return nil, err
		}
		n.fields = append(n.fields, jsonField{name: key, node: child})
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, err
	}
	return n, nil
}

func readJSONArray(dec *json.Decoder) (*jsonNode, error) {
	n := &jsonNode{shape: 'a'}
	for dec.More() {
		child, err := readJSONValue(dec)
		if err != nil {
			return nil, err
		}
		n.elems = append(n.elems, child)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return nil, err
	}
	return n, nil
}

func (n *jsonNode) Keyed() (KeyedSource, bool) {
	if n.shape != 'o' {
		return nil, false
	}
	return n, true
}

func (n *jsonNode) List() (ListSource, bool) {
	if n.shape != 'a' {
		return nil, false
	}
	return n, true
}

func (n *jsonNode) Scalar() (ScalarSource, bool) {
	if n.shape != 's' {
		return nil, false
	}
	return n, true
}

func (n *jsonNode) Keys() []string {
	keys := make([]string, len(n.fields))
	for i, f := range n.fields {
		keys[i] = f.name
	}
	return keys
}

func (n *jsonNode) Field(name string) (Source, bool) {
	for _, f := range n.fields {
		if f.name == name {
			return f.node, true
		}
	}
	return nil, false
}

func (n *jsonNode) Len() int {
	return len(n.elems)
}

func (n *jsonNode) Index(i int) Source {
	return n.elems[i]
}

func (n *jsonNode) Null() bool {
	return n.tok == nil
}

// Int succeeds only for an integral JSON number within int64 range. JSON is
// untyped, so a plain 1 reads as int here even if the producer meant a
// boolean; that ambiguity is inherent to the encoding.
func (n *jsonNode) Int() (int64, bool) {
	num, ok := n.tok.(json.Number)
	if !ok {
		return 0, false
	}
	i, err := strconv.ParseInt(num.String(), 10, 64)
	return i, err == nil
}

func (n *jsonNode) Bool() (bool, bool) {
	b, ok := n.tok.(bool)
	return b, ok
}

func (n *jsonNode) Double() (float64, bool) {
	num, ok := n.tok.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := num.Float64()
	return f, err == nil
}

func (n *jsonNode) String() (string, bool) {
	s, ok := n.tok.(string)
	return s, ok
}

func (n *jsonNode) Date() (time.Time, bool) {
	s, ok := n.tok.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	return t, err == nil
}

func (n *jsonNode) URL() (*url.URL, bool) {
	s, ok := n.tok.(string)
	if !ok {
		return nil, false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return nil, false
	}
	return u, true
}

func (n *jsonNode) Binary() ([]byte, bool) {
	s, ok := n.tok.(string)
	if !ok {
		return nil, false
	}
	b, err := base64.StdEncoding.DecodeString(s)
	return b, err == nil
}

// ============================================================
// Sink
// ============================================================

// JSONSink writes compact JSON from sink events, keeping object keys in the
// order they arrive.
type JSONSink struct {
	buf   bytes.Buffer
	stack []jsonFrame
}

type jsonFrame struct {
	object     bool
	count      int
	keyPending bool
}

// NewJSONSink creates an empty JSON sink.
func NewJSONSink() *JSONSink {
	return &JSONSink{}
}

// Bytes returns the accumulated JSON.
func (s *JSONSink) Bytes() []byte {
	return s.buf.Bytes()
}

// separate writes the comma due before a new array element. Inside an
// object the comma belongs to Key, which has already run.
func (s *JSONSink) separate() {
	if len(s.stack) == 0 {
		return
	}
	top := &s.stack[len(s.stack)-1]
	if top.object {
		top.keyPending = false
		return
	}
	if top.count > 0 {
		s.buf.WriteByte(',')
	}
	top.count++
}

func (s *JSONSink) Null() error {
	s.separate()
	s.buf.WriteString("null")
	return nil
}

func (s *JSONSink) Bool(v bool) error {
	s.separate()
	if v {
		s.buf.WriteString("true")
	} else {
		s.buf.WriteString("false")
	}
	return nil
}

func (s *JSONSink) Int(v int64) error {
	s.separate()
	s.buf.WriteString(strconv.FormatInt(v, 10))
	return nil
}

// Double writes a float in a form that re-reads as a float: integral values
// get a trailing .0 so they never collapse into ints on the way back.
func (s *JSONSink) Double(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("weft: %v has no JSON representation", v)
	}
	s.separate()
	out := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(out, ".eE") {
		out += ".0"
	}
	s.buf.WriteString(out)
	return nil
}

func (s *JSONSink) String(v string) error {
	s.separate()
	s.writeQuoted(v)
	return nil
}

func (s *JSONSink) Date(v time.Time) error {
	return s.String(v.Format(time.RFC3339Nano))
}

func (s *JSONSink) URL(v *url.URL) error {
	if v == nil {
		return s.Null()
	}
	return s.String(v.String())
}

func (s *JSONSink) Binary(v []byte) error {
	return s.String(base64.StdEncoding.EncodeToString(v))
}

func (s *JSONSink) BeginArray() error {
	s.separate()
	s.buf.WriteByte('[')
	s.stack = append(s.stack, jsonFrame{})
	return nil
}

func (s *JSONSink) EndArray() error {
	if len(s.stack) == 0 || s.stack[len(s.stack)-1].object {
		return fmt.Errorf("weft: EndArray without matching BeginArray")
	}
	s.stack = s.stack[:len(s.stack)-1]
	s.buf.WriteByte(']')
	return nil
}

func (s *JSONSink) BeginObject() error {
	s.separate()
	s.buf.WriteByte('{')
	s.stack = append(s.stack, jsonFrame{object: true})
	return nil
}

func (s *JSONSink) Key(name string) error {
	if len(s.stack) == 0 || !s.stack[len(s.stack)-1].object {
		return fmt.Errorf("weft: Key outside object")
	}
	top := &s.stack[len(s.stack)-1]
	if top.count > 0 {
		s.buf.WriteByte(',')
	}
	top.count++
	top.keyPending = true
	s.writeQuoted(name)
	s.buf.WriteByte(':')
	return nil
}

func (s *JSONSink) EndObject() error {
	if len(s.stack) == 0 || !s.stack[len(s.stack)-1].object {
		return fmt.Errorf("weft: EndObject without matching BeginObject")
	}
	s.stack = s.stack[:len(s.stack)-1]
	s.buf.WriteByte('}')
	return nil
}

func (s *JSONSink) writeQuoted(v string) {
	out, _ := json.Marshal(v)
	s.buf.Write(out)
}

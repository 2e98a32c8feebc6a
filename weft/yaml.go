package weft

import (
	"encoding/base64"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ============================================================
// YAML Bridge
// ============================================================
//
// yaml.Node keeps mapping order and carries resolved type tags, so the YAML
// source is genuinely typed: a `true` scalar probes as bool and a `1` scalar
// probes as int, with no ambiguity between the two.

// FromYAML decodes a single YAML document into a Value.
func FromYAML(data []byte) (*Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("weft: invalid YAML: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return Null(), nil
		}
		root = root.Content[0]
	}
	return Decode(NewYAMLSource(root))
}

// ToYAML encodes a Value as a YAML document.
func ToYAML(v *Value) ([]byte, error) {
	sink := NewYAMLSink()
	if err := Encode(v, sink); err != nil {
		return nil, err
	}
	return sink.Bytes()
}

// ============================================================
// Source
// ============================================================

type yamlSource struct {
	node *yaml.Node
}

// NewYAMLSource wraps a yaml.Node as a decode Source. Alias nodes are
// followed transparently.
func NewYAMLSource(node *yaml.Node) Source {
	return &yamlSource{node: resolveYAMLAlias(node)}
}

func resolveYAMLAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func (s *yamlSource) Keyed() (KeyedSource, bool) {
	if s.node == nil || s.node.Kind != yaml.MappingNode {
		return nil, false
	}
	return s, true
}

func (s *yamlSource) List() (ListSource, bool) {
	if s.node == nil || s.node.Kind != yaml.SequenceNode {
		return nil, false
	}
	return s, true
}

func (s *yamlSource) Scalar() (ScalarSource, bool) {
	if s.node == nil || s.node.Kind != yaml.ScalarNode {
		return nil, false
	}
	return s, true
}

func (s *yamlSource) Keys() []string {
	keys := make([]string, 0, len(s.node.Content)/2)
	for i := 0; i+1 < len(s.node.Content); i += 2 {
		keys = append(keys, s.node.Content[i].Value)
	}
	return keys
}

func (s *yamlSource) Field(name string) (Source, bool) {
	for i := 0; i+1 < len(s.node.Content); i += 2 {
		if s.node.Content[i].Value == name {
			return NewYAMLSource(s.node.Content[i+1]), true
		}
	}
	return nil, false
}

func (s *yamlSource) Len() int {
	return len(s.node.Content)
}

func (s *yamlSource) Index(i int) Source {
	return NewYAMLSource(s.node.Content[i])
}

func (s *yamlSource) Null() bool {
	return s.node.Tag == "!!null"
}

func (s *yamlSource) Int() (int64, bool) {
	if s.node.Tag != "!!int" {
		return 0, false
	}
	i, err := strconv.ParseInt(s.node.Value, 0, 64)
	return i, err == nil
}

func (s *yamlSource) Bool() (bool, bool) {
	if s.node.Tag != "!!bool" {
		return false, false
	}
	switch strings.ToLower(s.node.Value) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

func (s *yamlSource) Double() (float64, bool) {
	switch s.node.Tag {
	case "!!float":
		return parseYAMLFloat(s.node.Value)
	case "!!int":
		// ints widen to double under explicit request
		i, ok := s.Int()
		if !ok {
			return 0, false
		}
		return float64(i), true
	default:
		return 0, false
	}
}

func parseYAMLFloat(v string) (float64, bool) {
	switch strings.ToLower(v) {
	case ".inf", "+.inf":
		return math.Inf(1), true
	case "-.inf":
		return math.Inf(-1), true
	case ".nan":
		return math.NaN(), true
	}
	f, err := strconv.ParseFloat(v, 64)
	return f, err == nil
}

// String succeeds for any scalar's raw text. It is the last probe in the
// decode order, so typed scalars (int, bool, float, null) never reach it;
// the catch-all keeps tags like !!timestamp decodable as plain text, since
// the generic decoder never infers dates.
func (s *yamlSource) String() (string, bool) {
	return s.node.Value, true
}

func (s *yamlSource) Date() (time.Time, bool) {
	if s.node.Tag != "!!timestamp" && s.node.Tag != "!!str" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s.node.Value)
	if err != nil {
		t, err = time.Parse("2006-01-02", s.node.Value)
	}
	return t, err == nil
}

func (s *yamlSource) URL() (*url.URL, bool) {
	if s.node.Tag != "!!str" {
		return nil, false
	}
	u, err := url.Parse(s.node.Value)
	if err != nil || u.Scheme == "" {
		return nil, false
	}
	return u, true
}

func (s *yamlSource) Binary() ([]byte, bool) {
	if s.node.Tag != "!!binary" {
		return nil, false
	}
	b, err := base64.StdEncoding.DecodeString(s.node.Value)
	return b, err == nil
}

// ============================================================
// Sink
// ============================================================

// YAMLSink builds a yaml.Node tree from sink events.
type YAMLSink struct {
	root  *yaml.Node
	stack []*yaml.Node
}

// NewYAMLSink creates an empty YAML sink.
func NewYAMLSink() *YAMLSink {
	return &YAMLSink{}
}

// Bytes marshals the accumulated document.
func (s *YAMLSink) Bytes() ([]byte, error) {
	if s.root == nil {
		return nil, fmt.Errorf("weft: empty YAML sink")
	}
	if len(s.stack) != 0 {
		return nil, fmt.Errorf("weft: unclosed container in YAML sink")
	}
	return yaml.Marshal(s.root)
}

// place attaches a finished node to the open container, or makes it the
// document root.
func (s *YAMLSink) place(n *yaml.Node) {
	if len(s.stack) == 0 {
		s.root = n
		return
	}
	top := s.stack[len(s.stack)-1]
	top.Content = append(top.Content, n)
}

func yamlScalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func (s *YAMLSink) Null() error {
	s.place(yamlScalar("!!null", "null"))
	return nil
}

func (s *YAMLSink) Bool(v bool) error {
	s.place(yamlScalar("!!bool", strconv.FormatBool(v)))
	return nil
}

func (s *YAMLSink) Int(v int64) error {
	s.place(yamlScalar("!!int", strconv.FormatInt(v, 10)))
	return nil
}

func (s *YAMLSink) Double(v float64) error {
	var out string
	switch {
	case math.IsNaN(v):
		out = ".nan"
	case math.IsInf(v, 1):
		out = ".inf"
	case math.IsInf(v, -1):
		out = "-.inf"
	default:
		out = strconv.FormatFloat(v, 'g', -1, 64)
		if !strings.ContainsAny(out, ".eE") {
			out += ".0"
		}
	}
	s.place(yamlScalar("!!float", out))
	return nil
}

func (s *YAMLSink) String(v string) error {
	s.place(yamlScalar("!!str", v))
	return nil
}

func (s *YAMLSink) Date(v time.Time) error {
	s.place(yamlScalar("!!timestamp", v.Format(time.RFC3339Nano)))
	return nil
}

func (s *YAMLSink) URL(v *url.URL) error {
	if v == nil {
		return s.Null()
	}
	return s.String(v.String())
}

func (s *YAMLSink) Binary(v []byte) error {
	s.place(yamlScalar("!!binary", base64.StdEncoding.EncodeToString(v)))
	return nil
}

func (s *YAMLSink) BeginArray() error {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	s.place(n)
	s.stack = append(s.stack, n)
	return nil
}

func (s *YAMLSink) EndArray() error {
	if len(s.stack) == 0 || s.stack[len(s.stack)-1].Kind != yaml.SequenceNode {
		return fmt.Errorf("weft: EndArray without matching BeginArray")
	}
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}

func (s *YAMLSink) BeginObject() error {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	s.place(n)
	s.stack = append(s.stack, n)
	return nil
}

func (s *YAMLSink) Key(name string) error {
	if len(s.stack) == 0 || s.stack[len(s.stack)-1].Kind != yaml.MappingNode {
		return fmt.Errorf("weft: Key outside object")
	}
	top := s.stack[len(s.stack)-1]
	top.Content = append(top.Content, yamlScalar("!!str", name))
	return nil
}

func (s *YAMLSink) EndObject() error {
	if len(s.stack) == 0 || s.stack[len(s.stack)-1].Kind != yaml.MappingNode {
		return fmt.Errorf("weft: EndObject without matching BeginObject")
	}
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}

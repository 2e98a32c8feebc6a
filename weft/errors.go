package weft

import "fmt"

// DecodeError reports a node that could not be reconstructed as a Value.
// Path addresses the offending node from the decode root, e.g.
// "$.items[2].price".
type DecodeError struct {
	Path   string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("weft: cannot decode %s: %s", e.Path, e.Reason)
}

// ParseError reports a WEFT text syntax error with its source position.
type ParseError struct {
	Pos Position
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("weft: parse error at %s: %s", e.Pos, e.Msg)
}

// Position is a source location in WEFT text.
type Position struct {
	Line   int
	Column int
}

// String returns the position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

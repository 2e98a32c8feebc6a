package weft

import (
	"encoding/base64"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"
)

// ParseText parses WEFT text into a Value. Parsing stops at the first error,
// which carries the offending line and column.
func ParseText(input string) (*Value, error) {
	tokens, err := NewLexer(input).Tokenize()
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, p.errorf(tok, "trailing data after value")
	}
	return v, nil
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Type != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok Token, format string, args ...interface{}) error {
	return &ParseError{Pos: tok.Pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parseValue() (*Value, error) {
	tok := p.next()
	switch tok.Type {
	case TokenNull:
		return Null(), nil

	case TokenTrue:
		return Bool(true), nil

	case TokenFalse:
		return Bool(false), nil

	case TokenInt:
		i, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, p.errorf(tok, "integer out of range: %s", tok.Value)
		}
		return Int(i), nil

	case TokenFloat:
		return p.parseFloat(tok)

	case TokenString, TokenBareStr:
		return String(tok.Value), nil

	case TokenDate:
		t, err := time.Parse(time.RFC3339Nano, tok.Value)
		if err != nil {
			t, err = time.Parse("2006-01-02", tok.Value)
		}
		if err != nil {
			return nil, p.errorf(tok, "malformed date: %s", tok.Value)
		}
		return Date(t), nil

	case TokenURL:
		u, err := url.Parse(tok.Value)
		if err != nil || u.Scheme == "" {
			return nil, p.errorf(tok, "malformed url: %s", tok.Value)
		}
		return URL(u), nil

	case TokenBytes:
		b, err := base64.StdEncoding.DecodeString(tok.Value)
		if err != nil {
			return nil, p.errorf(tok, "malformed base64: %v", err)
		}
		return Binary(b), nil

	case TokenLBracket:
		return p.parseArray(tok)

	case TokenLBrace:
		return p.parseObject(tok)

	case TokenTab:
		return p.parseTabular(tok)

	default:
		return nil, p.errorf(tok, "unexpected %s", tok.Type)
	}
}

func (p *parser) parseFloat(tok Token) (*Value, error) {
	switch tok.Value {
	case "nan":
		return Double(math.NaN()), nil
	case "inf":
		return Double(math.Inf(1)), nil
	case "-inf":
		return Double(math.Inf(-1)), nil
	}
	f, err := strconv.ParseFloat(tok.Value, 64)
	if err != nil {
		return nil, p.errorf(tok, "malformed float: %s", tok.Value)
	}
	return Double(f), nil
}

func (p *parser) parseArray(open Token) (*Value, error) {
	var elems []*Value
	for {
		switch p.peek().Type {
		case TokenRBracket:
			p.next()
			return Array(elems...), nil
		case TokenEOF:
			return nil, p.errorf(open, "unterminated array")
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
}

func (p *parser) parseObject(open Token) (*Value, error) {
	var fields []Field
	seen := make(map[string]bool)
	for {
		switch p.peek().Type {
		case TokenRBrace:
			p.next()
			return Object(fields...), nil
		case TokenEOF:
			return nil, p.errorf(open, "unterminated object")
		}

		keyTok := p.next()
		if keyTok.Type != TokenBareStr && keyTok.Type != TokenString {
			return nil, p.errorf(keyTok, "expected object key, got %s", keyTok.Type)
		}
		if seen[keyTok.Value] {
			return nil, p.errorf(keyTok, "duplicate key %q", keyTok.Value)
		}
		seen[keyTok.Value] = true

		if colon := p.next(); colon.Type != TokenColon {
			return nil, p.errorf(colon, "expected ':' after key %q", keyTok.Value)
		}

		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: keyTok.Value, Value: v})
	}
}

// parseTabular reads a @tab block back into the array of objects it encodes.
// Each row holds exactly one value per column, so rows need no delimiters.
func (p *parser) parseTabular(open Token) (*Value, error) {
	if tok := p.next(); tok.Type != TokenLBracket {
		return nil, p.errorf(tok, "expected '[' after @tab")
	}

	var cols []string
	seen := make(map[string]bool)
	for p.peek().Type != TokenRBracket {
		tok := p.next()
		if tok.Type != TokenBareStr && tok.Type != TokenString {
			return nil, p.errorf(tok, "expected column name, got %s", tok.Type)
		}
		if seen[tok.Value] {
			return nil, p.errorf(tok, "duplicate column %q", tok.Value)
		}
		seen[tok.Value] = true
		cols = append(cols, tok.Value)
	}
	p.next() // ]
	if len(cols) == 0 {
		return nil, p.errorf(open, "@tab requires at least one column")
	}

	var rows []*Value
	for {
		switch p.peek().Type {
		case TokenEnd:
			p.next()
			return Array(rows...), nil
		case TokenEOF:
			return nil, p.errorf(open, "unterminated @tab block")
		}
		fields := make([]Field, 0, len(cols))
		for _, col := range cols {
			v, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Name: col, Value: v})
		}
		rows = append(rows, Object(fields...))
	}
}

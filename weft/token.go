package weft

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// TokenType represents the type of a lexer token.
type TokenType uint8

const (
	TokenEOF TokenType = iota

	// Literals
	TokenNull    // ~ or null
	TokenTrue    // true
	TokenFalse   // false
	TokenInt     // 123, -456
	TokenFloat   // 1.5, -2e9, nan, inf, -inf
	TokenString  // "quoted string"
	TokenBareStr // bare_word
	TokenDate    // @2026-08-29T10:00:00Z
	TokenURL     // <https://example.com>
	TokenBytes   // b64"aGk="

	// Structural
	TokenLBrace   // {
	TokenRBrace   // }
	TokenLBracket // [
	TokenRBracket // ]
	TokenColon    // :

	// Tabular directives
	TokenTab // @tab
	TokenEnd // @end
)

// String returns the token type name.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenNull:
		return "NULL"
	case TokenTrue:
		return "TRUE"
	case TokenFalse:
		return "FALSE"
	case TokenInt:
		return "INT"
	case TokenFloat:
		return "FLOAT"
	case TokenString:
		return "STRING"
	case TokenBareStr:
		return "BARESTR"
	case TokenDate:
		return "DATE"
	case TokenURL:
		return "URL"
	case TokenBytes:
		return "BYTES"
	case TokenLBrace:
		return "{"
	case TokenRBrace:
		return "}"
	case TokenLBracket:
		return "["
	case TokenRBracket:
		return "]"
	case TokenColon:
		return ":"
	case TokenTab:
		return "@tab"
	case TokenEnd:
		return "@end"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexer token.
type Token struct {
	Type  TokenType
	Value string
	Pos   Position
}

// String returns a debug representation of the token.
func (t Token) String() string {
	if t.Value == "" {
		return t.Type.String()
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Value)
}

// Lexer turns WEFT text into tokens.
type Lexer struct {
	input string
	pos   int
	line  int
	col   int
}

// NewLexer creates a lexer over the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// Tokenize scans the whole input and returns its tokens, terminated by an
// EOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) errorf(pos Position, format string, args ...interface{}) error {
	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (l *Lexer) here() Position {
	return Position{Line: l.line, Column: l.col}
}

func (l *Lexer) peekByte() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) advance() byte {
	c := l.input[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.input) {
		switch l.peekByte() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '#':
			for l.pos < len(l.input) && l.peekByte() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) next() (Token, error) {
	l.skipSpace()
	pos := l.here()
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: pos}, nil
	}

	switch c := l.peekByte(); {
	case c == '{':
		l.advance()
		return Token{Type: TokenLBrace, Pos: pos}, nil
	case c == '}':
		l.advance()
		return Token{Type: TokenRBrace, Pos: pos}, nil
	case c == '[':
		l.advance()
		return Token{Type: TokenLBracket, Pos: pos}, nil
	case c == ']':
		l.advance()
		return Token{Type: TokenRBracket, Pos: pos}, nil
	case c == ':':
		l.advance()
		return Token{Type: TokenColon, Pos: pos}, nil
	case c == '~':
		l.advance()
		return Token{Type: TokenNull, Pos: pos}, nil
	case c == '"':
		return l.lexQuoted(pos, TokenString)
	case c == '<':
		return l.lexURL(pos)
	case c == '@':
		return l.lexAt(pos)
	case c == '-' || (c >= '0' && c <= '9'):
		return l.lexNumber(pos)
	default:
		return l.lexWord(pos)
	}
}

func (l *Lexer) lexQuoted(pos Position, tt TokenType) (Token, error) {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return Token{}, l.errorf(pos, "unterminated string")
		}
		c := l.advance()
		switch c {
		case '"':
			return Token{Type: tt, Value: sb.String(), Pos: pos}, nil
		case '\\':
			if l.pos >= len(l.input) {
				return Token{}, l.errorf(pos, "unterminated escape")
			}
			e := l.advance()
			switch e {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'u':
				r, err := l.lexUnicodeEscape(pos)
				if err != nil {
					return Token{}, err
				}
				sb.WriteRune(r)
			default:
				return Token{}, l.errorf(pos, "invalid escape \\%c", e)
			}
		default:
			sb.WriteByte(c)
		}
	}
}

func (l *Lexer) lexUnicodeEscape(pos Position) (rune, error) {
	r, err := l.lexHex4(pos)
	if err != nil {
		return 0, err
	}
	if !utf16.IsSurrogate(r) {
		return r, nil
	}
	// Astral code points arrive as a \uXXXX\uXXXX surrogate pair.
	if l.pos+1 < len(l.input) && l.input[l.pos] == '\\' && l.input[l.pos+1] == 'u' {
		l.advance()
		l.advance()
		r2, err := l.lexHex4(pos)
		if err != nil {
			return 0, err
		}
		if paired := utf16.DecodeRune(r, r2); paired != utf8.RuneError {
			return paired, nil
		}
	}
	return 0, l.errorf(pos, "unpaired surrogate in \\u escape")
}

func (l *Lexer) lexHex4(pos Position) (rune, error) {
	if l.pos+4 > len(l.input) {
		return 0, l.errorf(pos, "truncated \\u escape")
	}
	var r rune
	for i := 0; i < 4; i++ {
		c := l.advance()
		var d rune
		switch {
		case c >= '0' && c <= '9':
			d = rune(c - '0')
		case c >= 'a' && c <= 'f':
			d = rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = rune(c-'A') + 10
		default:
			return 0, l.errorf(pos, "invalid \\u escape digit %q", c)
		}
		r = r<<4 | d
	}
	return r, nil
}

func (l *Lexer) lexURL(pos Position) (Token, error) {
	l.advance() // <
	start := l.pos
	for {
		if l.pos >= len(l.input) {
			return Token{}, l.errorf(pos, "unterminated url")
		}
		c := l.peekByte()
		if c == '\n' {
			return Token{}, l.errorf(pos, "unterminated url")
		}
		if c == '>' {
			val := l.input[start:l.pos]
			l.advance()
			return Token{Type: TokenURL, Value: val, Pos: pos}, nil
		}
		l.advance()
	}
}

func (l *Lexer) lexAt(pos Position) (Token, error) {
	l.advance() // @
	c := l.peekByte()
	if c >= '0' && c <= '9' {
		start := l.pos
		for l.pos < len(l.input) && isDateByte(l.peekByte()) {
			l.advance()
		}
		return Token{Type: TokenDate, Value: l.input[start:l.pos], Pos: pos}, nil
	}
	start := l.pos
	for l.pos < len(l.input) && isBareByte(l.peekByte()) {
		l.advance()
	}
	switch word := l.input[start:l.pos]; word {
	case "tab":
		return Token{Type: TokenTab, Pos: pos}, nil
	case "end":
		return Token{Type: TokenEnd, Pos: pos}, nil
	default:
		return Token{}, l.errorf(pos, "unknown directive @%s", word)
	}
}

func isDateByte(c byte) bool {
	return c >= '0' && c <= '9' || c == '-' || c == ':' || c == '.' ||
		c == '+' || c == 'T' || c == 'Z'
}

func (l *Lexer) lexNumber(pos Position) (Token, error) {
	start := l.pos
	if l.peekByte() == '-' {
		l.advance()
		if l.peekByte() == 'i' { // -inf
			for l.pos < len(l.input) && isBareByte(l.peekByte()) {
				l.advance()
			}
			if l.input[start:l.pos] == "-inf" {
				return Token{Type: TokenFloat, Value: "-inf", Pos: pos}, nil
			}
			return Token{}, l.errorf(pos, "malformed number %q", l.input[start:l.pos])
		}
	}
	isFloat := false
	digits := 0
	for l.pos < len(l.input) {
		c := l.peekByte()
		switch {
		case c >= '0' && c <= '9':
			digits++
			l.advance()
		case c == '.':
			isFloat = true
			l.advance()
		case c == 'e' || c == 'E':
			isFloat = true
			l.advance()
			if l.peekByte() == '+' || l.peekByte() == '-' {
				l.advance()
			}
		default:
			goto done
		}
	}
done:
	val := l.input[start:l.pos]
	if digits == 0 {
		return Token{}, l.errorf(pos, "malformed number %q", val)
	}
	tt := TokenInt
	if isFloat {
		tt = TokenFloat
	}
	return Token{Type: tt, Value: val, Pos: pos}, nil
}

func (l *Lexer) lexWord(pos Position) (Token, error) {
	c, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	if !unicode.IsLetter(c) && c != '_' {
		return Token{}, l.errorf(pos, "unexpected character %q", c)
	}
	start := l.pos
	for l.pos < len(l.input) && isBareByte(l.peekByte()) {
		l.advance()
	}
	word := l.input[start:l.pos]
	switch word {
	case "null":
		return Token{Type: TokenNull, Pos: pos}, nil
	case "true":
		return Token{Type: TokenTrue, Pos: pos}, nil
	case "false":
		return Token{Type: TokenFalse, Pos: pos}, nil
	case "nan", "inf":
		return Token{Type: TokenFloat, Value: word, Pos: pos}, nil
	case "b64":
		if l.peekByte() == '"' {
			return l.lexQuoted(pos, TokenBytes)
		}
	}
	return Token{Type: TokenBareStr, Value: word, Pos: pos}, nil
}

// isBareByte reports whether c may appear in a bare (unquoted) string.
func isBareByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '-', c == '.':
		return true
	default:
		return c >= utf8.RuneSelf // any non-ASCII rune byte
	}
}

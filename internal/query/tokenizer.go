package query

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenAnd
	TokenOr
	TokenField
	TokenOperator
	TokenValue
	TokenLParen
	TokenRParen
)

var tokenTypeNames = [...]string{
	TokenEOF:      "end of input",
	TokenAnd:      "AND",
	TokenOr:       "OR",
	TokenField:    "field",
	TokenOperator: "operator",
	TokenValue:    "value",
	TokenLParen:   "'('",
	TokenRParen:   "')'",
}

func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token represents a single token in a query string.
// Pos is the byte offset of the token's first character in the input.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// Tokenizer tokenizes boolean filter queries.
//
// The grammar is position-sensitive in one respect: a bare word directly
// following a comparison operator is a VALUE, while everywhere else it is a
// FIELD or a logical keyword. The tokenizer tracks the previously emitted
// token type to resolve this, the same way a contextual lexer would.
type Tokenizer struct {
	input string
	pos   int
	ch    rune
	width int
	prev  TokenType
}

// NewTokenizer creates a new tokenizer for input.
func NewTokenizer(input string) *Tokenizer {
	t := &Tokenizer{input: input}
	if len(input) > 0 {
		t.ch, t.width = utf8.DecodeRuneInString(input)
	}
	return t
}

// advance moves to the next character
func (t *Tokenizer) advance() {
	t.pos += t.width
	if t.pos >= len(t.input) {
		t.ch, t.width = 0, 0 // EOF
		return
	}
	t.ch, t.width = utf8.DecodeRuneInString(t.input[t.pos:])
}

// jumpTo repositions the tokenizer at the given byte offset
func (t *Tokenizer) jumpTo(pos int) {
	t.pos = pos
	if pos >= len(t.input) {
		t.ch, t.width = 0, 0
		return
	}
	t.ch, t.width = utf8.DecodeRuneInString(t.input[pos:])
}

// skipWhitespace skips whitespace characters
func (t *Tokenizer) skipWhitespace() {
	for t.ch == ' ' || t.ch == '\t' || t.ch == '\n' || t.ch == '\r' {
		t.advance()
	}
}

// isWordChar mirrors the \w character class: letters, digits, underscore.
func isWordChar(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func isDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}

// wordRunEnd returns the byte offset just past the run of word characters
// starting at start, or start when none begins there.
func wordRunEnd(s string, start int) int {
	i := start
	for i < len(s) {
		r, w := utf8.DecodeRuneInString(s[i:])
		if !isWordChar(r) {
			break
		}
		i += w
	}
	return i
}

// numberRunEnd returns the byte offset just past the numeric literal
// starting at start, or start when no number begins there. It accepts an
// optional leading minus, a decimal point and an exponent part, the same
// shapes strconv.ParseFloat accepts.
func numberRunEnd(s string, start int) int {
	i := start
	if i < len(s) && s[i] == '-' {
		i++
	}
	hasDigits := false
	for i < len(s) && isDigitByte(s[i]) {
		i++
		hasDigits = true
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigitByte(s[j]) {
			j++
			hasDigits = true
		}
		if hasDigits {
			i = j
		}
	}
	if !hasDigits {
		return start
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expDigits := false
		for j < len(s) && isDigitByte(s[j]) {
			j++
			expDigits = true
		}
		if expDigits {
			i = j
		}
	}
	return i
}

// emit records the token type for position-sensitive scanning and returns
// the token unchanged.
func (t *Tokenizer) emit(tok *Token) *Token {
	t.prev = tok.Type
	return tok
}

// NextToken returns the next token
func (t *Tokenizer) NextToken() (*Token, error) {
	t.skipWhitespace()

	pos := t.pos
	if t.ch == 0 {
		return t.emit(&Token{Type: TokenEOF, Pos: pos}), nil
	}

	switch t.ch {
	case '(':
		t.advance()
		return t.emit(&Token{Type: TokenLParen, Value: "(", Pos: pos}), nil
	case ')':
		t.advance()
		return t.emit(&Token{Type: TokenRParen, Value: ")", Pos: pos}), nil
	}

	// Directly after an operator the grammar expects a value, so a word run
	// there is a literal rather than a field or keyword.
	if t.prev == TokenOperator {
		return t.scanValue(pos)
	}

	if tok, ok, err := t.scanOperator(pos); ok {
		return tok, err
	}

	if isWordChar(t.ch) {
		return t.scanFieldOrKeyword(pos), nil
	}

	return nil, &LexError{Pos: pos, Message: fmt.Sprintf("unexpected character %q", t.ch)}
}

// scanOperator scans a comparison operator, longest match first. The second
// result reports whether the current character can start an operator at all.
func (t *Tokenizer) scanOperator(pos int) (*Token, bool, error) {
	switch t.ch {
	case '>', '<', ':':
		op := string(t.ch)
		t.advance()
		if t.ch == '=' {
			op += "="
			t.advance()
		}
		return t.emit(&Token{Type: TokenOperator, Value: op, Pos: pos}), true, nil
	case '~', '!':
		ch := t.ch
		t.advance()
		if t.ch != '=' {
			return nil, true, &LexError{Pos: pos, Message: fmt.Sprintf("unexpected character %q", ch)}
		}
		t.advance()
		return t.emit(&Token{Type: TokenOperator, Value: string(ch) + "=", Pos: pos}), true, nil
	}
	return nil, false, nil
}

// scanValue scans the literal following a comparison operator: a quoted
// string, a signed number, or a bare word run. Between the numeric and
// word-run alternatives the longer match wins, so 99.99 is one number while
// 12abc is one word.
func (t *Tokenizer) scanValue(pos int) (*Token, error) {
	if t.ch == '"' {
		raw, err := t.scanQuotedString()
		if err != nil {
			return nil, err
		}
		return t.emit(&Token{Type: TokenValue, Value: raw, Pos: pos}), nil
	}

	wordEnd := wordRunEnd(t.input, t.pos)
	numEnd := numberRunEnd(t.input, t.pos)
	end := wordEnd
	if numEnd > end {
		end = numEnd
	}
	if end == t.pos {
		return nil, &LexError{Pos: pos, Message: fmt.Sprintf("unexpected character %q", t.ch)}
	}

	value := t.input[t.pos:end]
	t.jumpTo(end)
	return t.emit(&Token{Type: TokenValue, Value: value, Pos: pos}), nil
}

// scanQuotedString scans a double-quoted string literal and returns the raw
// lexeme including the surrounding quotes. A backslash escapes the next
// character for the purpose of finding the closing quote; the lexeme itself
// is left untouched, unescaping happens during value coercion.
func (t *Tokenizer) scanQuotedString() (string, error) {
	start := t.pos
	t.advance() // opening quote

	for t.ch != 0 && t.ch != '"' {
		if t.ch == '\\' {
			t.advance()
			if t.ch == 0 {
				break
			}
		}
		t.advance()
	}

	if t.ch != '"' {
		return "", &LexError{Pos: start, Message: "unterminated string literal"}
	}
	t.advance() // closing quote

	return t.input[start:t.pos], nil
}

// scanFieldOrKeyword scans a word run outside value position and classifies
// it as a logical keyword or a field name. Keywords match case-insensitively
// as whole words; true, false and null are ordinary field names here because
// only value position gives them literal meaning.
func (t *Tokenizer) scanFieldOrKeyword(pos int) *Token {
	end := wordRunEnd(t.input, t.pos)
	word := t.input[t.pos:end]
	t.jumpTo(end)

	switch strings.ToLower(word) {
	case "and":
		return t.emit(&Token{Type: TokenAnd, Value: word, Pos: pos})
	case "or":
		return t.emit(&Token{Type: TokenOr, Value: word, Pos: pos})
	}
	return t.emit(&Token{Type: TokenField, Value: word, Pos: pos})
}

// TokenizeAll returns all tokens from the input
func (t *Tokenizer) TokenizeAll() ([]*Token, error) {
	var tokens []*Token

	for {
		token, err := t.NextToken()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, token)

		if token.Type == TokenEOF {
			break
		}
	}

	return tokens, nil
}

package query

import "fmt"

// DefaultMaxDepth bounds parenthesis nesting. Logical chains use iteration,
// so parenthesized groups are the only source of parser recursion and the
// cap keeps adversarial inputs from exhausting the stack.
const DefaultMaxDepth = 512

// ASTParser builds a parse tree from tokens using recursive descent.
//
// Grammar, loosest binding first:
//
//	or_expr    := and_expr (OR and_expr)*
//	and_expr   := comparison (AND comparison)*
//	comparison := lookup | '(' or_expr ')'
//	lookup     := FIELD OPERATOR VALUE
//
// Chains of the same logical operator collapse into a single n-ary node, and
// a chain of one collapses into its only child, so parentheses shape the
// tree only when they actually override precedence.
type ASTParser struct {
	tokens   []*Token
	current  int
	depth    int
	maxDepth int
}

// NewASTParser creates a new parser for tokens. A maxDepth of zero or less
// selects DefaultMaxDepth.
func NewASTParser(tokens []*Token, maxDepth int) *ASTParser {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &ASTParser{tokens: tokens, maxDepth: maxDepth}
}

// Parse parses the tokens into a tree and verifies all input was consumed.
func (p *ASTParser) Parse() (ParseNode, error) {
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if tok := p.currentToken(); tok.Type != TokenEOF {
		return nil, &SyntaxError{
			Pos:     tok.Pos,
			Token:   tok.Value,
			Message: fmt.Sprintf("unexpected %s after expression", describeToken(tok)),
		}
	}

	return node, nil
}

// currentToken returns the token at the current position
func (p *ASTParser) currentToken() *Token {
	if p.current < len(p.tokens) {
		return p.tokens[p.current]
	}
	return &Token{Type: TokenEOF}
}

// advance moves to the next token
func (p *ASTParser) advance() {
	if p.current < len(p.tokens) {
		p.current++
	}
}

func (p *ASTParser) parseOr() (ParseNode, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	children := []ParseNode{first}
	for p.currentToken().Type == TokenOr {
		p.advance()
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}

	if len(children) == 1 {
		return children[0], nil
	}
	return &OrNode{Children: children}, nil
}

func (p *ASTParser) parseAnd() (ParseNode, error) {
	first, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	children := []ParseNode{first}
	for p.currentToken().Type == TokenAnd {
		p.advance()
		next, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}

	if len(children) == 1 {
		return children[0], nil
	}
	return &AndNode{Children: children}, nil
}

func (p *ASTParser) parseComparison() (ParseNode, error) {
	tok := p.currentToken()

	switch tok.Type {
	case TokenLParen:
		p.advance()
		p.depth++
		if p.depth > p.maxDepth {
			return nil, &SyntaxError{
				Pos:     tok.Pos,
				Token:   tok.Value,
				Message: fmt.Sprintf("query exceeds maximum nesting depth %d", p.maxDepth),
			}
		}
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		closing := p.currentToken()
		if closing.Type != TokenRParen {
			return nil, &SyntaxError{
				Pos:     closing.Pos,
				Token:   closing.Value,
				Message: "missing closing parenthesis",
			}
		}
		p.advance()
		p.depth--
		return inner, nil

	case TokenField:
		return p.parseLookup()
	}

	return nil, &SyntaxError{
		Pos:     tok.Pos,
		Token:   tok.Value,
		Message: fmt.Sprintf("expected field or '(', got %s", describeToken(tok)),
	}
}

func (p *ASTParser) parseLookup() (ParseNode, error) {
	field := p.currentToken()
	p.advance()

	op := p.currentToken()
	if op.Type != TokenOperator {
		return nil, &SyntaxError{
			Pos:     op.Pos,
			Token:   op.Value,
			Message: fmt.Sprintf("expected comparison operator after field %q, got %s", field.Value, describeToken(op)),
		}
	}
	p.advance()

	value := p.currentToken()
	if value.Type != TokenValue {
		return nil, &SyntaxError{
			Pos:     value.Pos,
			Token:   value.Value,
			Message: fmt.Sprintf("expected value after operator %q, got %s", op.Value, describeToken(value)),
		}
	}
	p.advance()

	return &LookupNode{
		Field:    field.Value,
		Operator: op.Value,
		RawValue: value.Value,
		Pos:      field.Pos,
	}, nil
}

// describeToken renders a token for syntax error messages
func describeToken(tok *Token) string {
	switch tok.Type {
	case TokenField, TokenOperator, TokenValue:
		return fmt.Sprintf("%s %q", tok.Type, tok.Value)
	}
	return tok.Type.String()
}

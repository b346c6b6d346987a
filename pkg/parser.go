package cog

import (
	"fmt"

	"github.com/pkg/errors"
)

// DefaultMaxDepth bounds how deeply expressions, blocks and types may nest.
const DefaultMaxDepth = 1024

type Option func(p *Parser)

// WithMaxDepth overrides DefaultMaxDepth. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// WithPointerOps enables the prefix `&` (address-of) and `*` (dereference)
// operators at the unary level.
func WithPointerOps(enabled bool) Option {
	return func(p *Parser) {
		p.pointerOps = enabled
	}
}

// Parser is a recursive-descent parser over a fully lexed token vector. It
// parses a single input once and is not safe for concurrent use.
type Parser struct {
	tokens  []Token
	current int
	source  string

	depth      int
	maxDepth   int
	pointerOps bool
}

// NewParser lexes src and returns a parser over its tokens. Lexing errors are
// reported here rather than by Parse.
func NewParser(src string, opts ...Option) (*Parser, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}

	return NewParserFromTokens(src, tokens, opts...), nil
}

// NewParserFromTokens builds a parser over an existing token vector. src is
// only used to quote the remaining input in diagnostics and may be empty.
func NewParserFromTokens(src string, tokens []Token, opts ...Option) *Parser {
	p := &Parser{
		tokens:   tokens,
		source:   src,
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Parse lexes and parses src in one step.
func Parse(src string, opts ...Option) ([]Expr, error) {
	p, err := NewParser(src, opts...)
	if err != nil {
		return nil, err
	}

	return p.Parse()
}

// IsIncomplete reports whether err was caused by the input ending too early,
// so that appending more input could make it parse.
func IsIncomplete(err error) bool {
	var serr *SyntaxError
	if errors.As(err, &serr) {
		return serr.AtEnd
	}

	return false
}

// Parse returns the top-level expressions in source order. It stops at the
// first error.
func (p *Parser) Parse() ([]Expr, error) {
	var statements []Expr
	for !p.isAtEnd() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}

		statements = append(statements, stmt)
	}

	return statements, nil
}

func (p *Parser) statement() (Expr, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	p.matchToken(TokenSemicolon)

	return expr, nil
}

func (p *Parser) expression() (Expr, error) {
	return p.nested(func() (Expr, error) {
		switch p.peek().Typ {
		case TokenIf:
			return p.ifElse()
		case TokenFn:
			return p.funcDecl()
		case TokenReturn:
			return p.returnExpr()
		default:
			return p.assignment()
		}
	})
}

// nested runs f one level deeper, failing once the depth limit is exceeded.
func (p *Parser) nested(f func() (Expr, error)) (Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	return f()
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorf(ErrMalformedExpression, fmt.Sprintf("nesting exceeds the maximum depth of %d", p.maxDepth))
	}

	return nil
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) peek() Token {
	if p.isAtEnd() {
		return Token{Typ: TokenEOF, Offset: len(p.source)}
	}

	return p.tokens[p.current]
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}

	return p.previous()
}

func (p *Parser) previous() Token {
	if p.current == 0 {
		return Token{Typ: TokenEOF}
	}

	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.current >= len(p.tokens)
}

func (p *Parser) check(typ TokenType) bool {
	return !p.isAtEnd() && p.peek().Typ == typ
}

// matchToken consumes the current token if it is of kind typ. Payloads are
// never compared.
func (p *Parser) matchToken(typ TokenType) bool {
	if !p.check(typ) {
		return false
	}

	p.advance()
	return true
}

func (p *Parser) remainder() string {
	if p.isAtEnd() {
		return ""
	}

	if off := p.peek().Offset; off >= 0 && off < len(p.source) {
		return p.source[off:]
	}

	return ""
}

func (p *Parser) errorf(kind ErrorKind, detail string) *SyntaxError {
	return &SyntaxError{
		Kind:      kind,
		Detail:    detail,
		Remainder: p.remainder(),
		AtEnd:     p.isAtEnd(),
	}
}

func (p *Parser) expectedAfter(expected, after string) *SyntaxError {
	err := p.errorf(ErrExpectedAfter, expected)
	err.After = after

	return err
}

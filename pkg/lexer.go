package cog

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

type stateFunc func(l *Lexer) stateFunc

const EOF rune = -1

var keywordTable = map[string]TokenType{
	"i32":    TokenTypeI32,
	"i64":    TokenTypeI64,
	"u32":    TokenTypeU32,
	"u64":    TokenTypeU64,
	"f32":    TokenTypeF32,
	"f64":    TokenTypeF64,
	"bool":   TokenTypeBool,
	"String": TokenTypeString,
	"if":     TokenIf,
	"else":   TokenElse,
	"let":    TokenLet,
	"fn":     TokenFn,
	"return": TokenReturn,
}

var operatorTable = map[string]TokenType{
	"+":   TokenPlus,
	"-":   TokenMinus,
	"*":   TokenMulti,
	"/":   TokenDiv,
	"%":   TokenPercent,
	"++":  TokenPlusPlus,
	"--":  TokenMinusMinus,
	"!":   TokenBang,
	"=":   TokenEqual,
	"==":  TokenEqualEqual,
	"!=":  TokenNotEqual,
	"&&":  TokenAnd,
	"||":  TokenOr,
	">":   TokenGreater,
	">=":  TokenGreaterEqual,
	"<":   TokenLess,
	"<=":  TokenLessEqual,
	"->":  TokenArrowSmall,
	"=>":  TokenArrowBig,
	"(":   TokenOpenParentheses,
	")":   TokenCloseParentheses,
	"[":   TokenOpenBracket,
	"]":   TokenCloseBracket,
	"{":   TokenOpenCurly,
	"}":   TokenCloseCurly,
	",":   TokenComma,
	";":   TokenSemicolon,
	":":   TokenColon,
	".":   TokenDot,
	"...": TokenEllipsis,
	"&":   TokenAmpersand,
}

// longest operator in operatorTable
const maxOperatorLen = 3

// Lexer turns source text into a token vector. A Lexer is meant to be run once.
type Lexer struct {
	input  string
	start  int
	pos    int
	tokens []Token
	err    error
}

func NewLexer(input string) *Lexer {
	return &Lexer{
		input: input,
	}
}

// Lex is a shorthand for NewLexer(input).Run().
func Lex(input string) ([]Token, error) {
	return NewLexer(input).Run()
}

// Run scans the whole input. It stops at the first character that no rule and
// no fallback classification accepts.
func (l *Lexer) Run() ([]Token, error) {
	for state := defaultState; state != nil; {
		state = state(l)
	}

	if l.err != nil {
		return nil, l.err
	}

	return l.tokens, nil
}

func defaultState(l *Lexer) stateFunc {
	for {
		l.start = l.pos

		switch r := l.peek(); {
		case r == EOF:
			return nil
		case isWhitespace(r):
			l.next()
			continue
		case isDigit(r):
			return numberState
		case r == '"':
			return stringState
		case isWordStart(r):
			return wordState
		default:
			return operatorState
		}
	}
}

func numberState(l *Lexer) stateFunc {
	for isDigit(l.peek()) {
		l.next()
	}

	isFloat := false
	if l.peek() == '.' && l.pos+1 < len(l.input) && isDigit(rune(l.input[l.pos+1])) {
		isFloat = true

		l.next() // Skip the dot
		for isDigit(l.peek()) {
			l.next()
		}
	}

	slice := l.input[l.start:l.pos]
	if isFloat {
		if f, err := strconv.ParseFloat(slice, 64); err == nil {
			return l.emit(Token{Typ: TokenFloat, Float: f})
		}
	} else if n, err := strconv.ParseInt(slice, 10, 64); err == nil {
		return l.emit(Token{Typ: TokenInteger, Int: n})
	}

	// Out of range for the rule's payload type
	return l.fallback(slice)
}

func stringState(l *Lexer) stateFunc {
	l.next() // Skip the leading double-quote

	var str strings.Builder
	for {
		switch r := l.next(); r {
		case EOF:
			return l.unterminated()
		case '"':
			return l.emit(Token{Typ: TokenString, Value: str.String()})
		case '\\':
			switch esc := l.next(); esc {
			case 'n':
				str.WriteByte('\n')
			case 'r':
				str.WriteByte('\r')
			case 't':
				str.WriteByte('\t')
			case '"':
				str.WriteByte('"')
			case '\\':
				str.WriteByte('\\')
			case EOF:
				return l.unterminated()
			default:
				return rawStringState
			}
		default:
			str.WriteRune(r)
		}
	}
}

// rawStringState finishes a quoted literal that contains an escape the string
// rule does not know. The slice goes to the fallback classifier, which keeps
// the contents between the quotes verbatim.
func rawStringState(l *Lexer) stateFunc {
	for {
		switch r := l.next(); r {
		case EOF:
			return l.unterminated()
		case '\\':
			if l.next() == EOF {
				return l.unterminated()
			}
		case '"':
			return l.fallback(l.input[l.start:l.pos])
		}
	}
}

func wordState(l *Lexer) stateFunc {
	for isWordPart(l.peek()) {
		l.next()
	}

	word := l.input[l.start:l.pos]
	switch word {
	case "true":
		return l.emit(Token{Typ: TokenBoolean, Bool: true})
	case "false":
		return l.emit(Token{Typ: TokenBoolean, Bool: false})
	}

	if t, ok := keywordTable[word]; ok {
		return l.emit(Token{Typ: t})
	}

	return l.emit(Token{Typ: TokenIdentifier, Value: word})
}

func operatorState(l *Lexer) stateFunc {
	for n := maxOperatorLen; n > 0; n-- {
		if l.pos+n > len(l.input) {
			continue
		}

		if tok, ok := operatorTable[l.input[l.pos:l.pos+n]]; ok {
			l.pos += n
			return l.emit(Token{Typ: tok})
		}
	}

	// No rule starts here. Letters and digits outside ASCII are gathered into
	// one run so the fallback can still classify them as an identifier.
	r := l.next()
	if unicode.IsLetter(r) || unicode.IsNumber(r) {
		for p := l.peek(); p == '_' || unicode.IsLetter(p) || unicode.IsNumber(p); p = l.peek() {
			l.next()
		}
	}

	return l.fallback(l.input[l.start:l.pos])
}

func (l *Lexer) fallback(slice string) stateFunc {
	tok, err := classify(slice)
	if err != nil {
		l.err = err.withRemainder(l.input[l.start:])
		return nil
	}

	return l.emit(tok)
}

// classify recognises slices the rules rejected: integer, float, quoted
// string, boolean word and identifier, in that order.
func classify(slice string) (Token, *SyntaxError) {
	if n, err := strconv.ParseInt(slice, 10, 64); err == nil {
		return Token{Typ: TokenInteger, Int: n}, nil
	}

	// Out of range floats saturate to an infinity
	if f, err := strconv.ParseFloat(slice, 64); err == nil || errors.Is(err, strconv.ErrRange) {
		return Token{Typ: TokenFloat, Float: f}, nil
	}

	if len(slice) >= 2 && strings.HasPrefix(slice, `"`) && strings.HasSuffix(slice, `"`) {
		return Token{Typ: TokenString, Value: slice[1 : len(slice)-1]}, nil
	}

	if slice == "true" || slice == "false" {
		return Token{Typ: TokenBoolean, Bool: slice == "true"}, nil
	}

	if slice != "" && strings.IndexFunc(slice, func(r rune) bool {
		return r != '_' && !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) < 0 {
		return Token{Typ: TokenIdentifier, Value: slice}, nil
	}

	r, _ := utf8.DecodeRuneInString(slice)
	return Token{}, &SyntaxError{Kind: ErrUnknownChar, Char: r}
}

func (l *Lexer) unterminated() stateFunc {
	l.err = &SyntaxError{
		Kind:      ErrUnknownChar,
		Char:      '"',
		Remainder: l.input[l.start:],
		AtEnd:     true,
	}

	return nil
}

func (l *Lexer) emit(tok Token) stateFunc {
	tok.Offset = l.start
	l.tokens = append(l.tokens, tok)

	return defaultState
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return EOF
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		return EOF
	}

	r, width := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += width

	return r
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\f'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isWordStart(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isWordPart(r rune) bool {
	return isWordStart(r) || isDigit(r)
}

package cog

import (
	"fmt"
	"strconv"
)

type TokenType uint64

const (
	// TokenEOF is returned by the parser when it runs out of tokens. The lexer never emits it.
	TokenEOF TokenType = iota

	TokenPlus
	TokenMinus
	TokenMulti
	TokenDiv
	TokenPercent

	TokenPlusPlus
	TokenMinusMinus
	TokenBang

	TokenEqual

	TokenEqualEqual
	TokenNotEqual
	TokenAnd
	TokenOr
	TokenGreater
	TokenGreaterEqual
	TokenLess
	TokenLessEqual

	TokenArrowSmall
	TokenArrowBig

	TokenOpenParentheses
	TokenCloseParentheses
	TokenOpenBracket
	TokenCloseBracket
	TokenOpenCurly
	TokenCloseCurly
	TokenComma
	TokenSemicolon
	TokenColon
	TokenDot
	TokenEllipsis
	TokenAmpersand

	TokenInteger
	TokenFloat
	TokenString
	TokenBoolean
	TokenIdentifier

	TokenTypeI32
	TokenTypeI64
	TokenTypeU32
	TokenTypeU64
	TokenTypeF32
	TokenTypeF64
	TokenTypeBool
	TokenTypeString

	TokenIf
	TokenElse
	TokenLet
	TokenFn
	TokenReturn
)

var tokenNames = map[TokenType]string{
	TokenEOF:              "EOF",
	TokenPlus:             "+",
	TokenMinus:            "-",
	TokenMulti:            "*",
	TokenDiv:              "/",
	TokenPercent:          "%",
	TokenPlusPlus:         "++",
	TokenMinusMinus:       "--",
	TokenBang:             "!",
	TokenEqual:            "=",
	TokenEqualEqual:       "==",
	TokenNotEqual:         "!=",
	TokenAnd:              "&&",
	TokenOr:               "||",
	TokenGreater:          ">",
	TokenGreaterEqual:     ">=",
	TokenLess:             "<",
	TokenLessEqual:        "<=",
	TokenArrowSmall:       "->",
	TokenArrowBig:         "=>",
	TokenOpenParentheses:  "(",
	TokenCloseParentheses: ")",
	TokenOpenBracket:      "[",
	TokenCloseBracket:     "]",
	TokenOpenCurly:        "{",
	TokenCloseCurly:       "}",
	TokenComma:            ",",
	TokenSemicolon:        ";",
	TokenColon:            ":",
	TokenDot:              ".",
	TokenEllipsis:         "...",
	TokenAmpersand:        "&",
	TokenInteger:          "Integer",
	TokenFloat:            "Float",
	TokenString:           "String",
	TokenBoolean:          "Boolean",
	TokenIdentifier:       "Identifier",
	TokenTypeI32:          "i32",
	TokenTypeI64:          "i64",
	TokenTypeU32:          "u32",
	TokenTypeU64:          "u64",
	TokenTypeF32:          "f32",
	TokenTypeF64:          "f64",
	TokenTypeBool:         "bool",
	TokenTypeString:       "String",
	TokenIf:               "if",
	TokenElse:             "else",
	TokenLet:              "let",
	TokenFn:               "fn",
	TokenReturn:           "return",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}

	return fmt.Sprintf("TokenType(%d)", uint64(t))
}

// IsTypeKeyword reports whether t is one of the primitive type keywords.
func (t TokenType) IsTypeKeyword() bool {
	return t >= TokenTypeI32 && t <= TokenTypeString
}

// Token is a lexical unit. Only the payload field matching Typ is meaningful:
// Value for identifiers and strings, Int, Float and Bool for the other literals.
// Offset is the byte offset of the token in the source text.
type Token struct {
	Typ    TokenType
	Value  string
	Int    int64
	Float  float64
	Bool   bool
	Offset int
}

func (t Token) String() string {
	switch t.Typ {
	case TokenInteger:
		return "Integer(" + strconv.FormatInt(t.Int, 10) + ")"
	case TokenFloat:
		return "Float(" + strconv.FormatFloat(t.Float, 'g', -1, 64) + ")"
	case TokenString:
		return "String(" + strconv.Quote(t.Value) + ")"
	case TokenBoolean:
		return "Boolean(" + strconv.FormatBool(t.Bool) + ")"
	case TokenIdentifier:
		return "Identifier(" + t.Value + ")"
	default:
		return t.Typ.String()
	}
}

package cog

import (
	"fmt"
	"strings"
)

// ErrorKind classifies syntax errors. The numeric value is the stable
// diagnostic code (rendered as P0000, P0001, ...).
type ErrorKind int

const (
	ErrUnknownChar ErrorKind = iota
	ErrUnexpectedToken
	ErrUnexpectedEndOfInput
	ErrExpectedToken
	ErrExpectedAfter
	ErrInvalidAssignment
	ErrUnknownType
	ErrMalformedFuncDecl
	ErrMalformedReturn
	ErrMalformedIfElse
	ErrMalformedBlock
	ErrMalformedVarDecl
	ErrMalformedExpression
	ErrMalformedBinaryOperator
)

var errorKindNames = [...]string{
	ErrUnknownChar:             "UnknownCharInInput",
	ErrUnexpectedToken:         "UnexpectedToken",
	ErrUnexpectedEndOfInput:    "UnexpectedEndOfInput",
	ErrExpectedToken:           "ExpectedToken",
	ErrExpectedAfter:           "ExpectedAfter",
	ErrInvalidAssignment:       "InvalidAssignment",
	ErrUnknownType:             "UnknownType",
	ErrMalformedFuncDecl:       "MalformedFuncDecl",
	ErrMalformedReturn:         "MalformedReturn",
	ErrMalformedIfElse:         "MalformedIfElse",
	ErrMalformedBlock:          "MalformedBlock",
	ErrMalformedVarDecl:        "MalformedVarDecl",
	ErrMalformedExpression:     "MalformedExpression",
	ErrMalformedBinaryOperator: "MalformedBinaryOperator",
}

func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}

	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Code returns the diagnostic code of the kind, for example "P0004".
func (k ErrorKind) Code() string {
	return fmt.Sprintf("P%04d", int(k))
}

// Error lets a kind be used as an errors.Is target.
func (k ErrorKind) Error() string {
	return k.String()
}

// SyntaxError is produced by the lexer and the parser. Detail holds the
// kind-specific payload: the unexpected token, the expected token, the
// unknown type name or a free-form message. Remainder is the source text
// that was left when the error occurred, if known. AtEnd is set when the
// input ran out before the construct was complete.
type SyntaxError struct {
	Kind      ErrorKind
	Char      rune
	Detail    string
	After     string
	Remainder string
	AtEnd     bool
}

func (e *SyntaxError) Code() string {
	return e.Kind.Code()
}

// Message is the error text without the code prefix and the remainder.
func (e *SyntaxError) Message() string {
	switch e.Kind {
	case ErrUnknownChar:
		return fmt.Sprintf("Unknown character `%c`", e.Char)
	case ErrUnexpectedToken:
		return fmt.Sprintf("Unexpected token `%s`", e.Detail)
	case ErrUnexpectedEndOfInput:
		return "Unexpected end of input"
	case ErrExpectedToken:
		return fmt.Sprintf("Expected token `%s`", e.Detail)
	case ErrExpectedAfter:
		return fmt.Sprintf("Expected token `%s` after `%s`", e.Detail, e.After)
	case ErrInvalidAssignment:
		return "Invalid assignment: " + e.Detail
	case ErrUnknownType:
		return fmt.Sprintf("Unknown type `%s`", e.Detail)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "error[%s]: %s", e.Code(), e.Message())

	if e.Remainder != "" {
		b.WriteByte('\n')
		b.WriteString(e.Remainder)
	}

	return b.String()
}

// Is matches another *SyntaxError or an ErrorKind of the same kind.
func (e *SyntaxError) Is(target error) bool {
	switch t := target.(type) {
	case ErrorKind:
		return e.Kind == t
	case *SyntaxError:
		return e.Kind == t.Kind
	}

	return false
}

func (e *SyntaxError) withRemainder(rem string) *SyntaxError {
	e.Remainder = rem
	return e
}

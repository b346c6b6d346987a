package cog

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.cog.dev/internal/test"
)

func withoutOffsets(toks []Token) []Token {
	if toks == nil {
		return nil
	}

	out := make([]Token, len(toks))
	for i, tok := range toks {
		tok.Offset = 0
		out[i] = tok
	}

	return out
}

func TestLexer(t *testing.T) {
	cases := []struct {
		data   string
		fail   bool
		expect []Token
	}{
		{
			"fn main () {}",
			false,
			[]Token{
				{Typ: TokenFn},
				{Typ: TokenIdentifier, Value: "main"},
				{Typ: TokenOpenParentheses},
				{Typ: TokenCloseParentheses},
				{Typ: TokenOpenCurly},
				{Typ: TokenCloseCurly},
			},
		},
		{
			"let x: i32 = 1;",
			false,
			[]Token{
				{Typ: TokenLet},
				{Typ: TokenIdentifier, Value: "x"},
				{Typ: TokenColon},
				{Typ: TokenTypeI32},
				{Typ: TokenEqual},
				{Typ: TokenInteger, Int: 1},
				{Typ: TokenSemicolon},
			},
		},
		{
			"a==b != c<=d>=e&&f||g->h=>i...j",
			false,
			[]Token{
				{Typ: TokenIdentifier, Value: "a"},
				{Typ: TokenEqualEqual},
				{Typ: TokenIdentifier, Value: "b"},
				{Typ: TokenNotEqual},
				{Typ: TokenIdentifier, Value: "c"},
				{Typ: TokenLessEqual},
				{Typ: TokenIdentifier, Value: "d"},
				{Typ: TokenGreaterEqual},
				{Typ: TokenIdentifier, Value: "e"},
				{Typ: TokenAnd},
				{Typ: TokenIdentifier, Value: "f"},
				{Typ: TokenOr},
				{Typ: TokenIdentifier, Value: "g"},
				{Typ: TokenArrowSmall},
				{Typ: TokenIdentifier, Value: "h"},
				{Typ: TokenArrowBig},
				{Typ: TokenIdentifier, Value: "i"},
				{Typ: TokenEllipsis},
				{Typ: TokenIdentifier, Value: "j"},
			},
		},
		{
			"++--!=!",
			false,
			[]Token{
				{Typ: TokenPlusPlus},
				{Typ: TokenMinusMinus},
				{Typ: TokenNotEqual},
				{Typ: TokenBang},
			},
		},
		{
			"+ - * / % < > = & [ ] , .",
			false,
			[]Token{
				{Typ: TokenPlus},
				{Typ: TokenMinus},
				{Typ: TokenMulti},
				{Typ: TokenDiv},
				{Typ: TokenPercent},
				{Typ: TokenLess},
				{Typ: TokenGreater},
				{Typ: TokenEqual},
				{Typ: TokenAmpersand},
				{Typ: TokenOpenBracket},
				{Typ: TokenCloseBracket},
				{Typ: TokenComma},
				{Typ: TokenDot},
			},
		},
		{
			"12 3.5 7.",
			false,
			[]Token{
				{Typ: TokenInteger, Int: 12},
				{Typ: TokenFloat, Float: 3.5},
				{Typ: TokenInteger, Int: 7},
				{Typ: TokenDot},
			},
		},
		{
			"99999999999999999999",
			false,
			[]Token{
				{Typ: TokenFloat, Float: 1e20},
			},
		},
		{
			strings.Repeat("9", 400),
			false,
			[]Token{
				{Typ: TokenFloat, Float: math.Inf(1)},
			},
		},
		{
			"i32 i64 u32 u64 f32 f64 bool String",
			false,
			[]Token{
				{Typ: TokenTypeI32},
				{Typ: TokenTypeI64},
				{Typ: TokenTypeU32},
				{Typ: TokenTypeU64},
				{Typ: TokenTypeF32},
				{Typ: TokenTypeF64},
				{Typ: TokenTypeBool},
				{Typ: TokenTypeString},
			},
		},
		{
			"if else return true false iffy _x1",
			false,
			[]Token{
				{Typ: TokenIf},
				{Typ: TokenElse},
				{Typ: TokenReturn},
				{Typ: TokenBoolean, Bool: true},
				{Typ: TokenBoolean, Bool: false},
				{Typ: TokenIdentifier, Value: "iffy"},
				{Typ: TokenIdentifier, Value: "_x1"},
			},
		},
		{
			`"string" ""`,
			false,
			[]Token{
				{Typ: TokenString, Value: "string"},
				{Typ: TokenString, Value: ""},
			},
		},
		{
			`"a\nb\tc\rd\"e\\f"`,
			false,
			[]Token{
				{Typ: TokenString, Value: "a\nb\tc\rd\"e\\f"},
			},
		},
		{
			`"keep \q raw"`,
			false,
			[]Token{
				{Typ: TokenString, Value: `keep \q raw`},
			},
		},
		{
			"café",
			false,
			[]Token{
				{Typ: TokenIdentifier, Value: "caf"},
				{Typ: TokenIdentifier, Value: "é"},
			},
		},
		{
			" \t\n\f",
			false,
			nil,
		},
		{
			"\"unclosed string",
			true,
			nil,
		},
		{
			"@",
			true,
			nil,
		},
		{
			"a\rb",
			true,
			nil,
		},
	}

	for _, c := range cases {
		toks, err := Lex(c.data)
		if c.fail {
			assert.Error(t, err, c.data)
		} else {
			assert.NoError(t, err, c.data)
		}

		assert.Equal(t, c.expect, withoutOffsets(toks), c.data)
	}
}

func TestLexerOffsets(t *testing.T) {
	toks, err := Lex("let  x = \"é\" + 1")
	require.NoError(t, err)

	var offsets []int
	for _, tok := range toks {
		offsets = append(offsets, tok.Offset)
	}

	assert.Equal(t, []int{0, 5, 7, 9, 14, 16}, offsets)
}

func TestLexerErrors(t *testing.T) {
	cases := []struct {
		data      string
		char      rune
		remainder string
		atEnd     bool
	}{
		{"x = @y", '@', "@y", false},
		{"#", '#', "#", false},
		{"let s = \"abc", '"', "\"abc", true},
		{"\"trailing\\", '"', "\"trailing\\", true},
		{"\"bad \\q", '"', "\"bad \\q", true},
	}

	for _, c := range cases {
		_, err := Lex(c.data)
		require.Error(t, err, c.data)

		var serr *SyntaxError
		require.True(t, errors.As(err, &serr), c.data)
		assert.Equal(t, ErrUnknownChar, serr.Kind, c.data)
		assert.Equal(t, c.char, serr.Char, c.data)
		assert.Equal(t, c.remainder, serr.Remainder, c.data)
		assert.Equal(t, c.atEnd, serr.AtEnd, c.data)
		assert.True(t, errors.Is(err, ErrUnknownChar), c.data)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		slice  string
		fail   bool
		expect Token
	}{
		{"42", false, Token{Typ: TokenInteger, Int: 42}},
		{"-3", false, Token{Typ: TokenInteger, Int: -3}},
		{"2.5", false, Token{Typ: TokenFloat, Float: 2.5}},
		{strings.Repeat("1", 320), false, Token{Typ: TokenFloat, Float: math.Inf(1)}},
		{`"raw\x"`, false, Token{Typ: TokenString, Value: `raw\x`}},
		{"true", false, Token{Typ: TokenBoolean, Bool: true}},
		{"ñandú_2", false, Token{Typ: TokenIdentifier, Value: "ñandú_2"}},
		{"$", true, Token{}},
		{"", true, Token{}},
	}

	for _, c := range cases {
		tok, err := classify(c.slice)
		if c.fail {
			assert.NotNil(t, err, c.slice)
			continue
		}

		assert.Nil(t, err, c.slice)
		assert.Equal(t, c.expect, tok, c.slice)
	}
}

func TestLexerRandomTokens(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		data := test.GetRandomTokensFrom(r, 200, " ")

		toks, err := Lex(data)
		require.NoError(t, err, data)
		assert.NotEmpty(t, toks)
	}
}

// Lexing printable ASCII always terminates, either with tokens or an error.
func TestLexerTotality(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		data := test.GetRandomPrintable(r, 64)

		toks, err := Lex(data)
		if err != nil {
			assert.Nil(t, toks)

			var serr *SyntaxError
			assert.True(t, errors.As(err, &serr), data)
			continue
		}

		assert.LessOrEqual(t, len(toks), len(data))
	}
}

// Use a package-level variable to avoid compiler optimisation
var benchResult []Token

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		// Setup
		b.StopTimer()
		data := test.GetRandomTokens(size)

		var err error
		b.StartTimer()

		benchResult, err = Lex(data)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLexer100(b *testing.B) {
	benchmarkLexer(100, b)
}

func BenchmarkLexer1000(b *testing.B) {
	benchmarkLexer(1000, b)
}

func BenchmarkLexer10000(b *testing.B) {
	benchmarkLexer(10000, b)
}

func BenchmarkLexer100000(b *testing.B) {
	benchmarkLexer(100000, b)
}

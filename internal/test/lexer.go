package test

import (
	"math/rand"
	"strings"
)

const validTokens = "fn;main;let;x;y;i32;i64;u32;u64;f32;f64;bool;String;if;else;return;true;false;(;);{;};[;];,;:;.;...;->;=>;+;-;*;/;%;++;--;!;=;==;!=;&&;||;<;<=;>;>=;&;123;321;0;3.14;1.0;\"this is a string\";\"this is a longer string containing a bunch of text: Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.\";\"escapes \\n \\t \\\" \\\\\";\"\";under_score;\n"

// GetRandomTokens returns size tokens picked at random from a fixed set of
// valid spellings, joined by spaces.
func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	return GetRandomTokensFrom(rand.New(rand.NewSource(rand.Int63())), size, sep)
}

// GetRandomTokensFrom is GetRandomTokensWithSep with an explicit source, for
// reproducible inputs.
func GetRandomTokensFrom(r *rand.Rand, size int, sep string) string {
	valid := strings.Split(validTokens, ";")

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[r.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}

// GetRandomPrintable returns size random characters drawn from printable
// ASCII and the whitespace the lexer skips.
func GetRandomPrintable(r *rand.Rand, size int) string {
	const extra = " \t\n\f"

	var b strings.Builder
	for i := 0; i < size; i++ {
		if r.Intn(10) == 0 {
			b.WriteByte(extra[r.Intn(len(extra))])
			continue
		}

		b.WriteByte(byte(' ' + r.Intn('~'-' '+1)))
	}

	return b.String()
}

package cog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	cases := []struct {
		data   string
		expect []string
	}{
		{"fn main() -> i32 { let x = 1; if x { return x } return 0 }", nil},
		{"return 1", []string{"return outside function body: (return 1)"}},
		{"{ if x { return 2 } }", []string{"return outside function body: (return 2)"}},
		{"fn f(a: i32, b: i32, a: f64) {}", []string{"duplicate parameter 'a' in function 'f'"}},
	}

	for _, c := range cases {
		ast, err := Parse(c.data)
		require.NoError(t, err, c.data)

		var got []string
		for _, cerr := range Check(ast) {
			got = append(got, cerr.String())
		}

		assert.Equal(t, c.expect, got, c.data)
	}
}

func TestCheckMalformedTrees(t *testing.T) {
	cases := []struct {
		name   string
		data   []Expr
		expect []string
	}{
		{
			"missing operand",
			[]Expr{&BinaryExpr{Operation: BinaryAddition, Left: NewIntLiteral(1)}},
			[]string{"malformed binary expression: missing operand of '+'"},
		},
		{
			"nil statement",
			[]Expr{nil},
			[]string{"malformed node: nil top-level statement"},
		},
		{
			"function without body",
			[]Expr{&FuncDecl{Name: "f"}},
			[]string{"malformed function declaration: missing body of 'f'"},
		},
		{
			"untyped parameter",
			[]Expr{&FuncDecl{Name: "f", Params: []*VariableDecl{{Name: "a", Value: NewIdentifier(ParamPlaceholder)}}, Body: &BlockExpr{}}},
			[]string{"malformed function declaration: parameter 'a' has no type"},
		},
		{
			"empty declaration",
			[]Expr{&VariableDecl{}},
			[]string{
				"malformed declaration: empty declaration name",
				"malformed declaration: missing value for ''",
			},
		},
		{
			"if without then",
			[]Expr{&IfElseExpr{Condition: NewBoolLiteral(true)}},
			[]string{"malformed if/else: missing then branch"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var got []string
			for _, cerr := range Check(c.data) {
				got = append(got, cerr.Error())
			}

			assert.Equal(t, c.expect, got)
		})
	}
}

func TestCheckFailedError(t *testing.T) {
	err := &CheckFailedError{
		Errors: []CompileError{
			&DuplicateParamError{Func: "f", Name: "a"},
			&MalformedNodeError{Node: &ReturnExpr{}, Reason: "missing return value"},
		},
	}

	assert.Equal(t, "2 check error(s): duplicate parameter 'a' in function 'f'; malformed return: missing return value", err.Error())
}

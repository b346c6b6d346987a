package cog

import (
	"testing"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueLookup(t *testing.T) {
	vals := NewValueLookup()

	val1 := &Variable{Ptr: constant.NewInt(types.I32, 1), Elem: types.I32}
	val2 := &Variable{Ptr: constant.NewInt(types.I32, 2), Elem: types.I32}

	vals.Set("id1", val1)
	vals.Set("id2", val2)

	got, ok := vals.Get("id1")
	assert.True(t, ok)
	assert.Equal(t, val1, got)

	got, ok = vals.Get("id2")
	assert.True(t, ok)
	assert.Equal(t, val2, got)

	_, ok = vals.Get("id3")
	assert.False(t, ok)
}

func TestValueLookupInherit(t *testing.T) {
	vals1 := NewValueLookup()

	val1 := &Variable{Ptr: constant.NewInt(types.I32, 1), Elem: types.I32}
	val2 := &Variable{Ptr: constant.NewInt(types.I32, 2), Elem: types.I32}

	vals1.Set("id1", val1)
	vals1.Set("id2", val2)

	vals2 := NewValueLookup()

	val3 := &Variable{Ptr: constant.NewInt(types.I32, 3), Elem: types.I32}
	val4 := &Variable{Ptr: constant.NewInt(types.I32, 4), Elem: types.I32}

	vals2.Set("id1", val3)
	vals2.Set("id4", val4)

	vals1.Inherit(vals2)

	for id, want := range map[string]*Variable{"id1": val3, "id2": val2, "id4": val4} {
		got, ok := vals1.Get(id)
		assert.True(t, ok, id)
		assert.Equal(t, want, got, id)
	}
}

func generate(t *testing.T, src string) (string, error) {
	t.Helper()

	stmts, err := Parse(src)
	require.NoError(t, err)

	mod, err := NewLLVMGenerator(stmts).Do()
	if err != nil {
		return "", err
	}

	return mod.String(), nil
}

func TestLLVMGenerator(t *testing.T) {
	cases := []struct {
		name     string
		src      string
		contains []string
	}{
		{
			name:     "return literal",
			src:      "fn main() -> i32 { return 0; }",
			contains: []string{"define i32 @main()", "ret i32 0"},
		},
		{
			name:     "void function gets default return",
			src:      "fn main() { let x = 1; }",
			contains: []string{"define void @main()", "alloca i32", "ret void"},
		},
		{
			name:     "params are spilled",
			src:      "fn add(a: i32, b: i32) -> i32 { return a + b; }",
			contains: []string{"define i32 @add(i32 %a, i32 %b)", "store i32 %a", "add i32", "ret i32"},
		},
		{
			name:     "literal coerced to return type",
			src:      "fn wide() -> i64 { return 7; }",
			contains: []string{"define i64 @wide()", "ret i64 7"},
		},
		{
			name:     "return value dropped without return type",
			src:      "fn main() { return 0; }",
			contains: []string{"define void @main()", "ret void"},
		},
		{
			name:     "missing return gets zero value",
			src:      "fn f() -> i32 { let x = 2; }",
			contains: []string{"ret i32 0"},
		},
		{
			name:     "float arithmetic",
			src:      "fn f(x: f64) -> f64 { return x * 2.5; }",
			contains: []string{"define double @f(double %x)", "fmul double"},
		},
		{
			name:     "int widened to float",
			src:      "fn f(x: f64, n: i32) -> f64 { return x + n; }",
			contains: []string{"sitofp i32", "fadd double"},
		},
		{
			name:     "comparison",
			src:      "fn f(a: i32, b: i32) -> bool { return a < b; }",
			contains: []string{"define i1 @f(i32 %a, i32 %b)", "icmp slt i32"},
		},
		{
			name:     "logical operators",
			src:      "fn f(a: bool, b: bool) -> bool { return a && !b || a; }",
			contains: []string{"xor i1", "and i1", "or i1"},
		},
		{
			name:     "negation",
			src:      "fn f(a: i32) -> i32 { return -a; }",
			contains: []string{"sub i32 0"},
		},
		{
			name: "if else",
			src:  "fn max(a: i32, b: i32) -> i32 { if a > b { return a; } else { return b; } }",
			contains: []string{
				"icmp sgt i32",
				"br i1",
				"if.then.0:",
				"if.else.0:",
				"if.end.0:",
			},
		},
		{
			name:     "if without else",
			src:      "fn f(a: i32) -> i32 { if a { a = 1; } return a; }",
			contains: []string{"icmp ne i32", "if.then.0:", "if.end.0:", "br label %if.end.0"},
		},
		{
			name:     "assignment",
			src:      "fn f() -> i64 { let x: i64 = 1; x = 2; return x; }",
			contains: []string{"alloca i64", "store i64 2", "load i64"},
		},
		{
			name:     "top level constant",
			src:      "let limit: i64 = 10; fn f() -> i64 { return limit; }",
			contains: []string{"@limit = global i64 10", "load i64, i64* @limit"},
		},
		{
			name:     "string literal",
			src:      `fn f() -> String { return "hi"; }`,
			contains: []string{`c"hi\00"`, "define i8* @f()"},
		},
		{
			name:     "statements after return are dropped",
			src:      "fn f() -> i32 { return 1; return 2; }",
			contains: []string{"ret i32 1"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := generate(t, c.src)
			require.NoError(t, err)

			for _, want := range c.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestLLVMGeneratorDropsUnreachable(t *testing.T) {
	out, err := generate(t, "fn f() -> i32 { return 1; return 2; }")
	require.NoError(t, err)
	assert.NotContains(t, out, "ret i32 2")
}

func TestLLVMGeneratorPointers(t *testing.T) {
	stmts, err := Parse("fn f() -> i32 { let x = 1; let p: *i32 = &x; return *p; }", WithPointerOps(true))
	require.NoError(t, err)

	mod, err := NewLLVMGenerator(stmts).Do()
	require.NoError(t, err)

	out := mod.String()
	assert.Contains(t, out, "alloca i32*")
	assert.Contains(t, out, "load i32, i32*")
}

func TestLLVMGeneratorBooleanCoercion(t *testing.T) {
	cases := []struct {
		src      string
		contains []string
	}{
		{"fn f() -> i32 { let b: bool = 2; return 0; }", []string{"store i1 true"}},
		{"fn f() -> bool { return 2; }", []string{"ret i1 true"}},
		{"fn f() -> bool { return 0.0; }", []string{"ret i1 false"}},
		{"let flag: bool = 0", []string{"@flag = global i1 false"}},
		{"let n: i32 = true", []string{"@n = global i32 1"}},
		{"fn f(n: i32) -> bool { return n; }", []string{"icmp ne i32", "ret i1"}},
		{"fn f(b: bool) -> f64 { return b; }", []string{"uitofp i1"}},
		{"fn f() -> f64 { return true; }", []string{"ret double 1"}},
	}

	for _, c := range cases {
		out, err := generate(t, c.src)
		require.NoError(t, err, c.src)

		assert.NotContains(t, out, "PANIC", c.src)
		for _, want := range c.contains {
			assert.Contains(t, out, want, c.src)
		}
	}
}

func TestLLVMGeneratorErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		msg  string
	}{
		{
			name: "top level expression",
			src:  "1 + 2",
			msg:  "only function and constant declarations are allowed at the top level",
		},
		{
			name: "top level non-literal",
			src:  "let x = 1 + 2",
			msg:  "top-level declarations need a literal value",
		},
		{
			name: "undefined variable",
			src:  "fn f() -> i32 { return y; }",
			msg:  "undefined: y",
		},
		{
			name: "assignment to undefined",
			src:  "fn f() { y = 1; }",
			msg:  "undefined: y",
		},
		{
			name: "duplicate function",
			src:  "fn f() {} fn f() {}",
			msg:  "function 'f' is already defined",
		},
		{
			name: "duplicate global",
			src:  "let a = 1; let a = 2",
			msg:  "'a' is already defined",
		},
		{
			name: "enclosing locals are not visible",
			src:  "fn outer() { let x = 1; fn inner() -> i32 { return x; } }",
			msg:  "undefined: x",
		},
		{
			name: "block as value",
			src:  "fn f() { let x = { 1 }; }",
			msg:  "block cannot be used as a value",
		},
		{
			name: "negated boolean",
			src:  "fn f() -> bool { return -true; }",
			msg:  "cannot negate a value of type i1",
		},
		{
			name: "string arithmetic",
			src:  `fn f() { let x = "a" * "b"; }`,
			msg:  "operator '*' is not defined",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := generate(t, c.src)
			require.Error(t, err)

			var cgErr *CodegenError
			require.True(t, errors.As(err, &cgErr))
			assert.Contains(t, cgErr.Msg, c.msg)
		})
	}
}

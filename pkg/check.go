package cog

import (
	"fmt"
	"strings"
)

// CompileError is a problem found in a syntactically valid tree.
type CompileError interface {
	fmt.Stringer
	error
}

type MalformedNodeError struct {
	Node   Expr
	Reason string
}

func (e *MalformedNodeError) String() string {
	return fmt.Sprintf("malformed %s: %s", NodeName(e.Node), e.Reason)
}

func (e *MalformedNodeError) Error() string {
	return e.String()
}

type ReturnOutsideFuncError struct {
	Return *ReturnExpr
}

func (e *ReturnOutsideFuncError) String() string {
	return fmt.Sprintf("return outside function body: %s", Sprint(e.Return))
}

func (e *ReturnOutsideFuncError) Error() string {
	return e.String()
}

type DuplicateParamError struct {
	Func string
	Name string
}

func (e *DuplicateParamError) String() string {
	return fmt.Sprintf("duplicate parameter '%s' in function '%s'", e.Name, e.Func)
}

func (e *DuplicateParamError) Error() string {
	return e.String()
}

// CheckFailedError carries every CompileError reported for one input.
type CheckFailedError struct {
	Errors []CompileError
}

func (e *CheckFailedError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.String())
	}

	return fmt.Sprintf("%d check error(s): %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Check validates the shape of a parsed program. It does not resolve names
// or infer types; it only reports trees that downstream passes cannot
// consume.
func Check(stmts []Expr) []CompileError {
	c := &checker{}
	for _, stmt := range stmts {
		if isNilExpr(stmt) {
			c.addError(&MalformedNodeError{Reason: "nil top-level statement"})
			continue
		}

		c.checkReturns(stmt)
		Inspect(stmt, c.visit)
	}

	return c.errors
}

type checker struct {
	errors []CompileError
}

func (c *checker) addError(err CompileError) {
	c.errors = append(c.errors, err)
}

func (c *checker) malformed(node Expr, format string, args ...interface{}) {
	c.addError(&MalformedNodeError{
		Node:   node,
		Reason: fmt.Sprintf(format, args...),
	})
}

// checkReturns reports return statements that are not inside any function.
func (c *checker) checkReturns(stmt Expr) {
	Inspect(stmt, func(e Expr) bool {
		switch n := e.(type) {
		case *FuncDecl:
			return false
		case *ReturnExpr:
			c.addError(&ReturnOutsideFuncError{Return: n})
		}

		return true
	})
}

func (c *checker) visit(e Expr) bool {
	switch n := e.(type) {
	case *BinaryExpr:
		if isNilExpr(n.Left) || isNilExpr(n.Right) {
			c.malformed(n, "missing operand of '%s'", n.Operation)
		}
	case *UnaryExpr:
		if isNilExpr(n.Operand) {
			c.malformed(n, "missing operand of '%s'", n.Operation)
		}
	case *AssignmentExpr:
		if n.Name == "" {
			c.malformed(n, "empty assignment target")
		}

		if isNilExpr(n.Value) {
			c.malformed(n, "missing value for '%s'", n.Name)
		}
	case *VariableDecl:
		if n.Name == "" {
			c.malformed(n, "empty declaration name")
		}

		if isNilExpr(n.Value) {
			c.malformed(n, "missing value for '%s'", n.Name)
		}
	case *FuncDecl:
		c.visitFunc(n)
	case *ReturnExpr:
		if isNilExpr(n.Value) {
			c.malformed(n, "missing return value")
		}
	case *BlockExpr:
		for i, stmt := range n.Statements {
			if isNilExpr(stmt) {
				c.malformed(n, "nil statement at index %d", i)
			}
		}
	case *IfElseExpr:
		if isNilExpr(n.Condition) {
			c.malformed(n, "missing condition")
		}

		if n.Then == nil {
			c.malformed(n, "missing then branch")
		}
	case *AddressOfExpr:
		if isNilExpr(n.Operand) {
			c.malformed(n, "missing operand")
		}
	case *DerefExpr:
		if isNilExpr(n.Operand) {
			c.malformed(n, "missing operand")
		}
	}

	return true
}

func (c *checker) visitFunc(f *FuncDecl) {
	if f.Name == "" {
		c.malformed(f, "empty function name")
	}

	if f.Body == nil {
		c.malformed(f, "missing body of '%s'", f.Name)
	}

	seen := make(map[string]bool, len(f.Params))
	for i, param := range f.Params {
		if param == nil {
			c.malformed(f, "nil parameter at index %d", i)
			continue
		}

		if param.Type == nil {
			c.malformed(f, "parameter '%s' has no type", param.Name)
		}

		if seen[param.Name] {
			c.addError(&DuplicateParamError{Func: f.Name, Name: param.Name})
		}
		seen[param.Name] = true
	}
}

// NodeName is the display name of a node kind.
func NodeName(e Expr) string {
	switch e.(type) {
	case *LiteralExpr:
		return "literal"
	case *BinaryExpr:
		return "binary expression"
	case *UnaryExpr:
		return "unary expression"
	case *AssignmentExpr:
		return "assignment"
	case *VariableDecl:
		return "declaration"
	case *FuncDecl:
		return "function declaration"
	case *ReturnExpr:
		return "return"
	case *BlockExpr:
		return "block"
	case *IfElseExpr:
		return "if/else"
	case *AddressOfExpr:
		return "address-of"
	case *DerefExpr:
		return "dereference"
	default:
		return "node"
	}
}

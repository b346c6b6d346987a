package cog

import (
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sprint renders e as a compact S-expression, for example (+ 1 (* 2 3)).
func Sprint(e Expr) string {
	var b strings.Builder
	sprint(&b, e)

	return b.String()
}

// SprintAll renders each top-level expression on its own line.
func SprintAll(stmts []Expr) string {
	var b strings.Builder
	for _, stmt := range stmts {
		sprint(&b, stmt)
		b.WriteByte('\n')
	}

	return b.String()
}

func sprint(b *strings.Builder, e Expr) {
	if isNilExpr(e) {
		b.WriteString("<nil>")
		return
	}

	switch n := e.(type) {
	case *LiteralExpr:
		b.WriteString(literalString(n))
	case *BinaryExpr:
		b.WriteString("(" + string(n.Operation) + " ")
		sprint(b, n.Left)
		b.WriteByte(' ')
		sprint(b, n.Right)
		b.WriteByte(')')
	case *UnaryExpr:
		b.WriteString("(" + string(n.Operation) + " ")
		sprint(b, n.Operand)
		b.WriteByte(')')
	case *AssignmentExpr:
		b.WriteString("(= " + n.Name + " ")
		sprint(b, n.Value)
		b.WriteByte(')')
	case *VariableDecl:
		b.WriteString("(let " + n.Name + " ")
		if n.Type != nil {
			b.WriteString(n.Type.String() + " ")
		}
		sprint(b, n.Value)
		b.WriteByte(')')
	case *FuncDecl:
		b.WriteString("(fn " + n.Name + " (")
		for i, param := range n.Params {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString("(" + param.Name + " " + typeString(param.Type) + ")")
		}
		b.WriteString(") ")
		if n.ReturnType != nil {
			b.WriteString(n.ReturnType.String() + " ")
		}
		sprint(b, n.Body)
		b.WriteByte(')')
	case *ReturnExpr:
		b.WriteString("(return ")
		sprint(b, n.Value)
		b.WriteByte(')')
	case *BlockExpr:
		b.WriteString("(block")
		for _, stmt := range n.Statements {
			b.WriteByte(' ')
			sprint(b, stmt)
		}
		b.WriteByte(')')
	case *IfElseExpr:
		b.WriteString("(if ")
		sprint(b, n.Condition)
		b.WriteByte(' ')
		sprint(b, n.Then)
		if n.Else != nil {
			b.WriteByte(' ')
			sprint(b, n.Else)
		}
		b.WriteByte(')')
	case *AddressOfExpr:
		b.WriteString("(& ")
		sprint(b, n.Operand)
		b.WriteByte(')')
	case *DerefExpr:
		b.WriteString("(* ")
		sprint(b, n.Operand)
		b.WriteByte(')')
	}
}

func literalString(l *LiteralExpr) string {
	switch l.Typ {
	case LiteralInteger:
		return strconv.FormatInt(l.Int, 10)
	case LiteralFloat:
		s := strconv.FormatFloat(l.Float, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	case LiteralString:
		return strconv.Quote(l.Value)
	case LiteralBoolean:
		return strconv.FormatBool(l.Bool)
	default:
		return l.Value
	}
}

func typeString(t Type) string {
	if t == nil {
		return "_"
	}

	return t.String()
}

var literalNames = map[LiteralType]string{
	LiteralInteger:    "Integer",
	LiteralFloat:      "Float",
	LiteralString:     "String",
	LiteralBoolean:    "Boolean",
	LiteralIdentifier: "Identifier",
}

// ToMap converts e into nested maps and slices tagged with a "kind" key,
// suitable for JSON or YAML encoding.
func ToMap(e Expr) map[string]interface{} {
	if isNilExpr(e) {
		return nil
	}

	switch n := e.(type) {
	case *LiteralExpr:
		m := map[string]interface{}{"kind": "Literal", "type": literalNames[n.Typ]}
		switch n.Typ {
		case LiteralInteger:
			m["value"] = n.Int
		case LiteralFloat:
			m["value"] = n.Float
		case LiteralBoolean:
			m["value"] = n.Bool
		default:
			m["value"] = n.Value
		}
		return m
	case *BinaryExpr:
		return map[string]interface{}{
			"kind":     "Binary",
			"operator": string(n.Operation),
			"left":     ToMap(n.Left),
			"right":    ToMap(n.Right),
		}
	case *UnaryExpr:
		return map[string]interface{}{
			"kind":     "Unary",
			"operator": string(n.Operation),
			"operand":  ToMap(n.Operand),
		}
	case *AssignmentExpr:
		return map[string]interface{}{
			"kind":       "Assignment",
			"identifier": n.Name,
			"value":      ToMap(n.Value),
		}
	case *VariableDecl:
		m := map[string]interface{}{
			"kind":       "Declaration",
			"identifier": n.Name,
			"value":      ToMap(n.Value),
		}
		if n.Type != nil {
			m["type"] = n.Type.String()
		}
		return m
	case *FuncDecl:
		params := make([]interface{}, 0, len(n.Params))
		for _, param := range n.Params {
			params = append(params, ToMap(param))
		}

		m := map[string]interface{}{
			"kind":       "FunctionDeclaration",
			"identifier": n.Name,
			"parameters": params,
			"body":       ToMap(n.Body),
		}
		if n.ReturnType != nil {
			m["return_type"] = n.ReturnType.String()
		}
		return m
	case *ReturnExpr:
		return map[string]interface{}{
			"kind":  "Return",
			"value": ToMap(n.Value),
		}
	case *BlockExpr:
		return map[string]interface{}{
			"kind":       "Block",
			"statements": toMaps(n.Statements),
		}
	case *IfElseExpr:
		m := map[string]interface{}{
			"kind":        "IfElse",
			"condition":   ToMap(n.Condition),
			"then_branch": ToMap(n.Then),
		}
		if n.Else != nil {
			m["else_branch"] = ToMap(n.Else)
		}
		return m
	case *AddressOfExpr:
		return map[string]interface{}{
			"kind":    "AddressOf",
			"operand": ToMap(n.Operand),
		}
	case *DerefExpr:
		return map[string]interface{}{
			"kind":    "Dereference",
			"operand": ToMap(n.Operand),
		}
	}

	return nil
}

func toMaps(stmts []Expr) []interface{} {
	out := make([]interface{}, 0, len(stmts))
	for _, stmt := range stmts {
		out = append(out, ToMap(stmt))
	}

	return out
}

func DumpJSON(stmts []Expr) ([]byte, error) {
	return json.MarshalIndent(toMaps(stmts), "", "  ")
}

func DumpYAML(stmts []Expr) ([]byte, error) {
	return yaml.Marshal(toMaps(stmts))
}

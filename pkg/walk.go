package cog

// Inspect traverses the tree rooted at e in depth-first order, calling f for
// every node before its children. Children are visited in source order. If f
// returns false, the children of that node are skipped.
func Inspect(e Expr, f func(Expr) bool) {
	if isNilExpr(e) || !f(e) {
		return
	}

	switch n := e.(type) {
	case *BinaryExpr:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *UnaryExpr:
		Inspect(n.Operand, f)
	case *AssignmentExpr:
		Inspect(n.Value, f)
	case *VariableDecl:
		Inspect(n.Value, f)
	case *FuncDecl:
		for _, param := range n.Params {
			if param != nil {
				Inspect(param, f)
			}
		}

		if n.Body != nil {
			Inspect(n.Body, f)
		}
	case *ReturnExpr:
		Inspect(n.Value, f)
	case *BlockExpr:
		for _, stmt := range n.Statements {
			Inspect(stmt, f)
		}
	case *IfElseExpr:
		Inspect(n.Condition, f)

		if n.Then != nil {
			Inspect(n.Then, f)
		}

		if n.Else != nil {
			Inspect(n.Else, f)
		}
	case *AddressOfExpr:
		Inspect(n.Operand, f)
	case *DerefExpr:
		Inspect(n.Operand, f)
	}
}

// CountNodes returns the number of nodes in all the given trees.
func CountNodes(stmts []Expr) int {
	count := 0
	for _, stmt := range stmts {
		Inspect(stmt, func(Expr) bool {
			count++
			return true
		})
	}

	return count
}

func isNilExpr(e Expr) bool {
	switch n := e.(type) {
	case nil:
		return true
	case *LiteralExpr:
		return n == nil
	case *BinaryExpr:
		return n == nil
	case *UnaryExpr:
		return n == nil
	case *AssignmentExpr:
		return n == nil
	case *VariableDecl:
		return n == nil
	case *FuncDecl:
		return n == nil
	case *ReturnExpr:
		return n == nil
	case *BlockExpr:
		return n == nil
	case *IfElseExpr:
		return n == nil
	case *AddressOfExpr:
		return n == nil
	case *DerefExpr:
		return n == nil
	}

	return false
}

package cog

type binaryMatch struct {
	tok TokenType
	op  BinaryOp
}

var (
	equalityOps   = []binaryMatch{{TokenNotEqual, BinaryNotEqual}, {TokenEqualEqual, BinaryEqual}}
	comparisonOps = []binaryMatch{
		{TokenGreater, BinaryGreater},
		{TokenGreaterEqual, BinaryGreaterEqual},
		{TokenLess, BinaryLess},
		{TokenLessEqual, BinaryLessEqual},
	}
	termOps   = []binaryMatch{{TokenMinus, BinarySubtraction}, {TokenPlus, BinaryAddition}}
	factorOps = []binaryMatch{
		{TokenDiv, BinaryDivision},
		{TokenMulti, BinaryMultiplication},
		{TokenPercent, BinaryModulo},
	}
)

// assignment handles `let` declarations and `name = value`, both right
// associative.
func (p *Parser) assignment() (Expr, error) {
	if p.matchToken(TokenLet) {
		return p.varDecl()
	}

	expr, err := p.or()
	if err != nil {
		return nil, err
	}

	if !p.matchToken(TokenEqual) {
		return expr, nil
	}

	name, ok := IsIdentifier(expr)
	if !ok {
		return nil, p.errorf(ErrInvalidAssignment, "assignment target must be an identifier")
	}

	value, err := p.nested(p.assignment)
	if err != nil {
		return nil, err
	}

	return &AssignmentExpr{
		Name:  name,
		Value: value,
	}, nil
}

// varDecl parses the rest of a declaration once `let` has been consumed.
func (p *Parser) varDecl() (Expr, error) {
	if !p.check(TokenIdentifier) {
		return nil, p.errorf(ErrMalformedVarDecl, "expected identifier after `let`")
	}

	name := p.advance().Value

	var typ Type
	if p.matchToken(TokenColon) {
		var err error
		if typ, err = p.parseType(); err != nil {
			return nil, err
		}
	}

	if !p.matchToken(TokenEqual) {
		return nil, p.errorf(ErrMalformedVarDecl, "expected `=` after identifier")
	}

	value, err := p.nested(p.assignment)
	if err != nil {
		return nil, err
	}

	return &VariableDecl{
		Name:  name,
		Type:  typ,
		Value: value,
	}, nil
}

func (p *Parser) or() (Expr, error) {
	return p.binaryChain(p.and, []binaryMatch{{TokenOr, BinaryOr}})
}

func (p *Parser) and() (Expr, error) {
	return p.binaryChain(p.equality, []binaryMatch{{TokenAnd, BinaryAnd}})
}

func (p *Parser) equality() (Expr, error) {
	return p.binaryChain(p.comparison, equalityOps)
}

func (p *Parser) comparison() (Expr, error) {
	return p.binaryChain(p.term, comparisonOps)
}

func (p *Parser) term() (Expr, error) {
	return p.binaryChain(p.factor, termOps)
}

func (p *Parser) factor() (Expr, error) {
	return p.binaryChain(p.unary, factorOps)
}

// binaryChain parses operand (op operand)* and folds it to the left, so
// 1 - 2 - 3 becomes (1 - 2) - 3.
func (p *Parser) binaryChain(operand func() (Expr, error), ops []binaryMatch) (Expr, error) {
	lhs, err := operand()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.matchBinaryOp(ops)
		if !ok {
			return lhs, nil
		}

		if p.isAtEnd() {
			return nil, p.errorf(ErrMalformedBinaryOperator, "expected operand after `"+string(op)+"`")
		}

		rhs, err := operand()
		if err != nil {
			return nil, err
		}

		lhs = &BinaryExpr{
			Operation: op,
			Left:      lhs,
			Right:     rhs,
		}
	}
}

func (p *Parser) matchBinaryOp(ops []binaryMatch) (BinaryOp, bool) {
	for _, m := range ops {
		if p.matchToken(m.tok) {
			return m.op, true
		}
	}

	return "", false
}

func (p *Parser) unary() (Expr, error) {
	switch {
	case p.matchToken(TokenMinus):
		return p.unaryOperand(UnaryNegative)
	case p.matchToken(TokenBang):
		return p.unaryOperand(UnaryNot)
	case p.pointerOps && p.matchToken(TokenAmpersand):
		operand, err := p.nested(p.unary)
		if err != nil {
			return nil, err
		}

		return &AddressOfExpr{Operand: operand}, nil
	case p.pointerOps && p.matchToken(TokenMulti):
		operand, err := p.nested(p.unary)
		if err != nil {
			return nil, err
		}

		return &DerefExpr{Operand: operand}, nil
	}

	return p.primary()
}

func (p *Parser) unaryOperand(op UnaryOp) (Expr, error) {
	operand, err := p.nested(p.unary)
	if err != nil {
		return nil, err
	}

	return &UnaryExpr{
		Operation: op,
		Operand:   operand,
	}, nil
}

func (p *Parser) primary() (Expr, error) {
	switch tok := p.peek(); tok.Typ {
	case TokenEOF:
		return nil, p.errorf(ErrUnexpectedEndOfInput, "")
	case TokenInteger:
		p.advance()
		return NewIntLiteral(tok.Int), nil
	case TokenFloat:
		p.advance()
		return NewFloatLiteral(tok.Float), nil
	case TokenString:
		p.advance()
		return NewStringLiteral(tok.Value), nil
	case TokenBoolean:
		p.advance()
		return NewBoolLiteral(tok.Bool), nil
	case TokenIdentifier:
		p.advance()
		return NewIdentifier(tok.Value), nil
	case TokenOpenParentheses:
		return p.parenthesisedExpression()
	case TokenOpenCurly:
		p.advance()

		block, closed, err := p.blockBody()
		if err != nil {
			return nil, err
		}

		if !closed {
			return nil, p.errorf(ErrMalformedBlock, "expected `}` after block")
		}

		return block, nil
	case TokenAmpersand:
		// Without pointer operators & is not part of the language
		err := p.errorf(ErrUnknownChar, "")
		err.Char = '&'
		return nil, err
	default:
		return nil, p.errorf(ErrUnexpectedToken, tok.String())
	}
}

func (p *Parser) parenthesisedExpression() (Expr, error) {
	p.advance() // Skip (

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	if !p.matchToken(TokenCloseParentheses) {
		return nil, p.expectedAfter(")", "expression")
	}

	return expr, nil
}

// blockBody parses statements up to and including the closing brace, once the
// opening brace has been consumed. closed is false if the input ended first.
func (p *Parser) blockBody() (block *BlockExpr, closed bool, err error) {
	block = &BlockExpr{}
	for !p.isAtEnd() {
		if p.matchToken(TokenCloseCurly) {
			return block, true, nil
		}

		stmt, err := p.statement()
		if err != nil {
			return nil, false, err
		}

		block.Statements = append(block.Statements, stmt)
	}

	return block, false, nil
}

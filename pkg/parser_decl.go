package cog

func (p *Parser) ifElse() (Expr, error) {
	if !p.matchToken(TokenIf) {
		return nil, p.errorf(ErrMalformedIfElse, "expected `if`")
	}

	condition, err := p.expression()
	if err != nil {
		return nil, err
	}

	if !p.matchToken(TokenOpenCurly) {
		return nil, p.errorf(ErrMalformedIfElse, "expected `{` after condition")
	}

	then, closed, err := p.blockBody()
	if err != nil {
		return nil, err
	}

	if !closed {
		return nil, p.errorf(ErrMalformedIfElse, "expected `}` after if-block")
	}

	expr := &IfElseExpr{
		Condition: condition,
		Then:      then,
	}

	if !p.matchToken(TokenElse) {
		return expr, nil
	}

	if !p.matchToken(TokenOpenCurly) {
		return nil, p.errorf(ErrMalformedIfElse, "expected `{` after `else`")
	}

	els, closed, err := p.blockBody()
	if err != nil {
		return nil, err
	}

	if !closed {
		return nil, p.errorf(ErrMalformedIfElse, "expected `}` after else-block")
	}

	expr.Else = els
	return expr, nil
}

func (p *Parser) funcDecl() (Expr, error) {
	if !p.matchToken(TokenFn) {
		return nil, p.errorf(ErrMalformedFuncDecl, "expected `fn`")
	}

	if !p.check(TokenIdentifier) {
		return nil, p.errorf(ErrMalformedFuncDecl, "expected identifier after `fn`")
	}

	decl := &FuncDecl{
		Name: p.advance().Value,
	}

	if !p.matchToken(TokenOpenParentheses) {
		return nil, p.errorf(ErrMalformedFuncDecl, "expected `(` after function name")
	}

	params, err := p.params()
	if err != nil {
		return nil, err
	}

	decl.Params = params

	if p.matchToken(TokenArrowSmall) {
		if decl.ReturnType, err = p.parseType(); err != nil {
			return nil, err
		}
	}

	if !p.matchToken(TokenOpenCurly) {
		return nil, p.errorf(ErrMalformedFuncDecl, "expected `{` before function body")
	}

	body, closed, err := p.blockBody()
	if err != nil {
		return nil, err
	}

	if !closed {
		return nil, p.errorf(ErrMalformedFuncDecl, "expected `}` after function body")
	}

	decl.Body = body
	return decl, nil
}

// params parses `name: type` pairs up to the closing parenthesis, once the
// opening one has been consumed.
func (p *Parser) params() ([]*VariableDecl, error) {
	if p.matchToken(TokenCloseParentheses) {
		return nil, nil
	}

	var params []*VariableDecl
	for {
		if !p.check(TokenIdentifier) {
			return nil, p.errorf(ErrMalformedFuncDecl, "expected identifier in parameter list")
		}

		name := p.advance().Value

		if !p.matchToken(TokenColon) {
			return nil, p.errorf(ErrMalformedFuncDecl, "expected `:` after parameter name")
		}

		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}

		params = append(params, &VariableDecl{
			Name:  name,
			Type:  typ,
			Value: NewIdentifier(ParamPlaceholder),
		})

		if p.matchToken(TokenCloseParentheses) {
			return params, nil
		}

		if !p.matchToken(TokenComma) {
			return nil, p.errorf(ErrMalformedFuncDecl, "expected `,` or `)` after parameter")
		}
	}
}

func (p *Parser) returnExpr() (Expr, error) {
	if !p.matchToken(TokenReturn) {
		return nil, p.errorf(ErrMalformedReturn, "expected `return`")
	}

	value, err := p.expression()
	if err != nil {
		return nil, err
	}

	return &ReturnExpr{Value: value}, nil
}

// parseType accepts a type keyword, an identifier spelling a type keyword, or
// `*` followed by a type.
func (p *Parser) parseType() (Type, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.peek()
	switch {
	case tok.Typ.IsTypeKeyword():
		p.advance()
		return typeKeywords[tok.Typ], nil
	case tok.Typ == TokenIdentifier:
		if typ, ok := LookupType(tok.Value); ok {
			p.advance()
			return typ, nil
		}

		return nil, p.errorf(ErrUnknownType, tok.Value)
	case tok.Typ == TokenMulti:
		p.advance()

		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}

		return &PointerType{Elem: elem}, nil
	default:
		return nil, p.errorf(ErrExpectedToken, "type")
	}
}

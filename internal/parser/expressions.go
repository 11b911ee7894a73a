package parser

import (
	"github.com/jil-lang/jil/internal/ast"
	"github.com/jil-lang/jil/internal/lexer"
)

// parseExpression is the precedence-climbing entry point: parse a primary
// (with any postfix call/field-lookup chain), then fold in binary operators
// whose precedence exceeds minPrec.
func (p *Parser) parseExpression(minPrec int) (ast.Expression, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for precedences[p.curToken.Type] > minPrec {
		opTok := p.curToken
		opPrec := precedences[opTok.Type]
		p.nextToken()

		right, err := p.parseExpression(opPrec)
		if err != nil {
			return nil, err
		}

		left = &ast.BinaryOp{
			Token: opTok,
			A:     left,
			Op:    &ast.Op{Token: opTok, Value: opTok.Literal},
			B:     right,
		}
	}

	return left, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	var expr ast.Expression
	var err error

	switch p.curToken.Type {
	case lexer.INT:
		expr = &ast.Number{Token: p.curToken, Value: p.curToken.Literal}
		p.nextToken()

	case lexer.IDENT:
		expr = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		p.nextToken()

	case lexer.FN:
		expr, err = p.parseFunctionDeclare()
		if err != nil {
			return nil, err
		}

	case lexer.LBRACE:
		expr, err = p.parseStructValue()
		if err != nil {
			return nil, err
		}

	case lexer.LPAREN:
		p.nextToken()
		expr, err = p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}

	default:
		return nil, p.errorf("unexpected token %s in expression position", p.curToken.Type)
	}

	return p.parsePostfix(expr)
}

// parsePostfix chains `(args...)` calls and `.field` lookups onto expr.
// Only a bare identifier may be called (spec.md §6's FunctionCall carries a
// Name *Identifier, not an arbitrary callee expression).
func (p *Parser) parsePostfix(expr ast.Expression) (ast.Expression, error) {
	for {
		switch p.curToken.Type {
		case lexer.LPAREN:
			name, ok := expr.(*ast.Identifier)
			if !ok {
				return nil, p.errorf("only a named function may be called")
			}
			call, err := p.parseCallArguments(name)
			if err != nil {
				return nil, err
			}
			expr = call

		case lexer.DOT:
			tok := p.curToken
			p.nextToken()
			fieldTok, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			expr = &ast.FieldLookup{
				Token: tok,
				Obj:   expr,
				Field: &ast.Identifier{Token: fieldTok, Value: fieldTok.Literal},
			}

		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseCallArguments(name *ast.Identifier) (ast.Expression, error) {
	tok := p.curToken // `(`
	p.nextToken()

	var args []ast.Expression
	for !p.curIs(lexer.RPAREN) {
		arg, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.curIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	return &ast.FunctionCall{Token: tok, Name: name, Arguments: args}, nil
}

func (p *Parser) parseFunctionDeclare() (ast.Expression, error) {
	tok := p.curToken // `fn`
	p.nextToken()

	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	var params []*ast.Parameter
	for !p.curIs(lexer.RPAREN) {
		nameTok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		typ, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Parameter{
			Name: &ast.Identifier{Token: nameTok, Value: nameTok.Literal},
			Type: typ,
		})
		if p.curIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.ARROW); err != nil {
		return nil, err
	}
	ret, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDeclare{Token: tok, Arguments: params, ReturnType: ret, Body: body}, nil
}

func (p *Parser) parseStructValue() (ast.Expression, error) {
	tok := p.curToken // `{`
	p.nextToken()

	var fields []*ast.StructField
	for !p.curIs(lexer.RBRACE) {
		nameTok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		value, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		fields = append(fields, &ast.StructField{
			Name:  &ast.Identifier{Token: nameTok, Value: nameTok.Literal},
			Value: value,
		})
		if p.curIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}

	return &ast.StructValue{Token: tok, Fields: fields}, nil
}

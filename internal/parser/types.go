package parser

import (
	"github.com/jil-lang/jil/internal/ast"
	"github.com/jil-lang/jil/internal/lexer"
)

// parseTypeExpr parses a type position: a bare name (`int`, `u64`), a
// `struct { ... }` literal, a `(T1, T2) -> Tr` function type, or `noreturn`
// (spec.md §6). `Infer` has no source syntax of its own and the parser never
// produces an InferType, so there is no case for it here.
func (p *Parser) parseTypeExpr() (ast.TypeExpr, error) {
	switch p.curToken.Type {
	case lexer.IDENT, lexer.U64:
		tok := p.curToken
		p.nextToken()
		return &ast.TypeIdent{Token: tok, Name: tok.Literal}, nil

	case lexer.NORETURN:
		tok := p.curToken
		p.nextToken()
		return &ast.NoReturnType{Token: tok}, nil

	case lexer.STRUCT:
		return p.parseStructureTypeExpr()

	case lexer.LPAREN:
		return p.parseFunctionTypeExpr()

	default:
		return nil, p.errorf("expected a type, got %s", p.curToken.Type)
	}
}

func (p *Parser) parseStructureTypeExpr() (ast.TypeExpr, error) {
	tok := p.curToken // `struct`
	p.nextToken()
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	var fields []*ast.StructTypeField
	for !p.curIs(lexer.RBRACE) {
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
		fields = append(fields, &ast.StructTypeField{
			Name: &ast.Identifier{Token: nameTok, Value: nameTok.Literal},
			Type: typ,
		})
		if p.curIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}

	return &ast.StructureTypeExpr{Token: tok, Fields: fields}, nil
}

func (p *Parser) parseFunctionTypeExpr() (ast.TypeExpr, error) {
	tok := p.curToken // `(`
	p.nextToken()

	var args []ast.TypeExpr
	for !p.curIs(lexer.RPAREN) {
		t, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, t)
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

	return &ast.FunctionTypeExpr{Token: tok, Args: args, Return: ret}, nil
}

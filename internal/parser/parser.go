// Package parser implements a recursive-descent, precedence-climbing
// parser producing the internal/ast tree spec.md §6 requires. There is no
// error recovery (spec.md §1 Non-goals): the first syntax error aborts
// parsing with a *errors.CompilerError.
package parser

import (
	"fmt"

	"github.com/jil-lang/jil/internal/ast"
	"github.com/jil-lang/jil/internal/errors"
	"github.com/jil-lang/jil/internal/lexer"
)

// Precedence tiers matching spec.md's original grammar (`prec_1`/`prec_2`):
// `* /` bind tighter than `+ - < <= > >= == !=`.
const (
	_ int = iota
	lowest
	sum     // + - < <= > >= == !=  (prec_2)
	product // * /                  (prec_1)
)

var precedences = map[lexer.TokenType]int{
	lexer.PLUS:  sum,
	lexer.MINUS: sum,
	lexer.LT:    sum,
	lexer.LE:    sum,
	lexer.GT:    sum,
	lexer.GE:    sum,
	lexer.EQ:    sum,
	lexer.NE:    sum,
	lexer.STAR:  product,
	lexer.SLASH: product,
}

// Parser holds a two-token lookahead window over a Lexer.
type Parser struct {
	l *lexer.Lexer

	curToken  lexer.Token
	peekToken lexer.Token

	source string
	file   string
}

// New creates a Parser over source text, tagged with file for diagnostics.
func New(source, file string) *Parser {
	p := &Parser{l: lexer.New(source), source: source, file: file}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if !p.curIs(t) {
		return lexer.Token{}, p.errorf("expected %s, got %s", t, p.curToken.Type)
	}
	tok := p.curToken
	p.nextToken()
	return tok, nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return errors.New(errors.ErrParse, p.curToken.Pos, fmt.Sprintf(format, args...), p.source, p.file)
}

// ParseModule parses the entire input as a Module wrapping a single
// top-level Block (spec.md §6).
func (p *Parser) ParseModule() (*ast.Module, error) {
	block, err := p.parseStatements(lexer.EOF)
	if err != nil {
		return nil, err
	}
	return &ast.Module{Body: block}, nil
}

// parseBlock expects and consumes a `{ ... }` braced block.
func (p *Parser) parseBlock() (*ast.Block, error) {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	block, err := p.parseStatements(lexer.RBRACE)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) parseStatements(until lexer.TokenType) (*ast.Block, error) {
	block := &ast.Block{}
	for !p.curIs(until) && !p.curIs(lexer.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	return block, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.curToken.Type {
	case lexer.LET:
		return p.parseVarDeclaration()
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.IDENT:
		if p.peekIs(lexer.ASSIGN) {
			return p.parseAssignment()
		}
		if p.peekIs(lexer.COLON) {
			return p.parseNamedBlock()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseExpressionStatement() (ast.Statement, error) {
	tok := p.curToken
	expr, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Token: tok, Expr: expr}, nil
}

func (p *Parser) parseAssignment() (ast.Statement, error) {
	tok := p.curToken
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken()
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{Token: tok, Name: name, Value: value}, nil
}

func (p *Parser) parseVarDeclaration() (ast.Statement, error) {
	tok := p.curToken // `let`
	p.nextToken()

	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	name := &ast.Identifier{Token: nameTok, Value: nameTok.Literal}

	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	typ, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}

	decl := &ast.VarDeclaration{Token: tok, Name: name, Type: typ}
	if p.curIs(lexer.ASSIGN) {
		p.nextToken()
		value, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		decl.Value = value
	}
	return decl, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	tok := p.curToken
	p.nextToken()

	cond, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &ast.If{Token: tok, Condition: cond, Then: then}
	if p.curIs(lexer.ELSE) {
		p.nextToken()
		elseBlock, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseBlock
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	tok := p.curToken
	p.nextToken()

	cond, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Token: tok, Condition: cond, Body: body}, nil
}

// parseNamedBlock parses the reserved `name: { ... }` form (spec.md §4.1:
// evaluating one is always a runtime error; the parser still accepts the
// syntax per spec.md §6's AST shape).
func (p *Parser) parseNamedBlock() (ast.Statement, error) {
	tok := p.curToken
	name := p.curToken.Literal
	p.nextToken() // identifier
	p.nextToken() // colon
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.NamedBlock{Token: tok, Name: name, Body: body}, nil
}

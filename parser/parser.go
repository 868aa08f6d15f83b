package parser

import (
	"errors"
	"fmt"
	"lcalc/ast"
	"lcalc/lexer"
	"lcalc/token"
)

type Error struct {
	Line int
	Col  int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

type Parser struct {
	l      *lexer.Lexer
	errors []*Error

	// parenthesis nesting; newlines are plain whitespace inside parentheses
	depth int

	curToken  token.Token
	peekToken token.Token
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	// read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// Parse reads a whole module. name only serves to identify the module
// in later error messages.
func Parse(name, input string) (*ast.Module, error) {
	p := New(lexer.New(input))
	module := p.ParseModule()
	module.Name = name

	if errs := p.Errors(); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, err := range errs {
			joined[i] = err
		}
		return nil, errors.Join(joined...)
	}
	return module, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()

	for p.depth > 0 && p.curTokenIs(token.NEWLINE) {
		p.curToken = p.peekToken
		p.peekToken = p.l.NextToken()
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) Errors() []*Error {
	return p.errors
}

func (p *Parser) error(tok token.Token, format string, a ...any) {
	p.errors = append(p.errors, &Error{Line: tok.Line, Col: tok.Col, Msg: fmt.Sprintf(format, a...)})
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.NEWLINE:
		return "end of line"
	}
	return fmt.Sprintf("%q", tok.Literal)
}

/*
Module ->

	Statement (NEWLINE+ Statement)*
*/
func (p *Parser) ParseModule() *ast.Module {
	module := &ast.Module{}

	for {
		for p.curTokenIs(token.NEWLINE) {
			p.nextToken()
		}
		if p.curTokenIs(token.EOF) {
			break
		}

		before := len(p.errors)
		stmt := p.parseStatement()
		if stmt != nil && !p.curTokenIs(token.NEWLINE) && !p.curTokenIs(token.EOF) {
			p.error(p.curToken, "unexpected %s", describe(p.curToken))
		}

		if len(p.errors) > before {
			p.synchronize()
			continue
		}
		module.Statements = append(module.Statements, stmt)
	}

	if len(module.Statements) == 0 && len(p.errors) == 0 {
		p.error(p.curToken, "empty module")
	}

	return module
}

// synchronize skips the rest of a broken statement.
func (p *Parser) synchronize() {
	p.depth = 0
	for !p.curTokenIs(token.NEWLINE) && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}

/*
Statement ->

	ID "=" Expr
	Expr
*/
func (p *Parser) parseStatement() ast.Statement {
	if p.curTokenIs(token.ID) && p.peekTokenIs(token.ASSIGN) {
		target := p.curToken.Literal
		p.nextToken()
		p.nextToken()

		expr := p.parseExpr()
		if expr == nil {
			return nil
		}
		return &ast.Assignment{Target: target, Expr: expr}
	}

	expr := p.parseExpr()
	if expr == nil {
		return nil
	}
	return &ast.BareExpression{Expr: expr}
}

/*
Expr ->

	Atom* (Atom | Definition)

Application is left-associative: `f a b` is `(f a) b`.
*/
func (p *Parser) parseExpr() ast.Expression {
	var expr ast.Expression

	for {
		var operand ast.Expression
		last := false

		switch p.curToken.Type {
		case token.LAMBDA:
			// the body extends as far right as possible
			operand = p.parseDefinition()
			last = true
		case token.ID:
			operand = &ast.Identifier{Name: p.curToken.Literal}
			p.nextToken()
		case token.LPAREN:
			operand = p.parseGroup()
		default:
			if expr == nil {
				p.error(p.curToken, "expected an expression, got %s", describe(p.curToken))
			}
			return expr
		}

		if operand == nil {
			return nil
		}

		if expr == nil {
			expr = operand
		} else {
			expr = &ast.Application{Target: expr, Argument: operand}
		}

		if last {
			return expr
		}
	}
}

/*
Definition ->

	("\" | "λ") ID Expr
*/
func (p *Parser) parseDefinition() ast.Expression {
	p.nextToken()

	if !p.curTokenIs(token.ID) {
		p.error(p.curToken, "expected a parameter name, got %s", describe(p.curToken))
		return nil
	}
	param := p.curToken.Literal
	p.nextToken()

	body := p.parseExpr()
	if body == nil {
		return nil
	}
	return &ast.Definition{Parameter: param, Body: body}
}

/*
Group ->

	"(" Expr ")"
*/
func (p *Parser) parseGroup() ast.Expression {
	open := p.curToken
	p.depth++
	p.nextToken()

	expr := p.parseExpr()
	if expr == nil {
		return nil
	}

	if !p.curTokenIs(token.RPAREN) {
		p.error(p.curToken, "expected %q to close %q opened at %d:%d, got %s",
			")", "(", open.Line, open.Col, describe(p.curToken))
		return nil
	}
	p.depth--
	p.nextToken()

	return expr
}

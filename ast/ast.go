package ast

import (
	"strings"
)

// Module is the root of the tree for a single source text.
type Module struct {
	Name       string // where the source came from; may be empty
	Statements []Statement
}

func (m *Module) String() string {
	var sb strings.Builder
	for _, stmt := range m.Statements {
		sb.WriteString(stmt.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Statement can only appear at the top level of a module.
type Statement interface {
	statementNode()
	String() string
	ShortRepr() string
}

// Assignment binds an expression to a global name: `id = \x x`.
type Assignment struct {
	Target string
	Expr   Expression
}

func (s *Assignment) statementNode()    {}
func (s *Assignment) String() string    { return s.Target + " = " + s.Expr.String() }
func (s *Assignment) ShortRepr() string { return "let(" + s.Expr.ShortRepr() + ")" }

// BareExpression is a module-level expression whose result gets shown.
type BareExpression struct {
	Expr Expression
}

func (s *BareExpression) statementNode()    {}
func (s *BareExpression) String() string    { return s.Expr.String() }
func (s *BareExpression) ShortRepr() string { return s.Expr.ShortRepr() }

type Expression interface {
	expressionNode()
	String() string
	// ShortRepr reflects the shape of the tree but none of its names,
	// which makes ambiguous parses easy to spot.
	ShortRepr() string
}

// Definition is a lambda: `\x body`.
type Definition struct {
	Parameter string
	Body      Expression
}

func (e *Definition) expressionNode() {}
func (e *Definition) String() string {
	return "(λ" + e.Parameter + " " + e.Body.String() + ")"
}
func (e *Definition) ShortRepr() string { return "def(" + e.Body.ShortRepr() + ")" }

// Application calls Target with Argument.
type Application struct {
	Target   Expression
	Argument Expression
}

func (e *Application) expressionNode() {}
func (e *Application) String() string {
	return "(" + e.Target.String() + " @ " + e.Argument.String() + ")"
}
func (e *Application) ShortRepr() string {
	return "call(" + e.Target.ShortRepr() + ", " + e.Argument.ShortRepr() + ")"
}

type Identifier struct {
	Name string
}

func (e *Identifier) expressionNode()   {}
func (e *Identifier) String() string    { return e.Name }
func (e *Identifier) ShortRepr() string { return "id" }

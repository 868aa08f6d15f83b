package value

import (
	"lcalc/ast"
	"strings"
)

// Value is a node of an immutable runtime tree. Rewriting a tree builds
// new nodes and shares the untouched ones.
type Value interface {
	// Inspect renders the value in the surface syntax.
	Inspect() string
}

// Origin is the resolution state of an identifier.
type Origin int

const (
	OriginUnresolved Origin = iota
	OriginGlobal
	OriginLocal
)

func (o Origin) String() string {
	switch o {
	case OriginGlobal:
		return "global"
	case OriginLocal:
		return "local"
	}
	return "unresolved"
}

// Def is a function. Its body is not evaluated until the function is called.
type Def struct {
	Param string
	Body  Value
}

func (d *Def) Inspect() string {
	return "λ" + d.Param + " " + d.Body.Inspect()
}

// ID is a reference by name. Ref is set iff Origin is not OriginUnresolved.
type ID struct {
	Name   string
	Origin Origin
	Ref    Value
}

func NewID(name string) *ID {
	return &ID{Name: name}
}

// Globals render by name. Locals render by the substituted value, otherwise
// `(λa λb a) true` would show as `λb a`.
func (id *ID) Inspect() string {
	if id.Origin == OriginLocal {
		return id.Ref.Inspect()
	}
	return id.Name
}

func (id *ID) Resolved() bool { return id.Origin != OriginUnresolved }

// Call is a pending application.
type Call struct {
	Target Value
	Arg    Value
}

func (c *Call) Inspect() string {
	target := c.Target.Inspect()
	arg := c.Arg.Inspect()

	// a definition as target would swallow the argument
	if strings.ContainsRune(target, 'λ') {
		target = "(" + target + ")"
	}
	if strings.ContainsRune(arg, ' ') {
		arg = "(" + arg + ")"
	}
	return target + " " + arg
}

// FromAST copies an expression into a fresh value tree.
func FromAST(expr ast.Expression) Value {
	switch e := expr.(type) {
	case *ast.Definition:
		return &Def{Param: e.Parameter, Body: FromAST(e.Body)}
	case *ast.Application:
		return &Call{Target: FromAST(e.Target), Arg: FromAST(e.Argument)}
	case *ast.Identifier:
		return NewID(e.Name)
	}
	panic("unreachable: unknown expression type")
}

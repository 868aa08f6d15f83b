package eval

import (
	"errors"
	"lcalc/ast"
	"lcalc/parser"
	"lcalc/value"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseExpr(t *testing.T, input string) ast.Expression {
	t.Helper()
	module, err := parser.Parse("", input)
	require.NoError(t, err)
	require.Len(t, module.Statements, 1)

	stmt, ok := module.Statements[0].(*ast.BareExpression)
	require.True(t, ok, "bad statement")
	return stmt.Expr
}

func define(t *testing.T, global *value.Global, name string, input string) {
	t.Helper()
	global.Set(name, BindGlobal(value.FromAST(parseExpr(t, input)), global))
}

func testEval(t *testing.T, global *value.Global, input string) (value.Value, error) {
	t.Helper()
	return Eval(BindGlobal(value.FromAST(parseExpr(t, input)), global))
}

func testGlobal(t *testing.T) *value.Global {
	global := value.NewGlobal()
	define(t, global, "id", `λx x`)
	define(t, global, "A", `λa a`)
	define(t, global, "B", `λb b`)
	return global
}

func TestEval(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`\a id a`, "λa id a"},
		{`id`, "λx x"},
		{`id A`, "λa a"},
		{`id B`, "λb b"},
		{`id A B`, "λb b"},
		{`(id A) B`, "λb b"},
		{`id (A B)`, "λb b"},
		{`(\a \b a) A B`, "λa a"},
		{`(\a \b b) A B`, "λb b"},
		{`(\a \a a) A B`, "λb b"},
		{`(\a (\a a)) id`, "λa a"},
		{`(\a (\a a) (\x a)) A`, "λx A"},
		{`(\a (\a a) (\x a)) A B`, "λa a"},
		{`(\a \b a) id`, "λb id"},
		{`(\a \b a) (id A)`, "λb id A"},
		{`(\a \b b a) A`, "λb b A"},
		{`(\f \x f (f x)) (\y y) A`, "λa a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			val, err := testEval(t, testGlobal(t), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, val.Inspect())
		})
	}
}

func TestShadowing(t *testing.T) {
	global := testGlobal(t)

	// the inner parameter hides the outer one: `λa id` would be wrong
	val, err := testEval(t, global, `(\a (\a a)) id`)
	require.NoError(t, err)
	assert.Equal(t, "λa a", val.Inspect())

	// a parameter also hides a global of the same name
	val, err = testEval(t, global, `(\A A) B`)
	require.NoError(t, err)
	assert.Equal(t, "λb b", val.Inspect())
}

func TestBindingTime(t *testing.T) {
	global := testGlobal(t)

	define(t, global, "a", `A`)
	define(t, global, "f", `\x a`)
	define(t, global, "a", `B`)

	val, err := testEval(t, global, `f id`)
	require.NoError(t, err)
	assert.Equal(t, "λa a", val.Inspect())

	// new expressions do see the new binding
	val, err = testEval(t, global, `a`)
	require.NoError(t, err)
	assert.Equal(t, "λb b", val.Inspect())
}

func TestNoCapture(t *testing.T) {
	global := testGlobal(t)

	// the free `b` of the argument must not be captured by `λb`
	val, err := testEval(t, global, `(\a \b a) b`)
	require.NoError(t, err)
	assert.Equal(t, "λb b", val.Inspect())

	_, err = testEval(t, global, `(\a \b a) b A`)
	var unbound *UnboundVariableError
	require.ErrorAs(t, err, &unbound)
	assert.Equal(t, "b", unbound.Name)
}

func TestErrors(t *testing.T) {
	global := testGlobal(t)
	define(t, global, "h", `z`)
	define(t, global, "g", `\x z x`)

	tests := []struct {
		input string
		msg   string
		trace []string
	}{
		{
			input: `z`,
			msg:   "variable `z` is unbound",
		},
		{
			input: `z A`,
			msg:   "failure calling a function: variable `z` is unbound",
			trace: []string{"failure calling a function"},
		},
		{
			input: `h`,
			msg:   "failure executing `h`: variable `z` is unbound",
			trace: []string{"failure executing `h`"},
		},
		{
			input: `g A`,
			msg:   "failure calling a function: failure calling a function: variable `z` is unbound",
			trace: []string{"failure calling a function", "failure calling a function"},
		},
		{
			input: `id h`,
			msg:   "failure calling a function: failure executing `x`: failure executing `h`: variable `z` is unbound",
			trace: []string{"failure calling a function", "failure executing `x`", "failure executing `h`"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := testEval(t, global, tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.msg, err.Error())

			var unbound *UnboundVariableError
			require.True(t, errors.As(err, &unbound))
			assert.Equal(t, "z", unbound.Name)

			var evalErr *EvaluationError
			if tt.trace == nil {
				assert.False(t, errors.As(err, &evalErr))
				return
			}
			require.True(t, errors.As(err, &evalErr))
			assert.Equal(t, tt.trace, evalErr.Trace())
		})
	}
}

func TestCall(t *testing.T) {
	global := testGlobal(t)
	id, _ := global.Get("id")
	a, _ := global.Get("A")

	val, err := Call(id, a)
	require.NoError(t, err)
	assert.Same(t, a, val)

	// the argument is substituted as is, without being evaluated first
	k := BindGlobal(value.FromAST(parseExpr(t, `\x \y x`)), global)
	val, err = Call(k, BindGlobal(value.FromAST(parseExpr(t, `nope A`)), global))
	require.NoError(t, err)
	assert.Equal(t, "λy nope A", val.Inspect())

	_, err = Call(value.NewID("nope"), a)
	assert.EqualError(t, err, "variable `nope` is unbound")
}

func TestStepLimit(t *testing.T) {
	global := testGlobal(t)
	define(t, global, "omega", `\x x x`)

	ev := New(100)
	_, err := ev.Eval(BindGlobal(value.FromAST(parseExpr(t, `omega omega`)), global))

	var limit *StepLimitError
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, 100, limit.Limit)
	assert.Equal(t, 100, ev.Steps())

	// the budget is per evaluation
	val, err := ev.Eval(BindGlobal(value.FromAST(parseExpr(t, `id A`)), global))
	require.NoError(t, err)
	assert.Equal(t, "λa a", val.Inspect())
	assert.Equal(t, 1, ev.Steps())
}

func TestBindGlobal(t *testing.T) {
	global := testGlobal(t)

	val := value.FromAST(parseExpr(t, `\y id (A y) missing`))
	bound := BindGlobal(val, global)

	// idempotent
	assert.Equal(t, bound, BindGlobal(bound, global))
	assert.Same(t, bound, BindGlobal(bound, global))

	call := bound.(*value.Def).Body.(*value.Call)
	missing := call.Arg.(*value.ID)
	assert.Equal(t, value.OriginUnresolved, missing.Origin)

	inner := call.Target.(*value.Call)
	idRef := inner.Target.(*value.ID)
	assert.Equal(t, value.OriginGlobal, idRef.Origin)
	ref, _ := global.Get("id")
	assert.Same(t, ref, idRef.Ref)

	// the parameter is not a global name, so it stays unresolved
	y := inner.Arg.(*value.Call).Arg.(*value.ID)
	assert.Equal(t, value.OriginUnresolved, y.Origin)

	// rebinding later leaves resolved identifiers alone
	global.Set("id", value.NewID("other"))
	again := BindGlobal(bound, global)
	assert.Same(t, ref, again.(*value.Def).Body.(*value.Call).Target.(*value.Call).Target.(*value.ID).Ref)

	// but a name defined since then gets picked up
	global.Set("missing", value.NewID("now"))
	again = BindGlobal(bound, global)
	assert.Equal(t, value.OriginGlobal, again.(*value.Def).Body.(*value.Call).Arg.(*value.ID).Origin)
}

func TestBindLocal(t *testing.T) {
	global := testGlobal(t)
	a, _ := global.Get("A")

	shadowed := value.FromAST(parseExpr(t, `\x x`))
	assert.Same(t, shadowed, BindLocal(shadowed, "x", a))

	// globals and outer locals of the same name are replaced
	val := BindGlobal(value.FromAST(parseExpr(t, `\y id y`)), global)
	bound := BindLocal(val, "id", a)
	target := bound.(*value.Def).Body.(*value.Call).Target.(*value.ID)
	assert.Equal(t, value.OriginLocal, target.Origin)
	assert.Same(t, a, target.Ref)
	assert.Equal(t, "λy (λa a) y", bound.Inspect())

	rebound := BindLocal(bound, "id", global.Set("C", value.NewID("C")))
	assert.Equal(t, "λy C y", rebound.Inspect())

	// untouched trees are shared
	free := value.FromAST(parseExpr(t, `f g`))
	assert.Same(t, free, BindLocal(free, "x", a))
}

func TestBindFrame(t *testing.T) {
	a := value.NewID("A")
	b := value.NewID("B")
	frame := value.NewBinding(value.NewBinding(nil, "x", a), "y", b)

	val := value.FromAST(parseExpr(t, `x y (\x x y)`))
	assert.Equal(t, "A B (λx x B)", BindFrame(val, frame).Inspect())

	assert.Same(t, val, BindFrame(val, nil))
}

func TestRoundTrip(t *testing.T) {
	global := value.NewGlobal()
	for _, name := range []string{"f", "g", "h"} {
		define(t, global, name, `\z z`)
	}

	inputs := []string{
		`f`,
		`f g`,
		`f g h`,
		`f (g h)`,
		`\a a`,
		`\a \b a b`,
		`\a \b a (b a)`,
		`(\a a) f`,
		`(\a a) (\b b)`,
		`f (\a a) g`,
		`(f \a a) g`,
		`\a f (g a) (\b h b a)`,
	}

	for _, input := range inputs {
		expr := parseExpr(t, input)
		rendered := BindGlobal(value.FromAST(expr), global).Inspect()
		assert.Equal(t, expr.String(), parseExpr(t, rendered).String(), input)
	}
}

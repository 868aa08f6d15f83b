package eval

import (
	"lcalc/value"
)

// Evaluator reduces values. Arguments are substituted unevaluated, and a
// substituted argument is reduced again every time it is used.
//
// MaxSteps bounds the number of beta-reductions performed by one Eval or
// Call. Zero means no bound: a divergent expression then runs until the
// process runs out of stack.
type Evaluator struct {
	MaxSteps int

	steps int
}

func New(maxSteps int) *Evaluator {
	return &Evaluator{MaxSteps: maxSteps}
}

// Eval forces val to normal form with no step bound.
func Eval(val value.Value) (value.Value, error) {
	return New(0).Eval(val)
}

// Call applies fn to arg with no step bound.
func Call(fn value.Value, arg value.Value) (value.Value, error) {
	return New(0).Call(fn, arg)
}

func (ev *Evaluator) Eval(val value.Value) (value.Value, error) {
	ev.steps = 0
	return ev.eval(val)
}

func (ev *Evaluator) Call(fn value.Value, arg value.Value) (value.Value, error) {
	ev.steps = 0
	return ev.call(fn, arg)
}

// Steps reports the beta-reductions made by the last Eval or Call.
func (ev *Evaluator) Steps() int { return ev.steps }

func (ev *Evaluator) eval(val value.Value) (value.Value, error) {
	switch v := val.(type) {
	case *value.Def:
		// functions are values
		return v, nil

	case *value.ID:
		if !v.Resolved() {
			return nil, &UnboundVariableError{Name: v.Name}
		}
		res, err := ev.eval(v.Ref)
		if err != nil {
			return nil, executing(v.Name, err)
		}
		return res, nil

	case *value.Call:
		res, err := ev.call(v.Target, v.Arg)
		if err != nil {
			return nil, calling(err)
		}
		return res, nil
	}
	panic("unreachable: unknown value type")
}

func (ev *Evaluator) call(fn value.Value, arg value.Value) (value.Value, error) {
	switch f := fn.(type) {
	case *value.Def:
		if ev.MaxSteps > 0 && ev.steps >= ev.MaxSteps {
			return nil, &StepLimitError{Limit: ev.MaxSteps}
		}
		ev.steps++
		return ev.eval(BindLocal(f.Body, f.Param, arg))

	case *value.ID:
		if !f.Resolved() {
			return nil, &UnboundVariableError{Name: f.Name}
		}
		return ev.call(f.Ref, arg)

	case *value.Call:
		// `f a b` is `(f a) b`
		inner, err := ev.call(f.Target, f.Arg)
		if err != nil {
			return nil, err
		}
		return ev.call(inner, arg)
	}
	panic("unreachable: unknown value type")
}

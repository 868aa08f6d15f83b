package eval

import (
	"lcalc/value"
)

// BindGlobal resolves every unresolved identifier that names a binding of
// the global scope, capturing the value bound at this very moment. Names
// missing from the scope stay unresolved; they only fail once evaluated.
// Identifiers that are already resolved are left alone, which makes the
// operation idempotent and keeps later reassignments from leaking in.
func BindGlobal(val value.Value, global *value.Global) value.Value {
	switch v := val.(type) {
	case *value.Def:
		body := BindGlobal(v.Body, global)
		if body == v.Body {
			return v
		}
		return &value.Def{Param: v.Param, Body: body}

	case *value.ID:
		if v.Resolved() {
			return v
		}
		if ref, ok := global.Get(v.Name); ok {
			return &value.ID{Name: v.Name, Origin: value.OriginGlobal, Ref: ref}
		}
		return v

	case *value.Call:
		target := BindGlobal(v.Target, global)
		arg := BindGlobal(v.Arg, global)
		if target == v.Target && arg == v.Arg {
			return v
		}
		return &value.Call{Target: target, Arg: arg}
	}
	panic("unreachable: unknown value type")
}

// BindLocal substitutes arg for every identifier called name, whatever its
// resolution state, so a parameter shadows globals and outer parameters alike.
func BindLocal(val value.Value, name string, arg value.Value) value.Value {
	return BindFrame(val, value.NewBinding(nil, name, arg))
}

// BindFrame substitutes every name bound by the chain. A definition
// re-binding one of the names hides it from its own body. Values referenced
// by resolved identifiers are never entered, so substituted arguments cannot
// be captured.
func BindFrame(val value.Value, frame *value.Binding) value.Value {
	if frame == nil {
		return val
	}

	switch v := val.(type) {
	case *value.Def:
		inner := frame.Without(v.Param)
		if inner == nil {
			return v
		}
		body := BindFrame(v.Body, inner)
		if body == v.Body {
			return v
		}
		return &value.Def{Param: v.Param, Body: body}

	case *value.ID:
		if arg, ok := frame.Lookup(v.Name); ok {
			return &value.ID{Name: v.Name, Origin: value.OriginLocal, Ref: arg}
		}
		return v

	case *value.Call:
		target := BindFrame(v.Target, frame)
		arg := BindFrame(v.Arg, frame)
		if target == v.Target && arg == v.Arg {
			return v
		}
		return &value.Call{Target: target, Arg: arg}
	}
	panic("unreachable: unknown value type")
}

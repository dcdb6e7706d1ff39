package fn

import (
	"github.com/cellmath/formula/value"
)

func registerLogical(r *Registry) {
	r.Register(Def{Name: "TRUE", Category: "logical", MinArgs: 0, MaxArgs: 0,
		Syntax: "TRUE()", Desc: "The logical value TRUE.",
		Fn: func(ctx value.Context, args []value.Value) value.Value { return value.Boolean(true) }})
	r.Register(Def{Name: "FALSE", Category: "logical", MinArgs: 0, MaxArgs: 0,
		Syntax: "FALSE()", Desc: "The logical value FALSE.",
		Fn: func(ctx value.Context, args []value.Value) value.Value { return value.Boolean(false) }})
	r.Register(Def{Name: "IF", Category: "logical", MinArgs: 2, MaxArgs: 3,
		Syntax: "IF(logical_test, value_if_true, [value_if_false])", Desc: "Branches on a condition, evaluating only the taken side.", LazyFn: fnIf})
	r.Register(Def{Name: "IFS", Category: "logical", MinArgs: 2, MaxArgs: -1,
		Syntax: "IFS(logical_test1, value_if_true1, ...)", Desc: "Returns the value beside the first true condition.", LazyFn: fnIfs})
	r.Register(Def{Name: "IFERROR", Category: "logical", MinArgs: 2, MaxArgs: 2,
		Syntax: "IFERROR(value, value_if_error)", Desc: "Replaces any error with a fallback.", LazyFn: fnIfError})
	r.Register(Def{Name: "IFNA", Category: "logical", MinArgs: 2, MaxArgs: 2,
		Syntax: "IFNA(value, value_if_na)", Desc: "Replaces #N/A with a fallback.", LazyFn: fnIfNA})
	r.Register(Def{Name: "SWITCH", Category: "logical", MinArgs: 3, MaxArgs: -1,
		Syntax: "SWITCH(expression, value1, result1, ..., [default])", Desc: "Matches an expression against cases.", LazyFn: fnSwitch})
	r.Register(Def{Name: "AND", Category: "logical", MinArgs: 1, MaxArgs: -1,
		Syntax: "AND(logical1, ...)", Desc: "TRUE when every argument is true.", LazyFn: fnAnd})
	r.Register(Def{Name: "OR", Category: "logical", MinArgs: 1, MaxArgs: -1,
		Syntax: "OR(logical1, ...)", Desc: "TRUE when any argument is true.", LazyFn: fnOr})
	r.Register(Def{Name: "XOR", Category: "logical", MinArgs: 1, MaxArgs: -1,
		Syntax: "XOR(logical1, ...)", Desc: "TRUE when an odd number of arguments are true.", LazyFn: fnXor})
	r.Register(Def{Name: "NOT", Category: "logical", MinArgs: 1, MaxArgs: 1,
		Syntax: "NOT(logical)", Desc: "Reverses a logical value.", LazyFn: fnNot})

	// LAMBDA and LET are rewritten by the parser before evaluation; the
	// entries here back the function catalog and reject stray dynamic calls.
	r.Register(Def{Name: "LAMBDA", Category: "logical", MinArgs: 1, MaxArgs: -1,
		Syntax: "LAMBDA([parameter1, ...], calculation)", Desc: "Defines a reusable function.",
		Fn: func(ctx value.Context, args []value.Value) value.Value {
			return value.NewError(value.ErrName, "LAMBDA must be written in place")
		}})
	r.Register(Def{Name: "LET", Category: "logical", MinArgs: 3, MaxArgs: -1,
		Syntax: "LET(name1, value1, ..., calculation)", Desc: "Binds names for use in a calculation.",
		Fn: func(ctx value.Context, args []value.Value) value.Value {
			return value.NewError(value.ErrName, "LET must be written in place")
		}})
}

// condValue forces a thunk down to a single logical.
func condValue(th value.Thunk) (bool, value.Value) {
	s := value.AsScalar(th.Force())
	if e, ok := s.(value.Error); ok {
		return false, e
	}
	b, ok := value.ToBool(s)
	if !ok {
		return false, value.Errorf(value.ErrValue, "%q is not a logical value", value.ToText(s))
	}
	return b, nil
}

func fnIf(ctx value.Context, th []value.Thunk) value.Value {
	b, errv := condValue(th[0])
	if errv != nil {
		return errv
	}
	if b {
		return th[1].Force()
	}
	if len(th) > 2 {
		return th[2].Force()
	}
	return value.Boolean(false)
}

func fnIfs(ctx value.Context, th []value.Thunk) value.Value {
	for i := 0; i < len(th); i += 2 {
		b, errv := condValue(th[i])
		if errv != nil {
			return errv
		}
		if !b {
			continue
		}
		if i+1 >= len(th) {
			return value.NewError(value.ErrNA, "condition has no value")
		}
		return th[i+1].Force()
	}
	return value.NewError(value.ErrNA, "no condition was true")
}

func fnIfError(ctx value.Context, th []value.Thunk) value.Value {
	v := th[0].Force()
	if _, ok := value.AsError(v); ok {
		return th[1].Force()
	}
	return v
}

func fnIfNA(ctx value.Context, th []value.Thunk) value.Value {
	v := th[0].Force()
	if e, ok := value.AsError(v); ok && e.Kind == value.ErrNA {
		return th[1].Force()
	}
	return v
}

func fnSwitch(ctx value.Context, th []value.Thunk) value.Value {
	expr := value.AsScalar(th[0].Force())
	if e, ok := expr.(value.Error); ok {
		return e
	}
	i := 1
	for ; i+1 < len(th); i += 2 {
		candidate := value.AsScalar(th[i].Force())
		if e, ok := candidate.(value.Error); ok {
			return e
		}
		if value.Equal(expr, candidate) {
			return th[i+1].Force()
		}
	}
	if i < len(th) {
		// trailing unpaired value is the default
		return th[i].Force()
	}
	return value.NewError(value.ErrNA, "no case matched")
}

// logicalFold walks arguments left to right, feeding every countable
// logical into f. f returns false to stop early with the short-circuit
// result. Text inside arrays is skipped; direct text must parse as a
// logical.
func logicalFold(th []value.Thunk, f func(bool) bool) (counted bool, short bool, errv value.Value) {
	for _, t := range th {
		if t.Omitted() {
			continue
		}
		v := t.Force()
		if a, ok := v.(*value.Array); ok {
			for r := 0; r < a.Rows(); r++ {
				for c := 0; c < a.Cols(); c++ {
					switch s := a.At(r, c).(type) {
					case value.Error:
						return counted, false, s
					case value.Boolean:
						counted = true
						if !f(bool(s)) {
							return counted, true, nil
						}
					case value.Number:
						counted = true
						if !f(s != 0) {
							return counted, true, nil
						}
					}
				}
			}
			continue
		}
		s := value.AsScalar(v)
		if e, ok := s.(value.Error); ok {
			return counted, false, e
		}
		if _, ok := s.(value.Empty); ok {
			continue
		}
		b, ok := value.ToBool(s)
		if !ok {
			return counted, false, value.Errorf(value.ErrValue, "%q is not a logical value", value.ToText(s))
		}
		counted = true
		if !f(b) {
			return counted, true, nil
		}
	}
	return counted, false, nil
}

func fnAnd(ctx value.Context, th []value.Thunk) value.Value {
	counted, short, errv := logicalFold(th, func(b bool) bool { return b })
	if errv != nil {
		return errv
	}
	if short {
		return value.Boolean(false)
	}
	if !counted {
		return value.NewError(value.ErrValue, "no logical values")
	}
	return value.Boolean(true)
}

func fnOr(ctx value.Context, th []value.Thunk) value.Value {
	counted, short, errv := logicalFold(th, func(b bool) bool { return !b })
	if errv != nil {
		return errv
	}
	if short {
		return value.Boolean(true)
	}
	if !counted {
		return value.NewError(value.ErrValue, "no logical values")
	}
	return value.Boolean(false)
}

func fnXor(ctx value.Context, th []value.Thunk) value.Value {
	trues := 0
	counted, _, errv := logicalFold(th, func(b bool) bool {
		if b {
			trues++
		}
		return true
	})
	if errv != nil {
		return errv
	}
	if !counted {
		return value.NewError(value.ErrValue, "no logical values")
	}
	return value.Boolean(trues%2 == 1)
}

func fnNot(ctx value.Context, th []value.Thunk) value.Value {
	b, errv := condValue(th[0])
	if errv != nil {
		return errv
	}
	return value.Boolean(!b)
}

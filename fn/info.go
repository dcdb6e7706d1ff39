package fn

import (
	"math"

	"github.com/cellmath/formula/value"
)

func registerInfo(r *Registry) {
	pred := func(name, syntax, desc string, f func(value.Scalar) bool) {
		r.Register(Def{Name: name, Category: "info", MinArgs: 1, MaxArgs: 1, Syntax: syntax, Desc: desc,
			Fn: func(ctx value.Context, args []value.Value) value.Value {
				return value.Boolean(f(scalarArg(args, 0)))
			}})
	}
	pred("ISBLANK", "ISBLANK(value)", "TRUE for an empty cell.", func(s value.Scalar) bool {
		_, ok := s.(value.Empty)
		return ok
	})
	pred("ISERR", "ISERR(value)", "TRUE for any error except #N/A.", func(s value.Scalar) bool {
		e, ok := s.(value.Error)
		return ok && e.Kind != value.ErrNA
	})
	pred("ISERROR", "ISERROR(value)", "TRUE for any error.", func(s value.Scalar) bool {
		_, ok := s.(value.Error)
		return ok
	})
	pred("ISNA", "ISNA(value)", "TRUE for #N/A.", func(s value.Scalar) bool {
		e, ok := s.(value.Error)
		return ok && e.Kind == value.ErrNA
	})
	pred("ISLOGICAL", "ISLOGICAL(value)", "TRUE for a logical value.", func(s value.Scalar) bool {
		_, ok := s.(value.Boolean)
		return ok
	})
	pred("ISNUMBER", "ISNUMBER(value)", "TRUE for a number.", func(s value.Scalar) bool {
		_, ok := s.(value.Number)
		return ok
	})
	pred("ISTEXT", "ISTEXT(value)", "TRUE for text.", func(s value.Scalar) bool {
		_, ok := s.(value.Text)
		return ok
	})
	pred("ISNONTEXT", "ISNONTEXT(value)", "TRUE for anything but text.", func(s value.Scalar) bool {
		_, ok := s.(value.Text)
		return !ok
	})

	r.Register(Def{Name: "ISEVEN", Category: "info", MinArgs: 1, MaxArgs: 1,
		Syntax: "ISEVEN(number)", Desc: "TRUE when the truncated number is even.", Fn: fnIsEven})
	r.Register(Def{Name: "ISODD", Category: "info", MinArgs: 1, MaxArgs: 1,
		Syntax: "ISODD(number)", Desc: "TRUE when the truncated number is odd.", Fn: fnIsOdd})
	r.Register(Def{Name: "ERROR.TYPE", Category: "info", MinArgs: 1, MaxArgs: 1,
		Syntax: "ERROR.TYPE(error_val)", Desc: "Numeric code of an error value.", Fn: fnErrorType})
	r.Register(Def{Name: "N", Category: "info", MinArgs: 1, MaxArgs: 1,
		Syntax: "N(value)", Desc: "Value converted to a number.", Fn: fnN})
	r.Register(Def{Name: "NA", Category: "info", MinArgs: 0, MaxArgs: 0,
		Syntax: "NA()", Desc: "The #N/A error value.",
		Fn: func(ctx value.Context, args []value.Value) value.Value {
			return value.NewError(value.ErrNA, "value not available")
		}})
	r.Register(Def{Name: "TYPE", Category: "info", MinArgs: 1, MaxArgs: 1,
		Syntax: "TYPE(value)", Desc: "Numeric code for a value's type.", Fn: fnType})
}

func parity(args []value.Value, even bool) value.Value {
	n, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	isEven := math.Mod(math.Trunc(n), 2) == 0
	return value.Boolean(isEven == even)
}

func fnIsEven(ctx value.Context, args []value.Value) value.Value { return parity(args, true) }
func fnIsOdd(ctx value.Context, args []value.Value) value.Value  { return parity(args, false) }

func fnErrorType(ctx value.Context, args []value.Value) value.Value {
	if e, ok := scalarArg(args, 0).(value.Error); ok {
		return value.Number(int(e.Kind))
	}
	return value.NewError(value.ErrNA, "not an error value")
}

func fnN(ctx value.Context, args []value.Value) value.Value {
	switch v := scalarArg(args, 0).(type) {
	case value.Number:
		return v
	case value.Boolean:
		if v {
			return value.Number(1)
		}
		return value.Number(0)
	case value.Error:
		return v
	}
	return value.Number(0)
}

func fnType(ctx value.Context, args []value.Value) value.Value {
	switch args[0].(type) {
	case *value.Array:
		return value.Number(64)
	case *value.Lambda:
		return value.Number(128)
	case value.Error:
		return value.Number(16)
	case value.Text:
		return value.Number(2)
	case value.Boolean:
		return value.Number(4)
	}
	return value.Number(1)
}

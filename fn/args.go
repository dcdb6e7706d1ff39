package fn

import (
	"math"

	"github.com/cellmath/formula/value"
)

// argument access helpers. each returns a non-nil value.Value as its second
// result when the argument cannot serve, and the handler returns that error
// value unchanged. indexes past the supplied argument list read as blank, so
// optional trailing arguments fall out of the same path as omitted ones.

func scalarArg(args []value.Value, i int) value.Scalar {
	if i >= len(args) || args[i] == nil {
		return value.Empty{}
	}
	return value.AsScalar(args[i])
}

func argProvided(args []value.Value, i int) bool {
	if i >= len(args) || args[i] == nil {
		return false
	}
	_, blank := args[i].(value.Empty)
	return !blank
}

func argNum(args []value.Value, i int) (float64, value.Value) {
	s := scalarArg(args, i)
	if e, ok := s.(value.Error); ok {
		return 0, e
	}
	n, ok := value.ToNumber(s)
	if !ok {
		return 0, value.Errorf(value.ErrValue, "%q is not a number", value.ToText(s))
	}
	return n, nil
}

func argNumDefault(args []value.Value, i int, def float64) (float64, value.Value) {
	if !argProvided(args, i) {
		return def, nil
	}
	return argNum(args, i)
}

// argInt truncates toward zero the way count-style arguments do.
func argInt(args []value.Value, i int) (int, value.Value) {
	n, errv := argNum(args, i)
	if errv != nil {
		return 0, errv
	}
	return int(math.Trunc(n)), nil
}

func argIntDefault(args []value.Value, i int, def int) (int, value.Value) {
	if !argProvided(args, i) {
		return def, nil
	}
	return argInt(args, i)
}

func argText(args []value.Value, i int) (string, value.Value) {
	s := scalarArg(args, i)
	if e, ok := s.(value.Error); ok {
		return "", e
	}
	return value.ToText(s), nil
}

func argTextDefault(args []value.Value, i int, def string) (string, value.Value) {
	if !argProvided(args, i) {
		return def, nil
	}
	return argText(args, i)
}

func argBoolDefault(args []value.Value, i int, def bool) (bool, value.Value) {
	if !argProvided(args, i) {
		return def, nil
	}
	s := scalarArg(args, i)
	if e, ok := s.(value.Error); ok {
		return false, e
	}
	b, ok := value.ToBool(s)
	if !ok {
		return false, value.Errorf(value.ErrValue, "%q is not a logical value", value.ToText(s))
	}
	return b, nil
}

// asArray views any value as an array: scalars become 1x1.
func asArray(v value.Value) *value.Array {
	if a, ok := v.(*value.Array); ok {
		return a
	}
	one := value.NewArray(1, 1)
	one.Set(0, 0, value.AsScalar(v))
	return one
}

// collectNumbers gathers numeric operands the way aggregators consume them:
// direct scalar arguments coerce (non-numeric text is an error), array and
// range contents contribute their numbers only, and any error value stops
// the walk. Blank cells and blank arguments contribute nothing.
func collectNumbers(args []value.Value) ([]float64, value.Value) {
	var nums []float64
	for _, a := range args {
		if a == nil {
			continue
		}
		switch v := a.(type) {
		case value.Error:
			return nil, v
		case value.Empty:
		case *value.Lambda:
			return nil, value.NewError(value.ErrValue, "a lambda is not a number")
		case *value.Array:
			for s := range v.All() {
				switch sv := s.(type) {
				case value.Number:
					nums = append(nums, float64(sv))
				case value.Error:
					return nil, sv
				}
			}
		default:
			n, ok := value.ToNumber(v)
			if !ok {
				return nil, value.Errorf(value.ErrValue, "%q is not a number", value.ToText(value.AsScalar(v)))
			}
			nums = append(nums, n)
		}
	}
	return nums, nil
}

// collectNumbersA is the A-variant walk (AVERAGEA, MAXA, ...): inside arrays,
// text counts as 0 and booleans as 1/0 instead of being skipped.
func collectNumbersA(args []value.Value) ([]float64, value.Value) {
	var nums []float64
	for _, a := range args {
		if a == nil {
			continue
		}
		switch v := a.(type) {
		case value.Error:
			return nil, v
		case value.Empty:
		case *value.Lambda:
			return nil, value.NewError(value.ErrValue, "a lambda is not a number")
		case *value.Array:
			for s := range v.All() {
				switch sv := s.(type) {
				case value.Number:
					nums = append(nums, float64(sv))
				case value.Boolean:
					if sv {
						nums = append(nums, 1)
					} else {
						nums = append(nums, 0)
					}
				case value.Text:
					nums = append(nums, 0)
				case value.Error:
					return nil, sv
				}
			}
		default:
			n, ok := value.ToNumber(v)
			if !ok {
				return nil, value.Errorf(value.ErrValue, "%q is not a number", value.ToText(value.AsScalar(v)))
			}
			nums = append(nums, n)
		}
	}
	return nums, nil
}

// forEachScalar walks every scalar in the arguments, flattening arrays. the
// callback returning false stops the walk early.
func forEachScalar(args []value.Value, f func(value.Scalar) bool) {
	for _, a := range args {
		if a == nil {
			if !f(value.Empty{}) {
				return
			}
			continue
		}
		if arr, ok := a.(*value.Array); ok {
			for s := range arr.All() {
				if !f(s) {
					return
				}
			}
			continue
		}
		if !f(value.AsScalar(a)) {
			return
		}
	}
}

// firstError returns the first error value among the arguments, scanning
// array contents too.
func firstError(args []value.Value) value.Value {
	var found value.Value
	forEachScalar(args, func(s value.Scalar) bool {
		if e, ok := s.(value.Error); ok {
			found = e
			return false
		}
		return true
	})
	return found
}

func numResult(f float64) value.Value { return value.FromFloat(f) }

// isIntegral reports whether a float holds an integral value, for trial
// counts and the like.
func isIntegral(f float64) bool { return f == math.Trunc(f) }

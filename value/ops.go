package value

import "math"

// BinaryOp applies an infix operator to two operands with array
// broadcasting. an error operand wins immediately, left before right. when
// both operands are arrays their shapes must agree, except that a length-1
// axis stretches to match the other operand; incompatible shapes yield a
// single #VALUE! for the whole expression.
func BinaryOp(op string, l, r Value) Value {
	if e, ok := FirstError(l, r); ok {
		return e
	}

	la, lIsArr := l.(*Array)
	ra, rIsArr := r.(*Array)
	if !lIsArr && !rIsArr {
		return scalarBinaryOp(op, AsScalar(l), AsScalar(r))
	}

	rows, cols := 1, 1
	if lIsArr {
		rows, cols = la.Rows(), la.Cols()
	}
	if rIsArr {
		rows = max(rows, ra.Rows())
		cols = max(cols, ra.Cols())
	}
	if lIsArr && !axesFit(la, rows, cols) {
		return NewError(ErrValue, "array shapes do not match")
	}
	if rIsArr && !axesFit(ra, rows, cols) {
		return NewError(ErrValue, "array shapes do not match")
	}

	out := NewArray(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			lv := pick(l, la, lIsArr, i, j)
			rv := pick(r, ra, rIsArr, i, j)
			out.Set(i, j, AsScalar(scalarBinaryOp(op, lv, rv)))
		}
	}
	return out
}

// UnaryOp applies a prefix (+ -) or postfix (%) operator, broadcasting over
// arrays element-wise.
func UnaryOp(op string, v Value) Value {
	if e, ok := v.(Error); ok {
		return e
	}
	if a, ok := v.(*Array); ok {
		out := NewArray(a.Rows(), a.Cols())
		for i := 0; i < a.Rows(); i++ {
			for j := 0; j < a.Cols(); j++ {
				out.Set(i, j, AsScalar(scalarUnaryOp(op, a.At(i, j))))
			}
		}
		return out
	}
	return scalarUnaryOp(op, AsScalar(v))
}

// axesFit reports whether an operand's shape stretches to rows x cols: each
// axis must be 1 or equal to the target.
func axesFit(a *Array, rows, cols int) bool {
	return (a.Rows() == 1 || a.Rows() == rows) && (a.Cols() == 1 || a.Cols() == cols)
}

func pick(v Value, a *Array, isArr bool, i, j int) Scalar {
	if !isArr {
		return AsScalar(v)
	}
	if a.Rows() == 1 {
		i = 0
	}
	if a.Cols() == 1 {
		j = 0
	}
	return a.At(i, j)
}

func scalarBinaryOp(op string, l, r Scalar) Value {
	if e, ok := l.(Error); ok {
		return e
	}
	if e, ok := r.(Error); ok {
		return e
	}

	switch op {
	case "+", "-", "*", "/", "^":
		ln, ok := ToNumber(l)
		if !ok {
			return Errorf(ErrValue, "%q is not a number", ToText(l))
		}
		rn, ok := ToNumber(r)
		if !ok {
			return Errorf(ErrValue, "%q is not a number", ToText(r))
		}
		switch op {
		case "+":
			return FromFloat(ln + rn)
		case "-":
			return FromFloat(ln - rn)
		case "*":
			return FromFloat(ln * rn)
		case "/":
			if rn == 0 {
				return NewError(ErrDiv0, "division by zero")
			}
			return FromFloat(ln / rn)
		case "^":
			if ln == 0 && rn == 0 {
				return NewError(ErrNum, "0^0 is undefined")
			}
			return FromFloat(math.Pow(ln, rn))
		}

	case "&":
		return Text(ToText(l) + ToText(r))

	case "=":
		return Boolean(Compare(l, r) == 0)
	case "<>":
		return Boolean(Compare(l, r) != 0)
	case "<":
		return Boolean(Compare(l, r) < 0)
	case "<=":
		return Boolean(Compare(l, r) <= 0)
	case ">":
		return Boolean(Compare(l, r) > 0)
	case ">=":
		return Boolean(Compare(l, r) >= 0)
	}

	return Errorf(ErrValue, "unknown operator %q", op)
}

func scalarUnaryOp(op string, v Scalar) Value {
	if e, ok := v.(Error); ok {
		return e
	}
	if op == "+" {
		// unary plus is a no-op even on text
		return v
	}
	n, ok := ToNumber(v)
	if !ok {
		return Errorf(ErrValue, "%q is not a number", ToText(v))
	}
	switch op {
	case "-":
		return Number(-n)
	case "%":
		return Number(n / 100)
	}
	return Errorf(ErrValue, "unknown operator %q", op)
}

// Package value defines the value model shared by the parser, the evaluator,
// and the function library: the Value union, coercion and comparison rules,
// the operator engine with array broadcasting, and the Expr/Context
// interfaces that let those packages cooperate without importing each other.
package value

import (
	"math"
	"strconv"
	"strings"
)

// Value is the result of evaluating a formula or any sub-expression.
// implementations:
//   - Number: numeric values (all numerics are float64)
//   - Text: string values
//   - Boolean: TRUE/FALSE
//   - Empty: a blank cell
//   - Error: formula errors (#DIV/0!, #VALUE!, etc.), carried as values
//   - *Array: a 2D grid of scalars
//   - *Lambda: a user-defined function value
type Value interface {
	String() string
	isValue()
}

// Scalar is the subset of Value that can occupy a single cell of an Array.
// arrays hold scalars only, so nested arrays cannot be constructed.
type Scalar interface {
	Value
	isScalar()
}

// Number is a numeric value.
type Number float64

// Text is a string value.
type Text string

// Boolean is a logical value.
type Boolean bool

// Empty is the value of a blank cell.
type Empty struct{}

func (Number) isValue()   {}
func (Text) isValue()     {}
func (Boolean) isValue()  {}
func (Empty) isValue()    {}
func (Number) isScalar()  {}
func (Text) isScalar()    {}
func (Boolean) isScalar() {}
func (Empty) isScalar()   {}

func (n Number) String() string {
	return FormatNumber(float64(n))
}

func (t Text) String() string {
	return string(t)
}

func (b Boolean) String() string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func (Empty) String() string {
	return ""
}

// FormatNumber renders a float the way a cell displays it: integers without
// decimals, everything else in shortest form.
func FormatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ParseNumber parses text as a number using cell-entry conventions: leading
// and trailing spaces are ignored, a trailing % divides by 100.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	pct := false
	if strings.HasSuffix(s, "%") {
		pct = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if pct {
		f /= 100
	}
	return f, true
}

// FromFloat wraps a float64, mapping NaN and infinities to #NUM!. arithmetic
// helpers route results through this so overflow surfaces as an error value
// instead of a non-finite number.
func FromFloat(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NewError(ErrNum, "numeric overflow")
	}
	return Number(f)
}

// FromBool wraps a bool as a Boolean.
func FromBool(b bool) Value {
	return Boolean(b)
}

// AsScalar reduces a Value to a Scalar for storage in an array cell. a 1x1
// array collapses to its single element; larger arrays and lambdas have no
// scalar form and become #VALUE!.
func AsScalar(v Value) Scalar {
	switch t := v.(type) {
	case Number, Text, Boolean, Empty, Error:
		return t.(Scalar)
	case *Array:
		if t.Rows() == 1 && t.Cols() == 1 {
			return t.At(0, 0)
		}
		return NewError(ErrValue, "array cannot be reduced to a single value")
	case *Lambda:
		return NewError(ErrValue, "lambda is not a value")
	default:
		return NewError(ErrValue, "unsupported value")
	}
}

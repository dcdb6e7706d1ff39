package fn

import (
	"math"
	"math/cmplx"
	"strconv"
	"strings"

	"github.com/cellmath/formula/value"
)

// Complex numbers travel as text in the "a+bi" form. The suffix letter used
// on input (i or j) is preserved on output; plain numbers default to i.

func parseComplexText(s string) (complex128, byte, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}
	last := s[len(s)-1]
	if last != 'i' && last != 'j' {
		re, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, 0, false
		}
		return complex(re, 0), 0, true
	}
	body := s[:len(s)-1]
	coeff := func(t string) (float64, bool) {
		switch t {
		case "", "+":
			return 1, true
		case "-":
			return -1, true
		}
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	}
	// split before the sign that starts the imaginary part, skipping
	// exponent signs like 1e-2
	k := -1
	for p := len(body) - 1; p > 0; p-- {
		if body[p] != '+' && body[p] != '-' {
			continue
		}
		if prev := body[p-1]; prev == 'e' || prev == 'E' {
			continue
		}
		k = p
		break
	}
	if k < 0 {
		im, ok := coeff(body)
		if !ok {
			return 0, 0, false
		}
		return complex(0, im), last, true
	}
	re, err := strconv.ParseFloat(body[:k], 64)
	if err != nil {
		return 0, 0, false
	}
	im, ok := coeff(body[k:])
	if !ok {
		return 0, 0, false
	}
	return complex(re, im), last, true
}

func parseComplex(s value.Scalar) (complex128, byte, value.Value) {
	switch v := s.(type) {
	case value.Error:
		return 0, 0, v
	case value.Number:
		return complex(float64(v), 0), 0, nil
	case value.Text:
		z, suffix, ok := parseComplexText(string(v))
		if !ok {
			return 0, 0, value.Errorf(value.ErrNum, "%q is not a complex number", string(v))
		}
		return z, suffix, nil
	}
	return 0, 0, value.Errorf(value.ErrValue, "%q is not a complex number", value.ToText(s))
}

func argComplex(args []value.Value, i int) (complex128, byte, value.Value) {
	return parseComplex(scalarArg(args, i))
}

// mergeSuffix keeps the first explicit suffix and rejects mixing i with j.
func mergeSuffix(a, b byte) (byte, bool) {
	switch {
	case a == 0:
		return b, true
	case b == 0 || a == b:
		return a, true
	}
	return 0, false
}

func formatComplex(z complex128, suffix byte) value.Value {
	if cmplx.IsNaN(z) || cmplx.IsInf(z) {
		return value.NewError(value.ErrNum, "numeric overflow")
	}
	if suffix == 0 {
		suffix = 'i'
	}
	re, im := real(z), imag(z)
	if im == 0 {
		return value.Text(value.FormatNumber(re))
	}
	var b strings.Builder
	if re != 0 {
		b.WriteString(value.FormatNumber(re))
		if im > 0 {
			b.WriteByte('+')
		}
	}
	if im < 0 {
		b.WriteByte('-')
	}
	if mag := math.Abs(im); mag != 1 {
		b.WriteString(value.FormatNumber(mag))
	}
	b.WriteByte(suffix)
	return value.Text(b.String())
}

func registerComplex(r *Registry) {
	one := func(name, syntax, desc string, f func(complex128) complex128) {
		r.Register(Def{Name: name, Category: "complex", MinArgs: 1, MaxArgs: 1, Syntax: syntax, Desc: desc,
			Fn: func(ctx value.Context, args []value.Value) value.Value {
				z, suffix, errv := argComplex(args, 0)
				if errv != nil {
					return errv
				}
				return formatComplex(f(z), suffix)
			}})
	}
	one("IMCONJUGATE", "IMCONJUGATE(inumber)", "Complex conjugate.", cmplx.Conj)
	one("IMCOS", "IMCOS(inumber)", "Cosine of a complex number.", cmplx.Cos)
	one("IMCOSH", "IMCOSH(inumber)", "Hyperbolic cosine of a complex number.", cmplx.Cosh)
	one("IMEXP", "IMEXP(inumber)", "Exponential of a complex number.", cmplx.Exp)
	one("IMSIN", "IMSIN(inumber)", "Sine of a complex number.", cmplx.Sin)
	one("IMSINH", "IMSINH(inumber)", "Hyperbolic sine of a complex number.", cmplx.Sinh)
	one("IMSQRT", "IMSQRT(inumber)", "Principal square root of a complex number.", cmplx.Sqrt)
	one("IMTAN", "IMTAN(inumber)", "Tangent of a complex number.", cmplx.Tan)

	r.Register(Def{Name: "COMPLEX", Category: "complex", MinArgs: 2, MaxArgs: 3,
		Syntax: "COMPLEX(real_num, i_num, [suffix])", Desc: "Builds a complex number from parts.", Fn: fnComplex})
	r.Register(Def{Name: "IMABS", Category: "complex", MinArgs: 1, MaxArgs: 1,
		Syntax: "IMABS(inumber)", Desc: "Modulus of a complex number.", Fn: fnImAbs})
	r.Register(Def{Name: "IMAGINARY", Category: "complex", MinArgs: 1, MaxArgs: 1,
		Syntax: "IMAGINARY(inumber)", Desc: "Imaginary coefficient of a complex number.", Fn: fnImaginary})
	r.Register(Def{Name: "IMREAL", Category: "complex", MinArgs: 1, MaxArgs: 1,
		Syntax: "IMREAL(inumber)", Desc: "Real coefficient of a complex number.", Fn: fnImReal})
	r.Register(Def{Name: "IMARGUMENT", Category: "complex", MinArgs: 1, MaxArgs: 1,
		Syntax: "IMARGUMENT(inumber)", Desc: "Argument theta in radians.", Fn: fnImArgument})
	r.Register(Def{Name: "IMLN", Category: "complex", MinArgs: 1, MaxArgs: 1,
		Syntax: "IMLN(inumber)", Desc: "Natural logarithm of a complex number.", Fn: fnImLn})
	r.Register(Def{Name: "IMLOG10", Category: "complex", MinArgs: 1, MaxArgs: 1,
		Syntax: "IMLOG10(inumber)", Desc: "Base-10 logarithm of a complex number.", Fn: fnImLog10})
	r.Register(Def{Name: "IMLOG2", Category: "complex", MinArgs: 1, MaxArgs: 1,
		Syntax: "IMLOG2(inumber)", Desc: "Base-2 logarithm of a complex number.", Fn: fnImLog2})
	r.Register(Def{Name: "IMPOWER", Category: "complex", MinArgs: 2, MaxArgs: 2,
		Syntax: "IMPOWER(inumber, number)", Desc: "Complex number raised to a power.", Fn: fnImPower})
	r.Register(Def{Name: "IMSUB", Category: "complex", MinArgs: 2, MaxArgs: 2,
		Syntax: "IMSUB(inumber1, inumber2)", Desc: "Difference of two complex numbers.", Fn: fnImSub})
	r.Register(Def{Name: "IMDIV", Category: "complex", MinArgs: 2, MaxArgs: 2,
		Syntax: "IMDIV(inumber1, inumber2)", Desc: "Quotient of two complex numbers.", Fn: fnImDiv})
	r.Register(Def{Name: "IMSUM", Category: "complex", MinArgs: 1, MaxArgs: -1,
		Syntax: "IMSUM(inumber1, ...)", Desc: "Sum of complex numbers.", Fn: fnImSum})
	r.Register(Def{Name: "IMPRODUCT", Category: "complex", MinArgs: 1, MaxArgs: -1,
		Syntax: "IMPRODUCT(inumber1, ...)", Desc: "Product of complex numbers.", Fn: fnImProduct})
}

func fnComplex(ctx value.Context, args []value.Value) value.Value {
	re, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	im, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	suffix, errv := argTextDefault(args, 2, "i")
	if errv != nil {
		return errv
	}
	if suffix != "i" && suffix != "j" {
		return value.NewError(value.ErrValue, "suffix must be i or j")
	}
	return formatComplex(complex(re, im), suffix[0])
}

func fnImAbs(ctx value.Context, args []value.Value) value.Value {
	z, _, errv := argComplex(args, 0)
	if errv != nil {
		return errv
	}
	return numResult(cmplx.Abs(z))
}

func fnImaginary(ctx value.Context, args []value.Value) value.Value {
	z, _, errv := argComplex(args, 0)
	if errv != nil {
		return errv
	}
	return value.Number(imag(z))
}

func fnImReal(ctx value.Context, args []value.Value) value.Value {
	z, _, errv := argComplex(args, 0)
	if errv != nil {
		return errv
	}
	return value.Number(real(z))
}

func fnImArgument(ctx value.Context, args []value.Value) value.Value {
	z, _, errv := argComplex(args, 0)
	if errv != nil {
		return errv
	}
	if z == 0 {
		return value.NewError(value.ErrDiv0, "argument of zero")
	}
	return value.Number(cmplx.Phase(z))
}

func fnImLn(ctx value.Context, args []value.Value) value.Value {
	z, suffix, errv := argComplex(args, 0)
	if errv != nil {
		return errv
	}
	if z == 0 {
		return value.NewError(value.ErrNum, "logarithm of zero")
	}
	return formatComplex(cmplx.Log(z), suffix)
}

func fnImLog10(ctx value.Context, args []value.Value) value.Value {
	z, suffix, errv := argComplex(args, 0)
	if errv != nil {
		return errv
	}
	if z == 0 {
		return value.NewError(value.ErrNum, "logarithm of zero")
	}
	return formatComplex(cmplx.Log(z)/complex(math.Ln10, 0), suffix)
}

func fnImLog2(ctx value.Context, args []value.Value) value.Value {
	z, suffix, errv := argComplex(args, 0)
	if errv != nil {
		return errv
	}
	if z == 0 {
		return value.NewError(value.ErrNum, "logarithm of zero")
	}
	return formatComplex(cmplx.Log(z)/complex(math.Ln2, 0), suffix)
}

func fnImPower(ctx value.Context, args []value.Value) value.Value {
	z, suffix, errv := argComplex(args, 0)
	if errv != nil {
		return errv
	}
	n, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	if z == 0 && n == 0 {
		return value.NewError(value.ErrNum, "zero to the zeroth power")
	}
	return formatComplex(cmplx.Pow(z, complex(n, 0)), suffix)
}

func fnImSub(ctx value.Context, args []value.Value) value.Value {
	a, sa, errv := argComplex(args, 0)
	if errv != nil {
		return errv
	}
	b, sb, errv := argComplex(args, 1)
	if errv != nil {
		return errv
	}
	suffix, ok := mergeSuffix(sa, sb)
	if !ok {
		return value.NewError(value.ErrValue, "mixed i and j suffixes")
	}
	return formatComplex(a-b, suffix)
}

func fnImDiv(ctx value.Context, args []value.Value) value.Value {
	a, sa, errv := argComplex(args, 0)
	if errv != nil {
		return errv
	}
	b, sb, errv := argComplex(args, 1)
	if errv != nil {
		return errv
	}
	suffix, ok := mergeSuffix(sa, sb)
	if !ok {
		return value.NewError(value.ErrValue, "mixed i and j suffixes")
	}
	if b == 0 {
		return value.NewError(value.ErrNum, "division by zero")
	}
	return formatComplex(a/b, suffix)
}

func complexFold(args []value.Value, start complex128, f func(acc, z complex128) complex128) value.Value {
	acc := start
	var suffix byte
	var errv value.Value
	forEachScalar(args, func(s value.Scalar) bool {
		if _, ok := s.(value.Empty); ok {
			return true
		}
		z, sz, perr := parseComplex(s)
		if perr != nil {
			errv = perr
			return false
		}
		merged, ok := mergeSuffix(suffix, sz)
		if !ok {
			errv = value.NewError(value.ErrValue, "mixed i and j suffixes")
			return false
		}
		suffix = merged
		acc = f(acc, z)
		return true
	})
	if errv != nil {
		return errv
	}
	return formatComplex(acc, suffix)
}

func fnImSum(ctx value.Context, args []value.Value) value.Value {
	return complexFold(args, 0, func(acc, z complex128) complex128 { return acc + z })
}

func fnImProduct(ctx value.Context, args []value.Value) value.Value {
	return complexFold(args, 1, func(acc, z complex128) complex128 { return acc * z })
}

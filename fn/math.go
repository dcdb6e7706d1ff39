package fn

import (
	"math"

	"github.com/cellmath/formula/value"
)

func registerMath(r *Registry) {
	one := func(name, syntax, desc string, f func(float64) float64) {
		r.Register(Def{Name: name, Category: "math", MinArgs: 1, MaxArgs: 1,
			Syntax: syntax, Desc: desc, Fn: oneNum(f)})
	}

	one("ABS", "ABS(number)", "Absolute value of a number.", math.Abs)
	one("ACOS", "ACOS(number)", "Arccosine, in radians.", math.Acos)
	one("ACOSH", "ACOSH(number)", "Inverse hyperbolic cosine.", math.Acosh)
	one("ASIN", "ASIN(number)", "Arcsine, in radians.", math.Asin)
	one("ASINH", "ASINH(number)", "Inverse hyperbolic sine.", math.Asinh)
	one("ATAN", "ATAN(number)", "Arctangent, in radians.", math.Atan)
	one("ATANH", "ATANH(number)", "Inverse hyperbolic tangent.", math.Atanh)
	one("COS", "COS(number)", "Cosine of an angle in radians.", math.Cos)
	one("COSH", "COSH(number)", "Hyperbolic cosine.", math.Cosh)
	one("EXP", "EXP(number)", "e raised to a power.", math.Exp)
	one("LN", "LN(number)", "Natural logarithm.", math.Log)
	one("LOG10", "LOG10(number)", "Base-10 logarithm.", math.Log10)
	one("SIN", "SIN(number)", "Sine of an angle in radians.", math.Sin)
	one("SINH", "SINH(number)", "Hyperbolic sine.", math.Sinh)
	one("SQRT", "SQRT(number)", "Positive square root.", math.Sqrt)
	one("TAN", "TAN(number)", "Tangent of an angle in radians.", math.Tan)
	one("TANH", "TANH(number)", "Hyperbolic tangent.", math.Tanh)
	one("DEGREES", "DEGREES(angle)", "Radians to degrees.", func(x float64) float64 { return x * 180 / math.Pi })
	one("RADIANS", "RADIANS(angle)", "Degrees to radians.", func(x float64) float64 { return x * math.Pi / 180 })
	one("INT", "INT(number)", "Rounds down to the nearest integer.", math.Floor)
	one("SIGN", "SIGN(number)", "Sign of a number: 1, 0, or -1.", func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		}
		return 0
	})
	one("SQRTPI", "SQRTPI(number)", "Square root of number times pi.", func(x float64) float64 { return math.Sqrt(x * math.Pi) })
	one("EVEN", "EVEN(number)", "Rounds away from zero to the nearest even integer.", func(x float64) float64 { return roundAwayToMultiple(x, 2) })
	one("ODD", "ODD(number)", "Rounds away from zero to the nearest odd integer.", func(x float64) float64 {
		n := math.Ceil(math.Abs(x))
		if math.Mod(n, 2) == 0 {
			n++
		}
		return math.Copysign(n, x)
	})

	r.Register(Def{Name: "ATAN2", Category: "math", MinArgs: 2, MaxArgs: 2,
		Syntax: "ATAN2(x_num, y_num)", Desc: "Arctangent from x and y coordinates.", Fn: fnAtan2})
	r.Register(Def{Name: "PI", Category: "math", MinArgs: 0, MaxArgs: 0,
		Syntax: "PI()", Desc: "The constant pi.", Fn: func(value.Context, []value.Value) value.Value { return value.Number(math.Pi) }})
	r.Register(Def{Name: "LOG", Category: "math", MinArgs: 1, MaxArgs: 2,
		Syntax: "LOG(number, [base])", Desc: "Logarithm in a given base, 10 by default.", Fn: fnLog})
	r.Register(Def{Name: "POWER", Category: "math", MinArgs: 2, MaxArgs: 2,
		Syntax: "POWER(number, power)", Desc: "Number raised to a power.", Fn: fnPower})
	r.Register(Def{Name: "MOD", Category: "math", MinArgs: 2, MaxArgs: 2,
		Syntax: "MOD(number, divisor)", Desc: "Remainder after division, with the divisor's sign.", Fn: fnMod})
	r.Register(Def{Name: "QUOTIENT", Category: "math", MinArgs: 2, MaxArgs: 2,
		Syntax: "QUOTIENT(numerator, denominator)", Desc: "Integer portion of a division.", Fn: fnQuotient})
	r.Register(Def{Name: "ROUND", Category: "math", MinArgs: 2, MaxArgs: 2,
		Syntax: "ROUND(number, num_digits)", Desc: "Rounds to a number of digits, halves away from zero.", Fn: fnRound})
	r.Register(Def{Name: "ROUNDUP", Category: "math", MinArgs: 2, MaxArgs: 2,
		Syntax: "ROUNDUP(number, num_digits)", Desc: "Rounds away from zero.", Fn: fnRoundUp})
	r.Register(Def{Name: "ROUNDDOWN", Category: "math", MinArgs: 2, MaxArgs: 2,
		Syntax: "ROUNDDOWN(number, num_digits)", Desc: "Rounds toward zero.", Fn: fnRoundDown})
	r.Register(Def{Name: "TRUNC", Category: "math", MinArgs: 1, MaxArgs: 2,
		Syntax: "TRUNC(number, [num_digits])", Desc: "Truncates toward zero.", Fn: fnTrunc})
	r.Register(Def{Name: "MROUND", Category: "math", MinArgs: 2, MaxArgs: 2,
		Syntax: "MROUND(number, multiple)", Desc: "Rounds to the nearest multiple.", Fn: fnMround})
	r.Register(Def{Name: "CEILING", Category: "math", MinArgs: 2, MaxArgs: 2,
		Syntax: "CEILING(number, significance)", Desc: "Rounds up to the nearest multiple of significance.", Fn: fnCeiling})
	r.Register(Def{Name: "CEILING.MATH", Category: "math", MinArgs: 1, MaxArgs: 3,
		Syntax: "CEILING.MATH(number, [significance], [mode])", Desc: "Rounds up; mode directs negatives away from zero.", Fn: fnCeilingMath})
	r.Register(Def{Name: "FLOOR", Category: "math", MinArgs: 2, MaxArgs: 2,
		Syntax: "FLOOR(number, significance)", Desc: "Rounds down to the nearest multiple of significance.", Fn: fnFloor})
	r.Register(Def{Name: "FLOOR.MATH", Category: "math", MinArgs: 1, MaxArgs: 3,
		Syntax: "FLOOR.MATH(number, [significance], [mode])", Desc: "Rounds down; mode directs negatives toward zero.", Fn: fnFloorMath})
	r.Register(Def{Name: "FACT", Category: "math", MinArgs: 1, MaxArgs: 1,
		Syntax: "FACT(number)", Desc: "Factorial of a number.", Fn: fnFact})
	r.Register(Def{Name: "FACTDOUBLE", Category: "math", MinArgs: 1, MaxArgs: 1,
		Syntax: "FACTDOUBLE(number)", Desc: "Double factorial of a number.", Fn: fnFactDouble})
	r.Register(Def{Name: "COMBIN", Category: "math", MinArgs: 2, MaxArgs: 2,
		Syntax: "COMBIN(number, number_chosen)", Desc: "Count of combinations.", Fn: fnCombin})
	r.Register(Def{Name: "GCD", Category: "math", MinArgs: 1, MaxArgs: -1,
		Syntax: "GCD(number1, ...)", Desc: "Greatest common divisor.", Fn: fnGcd})
	r.Register(Def{Name: "LCM", Category: "math", MinArgs: 1, MaxArgs: -1,
		Syntax: "LCM(number1, ...)", Desc: "Least common multiple.", Fn: fnLcm})
	r.Register(Def{Name: "SUM", Category: "math", MinArgs: 1, MaxArgs: -1,
		Syntax: "SUM(number1, ...)", Desc: "Sum of the numbers.", Fn: fnSum})
	r.Register(Def{Name: "SUMSQ", Category: "math", MinArgs: 1, MaxArgs: -1,
		Syntax: "SUMSQ(number1, ...)", Desc: "Sum of squares.", Fn: fnSumSq})
	r.Register(Def{Name: "PRODUCT", Category: "math", MinArgs: 1, MaxArgs: -1,
		Syntax: "PRODUCT(number1, ...)", Desc: "Product of the numbers.", Fn: fnProduct})
	r.Register(Def{Name: "SUMPRODUCT", Category: "math", MinArgs: 1, MaxArgs: -1,
		Syntax: "SUMPRODUCT(array1, ...)", Desc: "Sum of elementwise products of same-shaped arrays.", Fn: fnSumProduct})
	r.Register(Def{Name: "SUMIF", Category: "math", MinArgs: 2, MaxArgs: 3,
		Syntax: "SUMIF(range, criteria, [sum_range])", Desc: "Sums the cells that meet a criterion.", Fn: fnSumIf})
	r.Register(Def{Name: "SUMIFS", Category: "math", MinArgs: 3, MaxArgs: -1,
		Syntax: "SUMIFS(sum_range, criteria_range1, criteria1, ...)", Desc: "Sums cells meeting every criterion.", Fn: fnSumIfs})
	r.Register(Def{Name: "RAND", Category: "math", MinArgs: 0, MaxArgs: 0, Volatile: true,
		Syntax: "RAND()", Desc: "Random number in [0, 1).", Fn: fnRand})
	r.Register(Def{Name: "RANDBETWEEN", Category: "math", MinArgs: 2, MaxArgs: 2, Volatile: true,
		Syntax: "RANDBETWEEN(bottom, top)", Desc: "Random integer between bottom and top, inclusive.", Fn: fnRandBetween})
	r.Register(Def{Name: "RANDARRAY", Category: "math", MinArgs: 0, MaxArgs: 5, Volatile: true,
		Syntax: "RANDARRAY([rows], [columns], [min], [max], [whole_number])", Desc: "Array of random numbers.", Fn: fnRandArray})
}

func oneNum(f func(float64) float64) func(value.Context, []value.Value) value.Value {
	return func(ctx value.Context, args []value.Value) value.Value {
		n, errv := argNum(args, 0)
		if errv != nil {
			return errv
		}
		return numResult(f(n))
	}
}

func fnAtan2(ctx value.Context, args []value.Value) value.Value {
	x, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	y, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	if x == 0 && y == 0 {
		return value.NewError(value.ErrDiv0, "ATAN2 of the origin")
	}
	return numResult(math.Atan2(y, x))
}

func fnLog(ctx value.Context, args []value.Value) value.Value {
	n, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	base, errv := argNumDefault(args, 1, 10)
	if errv != nil {
		return errv
	}
	if base <= 0 || base == 1 {
		return value.NewError(value.ErrNum, "invalid logarithm base")
	}
	return numResult(math.Log(n) / math.Log(base))
}

func fnPower(ctx value.Context, args []value.Value) value.Value {
	n, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	p, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	return value.BinaryOp("^", value.Number(n), value.Number(p))
}

func fnMod(ctx value.Context, args []value.Value) value.Value {
	n, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	d, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	if d == 0 {
		return value.NewError(value.ErrDiv0, "MOD by zero")
	}
	return numResult(n - d*math.Floor(n/d))
}

func fnQuotient(ctx value.Context, args []value.Value) value.Value {
	n, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	d, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	if d == 0 {
		return value.NewError(value.ErrDiv0, "QUOTIENT by zero")
	}
	return numResult(math.Trunc(n / d))
}

// roundTo rounds half away from zero at the given digit count.
func roundTo(n float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(n*p) / p
}

func fnRound(ctx value.Context, args []value.Value) value.Value {
	n, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	d, errv := argInt(args, 1)
	if errv != nil {
		return errv
	}
	return numResult(roundTo(n, d))
}

func fnRoundUp(ctx value.Context, args []value.Value) value.Value {
	n, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	d, errv := argInt(args, 1)
	if errv != nil {
		return errv
	}
	p := math.Pow(10, float64(d))
	return numResult(math.Copysign(math.Ceil(math.Abs(n)*p)/p, n))
}

func fnRoundDown(ctx value.Context, args []value.Value) value.Value {
	n, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	d, errv := argInt(args, 1)
	if errv != nil {
		return errv
	}
	p := math.Pow(10, float64(d))
	return numResult(math.Trunc(n*p) / p)
}

func fnTrunc(ctx value.Context, args []value.Value) value.Value {
	n, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	d, errv := argIntDefault(args, 1, 0)
	if errv != nil {
		return errv
	}
	p := math.Pow(10, float64(d))
	return numResult(math.Trunc(n*p) / p)
}

func fnMround(ctx value.Context, args []value.Value) value.Value {
	n, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	m, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	if m == 0 {
		return value.Number(0)
	}
	if (n > 0 && m < 0) || (n < 0 && m > 0) {
		return value.NewError(value.ErrNum, "MROUND arguments must share a sign")
	}
	return numResult(m * math.Round(n/m))
}

func fnCeiling(ctx value.Context, args []value.Value) value.Value {
	n, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	sig, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	if sig == 0 {
		return value.Number(0)
	}
	if n > 0 && sig < 0 {
		return value.NewError(value.ErrNum, "CEILING significance sign mismatch")
	}
	return numResult(sig * math.Ceil(n/sig))
}

func fnCeilingMath(ctx value.Context, args []value.Value) value.Value {
	n, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	sig, errv := argNumDefault(args, 1, 1)
	if errv != nil {
		return errv
	}
	mode, errv := argNumDefault(args, 2, 0)
	if errv != nil {
		return errv
	}
	if sig == 0 {
		return value.Number(0)
	}
	sig = math.Abs(sig)
	if n < 0 && mode != 0 {
		return numResult(-sig * math.Ceil(-n/sig))
	}
	return numResult(sig * math.Ceil(n/sig))
}

func fnFloor(ctx value.Context, args []value.Value) value.Value {
	n, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	sig, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	if sig == 0 {
		return value.NewError(value.ErrDiv0, "FLOOR significance of zero")
	}
	if n > 0 && sig < 0 {
		return value.NewError(value.ErrNum, "FLOOR significance sign mismatch")
	}
	return numResult(sig * math.Floor(n/sig))
}

func fnFloorMath(ctx value.Context, args []value.Value) value.Value {
	n, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	sig, errv := argNumDefault(args, 1, 1)
	if errv != nil {
		return errv
	}
	mode, errv := argNumDefault(args, 2, 0)
	if errv != nil {
		return errv
	}
	if sig == 0 {
		return value.Number(0)
	}
	sig = math.Abs(sig)
	if n < 0 && mode != 0 {
		return numResult(-sig * math.Floor(-n/sig))
	}
	return numResult(sig * math.Floor(n/sig))
}

func fnFact(ctx value.Context, args []value.Value) value.Value {
	n, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	if n < 0 {
		return value.NewError(value.ErrNum, "FACT of a negative number")
	}
	return numResult(factorial(math.Trunc(n)))
}

func factorial(n float64) float64 {
	out := 1.0
	for i := 2.0; i <= n; i++ {
		out *= i
	}
	return out
}

func fnFactDouble(ctx value.Context, args []value.Value) value.Value {
	n, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	if n < 0 {
		return value.NewError(value.ErrNum, "FACTDOUBLE of a negative number")
	}
	out := 1.0
	for i := math.Trunc(n); i > 1; i -= 2 {
		out *= i
	}
	return numResult(out)
}

func fnCombin(ctx value.Context, args []value.Value) value.Value {
	n, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	k, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	n, k = math.Trunc(n), math.Trunc(k)
	if n < 0 || k < 0 || k > n {
		return value.NewError(value.ErrNum, "COMBIN arguments out of range")
	}
	if k > n-k {
		k = n - k
	}
	out := 1.0
	for i := 0.0; i < k; i++ {
		out = out * (n - i) / (i + 1)
	}
	return numResult(math.Round(out))
}

func fnGcd(ctx value.Context, args []value.Value) value.Value {
	nums, errv := collectNumbers(args)
	if errv != nil {
		return errv
	}
	if len(nums) == 0 {
		return value.NewError(value.ErrValue, "GCD needs at least one number")
	}
	g := int64(0)
	for _, n := range nums {
		if n < 0 {
			return value.NewError(value.ErrNum, "GCD of a negative number")
		}
		g = gcd(g, int64(n))
	}
	return numResult(float64(g))
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func fnLcm(ctx value.Context, args []value.Value) value.Value {
	nums, errv := collectNumbers(args)
	if errv != nil {
		return errv
	}
	if len(nums) == 0 {
		return value.NewError(value.ErrValue, "LCM needs at least one number")
	}
	l := int64(1)
	for _, n := range nums {
		if n < 0 {
			return value.NewError(value.ErrNum, "LCM of a negative number")
		}
		v := int64(n)
		if v == 0 {
			return value.Number(0)
		}
		l = l / gcd(l, v) * v
	}
	return numResult(float64(l))
}

func fnSum(ctx value.Context, args []value.Value) value.Value {
	nums, errv := collectNumbers(args)
	if errv != nil {
		return errv
	}
	total := 0.0
	for _, n := range nums {
		total += n
	}
	return numResult(total)
}

func fnSumSq(ctx value.Context, args []value.Value) value.Value {
	nums, errv := collectNumbers(args)
	if errv != nil {
		return errv
	}
	total := 0.0
	for _, n := range nums {
		total += n * n
	}
	return numResult(total)
}

func fnProduct(ctx value.Context, args []value.Value) value.Value {
	nums, errv := collectNumbers(args)
	if errv != nil {
		return errv
	}
	if len(nums) == 0 {
		return value.Number(0)
	}
	out := 1.0
	for _, n := range nums {
		out *= n
	}
	return numResult(out)
}

func fnSumProduct(ctx value.Context, args []value.Value) value.Value {
	if errv := firstError(args); errv != nil {
		return errv
	}
	arrays := make([]*value.Array, len(args))
	for i, a := range args {
		arrays[i] = asArray(a)
		if arrays[i].Rows() != arrays[0].Rows() || arrays[i].Cols() != arrays[0].Cols() {
			return value.NewError(value.ErrValue, "SUMPRODUCT arrays must share a shape")
		}
	}
	total := 0.0
	for i := 0; i < arrays[0].Len(); i++ {
		p := 1.0
		for _, a := range arrays {
			// non-numeric entries multiply as zero
			n, ok := a.Flat(i).(value.Number)
			if !ok {
				p = 0
				break
			}
			p *= float64(n)
		}
		total += p
	}
	return numResult(total)
}

func fnSumIf(ctx value.Context, args []value.Value) value.Value {
	rng := asArray(args[0])
	sumRange := rng
	if argProvided(args, 2) {
		sumRange = asArray(args[2])
		if sumRange.Rows() != rng.Rows() || sumRange.Cols() != rng.Cols() {
			return value.NewError(value.ErrValue, "SUMIF ranges must share a shape")
		}
	}
	crit := parseCriterion(orEmpty(args[1]))
	total := 0.0
	for i := 0; i < rng.Len(); i++ {
		if !crit.matches(rng.Flat(i)) {
			continue
		}
		switch sv := sumRange.Flat(i).(type) {
		case value.Number:
			total += float64(sv)
		case value.Error:
			return sv
		}
	}
	return numResult(total)
}

func fnSumIfs(ctx value.Context, args []value.Value) value.Value {
	sumRange := asArray(args[0])
	ranges, crits, errv := criteriaRanges(sumRange, args[1:])
	if errv != nil {
		return errv
	}
	total := 0.0
	for _, s := range selectByCriteria(sumRange, ranges, crits) {
		switch sv := s.(type) {
		case value.Number:
			total += float64(sv)
		case value.Error:
			return sv
		}
	}
	return numResult(total)
}

func fnRand(ctx value.Context, args []value.Value) value.Value {
	return value.Number(ctx.Rand())
}

func fnRandBetween(ctx value.Context, args []value.Value) value.Value {
	lo, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	hi, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	lo, hi = math.Ceil(lo), math.Floor(hi)
	if lo > hi {
		return value.NewError(value.ErrNum, "RANDBETWEEN bottom exceeds top")
	}
	return value.Number(lo + math.Floor(ctx.Rand()*(hi-lo+1)))
}

func fnRandArray(ctx value.Context, args []value.Value) value.Value {
	rows, errv := argIntDefault(args, 0, 1)
	if errv != nil {
		return errv
	}
	cols, errv := argIntDefault(args, 1, 1)
	if errv != nil {
		return errv
	}
	lo, errv := argNumDefault(args, 2, 0)
	if errv != nil {
		return errv
	}
	hi, errv := argNumDefault(args, 3, 1)
	if errv != nil {
		return errv
	}
	whole, errv := argBoolDefault(args, 4, false)
	if errv != nil {
		return errv
	}
	if rows <= 0 || cols <= 0 {
		return value.NewError(value.ErrValue, "RANDARRAY dimensions must be positive")
	}
	if lo > hi {
		return value.NewError(value.ErrValue, "RANDARRAY min exceeds max")
	}
	out := value.NewArray(rows, cols)
	for i := 0; i < out.Len(); i++ {
		if whole {
			out.SetFlat(i, value.Number(math.Floor(lo)+math.Floor(ctx.Rand()*(math.Floor(hi)-math.Floor(lo)+1))))
		} else {
			out.SetFlat(i, value.Number(lo+ctx.Rand()*(hi-lo)))
		}
	}
	return out
}

func roundAwayToMultiple(x, m float64) float64 {
	return math.Copysign(m*math.Ceil(math.Abs(x)/m), x)
}

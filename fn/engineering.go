package fn

import (
	"math"
	"strconv"
	"strings"

	"github.com/cellmath/formula/value"
)

// Radix conversions use fixed two's-complement widths: 10 bits for binary,
// 30 for octal, 40 for hexadecimal. Negative values always render as the
// full 10-digit form in the target base.

const (
	binBits = 10
	octBits = 30
	hexBits = 40
)

func registerEngineering(r *Registry) {
	conv := func(name, syntax, desc string, maxArgs int, f func([]value.Value) value.Value) {
		r.Register(Def{Name: name, Category: "engineering", MinArgs: 1, MaxArgs: maxArgs, Syntax: syntax, Desc: desc,
			Fn: func(ctx value.Context, args []value.Value) value.Value { return f(args) }})
	}
	conv("BIN2DEC", "BIN2DEC(number)", "Binary to decimal.", 1, fnBin2Dec)
	conv("BIN2HEX", "BIN2HEX(number, [places])", "Binary to hexadecimal.", 2, fnBin2Hex)
	conv("BIN2OCT", "BIN2OCT(number, [places])", "Binary to octal.", 2, fnBin2Oct)
	conv("DEC2BIN", "DEC2BIN(number, [places])", "Decimal to binary.", 2, fnDec2Bin)
	conv("DEC2HEX", "DEC2HEX(number, [places])", "Decimal to hexadecimal.", 2, fnDec2Hex)
	conv("DEC2OCT", "DEC2OCT(number, [places])", "Decimal to octal.", 2, fnDec2Oct)
	conv("HEX2BIN", "HEX2BIN(number, [places])", "Hexadecimal to binary.", 2, fnHex2Bin)
	conv("HEX2DEC", "HEX2DEC(number)", "Hexadecimal to decimal.", 1, fnHex2Dec)
	conv("HEX2OCT", "HEX2OCT(number, [places])", "Hexadecimal to octal.", 2, fnHex2Oct)
	conv("OCT2BIN", "OCT2BIN(number, [places])", "Octal to binary.", 2, fnOct2Bin)
	conv("OCT2DEC", "OCT2DEC(number)", "Octal to decimal.", 1, fnOct2Dec)
	conv("OCT2HEX", "OCT2HEX(number, [places])", "Octal to hexadecimal.", 2, fnOct2Hex)

	r.Register(Def{Name: "BITAND", Category: "engineering", MinArgs: 2, MaxArgs: 2,
		Syntax: "BITAND(number1, number2)", Desc: "Bitwise AND of two numbers.", Fn: bitwise(func(a, b uint64) uint64 { return a & b })})
	r.Register(Def{Name: "BITOR", Category: "engineering", MinArgs: 2, MaxArgs: 2,
		Syntax: "BITOR(number1, number2)", Desc: "Bitwise OR of two numbers.", Fn: bitwise(func(a, b uint64) uint64 { return a | b })})
	r.Register(Def{Name: "BITXOR", Category: "engineering", MinArgs: 2, MaxArgs: 2,
		Syntax: "BITXOR(number1, number2)", Desc: "Bitwise XOR of two numbers.", Fn: bitwise(func(a, b uint64) uint64 { return a ^ b })})
	r.Register(Def{Name: "BITLSHIFT", Category: "engineering", MinArgs: 2, MaxArgs: 2,
		Syntax: "BITLSHIFT(number, shift_amount)", Desc: "Shifts bits left.", Fn: fnBitLShift})
	r.Register(Def{Name: "BITRSHIFT", Category: "engineering", MinArgs: 2, MaxArgs: 2,
		Syntax: "BITRSHIFT(number, shift_amount)", Desc: "Shifts bits right.", Fn: fnBitRShift})

	r.Register(Def{Name: "DELTA", Category: "engineering", MinArgs: 1, MaxArgs: 2,
		Syntax: "DELTA(number1, [number2])", Desc: "1 when two numbers are equal, else 0.", Fn: fnDelta})
	r.Register(Def{Name: "GESTEP", Category: "engineering", MinArgs: 1, MaxArgs: 2,
		Syntax: "GESTEP(number, [step])", Desc: "1 when a number reaches a threshold, else 0.", Fn: fnGestep})
	r.Register(Def{Name: "ERF", Category: "engineering", MinArgs: 1, MaxArgs: 2,
		Syntax: "ERF(lower_limit, [upper_limit])", Desc: "Error function integrated between limits.", Fn: fnErf})
	r.Register(Def{Name: "ERF.PRECISE", Category: "engineering", MinArgs: 1, MaxArgs: 1,
		Syntax: "ERF.PRECISE(x)", Desc: "Error function from zero.", Fn: fnErfPrecise})
	r.Register(Def{Name: "ERFC", Category: "engineering", MinArgs: 1, MaxArgs: 1,
		Syntax: "ERFC(x)", Desc: "Complementary error function.", Fn: fnErfc})
}

// erfApprox is the Abramowitz and Stegun 7.1.26 rational approximation,
// accurate to about 1.5e-7. The normal distribution functions share it.
func erfApprox(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1
		x = -x
	}
	t := 1 / (1 + 0.3275911*x)
	poly := ((((1.061405429*t-1.453152027)*t+1.421413741)*t-0.284496736)*t + 0.254829592) * t
	return sign * (1 - poly*math.Exp(-x*x))
}

// radixText renders the input the way it must be parsed: numbers become
// their plain digit string, blanks read as zero.
func radixText(args []value.Value, i int) (string, value.Value) {
	s := scalarArg(args, i)
	switch v := s.(type) {
	case value.Error:
		return "", v
	case value.Empty:
		return "0", nil
	case value.Number:
		if !isIntegral(float64(v)) {
			return "", value.NewError(value.ErrNum, "digits must be whole")
		}
		return strconv.FormatFloat(float64(v), 'f', -1, 64), nil
	case value.Text:
		t := strings.TrimSpace(string(v))
		if t == "" {
			return "0", nil
		}
		return t, nil
	}
	return "", value.Errorf(value.ErrValue, "%q has no digits", value.ToText(s))
}

func toDec(s string, base int, bits uint) (int64, value.Value) {
	if len(s) > 10 {
		return 0, value.NewError(value.ErrNum, "too many digits")
	}
	v, err := strconv.ParseInt(strings.ToUpper(s), base, 64)
	if err != nil || v < 0 {
		return 0, value.Errorf(value.ErrNum, "%q is not a base-%d number", s, base)
	}
	if v >= 1<<(bits-1) {
		v -= 1 << bits
	}
	return v, nil
}

func fromDec(v int64, base int, bits uint, args []value.Value, placesAt int) value.Value {
	lo := -(int64(1) << (bits - 1))
	hi := int64(1)<<(bits-1) - 1
	if v < lo || v > hi {
		return value.NewError(value.ErrNum, "out of range for the target base")
	}
	if v < 0 {
		// negative values occupy the full width, places is ignored
		return value.Text(strings.ToUpper(strconv.FormatInt(v+int64(1)<<bits, base)))
	}
	s := strings.ToUpper(strconv.FormatInt(v, base))
	if !argProvided(args, placesAt) {
		return value.Text(s)
	}
	places, errv := argInt(args, placesAt)
	if errv != nil {
		return errv
	}
	if places < 1 || places > 10 || places < len(s) {
		return value.NewError(value.ErrNum, "places out of range")
	}
	return value.Text(strings.Repeat("0", places-len(s)) + s)
}

func radixConvert(args []value.Value, fromBase int, fromBits uint, toBase int, toBits uint) value.Value {
	s, errv := radixText(args, 0)
	if errv != nil {
		return errv
	}
	v, errv := toDec(s, fromBase, fromBits)
	if errv != nil {
		return errv
	}
	return fromDec(v, toBase, toBits, args, 1)
}

func fnBin2Dec(args []value.Value) value.Value {
	s, errv := radixText(args, 0)
	if errv != nil {
		return errv
	}
	v, errv := toDec(s, 2, binBits)
	if errv != nil {
		return errv
	}
	return value.Number(v)
}

func fnBin2Hex(args []value.Value) value.Value { return radixConvert(args, 2, binBits, 16, hexBits) }
func fnBin2Oct(args []value.Value) value.Value { return radixConvert(args, 2, binBits, 8, octBits) }

func decInput(args []value.Value) (int64, value.Value) {
	n, errv := argNum(args, 0)
	if errv != nil {
		return 0, errv
	}
	return int64(math.Trunc(n)), nil
}

func fnDec2Bin(args []value.Value) value.Value {
	v, errv := decInput(args)
	if errv != nil {
		return errv
	}
	return fromDec(v, 2, binBits, args, 1)
}

func fnDec2Hex(args []value.Value) value.Value {
	v, errv := decInput(args)
	if errv != nil {
		return errv
	}
	return fromDec(v, 16, hexBits, args, 1)
}

func fnDec2Oct(args []value.Value) value.Value {
	v, errv := decInput(args)
	if errv != nil {
		return errv
	}
	return fromDec(v, 8, octBits, args, 1)
}

func fnHex2Bin(args []value.Value) value.Value { return radixConvert(args, 16, hexBits, 2, binBits) }

func fnHex2Dec(args []value.Value) value.Value {
	s, errv := radixText(args, 0)
	if errv != nil {
		return errv
	}
	v, errv := toDec(s, 16, hexBits)
	if errv != nil {
		return errv
	}
	return value.Number(v)
}

func fnHex2Oct(args []value.Value) value.Value { return radixConvert(args, 16, hexBits, 8, octBits) }
func fnOct2Bin(args []value.Value) value.Value { return radixConvert(args, 8, octBits, 2, binBits) }

func fnOct2Dec(args []value.Value) value.Value {
	s, errv := radixText(args, 0)
	if errv != nil {
		return errv
	}
	v, errv := toDec(s, 8, octBits)
	if errv != nil {
		return errv
	}
	return value.Number(v)
}

func fnOct2Hex(args []value.Value) value.Value { return radixConvert(args, 8, octBits, 16, hexBits) }

const bitLimit = 1 << 48

func bitOperand(args []value.Value, i int) (uint64, value.Value) {
	n, errv := argNum(args, i)
	if errv != nil {
		return 0, errv
	}
	if n < 0 || n >= bitLimit || !isIntegral(n) {
		return 0, value.NewError(value.ErrNum, "operand must be a whole number below 2^48")
	}
	return uint64(n), nil
}

func bitwise(f func(a, b uint64) uint64) func(value.Context, []value.Value) value.Value {
	return func(ctx value.Context, args []value.Value) value.Value {
		a, errv := bitOperand(args, 0)
		if errv != nil {
			return errv
		}
		b, errv := bitOperand(args, 1)
		if errv != nil {
			return errv
		}
		return value.Number(f(a, b))
	}
}

func bitShift(args []value.Value, left bool) value.Value {
	n, errv := bitOperand(args, 0)
	if errv != nil {
		return errv
	}
	shift, errv := argInt(args, 1)
	if errv != nil {
		return errv
	}
	if shift > 53 || shift < -53 {
		return value.NewError(value.ErrNum, "shift amount exceeds 53")
	}
	if shift < 0 {
		left = !left
		shift = -shift
	}
	if !left {
		return value.Number(n >> uint(shift))
	}
	out := n << uint(shift)
	if shift > 63 || out>>uint(shift) != n || out >= bitLimit {
		return value.NewError(value.ErrNum, "shifted value out of range")
	}
	return value.Number(out)
}

func fnBitLShift(ctx value.Context, args []value.Value) value.Value { return bitShift(args, true) }
func fnBitRShift(ctx value.Context, args []value.Value) value.Value { return bitShift(args, false) }

func fnDelta(ctx value.Context, args []value.Value) value.Value {
	a, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	b, errv := argNumDefault(args, 1, 0)
	if errv != nil {
		return errv
	}
	if a == b {
		return value.Number(1)
	}
	return value.Number(0)
}

func fnGestep(ctx value.Context, args []value.Value) value.Value {
	n, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	step, errv := argNumDefault(args, 1, 0)
	if errv != nil {
		return errv
	}
	if n >= step {
		return value.Number(1)
	}
	return value.Number(0)
}

func fnErf(ctx value.Context, args []value.Value) value.Value {
	lo, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	if !argProvided(args, 1) {
		return numResult(erfApprox(lo))
	}
	hi, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	return numResult(erfApprox(hi) - erfApprox(lo))
}

func fnErfPrecise(ctx value.Context, args []value.Value) value.Value {
	x, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	return numResult(erfApprox(x))
}

func fnErfc(ctx value.Context, args []value.Value) value.Value {
	x, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	return numResult(1 - erfApprox(x))
}

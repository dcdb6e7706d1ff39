package fn

import (
	"math"

	"github.com/cellmath/formula/value"
)

func registerFinancial(r *Registry) {
	r.Register(Def{Name: "PMT", Category: "financial", MinArgs: 3, MaxArgs: 5,
		Syntax: "PMT(rate, nper, pv, [fv], [type])", Desc: "Periodic payment for an annuity.", Fn: fnPmt})
	r.Register(Def{Name: "FV", Category: "financial", MinArgs: 3, MaxArgs: 5,
		Syntax: "FV(rate, nper, pmt, [pv], [type])", Desc: "Future value of an investment.", Fn: fnFv})
	r.Register(Def{Name: "PV", Category: "financial", MinArgs: 3, MaxArgs: 5,
		Syntax: "PV(rate, nper, pmt, [fv], [type])", Desc: "Present value of an investment.", Fn: fnPv})
	r.Register(Def{Name: "NPER", Category: "financial", MinArgs: 3, MaxArgs: 5,
		Syntax: "NPER(rate, pmt, pv, [fv], [type])", Desc: "Number of periods for an investment.", Fn: fnNper})
	r.Register(Def{Name: "RATE", Category: "financial", MinArgs: 3, MaxArgs: 6,
		Syntax: "RATE(nper, pmt, pv, [fv], [type], [guess])", Desc: "Interest rate per period of an annuity.", Fn: fnRate})
	r.Register(Def{Name: "IPMT", Category: "financial", MinArgs: 4, MaxArgs: 6,
		Syntax: "IPMT(rate, per, nper, pv, [fv], [type])", Desc: "Interest portion of a payment.", Fn: fnIpmt})
	r.Register(Def{Name: "PPMT", Category: "financial", MinArgs: 4, MaxArgs: 6,
		Syntax: "PPMT(rate, per, nper, pv, [fv], [type])", Desc: "Principal portion of a payment.", Fn: fnPpmt})
	r.Register(Def{Name: "CUMIPMT", Category: "financial", MinArgs: 6, MaxArgs: 6,
		Syntax: "CUMIPMT(rate, nper, pv, start_period, end_period, type)", Desc: "Cumulative interest between two periods.", Fn: fnCumIpmt})
	r.Register(Def{Name: "CUMPRINC", Category: "financial", MinArgs: 6, MaxArgs: 6,
		Syntax: "CUMPRINC(rate, nper, pv, start_period, end_period, type)", Desc: "Cumulative principal between two periods.", Fn: fnCumPrinc})
	r.Register(Def{Name: "NPV", Category: "financial", MinArgs: 2, MaxArgs: -1,
		Syntax: "NPV(rate, value1, ...)", Desc: "Net present value of periodic cash flows.", Fn: fnNpv})
	r.Register(Def{Name: "IRR", Category: "financial", MinArgs: 1, MaxArgs: 2,
		Syntax: "IRR(values, [guess])", Desc: "Internal rate of return for periodic cash flows.", Fn: fnIrr})
	r.Register(Def{Name: "XNPV", Category: "financial", MinArgs: 3, MaxArgs: 3,
		Syntax: "XNPV(rate, values, dates)", Desc: "Net present value of dated cash flows.", Fn: fnXnpv})
	r.Register(Def{Name: "XIRR", Category: "financial", MinArgs: 2, MaxArgs: 3,
		Syntax: "XIRR(values, dates, [guess])", Desc: "Internal rate of return for dated cash flows.", Fn: fnXirr})
	r.Register(Def{Name: "MIRR", Category: "financial", MinArgs: 3, MaxArgs: 3,
		Syntax: "MIRR(values, finance_rate, reinvest_rate)", Desc: "Modified internal rate of return.", Fn: fnMirr})
	r.Register(Def{Name: "SLN", Category: "financial", MinArgs: 3, MaxArgs: 3,
		Syntax: "SLN(cost, salvage, life)", Desc: "Straight-line depreciation per period.", Fn: fnSln})
	r.Register(Def{Name: "SYD", Category: "financial", MinArgs: 4, MaxArgs: 4,
		Syntax: "SYD(cost, salvage, life, per)", Desc: "Sum-of-years-digits depreciation for a period.", Fn: fnSyd})
	r.Register(Def{Name: "DB", Category: "financial", MinArgs: 4, MaxArgs: 5,
		Syntax: "DB(cost, salvage, life, period, [month])", Desc: "Fixed-declining-balance depreciation for a period.", Fn: fnDb})
	r.Register(Def{Name: "DDB", Category: "financial", MinArgs: 4, MaxArgs: 5,
		Syntax: "DDB(cost, salvage, life, period, [factor])", Desc: "Double-declining-balance depreciation for a period.", Fn: fnDdb})
	r.Register(Def{Name: "DOLLARDE", Category: "financial", MinArgs: 2, MaxArgs: 2,
		Syntax: "DOLLARDE(fractional_dollar, fraction)", Desc: "Fractional dollar quote to a decimal number.", Fn: fnDollarDe})
	r.Register(Def{Name: "DOLLARFR", Category: "financial", MinArgs: 2, MaxArgs: 2,
		Syntax: "DOLLARFR(decimal_dollar, fraction)", Desc: "Decimal number to a fractional dollar quote.", Fn: fnDollarFr})
	r.Register(Def{Name: "EFFECT", Category: "financial", MinArgs: 2, MaxArgs: 2,
		Syntax: "EFFECT(nominal_rate, npery)", Desc: "Effective annual rate from a nominal rate.", Fn: fnEffect})
	r.Register(Def{Name: "NOMINAL", Category: "financial", MinArgs: 2, MaxArgs: 2,
		Syntax: "NOMINAL(effect_rate, npery)", Desc: "Nominal annual rate from an effective rate.", Fn: fnNominal})
	r.Register(Def{Name: "FVSCHEDULE", Category: "financial", MinArgs: 2, MaxArgs: 2,
		Syntax: "FVSCHEDULE(principal, schedule)", Desc: "Future value under a schedule of rates.", Fn: fnFvSchedule})
	r.Register(Def{Name: "ISPMT", Category: "financial", MinArgs: 4, MaxArgs: 4,
		Syntax: "ISPMT(rate, per, nper, pv)", Desc: "Interest paid in a period of an even-principal loan.", Fn: fnIspmt})
	r.Register(Def{Name: "PDURATION", Category: "financial", MinArgs: 3, MaxArgs: 3,
		Syntax: "PDURATION(rate, pv, fv)", Desc: "Periods for an investment to reach a value.", Fn: fnPduration})
	r.Register(Def{Name: "RRI", Category: "financial", MinArgs: 3, MaxArgs: 3,
		Syntax: "RRI(nper, pv, fv)", Desc: "Equivalent interest rate for growth over nper periods.", Fn: fnRri})
}

// annuityPayment follows the closed form with payments due at period end,
// or start when typ is 1.
func annuityPayment(rate, nper, pv, fv, typ float64) (float64, bool) {
	if nper == 0 {
		return 0, false
	}
	if rate == 0 {
		return -(pv + fv) / nper, true
	}
	c := math.Pow(1+rate, nper)
	return -(fv + pv*c) * rate / ((1 + rate*typ) * (c - 1)), true
}

func futureValue(rate, nper, pmt, pv, typ float64) float64 {
	if rate == 0 {
		return -(pv + pmt*nper)
	}
	c := math.Pow(1+rate, nper)
	return -(pv*c + pmt*(1+rate*typ)*(c-1)/rate)
}

// interestPortion is the interest share of the payment due in period per,
// derived from the balance remaining after per-1 payments.
func interestPortion(rate, per, nper, pv, fv, typ float64) (float64, bool) {
	pmt, ok := annuityPayment(rate, nper, pv, fv, typ)
	if !ok {
		return 0, false
	}
	if typ == 1 && per == 1 {
		return 0, true
	}
	ip := futureValue(rate, per-1, pmt, pv, typ) * rate
	if typ == 1 {
		ip /= 1 + rate
	}
	return ip, true
}

func annuityArgs(args []value.Value, fvAt, typeAt int) (fv, typ float64, errv value.Value) {
	fv, errv = argNumDefault(args, fvAt, 0)
	if errv != nil {
		return 0, 0, errv
	}
	typ, errv = argNumDefault(args, typeAt, 0)
	if errv != nil {
		return 0, 0, errv
	}
	if typ != 0 {
		typ = 1
	}
	return fv, typ, nil
}

func fnPmt(ctx value.Context, args []value.Value) value.Value {
	rate, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	nper, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	pv, errv := argNum(args, 2)
	if errv != nil {
		return errv
	}
	fv, typ, errv := annuityArgs(args, 3, 4)
	if errv != nil {
		return errv
	}
	pmt, ok := annuityPayment(rate, nper, pv, fv, typ)
	if !ok {
		return value.NewError(value.ErrNum, "PMT needs a non-zero period count")
	}
	return numResult(pmt)
}

func fnFv(ctx value.Context, args []value.Value) value.Value {
	rate, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	nper, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	pmt, errv := argNum(args, 2)
	if errv != nil {
		return errv
	}
	pv, typ, errv := annuityArgs(args, 3, 4)
	if errv != nil {
		return errv
	}
	return numResult(futureValue(rate, nper, pmt, pv, typ))
}

func fnPv(ctx value.Context, args []value.Value) value.Value {
	rate, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	nper, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	pmt, errv := argNum(args, 2)
	if errv != nil {
		return errv
	}
	fv, typ, errv := annuityArgs(args, 3, 4)
	if errv != nil {
		return errv
	}
	if rate == 0 {
		return numResult(-(fv + pmt*nper))
	}
	c := math.Pow(1+rate, nper)
	return numResult(-(fv + pmt*(1+rate*typ)*(c-1)/rate) / c)
}

func fnNper(ctx value.Context, args []value.Value) value.Value {
	rate, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	pmt, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	pv, errv := argNum(args, 2)
	if errv != nil {
		return errv
	}
	fv, typ, errv := annuityArgs(args, 3, 4)
	if errv != nil {
		return errv
	}
	if rate == 0 {
		if pmt == 0 {
			return value.NewError(value.ErrNum, "NPER with no payment and no rate")
		}
		return numResult(-(pv + fv) / pmt)
	}
	adj := pmt * (1 + rate*typ)
	ratio := (adj - fv*rate) / (adj + pv*rate)
	if ratio <= 0 {
		return value.NewError(value.ErrNum, "NPER has no solution")
	}
	return numResult(math.Log(ratio) / math.Log(1+rate))
}

// solveRate finds a root by damped Newton iteration, falling back to
// bisection over (-1, 10) when the iteration stalls.
func solveRate(f func(float64) float64, guess float64) (float64, bool) {
	r := guess
	for i := 0; i < 60; i++ {
		y := f(r)
		if math.Abs(y) < 1e-10 {
			return r, true
		}
		h := 1e-6
		dy := (f(r+h) - f(r-h)) / (2 * h)
		if dy == 0 || math.IsNaN(dy) || math.IsInf(dy, 0) {
			break
		}
		next := r - y/dy
		if next <= -1 {
			next = (r - 1) / 2
		}
		if math.Abs(next-r) < 1e-12 {
			return next, true
		}
		r = next
	}
	lo, hi := -0.999999, 10.0
	flo, fhi := f(lo), f(hi)
	if math.IsNaN(flo) || math.IsNaN(fhi) || flo*fhi > 0 {
		return 0, false
	}
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		fm := f(mid)
		if fm == 0 {
			return mid, true
		}
		if flo*fm < 0 {
			hi = mid
		} else {
			lo, flo = mid, fm
		}
	}
	return (lo + hi) / 2, true
}

func fnRate(ctx value.Context, args []value.Value) value.Value {
	nper, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	pmt, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	pv, errv := argNum(args, 2)
	if errv != nil {
		return errv
	}
	fv, typ, errv := annuityArgs(args, 3, 4)
	if errv != nil {
		return errv
	}
	guess, errv := argNumDefault(args, 5, 0.1)
	if errv != nil {
		return errv
	}
	if nper <= 0 {
		return value.NewError(value.ErrNum, "RATE needs a positive period count")
	}
	f := func(r float64) float64 {
		if r == 0 {
			return pv + pmt*nper + fv
		}
		c := math.Pow(1+r, nper)
		return pv*c + pmt*(1+r*typ)*(c-1)/r + fv
	}
	r, ok := solveRate(f, guess)
	if !ok {
		return value.NewError(value.ErrNum, "RATE did not converge")
	}
	return numResult(r)
}

func fnIpmt(ctx value.Context, args []value.Value) value.Value {
	rate, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	per, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	nper, errv := argNum(args, 2)
	if errv != nil {
		return errv
	}
	pv, errv := argNum(args, 3)
	if errv != nil {
		return errv
	}
	fv, typ, errv := annuityArgs(args, 4, 5)
	if errv != nil {
		return errv
	}
	if per < 1 || per > nper {
		return value.NewError(value.ErrNum, "period out of range")
	}
	ip, ok := interestPortion(rate, per, nper, pv, fv, typ)
	if !ok {
		return value.NewError(value.ErrNum, "IPMT needs a non-zero period count")
	}
	return numResult(ip)
}

func fnPpmt(ctx value.Context, args []value.Value) value.Value {
	rate, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	per, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	nper, errv := argNum(args, 2)
	if errv != nil {
		return errv
	}
	pv, errv := argNum(args, 3)
	if errv != nil {
		return errv
	}
	fv, typ, errv := annuityArgs(args, 4, 5)
	if errv != nil {
		return errv
	}
	if per < 1 || per > nper {
		return value.NewError(value.ErrNum, "period out of range")
	}
	pmt, ok := annuityPayment(rate, nper, pv, fv, typ)
	if !ok {
		return value.NewError(value.ErrNum, "PPMT needs a non-zero period count")
	}
	ip, _ := interestPortion(rate, per, nper, pv, fv, typ)
	return numResult(pmt - ip)
}

func cumulative(args []value.Value, principal bool) value.Value {
	rate, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	nper, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	pv, errv := argNum(args, 2)
	if errv != nil {
		return errv
	}
	start, errv := argNum(args, 3)
	if errv != nil {
		return errv
	}
	end, errv := argNum(args, 4)
	if errv != nil {
		return errv
	}
	typ, errv := argNum(args, 5)
	if errv != nil {
		return errv
	}
	if typ != 0 {
		typ = 1
	}
	start, end = math.Trunc(start), math.Trunc(end)
	if rate <= 0 || nper <= 0 || pv <= 0 || start < 1 || end < start || end > nper {
		return value.NewError(value.ErrNum, "cumulative arguments out of range")
	}
	pmt, _ := annuityPayment(rate, nper, pv, 0, typ)
	total := 0.0
	for per := start; per <= end; per++ {
		ip, _ := interestPortion(rate, per, nper, pv, 0, typ)
		if principal {
			total += pmt - ip
		} else {
			total += ip
		}
	}
	return numResult(total)
}

func fnCumIpmt(ctx value.Context, args []value.Value) value.Value {
	return cumulative(args, false)
}

func fnCumPrinc(ctx value.Context, args []value.Value) value.Value {
	return cumulative(args, true)
}

func fnNpv(ctx value.Context, args []value.Value) value.Value {
	rate, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	if rate == -1 {
		return value.NewError(value.ErrDiv0, "NPV rate of -100%")
	}
	flows, errv := collectNumbers(args[1:])
	if errv != nil {
		return errv
	}
	total := 0.0
	for i, v := range flows {
		total += v / math.Pow(1+rate, float64(i+1))
	}
	return numResult(total)
}

func cashFlows(arg value.Value) ([]float64, value.Value) {
	flows, errv := collectNumbers([]value.Value{arg})
	if errv != nil {
		return nil, errv
	}
	if len(flows) < 2 {
		return nil, value.NewError(value.ErrNum, "need at least two cash flows")
	}
	pos, neg := false, false
	for _, v := range flows {
		if v > 0 {
			pos = true
		}
		if v < 0 {
			neg = true
		}
	}
	if !pos || !neg {
		return nil, value.NewError(value.ErrNum, "cash flows never change sign")
	}
	return flows, nil
}

func fnIrr(ctx value.Context, args []value.Value) value.Value {
	flows, errv := cashFlows(args[0])
	if errv != nil {
		return errv
	}
	guess, errv := argNumDefault(args, 1, 0.1)
	if errv != nil {
		return errv
	}
	f := func(r float64) float64 {
		total := 0.0
		for i, v := range flows {
			total += v / math.Pow(1+r, float64(i))
		}
		return total
	}
	r, ok := solveRate(f, guess)
	if !ok {
		return value.NewError(value.ErrNum, "IRR did not converge")
	}
	return numResult(r)
}

// datedFlows pairs cash flows with day offsets from the first date.
func datedFlows(valuesArg, datesArg value.Value) (flows, offsets []float64, errv value.Value) {
	flows, errv = collectNumbers([]value.Value{valuesArg})
	if errv != nil {
		return nil, nil, errv
	}
	dates, errv := collectNumbers([]value.Value{datesArg})
	if errv != nil {
		return nil, nil, errv
	}
	if len(flows) != len(dates) || len(flows) == 0 {
		return nil, nil, value.NewError(value.ErrNum, "values and dates differ in length")
	}
	offsets = make([]float64, len(dates))
	for i, d := range dates {
		if d < dates[0] {
			return nil, nil, value.NewError(value.ErrNum, "dates precede the first date")
		}
		offsets[i] = math.Trunc(d) - math.Trunc(dates[0])
	}
	return flows, offsets, nil
}

func xnpvAt(rate float64, flows, offsets []float64) float64 {
	total := 0.0
	for i, v := range flows {
		total += v / math.Pow(1+rate, offsets[i]/365)
	}
	return total
}

func fnXnpv(ctx value.Context, args []value.Value) value.Value {
	rate, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	if rate <= -1 {
		return value.NewError(value.ErrNum, "XNPV rate must exceed -100%")
	}
	flows, offsets, errv := datedFlows(args[1], args[2])
	if errv != nil {
		return errv
	}
	return numResult(xnpvAt(rate, flows, offsets))
}

func fnXirr(ctx value.Context, args []value.Value) value.Value {
	flows, offsets, errv := datedFlows(args[0], args[1])
	if errv != nil {
		return errv
	}
	guess, errv := argNumDefault(args, 2, 0.1)
	if errv != nil {
		return errv
	}
	pos, neg := false, false
	for _, v := range flows {
		if v > 0 {
			pos = true
		}
		if v < 0 {
			neg = true
		}
	}
	if !pos || !neg {
		return value.NewError(value.ErrNum, "cash flows never change sign")
	}
	r, ok := solveRate(func(r float64) float64 { return xnpvAt(r, flows, offsets) }, guess)
	if !ok {
		return value.NewError(value.ErrNum, "XIRR did not converge")
	}
	return numResult(r)
}

func fnMirr(ctx value.Context, args []value.Value) value.Value {
	flows, errv := collectNumbers(args[:1])
	if errv != nil {
		return errv
	}
	frate, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	rrate, errv := argNum(args, 2)
	if errv != nil {
		return errv
	}
	n := float64(len(flows))
	if n < 2 {
		return value.NewError(value.ErrDiv0, "need at least two cash flows")
	}
	var npvPos, npvNeg float64
	for i, v := range flows {
		if v > 0 {
			npvPos += v / math.Pow(1+rrate, float64(i))
		} else {
			npvNeg += v / math.Pow(1+frate, float64(i))
		}
	}
	if npvPos == 0 || npvNeg == 0 {
		return value.NewError(value.ErrDiv0, "cash flows never change sign")
	}
	ratio := -npvPos * math.Pow(1+rrate, n) / (npvNeg * (1 + frate))
	return numResult(math.Pow(ratio, 1/(n-1)) - 1)
}

func fnSln(ctx value.Context, args []value.Value) value.Value {
	cost, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	salvage, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	life, errv := argNum(args, 2)
	if errv != nil {
		return errv
	}
	if life == 0 {
		return value.NewError(value.ErrDiv0, "SLN life of zero")
	}
	return numResult((cost - salvage) / life)
}

func fnSyd(ctx value.Context, args []value.Value) value.Value {
	cost, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	salvage, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	life, errv := argNum(args, 2)
	if errv != nil {
		return errv
	}
	per, errv := argNum(args, 3)
	if errv != nil {
		return errv
	}
	if life <= 0 || per < 1 || per > life {
		return value.NewError(value.ErrNum, "SYD period out of range")
	}
	return numResult((cost - salvage) * (life - per + 1) * 2 / (life * (life + 1)))
}

func fnDb(ctx value.Context, args []value.Value) value.Value {
	cost, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	salvage, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	life, errv := argNum(args, 2)
	if errv != nil {
		return errv
	}
	period, errv := argNum(args, 3)
	if errv != nil {
		return errv
	}
	month, errv := argNumDefault(args, 4, 12)
	if errv != nil {
		return errv
	}
	period, month = math.Trunc(period), math.Trunc(month)
	if cost <= 0 || salvage < 0 || life <= 0 || period < 1 || month < 1 || month > 12 || period > life+1 {
		return value.NewError(value.ErrNum, "DB arguments out of range")
	}
	rate := math.Round((1-math.Pow(salvage/cost, 1/life))*1000) / 1000
	dep := cost * rate * month / 12
	total := dep
	for per := 2.0; per <= period; per++ {
		if per == life+1 {
			dep = (cost - total) * rate * (12 - month) / 12
		} else {
			dep = (cost - total) * rate
		}
		total += dep
	}
	return numResult(dep)
}

func fnDdb(ctx value.Context, args []value.Value) value.Value {
	cost, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	salvage, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	life, errv := argNum(args, 2)
	if errv != nil {
		return errv
	}
	period, errv := argNum(args, 3)
	if errv != nil {
		return errv
	}
	factor, errv := argNumDefault(args, 4, 2)
	if errv != nil {
		return errv
	}
	period = math.Trunc(period)
	if cost < 0 || salvage < 0 || life <= 0 || period < 1 || period > life || factor <= 0 {
		return value.NewError(value.ErrNum, "DDB arguments out of range")
	}
	balance, dep := cost, 0.0
	for per := 1.0; per <= period; per++ {
		dep = balance * factor / life
		if dep > balance-salvage {
			dep = balance - salvage
		}
		if dep < 0 {
			dep = 0
		}
		balance -= dep
	}
	return numResult(dep)
}

func fractionDigits(f float64) float64 {
	return math.Ceil(math.Log10(f))
}

func fnDollarDe(ctx value.Context, args []value.Value) value.Value {
	d, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	f, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	f = math.Trunc(f)
	if f < 0 {
		return value.NewError(value.ErrNum, "fraction must not be negative")
	}
	if f == 0 {
		return value.NewError(value.ErrDiv0, "fraction of zero")
	}
	whole := math.Trunc(d)
	return numResult(whole + (d-whole)*math.Pow(10, fractionDigits(f))/f)
}

func fnDollarFr(ctx value.Context, args []value.Value) value.Value {
	d, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	f, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	f = math.Trunc(f)
	if f < 0 {
		return value.NewError(value.ErrNum, "fraction must not be negative")
	}
	if f == 0 {
		return value.NewError(value.ErrDiv0, "fraction of zero")
	}
	whole := math.Trunc(d)
	return numResult(whole + (d-whole)*f/math.Pow(10, fractionDigits(f)))
}

func fnEffect(ctx value.Context, args []value.Value) value.Value {
	nominal, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	npery, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	npery = math.Trunc(npery)
	if nominal <= 0 || npery < 1 {
		return value.NewError(value.ErrNum, "EFFECT arguments out of range")
	}
	return numResult(math.Pow(1+nominal/npery, npery) - 1)
}

func fnNominal(ctx value.Context, args []value.Value) value.Value {
	effect, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	npery, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	npery = math.Trunc(npery)
	if effect <= 0 || npery < 1 {
		return value.NewError(value.ErrNum, "NOMINAL arguments out of range")
	}
	return numResult(npery * (math.Pow(1+effect, 1/npery) - 1))
}

func fnFvSchedule(ctx value.Context, args []value.Value) value.Value {
	principal, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	out := principal
	for s := range value.Walk(args[1]) {
		switch v := s.(type) {
		case value.Number:
			out *= 1 + float64(v)
		case value.Error:
			return v
		case value.Empty:
			// blank entries leave the balance alone
		default:
			return value.NewError(value.ErrValue, "schedule entries must be numbers")
		}
	}
	return numResult(out)
}

func fnIspmt(ctx value.Context, args []value.Value) value.Value {
	rate, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	per, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	nper, errv := argNum(args, 2)
	if errv != nil {
		return errv
	}
	pv, errv := argNum(args, 3)
	if errv != nil {
		return errv
	}
	if nper == 0 {
		return value.NewError(value.ErrDiv0, "ISPMT period count of zero")
	}
	return numResult(-pv * rate * (1 - per/nper))
}

func fnPduration(ctx value.Context, args []value.Value) value.Value {
	rate, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	pv, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	fv, errv := argNum(args, 2)
	if errv != nil {
		return errv
	}
	if rate <= 0 || pv <= 0 || fv <= 0 {
		return value.NewError(value.ErrNum, "PDURATION arguments must be positive")
	}
	return numResult((math.Log(fv) - math.Log(pv)) / math.Log(1+rate))
}

func fnRri(ctx value.Context, args []value.Value) value.Value {
	nper, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	pv, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	fv, errv := argNum(args, 2)
	if errv != nil {
		return errv
	}
	if nper <= 0 || pv == 0 {
		return value.NewError(value.ErrNum, "RRI arguments out of range")
	}
	return numResult(math.Pow(fv/pv, 1/nper) - 1)
}

package fn

import (
	"math"
	"strings"
	"time"

	"github.com/cellmath/formula/value"
)

func registerDateTime(r *Registry) {
	r.Register(Def{Name: "DATE", Category: "datetime", MinArgs: 3, MaxArgs: 3,
		Syntax: "DATE(year, month, day)", Desc: "Serial number of a date.", Fn: fnDate})
	r.Register(Def{Name: "TIME", Category: "datetime", MinArgs: 3, MaxArgs: 3,
		Syntax: "TIME(hour, minute, second)", Desc: "Day fraction of a time of day.", Fn: fnTime})
	r.Register(Def{Name: "NOW", Category: "datetime", MinArgs: 0, MaxArgs: 0, Volatile: true,
		Syntax: "NOW()", Desc: "Serial number of the current date and time.", Fn: fnNow})
	r.Register(Def{Name: "TODAY", Category: "datetime", MinArgs: 0, MaxArgs: 0, Volatile: true,
		Syntax: "TODAY()", Desc: "Serial number of the current date.", Fn: fnToday})
	r.Register(Def{Name: "DATEVALUE", Category: "datetime", MinArgs: 1, MaxArgs: 1,
		Syntax: "DATEVALUE(date_text)", Desc: "Serial number of a date written as text.", Fn: fnDateValue})
	r.Register(Def{Name: "TIMEVALUE", Category: "datetime", MinArgs: 1, MaxArgs: 1,
		Syntax: "TIMEVALUE(time_text)", Desc: "Day fraction of a time written as text.", Fn: fnTimeValue})
	r.Register(Def{Name: "DAY", Category: "datetime", MinArgs: 1, MaxArgs: 1,
		Syntax: "DAY(serial_number)", Desc: "Day of the month, 1 to 31.", Fn: datePart(func(t time.Time) int { return t.Day() })})
	r.Register(Def{Name: "MONTH", Category: "datetime", MinArgs: 1, MaxArgs: 1,
		Syntax: "MONTH(serial_number)", Desc: "Month of the year, 1 to 12.", Fn: datePart(func(t time.Time) int { return int(t.Month()) })})
	r.Register(Def{Name: "YEAR", Category: "datetime", MinArgs: 1, MaxArgs: 1,
		Syntax: "YEAR(serial_number)", Desc: "Year of a date.", Fn: datePart(func(t time.Time) int { return t.Year() })})
	r.Register(Def{Name: "HOUR", Category: "datetime", MinArgs: 1, MaxArgs: 1,
		Syntax: "HOUR(serial_number)", Desc: "Hour of a time, 0 to 23.", Fn: datePart(func(t time.Time) int { return t.Hour() })})
	r.Register(Def{Name: "MINUTE", Category: "datetime", MinArgs: 1, MaxArgs: 1,
		Syntax: "MINUTE(serial_number)", Desc: "Minute of a time, 0 to 59.", Fn: datePart(func(t time.Time) int { return t.Minute() })})
	r.Register(Def{Name: "SECOND", Category: "datetime", MinArgs: 1, MaxArgs: 1,
		Syntax: "SECOND(serial_number)", Desc: "Second of a time, 0 to 59.", Fn: datePart(func(t time.Time) int { return t.Second() })})
	r.Register(Def{Name: "DAYS", Category: "datetime", MinArgs: 2, MaxArgs: 2,
		Syntax: "DAYS(end_date, start_date)", Desc: "Days between two dates.", Fn: fnDays})
	r.Register(Def{Name: "DAYS360", Category: "datetime", MinArgs: 2, MaxArgs: 3,
		Syntax: "DAYS360(start_date, end_date, [method])", Desc: "Days between two dates on a 360-day year.", Fn: fnDays360})
	r.Register(Def{Name: "EDATE", Category: "datetime", MinArgs: 2, MaxArgs: 2,
		Syntax: "EDATE(start_date, months)", Desc: "Date a number of months away.", Fn: fnEdate})
	r.Register(Def{Name: "EOMONTH", Category: "datetime", MinArgs: 2, MaxArgs: 2,
		Syntax: "EOMONTH(start_date, months)", Desc: "Last day of the month a number of months away.", Fn: fnEomonth})
	r.Register(Def{Name: "WEEKDAY", Category: "datetime", MinArgs: 1, MaxArgs: 2,
		Syntax: "WEEKDAY(serial_number, [return_type])", Desc: "Day of the week as a number.", Fn: fnWeekday})
	r.Register(Def{Name: "WEEKNUM", Category: "datetime", MinArgs: 1, MaxArgs: 2,
		Syntax: "WEEKNUM(serial_number, [return_type])", Desc: "Week of the year containing a date.", Fn: fnWeeknum})
	r.Register(Def{Name: "ISOWEEKNUM", Category: "datetime", MinArgs: 1, MaxArgs: 1,
		Syntax: "ISOWEEKNUM(date)", Desc: "ISO 8601 week number of a date.", Fn: fnIsoWeekNum})
	r.Register(Def{Name: "DATEDIF", Category: "datetime", MinArgs: 3, MaxArgs: 3,
		Syntax: "DATEDIF(start_date, end_date, unit)", Desc: "Difference between two dates in a chosen unit.", Fn: fnDateDif})
	r.Register(Def{Name: "NETWORKDAYS", Category: "datetime", MinArgs: 2, MaxArgs: 3,
		Syntax: "NETWORKDAYS(start_date, end_date, [holidays])", Desc: "Working days between two dates, inclusive.", Fn: fnNetworkDays})
	r.Register(Def{Name: "WORKDAY", Category: "datetime", MinArgs: 2, MaxArgs: 3,
		Syntax: "WORKDAY(start_date, days, [holidays])", Desc: "Date a number of working days away.", Fn: fnWorkday})
	r.Register(Def{Name: "YEARFRAC", Category: "datetime", MinArgs: 2, MaxArgs: 3,
		Syntax: "YEARFRAC(start_date, end_date, [basis])", Desc: "Fraction of a year between two dates.", Fn: fnYearFrac})
}

// argSerial coerces an argument to a date-time serial. Text that is not a
// plain number may spell a date or a time of day.
func argSerial(args []value.Value, i int) (float64, value.Value) {
	s := scalarArg(args, i)
	if e, ok := s.(value.Error); ok {
		return 0, e
	}
	if t, ok := s.(value.Text); ok {
		raw := strings.TrimSpace(string(t))
		if n, ok := value.ParseNumber(raw); ok {
			return n, nil
		}
		if tm, ok := parseDateText(raw); ok {
			return timeSerial(tm), nil
		}
		if frac, ok := parseTimeText(raw); ok {
			return frac, nil
		}
		return 0, value.Errorf(value.ErrValue, "%q is not a date", raw)
	}
	n, ok := value.ToNumber(s)
	if !ok {
		return 0, value.Errorf(value.ErrValue, "%s is not a date", s.String())
	}
	if n < 0 {
		return 0, value.NewError(value.ErrNum, "serial numbers are not negative")
	}
	return n, nil
}

func datePart(part func(time.Time) int) func(value.Context, []value.Value) value.Value {
	return func(ctx value.Context, args []value.Value) value.Value {
		serial, errv := argSerial(args, 0)
		if errv != nil {
			return errv
		}
		if serial < 0 {
			return value.NewError(value.ErrNum, "serial numbers are not negative")
		}
		return value.Number(part(serialTime(serial)))
	}
}

func fnDate(ctx value.Context, args []value.Value) value.Value {
	y, errv := argInt(args, 0)
	if errv != nil {
		return errv
	}
	m, errv := argInt(args, 1)
	if errv != nil {
		return errv
	}
	d, errv := argInt(args, 2)
	if errv != nil {
		return errv
	}
	serial, ok := dateSerial(y, m, d)
	if !ok {
		return value.NewError(value.ErrNum, "date out of range")
	}
	return value.Number(serial)
}

func fnTime(ctx value.Context, args []value.Value) value.Value {
	h, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	m, errv := argNum(args, 1)
	if errv != nil {
		return errv
	}
	s, errv := argNum(args, 2)
	if errv != nil {
		return errv
	}
	frac, ok := timeFraction(int(h), int(m), int(s))
	if !ok {
		return value.NewError(value.ErrNum, "time components are not negative")
	}
	return value.Number(frac)
}

func fnNow(ctx value.Context, args []value.Value) value.Value {
	return value.Number(timeSerial(ctx.Now()))
}

func fnToday(ctx value.Context, args []value.Value) value.Value {
	return value.Number(math.Floor(timeSerial(ctx.Now())))
}

func fnDateValue(ctx value.Context, args []value.Value) value.Value {
	raw, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	t, ok := parseDateText(strings.TrimSpace(raw))
	if !ok {
		return value.Errorf(value.ErrValue, "%q is not a date", raw)
	}
	return value.Number(math.Floor(timeSerial(t)))
}

func fnTimeValue(ctx value.Context, args []value.Value) value.Value {
	raw, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	frac, ok := parseTimeText(strings.TrimSpace(raw))
	if !ok {
		return value.Errorf(value.ErrValue, "%q is not a time", raw)
	}
	return value.Number(frac)
}

func fnDays(ctx value.Context, args []value.Value) value.Value {
	end, errv := argSerial(args, 0)
	if errv != nil {
		return errv
	}
	start, errv := argSerial(args, 1)
	if errv != nil {
		return errv
	}
	return value.Number(math.Trunc(end) - math.Trunc(start))
}

func lastDayOfFebruary(t time.Time) bool {
	return t.Month() == time.February && t.AddDate(0, 0, 1).Month() == time.March
}

func days360Between(start, end time.Time, european bool) float64 {
	d1, d2 := start.Day(), end.Day()
	if european {
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 {
			d2 = 30
		}
	} else {
		if lastDayOfFebruary(start) && lastDayOfFebruary(end) {
			d2 = 30
		}
		if d1 == 31 || lastDayOfFebruary(start) {
			d1 = 30
		}
		if d2 == 31 && d1 == 30 {
			d2 = 30
		}
	}
	years := end.Year() - start.Year()
	months := int(end.Month()) - int(start.Month())
	return float64(years*360 + months*30 + d2 - d1)
}

func fnDays360(ctx value.Context, args []value.Value) value.Value {
	start, errv := argSerial(args, 0)
	if errv != nil {
		return errv
	}
	end, errv := argSerial(args, 1)
	if errv != nil {
		return errv
	}
	european, errv := argBoolDefault(args, 2, false)
	if errv != nil {
		return errv
	}
	return value.Number(days360Between(serialTime(math.Trunc(start)), serialTime(math.Trunc(end)), european))
}

func fnEdate(ctx value.Context, args []value.Value) value.Value {
	start, errv := argSerial(args, 0)
	if errv != nil {
		return errv
	}
	months, errv := argInt(args, 1)
	if errv != nil {
		return errv
	}
	t := addMonths(serialTime(math.Trunc(start)), months)
	if t.Year() < 1900 || t.Year() > 9999 {
		return value.NewError(value.ErrNum, "date out of range")
	}
	return value.Number(timeSerial(t))
}

func fnEomonth(ctx value.Context, args []value.Value) value.Value {
	start, errv := argSerial(args, 0)
	if errv != nil {
		return errv
	}
	months, errv := argInt(args, 1)
	if errv != nil {
		return errv
	}
	t := addMonths(serialTime(math.Trunc(start)), months)
	eom := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	if eom.Year() < 1900 || eom.Year() > 9999 {
		return value.NewError(value.ErrNum, "date out of range")
	}
	return value.Number(timeSerial(eom))
}

// weekStart maps a WEEKDAY or WEEKNUM return type to the weekday a week
// begins on. ISO numbering is handled separately.
func weekStart(returnType int) (time.Weekday, bool) {
	switch returnType {
	case 1, 17:
		return time.Sunday, true
	case 2, 11:
		return time.Monday, true
	case 12:
		return time.Tuesday, true
	case 13:
		return time.Wednesday, true
	case 14:
		return time.Thursday, true
	case 15:
		return time.Friday, true
	case 16:
		return time.Saturday, true
	}
	return 0, false
}

func fnWeekday(ctx value.Context, args []value.Value) value.Value {
	serial, errv := argSerial(args, 0)
	if errv != nil {
		return errv
	}
	returnType, errv := argIntDefault(args, 1, 1)
	if errv != nil {
		return errv
	}
	wd := serialTime(math.Trunc(serial)).Weekday()
	if returnType == 3 {
		return value.Number((int(wd) + 6) % 7)
	}
	start, ok := weekStart(returnType)
	if !ok {
		return value.NewError(value.ErrNum, "unknown return type")
	}
	return value.Number((int(wd)-int(start)+7)%7 + 1)
}

func fnWeeknum(ctx value.Context, args []value.Value) value.Value {
	serial, errv := argSerial(args, 0)
	if errv != nil {
		return errv
	}
	returnType, errv := argIntDefault(args, 1, 1)
	if errv != nil {
		return errv
	}
	t := serialTime(math.Trunc(serial))
	if returnType == 21 {
		_, week := t.ISOWeek()
		return value.Number(week)
	}
	start, ok := weekStart(returnType)
	if !ok {
		return value.NewError(value.ErrNum, "unknown return type")
	}
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(jan1.Weekday()) - int(start) + 7) % 7
	return value.Number((t.YearDay()-1+offset)/7 + 1)
}

func fnIsoWeekNum(ctx value.Context, args []value.Value) value.Value {
	serial, errv := argSerial(args, 0)
	if errv != nil {
		return errv
	}
	_, week := serialTime(math.Trunc(serial)).ISOWeek()
	return value.Number(week)
}

func fnDateDif(ctx value.Context, args []value.Value) value.Value {
	start, errv := argSerial(args, 0)
	if errv != nil {
		return errv
	}
	end, errv := argSerial(args, 1)
	if errv != nil {
		return errv
	}
	unit, errv := argText(args, 2)
	if errv != nil {
		return errv
	}
	if start > end {
		return value.NewError(value.ErrNum, "start date after end date")
	}
	s, e := serialTime(math.Trunc(start)), serialTime(math.Trunc(end))
	y1, m1, d1 := s.Date()
	y2, m2, d2 := e.Date()
	switch strings.ToUpper(strings.TrimSpace(unit)) {
	case "D":
		return value.Number(math.Trunc(end) - math.Trunc(start))
	case "Y":
		years := y2 - y1
		if m2 < m1 || (m2 == m1 && d2 < d1) {
			years--
		}
		return value.Number(years)
	case "M":
		months := (y2-y1)*12 + int(m2) - int(m1)
		if d2 < d1 {
			months--
		}
		return value.Number(months)
	case "YM":
		months := (int(m2) - int(m1) + 12) % 12
		if d2 < d1 {
			months = (months + 11) % 12
		}
		return value.Number(months)
	case "MD":
		if d2 >= d1 {
			return value.Number(d2 - d1)
		}
		prevEnd := time.Date(y2, m2, 0, 0, 0, 0, 0, time.UTC).Day()
		return value.Number(d2 + prevEnd - d1)
	case "YD":
		anchor := time.Date(y2, m1, d1, 0, 0, 0, 0, time.UTC)
		if anchor.After(e) {
			anchor = time.Date(y2-1, m1, d1, 0, 0, 0, 0, time.UTC)
		}
		return value.Number(int(e.Sub(anchor).Hours() / 24))
	}
	return value.NewError(value.ErrNum, "unknown DATEDIF unit")
}

func holidaySet(args []value.Value, i int) (map[int64]bool, value.Value) {
	if !argProvided(args, i) {
		return nil, nil
	}
	nums, errv := collectNumbers(args[i : i+1])
	if errv != nil {
		return nil, errv
	}
	set := make(map[int64]bool, len(nums))
	for _, n := range nums {
		set[int64(math.Trunc(n))] = true
	}
	return set, nil
}

func isWeekend(serial int64) bool {
	wd := serialTime(float64(serial)).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func fnNetworkDays(ctx value.Context, args []value.Value) value.Value {
	start, errv := argSerial(args, 0)
	if errv != nil {
		return errv
	}
	end, errv := argSerial(args, 1)
	if errv != nil {
		return errv
	}
	holidays, errv := holidaySet(args, 2)
	if errv != nil {
		return errv
	}
	d0, d1 := int64(math.Trunc(start)), int64(math.Trunc(end))
	sign := int64(1)
	if d0 > d1 {
		d0, d1 = d1, d0
		sign = -1
	}
	fullWeeks := (d1 - d0 + 1) / 7
	count := fullWeeks * 5
	for d := d0 + fullWeeks*7; d <= d1; d++ {
		if !isWeekend(d) {
			count++
		}
	}
	for h := range holidays {
		if h >= d0 && h <= d1 && !isWeekend(h) {
			count--
		}
	}
	return value.Number(sign * count)
}

func fnWorkday(ctx value.Context, args []value.Value) value.Value {
	start, errv := argSerial(args, 0)
	if errv != nil {
		return errv
	}
	days, errv := argInt(args, 1)
	if errv != nil {
		return errv
	}
	holidays, errv := holidaySet(args, 2)
	if errv != nil {
		return errv
	}
	cur := int64(math.Trunc(start))
	step := int64(1)
	if days < 0 {
		step = -1
		days = -days
	}
	for days > 0 {
		cur += step
		if cur < 1 {
			return value.NewError(value.ErrNum, "date out of range")
		}
		if isWeekend(cur) || holidays[cur] {
			continue
		}
		days--
	}
	return value.Number(cur)
}

func fnYearFrac(ctx value.Context, args []value.Value) value.Value {
	start, errv := argSerial(args, 0)
	if errv != nil {
		return errv
	}
	end, errv := argSerial(args, 1)
	if errv != nil {
		return errv
	}
	basis, errv := argIntDefault(args, 2, 0)
	if errv != nil {
		return errv
	}
	if start > end {
		start, end = end, start
	}
	s, e := serialTime(math.Trunc(start)), serialTime(math.Trunc(end))
	actual := math.Trunc(end) - math.Trunc(start)
	switch basis {
	case 0:
		return numResult(days360Between(s, e, false) / 360)
	case 1:
		total, years := 0.0, 0.0
		for y := s.Year(); y <= e.Year(); y++ {
			total += float64(time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay())
			years++
		}
		return numResult(actual / (total / years))
	case 2:
		return numResult(actual / 360)
	case 3:
		return numResult(actual / 365)
	case 4:
		return numResult(days360Between(s, e, true) / 360)
	}
	return value.NewError(value.ErrNum, "unknown basis")
}

package value

import "strings"

// ToNumber converts a scalar to a number using operator coercion rules:
// booleans become 1/0, numeric text parses, blanks are 0. ok is false for
// non-numeric text, errors, arrays, and lambdas.
func ToNumber(v Value) (float64, bool) {
	switch t := v.(type) {
	case Number:
		return float64(t), true
	case Boolean:
		if t {
			return 1, true
		}
		return 0, true
	case Text:
		return ParseNumber(string(t))
	case Empty:
		return 0, true
	default:
		return 0, false
	}
}

// ToText converts a value to its text form. errors render as their token,
// blanks as "".
func ToText(v Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}

// ToBool converts a scalar to a logical value: booleans pass through,
// numbers are zero/non-zero, the literal words TRUE/FALSE parse case
// insensitively, blanks are FALSE. other text has no logical form.
func ToBool(v Value) (bool, bool) {
	switch t := v.(type) {
	case Boolean:
		return bool(t), true
	case Number:
		return t != 0, true
	case Empty:
		return false, true
	case Text:
		switch strings.ToUpper(strings.TrimSpace(string(t))) {
		case "TRUE":
			return true, true
		case "FALSE":
			return false, true
		}
		return false, false
	default:
		return false, false
	}
}

// IsBlank reports whether the value is an empty cell.
func IsBlank(v Value) bool {
	_, ok := v.(Empty)
	return ok
}

// Compare orders two scalars: -1, 0, or 1. mixed types follow spreadsheet
// sort order (numbers < text < booleans), text compares case-insensitively,
// and blanks coerce to the zero of the other side's type. errors are not
// ordered; callers propagate them before comparing.
func Compare(a, b Scalar) int {
	// blanks take the other operand's zero value
	if _, ok := a.(Empty); ok {
		a = zeroFor(b)
	}
	if _, ok := b.(Empty); ok {
		b = zeroFor(a)
	}

	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch av := a.(type) {
	case Number:
		bv := b.(Number)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case Text:
		as := strings.ToUpper(string(av))
		bs := strings.ToUpper(string(b.(Text)))
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		}
		return 0
	case Boolean:
		bv := b.(Boolean)
		if av == bv {
			return 0
		}
		if !av {
			return -1
		}
		return 1
	}
	return 0
}

// Equal reports whether two scalars compare equal under operator rules
// (case-insensitive for text).
func Equal(a, b Scalar) bool {
	return Compare(a, b) == 0
}

func typeRank(v Scalar) int {
	switch v.(type) {
	case Number:
		return 0
	case Text:
		return 1
	case Boolean:
		return 2
	default:
		return 3
	}
}

func zeroFor(v Scalar) Scalar {
	switch v.(type) {
	case Text:
		return Text("")
	case Boolean:
		return Boolean(false)
	default:
		return Number(0)
	}
}

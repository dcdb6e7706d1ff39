package fn

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/cellmath/formula/value"
)

func registerText(r *Registry) {
	r.Register(Def{Name: "CHAR", Category: "text", MinArgs: 1, MaxArgs: 1,
		Syntax: "CHAR(number)", Desc: "Character for a code point from 1 to 255.", Fn: fnChar})
	r.Register(Def{Name: "CODE", Category: "text", MinArgs: 1, MaxArgs: 1,
		Syntax: "CODE(text)", Desc: "Code point of the first character.", Fn: fnCode})
	r.Register(Def{Name: "UNICHAR", Category: "text", MinArgs: 1, MaxArgs: 1,
		Syntax: "UNICHAR(number)", Desc: "Character for a Unicode code point.", Fn: fnUnichar})
	r.Register(Def{Name: "UNICODE", Category: "text", MinArgs: 1, MaxArgs: 1,
		Syntax: "UNICODE(text)", Desc: "Unicode code point of the first character.", Fn: fnUnicode})
	r.Register(Def{Name: "CLEAN", Category: "text", MinArgs: 1, MaxArgs: 1,
		Syntax: "CLEAN(text)", Desc: "Strips non-printable control characters.", Fn: fnClean})
	r.Register(Def{Name: "TRIM", Category: "text", MinArgs: 1, MaxArgs: 1,
		Syntax: "TRIM(text)", Desc: "Collapses runs of spaces and trims the ends.", Fn: fnTrim})
	r.Register(Def{Name: "CONCAT", Category: "text", MinArgs: 1, MaxArgs: -1,
		Syntax: "CONCAT(text1, ...)", Desc: "Concatenates values and array contents.", Fn: fnConcat})
	r.Register(Def{Name: "CONCATENATE", Category: "text", MinArgs: 1, MaxArgs: -1,
		Syntax: "CONCATENATE(text1, ...)", Desc: "Concatenates values.", Fn: fnConcat})
	r.Register(Def{Name: "EXACT", Category: "text", MinArgs: 2, MaxArgs: 2,
		Syntax: "EXACT(text1, text2)", Desc: "Case-sensitive equality of two strings.", Fn: fnExact})
	r.Register(Def{Name: "FIND", Category: "text", MinArgs: 2, MaxArgs: 3,
		Syntax: "FIND(find_text, within_text, [start_num])", Desc: "Case-sensitive position of one string in another.", Fn: fnFind})
	r.Register(Def{Name: "SEARCH", Category: "text", MinArgs: 2, MaxArgs: 3,
		Syntax: "SEARCH(find_text, within_text, [start_num])", Desc: "Case-insensitive position, with wildcards.", Fn: fnSearch})
	r.Register(Def{Name: "LEFT", Category: "text", MinArgs: 1, MaxArgs: 2,
		Syntax: "LEFT(text, [num_chars])", Desc: "Leading characters of a string.", Fn: fnLeft})
	r.Register(Def{Name: "RIGHT", Category: "text", MinArgs: 1, MaxArgs: 2,
		Syntax: "RIGHT(text, [num_chars])", Desc: "Trailing characters of a string.", Fn: fnRight})
	r.Register(Def{Name: "MID", Category: "text", MinArgs: 3, MaxArgs: 3,
		Syntax: "MID(text, start_num, num_chars)", Desc: "Characters from the middle of a string.", Fn: fnMid})
	r.Register(Def{Name: "LEN", Category: "text", MinArgs: 1, MaxArgs: 1,
		Syntax: "LEN(text)", Desc: "Length of a string in characters.", Fn: fnLen})
	r.Register(Def{Name: "LOWER", Category: "text", MinArgs: 1, MaxArgs: 1,
		Syntax: "LOWER(text)", Desc: "Lowercases a string.", Fn: fnLower})
	r.Register(Def{Name: "UPPER", Category: "text", MinArgs: 1, MaxArgs: 1,
		Syntax: "UPPER(text)", Desc: "Uppercases a string.", Fn: fnUpper})
	r.Register(Def{Name: "PROPER", Category: "text", MinArgs: 1, MaxArgs: 1,
		Syntax: "PROPER(text)", Desc: "Capitalizes each word.", Fn: fnProper})
	r.Register(Def{Name: "REPLACE", Category: "text", MinArgs: 4, MaxArgs: 4,
		Syntax: "REPLACE(old_text, start_num, num_chars, new_text)", Desc: "Replaces characters by position.", Fn: fnReplace})
	r.Register(Def{Name: "REPT", Category: "text", MinArgs: 2, MaxArgs: 2,
		Syntax: "REPT(text, number_times)", Desc: "Repeats a string.", Fn: fnRept})
	r.Register(Def{Name: "SUBSTITUTE", Category: "text", MinArgs: 3, MaxArgs: 4,
		Syntax: "SUBSTITUTE(text, old_text, new_text, [instance_num])", Desc: "Replaces occurrences of a substring.", Fn: fnSubstitute})
	r.Register(Def{Name: "T", Category: "text", MinArgs: 1, MaxArgs: 1,
		Syntax: "T(value)", Desc: "The value if it is text, else empty text.", Fn: fnT})
	r.Register(Def{Name: "VALUE", Category: "text", MinArgs: 1, MaxArgs: 1,
		Syntax: "VALUE(text)", Desc: "Converts number-like text to a number.", Fn: fnValue})
	r.Register(Def{Name: "NUMBERVALUE", Category: "text", MinArgs: 1, MaxArgs: 3,
		Syntax: "NUMBERVALUE(text, [decimal_separator], [group_separator])", Desc: "Converts text to a number with chosen separators.", Fn: fnNumberValue})
	r.Register(Def{Name: "FIXED", Category: "text", MinArgs: 1, MaxArgs: 3,
		Syntax: "FIXED(number, [decimals], [no_commas])", Desc: "Formats a number as text with fixed decimals.", Fn: fnFixed})
	r.Register(Def{Name: "DOLLAR", Category: "text", MinArgs: 1, MaxArgs: 2,
		Syntax: "DOLLAR(number, [decimals])", Desc: "Formats a number as currency text.", Fn: fnDollar})
	r.Register(Def{Name: "TEXT", Category: "text", MinArgs: 2, MaxArgs: 2,
		Syntax: "TEXT(value, format_text)", Desc: "Formats a value through a number format code.", Fn: fnText})
	r.Register(Def{Name: "TEXTJOIN", Category: "text", MinArgs: 3, MaxArgs: -1,
		Syntax: "TEXTJOIN(delimiter, ignore_empty, text1, ...)", Desc: "Joins values with a delimiter.", Fn: fnTextJoin})
	r.Register(Def{Name: "TEXTBEFORE", Category: "text", MinArgs: 2, MaxArgs: 3,
		Syntax: "TEXTBEFORE(text, delimiter, [instance_num])", Desc: "Text before an occurrence of a delimiter.", Fn: fnTextBefore})
	r.Register(Def{Name: "TEXTAFTER", Category: "text", MinArgs: 2, MaxArgs: 3,
		Syntax: "TEXTAFTER(text, delimiter, [instance_num])", Desc: "Text after an occurrence of a delimiter.", Fn: fnTextAfter})
	r.Register(Def{Name: "TEXTSPLIT", Category: "text", MinArgs: 2, MaxArgs: 6,
		Syntax: "TEXTSPLIT(text, col_delimiter, [row_delimiter], [ignore_empty], [match_mode], [pad_with])", Desc: "Splits text into an array.", Fn: fnTextSplit})
}

func fnChar(ctx value.Context, args []value.Value) value.Value {
	n, errv := argInt(args, 0)
	if errv != nil {
		return errv
	}
	if n < 1 || n > 255 {
		return value.NewError(value.ErrValue, "CHAR code out of range")
	}
	return value.Text(rune(n))
}

func fnCode(ctx value.Context, args []value.Value) value.Value {
	s, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	if s == "" {
		return value.NewError(value.ErrValue, "CODE of empty text")
	}
	r, _ := utf8.DecodeRuneInString(s)
	return value.Number(r)
}

func fnUnichar(ctx value.Context, args []value.Value) value.Value {
	n, errv := argInt(args, 0)
	if errv != nil {
		return errv
	}
	r := rune(n)
	if n < 1 || n > utf8.MaxRune || !utf8.ValidRune(r) {
		return value.NewError(value.ErrValue, "invalid code point")
	}
	return value.Text(r)
}

func fnUnicode(ctx value.Context, args []value.Value) value.Value {
	s, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	if s == "" {
		return value.NewError(value.ErrValue, "UNICODE of empty text")
	}
	r, _ := utf8.DecodeRuneInString(s)
	return value.Number(r)
}

func fnClean(ctx value.Context, args []value.Value) value.Value {
	s, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	var b strings.Builder
	for _, r := range s {
		if r >= 32 {
			b.WriteRune(r)
		}
	}
	return value.Text(b.String())
}

func fnTrim(ctx value.Context, args []value.Value) value.Value {
	s, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	// only the ASCII space collapses, other whitespace stays
	fields := strings.Split(s, " ")
	kept := fields[:0]
	for _, f := range fields {
		if f != "" {
			kept = append(kept, f)
		}
	}
	return value.Text(strings.Join(kept, " "))
}

func fnConcat(ctx value.Context, args []value.Value) value.Value {
	var b strings.Builder
	var errv value.Value
	forEachScalar(args, func(s value.Scalar) bool {
		if e, ok := s.(value.Error); ok {
			errv = e
			return false
		}
		b.WriteString(value.ToText(s))
		return true
	})
	if errv != nil {
		return errv
	}
	return value.Text(b.String())
}

func fnExact(ctx value.Context, args []value.Value) value.Value {
	a, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	b, errv := argText(args, 1)
	if errv != nil {
		return errv
	}
	return value.FromBool(a == b)
}

// runeOffset maps a 1-based character position to a byte offset, reporting
// false past the end of the string.
func runeOffset(s string, pos int) (int, bool) {
	off := 0
	for i := 1; i < pos; i++ {
		_, w := utf8.DecodeRuneInString(s[off:])
		if w == 0 {
			return 0, false
		}
		off += w
	}
	return off, true
}

func fnFind(ctx value.Context, args []value.Value) value.Value {
	find, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	within, errv := argText(args, 1)
	if errv != nil {
		return errv
	}
	start, errv := argIntDefault(args, 2, 1)
	if errv != nil {
		return errv
	}
	if start < 1 {
		return value.NewError(value.ErrValue, "start position out of range")
	}
	off, ok := runeOffset(within, start)
	if !ok {
		return value.NewError(value.ErrValue, "start position out of range")
	}
	idx := strings.Index(within[off:], find)
	if idx < 0 {
		return value.NewError(value.ErrValue, "text not found")
	}
	return value.Number(utf8.RuneCountInString(within[:off+idx]) + 1)
}

func fnSearch(ctx value.Context, args []value.Value) value.Value {
	find, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	within, errv := argText(args, 1)
	if errv != nil {
		return errv
	}
	start, errv := argIntDefault(args, 2, 1)
	if errv != nil {
		return errv
	}
	if start < 1 {
		return value.NewError(value.ErrValue, "start position out of range")
	}
	off, ok := runeOffset(within, start)
	if !ok {
		return value.NewError(value.ErrValue, "start position out of range")
	}
	loc := wildcardFind(find).FindStringIndex(within[off:])
	if loc == nil {
		return value.NewError(value.ErrValue, "text not found")
	}
	return value.Number(utf8.RuneCountInString(within[:off+loc[0]]) + 1)
}

func fnLeft(ctx value.Context, args []value.Value) value.Value {
	s, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	n, errv := argIntDefault(args, 1, 1)
	if errv != nil {
		return errv
	}
	if n < 0 {
		return value.NewError(value.ErrValue, "character count is negative")
	}
	rs := []rune(s)
	if n > len(rs) {
		n = len(rs)
	}
	return value.Text(rs[:n])
}

func fnRight(ctx value.Context, args []value.Value) value.Value {
	s, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	n, errv := argIntDefault(args, 1, 1)
	if errv != nil {
		return errv
	}
	if n < 0 {
		return value.NewError(value.ErrValue, "character count is negative")
	}
	rs := []rune(s)
	if n > len(rs) {
		n = len(rs)
	}
	return value.Text(rs[len(rs)-n:])
}

func fnMid(ctx value.Context, args []value.Value) value.Value {
	s, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	start, errv := argInt(args, 1)
	if errv != nil {
		return errv
	}
	n, errv := argInt(args, 2)
	if errv != nil {
		return errv
	}
	if start < 1 || n < 0 {
		return value.NewError(value.ErrValue, "MID position out of range")
	}
	rs := []rune(s)
	if start > len(rs) {
		return value.Text("")
	}
	end := start - 1 + n
	if end > len(rs) {
		end = len(rs)
	}
	return value.Text(rs[start-1 : end])
}

func fnLen(ctx value.Context, args []value.Value) value.Value {
	s, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	return value.Number(utf8.RuneCountInString(s))
}

func fnLower(ctx value.Context, args []value.Value) value.Value {
	s, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	return value.Text(strings.ToLower(s))
}

func fnUpper(ctx value.Context, args []value.Value) value.Value {
	s, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	return value.Text(strings.ToUpper(s))
}

func fnProper(ctx value.Context, args []value.Value) value.Value {
	s, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	return value.Text(cases.Title(language.English).String(strings.ToLower(s)))
}

func fnReplace(ctx value.Context, args []value.Value) value.Value {
	old, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	start, errv := argInt(args, 1)
	if errv != nil {
		return errv
	}
	n, errv := argInt(args, 2)
	if errv != nil {
		return errv
	}
	repl, errv := argText(args, 3)
	if errv != nil {
		return errv
	}
	if start < 1 || n < 0 {
		return value.NewError(value.ErrValue, "REPLACE position out of range")
	}
	rs := []rune(old)
	if start > len(rs)+1 {
		start = len(rs) + 1
	}
	end := start - 1 + n
	if end > len(rs) {
		end = len(rs)
	}
	return value.Text(string(rs[:start-1]) + repl + string(rs[end:]))
}

func fnRept(ctx value.Context, args []value.Value) value.Value {
	s, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	n, errv := argInt(args, 1)
	if errv != nil {
		return errv
	}
	if n < 0 {
		return value.NewError(value.ErrValue, "repeat count is negative")
	}
	if n*utf8.RuneCountInString(s) > 32767 {
		return value.NewError(value.ErrValue, "repeated text too long")
	}
	return value.Text(strings.Repeat(s, n))
}

func fnSubstitute(ctx value.Context, args []value.Value) value.Value {
	text, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	old, errv := argText(args, 1)
	if errv != nil {
		return errv
	}
	repl, errv := argText(args, 2)
	if errv != nil {
		return errv
	}
	if old == "" {
		return value.Text(text)
	}
	if !argProvided(args, 3) {
		return value.Text(strings.ReplaceAll(text, old, repl))
	}
	instance, errv := argInt(args, 3)
	if errv != nil {
		return errv
	}
	if instance < 1 {
		return value.NewError(value.ErrValue, "instance number out of range")
	}
	idx := nthIndex(text, old, instance)
	if idx < 0 {
		return value.Text(text)
	}
	return value.Text(text[:idx] + repl + text[idx+len(old):])
}

// nthIndex locates the byte offset of the n-th non-overlapping occurrence,
// 1-based, or -1 when there are fewer.
func nthIndex(s, sub string, n int) int {
	off := 0
	for ; n > 0; n-- {
		idx := strings.Index(s[off:], sub)
		if idx < 0 {
			return -1
		}
		off += idx
		if n > 1 {
			off += len(sub)
		}
	}
	return off
}

func allIndexes(s, sub string) []int {
	var out []int
	off := 0
	for {
		idx := strings.Index(s[off:], sub)
		if idx < 0 {
			return out
		}
		out = append(out, off+idx)
		off += idx + len(sub)
	}
}

func fnT(ctx value.Context, args []value.Value) value.Value {
	s := scalarArg(args, 0)
	if e, ok := s.(value.Error); ok {
		return e
	}
	if t, ok := s.(value.Text); ok {
		return t
	}
	return value.Text("")
}

func fnValue(ctx value.Context, args []value.Value) value.Value {
	s := scalarArg(args, 0)
	if e, ok := s.(value.Error); ok {
		return e
	}
	if n, ok := s.(value.Number); ok {
		return n
	}
	raw := strings.TrimSpace(value.ToText(s))
	if n, ok := value.ParseNumber(raw); ok {
		return value.Number(n)
	}
	if strings.Contains(raw, ",") {
		if n, ok := value.ParseNumber(strings.ReplaceAll(raw, ",", "")); ok {
			return value.Number(n)
		}
	}
	if t, ok := parseDateText(raw); ok {
		return value.Number(timeSerial(t))
	}
	if frac, ok := parseTimeText(raw); ok {
		return value.Number(frac)
	}
	return value.Errorf(value.ErrValue, "%q is not a number", raw)
}

func fnNumberValue(ctx value.Context, args []value.Value) value.Value {
	raw, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	dec, errv := argTextDefault(args, 1, ".")
	if errv != nil {
		return errv
	}
	group, errv := argTextDefault(args, 2, ",")
	if errv != nil {
		return errv
	}
	if dec == "" || group == "" {
		return value.NewError(value.ErrValue, "separator is empty")
	}
	// only the first character of each separator counts
	dec, group = string([]rune(dec)[:1]), string([]rune(group)[:1])
	if dec == group {
		return value.NewError(value.ErrValue, "separators must differ")
	}
	s := strings.ReplaceAll(raw, " ", "")
	if s == "" {
		return value.Number(0)
	}
	percents := 0
	for strings.HasSuffix(s, "%") {
		s = strings.TrimSuffix(s, "%")
		percents++
	}
	if i := strings.Index(s, dec); i >= 0 {
		if strings.Contains(s[i+len(dec):], group) {
			return value.NewError(value.ErrValue, "group separator after the decimal point")
		}
		s = strings.ReplaceAll(s[:i], group, "") + "." + strings.ReplaceAll(s[i+len(dec):], dec, "")
	} else {
		s = strings.ReplaceAll(s, group, "")
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return value.Errorf(value.ErrValue, "%q is not a number", raw)
	}
	for ; percents > 0; percents-- {
		n /= 100
	}
	return numResult(n)
}

var englishPrinter = message.NewPrinter(language.English)

func fnFixed(ctx value.Context, args []value.Value) value.Value {
	n, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	decimals, errv := argIntDefault(args, 1, 2)
	if errv != nil {
		return errv
	}
	noCommas, errv := argBoolDefault(args, 2, false)
	if errv != nil {
		return errv
	}
	rounded := roundTo(n, decimals)
	digits := decimals
	if digits < 0 {
		digits = 0
	}
	if noCommas {
		return value.Text(strconv.FormatFloat(rounded, 'f', digits, 64))
	}
	return value.Text(englishPrinter.Sprintf("%v", number.Decimal(rounded, number.Scale(digits))))
}

func fnDollar(ctx value.Context, args []value.Value) value.Value {
	n, errv := argNum(args, 0)
	if errv != nil {
		return errv
	}
	decimals, errv := argIntDefault(args, 1, 2)
	if errv != nil {
		return errv
	}
	rounded := roundTo(n, decimals)
	digits := decimals
	if digits < 0 {
		digits = 0
	}
	body := englishPrinter.Sprintf("%v", number.Decimal(math.Abs(rounded), number.Scale(digits)))
	if rounded < 0 {
		return value.Text("($" + body + ")")
	}
	return value.Text("$" + body)
}

func fnText(ctx value.Context, args []value.Value) value.Value {
	s := scalarArg(args, 0)
	if e, ok := s.(value.Error); ok {
		return e
	}
	code, errv := argText(args, 1)
	if errv != nil {
		return errv
	}
	out, errv := applyFormat(code, s)
	if errv != nil {
		return errv
	}
	return value.Text(out)
}

// delimiterList flattens a delimiter argument into its alternatives.
func delimiterList(arg value.Value) ([]string, value.Value) {
	var out []string
	for s := range value.Walk(arg) {
		if e, ok := s.(value.Error); ok {
			return nil, e
		}
		d := value.ToText(s)
		if d == "" {
			return nil, value.NewError(value.ErrValue, "delimiter is empty")
		}
		out = append(out, d)
	}
	return out, nil
}

func fnTextJoin(ctx value.Context, args []value.Value) value.Value {
	delims, errv := delimiterList(args[0])
	if errv != nil {
		return errv
	}
	ignoreEmpty, errv := argBoolDefault(args, 1, false)
	if errv != nil {
		return errv
	}
	var pieces []string
	var bad value.Value
	forEachScalar(args[2:], func(s value.Scalar) bool {
		if e, ok := s.(value.Error); ok {
			bad = e
			return false
		}
		t := value.ToText(s)
		if ignoreEmpty && t == "" {
			return true
		}
		pieces = append(pieces, t)
		return true
	})
	if bad != nil {
		return bad
	}
	var b strings.Builder
	for i, p := range pieces {
		if i > 0 {
			b.WriteString(delims[(i-1)%len(delims)])
		}
		b.WriteString(p)
	}
	if utf8.RuneCountInString(b.String()) > 32767 {
		return value.NewError(value.ErrValue, "joined text too long")
	}
	return value.Text(b.String())
}

func textSlice(args []value.Value, before bool) value.Value {
	text, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	delim, errv := argText(args, 1)
	if errv != nil {
		return errv
	}
	instance, errv := argIntDefault(args, 2, 1)
	if errv != nil {
		return errv
	}
	if delim == "" {
		return value.NewError(value.ErrValue, "delimiter is empty")
	}
	if instance == 0 {
		return value.NewError(value.ErrValue, "instance number of zero")
	}
	var idx int
	if instance > 0 {
		idx = nthIndex(text, delim, instance)
	} else {
		all := allIndexes(text, delim)
		if -instance > len(all) {
			idx = -1
		} else {
			idx = all[len(all)+instance]
		}
	}
	if idx < 0 {
		return value.NewError(value.ErrNA, "delimiter not found")
	}
	if before {
		return value.Text(text[:idx])
	}
	return value.Text(text[idx+len(delim):])
}

func fnTextBefore(ctx value.Context, args []value.Value) value.Value {
	return textSlice(args, true)
}

func fnTextAfter(ctx value.Context, args []value.Value) value.Value {
	return textSlice(args, false)
}

// splitAny cuts text at every occurrence of any delimiter, preferring the
// leftmost match and the longest delimiter on ties.
func splitAny(text string, delims []string, fold bool) []string {
	if len(delims) == 0 {
		return []string{text}
	}
	hay := text
	if fold {
		hay = strings.ToUpper(text)
	}
	needles := delims
	if fold {
		needles = make([]string, len(delims))
		for i, d := range delims {
			needles[i] = strings.ToUpper(d)
		}
	}
	var out []string
	start := 0
	for start <= len(text) {
		at, size := -1, 0
		for _, n := range needles {
			idx := strings.Index(hay[start:], n)
			if idx < 0 {
				continue
			}
			if at < 0 || idx < at || (idx == at && len(n) > size) {
				at, size = idx, len(n)
			}
		}
		if at < 0 {
			break
		}
		out = append(out, text[start:start+at])
		start += at + size
	}
	return append(out, text[start:])
}

func fnTextSplit(ctx value.Context, args []value.Value) value.Value {
	text, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	var colDelims, rowDelims []string
	if argProvided(args, 1) {
		colDelims, errv = delimiterList(args[1])
		if errv != nil {
			return errv
		}
	}
	if argProvided(args, 2) {
		rowDelims, errv = delimiterList(args[2])
		if errv != nil {
			return errv
		}
	}
	if len(colDelims) == 0 && len(rowDelims) == 0 {
		return value.NewError(value.ErrValue, "TEXTSPLIT needs a delimiter")
	}
	ignoreEmpty, errv := argBoolDefault(args, 3, false)
	if errv != nil {
		return errv
	}
	matchMode, errv := argIntDefault(args, 4, 0)
	if errv != nil {
		return errv
	}
	if matchMode != 0 && matchMode != 1 {
		return value.NewError(value.ErrValue, "unknown match mode")
	}
	pad := value.Scalar(value.NewError(value.ErrNA, "short row"))
	if argProvided(args, 5) {
		pad = scalarArg(args, 5)
	}
	fold := matchMode == 1
	var grid [][]string
	for _, row := range splitAny(text, rowDelims, fold) {
		cols := splitAny(row, colDelims, fold)
		if ignoreEmpty {
			kept := cols[:0]
			for _, c := range cols {
				if c != "" {
					kept = append(kept, c)
				}
			}
			cols = kept
		}
		if len(cols) > 0 {
			grid = append(grid, cols)
		}
	}
	if len(grid) == 0 {
		return value.NewError(value.ErrValue, "nothing to split")
	}
	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}
	out := value.NewArray(len(grid), width)
	for r, row := range grid {
		for c := 0; c < width; c++ {
			if c < len(row) {
				out.Set(r, c, value.Text(row[c]))
			} else {
				out.Set(r, c, pad)
			}
		}
	}
	return out
}

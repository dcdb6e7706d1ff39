package fn

// Number format codes for TEXT. The supported subset covers digit
// placeholders (0 # ?), decimal and grouping marks, percent scaling,
// scientific notation, literal runs, the @ text slot, and date-time codes
// built from y m d h s with AM/PM markers.

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cellmath/formula/value"
)

func applyFormat(code string, s value.Scalar) (string, value.Value) {
	if code == "" {
		return "", nil
	}
	if strings.EqualFold(strings.TrimSpace(code), "general") {
		return value.ToText(s), nil
	}
	sections := splitSections(code)
	if t, ok := s.(value.Text); ok {
		return formatText(sections, string(t)), nil
	}
	if b, ok := s.(value.Boolean); ok {
		return value.ToText(b), nil
	}
	n, ok := value.ToNumber(s)
	if !ok {
		return "", value.NewError(value.ErrValue, "value cannot be formatted")
	}
	section, explicitSign := pickSection(sections, n)
	if isDateSection(section) {
		if n < 0 {
			return "", value.NewError(value.ErrValue, "negative date serial")
		}
		return renderDateSection(section, serialTime(n)), nil
	}
	mask := parseMask(section)
	out := mask.render(math.Abs(n))
	if n < 0 && explicitSign {
		out = "-" + out
	}
	return out, nil
}

// splitSections cuts a format code at semicolons outside quoted runs.
func splitSections(code string) []string {
	var out []string
	var b strings.Builder
	inQuote := false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case ch == '"':
			inQuote = !inQuote
			b.WriteByte(ch)
		case ch == '\\' && i+1 < len(code):
			b.WriteByte(ch)
			i++
			b.WriteByte(code[i])
		case ch == ';' && !inQuote:
			out = append(out, b.String())
			b.Reset()
		default:
			b.WriteByte(ch)
		}
	}
	return append(out, b.String())
}

// pickSection chooses the positive, negative, or zero section. The second
// return reports whether the caller still owes a minus sign.
func pickSection(sections []string, n float64) (string, bool) {
	switch {
	case n < 0:
		if len(sections) > 1 {
			return sections[1], false
		}
		return sections[0], true
	case n == 0:
		if len(sections) > 2 {
			return sections[2], false
		}
	}
	return sections[0], false
}

func formatText(sections []string, text string) string {
	section := ""
	if len(sections) == 4 {
		section = sections[3]
	} else if len(sections) == 1 && strings.ContainsRune(stripQuoted(sections[0]), '@') {
		section = sections[0]
	} else {
		return text
	}
	var b strings.Builder
	inQuote := false
	for i := 0; i < len(section); i++ {
		ch := section[i]
		switch {
		case ch == '"':
			inQuote = !inQuote
		case inQuote:
			b.WriteByte(ch)
		case ch == '\\' && i+1 < len(section):
			i++
			b.WriteByte(section[i])
		case ch == '@':
			b.WriteString(text)
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

func stripQuoted(s string) string {
	var b strings.Builder
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '"':
			inQuote = !inQuote
		case s[i] == '\\' && i+1 < len(s):
			i++
		case !inQuote:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// isDateSection reports whether a section spells a date-time picture:
// calendar letters present and no digit placeholders. The era code e counts
// as a calendar letter; scientific masks never land here because they carry
// digit placeholders.
func isDateSection(section string) bool {
	bare := strings.ToLower(stripQuoted(section))
	if strings.ContainsAny(bare, "0#?") {
		return false
	}
	return strings.ContainsAny(bare, "ymdhse")
}

func renderDateSection(section string, t time.Time) string {
	t = t.Round(time.Second)
	twelveHour := false
	bare := strings.ToUpper(stripQuoted(section))
	if strings.Contains(bare, "AM/PM") || strings.Contains(bare, "A/P") {
		twelveHour = true
	}
	hour := t.Hour()
	marker := "AM"
	if hour >= 12 {
		marker = "PM"
	}
	if twelveHour {
		hour %= 12
		if hour == 0 {
			hour = 12
		}
	}
	var b strings.Builder
	lastUnit := byte(0)
	i := 0
	for i < len(section) {
		ch := section[i]
		if ch == '"' {
			j := i + 1
			for j < len(section) && section[j] != '"' {
				b.WriteByte(section[j])
				j++
			}
			i = j + 1
			continue
		}
		if ch == '\\' && i+1 < len(section) {
			b.WriteByte(section[i+1])
			i += 2
			continue
		}
		up := strings.ToUpper(section[i:])
		if strings.HasPrefix(up, "AM/PM") {
			b.WriteString(marker)
			i += 5
			continue
		}
		if strings.HasPrefix(up, "A/P") {
			b.WriteString(marker[:1])
			i += 3
			continue
		}
		low := lowerLetter(ch)
		if !isDateLetter(low) {
			b.WriteByte(ch)
			i++
			continue
		}
		run := 1
		for i+run < len(section) && lowerLetter(section[i+run]) == low {
			run++
		}
		switch low {
		case 'y':
			if run >= 4 {
				fmt.Fprintf(&b, "%04d", t.Year())
			} else {
				fmt.Fprintf(&b, "%02d", t.Year()%100)
			}
			lastUnit = 'y'
		case 'e':
			fmt.Fprintf(&b, "%d", t.Year())
			lastUnit = 'y'
		case 'm':
			if lastUnit == 'h' || nextDateLetter(section, i+run) == 's' {
				fmt.Fprintf(&b, "%0*d", minWidth(run), t.Minute())
				lastUnit = 'i'
			} else {
				switch {
				case run >= 5:
					b.WriteString(t.Month().String()[:1])
				case run == 4:
					b.WriteString(t.Month().String())
				case run == 3:
					b.WriteString(t.Month().String()[:3])
				default:
					fmt.Fprintf(&b, "%0*d", minWidth(run), int(t.Month()))
				}
				lastUnit = 'm'
			}
		case 'd':
			switch {
			case run >= 4:
				b.WriteString(t.Weekday().String())
			case run == 3:
				b.WriteString(t.Weekday().String()[:3])
			default:
				fmt.Fprintf(&b, "%0*d", minWidth(run), t.Day())
			}
			lastUnit = 'd'
		case 'h':
			fmt.Fprintf(&b, "%0*d", minWidth(run), hour)
			lastUnit = 'h'
		case 's':
			fmt.Fprintf(&b, "%0*d", minWidth(run), t.Second())
			lastUnit = 's'
		}
		i += run
	}
	return b.String()
}

func lowerLetter(ch byte) byte {
	if ch >= 'A' && ch <= 'Z' {
		return ch + 'a' - 'A'
	}
	return ch
}

func isDateLetter(ch byte) bool {
	switch ch {
	case 'y', 'm', 'd', 'h', 's', 'e':
		return true
	}
	return false
}

// nextDateLetter peeks past separators for the next calendar letter, so a
// lone m before s reads as minutes.
func nextDateLetter(section string, from int) byte {
	for i := from; i < len(section); i++ {
		ch := lowerLetter(section[i])
		if ch >= 'a' && ch <= 'z' {
			return ch
		}
		if ch == '"' {
			return 0
		}
	}
	return 0
}

func minWidth(run int) int {
	if run >= 2 {
		return 2
	}
	return 1
}

type maskTok struct {
	placeholder bool
	ch          byte   // placeholder glyph: 0 # ?
	lit         string // literal run when not a placeholder
}

type numMask struct {
	left, right []maskTok
	grouping    bool
	percents    int
	scale       int
	sci         bool
	sciMark     byte
	sciPlus     bool
	expDigits   int
}

func parseMask(section string) *numMask {
	m := &numMask{}
	cur := &m.left
	var commasAfterLast int
	sawPlaceholder := false
	flushComma := func() {
		// commas between digit runs turn on grouping, trailing commas scale
		if commasAfterLast > 0 {
			m.grouping = true
			commasAfterLast = 0
		}
	}
	i := 0
	for i < len(section) {
		ch := section[i]
		switch {
		case ch == '"':
			j := i + 1
			for j < len(section) && section[j] != '"' {
				j++
			}
			*cur = append(*cur, maskTok{lit: section[i+1 : j]})
			i = j + 1
			continue
		case ch == '\\' && i+1 < len(section):
			*cur = append(*cur, maskTok{lit: string(section[i+1])})
			i += 2
			continue
		case ch == '_':
			*cur = append(*cur, maskTok{lit: " "})
			i += 2
			continue
		case ch == '*':
			i += 2
			continue
		case ch == '0' || ch == '#' || ch == '?':
			flushComma()
			*cur = append(*cur, maskTok{placeholder: true, ch: ch})
			sawPlaceholder = true
		case ch == ',':
			if sawPlaceholder && cur == &m.left {
				commasAfterLast++
			} else if sawPlaceholder {
				// a comma after the fraction digits only ever scales
				m.scale++
			}
		case ch == '.':
			if cur == &m.left {
				flushComma()
				cur = &m.right
			} else {
				*cur = append(*cur, maskTok{lit: "."})
			}
		case ch == '%':
			m.percents++
			*cur = append(*cur, maskTok{lit: "%"})
		case (ch == 'E' || ch == 'e') && i+1 < len(section) && (section[i+1] == '+' || section[i+1] == '-'):
			m.sci = true
			m.sciMark = ch
			m.sciPlus = section[i+1] == '+'
			for j := i + 2; j < len(section); j++ {
				if section[j] == '0' || section[j] == '#' || section[j] == '?' {
					m.expDigits++
				}
			}
			m.scale += commasAfterLast
			return m
		default:
			*cur = append(*cur, maskTok{lit: string(ch)})
		}
		i++
	}
	m.scale += commasAfterLast
	return m
}

func placeholderCount(toks []maskTok) int {
	n := 0
	for _, t := range toks {
		if t.placeholder {
			n++
		}
	}
	return n
}

func (m *numMask) render(n float64) string {
	if m.sci {
		return m.renderSci(n)
	}
	for p := 0; p < m.percents; p++ {
		n *= 100
	}
	for s := 0; s < m.scale; s++ {
		n /= 1000
	}
	frac := placeholderCount(m.right)
	fixed := strconv.FormatFloat(roundTo(n, frac), 'f', frac, 64)
	intDigits, fracDigits, _ := strings.Cut(fixed, ".")
	if intDigits == "0" {
		intDigits = ""
	}
	if m.grouping {
		intDigits = groupThousands(intDigits)
	}
	out := m.renderInt(intDigits)
	if len(m.right) > 0 {
		out += "." + m.renderFrac(fracDigits)
	}
	return out
}

// renderInt lays digits into the integer mask right to left; surplus digits
// pour out at the leftmost placeholder.
func (m *numMask) renderInt(digits string) string {
	first := -1
	for i, t := range m.left {
		if t.placeholder {
			first = i
			break
		}
	}
	var parts []string
	di := len(digits)
	for ti := len(m.left) - 1; ti >= 0; ti-- {
		tok := m.left[ti]
		if !tok.placeholder {
			parts = append(parts, tok.lit)
			continue
		}
		if ti == first {
			if di > 0 {
				parts = append(parts, digits[:di])
			} else {
				switch tok.ch {
				case '0':
					parts = append(parts, "0")
				case '?':
					parts = append(parts, " ")
				}
			}
			continue
		}
		// pull one digit, carrying any grouping comma along with it
		took := ""
		if di > 0 {
			took = string(digits[di-1])
			di--
			if di > 0 && digits[di-1] == ',' {
				took = "," + took
				di--
			}
		} else {
			switch tok.ch {
			case '0':
				took = "0"
			case '?':
				took = " "
			}
		}
		parts = append(parts, took)
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString(parts[i])
	}
	return b.String()
}

func (m *numMask) renderFrac(digits string) string {
	glyphs := make([]string, len(m.right))
	di := 0
	for i, tok := range m.right {
		if !tok.placeholder {
			glyphs[i] = tok.lit
			continue
		}
		glyphs[i] = string(digits[di])
		di++
	}
	// loose placeholders drop trailing zeros, ? blanks them
	for i := len(m.right) - 1; i >= 0; i-- {
		tok := m.right[i]
		if !tok.placeholder {
			continue
		}
		if glyphs[i] != "0" || tok.ch == '0' {
			break
		}
		if tok.ch == '?' {
			glyphs[i] = " "
		} else {
			glyphs[i] = ""
		}
	}
	return strings.Join(glyphs, "")
}

func (m *numMask) renderSci(n float64) string {
	exp := 0
	if n != 0 {
		exp = int(math.Floor(math.Log10(n)))
	}
	mant := n / math.Pow(10, float64(exp))
	frac := placeholderCount(m.right)
	fixed := strconv.FormatFloat(roundTo(mant, frac), 'f', frac, 64)
	intDigits, fracDigits, _ := strings.Cut(fixed, ".")
	out := m.renderInt(intDigits)
	if len(m.right) > 0 {
		out += "." + m.renderFrac(fracDigits)
	}
	out += string(m.sciMark)
	if exp < 0 {
		out += "-"
	} else if m.sciPlus {
		out += "+"
	}
	width := m.expDigits
	if width < 1 {
		width = 1
	}
	return out + fmt.Sprintf("%0*d", width, abs(exp))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

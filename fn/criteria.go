package fn

import (
	"regexp"
	"strings"

	"github.com/cellmath/formula/value"
)

// criterion is one parsed SUMIF/COUNTIF-style condition: an optional
// comparison operator followed by a number, a piece of text, or a wildcard
// pattern. Text matching is case-insensitive throughout, matching the host
// spreadsheet.
type criterion struct {
	op      string // "=", "<>", "<", "<=", ">", ">="
	num     float64
	text    string // folded to upper case
	isNum   bool
	pattern *regexp.Regexp // non-nil when the text carries wildcards
}

// parseCriterion reads a criterion from whatever the caller supplied: a
// bare value means equality, a string may carry a leading operator.
func parseCriterion(v value.Value) criterion {
	s := value.AsScalar(v)
	switch sv := s.(type) {
	case value.Number:
		return criterion{op: "=", num: float64(sv), isNum: true}
	case value.Boolean:
		return criterion{op: "=", text: strings.ToUpper(sv.String())}
	case value.Empty:
		return criterion{op: "="}
	case value.Error:
		return criterion{op: "=", text: sv.String()}
	}

	text := string(s.(value.Text))
	op := "="
	switch {
	case strings.HasPrefix(text, ">="):
		op, text = ">=", text[2:]
	case strings.HasPrefix(text, "<="):
		op, text = "<=", text[2:]
	case strings.HasPrefix(text, "<>"):
		op, text = "<>", text[2:]
	case strings.HasPrefix(text, ">"):
		op, text = ">", text[1:]
	case strings.HasPrefix(text, "<"):
		op, text = "<", text[1:]
	case strings.HasPrefix(text, "="):
		op, text = "=", text[1:]
	}

	if n, ok := value.ParseNumber(text); ok {
		return criterion{op: op, num: n, isNum: true}
	}
	c := criterion{op: op, text: strings.ToUpper(text)}
	// a tilde with no live wildcard still needs the translator, so that
	// "2~*" compares against the literal "2*"
	if (op == "=" || op == "<>") && (hasWildcard(text) || strings.Contains(text, "~")) {
		c.pattern = wildcardRegexp(text)
	}
	return c
}

// matches applies the criterion to one cell value.
func (c criterion) matches(s value.Scalar) bool {
	if c.isNum {
		n, isn := numericCell(s)
		if !isn {
			return c.op == "<>"
		}
		switch c.op {
		case "=":
			return n == c.num
		case "<>":
			return n != c.num
		case "<":
			return n < c.num
		case "<=":
			return n <= c.num
		case ">":
			return n > c.num
		case ">=":
			return n >= c.num
		}
		return false
	}

	// blank criterion: "=" matches blank cells, "<>" matches non-blank
	if c.text == "" && c.pattern == nil {
		blank := value.IsBlank(s)
		if c.op == "<>" {
			return !blank
		}
		return blank || value.ToText(s) == ""
	}

	t, isText := textCell(s)
	if !isText {
		return c.op == "<>"
	}
	if c.pattern != nil {
		hit := c.pattern.MatchString(t)
		if c.op == "<>" {
			return !hit
		}
		return hit
	}
	t = strings.ToUpper(t)
	switch c.op {
	case "=":
		return t == c.text
	case "<>":
		return t != c.text
	case "<":
		return t < c.text
	case "<=":
		return t <= c.text
	case ">":
		return t > c.text
	case ">=":
		return t >= c.text
	}
	return false
}

// numericCell reports the numeric reading of a cell for criteria purposes:
// numbers directly, numeric text by parsing. Booleans and blanks do not
// participate in numeric criteria.
func numericCell(s value.Scalar) (float64, bool) {
	switch v := s.(type) {
	case value.Number:
		return float64(v), true
	case value.Text:
		return value.ParseNumber(string(v))
	}
	return 0, false
}

func textCell(s value.Scalar) (string, bool) {
	switch v := s.(type) {
	case value.Text:
		return string(v), true
	case value.Boolean, value.Error:
		return s.String(), true
	}
	return "", false
}

func hasWildcard(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?':
			return true
		case '~':
			i++ // escaped character, skip whatever follows
		}
	}
	return false
}

// wildcardBody translates a spreadsheet wildcard pattern to regexp syntax:
// * is any run, ? any single character, ~ escapes the next character.
func wildcardBody(pat string) string {
	var b strings.Builder
	for i := 0; i < len(pat); i++ {
		switch ch := pat[i]; ch {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '~':
			if i+1 < len(pat) {
				i++
				b.WriteString(regexp.QuoteMeta(string(pat[i])))
			} else {
				b.WriteString(`~`)
			}
		default:
			b.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}
	return b.String()
}

// wildcardRegexp compiles a pattern for anchored, case-insensitive matching.
func wildcardRegexp(pat string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^` + wildcardBody(pat) + `$`)
}

// wildcardFind compiles a pattern for unanchored, case-insensitive search.
func wildcardFind(pat string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + wildcardBody(pat))
}

// wildcardMatch is the lookup-side entry: case-insensitive full match of
// text against a pattern that may carry wildcards.
func wildcardMatch(pat, text string) bool {
	if !hasWildcard(pat) && !strings.Contains(pat, "~") {
		return strings.EqualFold(pat, text)
	}
	return wildcardRegexp(pat).MatchString(text)
}

// criteriaRanges pairs up (range, criterion) arguments for the *IFS family
// and validates that every range has the aggregate range's shape.
func criteriaRanges(aggregate *value.Array, args []value.Value) ([]*value.Array, []criterion, value.Value) {
	if len(args)%2 != 0 {
		return nil, nil, value.NewError(value.ErrValue, "criteria come in range, criterion pairs")
	}
	var ranges []*value.Array
	var crits []criterion
	for i := 0; i < len(args); i += 2 {
		r := asArray(args[i])
		if aggregate != nil && (r.Rows() != aggregate.Rows() || r.Cols() != aggregate.Cols()) {
			return nil, nil, value.NewError(value.ErrValue, "criteria ranges must match the aggregate range's shape")
		}
		if len(ranges) > 0 && (r.Rows() != ranges[0].Rows() || r.Cols() != ranges[0].Cols()) {
			return nil, nil, value.NewError(value.ErrValue, "criteria ranges must share one shape")
		}
		ranges = append(ranges, r)
		crits = append(crits, parseCriterion(orEmpty(args[i+1])))
	}
	return ranges, crits, nil
}

func orEmpty(v value.Value) value.Value {
	if v == nil {
		return value.Empty{}
	}
	return v
}

// selectByCriteria walks the aggregate range and yields the cells whose
// row/column passes every criterion.
func selectByCriteria(aggregate *value.Array, ranges []*value.Array, crits []criterion) []value.Scalar {
	var out []value.Scalar
	for i := 0; i < aggregate.Len(); i++ {
		pass := true
		for j, r := range ranges {
			if !crits[j].matches(r.Flat(i)) {
				pass = false
				break
			}
		}
		if pass {
			out = append(out, aggregate.Flat(i))
		}
	}
	return out
}

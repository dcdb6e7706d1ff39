package fn

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/cellmath/formula/cell"
	"github.com/cellmath/formula/value"
)

func registerLookup(r *Registry) {
	r.Register(Def{Name: "ADDRESS", Category: "lookup", MinArgs: 2, MaxArgs: 5,
		Syntax: "ADDRESS(row_num, column_num, [abs_num], [a1], [sheet_text])", Desc: "Cell address as text.", Fn: fnAddress})
	r.Register(Def{Name: "CHOOSE", Category: "lookup", MinArgs: 2, MaxArgs: -1,
		Syntax: "CHOOSE(index_num, value1, ...)", Desc: "Picks a value by index, evaluating only that branch.", LazyFn: fnChoose})
	r.Register(Def{Name: "ROW", Category: "lookup", MinArgs: 0, MaxArgs: 1,
		Syntax: "ROW([reference])", Desc: "Row number of a reference, or of the formula's own cell.", LazyFn: fnRow})
	r.Register(Def{Name: "COLUMN", Category: "lookup", MinArgs: 0, MaxArgs: 1,
		Syntax: "COLUMN([reference])", Desc: "Column number of a reference, or of the formula's own cell.", LazyFn: fnColumn})
	r.Register(Def{Name: "ROWS", Category: "lookup", MinArgs: 1, MaxArgs: 1,
		Syntax: "ROWS(array)", Desc: "Count of rows in a reference or array.", LazyFn: fnRows})
	r.Register(Def{Name: "COLUMNS", Category: "lookup", MinArgs: 1, MaxArgs: 1,
		Syntax: "COLUMNS(array)", Desc: "Count of columns in a reference or array.", LazyFn: fnColumns})
	r.Register(Def{Name: "OFFSET", Category: "lookup", MinArgs: 3, MaxArgs: 5, Volatile: true,
		Syntax: "OFFSET(reference, rows, cols, [height], [width])", Desc: "Range shifted and resized from a reference.", LazyFn: fnOffset})
	r.Register(Def{Name: "INDIRECT", Category: "lookup", MinArgs: 1, MaxArgs: 2, Volatile: true,
		Syntax: "INDIRECT(ref_text, [a1])", Desc: "Reference named by a text string.", Fn: fnIndirect})
	r.Register(Def{Name: "INDEX", Category: "lookup", MinArgs: 2, MaxArgs: 3,
		Syntax: "INDEX(array, row_num, [column_num])", Desc: "Value at a row and column of an array.", Fn: fnIndex})
	r.Register(Def{Name: "MATCH", Category: "lookup", MinArgs: 2, MaxArgs: 3,
		Syntax: "MATCH(lookup_value, lookup_array, [match_type])", Desc: "Position of a value in a vector.", Fn: fnMatch})
	r.Register(Def{Name: "XMATCH", Category: "lookup", MinArgs: 2, MaxArgs: 4,
		Syntax: "XMATCH(lookup_value, lookup_array, [match_mode], [search_mode])", Desc: "Position of a value with configurable matching.", Fn: fnXmatch})
	r.Register(Def{Name: "VLOOKUP", Category: "lookup", MinArgs: 3, MaxArgs: 4,
		Syntax: "VLOOKUP(lookup_value, table_array, col_index_num, [range_lookup])", Desc: "Looks down the first column, returns from another.", Fn: fnVlookup})
	r.Register(Def{Name: "HLOOKUP", Category: "lookup", MinArgs: 3, MaxArgs: 4,
		Syntax: "HLOOKUP(lookup_value, table_array, row_index_num, [range_lookup])", Desc: "Looks across the first row, returns from another.", Fn: fnHlookup})
	r.Register(Def{Name: "LOOKUP", Category: "lookup", MinArgs: 2, MaxArgs: 3,
		Syntax: "LOOKUP(lookup_value, lookup_vector, [result_vector])", Desc: "Approximate lookup in a vector or array.", Fn: fnLookup})
	r.Register(Def{Name: "XLOOKUP", Category: "lookup", MinArgs: 3, MaxArgs: 6,
		Syntax: "XLOOKUP(lookup_value, lookup_array, return_array, [if_not_found], [match_mode], [search_mode])", Desc: "Flexible lookup with a fallback value.", Fn: fnXlookup})
	r.Register(Def{Name: "TRANSPOSE", Category: "lookup", MinArgs: 1, MaxArgs: 1,
		Syntax: "TRANSPOSE(array)", Desc: "Flips an array across its diagonal.", Fn: fnTranspose})
	r.Register(Def{Name: "SORT", Category: "lookup", MinArgs: 1, MaxArgs: 4,
		Syntax: "SORT(array, [sort_index], [sort_order], [by_col])", Desc: "Sorts rows or columns of an array.", Fn: fnSort})
	r.Register(Def{Name: "SORTBY", Category: "lookup", MinArgs: 2, MaxArgs: -1,
		Syntax: "SORTBY(array, by_array1, [sort_order1], ...)", Desc: "Sorts an array by parallel key vectors.", Fn: fnSortBy})
	r.Register(Def{Name: "UNIQUE", Category: "lookup", MinArgs: 1, MaxArgs: 3,
		Syntax: "UNIQUE(array, [by_col], [exactly_once])", Desc: "Distinct rows or columns of an array.", Fn: fnUnique})
}

func forcedArgs(th []value.Thunk) []value.Value {
	out := make([]value.Value, len(th))
	for i, t := range th {
		out[i] = t.Force()
	}
	return out
}

// refSpanArg recovers the static rectangle behind an argument expression.
func refSpanArg(th []value.Thunk, i int) (cell.Span, bool) {
	if i >= len(th) || th[i].Expr == nil {
		return cell.Span{}, false
	}
	se, ok := th[i].Expr.(value.SpanExpr)
	if !ok {
		return cell.Span{}, false
	}
	return se.RefSpan()
}

func fnAddress(ctx value.Context, args []value.Value) value.Value {
	row, errv := argInt(args, 0)
	if errv != nil {
		return errv
	}
	col, errv := argInt(args, 1)
	if errv != nil {
		return errv
	}
	absNum, errv := argIntDefault(args, 2, 1)
	if errv != nil {
		return errv
	}
	a1, errv := argBoolDefault(args, 3, true)
	if errv != nil {
		return errv
	}
	sheet, errv := argTextDefault(args, 4, "")
	if errv != nil {
		return errv
	}
	if row < 1 || col < 1 || absNum < 1 || absNum > 4 {
		return value.NewError(value.ErrValue, "ADDRESS arguments out of range")
	}
	var body string
	if a1 {
		rowAbs := absNum == 1 || absNum == 2
		colAbs := absNum == 1 || absNum == 3
		if colAbs {
			body += "$"
		}
		body += cell.ColName(col - 1)
		if rowAbs {
			body += "$"
		}
		body += fmt.Sprintf("%d", row)
	} else {
		switch absNum {
		case 1:
			body = fmt.Sprintf("R%dC%d", row, col)
		case 2:
			body = fmt.Sprintf("R%dC[%d]", row, col)
		case 3:
			body = fmt.Sprintf("R[%d]C%d", row, col)
		default:
			body = fmt.Sprintf("R[%d]C[%d]", row, col)
		}
	}
	if sheet == "" {
		return value.Text(body)
	}
	if strings.ContainsAny(sheet, " '!") {
		sheet = "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	}
	return value.Text(sheet + "!" + body)
}

func fnChoose(ctx value.Context, th []value.Thunk) value.Value {
	idx := value.AsScalar(th[0].Force())
	if e, ok := idx.(value.Error); ok {
		return e
	}
	n, ok := value.ToNumber(idx)
	if !ok {
		return value.Errorf(value.ErrValue, "%q is not a number", value.ToText(idx))
	}
	k := int(n)
	if k < 1 || k >= len(th) {
		return value.NewError(value.ErrValue, "CHOOSE index out of range")
	}
	return th[k].Force()
}

func fnRow(ctx value.Context, th []value.Thunk) value.Value {
	if len(th) == 0 || th[0].Omitted() {
		return value.Number(ctx.Base().Row + 1)
	}
	sp, ok := refSpanArg(th, 0)
	if !ok {
		return value.NewError(value.ErrValue, "reference expected")
	}
	if sp.Rows() == 1 {
		return value.Number(sp.Start.Row + 1)
	}
	out := value.NewArray(sp.Rows(), 1)
	for r := 0; r < sp.Rows(); r++ {
		out.Set(r, 0, value.Number(sp.Start.Row+r+1))
	}
	return out
}

func fnColumn(ctx value.Context, th []value.Thunk) value.Value {
	if len(th) == 0 || th[0].Omitted() {
		return value.Number(ctx.Base().Col + 1)
	}
	sp, ok := refSpanArg(th, 0)
	if !ok {
		return value.NewError(value.ErrValue, "reference expected")
	}
	if sp.Cols() == 1 {
		return value.Number(sp.Start.Col + 1)
	}
	out := value.NewArray(1, sp.Cols())
	for c := 0; c < sp.Cols(); c++ {
		out.Set(0, c, value.Number(sp.Start.Col+c+1))
	}
	return out
}

func fnRows(ctx value.Context, th []value.Thunk) value.Value {
	if sp, ok := refSpanArg(th, 0); ok {
		return value.Number(sp.Rows())
	}
	v := th[0].Force()
	if e, ok := value.AsError(v); ok {
		return e
	}
	return value.Number(asArray(v).Rows())
}

func fnColumns(ctx value.Context, th []value.Thunk) value.Value {
	if sp, ok := refSpanArg(th, 0); ok {
		return value.Number(sp.Cols())
	}
	v := th[0].Force()
	if e, ok := value.AsError(v); ok {
		return e
	}
	return value.Number(asArray(v).Cols())
}

func fnOffset(ctx value.Context, th []value.Thunk) value.Value {
	sp, ok := refSpanArg(th, 0)
	if !ok {
		return value.NewError(value.ErrValue, "reference expected")
	}
	rest := forcedArgs(th[1:])
	rows, errv := argInt(rest, 0)
	if errv != nil {
		return errv
	}
	cols, errv := argInt(rest, 1)
	if errv != nil {
		return errv
	}
	height, errv := argIntDefault(rest, 2, sp.Rows())
	if errv != nil {
		return errv
	}
	width, errv := argIntDefault(rest, 3, sp.Cols())
	if errv != nil {
		return errv
	}
	if height <= 0 || width <= 0 {
		return value.NewError(value.ErrRef, "offset size must be positive")
	}
	start := sp.Start.Offset(rows, cols)
	if !start.Valid() {
		return value.NewError(value.ErrRef, "offset runs off the sheet")
	}
	out := cell.Span{Start: start, End: start.Offset(height-1, width-1)}
	if !out.End.Valid() {
		return value.NewError(value.ErrRef, "offset runs off the sheet")
	}
	if height == 1 && width == 1 {
		return ctx.CellValue(start)
	}
	return ctx.SpanValues(out)
}

var r1c1Pattern = regexp.MustCompile(`(?i)^R(\[-?\d+\]|\d+)?C(\[-?\d+\]|\d+)?$`)

// parseR1C1 resolves an R1C1-style reference against a base cell. Bracketed
// parts are offsets from the base, bare numbers are absolute 1-based.
func parseR1C1(text string, base cell.Ref) (cell.Ref, bool) {
	m := r1c1Pattern.FindStringSubmatch(text)
	if m == nil {
		return cell.Ref{}, false
	}
	part := func(spec string, at int) (int, bool) {
		if spec == "" {
			return at, true
		}
		if strings.HasPrefix(spec, "[") {
			var off int
			if _, err := fmt.Sscanf(spec, "[%d]", &off); err != nil {
				return 0, false
			}
			return at + off, true
		}
		var abs int
		if _, err := fmt.Sscanf(spec, "%d", &abs); err != nil {
			return 0, false
		}
		return abs - 1, true
	}
	row, ok := part(m[1], base.Row)
	if !ok {
		return cell.Ref{}, false
	}
	col, ok := part(m[2], base.Col)
	if !ok {
		return cell.Ref{}, false
	}
	out := cell.Ref{Row: row, Col: col}
	return out, out.Valid()
}

func fnIndirect(ctx value.Context, args []value.Value) value.Value {
	text, errv := argText(args, 0)
	if errv != nil {
		return errv
	}
	a1, errv := argBoolDefault(args, 1, true)
	if errv != nil {
		return errv
	}
	text = strings.TrimSpace(text)
	resolveOne := func(part string) (cell.Ref, bool) {
		if a1 {
			r, err := cell.Parse(part)
			return r, err == nil
		}
		return parseR1C1(part, ctx.Base())
	}
	if left, right, found := strings.Cut(text, ":"); found {
		start, ok := resolveOne(strings.TrimSpace(left))
		if !ok {
			return value.Errorf(value.ErrRef, "cannot resolve %q", text)
		}
		end, ok := resolveOne(strings.TrimSpace(right))
		if !ok {
			return value.Errorf(value.ErrRef, "cannot resolve %q", text)
		}
		sp := cell.Span{Start: start, End: end}.Norm()
		if sp.Rows() == 1 && sp.Cols() == 1 {
			return ctx.CellValue(sp.Start)
		}
		return ctx.SpanValues(sp)
	}
	ref, ok := resolveOne(text)
	if !ok {
		return value.Errorf(value.ErrRef, "cannot resolve %q", text)
	}
	return ctx.CellValue(ref)
}

func fnIndex(ctx value.Context, args []value.Value) value.Value {
	if errv := firstError(args[:1]); errv != nil {
		return errv
	}
	a := asArray(args[0])
	row, errv := argInt(args, 1)
	if errv != nil {
		return errv
	}
	col := 0
	if argProvided(args, 2) {
		col, errv = argInt(args, 2)
		if errv != nil {
			return errv
		}
	} else if a.Rows() == 1 && row <= a.Cols() && a.Cols() > 1 {
		// a single index into a row vector selects by column
		row, col = 1, row
	} else if a.Cols() == 1 || a.Rows() == 1 {
		col = 1
	}
	if row < 0 || col < 0 || row > a.Rows() || col > a.Cols() {
		return value.NewError(value.ErrRef, "index out of range")
	}
	switch {
	case row == 0 && col == 0:
		return a
	case row == 0:
		return value.Column(a.ColSlice(col - 1))
	case col == 0:
		return value.Row(a.RowSlice(row - 1))
	}
	return a.At(row-1, col-1)
}

func scalarRank(s value.Scalar) int {
	switch s.(type) {
	case value.Number:
		return 0
	case value.Text:
		return 1
	case value.Boolean:
		return 2
	case value.Error:
		return 3
	}
	return 4
}

// cmpSame compares two scalars only when they share a comparable type.
func cmpSame(a, b value.Scalar) (int, bool) {
	ra, rb := scalarRank(a), scalarRank(b)
	if ra != rb || ra > 2 {
		return 0, false
	}
	return value.Compare(a, b), true
}

func exactMatches(lookup, cellv value.Scalar, wildcards bool) bool {
	if lt, ok := lookup.(value.Text); ok {
		ct, ok := cellv.(value.Text)
		if !ok {
			return false
		}
		if wildcards {
			return wildcardMatch(string(lt), string(ct))
		}
		return strings.EqualFold(string(lt), string(ct))
	}
	c, ok := cmpSame(lookup, cellv)
	return ok && c == 0
}

func vectorOf(a *value.Array) ([]value.Scalar, bool) {
	switch {
	case a.Rows() == 1:
		return a.RowSlice(0), true
	case a.Cols() == 1:
		return a.ColSlice(0), true
	}
	return nil, false
}

// approxLast finds the largest element not exceeding lookup, favoring the
// later position on ties so sorted input yields the last run member.
func approxLast(lookup value.Scalar, vec []value.Scalar) int {
	best := -1
	for i, v := range vec {
		c, ok := cmpSame(v, lookup)
		if !ok || c > 0 {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		if prev, _ := cmpSame(vec[best], v); prev <= 0 {
			best = i
		}
	}
	return best
}

func fnMatch(ctx value.Context, args []value.Value) value.Value {
	lookup := scalarArg(args, 0)
	if e, ok := lookup.(value.Error); ok {
		return e
	}
	vec, ok := vectorOf(asArray(args[1]))
	if !ok {
		return value.NewError(value.ErrNA, "lookup array must be one row or column")
	}
	matchType, errv := argNumDefault(args, 2, 1)
	if errv != nil {
		return errv
	}
	switch {
	case matchType == 0:
		for i, v := range vec {
			if exactMatches(lookup, v, true) {
				return value.Number(i + 1)
			}
		}
	case matchType > 0:
		if best := approxLast(lookup, vec); best >= 0 {
			return value.Number(best + 1)
		}
	default:
		// descending data: smallest value still >= lookup
		best := -1
		for i, v := range vec {
			c, ok := cmpSame(v, lookup)
			if !ok || c < 0 {
				continue
			}
			if best < 0 {
				best = i
				continue
			}
			if prev, _ := cmpSame(vec[best], v); prev >= 0 {
				best = i
			}
		}
		if best >= 0 {
			return value.Number(best + 1)
		}
	}
	return value.NewError(value.ErrNA, "no match")
}

// xfind is the shared matcher behind XMATCH and XLOOKUP.
func xfind(lookup value.Scalar, vec []value.Scalar, matchMode, searchMode int) (int, value.Value) {
	switch matchMode {
	case 0, -1, 1, 2:
	default:
		return 0, value.NewError(value.ErrValue, "unknown match mode")
	}
	if searchMode == 2 || searchMode == -2 {
		return xfindBinary(lookup, vec, matchMode, searchMode == -2)
	}
	if searchMode != 1 && searchMode != -1 {
		return 0, value.NewError(value.ErrValue, "unknown search mode")
	}
	order := make([]int, len(vec))
	for i := range order {
		if searchMode == 1 {
			order[i] = i
		} else {
			order[i] = len(vec) - 1 - i
		}
	}
	smaller, larger := -1, -1
	for _, i := range order {
		v := vec[i]
		if exactMatches(lookup, v, matchMode == 2) {
			return i, nil
		}
		if matchMode == -1 || matchMode == 1 {
			c, ok := cmpSame(v, lookup)
			if !ok {
				continue
			}
			if c < 0 {
				if smaller < 0 {
					smaller = i
				} else if prev, _ := cmpSame(vec[smaller], v); prev < 0 {
					smaller = i
				}
			} else if c > 0 {
				if larger < 0 {
					larger = i
				} else if prev, _ := cmpSame(vec[larger], v); prev > 0 {
					larger = i
				}
			}
		}
	}
	if matchMode == -1 && smaller >= 0 {
		return smaller, nil
	}
	if matchMode == 1 && larger >= 0 {
		return larger, nil
	}
	return 0, value.NewError(value.ErrNA, "no match")
}

func xfindBinary(lookup value.Scalar, vec []value.Scalar, matchMode int, descending bool) (int, value.Value) {
	n := len(vec)
	var lb int
	if descending {
		lb = sort.Search(n, func(i int) bool { return value.Compare(vec[i], lookup) <= 0 })
	} else {
		lb = sort.Search(n, func(i int) bool { return value.Compare(vec[i], lookup) >= 0 })
	}
	equalAt := -1
	if lb < n && value.Compare(vec[lb], lookup) == 0 {
		equalAt = lb
	}
	switch matchMode {
	case 0, 2:
		if equalAt >= 0 {
			return equalAt, nil
		}
	case -1:
		if equalAt >= 0 {
			return equalAt, nil
		}
		if descending {
			if lb < n {
				return lb, nil
			}
		} else if lb > 0 {
			return lb - 1, nil
		}
	case 1:
		if equalAt >= 0 {
			return equalAt, nil
		}
		if descending {
			if lb > 0 {
				return lb - 1, nil
			}
		} else if lb < n {
			return lb, nil
		}
	}
	return 0, value.NewError(value.ErrNA, "no match")
}

func fnXmatch(ctx value.Context, args []value.Value) value.Value {
	lookup := scalarArg(args, 0)
	if e, ok := lookup.(value.Error); ok {
		return e
	}
	vec, ok := vectorOf(asArray(args[1]))
	if !ok {
		return value.NewError(value.ErrValue, "lookup array must be one row or column")
	}
	matchMode, errv := argIntDefault(args, 2, 0)
	if errv != nil {
		return errv
	}
	searchMode, errv := argIntDefault(args, 3, 1)
	if errv != nil {
		return errv
	}
	idx, errv := xfind(lookup, vec, matchMode, searchMode)
	if errv != nil {
		return errv
	}
	return value.Number(idx + 1)
}

func tableLookup(args []value.Value, byRow bool) value.Value {
	lookup := scalarArg(args, 0)
	if e, ok := lookup.(value.Error); ok {
		return e
	}
	table := asArray(args[1])
	idx, errv := argInt(args, 2)
	if errv != nil {
		return errv
	}
	approx, errv := argBoolDefault(args, 3, true)
	if errv != nil {
		return errv
	}
	limit := table.Cols()
	if byRow {
		limit = table.Rows()
	}
	if idx < 1 {
		return value.NewError(value.ErrValue, "return index out of range")
	}
	if idx > limit {
		return value.NewError(value.ErrRef, "return index beyond the table")
	}
	var keys []value.Scalar
	if byRow {
		keys = table.RowSlice(0)
	} else {
		keys = table.ColSlice(0)
	}
	at := -1
	if approx {
		at = approxLast(lookup, keys)
	} else {
		for i, v := range keys {
			if exactMatches(lookup, v, true) {
				at = i
				break
			}
		}
	}
	if at < 0 {
		return value.NewError(value.ErrNA, "no match")
	}
	if byRow {
		return table.At(idx-1, at)
	}
	return table.At(at, idx-1)
}

func fnVlookup(ctx value.Context, args []value.Value) value.Value {
	return tableLookup(args, false)
}

func fnHlookup(ctx value.Context, args []value.Value) value.Value {
	return tableLookup(args, true)
}

func fnLookup(ctx value.Context, args []value.Value) value.Value {
	lookup := scalarArg(args, 0)
	if e, ok := lookup.(value.Error); ok {
		return e
	}
	a := asArray(args[1])
	if argProvided(args, 2) {
		keys, ok := vectorOf(a)
		if !ok {
			return value.NewError(value.ErrNA, "lookup vector must be one row or column")
		}
		results, ok := vectorOf(asArray(args[2]))
		if !ok || len(results) != len(keys) {
			return value.NewError(value.ErrNA, "result vector does not match")
		}
		at := approxLast(lookup, keys)
		if at < 0 {
			return value.NewError(value.ErrNA, "no match")
		}
		return results[at]
	}
	// array form: search the first column, or the first row of a wide array
	if a.Cols() > a.Rows() {
		at := approxLast(lookup, a.RowSlice(0))
		if at < 0 {
			return value.NewError(value.ErrNA, "no match")
		}
		return a.At(a.Rows()-1, at)
	}
	at := approxLast(lookup, a.ColSlice(0))
	if at < 0 {
		return value.NewError(value.ErrNA, "no match")
	}
	return a.At(at, a.Cols()-1)
}

func fnXlookup(ctx value.Context, args []value.Value) value.Value {
	lookup := scalarArg(args, 0)
	if e, ok := lookup.(value.Error); ok {
		return e
	}
	lookupArr := asArray(args[1])
	vec, ok := vectorOf(lookupArr)
	if !ok {
		return value.NewError(value.ErrValue, "lookup array must be one row or column")
	}
	ret := asArray(args[2])
	matchMode, errv := argIntDefault(args, 4, 0)
	if errv != nil {
		return errv
	}
	searchMode, errv := argIntDefault(args, 5, 1)
	if errv != nil {
		return errv
	}
	byColumn := lookupArr.Cols() == 1 && lookupArr.Rows() > 1
	if byColumn && ret.Rows() != len(vec) || !byColumn && ret.Cols() != len(vec) {
		return value.NewError(value.ErrValue, "return array does not match the lookup array")
	}
	idx, notFound := xfind(lookup, vec, matchMode, searchMode)
	if notFound != nil {
		if argProvided(args, 3) {
			return args[3]
		}
		return notFound
	}
	if byColumn {
		row := ret.RowSlice(idx)
		if len(row) == 1 {
			return row[0]
		}
		return value.Row(row)
	}
	col := ret.ColSlice(idx)
	if len(col) == 1 {
		return col[0]
	}
	return value.Column(col)
}

func fnTranspose(ctx value.Context, args []value.Value) value.Value {
	if e, ok := value.AsError(args[0]); ok {
		return e
	}
	return asArray(args[0]).Transpose()
}

var lookupCollator = collate.New(language.English, collate.IgnoreCase)

// sortCompare orders scalars for SORT: numbers, then text under the
// collator, then logicals, then errors. Blanks are handled by the caller so
// they sink regardless of direction.
func sortCompare(a, b value.Scalar) int {
	ra, rb := scalarRank(a), scalarRank(b)
	if ra != rb {
		return ra - rb
	}
	switch av := a.(type) {
	case value.Text:
		return lookupCollator.CompareString(string(av), string(b.(value.Text)))
	case value.Error:
		return int(av.Kind) - int(b.(value.Error).Kind)
	case value.Empty:
		return 0
	}
	return value.Compare(a, b)
}

func directionalCompare(a, b value.Scalar, order int) int {
	ea := scalarRank(a) == 4
	eb := scalarRank(b) == 4
	if ea || eb {
		switch {
		case ea && eb:
			return 0
		case ea:
			return 1
		}
		return -1
	}
	return order * sortCompare(a, b)
}

func sortedRowOrder(a *value.Array, key int, order int) []int {
	idx := make([]int, a.Rows())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return directionalCompare(a.At(idx[i], key), a.At(idx[j], key), order) < 0
	})
	return idx
}

func rowsReordered(a *value.Array, order []int) *value.Array {
	out := value.NewArray(a.Rows(), a.Cols())
	for r, src := range order {
		for c := 0; c < a.Cols(); c++ {
			out.Set(r, c, a.At(src, c))
		}
	}
	return out
}

func fnSort(ctx value.Context, args []value.Value) value.Value {
	if e, ok := value.AsError(args[0]); ok {
		return e
	}
	a := asArray(args[0])
	key, errv := argIntDefault(args, 1, 1)
	if errv != nil {
		return errv
	}
	order, errv := argIntDefault(args, 2, 1)
	if errv != nil {
		return errv
	}
	byCol, errv := argBoolDefault(args, 3, false)
	if errv != nil {
		return errv
	}
	if order != 1 && order != -1 {
		return value.NewError(value.ErrValue, "sort order must be 1 or -1")
	}
	if byCol {
		a = a.Transpose()
	}
	if key < 1 || key > a.Cols() {
		return value.NewError(value.ErrValue, "sort index out of range")
	}
	out := rowsReordered(a, sortedRowOrder(a, key-1, order))
	if byCol {
		out = out.Transpose()
	}
	return out
}

func fnSortBy(ctx value.Context, args []value.Value) value.Value {
	if e, ok := value.AsError(args[0]); ok {
		return e
	}
	a := asArray(args[0])
	type keyVec struct {
		vals  []value.Scalar
		order int
	}
	var keys []keyVec
	byCol := false
	for i := 1; i < len(args); {
		if e, ok := value.AsError(args[i]); ok {
			return e
		}
		by := asArray(args[i])
		i++
		order := 1
		if i < len(args) {
			if _, isArr := args[i].(*value.Array); !isArr && argProvided(args, i) {
				var errv value.Value
				order, errv = argInt(args, i)
				if errv != nil {
					return errv
				}
				if order != 1 && order != -1 {
					return value.NewError(value.ErrValue, "sort order must be 1 or -1")
				}
				i++
			}
		}
		switch {
		case by.Cols() == 1 && by.Rows() == a.Rows():
			if len(keys) == 0 {
				byCol = false
			} else if byCol {
				return value.NewError(value.ErrValue, "key vectors must share an orientation")
			}
			keys = append(keys, keyVec{by.ColSlice(0), order})
		case by.Rows() == 1 && by.Cols() == a.Cols():
			if len(keys) == 0 {
				byCol = true
			} else if !byCol {
				return value.NewError(value.ErrValue, "key vectors must share an orientation")
			}
			keys = append(keys, keyVec{by.RowSlice(0), order})
		default:
			return value.NewError(value.ErrValue, "key vector does not match the array")
		}
	}
	if len(keys) == 0 {
		return value.NewError(value.ErrValue, "SORTBY needs a key vector")
	}
	if byCol {
		a = a.Transpose()
	}
	idx := make([]int, a.Rows())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		for _, k := range keys {
			if c := directionalCompare(k.vals[idx[i]], k.vals[idx[j]], k.order); c != 0 {
				return c < 0
			}
		}
		return false
	})
	out := rowsReordered(a, idx)
	if byCol {
		out = out.Transpose()
	}
	return out
}

func scalarKey(s value.Scalar) string {
	switch v := s.(type) {
	case value.Number:
		return "n:" + value.FormatNumber(float64(v))
	case value.Text:
		return "t:" + strings.ToUpper(string(v))
	case value.Boolean:
		return "b:" + value.ToText(v)
	case value.Error:
		return "e:" + v.String()
	}
	return "_"
}

func fnUnique(ctx value.Context, args []value.Value) value.Value {
	if e, ok := value.AsError(args[0]); ok {
		return e
	}
	a := asArray(args[0])
	byCol, errv := argBoolDefault(args, 1, false)
	if errv != nil {
		return errv
	}
	exactlyOnce, errv := argBoolDefault(args, 2, false)
	if errv != nil {
		return errv
	}
	if byCol {
		a = a.Transpose()
	}
	counts := make(map[string]int, a.Rows())
	rowKeys := make([]string, a.Rows())
	for r := 0; r < a.Rows(); r++ {
		parts := make([]string, a.Cols())
		for c := 0; c < a.Cols(); c++ {
			parts[c] = scalarKey(a.At(r, c))
		}
		rowKeys[r] = strings.Join(parts, "\x00")
		counts[rowKeys[r]]++
	}
	var keep []int
	seen := make(map[string]bool, len(counts))
	for r := 0; r < a.Rows(); r++ {
		k := rowKeys[r]
		if exactlyOnce {
			if counts[k] == 1 {
				keep = append(keep, r)
			}
			continue
		}
		if !seen[k] {
			seen[k] = true
			keep = append(keep, r)
		}
	}
	if len(keep) == 0 {
		return value.NewError(value.ErrValue, "no rows to keep")
	}
	out := value.NewArray(len(keep), a.Cols())
	for i, src := range keep {
		for c := 0; c < a.Cols(); c++ {
			out.Set(i, c, a.At(src, c))
		}
	}
	if byCol {
		out = out.Transpose()
	}
	return out
}

package fn

import (
	"math"

	"github.com/cellmath/formula/value"
)

func registerArray(r *Registry) {
	r.Register(Def{Name: "BYCOL", Category: "array", MinArgs: 2, MaxArgs: 2,
		Syntax: "BYCOL(array, function)", Desc: "Applies a function to each column.", Fn: fnByCol})
	r.Register(Def{Name: "BYROW", Category: "array", MinArgs: 2, MaxArgs: 2,
		Syntax: "BYROW(array, function)", Desc: "Applies a function to each row.", Fn: fnByRow})
	r.Register(Def{Name: "CHOOSECOLS", Category: "array", MinArgs: 2, MaxArgs: -1,
		Syntax: "CHOOSECOLS(array, col_num1, ...)", Desc: "Returns the named columns of an array.", Fn: fnChooseCols})
	r.Register(Def{Name: "CHOOSEROWS", Category: "array", MinArgs: 2, MaxArgs: -1,
		Syntax: "CHOOSEROWS(array, row_num1, ...)", Desc: "Returns the named rows of an array.", Fn: fnChooseRows})
	r.Register(Def{Name: "DROP", Category: "array", MinArgs: 2, MaxArgs: 3,
		Syntax: "DROP(array, rows, [columns])", Desc: "Removes rows or columns from an edge.", Fn: fnDrop})
	r.Register(Def{Name: "EXPAND", Category: "array", MinArgs: 2, MaxArgs: 4,
		Syntax: "EXPAND(array, rows, [columns], [pad_with])", Desc: "Grows an array, padding new cells.", Fn: fnExpand})
	r.Register(Def{Name: "FILTER", Category: "array", MinArgs: 2, MaxArgs: 3,
		Syntax: "FILTER(array, include, [if_empty])", Desc: "Keeps the rows or columns flagged by a mask.", Fn: fnFilter})
	r.Register(Def{Name: "HSTACK", Category: "array", MinArgs: 1, MaxArgs: -1,
		Syntax: "HSTACK(array1, ...)", Desc: "Joins arrays side by side.", Fn: fnHStack})
	r.Register(Def{Name: "MAKEARRAY", Category: "array", MinArgs: 3, MaxArgs: 3,
		Syntax: "MAKEARRAY(rows, columns, function)", Desc: "Builds an array from a function of row and column.", Fn: fnMakeArray})
	r.Register(Def{Name: "MAP", Category: "array", MinArgs: 2, MaxArgs: -1,
		Syntax: "MAP(array1, ..., function)", Desc: "Applies a function elementwise.", Fn: fnMap})
	r.Register(Def{Name: "REDUCE", Category: "array", MinArgs: 3, MaxArgs: 3,
		Syntax: "REDUCE(initial_value, array, function)", Desc: "Folds an array into one value.", Fn: fnReduce})
	r.Register(Def{Name: "SCAN", Category: "array", MinArgs: 3, MaxArgs: 3,
		Syntax: "SCAN(initial_value, array, function)", Desc: "Folds an array, keeping every intermediate.", Fn: fnScan})
	r.Register(Def{Name: "SEQUENCE", Category: "array", MinArgs: 1, MaxArgs: 4,
		Syntax: "SEQUENCE(rows, [columns], [start], [step])", Desc: "Array of sequential numbers.", Fn: fnSequence})
	r.Register(Def{Name: "TAKE", Category: "array", MinArgs: 2, MaxArgs: 3,
		Syntax: "TAKE(array, rows, [columns])", Desc: "Keeps rows or columns from an edge.", Fn: fnTake})
	r.Register(Def{Name: "TOCOL", Category: "array", MinArgs: 1, MaxArgs: 3,
		Syntax: "TOCOL(array, [ignore], [scan_by_column])", Desc: "Flattens an array into one column.", Fn: fnToCol})
	r.Register(Def{Name: "TOROW", Category: "array", MinArgs: 1, MaxArgs: 3,
		Syntax: "TOROW(array, [ignore], [scan_by_column])", Desc: "Flattens an array into one row.", Fn: fnToRow})
	r.Register(Def{Name: "VSTACK", Category: "array", MinArgs: 1, MaxArgs: -1,
		Syntax: "VSTACK(array1, ...)", Desc: "Stacks arrays on top of each other.", Fn: fnVStack})
	r.Register(Def{Name: "WRAPCOLS", Category: "array", MinArgs: 2, MaxArgs: 3,
		Syntax: "WRAPCOLS(vector, wrap_count, [pad_with])", Desc: "Wraps a vector into columns of a given length.", Fn: fnWrapCols})
	r.Register(Def{Name: "WRAPROWS", Category: "array", MinArgs: 2, MaxArgs: 3,
		Syntax: "WRAPROWS(vector, wrap_count, [pad_with])", Desc: "Wraps a vector into rows of a given length.", Fn: fnWrapRows})
}

func padCell() value.Scalar {
	return value.NewError(value.ErrNA, "padded cell")
}

func funcArg(args []value.Value, i int) (value.Value, value.Value) {
	if !argProvided(args, i) {
		return nil, value.NewError(value.ErrValue, "function expected")
	}
	switch f := args[i].(type) {
	case value.Error:
		return nil, f
	case *value.Lambda, value.Text:
		return args[i], nil
	}
	return nil, value.NewError(value.ErrValue, "function expected")
}

func fnByCol(ctx value.Context, args []value.Value) value.Value {
	if e, ok := value.AsError(args[0]); ok {
		return e
	}
	fn, errv := funcArg(args, 1)
	if errv != nil {
		return errv
	}
	a := asArray(args[0])
	out := value.NewArray(1, a.Cols())
	for c := 0; c < a.Cols(); c++ {
		out.Set(0, c, value.AsScalar(ctx.Apply(fn, []value.Value{value.Column(a.ColSlice(c))})))
	}
	return out
}

func fnByRow(ctx value.Context, args []value.Value) value.Value {
	if e, ok := value.AsError(args[0]); ok {
		return e
	}
	fn, errv := funcArg(args, 1)
	if errv != nil {
		return errv
	}
	a := asArray(args[0])
	out := value.NewArray(a.Rows(), 1)
	for r := 0; r < a.Rows(); r++ {
		out.Set(r, 0, value.AsScalar(ctx.Apply(fn, []value.Value{value.Row(a.RowSlice(r))})))
	}
	return out
}

// pickIndexes resolves 1-based choose indexes, counting from the end when
// negative.
func pickIndexes(args []value.Value, limit int) ([]int, value.Value) {
	out := make([]int, 0, len(args))
	for i := range args {
		idx, errv := argInt(args, i)
		if errv != nil {
			return nil, errv
		}
		if idx < 0 {
			idx = limit + idx + 1
		}
		if idx < 1 || idx > limit {
			return nil, value.NewError(value.ErrValue, "index out of range")
		}
		out = append(out, idx-1)
	}
	return out, nil
}

func fnChooseCols(ctx value.Context, args []value.Value) value.Value {
	if e, ok := value.AsError(args[0]); ok {
		return e
	}
	a := asArray(args[0])
	cols, errv := pickIndexes(args[1:], a.Cols())
	if errv != nil {
		return errv
	}
	out := value.NewArray(a.Rows(), len(cols))
	for r := 0; r < a.Rows(); r++ {
		for i, c := range cols {
			out.Set(r, i, a.At(r, c))
		}
	}
	return out
}

func fnChooseRows(ctx value.Context, args []value.Value) value.Value {
	if e, ok := value.AsError(args[0]); ok {
		return e
	}
	a := asArray(args[0])
	rows, errv := pickIndexes(args[1:], a.Rows())
	if errv != nil {
		return errv
	}
	out := value.NewArray(len(rows), a.Cols())
	for i, r := range rows {
		for c := 0; c < a.Cols(); c++ {
			out.Set(i, c, a.At(r, c))
		}
	}
	return out
}

func edgeCount(args []value.Value, i, dim int) (int, value.Value) {
	if !argProvided(args, i) {
		return 0, nil
	}
	n, errv := argInt(args, i)
	if errv != nil {
		return 0, errv
	}
	if n == 0 {
		return 0, value.NewError(value.ErrValue, "count must not be zero")
	}
	return n, nil
}

func fnTake(ctx value.Context, args []value.Value) value.Value {
	if e, ok := value.AsError(args[0]); ok {
		return e
	}
	a := asArray(args[0])
	rows, errv := edgeCount(args, 1, a.Rows())
	if errv != nil {
		return errv
	}
	cols, errv := edgeCount(args, 2, a.Cols())
	if errv != nil {
		return errv
	}
	slice := func(count, dim int) (int, int, value.Value) {
		if count == 0 {
			return 0, dim, nil
		}
		if count > dim || -count > dim {
			return 0, 0, value.NewError(value.ErrValue, "count exceeds the array")
		}
		if count > 0 {
			return 0, count, nil
		}
		return dim + count, dim, nil
	}
	r0, r1, errv := slice(rows, a.Rows())
	if errv != nil {
		return errv
	}
	c0, c1, errv := slice(cols, a.Cols())
	if errv != nil {
		return errv
	}
	out := value.NewArray(r1-r0, c1-c0)
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			out.Set(r-r0, c-c0, a.At(r, c))
		}
	}
	return out
}

func fnDrop(ctx value.Context, args []value.Value) value.Value {
	if e, ok := value.AsError(args[0]); ok {
		return e
	}
	a := asArray(args[0])
	rows, errv := edgeCount(args, 1, a.Rows())
	if errv != nil {
		return errv
	}
	cols, errv := edgeCount(args, 2, a.Cols())
	if errv != nil {
		return errv
	}
	slice := func(count, dim int) (int, int, value.Value) {
		if count == 0 {
			return 0, dim, nil
		}
		if count >= dim || -count >= dim {
			return 0, 0, value.NewError(value.ErrValue, "nothing left after dropping")
		}
		if count > 0 {
			return count, dim, nil
		}
		return 0, dim + count, nil
	}
	r0, r1, errv := slice(rows, a.Rows())
	if errv != nil {
		return errv
	}
	c0, c1, errv := slice(cols, a.Cols())
	if errv != nil {
		return errv
	}
	out := value.NewArray(r1-r0, c1-c0)
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			out.Set(r-r0, c-c0, a.At(r, c))
		}
	}
	return out
}

func fnExpand(ctx value.Context, args []value.Value) value.Value {
	if e, ok := value.AsError(args[0]); ok {
		return e
	}
	a := asArray(args[0])
	rows, errv := argIntDefault(args, 1, a.Rows())
	if errv != nil {
		return errv
	}
	cols, errv := argIntDefault(args, 2, a.Cols())
	if errv != nil {
		return errv
	}
	if rows < a.Rows() || cols < a.Cols() {
		return value.NewError(value.ErrValue, "EXPAND cannot shrink an array")
	}
	pad := padCell()
	if argProvided(args, 3) {
		pad = scalarArg(args, 3)
	}
	out := value.NewArray(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if r < a.Rows() && c < a.Cols() {
				out.Set(r, c, a.At(r, c))
			} else {
				out.Set(r, c, pad)
			}
		}
	}
	return out
}

func fnFilter(ctx value.Context, args []value.Value) value.Value {
	if e, ok := value.AsError(args[0]); ok {
		return e
	}
	a := asArray(args[0])
	if e, ok := value.AsError(args[1]); ok {
		return e
	}
	include := asArray(args[1])
	mask := func(vals []value.Scalar) ([]int, value.Value) {
		var keep []int
		for i, s := range vals {
			if e, ok := s.(value.Error); ok {
				return nil, e
			}
			b, ok := value.ToBool(s)
			if !ok {
				return nil, value.NewError(value.ErrValue, "include entries must be logical")
			}
			if b {
				keep = append(keep, i)
			}
		}
		return keep, nil
	}
	empty := func() value.Value {
		if argProvided(args, 2) {
			return args[2]
		}
		return value.NewError(value.ErrValue, "no cells match the filter")
	}
	switch {
	case include.Cols() == 1 && include.Rows() == a.Rows():
		keep, errv := mask(include.ColSlice(0))
		if errv != nil {
			return errv
		}
		if len(keep) == 0 {
			return empty()
		}
		out := value.NewArray(len(keep), a.Cols())
		for i, r := range keep {
			for c := 0; c < a.Cols(); c++ {
				out.Set(i, c, a.At(r, c))
			}
		}
		return out
	case include.Rows() == 1 && include.Cols() == a.Cols():
		keep, errv := mask(include.RowSlice(0))
		if errv != nil {
			return errv
		}
		if len(keep) == 0 {
			return empty()
		}
		out := value.NewArray(a.Rows(), len(keep))
		for r := 0; r < a.Rows(); r++ {
			for i, c := range keep {
				out.Set(r, i, a.At(r, c))
			}
		}
		return out
	}
	return value.NewError(value.ErrValue, "include mask does not match the array")
}

func fnHStack(ctx value.Context, args []value.Value) value.Value {
	parts := make([]*value.Array, 0, len(args))
	rows, cols := 0, 0
	for i := range args {
		if e, ok := value.AsError(args[i]); ok {
			return e
		}
		a := asArray(args[i])
		parts = append(parts, a)
		if a.Rows() > rows {
			rows = a.Rows()
		}
		cols += a.Cols()
	}
	out := value.NewArray(rows, cols)
	at := 0
	for _, a := range parts {
		for c := 0; c < a.Cols(); c++ {
			for r := 0; r < rows; r++ {
				if r < a.Rows() {
					out.Set(r, at, a.At(r, c))
				} else {
					out.Set(r, at, padCell())
				}
			}
			at++
		}
	}
	return out
}

func fnVStack(ctx value.Context, args []value.Value) value.Value {
	parts := make([]*value.Array, 0, len(args))
	rows, cols := 0, 0
	for i := range args {
		if e, ok := value.AsError(args[i]); ok {
			return e
		}
		a := asArray(args[i])
		parts = append(parts, a)
		if a.Cols() > cols {
			cols = a.Cols()
		}
		rows += a.Rows()
	}
	out := value.NewArray(rows, cols)
	at := 0
	for _, a := range parts {
		for r := 0; r < a.Rows(); r++ {
			for c := 0; c < cols; c++ {
				if c < a.Cols() {
					out.Set(at, c, a.At(r, c))
				} else {
					out.Set(at, c, padCell())
				}
			}
			at++
		}
	}
	return out
}

func fnMakeArray(ctx value.Context, args []value.Value) value.Value {
	rows, errv := argInt(args, 0)
	if errv != nil {
		return errv
	}
	cols, errv := argInt(args, 1)
	if errv != nil {
		return errv
	}
	fn, errv := funcArg(args, 2)
	if errv != nil {
		return errv
	}
	if rows <= 0 || cols <= 0 {
		return value.NewError(value.ErrValue, "MAKEARRAY dimensions must be positive")
	}
	out := value.NewArray(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out.Set(r, c, value.AsScalar(ctx.Apply(fn, []value.Value{value.Number(r + 1), value.Number(c + 1)})))
		}
	}
	return out
}

func fnMap(ctx value.Context, args []value.Value) value.Value {
	fn, errv := funcArg(args, len(args)-1)
	if errv != nil {
		return errv
	}
	arrays := make([]*value.Array, len(args)-1)
	rows, cols := 1, 1
	for i := range arrays {
		if e, ok := value.AsError(args[i]); ok {
			return e
		}
		arrays[i] = asArray(args[i])
		if arrays[i].Rows() > rows {
			rows = arrays[i].Rows()
		}
		if arrays[i].Cols() > cols {
			cols = arrays[i].Cols()
		}
	}
	if len(arrays) == 0 {
		return value.NewError(value.ErrValue, "MAP needs an array")
	}
	for _, a := range arrays {
		if a.Len() != 1 && (a.Rows() != rows || a.Cols() != cols) {
			return value.NewError(value.ErrValue, "MAP arrays differ in size")
		}
	}
	out := value.NewArray(rows, cols)
	cellArgs := make([]value.Value, len(arrays))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			for i, a := range arrays {
				if a.Len() == 1 {
					cellArgs[i] = a.Flat(0)
				} else {
					cellArgs[i] = a.At(r, c)
				}
			}
			out.Set(r, c, value.AsScalar(ctx.Apply(fn, cellArgs)))
		}
	}
	return out
}

func fnReduce(ctx value.Context, args []value.Value) value.Value {
	acc := args[0]
	if acc == nil {
		acc = value.Empty{}
	}
	if e, ok := value.AsError(args[1]); ok {
		return e
	}
	fn, errv := funcArg(args, 2)
	if errv != nil {
		return errv
	}
	a := asArray(args[1])
	for r := 0; r < a.Rows(); r++ {
		for c := 0; c < a.Cols(); c++ {
			acc = ctx.Apply(fn, []value.Value{acc, a.At(r, c)})
		}
	}
	return acc
}

func fnScan(ctx value.Context, args []value.Value) value.Value {
	var acc value.Value = value.Empty{}
	if argProvided(args, 0) {
		acc = args[0]
	}
	if e, ok := value.AsError(args[1]); ok {
		return e
	}
	fn, errv := funcArg(args, 2)
	if errv != nil {
		return errv
	}
	a := asArray(args[1])
	out := value.NewArray(a.Rows(), a.Cols())
	for r := 0; r < a.Rows(); r++ {
		for c := 0; c < a.Cols(); c++ {
			acc = ctx.Apply(fn, []value.Value{acc, a.At(r, c)})
			out.Set(r, c, value.AsScalar(acc))
		}
	}
	return out
}

func fnSequence(ctx value.Context, args []value.Value) value.Value {
	rows, errv := argInt(args, 0)
	if errv != nil {
		return errv
	}
	cols, errv := argIntDefault(args, 1, 1)
	if errv != nil {
		return errv
	}
	start, errv := argNumDefault(args, 2, 1)
	if errv != nil {
		return errv
	}
	step, errv := argNumDefault(args, 3, 1)
	if errv != nil {
		return errv
	}
	if rows <= 0 || cols <= 0 {
		return value.NewError(value.ErrValue, "SEQUENCE dimensions must be positive")
	}
	out := value.NewArray(rows, cols)
	for i := 0; i < out.Len(); i++ {
		out.SetFlat(i, value.Number(start+float64(i)*step))
	}
	return out
}

func flatten(args []value.Value, asRow bool) value.Value {
	if e, ok := value.AsError(args[0]); ok {
		return e
	}
	a := asArray(args[0])
	ignore, errv := argIntDefault(args, 1, 0)
	if errv != nil {
		return errv
	}
	byCol, errv := argBoolDefault(args, 2, false)
	if errv != nil {
		return errv
	}
	if ignore < 0 || ignore > 3 {
		return value.NewError(value.ErrValue, "unknown ignore mode")
	}
	skipBlank := ignore == 1 || ignore == 3
	skipErr := ignore == 2 || ignore == 3
	var vals []value.Scalar
	visit := func(s value.Scalar) {
		switch s.(type) {
		case value.Empty:
			if skipBlank {
				return
			}
		case value.Error:
			if skipErr {
				return
			}
		}
		vals = append(vals, s)
	}
	if byCol {
		for c := 0; c < a.Cols(); c++ {
			for r := 0; r < a.Rows(); r++ {
				visit(a.At(r, c))
			}
		}
	} else {
		for i := 0; i < a.Len(); i++ {
			visit(a.Flat(i))
		}
	}
	if len(vals) == 0 {
		return value.NewError(value.ErrValue, "no cells to keep")
	}
	if asRow {
		return value.Row(vals)
	}
	return value.Column(vals)
}

func fnToCol(ctx value.Context, args []value.Value) value.Value {
	return flatten(args, false)
}

func fnToRow(ctx value.Context, args []value.Value) value.Value {
	return flatten(args, true)
}

func wrapVector(args []value.Value, byCol bool) value.Value {
	if e, ok := value.AsError(args[0]); ok {
		return e
	}
	vec, ok := vectorOf(asArray(args[0]))
	if !ok {
		return value.NewError(value.ErrValue, "vector must be one row or column")
	}
	count, errv := argInt(args, 1)
	if errv != nil {
		return errv
	}
	if count < 1 {
		return value.NewError(value.ErrValue, "wrap count must be positive")
	}
	pad := padCell()
	if argProvided(args, 2) {
		pad = scalarArg(args, 2)
	}
	runs := int(math.Ceil(float64(len(vec)) / float64(count)))
	var out *value.Array
	if byCol {
		out = value.NewArray(count, runs)
	} else {
		out = value.NewArray(runs, count)
	}
	for i := 0; i < out.Len(); i++ {
		run, at := i/count, i%count
		var s value.Scalar = pad
		if i < len(vec) {
			s = vec[i]
		}
		if byCol {
			out.Set(at, run, s)
		} else {
			out.Set(run, at, s)
		}
	}
	return out
}

func fnWrapCols(ctx value.Context, args []value.Value) value.Value {
	return wrapVector(args, true)
}

func fnWrapRows(ctx value.Context, args []value.Value) value.Value {
	return wrapVector(args, false)
}

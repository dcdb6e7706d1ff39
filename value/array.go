package value

import (
	"iter"
	"strings"
)

// Array is a rectangular grid of scalars in row-major order. element type
// Scalar keeps nesting impossible: an array cell can hold a number, text, a
// boolean, an error, or nothing, never another array.
type Array struct {
	rows  int
	cols  int
	cells []Scalar
}

func (*Array) isValue() {}

// NewArray creates a rows x cols array filled with Empty. dimensions must be
// positive; a zero- or negative-sized array is a programming error.
func NewArray(rows, cols int) *Array {
	if rows <= 0 || cols <= 0 {
		panic("value: array dimensions must be positive")
	}
	cells := make([]Scalar, rows*cols)
	for i := range cells {
		cells[i] = Empty{}
	}
	return &Array{rows: rows, cols: cols, cells: cells}
}

// FromRows builds an array from rows of scalars. all rows must have the same
// length.
func FromRows(rows [][]Scalar) *Array {
	a := NewArray(len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != a.cols {
			panic("value: ragged rows in array literal")
		}
		for c, v := range row {
			a.cells[r*a.cols+c] = v
		}
	}
	return a
}

// Column builds a single-column array from a slice of scalars.
func Column(vals []Scalar) *Array {
	a := NewArray(len(vals), 1)
	copy(a.cells, vals)
	return a
}

// Row builds a single-row array from a slice of scalars.
func Row(vals []Scalar) *Array {
	a := NewArray(1, len(vals))
	copy(a.cells, vals)
	return a
}

// NumberColumn builds a single-column array from floats. convenience for
// tests and fixtures.
func NumberColumn(vals []float64) *Array {
	a := NewArray(len(vals), 1)
	for i, f := range vals {
		a.cells[i] = Number(f)
	}
	return a
}

// Rows returns the row count.
func (a *Array) Rows() int { return a.rows }

// Cols returns the column count.
func (a *Array) Cols() int { return a.cols }

// Len returns the total cell count.
func (a *Array) Len() int { return len(a.cells) }

// At returns the scalar at (row, col), zero-based.
func (a *Array) At(r, c int) Scalar {
	return a.cells[r*a.cols+c]
}

// Set stores a scalar at (row, col), zero-based.
func (a *Array) Set(r, c int, v Scalar) {
	a.cells[r*a.cols+c] = v
}

// Flat returns the scalar at a row-major flat index.
func (a *Array) Flat(i int) Scalar {
	return a.cells[i]
}

// SetFlat stores a scalar at a row-major flat index.
func (a *Array) SetFlat(i int, v Scalar) {
	a.cells[i] = v
}

// All iterates the cells in row-major order.
func (a *Array) All() iter.Seq[Scalar] {
	return func(yield func(Scalar) bool) {
		for _, v := range a.cells {
			if !yield(v) {
				return
			}
		}
	}
}

// RowSlice returns a copy of one row.
func (a *Array) RowSlice(r int) []Scalar {
	out := make([]Scalar, a.cols)
	copy(out, a.cells[r*a.cols:(r+1)*a.cols])
	return out
}

// ColSlice returns a copy of one column.
func (a *Array) ColSlice(c int) []Scalar {
	out := make([]Scalar, a.rows)
	for r := 0; r < a.rows; r++ {
		out[r] = a.At(r, c)
	}
	return out
}

// Transpose returns the array with rows and columns swapped.
func (a *Array) Transpose() *Array {
	out := NewArray(a.cols, a.rows)
	for r := 0; r < a.rows; r++ {
		for c := 0; c < a.cols; c++ {
			out.Set(c, r, a.At(r, c))
		}
	}
	return out
}

// String renders the array in brace syntax: commas between columns,
// semicolons between rows, text quoted.
func (a *Array) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for r := 0; r < a.rows; r++ {
		if r > 0 {
			b.WriteByte(';')
		}
		for c := 0; c < a.cols; c++ {
			if c > 0 {
				b.WriteByte(',')
			}
			v := a.At(r, c)
			if t, ok := v.(Text); ok {
				b.WriteByte('"')
				b.WriteString(strings.ReplaceAll(string(t), `"`, `""`))
				b.WriteByte('"')
			} else {
				b.WriteString(v.String())
			}
		}
	}
	b.WriteByte('}')
	return b.String()
}

// Walk yields the scalars inside a value: an array yields its cells in
// row-major order, a scalar yields itself. a lambda has no cells and yields
// a single #VALUE!.
func Walk(v Value) iter.Seq[Scalar] {
	return func(yield func(Scalar) bool) {
		switch t := v.(type) {
		case *Array:
			for _, c := range t.cells {
				if !yield(c) {
					return
				}
			}
		case *Lambda:
			yield(NewError(ErrValue, "lambda is not a value"))
		case Scalar:
			yield(t)
		}
	}
}

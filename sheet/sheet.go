// Package sheet provides the in-memory worksheet the evaluator reads from:
// a sparse cell grid, a formula interning table, and a YAML workbook format
// used by tests and the command line tool.
package sheet

import (
	"sort"

	"github.com/cellmath/formula/cell"
	"github.com/cellmath/formula/value"
)

// Sheet is a sparse grid of settled cell values. Only occupied cells consume
// memory; everything else reads as blank. The zero Sheet is not usable,
// call New.
type Sheet struct {
	cells map[cell.Ref]value.Value
}

// New returns an empty sheet.
func New() *Sheet {
	return &Sheet{cells: make(map[cell.Ref]value.Value)}
}

// Set stores a value at ref. Storing nil or a blank clears the cell, so
// blanks never occupy memory.
func (s *Sheet) Set(ref cell.Ref, v value.Value) {
	if v == nil {
		delete(s.cells, ref)
		return
	}
	if _, blank := v.(value.Empty); blank {
		delete(s.cells, ref)
		return
	}
	s.cells[ref] = v
}

// Get returns the value at ref and whether the cell is occupied.
func (s *Sheet) Get(ref cell.Ref) (value.Value, bool) {
	v, ok := s.cells[ref]
	return v, ok
}

// CellValue implements the evaluator's grid interface. Absent cells read as
// nil, which the evaluator treats as blank.
func (s *Sheet) CellValue(ref cell.Ref) value.Value {
	return s.cells[ref]
}

// SetA1 stores a value at an A1-style address.
func (s *Sheet) SetA1(addr string, v value.Value) error {
	ref, err := cell.Parse(addr)
	if err != nil {
		return err
	}
	s.Set(ref, v)
	return nil
}

// GetA1 returns the value at an A1-style address. A blank cell reads as
// nil with no error.
func (s *Sheet) GetA1(addr string) (value.Value, error) {
	ref, err := cell.Parse(addr)
	if err != nil {
		return nil, err
	}
	return s.cells[ref], nil
}

// Remove clears the cell at ref.
func (s *Sheet) Remove(ref cell.Ref) {
	delete(s.cells, ref)
}

// Len returns the number of occupied cells.
func (s *Sheet) Len() int {
	return len(s.cells)
}

// Clear removes every cell.
func (s *Sheet) Clear() {
	s.cells = make(map[cell.Ref]value.Value)
}

// Refs returns the occupied cells in row-major order.
func (s *Sheet) Refs() []cell.Ref {
	refs := make([]cell.Ref, 0, len(s.cells))
	for ref := range s.cells {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Row != refs[j].Row {
			return refs[i].Row < refs[j].Row
		}
		return refs[i].Col < refs[j].Col
	})
	return refs
}

// Bounds returns the smallest span covering every occupied cell, and false
// when the sheet is empty.
func (s *Sheet) Bounds() (cell.Span, bool) {
	if len(s.cells) == 0 {
		return cell.Span{}, false
	}
	first := true
	var span cell.Span
	for ref := range s.cells {
		if first {
			span = cell.Span{Start: ref, End: ref}
			first = false
			continue
		}
		if ref.Row < span.Start.Row {
			span.Start.Row = ref.Row
		}
		if ref.Col < span.Start.Col {
			span.Start.Col = ref.Col
		}
		if ref.Row > span.End.Row {
			span.End.Row = ref.Row
		}
		if ref.Col > span.End.Col {
			span.End.Col = ref.Col
		}
	}
	return span, true
}

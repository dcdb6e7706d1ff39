// Package cell provides A1-notation cell addresses and rectangular spans.
// Rows and columns are zero-based internally; A1 text is one-based the way
// spreadsheets display it.
package cell

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// Ref identifies a single cell by zero-based row and column.
type Ref struct {
	Row int
	Col int
}

// Span is a rectangle of cells, inclusive on both corners.
type Span struct {
	Start Ref
	End   Ref
}

// ColName converts a zero-based column index to its letter name
// (0 -> A, 25 -> Z, 26 -> AA).
func ColName(col int) string {
	if col < 0 {
		return ""
	}
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return name
}

// ColIndex converts a column letter name to its zero-based index
// (A -> 0, Z -> 25, AA -> 26).
func ColIndex(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	col := 0
	for i, ch := range name {
		if ch >= 'a' && ch <= 'z' {
			ch -= 32
		}
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column name: %s", name)
		}
		col = col*26 + int(ch-'A')
		if i < len(name)-1 {
			col++ // positional notation: AA follows Z
		}
	}
	return col, nil
}

// Parse parses an A1-style cell reference into a Ref. absolute markers ($)
// are accepted and ignored; they only matter for formula rewriting, not for
// resolution.
func Parse(s string) (Ref, error) {
	s = strings.TrimPrefix(s, "$")
	letterEnd := 0
	for i, ch := range s {
		if (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') {
			letterEnd = i + 1
		} else {
			break
		}
	}
	if letterEnd == 0 || letterEnd == len(s) {
		return Ref{}, fmt.Errorf("invalid cell reference: %s", s)
	}

	col, err := ColIndex(s[:letterEnd])
	if err != nil {
		return Ref{}, fmt.Errorf("invalid cell reference: %s", s)
	}

	rowStr := strings.TrimPrefix(s[letterEnd:], "$")
	rowNum, err := strconv.Atoi(rowStr)
	if err != nil || rowNum < 1 {
		return Ref{}, fmt.Errorf("invalid row in cell reference: %s", s)
	}

	return Ref{Row: rowNum - 1, Col: col}, nil
}

// MustParse is Parse for addresses known valid at compile time. it panics on
// malformed input.
func MustParse(s string) Ref {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// IsRef reports whether s parses as a single A1 cell reference.
func IsRef(s string) bool {
	_, err := Parse(s)
	return err == nil
}

func (r Ref) String() string {
	return ColName(r.Col) + strconv.Itoa(r.Row+1)
}

// Offset returns the cell shifted by the given row and column deltas.
func (r Ref) Offset(rows, cols int) Ref {
	return Ref{Row: r.Row + rows, Col: r.Col + cols}
}

// Valid reports whether the reference points at a real cell.
func (r Ref) Valid() bool {
	return r.Row >= 0 && r.Col >= 0
}

// ParseSpan parses an A1-style range like "A1:B4". a bare cell reference is
// accepted as a 1x1 span. the result is normalized so Start is the top-left
// corner regardless of the order the corners were written in.
func ParseSpan(s string) (Span, error) {
	colon := strings.Index(s, ":")
	if colon == -1 {
		r, err := Parse(s)
		if err != nil {
			return Span{}, err
		}
		return Span{Start: r, End: r}, nil
	}

	start, err := Parse(s[:colon])
	if err != nil {
		return Span{}, fmt.Errorf("invalid range start: %s", s)
	}
	end, err := Parse(s[colon+1:])
	if err != nil {
		return Span{}, fmt.Errorf("invalid range end: %s", s)
	}
	return Span{Start: start, End: end}.Norm(), nil
}

// MustParseSpan is ParseSpan that panics on malformed input.
func MustParseSpan(s string) Span {
	sp, err := ParseSpan(s)
	if err != nil {
		panic(err)
	}
	return sp
}

// Norm returns the span with corners reordered so Start.Row <= End.Row and
// Start.Col <= End.Col. reversed ranges (B2:A1) resolve to the same rectangle
// as their normalized form.
func (s Span) Norm() Span {
	return Span{
		Start: Ref{Row: min(s.Start.Row, s.End.Row), Col: min(s.Start.Col, s.End.Col)},
		End:   Ref{Row: max(s.Start.Row, s.End.Row), Col: max(s.Start.Col, s.End.Col)},
	}
}

func (s Span) String() string {
	if s.Start == s.End {
		return s.Start.String()
	}
	return s.Start.String() + ":" + s.End.String()
}

// Rows returns the number of rows the span covers.
func (s Span) Rows() int {
	return s.End.Row - s.Start.Row + 1
}

// Cols returns the number of columns the span covers.
func (s Span) Cols() int {
	return s.End.Col - s.Start.Col + 1
}

// Refs iterates the span's cells in row-major order. Reversed spans iterate
// the same rectangle as their normalized form.
func (s Span) Refs() iter.Seq[Ref] {
	return func(yield func(Ref) bool) {
		n := s.Norm()
		for r := n.Start.Row; r <= n.End.Row; r++ {
			for c := n.Start.Col; c <= n.End.Col; c++ {
				if !yield(Ref{Row: r, Col: c}) {
					return
				}
			}
		}
	}
}

// Contains reports whether the given cell lies inside the span.
func (s Span) Contains(r Ref) bool {
	return r.Row >= s.Start.Row && r.Row <= s.End.Row &&
		r.Col >= s.Start.Col && r.Col <= s.End.Col
}

// Intersect returns the overlap of two spans. ok is false when the spans
// share no cells.
func (s Span) Intersect(o Span) (Span, bool) {
	out := Span{
		Start: Ref{Row: max(s.Start.Row, o.Start.Row), Col: max(s.Start.Col, o.Start.Col)},
		End:   Ref{Row: min(s.End.Row, o.End.Row), Col: min(s.End.Col, o.End.Col)},
	}
	if out.Start.Row > out.End.Row || out.Start.Col > out.End.Col {
		return Span{}, false
	}
	return out, true
}

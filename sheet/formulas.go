package sheet

import (
	"sort"
	"strings"

	"github.com/cellmath/formula/cell"
	"github.com/cellmath/formula/value"
)

// ParseFunc turns formula text into an evaluable expression. The parse
// package satisfies it; taking a function keeps this package off the parser.
type ParseFunc func(string) (value.Expr, error)

// Formulas interns formula text so a workbook full of identical formulas
// parses once. Entries are shared across cells and dropped when the last
// cell carrying them goes away.
type Formulas struct {
	parse ParseFunc

	ids   map[string]uint32 // normalized text -> formula ID
	exprs map[uint32]value.Expr
	texts map[uint32]string

	// cell tracking

	atCell map[cell.Ref]uint32
	usedBy map[uint32]map[cell.Ref]struct{}

	nextID uint32
}

// NewFormulas returns an empty table that parses with parse.
func NewFormulas(parse ParseFunc) *Formulas {
	return &Formulas{
		parse:  parse,
		ids:    make(map[string]uint32),
		exprs:  make(map[uint32]value.Expr),
		texts:  make(map[uint32]string),
		atCell: make(map[cell.Ref]uint32),
		usedBy: make(map[uint32]map[cell.Ref]struct{}),
		nextID: 1, // reserve 0 for no formula
	}
}

// normalizeFormula strips the leading = and surrounding space so "=SUM(A1)"
// and " SUM(A1) " intern to the same entry.
func normalizeFormula(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "=")
	return strings.TrimSpace(text)
}

// Intern parses text, or reuses an earlier parse of the same text, and
// records that the cell at ref carries it. A cell holds at most one formula;
// interning over it replaces the old one.
func (f *Formulas) Intern(text string, ref cell.Ref) (value.Expr, error) {
	id, err := f.intern(text)
	if err != nil {
		return nil, err
	}
	f.track(id, ref)
	return f.exprs[id], nil
}

// Parse parses text through the cache without tying it to a cell. Ad hoc
// evaluations reuse entries the workbook already interned.
func (f *Formulas) Parse(text string) (value.Expr, error) {
	id, err := f.intern(text)
	if err != nil {
		return nil, err
	}
	return f.exprs[id], nil
}

func (f *Formulas) intern(text string) (uint32, error) {
	key := normalizeFormula(text)
	if id, ok := f.ids[key]; ok {
		return id, nil
	}
	expr, err := f.parse(text)
	if err != nil {
		return 0, err
	}
	id := f.nextID
	f.nextID++
	f.ids[key] = id
	f.exprs[id] = expr
	f.texts[id] = key
	return id, nil
}

func (f *Formulas) track(id uint32, ref cell.Ref) {
	if old, ok := f.atCell[ref]; ok {
		if old == id {
			return
		}
		f.untrack(old, ref)
	}
	if f.usedBy[id] == nil {
		f.usedBy[id] = make(map[cell.Ref]struct{})
	}
	f.usedBy[id][ref] = struct{}{}
	f.atCell[ref] = id
}

func (f *Formulas) untrack(id uint32, ref cell.Ref) {
	delete(f.atCell, ref)
	cells, ok := f.usedBy[id]
	if !ok {
		return
	}
	delete(cells, ref)
	if len(cells) > 0 {
		return
	}
	// last cell gone, drop the entry
	delete(f.usedBy, id)
	delete(f.ids, f.texts[id])
	delete(f.texts, id)
	delete(f.exprs, id)
}

// At returns the parsed formula carried by the cell at ref.
func (f *Formulas) At(ref cell.Ref) (value.Expr, bool) {
	id, ok := f.atCell[ref]
	if !ok {
		return nil, false
	}
	return f.exprs[id], true
}

// TextAt returns the normalized formula text carried by the cell at ref.
func (f *Formulas) TextAt(ref cell.Ref) (string, bool) {
	id, ok := f.atCell[ref]
	if !ok {
		return "", false
	}
	return f.texts[id], true
}

// Remove unlinks the formula at ref. Returns true when that was the last
// cell carrying it and the entry was dropped.
func (f *Formulas) Remove(ref cell.Ref) bool {
	id, ok := f.atCell[ref]
	if !ok {
		return false
	}
	f.untrack(id, ref)
	_, alive := f.exprs[id]
	return !alive
}

// CellsUsing returns the cells carrying the given formula text, in
// row-major order.
func (f *Formulas) CellsUsing(text string) []cell.Ref {
	id, ok := f.ids[normalizeFormula(text)]
	if !ok {
		return nil
	}
	refs := make([]cell.Ref, 0, len(f.usedBy[id]))
	for ref := range f.usedBy[id] {
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

// Count returns the number of distinct interned formulas.
func (f *Formulas) Count() int {
	return len(f.ids)
}

// TotalReferences returns the number of cells carrying formulas.
func (f *Formulas) TotalReferences() int {
	return len(f.atCell)
}

// Clear drops every entry.
func (f *Formulas) Clear() {
	f.ids = make(map[string]uint32)
	f.exprs = make(map[uint32]value.Expr)
	f.texts = make(map[uint32]string)
	f.atCell = make(map[cell.Ref]uint32)
	f.usedBy = make(map[uint32]map[cell.Ref]struct{})
	f.nextID = 1
}

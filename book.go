package formula

import (
	"fmt"
	"strings"

	"github.com/cellmath/formula/cell"
	"github.com/cellmath/formula/eval"
	"github.com/cellmath/formula/parse"
	"github.com/cellmath/formula/sheet"
	"github.com/cellmath/formula/value"
)

// Book is a workbook wired for evaluation: the sheet, the interned formula
// cells, and the defined names resolved to values. Formula cells evaluate
// on demand; there is no recalculation scheduler.
type Book struct {
	// Sheet holds the settled cell values.
	Sheet *sheet.Sheet
	// Names holds the defined names after resolution; "=LAMBDA(...)" text
	// becomes a callable value.
	Names map[string]value.Value
	// Options is the template applied to every evaluation. Grid, At, and
	// Names are filled in per call; set Clock, Rand, Logger, or MaxDepth
	// here to thread them through.
	Options Options

	formulas *sheet.Formulas
}

// NewBook returns an empty book backed by a fresh sheet.
func NewBook() *Book {
	return &Book{
		Sheet:    sheet.New(),
		Names:    make(map[string]value.Value),
		formulas: sheet.NewFormulas(parse.Parse),
	}
}

// LoadBook builds a Book from YAML workbook bytes. Formula cells parse up
// front so malformed fixtures fail loudly. Defined names are resolved once,
// against the sheet only: a name may not read another name outside a LAMBDA
// body, since bodies resolve at call time.
func LoadBook(data []byte) (*Book, error) {
	wb, err := sheet.LoadWorkbook(data)
	if err != nil {
		return nil, err
	}
	return newBook(wb)
}

// ReadBookFile is LoadBook over a file on disk.
func ReadBookFile(path string) (*Book, error) {
	wb, err := sheet.ReadWorkbookFile(path)
	if err != nil {
		return nil, err
	}
	return newBook(wb)
}

func newBook(wb *sheet.Workbook) (*Book, error) {
	b := &Book{
		Sheet:    wb.Sheet,
		Names:    make(map[string]value.Value, len(wb.Names)),
		formulas: sheet.NewFormulas(parse.Parse),
	}
	for ref, text := range wb.Formulas {
		if _, err := b.formulas.Intern(text, ref); err != nil {
			return nil, fmt.Errorf("formula at %s: %w", ref, err)
		}
	}
	for name, text := range wb.Names {
		expr, err := parse.Parse(ensureEquals(text))
		if err != nil {
			return nil, fmt.Errorf("name %s: %w", name, err)
		}
		b.Names[name] = eval.Evaluate(expr, Options{Grid: wb.Sheet})
	}
	return b, nil
}

// ensureEquals prepends the "=" the parser insists on when ad hoc text
// omits it.
func ensureEquals(text string) string {
	if strings.HasPrefix(strings.TrimSpace(text), "=") {
		return text
	}
	return "=" + text
}

// options returns the call options for an evaluation at ref.
func (b *Book) options(at cell.Ref) Options {
	opts := b.Options
	opts.Grid = b.Sheet
	opts.At = at
	opts.Names = b.Names
	return opts
}

// Cell returns the value at ref: the evaluated formula when the cell
// carries one, otherwise the stored value. Blank cells read as Empty.
func (b *Book) Cell(ref cell.Ref) value.Value {
	if expr, ok := b.formulas.At(ref); ok {
		return eval.Evaluate(expr, b.options(ref))
	}
	if v, ok := b.Sheet.Get(ref); ok {
		return v
	}
	return value.Empty{}
}

// CellA1 is Cell with an A1-style address.
func (b *Book) CellA1(addr string) (value.Value, error) {
	ref, err := cell.Parse(addr)
	if err != nil {
		return nil, err
	}
	return b.Cell(ref), nil
}

// Set stores a settled value at ref, replacing any formula there.
func (b *Book) Set(ref cell.Ref, v value.Value) {
	b.formulas.Remove(ref)
	b.Sheet.Set(ref, v)
}

// SetFormula puts a formula cell at ref, replacing any stored value.
func (b *Book) SetFormula(ref cell.Ref, text string) error {
	if _, err := b.formulas.Intern(ensureEquals(text), ref); err != nil {
		return err
	}
	b.Sheet.Set(ref, nil)
	return nil
}

// FormulaText returns the normalized formula text at ref, if the cell
// carries one.
func (b *Book) FormulaText(ref cell.Ref) (string, bool) {
	return b.formulas.TextAt(ref)
}

// Eval evaluates ad hoc formula text against the book, as if it lived
// at A1. A missing leading "=" is supplied; parse failures come back as
// #NAME? values.
func (b *Book) Eval(text string) value.Value {
	return b.EvalAt(text, cell.Ref{})
}

// EvalAt evaluates ad hoc formula text as if it lived at the given cell.
func (b *Book) EvalAt(text string, at cell.Ref) value.Value {
	expr, err := b.formulas.Parse(ensureEquals(text))
	if err != nil {
		return value.Errorf(value.ErrName, "cannot parse formula: %v", err)
	}
	return eval.Evaluate(expr, b.options(at))
}

// Package formula evaluates spreadsheet formulas: Excel-style expression
// text over a grid of cell values, with the standard function library,
// dynamic arrays, and LAMBDA/LET.
//
// The root package is a thin facade. Parsing lives in parse, the value
// model and operators in value, the evaluation context in eval, the
// function library in fn, and the in-memory worksheet in sheet.
//
//	v := formula.Evaluate("=SUM(A1:A4)*2", formula.Options{Grid: grid})
//	fmt.Println(v) // 200
package formula

import (
	"github.com/cellmath/formula/eval"
	"github.com/cellmath/formula/parse"
	"github.com/cellmath/formula/value"
)

// Options configures an evaluation; see eval.Options for the fields.
type Options = eval.Options

// Grid supplies cell values to the evaluator; see eval.Grid.
type Grid = eval.Grid

// DefaultMaxDepth is the recursion guard interactive tools install. The
// engine itself runs unbounded unless Options.MaxDepth is set.
const DefaultMaxDepth = eval.DefaultMaxDepth

// Evaluate parses and evaluates one formula. Formula text starts with "=";
// anything that does not parse comes back as a #NAME? error value rather
// than a Go error, the way a spreadsheet cell would show it.
func Evaluate(text string, opts Options) value.Value {
	expr, err := parse.Parse(text)
	if err != nil {
		return value.Errorf(value.ErrName, "cannot parse formula: %v", err)
	}
	return eval.Evaluate(expr, opts)
}

// Parse parses formula text without evaluating it.
func Parse(text string) (value.Expr, error) {
	return parse.Parse(text)
}

// MustParse is Parse for formulas known valid at compile time. It panics
// on malformed input.
func MustParse(text string) value.Expr {
	return parse.MustParse(text)
}

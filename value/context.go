package value

import (
	"time"

	"github.com/cellmath/formula/cell"
)

// Expr is a parsed formula expression. the parser builds Exprs; evaluation
// yields a Value, never an error return - formula failures are error values.
type Expr interface {
	Eval(Context) Value
	String() string
}

// SpanExpr is implemented by expressions that denote a fixed rectangle of
// cells. reference-shaped functions (OFFSET, ROW, INDIRECT targets) recover
// operand geometry through it instead of forcing the operand to values.
type SpanExpr interface {
	Expr
	RefSpan() (cell.Span, bool)
}

// Context is the evaluation environment an Expr runs against. the eval
// package provides the implementation; declaring the interface here lets the
// parser and the function library depend on it without importing eval.
type Context interface {
	// CellValue resolves a single cell. blank cells are Empty.
	CellValue(ref cell.Ref) Value

	// SpanValues materializes a rectangle of cells as an *Array, or an
	// error value if the span cannot be resolved.
	SpanValues(sp cell.Span) Value

	// Base is the cell the formula is being evaluated at. it anchors
	// ROW(), COLUMN(), and relative semantics for tooling.
	Base() cell.Ref

	// Lookup resolves a bound name: a LET local, a lambda parameter, or a
	// context-supplied named definition. names are case-insensitive.
	Lookup(name string) (Value, bool)

	// Scope returns the innermost binding scope, for lambda capture.
	Scope() *Bindings

	// With returns a child context that evaluates under an extra scope.
	With(scope *Bindings) Context

	// Call dispatches a registered function by name. arguments arrive as
	// thunks; the dispatcher forces them or not according to the
	// function's declared evaluation mode.
	Call(name string, args []Thunk) Value

	// Apply invokes a function value (a *Lambda, or a Text naming a
	// registered function) with already-evaluated arguments.
	Apply(fn Value, args []Value) Value

	// Now is the clock behind NOW and TODAY. injected for tests.
	Now() time.Time

	// Rand is the generator behind RAND and friends. injected for tests.
	Rand() float64
}

// Thunk defers evaluation of a single argument expression. functions
// registered as lazy receive thunks and force only the arguments a call
// actually needs, so IF(TRUE,1,1/0) never evaluates the division.
type Thunk struct {
	Ctx  Context
	Expr Expr
}

// Force evaluates the deferred expression. a thunk with no expression (an
// omitted argument written as consecutive commas) forces to Empty.
func (t Thunk) Force() Value {
	if t.Expr == nil {
		return Empty{}
	}
	return t.Expr.Eval(t.Ctx)
}

// Omitted reports whether the argument position was left blank.
func (t Thunk) Omitted() bool {
	return t.Expr == nil
}

// Forced wraps an already-computed value as a thunk.
func Forced(v Value) Thunk {
	return Thunk{Expr: constExpr{v}}
}

type constExpr struct{ v Value }

func (c constExpr) Eval(Context) Value { return c.v }
func (c constExpr) String() string     { return c.v.String() }

// Bindings is a lexical scope: a name table with a link to the enclosing
// scope. lambda bodies and LET expressions evaluate under a child scope so
// inner names shadow outer ones and vanish when the scope is popped.
type Bindings struct {
	parent *Bindings
	vars   map[string]Value
}

// NewBindings creates a scope chained to parent. parent may be nil for the
// outermost scope.
func NewBindings(parent *Bindings) *Bindings {
	return &Bindings{parent: parent, vars: make(map[string]Value)}
}

// Define binds a name in this scope. names are case-insensitive.
func (b *Bindings) Define(name string, v Value) {
	b.vars[foldName(name)] = v
}

// Lookup resolves a name, walking outward through enclosing scopes.
func (b *Bindings) Lookup(name string) (Value, bool) {
	key := foldName(name)
	for s := b; s != nil; s = s.parent {
		if v, ok := s.vars[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func foldName(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 32
		}
		out[i] = ch
	}
	return string(out)
}

// Lambda is a user-defined function value: parameter names, a body
// expression, and the scope captured at the point of definition.
type Lambda struct {
	Params []string
	Body   Expr
	Env    *Bindings
}

func (*Lambda) isValue() {}

func (l *Lambda) String() string {
	var b []byte
	b = append(b, "LAMBDA("...)
	for i, p := range l.Params {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, p...)
	}
	if len(l.Params) > 0 {
		b = append(b, ',')
	}
	b = append(b, l.Body.String()...)
	b = append(b, ')')
	return string(b)
}

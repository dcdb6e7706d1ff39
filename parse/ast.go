package parse

import (
	"strings"

	"github.com/cellmath/formula/cell"
	"github.com/cellmath/formula/value"
)

// literalNode holds a constant: number, text, boolean, or error token.
type literalNode struct {
	v value.Value
}

func (n *literalNode) Eval(ctx value.Context) value.Value { return n.v }

func (n *literalNode) String() string {
	if t, ok := n.v.(value.Text); ok {
		return `"` + strings.ReplaceAll(string(t), `"`, `""`) + `"`
	}
	return n.v.String()
}

// cellNode reads a single cell through the evaluation context.
type cellNode struct {
	ref cell.Ref
}

func (n *cellNode) Eval(ctx value.Context) value.Value { return ctx.CellValue(n.ref) }
func (n *cellNode) String() string                     { return n.ref.String() }

// rangeNode materializes a rectangular span as an array.
type rangeNode struct {
	span cell.Span
}

func (n *rangeNode) Eval(ctx value.Context) value.Value { return ctx.SpanValues(n.span) }
func (n *rangeNode) String() string                     { return n.span.String() }

// nameNode resolves a bound name: a LET local, a lambda parameter, or a
// workbook-level defined name.
type nameNode struct {
	name string
}

func (n *nameNode) Eval(ctx value.Context) value.Value {
	if v, ok := ctx.Lookup(n.name); ok {
		return v
	}
	return value.Errorf(value.ErrName, "unknown name %q", n.name)
}

func (n *nameNode) String() string { return n.name }

type unaryNode struct {
	op string // "-" or "%"
	x  value.Expr
}

func (n *unaryNode) Eval(ctx value.Context) value.Value {
	return value.UnaryOp(n.op, n.x.Eval(ctx))
}

func (n *unaryNode) String() string {
	if n.op == "%" {
		return operandString(n.x) + "%"
	}
	return n.op + operandString(n.x)
}

type binaryNode struct {
	op    string
	left  value.Expr
	right value.Expr
}

func (n *binaryNode) Eval(ctx value.Context) value.Value {
	l := n.left.Eval(ctx)
	r := n.right.Eval(ctx)
	return value.BinaryOp(n.op, l, r)
}

func (n *binaryNode) String() string {
	return operandString(n.left) + n.op + operandString(n.right)
}

// intersectNode is the space operator between two references. both operands
// must be resolvable to spans before evaluation; the result is the overlap,
// or #NULL! when the ranges share no cells.
type intersectNode struct {
	left  value.Expr
	right value.Expr
}

func (n *intersectNode) Eval(ctx value.Context) value.Value {
	ls, ok := staticSpan(n.left)
	if !ok {
		return value.NewError(value.ErrValue, "intersection requires range operands")
	}
	rs, ok := staticSpan(n.right)
	if !ok {
		return value.NewError(value.ErrValue, "intersection requires range operands")
	}
	overlap, ok := ls.Intersect(rs)
	if !ok {
		return value.NewError(value.ErrNull, "ranges do not intersect")
	}
	if overlap.Rows() == 1 && overlap.Cols() == 1 {
		return ctx.CellValue(overlap.Start)
	}
	return ctx.SpanValues(overlap)
}

func (n *intersectNode) String() string {
	return operandString(n.left) + " " + operandString(n.right)
}

// the reference nodes implement value.SpanExpr so reference-shaped functions
// can recover operand geometry without materializing cell values.
func (n *cellNode) RefSpan() (cell.Span, bool) {
	return cell.Span{Start: n.ref, End: n.ref}, true
}

func (n *rangeNode) RefSpan() (cell.Span, bool) { return n.span, true }

func (n *intersectNode) RefSpan() (cell.Span, bool) {
	ls, ok := staticSpan(n.left)
	if !ok {
		return cell.Span{}, false
	}
	rs, ok := staticSpan(n.right)
	if !ok {
		return cell.Span{}, false
	}
	return ls.Intersect(rs)
}

func staticSpan(e value.Expr) (cell.Span, bool) {
	if se, ok := e.(value.SpanExpr); ok {
		return se.RefSpan()
	}
	return cell.Span{}, false
}

// callNode invokes a function by name. when the name is bound in the current
// scope (a LET local or workbook name holding a lambda) the binding wins over
// the registry, so user definitions can be called with function syntax.
type callNode struct {
	name string
	args []value.Expr // nil entries are omitted arguments
}

func (n *callNode) Eval(ctx value.Context) value.Value {
	if bound, ok := ctx.Lookup(n.name); ok {
		return ctx.Apply(bound, evalArgs(ctx, n.args))
	}
	thunks := make([]value.Thunk, len(n.args))
	for i, a := range n.args {
		thunks[i] = value.Thunk{Ctx: ctx, Expr: a}
	}
	return ctx.Call(n.name, thunks)
}

func (n *callNode) String() string {
	return n.name + "(" + argsString(n.args) + ")"
}

// applyNode invokes the value an expression produced, as in
// LAMBDA(x,x*2)(21) or a lambda returned from another call.
type applyNode struct {
	callee value.Expr
	args   []value.Expr
}

func (n *applyNode) Eval(ctx value.Context) value.Value {
	fn := n.callee.Eval(ctx)
	if e, ok := value.AsError(fn); ok {
		return e
	}
	return ctx.Apply(fn, evalArgs(ctx, n.args))
}

func (n *applyNode) String() string {
	return operandString(n.callee) + "(" + argsString(n.args) + ")"
}

func evalArgs(ctx value.Context, args []value.Expr) []value.Value {
	vals := make([]value.Value, len(args))
	for i, a := range args {
		if a == nil {
			vals[i] = value.Empty{}
			continue
		}
		vals[i] = a.Eval(ctx)
	}
	return vals
}

// lambdaNode builds a closure capturing the scope it was evaluated in.
type lambdaNode struct {
	params []string
	body   value.Expr
}

func (n *lambdaNode) Eval(ctx value.Context) value.Value {
	return &value.Lambda{Params: n.params, Body: n.body, Env: ctx.Scope()}
}

func (n *lambdaNode) String() string {
	var b strings.Builder
	b.WriteString("LAMBDA(")
	for _, p := range n.params {
		b.WriteString(p)
		b.WriteString(",")
	}
	b.WriteString(n.body.String())
	b.WriteString(")")
	return b.String()
}

// letNode binds names in order, each value expression seeing the bindings
// before it, then evaluates the body in the extended scope.
type letNode struct {
	names  []string
	values []value.Expr
	body   value.Expr
}

func (n *letNode) Eval(ctx value.Context) value.Value {
	scope := value.NewBindings(ctx.Scope())
	inner := ctx.With(scope)
	for i, name := range n.names {
		scope.Define(name, n.values[i].Eval(inner))
	}
	return n.body.Eval(inner)
}

func (n *letNode) String() string {
	var b strings.Builder
	b.WriteString("LET(")
	for i, name := range n.names {
		b.WriteString(name)
		b.WriteString(",")
		b.WriteString(n.values[i].String())
		b.WriteString(",")
	}
	b.WriteString(n.body.String())
	b.WriteString(")")
	return b.String()
}

// arrayNode is a literal like {1,2;3,4}. rows are rectangular by the time the
// parser builds the node. elements evaluating to arrays collapse through
// AsScalar, so nesting cannot occur.
type arrayNode struct {
	rows [][]value.Expr
}

func (n *arrayNode) Eval(ctx value.Context) value.Value {
	out := value.NewArray(len(n.rows), len(n.rows[0]))
	for r, row := range n.rows {
		for c, e := range row {
			out.Set(r, c, value.AsScalar(e.Eval(ctx)))
		}
	}
	return out
}

func (n *arrayNode) String() string {
	var b strings.Builder
	b.WriteString("{")
	for r, row := range n.rows {
		if r > 0 {
			b.WriteString(";")
		}
		for c, e := range row {
			if c > 0 {
				b.WriteString(",")
			}
			b.WriteString(e.String())
		}
	}
	b.WriteString("}")
	return b.String()
}

// operandString parenthesizes compound operands so a re-rendered tree reads
// with the same grouping it was parsed with.
func operandString(e value.Expr) string {
	switch e.(type) {
	case *binaryNode, *intersectNode:
		return "(" + e.String() + ")"
	}
	return e.String()
}

func argsString(args []value.Expr) string {
	var b strings.Builder
	for i, a := range args {
		if i > 0 {
			b.WriteString(",")
		}
		if a != nil {
			b.WriteString(a.String())
		}
	}
	return b.String()
}

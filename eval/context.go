// Package eval provides the evaluation context that formula expressions run
// against: cell access through a Grid, name resolution, function dispatch,
// and the recursion budget.
package eval

import (
	"strings"
	"time"

	"github.com/cellmath/formula/cell"
	"github.com/cellmath/formula/value"
)

// Grid supplies cell contents to the evaluator. A nil value means the cell
// is empty. Implementations must not return formula text; the evaluator
// expects settled values.
type Grid interface {
	CellValue(cell.Ref) value.Value
}

type context struct {
	opts  Options
	base  cell.Ref
	names map[string]value.Value
	scope *value.Bindings
	depth *int
}

func (c *context) CellValue(ref cell.Ref) value.Value {
	if !ref.Valid() {
		return value.NewError(value.ErrRef, "reference is off the sheet")
	}
	if c.opts.Grid == nil {
		return value.Empty{}
	}
	v := c.opts.Grid.CellValue(ref)
	if v == nil {
		return value.Empty{}
	}
	return v
}

func (c *context) SpanValues(span cell.Span) value.Value {
	span = span.Norm()
	if !span.Start.Valid() || !span.End.Valid() {
		return value.NewError(value.ErrRef, "reference is off the sheet")
	}
	cols := span.Cols()
	out := value.NewArray(span.Rows(), cols)
	i := 0
	for ref := range span.Refs() {
		out.Set(i/cols, i%cols, value.AsScalar(c.CellValue(ref)))
		i++
	}
	return out
}

func (c *context) Base() cell.Ref { return c.base }

func (c *context) Lookup(name string) (value.Value, bool) {
	if c.scope != nil {
		if v, ok := c.scope.Lookup(name); ok {
			return v, true
		}
	}
	if v, ok := c.names[strings.ToUpper(name)]; ok {
		return v, true
	}
	return nil, false
}

func (c *context) Scope() *value.Bindings { return c.scope }

func (c *context) With(b *value.Bindings) value.Context {
	clone := *c
	clone.scope = b
	return &clone
}

// enter charges one level against the recursion budget. A MaxDepth of zero
// or less means no budget at all.
func (c *context) enter() bool {
	*c.depth++
	return c.opts.MaxDepth <= 0 || *c.depth <= c.opts.MaxDepth
}

func (c *context) leave() { *c.depth-- }

func (c *context) Call(name string, args []value.Thunk) value.Value {
	def, ok := c.opts.Registry.Lookup(name)
	if !ok {
		return value.Errorf(value.ErrName, "unknown function %s", strings.ToUpper(name))
	}
	n := len(args)
	if n < def.MinArgs || (def.MaxArgs >= 0 && n > def.MaxArgs) {
		return value.Errorf(value.ErrNA, "wrong argument count for %s", def.Name)
	}
	if !c.enter() {
		c.leave()
		return value.Errorf(value.ErrNum, "formula nesting exceeds %d levels", c.opts.MaxDepth)
	}
	defer c.leave()
	c.log().Debug().Str("fn", def.Name).Int("argc", n).Msg("call")
	if def.Lazy() {
		return def.LazyFn(c, args)
	}
	vals := make([]value.Value, n)
	for i, t := range args {
		vals[i] = t.Force()
	}
	return def.Fn(c, vals)
}

func (c *context) Apply(fnv value.Value, args []value.Value) value.Value {
	switch f := fnv.(type) {
	case *value.Lambda:
		if len(args) != len(f.Params) {
			return value.Errorf(value.ErrValue, "function expects %d arguments, got %d", len(f.Params), len(args))
		}
		if !c.enter() {
			c.leave()
			return value.Errorf(value.ErrNum, "formula nesting exceeds %d levels", c.opts.MaxDepth)
		}
		defer c.leave()
		child := value.NewBindings(f.Env)
		for i, p := range f.Params {
			arg := args[i]
			if arg == nil {
				arg = value.Empty{}
			}
			child.Define(p, arg)
		}
		return f.Body.Eval(c.With(child))
	case value.Text:
		// a function named by text dispatches through the registry
		th := make([]value.Thunk, len(args))
		for i, a := range args {
			if a == nil {
				a = value.Empty{}
			}
			th[i] = value.Forced(a)
		}
		return c.Call(string(f), th)
	case value.Error:
		return f
	}
	return value.NewError(value.ErrValue, "value is not callable")
}

func (c *context) Now() time.Time { return c.opts.Clock() }

func (c *context) Rand() float64 { return c.opts.Rand() }

package parse

import (
	"github.com/cellmath/formula/cell"
	"github.com/cellmath/formula/value"
)

// Precedents lists every cell and range an expression reads, in source
// order with duplicates removed. callers use it to trace what a formula
// depends on before evaluating it.
func Precedents(e value.Expr) []cell.Span {
	var out []cell.Span
	seen := map[cell.Span]bool{}
	add := func(s cell.Span) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	walkRefs(e, add)
	return out
}

func walkRefs(e value.Expr, add func(cell.Span)) {
	switch n := e.(type) {
	case *cellNode:
		add(cell.Span{Start: n.ref, End: n.ref})
	case *rangeNode:
		add(n.span)
	case *unaryNode:
		walkRefs(n.x, add)
	case *binaryNode:
		walkRefs(n.left, add)
		walkRefs(n.right, add)
	case *intersectNode:
		walkRefs(n.left, add)
		walkRefs(n.right, add)
	case *callNode:
		for _, a := range n.args {
			if a != nil {
				walkRefs(a, add)
			}
		}
	case *applyNode:
		walkRefs(n.callee, add)
		for _, a := range n.args {
			if a != nil {
				walkRefs(a, add)
			}
		}
	case *lambdaNode:
		walkRefs(n.body, add)
	case *letNode:
		for _, v := range n.values {
			walkRefs(v, add)
		}
		walkRefs(n.body, add)
	case *arrayNode:
		for _, row := range n.rows {
			for _, el := range row {
				walkRefs(el, add)
			}
		}
	}
}

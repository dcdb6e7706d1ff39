package eval

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cellmath/formula/cell"
	"github.com/cellmath/formula/fn"
	"github.com/cellmath/formula/value"
)

// DefaultMaxDepth is the nesting guard interactive callers install. Deep
// enough for any sane formula, shallow enough to fail fast on runaway
// recursion. The engine itself imposes no limit; see Options.MaxDepth.
const DefaultMaxDepth = 512

// Options configures an evaluation context. The zero value evaluates against
// an empty grid at A1 with the builtin registry, the wall clock, and the
// shared random source.
type Options struct {
	// Grid supplies cell values. nil reads as an empty sheet.
	Grid Grid
	// At is the cell the formula lives in; relative functions such as ROW()
	// without arguments resolve against it.
	At cell.Ref
	// Names are workbook-level defined names, keyed case-insensitively.
	Names map[string]value.Value
	// Registry overrides the function catalog. nil means fn.Builtins.
	Registry *fn.Registry
	// Clock feeds NOW and TODAY; fix it in tests for determinism.
	Clock func() time.Time
	// Rand feeds RAND and friends; fix it in tests for determinism.
	Rand func() float64
	// MaxDepth bounds call nesting when positive. Zero means unbounded:
	// runaway recursion is the caller's problem to guard against, typically
	// by passing DefaultMaxDepth.
	MaxDepth int
	// Logger, when set, receives a debug line per function dispatch.
	Logger *zerolog.Logger
}

// NewContext builds an evaluation context from the options.
func NewContext(opts Options) value.Context {
	if opts.Registry == nil {
		opts.Registry = fn.Builtins()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.Float64
	}
	var names map[string]value.Value
	if len(opts.Names) > 0 {
		names = make(map[string]value.Value, len(opts.Names))
		for k, v := range opts.Names {
			names[strings.ToUpper(k)] = v
		}
	}
	depth := 0
	return &context{opts: opts, base: opts.At, names: names, depth: &depth}
}

// Evaluate runs an expression under a fresh context.
func Evaluate(e value.Expr, opts Options) value.Value {
	return e.Eval(NewContext(opts))
}

func (c *context) log() *zerolog.Logger {
	if c.opts.Logger != nil {
		return c.opts.Logger
	}
	return &nopLogger
}

var nopLogger = zerolog.Nop()

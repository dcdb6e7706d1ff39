// Package fn holds the builtin function library and the registry the
// evaluator dispatches through. The registry is populated once, at first use,
// and is read-only afterwards; registration failures are programming errors
// and panic rather than surfacing to formulas.
package fn

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/exp/maps"

	"github.com/cellmath/formula/value"
)

// Def describes one builtin: identity, arity, tooling metadata, and exactly
// one handler. Eager handlers receive evaluated values; lazy handlers receive
// thunks and decide which to force, which is how IF avoids evaluating the
// untaken branch.
type Def struct {
	Name     string
	Category string
	MinArgs  int
	MaxArgs  int // -1 means variadic
	Syntax   string
	Desc     string
	Volatile bool

	Fn     func(ctx value.Context, args []value.Value) value.Value
	LazyFn func(ctx value.Context, args []value.Thunk) value.Value
}

// Lazy reports whether the definition takes thunked arguments.
func (d *Def) Lazy() bool { return d.LazyFn != nil }

// Registry is the case-insensitive function catalog.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry returns an empty registry. Most callers want Builtins instead.
func NewRegistry() *Registry {
	return &Registry{defs: map[string]*Def{}}
}

// Register adds a definition. It panics on a duplicate name, a missing
// handler, or both handlers set: all are bugs in the registration tables,
// not runtime conditions.
func (r *Registry) Register(d Def) {
	if d.Name == "" {
		panic("fn: definition without a name")
	}
	if (d.Fn == nil) == (d.LazyFn == nil) {
		panic(fmt.Sprintf("fn: %s must set exactly one of Fn and LazyFn", d.Name))
	}
	if d.MaxArgs != -1 && d.MaxArgs < d.MinArgs {
		panic(fmt.Sprintf("fn: %s has MaxArgs %d below MinArgs %d", d.Name, d.MaxArgs, d.MinArgs))
	}
	key := strings.ToUpper(d.Name)
	if _, exists := r.defs[key]; exists {
		panic(fmt.Sprintf("fn: %s registered twice", d.Name))
	}
	r.defs[key] = &d
}

// Lookup finds a definition by name, ignoring case.
func (r *Registry) Lookup(name string) (*Def, bool) {
	d, ok := r.defs[strings.ToUpper(name)]
	return d, ok
}

// Names returns every registered function name, sorted. Autocomplete and the
// CLI's listing mode read the catalog through this.
func (r *Registry) Names() []string {
	names := maps.Keys(r.defs)
	sort.Strings(names)
	return names
}

// Categories returns the distinct category labels, sorted.
func (r *Registry) Categories() []string {
	set := map[string]bool{}
	for _, d := range r.defs {
		set[d.Category] = true
	}
	cats := maps.Keys(set)
	sort.Strings(cats)
	return cats
}

var builtins = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	registerMath(r)
	registerStat(r)
	registerFinancial(r)
	registerDateTime(r)
	registerText(r)
	registerLookup(r)
	registerArray(r)
	registerLogical(r)
	registerComplex(r)
	registerEngineering(r)
	registerInfo(r)
	return r
})

// Builtins returns the standard library registry. The same instance is shared
// by every evaluation; it is safe for concurrent readers.
func Builtins() *Registry { return builtins() }

// Package convert holds the converter registry: an exact-type lookup table
// from an ordered (source type, target type) pair to a converting function,
// plus the built-in scalar and temporal seed set.
//
// The registry itself performs no transformation logic; the assembling engine
// queries it and applies whatever it finds. A converter registered for a type
// is not consulted for that type's named derivatives: lookup is exact, not
// covariant. Dynamic rules are the one sanctioned widening mechanism; the
// enum-string rule uses it to cover the open set of string-kinded enum types.
package convert

import (
	"fmt"
	"reflect"
)

// Func converts a single value. It is pure: same input, same output.
type Func func(v any) (any, error)

// Pair keys the registry by the ordered source and target types.
type Pair struct {
	Src, Dst reflect.Type
}

// Rule synthesizes a converter for type pairs that cannot be enumerated at
// registration time. Rules are consulted in order after the exact table.
type Rule func(src, dst reflect.Type) (Func, bool)

// Registry maps type pairs to converting functions. Configure it fully before
// sharing: lookups take no lock, so registration must not race with use.
type Registry struct {
	table map[Pair]Func
	rules []Rule
}

// NewRegistry returns an empty registry. Use Default for the built-in seed set.
func NewRegistry() *Registry {
	return &Registry{table: make(map[Pair]Func)}
}

// Register associates fn with the exact (src, dst) type pair, replacing any
// previous association.
func (r *Registry) Register(src, dst reflect.Type, fn Func) {
	if src == nil || dst == nil || fn == nil {
		panic("convert: Register requires non-nil types and function")
	}

	r.table[Pair{Src: src, Dst: dst}] = fn
}

// AddRule appends a dynamic synthesis rule.
func (r *Registry) AddRule(rule Rule) {
	r.rules = append(r.rules, rule)
}

// Find returns the converter for the exact (src, dst) pair, consulting
// dynamic rules when no table entry exists. The second result is false when
// the pair is not convertible by this registry.
func (r *Registry) Find(src, dst reflect.Type) (Func, bool) {
	if fn, ok := r.table[Pair{Src: src, Dst: dst}]; ok {
		return fn, true
	}

	for _, rule := range r.rules {
		if fn, ok := rule(src, dst); ok {
			return fn, true
		}
	}

	return nil, false
}

// Len returns the number of exact-pair entries.
func (r *Registry) Len() int {
	return len(r.table)
}

// RegisterFunc adapts a typed conversion function and registers it for the
// pair of its argument and result types.
func RegisterFunc[S, D any](r *Registry, fn func(S) (D, error)) {
	src := reflect.TypeFor[S]()
	dst := reflect.TypeFor[D]()

	r.Register(src, dst, func(v any) (any, error) {
		s, ok := v.(S)
		if !ok {
			return nil, fmt.Errorf("converter %s -> %s got %T", src, dst, v)
		}

		return fn(s)
	})
}

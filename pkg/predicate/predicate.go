// Package predicate models storage-layer filter expressions independently of
// the backend that evaluates them. The same tree is compiled to PostgreSQL by
// Compile and evaluated against in-memory records by Match.
package predicate

import "math"

// Predicate is a node of a filter expression tree. A nil Predicate matches everything.
type Predicate interface {
	predicate()
}

// Eq matches records whose field equals Value.
type Eq struct {
	Field string
	Value interface{}
}

// In matches records whose field is one of Values. An empty set matches nothing.
type In struct {
	Field  string
	Values []string
}

// Range is a closed numeric interval. Use math.Inf for open ends.
type Range struct {
	Field string
	Min   float64
	Max   float64
}

// Contains is a case-insensitive substring test. When Sub is set, Field is a
// list of objects and the test runs against the Sub key of each element.
type Contains struct {
	Field string
	Sub   string
	Value string
}

// And matches when every member matches. An empty And matches everything.
type And []Predicate

// Or matches when at least one member matches. An empty Or matches nothing.
type Or []Predicate

func (Eq) predicate()       {}
func (In) predicate()       {}
func (Range) predicate()    {}
func (Contains) predicate() {}
func (And) predicate()      {}
func (Or) predicate()       {}

// AtLeast returns a Range with no upper bound.
func AtLeast(field string, min float64) Range {
	return Range{Field: field, Min: min, Max: math.Inf(1)}
}

// AtMost returns a Range with no lower bound.
func AtMost(field string, max float64) Range {
	return Range{Field: field, Min: math.Inf(-1), Max: max}
}

// All joins the non-nil predicates with AND, collapsing trivial cases.
func All(preds ...Predicate) Predicate {
	out := compact(preds)
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return And(out)
}

// Any joins the non-nil predicates with OR, collapsing trivial cases.
// Any() with no members returns nil, which matches everything.
func Any(preds ...Predicate) Predicate {
	out := compact(preds)
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return Or(out)
}

// Fields lists every field referenced by the tree, in visit order.
func Fields(p Predicate) []string {
	var fields []string
	walk(p, func(node Predicate) {
		switch n := node.(type) {
		case Eq:
			fields = append(fields, n.Field)
		case In:
			fields = append(fields, n.Field)
		case Range:
			fields = append(fields, n.Field)
		case Contains:
			fields = append(fields, n.Field)
		}
	})
	return fields
}

func walk(p Predicate, fn func(Predicate)) {
	if p == nil {
		return
	}
	fn(p)
	switch n := p.(type) {
	case And:
		for _, child := range n {
			walk(child, fn)
		}
	case Or:
		for _, child := range n {
			walk(child, fn)
		}
	}
}

func compact(preds []Predicate) []Predicate {
	out := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

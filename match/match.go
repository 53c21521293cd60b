// Package match builds composable predicates over gram patterns: value
// predicates evaluated against a single subject, logical combinators and
// structural quantifiers over patterns, and pre-order structural search.
// Matching is read-only; it never mutates the tree it inspects.
package match

import (
	"github.com/gram-data/gram"
	"github.com/gram-data/gram/pattern"
)

// SubjectPredicate tests a single subject.
type SubjectPredicate func(gram.Subject) bool

// Predicate tests a pattern node, with access to its whole subtree.
type Predicate func(*gram.Pattern) bool

// Identifier matches subjects with the given identifier.
func Identifier(id string) SubjectPredicate {
	return func(s gram.Subject) bool { return s.Identifier == id }
}

// HasLabel matches subjects carrying the label.
func HasLabel(label string) SubjectPredicate {
	return func(s gram.Subject) bool { return s.HasLabel(label) }
}

// PropertyEq matches subjects whose property key equals value.
func PropertyEq(key string, value gram.Value) SubjectPredicate {
	return func(s gram.Subject) bool {
		v, ok := s.Properties.Get(key)

		return ok && v.Equal(value)
	}
}

// Property matches subjects whose property key satisfies fn.
func Property(key string, fn func(gram.Value) bool) SubjectPredicate {
	return func(s gram.Subject) bool {
		v, ok := s.Properties.Get(key)

		return ok && fn(v)
	}
}

// PropertyGreaterThan matches subjects whose numeric property exceeds n.
func PropertyGreaterThan(key string, n float64) SubjectPredicate {
	return Property(key, func(v gram.Value) bool {
		f, ok := v.Number()

		return ok && f > n
	})
}

// PropertyLessThan matches subjects whose numeric property is below n.
func PropertyLessThan(key string, n float64) SubjectPredicate {
	return Property(key, func(v gram.Value) bool {
		f, ok := v.Number()

		return ok && f < n
	})
}

// On lifts a subject predicate to a pattern predicate evaluated against the
// node's own subject.
func On(sp SubjectPredicate) Predicate {
	return func(p *gram.Pattern) bool { return p != nil && sp(p.Value) }
}

// And matches when every predicate matches. With no operands it matches
// everything.
func And(preds ...Predicate) Predicate {
	return func(p *gram.Pattern) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}

		return true
	}
}

// Or matches when any predicate matches. With no operands it matches
// nothing.
func Or(preds ...Predicate) Predicate {
	return func(p *gram.Pattern) bool {
		for _, pred := range preds {
			if pred(p) {
				return true
			}
		}

		return false
	}
}

// Not inverts a predicate.
func Not(pred Predicate) Predicate {
	return func(p *gram.Pattern) bool { return !pred(p) }
}

// AllElements matches nodes whose every direct element satisfies pred. A
// leaf matches vacuously.
func AllElements(pred Predicate) Predicate {
	return func(p *gram.Pattern) bool {
		if p == nil {
			return false
		}

		for _, el := range p.Elements {
			if !pred(el.Pattern) {
				return false
			}
		}

		return true
	}
}

// AtLeast matches nodes with n or more direct elements satisfying pred.
func AtLeast(n int, pred Predicate) Predicate {
	return func(p *gram.Pattern) bool {
		if p == nil {
			return false
		}

		count := 0

		for _, el := range p.Elements {
			if pred(el.Pattern) {
				count++
				if count >= n {
					return true
				}
			}
		}

		return count >= n
	}
}

// Find returns the first sub-pattern matching pred in pre-order, or nil.
func Find(root *gram.Pattern, pred Predicate) *gram.Pattern {
	var found *gram.Pattern

	pattern.Walk(root, func(p *gram.Pattern) bool {
		if pred(p) {
			found = p

			return false
		}

		return true
	})

	return found
}

// FindAll returns every matching sub-pattern in pre-order.
func FindAll(root *gram.Pattern, pred Predicate) []*gram.Pattern {
	var found []*gram.Pattern

	pattern.Walk(root, func(p *gram.Pattern) bool {
		if pred(p) {
			found = append(found, p)
		}

		return true
	})

	return found
}

// Package pattern provides the generic recursive tree underlying gram
// patterns, together with its structural algebra: functor map, catamorphism
// and paramorphism folds, comonadic extract/extend, and pre-order walking.
//
// A Pattern is a finite, acyclic tree. Every node holds a value of type V
// and an ordered sequence of child slots. Each slot may carry an edge
// annotation of type E joining the child to its preceding sibling; this is
// how path alternation (node, relationship, node, ...) is encoded without
// making edges tree nodes of their own.
//
// All operations are pure: they never mutate their input and return fresh
// trees. Traversals use explicit work stacks rather than native recursion,
// so deeply nested input cannot exhaust the goroutine stack.
package pattern

// Pattern is a node in the tree: a value plus ordered child elements.
type Pattern[V, E any] struct {
	Value    V
	Elements []Element[V, E]
}

// Element is a child slot. Edge is nil for plain containment (group members,
// the first step of a path) and non-nil when the child is joined to its
// preceding sibling, as in a path chain.
type Element[V, E any] struct {
	Edge    *E
	Pattern *Pattern[V, E]
}

// New constructs a pattern node with the given value and elements.
func New[V, E any](value V, elements ...Element[V, E]) *Pattern[V, E] {
	return &Pattern[V, E]{Value: value, Elements: elements}
}

// Member wraps a child pattern in an un-edged element slot.
func Member[V, E any](p *Pattern[V, E]) Element[V, E] {
	return Element[V, E]{Pattern: p}
}

// Joined wraps a child pattern in an element slot annotated with an edge.
func Joined[V, E any](edge E, p *Pattern[V, E]) Element[V, E] {
	return Element[V, E]{Edge: &edge, Pattern: p}
}

// IsLeaf reports whether the node has no elements.
func (p *Pattern[V, E]) IsLeaf() bool {
	return p != nil && len(p.Elements) == 0
}

// HasEdges reports whether any element slot carries an edge annotation.
func (p *Pattern[V, E]) HasEdges() bool {
	if p == nil {
		return false
	}

	for _, el := range p.Elements {
		if el.Edge != nil {
			return true
		}
	}

	return false
}

// Children returns the child patterns in element order.
func (p *Pattern[V, E]) Children() []*Pattern[V, E] {
	if p == nil || len(p.Elements) == 0 {
		return nil
	}

	children := make([]*Pattern[V, E], len(p.Elements))
	for i, el := range p.Elements {
		children[i] = el.Pattern
	}

	return children
}

// cloneEdge returns a shallow copy of an edge annotation, so derived trees
// never alias the slots of the tree they were derived from.
func cloneEdge[E any](e *E) *E {
	if e == nil {
		return nil
	}

	c := *e

	return &c
}

// Package gram parses, serializes, and merges gram notation: a compact text
// form for graph patterns: nodes with identifiers, labels, and properties,
// directed and undirected relationships, chained paths, and nested groups.
//
// The in-memory form is a recursive pattern tree (see the pattern
// subpackage) whose node values are Subjects and whose child slots may carry
// Relationship edge annotations. Trees are produced once, by Parse or by the
// constructors here, and treated as immutable thereafter; every derived tree
// is freshly allocated.
package gram

import (
	"strings"

	"github.com/gram-data/gram/pattern"
)

// Pattern is the domain tree: Subject node values joined by Relationship
// edge annotations.
type Pattern = pattern.Pattern[Subject, Relationship]

// Element is a child slot of a domain Pattern.
type Element = pattern.Element[Subject, Relationship]

// Subject is a node's payload: an optional identifier, an ordered set of
// labels, and insertion-ordered properties.
type Subject struct {
	// Identifier cross-references repeated mentions of the same entity by
	// name. It is a lookup key (see CollectRefs), never a structural pointer.
	Identifier string
	// Labels preserve insertion order; duplicates are rejected at parse time.
	Labels []string
	// Properties map string keys to values, keys unique, insertion order
	// preserved for serialization.
	Properties Properties
}

// HasLabel reports whether the subject carries the given label.
func (s Subject) HasLabel(label string) bool {
	for _, l := range s.Labels {
		if l == label {
			return true
		}
	}

	return false
}

// IsEmpty reports whether the subject has no identifier, labels, or
// properties. Path roots and synthetic group roots are empty subjects.
func (s Subject) IsEmpty() bool {
	return s.Identifier == "" && len(s.Labels) == 0 && s.Properties.Len() == 0
}

// clone deep-copies the subject so derived trees share no slices with their
// source.
func (s Subject) clone() Subject {
	out := Subject{Identifier: s.Identifier, Properties: s.Properties.clone()}
	if len(s.Labels) > 0 {
		out.Labels = append([]string(nil), s.Labels...)
	}

	return out
}

// Direction is the orientation of a relationship.
type Direction int

// Relationship directions.
const (
	Undirected Direction = iota
	Outgoing
	Incoming
)

// String returns the bare arrow form for the direction.
func (d Direction) String() string {
	switch d {
	case Outgoing:
		return "-->"
	case Incoming:
		return "<--"
	default:
		return "--"
	}
}

// Relationship annotates the edge between two consecutive patterns in a
// path. It is not a tree node of its own; it rides on the child slot.
type Relationship struct {
	Direction Direction
	// Type is the optional relationship type label.
	Type       string
	Properties Properties
}

// Property is a single key/value entry.
type Property struct {
	Key   string
	Value Value
}

// Properties is an insertion-ordered string-to-Value mapping with unique
// keys. The zero value is an empty mapping.
type Properties struct {
	entries []Property
}

// NewProperties builds a mapping from entries in order. Later duplicates
// overwrite earlier ones in place, keeping first-seen key order.
func NewProperties(entries ...Property) Properties {
	var p Properties
	for _, e := range entries {
		p = p.With(e.Key, e.Value)
	}

	return p
}

// Len returns the number of entries.
func (p Properties) Len() int { return len(p.entries) }

// Get returns the value stored under key.
func (p Properties) Get(key string) (Value, bool) {
	for _, e := range p.entries {
		if e.Key == key {
			return e.Value, true
		}
	}

	return Value{}, false
}

// Has reports whether key is present.
func (p Properties) Has(key string) bool {
	_, ok := p.Get(key)

	return ok
}

// Entries returns the entries in insertion order. The returned slice is a
// copy and may be modified freely.
func (p Properties) Entries() []Property {
	return append([]Property(nil), p.entries...)
}

// Keys returns the keys in insertion order.
func (p Properties) Keys() []string {
	keys := make([]string, len(p.entries))
	for i, e := range p.entries {
		keys[i] = e.Key
	}

	return keys
}

// With returns a copy of the mapping with key set to value. An existing key
// keeps its position; a new key is appended.
func (p Properties) With(key string, value Value) Properties {
	out := p.clone()
	for i, e := range out.entries {
		if e.Key == key {
			out.entries[i].Value = value

			return out
		}
	}

	out.entries = append(out.entries, Property{Key: key, Value: value})

	return out
}

// Union merges other into the mapping: keys already present keep their
// position with other's value winning, new keys are appended in other's
// order.
func (p Properties) Union(other Properties) Properties {
	out := p.clone()
	for _, e := range other.entries {
		out = out.With(e.Key, e.Value)
	}

	return out
}

// Equal reports entry-wise equality, order included.
func (p Properties) Equal(other Properties) bool {
	if len(p.entries) != len(other.entries) {
		return false
	}

	for i, e := range p.entries {
		if e != other.entries[i] {
			return false
		}
	}

	return true
}

// String renders the mapping as a gram properties literal.
func (p Properties) String() string {
	if len(p.entries) == 0 {
		return "{}"
	}

	parts := make([]string, len(p.entries))
	for i, e := range p.entries {
		parts[i] = e.Key + ": " + e.Value.String()
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

func (p Properties) clone() Properties {
	if len(p.entries) == 0 {
		return Properties{}
	}

	return Properties{entries: append([]Property(nil), p.entries...)}
}

// Shape classifies a pattern node for serialization and merging.
type Shape int

// Pattern shapes.
const (
	// ShapeNode is a leaf: a single subject.
	ShapeNode Shape = iota
	// ShapePath is a node whose elements chain subjects with relationship
	// edges.
	ShapePath
	// ShapeGroup is a node whose elements are plain members, no edges.
	ShapeGroup
)

// ShapeOf classifies a pattern node.
func ShapeOf(p *Pattern) Shape {
	switch {
	case p.IsLeaf():
		return ShapeNode
	case p.HasEdges():
		return ShapePath
	default:
		return ShapeGroup
	}
}

// Node constructs a leaf pattern for a single subject.
func Node(subject Subject) *Pattern {
	return pattern.New[Subject, Relationship](subject)
}

// Group constructs a group pattern with the given header subject and member
// patterns.
func Group(header Subject, members ...*Pattern) *Pattern {
	elements := make([]Element, len(members))
	for i, m := range members {
		elements[i] = pattern.Member(m)
	}

	return pattern.New(header, elements...)
}

// Step pairs a relationship with the pattern it leads to; used with Path.
type Step struct {
	Rel  Relationship
	Next *Pattern
}

// Path chains a head pattern through relationship steps. With no steps the
// head itself is returned.
func Path(head *Pattern, steps ...Step) *Pattern {
	if len(steps) == 0 {
		return head
	}

	elements := make([]Element, 0, len(steps)+1)
	elements = append(elements, pattern.Member(head))

	for _, s := range steps {
		elements = append(elements, pattern.Joined(s.Rel, s.Next))
	}

	return pattern.New(Subject{}, elements...)
}

// clonePattern deep-copies a domain tree, subjects and edges included.
func clonePattern(p *Pattern) *Pattern {
	return pattern.Map(p, Subject.clone)
}

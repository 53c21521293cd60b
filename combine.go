package gram

import "github.com/gram-data/gram/pattern"

// Combine merges two patterns associatively (a semigroup over patterns).
//
// When both roots carry the same non-empty identifier, the result is a
// single root: labels become the ordered-set union (a's order first, b's new
// labels appended), properties the key union with b winning on conflicts
// while a's key order is kept, and elements the concatenation of both sides'
// elements.
//
// Otherwise the operands become sibling members of a synthetic anonymous
// group. An operand that is itself an anonymous group contributes its
// members rather than nesting, and a member carrying the same non-empty
// identifier as one already in the group merges into it. Together those two
// rules make the operation associative across chains of patterns whether or
// not their identifiers overlap.
//
// Combine never mutates its arguments; both sides are deep-copied into the
// result.
func Combine(a, b *Pattern) *Pattern {
	switch {
	case a == nil:
		return clonePattern(b)
	case b == nil:
		return clonePattern(a)
	}

	if a.Value.Identifier != "" && a.Value.Identifier == b.Value.Identifier {
		return mergeRoots(a, b)
	}

	members := make([]Element, 0, grouplen(a)+grouplen(b))
	members = appendMembers(members, a)
	members = appendMembers(members, b)

	return pattern.New(Subject{}, members...)
}

// CombineAll folds Combine over patterns left to right. Returns nil for an
// empty input.
func CombineAll(patterns ...*Pattern) *Pattern {
	var acc *Pattern
	for _, p := range patterns {
		acc = Combine(acc, p)
	}

	return acc
}

func mergeRoots(a, b *Pattern) *Pattern {
	subject := Subject{
		Identifier: a.Value.Identifier,
		Labels:     unionLabels(a.Value.Labels, b.Value.Labels),
		Properties: a.Value.Properties.Union(b.Value.Properties),
	}

	elements := make([]Element, 0, len(a.Elements)+len(b.Elements))
	elements = append(elements, cloneElements(a.Elements)...)
	elements = append(elements, cloneElements(b.Elements)...)

	return pattern.New(subject, elements...)
}

// unionLabels keeps a's order and appends b's labels not already present.
func unionLabels(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}

	out := append([]string(nil), a...)

	for _, label := range b {
		seen := false

		for _, existing := range out {
			if existing == label {
				seen = true

				break
			}
		}

		if !seen {
			out = append(out, label)
		}
	}

	return out
}

// isAnonymousGroup reports whether p is a group with an empty header, the
// shape Combine synthesizes, which flattens instead of nesting.
func isAnonymousGroup(p *Pattern) bool {
	return ShapeOf(p) == ShapeGroup && p.Value.IsEmpty()
}

func grouplen(p *Pattern) int {
	if isAnonymousGroup(p) {
		return len(p.Elements)
	}

	return 1
}

func appendMembers(members []Element, p *Pattern) []Element {
	if isAnonymousGroup(p) {
		for _, el := range p.Elements {
			members = appendMember(members, el.Pattern)
		}

		return members
	}

	return appendMember(members, p)
}

// appendMember adds p to the member list, merging it into an existing member
// whose root carries the same non-empty identifier. Keying members by
// identifier keeps Combine associative when identifier collisions surface in
// different association orders.
func appendMember(members []Element, p *Pattern) []Element {
	if id := p.Value.Identifier; id != "" {
		for i, el := range members {
			if el.Pattern != nil && el.Pattern.Value.Identifier == id {
				members[i] = pattern.Member(mergeRoots(el.Pattern, p))

				return members
			}
		}
	}

	return append(members, pattern.Member(clonePattern(p)))
}

func cloneElements(elements []Element) []Element {
	out := make([]Element, len(elements))
	for i, el := range elements {
		out[i] = Element{Edge: cloneRelationship(el.Edge), Pattern: clonePattern(el.Pattern)}
	}

	return out
}

func cloneRelationship(r *Relationship) *Relationship {
	if r == nil {
		return nil
	}

	c := *r
	c.Properties = r.Properties.clone()

	return &c
}

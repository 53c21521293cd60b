package gram

import "github.com/gram-data/gram/pattern"

// RefTable resolves identifier cross-references within a pattern: the same
// identifier reused across a pattern refers to "the same" entity by name.
// The table maps each identifier to its first-seen subject in pre-order and
// counts occurrences. It is a lookup built after parsing, never in-tree
// aliasing.
type RefTable struct {
	order  []string
	first  map[string]Subject
	counts map[string]int
}

// CollectRefs walks the pattern in pre-order and indexes every identified
// subject.
func CollectRefs(p *Pattern) *RefTable {
	t := &RefTable{
		first:  make(map[string]Subject),
		counts: make(map[string]int),
	}

	pattern.Walk(p, func(node *Pattern) bool {
		id := node.Value.Identifier
		if id == "" {
			return true
		}

		if _, seen := t.first[id]; !seen {
			t.order = append(t.order, id)
			t.first[id] = node.Value.clone()
		}

		t.counts[id]++

		return true
	})

	return t
}

// First returns the first-seen subject for an identifier.
func (t *RefTable) First(id string) (Subject, bool) {
	s, ok := t.first[id]

	return s, ok
}

// Occurrences returns how many subjects in the pattern carry the
// identifier.
func (t *RefTable) Occurrences(id string) int {
	return t.counts[id]
}

// Identifiers returns all identifiers in first-seen order.
func (t *RefTable) Identifiers() []string {
	return append([]string(nil), t.order...)
}

package gram

import (
	"strings"

	"github.com/gram-data/gram/pattern"
)

// Format serializes a pattern to canonical gram notation. It is total over
// well-formed trees: labels and properties print in stored insertion order,
// relationships use the minimal arrow for their direction, and groups
// separate their header from members with '|'. Formatting is built on the
// algebra's Para, so arbitrarily deep trees serialize without native
// recursion.
//
// Parse(Format(p)) is structurally equal to p for every legally constructed
// p; byte-identity with whatever source text produced p is not promised.
func Format(p *Pattern) string {
	if p == nil {
		return ""
	}

	return pattern.Para(p, func(node *Pattern, rendered []string) string {
		switch ShapeOf(node) {
		case ShapeNode:
			return formatNode(node.Value)
		case ShapePath:
			return formatPath(node, rendered)
		default:
			return formatGroup(node.Value, rendered)
		}
	})
}

// FormatAll serializes several patterns, one per line.
func FormatAll(patterns []*Pattern) string {
	parts := make([]string, len(patterns))
	for i, p := range patterns {
		parts[i] = Format(p)
	}

	return strings.Join(parts, "\n")
}

func formatNode(s Subject) string {
	return "(" + formatSubject(s) + ")"
}

func formatPath(node *Pattern, rendered []string) string {
	var b strings.Builder

	for i, text := range rendered {
		if edge := node.Elements[i].Edge; edge != nil {
			b.WriteString(formatRelationship(*edge))
		}

		b.WriteString(text)
	}

	return b.String()
}

func formatGroup(header Subject, rendered []string) string {
	var b strings.Builder
	b.WriteByte('[')

	if h := formatSubject(header); h != "" {
		b.WriteString(h)
		b.WriteByte(' ')
	}

	b.WriteString("| ")
	b.WriteString(strings.Join(rendered, ", "))
	b.WriteByte(']')

	return b.String()
}

// formatSubject renders "identifier:Label:Label {key: value}" with each part
// optional.
func formatSubject(s Subject) string {
	var b strings.Builder
	b.WriteString(s.Identifier)

	for _, label := range s.Labels {
		b.WriteByte(':')
		b.WriteString(label)
	}

	if s.Properties.Len() > 0 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(s.Properties.String())
	}

	return b.String()
}

// formatRelationship renders the minimal arrow for the direction, with the
// bracketed body only when a type or properties are present.
func formatRelationship(r Relationship) string {
	body := ""

	if r.Type != "" || r.Properties.Len() > 0 {
		var b strings.Builder
		b.WriteByte('[')

		if r.Type != "" {
			b.WriteByte(':')
			b.WriteString(r.Type)
		}

		if r.Properties.Len() > 0 {
			if r.Type != "" {
				b.WriteByte(' ')
			}

			b.WriteString(r.Properties.String())
		}

		b.WriteByte(']')
		body = b.String()
	}

	switch r.Direction {
	case Outgoing:
		if body == "" {
			return "-->"
		}

		return "-" + body + "->"
	case Incoming:
		if body == "" {
			return "<--"
		}

		return "<-" + body + "-"
	default:
		if body == "" {
			return "--"
		}

		return "-" + body + "-"
	}
}

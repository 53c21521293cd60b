// Package cypher renders gram patterns as Cypher write statements for
// loading into a property-graph database.
//
// Each pattern becomes one statement. Group members flatten into
// comma-separated path fragments of a single clause so identifier bindings
// are shared. A subject mentioned more than once is written in full at its
// first occurrence and referenced by bare identifier afterwards.
package cypher

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gram-data/gram"
)

// Rendering errors.
var (
	// ErrUntypedRelationship reports a relationship with no type; Cypher
	// write clauses require one.
	ErrUntypedRelationship = errors.New("cypher: relationship without a type")
	// ErrNestedGroup reports a group appearing inside a path; Cypher has no
	// literal for that shape.
	ErrNestedGroup = errors.New("cypher: group nested inside a path")
)

// Create renders the pattern as a CREATE statement.
func Create(p *gram.Pattern) (string, error) {
	return render("CREATE", p)
}

// Merge renders the pattern as a MERGE statement, one MERGE per path
// fragment so each fragment matches or creates independently.
func Merge(p *gram.Pattern) (string, error) {
	fragments, err := fragmentsOf(p)
	if err != nil {
		return "", err
	}

	return strings.Join(prefixEach("MERGE ", fragments), "\n"), nil
}

// Script renders one CREATE statement per pattern, newline separated.
// Identifier scope is per statement, matching how the statements execute.
func Script(patterns []*gram.Pattern) (string, error) {
	statements := make([]string, 0, len(patterns))

	for _, p := range patterns {
		stmt, err := Create(p)
		if err != nil {
			return "", err
		}

		statements = append(statements, stmt)
	}

	return strings.Join(statements, "\n"), nil
}

func render(keyword string, p *gram.Pattern) (string, error) {
	fragments, err := fragmentsOf(p)
	if err != nil {
		return "", err
	}

	return keyword + " " + strings.Join(fragments, ", "), nil
}

func prefixEach(prefix string, fragments []string) []string {
	out := make([]string, len(fragments))
	for i, f := range fragments {
		out[i] = prefix + f
	}

	return out
}

// emitter tracks identifier state across the fragments of one statement.
type emitter struct {
	refs *gram.RefTable
	// seen marks identifiers already written in full.
	seen map[string]bool
	anon int
}

func fragmentsOf(p *gram.Pattern) ([]string, error) {
	e := &emitter{
		refs: gram.CollectRefs(p),
		seen: make(map[string]bool),
	}

	return e.fragments(p)
}

// fragments flattens a pattern into path fragments. Groups contribute one
// fragment per member; nodes and paths contribute one.
func (e *emitter) fragments(p *gram.Pattern) ([]string, error) {
	if gram.ShapeOf(p) != gram.ShapeGroup {
		fragment, err := e.path(p)
		if err != nil {
			return nil, err
		}

		return []string{fragment}, nil
	}

	var out []string

	for _, el := range p.Elements {
		nested, err := e.fragments(el.Pattern)
		if err != nil {
			return nil, err
		}

		out = append(out, nested...)
	}

	return out, nil
}

// path renders a node or a relationship chain.
func (e *emitter) path(p *gram.Pattern) (string, error) {
	if gram.ShapeOf(p) == gram.ShapeNode {
		return e.node(p.Value), nil
	}

	var b strings.Builder

	for _, el := range p.Elements {
		if el.Edge != nil {
			arrow, err := relationship(*el.Edge)
			if err != nil {
				return "", err
			}

			b.WriteString(arrow)
		}

		operand := el.Pattern
		if gram.ShapeOf(operand) == gram.ShapeGroup {
			return "", fmt.Errorf("%w: [%s ...]", ErrNestedGroup, operand.Value.Identifier)
		}

		segment, err := e.path(operand)
		if err != nil {
			return "", err
		}

		b.WriteString(segment)
	}

	return b.String(), nil
}

// node renders a node, writing labels and properties only at the first
// occurrence of its identifier. Anonymous nodes get generated variables so
// repeated anonymous subjects stay distinct.
func (e *emitter) node(s gram.Subject) string {
	name := s.Identifier
	if name == "" {
		e.anon++
		name = "_g" + strconv.Itoa(e.anon)
	} else if e.seen[name] {
		return "(" + escapeName(name) + ")"
	} else {
		e.seen[name] = true
		if first, ok := e.refs.First(name); ok {
			s = first
		}
	}

	var b strings.Builder

	b.WriteByte('(')
	b.WriteString(escapeName(name))

	for _, label := range s.Labels {
		b.WriteByte(':')
		b.WriteString(escapeName(label))
	}

	if s.Properties.Len() > 0 {
		b.WriteByte(' ')
		b.WriteString(properties(s.Properties))
	}

	b.WriteByte(')')

	return b.String()
}

// relationship renders the edge between two path operands. Undirected
// edges are written left-to-right: Cypher write clauses demand an
// orientation, and loading an undirected pair stores one arbitrary one.
func relationship(r gram.Relationship) (string, error) {
	if r.Type == "" {
		return "", ErrUntypedRelationship
	}

	var b strings.Builder

	if r.Direction == gram.Incoming {
		b.WriteString("<-[:")
	} else {
		b.WriteString("-[:")
	}

	b.WriteString(escapeName(r.Type))

	if r.Properties.Len() > 0 {
		b.WriteByte(' ')
		b.WriteString(properties(r.Properties))
	}

	if r.Direction == gram.Incoming {
		b.WriteString("]-")
	} else {
		b.WriteString("]->")
	}

	return b.String(), nil
}

func properties(props gram.Properties) string {
	parts := make([]string, 0, props.Len())
	for _, entry := range props.Entries() {
		parts = append(parts, escapeName(entry.Key)+": "+entry.Value.String())
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

// escapeName backtick-quotes names that are not plain Cypher identifiers.
func escapeName(name string) string {
	if plainName(name) {
		return name
	}

	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func plainName(name string) bool {
	if name == "" {
		return false
	}

	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}

	return true
}

package gram

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/gram-data/gram/pattern"
)

// DefaultMaxDepth bounds pattern nesting accepted by the package-level parse
// functions. Deeply nested groups are valid notation but unbounded recursion
// on untrusted input is not; exceeding the limit is a DepthLimitExceeded
// parse error, never a crash.
const DefaultMaxDepth = 128

// Parser is a recursive-descent parser over the gram token stream. The zero
// value is not usable; construct with NewParser.
type Parser struct {
	lex *lexerState
	tok lexer.Token

	// MaxDepth bounds pattern nesting. Defaults to DefaultMaxDepth.
	MaxDepth int
}

// NewParser creates a parser for the given input. The filename is used only
// in positions and diagnostics.
func NewParser(filename, input string) *Parser {
	p := &Parser{
		lex:      newLexerState(filename, input),
		MaxDepth: DefaultMaxDepth,
	}
	p.next()

	return p
}

// Parse parses a single pattern followed by end of input.
func Parse(input string) (*Pattern, error) {
	return NewParser("", input).ParseOne()
}

// ParseAll parses zero or more whitespace-separated top-level patterns.
func ParseAll(input string) ([]*Pattern, error) {
	return NewParser("", input).ParseMany()
}

// Validate reports whether the input parses. It never returns an error.
func Validate(input string) bool {
	_, err := ParseAll(input)

	return err == nil
}

// RoundTrip parses the input and re-serializes it in canonical form.
// Top-level patterns are separated by newlines.
func RoundTrip(input string) (string, error) {
	patterns, err := ParseAll(input)
	if err != nil {
		return "", err
	}

	parts := make([]string, len(patterns))
	for i, p := range patterns {
		parts[i] = Format(p)
	}

	return strings.Join(parts, "\n"), nil
}

// ParseOne parses exactly one pattern and requires end of input after it.
func (p *Parser) ParseOne() (*Pattern, error) {
	tree, err := p.parsePattern(0)
	if err != nil {
		return nil, err
	}

	if p.tok.Type != tEOF {
		return nil, p.unexpected("end of input")
	}

	return tree, nil
}

// ParseMany parses whitespace-separated patterns until end of input.
func (p *Parser) ParseMany() ([]*Pattern, error) {
	var patterns []*Pattern

	for p.tok.Type != tEOF {
		tree, err := p.parsePattern(0)
		if err != nil {
			return nil, err
		}

		patterns = append(patterns, tree)
	}

	return patterns, nil
}

// next pulls the next significant token, skipping whitespace and comments.
func (p *Parser) next() {
	for {
		tok, _ := p.lex.Next() // the lexer is total; the error is always nil
		if tok.Type == tWhitespace || tok.Type == tComment {
			continue
		}

		p.tok = tok

		return
	}
}

// span returns the source span of a token.
func (p *Parser) span(tok lexer.Token) Span {
	end := tok.Pos
	for _, r := range tok.Value {
		if r == '\n' {
			end.Line++
			end.Column = 1
		} else {
			end.Column++
		}

		end.Offset += len(string(r))
	}

	return Span{Start: tok.Pos, End: end}
}

// lexical converts an error-kind token into the corresponding parse error.
func (p *Parser) lexical() *ParseError {
	tok := p.tok
	if tok.Type == tErrorString {
		return parseErrorf(UnterminatedString, p.span(tok), "unterminated string literal")
	}

	return parseErrorf(UnexpectedCharacter, p.span(tok), "unexpected character %q", tok.Value)
}

// unexpected reports the current token against what the grammar wanted.
func (p *Parser) unexpected(want string) *ParseError {
	switch p.tok.Type {
	case tErrorChar, tErrorString:
		return p.lexical()
	case tEOF:
		return parseErrorf(ExpectedToken, p.span(p.tok), "expected %s, found end of input", want)
	default:
		return parseErrorf(ExpectedToken, p.span(p.tok), "expected %s, found %q", want, p.tok.Value)
	}
}

// parsePattern parses a node, group, or path pattern.
//
//	pattern := (node | group) (relationship (node | group))*
func (p *Parser) parsePattern(depth int) (*Pattern, error) {
	if depth >= p.MaxDepth {
		return nil, parseErrorf(DepthLimitExceeded, p.span(p.tok),
			"pattern nesting exceeds %d levels", p.MaxDepth)
	}

	head, err := p.parseUnit(depth)
	if err != nil {
		return nil, err
	}

	// Greedily extend into a path while a relationship follows.
	var elements []Element

	for p.tok.Type == tDash || p.tok.Type == tLeftArrow {
		rel, err := p.parseRelationship()
		if err != nil {
			return nil, err
		}

		next, err := p.parseUnit(depth)
		if err != nil {
			return nil, err
		}

		if elements == nil {
			elements = append(elements, pattern.Member(head))
		}

		elements = append(elements, pattern.Joined(*rel, next))
	}

	if elements == nil {
		return head, nil
	}

	return pattern.New(Subject{}, elements...), nil
}

// parseUnit parses the non-path alternatives: a node or a group.
func (p *Parser) parseUnit(depth int) (*Pattern, error) {
	switch p.tok.Type {
	case tLParen:
		return p.parseNode()
	case tLBracket:
		return p.parseGroup(depth)
	case tErrorChar, tErrorString:
		return nil, p.lexical()
	default:
		return nil, p.unexpected("a pattern")
	}
}

// parseNode parses "(" identifier? labels? properties? ")".
func (p *Parser) parseNode() (*Pattern, error) {
	open := p.tok
	p.next()

	subject, err := p.parseSubject()
	if err != nil {
		return nil, err
	}

	if p.tok.Type != tRParen {
		if p.tok.Type == tEOF {
			return nil, parseErrorf(UnterminatedNode, p.span(open), "node is missing its closing ')'")
		}

		return nil, p.unexpected("')'")
	}

	p.next()

	return Node(subject), nil
}

// parseGroup parses "[" identifier? labels? properties? "|" pattern ("," pattern)* "]".
func (p *Parser) parseGroup(depth int) (*Pattern, error) {
	open := p.tok
	p.next()

	header, err := p.parseSubject()
	if err != nil {
		return nil, err
	}

	if p.tok.Type != tPipe {
		if p.tok.Type == tEOF {
			return nil, parseErrorf(UnterminatedGroup, p.span(open), "group is missing its closing ']'")
		}

		return nil, p.unexpected("'|'")
	}

	p.next()

	var members []*Pattern

	for {
		member, err := p.parsePattern(depth + 1)
		if err != nil {
			return nil, err
		}

		members = append(members, member)

		if p.tok.Type != tComma {
			break
		}

		p.next()
	}

	if p.tok.Type != tRBracket {
		if p.tok.Type == tEOF {
			return nil, parseErrorf(UnterminatedGroup, p.span(open), "group is missing its closing ']'")
		}

		return nil, p.unexpected("']'")
	}

	p.next()

	return Group(header, members...), nil
}

// parseSubject parses the identifier? labels? properties? header shared by
// nodes and groups.
func (p *Parser) parseSubject() (Subject, error) {
	var subject Subject

	if p.tok.Type == tIdent {
		subject.Identifier = p.tok.Value
		p.next()
	}

	labels, err := p.parseLabels()
	if err != nil {
		return Subject{}, err
	}

	subject.Labels = labels

	if p.tok.Type == tLBrace {
		props, err := p.parseProperties()
		if err != nil {
			return Subject{}, err
		}

		subject.Properties = props
	}

	return subject, nil
}

// parseLabels parses (":" ident)*. A colon, once seen, must be completed.
func (p *Parser) parseLabels() ([]string, error) {
	var labels []string

	for p.tok.Type == tColon {
		p.next()

		if p.tok.Type != tIdent {
			return nil, p.unexpected("a label name")
		}

		name := p.tok.Value
		for _, l := range labels {
			if l == name {
				return nil, parseErrorf(DuplicateLabel, p.span(p.tok), "label %q repeated on one subject", name)
			}
		}

		labels = append(labels, name)
		p.next()
	}

	return labels, nil
}

// parseProperties parses "{" (pair ("," pair)*)? "}" with a trailing comma
// rejected. Duplicate keys within one literal are rejected; labels are a
// set, keys are unique, and the two policies match.
func (p *Parser) parseProperties() (Properties, error) {
	open := p.tok
	p.next()

	var props Properties

	if p.tok.Type == tRBrace {
		p.next()

		return props, nil
	}

	for {
		if p.tok.Type != tIdent {
			if p.tok.Type == tEOF {
				return Properties{}, parseErrorf(UnterminatedProperties, p.span(open),
					"properties are missing their closing '}'")
			}

			return Properties{}, p.unexpected("a property key")
		}

		key := p.tok
		if props.Has(key.Value) {
			return Properties{}, parseErrorf(DuplicatePropertyKey, p.span(key),
				"property key %q repeated on one subject", key.Value)
		}

		p.next()

		if p.tok.Type != tColon {
			return Properties{}, p.unexpected("':'")
		}

		p.next()

		value, err := p.parseValue()
		if err != nil {
			return Properties{}, err
		}

		props = props.With(key.Value, value)

		if p.tok.Type == tComma {
			p.next()

			continue
		}

		break
	}

	if p.tok.Type != tRBrace {
		if p.tok.Type == tEOF {
			return Properties{}, parseErrorf(UnterminatedProperties, p.span(open),
				"properties are missing their closing '}'")
		}

		return Properties{}, p.unexpected("'}'")
	}

	p.next()

	return props, nil
}

// parseValue parses a string, number, boolean, or null literal.
func (p *Parser) parseValue() (Value, error) {
	tok := p.tok

	switch tok.Type {
	case tString:
		p.next()

		return StringValue(unquoteString(tok.Value)), nil

	case tNumber:
		p.next()

		if !strings.ContainsAny(tok.Value, ".eE") {
			if i, err := strconv.ParseInt(tok.Value, 10, 64); err == nil {
				return IntegerValue(i), nil
			}
		}

		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return Value{}, parseErrorf(InvalidPropertyValue, p.span(tok), "malformed number %q", tok.Value)
		}

		return FloatValue(f), nil

	case tBool:
		p.next()

		return BooleanValue(tok.Value == "true"), nil

	case tNull:
		p.next()

		return NullValue(), nil

	case tErrorChar, tErrorString:
		return Value{}, p.lexical()

	default:
		return Value{}, parseErrorf(InvalidPropertyValue, p.span(tok),
			"expected a string, number, boolean, or null, found %q", tok.Value)
	}
}

// parseRelationship parses the arrow forms joining path steps:
//
//	-->  --  <--  -[:T]->  -[:T]-  <-[:T]-
//
// and variants with a properties body.
func (p *Parser) parseRelationship() (*Relationship, error) {
	start := p.tok
	rel := &Relationship{}

	incoming := p.tok.Type == tLeftArrow
	if incoming {
		rel.Direction = Incoming
	}

	p.next()

	if p.tok.Type == tLBracket {
		if err := p.parseRelationshipBody(rel); err != nil {
			return nil, err
		}
	}

	switch {
	case incoming && p.tok.Type == tDash:
		p.next()
	case !incoming && p.tok.Type == tRightArrow:
		rel.Direction = Outgoing
		p.next()
	case !incoming && p.tok.Type == tDash:
		rel.Direction = Undirected
		p.next()
	default:
		return nil, parseErrorf(InvalidRelationshipForm, p.span(start),
			"relationship beginning at %q is not one of the arrow forms", start.Value)
	}

	return rel, nil
}

// parseRelationshipBody parses "[" (":" ident)? properties? "]".
func (p *Parser) parseRelationshipBody(rel *Relationship) error {
	open := p.tok
	p.next()

	if p.tok.Type == tColon {
		p.next()

		if p.tok.Type != tIdent {
			return p.unexpected("a relationship type")
		}

		rel.Type = p.tok.Value
		p.next()
	}

	if p.tok.Type == tLBrace {
		props, err := p.parseProperties()
		if err != nil {
			return err
		}

		rel.Properties = props
	}

	if p.tok.Type != tRBracket {
		return parseErrorf(InvalidRelationshipForm, p.span(open),
			"relationship body is missing its closing ']'")
	}

	p.next()

	return nil
}

// unquoteString strips the surrounding quotes and resolves backslash
// escapes. Unknown escapes keep the escaped character as-is.
func unquoteString(raw string) string {
	if len(raw) < 2 {
		return raw
	}

	body := raw[1 : len(raw)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}

	var b strings.Builder
	escaped := false

	for _, r := range body {
		if !escaped {
			if r == '\\' {
				escaped = true

				continue
			}

			b.WriteRune(r)

			continue
		}

		escaped = false

		switch r {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

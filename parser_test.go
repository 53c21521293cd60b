package gram_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gram-data/gram"
)

func TestParseNode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  *gram.Pattern
	}{
		{
			name:  "bare identifier",
			input: "(alice)",
			want:  gram.Node(gram.Subject{Identifier: "alice"}),
		},
		{
			name:  "empty node",
			input: "()",
			want:  gram.Node(gram.Subject{}),
		},
		{
			name:  "labels only",
			input: "(:Person:Employee)",
			want:  gram.Node(gram.Subject{Labels: []string{"Person", "Employee"}}),
		},
		{
			name:  "identifier labels and properties",
			input: `(alice:Person {name: "Alice", age: 30})`,
			want: gram.Node(gram.Subject{
				Identifier: "alice",
				Labels:     []string{"Person"},
				Properties: gram.NewProperties(
					gram.Property{Key: "name", Value: gram.StringValue("Alice")},
					gram.Property{Key: "age", Value: gram.IntegerValue(30)},
				),
			}),
		},
		{
			name:  "properties without identifier",
			input: `({active: true, score: 1.5, note: null})`,
			want: gram.Node(gram.Subject{
				Properties: gram.NewProperties(
					gram.Property{Key: "active", Value: gram.BooleanValue(true)},
					gram.Property{Key: "score", Value: gram.FloatValue(1.5)},
					gram.Property{Key: "note", Value: gram.NullValue()},
				),
			}),
		},
		{
			name:  "negative and exponent numbers",
			input: `(n {a: -1, b: 2e3, c: -0.5})`,
			want: gram.Node(gram.Subject{
				Identifier: "n",
				Properties: gram.NewProperties(
					gram.Property{Key: "a", Value: gram.IntegerValue(-1)},
					gram.Property{Key: "b", Value: gram.FloatValue(2000)},
					gram.Property{Key: "c", Value: gram.FloatValue(-0.5)},
				),
			}),
		},
		{
			name:  "single quoted string",
			input: `(n {name: 'Bob'})`,
			want: gram.Node(gram.Subject{
				Identifier: "n",
				Properties: gram.NewProperties(
					gram.Property{Key: "name", Value: gram.StringValue("Bob")},
				),
			}),
		},
		{
			name:  "escapes in strings",
			input: `(n {text: "line\nbreak\ttab \"quoted\""})`,
			want: gram.Node(gram.Subject{
				Identifier: "n",
				Properties: gram.NewProperties(
					gram.Property{Key: "text", Value: gram.StringValue("line\nbreak\ttab \"quoted\"")},
				),
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := gram.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParsePath(t *testing.T) {
	t.Parallel()

	input := `(alice:Person {name: "Alice", age: 30})-[:KNOWS]->(bob:Person)`

	got, err := gram.Parse(input)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if gram.ShapeOf(got) != gram.ShapePath {
		t.Fatalf("shape = %v, want ShapePath", gram.ShapeOf(got))
	}

	want := gram.Path(
		gram.Node(gram.Subject{
			Identifier: "alice",
			Labels:     []string{"Person"},
			Properties: gram.NewProperties(
				gram.Property{Key: "name", Value: gram.StringValue("Alice")},
				gram.Property{Key: "age", Value: gram.IntegerValue(30)},
			),
		}),
		gram.Step{
			Rel:  gram.Relationship{Direction: gram.Outgoing, Type: "KNOWS"},
			Next: gram.Node(gram.Subject{Identifier: "bob", Labels: []string{"Person"}}),
		},
	)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("path tree (-want +got):\n%s", diff)
	}

	// Serializing the result reproduces a re-parseable equivalent.
	again, err := gram.Parse(gram.Format(got))
	if err != nil {
		t.Fatalf("re-parse of %q: %v", gram.Format(got), err)
	}

	if diff := cmp.Diff(got, again); diff != "" {
		t.Errorf("round trip drifted (-first +second):\n%s", diff)
	}
}

func TestParseRelationshipForms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  gram.Relationship
	}{
		{"(a)-->(b)", gram.Relationship{Direction: gram.Outgoing}},
		{"(a)<--(b)", gram.Relationship{Direction: gram.Incoming}},
		{"(a)--(b)", gram.Relationship{Direction: gram.Undirected}},
		{"(a)-[:KNOWS]->(b)", gram.Relationship{Direction: gram.Outgoing, Type: "KNOWS"}},
		{"(a)<-[:KNOWS]-(b)", gram.Relationship{Direction: gram.Incoming, Type: "KNOWS"}},
		{"(a)-[:KNOWS]-(b)", gram.Relationship{Direction: gram.Undirected, Type: "KNOWS"}},
		{
			`(a)-[:RATED {stars: 5}]->(b)`,
			gram.Relationship{
				Direction: gram.Outgoing,
				Type:      "RATED",
				Properties: gram.NewProperties(
					gram.Property{Key: "stars", Value: gram.IntegerValue(5)},
				),
			},
		},
		{
			`(a)-[{weight: 0.5}]->(b)`,
			gram.Relationship{
				Direction: gram.Outgoing,
				Properties: gram.NewProperties(
					gram.Property{Key: "weight", Value: gram.FloatValue(0.5)},
				),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := gram.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}

			if len(got.Elements) != 2 || got.Elements[1].Edge == nil {
				t.Fatalf("Parse(%q) did not produce a two-step path", tt.input)
			}

			if diff := cmp.Diff(tt.want, *got.Elements[1].Edge); diff != "" {
				t.Errorf("relationship (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseLongPath(t *testing.T) {
	t.Parallel()

	got, err := gram.Parse("(a)-->(b)<--(c)--(d)")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if len(got.Elements) != 4 {
		t.Fatalf("path has %d elements, want 4", len(got.Elements))
	}

	if got.Elements[0].Edge != nil {
		t.Error("path head carries an edge")
	}

	ids := make([]string, len(got.Elements))
	for i, el := range got.Elements {
		ids[i] = el.Pattern.Value.Identifier
	}

	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, ids); diff != "" {
		t.Errorf("operand order (-want +got):\n%s", diff)
	}
}

func TestParseGroup(t *testing.T) {
	t.Parallel()

	got, err := gram.Parse("[team | (alice), (bob)]")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	want := gram.Group(gram.Subject{Identifier: "team"},
		gram.Node(gram.Subject{Identifier: "alice"}),
		gram.Node(gram.Subject{Identifier: "bob"}),
	)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("group tree (-want +got):\n%s", diff)
	}

	if gram.ShapeOf(got) != gram.ShapeGroup {
		t.Errorf("shape = %v, want ShapeGroup", gram.ShapeOf(got))
	}
}

func TestParseNestedGroupWithPath(t *testing.T) {
	t.Parallel()

	got, err := gram.Parse(`[g:Squad {since: 2020} | (a)-[:KNOWS]->(b), [inner | (c)]]`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	want := gram.Group(
		gram.Subject{
			Identifier: "g",
			Labels:     []string{"Squad"},
			Properties: gram.NewProperties(
				gram.Property{Key: "since", Value: gram.IntegerValue(2020)},
			),
		},
		gram.Path(
			gram.Node(gram.Subject{Identifier: "a"}),
			gram.Step{
				Rel:  gram.Relationship{Direction: gram.Outgoing, Type: "KNOWS"},
				Next: gram.Node(gram.Subject{Identifier: "b"}),
			},
		),
		gram.Group(gram.Subject{Identifier: "inner"}, gram.Node(gram.Subject{Identifier: "c"})),
	)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("nested group (-want +got):\n%s", diff)
	}
}

func TestParseAll(t *testing.T) {
	t.Parallel()

	input := "(a)\n(b)-->(c)\n// a comment\n[g | (d)]\n"

	patterns, err := gram.ParseAll(input)
	if err != nil {
		t.Fatalf("ParseAll error: %v", err)
	}

	if len(patterns) != 3 {
		t.Fatalf("ParseAll returned %d patterns, want 3", len(patterns))
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		kind       gram.ErrorKind
		wantOffset int
	}{
		{"unterminated node", "(unclosed", gram.UnterminatedNode, 0},
		{"unterminated group", "[g | (a)", gram.UnterminatedGroup, 0},
		{"unterminated group no pipe", "[g ", gram.UnterminatedGroup, 0},
		{"unterminated properties", "(n {a: 1", gram.UnterminatedProperties, 3},
		{"unterminated string", `(n {a: "oops`, gram.UnterminatedString, 7},
		{"missing close paren", "(a b)", gram.ExpectedToken, 3},
		{"bare braces", "{no_parens}", gram.ExpectedToken, 0},
		{"duplicate label", "(n:X:X)", gram.DuplicateLabel, 5},
		{"duplicate property key", "(n {a: 1, a: 2})", gram.DuplicatePropertyKey, 10},
		{"bad property value", "(n {a: })", gram.InvalidPropertyValue, 7},
		{"trailing property comma", "(n {a: 1,})", gram.ExpectedToken, 9},
		{"half arrow", "(a)-(b)", gram.InvalidRelationshipForm, 3},
		{"unclosed relationship body", "(a)-[:T->(b)", gram.InvalidRelationshipForm, 4},
		{"stray character", "(a) ; (b)", gram.UnexpectedCharacter, 4},
		{"trailing garbage after pattern", "(a))", gram.ExpectedToken, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := gram.ParseAll(tt.input)
			if err == nil {
				t.Fatalf("ParseAll(%q) succeeded, want %s", tt.input, tt.kind)
			}

			if !errors.Is(err, gram.ErrParse) {
				t.Errorf("error does not unwrap to ErrParse: %v", err)
			}

			var parseErr *gram.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error is not a *ParseError: %v", err)
			}

			if parseErr.Kind != tt.kind {
				t.Errorf("kind = %s, want %s (message %q)", parseErr.Kind, tt.kind, parseErr.Message)
			}

			if parseErr.Span.Start.Offset != tt.wantOffset {
				t.Errorf("offset = %d, want %d (message %q)",
					parseErr.Span.Start.Offset, tt.wantOffset, parseErr.Message)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	t.Parallel()

	_, err := gram.NewParser("people.gram", "(a)\n(b:X:X)").ParseMany()

	var parseErr *gram.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}

	if parseErr.Span.Start.Filename != "people.gram" {
		t.Errorf("filename = %q, want people.gram", parseErr.Span.Start.Filename)
	}

	if parseErr.Span.Start.Line != 2 || parseErr.Span.Start.Column != 6 {
		t.Errorf("position = %d:%d, want 2:6", parseErr.Span.Start.Line, parseErr.Span.Start.Column)
	}

	if !strings.HasPrefix(parseErr.Error(), "people.gram:2:6") {
		t.Errorf("Error() = %q, want people.gram:2:6 prefix", parseErr.Error())
	}
}

func TestParseDepthLimit(t *testing.T) {
	t.Parallel()

	deep := strings.Repeat("[g | ", gram.DefaultMaxDepth+1) +
		"(x)" + strings.Repeat("]", gram.DefaultMaxDepth+1)

	_, err := gram.Parse(deep)

	var parseErr *gram.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}

	if parseErr.Kind != gram.DepthLimitExceeded {
		t.Errorf("kind = %s, want %s", parseErr.Kind, gram.DepthLimitExceeded)
	}

	// A raised limit accepts the same input.
	p := gram.NewParser("", deep)
	p.MaxDepth = gram.DefaultMaxDepth * 2

	if _, err := p.ParseOne(); err != nil {
		t.Errorf("raised limit still rejects: %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"(alice)", true},
		{"(a)-->(b)", true},
		{"[team | (alice), (bob)]", true},
		{"", true},
		{"{no_parens}", false},
		{"(unclosed", false},
		{"(a)-(b)", false},
	}

	for _, tt := range tests {
		if got := gram.Validate(tt.input); got != tt.want {
			t.Errorf("Validate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIntegerOverflowFallsBackToFloat(t *testing.T) {
	t.Parallel()

	got, err := gram.Parse("(n {big: 99999999999999999999})")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	v, ok := got.Value.Properties.Get("big")
	if !ok {
		t.Fatal("property missing")
	}

	if v.Kind() != gram.KindFloat {
		t.Errorf("kind = %v, want KindFloat", v.Kind())
	}
}

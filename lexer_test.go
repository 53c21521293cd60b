package gram_test

import (
	"strings"
	"testing"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/google/go-cmp/cmp"

	"github.com/gram-data/gram"
)

// lexNames tokenizes input and returns the symbol name of each significant
// token, skipping whitespace.
func lexNames(t *testing.T, input string) []string {
	t.Helper()

	def := gram.Lexer()

	names := make(map[lexer.TokenType]string, len(def.Symbols()))
	for name, typ := range def.Symbols() {
		names[typ] = name
	}

	lx, err := def.(lexer.StringDefinition).LexString("", input)
	if err != nil {
		t.Fatalf("LexString: %v", err)
	}

	var out []string

	for {
		tok, err := lx.Next()
		if err != nil {
			t.Fatalf("lexer returned an error: %v", err)
		}

		if tok.EOF() {
			return out
		}

		if names[tok.Type] == "Whitespace" {
			continue
		}

		out = append(out, names[tok.Type])
	}
}

func TestLexTokenStream(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  []string
	}{
		{
			input: "(alice)",
			want:  []string{"(", "Ident", ")"},
		},
		{
			input: `(a:Person {name: "Alice", age: 30})`,
			want: []string{
				"(", "Ident", "Colon", "Ident", "{",
				"Ident", "Colon", "String", "Comma",
				"Ident", "Colon", "Number", "}", ")",
			},
		},
		{
			input: "-->",
			want:  []string{"Dash", "RightArrow"},
		},
		{
			input: "<--",
			want:  []string{"LeftArrow", "Dash"},
		},
		{
			input: "--",
			want:  []string{"Dash", "Dash"},
		},
		{
			input: "-[:KNOWS]->",
			want:  []string{"Dash", "[", "Colon", "Ident", "]", "RightArrow"},
		},
		{
			input: "[team | (a), (b)]",
			want:  []string{"[", "Ident", "Pipe", "(", "Ident", ")", "Comma", "(", "Ident", ")", "]"},
		},
		{
			input: "{a: true, b: false, c: null}",
			want: []string{
				"{", "Ident", "Colon", "Bool", "Comma",
				"Ident", "Colon", "Bool", "Comma",
				"Ident", "Colon", "Null", "}",
			},
		},
		{
			input: "-1 +2.5 .5 2e10 -0.5",
			want:  []string{"Number", "Number", "Number", "Number", "Number"},
		},
		{
			input: "// trailing comment\n(a)",
			want:  []string{"Comment", "(", "Ident", ")"},
		},
		{
			input: "truer nulls _x",
			want:  []string{"Ident", "Ident", "Ident"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := lexNames(t, tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tokens of %q (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

// The lexer is total: malformed input becomes error-kind tokens, never a
// lexer error.
func TestLexErrorTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  []string
	}{
		{";", []string{"ErrorChar"}},
		{"< (a)", []string{"ErrorChar", "(", "Ident", ")"}},
		{`"unterminated`, []string{"ErrorStr"}},
		{"\"broken\nline\"", []string{"ErrorStr", "Ident", "ErrorStr"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := lexNames(t, tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tokens of %q (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestLexPositions(t *testing.T) {
	t.Parallel()

	lx, err := gram.Lexer().(lexer.StringDefinition).LexString("f.gram", "(a)\n(b)")
	if err != nil {
		t.Fatalf("LexString: %v", err)
	}

	var tokens []lexer.Token

	for {
		tok, _ := lx.Next()
		if tok.EOF() {
			break
		}

		tokens = append(tokens, tok)
	}

	// "(" of the second pattern: line 2, column 1, offset 4.
	second := tokens[4]
	if second.Value != "(" {
		t.Fatalf("token[4] = %q, want \"(\"", second.Value)
	}

	if second.Pos.Filename != "f.gram" || second.Pos.Line != 2 || second.Pos.Column != 1 || second.Pos.Offset != 4 {
		t.Errorf("position = %+v, want f.gram:2:1 offset 4", second.Pos)
	}
}

func TestLexReader(t *testing.T) {
	t.Parallel()

	lx, err := gram.Lexer().Lex("", strings.NewReader("(a)"))
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}

	tok, err := lx.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}

	if tok.Value != "(" {
		t.Errorf("first token = %q, want \"(\"", tok.Value)
	}
}

package gram

import (
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// Token type constants - negative values as per participle convention.
const (
	tEOF        lexer.TokenType = lexer.EOF
	tComment    lexer.TokenType = -(iota + 2) //nolint:mnd // participle convention
	tString                                   // quoted strings
	tNumber                                   // signed decimal with optional fraction/exponent
	tIdent                                    // identifiers
	tBool                                     // true / false
	tNull                                     // null
	tColon                                    // :
	tComma                                    // ,
	tPipe                                     // |
	tDash                                     // -
	tLeftArrow                                // <-
	tRightArrow                               // ->
	tLParen                                   // (
	tRParen                                   // )
	tLBracket                                 // [
	tRBracket                                 // ]
	tLBrace                                   // {
	tRBrace                                   // }
	tWhitespace                               // spaces, tabs, newlines
	tErrorChar                                // unrecognized character
	tErrorString                              // unterminated string literal
)

// gramDefinition implements lexer.Definition for gram notation.
type gramDefinition struct {
	symbols map[string]lexer.TokenType
}

// Lexer returns the lexer Definition for gram notation. The lexer is total:
// it reports bad input as error-kind tokens rather than failing, leaving the
// reaction to the parser.
func Lexer() lexer.Definition { //nolint:ireturn // Definition is participle's contract.
	return newGramLexer()
}

func newGramLexer() *gramDefinition {
	return &gramDefinition{
		symbols: map[string]lexer.TokenType{
			"EOF":        tEOF,
			"Comment":    tComment,
			"String":     tString,
			"Number":     tNumber,
			"Ident":      tIdent,
			"Bool":       tBool,
			"Null":       tNull,
			"Colon":      tColon,
			"Comma":      tComma,
			"Pipe":       tPipe,
			"Dash":       tDash,
			"LeftArrow":  tLeftArrow,
			"RightArrow": tRightArrow,
			"Whitespace": tWhitespace,
			"ErrorChar":  tErrorChar,
			"ErrorStr":   tErrorString,
			"(":          tLParen,
			")":          tRParen,
			"[":          tLBracket,
			"]":          tRBracket,
			"{":          tLBrace,
			"}":          tRBrace,
		},
	}
}

// Symbols returns the mapping of symbol names to token types.
func (d *gramDefinition) Symbols() map[string]lexer.TokenType {
	return d.symbols
}

// Lex creates a new Lexer for the given reader.
//
//nolint:ireturn // Required by participle's lexer.Definition interface.
func (d *gramDefinition) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return newLexerState(filename, string(data)), nil
}

// LexString implements lexer.StringDefinition for efficiency.
//
//nolint:ireturn // Required by participle's lexer.StringDefinition interface.
func (d *gramDefinition) LexString(filename, input string) (lexer.Lexer, error) {
	return newLexerState(filename, input), nil
}

// LexBytes implements lexer.BytesDefinition for efficiency.
//
//nolint:ireturn // Required by participle's lexer.BytesDefinition interface.
func (d *gramDefinition) LexBytes(filename string, data []byte) (lexer.Lexer, error) {
	return newLexerState(filename, string(data)), nil
}

// lexerState holds the state for lexing one input.
type lexerState struct {
	filename string
	input    string
	offset   int
	line     int
	col      int
}

func newLexerState(filename, input string) *lexerState {
	return &lexerState{
		filename: filename,
		input:    input,
		offset:   0,
		line:     1,
		col:      1,
	}
}

// Next returns the next token. It never returns a non-nil error; malformed
// input becomes tErrorChar or tErrorString tokens.
func (l *lexerState) Next() (lexer.Token, error) {
	if l.eof() {
		return lexer.EOFToken(l.pos()), nil
	}

	start := l.pos()
	r := l.peek()

	// Whitespace
	if isSpace(r) {
		for !l.eof() && isSpace(l.peek()) {
			l.advance()
		}

		return l.token(tWhitespace, start), nil
	}

	// Line comment
	if r == '/' && l.peekAt(1) == '/' {
		for !l.eof() && l.peek() != '\n' {
			l.advance()
		}

		return l.token(tComment, start), nil
	}

	// String
	if r == '"' || r == '\'' {
		return l.scanString(start, r), nil
	}

	// Number, possibly signed: -1, +0.5, .25
	if isDigit(r) || startsNumber(r, l.peekAt(1)) {
		return l.scanNumber(start), nil
	}

	// Identifier / keyword literal
	if isIdentStart(r) {
		l.advance()

		for !l.eof() && isIdentContinue(l.peek()) {
			l.advance()
		}

		tok := l.token(tIdent, start)

		switch tok.Value {
		case "true", "false":
			tok.Type = tBool
		case "null":
			tok.Type = tNull
		}

		return tok, nil
	}

	// Arrow pieces. Longest match: "<-" and "->" before bare "-".
	if r == '<' {
		if l.peekAt(1) == '-' {
			l.advance()
			l.advance()

			return l.token(tLeftArrow, start), nil
		}

		l.advance()

		return l.token(tErrorChar, start), nil
	}

	if r == '-' {
		l.advance()

		if !l.eof() && l.peek() == '>' {
			l.advance()

			return l.token(tRightArrow, start), nil
		}

		return l.token(tDash, start), nil
	}

	// Single character tokens
	l.advance()

	switch r {
	case ':':
		return l.token(tColon, start), nil
	case ',':
		return l.token(tComma, start), nil
	case '|':
		return l.token(tPipe, start), nil
	case '(':
		return l.token(tLParen, start), nil
	case ')':
		return l.token(tRParen, start), nil
	case '[':
		return l.token(tLBracket, start), nil
	case ']':
		return l.token(tRBracket, start), nil
	case '{':
		return l.token(tLBrace, start), nil
	case '}':
		return l.token(tRBrace, start), nil
	}

	return l.token(tErrorChar, start), nil
}

func (l *lexerState) pos() lexer.Position {
	return lexer.Position{
		Filename: l.filename,
		Offset:   l.offset,
		Line:     l.line,
		Column:   l.col,
	}
}

func (l *lexerState) eof() bool {
	return l.offset >= len(l.input)
}

func (l *lexerState) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])

	return r
}

func (l *lexerState) peekAt(n int) rune {
	off := l.offset + n
	if off >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[off:])

	return r
}

func (l *lexerState) advance() rune {
	if l.eof() {
		return 0
	}

	r, size := utf8.DecodeRuneInString(l.input[l.offset:])
	l.offset += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

func (l *lexerState) token(typ lexer.TokenType, start lexer.Position) lexer.Token {
	return lexer.Token{
		Type:  typ,
		Value: l.input[start.Offset:l.offset],
		Pos:   start,
	}
}

// scanString consumes a quoted string. An unterminated literal (EOF or bare
// newline before the closing quote) yields a tErrorString token spanning
// from the opening quote.
func (l *lexerState) scanString(start lexer.Position, quote rune) lexer.Token {
	l.advance() // opening quote

	for !l.eof() {
		ch := l.peek()
		if ch == '\\' && l.peekAt(1) != 0 {
			l.advance() // backslash
			l.advance() // escaped char

			continue
		}

		if ch == quote {
			l.advance() // closing quote

			return l.token(tString, start)
		}

		if ch == '\n' {
			return l.token(tErrorString, start)
		}

		l.advance()
	}

	return l.token(tErrorString, start)
}

// scanNumber consumes an optionally signed decimal with optional fractional
// part and exponent. The first rune has already been validated by
// startsNumber or isDigit.
func (l *lexerState) scanNumber(start lexer.Position) lexer.Token {
	if l.peek() == '+' || l.peek() == '-' {
		l.advance()
	}

	for !l.eof() && isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance() // .

		for !l.eof() && isDigit(l.peek()) {
			l.advance()
		}
	}

	if l.peek() == 'e' || l.peek() == 'E' {
		l.advance()

		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}

		for !l.eof() && isDigit(l.peek()) {
			l.advance()
		}
	}

	return l.token(tNumber, start)
}

// Character helpers.

// startsNumber reports whether a sign or leading dot begins a numeric
// literal. A bare "-" not followed by a digit is a dash token (arrows), so
// "(a)--(b)" and "{x: -1}" both lex correctly.
func startsNumber(r, next rune) bool {
	switch r {
	case '+', '-':
		return isDigit(next)
	case '.':
		return isDigit(next)
	default:
		return false
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

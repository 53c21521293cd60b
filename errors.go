package gram

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// ErrParse is the sentinel wrapped by every *ParseError, so callers can use
// errors.Is without inspecting kinds.
var ErrParse = errors.New("gram: parse error")

// Span is a range of source text.
type Span struct {
	Start lexer.Position
	End   lexer.Position
}

// ErrorKind names a category of parse failure.
type ErrorKind string

// Parse error kinds. The first two originate in the lexer; the lexer itself
// never fails, it hands the parser error-kind tokens which are turned into
// these.
const (
	UnexpectedCharacter   ErrorKind = "unexpected character"
	UnterminatedString    ErrorKind = "unterminated string"
	UnterminatedNode      ErrorKind = "unterminated node"
	UnterminatedGroup     ErrorKind = "unterminated group"
	UnterminatedProperties ErrorKind = "unterminated properties"
	ExpectedToken         ErrorKind = "expected token"
	InvalidPropertyValue  ErrorKind = "invalid property value"
	DuplicateLabel        ErrorKind = "duplicate label"
	DuplicatePropertyKey  ErrorKind = "duplicate property key"
	InvalidRelationshipForm ErrorKind = "invalid relationship"
	DepthLimitExceeded    ErrorKind = "depth limit exceeded"
)

// ParseError is the structured failure returned by Parse and ParseAll.
// Parsing is fail-fast: the first structural error aborts the whole call.
type ParseError struct {
	Kind    ErrorKind
	Span    Span
	Message string
}

// Error renders "line:col: message" (with filename when one was given).
func (e *ParseError) Error() string {
	return e.Span.Start.String() + ": " + e.Message
}

// Unwrap makes errors.Is(err, ErrParse) hold.
func (e *ParseError) Unwrap() error { return ErrParse }

func parseErrorf(kind ErrorKind, span Span, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)}
}

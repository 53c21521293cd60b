package gram

import (
	"strconv"
	"strings"
)

// ValueKind discriminates the variants of a property Value.
type ValueKind int

// Value kinds. Integer and Float are both "number" in the notation; the
// distinction is preserved so serialization stays minimal and lossless.
const (
	KindNull ValueKind = iota
	KindString
	KindInteger
	KindFloat
	KindBoolean
)

// Value is an immutable property value: a string, number, boolean, or null.
// There are no container values; structure lives in the pattern tree, not in
// nested values. Construct with the XxxValue functions; the zero Value is
// null.
type Value struct {
	kind ValueKind
	str  string
	i    int64
	f    float64
	b    bool
}

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// IntegerValue returns a signed 64-bit integer Value.
func IntegerValue(i int64) Value { return Value{kind: KindInteger, i: i} }

// FloatValue returns a floating-point Value.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// BooleanValue returns a boolean Value.
func BooleanValue(b bool) Value { return Value{kind: KindBoolean, b: b} }

// NullValue returns the null Value.
func NullValue() Value { return Value{kind: KindNull} }

// Kind returns the variant of the value.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Text returns the string content, if this is a string value.
func (v Value) Text() (string, bool) {
	return v.str, v.kind == KindString
}

// Int returns the integer content, if this is an integer value.
func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInteger
}

// Float returns the float content, if this is a float value.
func (v Value) Float() (float64, bool) {
	return v.f, v.kind == KindFloat
}

// Number returns either numeric variant widened to float64.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInteger:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// Bool returns the boolean content, if this is a boolean value.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBoolean
}

// Equal reports structural equality of two values. Integer and float values
// are distinct kinds and never compare equal to each other.
func (v Value) Equal(other Value) bool {
	return v == other
}

// ToGo converts the value to a native Go type (string, int64, float64, bool,
// or nil).
func (v Value) ToGo() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInteger:
		return v.i
	case KindFloat:
		return v.f
	case KindBoolean:
		return v.b
	default:
		return nil
	}
}

// String returns the canonical gram-notation rendering of the value.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return quoteString(v.str)
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	default:
		return "null"
	}
}

// formatFloat prints a float in minimal decimal form while keeping it
// recognizable as a float on re-parse (an integral float gains a ".0").
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}

	return s
}

// quoteString renders a double-quoted string literal, escaping the quote,
// the backslash, and the standard whitespace control characters.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}

	b.WriteByte('"')

	return b.String()
}

// Package textclass classifies characters into the categories used by
// word-wise movement, deletion and selection.
//
// Movement treats a maximal run of same-category characters as one unit:
// "foo_bar", "   " and "!!!" are each a single run.
package textclass

import "unicode"

// Category is the class of a single character.
type Category uint8

const (
	// Word covers letters, digits and underscore.
	Word Category = iota + 1

	// Whitespace covers every Unicode space, including '\n' and '\t'.
	Whitespace

	// Other covers punctuation, symbols and everything else.
	Other
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case Word:
		return "word"
	case Whitespace:
		return "whitespace"
	case Other:
		return "other"
	default:
		return "unknown"
	}
}

// Classify returns the category of r.
func Classify(r rune) Category {
	switch {
	case IsWord(r):
		return Word
	case unicode.IsSpace(r):
		return Whitespace
	default:
		return Other
	}
}

// IsWord reports whether r is alphanumeric or an underscore.
func IsWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsNumber(r) || r == '_'
}

// IsWhitespace reports whether r is whitespace.
func IsWhitespace(r rune) bool {
	return unicode.IsSpace(r)
}

// SameCategory reports whether a and b belong to the same run.
func SameCategory(a, b rune) bool {
	return Classify(a) == Classify(b)
}

// Package token defines the lexical vocabulary of the weft markup language.
//
// Tokens are immutable once produced. A token stream is lossless: the
// concatenated Text of every token reproduces the source byte-for-byte,
// including whitespace and comments.
package token

import "strings"

// Kind identifies the lexical class of a token.
type Kind uint8

const (
	// Error marks a byte sequence that matched no lexing rule.
	Error Kind = iota
	// EOF is the zero-length token returned when reading past the input.
	EOF

	Whitespace
	Comment
	StringLiteral
	NumberLiteral
	ColorLiteral
	Identifier

	// Multi-character punctuation. Ordered longest-first so the lexer can
	// try them in declaration order.
	DoubleArrow  // <=>
	PlusEqual    // +=
	MinusEqual   // -=
	StarEqual    // *=
	DivEqual     // /=
	LessEqual    // <=
	GreaterEqual // >=
	EqualEqual   // ==
	NotEqual     // !=
	ColonEqual   // :=
	FatArrow     // =>
	Arrow        // ->
	OrOr         // ||
	AndAnd       // &&

	LBrace    // {
	RBrace    // }
	LParen    // (
	RParen    // )
	LAngle    // <
	RAngle    // >
	LBracket  // [
	RBracket  // ]
	Plus      // +
	Minus     // -
	Star      // *
	Div       // /
	Equal     // =
	Colon     // :
	Comma     // ,
	Semicolon // ;
	Bang      // !
	Dot       // .
	Question  // ?
	At        // @
	Percent   // %
	Pipe      // |
)

// kindNames holds display names indexed by Kind.
//
//nolint:gochecknoglobals
var kindNames = [...]string{
	Error:         "Error",
	EOF:           "EOF",
	Whitespace:    "Whitespace",
	Comment:       "Comment",
	StringLiteral: "StringLiteral",
	NumberLiteral: "NumberLiteral",
	ColorLiteral:  "ColorLiteral",
	Identifier:    "Identifier",
	DoubleArrow:   "DoubleArrow",
	PlusEqual:     "PlusEqual",
	MinusEqual:    "MinusEqual",
	StarEqual:     "StarEqual",
	DivEqual:      "DivEqual",
	LessEqual:     "LessEqual",
	GreaterEqual:  "GreaterEqual",
	EqualEqual:    "EqualEqual",
	NotEqual:      "NotEqual",
	ColonEqual:    "ColonEqual",
	FatArrow:      "FatArrow",
	Arrow:         "Arrow",
	OrOr:          "OrOr",
	AndAnd:        "AndAnd",
	LBrace:        "LBrace",
	RBrace:        "RBrace",
	LParen:        "LParen",
	RParen:        "RParen",
	LAngle:        "LAngle",
	RAngle:        "RAngle",
	LBracket:      "LBracket",
	RBracket:      "RBracket",
	Plus:          "Plus",
	Minus:         "Minus",
	Star:          "Star",
	Div:           "Div",
	Equal:         "Equal",
	Colon:         "Colon",
	Comma:         "Comma",
	Semicolon:     "Semicolon",
	Bang:          "Bang",
	Dot:           "Dot",
	Question:      "Question",
	At:            "At",
	Percent:       "Percent",
	Pipe:          "Pipe",
}

// String returns the display name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Kind(?)"
}

// IsTrivia reports whether the kind carries no syntactic meaning.
// The parser skips trivia when peeking but still records it in the tree.
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == Comment
}

// Span locates a region of source text by byte offset and length.
type Span struct {
	Offset int
	Len    int
}

// End returns the byte offset one past the spanned region.
func (s Span) End() int { return s.Offset + s.Len }

// Token is one lexical unit of source text.
type Token struct {
	Kind Kind
	Text string
	Span Span
}

// IsTrivia reports whether the token is whitespace or a comment.
func (t Token) IsTrivia() bool { return t.Kind.IsTrivia() }

// NormalizeIdentifier maps an identifier to its canonical spelling.
// Underscores and dashes are interchangeable in identifiers; the canonical
// form uses dashes. The leading character is kept as-is since a dash is
// never legal there.
func NormalizeIdentifier(name string) string {
	if len(name) < 2 || !strings.ContainsRune(name[1:], '_') {
		return name
	}

	return name[:1] + strings.ReplaceAll(name[1:], "_", "-")
}

// Package lexer produces the lossless token stream consumed by the parser.
//
// Rules are tried in a fixed priority order at each position, and the first
// rule reporting a non-zero match length wins. If no rule matches, the
// remainder of the input becomes a single Error token and lexing stops.
// Concatenating the text of every produced token always reproduces the
// source exactly.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/weft/lang/token"
)

// Rule reports the byte length of a match at the start of text,
// or 0 if the rule does not match.
type Rule func(text string) int

// matchFixed returns a rule matching the given literal string.
func matchFixed(s string) Rule {
	return func(text string) int {
		if strings.HasPrefix(text, s) {
			return len(s)
		}

		return 0
	}
}

// Whitespace matches the longest run of Unicode whitespace.
func Whitespace(text string) int {
	var n int

	for _, c := range text {
		if !unicode.IsSpace(c) {
			break
		}

		n += utf8.RuneLen(c)
	}

	return n
}

// Comment matches a line comment or a nested block comment.
// An unterminated block comment is not a match; the remainder becomes
// an Error token.
func Comment(text string) int {
	if strings.HasPrefix(text, "//") {
		if i := strings.IndexAny(text[2:], "\n\r"); i >= 0 {
			return i + 2
		}

		return len(text)
	}

	if !strings.HasPrefix(text, "/*") {
		return 0
	}

	depth := 1

	for i := 2; i < len(text); i++ {
		switch {
		case text[i] == '*' && i+1 < len(text) && text[i+1] == '/':
			depth--
			if depth == 0 {
				return i + 2
			}

			i++

		case text[i] == '/' && i+1 < len(text) && text[i+1] == '*':
			depth++
			i++
		}
	}

	// Unterminated
	return 0
}

// String matches a double-quoted string literal.
// Escape sequences are not supported: a backslash inside the literal is
// not a match, and neither is a missing closing quote.
func String(text string) int {
	if !strings.HasPrefix(text, `"`) {
		return 0
	}

	for i := 1; i < len(text); i++ {
		switch text[i] {
		case '"':
			return i + 1
		case '\\':
			return 0
		}
	}

	// Unterminated
	return 0
}

// Number matches decimal digits with at most one interior period,
// optionally followed by '%' or an ASCII-alphabetic unit suffix.
func Number(text string) int {
	var (
		n         int
		hadPeriod bool
	)

	for i, c := range text {
		if c >= '0' && c <= '9' {
			n += 1

			continue
		}

		if !hadPeriod && c == '.' && n > 0 {
			hadPeriod = true
			n += 1

			continue
		}

		if n > 0 {
			if c == '%' {
				return n + 1
			}

			if isASCIIAlpha(c) {
				// The unit
				for _, u := range text[i:] {
					if !isASCIIAlpha(u) {
						break
					}

					n += 1
				}

				return n
			}
		}

		break
	}

	return n
}

// Color matches '#' followed by a run of ASCII alphanumerics.
// Validation of the digit count happens later, during expression building.
func Color(text string) int {
	if !strings.HasPrefix(text, "#") {
		return 0
	}

	n := 1

	for _, c := range text[1:] {
		if !isASCIIAlphaNum(c) {
			break
		}

		n += 1
	}

	return n
}

// Identifier matches letters, digits, and underscores, with interior
// dashes permitted after the first character.
func Identifier(text string) int {
	var n int

	for _, c := range text {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' &&
			(c != '-' || n == 0) {
			break
		}

		n += utf8.RuneLen(c)
	}

	return n
}

func isASCIIAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isASCIIAlphaNum(c rune) bool {
	return isASCIIAlpha(c) || (c >= '0' && c <= '9')
}

// rules pairs each token kind with its matching rule, in priority order.
//
//nolint:gochecknoglobals
var rules = []struct {
	kind token.Kind
	rule Rule
}{
	{token.Whitespace, Whitespace},
	{token.Comment, Comment},
	{token.StringLiteral, String},
	{token.NumberLiteral, Number},
	{token.ColorLiteral, Color},
	{token.Identifier, Identifier},
	{token.DoubleArrow, matchFixed("<=>")},
	{token.PlusEqual, matchFixed("+=")},
	{token.MinusEqual, matchFixed("-=")},
	{token.StarEqual, matchFixed("*=")},
	{token.DivEqual, matchFixed("/=")},
	{token.LessEqual, matchFixed("<=")},
	{token.GreaterEqual, matchFixed(">=")},
	{token.EqualEqual, matchFixed("==")},
	{token.NotEqual, matchFixed("!=")},
	{token.ColonEqual, matchFixed(":=")},
	{token.FatArrow, matchFixed("=>")},
	{token.Arrow, matchFixed("->")},
	{token.OrOr, matchFixed("||")},
	{token.AndAnd, matchFixed("&&")},
	{token.LBrace, matchFixed("{")},
	{token.RBrace, matchFixed("}")},
	{token.LParen, matchFixed("(")},
	{token.RParen, matchFixed(")")},
	{token.LAngle, matchFixed("<")},
	{token.RAngle, matchFixed(">")},
	{token.LBracket, matchFixed("[")},
	{token.RBracket, matchFixed("]")},
	{token.Plus, matchFixed("+")},
	{token.Minus, matchFixed("-")},
	{token.Star, matchFixed("*")},
	{token.Div, matchFixed("/")},
	{token.Equal, matchFixed("=")},
	{token.Colon, matchFixed(":")},
	{token.Comma, matchFixed(",")},
	{token.Semicolon, matchFixed(";")},
	{token.Bang, matchFixed("!")},
	{token.Dot, matchFixed(".")},
	{token.Question, matchFixed("?")},
	{token.At, matchFixed("@")},
	{token.Percent, matchFixed("%")},
	{token.Pipe, matchFixed("|")},
}

// Next matches a single token at the start of text.
// It returns the winning kind and match length, or ok == false when no
// rule matches.
func Next(text string) (kind token.Kind, length int, ok bool) {
	for _, r := range rules {
		if n := r.rule(text); n > 0 {
			return r.kind, n, true
		}
	}

	return token.Error, 0, false
}

// Lex tokenizes the entire source.
// On unrecognized input the remainder of the source is emitted as a
// single Error token and lexing stops, preserving the lossless property.
func Lex(source string) []token.Token {
	var result []token.Token

	offset := 0

	for offset < len(source) {
		kind, n, ok := Next(source[offset:])
		if !ok {
			result = append(result, token.Token{
				Kind: token.Error,
				Text: source[offset:],
				Span: token.Span{Offset: offset, Len: len(source) - offset},
			})

			break
		}

		result = append(result, token.Token{
			Kind: kind,
			Text: source[offset : offset+n],
			Span: token.Span{Offset: offset, Len: n},
		})
		offset += n
	}

	return result
}

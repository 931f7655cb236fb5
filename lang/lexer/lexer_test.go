package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ardnew/weft/lang/token"
)

type lexed struct {
	kind token.Kind
	text string
}

func compare(t *testing.T, source string, expected []lexed) {
	t.Helper()

	actual := Lex(source)

	got := make([]lexed, 0, len(actual))
	for _, tok := range actual {
		got = append(got, lexed{tok.Kind, tok.Text})
	}

	assert.Equal(t, expected, got)
}

func TestBasic(t *testing.T) {
	compare(t, `45  /*hi/*_*/ho*/ "string"`, []lexed{
		{token.NumberLiteral, "45"},
		{token.Whitespace, "  "},
		{token.Comment, "/*hi/*_*/ho*/"},
		{token.Whitespace, " "},
		{token.StringLiteral, `"string"`},
	})
}

func TestNumbersAndOperators(t *testing.T) {
	compare(t, "12px+5.2+=0.7%", []lexed{
		{token.NumberLiteral, "12px"},
		{token.Plus, "+"},
		{token.NumberLiteral, "5.2"},
		{token.PlusEqual, "+="},
		{token.NumberLiteral, "0.7%"},
	})
}

func TestIdentifiers(t *testing.T) {
	compare(t, "aa_a.b1,c", []lexed{
		{token.Identifier, "aa_a"},
		{token.Dot, "."},
		{token.Identifier, "b1"},
		{token.Comma, ","},
		{token.Identifier, "c"},
	})
}

func TestNestedComments(t *testing.T) {
	compare(t, "/*/**/*//**/*", []lexed{
		{token.Comment, "/*/**/*/"},
		{token.Comment, "/**/"},
		{token.Star, "*"},
	})
}

func TestUnterminatedBlockComment(t *testing.T) {
	// An unterminated block comment is not a comment at all, so its
	// opener lexes as plain operators.
	compare(t, "a /* unterminated", []lexed{
		{token.Identifier, "a"},
		{token.Whitespace, " "},
		{token.Div, "/"},
		{token.Star, "*"},
		{token.Whitespace, " "},
		{token.Identifier, "unterminated"},
	})
}

func TestUnterminatedString(t *testing.T) {
	compare(t, `x: "abc`, []lexed{
		{token.Identifier, "x"},
		{token.Colon, ":"},
		{token.Whitespace, " "},
		{token.Error, `"abc`},
	})
}

func TestStringEscapeUnsupported(t *testing.T) {
	// A backslash fails the string rule, so the remainder is one Error
	// token and lexing stops.
	compare(t, `"a\nb" x`, []lexed{
		{token.Error, `"a\nb" x`},
	})
}

func TestLineComment(t *testing.T) {
	compare(t, "a // rest\nb", []lexed{
		{token.Identifier, "a"},
		{token.Whitespace, " "},
		{token.Comment, "// rest"},
		{token.Whitespace, "\n"},
		{token.Identifier, "b"},
	})
}

func TestColorLiteral(t *testing.T) {
	compare(t, "background: #ff00ff;", []lexed{
		{token.Identifier, "background"},
		{token.Colon, ":"},
		{token.Whitespace, " "},
		{token.ColorLiteral, "#ff00ff"},
		{token.Semicolon, ";"},
	})
}

func TestDashedIdentifier(t *testing.T) {
	compare(t, "min-width:=x", []lexed{
		{token.Identifier, "min-width"},
		{token.ColonEqual, ":="},
		{token.Identifier, "x"},
	})
}

func TestMultiCharOperators(t *testing.T) {
	compare(t, "<=> <= => -> == != && ||", []lexed{
		{token.DoubleArrow, "<=>"},
		{token.Whitespace, " "},
		{token.LessEqual, "<="},
		{token.Whitespace, " "},
		{token.FatArrow, "=>"},
		{token.Whitespace, " "},
		{token.Arrow, "->"},
		{token.Whitespace, " "},
		{token.EqualEqual, "=="},
		{token.Whitespace, " "},
		{token.NotEqual, "!="},
		{token.Whitespace, " "},
		{token.AndAnd, "&&"},
		{token.Whitespace, " "},
		{token.OrOr, "||"},
	})
}

func TestLossless(t *testing.T) {
	sources := []string{
		`component Foo { bar := Rectangle { width: 45%; } }`,
		"a\t/*x*/\r\n b: 12px; // done",
		`broken "string`,
		"\\stops here",
		"",
	}

	for _, source := range sources {
		var sb strings.Builder
		for _, tok := range Lex(source) {
			sb.WriteString(tok.Text)
		}

		assert.Equal(t, source, sb.String(), "token texts must tile the source")
	}
}

func TestSpans(t *testing.T) {
	source := "ab  cd"

	offset := 0
	for _, tok := range Lex(source) {
		assert.Equal(t, offset, tok.Span.Offset)
		assert.Equal(t, len(tok.Text), tok.Span.Len)
		offset = tok.Span.End()
	}

	assert.Equal(t, len(source), offset)
}

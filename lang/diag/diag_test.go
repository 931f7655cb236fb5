package diag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/weft/lang/token"
)

func TestSinkAccumulates(t *testing.T) {
	s := NewSink("app.wft", "a\nbb\nccc\n")

	s.PushWarning("looks odd", token.Span{Offset: 0, Len: 1})
	s.PushError("broken", token.Span{Offset: 2, Len: 2})

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.HasErrors())

	var got []Diagnostic
	for d := range s.All() {
		got = append(got, d)
	}

	require.Len(t, got, 2)
	assert.Equal(t, Warning, got[0].Severity)
	assert.Equal(t, Error, got[1].Severity)
}

func TestHasErrorsIgnoresWarnings(t *testing.T) {
	s := NewSink("", "source")

	s.PushWarning("just a warning", token.Span{})

	assert.False(t, s.HasErrors())
}

func TestLineColumn(t *testing.T) {
	s := NewSink("", "ab\ncd\n\nefg")

	tests := []struct {
		offset, line, column int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{2, 1, 3},  // the newline itself
		{3, 2, 1},  // 'c'
		{6, 3, 1},  // empty line
		{7, 4, 1},  // 'e'
		{9, 4, 3},  // 'g'
		{10, 4, 4}, // one past the end
	}

	for _, tt := range tests {
		line, col := s.LineColumn(tt.offset)
		assert.Equal(t, tt.line, line, "line for offset %d", tt.offset)
		assert.Equal(t, tt.column, col, "column for offset %d", tt.offset)
	}
}

func TestFormat(t *testing.T) {
	s := NewSink("ui/app.wft", "first\nsecond")

	s.PushError("unexpected token", token.Span{Offset: 6, Len: 6})

	var formatted string
	for d := range s.All() {
		formatted = s.Format(d)
	}

	assert.Equal(t, "ui/app.wft:2:1: error: unexpected token", formatted)
}

func TestSuggest(t *testing.T) {
	candidates := []string{"width", "height", "opacity", "visible"}

	hints := Suggest("widt", candidates)
	require.NotEmpty(t, hints)
	assert.Equal(t, "width", hints[0])

	assert.Empty(t, Suggest("", candidates))
	assert.Empty(t, Suggest("zzzz", candidates))
}

func TestSuggestMessage(t *testing.T) {
	msg := SuggestMessage("property", "heigh", []string{"height", "width"})
	assert.Contains(t, msg, "unknown property 'heigh'")
	assert.Contains(t, msg, "Did you mean 'height'?")

	plain := SuggestMessage("property", "qqq", []string{"height"})
	assert.Equal(t, "unknown property 'qqq'", plain)
}

func TestSinkError(t *testing.T) {
	base := errors.New("permission denied")
	err := ErrUnknownImport.Wrap(base)

	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "unknown import")
	assert.Contains(t, err.Error(), "permission denied")
}

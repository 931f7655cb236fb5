package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/weft/lang/lexer"
)

// Tokens dumps the token stream of a document, one token per line with
// its byte range, kind, and text.
type Tokens struct {
	Source string `arg:"" help:"Source document or '-' for stdin"`
	Trivia bool   `help:"Include whitespace and comment tokens"`
}

// Run executes the tokens command.
func (c *Tokens) Run(ctx context.Context) error {
	_, source, err := readSource(c.Source)
	if err != nil {
		return err
	}

	w := stdout(ctx)

	for _, t := range lexer.Lex(source) {
		if !c.Trivia && t.Kind.IsTrivia() {
			continue
		}

		fmt.Fprintf(w, "%6d..%-6d %-18s %q\n",
			t.Span.Offset, t.Span.Offset+t.Span.Len, t.Kind, t.Text)
	}

	return nil
}

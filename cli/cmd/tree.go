package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/weft/lang/diag"
	"github.com/ardnew/weft/lang/parser"
	"github.com/ardnew/weft/pkg"
)

// Tree parses a document and dumps its concrete syntax tree.
//
// The dump skips trivia tokens; use the tokens command to inspect
// whitespace and comments.
type Tree struct {
	Source string `arg:"" help:"Source document or '-' for stdin"`
	Format string `default:"text" enum:"text,yaml" help:"Output format"`
}

// Run executes the tree command.
func (c *Tree) Run(ctx context.Context) error {
	name, source, err := readSource(c.Source)
	if err != nil {
		return err
	}

	sink := diag.NewSink(name, source)
	root := parser.Parse(source, sink)

	w := stdout(ctx)

	switch c.Format {
	case "yaml":
		data, err := yaml.Marshal(nodeValue(root))
		if err != nil {
			return pkg.MakeError(pkg.ErrYAMLMarshal, err)
		}

		fmt.Fprint(w, string(data))

	case "text":
		writeNode(w, root, 0)

	default:
		return pkg.MakeError(pkg.ErrInvalidFormat).
			Wrapf("%q (expected text or yaml)", c.Format)
	}

	renderDiagnostics(stderr(ctx), sink)

	if sink.HasErrors() {
		return ErrCompileFailed
	}

	return nil
}

// nodeValue converts a syntax node to a YAML-marshalable form, keeping
// key order stable.
func nodeValue(n *parser.Node) yaml.MapSlice {
	children := make([]any, 0, len(n.Children))

	for _, c := range n.Children {
		switch {
		case c.IsNode():
			children = append(children, nodeValue(c.Node))
		case !c.Token.Kind.IsTrivia():
			children = append(children, yaml.MapSlice{
				{Key: "token", Value: c.Token.Kind.String()},
				{Key: "text", Value: c.Token.Text},
			})
		}
	}

	return yaml.MapSlice{
		{Key: "node", Value: n.Kind.String()},
		{Key: "children", Value: children},
	}
}

func writeNode(w io.Writer, n *parser.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	span := n.Span()

	fmt.Fprintf(w, "%s%s @%d..%d\n",
		indent, n.Kind, span.Offset, span.Offset+span.Len)

	for _, c := range n.Children {
		switch {
		case c.IsNode():
			writeNode(w, c.Node, depth+1)
		case !c.Token.Kind.IsTrivia():
			fmt.Fprintf(w, "%s  %s %q\n", indent, c.Token.Kind, c.Token.Text)
		}
	}
}

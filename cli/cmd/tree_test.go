package cmd

import (
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/weft/lang/diag"
	"github.com/ardnew/weft/lang/parser"
)

func parseTree(t *testing.T, source string) *parser.Node {
	t.Helper()

	sink := diag.NewSink("test.wft", source)
	root := parser.Parse(source, sink)
	require.NotNil(t, root)
	require.False(t, sink.HasErrors())

	return root
}

func TestNodeValueMarshalsToYAML(t *testing.T) {
	root := parseTree(t, "component App { }\n")

	data, err := yaml.Marshal(nodeValue(root))
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "node: Document")
	assert.Contains(t, out, "node: Component")
	assert.Contains(t, out, "text: App")
}

func TestWriteNodeIndentsChildren(t *testing.T) {
	root := parseTree(t, "component App { }\n")

	var sb strings.Builder

	writeNode(&sb, root, 0)

	out := sb.String()
	assert.True(t, strings.HasPrefix(out, "Document @"), out)
	assert.Contains(t, out, "\n  Component @")
}

func TestNodeValueSkipsTrivia(t *testing.T) {
	root := parseTree(t, "// comment\ncomponent App { }\n")

	data, err := yaml.Marshal(nodeValue(root))
	require.NoError(t, err)

	assert.NotContains(t, string(data), "comment")
}

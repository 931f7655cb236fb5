package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/weft/lang/diag"
	"github.com/ardnew/weft/lang/token"
)

func parseSource(t *testing.T, source string) (*Node, *diag.Sink) {
	t.Helper()

	sink := diag.NewSink("test.wft", source)
	root := Parse(source, sink)
	require.NotNil(t, root)

	return root, sink
}

// descend collects every node of the given kind in the subtree.
func descend(n *Node, kind SyntaxKind) []*Node {
	var out []*Node

	if n.Kind == kind {
		out = append(out, n)
	}

	for _, c := range n.Children {
		if c.Node != nil {
			out = append(out, descend(c.Node, kind)...)
		}
	}

	return out
}

func TestEmptyDocument(t *testing.T) {
	root, sink := parseSource(t, "/* empty */")

	assert.Equal(t, KindDocument, root.Kind)
	assert.False(t, sink.HasErrors())
}

func TestComponentForms(t *testing.T) {
	sources := []string{
		"component Type { }",
		"Type := Base { SubElement { } }",
		"Comp := Base {}  Type := Base {}",
		"component C inherits D { }",
		"global Settings { }",
		`import { Base } from "somewhere"; Type := Base {}`,
		"struct Foo { foo: int }",
		"enum Foo { hello }",
	}

	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			_, sink := parseSource(t, source)
			assert.False(t, sink.HasErrors(), "unexpected errors in %q", source)
		})
	}
}

func TestDeprecatedComponentSyntaxWarns(t *testing.T) {
	root, sink := parseSource(t, "Type := Base { }")

	assert.False(t, sink.HasErrors())
	assert.Equal(t, 1, sink.Len(), "expected the deprecation warning")
	assert.Len(t, descend(root, KindComponent), 1)
}

func TestElementContent(t *testing.T) {
	source := `component App {
		width: 100px;
		height: parent.height;
		label := Text { text: "hi"; }
		clicked => { root.count += 1; }
		callback activated(int, string) -> bool;
		property<int> count;
		in property <length> gap: 4px;
		prop <=> other.prop;
		animate width { duration: 100ms; }
		changed count => { }
		for item[i] in model: Row { }
		if count > 0 : Rectangle { }
		@children
		states [ pressed when count > 0 : { width: 10px; } ]
		transitions [ in pressed : { animate width { } } ]
		function area(w: length, h: length) -> length { return w; }
	}`

	root, sink := parseSource(t, source)
	assert.False(t, sink.HasErrors())

	assert.Len(t, descend(root, KindBinding), 4)
	assert.Len(t, descend(root, KindCallbackConnection), 1)
	assert.Len(t, descend(root, KindCallbackDeclaration), 1)
	assert.Len(t, descend(root, KindPropertyDeclaration), 2)
	assert.Len(t, descend(root, KindTwoWayBinding), 1)
	assert.Len(t, descend(root, KindPropertyAnimation), 2)
	assert.Len(t, descend(root, KindPropertyChangedCallback), 1)
	assert.Len(t, descend(root, KindRepeatedElement), 1)
	assert.Len(t, descend(root, KindConditionalElement), 1)
	assert.Len(t, descend(root, KindChildrenPlaceholder), 1)
	assert.Len(t, descend(root, KindStates), 1)
	assert.Len(t, descend(root, KindTransitions), 1)
	assert.Len(t, descend(root, KindFunction), 1)
}

func TestExpressionForms(t *testing.T) {
	exprs := []string{
		"something",
		`"something"`,
		"0.3",
		"42px",
		"#aabbcc",
		"(something)",
		"(something).something",
		`@image-url("something")`,
		"some-id.some-property",
		"function-call()",
		"function-call(hello, world)",
		"cond ? first : second",
		"4 + 8 * 7 / 5 + 3 - 7 - 7 * 8",
		"-0.3px + 0.3px - 3pt+3pt",
		"aa == cc && bb && (xxx || fff) && 3 + aaa == bbb",
		"[array]",
		"array[index]",
		"{object:42}",
		`"foo".bar.something().something.xx({a: 1}.a)`,
	}

	for _, e := range exprs {
		t.Run(e, func(t *testing.T) {
			_, sink := parseSource(t, "component T { prop: "+e+"; }")
			assert.False(t, sink.HasErrors(), "unexpected errors for %q", e)
		})
	}
}

func TestBinaryExpressionShape(t *testing.T) {
	root, _ := parseSource(t, "component T { prop: 1 + 2 * 3; }")

	bins := descend(root, KindBinaryExpression)
	require.Len(t, bins, 2)

	// The outer node is the addition; its second operand holds the
	// multiplication.
	outer := bins[0]
	_, hasPlus := outer.ChildToken(token.Plus)
	assert.True(t, hasPlus, "outer binary expression is the addition")
	_, hasStar := bins[1].ChildToken(token.Star)
	assert.True(t, hasStar, "inner binary expression is the multiplication")
}

func TestMemberAccessWrapsReceiver(t *testing.T) {
	root, _ := parseSource(t, "component T { prop: (a).b; }")

	members := descend(root, KindMemberAccess)
	require.Len(t, members, 1)

	// Receiver expression wrapped as first child, then '.', then name.
	require.NotEmpty(t, members[0].Children)
	assert.True(t, members[0].Children[0].IsNode())
	assert.Equal(t, KindExpression, members[0].Children[0].Node.Kind)
}

func TestAmbiguousChainsRequireParentheses(t *testing.T) {
	for _, source := range []string{
		"component T { prop: a == b == c; }",
		"component T { prop: a && b || c; }",
	} {
		t.Run(source, func(t *testing.T) {
			_, sink := parseSource(t, source)
			assert.True(t, sink.HasErrors(), "expected ambiguity error for %q", source)
		})
	}
}

func TestStatements(t *testing.T) {
	source := `component T {
		clicked => {
			;
			foo;
			foo = bar;
			foo += 1;
			return;
			if (a) { b; } else if (c) { d; } else { e; }
		}
	}`

	root, sink := parseSource(t, source)
	assert.False(t, sink.HasErrors())

	assert.Len(t, descend(root, KindReturnStatement), 1)
	assert.Len(t, descend(root, KindSelfAssignment), 2)
	// One conditional per if, chained via the else branch.
	assert.Len(t, descend(root, KindConditionalExpression), 2)
}

func TestReturnWithValue(t *testing.T) {
	root, sink := parseSource(t,
		"component T { function f() -> int { return 42; } }")

	assert.False(t, sink.HasErrors())

	rets := descend(root, KindReturnStatement)
	require.Len(t, rets, 1)
	assert.NotNil(t, rets[0].ChildNode(KindExpression))
}

func TestRecoveryKeepsParsing(t *testing.T) {
	// The stray tokens inside App must not prevent parsing the following
	// binding or the second component.
	source := `component App { ??? width: 10px; } component Other { }`

	root, sink := parseSource(t, source)
	assert.True(t, sink.HasErrors())
	assert.Len(t, descend(root, KindComponent), 2)
	assert.Len(t, descend(root, KindBinding), 1)
}

func TestRecoveryReportsOnce(t *testing.T) {
	_, sink := parseSource(t, "component App { ? ? ? }")

	errs := 0
	for d := range sink.All() {
		if d.Severity == diag.Error {
			errs++
		}
	}

	assert.Equal(t, 1, errs, "a run of junk tokens reports a single error")
}

func TestLosslessTree(t *testing.T) {
	sources := []string{
		"component App { width: 10px; Text { text: root.title; } }",
		"component Broken { ??? !!! }",
		"junk at top level }{",
		"component Unclosed { width: ",
		"",
		"  /* only trivia */  ",
	}

	for _, source := range sources {
		root, _ := parseSource(t, source)
		assert.Equal(t, source, root.Text(), "tree must reproduce the source")
	}
}

func TestExportsAndImports(t *testing.T) {
	source := `
import { Button as Btn, Slider } from "widgets.wft";
export { App, Other as Public }
export * from "more.wft";
component App { }
`

	root, sink := parseSource(t, source)
	assert.False(t, sink.HasErrors())

	assert.Len(t, descend(root, KindImportSpecifier), 1)
	assert.Len(t, descend(root, KindImportIdentifier), 2)
	assert.Len(t, descend(root, KindExportSpecifier), 2)
	assert.Len(t, descend(root, KindExportModule), 1)
}

func TestStructAndEnumDeclarations(t *testing.T) {
	source := `
struct Point { x: length, y: length }
enum Direction { up, down }
export struct Size { w: length, h: length }
`

	root, sink := parseSource(t, source)
	assert.False(t, sink.HasErrors())
	assert.Len(t, descend(root, KindStructDeclaration), 2)
	assert.Len(t, descend(root, KindEnumDeclaration), 1)
}

func TestQualifiedNameText(t *testing.T) {
	root, _ := parseSource(t, "component T { prop: Deeply.Nested.name; }")

	names := descend(root, KindQualifiedName)

	var found bool
	for _, n := range names {
		if n.QualifiedNameText() == "Deeply.Nested.name" {
			found = true
		}
	}

	assert.True(t, found)
}

func TestRepeatedElementShape(t *testing.T) {
	root, sink := parseSource(t,
		"component T { for item[idx] in model : Row { } }")

	assert.False(t, sink.HasErrors())

	reps := descend(root, KindRepeatedElement)
	require.Len(t, reps, 1)

	rep := reps[0]
	assert.Equal(t, "item", rep.ChildNode(KindDeclaredIdentifier).IdentifierText())
	assert.Equal(t, "idx", rep.ChildNode(KindRepeatedIndex).IdentifierText())
	assert.NotNil(t, rep.ChildNode(KindExpression))
	assert.NotNil(t, rep.ChildNode(KindSubElement))
}

func TestMalformedForSynthesizesShape(t *testing.T) {
	root, sink := parseSource(t, "component T { for item model : Row { } }")

	assert.True(t, sink.HasErrors())

	reps := descend(root, KindRepeatedElement)
	require.Len(t, reps, 1)
	assert.NotNil(t, reps[0].ChildNode(KindExpression))
	assert.NotNil(t, reps[0].ChildNode(KindSubElement))
}

func TestTotality(t *testing.T) {
	// Any input yields a tree covering every token, with diagnostics
	// rather than failures.
	inputs := []string{
		"{{{{{{",
		"}}}}",
		"= = = =",
		"component",
		"component {",
		`"unterminated`,
		"for for for",
		"@@",
		strings.Repeat("x ", 100),
	}

	for _, source := range inputs {
		root, _ := parseSource(t, source)
		assert.Equal(t, source, root.Text())
	}
}

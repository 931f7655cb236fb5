package passes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/weft/lang/diag"
	"github.com/ardnew/weft/lang/expr"
	"github.com/ardnew/weft/lang/object"
	"github.com/ardnew/weft/lang/parser"
	"github.com/ardnew/weft/lang/resolve"
	"github.com/ardnew/weft/lang/types"
)

// lowerSource compiles source through resolution and the given passes.
func lowerSource(t *testing.T, source string, passes ...Pass) (*object.Document, *diag.Sink) {
	t.Helper()

	sink := diag.NewSink("test.wft", source)
	root := parser.Parse(source, sink)
	require.NotNil(t, root)

	doc := object.BuildDocument(root, sink, types.Builtin())
	resolve.Document(doc, sink)
	require.False(t, sink.HasErrors(), diagText(sink))

	Run(doc, sink, passes...)

	return doc, sink
}

func diagText(sink *diag.Sink) string {
	var sb strings.Builder

	for d := range sink.All() {
		sb.WriteString(sink.Format(d))
		sb.WriteByte('\n')
	}

	return sb.String()
}

func rootBinding(t *testing.T, doc *object.Document, name string) *object.Binding {
	t.Helper()

	b, ok := doc.Arena.Get(doc.Root.Root).Bindings[name]
	require.True(t, ok, "no binding for %q", name)

	return b
}

func TestConditionalReturnLowersToCondition(t *testing.T) {
	doc, _ := lowerSource(t, `
component App {
	property <bool> flag;
	function pick() -> int {
		if (flag) { return 1; }
		return 2;
	}
}
`, RemoveReturn{})

	body := rootBinding(t, doc, "pick").Expression
	require.NotNil(t, body)
	assert.False(t, expr.ContainsReturn(body))

	// The two exits become the branches of one conditional value.
	cond, ok := body.(*expr.Condition)
	require.True(t, ok, "lowered body is %T", body)
	assert.Equal(t, types.Int32, cond.Type())

	te, ok := cond.TrueExpr.(*expr.CodeBlock)
	require.True(t, ok)
	require.Len(t, te.Statements, 1)
	assert.Equal(t, types.Int32, te.Statements[0].Type())

	fe, ok := cond.FalseExpr.(*expr.CodeBlock)
	require.True(t, ok)
	require.Len(t, fe.Statements, 1)
}

func TestReturnPreservesSideEffectOrder(t *testing.T) {
	doc, _ := lowerSource(t, `
component App {
	property <int> count;
	function bump() -> int {
		count = 1;
		if (count > 0) { return count; }
		count = 2;
		return count;
	}
}
`, RemoveReturn{})

	body := rootBinding(t, doc, "bump").Expression
	assert.False(t, expr.ContainsReturn(body))

	block, ok := body.(*expr.CodeBlock)
	require.True(t, ok, "lowered body is %T", body)
	require.Len(t, block.Statements, 2)

	// The unconditional assignment stays ahead of the branch.
	require.IsType(t, &expr.SelfAssignment{}, block.Statements[0])

	cond, ok := block.Statements[1].(*expr.Condition)
	require.True(t, ok)

	// The fall-through path keeps its own assignment before the value.
	fe, ok := cond.FalseExpr.(*expr.CodeBlock)
	require.True(t, ok)
	require.NotEmpty(t, fe.Statements)
	assert.IsType(t, &expr.SelfAssignment{}, fe.Statements[0])
}

func TestBareReturnDropsUnreachableTail(t *testing.T) {
	doc, _ := lowerSource(t, `
component App {
	property <int> count;
	callback tap();
	tap => {
		count = 1;
		return;
		count = 2;
	}
}
`, RemoveReturn{})

	body := rootBinding(t, doc, "tap").Expression
	assert.False(t, expr.ContainsReturn(body))

	block, ok := body.(*expr.CodeBlock)
	require.True(t, ok, "lowered body is %T", body)
	require.Len(t, block.Statements, 1)
	assert.IsType(t, &expr.SelfAssignment{}, block.Statements[0])
}

func TestConditionalReturnGuardsRemainder(t *testing.T) {
	doc, _ := lowerSource(t, `
component App {
	property <bool> flag;
	property <int> count;
	callback tap();
	tap => {
		if (flag) { return; }
		count = 1;
	}
}
`, RemoveReturn{})

	body := rootBinding(t, doc, "tap").Expression
	require.NotNil(t, body)
	assert.False(t, expr.ContainsReturn(body))

	// The remainder runs behind a stored merge check.
	var merges []string

	expr.VisitRecursive(body, func(e expr.Expression) {
		if s, ok := e.(*expr.StoreLocalVariable); ok {
			merges = append(merges, s.Name)
		}
	})

	found := false

	for _, name := range merges {
		if strings.HasPrefix(name, "return-check-merge") {
			found = true
		}
	}

	assert.True(t, found, "no merge local in %v", merges)
}

func TestExpressionsWithoutReturnUntouched(t *testing.T) {
	doc, sink := lowerSource(t, `
component App {
	property <int> count: 1 + 2;
}
`)

	before := rootBinding(t, doc, "count").Expression
	Run(doc, sink, RemoveReturn{})

	assert.Same(t, before, rootBinding(t, doc, "count").Expression)
}

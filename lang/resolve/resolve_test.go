package resolve

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/weft/lang/diag"
	"github.com/ardnew/weft/lang/expr"
	"github.com/ardnew/weft/lang/object"
	"github.com/ardnew/weft/lang/parser"
	"github.com/ardnew/weft/lang/types"
)

func resolveSource(t *testing.T, source string) (*object.Document, *diag.Sink) {
	t.Helper()

	sink := diag.NewSink("test.wft", source)
	root := parser.Parse(source, sink)
	require.NotNil(t, root)

	doc := object.BuildDocument(root, sink, types.Builtin())
	Document(doc, sink)

	return doc, sink
}

func resolveClean(t *testing.T, source string) *object.Document {
	t.Helper()

	doc, sink := resolveSource(t, source)
	require.False(t, sink.HasErrors(), diagText(sink))

	return doc
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

func TestBindingConvertsToPropertyType(t *testing.T) {
	doc := resolveClean(t, `
component App {
	property <int> count: 3;
	property <int> doubled: count * 2;
}
`)

	b := rootBinding(t, doc, "doubled")
	require.Nil(t, b.Node)
	require.NotNil(t, b.Expression)
	assert.Equal(t, types.Int32, b.Expression.Type())

	// The multiplication computes in float and casts back.
	cast, ok := b.Expression.(*expr.Cast)
	require.True(t, ok)
	require.IsType(t, &expr.BinaryExpression{}, cast.From)

	assert.Equal(t, types.Int32, rootBinding(t, doc, "count").Expression.Type())
}

func TestPercentageSizeSurvivesUnconverted(t *testing.T) {
	doc := resolveClean(t, `
component App {
	Rectangle {
		width: 50%;
	}
}
`)

	root := doc.Arena.Get(doc.Root.Root)
	rect := doc.Arena.Get(root.Children[0])

	b := rect.Bindings["width"]
	require.NotNil(t, b)
	assert.Equal(t, types.KindPercent, b.Expression.Type().Kind)
}

func TestPercentageOnOtherLengthRejected(t *testing.T) {
	_, sink := resolveSource(t, `
component App {
	Rectangle {
		border-width: 50%;
	}
}
`)

	assert.Contains(t, diagText(sink),
		"Automatic conversion from percentage to length is only possible for the following properties: width, height, preferred-width, preferred-height")
}

func TestCallbackConnectionParameters(t *testing.T) {
	doc := resolveClean(t, `
component App {
	property <int> count;
	callback bump(int);
	bump(amount) => { count = amount; }
}
`)

	b := rootBinding(t, doc, "bump")
	require.Nil(t, b.Node)

	cb, ok := b.Expression.(*expr.CodeBlock)
	require.True(t, ok)
	require.Len(t, cb.Statements, 1)

	sa, ok := cb.Statements[0].(*expr.SelfAssignment)
	require.True(t, ok)
	assert.Equal(t, expr.OpNone, sa.Op)

	lhs, ok := sa.LHS.(*expr.PropertyReference)
	require.True(t, ok)
	assert.Equal(t, "count", lhs.Ref.Name)

	param, ok := sa.RHS.(*expr.FunctionParameterReference)
	require.True(t, ok)
	assert.Equal(t, 0, param.Index)
	assert.Equal(t, types.Int32, param.Ty)
}

func TestFunctionBodyReturnValues(t *testing.T) {
	doc := resolveClean(t, `
component App {
	function pick(flag: bool) -> int {
		if (flag) { return 1; }
		return 2;
	}
}
`)

	b := rootBinding(t, doc, "pick")
	require.Nil(t, b.Node)

	cb, ok := b.Expression.(*expr.CodeBlock)
	require.True(t, ok)
	require.Len(t, cb.Statements, 2)

	cond, ok := cb.Statements[0].(*expr.Condition)
	require.True(t, ok)

	branch, ok := cond.TrueExpr.(*expr.CodeBlock)
	require.True(t, ok)
	require.Len(t, branch.Statements, 1)

	early, ok := branch.Statements[0].(*expr.ReturnStatement)
	require.True(t, ok)
	require.NotNil(t, early.Value)
	assert.Equal(t, types.Int32, early.Value.Type())

	last, ok := cb.Statements[1].(*expr.ReturnStatement)
	require.True(t, ok)
	require.NotNil(t, last.Value)
	assert.Equal(t, types.Int32, last.Value.Type())
}

func TestTwoWayBindingResolvesAlias(t *testing.T) {
	doc := resolveClean(t, `
component App {
	property <int> value: 1;
	Rectangle {
		property <int> mirror <=> root.value;
	}
}
`)

	root := doc.Arena.Get(doc.Root.Root)
	rect := doc.Arena.Get(root.Children[0])

	b := rect.Bindings["mirror"]
	require.NotNil(t, b)
	require.Nil(t, b.Node)
	require.Len(t, b.TwoWay, 1)
	assert.Equal(t, root.ID, b.TwoWay[0].Element)
	assert.Equal(t, "value", b.TwoWay[0].Name)
	assert.Equal(t, types.Int32, b.TwoWay[0].Ty)

	decl := rect.PropertyDeclarations["mirror"]
	require.NotNil(t, decl)
	require.NotNil(t, decl.Alias)
	assert.Equal(t, "value", decl.Alias.Name)
}

func TestTwoWayBindingTypeMismatch(t *testing.T) {
	_, sink := resolveSource(t, `
component App {
	property <int> value;
	property <string> label <=> root.value;
}
`)

	assert.Contains(t, diagText(sink),
		"The property does not have the same type as the bound property")
}

func TestTwoWayBindingToFunctionRejected(t *testing.T) {
	_, sink := resolveSource(t, `
component App {
	function f() -> int { return 1; }
	property <int> foo <=> self.f;
}
`)

	assert.Contains(t, diagText(sink), "Cannot bind to a function")
}

func TestRepeaterModelResolvesInParentScope(t *testing.T) {
	doc := resolveClean(t, `
component App {
	property <[int]> items: [1, 2, 3];
	for item[idx] in items : Rectangle {
		property <int> offset: item + idx;
	}
}
`)

	items := rootBinding(t, doc, "items")

	arr, ok := items.Expression.(*expr.ArrayLiteral)
	require.True(t, ok)
	assert.Equal(t, types.Int32, arr.ElementType)
	require.Len(t, arr.Values, 3)

	root := doc.Arena.Get(doc.Root.Root)
	rep := doc.Arena.Get(root.Children[0])
	require.NotNil(t, rep.Repeated)
	assert.Nil(t, rep.Repeated.ModelNode)
	require.NotNil(t, rep.Repeated.Model)
	assert.Equal(t, types.KindModel, rep.Repeated.Model.Type().Kind)

	offset := rep.Bindings["offset"]
	require.NotNil(t, offset)
	assert.Equal(t, types.Int32, offset.Expression.Type())
}

func TestColorLiteralsConvertToBrush(t *testing.T) {
	doc := resolveClean(t, `
component App {
	Rectangle {
		background: #ff0000;
		border-color: red;
	}
}
`)

	root := doc.Arena.Get(doc.Root.Root)
	rect := doc.Arena.Get(root.Children[0])

	bg := rect.Bindings["background"]
	require.NotNil(t, bg)
	assert.Equal(t, types.Brush, bg.Expression.Type())

	outer, ok := bg.Expression.(*expr.Cast)
	require.True(t, ok)

	inner, ok := outer.From.(*expr.Cast)
	require.True(t, ok)
	assert.Equal(t, types.Color, inner.To)
	assert.Equal(t, float64(0xffff0000), inner.From.(*expr.NumberLiteral).Value)

	bc := rect.Bindings["border-color"]
	require.NotNil(t, bc)
	assert.Equal(t, types.Brush, bc.Expression.Type())
}

func TestAnimationBindingsResolve(t *testing.T) {
	doc := resolveClean(t, `
component App {
	property <length> gap: 10px;
	animate gap { duration: 200ms; easing: ease-in; }
}
`)

	b := rootBinding(t, doc, "gap")
	anim := doc.Arena.Get(b.Animation)
	require.NotNil(t, anim)

	dur := anim.Bindings["duration"]
	require.NotNil(t, dur)
	require.Nil(t, dur.Node)
	assert.Equal(t, types.Duration, dur.Expression.Type())

	easing := anim.Bindings["easing"]
	require.NotNil(t, easing)
	require.IsType(t, &expr.EasingCurveExpression{}, easing.Expression)
}

func TestMinMacroLowersToPairwiseChain(t *testing.T) {
	doc := resolveClean(t, `
component App {
	property <int> smallest: min(3, 2, 1);
}
`)

	cast, ok := rootBinding(t, doc, "smallest").Expression.(*expr.Cast)
	require.True(t, ok)
	assert.Equal(t, types.Int32, cast.To)

	mm, ok := cast.From.(*expr.MinMax)
	require.True(t, ok)
	assert.Equal(t, expr.Min, mm.Op)
	assert.Equal(t, types.Float32, mm.Ty)
	require.IsType(t, &expr.MinMax{}, mm.LHS)
}

func TestModMacroKeepsUnitType(t *testing.T) {
	doc := resolveClean(t, `
component App {
	property <length> wrapped: mod(10px, 4px);
}
`)

	cast, ok := rootBinding(t, doc, "wrapped").Expression.(*expr.Cast)
	require.True(t, ok)
	assert.Equal(t, types.LogicalLength, cast.To)

	call, ok := cast.From.(*expr.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, expr.FuncMod,
		call.Function.(*expr.BuiltinFunctionReference).Func)
	require.Len(t, call.Arguments, 2)

	// The operands compute as plain numbers.
	for _, a := range call.Arguments {
		assert.Equal(t, types.Float32, a.Type())
	}
}

func TestRgbMacroDefaultsAlpha(t *testing.T) {
	doc := resolveClean(t, `
component App {
	property <color> tint: rgb(255, 100, 0);
}
`)

	call, ok := rootBinding(t, doc, "tint").Expression.(*expr.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, expr.FuncRgb,
		call.Function.(*expr.BuiltinFunctionReference).Func)
	require.Len(t, call.Arguments, 4)

	alpha, ok := call.Arguments[3].(*expr.NumberLiteral)
	require.True(t, ok)
	assert.Equal(t, float64(1), alpha.Value)
}

func TestCubicBezierMacro(t *testing.T) {
	doc := resolveClean(t, `
component App {
	property <easing> curve: cubic-bezier(0.1, -0.2, 0.5, 1);
}
`)

	ec, ok := rootBinding(t, doc, "curve").Expression.(*expr.EasingCurveExpression)
	require.True(t, ok)
	require.NotNil(t, ec.Curve.Points)
	assert.Equal(t, [4]float32{0.1, -0.2, 0.5, 1}, *ec.Curve.Points)
}

func TestDebugMacroJoinsArguments(t *testing.T) {
	doc := resolveClean(t, `
component App {
	callback go2;
	go2 => { debug("x", 42); }
}
`)

	cb, ok := rootBinding(t, doc, "go2").Expression.(*expr.CodeBlock)
	require.True(t, ok)
	require.Len(t, cb.Statements, 1)

	call, ok := cb.Statements[0].(*expr.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, expr.FuncDebug,
		call.Function.(*expr.BuiltinFunctionReference).Func)
	require.Len(t, call.Arguments, 1)

	joined, ok := call.Arguments[0].(*expr.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, expr.OpAdd, joined.Op)
	assert.Equal(t, "x", joined.LHS.(*expr.StringLiteral).Value)
	assert.Equal(t, types.String, joined.Type())
}

func TestUnknownPropertySuggestsCloseMatch(t *testing.T) {
	_, sink := resolveSource(t, `
component App {
	Rectangle {
		background: self.backgrund;
	}
}
`)

	text := diagText(sink)
	assert.Contains(t, text, "Element 'Rectangle' does not have a property 'backgrund'")
	assert.Contains(t, text, "Did you mean 'background'?")
}

func TestResolutionErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "unknown identifier",
			source: `component App { property <int> foo: nope; }`,
			want:   "Unknown unqualified identifier 'nope'",
		},
		{
			name:   "unknown id",
			source: `component App { property <int> foo: nope.thing; }`,
			want:   "Cannot access id 'nope'",
		},
		{
			name:   "uncalled callback",
			source: `component App { callback go2; property <int> foo: go2; }`,
			want:   "'go2' must be called. Did you forgot the '()'?",
		},
		{
			name: "unknown enum member",
			source: `component App {
				Text { horizontal-alignment: TextHorizontalAlignment.middle; }
			}`,
			want: "'middle' is not a member of the enum TextHorizontalAlignment",
		},
		{
			name: "private property",
			source: `component Gadget { property <int> hidden: 1; }
			component App {
				g := Gadget { }
				property <int> foo: g.hidden;
			}`,
			want: "The property 'hidden' is private",
		},
		{
			name: "argument count mismatch",
			source: `component App {
				function inc(a: int) -> int { return a + 1; }
				property <int> foo: inc(1, 2);
			}`,
			want: "The callback or function expects 1 arguments, but 2 are provided",
		},
		{
			name:   "indexing a number",
			source: `component App { property <int> foo: 5[0]; }`,
			want:   "float is not an indexable type",
		},
		{
			name: "self assignment on string",
			source: `component App {
				property <string> label;
				callback go2;
				go2 => { label *= "x"; }
			}`,
			want: "the *= operation cannot be done on a string",
		},
		{
			name:   "impossible conversion",
			source: `component App { property <int> foo: "hello" - 1; }`,
			want:   "Cannot convert string to float",
		},
		{
			name: "bare element reference",
			source: `component App {
				r2 := Rectangle { }
				property <int> foo: r2;
			}`,
			want: "Cannot take reference of an element",
		},
		{
			name: "missed subtraction",
			source: `component App {
				property <int> foo: 4;
				property <int> bar: foo-1;
			}`,
			want: "Use space before the '-' if you meant a subtraction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, sink := resolveSource(t, tt.source)
			assert.Contains(t, diagText(sink), tt.want)
		})
	}
}

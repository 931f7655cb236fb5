package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/weft/lang/diag"
	"github.com/ardnew/weft/lang/expr"
	"github.com/ardnew/weft/lang/object"
	"github.com/ardnew/weft/lang/parser"
	"github.com/ardnew/weft/lang/types"
)

func buildSource(t *testing.T, source string) *object.Document {
	t.Helper()

	sink := diag.NewSink("test.wft", source)
	root := parser.Parse(source, sink)
	require.NotNil(t, root)

	doc := object.BuildDocument(root, sink, types.Builtin())
	require.False(t, sink.HasErrors(), "unexpected diagnostics")

	return doc
}

func ctxFor(doc *object.Document, scope ...expr.ElementID) *Ctx {
	return &Ctx{
		Scope:    scope,
		Arena:    doc.Arena,
		Registry: doc.Registry,
	}
}

func TestArgumentsResolveToParameterReferences(t *testing.T) {
	doc := buildSource(t, `component App { }`)

	ctx := ctxFor(doc, doc.Root.Root)
	ctx.PropertyType = types.Callback(nil, types.Int32, types.String)
	ctx.Arguments = []string{"count", "label"}

	r, ok := Resolve(ctx, "label")
	require.True(t, ok)

	param, ok := r.Expression.(*expr.FunctionParameterReference)
	require.True(t, ok)
	assert.Equal(t, 1, param.Index)
	assert.Equal(t, types.String, param.Ty)
}

func TestSpecialIdentifiers(t *testing.T) {
	doc := buildSource(t, `
component App {
	Rectangle { }
}
`)

	root := doc.Arena.Get(doc.Root.Root)
	rect := root.Children[0]

	ctx := ctxFor(doc, root.ID, rect)

	r, ok := Resolve(ctx, "self")
	require.True(t, ok)
	require.IsType(t, &expr.ElementReference{}, r.Expression)
	assert.Equal(t, rect, r.Expression.(*expr.ElementReference).Element)

	r, ok = Resolve(ctx, "parent")
	require.True(t, ok)
	assert.Equal(t, root.ID, r.Expression.(*expr.ElementReference).Element)

	r, ok = Resolve(ctx, "true")
	require.True(t, ok)

	lit, ok := r.Expression.(*expr.BoolLiteral)
	require.True(t, ok)
	assert.True(t, lit.Value)
}

func TestElementIDResolution(t *testing.T) {
	doc := buildSource(t, `
component App {
	property <[int]> list;
	outer := Rectangle {
		for item in list: Rectangle {
			inner := Image { }
		}
	}
	other := Text { }
}
`)

	root := doc.Arena.Get(doc.Root.Root)
	ctx := ctxFor(doc, root.ID)

	r, ok := Resolve(ctx, "outer")
	require.True(t, ok)
	require.IsType(t, &expr.ElementReference{}, r.Expression)

	_, ok = Resolve(ctx, "other")
	assert.True(t, ok)

	// Ids inside a repeated sub-tree are invisible from outside it.
	_, ok = Resolve(ctx, "inner")
	assert.False(t, ok)

	// From inside the repeater, its interior ids become visible.
	outer := doc.Arena.Get(root.Children[0])
	repeated := outer.Children[0]

	inner := ctxFor(doc, root.ID, outer.ID, repeated)
	_, ok = Resolve(inner, "inner")
	assert.True(t, ok)
}

func TestRepeaterVariablesShadowOuterProperties(t *testing.T) {
	doc := buildSource(t, `
component App {
	property <[int]> list;
	property <int> idx: 4;
	for item[idx] in list: Rectangle { }
}
`)

	root := doc.Arena.Get(doc.Root.Root)
	repeated := root.Children[0]

	// Without the repeater frame, idx is the declared property.
	r, ok := Resolve(ctxFor(doc, root.ID), "idx")
	require.True(t, ok)
	require.IsType(t, &expr.PropertyReference{}, r.Expression)

	// With the repeater on the stack, the loop index wins.
	ctx := ctxFor(doc, root.ID, repeated)

	r, ok = Resolve(ctx, "idx")
	require.True(t, ok)

	idx, ok := r.Expression.(*expr.RepeaterIndexReference)
	require.True(t, ok)
	assert.Equal(t, repeated, idx.Element)

	r, ok = Resolve(ctx, "item")
	require.True(t, ok)
	require.IsType(t, &expr.RepeaterModelReference{}, r.Expression)
}

func TestScopePropertiesAndAliases(t *testing.T) {
	doc := buildSource(t, `
component App {
	property <length> gap;
	Rectangle { }
}
`)

	root := doc.Arena.Get(doc.Root.Root)
	rect := root.Children[0]
	ctx := ctxFor(doc, root.ID, rect)

	// The outer declaration is visible from the inner element.
	r, ok := Resolve(ctx, "gap")
	require.True(t, ok)

	prop, ok := r.Expression.(*expr.PropertyReference)
	require.True(t, ok)
	assert.Equal(t, root.ID, prop.Ref.Element)
	assert.Equal(t, types.LogicalLength, prop.Ref.Ty)

	// Builtin properties of the innermost element resolve bare.
	r, ok = Resolve(ctx, "background")
	require.True(t, ok)
	assert.Equal(t, rect, r.Expression.(*expr.PropertyReference).Ref.Element)

	// A deprecated alias reports its replacement.
	r, ok = Resolve(ctx, "color")
	require.True(t, ok)
	assert.Equal(t, "background", r.Deprecated)
	assert.Equal(t, "background", r.Expression.(*expr.PropertyReference).Ref.Name)
}

func TestPrivateInheritedPropertiesStayHidden(t *testing.T) {
	doc := buildSource(t, `
component Base {
	property <int> hidden;
	in-out property <int> shown;
}
component App inherits Base { }
`)

	root := doc.Arena.Get(doc.Root.Root)
	ctx := ctxFor(doc, root.ID)

	_, ok := Resolve(ctx, "hidden")
	assert.False(t, ok)

	r, ok := Resolve(ctx, "shown")
	require.True(t, ok)
	require.IsType(t, &expr.PropertyReference{}, r.Expression)
}

func TestCallbackAndFunctionReferences(t *testing.T) {
	doc := buildSource(t, `
component App {
	callback activated(int);
	function total(a: int, b: int) -> int { return a + b; }
}
`)

	root := doc.Arena.Get(doc.Root.Root)
	ctx := ctxFor(doc, root.ID)

	r, ok := Resolve(ctx, "activated")
	require.True(t, ok)
	require.IsType(t, &expr.CallbackReference{}, r.Expression)

	r, ok = Resolve(ctx, "total")
	require.True(t, ok)
	require.IsType(t, &expr.FunctionReference{}, r.Expression)
}

func TestGlobalSingletonAndMemberAccess(t *testing.T) {
	doc := buildSource(t, `
global Theme {
	in-out property <color> accent;
}
component App { }
`)

	ctx := ctxFor(doc, doc.Root.Root)

	r, ok := Resolve(ctx, "Theme")
	require.True(t, ok)
	require.NotNil(t, r.Global)
	require.IsType(t, &expr.ElementReference{}, r.Expression)

	member, ok := Member(ctx, r, "accent")
	require.True(t, ok)

	prop, ok := member.Expression.(*expr.PropertyReference)
	require.True(t, ok)
	assert.Equal(t, "accent", prop.Ref.Name)
	assert.Equal(t, types.Color, prop.Ref.Ty)
}

func TestEnumerationResolution(t *testing.T) {
	doc := buildSource(t, `
enum Direction { up, down }
component App { }
`)

	ctx := ctxFor(doc, doc.Root.Root)

	// By type name, then member access.
	r, ok := Resolve(ctx, "Direction")
	require.True(t, ok)
	require.NotNil(t, r.Enumeration)

	member, ok := Member(ctx, r, "down")
	require.True(t, ok)

	val, ok := member.Expression.(*expr.EnumerationValueExpression)
	require.True(t, ok)
	assert.Equal(t, "down", val.Value.String())

	// Bare member names resolve when the context expects the enum.
	ctx.PropertyType = doc.Registry.LookupType("Direction")

	r, ok = Resolve(ctx, "up")
	require.True(t, ok)
	require.IsType(t, &expr.EnumerationValueExpression{}, r.Expression)
}

func TestReturnTypeSpecificNames(t *testing.T) {
	doc := buildSource(t, `component App { }`)
	ctx := ctxFor(doc, doc.Root.Root)

	// Color names need a color or brush context.
	_, ok := Resolve(ctx, "tomato")
	assert.False(t, ok)

	ctx.PropertyType = types.Color

	r, ok := Resolve(ctx, "tomato")
	require.True(t, ok)

	cast, ok := r.Expression.(*expr.Cast)
	require.True(t, ok)
	assert.Equal(t, types.Color, cast.To)
	assert.Equal(t, float64(0xffff6347), cast.From.(*expr.NumberLiteral).Value)

	// Easing contexts expose the curve names.
	ctx.PropertyType = types.Easing

	r, ok = Resolve(ctx, "ease-in")
	require.True(t, ok)
	require.IsType(t, &expr.EasingCurveExpression{}, r.Expression)

	r, ok = Resolve(ctx, "cubic-bezier")
	require.True(t, ok)
	assert.Equal(t, expr.MacroCubicBezier, r.Expression.(*expr.BuiltinMacroReference).Macro)

	// Callback contexts use the declared return type.
	ret := types.Color
	ctx.PropertyType = types.Callback(&ret)

	_, ok = Resolve(ctx, "teal")
	assert.True(t, ok)
}

func TestLocalNamesShadowContextualOnes(t *testing.T) {
	doc := buildSource(t, `
component App {
	teal := Rectangle { }
	property <int> min;
}
`)

	root := doc.Arena.Get(doc.Root.Root)
	ctx := ctxFor(doc, root.ID)
	ctx.PropertyType = types.Color

	// The element id wins over the color constant.
	r, ok := Resolve(ctx, "teal")
	require.True(t, ok)
	require.IsType(t, &expr.ElementReference{}, r.Expression)

	// The declared property wins over the builtin macro.
	r, ok = Resolve(ctx, "min")
	require.True(t, ok)
	require.IsType(t, &expr.PropertyReference{}, r.Expression)
}

func TestBuiltinFunctionsAndNamespaces(t *testing.T) {
	doc := buildSource(t, `component App { }`)
	ctx := ctxFor(doc, doc.Root.Root)

	tests := []struct {
		name  string
		check func(t *testing.T, r Result)
	}{
		{"sqrt", func(t *testing.T, r Result) {
			t.Helper()
			assert.Equal(t, expr.FuncSqrt,
				r.Expression.(*expr.BuiltinFunctionReference).Func)
		}},
		{"min", func(t *testing.T, r Result) {
			t.Helper()
			assert.Equal(t, expr.MacroMin,
				r.Expression.(*expr.BuiltinMacroReference).Macro)
		}},
		{"rgb", func(t *testing.T, r Result) {
			t.Helper()
			assert.Equal(t, expr.MacroRgb,
				r.Expression.(*expr.BuiltinMacroReference).Macro)
		}},
		{"debug", func(t *testing.T, r Result) {
			t.Helper()
			assert.Equal(t, expr.MacroDebug,
				r.Expression.(*expr.BuiltinMacroReference).Macro)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := Resolve(ctx, tt.name)
			require.True(t, ok)
			tt.check(t, r)
		})
	}

	// Namespaces resolve as bases for member access.
	r, ok := Resolve(ctx, "Math")
	require.True(t, ok)
	assert.Equal(t, NamespaceMath, r.Namespace)

	member, ok := Member(ctx, r, "floor")
	require.True(t, ok)
	assert.Equal(t, expr.FuncFloor,
		member.Expression.(*expr.BuiltinFunctionReference).Func)

	r, ok = Resolve(ctx, "Colors")
	require.True(t, ok)

	member, ok = Member(ctx, r, "red")
	require.True(t, ok)
	require.IsType(t, &expr.Cast{}, member.Expression)
}

func TestMemberAccessOnValues(t *testing.T) {
	doc := buildSource(t, `component App { }`)
	ctx := ctxFor(doc, doc.Root.Root)

	point := types.Struct(types.MakeStruct("Point",
		types.StructField{Name: "x", Type: types.LogicalLength},
		types.StructField{Name: "y", Type: types.LogicalLength},
	))

	base := Result{Expression: &expr.PropertyReference{Ref: expr.NamedReference{
		Element: doc.Root.Root,
		Name:    "pos",
		Ty:      point,
	}}}

	member, ok := Member(ctx, base, "x")
	require.True(t, ok)

	field, ok := member.Expression.(*expr.StructFieldAccess)
	require.True(t, ok)
	assert.Equal(t, "x", field.Name)
	assert.Equal(t, types.LogicalLength, member.Expression.Type())

	_, ok = Member(ctx, base, "z")
	assert.False(t, ok)

	// Image values expose their decoded dimensions.
	img := Result{Expression: &expr.PropertyReference{Ref: expr.NamedReference{
		Element: doc.Root.Root,
		Name:    "icon",
		Ty:      types.Image,
	}}}

	member, ok = Member(ctx, img, "width")
	require.True(t, ok)

	field, ok = member.Expression.(*expr.StructFieldAccess)
	require.True(t, ok)

	call, ok := field.Base.(*expr.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, expr.FuncImageSize,
		call.Function.(*expr.BuiltinFunctionReference).Func)
}

func TestCandidatesEnumerateVisibleNames(t *testing.T) {
	doc := buildSource(t, `
component App {
	property <length> gap;
	Rectangle { }
}
`)

	root := doc.Arena.Get(doc.Root.Root)
	ctx := ctxFor(doc, root.ID, root.Children[0])

	names := Candidates(ctx)
	assert.Contains(t, names, "self")
	assert.Contains(t, names, "gap")
	assert.Contains(t, names, "background")
	assert.Contains(t, names, "debug")
	assert.NotContains(t, names, "tomato")
}

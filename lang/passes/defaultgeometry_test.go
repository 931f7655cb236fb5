package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/weft/lang/expr"
	"github.com/ardnew/weft/lang/object"
)

func childElement(t *testing.T, doc *object.Document, path ...int) *object.Element {
	t.Helper()

	e := doc.Arena.Get(doc.Root.Root)
	for _, i := range path {
		require.Greater(t, len(e.Children), i)
		e = doc.Arena.Get(e.Children[i])
	}

	return e
}

func TestPercentSizesBecomeParentFractions(t *testing.T) {
	doc, _ := lowerSource(t, `
component App {
	Rectangle {
		half := Rectangle { width: 50%; height: 30px; }
		full := Rectangle { width: 100%; }
	}
}
`, DefaultGeometry{})

	outer := childElement(t, doc, 0)
	half := childElement(t, doc, 0, 0)
	full := childElement(t, doc, 0, 1)

	// 50% lowers to a fraction of the parent's width.
	w, ok := half.Bindings["width"].Expression.(*expr.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, expr.OpMul, w.Op)

	ref, ok := w.RHS.(*expr.PropertyReference)
	require.True(t, ok)
	assert.Equal(t, outer.ID, ref.Ref.Element)
	assert.Equal(t, "width", ref.Ref.Name)

	// A partially sized element centers on both axes.
	x, ok := half.Bindings["x"].Expression.(*expr.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, expr.OpDiv, x.Op)
	require.IsType(t, &expr.BinaryExpression{}, x.LHS)
	assert.Equal(t, expr.OpSub, x.LHS.(*expr.BinaryExpression).Op)
	require.NotNil(t, half.Bindings["y"])

	// The full-width sibling fills the parent and is not repositioned.
	fw, ok := full.Bindings["width"].Expression.(*expr.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, expr.OpMul, fw.Op)
	assert.Nil(t, full.Bindings["x"])
	assert.Nil(t, full.Bindings["y"])
}

func TestRectangleFillsParentByDefault(t *testing.T) {
	doc, _ := lowerSource(t, `
component App {
	Rectangle { }
}
`, DefaultGeometry{})

	rect := childElement(t, doc, 0)

	for _, prop := range []string{"width", "height"} {
		b := rect.Bindings[prop]
		require.NotNil(t, b, prop)

		ref, ok := b.Expression.(*expr.PropertyReference)
		require.True(t, ok, prop)
		assert.Equal(t, doc.Root.Root, ref.Ref.Element)
		assert.Equal(t, prop, ref.Ref.Name)
	}

	assert.Nil(t, rect.Bindings["x"])
	assert.Nil(t, rect.Bindings["y"])
}

func TestImagePreservesAspectRatio(t *testing.T) {
	doc, _ := lowerSource(t, `
component App {
	Image { width: 40px; }
}
`, DefaultGeometry{})

	img := childElement(t, doc, 0)

	h, ok := img.Bindings["height"].Expression.(*expr.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, expr.OpMul, h.Op)

	// The ratio reads the implicit size once through a local.
	block, ok := h.LHS.(*expr.CodeBlock)
	require.True(t, ok)
	require.Len(t, block.Statements, 2)

	store, ok := block.Statements[0].(*expr.StoreLocalVariable)
	require.True(t, ok)
	assert.Equal(t, "image-implicit-size", store.Name)

	ref, ok := h.RHS.(*expr.PropertyReference)
	require.True(t, ok)
	assert.Equal(t, "width", ref.Ref.Name)
}

func TestImageInLayoutDefaultsToContain(t *testing.T) {
	doc, _ := lowerSource(t, `
component App {
	VerticalLayout {
		Image { }
	}
}
`, DefaultGeometry{})

	layout := childElement(t, doc, 0)
	img := childElement(t, doc, 0, 0)

	fit, ok := img.Bindings["image-fit"].Expression.(*expr.EnumerationValueExpression)
	require.True(t, ok)
	assert.Equal(t, "contain", fit.Value.Enum.Values[fit.Value.Value])

	// The layout aggregates its child's implicit constraints.
	require.NotNil(t, layout.LayoutInfoProp)
	assert.Equal(t, "layoutinfo-h", layout.LayoutInfoProp.Horizontal.Name)
	require.NotNil(t, layout.PropertyDeclarations["layoutinfo-h"])
	require.NotNil(t, layout.PropertyDeclarations["layoutinfo-v"])

	li, ok := layout.Bindings["layoutinfo-h"].Expression.(*expr.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, expr.OpAdd, li.Op)
	require.IsType(t, &expr.FunctionCall{}, li.LHS)
	require.IsType(t, &expr.FunctionCall{}, li.RHS)

	// With constraints present, the layout sizes to them instead of
	// filling the parent.
	require.NotNil(t, layout.Bindings["width"])
	assert.IsType(t, &expr.MinMax{}, layout.Bindings["width"].Expression)
}

func TestPartialSourceClipCompleted(t *testing.T) {
	doc, _ := lowerSource(t, `
component App {
	Image { source-clip-x: 10; width: 10px; height: 10px; }
}
`, DefaultGeometry{})

	img := childElement(t, doc, 0)

	b := img.Bindings["source-clip-width"]
	require.NotNil(t, b)

	sub, ok := b.Expression.(*expr.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, expr.OpSub, sub.Op)

	field, ok := sub.LHS.(*expr.StructFieldAccess)
	require.True(t, ok)
	assert.Equal(t, "width", field.Name)
	require.IsType(t, &expr.FunctionCall{}, field.Base)

	require.NotNil(t, img.Bindings["source-clip-height"])
}

func TestRepeatedElementsKeepTheirGeometry(t *testing.T) {
	doc, _ := lowerSource(t, `
component App {
	property <[int]> items: [1, 2, 3];
	for item in items : Rectangle { }
}
`, DefaultGeometry{})

	rect := childElement(t, doc, 0)
	require.NotNil(t, rect.Repeated)

	assert.Nil(t, rect.Bindings["width"])
	assert.Nil(t, rect.Bindings["height"])
}

package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/weft/lang/types"
)

func TestLiteralTypes(t *testing.T) {
	assert.Equal(t, types.String, (&StringLiteral{Value: "hi"}).Type())
	assert.Equal(t, types.Bool, (&BoolLiteral{Value: true}).Type())
	assert.Equal(t, types.Float32, (&NumberLiteral{Value: 4}).Type())
	assert.Equal(t, types.LogicalLength,
		(&NumberLiteral{Value: 4, Unit: types.UnitPx}).Type())
	assert.Equal(t, types.Percent,
		(&NumberLiteral{Value: 50, Unit: types.UnitPercent}).Type())
}

func TestBinaryExpressionTypes(t *testing.T) {
	px := func(v float64) Expression {
		return &NumberLiteral{Value: v, Unit: types.UnitPx}
	}
	num := func(v float64) Expression {
		return &NumberLiteral{Value: v}
	}

	// Comparisons and logic are bool.
	assert.Equal(t, types.Bool,
		(&BinaryExpression{LHS: px(1), RHS: px(2), Op: OpLt}).Type())
	assert.Equal(t, types.Bool,
		(&BinaryExpression{LHS: &BoolLiteral{}, RHS: &BoolLiteral{}, Op: OpAnd}).Type())

	// Additive requires matching types.
	assert.Equal(t, types.LogicalLength,
		(&BinaryExpression{LHS: px(1), RHS: px(2), Op: OpAdd}).Type())
	assert.Equal(t, types.Invalid,
		(&BinaryExpression{LHS: px(1), RHS: num(2), Op: OpAdd}).Type())

	// Multiplicative combines units.
	assert.Equal(t, types.LogicalLength,
		(&BinaryExpression{LHS: px(2), RHS: num(3), Op: OpMul}).Type())
	assert.Equal(t, types.Float32,
		(&BinaryExpression{LHS: px(4), RHS: px(2), Op: OpDiv}).Type())

	// px*px keeps both powers as a product type.
	prod := (&BinaryExpression{LHS: px(2), RHS: px(2), Op: OpMul}).Type()
	require.Equal(t, types.KindUnitProduct, prod.Kind)
	assert.Equal(t,
		[]types.UnitPower{{Unit: types.UnitPx, Power: 2}}, prod.Product)
}

func TestConditionType(t *testing.T) {
	cond := &Condition{
		Condition: &BoolLiteral{Value: true},
		TrueExpr:  &NumberLiteral{Value: 1},
		FalseExpr: &NumberLiteral{Value: 2},
	}
	assert.Equal(t, types.Float32, cond.Type())

	mixed := &Condition{
		Condition: &BoolLiteral{},
		TrueExpr:  &NumberLiteral{Value: 1},
		FalseExpr: &StringLiteral{Value: "x"},
	}
	assert.Equal(t, types.Void, mixed.Type())

	oneInvalid := &Condition{
		Condition: &BoolLiteral{},
		TrueExpr:  &Invalid{},
		FalseExpr: &StringLiteral{Value: "x"},
	}
	assert.Equal(t, types.String, oneInvalid.Type())
}

func TestCodeBlockType(t *testing.T) {
	assert.Equal(t, types.Void, (&CodeBlock{}).Type())

	block := &CodeBlock{Statements: []Expression{
		&StoreLocalVariable{Name: "a", Value: &NumberLiteral{Value: 1}},
		&ReadLocalVariable{Name: "a", Ty: types.Float32},
	}}
	assert.Equal(t, types.Float32, block.Type())
}

func TestStructFieldAccessType(t *testing.T) {
	size := &StructLiteral{
		Ty: ImageSizeType(),
		Values: map[string]Expression{
			"width":  &NumberLiteral{Value: 10},
			"height": &NumberLiteral{Value: 20},
		},
	}

	assert.Equal(t, types.Int32,
		(&StructFieldAccess{Base: size, Name: "width"}).Type())
	assert.Equal(t, types.Invalid,
		(&StructFieldAccess{Base: size, Name: "depth"}).Type())
}

func TestFunctionCallType(t *testing.T) {
	call := &FunctionCall{
		Function:  &BuiltinFunctionReference{Func: FuncRound},
		Arguments: []Expression{&NumberLiteral{Value: 1.5}},
	}
	assert.Equal(t, types.Int32, call.Type())
}

func TestVisitRecursive(t *testing.T) {
	tree := &BinaryExpression{
		LHS: &NumberLiteral{Value: 1},
		RHS: &Condition{
			Condition: &BoolLiteral{},
			TrueExpr:  &NumberLiteral{Value: 2},
			FalseExpr: &NumberLiteral{Value: 3},
		},
		Op: OpAdd,
	}

	count := 0
	VisitRecursive(tree, func(Expression) { count++ })
	assert.Equal(t, 6, count)
}

func TestContainsReturn(t *testing.T) {
	assert.False(t, ContainsReturn(&NumberLiteral{Value: 1}))

	block := &CodeBlock{Statements: []Expression{
		&NumberLiteral{Value: 1},
		&Condition{
			Condition: &BoolLiteral{},
			TrueExpr:  &ReturnStatement{Value: &NumberLiteral{Value: 2}},
			FalseExpr: &CodeBlock{},
		},
	}}
	assert.True(t, ContainsReturn(block))

	ty, ok := ReturnType(block)
	require.True(t, ok)
	assert.Equal(t, types.Float32, ty)
}

func TestRewriteChildren(t *testing.T) {
	orig := &BinaryExpression{
		LHS: &NumberLiteral{Value: 1},
		RHS: &NumberLiteral{Value: 2},
		Op:  OpAdd,
	}

	out := RewriteChildren(orig, func(Expression) Expression {
		return &NumberLiteral{Value: 9}
	})

	bin, ok := out.(*BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, 9.0, bin.LHS.(*NumberLiteral).Value)
	assert.Equal(t, 9.0, bin.RHS.(*NumberLiteral).Value)
	// Input untouched.
	assert.Equal(t, 1.0, orig.LHS.(*NumberLiteral).Value)
}

func TestDefaultValue(t *testing.T) {
	assert.Equal(t, 0.0, DefaultValue(types.Float32).(*NumberLiteral).Value)
	assert.Equal(t, types.UnitPx, DefaultValue(types.LogicalLength).(*NumberLiteral).Unit)
	assert.Equal(t, 100.0, DefaultValue(types.Percent).(*NumberLiteral).Value)
	assert.False(t, DefaultValue(types.Bool).(*BoolLiteral).Value)
	assert.IsType(t, &Invalid{}, DefaultValue(types.Void))

	st := DefaultValue(ImageSizeType())
	require.IsType(t, &StructLiteral{}, st)
	assert.Len(t, st.(*StructLiteral).Values, 2)
}

func TestConvertPercentToFloat(t *testing.T) {
	half := &NumberLiteral{Value: 50, Unit: types.UnitPercent}

	out, ok := Convert(half, types.Float32)
	require.True(t, ok)
	assert.Equal(t, types.Float32, out.Type())

	cast, isCast := out.(*Cast)
	require.True(t, isCast)

	scaled, isBin := cast.From.(*BinaryExpression)
	require.True(t, isBin)
	assert.Equal(t, OpMul, scaled.Op)
	assert.Equal(t, 0.01, scaled.RHS.(*NumberLiteral).Value)
}

func TestConvertZeroLiteralTakesUnit(t *testing.T) {
	zero := &NumberLiteral{Value: 0}

	out, ok := Convert(zero, types.Duration)
	require.True(t, ok)
	assert.Equal(t, types.UnitMs, out.(*NumberLiteral).Unit)
}

func TestConvertStructFillsMissingFields(t *testing.T) {
	small := types.Struct(types.MakeStruct("",
		types.StructField{Name: "a", Type: types.Float32}))
	big := types.Struct(types.MakeStruct("",
		types.StructField{Name: "a", Type: types.Float32},
		types.StructField{Name: "b", Type: types.Bool}))

	lit := &StructLiteral{
		Ty:     small,
		Values: map[string]Expression{"a": &NumberLiteral{Value: 1}},
	}

	out, ok := Convert(lit, big)
	require.True(t, ok)

	conv, isLit := out.(*StructLiteral)
	require.True(t, isLit)
	assert.Len(t, conv.Values, 2)
	assert.False(t, conv.Values["b"].(*BoolLiteral).Value)
}

func TestCommonTypeMergesStructs(t *testing.T) {
	a := types.Struct(types.MakeStruct("",
		types.StructField{Name: "condition", Type: types.Bool},
		types.StructField{Name: "actual", Type: types.Float32}))
	b := types.Struct(types.MakeStruct("",
		types.StructField{Name: "condition", Type: types.Bool},
		types.StructField{Name: "returned", Type: types.Float32}))

	common := CommonType(a, b)
	require.Equal(t, types.KindStruct, common.Kind)
	assert.Len(t, common.Fields.Fields, 3)
}

func TestMinMaxExpression(t *testing.T) {
	e := MinMaxExpression(
		&NumberLiteral{Value: 1},
		&NumberLiteral{Value: 2, Unit: types.UnitNone},
		Max,
	)

	mm, ok := e.(*MinMax)
	require.True(t, ok)
	assert.Equal(t, types.Float32, mm.Ty)

	mixed := MinMaxExpression(
		&Cast{From: &NumberLiteral{Value: 1}, To: types.Int32},
		&NumberLiteral{Value: 2},
		Min,
	)
	assert.Equal(t, types.Float32, mixed.(*MinMax).Ty)
}

func TestPrint(t *testing.T) {
	e := &Condition{
		Condition: &BoolLiteral{Value: true},
		TrueExpr:  &NumberLiteral{Value: 1},
		FalseExpr: &NumberLiteral{Value: 2},
	}

	assert.Equal(t, "if (true) { 1 } else { 2 }", Print(e))
	assert.Equal(t, "(3px + 4px)", Print(&BinaryExpression{
		LHS: &NumberLiteral{Value: 3, Unit: types.UnitPx},
		RHS: &NumberLiteral{Value: 4, Unit: types.UnitPx},
		Op:  OpAdd,
	}))
}

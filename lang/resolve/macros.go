package resolve

import (
	"fmt"

	"github.com/ardnew/weft/lang/expr"
	"github.com/ardnew/weft/lang/token"
	"github.com/ardnew/weft/lang/types"
)

// macroArg pairs a resolved argument with the span it was written at.
type macroArg struct {
	value expr.Expression
	span  token.Span
}

// lowerMacro expands a builtin macro call in place. Macros exist for
// the builtins whose signature depends on the argument types, which a
// fixed function type cannot express.
func (r *resolver) lowerMacro(mac expr.BuiltinMacro, span token.Span, args []macroArg) expr.Expression {
	switch mac {
	case expr.MacroMin:
		return r.minMaxMacro(span, expr.Min, args)
	case expr.MacroMax:
		return r.minMaxMacro(span, expr.Max, args)
	case expr.MacroMod:
		return r.modMacro(span, args)
	case expr.MacroCubicBezier:
		return r.cubicBezierMacro(span, args)
	case expr.MacroRgb:
		return r.rgbMacro(span, args)
	case expr.MacroDebug:
		return r.debugMacro(args)
	default:
		return &expr.Invalid{}
	}
}

// minMaxMacro folds the arguments into a chain of pairwise min or max
// expressions. The first argument's type decides the comparison type;
// plain numbers and percentages compare as floats.
func (r *resolver) minMaxMacro(span token.Span, op expr.MinMaxOp, args []macroArg) expr.Expression {
	if len(args) == 0 {
		r.sink.PushError("Needs at least one argument", span)

		return &expr.Invalid{}
	}

	ty := args[0].value.Type()

	switch ty.Kind {
	case types.KindFloat32, types.KindInt32, types.KindPercent:
		ty = types.Float32
	case types.KindPhysicalLength, types.KindLogicalLength,
		types.KindDuration, types.KindAngle:
	default:
		r.sink.PushError("Invalid argument type", args[0].span)

		return &expr.Invalid{}
	}

	out := r.maybeConvert(args[0].value, ty, args[0].span)
	for _, a := range args[1:] {
		out = expr.MinMaxExpression(out, r.maybeConvert(a.value, ty, a.span), op)
	}

	return out
}

// modMacro lowers `mod(a, b)`. Unit arguments compute as floats and
// cast back to the common unit type afterwards.
func (r *resolver) modMacro(span token.Span, args []macroArg) expr.Expression {
	if len(args) != 2 {
		r.sink.PushError("Needs 2 arguments", span)

		return &expr.Invalid{}
	}

	common := additiveTargetType(args[0].value.Type(), args[1].value.Type())
	lhs := r.maybeConvert(args[0].value, common, args[0].span)
	rhs := r.maybeConvert(args[1].value, common, args[1].span)

	if common.Kind == types.KindFloat32 {
		return &expr.FunctionCall{
			Function:  &expr.BuiltinFunctionReference{Func: expr.FuncMod},
			Arguments: []expr.Expression{lhs, rhs},
		}
	}

	return &expr.Cast{
		From: &expr.FunctionCall{
			Function: &expr.BuiltinFunctionReference{Func: expr.FuncMod},
			Arguments: []expr.Expression{
				&expr.Cast{From: lhs, To: types.Float32},
				&expr.Cast{From: rhs, To: types.Float32},
			},
		},
		To: common,
	}
}

// cubicBezierMacro builds an easing curve from four constant control
// points. Only the first problem is reported, so a short argument list
// does not cascade.
func (r *resolver) cubicBezierMacro(span token.Span, args []macroArg) expr.Expression {
	var (
		errMsg  string
		errSpan token.Span
	)

	fail := func(msg string, sp token.Span) {
		if errMsg == "" {
			errMsg, errSpan = msg, sp
		}
	}

	var points [4]float32

	for i := range points {
		if i >= len(args) {
			fail("Not enough arguments", span)

			continue
		}

		v, ok := constantNumber(args[i].value)
		if !ok {
			fail("Arguments to cubic bezier curve must be number literal", args[i].span)

			continue
		}

		points[i] = v
	}

	if len(args) > 4 {
		fail("Too many argument for bezier curve", args[4].span)
	}

	if errMsg != "" {
		r.sink.PushError(errMsg, errSpan)
	}

	return &expr.EasingCurveExpression{
		Curve: expr.CubicBezierCurve(points[0], points[1], points[2], points[3]),
	}
}

// constantNumber extracts a compile time unit-less number, allowing a
// leading minus.
func constantNumber(e expr.Expression) (float32, bool) {
	switch v := e.(type) {
	case *expr.NumberLiteral:
		if v.Unit == types.UnitNone {
			return float32(v.Value), true
		}
	case *expr.UnaryOp:
		if v.Op == expr.OpSub {
			if n, ok := v.Sub.(*expr.NumberLiteral); ok && n.Unit == types.UnitNone {
				return float32(-n.Value), true
			}
		}
	}

	return 0, false
}

// rgbMacro lowers `rgb(r, g, b)` and `rgba(r, g, b, a)`. Percentage
// channels scale to the 0..255 range; a missing alpha defaults to
// fully opaque.
func (r *resolver) rgbMacro(span token.Span, args []macroArg) expr.Expression {
	if len(args) < 3 {
		r.sink.PushError("Needs 3 or 4 argument", span)

		return &expr.Invalid{}
	}

	arguments := make([]expr.Expression, 0, 4)

	for i, a := range args {
		switch {
		case i >= 3:
			arguments = append(arguments, r.maybeConvert(a.value, types.Float32, a.span))

		case a.value.Type().Kind == types.KindPercent:
			scaled, _ := expr.Convert(a.value, types.Float32)
			arguments = append(arguments, &expr.BinaryExpression{
				LHS: scaled,
				RHS: &expr.NumberLiteral{Value: 255, Unit: types.UnitNone},
				Op:  expr.OpMul,
			})

		default:
			arguments = append(arguments, r.maybeConvert(a.value, types.Int32, a.span))
		}
	}

	if len(arguments) < 4 {
		arguments = append(arguments, &expr.NumberLiteral{Value: 1, Unit: types.UnitNone})
	}

	return &expr.FunctionCall{
		Function:  &expr.BuiltinFunctionReference{Func: expr.FuncRgb},
		Arguments: arguments,
	}
}

// debugMacro joins the arguments into one string and hands it to the
// runtime debug function.
func (r *resolver) debugMacro(args []macroArg) expr.Expression {
	var joined expr.Expression

	for _, a := range args {
		piece := r.toDebugString(a.value, a.span)
		if joined == nil {
			joined = piece

			continue
		}

		joined = &expr.BinaryExpression{
			LHS: joined,
			RHS: &expr.BinaryExpression{
				LHS: &expr.StringLiteral{Value: ", "},
				RHS: piece,
				Op:  expr.OpAdd,
			},
			Op: expr.OpAdd,
		}
	}

	if joined == nil {
		joined = expr.DefaultValue(types.String)
	}

	return &expr.FunctionCall{
		Function:  &expr.BuiltinFunctionReference{Func: expr.FuncDebug},
		Arguments: []expr.Expression{joined},
	}
}

// toDebugString renders a value of any debuggable type as a string
// expression.
//
//nolint:gocyclo,cyclop,funlen
func (r *resolver) toDebugString(e expr.Expression, span token.Span) expr.Expression {
	ty := e.Type()

	switch ty.Kind {
	case types.KindInvalid:
		return &expr.Invalid{}

	case types.KindFloat32, types.KindInt32:
		return r.maybeConvert(e, types.String, span)

	case types.KindString:
		return e

	case types.KindColor, types.KindBrush, types.KindImage,
		types.KindEasing, types.KindArray, types.KindModel:
		return &expr.StringLiteral{Value: "<debug-of-this-type-not-yet-implemented>"}

	case types.KindDuration, types.KindPhysicalLength, types.KindLogicalLength,
		types.KindAngle, types.KindPercent, types.KindUnitProduct:
		unit := ""
		if u, ok := ty.DefaultUnit(); ok {
			unit = u.String()
		} else if p, ok := ty.AsUnitProduct(); ok {
			unit = types.UnitProduct(p).String()
		}

		number, _ := expr.Convert(&expr.Cast{From: e, To: types.Float32}, types.String)

		return &expr.BinaryExpression{
			LHS: number,
			RHS: &expr.StringLiteral{Value: unit},
			Op:  expr.OpAdd,
		}

	case types.KindBool:
		return &expr.Condition{
			Condition: e,
			TrueExpr:  &expr.StringLiteral{Value: "true"},
			FalseExpr: &expr.StringLiteral{Value: "false"},
		}

	case types.KindStruct:
		return r.debugStruct(e, ty, span)

	case types.KindEnumeration:
		return r.debugEnum(e, ty)

	default:
		r.sink.PushError("Cannot debug this expression", span)

		return &expr.Invalid{}
	}
}

// debugStruct renders `{ field: value, ... }`, storing the struct in a
// local so it evaluates once.
func (r *resolver) debugStruct(e expr.Expression, ty types.Type, span token.Span) expr.Expression {
	fields := ty.Fields.Fields
	if len(fields) == 0 {
		return &expr.StringLiteral{Value: "{}"}
	}

	local := r.newLocal("debug-struct")

	var out expr.Expression

	for i, f := range fields {
		prefix := ", " + f.Name + ": "
		if i == 0 {
			prefix = "{ " + f.Name + ": "
		}

		piece := r.toDebugString(&expr.StructFieldAccess{
			Base: &expr.ReadLocalVariable{Name: local, Ty: ty},
			Name: f.Name,
		}, span)

		part := &expr.BinaryExpression{
			LHS: &expr.StringLiteral{Value: prefix},
			RHS: piece,
			Op:  expr.OpAdd,
		}

		if out == nil {
			out = part
		} else {
			out = &expr.BinaryExpression{LHS: out, RHS: part, Op: expr.OpAdd}
		}
	}

	out = &expr.BinaryExpression{
		LHS: out,
		RHS: &expr.StringLiteral{Value: " }"},
		Op:  expr.OpAdd,
	}

	return &expr.CodeBlock{Statements: []expr.Expression{
		&expr.StoreLocalVariable{Name: local, Value: e},
		out,
	}}
}

// debugEnum renders the member name via a chain of comparisons against
// each enumeration value.
func (r *resolver) debugEnum(e expr.Expression, ty types.Type) expr.Expression {
	local := r.newLocal("debug-enum")
	read := &expr.ReadLocalVariable{Name: local, Ty: ty}

	var out expr.Expression = &expr.StringLiteral{
		Value: fmt.Sprintf("Error: invalid value for %s", ty),
	}

	for i := len(ty.Enum.Values) - 1; i >= 0; i-- {
		out = &expr.Condition{
			Condition: &expr.BinaryExpression{
				LHS: read,
				RHS: &expr.EnumerationValueExpression{
					Value: types.EnumerationValue{Enum: ty.Enum, Value: i},
				},
				Op: expr.OpEq,
			},
			TrueExpr:  &expr.StringLiteral{Value: ty.Enum.Values[i]},
			FalseExpr: out,
		}
	}

	return &expr.CodeBlock{Statements: []expr.Expression{
		&expr.StoreLocalVariable{Name: local, Value: e},
		out,
	}}
}

func (r *resolver) newLocal(prefix string) string {
	r.locals++

	return fmt.Sprintf("%s%d", prefix, r.locals)
}

package expr

import "github.com/ardnew/weft/lang/types"

// BuiltinFunction is a function implemented natively by the runtime.
type BuiltinFunction uint8

const (
	FuncDebug BuiltinFunction = iota
	FuncMod
	FuncRound
	FuncCeil
	FuncFloor
	FuncAbs
	FuncSqrt
	FuncSin
	FuncCos
	FuncTan
	FuncASin
	FuncACos
	FuncATan
	FuncLog
	FuncPow
	FuncRgb
	FuncImageSize
	FuncImplicitLayoutInfoHorizontal
	FuncImplicitLayoutInfoVertical
)

//nolint:gochecknoglobals
var builtinFunctionNames = map[BuiltinFunction]string{
	FuncDebug:                        "debug",
	FuncMod:                          "mod",
	FuncRound:                        "round",
	FuncCeil:                         "ceil",
	FuncFloor:                        "floor",
	FuncAbs:                          "abs",
	FuncSqrt:                         "sqrt",
	FuncSin:                          "sin",
	FuncCos:                          "cos",
	FuncTan:                          "tan",
	FuncASin:                         "asin",
	FuncACos:                         "acos",
	FuncATan:                         "atan",
	FuncLog:                          "log",
	FuncPow:                          "pow",
	FuncRgb:                          "rgb",
	FuncImageSize:                    "image-size",
	FuncImplicitLayoutInfoHorizontal: "implicit-layout-info-horizontal",
	FuncImplicitLayoutInfoVertical:   "implicit-layout-info-vertical",
}

// String returns the name the function is called by in source.
func (f BuiltinFunction) String() string { return builtinFunctionNames[f] }

// ImageSizeType is the struct returned by the image-size builtin.
func ImageSizeType() types.Type {
	return types.Struct(types.MakeStruct("Size",
		types.StructField{Name: "width", Type: types.Int32},
		types.StructField{Name: "height", Type: types.Int32},
	))
}

// Type returns the function's signature.
func (f BuiltinFunction) Type() types.Type {
	switch f {
	case FuncDebug:
		return types.Function(types.Void, types.String)
	case FuncMod:
		return types.Function(types.Int32, types.Int32, types.Int32)
	case FuncRound, FuncCeil, FuncFloor:
		return types.Function(types.Int32, types.Float32)
	case FuncAbs, FuncSqrt:
		return types.Function(types.Float32, types.Float32)
	case FuncSin, FuncCos, FuncTan:
		return types.Function(types.Float32, types.Angle)
	case FuncASin, FuncACos, FuncATan:
		return types.Function(types.Angle, types.Float32)
	case FuncLog, FuncPow:
		return types.Function(types.Float32, types.Float32, types.Float32)
	case FuncRgb:
		return types.Function(types.Color,
			types.Int32, types.Int32, types.Int32, types.Float32)
	case FuncImageSize:
		return types.Function(ImageSizeType(), types.Image)
	case FuncImplicitLayoutInfoHorizontal, FuncImplicitLayoutInfoVertical:
		return types.Function(types.LayoutInfoType(), types.ElementRef)
	default:
		return types.Invalid
	}
}

// BuiltinMacro is expanded by the compiler itself: its arguments are
// transformed rather than passed, so macros never survive resolution.
type BuiltinMacro uint8

const (
	// MacroMin lowers min(a, b, ..., z) to chained conditionals.
	MacroMin BuiltinMacro = iota
	// MacroMax lowers max(a, b, ..., z) to chained conditionals.
	MacroMax
	// MacroMod inserts conversions so mod returns its argument type.
	MacroMod
	// MacroCubicBezier builds an easing curve from four constants.
	MacroCubicBezier
	// MacroRgb normalizes rgb/rgba argument forms.
	MacroRgb
	// MacroDebug joins its arguments into one message string.
	MacroDebug
)

// String returns the macro's source-level name.
func (m BuiltinMacro) String() string {
	switch m {
	case MacroMin:
		return "min"
	case MacroMax:
		return "max"
	case MacroMod:
		return "mod"
	case MacroCubicBezier:
		return "cubic-bezier"
	case MacroRgb:
		return "rgb"
	case MacroDebug:
		return "debug"
	default:
		return "?"
	}
}

// EasingCurve is an animation timing function.
type EasingCurve struct {
	// Points holds the cubic bezier control points; nil means linear.
	Points *[4]float32
}

// LinearCurve is the default easing.
func LinearCurve() EasingCurve { return EasingCurve{} }

// CubicBezierCurve builds a curve from its control points.
func CubicBezierCurve(a, b, c, d float32) EasingCurve {
	return EasingCurve{Points: &[4]float32{a, b, c, d}}
}

// MinMaxExpression builds a MinMax node over two operands of the same
// numerical type (int and float combine to float).
func MinMaxExpression(lhs, rhs Expression, op MinMaxOp) Expression {
	lt, rt := lhs.Type(), rhs.Type()

	var ty types.Type

	switch {
	case lt.Equal(rt):
		ty = lt
	case lt.Kind == types.KindInt32 && rt.Kind == types.KindFloat32,
		lt.Kind == types.KindFloat32 && rt.Kind == types.KindInt32:
		ty = types.Float32
	default:
		ty = types.Invalid
	}

	return &MinMax{Ty: ty, Op: op, LHS: lhs, RHS: rhs}
}

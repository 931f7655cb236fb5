package expr

import "github.com/ardnew/weft/lang/types"

// DefaultValue returns the expression used to initialize a value of the
// given type when nothing was written.
//
//nolint:gocyclo,cyclop
func DefaultValue(ty types.Type) Expression {
	switch ty.Kind {
	case types.KindFloat32:
		return &NumberLiteral{Value: 0, Unit: types.UnitNone}
	case types.KindString:
		return &StringLiteral{Value: ""}
	case types.KindInt32, types.KindColor:
		return &Cast{From: &NumberLiteral{Value: 0, Unit: types.UnitNone}, To: ty}
	case types.KindDuration:
		return &NumberLiteral{Value: 0, Unit: types.UnitMs}
	case types.KindAngle:
		return &NumberLiteral{Value: 0, Unit: types.UnitDeg}
	case types.KindPhysicalLength:
		return &NumberLiteral{Value: 0, Unit: types.UnitPhx}
	case types.KindLogicalLength:
		return &NumberLiteral{Value: 0, Unit: types.UnitPx}
	case types.KindPercent:
		return &NumberLiteral{Value: 100, Unit: types.UnitPercent}
	case types.KindImage:
		return &ImageReference{}
	case types.KindBool:
		return &BoolLiteral{Value: false}
	case types.KindArray:
		return &ArrayLiteral{ElementType: *ty.Elem}
	case types.KindStruct:
		values := make(map[string]Expression, len(ty.Fields.Fields))
		for _, f := range ty.Fields.Fields {
			values[f.Name] = DefaultValue(f.Type)
		}

		return &StructLiteral{Ty: ty, Values: values}
	case types.KindEasing:
		return &EasingCurveExpression{Curve: LinearCurve()}
	case types.KindBrush:
		return &Cast{From: DefaultValue(types.Color), To: types.Brush}
	case types.KindEnumeration:
		return &EnumerationValueExpression{Value: ty.Enum.DefaultValue()}
	default:
		return &Invalid{}
	}
}

// Convert wraps e so its value reads as the target type. When no
// implicit conversion exists, e is returned unchanged and ok is false;
// the caller decides whether that is worth a diagnostic.
func Convert(e Expression, target types.Type) (Expression, bool) {
	ty := e.Type()

	if ty.Equal(target) ||
		target.Kind == types.KindVoid || target.Kind == types.KindInvalid ||
		ty.Kind == types.KindInvalid {
		return e, true
	}

	if lit, isArr := e.(*ArrayLiteral); isArr && target.Kind == types.KindArray {
		// Array literals convert element by element.
		values := make([]Expression, len(lit.Values))

		for i, v := range lit.Values {
			conv, ok := Convert(v, *target.Elem)
			if !ok {
				return e, false
			}

			values[i] = conv
		}

		return &ArrayLiteral{ElementType: *target.Elem, Values: values}, true
	}

	if !ty.CanConvert(target) {
		// A literal 0 converts to any unit type.
		if n, isNum := e.(*NumberLiteral); isNum && n.Value == 0 && n.Unit == types.UnitNone {
			if u, hasUnit := target.DefaultUnit(); hasUnit {
				return &NumberLiteral{Value: 0, Unit: u}, true
			}
		}

		return e, false
	}

	switch {
	case ty.Kind == types.KindPercent && target.Kind == types.KindFloat32:
		// A percentage reads as a plain factor.
		scaled := &BinaryExpression{
			LHS: e,
			RHS: &NumberLiteral{Value: 0.01, Unit: types.UnitNone},
			Op:  OpMul,
		}

		return &Cast{From: scaled, To: target}, true

	case ty.Kind == types.KindStruct && target.Kind == types.KindStruct:
		return convertStruct(e, ty, target), true

	default:
		return &Cast{From: e, To: target}, true
	}
}

// convertStruct reshapes a struct value to the target struct type,
// filling fields the source lacks with defaults. Struct literals are
// reshaped directly; any other expression is stored in a local so it is
// evaluated once.
func convertStruct(e Expression, from, to types.Type) Expression {
	if lit, ok := e.(*StructLiteral); ok {
		values := make(map[string]Expression, len(to.Fields.Fields))

		for _, f := range to.Fields.Fields {
			if v, has := lit.Values[f.Name]; has {
				conv, _ := Convert(v, f.Type)
				values[f.Name] = conv
			} else {
				values[f.Name] = DefaultValue(f.Type)
			}
		}

		return &StructLiteral{Ty: to, Values: values}
	}

	const varName = "converted-struct"

	values := make(map[string]Expression, len(to.Fields.Fields))

	for _, f := range to.Fields.Fields {
		if _, has := from.Fields.Field(f.Name); has {
			values[f.Name] = &StructFieldAccess{
				Base: &ReadLocalVariable{Name: varName, Ty: from},
				Name: f.Name,
			}
		} else {
			values[f.Name] = DefaultValue(f.Type)
		}
	}

	return &CodeBlock{Statements: []Expression{
		&StoreLocalVariable{Name: varName, Value: e},
		&StructLiteral{Ty: to, Values: values},
	}}
}

// CommonType returns the type both given types convert to, upgrading
// struct shapes to the union of their fields.
func CommonType(a, b types.Type) types.Type {
	switch {
	case a.Equal(b):
		return a
	case a.Kind == types.KindInvalid:
		return b
	case b.Kind == types.KindInvalid:
		return a
	case a.Kind == types.KindStruct && b.Kind == types.KindStruct:
		merged := append([]types.StructField{}, a.Fields.Fields...)

		for _, f := range b.Fields.Fields {
			if _, ok := a.Fields.Field(f.Name); !ok {
				merged = append(merged, f)
			}
		}

		return types.Struct(types.MakeStruct("", merged...))
	case a.CanConvert(b):
		return b
	case b.CanConvert(a):
		return a
	default:
		return types.Invalid
	}
}

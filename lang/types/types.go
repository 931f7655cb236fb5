// Package types defines the closed set of value types known to the
// compiler, the descriptions of builtin elements, and the registry that
// resolves type and element names with parent chaining.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Kind discriminates the Type union.
type Kind uint8

const (
	// KindInvalid marks an uninitialized type or a type error.
	KindInvalid Kind = iota
	// KindVoid is the type of expressions producing no value.
	KindVoid
	// KindInferredProperty marks a two way binding whose type is not
	// yet known.
	KindInferredProperty
	// KindInferredCallback marks a callback alias whose type is not yet
	// known.
	KindInferredCallback
	// KindFloat32 is a plain floating point number.
	KindFloat32
	// KindInt32 is a plain integer.
	KindInt32
	// KindString is a text string.
	KindString
	// KindColor is an RGBA color value.
	KindColor
	// KindDuration is a time span in milliseconds.
	KindDuration
	// KindPhysicalLength is a length in device pixels.
	KindPhysicalLength
	// KindLogicalLength is a length in logical pixels.
	KindLogicalLength
	// KindAngle is an angle in degrees.
	KindAngle
	// KindPercent is a fraction of a parent property.
	KindPercent
	// KindImage is an image resource.
	KindImage
	// KindBool is a boolean.
	KindBool
	// KindModel is a data model feeding a repeater.
	KindModel
	// KindEasing is an animation easing curve.
	KindEasing
	// KindBrush is a color or gradient fill.
	KindBrush
	// KindElementRef is a reference to an element instance.
	KindElementRef
	// KindArray is a homogeneous sequence; Elem holds the element type.
	KindArray
	// KindStruct is a named or anonymous record; Fields holds the shape.
	KindStruct
	// KindEnumeration is one of a closed set of named values.
	KindEnumeration
	// KindCallback is an invokable handler signature.
	KindCallback
	// KindFunction is a function signature.
	KindFunction
	// KindUnitProduct is a product of powers of units, produced by
	// multiplying or dividing unit-typed values.
	KindUnitProduct
)

// Type is a closed tagged union. The Kind selects which of the payload
// fields are meaningful; scalar kinds carry no payload and can be
// compared against the package-level singletons.
type Type struct {
	Kind Kind

	// Elem is the element type of a KindArray.
	Elem *Type

	// Fields describes a KindStruct.
	Fields *StructType

	// Enum describes a KindEnumeration.
	Enum *Enumeration

	// Args are the parameter types of a KindCallback or KindFunction.
	Args []Type

	// Result is the return type of a KindFunction, or of a KindCallback
	// when one is declared (nil means the callback returns nothing).
	Result *Type

	// Product holds the factors of a KindUnitProduct, sorted by
	// descending power then by unit.
	Product []UnitPower
}

// Scalar type singletons.
//
//nolint:gochecknoglobals
var (
	Invalid          = Type{Kind: KindInvalid}
	Void             = Type{Kind: KindVoid}
	InferredProperty = Type{Kind: KindInferredProperty}
	InferredCallback = Type{Kind: KindInferredCallback}
	Float32          = Type{Kind: KindFloat32}
	Int32            = Type{Kind: KindInt32}
	String           = Type{Kind: KindString}
	Color            = Type{Kind: KindColor}
	Duration         = Type{Kind: KindDuration}
	PhysicalLength   = Type{Kind: KindPhysicalLength}
	LogicalLength    = Type{Kind: KindLogicalLength}
	Angle            = Type{Kind: KindAngle}
	Percent          = Type{Kind: KindPercent}
	Image            = Type{Kind: KindImage}
	Bool             = Type{Kind: KindBool}
	Model            = Type{Kind: KindModel}
	Easing           = Type{Kind: KindEasing}
	Brush            = Type{Kind: KindBrush}
	ElementRef       = Type{Kind: KindElementRef}
)

// Array returns the type of an array of elem.
func Array(elem Type) Type {
	return Type{Kind: KindArray, Elem: &elem}
}

// Struct returns the type described by s.
func Struct(s *StructType) Type {
	return Type{Kind: KindStruct, Fields: s}
}

// Enum returns the type of values of e.
func Enum(e *Enumeration) Type {
	return Type{Kind: KindEnumeration, Enum: e}
}

// Function returns a function type with the given signature.
func Function(result Type, args ...Type) Type {
	return Type{Kind: KindFunction, Args: args, Result: &result}
}

// Callback returns a callback type. A nil result means the callback
// produces no value.
func Callback(result *Type, args ...Type) Type {
	return Type{Kind: KindCallback, Args: args, Result: result}
}

// UnitProduct returns a product-of-units type. Factors must already be
// normalized (no zero powers, sorted by descending power then unit).
func UnitProduct(factors []UnitPower) Type {
	return Type{Kind: KindUnitProduct, Product: factors}
}

// Equal reports structural equality. Enumerations compare by name,
// structs by name and field shape.
//
//nolint:gocyclo,cyclop
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}

	switch t.Kind {
	case KindArray:
		return t.Elem.Equal(*other.Elem)

	case KindStruct:
		return t.Fields.equal(other.Fields)

	case KindEnumeration:
		return t.Enum.Name == other.Enum.Name

	case KindCallback, KindFunction:
		if len(t.Args) != len(other.Args) {
			return false
		}

		for i := range t.Args {
			if !t.Args[i].Equal(other.Args[i]) {
				return false
			}
		}

		if (t.Result == nil) != (other.Result == nil) {
			return false
		}

		return t.Result == nil || t.Result.Equal(*other.Result)

	case KindUnitProduct:
		if len(t.Product) != len(other.Product) {
			return false
		}

		for i := range t.Product {
			if t.Product[i] != other.Product[i] {
				return false
			}
		}

		return true

	default:
		return true
	}
}

// String renders the type the way it is written in source.
//
//nolint:gocyclo,cyclop
func (t Type) String() string {
	switch t.Kind {
	case KindInvalid:
		return "<error>"
	case KindVoid:
		return "void"
	case KindInferredProperty:
		return "?"
	case KindInferredCallback:
		return "callback"
	case KindFloat32:
		return "float"
	case KindInt32:
		return "int"
	case KindString:
		return "string"
	case KindColor:
		return "color"
	case KindDuration:
		return "duration"
	case KindPhysicalLength:
		return "physical-length"
	case KindLogicalLength:
		return "length"
	case KindAngle:
		return "angle"
	case KindPercent:
		return "percent"
	case KindImage:
		return "image"
	case KindBool:
		return "bool"
	case KindModel:
		return "model"
	case KindEasing:
		return "easing"
	case KindBrush:
		return "brush"
	case KindElementRef:
		return "element ref"
	case KindArray:
		return "[" + t.Elem.String() + "]"
	case KindStruct:
		return t.Fields.String()
	case KindEnumeration:
		return "enum " + t.Enum.Name
	case KindCallback:
		return t.signature("callback")
	case KindFunction:
		return t.signature("function")
	case KindUnitProduct:
		return t.productString()
	default:
		return fmt.Sprintf("<kind %d>", t.Kind)
	}
}

func (t Type) signature(prefix string) string {
	var sb strings.Builder

	sb.WriteString(prefix)

	if len(t.Args) > 0 || t.Kind == KindFunction {
		sb.WriteByte('(')

		for i, a := range t.Args {
			if i > 0 {
				sb.WriteByte(',')
			}

			sb.WriteString(a.String())
		}

		sb.WriteByte(')')
	}

	if t.Result != nil {
		sb.WriteString(" -> ")
		sb.WriteString(t.Result.String())
	}

	return sb.String()
}

func (t Type) productString() string {
	parts := make([]string, len(t.Product))
	for i, f := range t.Product {
		if f.Power == 1 {
			parts[i] = f.Unit.String()
		} else {
			parts[i] = fmt.Sprintf("%s^%d", f.Unit, f.Power)
		}
	}

	return "(" + strings.Join(parts, "*") + ")"
}

// IsPropertyType reports whether a property may be declared with this
// type.
func (t Type) IsPropertyType() bool {
	switch t.Kind {
	case KindFloat32, KindInt32, KindString, KindColor, KindDuration,
		KindAngle, KindPhysicalLength, KindLogicalLength, KindPercent,
		KindImage, KindBool, KindModel, KindEasing, KindBrush,
		KindElementRef, KindArray, KindStruct, KindEnumeration,
		KindInferredProperty:
		return true
	default:
		return false
	}
}

// CanConvert reports whether a value of this type may be implicitly
// converted to other.
//
//nolint:gocyclo,cyclop
func (t Type) CanConvert(other Type) bool {
	if t.Equal(other) {
		return true
	}

	switch {
	case other.Kind == KindInvalid || other.Kind == KindVoid:
		return true
	case t.Kind == KindFloat32 && (other.Kind == KindInt32 || other.Kind == KindString || other.Kind == KindModel):
		return true
	case t.Kind == KindInt32 && (other.Kind == KindFloat32 || other.Kind == KindString || other.Kind == KindModel):
		return true
	case t.Kind == KindArray && other.Kind == KindModel:
		return true
	case t.Kind == KindPhysicalLength && other.Kind == KindLogicalLength:
		return true
	case t.Kind == KindLogicalLength && other.Kind == KindPhysicalLength:
		return true
	case t.Kind == KindPercent && other.Kind == KindFloat32:
		return true
	case t.Kind == KindBrush && other.Kind == KindColor:
		return true
	case t.Kind == KindColor && other.Kind == KindBrush:
		return true
	case t.Kind == KindStruct && other.Kind == KindStruct:
		return t.Fields.canConvert(other.Fields)
	default:
		return false
	}
}

// DefaultUnit returns the unit a bare number takes when assigned to a
// property of this type.
func (t Type) DefaultUnit() (Unit, bool) {
	switch t.Kind {
	case KindDuration:
		return UnitMs, true
	case KindPhysicalLength:
		return UnitPhx, true
	case KindLogicalLength:
		return UnitPx, true
	case KindAngle:
		return UnitDeg, true
	default:
		// Percent deliberately has no default unit: it does not combine
		// with other units in products.
		return UnitNone, false
	}
}

// AsUnitProduct returns the unit-power factors of this type, treating
// plain numbers as the empty product. The second result is false for
// types with no unit interpretation.
func (t Type) AsUnitProduct() ([]UnitPower, bool) {
	switch t.Kind {
	case KindUnitProduct:
		return t.Product, true
	case KindFloat32, KindInt32:
		return nil, true
	default:
		if u, ok := t.DefaultUnit(); ok {
			return []UnitPower{{Unit: u, Power: 1}}, true
		}

		return nil, false
	}
}

// StructField is one named member of a struct type.
type StructField struct {
	Name string
	Type Type
}

// StructType is the shape of a struct: fields sorted by name, and an
// optional declared name (anonymous object types have none).
type StructType struct {
	Name   string
	Fields []StructField
}

// MakeStruct builds a StructType with its fields sorted by name.
func MakeStruct(name string, fields ...StructField) *StructType {
	sorted := make([]StructField, len(fields))
	copy(sorted, fields)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	return &StructType{Name: name, Fields: sorted}
}

// Field returns the type of the named field.
func (s *StructType) Field(name string) (Type, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}

	return Invalid, false
}

// String renders the declared name, or the anonymous shape.
func (s *StructType) String() string {
	if s.Name != "" {
		return s.Name
	}

	var sb strings.Builder

	sb.WriteString("{ ")

	for _, f := range s.Fields {
		fmt.Fprintf(&sb, "%s: %s,", f.Name, f.Type)
	}

	sb.WriteString("}")

	return sb.String()
}

func (s *StructType) equal(other *StructType) bool {
	if s.Name != other.Name || len(s.Fields) != len(other.Fields) {
		return false
	}

	for i, f := range s.Fields {
		if f.Name != other.Fields[i].Name || !f.Type.Equal(other.Fields[i].Type) {
			return false
		}
	}

	return true
}

// canConvert allows conversion when every shared field converts and the
// field sets are not strictly incomparable (one side may only gain
// fields, not both gain and lose).
func (s *StructType) canConvert(other *StructType) bool {
	hasMore := false

	for _, f := range other.Fields {
		t, ok := s.Field(f.Name)

		switch {
		case !ok:
			hasMore = true
		case !t.CanConvert(f.Type):
			return false
		}
	}

	if hasMore {
		for _, f := range s.Fields {
			if _, ok := other.Field(f.Name); !ok {
				return false
			}
		}
	}

	return true
}

// Enumeration is a closed set of named values.
type Enumeration struct {
	Name string
	// Values in declaration order.
	Values []string
	// Default is the index into Values used when no value is given.
	Default int
}

// DefaultValue returns the enumeration's default member.
func (e *Enumeration) DefaultValue() EnumerationValue {
	return EnumerationValue{Enum: e, Value: e.Default}
}

// ValueFromString finds the member with the given name.
func (e *Enumeration) ValueFromString(name string) (EnumerationValue, bool) {
	for i, v := range e.Values {
		if v == name {
			return EnumerationValue{Enum: e, Value: i}, true
		}
	}

	return EnumerationValue{}, false
}

// EnumerationValue is one member of an enumeration, identified by index.
type EnumerationValue struct {
	Enum  *Enumeration
	Value int
}

// String returns the member's declared name.
func (v EnumerationValue) String() string {
	if v.Enum == nil || v.Value >= len(v.Enum.Values) {
		return "<invalid>"
	}

	return v.Enum.Values[v.Value]
}

// LayoutInfoType is the aggregate constraint struct synthesized per
// element and folded over its children: minimum, maximum, and preferred
// sizes plus percentage bounds and the stretch factor for one axis.
func LayoutInfoType() Type {
	return Struct(MakeStruct("LayoutInfo",
		StructField{Name: "min", Type: LogicalLength},
		StructField{Name: "max", Type: LogicalLength},
		StructField{Name: "preferred", Type: LogicalLength},
		StructField{Name: "min-percent", Type: Float32},
		StructField{Name: "max-percent", Type: Float32},
		StructField{Name: "stretch", Type: Float32},
	))
}

// Package expr defines the semantic expression tree produced by
// resolving syntax nodes, consumed and rewritten by the lowering
// passes. Expression is a closed union: every variant is declared in
// this package and carries enough type information at construction to
// answer Type() without consulting the element arena.
package expr

import "github.com/ardnew/weft/lang/types"

// ElementID addresses an element in its document's arena. Elements are
// referenced by ID everywhere so the expression tree holds no pointers
// into the element tree.
type ElementID int

// NoElement is the zero ElementID's invalid counterpart.
const NoElement ElementID = -1

// NamedReference identifies a property, callback, or function of a
// specific element, together with its resolved type.
type NamedReference struct {
	Element ElementID
	Name    string
	Ty      types.Type
}

// Expression is one node of the semantic tree.
type Expression interface {
	// Type returns the value type the expression produces.
	Type() types.Type
}

// Op is a binary, unary, or assignment operator.
type Op uint8

const (
	// OpNone is the plain '=' of an assignment.
	OpNone Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpAnd
	OpOr
	OpNot
)

// OpClass groups operators by the type discipline they follow.
type OpClass uint8

const (
	// Arithmetic operators combine values of matching or unit types.
	Arithmetic OpClass = iota
	// Comparison operators produce bool from two comparable values.
	Comparison
	// Logical operators combine booleans.
	Logical
)

// Class returns the operator's class.
func (o Op) Class() OpClass {
	switch o {
	case OpEq, OpNe, OpLt, OpGt, OpLe, OpGe:
		return Comparison
	case OpAnd, OpOr:
		return Logical
	default:
		return Arithmetic
	}
}

// String returns the operator as written in source.
func (o Op) String() string {
	switch o {
	case OpNone:
		return "="
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLe:
		return "<="
	case OpGe:
		return ">="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpNot:
		return "!"
	default:
		return "?"
	}
}

// Invalid marks a resolution failure; an error has been reported.
type Invalid struct{}

// StringLiteral holds the content without quotes.
type StringLiteral struct{ Value string }

// NumberLiteral holds the numeric value and the unit it was written in.
type NumberLiteral struct {
	Value float64
	Unit  types.Unit
}

// BoolLiteral is true or false.
type BoolLiteral struct{ Value bool }

// PropertyReference reads a property of an element.
type PropertyReference struct{ Ref NamedReference }

// CallbackReference names a callback of an element.
type CallbackReference struct{ Ref NamedReference }

// FunctionReference names a function of an element.
type FunctionReference struct{ Ref NamedReference }

// BuiltinFunctionReference names a function implemented by the runtime.
type BuiltinFunctionReference struct{ Func BuiltinFunction }

// BuiltinMacroReference names a compiler-expanded macro; these are
// rewritten away before the tree reaches code generation.
type BuiltinMacroReference struct{ Macro BuiltinMacro }

// ElementReference refers to an element instance.
type ElementReference struct{ Element ElementID }

// RepeaterIndexReference reads the index variable of a repeater.
type RepeaterIndexReference struct{ Element ElementID }

// RepeaterModelReference reads the model data variable of a repeater.
// Ty is the model's element type, fixed when the repeater is resolved.
type RepeaterModelReference struct {
	Element ElementID
	Ty      types.Type
}

// FunctionParameterReference reads the parameter at Index of the
// enclosing callback or function.
type FunctionParameterReference struct {
	Index int
	Ty    types.Type
}

// StoreLocalVariable stores Value in a named local; only valid directly
// inside a CodeBlock.
type StoreLocalVariable struct {
	Name  string
	Value Expression
}

// ReadLocalVariable reads a local stored earlier in an enclosing block.
type ReadLocalVariable struct {
	Name string
	Ty   types.Type
}

// StructFieldAccess reads a field of a struct-typed base expression.
type StructFieldAccess struct {
	Base Expression
	Name string
}

// ArrayIndex reads an element of an array-typed expression.
type ArrayIndex struct {
	Array Expression
	Index Expression
}

// Cast converts From to the target type.
type Cast struct {
	From Expression
	To   types.Type
}

// CodeBlock is an ordered statement sequence; its value is the last
// statement's value.
type CodeBlock struct{ Statements []Expression }

// FunctionCall invokes a function- or callback-typed expression.
type FunctionCall struct {
	Function  Expression
	Arguments []Expression
}

// SelfAssignment assigns RHS to LHS, optionally combining with Op.
type SelfAssignment struct {
	LHS Expression
	RHS Expression
	Op  Op
}

// BinaryExpression combines two operands.
type BinaryExpression struct {
	LHS Expression
	RHS Expression
	Op  Op
}

// UnaryOp applies a prefix operator.
type UnaryOp struct {
	Sub Expression
	Op  Op
}

// ImageReference is a resolved @image-url.
type ImageReference struct{ Path string }

// Condition is `condition ? true : false` or a lowered if statement.
type Condition struct {
	Condition Expression
	TrueExpr  Expression
	FalseExpr Expression
}

// ArrayLiteral is `[a, b, c]` with a known element type.
type ArrayLiteral struct {
	ElementType types.Type
	Values      []Expression
}

// StructLiteral is `{field: value, ...}` of the given struct type.
type StructLiteral struct {
	Ty     types.Type
	Values map[string]Expression
}

// EasingCurveExpression is a literal easing curve.
type EasingCurveExpression struct{ Curve EasingCurve }

// EnumerationValueExpression is a literal member of an enumeration.
type EnumerationValueExpression struct{ Value types.EnumerationValue }

// MinMaxOp selects the winner of a MinMax expression.
type MinMaxOp uint8

const (
	// Min keeps the smaller operand.
	Min MinMaxOp = iota
	// Max keeps the larger operand.
	Max
)

// MinMax evaluates to the smaller or larger of its two operands.
type MinMax struct {
	Ty  types.Type
	Op  MinMaxOp
	LHS Expression
	RHS Expression
}

// ReturnStatement exits the enclosing callback or function; Value is
// nil for a bare return. The lowering passes remove every instance
// before handoff.
type ReturnStatement struct{ Value Expression }

// Type implementations.

func (*Invalid) Type() types.Type { return types.Invalid }

func (*StringLiteral) Type() types.Type { return types.String }

func (e *NumberLiteral) Type() types.Type { return e.Unit.Type() }

func (*BoolLiteral) Type() types.Type { return types.Bool }

func (e *PropertyReference) Type() types.Type { return e.Ref.Ty }

func (e *CallbackReference) Type() types.Type { return e.Ref.Ty }

func (e *FunctionReference) Type() types.Type { return e.Ref.Ty }

func (e *BuiltinFunctionReference) Type() types.Type { return e.Func.Type() }

func (*BuiltinMacroReference) Type() types.Type { return types.Invalid }

func (*ElementReference) Type() types.Type { return types.ElementRef }

func (*RepeaterIndexReference) Type() types.Type { return types.Int32 }

func (e *RepeaterModelReference) Type() types.Type { return e.Ty }

func (e *FunctionParameterReference) Type() types.Type { return e.Ty }

func (*StoreLocalVariable) Type() types.Type { return types.Void }

func (e *ReadLocalVariable) Type() types.Type { return e.Ty }

func (e *StructFieldAccess) Type() types.Type {
	base := e.Base.Type()
	if base.Kind != types.KindStruct {
		return types.Invalid
	}

	t, ok := base.Fields.Field(e.Name)
	if !ok {
		return types.Invalid
	}

	return t
}

func (e *ArrayIndex) Type() types.Type {
	a := e.Array.Type()
	if a.Kind != types.KindArray {
		return types.Invalid
	}

	return *a.Elem
}

func (e *Cast) Type() types.Type { return e.To }

func (e *CodeBlock) Type() types.Type {
	if len(e.Statements) == 0 {
		return types.Void
	}

	return e.Statements[len(e.Statements)-1].Type()
}

func (e *FunctionCall) Type() types.Type {
	switch f := e.Function.Type(); f.Kind {
	case types.KindFunction:
		return *f.Result
	case types.KindCallback:
		if f.Result == nil {
			return types.Void
		}

		return *f.Result
	default:
		return types.Invalid
	}
}

func (*SelfAssignment) Type() types.Type { return types.Void }

func (e *BinaryExpression) Type() types.Type {
	if e.Op.Class() != Arithmetic {
		return types.Bool
	}

	if e.Op == OpAdd || e.Op == OpSub {
		lhs, rhs := e.LHS.Type(), e.RHS.Type()
		if lhs.Equal(rhs) {
			return lhs
		}

		return types.Invalid
	}

	return multiplicativeType(e.LHS.Type(), e.RHS.Type(), e.Op == OpDiv)
}

// multiplicativeType combines the operand unit products of a '*' or
// '/' expression, cancelling matching powers.
func multiplicativeType(lhs, rhs types.Type, divide bool) types.Type {
	lu, ok := lhs.AsUnitProduct()
	if !ok {
		lu = nil
	}

	ru, ok := rhs.AsUnitProduct()
	if !ok {
		ru = nil
	}

	combined := make([]types.UnitPower, len(lu))
	copy(combined, lu)

	for _, f := range ru {
		p := f.Power
		if divide {
			p = -p
		}

		found := false

		for i := range combined {
			if combined[i].Unit == f.Unit {
				combined[i].Power += p
				found = true

				break
			}
		}

		if !found {
			combined = append(combined, types.UnitPower{Unit: f.Unit, Power: p})
		}
	}

	norm := combined[:0]

	for _, f := range combined {
		if f.Power != 0 {
			norm = append(norm, f)
		}
	}

	switch {
	case len(norm) == 0:
		return types.Float32
	case len(norm) == 1 && norm[0].Power == 1:
		return norm[0].Unit.Type()
	default:
		return types.UnitProduct(norm)
	}
}

func (e *UnaryOp) Type() types.Type { return e.Sub.Type() }

func (*ImageReference) Type() types.Type { return types.Image }

func (e *Condition) Type() types.Type {
	tt, ft := e.TrueExpr.Type(), e.FalseExpr.Type()

	switch {
	case tt.Equal(ft):
		return tt
	case tt.Kind == types.KindInvalid:
		return ft
	case ft.Kind == types.KindInvalid:
		return tt
	default:
		return types.Void
	}
}

func (e *ArrayLiteral) Type() types.Type { return types.Array(e.ElementType) }

func (e *StructLiteral) Type() types.Type { return e.Ty }

func (*EasingCurveExpression) Type() types.Type { return types.Easing }

func (e *EnumerationValueExpression) Type() types.Type { return types.Enum(e.Value.Enum) }

func (e *MinMax) Type() types.Type { return e.Ty }

// Type of a return statement is invalid because the code after it is
// unreachable.
func (*ReturnStatement) Type() types.Type { return types.Invalid }

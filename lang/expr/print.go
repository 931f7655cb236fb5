package expr

import (
	"fmt"
	"sort"
	"strings"
)

// Print renders the expression as (roughly) source-shaped text, for
// debugging output and test assertions.
//
//nolint:gocyclo,cyclop,funlen
func Print(e Expression) string {
	var sb strings.Builder

	printTo(&sb, e)

	return sb.String()
}

//nolint:gocyclo,cyclop,funlen
func printTo(sb *strings.Builder, e Expression) {
	switch v := e.(type) {
	case *Invalid:
		sb.WriteString("<invalid>")
	case *StringLiteral:
		fmt.Fprintf(sb, "%q", v.Value)
	case *NumberLiteral:
		fmt.Fprintf(sb, "%g%s", v.Value, v.Unit)
	case *BoolLiteral:
		fmt.Fprintf(sb, "%v", v.Value)
	case *PropertyReference:
		fmt.Fprintf(sb, "#%d.%s", v.Ref.Element, v.Ref.Name)
	case *CallbackReference:
		fmt.Fprintf(sb, "#%d.%s", v.Ref.Element, v.Ref.Name)
	case *FunctionReference:
		fmt.Fprintf(sb, "#%d.%s", v.Ref.Element, v.Ref.Name)
	case *BuiltinFunctionReference:
		sb.WriteString(v.Func.String())
	case *BuiltinMacroReference:
		sb.WriteString(v.Macro.String())
	case *ElementReference:
		fmt.Fprintf(sb, "#%d", v.Element)
	case *RepeaterIndexReference:
		fmt.Fprintf(sb, "#%d.@index", v.Element)
	case *RepeaterModelReference:
		fmt.Fprintf(sb, "#%d.@model", v.Element)
	case *FunctionParameterReference:
		fmt.Fprintf(sb, "arg-%d", v.Index)
	case *StoreLocalVariable:
		fmt.Fprintf(sb, "%s = ", v.Name)
		printTo(sb, v.Value)
	case *ReadLocalVariable:
		sb.WriteString(v.Name)
	case *StructFieldAccess:
		printTo(sb, v.Base)
		sb.WriteString("." + v.Name)
	case *ArrayIndex:
		printTo(sb, v.Array)
		sb.WriteByte('[')
		printTo(sb, v.Index)
		sb.WriteByte(']')
	case *Cast:
		sb.WriteByte('(')
		printTo(sb, v.From)
		fmt.Fprintf(sb, " as %s)", v.To)
	case *CodeBlock:
		sb.WriteString("{ ")

		for _, s := range v.Statements {
			printTo(sb, s)
			sb.WriteString("; ")
		}

		sb.WriteByte('}')
	case *FunctionCall:
		printTo(sb, v.Function)
		sb.WriteByte('(')

		for i, a := range v.Arguments {
			if i > 0 {
				sb.WriteString(", ")
			}

			printTo(sb, a)
		}

		sb.WriteByte(')')
	case *SelfAssignment:
		printTo(sb, v.LHS)

		if v.Op == OpNone {
			sb.WriteString(" = ")
		} else {
			fmt.Fprintf(sb, " %s= ", v.Op)
		}

		printTo(sb, v.RHS)
	case *BinaryExpression:
		sb.WriteByte('(')
		printTo(sb, v.LHS)
		fmt.Fprintf(sb, " %s ", v.Op)
		printTo(sb, v.RHS)
		sb.WriteByte(')')
	case *UnaryOp:
		sb.WriteString(v.Op.String())
		printTo(sb, v.Sub)
	case *ImageReference:
		fmt.Fprintf(sb, "@image-url(%q)", v.Path)
	case *Condition:
		sb.WriteString("if (")
		printTo(sb, v.Condition)
		sb.WriteString(") { ")
		printTo(sb, v.TrueExpr)
		sb.WriteString(" } else { ")
		printTo(sb, v.FalseExpr)
		sb.WriteString(" }")
	case *ArrayLiteral:
		sb.WriteByte('[')

		for i, x := range v.Values {
			if i > 0 {
				sb.WriteString(", ")
			}

			printTo(sb, x)
		}

		sb.WriteByte(']')
	case *StructLiteral:
		names := make([]string, 0, len(v.Values))
		for name := range v.Values {
			names = append(names, name)
		}

		sort.Strings(names)
		sb.WriteString("{ ")

		for _, name := range names {
			fmt.Fprintf(sb, "%s: ", name)
			printTo(sb, v.Values[name])
			sb.WriteString(", ")
		}

		sb.WriteByte('}')
	case *EasingCurveExpression:
		if v.Curve.Points == nil {
			sb.WriteString("linear")
		} else {
			p := v.Curve.Points
			fmt.Fprintf(sb, "cubic-bezier(%g, %g, %g, %g)", p[0], p[1], p[2], p[3])
		}
	case *EnumerationValueExpression:
		fmt.Fprintf(sb, "%s.%s", v.Value.Enum.Name, v.Value)
	case *MinMax:
		if v.Op == Min {
			sb.WriteString("min(")
		} else {
			sb.WriteString("max(")
		}

		printTo(sb, v.LHS)
		sb.WriteString(", ")
		printTo(sb, v.RHS)
		sb.WriteByte(')')
	case *ReturnStatement:
		sb.WriteString("return")

		if v.Value != nil {
			sb.WriteByte(' ')
			printTo(sb, v.Value)
		}
	default:
		fmt.Fprintf(sb, "<%T>", e)
	}
}

package expr

import "github.com/ardnew/weft/lang/types"

// Visit calls fn for each direct sub-expression of e. It does not
// recurse; use VisitRecursive for whole-tree traversal.
//
//nolint:gocyclo,cyclop
func Visit(e Expression, fn func(Expression)) {
	switch v := e.(type) {
	case *StoreLocalVariable:
		fn(v.Value)
	case *StructFieldAccess:
		fn(v.Base)
	case *ArrayIndex:
		fn(v.Array)
		fn(v.Index)
	case *Cast:
		fn(v.From)
	case *CodeBlock:
		for _, s := range v.Statements {
			fn(s)
		}
	case *FunctionCall:
		fn(v.Function)

		for _, a := range v.Arguments {
			fn(a)
		}
	case *SelfAssignment:
		fn(v.LHS)
		fn(v.RHS)
	case *BinaryExpression:
		fn(v.LHS)
		fn(v.RHS)
	case *UnaryOp:
		fn(v.Sub)
	case *Condition:
		fn(v.Condition)
		fn(v.TrueExpr)
		fn(v.FalseExpr)
	case *ArrayLiteral:
		for _, x := range v.Values {
			fn(x)
		}
	case *StructLiteral:
		for _, x := range v.Values {
			fn(x)
		}
	case *MinMax:
		fn(v.LHS)
		fn(v.RHS)
	case *ReturnStatement:
		if v.Value != nil {
			fn(v.Value)
		}
	}
}

// VisitRecursive calls fn for e and every expression below it,
// parents first.
func VisitRecursive(e Expression, fn func(Expression)) {
	fn(e)
	Visit(e, func(sub Expression) { VisitRecursive(sub, fn) })
}

// RewriteChildren returns e with each direct sub-expression replaced by
// fn's result. Variants without sub-expressions are returned unchanged;
// rewritten variants are fresh nodes, the input is not mutated.
//
//nolint:gocyclo,cyclop,funlen
func RewriteChildren(e Expression, fn func(Expression) Expression) Expression {
	switch v := e.(type) {
	case *StoreLocalVariable:
		return &StoreLocalVariable{Name: v.Name, Value: fn(v.Value)}

	case *StructFieldAccess:
		return &StructFieldAccess{Base: fn(v.Base), Name: v.Name}

	case *ArrayIndex:
		return &ArrayIndex{Array: fn(v.Array), Index: fn(v.Index)}

	case *Cast:
		return &Cast{From: fn(v.From), To: v.To}

	case *CodeBlock:
		stmts := make([]Expression, len(v.Statements))
		for i, s := range v.Statements {
			stmts[i] = fn(s)
		}

		return &CodeBlock{Statements: stmts}

	case *FunctionCall:
		args := make([]Expression, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = fn(a)
		}

		return &FunctionCall{Function: fn(v.Function), Arguments: args}

	case *SelfAssignment:
		return &SelfAssignment{LHS: fn(v.LHS), RHS: fn(v.RHS), Op: v.Op}

	case *BinaryExpression:
		return &BinaryExpression{LHS: fn(v.LHS), RHS: fn(v.RHS), Op: v.Op}

	case *UnaryOp:
		return &UnaryOp{Sub: fn(v.Sub), Op: v.Op}

	case *Condition:
		return &Condition{
			Condition: fn(v.Condition),
			TrueExpr:  fn(v.TrueExpr),
			FalseExpr: fn(v.FalseExpr),
		}

	case *ArrayLiteral:
		values := make([]Expression, len(v.Values))
		for i, x := range v.Values {
			values[i] = fn(x)
		}

		return &ArrayLiteral{ElementType: v.ElementType, Values: values}

	case *StructLiteral:
		values := make(map[string]Expression, len(v.Values))
		for k, x := range v.Values {
			values[k] = fn(x)
		}

		return &StructLiteral{Ty: v.Ty, Values: values}

	case *MinMax:
		return &MinMax{Ty: v.Ty, Op: v.Op, LHS: fn(v.LHS), RHS: fn(v.RHS)}

	case *ReturnStatement:
		if v.Value == nil {
			return v
		}

		return &ReturnStatement{Value: fn(v.Value)}

	default:
		return e
	}
}

// ContainsReturn reports whether any return statement occurs in the
// tree rooted at e.
func ContainsReturn(e Expression) bool {
	found := false

	VisitRecursive(e, func(sub Expression) {
		if _, ok := sub.(*ReturnStatement); ok {
			found = true
		}
	})

	return found
}

// ReturnType finds the value type of the first return statement in the
// tree, which fixes the return type contract for the whole body. The
// second result is false when the tree contains no return.
func ReturnType(e Expression) (ret types.Type, ok bool) {
	if r, isReturn := e.(*ReturnStatement); isReturn {
		if r.Value == nil {
			return types.Void, true
		}

		return r.Value.Type(), true
	}

	Visit(e, func(sub Expression) {
		if !ok {
			if t, found := ReturnType(sub); found {
				ret, ok = t, true
			}
		}
	})

	return ret, ok
}

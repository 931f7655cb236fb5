package passes

import (
	"github.com/ardnew/weft/lang/diag"
	"github.com/ardnew/weft/lang/expr"
	"github.com/ardnew/weft/lang/object"
	"github.com/ardnew/weft/lang/types"
)

// RemoveReturn rewrites every expression containing return statements
// into equivalent structured control flow with no early exits, so code
// generators never have to model returns. Expressions without a return
// statement are left untouched.
type RemoveReturn struct{}

// Name implements Pass.
func (RemoveReturn) Name() string { return "remove-return" }

// Run implements Pass.
func (RemoveReturn) Run(doc *object.Document, _ *diag.Sink) {
	for _, c := range doc.Components {
		rr := &returnRewriter{names: &nameAllocator{}}

		doc.Arena.Recurse(c.Root, func(e *object.Element) {
			e.RewriteExpressions(doc.Arena, func(_ string, x expr.Expression) expr.Expression {
				return rr.rewrite(x)
			})
		})
	}
}

type returnRewriter struct {
	names *nameAllocator

	// retTy is the value type of the expression tree's return
	// statements, fixed per rewritten expression.
	retTy types.Type
}

func (rr *returnRewriter) rewrite(e expr.Expression) expr.Expression {
	retTy, found := expr.ReturnType(e)
	if !found {
		return e
	}

	rr.retTy = retTy

	return rr.toExpression(rr.process(e), retTy)
}

// resultKind tags the outcome of rewriting one sub-expression.
type resultKind uint8

const (
	// resultJust is a plain expression with no return involved.
	resultJust resultKind = iota

	// resultReturn returns unconditionally; value is the returned
	// expression, nil for a bare return.
	resultReturn

	// resultMaybeReturn is a single conditional return: when condition
	// is false the returned value exits, otherwise actual continues.
	resultMaybeReturn

	// resultObject is the canonical struct encoding
	// `{condition: bool, actual: T, returned: R}` used once mixed
	// variants must merge.
	resultObject
)

// exprResult is the per-sub-expression outcome threaded through the
// structural recursion.
type exprResult struct {
	kind resultKind

	// value holds the expression for resultJust, the optional returned
	// value for resultReturn, and the struct-typed expression for
	// resultObject.
	value expr.Expression

	// resultMaybeReturn fields.
	pre       []expr.Expression
	condition expr.Expression
	returned  expr.Expression
	actual    expr.Expression

	// resultObject flags: whether the struct carries an actual value
	// and a returned value (void slots are omitted).
	hasValue       bool
	hasReturnValue bool
}

func just(e expr.Expression) exprResult {
	return exprResult{kind: resultJust, value: e}
}

const (
	fieldCondition = "condition"
	fieldActual    = "actual"
	fieldReturned  = "returned"
)

//nolint:gocyclo,cyclop
func (rr *returnRewriter) process(e expr.Expression) exprResult {
	ty := e.Type()

	switch v := e.(type) {
	case *expr.ReturnStatement:
		return exprResult{kind: resultReturn, value: v.Value}

	case *expr.CodeBlock:
		return rr.processBlock(v.Statements, ty)

	case *expr.Condition:
		te := rr.process(v.TrueExpr)
		fe := rr.process(v.FalseExpr)

		switch {
		case te.kind == resultJust && fe.kind == resultJust:
			return just(makeCondition(v.Condition, te.value, fe.value))

		case te.kind == resultJust && fe.kind == resultReturn:
			return exprResult{
				kind:      resultMaybeReturn,
				condition: v.Condition,
				returned:  fe.value,
				actual:    cleanupEmptyBlock(te.value),
			}

		case te.kind == resultReturn && fe.kind == resultJust:
			return exprResult{
				kind:      resultMaybeReturn,
				condition: &expr.UnaryOp{Sub: v.Condition, Op: expr.OpNot},
				returned:  te.value,
				actual:    cleanupEmptyBlock(fe.value),
			}

		case te.kind == resultReturn && fe.kind == resultReturn:
			// Both branches return, so the whole conditional does:
			// return a conditional value instead of encoding a struct.
			if te.value == nil && fe.value == nil {
				return exprResult{kind: resultReturn}
			}

			return exprResult{
				kind:  resultReturn,
				value: makeCondition(v.Condition, orEmptyBlock(te.value), orEmptyBlock(fe.value)),
			}

		default:
			return exprResult{
				kind:           resultObject,
				hasValue:       hasSlot(ty),
				hasReturnValue: hasSlot(rr.retTy),
				value: makeCondition(v.Condition,
					rr.intoReturnObject(te, ty),
					rr.intoReturnObject(fe, ty)),
			}
		}

	case *expr.Cast:
		return rr.mapValue(rr.process(v.From), func(x expr.Expression) expr.Expression {
			return &expr.Cast{From: x, To: v.To}
		})

	default:
		// Returns are statements; they cannot hide in other variants.
		return just(e)
	}
}

// processBlock folds the statements of a code block left to right. The
// first unconditional return truncates the block; a conditional return
// guards the remaining statements.
func (rr *returnRewriter) processBlock(in []expr.Expression, ty types.Type) exprResult {
	var stmts []expr.Expression

	for i, s := range in {
		res := rr.process(s)
		rest := in[i+1:]

		switch res.kind {
		case resultJust:
			stmts = append(stmts, res.value)

		case resultReturn:
			// Everything after an unconditional return is unreachable.
			if res.value != nil {
				stmts = append(stmts, res.value)
			}

			if len(stmts) == 0 {
				return exprResult{kind: resultReturn}
			}

			return exprResult{kind: resultReturn, value: &expr.CodeBlock{Statements: stmts}}

		case resultMaybeReturn:
			stmts = append(stmts, res.pre...)
			res.pre = nil

			if len(rest) == 0 {
				res.pre = stmts

				return res
			}

			if tail := rr.processBlock(rest, ty); tail.kind == resultReturn {
				// The remainder returns unconditionally, so the whole
				// block does: pick the branch's value conditionally
				// without any struct machinery.
				cont := orEmptyBlock(tail.value)
				if res.actual != nil {
					cont = &expr.CodeBlock{Statements: []expr.Expression{res.actual, cont}}
				}

				return exprResult{
					kind: resultReturn,
					value: codeblockWith(stmts,
						makeCondition(res.condition, cont, orEmptyBlock(res.returned))),
				}
			}

			return rr.continueBlock(rest, ty, rr.intoReturnObject(res, ty), stmts,
				hasSlot(rr.retTy), hasSlot(ty))

		case resultObject:
			if len(rest) == 0 {
				res.value = codeblockWith(stmts, res.value)

				return res
			}

			return rr.continueBlock(rest, ty, res.value, stmts,
				res.hasReturnValue, hasSlot(ty))
		}
	}

	return just(&expr.CodeBlock{Statements: stmts})
}

// continueBlock guards the remaining statements of a block behind an
// already-computed return object: the remainder runs only on the
// non-returning path. The object is stored in a synthetic local so the
// condition is not re-evaluated.
func (rr *returnRewriter) continueBlock(
	rest []expr.Expression,
	ty types.Type,
	returnObject expr.Expression,
	stmts []expr.Expression,
	hasReturnValue, hasValue bool,
) exprResult {
	tail := rr.intoReturnObject(rr.processBlock(rest, ty), ty)

	name := rr.names.next("return-check-merge")
	load := func() expr.Expression {
		return &expr.ReadLocalVariable{Name: name, Ty: returnObject.Type()}
	}

	var returned expr.Expression
	if hasReturnValue {
		returned = &expr.StructFieldAccess{Base: load(), Name: fieldReturned}
	}

	stmts = append(stmts,
		&expr.StoreLocalVariable{Name: name, Value: returnObject},
		makeCondition(
			&expr.StructFieldAccess{Base: load(), Name: fieldCondition},
			tail,
			rr.intoReturnObject(exprResult{kind: resultReturn, value: returned}, ty),
		),
	)

	return exprResult{
		kind:           resultObject,
		value:          &expr.CodeBlock{Statements: stmts},
		hasValue:       hasValue,
		hasReturnValue: hasReturnValue,
	}
}

// toExpression flattens the final result back into a plain expression
// of the block's type.
func (rr *returnRewriter) toExpression(res exprResult, ty types.Type) expr.Expression {
	switch res.kind {
	case resultReturn:
		return orEmptyBlock(res.value)

	case resultMaybeReturn:
		return codeblockWith(res.pre,
			makeCondition(res.condition, orEmptyBlock(res.actual), orEmptyBlock(res.returned)))

	case resultObject:
		name := rr.names.next("returned-expression")
		load := func() expr.Expression {
			return &expr.ReadLocalVariable{Name: name, Ty: res.value.Type()}
		}

		actual := expr.DefaultValue(ty)
		if res.hasValue {
			actual = &expr.StructFieldAccess{Base: load(), Name: fieldActual}
		}

		returned := expr.DefaultValue(ty)
		if res.hasReturnValue {
			returned = &expr.StructFieldAccess{Base: load(), Name: fieldReturned}
		}

		return &expr.CodeBlock{Statements: []expr.Expression{
			&expr.StoreLocalVariable{Name: name, Value: res.value},
			makeCondition(
				&expr.StructFieldAccess{Base: load(), Name: fieldCondition},
				actual, returned),
		}}

	default:
		return res.value
	}
}

// intoReturnObject lifts any result into the canonical struct encoding
// `{condition, actual, returned}`, omitting void slots.
func (rr *returnRewriter) intoReturnObject(res exprResult, ty types.Type) expr.Expression {
	switch res.kind {
	case resultJust:
		entries := []structEntry{
			{fieldCondition, types.Bool, &expr.BoolLiteral{Value: true}},
			{fieldActual, res.value.Type(), res.value},
		}

		if hasSlot(rr.retTy) {
			entries = append(entries, structEntry{fieldReturned, rr.retTy, expr.DefaultValue(rr.retTy)})
		}

		return makeStruct(entries...)

	case resultReturn:
		entries := []structEntry{
			{fieldCondition, types.Bool, &expr.BoolLiteral{Value: false}},
		}

		if hasSlot(ty) {
			entries = append(entries, structEntry{fieldActual, ty, expr.DefaultValue(ty)})
		}

		if res.value != nil {
			entries = append(entries, structEntry{fieldReturned, rr.retTy, res.value})
		}

		return makeStruct(entries...)

	case resultMaybeReturn:
		actual := res.actual
		if actual == nil {
			actual = expr.DefaultValue(ty)
		}

		trueExpr := rr.intoReturnObject(just(actual), ty)
		falseExpr := rr.intoReturnObject(
			exprResult{kind: resultReturn, value: res.returned}, ty)

		// The two sides may have different struct shapes when one of
		// the slots is missing; upgrade both to the common shape.
		if tt, ft := trueExpr.Type(), falseExpr.Type(); !tt.Equal(ft) {
			common := expr.CommonType(tt, ft)
			if !common.Equal(tt) {
				trueExpr, _ = expr.Convert(trueExpr, common)
			}

			if !common.Equal(ft) {
				falseExpr, _ = expr.Convert(falseExpr, common)
			}
		}

		return codeblockWith(res.pre, makeCondition(res.condition, trueExpr, falseExpr))

	default:
		return res.value
	}
}

// mapValue applies f to the value-carrying slot of the result, leaving
// the return bookkeeping intact.
func (rr *returnRewriter) mapValue(
	res exprResult,
	f func(expr.Expression) expr.Expression,
) exprResult {
	switch res.kind {
	case resultJust:
		res.value = f(res.value)

		return res

	case resultMaybeReturn:
		if res.actual != nil {
			res.actual = f(res.actual)
		}

		return res

	case resultObject:
		if !res.hasValue {
			return res
		}

		// Store the object once, then rebuild it with the actual slot
		// mapped.
		name := rr.names.next("mapped-expression")
		valueTy := res.value.Type()
		load := func(field string) expr.Expression {
			return &expr.StructFieldAccess{
				Base: &expr.ReadLocalVariable{Name: name, Ty: valueTy},
				Name: field,
			}
		}

		actual := f(load(fieldActual))
		entries := []structEntry{
			{fieldCondition, types.Bool, load(fieldCondition)},
			{fieldActual, actual.Type(), actual},
		}

		if res.hasReturnValue {
			returned := load(fieldReturned)
			entries = append(entries, structEntry{fieldReturned, returned.Type(), returned})
		}

		res.value = &expr.CodeBlock{Statements: []expr.Expression{
			&expr.StoreLocalVariable{Name: name, Value: res.value},
			makeStruct(entries...),
		}}

		return res

	default:
		return res
	}
}

type structEntry struct {
	name  string
	ty    types.Type
	value expr.Expression
}

// makeStruct builds an anonymous struct literal, dropping void and
// invalid slots. A void-typed entry still executes for its effect,
// prefixed as a statement.
func makeStruct(entries ...structEntry) expr.Expression {
	var (
		fields []types.StructField
		voids  []expr.Expression
	)

	values := make(map[string]expr.Expression, len(entries))

	for _, e := range entries {
		if !hasSlot(e.ty) {
			if e.ty.Kind == types.KindVoid {
				voids = append(voids, e.value)
			}

			continue
		}

		fields = append(fields, types.StructField{Name: e.name, Type: e.ty})
		values[e.name] = e.value
	}

	return codeblockWith(voids, &expr.StructLiteral{
		Ty:     types.Struct(types.MakeStruct("", fields...)),
		Values: values,
	})
}

// makeCondition builds a conditional, normalizing a negated condition
// by swapping the branches.
func makeCondition(cond, te, fe expr.Expression) expr.Expression {
	if n, ok := cond.(*expr.UnaryOp); ok && n.Op == expr.OpNot {
		cond, te, fe = n.Sub, fe, te
	}

	return &expr.Condition{Condition: cond, TrueExpr: te, FalseExpr: fe}
}

// cleanupEmptyBlock drops an empty code block or a placeholder left by
// a missing else branch, so it does not clutter the rewrite.
func cleanupEmptyBlock(e expr.Expression) expr.Expression {
	switch v := e.(type) {
	case *expr.CodeBlock:
		if len(v.Statements) == 0 {
			return nil
		}
	case *expr.Invalid:
		return nil
	}

	return e
}

func orEmptyBlock(e expr.Expression) expr.Expression {
	if e == nil {
		return &expr.CodeBlock{}
	}

	return e
}

func codeblockWith(pre []expr.Expression, e expr.Expression) expr.Expression {
	if len(pre) == 0 {
		return e
	}

	return &expr.CodeBlock{Statements: append(pre, e)}
}

func hasSlot(ty types.Type) bool {
	return ty.Kind != types.KindVoid && ty.Kind != types.KindInvalid
}

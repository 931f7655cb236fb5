package resolve

import (
	"fmt"
	"strings"

	"github.com/ardnew/weft/lang/diag"
	"github.com/ardnew/weft/lang/expr"
	"github.com/ardnew/weft/lang/lookup"
	"github.com/ardnew/weft/lang/object"
	"github.com/ardnew/weft/lang/parser"
	"github.com/ardnew/weft/lang/token"
	"github.com/ardnew/weft/lang/types"
)

// lookupPhase distinguishes the early two way binding resolution from
// ordinary expression resolution; model data is not linkable yet, so
// the early phase rejects it.
type lookupPhase uint8

const (
	phaseDefault lookupPhase = iota
	phaseTwoWayBindings
)

// fromBindingExpression compiles the right hand side of `name: ...`,
// which wraps either a single expression or a code block. A percentage
// bound to a length survives unconverted for the geometry pass, but
// only on the sizing properties that have a parent value to take the
// percentage of.
func (r *resolver) fromBindingExpression(ctx *lookup.Ctx, node *parser.Node) expr.Expression {
	var e expr.Expression

	switch {
	case node.ChildNode(parser.KindCodeBlock) != nil:
		e = r.fromCodeBlock(ctx, node.ChildNode(parser.KindCodeBlock))
	case node.ChildNode(parser.KindExpression) != nil:
		e = r.fromExpressionNode(ctx, node.ChildNode(parser.KindExpression))
	default:
		return &expr.Invalid{}
	}

	if ctx.PropertyType.Kind == types.KindLogicalLength && e.Type().Kind == types.KindPercent {
		switch ctx.PropertyName {
		case "width", "height", "preferred-width", "preferred-height":
			return e
		}

		r.sink.PushError(
			"Automatic conversion from percentage to length is only possible for the following properties: width, height, preferred-width, preferred-height",
			node.Span())

		return &expr.Invalid{}
	}

	return r.maybeConvert(e, ctx.PropertyType, node.Span())
}

// fromCallbackConnection compiles `name(args) => body`; the body is
// either a code block or a bare expression.
func (r *resolver) fromCallbackConnection(ctx *lookup.Ctx, node *parser.Node) expr.Expression {
	var body expr.Expression

	switch {
	case node.ChildNode(parser.KindCodeBlock) != nil:
		body = r.fromCodeBlock(ctx, node.ChildNode(parser.KindCodeBlock))
	case node.ChildNode(parser.KindExpression) != nil:
		body = r.fromExpressionNode(ctx, node.ChildNode(parser.KindExpression))
	default:
		return &expr.Invalid{}
	}

	return r.maybeConvert(body, ctx.ReturnType(), node.Span())
}

// fromFunction compiles a function definition's body.
func (r *resolver) fromFunction(ctx *lookup.Ctx, node *parser.Node) expr.Expression {
	cb := node.ChildNode(parser.KindCodeBlock)
	if cb == nil {
		return &expr.Invalid{}
	}

	return r.maybeConvert(r.fromCodeBlock(ctx, cb), ctx.ReturnType(), node.Span())
}

// fromExpressionNode compiles one Expression node: a parenthesized
// inner expression, a composite, or a literal leaf.
//
//nolint:gocyclo,cyclop
func (r *resolver) fromExpressionNode(ctx *lookup.Ctx, node *parser.Node) expr.Expression {
	for _, n := range node.Nodes() {
		switch n.Kind {
		case parser.KindExpression:
			return r.fromExpressionNode(ctx, n)
		case parser.KindQualifiedName:
			e := r.fromQualifiedName(ctx, n, phaseDefault)
			if k := e.Type().Kind; k == types.KindCallback || k == types.KindFunction {
				r.sink.PushErrorf(n.Span(),
					"'%s' must be called. Did you forgot the '()'?", n.QualifiedNameText())

				return &expr.Invalid{}
			}

			return e
		case parser.KindAtImageUrl:
			return r.fromImageURL(n)
		case parser.KindFunctionCallExpression:
			return r.fromFunctionCall(ctx, n)
		case parser.KindMemberAccess:
			return r.fromMemberAccess(ctx, n)
		case parser.KindIndexExpression:
			return r.fromIndexExpression(ctx, n)
		case parser.KindSelfAssignment:
			return r.fromSelfAssignment(ctx, n)
		case parser.KindBinaryExpression:
			return r.fromBinaryExpression(ctx, n)
		case parser.KindUnaryOpExpression:
			return r.fromUnaryOp(ctx, n)
		case parser.KindConditionalExpression:
			return r.fromConditional(ctx, n)
		case parser.KindObjectLiteral:
			return r.fromObjectLiteral(ctx, n)
		case parser.KindArray:
			return r.fromArray(ctx, n)
		case parser.KindCodeBlock:
			return r.fromCodeBlock(ctx, n)
		}
	}

	if t, ok := node.ChildToken(token.StringLiteral); ok {
		return r.stringLiteral(t)
	}

	if t, ok := node.ChildToken(token.NumberLiteral); ok {
		return r.numberLiteral(t)
	}

	if t, ok := node.ChildToken(token.ColorLiteral); ok {
		return r.colorLiteral(t)
	}

	return &expr.Invalid{}
}

func (r *resolver) fromImageURL(node *parser.Node) expr.Expression {
	t, ok := node.ChildToken(token.StringLiteral)
	if !ok {
		return &expr.Invalid{}
	}

	s := r.stringLiteral(t)
	if lit, isStr := s.(*expr.StringLiteral); isStr {
		return &expr.ImageReference{Path: lit.Value}
	}

	return s
}

// fromQualifiedName resolves a dotted name: the first segment through
// the priority-ordered name spaces, the remaining segments as member
// accesses on whatever the first resolved to.
func (r *resolver) fromQualifiedName(
	ctx *lookup.Ctx,
	node *parser.Node,
	phase lookupPhase,
) expr.Expression {
	idents := node.ChildTokens(token.Identifier)
	if len(idents) == 0 {
		return &expr.Invalid{}
	}

	first := idents[0]
	rest := idents[1:]
	name := token.NormalizeIdentifier(first.Text)

	result, ok := lookup.Resolve(ctx, name)
	if !ok {
		return r.unknownIdentifier(ctx, node, first, rest)
	}

	if result.Deprecated != "" {
		r.deprecatedName(first.Span, name, result.Deprecated)
	}

	switch {
	case result.Enumeration != nil:
		return r.enumMember(ctx, result, node, rest)
	case result.Namespace != lookup.NamespaceNone:
		return r.namespaceMember(ctx, result, name, node, rest)
	}

	switch v := result.Expression.(type) {
	case *expr.ElementReference:
		return r.lookupWithinElement(ctx, result, v, node, rest)

	case *expr.CallbackReference:
		if len(rest) > 0 {
			r.sink.PushError("Cannot access fields of callback", rest[0].Span)

			return &expr.Invalid{}
		}

		return v

	case *expr.FunctionReference:
		if len(rest) > 0 {
			r.sink.PushError("Cannot access fields of a function", rest[0].Span)

			return &expr.Invalid{}
		}

		return v

	case *expr.RepeaterModelReference:
		if phase == phaseTwoWayBindings {
			r.sink.PushError("Two-way bindings to model data is not supported yet", node.Span())

			return &expr.Invalid{}
		}
	}

	return r.maybeLookupObject(ctx, result.Expression, rest)
}

// unknownIdentifier reports a first segment that resolved to nothing,
// with recovery hints for a missed subtraction, a property hidden
// behind self or root, and close name matches.
func (r *resolver) unknownIdentifier(
	ctx *lookup.Ctx,
	node *parser.Node,
	first token.Token,
	rest []token.Token,
) expr.Expression {
	if minus := strings.IndexByte(first.Text, '-'); minus > 0 {
		prefix := token.NormalizeIdentifier(first.Text[:minus])
		if _, found := lookup.Resolve(ctx, prefix); found {
			r.sink.PushErrorf(node.Span(),
				"Unknown unqualified identifier '%s'. Use space before the '-' if you meant a subtraction",
				first.Text)

			return &expr.Invalid{}
		}
	}

	name := token.NormalizeIdentifier(first.Text)

	if n := len(ctx.Scope); n > 0 {
		probes := []struct {
			prefix string
			id     expr.ElementID
		}{
			{"self", ctx.Scope[n-1]},
			{"root", ctx.Scope[0]},
		}
		for _, p := range probes {
			if _, found := lookup.ElementMember(ctx.Arena, p.id, name); found {
				r.sink.PushErrorf(node.Span(),
					"Unknown unqualified identifier '%s'. Did you mean '%s.%s'?",
					first.Text, p.prefix, first.Text)

				return &expr.Invalid{}
			}
		}
	}

	if len(rest) > 0 {
		r.sink.PushErrorf(node.Span(), "Cannot access id '%s'", first.Text)

		return &expr.Invalid{}
	}

	msg := fmt.Sprintf("Unknown unqualified identifier '%s'", first.Text)
	if hints := diag.Suggest(name, lookup.Candidates(ctx)); len(hints) > 0 {
		msg += fmt.Sprintf(". Did you mean '%s'?", hints[0])
	}

	r.sink.PushError(msg, node.Span())

	return &expr.Invalid{}
}

func (r *resolver) enumMember(
	ctx *lookup.Ctx,
	base lookup.Result,
	node *parser.Node,
	rest []token.Token,
) expr.Expression {
	if len(rest) == 0 {
		r.sink.PushError("Cannot take reference to an enum", node.Span())

		return &expr.Invalid{}
	}

	res, ok := lookup.Member(ctx, base, token.NormalizeIdentifier(rest[0].Text))
	if !ok {
		r.sink.PushErrorf(rest[0].Span,
			"'%s' is not a member of the enum %s", rest[0].Text, base.Enumeration.Name)

		return &expr.Invalid{}
	}

	return r.maybeLookupObject(ctx, res.Expression, rest[1:])
}

func (r *resolver) namespaceMember(
	ctx *lookup.Ctx,
	base lookup.Result,
	name string,
	node *parser.Node,
	rest []token.Token,
) expr.Expression {
	if len(rest) == 0 {
		r.sink.PushError("Cannot take reference to a namespace", node.Span())

		return &expr.Invalid{}
	}

	res, ok := lookup.Member(ctx, base, token.NormalizeIdentifier(rest[0].Text))
	if !ok {
		r.sink.PushErrorf(rest[0].Span,
			"'%s' is not a member of the namespace %s", rest[0].Text, name)

		return &expr.Invalid{}
	}

	return r.maybeLookupObject(ctx, res.Expression, rest[1:])
}

// lookupWithinElement resolves the segments after an element reference
// against the element's properties, callbacks, and functions.
//
//nolint:gocyclo,cyclop,funlen
func (r *resolver) lookupWithinElement(
	ctx *lookup.Ctx,
	base lookup.Result,
	ref *expr.ElementReference,
	node *parser.Node,
	rest []token.Token,
) expr.Expression {
	arena := ctx.Arena
	if base.Global != nil {
		arena = base.Global.Arena
	}

	elem := arena.Get(ref.Element)
	if elem == nil {
		return &expr.Invalid{}
	}

	if len(rest) == 0 {
		if ctx.PropertyType.Kind == types.KindElementRef {
			return ref
		}

		r.sink.PushErrorf(node.Span(),
			"Cannot take reference of an element%s", r.elementReferenceHint(ctx, elem))

		return &expr.Invalid{}
	}

	second := rest[0]
	propName := token.NormalizeIdentifier(second.Text)
	lk := elem.LookupProperty(propName)
	local := lk.Local && isLocalElement(ctx, ref.Element)

	namedRef := expr.NamedReference{Element: ref.Element, Name: lk.ResolvedName, Ty: lk.Type}

	switch {
	case lk.Type.IsPropertyType():
		if lk.Visibility == types.Private && !local {
			r.sink.PushErrorf(second.Span,
				"The property '%s' is private. Annotate it with 'in', 'out' or 'in-out' to make it accessible from other components",
				second.Text)

			return &expr.Invalid{}
		}

		if lk.ResolvedName != propName {
			r.deprecatedName(second.Span, propName, lk.ResolvedName)
		}

		return r.maybeLookupObject(ctx, &expr.PropertyReference{Ref: namedRef}, rest[1:])

	case lk.Type.Kind == types.KindCallback:
		if len(rest) > 1 {
			r.sink.PushError("Cannot access fields of callback", rest[1].Span)
		}

		return &expr.CallbackReference{Ref: namedRef}

	case lk.Type.Kind == types.KindFunction:
		switch {
		case lk.Visibility == types.Private && !local:
			r.sink.PushErrorf(second.Span,
				"The function '%s' is private. Annotate it with 'public' to make it accessible from other components",
				second.Text)
		case len(rest) > 1:
			r.sink.PushError("Cannot access fields of a function", rest[1].Span)
		}

		return &expr.FunctionReference{Ref: namedRef}

	default:
		if _, isErr := elem.Base.(object.ErrorBase); isErr {
			return &expr.Invalid{}
		}

		what := fmt.Sprintf("Element '%s'", elem.Base.TypeName())
		if base.Global != nil {
			what = fmt.Sprintf("'%s'", base.Global.Name)
		}

		extra := ""

		if minus := strings.IndexByte(second.Text, '-'); minus > 0 {
			if elem.LookupProperty(token.NormalizeIdentifier(second.Text[:minus])).IsValid() {
				extra = ". Use space before the '-' if you meant a subtraction"
			}
		}

		if extra == "" {
			if hints := diag.Suggest(propName, lookup.MemberCandidates(ctx, base)); len(hints) > 0 {
				extra = fmt.Sprintf(". Did you mean '%s'?", hints[0])
			}
		}

		r.sink.PushErrorf(second.Span,
			"%s does not have a property '%s'%s", what, second.Text, extra)

		return &expr.Invalid{}
	}
}

// elementReferenceHint suggests the property or enumeration value the
// writer probably meant when a bare element id appears where a value is
// expected.
func (r *resolver) elementReferenceHint(ctx *lookup.Ctx, elem *object.Element) string {
	if elem.Name == "" {
		return ""
	}

	if res, ok := lookup.InScope(ctx, elem.Name); ok {
		if pr, isProp := res.Expression.(*expr.PropertyReference); isProp {
			if id := scopeElementName(ctx, pr.Ref.Element); id != "" {
				return fmt.Sprintf(
					". Use '%s.%s' to access the property with the same name", id, pr.Ref.Name)
			}
		}
	}

	if res, ok := lookup.ReturnTypeSpecific(ctx, elem.Name); ok {
		if ev, isEnum := res.Expression.(*expr.EnumerationValueExpression); isEnum {
			return fmt.Sprintf(
				". Use '%s.%s' to access the enumeration value", ev.Value.Enum.Name, ev.Value)
		}
	}

	return ""
}

// scopeElementName is the id an expression can use to reach the given
// element: its source id, or a special id when it has none.
func scopeElementName(ctx *lookup.Ctx, id expr.ElementID) string {
	if e := ctx.Arena.Get(id); e != nil && e.Name != "" {
		return e.Name
	}

	n := len(ctx.Scope)

	switch {
	case n > 0 && id == ctx.Scope[n-1]:
		return "self"
	case n > 0 && id == ctx.Scope[0]:
		return "root"
	case n > 1 && id == ctx.Scope[n-2]:
		return "parent"
	}

	return ""
}

// maybeLookupObject folds the remaining name segments as member
// accesses on a resolved value.
func (r *resolver) maybeLookupObject(
	ctx *lookup.Ctx,
	base expr.Expression,
	rest []token.Token,
) expr.Expression {
	for _, next := range rest {
		res, ok := lookup.Member(ctx, lookup.Result{Expression: base},
			token.NormalizeIdentifier(next.Text))
		if !ok {
			if minus := strings.IndexByte(next.Text, '-'); minus > 0 {
				prefix := token.NormalizeIdentifier(next.Text[:minus])
				if _, found := lookup.Member(ctx, lookup.Result{Expression: base}, prefix); found {
					r.sink.PushErrorf(next.Span,
						"Cannot access the field '%s'. Use space before the '-' if you meant a subtraction",
						next.Text)

					return &expr.Invalid{}
				}
			}

			tyDescr := ""
			if t := base.Type(); t.Kind != types.KindStruct {
				tyDescr = " of " + t.String()
			}

			r.sink.PushErrorf(next.Span, "Cannot access the field '%s'%s", next.Text, tyDescr)

			return &expr.Invalid{}
		}

		base = res.Expression
	}

	return base
}

// fromFunctionCall compiles `callee(args)`. A macro callee expands in
// place; anything else becomes a call with arguments converted to the
// declared parameter types.
func (r *resolver) fromFunctionCall(ctx *lookup.Ctx, node *parser.Node) expr.Expression {
	subs := node.ChildNodes(parser.KindExpression)
	if len(subs) == 0 {
		return &expr.Invalid{}
	}

	// The callee's qualified name resolves here directly so a callback
	// in call position is not mistaken for an uncalled reference.
	var function expr.Expression
	if qn := subs[0].ChildNode(parser.KindQualifiedName); qn != nil {
		function = r.fromQualifiedName(ctx, qn, phaseDefault)
	} else {
		function = r.fromExpressionNode(ctx, subs[0])
	}

	args := make([]macroArg, 0, len(subs)-1)
	for _, n := range subs[1:] {
		args = append(args, macroArg{value: r.fromExpressionNode(ctx, n), span: n.Span()})
	}

	if mac, ok := function.(*expr.BuiltinMacroReference); ok {
		return r.lowerMacro(mac.Macro, node.Span(), args)
	}

	arguments := make([]expr.Expression, len(args))

	switch ft := function.Type(); ft.Kind {
	case types.KindFunction, types.KindCallback:
		if len(args) != len(ft.Args) {
			r.sink.PushErrorf(node.Span(),
				"The callback or function expects %d arguments, but %d are provided",
				len(ft.Args), len(args))

			for i, a := range args {
				arguments[i] = a.value
			}
		} else {
			for i, a := range args {
				arguments[i] = r.maybeConvert(a.value, ft.Args[i], a.span)
			}
		}

	default:
		r.sink.PushError("The expression is not a function", node.Span())

		for i, a := range args {
			arguments[i] = a.value
		}
	}

	return &expr.FunctionCall{Function: function, Arguments: arguments}
}

func (r *resolver) fromMemberAccess(ctx *lookup.Ctx, node *parser.Node) expr.Expression {
	inner := node.ChildNode(parser.KindExpression)
	if inner == nil {
		return &expr.Invalid{}
	}

	base := r.fromExpressionNode(ctx, inner)

	ident, ok := node.ChildToken(token.Identifier)
	if !ok {
		return base
	}

	return r.maybeLookupObject(ctx, base, []token.Token{ident})
}

func (r *resolver) fromIndexExpression(ctx *lookup.Ctx, node *parser.Node) expr.Expression {
	subs := node.ChildNodes(parser.KindExpression)
	if len(subs) != 2 {
		return &expr.Invalid{}
	}

	array := r.fromExpressionNode(ctx, subs[0])
	index := r.maybeConvert(r.fromExpressionNode(ctx, subs[1]), types.Int32, subs[1].Span())

	if at := array.Type(); at.Kind != types.KindArray && at.Kind != types.KindInvalid {
		r.sink.PushErrorf(node.Span(), "%s is not an indexable type", at)
	}

	return &expr.ArrayIndex{Array: array, Index: index}
}

// fromSelfAssignment compiles `lhs op= rhs` statements. The operator
// decides the type the right hand side converts to.
func (r *resolver) fromSelfAssignment(ctx *lookup.Ctx, node *parser.Node) expr.Expression {
	subs := node.ChildNodes(parser.KindExpression)
	if len(subs) != 2 {
		return &expr.Invalid{}
	}

	lhs := r.fromExpressionNode(ctx, subs[0])
	op := assignmentOp(node)
	ty := lhs.Type()

	switch lhs.(type) {
	case *expr.PropertyReference, *expr.RepeaterModelReference, *expr.Invalid:
	default:
		r.sink.PushError("Self assignment needs to be done on a property", subs[0].Span())
	}

	var expected types.Type

	switch {
	case op == expr.OpNone:
		expected = ty
	case op == expr.OpAdd && (ty.Kind == types.KindString || isUnitProduct(ty)):
		expected = ty
	case op == expr.OpSub && isUnitProduct(ty):
		expected = ty
	case (op == expr.OpMul || op == expr.OpDiv) && isUnitProduct(ty):
		expected = types.Float32
	default:
		if ty.Kind != types.KindInvalid {
			r.sink.PushErrorf(subs[0].Span(),
				"the %s= operation cannot be done on a %s", op, ty)
		}

		expected = types.Invalid
	}

	rhs := r.maybeConvert(r.fromExpressionNode(ctx, subs[1]), expected, subs[1].Span())

	return &expr.SelfAssignment{LHS: lhs, RHS: rhs, Op: op}
}

func assignmentOp(node *parser.Node) expr.Op {
	switch {
	case hasToken(node, token.PlusEqual):
		return expr.OpAdd
	case hasToken(node, token.MinusEqual):
		return expr.OpSub
	case hasToken(node, token.StarEqual):
		return expr.OpMul
	case hasToken(node, token.DivEqual):
		return expr.OpDiv
	default:
		return expr.OpNone
	}
}

// fromBinaryExpression compiles a binary operator, converting the
// operands to the types the operator class demands.
//
//nolint:gocyclo,cyclop
func (r *resolver) fromBinaryExpression(ctx *lookup.Ctx, node *parser.Node) expr.Expression {
	subs := node.ChildNodes(parser.KindExpression)
	if len(subs) != 2 {
		return &expr.Invalid{}
	}

	op, ok := binaryOp(node)
	if !ok {
		return &expr.Invalid{}
	}

	lhs := r.fromExpressionNode(ctx, subs[0])
	rhs := r.fromExpressionNode(ctx, subs[1])

	switch op.Class() {
	case expr.Comparison:
		target := commonTargetType(lhs.Type(), rhs.Type())
		lhs = r.maybeConvert(lhs, target, subs[0].Span())
		rhs = r.maybeConvert(rhs, target, subs[1].Span())

	case expr.Logical:
		lhs = r.maybeConvert(lhs, types.Bool, subs[0].Span())
		rhs = r.maybeConvert(rhs, types.Bool, subs[1].Span())

	case expr.Arithmetic:
		lt, rt := lhs.Type(), rhs.Type()

		switch {
		case op == expr.OpAdd && (lt.Kind == types.KindString || rt.Kind == types.KindString):
			lhs = r.maybeConvert(lhs, types.String, subs[0].Span())
			rhs = r.maybeConvert(rhs, types.String, subs[1].Span())

		case op == expr.OpAdd || op == expr.OpSub:
			target := additiveTargetType(lt, rt)
			lhs = r.maybeConvert(lhs, target, subs[0].Span())
			rhs = r.maybeConvert(rhs, target, subs[1].Span())

		default:
			// Multiplying unit values combines their units; only a
			// unit-less side converts to a plain factor.
			lUnit, rUnit := hasUnit(lt), hasUnit(rt)

			switch {
			case lUnit && rUnit:
			case lUnit:
				rhs = r.maybeConvert(rhs, types.Float32, subs[1].Span())
			case rUnit:
				lhs = r.maybeConvert(lhs, types.Float32, subs[0].Span())
			default:
				lhs = r.maybeConvert(lhs, types.Float32, subs[0].Span())
				rhs = r.maybeConvert(rhs, types.Float32, subs[1].Span())
			}
		}
	}

	return &expr.BinaryExpression{LHS: lhs, RHS: rhs, Op: op}
}

func binaryOp(node *parser.Node) (expr.Op, bool) {
	pairs := []struct {
		tok token.Kind
		op  expr.Op
	}{
		{token.OrOr, expr.OpOr},
		{token.AndAnd, expr.OpAnd},
		{token.EqualEqual, expr.OpEq},
		{token.NotEqual, expr.OpNe},
		{token.LessEqual, expr.OpLe},
		{token.GreaterEqual, expr.OpGe},
		{token.LAngle, expr.OpLt},
		{token.RAngle, expr.OpGt},
		{token.Plus, expr.OpAdd},
		{token.Minus, expr.OpSub},
		{token.Star, expr.OpMul},
		{token.Div, expr.OpDiv},
	}

	for _, p := range pairs {
		if hasToken(node, p.tok) {
			return p.op, true
		}
	}

	return expr.OpNone, false
}

// additiveTargetType picks the type both sides of a '+' or '-' convert
// to, preferring whichever side carries a unit.
func additiveTargetType(lt, rt types.Type) types.Type {
	if _, ok := lt.DefaultUnit(); ok {
		return lt
	}

	if _, ok := rt.DefaultUnit(); ok {
		return rt
	}

	if lt.Kind == types.KindUnitProduct {
		return lt
	}

	if rt.Kind == types.KindUnitProduct {
		return rt
	}

	return types.Float32
}

func hasUnit(t types.Type) bool {
	if _, ok := t.DefaultUnit(); ok {
		return true
	}

	return t.Kind == types.KindUnitProduct
}

func isUnitProduct(t types.Type) bool {
	_, ok := t.AsUnitProduct()

	return ok
}

func hasToken(node *parser.Node, kind token.Kind) bool {
	_, ok := node.ChildToken(kind)

	return ok
}

func (r *resolver) fromUnaryOp(ctx *lookup.Ctx, node *parser.Node) expr.Expression {
	sub := node.ChildNode(parser.KindExpression)
	if sub == nil {
		return &expr.Invalid{}
	}

	e := r.fromExpressionNode(ctx, sub)

	var op expr.Op

	switch {
	case hasToken(node, token.Bang):
		op = expr.OpNot
	case hasToken(node, token.Minus):
		op = expr.OpSub
	case hasToken(node, token.Plus):
		op = expr.OpAdd
	default:
		return e
	}

	if op == expr.OpNot {
		return &expr.UnaryOp{Sub: r.maybeConvert(e, types.Bool, sub.Span()), Op: op}
	}

	ty := e.Type()
	if _, ok := ty.DefaultUnit(); !ok {
		switch ty.Kind {
		case types.KindInt32, types.KindFloat32, types.KindPercent,
			types.KindUnitProduct, types.KindInvalid:
		default:
			r.sink.PushErrorf(node.Span(), "Unary '%s' not supported on %s", op, ty)
		}
	}

	return &expr.UnaryOp{Sub: e, Op: op}
}

func (r *resolver) fromConditional(ctx *lookup.Ctx, node *parser.Node) expr.Expression {
	subs := node.ChildNodes(parser.KindExpression)
	if len(subs) < 2 {
		return &expr.Invalid{}
	}

	cond := r.maybeConvert(r.fromExpressionNode(ctx, subs[0]), types.Bool, subs[0].Span())
	te := r.fromExpressionNode(ctx, subs[1])

	// An if statement without else leaves an empty third expression.
	var fe expr.Expression = &expr.Invalid{}
	if len(subs) > 2 {
		fe = r.fromExpressionNode(ctx, subs[2])
	}

	target := commonTargetType(te.Type(), fe.Type())
	te = r.maybeConvert(te, target, subs[1].Span())

	if len(subs) > 2 {
		fe = r.maybeConvert(fe, target, subs[2].Span())
	}

	return &expr.Condition{Condition: cond, TrueExpr: te, FalseExpr: fe}
}

func (r *resolver) fromObjectLiteral(ctx *lookup.Ctx, node *parser.Node) expr.Expression {
	values := map[string]expr.Expression{}

	var fields []types.StructField

	for _, m := range node.ChildNodes(parser.KindObjectMember) {
		name := m.IdentifierText()
		if name == "" {
			continue
		}

		var v expr.Expression = &expr.Invalid{}
		if en := m.ChildNode(parser.KindExpression); en != nil {
			v = r.fromExpressionNode(ctx, en)
		}

		values[name] = v
		fields = append(fields, types.StructField{Name: name, Type: v.Type()})
	}

	return &expr.StructLiteral{
		Ty:     types.Struct(types.MakeStruct("", fields...)),
		Values: values,
	}
}

func (r *resolver) fromArray(ctx *lookup.Ctx, node *parser.Node) expr.Expression {
	subs := node.ChildNodes(parser.KindExpression)

	values := make([]expr.Expression, len(subs))
	tys := make([]types.Type, len(subs))

	for i, s := range subs {
		values[i] = r.fromExpressionNode(ctx, s)
		tys[i] = values[i].Type()
	}

	target := commonTargetType(tys...)

	for i := range values {
		values[i] = r.maybeConvert(values[i], target, subs[i].Span())
	}

	return &expr.ArrayLiteral{ElementType: target, Values: values}
}

// fromCodeBlock compiles a statement block. Every exit point, the
// final statement and each return statement, converts to the common
// type of them all so the block produces one value type.
func (r *resolver) fromCodeBlock(ctx *lookup.Ctx, node *parser.Node) expr.Expression {
	type stmt struct {
		e    expr.Expression
		span token.Span
	}

	var stmts []stmt

	for _, n := range node.Nodes() {
		switch n.Kind {
		case parser.KindExpression:
			stmts = append(stmts, stmt{r.fromExpressionNode(ctx, n), n.Span()})
		case parser.KindSelfAssignment:
			stmts = append(stmts, stmt{r.fromSelfAssignment(ctx, n), n.Span()})
		case parser.KindReturnStatement:
			stmts = append(stmts, stmt{r.fromReturnStatement(ctx, n), n.Span()})
		}
	}

	out := make([]expr.Expression, len(stmts))

	var exitTys []types.Type

	isExit := func(i int) bool {
		if i == len(stmts)-1 {
			return true
		}

		_, isReturn := stmts[i].e.(*expr.ReturnStatement)

		return isReturn
	}

	for i, s := range stmts {
		out[i] = s.e

		if isExit(i) {
			exitTys = append(exitTys, s.e.Type())
		}
	}

	if target := commonTargetType(exitTys...); target.Kind != types.KindInvalid {
		for i := range stmts {
			if isExit(i) {
				out[i] = r.maybeConvert(out[i], target, stmts[i].span)
			}
		}
	}

	return &expr.CodeBlock{Statements: out}
}

func (r *resolver) fromReturnStatement(ctx *lookup.Ctx, node *parser.Node) expr.Expression {
	en := node.ChildNode(parser.KindExpression)
	if en == nil {
		return &expr.ReturnStatement{}
	}

	value := r.maybeConvert(r.fromExpressionNode(ctx, en), ctx.ReturnType(), node.Span())

	return &expr.ReturnStatement{Value: value}
}

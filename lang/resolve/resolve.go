// Package resolve compiles the unresolved binding expressions of a
// document into the semantic expression tree.
//
// Two way bindings resolve first, across every component, so ordinary
// resolution can rely on the aliased property types. Each component is
// then walked top down with a scope stack of element ids. A repeated
// element's model resolves against the parent scope, before the element
// itself is pushed, since the loop variables the repeater introduces
// are not visible from its own model.
package resolve

import (
	"maps"
	"slices"

	"github.com/ardnew/weft/lang/diag"
	"github.com/ardnew/weft/lang/expr"
	"github.com/ardnew/weft/lang/lookup"
	"github.com/ardnew/weft/lang/object"
	"github.com/ardnew/weft/lang/parser"
	"github.com/ardnew/weft/lang/token"
	"github.com/ardnew/weft/lang/types"
)

// Document resolves every binding, callback body, function body, and
// repeater model of doc, reporting problems to sink. Afterwards no
// binding carries a syntax node and the lowering passes may run.
func Document(doc *object.Document, sink *diag.Sink) {
	r := &resolver{doc: doc, sink: sink}

	for _, c := range doc.Components {
		r.resolveTwoWayBindings(c, c.Root, nil)
	}

	for _, c := range doc.Components {
		r.resolveElement(c, c.Root, nil)
	}
}

type resolver struct {
	doc  *object.Document
	sink *diag.Sink

	// locals numbers the variables synthesized while lowering macros so
	// nested expansions never collide.
	locals int
}

func (r *resolver) ctx(
	c *object.Component,
	name string,
	ty types.Type,
	scope []expr.ElementID,
	span token.Span,
) *lookup.Ctx {
	return &lookup.Ctx{
		PropertyName: name,
		PropertyType: ty,
		Scope:        scope,
		Arena:        c.Arena,
		Registry:     r.doc.Registry,
		Sink:         r.sink,
		Span:         span,
	}
}

// resolveElement resolves the element's repeater model and bindings,
// then recurses into its children with the element pushed on the scope.
func (r *resolver) resolveElement(
	c *object.Component,
	id expr.ElementID,
	scope []expr.ElementID,
) {
	e := c.Arena.Get(id)
	if e == nil {
		return
	}

	if e.Repeated != nil && e.Repeated.ModelNode != nil {
		r.resolveModel(c, e, scope)
	}

	scope = append(scope[:len(scope):len(scope)], id)

	for _, name := range sortedNames(e.Bindings) {
		r.resolveBinding(c, e, name, e.Bindings[name], scope)
	}

	for _, child := range e.Children {
		r.resolveElement(c, child, scope)
	}
}

func (r *resolver) resolveModel(c *object.Component, e *object.Element, scope []expr.ElementID) {
	target := types.Model
	if e.Repeated.IsConditional {
		target = types.Bool
	}

	node := e.Repeated.ModelNode
	ctx := r.ctx(c, "", target, scope, node.Span())

	e.Repeated.Model = r.maybeConvert(r.fromExpressionNode(ctx, node), target, node.Span())
	e.Repeated.ModelNode = nil
}

// resolveBinding compiles one binding. The syntax node kind decides the
// form: a plain binding expression, a callback connection with argument
// names, or a function definition. Animation bindings attached to the
// property resolve in the same scope.
func (r *resolver) resolveBinding(
	c *object.Component,
	e *object.Element,
	name string,
	b *object.Binding,
	scope []expr.ElementID,
) {
	if anim := c.Arena.Get(b.Animation); anim != nil {
		r.resolveAnimation(c, anim, scope)
	}

	node := b.Node
	if node == nil {
		return
	}

	lhs := e.LookupProperty(name)

	switch node.Kind {
	case parser.KindBindingExpression:
		ctx := r.ctx(c, name, lhs.Type, scope, b.Span)
		b.Expression = r.fromBindingExpression(ctx, node)

	case parser.KindCallbackConnection:
		ctx := r.ctx(c, name, lhs.Type, scope, b.Span)
		for _, di := range node.ChildNodes(parser.KindDeclaredIdentifier) {
			ctx.Arguments = append(ctx.Arguments, di.IdentifierText())
		}

		b.Expression = r.fromCallbackConnection(ctx, node)

	case parser.KindFunction:
		ctx := r.ctx(c, name, lhs.Type, scope, b.Span)
		for _, arg := range node.ChildNodes(parser.KindArgumentDeclaration) {
			if di := arg.ChildNode(parser.KindDeclaredIdentifier); di != nil {
				ctx.Arguments = append(ctx.Arguments, di.IdentifierText())
			}
		}

		b.Expression = r.fromFunction(ctx, node)

	default:
		return
	}

	b.Node = nil

	if decl, ok := e.PropertyDeclarations[name]; ok &&
		decl.Type.Kind == types.KindInferredProperty && b.Expression != nil {
		decl.Type = b.Expression.Type()
	}
}

func (r *resolver) resolveAnimation(c *object.Component, anim *object.Element, scope []expr.ElementID) {
	for _, name := range sortedNames(anim.Bindings) {
		ab := anim.Bindings[name]
		if ab.Node == nil || ab.Node.Kind != parser.KindBindingExpression {
			continue
		}

		ctx := r.ctx(c, name, anim.LookupProperty(name).Type, scope, ab.Span)
		ab.Expression = r.fromBindingExpression(ctx, ab.Node)
		ab.Node = nil
	}
}

// resolveTwoWayBindings resolves every `<=>` binding of the subtree to
// a named reference. This runs before ordinary resolution so that a
// property aliased into an expression already knows its final type.
func (r *resolver) resolveTwoWayBindings(
	c *object.Component,
	id expr.ElementID,
	scope []expr.ElementID,
) {
	e := c.Arena.Get(id)
	if e == nil {
		return
	}

	scope = append(scope[:len(scope):len(scope)], id)

	for _, name := range sortedNames(e.Bindings) {
		b := e.Bindings[name]
		if b.Node == nil || b.Node.Kind != parser.KindTwoWayBinding {
			continue
		}

		node := b.Node
		b.Node = nil

		lhs := e.LookupProperty(name)
		if lhs.Type.Kind == types.KindInvalid {
			// The declaration already failed; stay quiet.
			continue
		}

		ctx := r.ctx(c, name, lhs.Type, scope, node.Span())

		ref, ok := r.twoWayTarget(ctx, node)
		if !ok {
			continue
		}

		b.TwoWay = append(b.TwoWay, ref)
		r.checkTwoWayAccess(ctx, lhs, ref, node)

		if decl, has := e.PropertyDeclarations[name]; has {
			decl.Alias = &ref

			if decl.Type.Kind == types.KindInferredProperty ||
				decl.Type.Kind == types.KindInferredCallback {
				decl.Type = ref.Ty
			}
		}
	}

	for _, child := range e.Children {
		r.resolveTwoWayBindings(c, child, scope)
	}
}

// twoWayTarget resolves the right hand side of a `<=>` binding, which
// must be a qualified name denoting a property or callback of matching
// type.
func (r *resolver) twoWayTarget(ctx *lookup.Ctx, node *parser.Node) (expr.NamedReference, bool) {
	en := node.ChildNode(parser.KindExpression)

	var qn *parser.Node
	if en != nil {
		qn = en.ChildNode(parser.KindQualifiedName)
	}

	if qn == nil {
		span := node.Span()
		if en != nil {
			span = en.Span()
		}

		r.sink.PushError("The expression in a two way binding must be a property reference", span)

		return expr.NamedReference{}, false
	}

	reportError := ctx.PropertyType.Kind != types.KindInferredProperty &&
		ctx.PropertyType.Kind != types.KindInferredCallback &&
		ctx.PropertyType.Kind != types.KindInvalid

	switch v := r.fromQualifiedName(ctx, qn, phaseTwoWayBindings).(type) {
	case *expr.PropertyReference:
		if reportError && !v.Ref.Ty.Equal(ctx.PropertyType) {
			r.sink.PushError(
				"The property does not have the same type as the bound property", node.Span())
		}

		return v.Ref, true

	case *expr.CallbackReference:
		if reportError && !v.Ref.Ty.Equal(ctx.PropertyType) {
			r.sink.PushError("Cannot bind to a callback", node.Span())

			return expr.NamedReference{}, false
		}

		return v.Ref, true

	case *expr.FunctionReference:
		r.sink.PushError("Cannot bind to a function", node.Span())

		return expr.NamedReference{}, false

	case *expr.Invalid:
		return expr.NamedReference{}, false

	default:
		r.sink.PushError("The expression in a two way binding must be a property reference", node.Span())

		return expr.NamedReference{}, false
	}
}

// checkTwoWayAccess verifies the visibility of both ends of a two way
// binding permits the link.
func (r *resolver) checkTwoWayAccess(
	ctx *lookup.Ctx,
	lhs types.PropertyLookupResult,
	ref expr.NamedReference,
	node *parser.Node,
) {
	elem := ctx.Arena.Get(ref.Element)
	if elem == nil {
		return
	}

	rhs := elem.LookupProperty(ref.Name)
	rhs.Local = rhs.Local && isLocalElement(ctx, ref.Element)

	if !rhs.IsValidForAssignment() {
		// Read only links are fine when this side never writes through.
		readOnly := lhs.Visibility == types.Output || lhs.Visibility == types.Private ||
			(lhs.Visibility == types.Input && !lhs.Local)
		if !readOnly {
			r.sink.PushErrorf(node.Span(), "Cannot link to a %s property", rhs.Visibility)
		}

		return
	}

	if !lhs.IsValidForAssignment() && rhs.Local && rhs.Visibility == types.InOut {
		r.sink.PushError("Cannot link input property", node.Span())
	}
}

// maybeConvert wraps e so it reads as the target type, reporting an
// error when no implicit conversion exists. Inferred targets pass the
// expression through; the declaration takes its type instead.
func (r *resolver) maybeConvert(e expr.Expression, target types.Type, span token.Span) expr.Expression {
	if target.Kind == types.KindInferredProperty || target.Kind == types.KindInferredCallback {
		return e
	}

	out, ok := expr.Convert(e, target)
	if !ok {
		r.sink.PushErrorf(span, "Cannot convert %s to %s", e.Type(), target)

		return e
	}

	return out
}

func (r *resolver) deprecatedName(span token.Span, old, new string) {
	r.sink.PushWarningf(span,
		"The property '%s' has been deprecated. Please use '%s' instead", old, new)
}

// isLocalElement reports whether id belongs to the component currently
// in scope, which decides whether its private members are reachable.
func isLocalElement(ctx *lookup.Ctx, id expr.ElementID) bool {
	if len(ctx.Scope) == 0 {
		return false
	}

	return containsElement(ctx.Arena, ctx.Scope[0], id)
}

func containsElement(a *object.Arena, root, id expr.ElementID) bool {
	if root == id {
		return true
	}

	e := a.Get(root)
	if e == nil {
		return false
	}

	for _, c := range e.Children {
		if containsElement(a, c, id) {
			return true
		}
	}

	return false
}

func sortedNames(m map[string]*object.Binding) []string {
	return slices.Sorted(maps.Keys(m))
}

// commonTargetType folds a type every expression of a list converts
// to. Structs merge field-wise, color and brush meet at brush, and a
// plain number meets a unit type at the unit type so a literal 0 fits
// in a length list.
func commonTargetType(tys ...types.Type) types.Type {
	target := types.Invalid
	for _, ty := range tys {
		target = mergeTargetType(target, ty)
	}

	return target
}

//nolint:gocyclo,cyclop
func mergeTargetType(target, ty types.Type) types.Type {
	switch {
	case target.Equal(ty), ty.Kind == types.KindInvalid:
		return target

	case target.Kind == types.KindInvalid:
		return ty

	case target.Kind == types.KindStruct && ty.Kind == types.KindStruct:
		merged := append([]types.StructField{}, target.Fields.Fields...)

		for _, f := range ty.Fields.Fields {
			if existing, ok := target.Fields.Field(f.Name); ok {
				for i := range merged {
					if merged[i].Name == f.Name {
						merged[i].Type = mergeTargetType(existing, f.Type)
					}
				}

				continue
			}

			merged = append(merged, f)
		}

		name := target.Fields.Name
		if name == "" {
			name = ty.Fields.Name
		}

		return types.Struct(types.MakeStruct(name, merged...))

	case target.Kind == types.KindColor && ty.Kind == types.KindBrush,
		target.Kind == types.KindBrush && ty.Kind == types.KindColor:
		return types.Brush

	case ty.CanConvert(target):
		return target

	case target.CanConvert(ty):
		return ty

	default:
		if _, ok := ty.DefaultUnit(); ok &&
			(target.Kind == types.KindFloat32 || target.Kind == types.KindInt32) {
			return ty
		}

		return target
	}
}

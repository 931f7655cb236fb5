package passes

import (
	"fmt"
	"math"

	"github.com/ardnew/weft/lang/diag"
	"github.com/ardnew/weft/lang/expr"
	"github.com/ardnew/weft/lang/object"
	"github.com/ardnew/weft/lang/types"
)

// DefaultGeometry gives every element the geometry bindings the source
// left implicit: percentage sizes become fractions of the parent,
// elements fill their parent or take their implicit size depending on
// their builtin kind, images preserve their aspect ratio, and unbound
// positions center the element in its parent. It also aggregates the
// layout constraints of unpositioned children into per-axis layout
// info properties.
type DefaultGeometry struct{}

// Name implements Pass.
func (DefaultGeometry) Name() string { return "default-geometry" }

// Run implements Pass.
func (DefaultGeometry) Run(doc *object.Document, sink *diag.Sink) {
	g := &geometry{arena: doc.Arena, sink: sink}

	for _, c := range doc.Components {
		g.walk(c.Root, nil)
	}
}

type geometry struct {
	arena *object.Arena
	sink  *diag.Sink
}

func (g *geometry) walk(id expr.ElementID, parent *object.Element) {
	e := g.arena.Get(id)
	if e == nil || e.Repeated != nil {
		// Repeated elements are instantiated per model entry; their
		// geometry is managed by the repeater.
		return
	}

	g.element(e, parent)

	for _, c := range e.Children {
		g.walk(c, e)
	}
}

//nolint:gocyclo,cyclop
func (g *geometry) element(e, parent *object.Element) {
	w100 := g.fixPercentSize(e, parent, "width")
	h100 := g.fixPercentSize(e, parent, "height")

	g.genLayoutInfoProp(e)

	builtin, ok := e.Base.(*types.BuiltinElement)
	if !ok {
		return
	}

	isImage := builtin.Name == "Image"
	if isImage {
		g.adjustImageClipRect(e)
	}

	if parent == nil {
		return
	}

	switch builtin.DefaultSizeBinding {
	case types.SizeNone:
		noConstraint := !g.hasLayoutInfoProp(e) && !hasExplicitConstraints(g.arena, e)

		if noConstraint || e.DefaultFillParent[0] {
			w100 = g.makeDefault100(e, parent, "width") || w100
		} else {
			g.makeDefaultImplicit(e, "width")
		}

		if noConstraint || e.DefaultFillParent[1] {
			h100 = g.makeDefault100(e, parent, "height") || h100
		} else {
			g.makeDefaultImplicit(e, "height")
		}

	case types.SizeExpandsToParent:
		if !e.ChildOfLayout {
			w100 = g.makeDefault100(e, parent, "width") || w100
			h100 = g.makeDefault100(e, parent, "height") || h100
		}

	case types.SizeImplicit:
		widthSet := e.IsBindingSet(g.arena, "width", true)
		heightSet := e.IsBindingSet(g.arena, "height", true)

		switch {
		case !e.ChildOfLayout:
			switch {
			case isImage && widthSet && !heightSet:
				g.makeAspectRatioBinding(e, "height", "width")
			case isImage && heightSet && !widthSet:
				g.makeAspectRatioBinding(e, "width", "height")
			default:
				g.makeDefaultImplicit(e, "width")
				g.makeDefaultImplicit(e, "height")
			}

		case isImage && (!widthSet || !heightSet):
			// An image sized by a layout scales to fit by default.
			fit := e.LookupProperty("image-fit")
			if fit.Type.Kind == types.KindEnumeration {
				e.SetBindingIfNotSet(g.arena, fit.ResolvedName, func() expr.Expression {
					v, _ := fit.Type.Enum.ValueFromString("contain")

					return &expr.EnumerationValueExpression{Value: v}
				})
			}
		}
	}

	if !e.ChildOfLayout {
		if !w100 {
			g.maybeCenterInParent(e, parent, "x", "width")
		}

		if !h100 {
			g.maybeCenterInParent(e, parent, "y", "height")
		}
	}
}

// fixPercentSize rewrites a percentage width or height into a fraction
// of the parent's. Reports whether the size fills the parent entirely.
func (g *geometry) fixPercentSize(e, parent *object.Element, property string) bool {
	b, ok := e.Bindings[property]
	if !ok || b.Expression == nil || b.Expression.Type().Kind != types.KindPercent {
		return false
	}

	if parent == nil {
		g.sink.PushError("Cannot find parent property to apply relative length", b.Span)

		return false
	}

	n, isNum := b.Expression.(*expr.NumberLiteral)
	fill := isNum && math.Abs(n.Value-100) < 0.001

	factor, _ := expr.Convert(b.Expression, types.Float32)
	b.Expression = &expr.BinaryExpression{
		LHS: factor,
		RHS: propertyRef(parent, property),
		Op:  expr.OpMul,
	}

	return fill
}

// makeDefault100 binds the property to the parent's value of the same
// property. Reports whether a binding was installed.
func (g *geometry) makeDefault100(e, parent *object.Element, property string) bool {
	r := parent.LookupProperty(property)
	if r.Type.Kind != types.KindLogicalLength {
		return false
	}

	return e.SetBindingIfNotSet(g.arena, r.ResolvedName, func() expr.Expression {
		return &expr.PropertyReference{Ref: expr.NamedReference{
			Element: parent.ID,
			Name:    r.ResolvedName,
			Ty:      r.Type,
		}}
	})
}

// makeDefaultImplicit binds the property to the larger of the
// element's preferred and minimum size on that axis.
func (g *geometry) makeDefaultImplicit(e *object.Element, property string) {
	e.SetBindingIfNotSet(g.arena, property, func() expr.Expression {
		return expr.MinMaxExpression(
			propertyRef(e, "preferred-"+property),
			propertyRef(e, "min-"+property),
			expr.Max,
		)
	})
}

// makeAspectRatioBinding installs a binding for the unspecified size
// of an image that preserves the source's aspect ratio, so
// `height: self.width * implicit-height / implicit-width` and the
// mirror image of it.
func (g *geometry) makeAspectRatioBinding(e *object.Element, missing, given string) {
	if e.IsBindingSet(g.arena, missing, false) {
		return
	}

	var ratio expr.Expression

	if e.IsBindingSet(g.arena, "source-clip-height", false) {
		ratio = &expr.BinaryExpression{
			LHS: propertyRef(e, "source-clip-"+missing),
			RHS: propertyRef(e, "source-clip-"+given),
			Op:  expr.OpDiv,
		}
	} else {
		const local = "image-implicit-size"

		size := func(dim string) expr.Expression {
			return &expr.StructFieldAccess{
				Base: &expr.ReadLocalVariable{Name: local, Ty: expr.ImageSizeType()},
				Name: dim,
			}
		}

		ratio = &expr.CodeBlock{Statements: []expr.Expression{
			&expr.StoreLocalVariable{Name: local, Value: imageSizeCall(e)},
			&expr.BinaryExpression{LHS: size(missing), RHS: size(given), Op: expr.OpDiv},
		}}
	}

	e.Bindings[missing] = &object.Binding{
		Expression: &expr.BinaryExpression{
			LHS: ratio,
			RHS: propertyRef(e, given),
			Op:  expr.OpMul,
		},
		Priority:  math.MaxInt32,
		Animation: expr.NoElement,
	}
}

// maybeCenterInParent defaults an unbound x or y to center the element
// along that axis.
func (g *geometry) maybeCenterInParent(e, parent *object.Element, pos, size string) {
	if e.LookupProperty(pos).Type.Kind != types.KindLogicalLength ||
		e.LookupProperty(size).Type.Kind != types.KindLogicalLength {
		return
	}

	e.SetBindingIfNotSet(g.arena, pos, func() expr.Expression {
		return &expr.BinaryExpression{
			LHS: &expr.BinaryExpression{
				LHS: propertyRef(parent, size),
				RHS: propertyRef(e, size),
				Op:  expr.OpSub,
			},
			RHS: &expr.NumberLiteral{Value: 2, Unit: types.UnitNone},
			Op:  expr.OpDiv,
		}
	})
}

// adjustImageClipRect completes a partially specified source clip
// rectangle: once any clip property is bound, the unbound clip width
// and height default to the rest of the source image.
func (g *geometry) adjustImageClipRect(e *object.Element) {
	any := false

	for _, p := range []string{
		"source-clip-x", "source-clip-y", "source-clip-width", "source-clip-height",
	} {
		if _, ok := e.Bindings[p]; ok {
			any = true

			break
		}
	}

	if !any {
		return
	}

	remainder := func(dim, offset string) func() expr.Expression {
		return func() expr.Expression {
			return &expr.BinaryExpression{
				LHS: &expr.StructFieldAccess{Base: imageSizeCall(e), Name: dim},
				RHS: propertyRef(e, offset),
				Op:  expr.OpSub,
			}
		}
	}

	e.SetBindingIfNotSet(g.arena, "source-clip-width", remainder("width", "source-clip-x"))
	e.SetBindingIfNotSet(g.arena, "source-clip-height", remainder("height", "source-clip-y"))
}

// genLayoutInfoProp aggregates the layout constraints of the element's
// unpositioned children into a pair of synthesized per-axis layout
// info properties on the element.
func (g *geometry) genLayoutInfoProp(e *object.Element) {
	if e.LayoutInfoProp != nil {
		return
	}

	var infoH, infoV []expr.Expression

	for _, id := range e.Children {
		c := g.arena.Get(id)

		_, hasX := c.Bindings["x"]
		_, hasY := c.Bindings["y"]

		if hasX || hasY {
			continue
		}

		g.genLayoutInfoProp(c)

		switch {
		case c.LayoutInfoProp != nil:
			infoH = append(infoH, &expr.PropertyReference{Ref: c.LayoutInfoProp.Horizontal})
			infoV = append(infoV, &expr.PropertyReference{Ref: c.LayoutInfoProp.Vertical})

		case c.Repeated != nil:
			// Constraints of repeated elements would need merging at
			// runtime; they contribute nothing here.

		case hasExplicitConstraints(g.arena, c):
			infoH = append(infoH, explicitLayoutInfo(c, "width", "horizontal"))
			infoV = append(infoV, explicitLayoutInfo(c, "height", "vertical"))

		default:
			if b := c.BuiltinBase(g.arena); b != nil && b.DefaultSizeBinding == types.SizeImplicit {
				infoH = append(infoH, implicitLayoutInfoCall(c, expr.FuncImplicitLayoutInfoHorizontal))
				infoV = append(infoV, implicitLayoutInfoCall(c, expr.FuncImplicitLayoutInfoVertical))
			}
		}
	}

	if len(infoH) == 0 {
		return
	}

	liH := g.newProperty(e, "layoutinfo-h", types.LayoutInfoType())
	liV := g.newProperty(e, "layoutinfo-v", types.LayoutInfoType())
	e.LayoutInfoProp = &object.LayoutInfoProp{Horizontal: liH, Vertical: liV}

	exprH := implicitLayoutInfoCall(e, expr.FuncImplicitLayoutInfoHorizontal)
	exprV := implicitLayoutInfoCall(e, expr.FuncImplicitLayoutInfoVertical)

	for i := range infoH {
		exprH = &expr.BinaryExpression{LHS: exprH, RHS: infoH[i], Op: expr.OpAdd}
		exprV = &expr.BinaryExpression{LHS: exprV, RHS: infoV[i], Op: expr.OpAdd}
	}

	e.Bindings[liH.Name] = &object.Binding{
		Expression: exprH,
		Span:       e.Span(),
		Priority:   math.MaxInt32,
		Animation:  expr.NoElement,
	}
	e.Bindings[liV.Name] = &object.Binding{
		Expression: exprV,
		Span:       e.Span(),
		Priority:   math.MaxInt32,
		Animation:  expr.NoElement,
	}
}

// newProperty declares a private property on the element under a name
// not taken by any property it can already see.
func (g *geometry) newProperty(e *object.Element, base string, ty types.Type) expr.NamedReference {
	name := base
	for i := 1; e.LookupProperty(name).IsValid(); i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}

	e.PropertyDeclarations[name] = &object.PropertyDeclaration{
		Type:       ty,
		Visibility: types.Private,
	}

	return expr.NamedReference{Element: e.ID, Name: name, Ty: ty}
}

// hasLayoutInfoProp reports whether the element or a component down
// its base chain carries synthesized layout info properties.
func (g *geometry) hasLayoutInfoProp(e *object.Element) bool {
	if e.LayoutInfoProp != nil {
		return true
	}

	if c, ok := e.Base.(*object.Component); ok {
		return g.hasLayoutInfoProp(g.arena.Get(c.Root))
	}

	return false
}

// constraintProperties are the per-axis restrictions a source binding
// can impose on an element's layout.
//
//nolint:gochecknoglobals
var constraintProperties = []string{
	"min-width", "max-width", "preferred-width",
	"min-height", "max-height", "preferred-height",
	"horizontal-stretch", "vertical-stretch",
}

func hasExplicitConstraints(a *object.Arena, e *object.Element) bool {
	for _, p := range constraintProperties {
		if e.IsBindingSet(a, p, true) {
			return true
		}
	}

	return false
}

// explicitLayoutInfo builds a layout info struct from the element's
// explicitly bound constraint properties on one axis.
func explicitLayoutInfo(e *object.Element, size, orient string) expr.Expression {
	values := map[string]expr.Expression{
		"min":         propertyRef(e, "min-"+size),
		"max":         propertyRef(e, "max-"+size),
		"preferred":   propertyRef(e, "preferred-"+size),
		"stretch":     propertyRef(e, orient+"-stretch"),
		"min-percent": &expr.NumberLiteral{Value: 0, Unit: types.UnitNone},
		"max-percent": &expr.NumberLiteral{Value: 100, Unit: types.UnitNone},
	}

	return &expr.StructLiteral{Ty: types.LayoutInfoType(), Values: values}
}

func implicitLayoutInfoCall(e *object.Element, fn expr.BuiltinFunction) expr.Expression {
	return &expr.FunctionCall{
		Function:  &expr.BuiltinFunctionReference{Func: fn},
		Arguments: []expr.Expression{&expr.ElementReference{Element: e.ID}},
	}
}

func imageSizeCall(e *object.Element) expr.Expression {
	return &expr.FunctionCall{
		Function:  &expr.BuiltinFunctionReference{Func: expr.FuncImageSize},
		Arguments: []expr.Expression{propertyRef(e, "source")},
	}
}

func propertyRef(e *object.Element, name string) expr.Expression {
	r := e.LookupProperty(name)

	return &expr.PropertyReference{Ref: expr.NamedReference{
		Element: e.ID,
		Name:    r.ResolvedName,
		Ty:      r.Type,
	}}
}

// Package lookup resolves bare identifiers found in expressions.
//
// Resolution probes a fixed sequence of name spaces, highest priority
// first: callback or function arguments, the special ids self and
// parent, element ids of the enclosing component, names visible in the
// lexical scope stack, registered globals and enumerations, builtin
// namespaces, names specific to the expected result type, and finally
// the builtin free functions. The first name space holding the
// identifier wins, so a local id always shadows a global of the same
// name.
package lookup

import (
	"github.com/ardnew/weft/lang/diag"
	"github.com/ardnew/weft/lang/expr"
	"github.com/ardnew/weft/lang/object"
	"github.com/ardnew/weft/lang/token"
	"github.com/ardnew/weft/lang/types"
)

// Ctx carries the state one identifier is resolved against. It is
// constructed fresh per top-level expression and read by every probe.
type Ctx struct {
	// PropertyName names the property the expression is bound to, empty
	// for expressions outside bindings.
	PropertyName string

	// PropertyType is the type of that property. For callbacks and
	// functions the argument names in Arguments pair with its argument
	// types.
	PropertyType types.Type

	// Scope is the element stack the expression appears in, innermost
	// element last.
	Scope []expr.ElementID

	// Arena resolves the IDs in Scope.
	Arena *object.Arena

	// Arguments holds the declared argument names of the enclosing
	// callback or function, in positional order.
	Arguments []string

	// Registry resolves global singletons and enumeration types.
	Registry *types.Register

	// Sink receives diagnostics from the resolution driver; the probes
	// themselves never report.
	Sink *diag.Sink

	// Span locates the token being resolved, for diagnostics.
	Span token.Span
}

// ReturnType is the type an expression in this context must produce:
// the declared return type for callback and function contexts,
// otherwise the property type itself.
func (c *Ctx) ReturnType() types.Type {
	if c.PropertyType.Kind == types.KindCallback || c.PropertyType.Kind == types.KindFunction {
		if c.PropertyType.Result == nil {
			return types.Void
		}

		return *c.PropertyType.Result
	}

	return c.PropertyType
}

// Namespace identifies a builtin namespace reachable by name.
type Namespace uint8

const (
	// NamespaceNone marks a result that is not a namespace.
	NamespaceNone Namespace = iota
	// NamespaceColors exposes the named colors and color functions.
	NamespaceColors
	// NamespaceMath exposes the math functions.
	NamespaceMath
)

// Result is one successful resolution. Exactly one of Expression,
// Enumeration, and Namespace is set; the latter two only resolve
// further through [Member].
type Result struct {
	Expression expr.Expression

	// Deprecated holds the replacement name when the queried name is a
	// legacy alias, empty otherwise.
	Deprecated string

	// Enumeration is set when the name denotes an enumeration type.
	Enumeration *types.Enumeration

	// Namespace is set when the name denotes a builtin namespace.
	Namespace Namespace

	// Global is set when Expression refers to the root element of a
	// global singleton, whose elements live in the component's own
	// arena.
	Global *object.Component
}

// prober is one probeable name space.
type prober interface {
	// forEach calls fn for each visible entry in priority order until
	// fn returns true, reporting whether it did.
	forEach(ctx *Ctx, fn func(name string, r Result) bool) bool
}

// finder is implemented by probes with a direct lookup faster than
// enumerating every entry.
type finder interface {
	find(ctx *Ctx, name string) (Result, bool)
}

func find(p prober, ctx *Ctx, name string) (Result, bool) {
	if f, ok := p.(finder); ok {
		return f.find(ctx, name)
	}

	var out Result

	found := p.forEach(ctx, func(n string, r Result) bool {
		if n != name {
			return false
		}

		out = r

		return true
	})

	return out, found
}

// chain probes its members in order.
type chain []prober

func (c chain) forEach(ctx *Ctx, fn func(name string, r Result) bool) bool {
	for _, p := range c {
		if p.forEach(ctx, fn) {
			return true
		}
	}

	return false
}

func (c chain) find(ctx *Ctx, name string) (Result, bool) {
	for _, p := range c {
		if r, ok := find(p, ctx, name); ok {
			return r, true
		}
	}

	return Result{}, false
}

//nolint:gochecknoglobals
var globalChain = chain{
	argumentsProbe{},
	specialIDProbe{},
	idProbe{},
	inScopeProbe{},
	typeProbe{},
	namespaceProbe{},
	returnTypeProbe{},
	builtinFunctionProbe{},
}

// Resolve probes the ordered name spaces for name, returning the first
// match.
func Resolve(ctx *Ctx, name string) (Result, bool) {
	return globalChain.find(ctx, name)
}

// Candidates returns every name Resolve could find in this context,
// for ranking suggestions against a name that resolved to nothing.
func Candidates(ctx *Ctx) []string {
	var names []string

	globalChain.forEach(ctx, func(name string, _ Result) bool {
		names = append(names, name)

		return false
	})

	return names
}

// ElementMember resolves one property, callback, or function of the
// element id in arena, the way [Member] treats an element reference
// base. Private non-local members stay hidden.
func ElementMember(arena *object.Arena, id expr.ElementID, name string) (Result, bool) {
	return elementFind(arena, id, name)
}

// InScope resolves name against the lexical scope stack alone,
// skipping the higher priority name spaces. Error recovery uses it to
// tell whether a name that failed full resolution would have resolved
// as a property.
func InScope(ctx *Ctx, name string) (Result, bool) {
	return inScopeProbe{}.find(ctx, name)
}

// ReturnTypeSpecific resolves name against the names the expected
// result type exposes, skipping every other name space.
func ReturnTypeSpecific(ctx *Ctx, name string) (Result, bool) {
	return find(returnTypeProbe{}, ctx, name)
}

// Member resolves a member access on an already resolved base.
//
//nolint:gocyclo,cyclop
func Member(ctx *Ctx, base Result, name string) (Result, bool) {
	switch {
	case base.Enumeration != nil:
		v, ok := base.Enumeration.ValueFromString(name)
		if !ok {
			return Result{}, false
		}

		return Result{Expression: &expr.EnumerationValueExpression{Value: v}}, true

	case base.Namespace == NamespaceColors:
		return chain{colorProbe{}, colorFunctionProbe{}}.find(ctx, name)

	case base.Namespace == NamespaceMath:
		return find(mathProbe{}, ctx, name)

	case base.Expression == nil:
		return Result{}, false
	}

	if ref, ok := base.Expression.(*expr.ElementReference); ok {
		arena := ctx.Arena
		if base.Global != nil {
			arena = base.Global.Arena
		}

		return elementFind(arena, ref.Element, name)
	}

	switch t := base.Expression.Type(); t.Kind {
	case types.KindStruct:
		if _, ok := t.Fields.Field(name); !ok {
			return Result{}, false
		}

		return Result{Expression: &expr.StructFieldAccess{
			Base: base.Expression,
			Name: name,
		}}, true

	case types.KindImage:
		if name != "width" && name != "height" {
			return Result{}, false
		}

		return Result{Expression: &expr.StructFieldAccess{
			Base: &expr.FunctionCall{
				Function:  &expr.BuiltinFunctionReference{Func: expr.FuncImageSize},
				Arguments: []expr.Expression{base.Expression},
			},
			Name: name,
		}}, true

	default:
		return Result{}, false
	}
}

// MemberCandidates returns the member names reachable from base, for
// suggestions.
func MemberCandidates(ctx *Ctx, base Result) []string {
	var names []string

	collect := func(name string, _ Result) bool {
		names = append(names, name)

		return false
	}

	switch {
	case base.Enumeration != nil:
		return base.Enumeration.Values

	case base.Namespace == NamespaceColors:
		chain{colorProbe{}, colorFunctionProbe{}}.forEach(ctx, collect)

	case base.Namespace == NamespaceMath:
		mathProbe{}.forEach(ctx, collect)

	case base.Expression != nil:
		if ref, ok := base.Expression.(*expr.ElementReference); ok {
			arena := ctx.Arena
			if base.Global != nil {
				arena = base.Global.Arena
			}

			elementForEach(arena, ref.Element, collect)

			break
		}

		if t := base.Expression.Type(); t.Kind == types.KindStruct {
			for _, f := range t.Fields.Fields {
				names = append(names, f.Name)
			}
		}
	}

	return names
}

// argumentsProbe binds the argument names of the enclosing callback or
// function to positional parameter references.
type argumentsProbe struct{}

func (argumentsProbe) forEach(ctx *Ctx, fn func(string, Result) bool) bool {
	pt := ctx.PropertyType
	if pt.Kind != types.KindCallback && pt.Kind != types.KindFunction {
		return false
	}

	for i, name := range ctx.Arguments {
		if i >= len(pt.Args) {
			break
		}

		r := Result{Expression: &expr.FunctionParameterReference{
			Index: i,
			Ty:    pt.Args[i],
		}}
		if fn(name, r) {
			return true
		}
	}

	return false
}

// specialIDProbe resolves self, parent, and the boolean literals.
// root is deliberately absent: it is an ordinary element id.
type specialIDProbe struct{}

func (specialIDProbe) forEach(ctx *Ctx, fn func(string, Result) bool) bool {
	if n := len(ctx.Scope); n > 0 {
		self := Result{Expression: &expr.ElementReference{Element: ctx.Scope[n-1]}}
		if fn("self", self) {
			return true
		}

		if n >= 2 {
			parent := Result{Expression: &expr.ElementReference{Element: ctx.Scope[n-2]}}
			if fn("parent", parent) {
				return true
			}
		}
	}

	return fn("true", Result{Expression: &expr.BoolLiteral{Value: true}}) ||
		fn("false", Result{Expression: &expr.BoolLiteral{Value: false}})
}

// idProbe resolves explicit element ids, walking repeated scope frames
// innermost first and then the component root. The interiors of
// repeated sub-trees are skipped: their ids are only visible from
// inside the repeater.
type idProbe struct{}

func (idProbe) forEach(ctx *Ctx, fn func(string, Result) bool) bool {
	var visit func(id expr.ElementID) bool

	visit = func(id expr.ElementID) bool {
		e := ctx.Arena.Get(id)
		if e == nil {
			return false
		}

		if e.Name != "" {
			r := Result{Expression: &expr.ElementReference{Element: id}}
			if fn(e.Name, r) {
				return true
			}
		}

		for _, c := range e.Children {
			if child := ctx.Arena.Get(c); child != nil && child.Repeated != nil {
				continue
			}

			if visit(c) {
				return true
			}
		}

		return false
	}

	for i := len(ctx.Scope) - 1; i >= 0; i-- {
		e := ctx.Arena.Get(ctx.Scope[i])
		if e != nil && e.Repeated != nil && visit(e.ID) {
			return true
		}
	}

	if len(ctx.Scope) > 0 {
		return visit(ctx.Scope[0])
	}

	return false
}

// inScopeProbe resolves names visible in the lexical scope stack,
// innermost element first: repeater loop variables, then each
// element's own declarations, base properties, and the reserved set.
type inScopeProbe struct{}

func (inScopeProbe) forEach(ctx *Ctx, fn func(string, Result) bool) bool {
	for i := len(ctx.Scope) - 1; i >= 0; i-- {
		e := ctx.Arena.Get(ctx.Scope[i])
		if e == nil {
			continue
		}

		if repeaterEntries(e, fn) {
			return true
		}

		if elementForEach(ctx.Arena, e.ID, fn) {
			return true
		}
	}

	return false
}

func (inScopeProbe) find(ctx *Ctx, name string) (Result, bool) {
	if name == "" {
		return Result{}, false
	}

	for i := len(ctx.Scope) - 1; i >= 0; i-- {
		e := ctx.Arena.Get(ctx.Scope[i])
		if e == nil {
			continue
		}

		var out Result

		if repeaterEntries(e, func(n string, r Result) bool {
			if n != name {
				return false
			}

			out = r

			return true
		}) {
			return out, true
		}

		if r, ok := elementFind(ctx.Arena, e.ID, name); ok {
			return r, true
		}
	}

	return Result{}, false
}

func repeaterEntries(e *object.Element, fn func(string, Result) bool) bool {
	if e.Repeated == nil {
		return false
	}

	if e.Repeated.IndexName != "" {
		r := Result{Expression: &expr.RepeaterIndexReference{Element: e.ID}}
		if fn(e.Repeated.IndexName, r) {
			return true
		}
	}

	if e.Repeated.DataName != "" {
		r := Result{Expression: &expr.RepeaterModelReference{
			Element: e.ID,
			Ty:      modelDataType(e.Repeated.Model),
		}}
		if fn(e.Repeated.DataName, r) {
			return true
		}
	}

	return false
}

// modelDataType is the type of the loop data variable for a repeater
// whose model has the given type. Integer models count repetitions, so
// their data is the iteration number. A resolved model is wrapped in a
// cast to the model type, which hides the data type; the cast and any
// enclosing code block are looked through.
func modelDataType(model expr.Expression) types.Type {
	switch m := model.(type) {
	case nil:
		return types.Invalid
	case *expr.Cast:
		if m.To.Kind == types.KindModel {
			return modelDataType(m.From)
		}
	case *expr.CodeBlock:
		if n := len(m.Statements); n > 0 {
			return modelDataType(m.Statements[n-1])
		}
	}

	switch t := model.Type(); t.Kind {
	case types.KindArray:
		return *t.Elem
	case types.KindInt32, types.KindFloat32:
		return types.Int32
	case types.KindBool:
		return types.Bool
	default:
		return types.Invalid
	}
}

// elementFind resolves one property, callback, or function on an
// element, following deprecated aliases. Private non-local properties
// stay hidden.
func elementFind(arena *object.Arena, id expr.ElementID, name string) (Result, bool) {
	e := arena.Get(id)
	if e == nil {
		return Result{}, false
	}

	r := e.LookupProperty(name)
	if !r.IsValid() || (!r.Local && r.Visibility == types.Private) {
		return Result{}, false
	}

	out := Result{Expression: referenceExpression(expr.NamedReference{
		Element: id,
		Name:    r.ResolvedName,
		Ty:      r.Type,
	})}
	if r.ResolvedName != name {
		out.Deprecated = r.ResolvedName
	}

	return out, true
}

func elementForEach(arena *object.Arena, id expr.ElementID, fn func(string, Result) bool) bool {
	e := arena.Get(id)
	if e == nil {
		return false
	}

	entry := func(name string, ty types.Type) bool {
		return fn(name, Result{Expression: referenceExpression(expr.NamedReference{
			Element: id,
			Name:    name,
			Ty:      ty,
		})})
	}

	for name, decl := range e.PropertyDeclarations {
		if entry(name, decl.Type) {
			return true
		}
	}

	switch base := e.Base.(type) {
	case *types.BuiltinElement:
		for name, prop := range base.Properties {
			if entry(name, prop.Type) {
				return true
			}
		}

		if base.NonItem {
			return false
		}

	case *object.Component:
		if elementForEach(base.Arena, base.Root, fn) {
			return true
		}
	}

	for _, prop := range types.ReservedProperties() {
		if entry(prop.Name, prop.Type) {
			return true
		}
	}

	return false
}

func referenceExpression(ref expr.NamedReference) expr.Expression {
	switch ref.Ty.Kind {
	case types.KindCallback:
		return &expr.CallbackReference{Ref: ref}
	case types.KindFunction:
		return &expr.FunctionReference{Ref: ref}
	default:
		return &expr.PropertyReference{Ref: ref}
	}
}

// typeProbe resolves global singletons and enumeration types from the
// registry.
type typeProbe struct{}

func (typeProbe) forEach(ctx *Ctx, fn func(string, Result) bool) bool {
	for name, base := range ctx.Registry.Globals() {
		compo, ok := base.(*object.Component)
		if !ok {
			continue
		}

		if fn(name, globalResult(compo)) {
			return true
		}
	}

	return false
}

func (typeProbe) find(ctx *Ctx, name string) (Result, bool) {
	if t := ctx.Registry.LookupType(name); t.Kind == types.KindEnumeration {
		return Result{Enumeration: t.Enum}, true
	}

	base, err := ctx.Registry.LookupElement(name)
	if err != nil {
		return Result{}, false
	}

	compo, ok := base.(*object.Component)
	if !ok || !compo.Global() {
		return Result{}, false
	}

	return globalResult(compo), true
}

func globalResult(compo *object.Component) Result {
	return Result{
		Expression: &expr.ElementReference{Element: compo.Root},
		Global:     compo,
	}
}

// namespaceProbe resolves the builtin namespace names.
type namespaceProbe struct{}

func (namespaceProbe) forEach(_ *Ctx, fn func(string, Result) bool) bool {
	return fn("Colors", Result{Namespace: NamespaceColors}) ||
		fn("Math", Result{Namespace: NamespaceMath})
}

// returnTypeProbe exposes extra names when the expected result type
// asks for them: named colors for color and brush contexts, easing
// curves for easing contexts, and the members of an expected
// enumeration.
type returnTypeProbe struct{}

func (returnTypeProbe) forEach(ctx *Ctx, fn func(string, Result) bool) bool {
	switch rt := ctx.ReturnType(); rt.Kind {
	case types.KindColor, types.KindBrush:
		return colorProbe{}.forEach(ctx, fn)
	case types.KindEasing:
		return easingProbe{}.forEach(ctx, fn)
	case types.KindEnumeration:
		return enumEntries(rt.Enum, fn)
	default:
		return false
	}
}

func enumEntries(e *types.Enumeration, fn func(string, Result) bool) bool {
	for i, name := range e.Values {
		r := Result{Expression: &expr.EnumerationValueExpression{
			Value: types.EnumerationValue{Enum: e, Value: i},
		}}
		if fn(name, r) {
			return true
		}
	}

	return false
}

// easingProbe resolves the named easing curves and the cubic-bezier
// constructor.
type easingProbe struct{}

func (easingProbe) forEach(_ *Ctx, fn func(string, Result) bool) bool {
	curve := func(c expr.EasingCurve) Result {
		return Result{Expression: &expr.EasingCurveExpression{Curve: c}}
	}

	return fn("linear", curve(expr.LinearCurve())) ||
		fn("ease", curve(expr.CubicBezierCurve(0.25, 0.1, 0.25, 1.0))) ||
		fn("ease-in", curve(expr.CubicBezierCurve(0.42, 0.0, 1.0, 1.0))) ||
		fn("ease-in-out", curve(expr.CubicBezierCurve(0.42, 0.0, 0.58, 1.0))) ||
		fn("ease-out", curve(expr.CubicBezierCurve(0.0, 0.0, 0.58, 1.0))) ||
		fn("cubic-bezier", Result{
			Expression: &expr.BuiltinMacroReference{Macro: expr.MacroCubicBezier},
		})
}

// mathProbe resolves the math functions and macros.
type mathProbe struct{}

func (mathProbe) forEach(_ *Ctx, fn func(string, Result) bool) bool {
	macro := func(m expr.BuiltinMacro) Result {
		return Result{Expression: &expr.BuiltinMacroReference{Macro: m}}
	}
	builtin := func(f expr.BuiltinFunction) Result {
		return Result{Expression: &expr.BuiltinFunctionReference{Func: f}}
	}

	return fn("mod", macro(expr.MacroMod)) ||
		fn("round", builtin(expr.FuncRound)) ||
		fn("ceil", builtin(expr.FuncCeil)) ||
		fn("floor", builtin(expr.FuncFloor)) ||
		fn("abs", builtin(expr.FuncAbs)) ||
		fn("sqrt", builtin(expr.FuncSqrt)) ||
		fn("max", macro(expr.MacroMax)) ||
		fn("min", macro(expr.MacroMin)) ||
		fn("sin", builtin(expr.FuncSin)) ||
		fn("cos", builtin(expr.FuncCos)) ||
		fn("tan", builtin(expr.FuncTan)) ||
		fn("asin", builtin(expr.FuncASin)) ||
		fn("acos", builtin(expr.FuncACos)) ||
		fn("atan", builtin(expr.FuncATan)) ||
		fn("log", builtin(expr.FuncLog)) ||
		fn("pow", builtin(expr.FuncPow))
}

// colorFunctionProbe resolves the color constructor macros.
type colorFunctionProbe struct{}

func (colorFunctionProbe) forEach(_ *Ctx, fn func(string, Result) bool) bool {
	rgb := Result{Expression: &expr.BuiltinMacroReference{Macro: expr.MacroRgb}}

	return fn("rgb", rgb) || fn("rgba", rgb)
}

// builtinFunctionProbe is the last probe: free functions usable in any
// context.
type builtinFunctionProbe struct{}

func (builtinFunctionProbe) forEach(ctx *Ctx, fn func(string, Result) bool) bool {
	if (chain{mathProbe{}, colorFunctionProbe{}}).forEach(ctx, fn) {
		return true
	}

	return fn("debug", Result{
		Expression: &expr.BuiltinMacroReference{Macro: expr.MacroDebug},
	})
}

// Package object builds the semantic element tree from syntax nodes.
//
// Elements live in a per-document [Arena] and are addressed by stable
// [expr.ElementID] indices; parent, child, and scope relationships are
// all expressed as index relations, so passes can hold references to
// elements without aliasing the tree itself.
package object

import (
	"math"

	"github.com/ardnew/weft/lang/expr"
	"github.com/ardnew/weft/lang/parser"
	"github.com/ardnew/weft/lang/token"
	"github.com/ardnew/weft/lang/types"
)

// Arena owns every element of one document. IDs are indices into the
// arena and stay valid for the document's lifetime.
type Arena struct {
	elems []*Element
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// New allocates an element with the given display name and base type
// and returns it with its ID assigned.
func (a *Arena) New(name string, base types.ElementBase) *Element {
	e := &Element{
		ID:                   expr.ElementID(len(a.elems)),
		Name:                 name,
		Base:                 base,
		Parent:               expr.NoElement,
		Bindings:             map[string]*Binding{},
		PropertyDeclarations: map[string]*PropertyDeclaration{},
	}
	a.elems = append(a.elems, e)

	return e
}

// Get returns the element with the given ID, or nil when the ID is
// [expr.NoElement] or out of range.
func (a *Arena) Get(id expr.ElementID) *Element {
	if id < 0 || int(id) >= len(a.elems) {
		return nil
	}

	return a.elems[id]
}

// Len returns the number of allocated elements.
func (a *Arena) Len() int { return len(a.elems) }

// Recurse calls fn for the element and every element below it in the
// tree, parents first.
func (a *Arena) Recurse(root expr.ElementID, fn func(*Element)) {
	e := a.Get(root)
	if e == nil {
		return
	}

	fn(e)

	for _, c := range e.Children {
		a.Recurse(c, fn)
	}
}

// LayoutInfoProp names the synthesized per-axis layout constraint
// properties of an element.
type LayoutInfoProp struct {
	Horizontal expr.NamedReference
	Vertical   expr.NamedReference
}

// Element is one instantiated item of a component.
type Element struct {
	ID expr.ElementID

	// Name is the id written in the source, normalized. It is only
	// meaningful for lookup; several elements may share a name after
	// later transformations.
	Name string

	// Base is the builtin element, component, or placeholder this
	// element instantiates.
	Base types.ElementBase

	// Bindings maps resolved property names to their binding
	// expressions. Callbacks and functions share the map.
	Bindings map[string]*Binding

	PropertyDeclarations map[string]*PropertyDeclaration

	Children []expr.ElementID
	Parent   expr.ElementID

	// Repeated is set when the element is the body of a `for` or `if`.
	Repeated *RepeatedInfo

	// ChildOfLayout is true when the parent element manages this
	// element's geometry.
	ChildOfLayout bool

	// DefaultFillParent records, per axis (horizontal then vertical),
	// that the width or height binding resolves to the parent's.
	DefaultFillParent [2]bool

	// LayoutInfoProp is set once the constraint aggregation has
	// synthesized the element's layout info properties.
	LayoutInfoProp *LayoutInfoProp

	// Node is the syntax node the element was built from, nil for
	// synthesized elements.
	Node *parser.Node
}

// Span returns the element's source region for diagnostics.
func (e *Element) Span() token.Span {
	if e.Node == nil {
		return token.Span{}
	}

	return e.Node.Span()
}

// LookupProperty resolves a property name against the element's own
// declarations first and its base type second.
func (e *Element) LookupProperty(name string) types.PropertyLookupResult {
	if decl, ok := e.PropertyDeclarations[name]; ok {
		return types.PropertyLookupResult{
			ResolvedName: name,
			Type:         decl.Type,
			Visibility:   decl.Visibility,
			Local:        true,
		}
	}

	r := e.Base.LookupProperty(name)
	r.Local = false

	return r
}

// BuiltinBase returns the builtin element at the bottom of the
// element's base chain, or nil when the chain ends elsewhere.
func (e *Element) BuiltinBase(a *Arena) *types.BuiltinElement {
	base := e.Base

	for {
		switch b := base.(type) {
		case *types.BuiltinElement:
			return b
		case *Component:
			base = a.Get(b.Root).Base
		default:
			return nil
		}
	}
}

// IsBindingSet reports whether a binding exists for the property on the
// element or anywhere down its base chain. With needExplicit only
// bindings written in the source count, not ones added by passes.
func (e *Element) IsBindingSet(a *Arena, name string, needExplicit bool) bool {
	if b, ok := e.Bindings[name]; ok &&
		b.HasBinding() && (!needExplicit || b.Priority > 0) {
		return true
	}

	if c, ok := e.Base.(*Component); ok {
		return a.Get(c.Root).IsBindingSet(a, name, needExplicit)
	}

	return false
}

// SetBindingIfNotSet installs the expression produced by fn as the
// property's binding unless one is already set. fn is only called when
// the binding will be used. Reports whether a binding was installed.
func (e *Element) SetBindingIfNotSet(
	a *Arena,
	name string,
	fn func() expr.Expression,
) bool {
	if e.IsBindingSet(a, name, false) {
		return false
	}

	if existing, ok := e.Bindings[name]; ok {
		if !existing.HasBinding() {
			existing.Expression = fn()
			existing.Priority = math.MaxInt32
		}

		return true
	}

	e.Bindings[name] = &Binding{
		Expression: fn(),
		Priority:   math.MaxInt32,
		Animation:  expr.NoElement,
	}

	return true
}

// RewriteExpressions applies fn to every resolved expression attached
// to the element: bindings, the repeater model, and the bindings of
// animation elements. The property name is empty for the model.
func (e *Element) RewriteExpressions(
	a *Arena,
	fn func(name string, x expr.Expression) expr.Expression,
) {
	for name, b := range e.Bindings {
		if b.Expression != nil {
			b.Expression = fn(name, b.Expression)
		}

		if b.Animation != expr.NoElement {
			anim := a.Get(b.Animation)
			for aname, ab := range anim.Bindings {
				if ab.Expression != nil {
					ab.Expression = fn(aname, ab.Expression)
				}
			}
		}
	}

	if e.Repeated != nil && e.Repeated.Model != nil {
		e.Repeated.Model = fn("", e.Repeated.Model)
	}
}

// Binding holds one property's bound expression. Expression stays nil
// between tree construction and expression resolution; Node keeps the
// syntax to resolve it from.
type Binding struct {
	Expression expr.Expression
	Node       *parser.Node
	Span       token.Span

	// Priority is positive for bindings written in the source and zero
	// or MaxInt32 for ones installed by the compiler; when bindings
	// merge across a base chain the higher priority survives.
	Priority int

	// Animation points to the element holding `animate` modifiers for
	// the property, NoElement when the property is not animated.
	Animation expr.ElementID

	// TwoWay lists the properties this binding is aliased with.
	TwoWay []expr.NamedReference
}

// NewUncompiledBinding creates a source binding whose expression will
// be resolved later from the given syntax node.
func NewUncompiledBinding(node *parser.Node) *Binding {
	return &Binding{
		Node:      node,
		Span:      node.Span(),
		Priority:  1,
		Animation: expr.NoElement,
	}
}

// HasBinding reports whether the binding carries an expression, an
// unresolved syntax node, or a two way alias.
func (b *Binding) HasBinding() bool {
	return b.Expression != nil || b.Node != nil || len(b.TwoWay) > 0
}

// PropertyDeclaration is a property, callback, or function declared on
// an element.
type PropertyDeclaration struct {
	Type       types.Type
	Visibility types.Visibility

	// Node is the declaration syntax, for diagnostics.
	Node *parser.Node

	// Alias is set when the declaration is a two way alias to another
	// element's property.
	Alias *expr.NamedReference
}

// RepeatedInfo describes the repeater wrapping an element that is the
// body of a `for` or `if`.
type RepeatedInfo struct {
	// Model is the repeated data source, nil until resolved from
	// ModelNode. For a conditional element it has type bool.
	Model     expr.Expression
	ModelNode *parser.Node

	// DataName and IndexName are the loop variable names; both empty
	// for a conditional element.
	DataName  string
	IndexName string

	IsConditional bool
}

// FindElementByID searches the subtree rooted at root for an element
// whose source id matches name, skipping the interiors of repeated
// elements. The search is depth first, so the innermost declaration of
// a duplicated id wins for the branch it is on.
func FindElementByID(a *Arena, root expr.ElementID, name string) (expr.ElementID, bool) {
	e := a.Get(root)
	if e == nil {
		return expr.NoElement, false
	}

	if e.Name == name {
		return root, true
	}

	for _, c := range e.Children {
		child := a.Get(c)
		if child.Repeated != nil {
			if child.Name == name {
				return c, true
			}

			continue
		}

		if id, ok := FindElementByID(a, c, name); ok {
			return id, true
		}
	}

	return expr.NoElement, false
}

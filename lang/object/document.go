package object

import (
	"strings"

	"github.com/ardnew/weft/lang/diag"
	"github.com/ardnew/weft/lang/expr"
	"github.com/ardnew/weft/lang/parser"
	"github.com/ardnew/weft/lang/token"
	"github.com/ardnew/weft/lang/types"
)

// Document is the semantic form of one parsed source file.
type Document struct {
	Node  *parser.Node
	Arena *Arena

	// Components lists every component declared in the file, in
	// declaration order.
	Components []*Component

	// Structs lists the named struct types declared in the file.
	Structs []types.Type

	// Root is the last component declared in the file, by convention
	// the one a consumer instantiates.
	Root *Component

	// Registry is the document-local type register, chained to the
	// register the document was built with.
	Registry *types.Register

	// Exports lists the names the document makes available to
	// importers.
	Exports []Export

	// StarExports holds the import paths of `export * from` clauses,
	// resolved by the document loader.
	StarExports []string
}

// Export is one exported name of a document: either a component or a
// named type.
type Export struct {
	Name      string
	Component *Component
	Type      types.Type
}

// Component is an instantiable type declared in the source. It serves
// as an element base so components can inherit from each other, and as
// the unit the lowering passes iterate over.
type Component struct {
	Name  string
	Root  expr.ElementID
	Arena *Arena

	// ParentElement is the repeated element this component was
	// materialized for, NoElement for source-declared components.
	ParentElement expr.ElementID
}

// TypeName returns the component's declared name.
func (c *Component) TypeName() string { return c.Name }

// LookupProperty resolves a property against the component's root
// element.
func (c *Component) LookupProperty(name string) types.PropertyLookupResult {
	r := c.Arena.Get(c.Root).LookupProperty(name)
	r.Local = false

	return r
}

// Global reports whether the component is a global singleton.
func (c *Component) Global() bool {
	switch base := c.Arena.Get(c.Root).Base.(type) {
	case GlobalBase:
		return true
	case *types.BuiltinElement:
		return base.IsGlobal
	default:
		return false
	}
}

// RecurseElements calls fn for every element of the component,
// parents first, including the root elements of components
// materialized for repeaters.
func (c *Component) RecurseElements(fn func(*Element)) {
	c.Arena.Recurse(c.Root, fn)
}

// ErrorBase marks an element whose base type could not be resolved. A
// diagnostic has been reported; property lookups come back invalid so
// downstream stages stay quiet about the same element.
type ErrorBase struct{}

// TypeName returns the placeholder display name.
func (ErrorBase) TypeName() string { return "<error>" }

// LookupProperty always reports an unknown property.
func (ErrorBase) LookupProperty(name string) types.PropertyLookupResult {
	return types.PropertyLookupResult{ResolvedName: name, Type: types.Invalid}
}

// Global returns false.
func (ErrorBase) Global() bool { return false }

// GlobalBase is the base of a `global` component's root element, which
// has no inherited properties at all.
type GlobalBase struct{}

// TypeName returns the keyword the base was declared with.
func (GlobalBase) TypeName() string { return "global" }

// LookupProperty always reports an unknown property; globals only have
// their own declarations.
func (GlobalBase) LookupProperty(name string) types.PropertyLookupResult {
	return types.PropertyLookupResult{ResolvedName: name, Type: types.Invalid}
}

// Global returns true.
func (GlobalBase) Global() bool { return true }

// BuildDocument constructs the semantic tree for a parsed document.
// Problems are reported to sink; the returned document is always
// structurally complete.
func BuildDocument(node *parser.Node, sink *diag.Sink, parent *types.Register) *Document {
	b := &builder{
		arena: NewArena(),
		sink:  sink,
		reg:   types.NewRegister(parent),
	}

	doc := &Document{
		Node:     node,
		Arena:    b.arena,
		Registry: b.reg,
	}

	for _, n := range node.Nodes() {
		switch n.Kind {
		case parser.KindComponent:
			doc.addComponent(b.buildComponent(n))
		case parser.KindStructDeclaration:
			doc.addStruct(b.buildStructDeclaration(n))
		case parser.KindEnumDeclaration:
			b.buildEnumDeclaration(n)
		case parser.KindExportsList:
			doc.buildExports(b, n)
		}
	}

	if len(doc.Components) > 0 {
		doc.Root = doc.Components[len(doc.Components)-1]
	}

	return doc
}

func (d *Document) addComponent(c *Component) {
	d.Components = append(d.Components, c)
	d.Registry.AddElement(c)
}

func (d *Document) addStruct(t types.Type) {
	if t.Kind != types.KindStruct {
		return
	}

	d.Structs = append(d.Structs, t)
	d.Registry.InsertTypeWithName(t.Fields.Name, t)
}

// buildExports processes one `export ...` clause: components and types
// declared inside it are built as usual and recorded as exported, and
// specifier lists are resolved against what the document declared.
func (d *Document) buildExports(b *builder, n *parser.Node) {
	for _, c := range n.Nodes() {
		switch c.Kind {
		case parser.KindComponent:
			compo := b.buildComponent(c)
			d.addComponent(compo)
			d.Exports = append(d.Exports, Export{Name: compo.Name, Component: compo})

		case parser.KindStructDeclaration:
			t := b.buildStructDeclaration(c)
			d.addStruct(t)

			if t.Kind == types.KindStruct {
				d.Exports = append(d.Exports, Export{Name: t.Fields.Name, Type: t})
			}

		case parser.KindEnumDeclaration:
			name := b.buildEnumDeclaration(c)
			if name != "" {
				d.Exports = append(d.Exports,
					Export{Name: name, Type: d.Registry.LookupType(name)})
			}

		case parser.KindExportSpecifier:
			d.resolveExportSpecifier(b, c)

		case parser.KindExportModule:
			if t, ok := c.ChildToken(token.StringLiteral); ok {
				d.StarExports = append(d.StarExports, strings.Trim(t.Text, `"`))
			}
		}
	}
}

func (d *Document) resolveExportSpecifier(b *builder, n *parser.Node) {
	inner := n.ChildNode(parser.KindExportIdentifier)
	if inner == nil {
		return
	}

	name := inner.IdentifierText()

	exported := name
	if as := n.ChildNode(parser.KindExportName); as != nil {
		exported = as.IdentifierText()
	}

	if base, err := d.Registry.LookupElement(name); err == nil {
		if compo, ok := base.(*Component); ok {
			d.Exports = append(d.Exports, Export{Name: exported, Component: compo})

			return
		}
	}

	if t := d.Registry.LookupType(name); t.Kind != types.KindInvalid {
		d.Exports = append(d.Exports, Export{Name: exported, Type: t})

		return
	}

	b.sink.PushErrorf(n.Span(), "'%s' not found", name)
}

type builder struct {
	arena *Arena
	sink  *diag.Sink
	reg   *types.Register
}

func (b *builder) buildComponent(node *parser.Node) *Component {
	name := ""
	if di := node.ChildNode(parser.KindDeclaredIdentifier); di != nil {
		name = di.IdentifierText()
	}

	isGlobal := node.ChildText(token.Identifier) == "global"
	_, legacy := node.ChildToken(token.ColonEqual)

	c := &Component{
		Name:          name,
		Arena:         b.arena,
		ParentElement: expr.NoElement,
	}

	elemNode := node.ChildNode(parser.KindElement)
	if elemNode == nil {
		c.Root = b.arena.New("root", ErrorBase{}).ID

		return c
	}

	root := b.buildElement(elemNode, "root", nil, isGlobal, legacy)
	c.Root = root.ID

	return c
}

// buildElement constructs the element for one Element node and,
// recursively, its children. parent is nil for a component root.
//
//nolint:gocyclo,cyclop,funlen
func (b *builder) buildElement(
	node *parser.Node,
	name string,
	parent *Element,
	isGlobal, legacy bool,
) *Element {
	base := b.resolveBase(node, parent, isGlobal)

	e := b.arena.New(name, base)
	e.Node = node

	if parent != nil {
		e.Parent = parent.ID

		if builtin, ok := parent.Base.(*types.BuiltinElement); ok && builtin.Layout {
			e.ChildOfLayout = true
		}
	}

	for _, decl := range node.ChildNodes(parser.KindPropertyDeclaration) {
		b.buildPropertyDeclaration(e, decl, legacy)
	}

	for _, child := range node.Nodes() {
		switch child.Kind {
		case parser.KindBinding:
			nameTok, ok := child.ChildToken(token.Identifier)
			if !ok {
				continue
			}

			b.addBinding(e, nameTok, child.ChildNode(parser.KindBindingExpression), legacy)

		case parser.KindTwoWayBinding:
			nameTok, ok := child.ChildToken(token.Identifier)
			if !ok {
				continue
			}

			b.addBinding(e, nameTok, child, legacy)
		}
	}

	for _, decl := range node.ChildNodes(parser.KindCallbackDeclaration) {
		b.buildCallbackDeclaration(e, decl)
	}

	for _, fn := range node.ChildNodes(parser.KindFunction) {
		b.buildFunction(e, fn)
	}

	for _, con := range node.ChildNodes(parser.KindCallbackConnection) {
		b.buildCallbackConnection(e, con)
	}

	for _, anim := range node.ChildNodes(parser.KindPropertyAnimation) {
		b.buildPropertyAnimation(e, anim)
	}

	sawPlaceholder := false

	for _, child := range node.Nodes() {
		switch child.Kind {
		case parser.KindSubElement:
			b.attachChild(e, b.buildSubElement(child, e, legacy))

		case parser.KindRepeatedElement:
			sub := b.buildRepeatedElement(child, e, legacy)
			if sub != nil {
				b.attachChild(e, sub)
			}

		case parser.KindConditionalElement:
			sub := b.buildConditionalElement(child, e, legacy)
			if sub != nil {
				b.attachChild(e, sub)
			}

		case parser.KindChildrenPlaceholder:
			if sawPlaceholder {
				b.sink.PushError(
					"The @children placeholder can only appear once in an element",
					child.Span())
			}

			sawPlaceholder = true
		}
	}

	return e
}

func (b *builder) attachChild(parent, child *Element) {
	child.Parent = parent.ID
	parent.Children = append(parent.Children, child.ID)
}

// resolveBase determines the element's base type from its qualified
// name, reporting unknown and misused names.
func (b *builder) resolveBase(
	node *parser.Node,
	parent *Element,
	isGlobal bool,
) types.ElementBase {
	qn := node.ChildNode(parser.KindQualifiedName)

	switch {
	case qn != nil:
		found, err := b.reg.LookupElement(qn.QualifiedNameText())
		if err != nil {
			b.sink.PushError(err.Error(), qn.Span())

			return ErrorBase{}
		}

		if found.Global() {
			b.sink.PushError(
				"Cannot create an instance of a global component", qn.Span())

			return ErrorBase{}
		}

		return found

	case isGlobal && parent == nil:
		b.checkGlobalContent(node)

		return GlobalBase{}

	case parent == nil:
		// `component X { ... }` without inherits starts from Empty.
		if empty, err := b.reg.LookupElement("Empty"); err == nil {
			return empty
		}

		return ErrorBase{}

	default:
		// The parser already reported the missing base name.
		return ErrorBase{}
	}
}

// checkGlobalContent reports the element forms a global component
// cannot contain.
func (b *builder) checkGlobalContent(node *parser.Node) {
	for _, child := range node.Nodes() {
		what := ""

		switch child.Kind {
		case parser.KindSubElement, parser.KindRepeatedElement,
			parser.KindConditionalElement, parser.KindChildrenPlaceholder:
			what = "sub elements"
		case parser.KindPropertyAnimation:
			what = "animations"
		case parser.KindStates:
			what = "states"
		case parser.KindTransitions:
			what = "transitions"
		}

		if what != "" {
			b.sink.PushErrorf(child.Span(), "A global component cannot have %s", what)
		}
	}
}

//nolint:gocyclo,cyclop
func (b *builder) buildPropertyDeclaration(e *Element, node *parser.Node, legacy bool) {
	ty := types.InferredProperty
	if tn := node.ChildNode(parser.KindType); tn != nil {
		ty = b.typeFromNode(tn)
	}

	di := node.ChildNode(parser.KindDeclaredIdentifier)
	if di == nil {
		return
	}

	name := di.IdentifierText()
	if name == "" {
		return
	}

	existing := e.LookupProperty(name)

	switch existing.Type.Kind {
	case types.KindCallback:
		b.sink.PushErrorf(di.Span(),
			"Cannot declare property '%s' when a callback with the same name exists",
			existing.ResolvedName)

		return
	case types.KindInvalid:
		// A new declaration.
	default:
		b.sink.PushErrorf(di.Span(), "Cannot override property '%s'", existing.ResolvedName)

		return
	}

	seen := false
	visibility := types.Private

	if legacy {
		visibility = types.InOut
	}

	for _, t := range node.ChildTokens(token.Identifier) {
		vis, ok := visibilityKeyword(t.Text)
		if !ok {
			continue
		}

		if seen {
			b.sink.PushErrorf(t.Span, "Extra '%s' keyword", t.Text)

			continue
		}

		visibility, seen = vis, true
	}

	e.PropertyDeclarations[name] = &PropertyDeclaration{
		Type:       ty,
		Visibility: visibility,
		Node:       node,
	}

	binding := node.ChildNode(parser.KindBindingExpression)
	if binding == nil {
		binding = node.ChildNode(parser.KindTwoWayBinding)
	}

	if binding != nil {
		if _, dup := e.Bindings[name]; dup {
			b.sink.PushError("Duplicated property binding", di.Span())

			return
		}

		e.Bindings[name] = NewUncompiledBinding(binding)
	}
}

func visibilityKeyword(s string) (types.Visibility, bool) {
	switch s {
	case "in":
		return types.Input, true
	case "out":
		return types.Output, true
	case "in-out", "in_out":
		return types.InOut, true
	case "private":
		return types.Private, true
	default:
		return types.Private, false
	}
}

// addBinding records one `name: expr` or `name <=> other` binding,
// checking the property exists and may be assigned here.
//
//nolint:gocyclo,cyclop
func (b *builder) addBinding(
	e *Element,
	nameTok token.Token,
	bindingNode *parser.Node,
	legacy bool,
) {
	if bindingNode == nil {
		return
	}

	name := token.NormalizeIdentifier(nameTok.Text)
	lookup := e.LookupProperty(name)

	if !lookup.Type.IsPropertyType() {
		switch lookup.Type.Kind {
		case types.KindInvalid:
			if _, isErr := e.Base.(ErrorBase); !isErr {
				if e.Base.TypeName() == "Empty" {
					b.sink.PushErrorf(nameTok.Span, "Unknown property %s", name)
				} else {
					b.sink.PushErrorf(nameTok.Span,
						"Unknown property %s in %s", name, e.Base.TypeName())
				}
			}
		case types.KindCallback:
			b.sink.PushErrorf(nameTok.Span,
				"'%s' is a callback. Use `=>` to connect", name)
		default:
			b.sink.PushErrorf(nameTok.Span,
				"Cannot assign to %s in %s because it does not have a valid property type",
				name, e.Base.TypeName())
		}
	} else if !lookup.Local &&
		(lookup.Visibility == types.Private || lookup.Visibility == types.Output) {
		if legacy && lookup.Visibility == types.Output {
			b.sink.PushWarningf(nameTok.Span,
				"Assigning to output property '%s' is deprecated", name)
		} else {
			b.sink.PushErrorf(nameTok.Span,
				"Cannot assign to %s property '%s'", lookup.Visibility, name)
		}
	}

	if lookup.ResolvedName != name {
		b.deprecatedName(nameTok.Span, name, lookup.ResolvedName)
	}

	if _, dup := e.Bindings[lookup.ResolvedName]; dup {
		b.sink.PushError("Duplicated property binding", nameTok.Span)

		return
	}

	e.Bindings[lookup.ResolvedName] = NewUncompiledBinding(bindingNode)
}

func (b *builder) deprecatedName(span token.Span, old, new string) {
	b.sink.PushWarningf(span,
		"The property '%s' has been deprecated. Please use '%s' instead", old, new)
}

func (b *builder) buildCallbackDeclaration(e *Element, node *parser.Node) {
	di := node.ChildNode(parser.KindDeclaredIdentifier)
	if di == nil {
		return
	}

	name := di.IdentifierText()
	if name == "" {
		return
	}

	if tw := node.ChildNode(parser.KindTwoWayBinding); tw != nil {
		e.Bindings[name] = NewUncompiledBinding(tw)
		e.PropertyDeclarations[name] = &PropertyDeclaration{
			Type:       types.InferredCallback,
			Visibility: types.InOut,
			Node:       node,
		}

		return
	}

	existing := e.LookupProperty(name)
	if existing.Type.Kind != types.KindInvalid {
		switch {
		case existing.Type.Kind != types.KindCallback:
			b.sink.PushErrorf(di.Span(),
				"Cannot declare callback '%s' when a property with the same name exists",
				existing.ResolvedName)
		case e.PropertyDeclarations[name] != nil:
			b.sink.PushError("Duplicated callback declaration", di.Span())
		default:
			b.sink.PushErrorf(di.Span(),
				"Cannot override callback '%s'", existing.ResolvedName)
		}

		return
	}

	var args []types.Type
	for _, param := range node.ChildNodes(parser.KindCallbackDeclarationParameter) {
		if tn := param.ChildNode(parser.KindType); tn != nil {
			args = append(args, b.typeFromNode(tn))
		}
	}

	var ret *types.Type
	if rn := node.ChildNode(parser.KindReturnType); rn != nil {
		if tn := rn.ChildNode(parser.KindType); tn != nil {
			t := b.typeFromNode(tn)
			ret = &t
		}
	}

	e.PropertyDeclarations[name] = &PropertyDeclaration{
		Type:       types.Callback(ret, args...),
		Visibility: types.InOut,
		Node:       node,
	}
}

func (b *builder) buildFunction(e *Element, node *parser.Node) {
	di := node.ChildNode(parser.KindDeclaredIdentifier)
	if di == nil {
		return
	}

	name := di.IdentifierText()
	if name == "" {
		return
	}

	existing := e.LookupProperty(name)
	if existing.Type.Kind != types.KindInvalid {
		b.sink.PushErrorf(di.Span(),
			"Cannot declare function '%s' when a property with the same name exists",
			existing.ResolvedName)

		return
	}

	var args []types.Type
	for _, arg := range node.ChildNodes(parser.KindArgumentDeclaration) {
		if tn := arg.ChildNode(parser.KindType); tn != nil {
			args = append(args, b.typeFromNode(tn))
		}
	}

	ret := types.Void
	if rn := node.ChildNode(parser.KindReturnType); rn != nil {
		if tn := rn.ChildNode(parser.KindType); tn != nil {
			ret = b.typeFromNode(tn)
		}
	}

	visibility := types.Private

	for _, t := range node.ChildTokens(token.Identifier) {
		if t.Text == "public" {
			visibility = types.InOut
		}
	}

	e.PropertyDeclarations[name] = &PropertyDeclaration{
		Type:       types.Function(ret, args...),
		Visibility: visibility,
		Node:       node,
	}

	// The whole function node carries the argument names and body for
	// the resolver.
	e.Bindings[name] = NewUncompiledBinding(node)
}

func (b *builder) buildCallbackConnection(e *Element, node *parser.Node) {
	nameTok, ok := node.ChildToken(token.Identifier)
	if !ok {
		return
	}

	name := token.NormalizeIdentifier(nameTok.Text)
	lookup := e.LookupProperty(name)

	switch lookup.Type.Kind {
	case types.KindCallback:
		given := len(node.ChildNodes(parser.KindDeclaredIdentifier))
		if given > len(lookup.Type.Args) {
			b.sink.PushErrorf(nameTok.Span,
				"'%s' only has %d arguments, but %d were provided",
				name, len(lookup.Type.Args), given)
		}
	case types.KindInferredCallback:
		// Argument matching happens during resolution.
	default:
		b.sink.PushErrorf(nameTok.Span,
			"'%s' is not a callback in %s", name, e.Base.TypeName())

		return
	}

	if _, dup := e.Bindings[lookup.ResolvedName]; dup {
		b.sink.PushError("Duplicated callback", nameTok.Span)

		return
	}

	e.Bindings[lookup.ResolvedName] = NewUncompiledBinding(node)
}

//nolint:gocyclo,cyclop
func (b *builder) buildPropertyAnimation(e *Element, node *parser.Node) {
	if star, ok := node.ChildToken(token.Star); ok {
		b.sink.PushError(
			"catch-all property is only allowed within transitions", star.Span)
	}

	for _, qn := range node.ChildNodes(parser.KindQualifiedName) {
		nameText := qn.QualifiedNameText()
		if strings.Contains(nameText, ".") {
			b.sink.PushError(
				"Can only refer to property in the current element", qn.Span())

			continue
		}

		lookup := e.LookupProperty(nameText)

		if !b.reg.SupportsAnimation(lookup.Type) {
			b.sink.PushErrorf(qn.Span(),
				"'%s' is not a property that can be animated", nameText)

			continue
		}

		if !lookup.IsValidForAssignment() {
			b.sink.PushErrorf(qn.Span(),
				"Cannot animate %s property '%s'", lookup.Visibility, nameText)
		}

		if lookup.ResolvedName != nameText {
			b.deprecatedName(qn.Span(), nameText, lookup.ResolvedName)
		}

		animBase, err := b.reg.LookupElement("PropertyAnimation")
		if err != nil {
			continue
		}

		anim := b.arena.New("", animBase)

		for _, bind := range node.ChildNodes(parser.KindBinding) {
			nameTok, ok := bind.ChildToken(token.Identifier)
			if !ok {
				continue
			}

			b.addBinding(anim, nameTok, bind.ChildNode(parser.KindBindingExpression), false)
		}

		binding, ok := e.Bindings[lookup.ResolvedName]
		if !ok {
			binding = &Binding{Priority: 1, Span: qn.Span(), Animation: expr.NoElement}
			e.Bindings[lookup.ResolvedName] = binding
		}

		if binding.Animation != expr.NoElement {
			b.sink.PushError("Duplicated animation", qn.Span())

			continue
		}

		binding.Animation = anim.ID
	}
}

func (b *builder) buildSubElement(node *parser.Node, parent *Element, legacy bool) *Element {
	id := ""
	if t, ok := node.ChildToken(token.Identifier); ok {
		id = token.NormalizeIdentifier(t.Text)

		switch id {
		case "parent", "self", "root":
			b.sink.PushErrorf(t.Span, "'%s' is a reserved id", id)
		}
	}

	elemNode := node.ChildNode(parser.KindElement)
	if elemNode == nil {
		return b.arena.New(id, ErrorBase{})
	}

	return b.buildElement(elemNode, id, parent, false, legacy)
}

func (b *builder) buildRepeatedElement(node *parser.Node, parent *Element, legacy bool) *Element {
	sub := node.ChildNode(parser.KindSubElement)
	if sub == nil {
		return nil
	}

	info := &RepeatedInfo{
		ModelNode: node.ChildNode(parser.KindExpression),
	}

	if di := node.ChildNode(parser.KindDeclaredIdentifier); di != nil {
		info.DataName = di.IdentifierText()
	}

	if idx := node.ChildNode(parser.KindRepeatedIndex); idx != nil {
		info.IndexName = idx.IdentifierText()
	}

	e := b.buildSubElement(sub, parent, legacy)
	e.Repeated = info

	return e
}

func (b *builder) buildConditionalElement(node *parser.Node, parent *Element, legacy bool) *Element {
	sub := node.ChildNode(parser.KindSubElement)
	if sub == nil {
		return nil
	}

	e := b.buildSubElement(sub, parent, legacy)
	e.Repeated = &RepeatedInfo{
		ModelNode:     node.ChildNode(parser.KindExpression),
		IsConditional: true,
	}

	return e
}

// typeFromNode resolves a Type syntax node to a semantic type,
// reporting unknown and non-property type names.
func (b *builder) typeFromNode(node *parser.Node) types.Type {
	if qn := node.ChildNode(parser.KindQualifiedName); qn != nil {
		name := qn.QualifiedNameText()

		t := b.reg.LookupQualified(strings.Split(name, "."))
		if t.Kind == types.KindInvalid {
			if _, err := b.reg.LookupElement(name); err != nil {
				b.sink.PushErrorf(qn.Span(), "Unknown type '%s'", name)
			}
		} else if !t.IsPropertyType() {
			b.sink.PushErrorf(qn.Span(), "'%s' is not a valid type", name)
		}

		return t
	}

	if on := node.ChildNode(parser.KindObjectType); on != nil {
		return b.typeStructFromNode("", on)
	}

	if an := node.ChildNode(parser.KindArrayType); an != nil {
		if tn := an.ChildNode(parser.KindType); tn != nil {
			return types.Array(b.typeFromNode(tn))
		}
	}

	return types.Invalid
}

func (b *builder) typeStructFromNode(name string, node *parser.Node) types.Type {
	var fields []types.StructField

	for _, member := range node.ChildNodes(parser.KindObjectTypeMember) {
		fieldName := member.IdentifierText()

		fieldType := types.Invalid
		if tn := member.ChildNode(parser.KindType); tn != nil {
			fieldType = b.typeFromNode(tn)
		}

		fields = append(fields, types.StructField{Name: fieldName, Type: fieldType})
	}

	return types.Struct(types.MakeStruct(name, fields...))
}

func (b *builder) buildStructDeclaration(node *parser.Node) types.Type {
	di := node.ChildNode(parser.KindDeclaredIdentifier)
	if di == nil {
		return types.Invalid
	}

	on := node.ChildNode(parser.KindObjectType)
	if on == nil {
		return types.Invalid
	}

	return b.typeStructFromNode(di.IdentifierText(), on)
}

// buildEnumDeclaration registers a declared enumeration and returns its
// name, empty when the declaration is unusable.
func (b *builder) buildEnumDeclaration(node *parser.Node) string {
	di := node.ChildNode(parser.KindDeclaredIdentifier)
	if di == nil {
		return ""
	}

	name := di.IdentifierText()
	if name == "" {
		return ""
	}

	idents := node.ChildTokens(token.Identifier)

	var values []string

	// The first identifier leaf is the `enum` keyword itself.
	for _, t := range idents[1:] {
		values = append(values, token.NormalizeIdentifier(t.Text))
	}

	b.reg.InsertTypeWithName(name,
		types.Enum(&types.Enumeration{Name: name, Values: values}))

	return name
}

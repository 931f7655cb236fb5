package types

import (
	"fmt"
	"strings"
)

// reservedGeometryProperties are injected into every item element.
//
//nolint:gochecknoglobals
var reservedGeometryProperties = []StructField{
	{Name: "x", Type: LogicalLength},
	{Name: "y", Type: LogicalLength},
	{Name: "width", Type: LogicalLength},
	{Name: "height", Type: LogicalLength},
	{Name: "z", Type: Float32},
}

//nolint:gochecknoglobals
var reservedLayoutProperties = []StructField{
	{Name: "min-width", Type: LogicalLength},
	{Name: "min-height", Type: LogicalLength},
	{Name: "max-width", Type: LogicalLength},
	{Name: "max-height", Type: LogicalLength},
	{Name: "padding", Type: LogicalLength},
	{Name: "padding-left", Type: LogicalLength},
	{Name: "padding-right", Type: LogicalLength},
	{Name: "padding-top", Type: LogicalLength},
	{Name: "padding-bottom", Type: LogicalLength},
	{Name: "preferred-width", Type: LogicalLength},
	{Name: "preferred-height", Type: LogicalLength},
	{Name: "horizontal-stretch", Type: Float32},
	{Name: "vertical-stretch", Type: Float32},
	{Name: "col", Type: Int32},
	{Name: "row", Type: Int32},
	{Name: "colspan", Type: Int32},
	{Name: "rowspan", Type: Int32},
}

//nolint:gochecknoglobals
var reservedOtherProperties = []StructField{
	{Name: "clip", Type: Bool},
	{Name: "opacity", Type: Float32},
	{Name: "visible", Type: Bool},
	{Name: "forward-focus", Type: ElementRef},
}

// ReservedProperties returns the properties injected into every item
// element.
func ReservedProperties() []StructField {
	out := make([]StructField, 0,
		len(reservedGeometryProperties)+len(reservedLayoutProperties)+len(reservedOtherProperties))
	out = append(out, reservedGeometryProperties...)
	out = append(out, reservedLayoutProperties...)
	out = append(out, reservedOtherProperties...)

	return out
}

// ReservedProperty resolves one reserved property by name, following
// the deprecated minimum-/maximum- spellings to their min-/max- forms.
func ReservedProperty(name string) PropertyLookupResult {
	for _, p := range ReservedProperties() {
		if p.Name == name {
			return PropertyLookupResult{
				ResolvedName: name,
				Type:         p.Type,
				Visibility:   InOut,
			}
		}
	}

	for _, pre := range []string{"min", "max"} {
		rest, ok := strings.CutPrefix(name, pre)
		if !ok {
			continue
		}

		for _, suf := range []string{"width", "height"} {
			if mid, ok := strings.CutSuffix(rest, suf); ok && mid == "imum-" {
				return PropertyLookupResult{
					ResolvedName: pre + "-" + suf,
					Type:         LogicalLength,
					Visibility:   InOut,
				}
			}
		}
	}

	return PropertyLookupResult{ResolvedName: name, Type: Invalid}
}

// Register resolves type and element names. Registers chain to a
// parent; a document-local register is created per compilation unit on
// top of the shared builtin register.
type Register struct {
	parent   *Register
	types    map[string]Type
	elements map[string]ElementBase
	animable map[Kind]struct{}
}

// NewRegister returns an empty register chained to parent.
func NewRegister(parent *Register) *Register {
	return &Register{
		parent:   parent,
		types:    map[string]Type{},
		elements: map[string]ElementBase{},
	}
}

// InsertType registers t under its display name.
func (r *Register) InsertType(t Type) {
	r.types[t.String()] = t
}

// InsertTypeWithName registers t under an explicit name.
func (r *Register) InsertTypeWithName(name string, t Type) {
	r.types[name] = t
}

// AddElement registers base under its type name.
func (r *Register) AddElement(base ElementBase) {
	r.elements[base.TypeName()] = base
}

// AddElementWithName registers base under an explicit name, as when an
// import renames the component it brings in.
func (r *Register) AddElementWithName(name string, base ElementBase) {
	r.elements[name] = base
}

// LookupType resolves a type name through the parent chain, returning
// Invalid when unknown.
func (r *Register) LookupType(name string) Type {
	if t, ok := r.types[name]; ok {
		return t
	}

	if r.parent != nil {
		return r.parent.LookupType(name)
	}

	return Invalid
}

// LookupQualified resolves a dotted type name. Only single-segment
// names denote types.
func (r *Register) LookupQualified(segments []string) Type {
	if len(segments) != 1 {
		return Invalid
	}

	return r.LookupType(segments[0])
}

// LookupElement resolves an element base name through the parent chain.
func (r *Register) LookupElement(name string) (ElementBase, error) {
	if b, ok := r.elements[name]; ok {
		return b, nil
	}

	if r.parent != nil {
		return r.parent.LookupElement(name)
	}

	if t := r.LookupType(name); t.Kind != KindInvalid {
		return nil, fmt.Errorf("'%s' cannot be used as an element", t)
	}

	return nil, fmt.Errorf("unknown type %s", name)
}

// ElementNames returns the names of elements registered locally and up
// the parent chain, for suggestion candidates.
func (r *Register) ElementNames() []string {
	var names []string
	for reg := r; reg != nil; reg = reg.parent {
		for name := range reg.elements {
			names = append(names, name)
		}
	}

	return names
}

// Globals returns every registered global singleton base, locals
// shadowing parents.
func (r *Register) Globals() map[string]ElementBase {
	var out map[string]ElementBase
	if r.parent != nil {
		out = r.parent.Globals()
	} else {
		out = map[string]ElementBase{}
	}

	for name, b := range r.elements {
		if b.Global() {
			out[name] = b
		}
	}

	return out
}

// SupportsAnimation reports whether properties of this type may be
// animated.
func (r *Register) SupportsAnimation(t Type) bool {
	if _, ok := r.animable[t.Kind]; ok {
		return true
	}

	if r.parent != nil {
		return r.parent.SupportsAnimation(t)
	}

	return false
}

// Builtin constructs the shared root register holding the language's
// builtin property types, enumerations, and elements.
//
//nolint:funlen
func Builtin() *Register {
	r := NewRegister(nil)

	for _, t := range []Type{
		Float32, Int32, String, PhysicalLength, LogicalLength, Color,
		Duration, Image, Bool, Model, Percent, Easing, Angle, Brush,
	} {
		r.InsertType(t)
	}

	declareEnum := func(name string, values ...string) *Enumeration {
		e := &Enumeration{Name: name, Values: values}
		r.InsertTypeWithName(name, Enum(e))

		return e
	}

	declareEnum("TextHorizontalAlignment", "left", "center", "right")
	declareEnum("TextVerticalAlignment", "top", "center", "bottom")
	declareEnum("TextWrap", "no-wrap", "word-wrap")
	declareEnum("TextOverflow", "clip", "elide")
	imageFit := declareEnum("ImageFit", "fill", "contain", "cover")
	declareEnum("ImageRendering", "smooth", "pixelated")
	declareEnum("EventResult", "reject", "accept")
	declareEnum("LayoutAlignment",
		"stretch", "center", "start", "end", "space-between", "space-around")

	r.animable = map[Kind]struct{}{
		KindFloat32:        {},
		KindInt32:          {},
		KindColor:          {},
		KindPhysicalLength: {},
		KindLogicalLength:  {},
		KindBrush:          {},
		KindAngle:          {},
	}

	r.AddElement(&BuiltinElement{
		Name:       "Empty",
		Properties: map[string]PropertyInfo{},
	})

	r.AddElement(&BuiltinElement{
		Name: "Rectangle",
		Properties: map[string]PropertyInfo{
			"background":    {Type: Brush, Visibility: InOut},
			"border-width":  {Type: LogicalLength, Visibility: InOut},
			"border-radius": {Type: LogicalLength, Visibility: InOut},
			"border-color":  {Type: Brush, Visibility: InOut},
		},
		DeprecatedAliases:  map[string]string{"color": "background"},
		DefaultSizeBinding: SizeExpandsToParent,
	})

	r.AddElement(&BuiltinElement{
		Name: "Image",
		Properties: map[string]PropertyInfo{
			"source":             {Type: Image, Visibility: InOut},
			"image-fit":          {Type: Enum(imageFit), Visibility: InOut},
			"colorize":           {Type: Brush, Visibility: InOut},
			"source-clip-x":      {Type: Int32, Visibility: InOut},
			"source-clip-y":      {Type: Int32, Visibility: InOut},
			"source-clip-width":  {Type: Int32, Visibility: InOut},
			"source-clip-height": {Type: Int32, Visibility: InOut},
		},
		DefaultSizeBinding: SizeImplicit,
	})

	r.AddElement(&BuiltinElement{
		Name: "Text",
		Properties: map[string]PropertyInfo{
			"text":                 {Type: String, Visibility: InOut},
			"color":                {Type: Brush, Visibility: InOut},
			"font-size":            {Type: LogicalLength, Visibility: InOut},
			"horizontal-alignment": {Type: r.LookupType("TextHorizontalAlignment"), Visibility: InOut},
			"vertical-alignment":   {Type: r.LookupType("TextVerticalAlignment"), Visibility: InOut},
			"wrap":                 {Type: r.LookupType("TextWrap"), Visibility: InOut},
			"overflow":             {Type: r.LookupType("TextOverflow"), Visibility: InOut},
		},
		DefaultSizeBinding: SizeImplicit,
	})

	r.AddElement(&BuiltinElement{
		Name: "TouchArea",
		Properties: map[string]PropertyInfo{
			"pressed": {Type: Bool, Visibility: Output},
			"enabled": {Type: Bool, Visibility: InOut},
			"clicked": {Type: Callback(nil), Visibility: InOut},
		},
		DefaultSizeBinding: SizeExpandsToParent,
	})

	r.AddElement(&BuiltinElement{
		Name: "Window",
		Properties: map[string]PropertyInfo{
			"title":      {Type: String, Visibility: InOut},
			"background": {Type: Brush, Visibility: InOut},
			"icon":       {Type: Image, Visibility: InOut},
		},
		DefaultSizeBinding: SizeExpandsToParent,
	})

	layoutProps := map[string]PropertyInfo{
		"spacing":        {Type: LogicalLength, Visibility: InOut},
		"padding":        {Type: LogicalLength, Visibility: InOut},
		"padding-left":   {Type: LogicalLength, Visibility: InOut},
		"padding-right":  {Type: LogicalLength, Visibility: InOut},
		"padding-top":    {Type: LogicalLength, Visibility: InOut},
		"padding-bottom": {Type: LogicalLength, Visibility: InOut},
		"alignment":      {Type: r.LookupType("LayoutAlignment"), Visibility: InOut},
	}
	r.AddElement(&BuiltinElement{
		Name:       "VerticalLayout",
		Properties: layoutProps,
		Layout:     true,
	})
	r.AddElement(&BuiltinElement{
		Name:       "HorizontalLayout",
		Properties: layoutProps,
		Layout:     true,
	})

	r.AddElement(&BuiltinElement{
		Name: "PropertyAnimation",
		Properties: map[string]PropertyInfo{
			"duration":        {Type: Duration, Visibility: InOut},
			"delay":           {Type: Duration, Visibility: InOut},
			"easing":          {Type: Easing, Visibility: InOut},
			"iteration-count": {Type: Float32, Visibility: InOut},
		},
		NonItem: true,
	})

	return r
}

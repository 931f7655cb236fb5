package types

// Visibility controls who may read or assign a property.
type Visibility uint8

const (
	// Private properties are only visible inside the declaring
	// component.
	Private Visibility = iota
	// Input properties may be set from outside but not assigned inside.
	Input
	// Output properties may be read from outside but only assigned
	// inside.
	Output
	// InOut properties are readable and assignable everywhere.
	InOut
)

// String returns the visibility keyword as written in source.
func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Input:
		return "in"
	case Output:
		return "out"
	case InOut:
		return "in-out"
	default:
		return "private"
	}
}

// PropertyInfo describes one property of a builtin element.
type PropertyInfo struct {
	Type       Type
	Visibility Visibility
}

// SizeBinding selects how an element's width and height default when no
// explicit binding exists.
type SizeBinding uint8

const (
	// SizeNone installs no default size binding.
	SizeNone SizeBinding = iota
	// SizeExpandsToParent defaults both axes to the parent's geometry.
	SizeExpandsToParent
	// SizeImplicit defaults to the element's implicit content size.
	SizeImplicit
)

// PropertyLookupResult is the outcome of resolving a property name on
// an element base. ResolvedName differs from the queried name when a
// deprecated alias was followed.
type PropertyLookupResult struct {
	ResolvedName string
	Type         Type
	Visibility   Visibility
	// Local is true when the property belongs to the component being
	// compiled rather than to a base or builtin.
	Local bool
}

// IsValid reports whether the lookup found a property.
func (r PropertyLookupResult) IsValid() bool {
	return r.Type.Kind != KindInvalid
}

// IsValidForAssignment reports whether the property may appear on the
// left side of an assignment in the current component.
func (r PropertyLookupResult) IsValidForAssignment() bool {
	switch {
	case r.Visibility == Private && !r.Local:
		return false
	case r.Visibility == Input && r.Local:
		return false
	case r.Visibility == Output && !r.Local:
		return false
	default:
		return true
	}
}

// ElementBase is anything an element can be based on: a builtin element
// description or a user-declared component.
type ElementBase interface {
	// TypeName is the name the base is registered under.
	TypeName() string
	// LookupProperty resolves a property by (normalized) name.
	LookupProperty(name string) PropertyLookupResult
	// Global reports whether the base is a global singleton.
	Global() bool
}

// BuiltinElement describes one element type built into the runtime.
type BuiltinElement struct {
	Name               string
	Properties         map[string]PropertyInfo
	DeprecatedAliases  map[string]string
	DefaultSizeBinding SizeBinding

	// NonItem types (such as animations) do not receive the reserved
	// geometry properties.
	NonItem bool

	// Layout marks container types whose children are positioned by
	// layout solving rather than by x/y bindings.
	Layout bool

	// IsGlobal marks global singleton bases.
	IsGlobal bool
}

// TypeName implements ElementBase.
func (b *BuiltinElement) TypeName() string { return b.Name }

// Global implements ElementBase.
func (b *BuiltinElement) Global() bool { return b.IsGlobal }

// LookupProperty resolves a property on the builtin: deprecated aliases
// first, then declared properties, then the reserved set (unless the
// builtin is a non-item type).
func (b *BuiltinElement) LookupProperty(name string) PropertyLookupResult {
	resolved := name
	if alias, ok := b.DeprecatedAliases[name]; ok {
		resolved = alias
	}

	if p, ok := b.Properties[resolved]; ok {
		return PropertyLookupResult{
			ResolvedName: resolved,
			Type:         p.Type,
			Visibility:   p.Visibility,
		}
	}

	if b.NonItem {
		return PropertyLookupResult{ResolvedName: resolved, Type: Invalid}
	}

	return ReservedProperty(name)
}

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeString(t *testing.T) {
	for _, tt := range []struct {
		typ  Type
		want string
	}{
		{Invalid, "<error>"},
		{Float32, "float"},
		{Int32, "int"},
		{LogicalLength, "length"},
		{PhysicalLength, "physical-length"},
		{Array(String), "[string]"},
		{Enum(&Enumeration{Name: "ImageFit"}), "enum ImageFit"},
		{Function(Int32, Float32, Float32), "function(float,float) -> int"},
		{Callback(nil), "callback"},
	} {
		assert.Equal(t, tt.want, tt.typ.String())
	}
}

func TestTypeEqual(t *testing.T) {
	assert.True(t, Float32.Equal(Float32))
	assert.False(t, Float32.Equal(Int32))
	assert.True(t, Array(Bool).Equal(Array(Bool)))
	assert.False(t, Array(Bool).Equal(Array(Int32)))

	a := Struct(MakeStruct("P",
		StructField{Name: "x", Type: LogicalLength},
		StructField{Name: "y", Type: LogicalLength}))
	b := Struct(MakeStruct("P",
		StructField{Name: "y", Type: LogicalLength},
		StructField{Name: "x", Type: LogicalLength}))

	assert.True(t, a.Equal(b), "field order must not matter")
}

func TestCanConvert(t *testing.T) {
	assert.True(t, Float32.CanConvert(Int32))
	assert.True(t, Int32.CanConvert(String))
	assert.True(t, Percent.CanConvert(Float32))
	assert.True(t, Brush.CanConvert(Color))
	assert.True(t, Array(Int32).CanConvert(Model))
	assert.False(t, String.CanConvert(Int32))
	assert.False(t, Bool.CanConvert(Color))
}

func TestDefaultUnit(t *testing.T) {
	u, ok := LogicalLength.DefaultUnit()
	require.True(t, ok)
	assert.Equal(t, UnitPx, u)

	_, ok = Percent.DefaultUnit()
	assert.False(t, ok)
}

func TestUnitNormalize(t *testing.T) {
	assert.InDelta(t, 1000.0, UnitS.Normalize(1), 1e-9)
	assert.InDelta(t, 96.0, UnitIn.Normalize(1), 1e-9)
	assert.InDelta(t, 360.0, UnitTurn.Normalize(1), 1e-9)
	assert.InDelta(t, 42.0, UnitPx.Normalize(42), 1e-9)
}

func TestParseUnit(t *testing.T) {
	u, ok := ParseUnit("px")
	require.True(t, ok)
	assert.Equal(t, UnitPx, u)

	u, ok = ParseUnit("%")
	require.True(t, ok)
	assert.Equal(t, UnitPercent, u)

	_, ok = ParseUnit("furlong")
	assert.False(t, ok)
}

func TestReservedProperty(t *testing.T) {
	r := ReservedProperty("width")
	assert.True(t, r.IsValid())
	assert.Equal(t, LogicalLength, r.Type)

	r = ReservedProperty("minimum-width")
	assert.True(t, r.IsValid())
	assert.Equal(t, "min-width", r.ResolvedName)

	r = ReservedProperty("bogus")
	assert.False(t, r.IsValid())
}

func TestBuiltinRegister(t *testing.T) {
	r := Builtin()

	rect, err := r.LookupElement("Rectangle")
	require.NoError(t, err)

	p := rect.LookupProperty("background")
	assert.Equal(t, Brush, p.Type)

	// Deprecated alias resolves but reports the canonical name.
	p = rect.LookupProperty("color")
	assert.Equal(t, "background", p.ResolvedName)
	assert.Equal(t, Brush, p.Type)

	// Reserved geometry is visible on every item.
	p = rect.LookupProperty("width")
	assert.Equal(t, LogicalLength, p.Type)

	_, err = r.LookupElement("Rectangel")
	assert.Error(t, err)

	anim, err := r.LookupElement("PropertyAnimation")
	require.NoError(t, err)
	assert.False(t, anim.LookupProperty("width").IsValid(),
		"non-item types have no reserved geometry")
}

func TestRegisterChaining(t *testing.T) {
	root := Builtin()
	local := NewRegister(root)

	local.AddElement(&BuiltinElement{Name: "Rectangle", NonItem: true})

	b, err := local.LookupElement("Rectangle")
	require.NoError(t, err)
	assert.True(t, b.(*BuiltinElement).NonItem, "local registration shadows parent")

	assert.Equal(t, LogicalLength, local.LookupType("length"))
}

func TestSupportsAnimation(t *testing.T) {
	r := NewRegister(Builtin())

	assert.True(t, r.SupportsAnimation(LogicalLength))
	assert.True(t, r.SupportsAnimation(Brush))
	assert.False(t, r.SupportsAnimation(String))
	assert.False(t, r.SupportsAnimation(Bool))
}

func TestLayoutInfoType(t *testing.T) {
	li := LayoutInfoType()
	require.Equal(t, KindStruct, li.Kind)

	ft, ok := li.Fields.Field("preferred")
	require.True(t, ok)
	assert.Equal(t, LogicalLength, ft)

	ft, ok = li.Fields.Field("stretch")
	require.True(t, ok)
	assert.Equal(t, Float32, ft)
}

package lookup

import (
	"github.com/ardnew/weft/lang/expr"
	"github.com/ardnew/weft/lang/types"
)

// namedColor pairs a CSS color name with its ARGB value.
type namedColor struct {
	name string
	argb uint32
}

// namedColors holds the CSS named colors, resolvable wherever a color
// or brush is expected and as members of the Colors namespace.
//
//nolint:gochecknoglobals
var namedColors = []namedColor{
	{"transparent", 0x00000000},
	{"aliceblue", 0xfff0f8ff},
	{"aqua", 0xff00ffff},
	{"azure", 0xfff0ffff},
	{"beige", 0xfff5f5dc},
	{"black", 0xff000000},
	{"blue", 0xff0000ff},
	{"brown", 0xffa52a2a},
	{"chocolate", 0xffd2691e},
	{"coral", 0xffff7f50},
	{"crimson", 0xffdc143c},
	{"cyan", 0xff00ffff},
	{"darkblue", 0xff00008b},
	{"darkgray", 0xffa9a9a9},
	{"darkgreen", 0xff006400},
	{"darkgrey", 0xffa9a9a9},
	{"darkred", 0xff8b0000},
	{"dimgray", 0xff696969},
	{"fuchsia", 0xffff00ff},
	{"gold", 0xffffd700},
	{"gray", 0xff808080},
	{"green", 0xff008000},
	{"grey", 0xff808080},
	{"honeydew", 0xfff0fff0},
	{"indigo", 0xff4b0082},
	{"ivory", 0xfffffff0},
	{"khaki", 0xfff0e68c},
	{"lavender", 0xffe6e6fa},
	{"lightblue", 0xffadd8e6},
	{"lightgray", 0xffd3d3d3},
	{"lightgreen", 0xff90ee90},
	{"lightgrey", 0xffd3d3d3},
	{"lime", 0xff00ff00},
	{"linen", 0xfffaf0e6},
	{"magenta", 0xffff00ff},
	{"maroon", 0xff800000},
	{"navy", 0xff000080},
	{"olive", 0xff808000},
	{"orange", 0xffffa500},
	{"orchid", 0xffda70d6},
	{"pink", 0xffffc0cb},
	{"plum", 0xffdda0dd},
	{"purple", 0xff800080},
	{"red", 0xffff0000},
	{"salmon", 0xfffa8072},
	{"silver", 0xffc0c0c0},
	{"skyblue", 0xff87ceeb},
	{"slategray", 0xff708090},
	{"snow", 0xfffffafa},
	{"steelblue", 0xff4682b4},
	{"tan", 0xffd2b48c},
	{"teal", 0xff008080},
	{"tomato", 0xffff6347},
	{"turquoise", 0xff40e0d0},
	{"violet", 0xffee82ee},
	{"wheat", 0xfff5deb3},
	{"white", 0xffffffff},
	{"yellow", 0xffffff00},
}

// colorProbe resolves CSS color names to color-typed number casts.
type colorProbe struct{}

func (colorProbe) forEach(_ *Ctx, fn func(string, Result) bool) bool {
	for _, c := range namedColors {
		if fn(c.name, colorResult(c.argb)) {
			return true
		}
	}

	return false
}

func (colorProbe) find(_ *Ctx, name string) (Result, bool) {
	for _, c := range namedColors {
		if c.name == name {
			return colorResult(c.argb), true
		}
	}

	return Result{}, false
}

func colorResult(argb uint32) Result {
	return Result{Expression: &expr.Cast{
		From: &expr.NumberLiteral{Value: float64(argb), Unit: types.UnitNone},
		To:   types.Color,
	}}
}

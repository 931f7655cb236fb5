package resolve

import (
	"strconv"
	"strings"

	"github.com/ardnew/weft/lang/expr"
	"github.com/ardnew/weft/lang/token"
	"github.com/ardnew/weft/lang/types"
)

// stringLiteral strips the quotes from a string token. The lexer only
// produces escape-free strings, so the content is the literal value.
func (r *resolver) stringLiteral(t token.Token) expr.Expression {
	if len(t.Text) < 2 || t.Text[0] != '"' || t.Text[len(t.Text)-1] != '"' {
		r.sink.PushError("Cannot parse string literal", t.Span)

		return &expr.Invalid{}
	}

	return &expr.StringLiteral{Value: t.Text[1 : len(t.Text)-1]}
}

// numberLiteral splits a number token into its value and unit suffix.
func (r *resolver) numberLiteral(t token.Token) expr.Expression {
	text := t.Text

	end := 0
	for end < len(text) && (text[end] >= '0' && text[end] <= '9' || text[end] == '.') {
		end++
	}

	value, err := strconv.ParseFloat(text[:end], 64)
	if err != nil {
		r.sink.PushError("Cannot parse number literal", t.Span)

		return &expr.Invalid{}
	}

	unit, ok := types.ParseUnit(text[end:])
	if !ok {
		r.sink.PushErrorf(t.Span, "Invalid unit '%s'", text[end:])

		return &expr.Invalid{}
	}

	return &expr.NumberLiteral{Value: value, Unit: unit}
}

func (r *resolver) colorLiteral(t token.Token) expr.Expression {
	argb, ok := parseColorLiteral(t.Text)
	if !ok {
		r.sink.PushError("Invalid color literal", t.Span)

		return &expr.Invalid{}
	}

	return &expr.Cast{
		From: &expr.NumberLiteral{Value: float64(argb), Unit: types.UnitNone},
		To:   types.Color,
	}
}

// parseColorLiteral decodes #rgb, #rgba, #rrggbb, and #rrggbbaa into a
// packed ARGB value. Single hex digits duplicate, so #f00 is #ff0000.
func parseColorLiteral(text string) (uint32, bool) {
	hex, found := strings.CutPrefix(text, "#")
	if !found {
		return 0, false
	}

	width := 0

	switch len(hex) {
	case 3, 4:
		width = 1
	case 6, 8:
		width = 2
	default:
		return 0, false
	}

	// red, green, blue, alpha in source order.
	parts := [4]uint32{0, 0, 0, 0xff}

	for i := 0; i < len(hex)/width; i++ {
		v, err := strconv.ParseUint(hex[i*width:(i+1)*width], 16, 32)
		if err != nil {
			return 0, false
		}

		if width == 1 {
			v *= 0x11
		}

		parts[i] = uint32(v)
	}

	return parts[3]<<24 | parts[0]<<16 | parts[1]<<8 | parts[2], true
}

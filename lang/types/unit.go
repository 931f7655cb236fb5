package types

import "math"

// Unit is a measurement unit that can follow a number literal.
type Unit uint8

const (
	// UnitNone marks a plain number with no unit suffix.
	UnitNone Unit = iota
	// UnitPercent is a fraction of the parent's same-named property.
	UnitPercent
	// UnitPhx is physical (device) pixels.
	UnitPhx
	// UnitPx is logical pixels.
	UnitPx
	// UnitCm is centimeters.
	UnitCm
	// UnitMm is millimeters.
	UnitMm
	// UnitIn is inches.
	UnitIn
	// UnitPt is typographic points.
	UnitPt
	// UnitS is seconds.
	UnitS
	// UnitMs is milliseconds.
	UnitMs
	// UnitDeg is degrees.
	UnitDeg
	// UnitGrad is gradians.
	UnitGrad
	// UnitTurn is full turns.
	UnitTurn
	// UnitRad is radians.
	UnitRad
)

//nolint:gochecknoglobals
var unitSuffixes = map[Unit]string{
	UnitNone:    "",
	UnitPercent: "%",
	UnitPhx:     "phx",
	UnitPx:      "px",
	UnitCm:      "cm",
	UnitMm:      "mm",
	UnitIn:      "in",
	UnitPt:      "pt",
	UnitS:       "s",
	UnitMs:      "ms",
	UnitDeg:     "deg",
	UnitGrad:    "grad",
	UnitTurn:    "turn",
	UnitRad:     "rad",
}

// String returns the suffix as written in source.
func (u Unit) String() string { return unitSuffixes[u] }

// ParseUnit maps a number literal's suffix to its Unit.
func ParseUnit(suffix string) (Unit, bool) {
	for u, s := range unitSuffixes {
		if s == suffix {
			return u, true
		}
	}

	return UnitNone, false
}

// Type returns the value type a literal with this unit takes.
func (u Unit) Type() Type {
	switch u {
	case UnitNone:
		return Float32
	case UnitPercent:
		return Percent
	case UnitPhx:
		return PhysicalLength
	case UnitPx, UnitCm, UnitMm, UnitIn, UnitPt:
		return LogicalLength
	case UnitS, UnitMs:
		return Duration
	case UnitDeg, UnitGrad, UnitTurn, UnitRad:
		return Angle
	default:
		return Invalid
	}
}

// Normalize converts a value in this unit to the type's canonical unit
// (logical pixels for lengths, milliseconds for durations, degrees for
// angles).
func (u Unit) Normalize(x float64) float64 {
	switch u {
	case UnitCm:
		return x * 37.8
	case UnitMm:
		return x * 3.78
	case UnitIn:
		return x * 96
	case UnitPt:
		return x * 96.0 / 72.0
	case UnitS:
		return x * 1000
	case UnitGrad:
		return x * 360.0 / 180.0
	case UnitTurn:
		return x * 360
	case UnitRad:
		return x * 360.0 / (2 * math.Pi)
	default:
		return x
	}
}

// UnitPower is one factor of a product-of-units type.
type UnitPower struct {
	Unit  Unit
	Power int8
}

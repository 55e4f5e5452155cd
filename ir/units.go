package ir

import "strings"

// Unit is a physical unit attached to a size-like property. Names follow the
// source renderer vocabulary; unknown names are kept verbatim so translators
// can report them. UnitMapMeter is "meters in map units": size scales with
// the map.
type Unit string

const (
	UnitNone       Unit = ""
	UnitMillimeter Unit = "MM"
	UnitMapMeter   Unit = "RenderMetersInMapUnits"
	UnitPixel      Unit = "Pixel"
)

// MM2Pixel is the number of screen pixels in a millimeter at 96 dpi.
const MM2Pixel = 3.7795275591

// unitAliases lets providers use friendlier names.
var unitAliases = map[string]Unit{
	"mm":         UnitMillimeter,
	"millimeter": UnitMillimeter,
	"millimetre": UnitMillimeter,
	"m":          UnitMapMeter,
	"meter":      UnitMapMeter,
	"mapmeter":   UnitMapMeter,
	"px":         UnitPixel,
	"pixel":      UnitPixel,
}

// ParseUnit maps name to known unit or keeps it as is.
func ParseUnit(name string) Unit {
	switch Unit(name) {
	case UnitNone, UnitMillimeter, UnitMapMeter, UnitPixel:
		return Unit(name)
	}
	if u, ok := unitAliases[strings.ToLower(name)]; ok {
		return u
	}
	return Unit(name)
}

// Known reports whether unit is one translators know how to normalize.
func (u Unit) Known() bool {
	switch u {
	case UnitNone, UnitMillimeter, UnitMapMeter, UnitPixel:
		return true
	}
	return false
}

// Quantity is a size-like property value with its unit.
type Quantity struct {
	Value Expr
	Unit  Unit
}

// Q makes quantity from a plain Go value.
func Q(v any, u Unit) Quantity {
	return Quantity{Value: Lit(v), Unit: u}
}

// IsSet reports whether quantity carries a value.
func (q Quantity) IsSet() bool {
	return q.Value != nil
}

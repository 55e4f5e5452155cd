package mapbox

import (
	"strconv"

	"stylebridge/convert/diag"
	"stylebridge/ir"
)

// MM2Pixel is the number of pixels in a millimeter.
const MM2Pixel = ir.MM2Pixel

// ToPixels converts size in given units into Mapbox GL screen pixels. Zero
// is always the thinnest renderable line (1), whatever the unit.
func ToPixels(v ir.Expr, u ir.Unit, c *diag.Collector) ir.Expr {
	if v == nil {
		return nil
	}
	n, literal := ir.Number(v)
	if literal && n == 0 {
		return ir.Lit(1.0)
	}

	switch u {
	case ir.UnitMillimeter:
		if literal {
			px := n * MM2Pixel
			if !ir.IsFinite(px) {
				c.Warn("Size '%s' is out of range", v)
				return nil
			}
			return ir.Lit(px)
		}
		if ir.IsDataDefined(v) {
			return ir.NewCall("*", ir.Lit(MM2Pixel), v)
		}
		c.Warn("Unable to convert non numeric size '%s' from millimeters", v)
		return v
	case ir.UnitMapMeter:
		if literal {
			return ir.Lit(strconv.FormatFloat(n, 'f', -1, 64) + "m")
		}
		c.Warn("Cannot render in map units when using a data-defined size value: '%s'", v)
		return v
	case ir.UnitPixel, ir.UnitNone:
		return v
	}
	c.Warn("Unsupported units: '%s'", u)
	return v
}

// castNumber turns numeric strings into numbers, anything else is returned
// unchanged.
func castNumber(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if f, ok := ir.Number(ir.Lit(s)); ok {
		return f
	}
	return v
}

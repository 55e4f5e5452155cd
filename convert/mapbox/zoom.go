package mapbox

import (
	"math"

	"stylebridge/convert/diag"
	"stylebridge/ir"
)

// zoomReference is the scale denominator of zoom level 0.
const zoomReference = 1_000_000_000

// ToZoom approximates tile pyramid zoom level for scale denominator s. Larger
// denominators give smaller zoom levels. False is returned when s is not a
// positive finite number.
func ToZoom(s float64) (int, bool) {
	if !(s > 0) || math.IsInf(s, 1) {
		return 0, false
	}
	return int(math.Floor(math.Log2(zoomReference / s))), true
}

// zoomRange converts rule scale range to layer zoom range. Scale and zoom
// run in opposite directions: rule minimum scale denominator limits maximum
// zoom, and maximum scale denominator limits minimum zoom. Non positive
// bounds are unbounded and produce nil.
func zoomRange(r *ir.Rule, c *diag.Collector) (minzoom, maxzoom *int) {
	if !r.DependsOnScale() {
		return nil, nil
	}
	lo, hi := r.Scale.Min, r.Scale.Max
	if lo != nil && hi != nil && *lo > 0 && *hi > 0 && *lo > *hi {
		c.Warn("Rule '%s' has minimum scale %g above maximum scale %g, bounds swapped", r.Name, *lo, *hi)
		lo, hi = hi, lo
	}
	if lo != nil {
		if z, ok := ToZoom(*lo); ok {
			maxzoom = &z
		}
	}
	if hi != nil {
		if z, ok := ToZoom(*hi); ok {
			minzoom = &z
		}
	}
	return minzoom, maxzoom
}

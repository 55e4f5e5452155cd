package mapbox

import (
	"stylebridge/ir"
)

// placement carries the context in which sub-symbolizer of a composite is
// drawn.
type placement struct {
	// alongLine is set for graphic stroke parts.
	alongLine bool
	interval  ir.Quantity
	// spacing is set for graphic fill parts.
	spacingX, spacingY ir.Quantity
}

// effective is a single drawable symbolizer after composite expansion.
type effective struct {
	sym   ir.Symbolizer
	place *placement
}

// expand flattens composite symbolizers into the sequence of symbolizers
// each of which produces at most one layer. Paint order is kept: base of the
// composite first, then its parts. Fill outline stays on the fill itself.
func expand(syms []ir.Symbolizer) []effective {
	out := make([]effective, 0, len(syms))
	for _, sym := range syms {
		switch s := sym.(type) {
		case *ir.Line:
			out = append(out, expandLine(s)...)
		case *ir.Fill:
			out = append(out, expandFill(s)...)
		default:
			out = append(out, effective{sym: sym})
		}
	}
	return out
}

func expandLine(s *ir.Line) []effective {
	if s == nil || len(s.GraphicStroke) == 0 {
		return []effective{{sym: s}}
	}
	var out []effective
	// marker line without own stroke is drawn by its parts only
	if s.Color != nil {
		base := *s
		base.GraphicStroke = nil
		out = append(out, effective{sym: &base})
	}
	place := &placement{alongLine: true, interval: s.GraphicStrokeInterval}
	for _, sub := range s.GraphicStroke {
		out = append(out, effective{sym: withParent(sub, s.Base), place: place})
	}
	return out
}

func expandFill(s *ir.Fill) []effective {
	if s == nil {
		return []effective{{sym: s}}
	}
	base := *s
	var parts []ir.Symbolizer

	switch {
	case patternIcon(s) != nil:
		// expressed natively with fill-pattern
	case len(s.GraphicFill) > 0:
		parts = s.GraphicFill
		base.GraphicFill = nil
	case s.Color != nil && !isSolid(s.FillStyle) && s.FillStyle != "no":
		parts = []ir.Symbolizer{ir.PatternMark(s.FillStyle, s.Color)}
		if !base.GraphicFillDistanceX.IsSet() && !base.GraphicFillDistanceY.IsSet() {
			base.GraphicFillDistanceX = ir.Q(ir.PatternSize, ir.UnitNone)
			base.GraphicFillDistanceY = ir.Q(ir.PatternSize, ir.UnitNone)
		}
	}

	out := []effective{{sym: &base}}
	if len(parts) > 0 {
		place := &placement{spacingX: base.GraphicFillDistanceX, spacingY: base.GraphicFillDistanceY}
		for _, sub := range parts {
			out = append(out, effective{sym: withParent(sub, s.Base), place: place})
		}
	}
	return out
}

// withParent propagates composite geometry to its part, part's own opacity
// is kept.
func withParent(sub ir.Symbolizer, parent ir.Base) ir.Symbolizer {
	if sub == nil || parent.Geometry == nil || sub.Common().Geometry != nil {
		return sub
	}
	switch s := sub.(type) {
	case *ir.Icon:
		c := *s
		c.Geometry = parent.Geometry
		return &c
	case *ir.Mark:
		c := *s
		c.Geometry = parent.Geometry
		return &c
	case *ir.Text:
		c := *s
		c.Geometry = parent.Geometry
		return &c
	case *ir.Line:
		c := *s
		c.Geometry = parent.Geometry
		return &c
	}
	return sub
}

// apply sets composite placement to the layer translated from a part.
func (p *placement) apply(r resolver, l *Layer) {
	if p == nil {
		return
	}
	if p.alongLine {
		if l.Type != typeSymbol {
			r.c.Warn("Graphic stroke drawn with %s layer cannot follow the line", l.Type)
			return
		}
		if l.Layout == nil {
			l.Layout = map[string]any{}
		}
		l.Layout["symbol-placement"] = "line"
		put(l.Layout, "symbol-spacing", r.size(p.interval))
		return
	}
	x, y := r.half(p.spacingX), r.half(p.spacingY)
	if x == nil && y == nil {
		return
	}
	if l.Metadata == nil {
		l.Metadata = map[string]any{}
	}
	l.Metadata[metaPatternSpacing] = []any{x, y}
}

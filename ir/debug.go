package ir

import (
	"fmt"

	"stylebridge/utils/debug"
)

func (q Quantity) String() string {
	if q.Value == nil {
		return ""
	}
	if q.Unit == UnitNone {
		return q.Value.String()
	}
	return fmt.Sprintf("%s %s", q.Value, q.Unit)
}

// Dump renders style as indented tree for debugging.
func (s *Style) Dump() string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "style")
	tw.TextBlock(1, "name", s.Name)
	for i := range s.Rules {
		r := &s.Rules[i]
		tw.Line(1, "rule #%d", i)
		tw.Field(2, "name", r.Name)
		tw.Field(2, "filter", r.Filter)
		if r.Scale != nil {
			tw.Line(2, "scale: %s..%s", bound(r.Scale.Min), bound(r.Scale.Max))
		}
		for _, sym := range r.Symbolizers {
			dumpSymbolizer(tw, 2, sym)
		}
	}
	return tw.String()
}

func bound(v *float64) string {
	if v == nil {
		return "*"
	}
	return fmt.Sprintf("%g", *v)
}

func quantity(q Quantity) any {
	if !q.IsSet() {
		return nil
	}
	return q
}

func dumpSymbolizer(tw *debug.TreeWriter, depth int, sym Symbolizer) {
	if sym == nil {
		tw.Line(depth, "<nil>")
		return
	}
	tw.Line(depth, "%s", sym.Kind())
	depth++
	b := sym.Common()
	tw.Field(depth, "opacity", b.Opacity)
	tw.Field(depth, "geometry", b.Geometry)

	switch s := sym.(type) {
	case *Icon:
		tw.Field(depth, "image", s.Image)
		tw.Field(depth, "size", quantity(s.Size))
		tw.Field(depth, "rotate", s.Rotate)
		tw.Field(depth, "color", s.Color)
	case *Line:
		tw.Field(depth, "color", s.Color)
		tw.Field(depth, "width", quantity(s.Width))
		tw.Field(depth, "style", s.LineStyle)
		tw.Field(depth, "dasharray", s.Dasharray)
		tw.Field(depth, "cap", s.Cap)
		tw.Field(depth, "join", s.Join)
		tw.Field(depth, "offset", quantity(s.PerpendicularOffset))
		for _, sub := range s.GraphicStroke {
			dumpSymbolizer(tw, depth, sub)
		}
	case *Fill:
		tw.Field(depth, "color", s.Color)
		tw.Field(depth, "style", s.FillStyle)
		tw.Field(depth, "outline-color", s.OutlineColor)
		tw.Field(depth, "outline-width", quantity(s.OutlineWidth))
		for _, sub := range s.GraphicFill {
			dumpSymbolizer(tw, depth, sub)
		}
	case *Mark:
		tw.Field(depth, "wkn", s.WellKnownName)
		tw.Field(depth, "image", s.Image)
		tw.Field(depth, "size", quantity(s.Size))
		tw.Field(depth, "color", s.Color)
		tw.Field(depth, "stroke-color", s.StrokeColor)
		tw.Field(depth, "stroke-width", quantity(s.StrokeWidth))
	case *Text:
		tw.Field(depth, "label", s.Label)
		tw.Field(depth, "font", s.Font)
		tw.Field(depth, "size", quantity(s.Size))
		tw.Field(depth, "color", s.Color)
		tw.Field(depth, "anchor", s.Anchor)
		tw.Field(depth, "halo-color", s.HaloColor)
		tw.Field(depth, "halo-size", quantity(s.HaloSize))
	case *Raster:
		tw.Field(depth, "renderer", string(s.Renderer.Type))
		tw.Line(depth, "entries: %d", len(s.Renderer.Entries))
	case *Invalid:
		tw.Field(depth, "error", s.Err.Error())
	}
}

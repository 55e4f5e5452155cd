package sld

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/beevik/etree"
	"github.com/h2non/filetype"

	"stylebridge/convert/diag"
	"stylebridge/convert/raster"
	"stylebridge/ir"
)

type symbolizerWriter struct {
	w exprWriter
	c *diag.Collector
}

func (s symbolizerWriter) write(sym ir.Symbolizer) ([]*etree.Element, error) {
	switch t := sym.(type) {
	case nil:
		return nil, errors.New("empty symbolizer")
	case *ir.Invalid:
		return nil, t.Err
	case *ir.Line:
		return s.line(t), nil
	case *ir.Fill:
		return s.polygon(t), nil
	case *ir.Mark:
		return []*etree.Element{s.point(t)}, nil
	case *ir.Icon:
		if t.Image == "" {
			return nil, errors.New("icon without image")
		}
		return []*etree.Element{s.point(t)}, nil
	case *ir.Text:
		if t.Label == nil {
			return nil, errors.New("text without label")
		}
		return []*etree.Element{s.text(t)}, nil
	case *ir.Raster:
		return []*etree.Element{s.raster(t)}, nil
	}
	return nil, fmt.Errorf("%w: '%s'", errUnsupportedKind, sym.Kind())
}

func (s symbolizerWriter) geometry(el *etree.Element, b *ir.Base) {
	if b.Geometry == nil {
		return
	}
	s.w.expr(el.CreateElement("Geometry"), b.Geometry)
}

// uom marks symbolizer sizes as ground distances when any of them is in map
// meters.
func uom(el *etree.Element, qs ...ir.Quantity) {
	for _, q := range qs {
		if q.IsSet() && q.Unit == ir.UnitMapMeter {
			el.CreateAttr("uom", uomMetre)
			return
		}
	}
}

// pixels normalizes size. Map meters are kept as is, symbolizer carries uom.
func (s symbolizerWriter) pixels(q ir.Quantity) ir.Expr {
	n, literal := ir.Number(q.Value)
	if literal && n == 0 {
		return ir.Lit(1.0)
	}
	switch q.Unit {
	case ir.UnitMillimeter:
		if literal {
			px := n * ir.MM2Pixel
			if !ir.IsFinite(px) {
				s.c.Warn("Size '%s' is out of range", q.Value)
				return q.Value
			}
			return ir.Lit(px)
		}
		return ir.NewCall("Mul", ir.Lit(ir.MM2Pixel), q.Value)
	case ir.UnitMapMeter, ir.UnitPixel, ir.UnitNone:
		return q.Value
	}
	s.c.Warn("Unsupported units: '%s'", q.Unit)
	return q.Value
}

func (s symbolizerWriter) param(parent *etree.Element, name string, e ir.Expr) {
	if e == nil {
		return
	}
	p := parent.CreateElement("CssParameter")
	p.CreateAttr("name", name)
	s.w.value(p, e)
}

func (s symbolizerWriter) sizeParam(parent *etree.Element, name string, q ir.Quantity) {
	if !q.IsSet() {
		return
	}
	s.param(parent, name, s.pixels(q))
}

func (s symbolizerWriter) sizeElement(parent *etree.Element, tag string, q ir.Quantity) {
	if !q.IsSet() {
		return
	}
	s.w.value(parent.CreateElement(tag), s.pixels(q))
}

func (s symbolizerWriter) valueElement(parent *etree.Element, tag string, e ir.Expr) {
	if e == nil {
		return
	}
	s.w.value(parent.CreateElement(tag), e)
}

func color(e ir.Expr) ir.Expr {
	if t, ok := ir.TextValue(e); ok {
		return ir.Lit(ir.HexColor(t))
	}
	return e
}

func isSolid(style string) bool {
	return style == "" || style == "solid"
}

// stroke writes stroke parameters. Non solid styles without explicit dashes
// use fixed pattern.
func (s symbolizerWriter) stroke(st *etree.Element, col ir.Expr, width ir.Quantity, opacity, dashes ir.Expr, style string) {
	s.param(st, "stroke", color(col))
	s.sizeParam(st, "stroke-width", width)
	s.param(st, "stroke-opacity", opacity)
	switch {
	case dashes != nil:
		s.param(st, "stroke-dasharray", dashes)
	case !isSolid(style):
		s.param(st, "stroke-dasharray", ir.Lit("5 2"))
	}
}

func (s symbolizerWriter) line(l *ir.Line) []*etree.Element {
	var out []*etree.Element

	if l.Color != nil && l.LineStyle != "no" {
		el := etree.NewElement("LineSymbolizer")
		uom(el, l.Width, l.PerpendicularOffset)
		s.geometry(el, &l.Base)
		st := el.CreateElement("Stroke")
		s.stroke(st, l.Color, l.Width, l.Opacity, l.Dasharray, l.LineStyle)
		if l.Cap != nil {
			cp := l.Cap
			if t, ok := ir.TextValue(cp); ok && t == "flat" {
				cp = ir.Lit("butt")
			}
			s.param(st, "stroke-linecap", cp)
		}
		s.param(st, "stroke-linejoin", l.Join)
		s.sizeElement(el, "PerpendicularOffset", l.PerpendicularOffset)
		out = append(out, el)
	}

	if len(l.GraphicStroke) > 0 {
		el := etree.NewElement("LineSymbolizer")
		uom(el, l.GraphicStrokeInterval, l.GraphicStrokeOffset, l.PerpendicularOffset)
		s.geometry(el, &l.Base)
		gs := el.CreateElement("Stroke").CreateElement("GraphicStroke")
		s.graphic(gs, l.GraphicStroke)
		s.sizeElement(gs, "InitialGap", l.GraphicStrokeOffset)
		s.sizeElement(gs, "Gap", l.GraphicStrokeInterval)
		s.sizeElement(el, "PerpendicularOffset", l.PerpendicularOffset)
		out = append(out, el)
	}

	if len(out) == 0 {
		s.c.Warn("Line without color is not drawn")
	}
	return out
}

func (s symbolizerWriter) polygon(f *ir.Fill) []*etree.Element {
	el := etree.NewElement("PolygonSymbolizer")
	uom(el, f.OutlineWidth, f.GraphicFillDistanceX, f.GraphicFillDistanceY)
	s.geometry(el, &f.Base)

	switch {
	case len(f.GraphicFill) > 0:
		fill := el.CreateElement("Fill")
		s.graphic(fill.CreateElement("GraphicFill"), f.GraphicFill)
		s.param(fill, "fill-opacity", f.Opacity)
	case f.Color != nil && isSolid(f.FillStyle):
		fill := el.CreateElement("Fill")
		s.param(fill, "fill", color(f.Color))
		s.param(fill, "fill-opacity", f.Opacity)
	case f.Color != nil && f.FillStyle != "no":
		fill := el.CreateElement("Fill")
		s.graphic(fill.CreateElement("GraphicFill"), []ir.Symbolizer{ir.PatternMark(f.FillStyle, f.Color)})
		s.param(fill, "fill-opacity", f.Opacity)
	}

	if f.OutlineColor != nil && f.OutlineStyle != "no" {
		st := el.CreateElement("Stroke")
		s.stroke(st, f.OutlineColor, f.OutlineWidth, f.Opacity, f.OutlineDasharray, f.OutlineStyle)
	}
	if len(f.GraphicFill) > 0 {
		s.spacing(el, f.GraphicFillDistanceX, f.GraphicFillDistanceY)
	}
	return []*etree.Element{el}
}

// spacing writes tiling margin of graphic fill as vendor option.
func (s symbolizerWriter) spacing(el *etree.Element, dx, dy ir.Quantity) {
	if !dx.IsSet() && !dy.IsSet() {
		return
	}
	x, _ := ir.Number(s.pixels(dx))
	y, _ := ir.Number(s.pixels(dy))
	opt := el.CreateElement("VendorOption")
	opt.CreateAttr("name", "graphic-margin")
	opt.SetText(fmt.Sprintf("%s %s", literalText(y/2), literalText(x/2)))
}

func (s symbolizerWriter) point(sym ir.Symbolizer) *etree.Element {
	el := etree.NewElement("PointSymbolizer")
	s.geometry(el, sym.Common())
	s.graphic(el, []ir.Symbolizer{sym})
	switch t := sym.(type) {
	case *ir.Mark:
		uom(el, t.Size, t.StrokeWidth)
	case *ir.Icon:
		uom(el, t.Size)
	}
	return el
}

// graphic writes Graphic element for point-like symbolizers. Size, opacity
// and rotation are taken from the first part.
func (s symbolizerWriter) graphic(parent *etree.Element, parts []ir.Symbolizer) {
	g := parent.CreateElement("Graphic")
	var (
		opacity, rotate ir.Expr
		size            ir.Quantity
	)
	first := true
	for _, part := range parts {
		switch t := part.(type) {
		case *ir.Mark:
			if t.HasImagePath() {
				s.external(g, t.Image)
			} else {
				s.mark(g, t)
			}
			if first {
				opacity, rotate, size = t.Opacity, t.Rotate, t.Size
			}
		case *ir.Icon:
			if t.Image == "" {
				s.c.Warn("Icon without image in graphic is skipped")
				continue
			}
			s.external(g, t.Image)
			if first {
				opacity, rotate, size = t.Opacity, t.Rotate, t.Size
			}
		default:
			kind := ir.Kind("<nil>")
			if part != nil {
				kind = part.Kind()
			}
			s.c.Warn("Symbolizer kind '%s' cannot be used as graphic", kind)
			continue
		}
		first = false
	}
	s.valueElement(g, "Opacity", opacity)
	s.sizeElement(g, "Size", size)
	s.valueElement(g, "Rotation", rotate)
}

func (s symbolizerWriter) mark(g *etree.Element, m *ir.Mark) {
	mk := g.CreateElement("Mark")
	name := ir.WellKnownName(m.WellKnownName)
	if name == "" {
		name = "circle"
	}
	mk.CreateElement("WellKnownName").SetText(name)
	if m.Color != nil {
		s.param(mk.CreateElement("Fill"), "fill", color(m.Color))
	}
	if m.StrokeColor != nil && m.StrokeStyle != "no" {
		st := mk.CreateElement("Stroke")
		s.stroke(st, m.StrokeColor, m.StrokeWidth, nil, m.StrokeDasharray, m.StrokeStyle)
	}
}

func (s symbolizerWriter) external(g *etree.Element, image string) {
	s.c.AddIcon(image)
	ext := g.CreateElement("ExternalGraphic")
	res := ext.CreateElement("OnlineResource")
	res.CreateAttr("xlink:type", "simple")
	res.CreateAttr("xlink:href", path.Base(strings.ReplaceAll(image, "\\", "/")))
	ext.CreateElement("Format").SetText(mimeType(image))
}

func mimeType(image string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(image)), ".")
	if ext == "svg" {
		return "image/svg+xml"
	}
	if t := filetype.GetType(ext); t != filetype.Unknown && t.MIME.Value != "" {
		return t.MIME.Value
	}
	return "image/" + ext
}

// anchors maps label anchor names to SLD anchor point (0,0 is bottom left
// corner of the label).
var anchors = map[string][2]float64{
	"top":          {0.5, 1},
	"top-left":     {0, 1},
	"top-right":    {1, 1},
	"left":         {0, 0.5},
	"center":       {0.5, 0.5},
	"right":        {1, 0.5},
	"bottom-left":  {0, 0},
	"bottom":       {0.5, 0},
	"bottom-right": {1, 0},
}

func (s symbolizerWriter) text(t *ir.Text) *etree.Element {
	el := etree.NewElement("TextSymbolizer")
	uom(el, append([]ir.Quantity{t.Size, t.HaloSize}, t.Offset...)...)
	s.geometry(el, &t.Base)
	s.w.value(el.CreateElement("Label"), t.Label)

	font := el.CreateElement("Font")
	if t.Font != "" {
		s.param(font, "font-family", ir.Lit(t.Font))
	}
	s.sizeParam(font, "font-size", t.Size)

	anchor, hasAnchor := anchors[t.Anchor]
	if t.Anchor != "" && !hasAnchor {
		s.c.Warn("Unsupported label anchor: '%s'", t.Anchor)
	}
	hasOffset := len(t.Offset) == 2 && t.Offset[0].IsSet() && t.Offset[1].IsSet()
	if hasAnchor || hasOffset || t.Rotate != nil {
		pp := el.CreateElement("LabelPlacement").CreateElement("PointPlacement")
		if hasAnchor {
			ap := pp.CreateElement("AnchorPoint")
			ap.CreateElement("AnchorPointX").SetText(literalText(anchor[0]))
			ap.CreateElement("AnchorPointY").SetText(literalText(anchor[1]))
		}
		if hasOffset {
			d := pp.CreateElement("Displacement")
			s.sizeElement(d, "DisplacementX", t.Offset[0])
			s.sizeElement(d, "DisplacementY", t.Offset[1])
		}
		s.valueElement(pp, "Rotation", t.Rotate)
	}

	if t.HaloColor != nil && t.HaloSize.IsSet() {
		halo := el.CreateElement("Halo")
		s.sizeElement(halo, "Radius", t.HaloSize)
		s.param(halo.CreateElement("Fill"), "fill", color(t.HaloColor))
	}
	if t.Color != nil || t.Opacity != nil {
		fill := el.CreateElement("Fill")
		s.param(fill, "fill", color(t.Color))
		s.param(fill, "fill-opacity", t.Opacity)
	}
	return el
}

func (s symbolizerWriter) raster(r *ir.Raster) *etree.Element {
	el := etree.NewElement("RasterSymbolizer")
	s.geometry(el, &r.Base)
	s.valueElement(el, "Opacity", r.Opacity)

	channels, colors := raster.Translate(r.Renderer, s.c)
	if channels != nil {
		cs := el.CreateElement("ChannelSelection")
		for _, ch := range []struct {
			tag string
			c   *raster.Channel
		}{
			{"RedChannel", channels.Red},
			{"GreenChannel", channels.Green},
			{"BlueChannel", channels.Blue},
			{"GrayChannel", channels.Gray},
		} {
			if ch.c != nil {
				cs.CreateElement(ch.tag).CreateElement("SourceChannelName").SetText(ch.c.SourceChannelName)
			}
		}
	}
	if colors != nil {
		cm := el.CreateElement("ColorMap")
		cm.CreateAttr("type", string(colors.Type))
		if colors.Extended {
			cm.CreateAttr("extended", "true")
		}
		for _, e := range colors.Entries {
			entry := cm.CreateElement("ColorMapEntry")
			entry.CreateAttr("color", e.Color)
			entry.CreateAttr("quantity", literalText(e.Quantity))
			entry.CreateAttr("opacity", literalText(e.Opacity))
			if e.Label != "" {
				entry.CreateAttr("label", e.Label)
			}
		}
	}
	return el
}

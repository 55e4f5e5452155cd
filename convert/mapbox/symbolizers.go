package mapbox

import (
	"errors"
	"fmt"

	"stylebridge/convert/raster"
	"stylebridge/ir"
)

// Layer types.
const (
	typeSymbol = "symbol"
	typeLine   = "line"
	typeFill   = "fill"
	typeCircle = "circle"
	typeRaster = "raster"
)

// metadata keys for information Mapbox GL cannot express.
const (
	metaPatternSpacing   = "stylebridge:pattern-spacing"
	metaChannelSelection = "stylebridge:channelSelection"
	metaColorMap         = "stylebridge:colorMap"
)

var errUnsupportedKind = errors.New("symbolizer kind is not supported")

type handler func(r resolver, sym ir.Symbolizer) (*Layer, error)

// handlers is the dispatch table, one entry per known symbolizer kind.
var handlers = map[ir.Kind]handler{
	ir.KindIcon:   iconLayer,
	ir.KindLine:   lineLayer,
	ir.KindFill:   fillLayer,
	ir.KindMark:   markLayer,
	ir.KindText:   textLayer,
	ir.KindRaster: rasterLayer,
}

func newLayer(typ string) *Layer {
	return &Layer{Type: typ, Paint: map[string]any{}, Layout: map[string]any{}}
}

// translateSymbolizer produces single layer for symbolizer or error when it
// cannot be represented at all.
func translateSymbolizer(r resolver, sym ir.Symbolizer) (*Layer, error) {
	if sym == nil {
		return nil, errors.New("empty symbolizer")
	}
	if inv, ok := sym.(*ir.Invalid); ok {
		return nil, inv.Err
	}
	h, ok := handlers[sym.Kind()]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", errUnsupportedKind, sym.Kind())
	}
	l, err := h(r, sym)
	if err != nil {
		return nil, err
	}
	if sym.Common().Geometry != nil {
		r.c.Warn("Derived geometries are not supported in mapbox gl")
	}
	if len(l.Layout) == 0 {
		l.Layout = nil
	}
	return l, nil
}

func iconLayer(r resolver, sym ir.Symbolizer) (*Layer, error) {
	s := sym.(*ir.Icon)
	if s.Image == "" {
		return nil, errors.New("icon without image")
	}
	r.c.AddIcon(s.Image)

	l := newLayer(typeSymbol)
	l.Layout["icon-image"] = SpriteName(s.Image)
	put(l.Layout, "icon-rotate", r.number(s.Rotate))
	put(l.Paint, "icon-opacity", r.number(s.Opacity))
	return l, nil
}

func lineLayer(r resolver, sym ir.Symbolizer) (*Layer, error) {
	s := sym.(*ir.Line)
	l := newLayer(typeLine)
	if s.Color == nil || s.LineStyle == "no" {
		l.Paint = map[string]any{"visibility": "none"}
		return l, nil
	}

	l.Paint["line-color"] = r.color(s.Color)
	put(l.Paint, "line-width", r.size(s.Width))
	put(l.Paint, "line-opacity", r.number(s.Opacity))
	put(l.Paint, "line-offset", r.size(s.PerpendicularOffset))
	switch {
	case s.Dasharray != nil:
		put(l.Paint, "line-dasharray", r.dashes(s.Dasharray))
	case !isSolid(s.LineStyle):
		l.Paint["line-dasharray"] = []any{5.0, 2.0}
	}

	if s.Cap != nil {
		cp := r.value(s.Cap)
		if cp == "flat" {
			cp = "butt"
		}
		l.Layout["line-cap"] = cp
	}
	put(l.Layout, "line-join", r.value(s.Join))
	return l, nil
}

func fillLayer(r resolver, sym ir.Symbolizer) (*Layer, error) {
	s := sym.(*ir.Fill)
	l := newLayer(typeFill)

	opacity := r.number(s.Opacity)
	if opacity == nil {
		opacity = 1.0
	}
	l.Paint["fill-opacity"] = opacity

	if s.Color != nil && isSolid(s.FillStyle) {
		l.Paint["fill-color"] = r.color(s.Color)
	}
	if icon := patternIcon(s); icon != nil {
		r.c.AddIcon(icon.Image)
		l.Paint["fill-pattern"] = SpriteName(icon.Image)
	}
	fillOutline(r, s, l)
	return l, nil
}

// fillOutline sets fill-outline-color. Mapbox GL always draws fill outline
// as solid hairline, anything else is reported.
func fillOutline(r resolver, s *ir.Fill, l *Layer) {
	if s.OutlineColor == nil || s.OutlineStyle == "no" {
		return
	}
	l.Paint["fill-outline-color"] = r.color(s.OutlineColor)
	if s.OutlineWidth.IsSet() && !isHairline(s.OutlineWidth) {
		r.c.Warn("Fill outline width '%s' is not supported in mapbox gl, drawn as hairline", s.OutlineWidth.Value)
	}
	if !isSolid(s.OutlineStyle) || s.OutlineDasharray != nil {
		r.c.Warn("Dashed fill outlines are not supported in mapbox gl")
	}
}

// isHairline reports whether width renders as a single pixel line.
func isHairline(q ir.Quantity) bool {
	n, ok := ir.Number(q.Value)
	if !ok {
		return false
	}
	if n == 0 {
		return true
	}
	return n == 1 && (q.Unit == ir.UnitPixel || q.Unit == ir.UnitNone)
}

// patternIcon returns image used as graphic fill when it could be expressed
// with fill-pattern.
func patternIcon(s *ir.Fill) *ir.Icon {
	if len(s.GraphicFill) != 1 {
		return nil
	}
	icon, ok := s.GraphicFill[0].(*ir.Icon)
	if !ok || icon.Image == "" {
		return nil
	}
	return icon
}

func markLayer(r resolver, sym ir.Symbolizer) (*Layer, error) {
	s := sym.(*ir.Mark)
	l := newLayer(typeCircle)

	if s.HasImagePath() {
		r.c.AddIcon(s.Image)
		r.c.Warn("Image backed mark '%s' is drawn as circle", SpriteName(s.Image))
	} else if name := ir.WellKnownName(s.WellKnownName); name != "" && name != "circle" {
		r.c.Warn("Mark shape '%s' is drawn as circle", name)
	}

	put(l.Paint, "circle-color", r.color(s.Color))
	put(l.Paint, "circle-radius", r.half(s.Size))
	put(l.Paint, "circle-opacity", r.number(s.Opacity))

	if s.StrokeStyle != "no" && s.StrokeColor != nil {
		l.Paint["circle-stroke-color"] = r.color(s.StrokeColor)
		put(l.Paint, "circle-stroke-width", r.size(s.StrokeWidth))
	}
	if s.StrokeStyle != "no" && (!isSolid(s.StrokeStyle) || s.StrokeDasharray != nil) {
		r.c.Warn("Dashed mark outlines are not supported in mapbox gl")
	}
	return l, nil
}

func textLayer(r resolver, sym ir.Symbolizer) (*Layer, error) {
	s := sym.(*ir.Text)
	if s.Label == nil {
		return nil, errors.New("text without label")
	}
	l := newLayer(typeSymbol)

	l.Layout["text-field"] = r.value(s.Label)
	put(l.Layout, "text-size", r.size(s.Size))
	if s.Font != "" {
		l.Layout["text-font"] = []any{s.Font}
	}
	if len(s.Offset) == 2 && s.Offset[0].IsSet() && s.Offset[1].IsSet() {
		l.Layout["text-offset"] = []any{r.size(s.Offset[0]), r.size(s.Offset[1])}
	}
	if s.Anchor != "" {
		l.Layout["text-anchor"] = s.Anchor
	}
	put(l.Layout, "text-rotate", r.number(s.Rotate))

	put(l.Paint, "text-color", r.color(s.Color))
	put(l.Paint, "text-opacity", r.number(s.Opacity))
	if s.HaloColor != nil && s.HaloSize.IsSet() {
		l.Paint["text-halo-width"] = r.size(s.HaloSize)
		l.Paint["text-halo-color"] = r.color(s.HaloColor)
	}
	return l, nil
}

func rasterLayer(r resolver, sym ir.Symbolizer) (*Layer, error) {
	s := sym.(*ir.Raster)
	l := newLayer(typeRaster)
	put(l.Paint, "raster-opacity", r.number(s.Opacity))

	channels, colors := raster.Translate(s.Renderer, r.c)
	if channels == nil && colors == nil {
		return l, nil
	}
	l.Metadata = map[string]any{}
	if channels != nil {
		l.Metadata[metaChannelSelection] = channels
	}
	if colors != nil {
		l.Metadata[metaColorMap] = colors
	}
	r.c.Warn("Raster channel selection and color map are not supported in mapbox gl, kept in layer metadata")
	return l, nil
}

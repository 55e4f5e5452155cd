package ir

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// propertyOp is the source vocabulary operator used for attribute access.
const propertyOp = "PropertyName"

// Decode reads style from JSON document produced by a source style provider.
func Decode(r io.Reader) (*Style, error) {
	var doc map[string]any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("unable to decode style json: %w", err)
	}
	return FromMap(doc)
}

// DecodeYAML reads style from YAML document. Structure is the same as for
// JSON.
func DecodeYAML(r io.Reader) (*Style, error) {
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unable to decode style yaml: %w", err)
	}
	return FromMap(doc)
}

// Read decodes style from data choosing format by file extension: ".yaml" and
// ".yml" are YAML, anything else is JSON.
func Read(data []byte, ext string) (*Style, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return DecodeYAML(bytes.NewReader(data))
	}
	return Decode(bytes.NewReader(data))
}

// FromMap builds style from generic decoded document. Missing name or rules
// result in StructuralError, malformed rules in regular error naming the
// offending element. Malformed symbolizer does not fail the document, it is
// kept as Invalid.
func FromMap(doc map[string]any) (*Style, error) {
	if doc == nil {
		return nil, &StructuralError{Element: "style"}
	}
	o := object(doc)

	name, err := o.str("name")
	if err != nil {
		return nil, err
	}
	raw, ok := doc["rules"]
	if !ok || raw == nil {
		return nil, &StructuralError{Element: "rules"}
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("rules: expected list, got %T", raw)
	}

	s := &Style{Name: name, Rules: make([]Rule, 0, len(list))}
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("rules[%d]: expected object, got %T", i, item)
		}
		rule, err := parseRule(object(m))
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		s.Rules = append(s.Rules, rule)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func parseRule(o object) (Rule, error) {
	var (
		r   Rule
		err error
	)
	if r.Name, err = o.str("name"); err != nil {
		return r, err
	}
	if r.Filter, err = o.expr("filter"); err != nil {
		return r, err
	}
	if raw, ok := o["scaleDenominator"]; ok && raw != nil {
		m, ok := raw.(map[string]any)
		if !ok {
			return r, fmt.Errorf("scaleDenominator: expected object, got %T", raw)
		}
		sd := object(m)
		r.Scale = &ScaleDenominator{}
		if r.Scale.Min, err = sd.float("min"); err != nil {
			return r, fmt.Errorf("scaleDenominator: %w", err)
		}
		if r.Scale.Max, err = sd.float("max"); err != nil {
			return r, fmt.Errorf("scaleDenominator: %w", err)
		}
	}
	if r.Symbolizers, err = o.symbolizers("symbolizers"); err != nil {
		return r, err
	}
	return r, nil
}

func parseSymbolizer(o object) (Symbolizer, error) {
	kind, err := o.str("kind")
	if err != nil {
		return nil, err
	}
	var base Base
	if base.Opacity, err = o.expr("opacity"); err != nil {
		return nil, err
	}
	if base.Geometry, err = o.expr("geometry"); err != nil {
		return nil, err
	}

	// collect the first error only, the rest would be noise
	var first error
	check := func(e error) {
		if first == nil && e != nil {
			first = e
		}
	}
	ex := func(key string) Expr {
		e, err := o.expr(key)
		check(err)
		return e
	}
	qt := func(key string) Quantity {
		q, err := o.quantity(key)
		check(err)
		return q
	}
	st := func(key string) string {
		s, err := o.str(key)
		check(err)
		return s
	}
	subs := func(key string) []Symbolizer {
		list, err := o.symbolizers(key)
		check(err)
		return list
	}

	var sym Symbolizer
	switch Kind(kind) {
	case KindIcon:
		sym = &Icon{Base: base, Image: st("image"), Rotate: ex("rotate"), Size: qt("size"), Color: ex("color")}
	case KindLine:
		sym = &Line{
			Base:                  base,
			Color:                 ex("color"),
			Width:                 qt("width"),
			Dasharray:             ex("dasharray"),
			LineStyle:             st("lineStyle"),
			Cap:                   ex("cap"),
			Join:                  ex("join"),
			PerpendicularOffset:   qt("perpendicularOffset"),
			GraphicStroke:         subs("graphicStroke"),
			GraphicStrokeInterval: qt("graphicStrokeInterval"),
			GraphicStrokeOffset:   qt("graphicStrokeOffset"),
		}
	case KindFill:
		sym = &Fill{
			Base:                 base,
			Color:                ex("color"),
			FillStyle:            st("fillStyle"),
			OutlineColor:         ex("outlineColor"),
			OutlineWidth:         qt("outlineWidth"),
			OutlineStyle:         st("outlineStyle"),
			OutlineDasharray:     ex("outlineDasharray"),
			GraphicFill:          subs("graphicFill"),
			GraphicFillDistanceX: qt("graphicFillDistanceX"),
			GraphicFillDistanceY: qt("graphicFillDistanceY"),
		}
	case KindMark:
		sym = &Mark{
			Base:            base,
			WellKnownName:   st("wellKnownName"),
			Image:           st("image"),
			Size:            qt("size"),
			Color:           ex("color"),
			StrokeColor:     ex("strokeColor"),
			StrokeWidth:     qt("strokeWidth"),
			StrokeStyle:     st("strokeStyle"),
			StrokeDasharray: ex("strokeDasharray"),
			Rotate:          ex("rotate"),
		}
	case KindText:
		offset, err := o.offset("offset")
		check(err)
		sym = &Text{
			Base:      base,
			Label:     ex("label"),
			Font:      st("font"),
			Size:      qt("size"),
			Color:     ex("color"),
			Offset:    offset,
			Anchor:    st("anchor"),
			Rotate:    ex("rotate"),
			HaloColor: ex("haloColor"),
			HaloSize:  qt("haloSize"),
		}
	case KindRaster:
		renderer, err := o.renderer("renderer")
		check(err)
		sym = &Raster{Base: base, Renderer: renderer}
	default:
		sym = &Unknown{Base: base, Name: kind}
	}
	if first != nil {
		return nil, first
	}
	return sym, nil
}

// ParseExpr converts generic decoded value into expression tree. Lists headed
// by a string are operator calls, ["PropertyName", name] is a property
// reference, any other list is a literal array.
func ParseExpr(v any) (Expr, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []any:
		if len(t) == 0 {
			return Lit(t), nil
		}
		op, ok := t[0].(string)
		if !ok {
			return Lit(t), nil
		}
		if op == propertyOp && len(t) == 2 {
			if name, ok := t[1].(string); ok {
				return Prop(name), nil
			}
		}
		call := Call{Op: op, Args: make([]Expr, 0, len(t)-1)}
		for i, a := range t[1:] {
			e, err := ParseExpr(a)
			if err != nil {
				return nil, fmt.Errorf("%s argument %d: %w", op, i, err)
			}
			if e == nil {
				e = Lit(nil)
			}
			call.Args = append(call.Args, e)
		}
		return call, nil
	case map[string]any:
		if name, ok := t["property"].(string); ok {
			return Prop(name), nil
		}
		if lit, ok := t["literal"]; ok {
			return Lit(lit), nil
		}
		return nil, fmt.Errorf("unexpected expression object with keys %v", keys(t))
	default:
		return Lit(t), nil
	}
}

type object map[string]any

func (o object) str(key string) (string, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return "", nil
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case int, int64, float64:
		return fmt.Sprint(t), nil
	}
	return "", fmt.Errorf("%s: expected string, got %T", key, v)
}

func (o object) float(key string) (*float64, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return nil, nil
	}
	f, ok := Number(Lit(v))
	if !ok {
		return nil, fmt.Errorf("%s: expected number, got %T", key, v)
	}
	return &f, nil
}

func (o object) expr(key string) (Expr, error) {
	e, err := ParseExpr(o[key])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return e, nil
}

// quantity accepts either {"value": v, "unit": u} or plain value with
// optional sibling "<key>Unit".
func (o object) quantity(key string) (Quantity, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return Quantity{}, nil
	}
	return o.quantityOf(key, v)
}

func (o object) quantityOf(key string, v any) (Quantity, error) {
	if m, ok := v.(map[string]any); ok {
		if _, has := m["value"]; has {
			q := object(m)
			e, err := q.expr("value")
			if err != nil {
				return Quantity{}, fmt.Errorf("%s: %w", key, err)
			}
			u, err := q.str("unit")
			if err != nil {
				return Quantity{}, fmt.Errorf("%s: %w", key, err)
			}
			return Quantity{Value: e, Unit: ParseUnit(u)}, nil
		}
	}
	e, err := ParseExpr(v)
	if err != nil {
		return Quantity{}, fmt.Errorf("%s: %w", key, err)
	}
	u, err := o.str(key + "Unit")
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: e, Unit: ParseUnit(u)}, nil
}

func (o object) offset(key string) ([]Quantity, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok || len(list) != 2 {
		return nil, fmt.Errorf("%s: expected [x, y]", key)
	}
	unit, err := o.str(key + "Unit")
	if err != nil {
		return nil, err
	}
	out := make([]Quantity, 0, 2)
	for i, item := range list {
		q, err := o.quantityOf(fmt.Sprintf("%s[%d]", key, i), item)
		if err != nil {
			return nil, err
		}
		if q.Unit == UnitNone {
			q.Unit = ParseUnit(unit)
		}
		out = append(out, q)
	}
	return out, nil
}

func (o object) symbolizers(key string) ([]Symbolizer, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected list, got %T", key, v)
	}
	out := make([]Symbolizer, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			out = append(out, &Invalid{Err: fmt.Errorf("%s[%d]: expected object, got %T", key, i, item)})
			continue
		}
		sym, err := parseSymbolizer(object(m))
		if err != nil {
			kind, _ := object(m).str("kind")
			sym = &Invalid{Name: kind, Err: fmt.Errorf("%s[%d]: %w", key, i, err)}
		}
		out = append(out, sym)
	}
	return out, nil
}

func (o object) renderer(key string) (RasterRenderer, error) {
	var r RasterRenderer
	v, ok := o[key]
	if !ok || v == nil {
		return r, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return r, fmt.Errorf("%s: expected object, got %T", key, v)
	}
	ro := object(m)

	t, err := ro.str("type")
	if err != nil {
		return r, err
	}
	r.Type = RendererType(t)

	if band, err := ro.float("band"); err != nil {
		return r, err
	} else if band != nil {
		r.Band = int(*band)
	}
	if raw, ok := ro["bands"].([]any); ok {
		for _, b := range raw {
			if f, ok := Number(Lit(b)); ok {
				r.Bands = append(r.Bands, int(f))
			}
		}
	}
	c, err := ro.str("classification")
	if err != nil {
		return r, err
	}
	r.Classification = Classification(c)

	if raw, ok := ro["entries"].([]any); ok {
		for i, item := range raw {
			em, ok := item.(map[string]any)
			if !ok {
				return r, fmt.Errorf("entries[%d]: expected object, got %T", i, item)
			}
			entry, err := parseColorEntry(object(em))
			if err != nil {
				return r, fmt.Errorf("entries[%d]: %w", i, err)
			}
			r.Entries = append(r.Entries, entry)
		}
	}
	return r, nil
}

func parseColorEntry(o object) (ColorEntry, error) {
	e := ColorEntry{Opacity: 1}
	q, err := o.float("value")
	if err != nil {
		return e, err
	}
	if q != nil {
		e.Value = *q
	}
	if e.Color, err = o.str("color"); err != nil {
		return e, err
	}
	if e.Label, err = o.str("label"); err != nil {
		return e, err
	}
	op, err := o.float("opacity")
	if err != nil {
		return e, err
	}
	if op != nil {
		e.Opacity = *op
	}
	return e, nil
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// Package sld encodes intermediate style description as OGC Styled Layer
// Descriptor 1.0 document with the vendor extensions understood by common
// map servers.
package sld

import (
	"errors"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"stylebridge/convert/diag"
	"stylebridge/ir"
)

const (
	nsSLD   = "http://www.opengis.net/sld"
	nsOGC   = "http://www.opengis.net/ogc"
	nsXlink = "http://www.w3.org/1999/xlink"
	nsXSI   = "http://www.w3.org/2001/XMLSchema-instance"
	nsGML   = "http://www.opengis.net/gml"

	schemaLocation = "http://www.opengis.net/sld http://schemas.opengis.net/sld/1.0.0/StyledLayerDescriptor.xsd"

	uomMetre = "http://www.opengeospatial.org/se/units/metre"
)

// Encoder converts styles to SLD. It keeps no state between conversions.
type Encoder struct {
	log *zap.Logger
}

func NewEncoder(log *zap.Logger) *Encoder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Encoder{log: log.Named("sld")}
}

// Result is encoded document with its side output.
type Result struct {
	Document *etree.Document
	Warnings []string
	Icons    []string
}

// XML serializes document indenting nested elements by given number of
// spaces.
func (r *Result) XML(indent int) ([]byte, error) {
	doc := r.Document.Copy()
	doc.Indent(indent)
	return doc.WriteToBytes()
}

// Encode produces complete SLD document. Only structural problems with style
// result in error.
func (e *Encoder) Encode(style *ir.Style) (*Result, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}
	c := diag.New(e.log)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("StyledLayerDescriptor")
	root.CreateAttr("version", "1.0.0")
	root.CreateAttr("xmlns", nsSLD)
	root.CreateAttr("xmlns:ogc", nsOGC)
	root.CreateAttr("xmlns:xlink", nsXlink)
	root.CreateAttr("xmlns:xsi", nsXSI)
	root.CreateAttr("xmlns:gml", nsGML)
	root.CreateAttr("xsi:schemaLocation", schemaLocation)

	layer := root.CreateElement("NamedLayer")
	layer.CreateElement("Name").SetText(style.Name)
	us := layer.CreateElement("UserStyle")
	us.CreateElement("Name").SetText(style.Name)
	fts := us.CreateElement("FeatureTypeStyle")

	sw := symbolizerWriter{w: exprWriter{c: c}, c: c}
	for i := range style.Rules {
		e.rule(fts, sw, &style.Rules[i])
	}

	e.log.Debug("Style encoded",
		zap.String("style", style.Name),
		zap.Int("rules", len(style.Rules)),
		zap.Int("warnings", c.Count()))
	return &Result{Document: doc, Warnings: c.Warnings(), Icons: c.Icons()}, nil
}

func (e *Encoder) rule(parent *etree.Element, sw symbolizerWriter, r *ir.Rule) {
	el := parent.CreateElement("Rule")
	name := r.Name
	if name == "" {
		name = "rule"
	}
	el.CreateElement("Name").SetText(name)
	sw.w.filter(el, r.Filter)

	if r.DependsOnScale() {
		lo, hi := r.Scale.Min, r.Scale.Max
		if lo != nil && hi != nil && *lo > 0 && *hi > 0 && *lo > *hi {
			sw.c.Warn("Rule '%s' has minimum scale %g above maximum scale %g, bounds swapped", r.Name, *lo, *hi)
			lo, hi = hi, lo
		}
		if lo != nil && *lo > 0 {
			el.CreateElement("MinScaleDenominator").SetText(literalText(*lo))
		}
		if hi != nil && *hi > 0 {
			el.CreateElement("MaxScaleDenominator").SetText(literalText(*hi))
		}
	}

	for _, sym := range r.Symbolizers {
		for _, child := range e.symbolizer(sw, sym) {
			el.AddChild(child)
		}
	}
}

// symbolizer encodes single symbolizer isolating any failure: nothing is
// added and warning recorded.
func (e *Encoder) symbolizer(sw symbolizerWriter, sym ir.Symbolizer) (out []*etree.Element) {
	kind := ir.Kind("<nil>")
	if sym != nil {
		kind = sym.Kind()
	}
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Error("Symbolizer encoding panicked", zap.String("kind", string(kind)), zap.Any("panic", rec), zap.Stack("stack"))
			sw.c.Warn("Unable to translate %s symbolizer: %v", kind, rec)
			out = nil
		}
	}()

	var err error
	if out, err = sw.write(sym); err != nil {
		sw.c.Warn("Unable to translate %s symbolizer, symbolizer omitted: %v", kind, err)
		return nil
	}
	return out
}

var errUnsupportedKind = errors.New("symbolizer kind is not supported")

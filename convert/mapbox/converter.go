// Package mapbox translates intermediate style description into Mapbox GL
// style document.
package mapbox

import (
	"fmt"

	"go.uber.org/zap"

	"stylebridge/convert/diag"
	"stylebridge/ir"
)

const defaultRuleName = "rule"

// Converter converts styles to Mapbox GL. It keeps no state between
// conversions and may be used concurrently.
type Converter struct {
	opts Options
	log  *zap.Logger
}

// NewConverter creates converter with document options, empty options are
// replaced with defaults.
func NewConverter(opts Options, log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{opts: opts.withDefaults(), log: log.Named("mapbox")}
}

// Convert produces complete style document. Only structural problems with
// style result in error, everything else is reported as warnings.
func (cv *Converter) Convert(style *ir.Style) (*Result, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}
	c := diag.New(cv.log)
	layers := cv.Layers(style, c)

	res := &Result{
		Style: Document{
			Version: 8,
			Name:    style.Name,
			Glyphs:  cv.opts.Glyphs,
			Sprite:  cv.opts.Sprite,
			Sources: map[string]Source{style.Name: cv.opts.source(style.Name)},
			Layers:  layers,
		},
		Warnings: c.Warnings(),
		Icons:    c.Icons(),
	}
	cv.log.Debug("Style converted",
		zap.String("style", style.Name),
		zap.Int("rules", len(style.Rules)),
		zap.Int("layers", len(layers)),
		zap.Int("warnings", len(res.Warnings)))
	return res, nil
}

// Layers expands all style rules into flat ordered layer list.
func (cv *Converter) Layers(style *ir.Style, c *diag.Collector) []Layer {
	r := resolver{c: c}
	used := make(map[string]bool, len(style.Rules))

	layers := make([]Layer, 0, len(style.Rules))
	for i := range style.Rules {
		rule := &style.Rules[i]

		name := uniqueName(rule.Name, used)

		filter := r.value(rule.Filter)
		minzoom, maxzoom := zoomRange(rule, c)

		for idx, e := range expand(rule.Symbolizers) {
			l, ok := cv.layer(r, e)
			if !ok {
				continue
			}
			l.ID = fmt.Sprintf("%s:%d", name, idx)
			l.Source = style.Name
			l.Filter = filter
			l.MinZoom, l.MaxZoom = minzoom, maxzoom
			layers = append(layers, *l)
		}
	}
	return layers
}

// uniqueName keeps layer ids unique within document when rule names repeat.
func uniqueName(name string, used map[string]bool) string {
	if name == "" {
		name = defaultRuleName
	}
	base := name
	for n := 1; used[name]; n++ {
		name = fmt.Sprintf("%s-%d", base, n)
	}
	used[name] = true
	return name
}

// layer translates single symbolizer isolating any failure: layer is omitted
// and warning recorded.
func (cv *Converter) layer(r resolver, e effective) (l *Layer, ok bool) {
	kind := ir.Kind("<nil>")
	if e.sym != nil {
		kind = e.sym.Kind()
	}
	defer func() {
		if rec := recover(); rec != nil {
			cv.log.Error("Symbolizer translation panicked", zap.String("kind", string(kind)), zap.Any("panic", rec), zap.Stack("stack"))
			r.c.Warn("Unable to translate %s symbolizer: %v", kind, rec)
			l, ok = nil, false
		}
	}()

	l, err := translateSymbolizer(r, e.sym)
	if err != nil {
		r.c.Warn("Unable to translate %s symbolizer, layer omitted: %v", kind, err)
		return nil, false
	}
	e.place.apply(r, l)
	return l, true
}

package mapbox

import (
	"encoding/json"
	"strings"
)

// Layer is a single Mapbox GL style layer.
type Layer struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Source   string         `json:"source"`
	Filter   any            `json:"filter,omitempty"`
	MinZoom  *int           `json:"minzoom,omitempty"`
	MaxZoom  *int           `json:"maxzoom,omitempty"`
	Layout   map[string]any `json:"layout,omitempty"`
	Paint    map[string]any `json:"paint"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Source is a placeholder data source descriptor, real source configuration
// is up to the style consumer.
type Source struct {
	Type  string   `json:"type"`
	Tiles []string `json:"tiles,omitempty"`
	URL   string   `json:"url,omitempty"`
}

// Document is a Mapbox GL style, version 8.
type Document struct {
	Version int               `json:"version"`
	Name    string            `json:"name"`
	Glyphs  string            `json:"glyphs"`
	Sprite  string            `json:"sprite"`
	Sources map[string]Source `json:"sources"`
	Layers  []Layer           `json:"layers"`
}

// JSON serializes document. Empty indent produces compact output.
func (d *Document) JSON(indent string) ([]byte, error) {
	if indent == "" {
		return json.Marshal(d)
	}
	return json.MarshalIndent(d, "", indent)
}

const (
	DefaultGlyphs     = "mapbox://fonts/mapbox/{fontstack}/{range}.pbf"
	DefaultSprite     = "spriteSheet"
	DefaultSourceType = "vector"
)

// Options controls document level settings which cannot be derived from
// style itself.
type Options struct {
	Glyphs     string
	Sprite     string
	SourceType string
	// Tiles and URL may reference "{name}", which is replaced with style
	// name.
	Tiles []string
	URL   string
}

func (o Options) withDefaults() Options {
	if o.Glyphs == "" {
		o.Glyphs = DefaultGlyphs
	}
	if o.Sprite == "" {
		o.Sprite = DefaultSprite
	}
	if o.SourceType == "" {
		o.SourceType = DefaultSourceType
	}
	return o
}

func (o Options) source(name string) Source {
	src := Source{Type: o.SourceType, URL: expandName(o.URL, name)}
	for _, t := range o.Tiles {
		src.Tiles = append(src.Tiles, expandName(t, name))
	}
	return src
}

func expandName(tmpl, name string) string {
	return strings.ReplaceAll(tmpl, "{name}", name)
}

// Result is a converted document with its side output.
type Result struct {
	Style    Document
	Warnings []string
	// Icons are image paths referenced by the style as given by the source,
	// in order of first use. Sprite names are their base names without
	// extension.
	Icons []string
}

package ir

// Kind discriminates symbolizer variants.
type Kind string

const (
	KindIcon   Kind = "Icon"
	KindLine   Kind = "Line"
	KindFill   Kind = "Fill"
	KindMark   Kind = "Mark"
	KindText   Kind = "Text"
	KindRaster Kind = "Raster"
)

// Symbolizer is one drawing instruction of a rule.
type Symbolizer interface {
	Kind() Kind
	// Common gives access to properties shared by all kinds.
	Common() *Base
}

// Base holds properties every symbolizer may carry.
type Base struct {
	Opacity Expr
	// Geometry, when set, replaces the feature geometry before drawing.
	Geometry Expr
}

func (b *Base) Common() *Base { return b }

// Icon draws an external image at point location.
type Icon struct {
	Base
	Image  string
	Rotate Expr
	Size   Quantity
	Color  Expr
}

// Line strokes geometry, optionally with repeated sub-symbols (graphic stroke).
type Line struct {
	Base
	Color               Expr
	Width               Quantity
	Dasharray           Expr
	LineStyle           string
	Cap                 Expr
	Join                Expr
	PerpendicularOffset Quantity

	GraphicStroke         []Symbolizer
	GraphicStrokeInterval Quantity
	GraphicStrokeOffset   Quantity
}

// Fill paints polygon interior, optionally with repeated sub-symbols
// (graphic fill) and an outline.
type Fill struct {
	Base
	Color Expr
	// FillStyle is the brush name; empty and "solid" mean flat color,
	// "no" means no interior, anything else is a hatching pattern.
	FillStyle string

	OutlineColor     Expr
	OutlineWidth     Quantity
	OutlineStyle     string
	OutlineDasharray Expr

	GraphicFill          []Symbolizer
	GraphicFillDistanceX Quantity
	GraphicFillDistanceY Quantity
}

// Mark draws well known shape (or provider supplied vector image) at point
// location.
type Mark struct {
	Base
	WellKnownName string
	// Image is set by provider only when the source marker is backed by an
	// image file.
	Image           string
	Size            Quantity
	Color           Expr
	StrokeColor     Expr
	StrokeWidth     Quantity
	StrokeStyle     string
	StrokeDasharray Expr
	Rotate          Expr
}

// HasImagePath reports whether mark is image backed.
func (m *Mark) HasImagePath() bool {
	return m.Image != ""
}

// Text draws label.
type Text struct {
	Base
	Label  Expr
	Font   string
	Size   Quantity
	Color  Expr
	Offset []Quantity
	Anchor string
	Rotate Expr

	HaloColor Expr
	HaloSize  Quantity
}

// Raster draws coverage.
type Raster struct {
	Base
	Renderer RasterRenderer
}

// Unknown keeps symbolizer of a kind nothing knows how to handle, so it
// could be reported instead of silently lost.
type Unknown struct {
	Base
	Name string
}

// Invalid stands in for symbolizer which could not be decoded. Translators
// report Err and skip it, the rest of the style is still usable.
type Invalid struct {
	Base
	Name string
	Err  error
}

func (*Icon) Kind() Kind      { return KindIcon }
func (*Line) Kind() Kind      { return KindLine }
func (*Fill) Kind() Kind      { return KindFill }
func (*Mark) Kind() Kind      { return KindMark }
func (*Text) Kind() Kind      { return KindText }
func (*Raster) Kind() Kind    { return KindRaster }
func (u *Unknown) Kind() Kind { return Kind(u.Name) }

func (s *Invalid) Kind() Kind {
	if s.Name == "" {
		return "invalid"
	}
	return Kind(s.Name)
}

// RendererType names raster renderer family.
type RendererType string

const (
	RendererSingleBandGray        RendererType = "singlebandgray"
	RendererSingleBandPseudoColor RendererType = "singlebandpseudocolor"
	RendererPaletted              RendererType = "paletted"
	RendererMultiBandColor        RendererType = "multibandcolor"
)

// Classification is the color ramp mode of pseudo color renderer.
type Classification string

const (
	ClassificationContinuous Classification = "continuous"
	ClassificationDiscrete   Classification = "discrete"
	ClassificationExact      Classification = "exact"
)

// ColorEntry is a single classification item in source order.
type ColorEntry struct {
	Value   float64
	Color   string
	Opacity float64
	Label   string
}

// RasterRenderer describes how raster bands are turned into colors.
type RasterRenderer struct {
	Type RendererType
	// Band is used by single band renderers, Bands by multi band ones -
	// 0 means band is not assigned.
	Band           int
	Bands          []int
	Classification Classification
	Entries        []ColorEntry
}

package ir

// wellKnownNames maps desktop renderer marker names to the closest standard
// or vendor well known mark name.
var wellKnownNames = map[string]string{
	"regular_star":         "star",
	"cross2":               "x",
	"equilateral_triangle": "triangle",
	"rectangle":            "square",
	"filled_arrowhead":     "ttf://Webdings#0x34",
	"line":                 "shape://vertline",
	"arrow":                "ttf://Wingdings#0xE9",
	"diamond":              "ttf://Wingdings#0x75",
	"horline":              "shape://horline",
	"vertline":             "shape://vertline",
	"cross":                "shape://plus",
	"slash":                "shape://slash",
	"backslash":            "shape://backslash",
	"x":                    "shape://times",
}

// patternNames maps hatching brush names to marker names.
var patternNames = map[string]string{
	"horizontal": "horline",
	"vertical":   "vertline",
	"cross":      "x",
}

// WellKnownName returns normalized mark name.
func WellKnownName(name string) string {
	if n, ok := wellKnownNames[name]; ok {
		return n
	}
	return name
}

// PatternSize is the size of the mark used to imitate hatching brushes.
const PatternSize = 10

// PatternMark builds the mark imitating hatching brush of given style and
// color. It is tiled PatternSize apart on both axes.
func PatternMark(style string, color Expr) *Mark {
	name := style
	if n, ok := patternNames[style]; ok {
		name = n
	}
	return &Mark{
		WellKnownName: WellKnownName(name),
		Size:          Q(PatternSize, UnitNone),
		Color:         color,
		StrokeColor:   color,
		StrokeWidth:   Q(1, UnitNone),
	}
}

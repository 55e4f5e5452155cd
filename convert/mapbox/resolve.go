package mapbox

import (
	"path"
	"strings"

	"stylebridge/convert/diag"
	"stylebridge/ir"
)

// resolver turns IR property values into Mapbox GL values: expression
// translation first, then unit normalization, then type cast.
type resolver struct {
	c *diag.Collector
}

// value resolves unitless property.
func (r resolver) value(e ir.Expr) any {
	return EncodeExpr(TranslateExpr(e, r.c))
}

// number resolves unitless numeric property.
func (r resolver) number(e ir.Expr) any {
	return castNumber(r.value(e))
}

// size resolves unit bearing property into pixels.
func (r resolver) size(q ir.Quantity) any {
	if !q.IsSet() {
		return nil
	}
	return castNumber(EncodeExpr(r.pixels(q)))
}

func (r resolver) pixels(q ir.Quantity) ir.Expr {
	return ToPixels(TranslateExpr(q.Value, r.c), q.Unit, r.c)
}

// half resolves size and divides it by two.
func (r resolver) half(q ir.Quantity) any {
	if !q.IsSet() {
		return nil
	}
	px := r.pixels(q)
	if n, ok := ir.Number(px); ok {
		return n / 2
	}
	if !ir.IsDataDefined(px) {
		// map unit distance strings cannot be halved
		return EncodeExpr(px)
	}
	return EncodeExpr(ir.NewCall("/", px, ir.Lit(2.0)))
}

// color resolves color property normalizing "r,g,b,a" notation.
func (r resolver) color(e ir.Expr) any {
	if s, ok := ir.TextValue(e); ok {
		return ir.HexColor(s)
	}
	return r.value(e)
}

// dashes resolves dash pattern. Space or comma separated strings become
// number arrays.
func (r resolver) dashes(e ir.Expr) any {
	if s, ok := ir.TextValue(e); ok {
		fields := strings.FieldsFunc(s, func(c rune) bool { return c == ' ' || c == ',' || c == ';' })
		out := make([]any, 0, len(fields))
		for _, f := range fields {
			out = append(out, castNumber(f))
		}
		return out
	}
	if l, ok := e.(ir.Literal); ok {
		if arr, ok := l.Value.([]any); ok {
			out := make([]any, 0, len(arr))
			for _, v := range arr {
				out = append(out, castNumber(v))
			}
			return out
		}
	}
	return r.value(e)
}

// SpriteName is the icon name used in the sprite sheet for image path.
// Windows separators are accepted too, paths come from desktop projects.
func SpriteName(p string) string {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

// isSolid reports whether stroke or brush style name means plain drawing.
func isSolid(style string) bool {
	return style == "" || style == "solid"
}

// put sets key when value is present.
func put(m map[string]any, key string, v any) {
	if v != nil {
		m[key] = v
	}
}

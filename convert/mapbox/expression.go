package mapbox

import (
	"stylebridge/convert/diag"
	"stylebridge/ir"
)

// renames maps source vocabulary operators to Mapbox GL expression operators.
var renames = map[string]string{
	"PropertyName": "get",
	"Add":          "+",
	"Sub":          "-",
	"Mul":          "*",
	"Div":          "/",
	"Mod":          "%",
	"Pow":          "^",
	"Eq":           "==",
	"NotEq":        "!=",
	"Lt":           "<",
	"Gt":           ">",
	"LtEq":         "<=",
	"GtEq":         ">=",
	"And":          "all",
	"Or":           "any",
	"Not":          "!",
	"Concat":       "concat",
	"ToUpper":      "upcase",
	"ToLower":      "downcase",
	"Coalesce":     "coalesce",
	"Case":         "case",
	"Abs":          "abs",
	"Floor":        "floor",
	"Ceil":         "ceil",
	"Round":        "round",
	"Sqrt":         "sqrt",
	"Min":          "min",
	"Max":          "max",
	"Length":       "length",
	"Geometry":     "geometry-type",
	"ToNumber":     "to-number",
	"ToString":     "to-string",
}

// native lists Mapbox GL operators which are accepted when they appear
// directly in the source.
var native = map[string]struct{}{}

func init() {
	for _, op := range renames {
		native[op] = struct{}{}
	}
	for _, op := range []string{
		"literal", "has", "in", "match", "step", "interpolate", "linear",
		"exponential", "zoom", "to-boolean", "to-color", "typeof", "let", "var",
		"at", "index-of", "slice", "number-format", "format", "rgb", "rgba",
		"id", "properties", "ln", "log10", "log2", "e", "pi", "sin", "cos",
		"tan", "asin", "acos", "atan", "within", "distance", "image",
	} {
		native[op] = struct{}{}
	}
}

// TranslateExpr rewrites expression tree into Mapbox GL operator vocabulary.
// Unknown operators are kept as is and reported once per occurrence,
// unsupported nodes are returned unchanged with a warning.
func TranslateExpr(e ir.Expr, c *diag.Collector) ir.Expr {
	switch t := e.(type) {
	case nil:
		return nil
	case ir.Literal, ir.Property:
		return e
	case ir.Call:
		if t.Op == "" {
			c.Warn("Unsupported expression: '%s'", t)
			return t
		}
		op, ok := renames[t.Op]
		if !ok {
			op = t.Op
			if _, ok := native[op]; !ok {
				c.Warn("Unsupported expression operator: '%s'", t.Op)
			}
		}
		args := make([]ir.Expr, len(t.Args))
		for i, a := range t.Args {
			if a == nil {
				c.Warn("Unsupported empty argument %d of '%s'", i, t.Op)
				continue
			}
			args[i] = TranslateExpr(a, c)
		}
		return ir.Call{Op: op, Args: args}
	}
	c.Warn("Unsupported expression: '%v'", e)
	return e
}

// EncodeExpr renders translated expression into JSON ready value. Literal
// arrays used as operator arguments are wrapped into "literal" so Mapbox GL
// does not take them for nested expressions.
func EncodeExpr(e ir.Expr) any {
	return encode(e, false)
}

func encode(e ir.Expr, nested bool) any {
	switch t := e.(type) {
	case nil:
		return nil
	case ir.Literal:
		if arr, ok := t.Value.([]any); ok && nested {
			return []any{"literal", arr}
		}
		return t.Value
	case ir.Property:
		return []any{"get", t.Name}
	case ir.Call:
		out := make([]any, 0, len(t.Args)+1)
		out = append(out, t.Op)
		for _, a := range t.Args {
			out = append(out, encode(a, true))
		}
		return out
	}
	return nil
}

package sld

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"stylebridge/convert/diag"
	"stylebridge/ir"
)

// ogcOperators maps source operators to OGC filter encoding elements.
var ogcOperators = map[string]string{
	"Eq":      "PropertyIsEqualTo",
	"NotEq":   "PropertyIsNotEqualTo",
	"Lt":      "PropertyIsLessThan",
	"Gt":      "PropertyIsGreaterThan",
	"LtEq":    "PropertyIsLessThanOrEqualTo",
	"GtEq":    "PropertyIsGreaterThanOrEqualTo",
	"Like":    "PropertyIsLike",
	"IsNull":  "PropertyIsNull",
	"Between": "PropertyIsBetween",
	"And":     "And",
	"Or":      "Or",
	"Not":     "Not",
	"Add":     "Add",
	"Sub":     "Sub",
	"Mul":     "Mul",
	"Div":     "Div",
}

// predicates are operators producing boolean filter elements.
var predicates = map[string]bool{
	"Eq": true, "NotEq": true, "Lt": true, "Gt": true, "LtEq": true, "GtEq": true,
	"Like": true, "IsNull": true, "Between": true, "And": true, "Or": true, "Not": true,
}

// ogcFunctions maps source operators to filter function names.
var ogcFunctions = map[string]string{
	"Concat":   "Concatenate",
	"ToUpper":  "strToUpperCase",
	"ToLower":  "strToLowerCase",
	"Length":   "strLength",
	"Abs":      "abs",
	"Floor":    "floor",
	"Ceil":     "ceil",
	"Round":    "round",
	"Sqrt":     "sqrt",
	"Min":      "min",
	"Max":      "max",
	"Pow":      "pow",
	"Mod":      "IEEERemainder",
	"Geometry": "geometryType",
	"ToNumber": "parseDouble",
}

// exprWriter renders expressions as OGC filter encoding.
type exprWriter struct {
	c *diag.Collector
}

// filter writes rule filter. Non boolean expressions are compared with true.
func (w exprWriter) filter(parent *etree.Element, e ir.Expr) {
	if e == nil {
		return
	}
	f := parent.CreateElement("ogc:Filter")
	if call, ok := e.(ir.Call); ok && predicates[call.Op] {
		w.expr(f, e)
		return
	}
	eq := f.CreateElement("ogc:PropertyIsEqualTo")
	w.expr(eq, e)
	eq.CreateElement("ogc:Literal").SetText("true")
}

// expr appends expression element to parent.
func (w exprWriter) expr(parent *etree.Element, e ir.Expr) {
	switch t := e.(type) {
	case nil:
		return
	case ir.Literal:
		parent.CreateElement("ogc:Literal").SetText(literalText(t.Value))
	case ir.Property:
		parent.CreateElement("ogc:PropertyName").SetText(t.Name)
	case ir.Call:
		w.call(parent, t)
	}
}

func (w exprWriter) call(parent *etree.Element, c ir.Call) {
	if c.Op == "PropertyName" && len(c.Args) == 1 {
		if name, ok := ir.TextValue(c.Args[0]); ok {
			parent.CreateElement("ogc:PropertyName").SetText(name)
			return
		}
	}
	var el *etree.Element
	switch {
	case ogcOperators[c.Op] != "":
		el = parent.CreateElement("ogc:" + ogcOperators[c.Op])
	case ogcFunctions[c.Op] != "":
		el = parent.CreateElement("ogc:Function")
		el.CreateAttr("name", ogcFunctions[c.Op])
	default:
		if c.Op == "" {
			w.c.Warn("Unsupported expression: '%s'", c)
		} else {
			w.c.Warn("Unsupported expression operator: '%s'", c.Op)
		}
		el = parent.CreateElement("ogc:Function")
		el.CreateAttr("name", c.Op)
	}
	for _, a := range c.Args {
		w.expr(el, a)
	}
}

// value writes parameter value: literals as text, anything else as nested
// expression.
func (w exprWriter) value(el *etree.Element, e ir.Expr) {
	if l, ok := e.(ir.Literal); ok {
		el.SetText(literalText(l.Value))
		return
	}
	w.expr(el, e)
}

func literalText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, literalText(item))
		}
		return strings.Join(parts, " ")
	}
	return ""
}

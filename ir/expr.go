package ir

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Expr is a node of a data-defined expression tree. The tree is closed: only
// Literal, Property and Call implement it. Symbolizer properties are
// expressions too - a fixed value is simply a Literal.
type Expr interface {
	isExpr()
	fmt.Stringer
}

// Literal is a constant: float64, string, bool or []any of those.
type Literal struct {
	Value any
}

// Property references a feature attribute by name.
type Property struct {
	Name string
}

// Call applies an operator to ordered arguments. Operators are free-form
// names from the source vocabulary, translators decide what they mean.
type Call struct {
	Op   string
	Args []Expr
}

func (Literal) isExpr()  {}
func (Property) isExpr() {}
func (Call) isExpr()     {}

// Lit wraps a Go value into Literal normalizing numeric types to float64.
func Lit(v any) Literal {
	return Literal{Value: normalizeNumber(v)}
}

// Prop makes property reference.
func Prop(name string) Property {
	return Property{Name: name}
}

// NewCall makes operator call.
func NewCall(op string, args ...Expr) Call {
	return Call{Op: op, Args: args}
}

// IsDataDefined reports whether e is computed per feature. Absent (nil)
// values and literals are not.
func IsDataDefined(e Expr) bool {
	if e == nil {
		return false
	}
	_, lit := e.(Literal)
	return !lit
}

// Number returns numeric value of a literal expression. Numeric strings are
// accepted as numbers. NaN and infinities are not numbers here, they cannot
// be written into JSON documents.
func Number(e Expr) (float64, bool) {
	l, ok := e.(Literal)
	if !ok {
		return 0, false
	}
	switch v := l.Value.(type) {
	case float64:
		return v, IsFinite(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || !IsFinite(f) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// IsFinite reports whether f is neither NaN nor infinity.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// TextValue returns string value of a literal expression.
func TextValue(e Expr) (string, bool) {
	l, ok := e.(Literal)
	if !ok {
		return "", false
	}
	s, ok := l.Value.(string)
	return s, ok
}

func (l Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, Literal{Value: item}.String())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (p Property) String() string {
	return "@" + p.Name
}

func (c Call) String() string {
	parts := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		if a == nil {
			parts = append(parts, "<nil>")
			continue
		}
		parts = append(parts, a.String())
	}
	return c.Op + "(" + strings.Join(parts, ", ") + ")"
}

func normalizeNumber(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return finiteOrText(float64(n))
	case float64:
		return finiteOrText(n)
	case []any:
		out := make([]any, len(n))
		for i := range n {
			out[i] = normalizeNumber(n[i])
		}
		return out
	}
	return v
}

// finiteOrText keeps non finite floats as their text form so literal stays
// encodable.
func finiteOrText(f float64) any {
	if IsFinite(f) {
		return f
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Package ir defines canonical intermediate style description: styles, rules,
// symbolizers and data-defined expressions independent of any source or
// target format. Values are built once by a source style provider (or decoded
// from JSON/YAML) and never modified by translators.
package ir

import (
	"errors"
	"fmt"
)

// Style is a named ordered set of rules. Name identifies the single implicit
// data source of the style.
type Style struct {
	Name  string
	Rules []Rule
}

// ScaleDenominator limits rule visibility by map scale 1:N. Missing or
// non-positive bound means unbounded.
type ScaleDenominator struct {
	Min *float64
	Max *float64
}

// Rule is a filter, a scale range and symbolizers in paint order (earlier is
// drawn below later).
type Rule struct {
	Name        string
	Filter      Expr
	Scale       *ScaleDenominator
	Symbolizers []Symbolizer
}

// DependsOnScale reports whether rule has at least one meaningful bound.
func (r *Rule) DependsOnScale() bool {
	if r.Scale == nil {
		return false
	}
	return bounded(r.Scale.Min) || bounded(r.Scale.Max)
}

func bounded(v *float64) bool {
	return v != nil && *v > 0
}

// ErrStructure is wrapped by all structural errors.
var ErrStructure = errors.New("malformed style")

// StructuralError reports missing mandatory element of the style. No partial
// result is ever returned together with it.
type StructuralError struct {
	Element string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrStructure, e.Element)
}

func (e *StructuralError) Unwrap() error {
	return ErrStructure
}

// Validate checks mandatory top level elements. Everything else degrades
// gracefully during translation.
func (s *Style) Validate() error {
	if s == nil {
		return &StructuralError{Element: "style"}
	}
	if s.Name == "" {
		return &StructuralError{Element: "name"}
	}
	if s.Rules == nil {
		return &StructuralError{Element: "rules"}
	}
	return nil
}

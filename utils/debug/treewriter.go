// Package debug renders indented human readable dumps of intermediate
// structures for logs and debug reports.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes quoted label value pair.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Field writes label value pair unless value is absent. Stringers are
// rendered with their String method.
func (tw TreeWriter) Field(depth int, label string, value any) {
	switch v := value.(type) {
	case nil:
		return
	case string:
		if v == "" {
			return
		}
		tw.TextBlock(depth, label, v)
		return
	case fmt.Stringer:
		tw.Line(depth, "%s: %s", label, v.String())
		return
	}
	tw.Line(depth, "%s: %v", label, value)
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}

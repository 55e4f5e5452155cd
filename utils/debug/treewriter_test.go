package debug

import (
	"testing"
)

type stringer string

func (s stringer) String() string { return "<" + string(s) + ">" }

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{name: "no depth", depth: 0, format: "style", want: "style\n"},
		{name: "depth 1", depth: 1, format: "rule", want: "  rule\n"},
		{name: "depth 2", depth: 2, format: "symbolizer", want: "    symbolizer\n"},
		{name: "with formatting", depth: 1, format: "rules: %d", args: []any{3}, want: "  rules: 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Field(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil skipped", value: nil, want: ""},
		{name: "empty string skipped", value: "", want: ""},
		{name: "string quoted", value: "roads", want: "  name: \"roads\"\n"},
		{name: "stringer", value: stringer("x"), want: "  name: <x>\n"},
		{name: "number", value: 2.5, want: "  name: 2.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Field(1, "name", tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("Field() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"hello", `"hello"`},
		{`say "hi"`, `"say \"hi\""`},
		{"line1\nline2", `"line1\nline2"`},
	}

	for _, tt := range tests {
		if got := encodeText(tt.input); got != tt.want {
			t.Errorf("encodeText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTreeWriter_Nested(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "style")
	tw.TextBlock(1, "name", "roads")
	tw.Line(1, "rule")
	tw.Field(2, "filter", stringer("f"))

	want := "style\n  name: \"roads\"\n  rule\n    filter: <f>\n"
	if got := tw.String(); got != want {
		t.Errorf("nested:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

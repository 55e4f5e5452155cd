package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"stylebridge/common"
	"stylebridge/config"
	"stylebridge/ir"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context     string
	Name        string
	SourceFile  string
	Format      string
	Rules       int
	Symbolizers int
}

func countSymbolizers(style *ir.Style) int {
	n := 0
	for _, r := range style.Rules {
		n += len(r.Symbolizers)
	}
	return n
}

func expandTemplate(style *ir.Style, src string, name config.TemplateFieldName, field string, format common.TargetFmt) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:     string(name),
		Name:        style.Name,
		SourceFile:  strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
		Format:      format.String(),
		Rules:       len(style.Rules),
		Symbolizers: countSymbolizers(style),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

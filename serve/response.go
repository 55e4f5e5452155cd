package serve

import (
	"encoding/json"

	"stylebridge/common"
	"stylebridge/convert"
)

// response is conversion result. Mapbox style is embedded as JSON object,
// SLD as XML text.
type response struct {
	Style    json.RawMessage `json:"style,omitempty"`
	Sld      string          `json:"sld,omitempty"`
	Warnings []string        `json:"warnings"`
	Icons    []string        `json:"icons"`
}

func newResponse(out *convert.Output) *response {
	r := &response{
		Warnings: out.Warnings,
		Icons:    out.Icons,
	}
	if r.Warnings == nil {
		r.Warnings = []string{}
	}
	if r.Icons == nil {
		r.Icons = []string{}
	}
	switch out.Target {
	case common.TargetFmtSld:
		r.Sld = string(out.Data)
	default:
		r.Style = out.Data
	}
	return r
}

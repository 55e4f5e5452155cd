package convert

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"stylebridge/common"
	"stylebridge/config"
	"stylebridge/convert/mapbox"
	"stylebridge/convert/sld"
	"stylebridge/ir"
)

// Output is a style translated into target format and serialized.
type Output struct {
	Target   common.TargetFmt
	Data     []byte
	Warnings []string
	Icons    []string
}

// MapboxOptions builds document options from configuration.
func MapboxOptions(cfg *config.MapboxConfig) mapbox.Options {
	return mapbox.Options{
		Glyphs:     cfg.Glyphs,
		Sprite:     cfg.Sprite,
		SourceType: cfg.SourceType,
		Tiles:      cfg.Tiles,
		URL:        cfg.URL,
	}
}

// Translate converts style into requested target. Only structural problems
// with style are returned as errors, see ir.ErrStructure.
func Translate(style *ir.Style, target common.TargetFmt, cfg *config.Config, log *zap.Logger) (*Output, error) {
	if log == nil {
		log = zap.NewNop()
	}
	out := &Output{Target: target}

	switch target {
	case common.TargetFmtMapbox:
		res, err := mapbox.NewConverter(MapboxOptions(&cfg.Mapbox), log).Convert(style)
		if err != nil {
			return nil, err
		}
		if out.Data, err = res.Style.JSON(strings.Repeat(" ", cfg.Conversion.Indent)); err != nil {
			return nil, fmt.Errorf("unable to serialize mapbox style: %w", err)
		}
		out.Warnings, out.Icons = res.Warnings, res.Icons
	case common.TargetFmtSld:
		res, err := sld.NewEncoder(log).Encode(style)
		if err != nil {
			return nil, err
		}
		if out.Data, err = res.XML(cfg.Conversion.Indent); err != nil {
			return nil, fmt.Errorf("unable to serialize sld document: %w", err)
		}
		out.Warnings, out.Icons = res.Warnings, res.Icons
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrInvalidTargetFmt, target)
	}
	return out, nil
}

package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"stylebridge/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	ConversionConfig struct {
		Target                common.TargetFmt `yaml:"target" validate:"gte=0"`
		OutputNameTemplate    string           `yaml:"output_name_template"`
		FileNameTransliterate bool             `yaml:"file_name_transliterate"`
		WriteWarnings         bool             `yaml:"write_warnings"`
		Indent                int              `yaml:"indent" validate:"gte=0,lte=8"`
		Workers               int              `yaml:"workers" validate:"gte=0"`
	}

	MapboxConfig struct {
		Glyphs     string   `yaml:"glyphs" validate:"required"`
		Sprite     string   `yaml:"sprite" validate:"required"`
		SourceType string   `yaml:"source_type" validate:"oneof=vector raster geojson"`
		Tiles      []string `yaml:"tiles" validate:"dive,required"`
		URL        string   `yaml:"url"`
	}

	SpriteConfig struct {
		Generate bool `yaml:"generate"`
		// IconSize is the largest side of a sprite icon at pixel ratio 1.
		IconSize  int   `yaml:"icon_size" validate:"min=8,max=512"`
		CacheSize int64 `yaml:"cache_size" validate:"gte=0"`
		HighDPI   bool  `yaml:"high_dpi"`
	}

	ServerConfig struct {
		Listen    string       `yaml:"listen" validate:"required"`
		Token     SecretString `yaml:"token"`
		BodyLimit int          `yaml:"body_limit" validate:"min=1024"`
	}

	Config struct {
		Version    int              `yaml:"version" validate:"eq=1"`
		Conversion ConversionConfig `yaml:"conversion"`
		Mapbox     MapboxConfig     `yaml:"mapbox"`
		Sprite     SpriteConfig     `yaml:"sprite"`
		Server     ServerConfig     `yaml:"server"`
		Logging    LoggingConfig    `yaml:"logging"`
		Reporting  ReporterConfig   `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field names above
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
	TilesFieldName              TemplateFieldName = "tiles"
	URLFieldName                TemplateFieldName = "url"
)

// Tiles and source url keep "{name}" placeholders which are expanded per
// style, template processing must not touch them.
var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(TilesFieldName)),
	gencfg.WithDoNotExpandField(string(URLFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// only fields we defined are allowed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads configuration file at path on top of defaults
// produced from embedded template and validates the result. Empty path
// means defaults only.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare returns default configuration expanded from template.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

// Dump returns active configuration as YAML with secrets masked.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

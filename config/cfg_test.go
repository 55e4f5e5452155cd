package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rupor-github/gencfg"

	"stylebridge/common"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Conversion.Target != common.TargetFmtMapbox {
		t.Errorf("Default target = %v, want mapbox", cfg.Conversion.Target)
	}
	if cfg.Mapbox.Glyphs != "mapbox://fonts/mapbox/{fontstack}/{range}.pbf" {
		t.Errorf("Default glyphs = %q", cfg.Mapbox.Glyphs)
	}
	if cfg.Mapbox.SourceType != "vector" || cfg.Mapbox.Sprite != "spriteSheet" {
		t.Errorf("Default mapbox = %+v", cfg.Mapbox)
	}
	if !cfg.Conversion.WriteWarnings || cfg.Conversion.Indent != 2 {
		t.Errorf("Default conversion = %+v", cfg.Conversion)
	}
	if cfg.Sprite.IconSize != 32 || cfg.Server.Listen == "" {
		t.Errorf("Default sprite/server = %+v %+v", cfg.Sprite, cfg.Server)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
conversion:
  target: sld
  output_name_template: "{{ .Name | lower }}"
  workers: 3
mapbox:
  source_type: raster
  tiles: ["https://tiles.example.com/{name}/{z}/{x}/{y}.png"]
sprite:
  generate: true
  icon_size: 64
server:
  token: abc
logging:
  console:
    level: debug
`)
	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Conversion.Target != common.TargetFmtSld {
		t.Errorf("Target = %v, want sld", cfg.Conversion.Target)
	}
	if cfg.Conversion.OutputNameTemplate != "{{ .Name | lower }}" {
		t.Errorf("OutputNameTemplate = %q, template must not be expanded", cfg.Conversion.OutputNameTemplate)
	}
	if cfg.Conversion.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Conversion.Workers)
	}
	if cfg.Mapbox.SourceType != "raster" || len(cfg.Mapbox.Tiles) != 1 {
		t.Errorf("Mapbox = %+v", cfg.Mapbox)
	}
	if !cfg.Sprite.Generate || cfg.Sprite.IconSize != 64 {
		t.Errorf("Sprite = %+v", cfg.Sprite)
	}
	if cfg.Server.Token.Value() != "abc" {
		t.Errorf("Token was not loaded")
	}
	// values not present in file come from defaults
	if cfg.Mapbox.Glyphs == "" || cfg.Reporting.Destination == "" {
		t.Errorf("Defaults lost: %+v %+v", cfg.Mapbox, cfg.Reporting)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\nconversion:\n  indent: 2\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"bad version", "version: 2\n"},
		{"bad target", "version: 1\nconversion:\n  target: kml\n"},
		{"bad source type", "version: 1\nmapbox:\n  source_type: wms\n"},
		{"small icons", "version: 1\nsprite:\n  icon_size: 4\n"},
		{"empty tile", "version: 1\nmapbox:\n  tiles: [\"\"]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {}
	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if _, err := unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Server.Token = "very-secret"
	cfg.Conversion.Target = common.TargetFmtSld

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if strings.Contains(string(data), "very-secret") {
		t.Error("Dump() leaks server token")
	}
	if !strings.Contains(string(data), "target: sld") {
		t.Errorf("Dump() has no target:\n%s", data)
	}

	cfg2, err := unmarshalConfig(data, &Config{}, false)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Conversion.Target != common.TargetFmtSld || cfg2.Sprite.IconSize != cfg.Sprite.IconSize {
		t.Errorf("Mismatch after dump/load: %+v", cfg2)
	}
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	_, err := unmarshalConfig([]byte("version: 99\n"), &Config{}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validation") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error, got: %v", err)
	}
}

func TestCleanFileName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"roads", "roads"},
		{"a" + string(os.PathSeparator) + "b", "ab"},
		{"", "_bad_file_name_"},
	}
	for _, tt := range tests {
		if got := CleanFileName(tt.in); got != tt.want {
			t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

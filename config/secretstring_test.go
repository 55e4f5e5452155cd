package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	yaml "gopkg.in/yaml.v3"
)

func TestSecretString_Marshal(t *testing.T) {
	tests := []struct {
		name     string
		value    SecretString
		wantJSON any
		wantYAML string
	}{
		{"empty", "", nil, "null"},
		{"token", "s3cr3t", SecretStringValue, SecretStringValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// encoding/json escapes <> in marshaler output, compare decoded value
			data, err := json.Marshal(tt.value)
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}
			var got any
			if err := json.Unmarshal(data, &got); err != nil || got != tt.wantJSON {
				t.Errorf("json = %s (%v), %v, want %v", data, got, err, tt.wantJSON)
			}
			data, err = yaml.Marshal(tt.value)
			if err != nil || !strings.Contains(string(data), tt.wantYAML) {
				t.Errorf("yaml = %q, %v, want %q", data, err, tt.wantYAML)
			}
		})
	}
}

func TestSecretString_NoLeakage(t *testing.T) {
	type holder struct {
		Token SecretString `json:"token" yaml:"token"`
	}
	h := holder{Token: "top-secret-token"}

	renderings := map[string]string{
		"fmt": fmt.Sprintf("%v %s", h, h.Token),
	}
	if data, err := json.Marshal(h); err == nil {
		var raw map[string]string
		if err := json.Unmarshal(data, &raw); err != nil {
			t.Fatalf("json rendering is not an object: %s", data)
		}
		renderings["json"] = raw["token"]
	}
	if data, err := yaml.Marshal(h); err == nil {
		renderings["yaml"] = string(data)
	}

	core, logs := observer.New(zap.InfoLevel)
	zap.New(core).Info("server", zap.Stringer("token", h.Token))
	renderings["zap"] = fmt.Sprint(logs.All()[0].ContextMap())

	for name, out := range renderings {
		if strings.Contains(out, "top-secret-token") {
			t.Errorf("%s rendering leaks secret: %s", name, out)
		}
		if !strings.Contains(out, SecretStringValue) {
			t.Errorf("%s rendering has no placeholder: %s", name, out)
		}
	}
	if h.Token.Value() != "top-secret-token" {
		t.Error("Value() must return actual secret")
	}
}

func TestSecretString_Unmarshal(t *testing.T) {
	var cfg struct {
		Token SecretString `yaml:"token"`
	}
	if err := yaml.Unmarshal([]byte("token: abc\n"), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Token.Value() != "abc" {
		t.Errorf("Token = %q", cfg.Token.Value())
	}
}

package common

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseTargetFmt(t *testing.T) {
	tests := []struct {
		in      string
		want    TargetFmt
		wantErr bool
	}{
		{"mapbox", TargetFmtMapbox, false},
		{"SLD", TargetFmtSld, false},
		{"Mapbox", TargetFmtMapbox, false},
		{"kml", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTargetFmt(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTargetFmt(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidTargetFmt) {
				t.Errorf("error %v does not wrap ErrInvalidTargetFmt", err)
			}
			if got != tt.want {
				t.Errorf("ParseTargetFmt(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTargetFmt_Text(t *testing.T) {
	data, err := TargetFmtSld.MarshalText()
	if err != nil || string(data) != "sld" {
		t.Fatalf("MarshalText() = %q, %v", data, err)
	}
	if _, err := TargetFmt(7).MarshalText(); err == nil {
		t.Error("expected error for invalid value")
	}

	var f TargetFmt
	if err := f.UnmarshalText([]byte("sld")); err != nil || f != TargetFmtSld {
		t.Errorf("UnmarshalText() = %v, %v", f, err)
	}
	if err := f.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("expected error for unknown name")
	}
	if TargetFmt(7).String() != "TargetFmt(7)" {
		t.Errorf("String() = %q", TargetFmt(7).String())
	}
}

func TestTargetFmt_Ext(t *testing.T) {
	if TargetFmtMapbox.Ext() != ".json" || TargetFmtSld.Ext() != ".sld" {
		t.Errorf("Ext() = %q, %q", TargetFmtMapbox.Ext(), TargetFmtSld.Ext())
	}
	if TargetFmtSld.ContentType() != "application/vnd.ogc.sld+xml" {
		t.Errorf("ContentType() = %q", TargetFmtSld.ContentType())
	}
	defer func() {
		if recover() == nil {
			t.Error("Ext() should panic for invalid format")
		}
	}()
	_ = TargetFmt(42).Ext()
}

func TestTargetFmtNames(t *testing.T) {
	names := TargetFmtNames()
	if !reflect.DeepEqual(names, []string{"mapbox", "sld"}) {
		t.Errorf("TargetFmtNames() = %v", names)
	}
	names[0] = "changed"
	if TargetFmtNames()[0] != "mapbox" {
		t.Error("TargetFmtNames() exposes internal slice")
	}
}

package raster

import (
	"reflect"
	"testing"

	"go.uber.org/zap/zaptest"

	"stylebridge/convert/diag"
	"stylebridge/ir"
)

func TestChannelSelection(t *testing.T) {
	tests := []struct {
		name string
		r    ir.RasterRenderer
		want *Channels
		ok   bool
	}{
		{
			name: "gray",
			r:    ir.RasterRenderer{Type: ir.RendererSingleBandGray, Band: 2},
			want: &Channels{Gray: &Channel{"2"}},
			ok:   true,
		},
		{
			name: "paletted",
			r:    ir.RasterRenderer{Type: ir.RendererPaletted, Band: 1},
			want: &Channels{Gray: &Channel{"1"}},
			ok:   true,
		},
		{
			name: "multiband all",
			r:    ir.RasterRenderer{Type: ir.RendererMultiBandColor, Bands: []int{3, 2, 1}},
			want: &Channels{Red: &Channel{"3"}, Green: &Channel{"2"}, Blue: &Channel{"1"}},
			ok:   true,
		},
		{
			name: "multiband partially assigned",
			r:    ir.RasterRenderer{Type: ir.RendererMultiBandColor, Bands: []int{0, 4}},
			want: &Channels{Red: &Channel{"4"}},
			ok:   true,
		},
		{
			name: "unsupported",
			r:    ir.RasterRenderer{Type: "hillshade"},
			want: nil,
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ChannelSelection(tt.r)
			if ok != tt.ok || !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ChannelSelection() = %+v, %v, want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestColorMapType(t *testing.T) {
	tests := []struct {
		name string
		r    ir.RasterRenderer
		want RampType
	}{
		{"gray", ir.RasterRenderer{Type: ir.RendererSingleBandGray}, RampContinuous},
		{"pseudo continuous", ir.RasterRenderer{Type: ir.RendererSingleBandPseudoColor, Classification: ir.ClassificationContinuous}, RampContinuous},
		{"pseudo discrete", ir.RasterRenderer{Type: ir.RendererSingleBandPseudoColor, Classification: ir.ClassificationDiscrete}, RampIntervals},
		{"pseudo exact", ir.RasterRenderer{Type: ir.RendererSingleBandPseudoColor, Classification: ir.ClassificationExact}, RampValues},
		{"paletted", ir.RasterRenderer{Type: ir.RendererPaletted}, RampValues},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm, ok := BuildColorMap(tt.r)
			if !ok || cm == nil {
				t.Fatalf("BuildColorMap() = %v, %v", cm, ok)
			}
			if cm.Type != tt.want || !cm.Extended {
				t.Errorf("BuildColorMap() type = %q extended = %v, want %q", cm.Type, cm.Extended, tt.want)
			}
		})
	}

	if cm, ok := BuildColorMap(ir.RasterRenderer{Type: ir.RendererMultiBandColor}); cm != nil || !ok {
		t.Errorf("multiband BuildColorMap() = %v, %v, want nil, true", cm, ok)
	}
}

func TestColorMapKeepsOrder(t *testing.T) {
	r := ir.RasterRenderer{
		Type:           ir.RendererSingleBandPseudoColor,
		Classification: ir.ClassificationDiscrete,
		Entries: []ir.ColorEntry{
			{Value: 100, Color: "255,0,0,255", Opacity: 1, Label: "high"},
			{Value: 10, Color: "#00ff00", Opacity: 0.5, Label: "low"},
			{Value: 50, Color: "#0000ff", Opacity: 1},
		},
	}
	cm, _ := BuildColorMap(r)
	want := []Entry{
		{Quantity: 100, Color: "#ff0000", Opacity: 1, Label: "high"},
		{Quantity: 10, Color: "#00ff00", Opacity: 0.5, Label: "low"},
		{Quantity: 50, Color: "#0000ff", Opacity: 1},
	}
	if !reflect.DeepEqual(cm.Entries, want) {
		t.Errorf("entries = %+v, want %+v", cm.Entries, want)
	}
}

func TestTranslateWarnsOnce(t *testing.T) {
	c := diag.New(zaptest.NewLogger(t))
	cs, cm := Translate(ir.RasterRenderer{Type: "contour"}, c)
	if cs != nil || cm != nil {
		t.Errorf("Translate() = %v, %v, want nil, nil", cs, cm)
	}
	if got := c.Warnings(); len(got) != 1 || got[0] != "Unsupported raster renderer: 'contour'" {
		t.Errorf("warnings = %v", got)
	}
}

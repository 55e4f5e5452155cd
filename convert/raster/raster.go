// Package raster maps raster renderer description into target agnostic
// channel selection and color map structures shared by all targets.
package raster

import (
	"strconv"

	"stylebridge/convert/diag"
	"stylebridge/ir"
)

// Channel references source band by name.
type Channel struct {
	SourceChannelName string `json:"sourceChannelName"`
}

// Channels is a band to output channel assignment. Either gray or some of
// red/green/blue are set.
type Channels struct {
	Gray  *Channel `json:"grayChannel,omitempty"`
	Red   *Channel `json:"redChannel,omitempty"`
	Green *Channel `json:"greenChannel,omitempty"`
	Blue  *Channel `json:"blueChannel,omitempty"`
}

// RampType tells target how color map entries are interpreted.
type RampType string

const (
	RampContinuous RampType = "ramp"
	RampIntervals  RampType = "intervals"
	RampValues     RampType = "values"
)

// Entry is a single color map item.
type Entry struct {
	Quantity float64 `json:"quantity"`
	Color    string  `json:"color"`
	Opacity  float64 `json:"opacity"`
	Label    string  `json:"label"`
}

// ColorMap is ordered list of entries, order is significant for ramps and
// interval breaks.
type ColorMap struct {
	Type     RampType `json:"type"`
	Extended bool     `json:"extended"`
	Entries  []Entry  `json:"colorMapEntries"`
}

func channel(band int) *Channel {
	return &Channel{SourceChannelName: strconv.Itoa(band)}
}

// ChannelSelection assigns renderer bands to output channels. Second value
// is false when renderer type is not supported.
func ChannelSelection(r ir.RasterRenderer) (*Channels, bool) {
	switch r.Type {
	case ir.RendererSingleBandGray, ir.RendererSingleBandPseudoColor, ir.RendererPaletted:
		return &Channels{Gray: channel(r.Band)}, true
	case ir.RendererMultiBandColor:
		cs := &Channels{}
		slots := []**Channel{&cs.Red, &cs.Green, &cs.Blue}
		i := 0
		for _, band := range r.Bands {
			if i == len(slots) {
				break
			}
			if band <= 0 {
				continue
			}
			*slots[i] = channel(band)
			i++
		}
		return cs, true
	}
	return nil, false
}

// BuildColorMap builds color map for renderer. Multiband renderers have none, so
// nil with true is returned for them; false means renderer is not supported.
func BuildColorMap(r ir.RasterRenderer) (*ColorMap, bool) {
	var rt RampType
	switch r.Type {
	case ir.RendererSingleBandGray:
		rt = RampContinuous
	case ir.RendererSingleBandPseudoColor:
		switch r.Classification {
		case ir.ClassificationDiscrete:
			rt = RampIntervals
		case ir.ClassificationExact:
			rt = RampValues
		default:
			rt = RampContinuous
		}
	case ir.RendererPaletted:
		rt = RampValues
	case ir.RendererMultiBandColor:
		return nil, true
	default:
		return nil, false
	}

	cm := &ColorMap{Type: rt, Extended: true, Entries: make([]Entry, 0, len(r.Entries))}
	for _, e := range r.Entries {
		cm.Entries = append(cm.Entries, Entry{
			Quantity: e.Value,
			Color:    ir.HexColor(e.Color),
			Opacity:  e.Opacity,
			Label:    e.Label,
		})
	}
	return cm, true
}

// Translate returns both structures reporting unsupported renderer once.
func Translate(r ir.RasterRenderer, c *diag.Collector) (*Channels, *ColorMap) {
	cs, ok := ChannelSelection(r)
	if !ok {
		c.Warn("Unsupported raster renderer: '%s'", r.Type)
		return nil, nil
	}
	cm, _ := BuildColorMap(r)
	return cs, cm
}

// Package common keeps enumerations shared by configuration, command line
// and HTTP service, so none of them has to import the others.
package common

import (
	"errors"
	"fmt"
	"strings"
)

// TargetFmt is requested output style format.
// ENUM(mapbox, sld)
type TargetFmt int

const (
	TargetFmtMapbox TargetFmt = iota
	TargetFmtSld
)

var ErrInvalidTargetFmt = errors.New("not a valid TargetFmt")

var targetFmtNames = []string{"mapbox", "sld"}

// TargetFmtNames returns list of possible string values.
func TargetFmtNames() []string {
	out := make([]string, len(targetFmtNames))
	copy(out, targetFmtNames)
	return out
}

func (t TargetFmt) String() string {
	if t.IsValid() {
		return targetFmtNames[t]
	}
	return fmt.Sprintf("TargetFmt(%d)", int(t))
}

func (t TargetFmt) IsValid() bool {
	return t >= TargetFmtMapbox && t <= TargetFmtSld
}

// ParseTargetFmt attempts to convert a string to a TargetFmt, case
// insensitive.
func ParseTargetFmt(name string) (TargetFmt, error) {
	for i, n := range targetFmtNames {
		if strings.EqualFold(n, name) {
			return TargetFmt(i), nil
		}
	}
	return TargetFmt(0), fmt.Errorf("%s is %w", name, ErrInvalidTargetFmt)
}

func (t TargetFmt) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%d is %w", int(t), ErrInvalidTargetFmt)
	}
	return []byte(t.String()), nil
}

func (t *TargetFmt) UnmarshalText(text []byte) error {
	v, err := ParseTargetFmt(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Ext returns file name extension of the produced style.
func (t TargetFmt) Ext() string {
	switch t {
	case TargetFmtMapbox:
		return ".json"
	case TargetFmtSld:
		return ".sld"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// ContentType returns media type of the produced style.
func (t TargetFmt) ContentType() string {
	if t == TargetFmtSld {
		return "application/vnd.ogc.sld+xml"
	}
	return "application/json"
}

package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// HexColor converts "r,g,b[,a]" color notation used by desktop renderers into
// "#rrggbb". Any other value is returned unchanged, alpha is dropped.
func HexColor(s string) string {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return s
	}
	var rgb [3]int64
	for i := range rgb {
		v, err := strconv.ParseInt(strings.TrimSpace(parts[i]), 10, 32)
		if err != nil || v < 0 || v > 255 {
			return s
		}
		rgb[i] = v
	}
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}

// Alpha extracts alpha component of "r,g,b,a" color as 0..1 value.
func Alpha(s string) (float64, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(parts[3]), 10, 32)
	if err != nil || v < 0 || v > 255 {
		return 0, false
	}
	return float64(v) / 255, true
}

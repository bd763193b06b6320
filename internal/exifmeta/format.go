package exifmeta

import (
	"math"
	"strconv"
	"strings"
)

// FormatShutter renders an exposure time for display. Fractions ("1/250")
// and long or zero exposures ("2", "0") pass through; sub-second decimals
// become a fraction: "0.004" -> "1/250".
func FormatShutter(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.Contains(raw, "/") {
		return raw
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return raw
	}
	if v >= 1 || v <= 0 {
		return raw
	}
	return "1/" + strconv.FormatInt(int64(math.Round(1/v)), 10)
}

// FormatAperture prefixes a bare f-number with "f/": "1.8" -> "f/1.8".
// Values already starting with "f" are returned unchanged.
func FormatAperture(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "f") {
		return raw
	}
	return "f/" + raw
}

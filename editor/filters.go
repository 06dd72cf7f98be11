package editor

import (
	"image"
	"strconv"
	"strings"

	"github.com/gohugoio/gift"
)

// Named filter presets. Each maps to a composable filter-function string
// using the same syntax the engine accepts at render time.
const (
	FilterNormal  = "normal"
	FilterFresh   = "fresh"
	FilterWarm    = "warm"
	FilterCool    = "cool"
	FilterVintage = "vintage"
	FilterBW      = "bw"
)

var filterPresets = map[string]string{
	FilterNormal:  "",
	FilterFresh:   "contrast(1.1) brightness(1.1) saturate(1.3)",
	FilterWarm:    "sepia(0.3) saturate(1.4)",
	FilterCool:    "hue-rotate(30deg) saturate(1.1) brightness(1.05)",
	FilterVintage: "sepia(0.5) contrast(1.2) brightness(0.9)",
	FilterBW:      "grayscale(1)",
}

// PresetExpression returns the filter expression for a named preset. Unknown
// names fall back to the neutral preset rather than failing.
func PresetExpression(name string) string {
	if expr, ok := filterPresets[name]; ok {
		return expr
	}
	return ""
}

// IsValidFilterPreset reports whether name is a known preset.
func IsValidFilterPreset(name string) bool {
	_, ok := filterPresets[name]
	return ok
}

// FilterPresetNames returns the preset names in a stable order.
func FilterPresetNames() []string {
	return []string{FilterNormal, FilterFresh, FilterWarm, FilterCool, FilterVintage, FilterBW}
}

// ParseFilterExpression translates a CSS-filter-like expression such as
//
//	"contrast(1.1) brightness(1.1) hue-rotate(30deg) blur(2px)"
//
// into a gift filter chain. Malformed terms are skipped and out-of-range
// values are clamped; the parser never fails on user input.
func ParseFilterExpression(expr string) []gift.Filter {
	var filters []gift.Filter
	for _, term := range strings.Fields(expr) {
		open := strings.IndexByte(term, '(')
		if open <= 0 || !strings.HasSuffix(term, ")") {
			continue
		}
		name := strings.ToLower(term[:open])
		arg := term[open+1 : len(term)-1]
		val, ok := parseFilterArg(arg)
		if !ok {
			continue
		}
		switch name {
		case "brightness":
			filters = append(filters, gift.Brightness(clampFloat32((val-1)*100, -100, 100)))
		case "contrast":
			filters = append(filters, gift.Contrast(clampFloat32((val-1)*100, -100, 100)))
		case "saturate":
			filters = append(filters, gift.Saturation(clampFloat32((val-1)*100, -100, 500)))
		case "sepia":
			filters = append(filters, gift.Sepia(clampFloat32(val*100, 0, 100)))
		case "hue-rotate":
			filters = append(filters, gift.Hue(normalizeHueShift(val)))
		case "grayscale":
			if val >= 1 {
				filters = append(filters, gift.Grayscale())
			} else if val > 0 {
				filters = append(filters, gift.Saturation(clampFloat32(-val*100, -100, 0)))
			}
		case "blur":
			if val > 0 {
				filters = append(filters, gift.GaussianBlur(clampFloat32(val, 0, 100)))
			}
		}
	}
	return filters
}

// ApplyFilterExpression runs the parsed filter chain over src. An empty or
// fully malformed expression returns a plain copy.
func ApplyFilterExpression(src image.Image, expr string) (*image.NRGBA, error) {
	g := gift.New(ParseFilterExpression(expr)...)
	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	if err := g.Draw(dst, src); err != nil {
		return nil, err
	}
	return dst, nil
}

func parseFilterArg(arg string) (float64, bool) {
	arg = strings.TrimSpace(arg)
	arg = strings.TrimSuffix(arg, "deg")
	arg = strings.TrimSuffix(arg, "px")
	percent := strings.HasSuffix(arg, "%")
	arg = strings.TrimSuffix(arg, "%")
	val, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, false
	}
	if percent {
		val /= 100
	}
	return val, true
}

// normalizeHueShift maps an arbitrary hue rotation in degrees into the
// [-180, 180] range gift accepts.
func normalizeHueShift(deg float64) float32 {
	for deg > 180 {
		deg -= 360
	}
	for deg < -180 {
		deg += 360
	}
	return float32(deg)
}

func clampFloat32(v, lo, hi float64) float32 {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return float32(v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

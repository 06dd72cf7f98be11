package editor

import (
	"encoding/json"
	"fmt"
	"log"
)

// PreferencesStore is the process-wide key-value capability backing
// cross-session defaults. Implementations may use any storage mechanism.
type PreferencesStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// watermarkPrefsKey is the single key under which the last-used watermark
// geometry is persisted.
const watermarkPrefsKey = "watermark_defaults"

// watermarkDefaults is the persisted subset of WatermarkSpec. The type and
// the uploaded custom image are intentionally excluded: every session starts
// with the watermark switched off.
type watermarkDefaults struct {
	Opacity     float64        `json:"opacity"`
	Position    AnchorPosition `json:"position"`
	Scale       float64        `json:"scale"`
	Repeat      RepeatMode     `json:"repeat"`
	Pattern     TilePattern    `json:"pattern"`
	SpacingH    float64        `json:"spacing_h"`
	SpacingV    float64        `json:"spacing_v"`
	RotationDeg float64        `json:"rotation_deg"`
}

// applyWatermarkDefaults loads persisted geometry into spec. Missing or
// malformed stored values leave the documented defaults untouched.
func applyWatermarkDefaults(spec *WatermarkSpec, prefs PreferencesStore) {
	raw, ok, err := prefs.Get(watermarkPrefsKey)
	if err != nil {
		log.Printf("editor: failed to load watermark defaults: %v", err)
		return
	}
	if !ok {
		return
	}
	var d watermarkDefaults
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		log.Printf("editor: ignoring malformed watermark defaults: %v", err)
		return
	}
	spec.Opacity = clamp01(d.Opacity)
	if IsValidAnchor(d.Position) {
		spec.Position = d.Position
	}
	if d.Scale >= minWatermarkScale && d.Scale <= maxWatermarkScale {
		spec.Scale = d.Scale
	}
	if d.Repeat == RepeatSingle || d.Repeat == RepeatTiled {
		spec.Repeat = d.Repeat
	}
	switch d.Pattern {
	case PatternGrid, PatternDiagonal, PatternHorizontal, PatternVertical:
		spec.Pattern = d.Pattern
	}
	if d.SpacingH > 0 {
		spec.SpacingH = d.SpacingH
	}
	if d.SpacingV > 0 {
		spec.SpacingV = d.SpacingV
	}
	spec.RotationDeg = d.RotationDeg
}

// saveWatermarkDefaults persists the geometry of the last-used watermark.
func saveWatermarkDefaults(spec WatermarkSpec, prefs PreferencesStore) error {
	d := watermarkDefaults{
		Opacity:     spec.Opacity,
		Position:    spec.Position,
		Scale:       spec.Scale,
		Repeat:      spec.Repeat,
		Pattern:     spec.Pattern,
		SpacingH:    spec.SpacingH,
		SpacingV:    spec.SpacingV,
		RotationDeg: spec.RotationDeg,
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal watermark defaults: %w", err)
	}
	return prefs.Set(watermarkPrefsKey, string(raw))
}

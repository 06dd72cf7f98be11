package editor

import "testing"

func TestWatermarkDefaultsIgnoreMalformedData(t *testing.T) {
	prefs := newMemPrefs()
	prefs.values[watermarkPrefsKey] = "{not json"

	spec := DefaultEditState().Watermark
	before := spec
	applyWatermarkDefaults(&spec, prefs)
	if spec != before {
		t.Errorf("malformed stored defaults altered the watermark settings: %+v", spec)
	}
}

func TestWatermarkDefaultsValidateFields(t *testing.T) {
	prefs := newMemPrefs()
	prefs.values[watermarkPrefsKey] = `{"opacity":2.5,"position":"nowhere","scale":99,"repeat":"sideways","pattern":"noise","spacing_h":-5,"spacing_v":0,"rotation_deg":15}`

	spec := DefaultEditState().Watermark
	applyWatermarkDefaults(&spec, prefs)

	if spec.Opacity != 1 {
		t.Errorf("opacity should clamp to 1, got %v", spec.Opacity)
	}
	if spec.Position != AnchorBottomRight {
		t.Errorf("invalid position should keep the default, got %q", spec.Position)
	}
	if spec.Scale != 0.2 {
		t.Errorf("out-of-range scale should keep the default, got %v", spec.Scale)
	}
	if spec.Repeat != RepeatSingle || spec.Pattern != PatternGrid {
		t.Errorf("invalid tiling values should keep defaults: %+v", spec)
	}
	if spec.SpacingH != 100 || spec.SpacingV != 100 {
		t.Errorf("non-positive spacing should keep defaults: %v, %v", spec.SpacingH, spec.SpacingV)
	}
	if spec.RotationDeg != 15 {
		t.Errorf("rotation should be taken as-is, got %v", spec.RotationDeg)
	}
}

func TestWatermarkDefaultsSaveAndLoad(t *testing.T) {
	prefs := newMemPrefs()

	spec := DefaultEditState().Watermark
	spec.Type = WatermarkImage
	spec.ImageRef = "wm-secret"
	spec.Opacity = 0.7
	spec.Scale = 0.3
	if err := saveWatermarkDefaults(spec, prefs); err != nil {
		t.Fatalf("saveWatermarkDefaults: %v", err)
	}

	loaded := DefaultEditState().Watermark
	applyWatermarkDefaults(&loaded, prefs)
	if loaded.Opacity != 0.7 || loaded.Scale != 0.3 {
		t.Errorf("geometry round trip failed: %+v", loaded)
	}
	if loaded.Type != WatermarkNone || loaded.ImageRef != "" {
		t.Errorf("type and image ref must never persist: %+v", loaded)
	}
}

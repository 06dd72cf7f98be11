package editor

import "testing"

func TestQualityPresetMapping(t *testing.T) {
	tests := []struct {
		preset QualityPreset
		want   int
	}{
		{QualityLow, 60},
		{QualityMedium, 75},
		{QualityHigh, 85},
		{QualityOriginal, 92},
		{QualityPreset("unknown"), 85},
	}
	for _, tt := range tests {
		if got := tt.preset.JPEGQuality(); got != tt.want {
			t.Errorf("%q.JPEGQuality() = %d, want %d", tt.preset, got, tt.want)
		}
	}
}

func TestQualityPresetsAreMonotonic(t *testing.T) {
	order := []QualityPreset{QualityLow, QualityMedium, QualityHigh, QualityOriginal}
	for i := 1; i < len(order); i++ {
		if order[i].JPEGQuality() <= order[i-1].JPEGQuality() {
			t.Errorf("%q (%d) should encode at higher quality than %q (%d)",
				order[i], order[i].JPEGQuality(), order[i-1], order[i-1].JPEGQuality())
		}
	}
}

func TestParseQualityPreset(t *testing.T) {
	tests := []struct {
		in   string
		want QualityPreset
	}{
		{"low", QualityLow},
		{"medium", QualityMedium},
		{"high", QualityHigh},
		{"original", QualityOriginal},
		{"", QualityHigh},
		{"ultra", QualityHigh},
	}
	for _, tt := range tests {
		if got := ParseQualityPreset(tt.in); got != tt.want {
			t.Errorf("ParseQualityPreset(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package editor

import (
	"image"
	"image/color"
	"testing"
)

func TestParseFilterExpression(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		wantCount int
	}{
		{name: "empty expression", expr: "", wantCount: 0},
		{name: "single term", expr: "contrast(1.2)", wantCount: 1},
		{name: "preset chain", expr: "contrast(1.1) brightness(1.1) saturate(1.3)", wantCount: 3},
		{name: "deg suffix", expr: "hue-rotate(30deg)", wantCount: 1},
		{name: "px suffix", expr: "blur(2px)", wantCount: 1},
		{name: "percent argument", expr: "sepia(50%)", wantCount: 1},
		{name: "malformed term skipped", expr: "contrast(1.2) bogus brightness(abc)", wantCount: 1},
		{name: "missing paren skipped", expr: "contrast1.2", wantCount: 0},
		{name: "zero blur dropped", expr: "blur(0px)", wantCount: 0},
		{name: "full grayscale", expr: "grayscale(1)", wantCount: 1},
		{name: "partial grayscale becomes desaturation", expr: "grayscale(0.5)", wantCount: 1},
		{name: "zero grayscale dropped", expr: "grayscale(0)", wantCount: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFilterExpression(tt.expr)
			if len(got) != tt.wantCount {
				t.Errorf("ParseFilterExpression(%q) produced %d filters, want %d", tt.expr, len(got), tt.wantCount)
			}
		})
	}
}

func TestPresetExpressions(t *testing.T) {
	for _, name := range FilterPresetNames() {
		if !IsValidFilterPreset(name) {
			t.Errorf("preset %q not reported valid", name)
		}
		// every preset expression must parse without losing terms
		expr := PresetExpression(name)
		if name == FilterNormal {
			if expr != "" {
				t.Errorf("normal preset should be the empty expression, got %q", expr)
			}
			continue
		}
		if len(ParseFilterExpression(expr)) == 0 {
			t.Errorf("preset %q expression %q parsed to nothing", name, expr)
		}
	}
	if IsValidFilterPreset("nope") {
		t.Error("unknown preset reported valid")
	}
	if PresetExpression("nope") != "" {
		t.Error("unknown preset should fall back to the neutral expression")
	}
}

func TestNormalizeHueShift(t *testing.T) {
	tests := []struct {
		in   float64
		want float32
	}{
		{0, 0},
		{30, 30},
		{-30, -30},
		{200, -160},
		{-200, 160},
		{540, 180},
	}
	for _, tt := range tests {
		if got := normalizeHueShift(tt.in); got != tt.want {
			t.Errorf("normalizeHueShift(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestApplyFilterExpressionNeutralIsCopy(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 7)
	}
	dst, err := ApplyFilterExpression(src, "")
	if err != nil {
		t.Fatalf("ApplyFilterExpression: %v", err)
	}
	if dst.Bounds() != src.Bounds() {
		t.Fatalf("bounds changed: %v -> %v", src.Bounds(), dst.Bounds())
	}
	for i := range src.Pix {
		if dst.Pix[i] != src.Pix[i] {
			t.Fatalf("pixel %d changed under the empty expression", i)
		}
	}
}

func TestApplyFilterExpressionGrayscale(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 200, G: 40, B: 90, A: 255})
		}
	}
	dst, err := ApplyFilterExpression(src, "grayscale(1)")
	if err != nil {
		t.Fatalf("ApplyFilterExpression: %v", err)
	}
	px := dst.NRGBAAt(0, 0)
	if px.R != px.G || px.G != px.B {
		t.Errorf("grayscale output not gray: %+v", px)
	}
}

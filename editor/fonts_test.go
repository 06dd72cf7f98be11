package editor

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePrefersBoldVariant(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"myfont.ttf", "myfont-bold.ttf"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("stub"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	fc := NewFontCache(dir)

	if got, want := fc.resolve("myfont", false), filepath.Join(dir, "myfont.ttf"); got != want {
		t.Errorf("regular resolve = %q, want %q", got, want)
	}
	if got, want := fc.resolve("myfont", true), filepath.Join(dir, "myfont-bold.ttf"); got != want {
		t.Errorf("bold resolve = %q, want %q", got, want)
	}
}

func TestBoldFaceFallsBackToRegular(t *testing.T) {
	fc := NewFontCache("")
	if fc.Face(DefaultOverlayFont, 24) == nil {
		t.Skip("no usable font on this system")
	}
	if fc.BoldFace(DefaultOverlayFont, 24) == nil {
		t.Error("BoldFace should fall back to the regular weight when no bold variant exists")
	}
}

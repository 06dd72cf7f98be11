package utils

import (
	"strings"
	"testing"
)

func TestDeriveOutputFilename(t *testing.T) {
	tests := []struct {
		name     string
		original string
		want     string
	}{
		{name: "png source", original: "vacation photo.png", want: "vacation photo.jpg"},
		{name: "jpeg source keeps base", original: "IMG_0042.JPEG", want: "IMG_0042.jpg"},
		{name: "no extension", original: "scan", want: "scan.jpg"},
		{name: "multiple dots strip only the last", original: "trip.day.2.png", want: "trip.day.2.jpg"},
		{name: "path components dropped", original: "uploads/nested/pic.png", want: "pic.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveOutputFilename(tt.original, ".jpg"); got != tt.want {
				t.Errorf("DeriveOutputFilename(%q) = %q, want %q", tt.original, got, tt.want)
			}
		})
	}
}

func TestDeriveOutputFilenameSynthesizesWhenEmpty(t *testing.T) {
	for _, original := range []string{"", "   ", ".png"} {
		got := DeriveOutputFilename(original, ".jpg")
		if !strings.HasPrefix(got, "edited-") || !strings.HasSuffix(got, ".jpg") {
			t.Errorf("DeriveOutputFilename(%q) = %q, want a synthesized edited-<ts>.jpg name", original, got)
		}
	}
}

func TestUniqueAssetFilename(t *testing.T) {
	a, err := UniqueAssetFilename(".jpg")
	if err != nil {
		t.Fatalf("UniqueAssetFilename: %v", err)
	}
	b, err := UniqueAssetFilename(".jpg")
	if err != nil {
		t.Fatalf("UniqueAssetFilename: %v", err)
	}
	if a == b {
		t.Error("two generated names collided")
	}
	if !strings.HasSuffix(a, ".jpg") {
		t.Errorf("name %q missing extension", a)
	}
}

package media

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	ls, err := NewLocalStorage(t.TempDir(), "http://localhost:8080", map[AssetType]string{
		AssetTypeEdited:    "edited",
		AssetTypeWatermark: "watermarks",
	})
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	return ls
}

func TestLocalStoragePersistAndGet(t *testing.T) {
	ls := newTestStorage(t)
	blob := []byte("jpeg bytes")

	result, err := ls.Persist(AssetTypeEdited, "photo.jpg", "image/jpeg", bytes.NewReader(blob))
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if result.RelativePath != "edited/photo.jpg" {
		t.Errorf("relative path = %q, want edited/photo.jpg", result.RelativePath)
	}
	if result.URL != "http://localhost:8080/api/edited/photo.jpg" {
		t.Errorf("URL = %q", result.URL)
	}

	rc, info, err := ls.Get(result.RelativePath)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read stored asset: %v", err)
	}
	if !bytes.Equal(got, blob) {
		t.Error("stored bytes do not round trip")
	}
	if info.Size() != int64(len(blob)) {
		t.Errorf("size = %d, want %d", info.Size(), len(blob))
	}
}

func TestLocalStoragePersistCleansFilename(t *testing.T) {
	ls := newTestStorage(t)

	result, err := ls.Persist(AssetTypeEdited, "../../escape.jpg", "image/jpeg", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if result.RelativePath != "edited/escape.jpg" {
		t.Errorf("traversal filename survived: %q", result.RelativePath)
	}
}

func TestLocalStoragePersistRejectsEmptyFilename(t *testing.T) {
	ls := newTestStorage(t)
	if _, err := ls.Persist(AssetTypeEdited, "", "image/jpeg", strings.NewReader("x")); err == nil {
		t.Fatal("empty filename should be rejected")
	}
}

func TestLocalStorageGetRejectsTraversal(t *testing.T) {
	ls := newTestStorage(t)

	// plant a file outside the storage root
	outside := filepath.Join(filepath.Dir(ls.basePath), "secret.txt")
	if err := os.WriteFile(outside, []byte("secret"), 0644); err != nil {
		t.Skipf("cannot create file outside storage root: %v", err)
	}
	defer os.Remove(outside)

	if _, _, err := ls.Get("../secret.txt"); err == nil {
		t.Fatal("path traversal should be denied")
	}
}

func TestLocalStorageDelete(t *testing.T) {
	ls := newTestStorage(t)
	result, err := ls.Persist(AssetTypeEdited, "gone.jpg", "image/jpeg", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}

	if err := ls.Delete(result.RelativePath); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, err := ls.Get(result.RelativePath); err == nil {
		t.Error("deleted asset still retrievable")
	}
	// deleting a missing asset is not an error
	if err := ls.Delete(result.RelativePath); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestIsRasterImage(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"art.png", true},
		{"anim.gif", true},
		{"scan.tiff", true},
		{"doc.pdf", false},
		{"noext", false},
		{"movie.mp4", false},
	}
	for _, tt := range tests {
		if got := IsRasterImage(tt.filename); got != tt.want {
			t.Errorf("IsRasterImage(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestMimeTypeForFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"a.jpg", "image/jpeg"},
		{"a.PNG", "image/png"},
		{"a.webp", "image/webp"},
		{"a.txt", ""},
	}
	for _, tt := range tests {
		if got := MimeTypeForFilename(tt.filename); got != tt.want {
			t.Errorf("MimeTypeForFilename(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

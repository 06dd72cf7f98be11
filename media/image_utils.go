package media

import (
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"
)

var supportedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
}

// IsRasterImage checks if the filename has a common raster image extension
func IsRasterImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	_, ok := supportedImageExtensions[ext]
	return ok
}

// MimeTypeForFilename returns the media type implied by the filename's
// extension, or an empty string for unrecognized extensions.
func MimeTypeForFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return supportedImageExtensions[ext]
}

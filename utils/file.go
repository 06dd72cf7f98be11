package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DeriveOutputFilename strips the original extension and appends the fixed
// output extension. With no original filename available it synthesizes an
// "edited-<timestamp>" name instead.
func DeriveOutputFilename(originalFilename, outputExt string) string {
	base := strings.TrimSpace(filepath.Base(originalFilename))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return fmt.Sprintf("edited-%d%s", time.Now().Unix(), outputExt)
	}
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" {
		return fmt.Sprintf("edited-%d%s", time.Now().Unix(), outputExt)
	}
	return base + outputExt
}

// UniqueAssetFilename returns a UUID-based filename with the given
// extension, used for stored assets that need collision-free names.
func UniqueAssetFilename(ext string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate UUID for asset filename: %w", err)
	}
	return id.String() + ext, nil
}

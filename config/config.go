package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultEditedSubDir     = "edited"
	DefaultWatermarksSubDir = "watermarks"
)

const (
	defaultRenderQueueSize   = 100
	defaultNumRenderWorkers  = 4
	defaultSessionTTLMinutes = 30
)

type Config struct {
	// database paths
	DatabasePath      string // gorm database holding saved edit records
	PrefsDatabasePath string // key/value preference store

	// media storage configuration
	MediaStoragePath string // primary root for generated assets (edits, watermark uploads)
	EditedPath       string // full-calculated path for saved edits
	WatermarksPath   string // full-calculated path for uploaded watermark images

	// public URL prefix asset links are built against
	PublicBaseURL string

	// directory scanned for overlay fonts before system fallbacks
	FontDir string

	// default JPEG quality preset applied when a save names none
	DefaultQuality string

	// worker settings
	RenderQueueSize  int
	NumRenderWorkers int

	// idle editing session lifetime
	SessionTTLMinutes int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "edits.db")
	prefsDBPath := getEnvOrDefault("PREFS_DATABASE_PATH", "preferences.db")

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	editedSubDir := getEnvOrDefault("EDITED_SUBDIR", DefaultEditedSubDir)
	absEditedPath := filepath.Join(absMediaStorage, editedSubDir)

	watermarkSubDir := getEnvOrDefault("WATERMARKS_SUBDIR", DefaultWatermarksSubDir)
	absWatermarksPath := filepath.Join(absMediaStorage, watermarkSubDir)

	publicBaseURL := getEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	fontDir := getEnvOrDefault("FONT_DIR", "./fonts")
	defaultQuality := getEnvOrDefault("DEFAULT_QUALITY", "high")

	queueSize := getEnvIntOrDefault("RENDER_QUEUE_SIZE", defaultRenderQueueSize)
	numWorkers := getEnvIntOrDefault("NUM_RENDER_WORKERS", defaultNumRenderWorkers)
	sessionTTL := getEnvIntOrDefault("SESSION_TTL_MINUTES", defaultSessionTTLMinutes)

	cfg := Config{
		DatabasePath:      dbPath,
		PrefsDatabasePath: prefsDBPath,
		MediaStoragePath:  absMediaStorage,
		EditedPath:        absEditedPath,
		WatermarksPath:    absWatermarksPath,
		PublicBaseURL:     publicBaseURL,
		FontDir:           fontDir,
		DefaultQuality:    defaultQuality,
		RenderQueueSize:   queueSize,
		NumRenderWorkers:  numWorkers,
		SessionTTLMinutes: sessionTTL,
	}

	return cfg, nil
}

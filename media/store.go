package media

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Store is the storage collaborator for the editing pipeline. The pipeline
// hands over an opaque blob plus a filename exactly once per successful save
// and receives back the URL the asset is served from.
type Store interface {
	// Persist stores data under the asset type's directory and returns the
	// final relative path and public URL.
	Persist(assetType AssetType, filename string, mimeType string, data io.Reader) (PersistResult, error)
	// Get retrieves a reader for a stored asset
	Get(relativePath string) (io.ReadCloser, os.FileInfo, error)
	// Delete removes a stored asset
	Delete(relativePath string) error
	// EnsureDir makes sure a specific asset type directory exists
	EnsureDir(assetType AssetType) (string, error)
}

// LocalStorage implements Store on the local filesystem, deriving public
// URLs from a configured base URL.
type LocalStorage struct {
	basePath        string               // absolute path to the media storage root
	baseURL         string               // public URL prefix assets are served under
	subDirMap       map[AssetType]string // maps AssetType to subdirectory name
	resolvedPathMap map[AssetType]string // maps AssetType to full absolute path
}

// NewLocalStorage creates a new local filesystem store.
func NewLocalStorage(basePath, baseURL string, subDirs map[AssetType]string) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBasePath, err)
	}

	resolvedPaths := make(map[AssetType]string)
	for assetType, subDir := range subDirs {
		fullPath := filepath.Join(absBasePath, subDir)
		if !strings.HasPrefix(filepath.Clean(fullPath), absBasePath) {
			return nil, fmt.Errorf("invalid subdirectory configuration: '%s' resolves outside base path '%s'", subDir, absBasePath)
		}
		resolvedPaths[assetType] = fullPath
	}

	log.Printf("media.store: Initialized LocalStorage at %s", absBasePath)
	return &LocalStorage{
		basePath:        absBasePath,
		baseURL:         strings.TrimSuffix(baseURL, "/"),
		subDirMap:       subDirs,
		resolvedPathMap: resolvedPaths,
	}, nil
}

// getAssetTypeDir resolves the absolute path for a given asset type
func (ls *LocalStorage) getAssetTypeDir(assetType AssetType) (string, error) {
	dirPath, ok := ls.resolvedPathMap[assetType]
	if !ok {
		log.Printf("media.store: Warning - Asset type '%s' not explicitly configured, using as subdirectory name", assetType)
		dirPath = filepath.Join(ls.basePath, string(assetType))

		if !strings.HasPrefix(filepath.Clean(dirPath), ls.basePath) {
			return "", fmt.Errorf("asset type '%s' resolves outside base path", assetType)
		}
		ls.resolvedPathMap[assetType] = dirPath
	}
	return dirPath, nil
}

// EnsureDir creates the directory for the asset type if it doesn't exist
func (ls *LocalStorage) EnsureDir(assetType AssetType) (string, error) {
	dirPath, err := ls.getAssetTypeDir(assetType)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to ensure directory '%s': %w", dirPath, err)
	}
	return dirPath, nil
}

// Persist writes data to the asset type's directory under filename and
// returns the relative path plus the URL it will be served from. mimeType is
// recorded for logging only; the serving layer re-derives content types.
func (ls *LocalStorage) Persist(assetType AssetType, filename string, mimeType string, data io.Reader) (PersistResult, error) {
	targetDir, err := ls.EnsureDir(assetType)
	if err != nil {
		return PersistResult{}, err
	}

	if filename == "" {
		return PersistResult{}, fmt.Errorf("filename cannot be empty for LocalStorage.Persist")
	}
	cleanName := filepath.Base(filepath.Clean(filename))
	fullSavePath := filepath.Join(targetDir, cleanName)

	outFile, err := os.Create(fullSavePath)
	if err != nil {
		return PersistResult{}, fmt.Errorf("failed to create destination file '%s': %w", fullSavePath, err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, data); err != nil {
		outFile.Close()
		os.Remove(fullSavePath)
		return PersistResult{}, fmt.Errorf("failed to write data to '%s': %w", fullSavePath, err)
	}

	relativePath, err := filepath.Rel(ls.basePath, fullSavePath)
	if err != nil {
		return PersistResult{}, fmt.Errorf("internal error calculating relative path: %w", err)
	}
	relativePath = filepath.ToSlash(relativePath)

	log.Printf("media.store: Persisted %s asset (%s) to %s", assetType, mimeType, fullSavePath)
	return PersistResult{
		RelativePath: relativePath,
		URL:          ls.urlFor(relativePath),
	}, nil
}

func (ls *LocalStorage) urlFor(relativePath string) string {
	if ls.baseURL == "" {
		return "/" + path.Join("api", relativePath)
	}
	escaped := (&url.URL{Path: relativePath}).EscapedPath()
	return ls.baseURL + "/api/" + escaped
}

func (ls *LocalStorage) Get(relativePath string) (io.ReadCloser, os.FileInfo, error) {
	fullPath, err := ls.GetFullPath(relativePath)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("asset not found at '%s': %w", relativePath, err)
		}
		return nil, nil, fmt.Errorf("failed to open asset '%s': %w", relativePath, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to stat asset '%s': %w", relativePath, err)
	}

	return file, info, nil
}

// Delete removes an asset file
func (ls *LocalStorage) Delete(relativePath string) error {
	fullPath, err := ls.GetFullPath(relativePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete asset '%s': %w", relativePath, err)
	}
	if err == nil {
		log.Printf("media.store: Deleted asset %s", fullPath)
	}
	return nil
}

// GetFullPath calculates the absolute path and performs security check
func (ls *LocalStorage) GetFullPath(relativePath string) (string, error) {
	cleanRelativePath := filepath.Clean(relativePath)

	fullPath := filepath.Join(ls.basePath, cleanRelativePath)

	absFullPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", relativePath, err)
	}

	if !strings.HasPrefix(absFullPath, ls.basePath) {
		return "", fmt.Errorf("invalid path: access denied for '%s'", relativePath)
	}

	return absFullPath, nil
}

package editor

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	ggtext "github.com/gogpu/gg/text"
)

// fallbackFontPaths are probed when a requested family cannot be resolved
// from the configured font directory.
var fallbackFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/liberation/LiberationSans-Regular.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"C:\\Windows\\Fonts\\arial.ttf",
}

// fallbackBoldFontPaths mirror fallbackFontPaths for bold weights.
var fallbackBoldFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/liberation/LiberationSans-Bold.ttf",
	"/System/Library/Fonts/Supplemental/Arial Bold.ttf",
	"C:\\Windows\\Fonts\\arialbd.ttf",
}

// FontCache resolves font family names to parsed font sources and hands out
// sized faces for text drawing. Sources are parsed once and shared.
type FontCache struct {
	dir string

	mu      sync.Mutex
	sources map[string]*ggtext.FontSource
}

// NewFontCache creates a cache backed by dir. dir may be empty, in which
// case only the fallback system fonts are probed.
func NewFontCache(dir string) *FontCache {
	return &FontCache{
		dir:     dir,
		sources: make(map[string]*ggtext.FontSource),
	}
}

// Face returns a face for the given family at the given pixel size, or nil
// if no usable font file could be found. Callers treat a nil face as "skip
// text drawing" rather than an error, per the clamp-don't-fail policy.
func (fc *FontCache) Face(family string, sizePx float64) ggtext.Face {
	src := fc.source(family, false)
	if src == nil {
		return nil
	}
	return src.Face(sizePx)
}

// BoldFace returns a bold face for the family, falling back to the regular
// weight when no bold variant can be found.
func (fc *FontCache) BoldFace(family string, sizePx float64) ggtext.Face {
	src := fc.source(family, true)
	if src == nil {
		src = fc.source(family, false)
	}
	if src == nil {
		return nil
	}
	return src.Face(sizePx)
}

func (fc *FontCache) source(family string, bold bool) *ggtext.FontSource {
	key := strings.ToLower(strings.TrimSpace(family))
	if key == "" {
		key = strings.ToLower(DefaultOverlayFont)
	}
	cacheKey := key
	if bold {
		cacheKey = key + "|bold"
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	if src, ok := fc.sources[cacheKey]; ok {
		return src
	}

	path := fc.resolve(key, bold)
	if path == "" {
		if !bold {
			log.Printf("editor: no font file found for family %q", family)
		}
		fc.sources[cacheKey] = nil
		return nil
	}

	src, err := ggtext.NewFontSourceFromFile(path)
	if err != nil {
		log.Printf("editor: failed to parse font %s: %v", path, err)
		fc.sources[cacheKey] = nil
		return nil
	}
	fc.sources[cacheKey] = src
	return src
}

func (fc *FontCache) resolve(key string, bold bool) string {
	wanted := []string{key}
	if bold {
		wanted = []string{key + "-bold", key + " bold", key + "bold"}
	}
	if fc.dir != "" {
		entries, err := os.ReadDir(fc.dir)
		if err == nil {
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				name := e.Name()
				ext := strings.ToLower(filepath.Ext(name))
				if ext != ".ttf" && ext != ".otf" {
					continue
				}
				base := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
				for _, w := range wanted {
					if base == w || strings.ReplaceAll(base, " ", "") == strings.ReplaceAll(w, " ", "") {
						return filepath.Join(fc.dir, name)
					}
				}
			}
		}
	}
	fallbacks := fallbackFontPaths
	if bold {
		fallbacks = fallbackBoldFontPaths
	}
	for _, candidate := range fallbacks {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

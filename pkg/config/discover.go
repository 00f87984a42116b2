package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/vidnav/pkg/model"
)

// Library is a library directory found on disk
type Library struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// DiscoverLibraries scans the configured discovery paths for directories
// holding a topic registry. The configured library, if any, comes first.
func DiscoverLibraries(cfg Config) []Library {
	seen := make(map[string]bool)
	var result []Library

	if cfg.Library.Dir != "" {
		dir := expandHome(cfg.Library.Dir)
		if isLibraryRoot(dir) {
			seen[dir] = true
			result = append(result, Library{Name: filepath.Base(dir), Path: dir})
		}
	}

	for _, scanPath := range cfg.Discovery.ScanPaths {
		maxDepth := cfg.Discovery.MaxDepth
		if maxDepth <= 0 {
			maxDepth = 3
		}
		for _, f := range scanForLibraries(scanPath, maxDepth) {
			if !seen[f] {
				seen[f] = true
				result = append(result, Library{
					Name: filepath.Base(f),
					Path: f,
				})
			}
		}
	}

	return result
}

// scanForLibraries walks a directory tree up to maxDepth levels deep,
// looking for directories that contain topics_list.json.
func scanForLibraries(root string, maxDepth int) []string {
	root = expandHome(root)
	var results []string

	rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return filepath.SkipDir
		}
		if !d.IsDir() {
			return nil
		}

		currentDepth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth
		if currentDepth > maxDepth {
			return filepath.SkipDir
		}

		// Skip hidden directories (the library state dir included)
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}

		if isLibraryRoot(path) {
			results = append(results, path)
			return filepath.SkipDir // Libraries don't nest
		}

		return nil
	})

	return results
}

func isLibraryRoot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, model.RegistryFileName))
	return err == nil && !info.IsDir()
}

// DetectLibrary attempts to find the current library by walking up from
// the current directory looking for topics_list.json.
func DetectLibrary() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return FindLibraryRoot(dir)
}

// FindLibraryRoot walks up from dir looking for topics_list.json.
func FindLibraryRoot(dir string) (string, bool) {
	home, _ := os.UserHomeDir()

	for {
		if isLibraryRoot(dir) {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached filesystem root
		}
		// Don't go above home directory
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}

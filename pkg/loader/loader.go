package loader

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/vidnav/pkg/config"
	"github.com/vanderheijden86/vidnav/pkg/store"
)

// Options derives the store options from a configuration
func Options(cfg config.Config) store.Options {
	return store.Options{
		PlaylistDir: cfg.Library.PlaylistDir,
		Extensions:  cfg.Scan.Extensions,
	}
}

// Open opens the library in dir with cfg applied. Load problems of
// individual topics are logged as warnings; only a broken registry or an
// unusable directory fails. When dir is a git work tree the state directory
// is added to its .gitignore.
func Open(dir string, cfg config.Config) (*store.Library, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open library: %s is not a directory", dir)
	}

	lib, err := store.Open(dir, Options(cfg))
	if err != nil {
		return nil, fmt.Errorf("open library %s: %w", dir, err)
	}
	for _, p := range lib.Problems() {
		log.Printf("warning: %v", p)
	}

	if isGitWorkTree(lib.Dir()) {
		if err := EnsureStateDirIgnored(lib.Dir()); err != nil {
			log.Printf("warning: could not update .gitignore: %v", err)
		}
	}
	return lib, nil
}

func isGitWorkTree(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

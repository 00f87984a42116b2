// Package scan builds playlists from media directories.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/vidnav/pkg/model"
)

// DefaultExtensions is the media whitelist used when none is configured
var DefaultExtensions = []string{".mp4", ".avi", ".mkv"}

// IsMediaFile reports whether name ends in one of exts. Matching ignores
// case so "Clip.MP4" is collected along with "clip.mp4".
func IsMediaFile(name string, exts []string) bool {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// BuildPlaylistFromDirectory walks dir recursively and returns one entry per
// media file: url is the full file path, description the file name. Entries
// follow lexical walk order so the same directory always yields the same
// playlist. Unreadable subdirectories are skipped.
func BuildPlaylistFromDirectory(dir string, exts []string) (model.Playlist, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: not a directory", dir)
	}

	playlist := model.Playlist{}
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsMediaFile(d.Name(), exts) {
			return nil
		}
		playlist = append(playlist, model.Entry{
			URL:         path,
			Description: d.Name(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return playlist, nil
}

// MatchTitleDirectory searches baseDir recursively for a subdirectory whose
// trimmed name equals the trimmed title. The first match in lexical walk
// order wins; baseDir itself is never matched.
func MatchTitleDirectory(baseDir, title string) (string, error) {
	want := strings.TrimSpace(title)
	var found string
	err := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == baseDir {
				return err
			}
			return filepath.SkipDir
		}
		if !d.IsDir() || path == baseDir {
			return nil
		}
		if strings.TrimSpace(d.Name()) == want {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("search %s: %w", baseDir, err)
	}
	if found == "" {
		return "", &model.NotFoundError{What: "directory", Name: want}
	}
	return found, nil
}

// SafeFileName turns a title into a file name stem: path separators and
// characters rejected by common filesystems become "_".
func SafeFileName(title string) string {
	title = strings.TrimSpace(title)
	var b strings.Builder
	for _, r := range title {
		switch {
		case r < 0x20, strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	name := strings.TrimRight(b.String(), ". ")
	if name == "" {
		return "_"
	}
	return name
}

package store

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/vidnav/pkg/model"
)

// writeFileAtomic writes data to a temp file next to path and renames it
// into place, so readers never observe a half-written file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close tmp: %w", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("chmod tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}

// SaveTopic writes topic name to its file. On failure the topic stays
// dirty so Flush can retry it.
func (l *Library) SaveTopic(name string) error {
	root, ok := l.topics[name]
	if !ok {
		return &model.NotFoundError{What: "topic", Name: name}
	}
	l.dirty[name] = true
	data, err := model.EncodeTopic(root)
	if err != nil {
		return fmt.Errorf("save topic %s: %w", name, err)
	}
	path := l.TopicPath(name)
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("save topic %s: %w", name, err)
	}
	l.seen[path] = data
	delete(l.dirty, name)
	return nil
}

// SaveRegistry writes topics_list.json in full
func (l *Library) SaveRegistry() error {
	l.regDirty = true
	data, err := model.EncodeRegistry(l.registry)
	if err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	path := l.RegistryPath()
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	l.seen[path] = data
	l.regDirty = false
	return nil
}

// SavePlaylist writes entries to path (library-relative or absolute)
func (l *Library) SavePlaylist(path string, entries model.Playlist) error {
	data, err := model.EncodePlaylist(entries)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(l.resolve(path), data); err != nil {
		return fmt.Errorf("save playlist %s: %w", path, err)
	}
	return nil
}

// LoadPlaylist reads the playlist at path (library-relative or absolute).
// A missing file is reported as a NotFoundError.
func (l *Library) LoadPlaylist(path string) (model.Playlist, error) {
	if path == "" {
		return nil, &model.NotFoundError{What: "playlist", Name: path}
	}
	abs := l.resolve(path)
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &model.NotFoundError{What: "playlist", Name: path}
		}
		return nil, fmt.Errorf("read playlist: %w", err)
	}
	return model.DecodePlaylist(path, data)
}

// Flush rewrites every topic whose last write failed, then the registry.
// Topics that were written through successfully are not touched again.
func (l *Library) Flush() error {
	var errs []error
	for _, name := range l.Dirty() {
		if _, ok := l.topics[name]; !ok {
			delete(l.dirty, name)
			continue
		}
		if err := l.SaveTopic(name); err != nil {
			errs = append(errs, err)
		}
	}
	if err := l.SaveRegistry(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ReloadResult lists what Reload picked up from disk
type ReloadResult struct {
	Registry bool     // topics_list.json changed
	Topics   []string // topics re-read, in registry order
}

// Changed reports whether anything was reloaded
func (r ReloadResult) Changed() bool {
	return r.Registry || len(r.Topics) > 0
}

// Reload re-reads library files changed by another program. Files whose
// content matches what the library last read or wrote are skipped, so the
// library's own writes never count as changes. A changed file that no
// longer parses is recorded in Problems and the in-memory copy is kept.
func (l *Library) Reload() (ReloadResult, error) {
	var res ReloadResult

	regPath := l.RegistryPath()
	data, err := os.ReadFile(regPath)
	switch {
	case err == nil && !bytes.Equal(data, l.seen[regPath]):
		reg, perr := model.DecodeRegistry(regPath, data)
		if perr != nil {
			l.problems = append(l.problems, perr)
			l.seen[regPath] = data
			log.Printf("warning: ignoring changed registry: %v", perr)
			break
		}
		l.seen[regPath] = data
		l.registry = reg
		l.regDirty = false
		res.Registry = true
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return res, fmt.Errorf("read registry: %w", err)
	}

	keep := make(map[string]bool, len(l.registry))
	for _, entry := range l.registry {
		name := model.TopicNameFromFile(entry)
		keep[name] = true
		if _, loaded := l.topics[name]; !loaded {
			// New in the registry, or previously unreadable
			data, err := os.ReadFile(l.resolve(entry))
			if err != nil || bytes.Equal(data, l.seen[l.resolve(entry)]) {
				continue
			}
			l.loadTopic(entry)
			if _, ok := l.topics[name]; ok {
				res.Topics = append(res.Topics, name)
			}
			continue
		}
		path := l.TopicPath(name)
		data, err := os.ReadFile(path)
		if err != nil || bytes.Equal(data, l.seen[path]) {
			continue
		}
		root, perr := model.DecodeTopic(name, data)
		if perr != nil {
			l.problems = append(l.problems, perr)
			l.seen[path] = data
			log.Printf("warning: ignoring changed topic %s: %v", name, perr)
			continue
		}
		l.seen[path] = data
		l.topics[name] = root
		delete(l.dirty, name)
		res.Topics = append(res.Topics, name)
	}

	for name := range l.topics {
		if !keep[name] {
			delete(l.topics, name)
			delete(l.dirty, name)
			delete(l.files, name)
		}
	}
	return res, nil
}

// Unsaved reports whether any topic or the registry still has to be
// written (a previous write failed).
func (l *Library) Unsaved() bool {
	return len(l.dirty) > 0 || l.regDirty
}

// WatchedFiles returns the files whose external modification Reload
// picks up: the registry and every topic file it lists, wherever the
// entry points.
func (l *Library) WatchedFiles() []string {
	files := []string{l.RegistryPath()}
	for _, entry := range l.registry {
		files = append(files, l.resolve(entry))
	}
	return files
}

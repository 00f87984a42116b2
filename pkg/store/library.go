// Package store owns a video library on disk: the topic registry, one
// JSON file per topic and the playlist files titles point at. Every
// structural change is written through immediately.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vanderheijden86/vidnav/pkg/model"
	"github.com/vanderheijden86/vidnav/pkg/scan"
)

// DefaultPlaylistDir is where generated playlists are written, relative to
// the library directory.
const DefaultPlaylistDir = "playlists"

// Options configures a Library
type Options struct {
	// PlaylistDir holds generated playlists, relative to the library
	// directory (default: playlists)
	PlaylistDir string

	// Extensions is the media whitelist used when building playlists
	// (default: .mp4 .avi .mkv)
	Extensions []string
}

// Library is an open video library. It is not safe for concurrent use;
// callers serialize access (the UI mutates it only from its update loop).
type Library struct {
	dir      string
	opts     Options
	registry model.Registry
	topics   map[string]*model.Node
	files    map[string]string // topic name -> file path from the registry
	dirty    map[string]bool   // topics whose last write failed
	regDirty bool
	problems []error
	seen     map[string][]byte // file path -> bytes last read or written
}

// Open loads the library in dir. A missing registry means an empty
// library. A malformed registry is fatal; a malformed or missing topic
// file is recorded in Problems and the topic is skipped.
func Open(dir string, opts Options) (*Library, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve library dir: %w", err)
	}
	if opts.PlaylistDir == "" {
		opts.PlaylistDir = DefaultPlaylistDir
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = scan.DefaultExtensions
	}

	l := &Library{
		dir:    abs,
		opts:   opts,
		topics: make(map[string]*model.Node),
		files:  make(map[string]string),
		dirty:  make(map[string]bool),
		seen:   make(map[string][]byte),
	}

	if err := l.loadRegistry(); err != nil {
		return nil, err
	}
	for _, entry := range l.registry {
		l.loadTopic(entry)
	}

	if err := os.MkdirAll(l.PlaylistDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create playlist dir: %w", err)
	}
	return l, nil
}

func (l *Library) loadRegistry() error {
	path := l.RegistryPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.registry = model.Registry{}
			return nil
		}
		return fmt.Errorf("read registry: %w", err)
	}
	reg, err := model.DecodeRegistry(path, data)
	if err != nil {
		return err
	}
	l.registry = reg
	l.seen[path] = data
	return nil
}

// loadTopic reads the topic file named by a registry entry. Failures are
// recorded as problems; the topic stays unloaded and its file untouched.
func (l *Library) loadTopic(entry string) {
	name := model.TopicNameFromFile(entry)
	path := l.resolve(entry)
	l.files[name] = path

	data, err := os.ReadFile(path)
	if err != nil {
		l.problems = append(l.problems, fmt.Errorf("topic %s: %w", name, err))
		return
	}
	root, err := model.DecodeTopic(name, data)
	if err != nil {
		l.problems = append(l.problems, err)
		l.seen[path] = data
		return
	}
	l.topics[name] = root
	l.seen[path] = data
}

// Dir returns the absolute library directory
func (l *Library) Dir() string {
	return l.dir
}

// RegistryPath returns the path of topics_list.json
func (l *Library) RegistryPath() string {
	return filepath.Join(l.dir, model.RegistryFileName)
}

// PlaylistDir returns the absolute directory generated playlists go to
func (l *Library) PlaylistDir() string {
	return l.resolve(l.opts.PlaylistDir)
}

// Extensions returns the media whitelist used for scans
func (l *Library) Extensions() []string {
	return l.opts.Extensions
}

// TopicPath returns the file backing topic name
func (l *Library) TopicPath(name string) string {
	if p, ok := l.files[name]; ok {
		return p
	}
	return filepath.Join(l.dir, model.TopicFileName(name))
}

// Topics returns the names of the loaded topics in registry order
func (l *Library) Topics() []string {
	var names []string
	for _, name := range l.registry.Names() {
		if _, ok := l.topics[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// Topic returns the root of a loaded topic
func (l *Library) Topic(name string) (*model.Node, bool) {
	root, ok := l.topics[name]
	return root, ok
}

// Roots returns the loaded topic roots in registry order
func (l *Library) Roots() []*model.Node {
	names := l.Topics()
	roots := make([]*model.Node, len(names))
	for i, name := range names {
		roots[i] = l.topics[name]
	}
	return roots
}

// Registry returns a copy of the registry
func (l *Library) Registry() model.Registry {
	return append(model.Registry(nil), l.registry...)
}

// Problems returns the load diagnostics collected so far
func (l *Library) Problems() []error {
	return append([]error(nil), l.problems...)
}

// Dirty returns the topics waiting to be written, sorted
func (l *Library) Dirty() []string {
	names := make([]string, 0, len(l.dirty))
	for name := range l.dirty {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves path to a node of a loaded topic
func (l *Library) Lookup(path model.Path) (*model.Node, error) {
	root, err := l.root(path)
	if err != nil {
		return nil, err
	}
	node, _, _, err := model.Lookup(root, path)
	return node, err
}

func (l *Library) root(path model.Path) (*model.Node, error) {
	if len(path) == 0 {
		return nil, &model.NotFoundError{What: "selection", Name: ""}
	}
	root, ok := l.topics[path.Topic()]
	if !ok {
		return nil, &model.NotFoundError{What: "topic", Name: path.Topic()}
	}
	return root, nil
}

// resolve turns a library-relative path into an absolute one
func (l *Library) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.dir, filepath.FromSlash(p))
}

// ResolvePlaylist returns the absolute location of a title's playlist path
func (l *Library) ResolvePlaylist(p string) string {
	return l.resolve(p)
}

// relative returns p relative to the library when it lies inside it, in
// slash form so topic files stay portable.
func (l *Library) relative(p string) string {
	rel, err := filepath.Rel(l.dir, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return filepath.ToSlash(rel)
}

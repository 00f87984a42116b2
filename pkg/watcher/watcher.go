// Package watcher reports changes to library files made by other programs.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of events such as an editor's
// write-then-rename save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches one directory and signals on Changed after events for
// matching files have settled for the debounce duration.
type Watcher struct {
	dir      string
	debounce time.Duration
	filter   func(path string) bool
	files    map[string]bool // nil matches every file
	dirs     map[string]bool // directories registered with fsnotify

	fs      *fsnotify.Watcher
	changed chan struct{}

	mu      sync.Mutex
	timer   *time.Timer
	started bool
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounceDuration sets how long events must be quiet before Changed
// fires. Zero or negative values keep the default.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithFilter limits notifications to paths for which match returns true.
// Paths are absolute and cleaned.
func WithFilter(match func(path string) bool) Option {
	return func(w *Watcher) {
		w.filter = match
	}
}

// WithFiles limits notifications to the given files. Their directories are
// watched too, so files outside dir are covered. See Track.
func WithFiles(paths []string) Option {
	return func(w *Watcher) {
		w.files = fileSet(paths)
	}
}

func fileSet(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			set[abs] = true
		}
	}
	return set
}

// NewWatcher creates a watcher for dir. The directory itself is watched
// rather than single files so atomic replace-by-rename saves are seen.
func NewWatcher(dir string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve watch dir: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		dir:      abs,
		debounce: DefaultDebounce,
		fs:       fw,
		changed:  make(chan struct{}, 1),
		dirs:     make(map[string]bool),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. Calling it again has no effect.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopped {
		return nil
	}
	if err := w.fs.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.dirs[w.dir] = true
	w.started = true
	if err := w.addFileDirsLocked(); err != nil {
		log.Printf("warning: file watcher: %v", err)
	}
	go w.loop()
	return nil
}

// Track replaces the set of files WithFiles configured and starts watching
// any directory among them not watched yet. Directories that cannot be
// watched are reported; the remaining ones stay active.
func (w *Watcher) Track(paths []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files = fileSet(paths)
	if !w.started || w.stopped {
		return nil
	}
	return w.addFileDirsLocked()
}

func (w *Watcher) addFileDirsLocked() error {
	var errs []error
	for file := range w.files {
		dir := filepath.Dir(file)
		if w.dirs[dir] {
			continue
		}
		if err := w.fs.Add(dir); err != nil {
			errs = append(errs, fmt.Errorf("watch %s: %w", dir, err))
			continue
		}
		w.dirs[dir] = true
	}
	return errors.Join(errs...)
}

// Stop ends watching and releases the fsnotify handle. It is idempotent.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	started := w.started
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	w.cancel()
	w.fs.Close()
	if started {
		<-w.done
	}
}

// Changed delivers one value per settled burst of changes. Bursts that
// arrive while a previous signal is still unread are merged into it.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Dir returns the watched directory
func (w *Watcher) Dir() string {
	return w.dir
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !w.matches(filepath.Clean(event.Name)) {
				continue
			}
			w.schedule()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("warning: file watcher: %v", err)
		}
	}
}

func (w *Watcher) matches(path string) bool {
	if w.filter != nil && !w.filter(path) {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files == nil || w.files[path]
}

// schedule (re)starts the debounce timer
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.notify)
}

func (w *Watcher) notify() {
	select {
	case w.changed <- struct{}{}:
	default:
	}
}

package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/vidnav/pkg/model"
	"github.com/vanderheijden86/vidnav/pkg/scan"
)

// ErrEmptyLink is returned by AddLink for a blank URL
var ErrEmptyLink = errors.New("link cannot be empty")

// title resolves path to a title node of a loaded topic
func (l *Library) title(path model.Path) (*model.Node, *model.Node, error) {
	root, err := l.root(path)
	if err != nil {
		return nil, nil, err
	}
	node, _, _, err := model.Lookup(root, path)
	if err != nil {
		return nil, nil, err
	}
	if node.Kind != model.KindTitle {
		return nil, nil, fmt.Errorf("%w: %q is a %s", model.ErrNotTitle, path.Key(), node.Kind)
	}
	return root, node, nil
}

// newPlaylistPath picks a free file in the playlist directory for title:
// "<Title>.json", then "<Title> (2).json" and so on. The result is
// library-relative when the playlist directory lies inside the library.
func (l *Library) newPlaylistPath(title string) string {
	stem := scan.SafeFileName(title)
	dir := l.PlaylistDir()
	candidate := filepath.Join(dir, stem+".json")
	for i := 2; ; i++ {
		if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			break
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d).json", stem, i))
	}
	return l.relative(candidate)
}

// attach writes entries to a fresh playlist file and points the title at it.
// The topic is not saved; callers do that once per command.
func (l *Library) attach(root *model.Node, path model.Path, entries model.Playlist) (string, error) {
	playlistPath := l.newPlaylistPath(path.Name())
	if err := l.SavePlaylist(playlistPath, entries); err != nil {
		return "", err
	}
	if err := model.SetPlaylist(root, path, playlistPath); err != nil {
		return "", err
	}
	return playlistPath, nil
}

// AttachDirectory builds a playlist from every media file under dir and
// attaches it to the title at path. A title that already has a playlist is
// refused with ErrPlaylistExists. It returns the new playlist path.
func (l *Library) AttachDirectory(path model.Path, dir string) (string, error) {
	root, node, err := l.title(path)
	if err != nil {
		return "", err
	}
	if node.HasPlaylist() {
		return "", fmt.Errorf("%w for %q", model.ErrPlaylistExists, node.Name)
	}
	entries, err := scan.BuildPlaylistFromDirectory(dir, l.opts.Extensions)
	if err != nil {
		return "", err
	}
	playlistPath, err := l.attach(root, path, entries)
	if err != nil {
		return "", err
	}
	return playlistPath, l.SaveTopic(root.Name)
}

// AddLink attaches a single-entry playlist holding url to the title at
// path; the entry's description is the title name.
func (l *Library) AddLink(path model.Path, url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", ErrEmptyLink
	}
	root, node, err := l.title(path)
	if err != nil {
		return "", err
	}
	if node.HasPlaylist() {
		return "", fmt.Errorf("%w for %q", model.ErrPlaylistExists, node.Name)
	}
	playlistPath, err := l.attach(root, path, model.Playlist{{URL: url, Description: node.Name}})
	if err != nil {
		return "", err
	}
	return playlistPath, l.SaveTopic(root.Name)
}

// ClearPlaylist deletes the playlist file of the title at path (a missing
// file is fine) and detaches it. It returns the removed path, or "" when
// the title had no playlist.
func (l *Library) ClearPlaylist(path model.Path) (string, error) {
	root, node, err := l.title(path)
	if err != nil {
		return "", err
	}
	old := node.Playlist
	if old == "" {
		return "", nil
	}
	if err := os.Remove(l.resolve(old)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("delete playlist: %w", err)
	}
	if err := model.SetPlaylist(root, path, ""); err != nil {
		return "", err
	}
	return old, l.SaveTopic(root.Name)
}

// PopulateStatus is the outcome of populating one title
type PopulateStatus int

const (
	PopulateCreated  PopulateStatus = iota // playlist built and attached
	PopulateSkipped                        // title already had a playlist
	PopulateNotFound                       // no directory matched the title
	PopulateFailed                         // scan or write error
)

// PopulateResult reports what happened to one title
type PopulateResult struct {
	Path     model.Path
	Status   PopulateStatus
	Playlist string
	Err      error
}

// Message renders the result for the message area
func (r PopulateResult) Message() string {
	name := strings.TrimSpace(r.Path.Name())
	switch r.Status {
	case PopulateCreated:
		return fmt.Sprintf("Created playlist for '%s' in %s", name, r.Playlist)
	case PopulateSkipped:
		return fmt.Sprintf("Playlist already exists for '%s'. Skipping.", name)
	case PopulateNotFound:
		return fmt.Sprintf("No matching directory found for '%s'.", name)
	default:
		return fmt.Sprintf("Could not build playlist for '%s': %v", name, r.Err)
	}
}

// PopulateReport collects the results of one Populate call in tree order
type PopulateReport []PopulateResult

// Count returns how many results have status s
func (r PopulateReport) Count(s PopulateStatus) int {
	n := 0
	for _, res := range r {
		if res.Status == s {
			n++
		}
	}
	return n
}

// populateWorkers bounds the directory scans Populate runs at once
const populateWorkers = 4

// Populate builds playlists for the title at path, or for every title
// below a subtopic or topic. Each title gets the first directory under
// baseDir whose trimmed name equals its trimmed name. Titles that already
// have a playlist are skipped. Directories are scanned concurrently; the
// playlists and the topic are written afterwards in tree order.
func (l *Library) Populate(path model.Path, baseDir string) (PopulateReport, error) {
	root, err := l.root(path)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(baseDir); err != nil {
		return nil, fmt.Errorf("populate: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("populate: %s is not a directory", baseDir)
	}
	titles, err := model.Titles(root, path)
	if err != nil {
		return nil, err
	}

	report := make(PopulateReport, len(titles))
	scans := make([]model.Playlist, len(titles))
	var g errgroup.Group
	g.SetLimit(populateWorkers)
	for i, tp := range titles {
		node, _, _, _ := model.Lookup(root, tp)
		report[i] = PopulateResult{Path: tp}
		if node.HasPlaylist() {
			report[i].Status = PopulateSkipped
			report[i].Playlist = node.Playlist
			continue
		}
		g.Go(func() error {
			scans[i], report[i] = l.scanTitle(tp, baseDir)
			return nil
		})
	}
	_ = g.Wait()

	changed := false
	for i := range report {
		res := &report[i]
		if res.Status != PopulateCreated {
			continue
		}
		playlistPath, err := l.attach(root, res.Path, scans[i])
		if err != nil {
			res.Status, res.Err = PopulateFailed, err
			continue
		}
		res.Playlist = playlistPath
		changed = true
	}

	if changed {
		return report, l.SaveTopic(root.Name)
	}
	return report, nil
}

// scanTitle finds and scans the directory for one title. It only reads the
// filesystem, so it may run concurrently with other scans. A successful
// scan is reported as PopulateCreated; attaching happens later.
func (l *Library) scanTitle(path model.Path, baseDir string) (model.Playlist, PopulateResult) {
	res := PopulateResult{Path: path}
	dir, err := scan.MatchTitleDirectory(baseDir, path.Name())
	if err != nil {
		res.Err = err
		res.Status = PopulateFailed
		if errors.Is(err, model.ErrNotFound) {
			res.Status = PopulateNotFound
		}
		return nil, res
	}
	entries, err := scan.BuildPlaylistFromDirectory(dir, l.opts.Extensions)
	if err != nil {
		res.Status, res.Err = PopulateFailed, err
		return nil, res
	}
	res.Status = PopulateCreated
	return entries, res
}

// Selection summarizes a node for the message area
type Selection struct {
	Path           model.Path
	Kind           model.Kind
	Children       int
	Playlist       string // title's playlist path
	PlaylistExists bool
}

// Describe returns what the message area shows for the node at path
func (l *Library) Describe(path model.Path) (Selection, error) {
	node, err := l.Lookup(path)
	if err != nil {
		return Selection{}, err
	}
	sel := Selection{
		Path:     path,
		Kind:     node.Kind,
		Children: len(node.Children),
		Playlist: node.Playlist,
	}
	if node.HasPlaylist() {
		_, err := os.Stat(l.resolve(node.Playlist))
		sel.PlaylistExists = err == nil
	}
	return sel, nil
}

// Message renders the selection the way the message area shows it
func (s Selection) Message() string {
	switch s.Kind {
	case model.KindTopic:
		return fmt.Sprintf("Topic: %s (%d items)", s.Path.Name(), s.Children)
	case model.KindSubtopic:
		return fmt.Sprintf("Subtopic: %s", s.Path.Name())
	}
	if s.Playlist != "" && s.PlaylistExists {
		return fmt.Sprintf("Playlist: %s", s.Playlist)
	}
	return fmt.Sprintf("No playlist found for '%s'.", s.Path.Name())
}

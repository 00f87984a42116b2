package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/vanderheijden86/vidnav/pkg/model"
)

// Placement says where AddItem puts the new node relative to the selection
type Placement int

const (
	// PlaceInside appends the new node to the selected subtopic or topic
	PlaceInside Placement = iota
	// PlaceBelow inserts the new node right after the selected node
	PlaceBelow
)

func (p Placement) String() string {
	if p == PlaceBelow {
		return "below"
	}
	return "inside"
}

// AddRequest describes a new subtopic or title
type AddRequest struct {
	Selected  model.Path // node the user had selected
	Name      string
	Kind      model.Kind // KindSubtopic or KindTitle
	Placement Placement  // ignored when Selected is a title (always below)
}

// AddTopic creates an empty topic right after the topic named after (or at
// the end), registers it and writes both files. An existing, valid topic
// file with the same name is adopted instead of being overwritten.
func (l *Library) AddTopic(name, after string) (model.Path, error) {
	name = strings.TrimSpace(name)
	if err := model.ValidateName(name); err != nil {
		return nil, err
	}
	if _, ok := l.topics[name]; ok {
		return nil, fmt.Errorf("%w: %q", model.ErrTopicExists, name)
	}
	if err := l.registry.Add(name, after); err != nil {
		return nil, fmt.Errorf("%w: %q", err, name)
	}

	path := l.TopicPath(name)
	l.files[name] = path
	root := model.NewTopic(name)
	if data, err := os.ReadFile(path); err == nil {
		if existing, perr := model.DecodeTopic(name, data); perr == nil {
			root = existing
		}
	}
	l.topics[name] = root

	var errs []error
	if err := l.SaveTopic(name); err != nil {
		errs = append(errs, err)
	}
	if err := l.SaveRegistry(); err != nil {
		errs = append(errs, err)
	}
	return model.Path{name}, errors.Join(errs...)
}

// DeleteTopic removes a topic from memory and the registry and deletes its
// file. A missing file is not an error. Playlist files are kept.
func (l *Library) DeleteTopic(name string) error {
	if _, ok := l.topics[name]; !ok && l.registry.IndexOf(name) < 0 {
		return &model.NotFoundError{What: "topic", Name: name}
	}
	path := l.TopicPath(name)
	delete(l.topics, name)
	delete(l.dirty, name)
	delete(l.files, name)
	delete(l.seen, path)
	l.registry.Remove(name)

	var errs []error
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, fmt.Errorf("delete topic file: %w", err))
	}
	if err := l.SaveRegistry(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// MoveTopic swaps a topic with its neighbour in the registry (-1 up,
// +1 down). Topic files are not rewritten. It reports false at the edges.
func (l *Library) MoveTopic(name string, delta int) (bool, error) {
	if l.registry.IndexOf(name) < 0 {
		return false, &model.NotFoundError{What: "topic", Name: name}
	}
	if !l.registry.Move(name, delta) {
		return false, nil
	}
	return true, l.SaveRegistry()
}

// AddItem inserts a new subtopic or title relative to the selection and
// writes the topic. It returns the path of the new node.
func (l *Library) AddItem(req AddRequest) (model.Path, error) {
	root, err := l.root(req.Selected)
	if err != nil {
		return nil, err
	}
	selected, _, _, err := model.Lookup(root, req.Selected)
	if err != nil {
		return nil, err
	}
	if req.Kind != model.KindSubtopic && req.Kind != model.KindTitle {
		return nil, fmt.Errorf("add item: unsupported kind %s", req.Kind)
	}
	name := strings.TrimSpace(req.Name)

	var added model.Path
	if req.Placement == PlaceBelow || selected.Kind == model.KindTitle {
		added, err = model.InsertBelowPath(root, req.Selected, name, req.Kind)
	} else {
		added, err = model.InsertInsidePath(root, req.Selected, name, req.Kind)
	}
	if err != nil {
		return nil, err
	}
	return added, l.SaveTopic(root.Name)
}

// RenameItem renames the node at path, keeping its position, and writes
// the topic. Topics cannot be renamed.
func (l *Library) RenameItem(path model.Path, newName string) (model.Path, error) {
	root, err := l.root(path)
	if err != nil {
		return nil, err
	}
	renamed, err := model.Rename(root, path, strings.TrimSpace(newName))
	if err != nil {
		return nil, err
	}
	if renamed.Equal(path) {
		return renamed, nil
	}
	return renamed, l.SaveTopic(root.Name)
}

// DeleteItem removes the node at path with its subtree and writes the
// topic. Selecting a topic root deletes the whole topic.
func (l *Library) DeleteItem(path model.Path) error {
	if len(path) == 1 {
		return l.DeleteTopic(path.Topic())
	}
	root, err := l.root(path)
	if err != nil {
		return err
	}
	if err := model.RemovePath(root, path); err != nil {
		return err
	}
	return l.SaveTopic(root.Name)
}

// MoveItem swaps the node at path with its previous (delta -1) or next
// (+1) sibling. Topic roots move within the registry. It reports false
// when the node is already at the edge.
func (l *Library) MoveItem(path model.Path, delta int) (bool, error) {
	if len(path) == 1 {
		return l.MoveTopic(path.Topic(), delta)
	}
	root, err := l.root(path)
	if err != nil {
		return false, err
	}
	moved, err := model.Move(root, path, delta)
	if err != nil || !moved {
		return false, err
	}
	return true, l.SaveTopic(root.Name)
}

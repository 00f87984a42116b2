package model

import (
	"errors"
	"strings"
)

// ErrTopicRoot is returned when a node operation targets the topic root
// itself (topics are managed through the registry instead).
var ErrTopicRoot = errors.New("operation not allowed on a topic root")

// PathSep joins path elements in a path key
const PathSep = "/"

// Path identifies a node by the names leading to it. The first element is
// the topic name; a single-element path is the topic root.
type Path []string

// Names may contain the separator (topic files written by other tools do),
// so each element is escaped before joining.
var (
	keyEscaper   = strings.NewReplacer("%", "%25", PathSep, "%2F")
	keyUnescaper = strings.NewReplacer("%25", "%", "%2F", PathSep, "%2f", PathSep)
)

// ParsePath splits a key produced by Path.Key
func ParsePath(key string) Path {
	if key == "" {
		return nil
	}
	parts := strings.Split(key, PathSep)
	for i, part := range parts {
		parts[i] = keyUnescaper.Replace(part)
	}
	return Path(parts)
}

// Key returns the stable string identity of the path. Distinct paths
// always have distinct keys.
func (p Path) Key() string {
	parts := make([]string, len(p))
	for i, name := range p {
		parts[i] = keyEscaper.Replace(name)
	}
	return strings.Join(parts, PathSep)
}

func (p Path) String() string {
	return p.Key()
}

// Topic returns the topic name the path starts at
func (p Path) Topic() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// Name returns the last element
func (p Path) Name() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Parent returns the path of the containing node (nil for a topic root)
func (p Path) Parent() Path {
	if len(p) <= 1 {
		return nil
	}
	return p[:len(p)-1:len(p)-1]
}

// Child returns a new path one level below p
func (p Path) Child(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

// HasPrefix reports whether p equals prefix or lies below it
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Equal compares two paths element-wise
func (p Path) Equal(o Path) bool {
	return len(p) == len(o) && p.HasPrefix(o)
}

// Lookup resolves path inside root. It returns the node, its parent
// (nil for the root) and the node's index among the parent's children.
func Lookup(root *Node, path Path) (node, parent *Node, index int, err error) {
	if root == nil || len(path) == 0 || path[0] != root.Name {
		return nil, nil, -1, notFound("node", path.Key())
	}
	node, index = root, -1
	for _, name := range path[1:] {
		child, i := node.Child(name)
		if child == nil {
			return nil, nil, -1, notFound("node", path.Key())
		}
		parent, node, index = node, child, i
	}
	return node, parent, index, nil
}

// Walk visits root and its descendants depth-first, pre-order. Returning
// false from fn skips the node's children.
func Walk(root *Node, fn func(path Path, n *Node) bool) {
	if root == nil {
		return
	}
	walk(Path{root.Name}, root, fn)
}

func walk(path Path, n *Node, fn func(Path, *Node) bool) {
	if !fn(path, n) {
		return
	}
	for _, c := range n.Children {
		walk(path.Child(c.Name), c, fn)
	}
}

// findFirst returns the path of the first descendant of root (root excluded)
// accepted by match, searching depth-first, pre-order.
func findFirst(root *Node, match func(*Node) bool) (Path, bool) {
	var found Path
	Walk(root, func(p Path, n *Node) bool {
		if found != nil {
			return false
		}
		if n != root && match(n) {
			found = p
			return false
		}
		return true
	})
	return found, found != nil
}

// FindNode searches root's descendants for name. The search is depth-first,
// pre-order and the first match wins; duplicate names elsewhere in the tree
// are never reached. Use path-based operations when names repeat.
func FindNode(root *Node, name string) (Path, error) {
	p, ok := findFirst(root, func(n *Node) bool { return n.Name == name })
	if !ok {
		return nil, notFound("node", name)
	}
	return p, nil
}

// Titles returns the paths of every title at or below path
func Titles(root *Node, path Path) ([]Path, error) {
	start, _, _, err := Lookup(root, path)
	if err != nil {
		return nil, err
	}
	var out []Path
	walk(path, start, func(p Path, n *Node) bool {
		if n.Kind == KindTitle {
			out = append(out, p)
		}
		return true
	})
	return out, nil
}

// InsertBelow adds newName as the sibling immediately after siblingName.
// When siblingName cannot be found the new node is appended to the topic
// root. The returned path locates the new node.
func InsertBelow(root *Node, siblingName, newName string, kind Kind) (Path, error) {
	sibling, err := FindNode(root, siblingName)
	if err != nil {
		sibling = nil
	}
	return InsertBelowPath(root, sibling, newName, kind)
}

// InsertBelowPath is InsertBelow with the sibling identified by path.
// A path that does not resolve, or resolves to the root, appends to the root.
func InsertBelowPath(root *Node, sibling Path, newName string, kind Kind) (Path, error) {
	if err := ValidateName(newName); err != nil {
		return nil, err
	}
	_, parent, index, err := Lookup(root, sibling)
	if err != nil || parent == nil {
		root.setChild(newNode(newName, kind), -1)
		return Path{root.Name, newName}, nil
	}
	parent.setChild(newNode(newName, kind), index+1)
	return sibling.Parent().Child(newName), nil
}

// InsertInside appends newName to the children of the first subtopic named
// parentName. Titles with that name are skipped; when no subtopic matches
// the new node is appended to the topic root.
func InsertInside(root *Node, parentName, newName string, kind Kind) (Path, error) {
	parent, ok := findFirst(root, func(n *Node) bool {
		return n.Name == parentName && n.IsContainer()
	})
	if !ok {
		parent = Path{root.Name}
	}
	return InsertInsidePath(root, parent, newName, kind)
}

// InsertInsidePath is InsertInside with the parent identified by path.
func InsertInsidePath(root *Node, parent Path, newName string, kind Kind) (Path, error) {
	if err := ValidateName(newName); err != nil {
		return nil, err
	}
	node, _, _, err := Lookup(root, parent)
	if err != nil || !node.IsContainer() {
		node, parent = root, Path{root.Name}
	}
	node.setChild(newNode(newName, kind), -1)
	return parent.Child(newName), nil
}

// Rename changes the name of the node at path, keeping its position among
// its siblings. A different sibling already called newName is dropped, the
// same way a mapping key collision overwrites.
func Rename(root *Node, path Path, newName string) (Path, error) {
	if err := ValidateName(newName); err != nil {
		return nil, err
	}
	node, parent, _, err := Lookup(root, path)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, ErrTopicRename
	}
	if node.Name == newName {
		return path, nil
	}
	if _, j := parent.Child(newName); j >= 0 {
		parent.Children = append(parent.Children[:j], parent.Children[j+1:]...)
	}
	node.Name = newName
	return path.Parent().Child(newName), nil
}

// Remove deletes the first node named name (see FindNode), including its
// whole subtree. Playlist files referenced by removed titles are left on disk.
func Remove(root *Node, name string) (Path, error) {
	p, err := FindNode(root, name)
	if err != nil {
		return nil, err
	}
	return p, RemovePath(root, p)
}

// RemovePath deletes the node at path and its subtree
func RemovePath(root *Node, path Path) error {
	_, parent, index, err := Lookup(root, path)
	if err != nil {
		return err
	}
	if parent == nil {
		return ErrTopicRoot
	}
	parent.Children = append(parent.Children[:index], parent.Children[index+1:]...)
	return nil
}

// SwapSiblings exchanges the positions of two direct children of parent.
// It is a no-op when either name is absent.
func SwapSiblings(parent *Node, a, b string) {
	_, i := parent.Child(a)
	_, j := parent.Child(b)
	if i < 0 || j < 0 || i == j {
		return
	}
	parent.Children[i], parent.Children[j] = parent.Children[j], parent.Children[i]
}

// Move swaps the node at path with the sibling delta positions away
// (-1 = up, +1 = down). It reports false when there is no such sibling.
func Move(root *Node, path Path, delta int) (bool, error) {
	node, parent, index, err := Lookup(root, path)
	if err != nil {
		return false, err
	}
	if parent == nil {
		return false, ErrTopicRoot
	}
	target := index + delta
	if target < 0 || target >= len(parent.Children) {
		return false, nil
	}
	SwapSiblings(parent, node.Name, parent.Children[target].Name)
	return true, nil
}

// SetPlaylist stores playlistPath on the title at path ("" detaches).
func SetPlaylist(root *Node, path Path, playlistPath string) error {
	node, _, _, err := Lookup(root, path)
	if err != nil {
		return err
	}
	if node.Kind != KindTitle {
		return &kindError{path: path, want: KindTitle, got: node.Kind}
	}
	node.Playlist = playlistPath
	return nil
}

type kindError struct {
	path Path
	want Kind
	got  Kind
}

func (e *kindError) Error() string {
	return "\"" + e.path.Key() + "\" is a " + e.got.String() + ", not a " + e.want.String()
}

func (e *kindError) Is(target error) bool {
	return target == ErrNotTitle && e.want == KindTitle
}

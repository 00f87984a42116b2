package model

import (
	"fmt"
	"strings"
)

// Kind classifies a node in a topic tree
type Kind int

const (
	KindSubtopic Kind = iota // named group of subtopics and titles
	KindTitle                // leaf holding a playlist path (possibly empty)
	KindTopic                // root of one topic file
)

// String returns the lower-case kind name used in messages
func (k Kind) String() string {
	switch k {
	case KindTopic:
		return "topic"
	case KindSubtopic:
		return "subtopic"
	case KindTitle:
		return "title"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsValid returns true if the kind is one of the known kinds
func (k Kind) IsValid() bool {
	switch k {
	case KindTopic, KindSubtopic, KindTitle:
		return true
	}
	return false
}

// Shape describes a node the way it appears in a view or on disk,
// before it has been classified.
type Shape struct {
	Root     bool // node sits at the root level (a topic)
	HasValue bool // node carries a string value
	Children int  // number of child nodes
}

// DetermineKind classifies a node purely from its shape.
//
// Precedence:
//   - root-level nodes are topics
//   - nodes carrying a string value are titles
//   - everything else is a subtopic: mapping values, value-less nodes with
//     children, and value-less leaves
//
// The topic decoder classifies every node it reads here; code further up
// only reads Node.Kind.
func DetermineKind(s Shape) Kind {
	if s.Root {
		return KindTopic
	}
	if s.HasValue {
		return KindTitle
	}
	return KindSubtopic
}

// Node is one entry in a topic tree.
//
// Titles carry Playlist (empty when no playlist is attached) and never have
// children. Subtopics and topics carry ordered Children; the order is
// significant and survives a save/load round trip.
type Node struct {
	Name     string
	Kind     Kind
	Playlist string
	Children []*Node
}

// NewTopic creates an empty topic root
func NewTopic(name string) *Node {
	return &Node{Name: name, Kind: KindTopic}
}

// NewSubtopic creates an empty subtopic
func NewSubtopic(name string) *Node {
	return &Node{Name: name, Kind: KindSubtopic}
}

// NewTitle creates a title pointing at playlistPath ("" for none)
func NewTitle(name, playlistPath string) *Node {
	return &Node{Name: name, Kind: KindTitle, Playlist: playlistPath}
}

// newNode creates an empty node of the given kind (topics become subtopics
// when nested).
func newNode(name string, kind Kind) *Node {
	if kind == KindTitle {
		return NewTitle(name, "")
	}
	return NewSubtopic(name)
}

// IsContainer reports whether the node can hold children
func (n *Node) IsContainer() bool {
	return n != nil && n.Kind != KindTitle
}

// HasPlaylist reports whether a title has a playlist path attached
func (n *Node) HasPlaylist() bool {
	return n != nil && n.Kind == KindTitle && n.Playlist != ""
}

// Child returns the direct child with the given name and its index.
func (n *Node) Child(name string) (*Node, int) {
	if n == nil {
		return nil, -1
	}
	for i, c := range n.Children {
		if c.Name == name {
			return c, i
		}
	}
	return nil, -1
}

// setChild stores child under its name. An existing child with the same
// name is replaced in place, otherwise child is inserted at index at
// (clamped; -1 appends).
func (n *Node) setChild(child *Node, at int) int {
	if _, i := n.Child(child.Name); i >= 0 {
		n.Children[i] = child
		return i
	}
	if at < 0 || at > len(n.Children) {
		at = len(n.Children)
	}
	n.Children = append(n.Children, nil)
	copy(n.Children[at+1:], n.Children[at:])
	n.Children[at] = child
	return at
}

// Clone creates a deep copy of the node
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	clone := *n
	if n.Children != nil {
		clone.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			clone.Children[i] = c.Clone()
		}
	}
	return &clone
}

// Equal reports structural equality including child order
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Name != o.Name || n.Kind != o.Kind || n.Playlist != o.Playlist {
		return false
	}
	if len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Count returns the number of descendants (excluding n itself)
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 0
	for _, c := range n.Children {
		total += 1 + c.Count()
	}
	return total
}

// ValidateName checks that a user-supplied node or topic name is usable.
// Names become JSON keys and, for titles and topics, file name stems.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

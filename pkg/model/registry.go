package model

import (
	"errors"

	json "github.com/goccy/go-json"
)

// RegistryFileName is the name of the topic registry file
const RegistryFileName = "topics_list.json"

// Registry is the ordered list of topic files. Its order is the root-level
// display order of the library.
type Registry []string

// DecodeRegistry parses topics_list.json
func DecodeRegistry(file string, data []byte) (Registry, error) {
	var r Registry
	if err := json.Unmarshal(data, &r); err != nil {
		var se *json.SyntaxError
		if errors.As(err, &se) {
			return nil, newParseError(file, data, se.Offset, err)
		}
		return nil, &ParseError{File: file, Err: err}
	}
	return r, nil
}

// EncodeRegistry serializes the registry to the on-disk format
func EncodeRegistry(r Registry) ([]byte, error) {
	if r == nil {
		r = Registry{}
	}
	data, err := json.MarshalIndent([]string(r), "", FileIndent)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Names returns the topic names in registry order
func (r Registry) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = TopicNameFromFile(f)
	}
	return names
}

// IndexOf returns the position of topic, or -1
func (r Registry) IndexOf(topic string) int {
	for i, f := range r {
		if TopicNameFromFile(f) == topic {
			return i
		}
	}
	return -1
}

// Add inserts the file for topic right after the topic named after, or at
// the end when after is empty or unknown.
func (r *Registry) Add(topic, after string) error {
	if r.IndexOf(topic) >= 0 {
		return ErrTopicExists
	}
	at := len(*r)
	if i := r.IndexOf(after); after != "" && i >= 0 {
		at = i + 1
	}
	*r = append(*r, "")
	copy((*r)[at+1:], (*r)[at:])
	(*r)[at] = TopicFileName(topic)
	return nil
}

// Remove drops the exact entry for topic. It reports whether it was present.
func (r *Registry) Remove(topic string) bool {
	i := r.IndexOf(topic)
	if i < 0 {
		return false
	}
	*r = append((*r)[:i], (*r)[i+1:]...)
	return true
}

// Move swaps topic with its neighbour delta positions away. It reports
// false when topic is unknown or already at the edge.
func (r Registry) Move(topic string, delta int) bool {
	i := r.IndexOf(topic)
	j := i + delta
	if i < 0 || j < 0 || j >= len(r) {
		return false
	}
	r[i], r[j] = r[j], r[i]
	return true
}

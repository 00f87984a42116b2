package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every NotFoundError
	ErrNotFound = errors.New("not found")

	ErrInvalidName    = errors.New("invalid name")
	ErrTopicExists    = errors.New("topic already exists")
	ErrTopicRename    = errors.New("topic names cannot be changed")
	ErrPlaylistExists = errors.New("playlist already exists")
	ErrNotTitle       = errors.New("not a title")
)

// NotFoundError reports a missing selection, node, parent or topic.
type NotFoundError struct {
	What string // "topic", "node", "parent", "directory", ...
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.What, e.Name)
}

// Is makes errors.Is(err, ErrNotFound) true for every NotFoundError
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(what, name string) error {
	return &NotFoundError{What: what, Name: name}
}

// ParseError wraps malformed JSON in a library file with its location.
type ParseError struct {
	File   string
	Line   int // 1-based, 0 when unknown
	Column int // 1-based, 0 when unknown
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d:%d: %v", e.File, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// newParseError locates offset (a byte offset into data) as line/column.
func newParseError(file string, data []byte, offset int64, err error) *ParseError {
	pe := &ParseError{File: file, Err: err}
	if offset <= 0 || offset > int64(len(data)) {
		return pe
	}
	line, col := 1, 1
	for _, b := range data[:offset-1] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	pe.Line, pe.Column = line, col
	return pe
}

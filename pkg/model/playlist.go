package model

import (
	"errors"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
)

// Entry is one video in a playlist
type Entry struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Display returns the text shown for an entry: the description, or the URL
// when the description is empty.
func (e Entry) Display() string {
	if e.Description != "" {
		return e.Description
	}
	return e.URL
}

// Playlist is an ordered list of entries. Order is significant.
type Playlist []Entry

// DecodePlaylist parses a playlist file
func DecodePlaylist(file string, data []byte) (Playlist, error) {
	var p Playlist
	if err := json.Unmarshal(data, &p); err != nil {
		var se *json.SyntaxError
		if errors.As(err, &se) {
			return nil, newParseError(file, data, se.Offset, err)
		}
		return nil, &ParseError{File: file, Err: err}
	}
	return p, nil
}

// EncodePlaylist serializes a playlist to the on-disk format
func EncodePlaylist(p Playlist) ([]byte, error) {
	if p == nil {
		p = Playlist{}
	}
	data, err := json.MarshalIndent(p, "", FileIndent)
	if err != nil {
		return nil, fmt.Errorf("encode playlist: %w", err)
	}
	return append(data, '\n'), nil
}

// normalizeSelection returns the valid, sorted, de-duplicated indices of sel
func (p Playlist) normalizeSelection(sel []int) []int {
	seen := make(map[int]bool, len(sel))
	out := make([]int, 0, len(sel))
	for _, i := range sel {
		if i < 0 || i >= len(p) || seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// MoveUp moves every selected entry one position up and returns the new
// selection. Nothing moves when the topmost selected entry is already first.
func (p Playlist) MoveUp(sel []int) ([]int, bool) {
	sel = p.normalizeSelection(sel)
	if len(sel) == 0 || sel[0] == 0 {
		return sel, false
	}
	moved := make([]int, len(sel))
	for k, i := range sel {
		p[i], p[i-1] = p[i-1], p[i]
		moved[k] = i - 1
	}
	return moved, true
}

// MoveDown moves every selected entry one position down and returns the new
// selection. Nothing moves when the lowest selected entry is already last.
func (p Playlist) MoveDown(sel []int) ([]int, bool) {
	sel = p.normalizeSelection(sel)
	if len(sel) == 0 || sel[len(sel)-1] == len(p)-1 {
		return sel, false
	}
	moved := make([]int, len(sel))
	for k := len(sel) - 1; k >= 0; k-- {
		i := sel[k]
		p[i], p[i+1] = p[i+1], p[i]
		moved[k] = i + 1
	}
	return moved, true
}

// Delete returns the playlist without the selected entries
func (p Playlist) Delete(sel []int) Playlist {
	drop := make(map[int]bool, len(sel))
	for _, i := range p.normalizeSelection(sel) {
		drop[i] = true
	}
	out := make(Playlist, 0, len(p)-len(drop))
	for i, e := range p {
		if !drop[i] {
			out = append(out, e)
		}
	}
	return out
}

// SetDescription replaces the description of entry i
func (p Playlist) SetDescription(i int, description string) error {
	if i < 0 || i >= len(p) {
		return notFound("playlist entry", fmt.Sprint(i))
	}
	p[i].Description = description
	return nil
}

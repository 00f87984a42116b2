package model

import (
	"errors"
	"testing"
)

func testPlaylist(names ...string) Playlist {
	p := make(Playlist, len(names))
	for i, n := range names {
		p[i] = Entry{URL: "/videos/" + n + ".mp4", Description: n + ".mp4"}
	}
	return p
}

func descriptions(p Playlist) []string {
	out := make([]string, len(p))
	for i, e := range p {
		out[i] = e.Description
	}
	return out
}

func TestDecodePlaylist(t *testing.T) {
	p, err := DecodePlaylist("x.json", []byte(`[
    {"url": "/v/a.mp4", "description": "a.mp4"},
    {"url": "https://youtu.be/xyz", "description": ""}
]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(p) != 2 || p[0].URL != "/v/a.mp4" || p[1].Display() != "https://youtu.be/xyz" {
		t.Errorf("playlist = %+v", p)
	}
}

func TestDecodePlaylistMalformed(t *testing.T) {
	for _, data := range []string{`[{"url":`, `{"url": "x"}`, `nope`} {
		_, err := DecodePlaylist("bad.json", []byte(data))
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("DecodePlaylist(%q) = %v, want *ParseError", data, err)
			continue
		}
		if pe.File != "bad.json" {
			t.Errorf("File = %q", pe.File)
		}
	}
}

func TestEncodePlaylist(t *testing.T) {
	got, err := EncodePlaylist(Playlist{{URL: "/v/a.mp4", Description: "a.mp4"}})
	if err != nil {
		t.Fatal(err)
	}
	want := `[
    {
        "url": "/v/a.mp4",
        "description": "a.mp4"
    }
]
`
	if string(got) != want {
		t.Errorf("EncodePlaylist =\n%s\nwant\n%s", got, want)
	}

	empty, _ := EncodePlaylist(nil)
	if string(empty) != "[]\n" {
		t.Errorf("nil playlist = %q", empty)
	}
}

func TestPlaylistMoveUp(t *testing.T) {
	tests := []struct {
		name      string
		sel       []int
		want      []string
		wantSel   []int
		wantMoved bool
	}{
		{"single", []int{2}, []string{"a", "c", "b", "d"}, []int{1}, true},
		{"contiguous", []int{1, 2}, []string{"b", "c", "a", "d"}, []int{0, 1}, true},
		{"gapped", []int{3, 1}, []string{"b", "a", "d", "c"}, []int{0, 2}, true},
		{"at top", []int{0, 2}, []string{"a", "b", "c", "d"}, []int{0, 2}, false},
		{"empty selection", nil, []string{"a", "b", "c", "d"}, []int{}, false},
		{"out of range ignored", []int{9, 1}, []string{"b", "a", "c", "d"}, []int{0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPlaylistPlain("a", "b", "c", "d")
			sel, moved := p.MoveUp(tt.sel)
			if moved != tt.wantMoved {
				t.Errorf("moved = %v, want %v", moved, tt.wantMoved)
			}
			if got := descriptions(p); !equalStrings(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
			if !equalInts(sel, tt.wantSel) {
				t.Errorf("selection = %v, want %v", sel, tt.wantSel)
			}
		})
	}
}

func TestPlaylistMoveDown(t *testing.T) {
	tests := []struct {
		name      string
		sel       []int
		want      []string
		wantSel   []int
		wantMoved bool
	}{
		{"single", []int{0}, []string{"b", "a", "c", "d"}, []int{1}, true},
		{"contiguous", []int{1, 2}, []string{"a", "d", "b", "c"}, []int{2, 3}, true},
		{"gapped", []int{0, 2}, []string{"b", "a", "d", "c"}, []int{1, 3}, true},
		{"at bottom", []int{1, 3}, []string{"a", "b", "c", "d"}, []int{1, 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPlaylistPlain("a", "b", "c", "d")
			sel, moved := p.MoveDown(tt.sel)
			if moved != tt.wantMoved {
				t.Errorf("moved = %v, want %v", moved, tt.wantMoved)
			}
			if got := descriptions(p); !equalStrings(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
			if !equalInts(sel, tt.wantSel) {
				t.Errorf("selection = %v, want %v", sel, tt.wantSel)
			}
		})
	}
}

func TestPlaylistDelete(t *testing.T) {
	p := testPlaylistPlain("a", "b", "c", "d")
	out := p.Delete([]int{3, 0, 0, 7})
	if got := descriptions(out); !equalStrings(got, []string{"b", "c"}) {
		t.Errorf("Delete = %v", got)
	}
	if len(p) != 4 {
		t.Error("Delete must not shrink the receiver")
	}
}

func TestPlaylistSetDescription(t *testing.T) {
	p := testPlaylist("a")
	if err := p.SetDescription(0, "Intro"); err != nil {
		t.Fatal(err)
	}
	if p[0].Description != "Intro" || p[0].URL != "/videos/a.mp4" {
		t.Errorf("entry = %+v", p[0])
	}
	if err := p.SetDescription(1, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func testPlaylistPlain(names ...string) Playlist {
	p := make(Playlist, len(names))
	for i, n := range names {
		p[i] = Entry{URL: n, Description: n}
	}
	return p
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

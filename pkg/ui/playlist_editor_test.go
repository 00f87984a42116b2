package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/vidnav/pkg/model"
)

// keyPress builds the KeyMsg bubbletea delivers for s
func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testPlaylist() model.Playlist {
	return model.Playlist{
		{URL: "a.mp4", Description: "A"},
		{URL: "b.mp4", Description: "B"},
		{URL: "c.mp4"},
		{URL: "d.mp4", Description: "D"},
	}
}

func newTestEditor(entries model.Playlist) PlaylistEditorModel {
	ed := NewPlaylistEditor(model.Path{"Go", "Basics", "Intro"}, "playlists/Intro.json", entries, newTreeTestTheme())
	ed.SetSize(80, 20)
	return ed
}

func pressEditor(ed PlaylistEditorModel, keys ...string) (PlaylistEditorModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		ed, cmd = ed.Update(keyPress(k))
	}
	return ed, cmd
}

func displays(p model.Playlist) string {
	out := make([]string, len(p))
	for i, e := range p {
		out[i] = e.Display()
	}
	return strings.Join(out, ",")
}

func TestEditorCopiesEntries(t *testing.T) {
	in := testPlaylist()
	ed := newTestEditor(in)
	ed, _ = pressEditor(ed, "J")
	if displays(in) != "A,B,c.mp4,D" {
		t.Errorf("caller's playlist changed: %s", displays(in))
	}
	if displays(ed.Entries()) != "B,A,c.mp4,D" {
		t.Errorf("entries = %s", displays(ed.Entries()))
	}
}

func TestEditorMoveCursorEntry(t *testing.T) {
	ed := newTestEditor(testPlaylist())
	ed, _ = pressEditor(ed, "j", "j", "K")

	if got := displays(ed.Entries()); got != "A,c.mp4,B,D" {
		t.Errorf("entries = %s", got)
	}
	if ed.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1 (follows the entry)", ed.Cursor())
	}
	if !ed.Dirty() {
		t.Error("expected dirty after move")
	}
}

func TestEditorMoveAtEdgeIsNoop(t *testing.T) {
	ed := newTestEditor(testPlaylist())
	ed, _ = pressEditor(ed, "K")
	if ed.Dirty() {
		t.Error("moving the first entry up should not change anything")
	}
	if got := displays(ed.Entries()); got != "A,B,c.mp4,D" {
		t.Errorf("entries = %s", got)
	}
}

func TestEditorMoveSelection(t *testing.T) {
	ed := newTestEditor(testPlaylist())
	// select B and c.mp4, cursor stays on c.mp4
	ed, _ = pressEditor(ed, "j", " ", "j", " ", "K")

	if got := displays(ed.Entries()); got != "B,c.mp4,A,D" {
		t.Errorf("entries = %s", got)
	}
	if sel := ed.Selection(); len(sel) != 2 || sel[0] != 0 || sel[1] != 1 {
		t.Errorf("selection = %v, want [0 1]", sel)
	}
	if ed.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", ed.Cursor())
	}

	// Blocked at the top: nothing moves
	ed, _ = pressEditor(ed, "K")
	if got := displays(ed.Entries()); got != "B,c.mp4,A,D" {
		t.Errorf("entries after blocked move = %s", got)
	}
}

func TestEditorDeleteSelection(t *testing.T) {
	ed := newTestEditor(testPlaylist())
	ed, _ = pressEditor(ed, " ", "j", "j", " ", "d")

	if got := displays(ed.Entries()); got != "B,D" {
		t.Errorf("entries = %s", got)
	}
	if len(ed.Selection()) != 1 {
		t.Errorf("selection should be cleared, got %v", ed.Selection())
	}
	if ed.Cursor() != 1 {
		t.Errorf("cursor = %d, want clamped to 1", ed.Cursor())
	}
}

func TestEditorDeleteCursorEntry(t *testing.T) {
	ed := newTestEditor(testPlaylist())
	ed, _ = pressEditor(ed, "G", "j", "j", "j", "d")
	if got := displays(ed.Entries()); got != "A,B,c.mp4" {
		t.Errorf("entries = %s", got)
	}
	if ed.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", ed.Cursor())
	}
}

func TestEditorDeleteEverything(t *testing.T) {
	ed := newTestEditor(model.Playlist{{URL: "only.mp4"}})
	ed, _ = pressEditor(ed, "d")
	if len(ed.Entries()) != 0 || ed.Cursor() != 0 {
		t.Errorf("entries = %v cursor = %d", ed.Entries(), ed.Cursor())
	}
	// Further keys on an empty playlist are harmless
	ed, cmd := pressEditor(ed, "d", "K", "e", "y", " ")
	if cmd != nil {
		t.Error("expected no command on an empty playlist")
	}
	if !strings.Contains(ed.View(), "The playlist is empty.") {
		t.Error("empty view missing placeholder")
	}
}

func TestEditorSaveAndCloseCommands(t *testing.T) {
	ed := newTestEditor(testPlaylist())
	ed, cmd := pressEditor(ed, "J", "s")
	if cmd == nil {
		t.Fatal("expected save command")
	}
	save, ok := cmd().(PlaylistSaveMsg)
	if !ok {
		t.Fatalf("expected PlaylistSaveMsg, got %T", cmd())
	}
	if save.File != "playlists/Intro.json" || displays(save.Entries) != "B,A,c.mp4,D" {
		t.Errorf("save msg = %+v", save)
	}

	_, cmd = pressEditor(ed, "esc")
	if msg, ok := cmd().(PlaylistCloseMsg); !ok || !msg.Unsaved {
		t.Errorf("close msg = %+v, want Unsaved", cmd())
	}

	ed.MarkSaved()
	_, cmd = pressEditor(ed, "esc")
	if msg := cmd().(PlaylistCloseMsg); msg.Unsaved {
		t.Error("saved editor should close without asking")
	}
}

func TestEditorDescribeAndCopyCommands(t *testing.T) {
	ed := newTestEditor(testPlaylist())
	ed, cmd := pressEditor(ed, "j", "e")
	msg, ok := cmd().(EditDescriptionMsg)
	if !ok || msg.Index != 1 || msg.Current != "B" {
		t.Errorf("describe msg = %+v", cmd())
	}

	_, cmd = pressEditor(ed, "y")
	if msg, ok := cmd().(CopyTextMsg); !ok || msg.Text != "b.mp4" {
		t.Errorf("copy msg = %+v", cmd())
	}
}

func TestEditorSetDescription(t *testing.T) {
	ed := newTestEditor(testPlaylist())
	if err := ed.SetDescription(2, "  Third  "); err != nil {
		t.Fatal(err)
	}
	if ed.Entries()[2].Description != "Third" || !ed.Dirty() {
		t.Errorf("entry = %+v dirty = %v", ed.Entries()[2], ed.Dirty())
	}
	if err := ed.SetDescription(9, "x"); err == nil {
		t.Error("expected error for out-of-range entry")
	}
}

func TestEditorView(t *testing.T) {
	ed := newTestEditor(testPlaylist())
	ed, _ = pressEditor(ed, " ", "J")
	view := ed.View()
	for _, want := range []string{"Playlist: Intro *", "playlists/Intro.json", "c.mp4", "✓"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

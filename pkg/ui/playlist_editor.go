package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/vidnav/pkg/model"
)

// PlaylistSaveMsg asks the app to write the edited playlist
type PlaylistSaveMsg struct {
	Title   model.Path
	File    string
	Entries model.Playlist
}

// PlaylistCloseMsg is sent when the editor is closed
type PlaylistCloseMsg struct {
	Unsaved bool
}

// EditDescriptionMsg asks the app to prompt for a new description
type EditDescriptionMsg struct {
	Index   int
	Current string
}

// CopyTextMsg asks the app to put Text on the clipboard
type CopyTextMsg struct {
	Text string
}

// PlaylistEditorModel edits the entries of one title's playlist. Several
// entries can be selected with space; moves and deletes apply to the
// selection, or to the entry under the cursor when nothing is selected.
type PlaylistEditorModel struct {
	title    model.Path
	file     string
	entries  model.Playlist
	cursor   int
	selected map[int]bool
	dirty    bool
	offset   int
	width    int
	height   int
	keys     EditorKeyMap
	theme    Theme
}

// NewPlaylistEditor opens entries of the playlist file for the title at path
func NewPlaylistEditor(title model.Path, file string, entries model.Playlist, theme Theme) PlaylistEditorModel {
	return PlaylistEditorModel{
		title:    title,
		file:     file,
		entries:  append(model.Playlist(nil), entries...),
		selected: make(map[int]bool),
		keys:     DefaultEditorKeyMap(),
		theme:    theme,
	}
}

// SetSize updates the editor dimensions
func (m *PlaylistEditorModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ensureCursorVisible()
}

// Title returns the path of the edited title
func (m PlaylistEditorModel) Title() model.Path { return m.title }

// File returns the playlist file as stored on the title
func (m PlaylistEditorModel) File() string { return m.file }

// Entries returns the current, possibly unsaved, entries
func (m PlaylistEditorModel) Entries() model.Playlist { return m.entries }

// Dirty reports unsaved changes
func (m PlaylistEditorModel) Dirty() bool { return m.dirty }

// Cursor returns the index under the cursor
func (m PlaylistEditorModel) Cursor() int { return m.cursor }

// MarkSaved clears the dirty flag after a successful write
func (m *PlaylistEditorModel) MarkSaved() { m.dirty = false }

// Selection returns the sorted selected indices, or the cursor when
// nothing is selected
func (m PlaylistEditorModel) Selection() []int {
	if len(m.selected) == 0 {
		if m.cursor < len(m.entries) {
			return []int{m.cursor}
		}
		return nil
	}
	sel := make([]int, 0, len(m.selected))
	for i := range m.selected {
		sel = append(sel, i)
	}
	sort.Ints(sel)
	return sel
}

// SetDescription changes the description of entry i
func (m *PlaylistEditorModel) SetDescription(i int, desc string) error {
	if err := m.entries.SetDescription(i, strings.TrimSpace(desc)); err != nil {
		return err
	}
	m.dirty = true
	return nil
}

// Update handles keys while the editor is open
func (m PlaylistEditorModel) Update(msg tea.Msg) (PlaylistEditorModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Select):
		if m.cursor < len(m.entries) {
			if m.selected[m.cursor] {
				delete(m.selected, m.cursor)
			} else {
				m.selected[m.cursor] = true
			}
		}
	case key.Matches(keyMsg, m.keys.MoveUp):
		m.move(m.entries.MoveUp, -1)
	case key.Matches(keyMsg, m.keys.MoveDown):
		m.move(m.entries.MoveDown, 1)
	case key.Matches(keyMsg, m.keys.Delete):
		sel := m.Selection()
		if len(sel) == 0 {
			break
		}
		m.entries = m.entries.Delete(sel)
		m.selected = make(map[int]bool)
		m.dirty = true
		if m.cursor >= len(m.entries) {
			m.cursor = len(m.entries) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
	case key.Matches(keyMsg, m.keys.Describe):
		if m.cursor < len(m.entries) {
			i, desc := m.cursor, m.entries[m.cursor].Description
			return m, func() tea.Msg { return EditDescriptionMsg{Index: i, Current: desc} }
		}
	case key.Matches(keyMsg, m.keys.Copy):
		if m.cursor < len(m.entries) {
			url := m.entries[m.cursor].URL
			return m, func() tea.Msg { return CopyTextMsg{Text: url} }
		}
	case key.Matches(keyMsg, m.keys.Save):
		save := PlaylistSaveMsg{Title: m.title, File: m.file, Entries: append(model.Playlist(nil), m.entries...)}
		return m, func() tea.Msg { return save }
	case key.Matches(keyMsg, m.keys.Close):
		unsaved := m.dirty
		return m, func() tea.Msg { return PlaylistCloseMsg{Unsaved: unsaved} }
	}
	m.ensureCursorVisible()
	return m, nil
}

func (m *PlaylistEditorModel) move(fn func([]int) ([]int, bool), delta int) {
	moved, ok := fn(m.Selection())
	if !ok {
		return
	}
	m.dirty = true
	if len(m.selected) == 0 {
		m.cursor = moved[0]
		return
	}
	// The cursor travels with the selection when it is part of it
	if m.selected[m.cursor] {
		m.cursor += delta
	}
	m.selected = make(map[int]bool, len(moved))
	for _, i := range moved {
		m.selected[i] = true
	}
}

func (m *PlaylistEditorModel) visibleCount() int {
	// title, file line, blank, footer
	if n := m.height - 6; n > 0 {
		return n
	}
	return 10
}

func (m *PlaylistEditorModel) ensureCursorVisible() {
	visible := m.visibleCount()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View renders the editor
func (m PlaylistEditorModel) View() string {
	t := m.theme
	r := t.Renderer

	titleStyle := r.NewStyle().Foreground(t.Primary).Bold(true)
	mutedStyle := r.NewStyle().Foreground(t.Muted)
	markStyle := r.NewStyle().Foreground(t.Secondary).Bold(true)

	var sb strings.Builder
	heading := "Playlist: " + m.title.Name()
	if m.dirty {
		heading += " *"
	}
	sb.WriteString(titleStyle.Render(heading))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(m.file))
	sb.WriteString("\n\n")

	if len(m.entries) == 0 {
		sb.WriteString(mutedStyle.Render("The playlist is empty."))
	}
	end := m.offset + m.visibleCount()
	if end > len(m.entries) {
		end = len(m.entries)
	}
	width := m.width - 10
	if width < 20 {
		width = 20
	}
	for i := m.offset; i < end; i++ {
		mark := "  "
		if m.selected[i] {
			mark = markStyle.Render("✓ ")
		}
		line := fmt.Sprintf("%s%3d. %s", mark, i+1, truncateRunes(m.entries[i].Display(), width))
		if i == m.cursor {
			line = t.Selected.Render(line)
		}
		sb.WriteString(line)
		if i < end-1 {
			sb.WriteString("\n")
		}
	}

	box := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1)
	if m.width > 4 {
		box = box.Width(m.width - 4)
	}
	return box.Render(sb.String())
}

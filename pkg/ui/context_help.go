package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Context identifies which part of the UI has focus, for help lookup
type Context int

const (
	ContextTree Context = iota
	ContextDetail
	ContextEditor
	ContextForm
	ContextHelp
)

// ContextHelpContent contains compact help content for each context.
// Content should fit on one screen (~20 lines) without scrolling.
var ContextHelpContent = map[Context]string{
	ContextTree:   contextHelpTree,
	ContextDetail: contextHelpDetail,
	ContextEditor: contextHelpEditor,
	ContextForm:   contextHelpForm,
}

// GetContextHelp returns the help content for a given context.
// Falls back to generic help if the context has no specific content.
func GetContextHelp(ctx Context) string {
	if content, ok := ContextHelpContent[ctx]; ok {
		return content
	}
	return contextHelpGeneric
}

// RenderContextHelp renders the context-specific help modal.
func RenderContextHelp(ctx Context, theme Theme, width, height int) string {
	content := GetContextHelp(ctx)

	r := theme.Renderer

	modalWidth := 60
	if width > 0 && modalWidth > width-4 {
		modalWidth = width - 4
	}
	if modalWidth < 30 {
		modalWidth = 30
	}

	titleStyle := r.NewStyle().
		Bold(true).
		Foreground(theme.Primary)

	contentStyle := r.NewStyle().
		Foreground(theme.Subtext)

	footerStyle := r.NewStyle().
		Foreground(theme.Muted).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quick Reference"))
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", modalWidth-4)))
	b.WriteString("\n\n")
	b.WriteString(contentStyle.Render(content))
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("Esc or ? to close"))

	modalStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(1, 2).
		Width(modalWidth)

	return modalStyle.Render(b.String())
}

const contextHelpTree = `## Library Tree

**Navigation**
  j/k       Move up/down
  h/l       Collapse / expand
  Enter     Toggle, or edit a title's playlist
  g/G       Jump to top/bottom
  [ / ]     Collapse / expand all

**Editing**
  A         Add topic
  a         Add subtopic or title
  r         Rename
  d         Delete (with subtree)
  K/J       Move up/down

**Playlists**
  p         Build from a directory
  P         Populate all titles below
  u         Add a single link
  x         Delete the playlist
  e         Edit entries
  y         Copy playlist path`

const contextHelpDetail = `## Detail Pane

  j/k       Scroll
  Tab       Back to the tree

Shows the selected topic or subtopic
with its children, or a title's playlist.`

const contextHelpEditor = `## Playlist Editor

**Selection**
  j/k       Move cursor
  Space     Select / unselect entry

**Editing** (selection, or cursor entry)
  K/J       Move up/down
  d         Delete
  e         Edit description

**Other**
  y         Copy URL
  s         Save
  Esc       Close`

const contextHelpForm = `## Add Item

  Tab       Next field
  Shift+Tab Previous field
  Enter     Confirm
  Esc       Cancel

Titles only take siblings, so adding
while a title is selected puts the
new item right below it.`

const contextHelpGeneric = `## vidnav

  ?         Toggle this help
  q         Quit (saves pending changes)`

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// promptKind says what a submitted prompt value is used for
type promptKind int

const (
	promptAddTopic promptKind = iota
	promptRename
	promptAttach
	promptPopulate
	promptAddLink
	promptDescription
)

// PromptModel asks for one line of text in a modal box
type PromptModel struct {
	kind  promptKind
	title string
	input textinput.Model
	index int // playlist entry for promptDescription
	theme Theme
	width int
}

func newPrompt(kind promptKind, title, placeholder, value string, theme Theme) PromptModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 512
	ti.Width = 50
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	return PromptModel{kind: kind, title: title, input: ti, theme: theme}
}

// Value returns the trimmed input
func (p PromptModel) Value() string {
	return strings.TrimSpace(p.input.Value())
}

// SetWidth updates the box width
func (p *PromptModel) SetWidth(width int) {
	p.width = width
	if w := width - 16; w > 10 && w < 70 {
		p.input.Width = w
	}
}

// Update forwards keys other than enter/esc to the text input
func (p PromptModel) Update(msg tea.Msg) (PromptModel, tea.Cmd) {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// View renders the prompt box
func (p PromptModel) View() string {
	t := p.theme
	r := t.Renderer
	titleStyle := r.NewStyle().Foreground(t.Primary).Bold(true)
	footerStyle := r.NewStyle().Foreground(t.Muted).Italic(true)

	content := titleStyle.Render(p.title) + "\n\n" +
		p.input.View() + "\n\n" +
		footerStyle.Render("enter: ok | esc: cancel")

	return r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Render(content)
}

// confirmKind says what a confirmed question does
type confirmKind int

const (
	confirmDelete confirmKind = iota
	confirmClearPlaylist
	confirmDiscardEdits
)

// ConfirmModel asks a yes/no question
type ConfirmModel struct {
	kind     confirmKind
	question string
	theme    Theme
}

func newConfirm(kind confirmKind, question string, theme Theme) ConfirmModel {
	return ConfirmModel{kind: kind, question: question, theme: theme}
}

// View renders the question box
func (c ConfirmModel) View() string {
	t := c.theme
	r := t.Renderer
	questionStyle := r.NewStyle().Foreground(t.Warning).Bold(true)
	footerStyle := r.NewStyle().Foreground(t.Muted).Italic(true)

	return r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Warning).
		Padding(1, 2).
		Render(questionStyle.Render(c.question) + "\n\n" + footerStyle.Render("y: yes | n/esc: no"))
}

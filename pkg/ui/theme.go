// Package ui provides the terminal user interface for vidnav.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/vidnav/pkg/model"
)

// Theme holds the colors and base styles of the TUI
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Selected lipgloss.Style
}

// DefaultTheme builds the theme for r; nil means the default renderer
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	t := Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#50FA7B"},
		Highlight: lipgloss.AdaptiveColor{Light: "#006C9C", Dark: "#8BE9FD"},
		Muted:     lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#444444", Dark: "#BFBFBF"},
		Border:    lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"},
		Warning:   lipgloss.AdaptiveColor{Light: "#B36B00", Dark: "#FFB86C"},
		Error:     lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF5555"},
	}
	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"})
	t.Selected = r.NewStyle().
		Background(lipgloss.AdaptiveColor{Light: "#E8E0FF", Dark: "#44475A"}).
		Bold(true)
	return t
}

// KindIcon returns the glyph and color for a node. Titles without a
// playlist are muted.
func (t Theme) KindIcon(kind model.Kind, hasPlaylist bool) (string, lipgloss.AdaptiveColor) {
	switch kind {
	case model.KindTopic:
		return "◆", t.Primary
	case model.KindSubtopic:
		return "▣", t.Highlight
	}
	if hasPlaylist {
		return "▶", t.Secondary
	}
	return "▷", t.Muted
}

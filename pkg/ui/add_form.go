package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/vanderheijden86/vidnav/pkg/model"
	"github.com/vanderheijden86/vidnav/pkg/store"
)

// AddForm collects the name, type and placement of a new subtopic or title
type AddForm struct {
	selected  model.Path
	form      *huh.Form
	name      string
	kind      string
	placement string
}

// NewAddForm builds the form for adding next to or inside selected. The
// placement question is skipped for titles, which only take siblings.
func NewAddForm(selected model.Path, selectedKind model.Kind) *AddForm {
	f := &AddForm{
		selected:  selected,
		kind:      model.KindTitle.String(),
		placement: store.PlaceInside.String(),
	}
	if selectedKind == model.KindTitle {
		f.placement = store.PlaceBelow.String()
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Name").
			Value(&f.name).
			Validate(func(s string) error {
				return model.ValidateName(strings.TrimSpace(s))
			}),
		huh.NewSelect[string]().
			Title("Type").
			Options(
				huh.NewOption("Title", model.KindTitle.String()),
				huh.NewOption("Subtopic", model.KindSubtopic.String()),
			).
			Value(&f.kind),
	}
	if selectedKind != model.KindTitle {
		fields = append(fields, huh.NewSelect[string]().
			Title("Where").
			Options(
				huh.NewOption("Inside "+selected.Name(), store.PlaceInside.String()),
				huh.NewOption("Below "+selected.Name(), store.PlaceBelow.String()),
			).
			Value(&f.placement))
	}

	keys := huh.NewDefaultKeyMap()
	keys.Quit = key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel"))

	f.form = huh.NewForm(huh.NewGroup(fields...)).
		WithKeyMap(keys).
		WithShowHelp(true).
		WithWidth(60)
	return f
}

// Init starts the form
func (f *AddForm) Init() tea.Cmd {
	return f.form.Init()
}

// Update forwards msg to the form
func (f *AddForm) Update(msg tea.Msg) tea.Cmd {
	m, cmd := f.form.Update(msg)
	if form, ok := m.(*huh.Form); ok {
		f.form = form
	}
	return cmd
}

// Done reports whether the form was submitted
func (f *AddForm) Done() bool {
	return f.form.State == huh.StateCompleted
}

// Aborted reports whether the form was cancelled
func (f *AddForm) Aborted() bool {
	return f.form.State == huh.StateAborted
}

// View renders the form
func (f *AddForm) View() string {
	return f.form.View()
}

// Request converts the answers to an AddRequest
func (f *AddForm) Request() store.AddRequest {
	req := store.AddRequest{
		Selected:  f.selected,
		Name:      strings.TrimSpace(f.name),
		Kind:      model.KindTitle,
		Placement: store.PlaceInside,
	}
	if f.kind == model.KindSubtopic.String() {
		req.Kind = model.KindSubtopic
	}
	if f.placement == store.PlaceBelow.String() {
		req.Placement = store.PlaceBelow
	}
	return req
}

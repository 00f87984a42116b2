package ui

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/vidnav/pkg/config"
	"github.com/vanderheijden86/vidnav/pkg/export"
	"github.com/vanderheijden86/vidnav/pkg/model"
	"github.com/vanderheijden86/vidnav/pkg/store"
	"github.com/vanderheijden86/vidnav/pkg/watcher"
)

// SplitViewThreshold is the terminal width above which the detail pane is
// shown next to the tree
const SplitViewThreshold = 100

type focus int

const (
	focusTree focus = iota
	focusDetail
	focusEditor
	focusPrompt
	focusConfirm
	focusForm
	focusHelp
)

// LibraryChangedMsg is sent when library files were changed by another
// program
type LibraryChangedMsg struct{}

// Options configures the app model
type Options struct {
	// StateDir holds tree-state.json; empty disables persistence
	StateDir string

	// ExpandDepth is the default tree expansion depth (0 collapses all)
	ExpandDepth int

	// Watcher reports external edits; nil disables reloading
	Watcher *watcher.Watcher

	// MarkdownStyle is a glamour standard style; empty picks one for the
	// terminal background
	MarkdownStyle string

	// Clipboard replaces the system clipboard, mostly for tests
	Clipboard func(string) error
}

// Model is the bubbletea model of the whole application. It is the only
// place the library is mutated.
type Model struct {
	lib   *store.Library
	tree  TreeModel
	theme Theme
	keys  KeyMap
	help  help.Model

	viewport      viewport.Model
	renderer      *glamour.TermRenderer
	markdownStyle string

	focus       focus
	returnFocus focus // where prompts, confirms and help go back to
	prompt      PromptModel
	confirm     ConfirmModel
	form        *AddForm
	editor      PlaylistEditorModel
	target      model.Path // node a pending prompt or confirm acts on

	status    string
	statusErr bool
	report    string // populate report shown in the detail pane until the selection moves

	watcher *watcher.Watcher
	copy    func(string) error

	ready       bool
	width       int
	height      int
	isSplitView bool
	flushErr    error
}

// NewModel creates the application model for an open library
func NewModel(lib *store.Library, theme Theme, opts Options) Model {
	tree := NewTreeModel(theme)
	tree.SetStateDir(opts.StateDir)
	tree.SetExpandDepth(opts.ExpandDepth)
	tree.Build(lib.Roots())

	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	m := Model{
		lib:           lib,
		tree:          tree,
		theme:         theme,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		viewport:      viewport.New(0, 0),
		markdownStyle: opts.MarkdownStyle,
		watcher:       opts.Watcher,
		copy:          copyFn,
	}

	if problems := lib.Problems(); len(problems) > 0 {
		m.setError(fmt.Errorf("skipped %d unreadable file(s): %w", len(problems), problems[0]))
	} else {
		m.describeSelection()
	}
	return m
}

// Init starts waiting for external changes
func (m Model) Init() tea.Cmd {
	return waitForLibraryChange(m.watcher)
}

func waitForLibraryChange(w *watcher.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		<-w.Changed()
		return LibraryChangedMsg{}
	}
}

// FlushError returns the error of the final flush on quit, if any
func (m Model) FlushError() error {
	return m.flushErr
}

// Status returns the message area text and whether it reports an error
func (m Model) Status() (string, bool) {
	return m.status, m.statusErr
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case LibraryChangedMsg:
		m.reload(false)
		return m, waitForLibraryChange(m.watcher)

	case PlaylistSaveMsg:
		m.savePlaylist(msg)
		return m, nil

	case PlaylistCloseMsg:
		if msg.Unsaved {
			m.openConfirm(confirmDiscardEdits, "Discard unsaved playlist changes?", nil)
			return m, nil
		}
		m.closeEditor()
		return m, nil

	case EditDescriptionMsg:
		m.openPrompt(promptDescription, "Description", "shown instead of the URL", msg.Current, m.editor.Title())
		m.prompt.index = msg.Index
		return m, textinput.Blink

	case CopyTextMsg:
		m.copyText(msg.Text)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && m.focus != focusForm {
			return m.quit()
		}
	}

	switch m.focus {
	case focusForm:
		return m.updateForm(msg)
	case focusPrompt:
		return m.updatePrompt(msg)
	case focusConfirm:
		return m.updateConfirm(msg)
	case focusHelp:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc", "?", "q", "enter":
				m.focus = m.returnFocus
			}
		}
		return m, nil
	case focusEditor:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Help) {
			m.openHelp()
			return m, nil
		}
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	case focusDetail:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(keyMsg, m.keys.Focus), keyMsg.String() == "esc":
				m.focus = focusTree
				return m, nil
			case key.Matches(keyMsg, m.keys.Quit):
				return m.quit()
			case key.Matches(keyMsg, m.keys.Help):
				m.openHelp()
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.updateTree(keyMsg)
	}
	return m, nil
}

func (m Model) updateTree(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	before := m.tree.SelectedKey()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.openHelp()
	case key.Matches(msg, m.keys.Up):
		m.tree.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.tree.MoveDown()
	case key.Matches(msg, m.keys.Top):
		m.tree.JumpToTop()
	case key.Matches(msg, m.keys.Bottom):
		m.tree.JumpToBottom()
	case key.Matches(msg, m.keys.PageUp):
		m.tree.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.tree.PageDown()
	case key.Matches(msg, m.keys.Expand):
		m.tree.ExpandOrMoveToChild()
	case key.Matches(msg, m.keys.Collapse):
		m.tree.CollapseOrJumpToParent()
	case key.Matches(msg, m.keys.ExpandAll):
		m.tree.ExpandAll()
	case key.Matches(msg, m.keys.CollapseAll):
		m.tree.CollapseAll()
	case key.Matches(msg, m.keys.Toggle):
		if node := m.tree.SelectedNode(); node != nil {
			if node.IsContainer() {
				m.tree.ToggleExpand()
			} else {
				m.openEditor()
			}
		}

	case key.Matches(msg, m.keys.AddTopic):
		m.openPrompt(promptAddTopic, "New topic", "topic name", "", nil)
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Add):
		node := m.tree.SelectedNode()
		if node == nil {
			m.setError(errors.New("add a topic first (A)"))
			break
		}
		m.form = NewAddForm(node.Path, node.Kind)
		m.focus = focusForm
		return m, m.form.Init()
	case key.Matches(msg, m.keys.Rename):
		node := m.tree.SelectedNode()
		if node == nil {
			break
		}
		if node.Kind == model.KindTopic {
			m.setError(model.ErrTopicRename)
			break
		}
		m.openPrompt(promptRename, "Rename "+node.Name, "new name", node.Name, node.Path)
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Delete):
		if node := m.tree.SelectedNode(); node != nil {
			m.openConfirm(confirmDelete, fmt.Sprintf("Delete '%s' and everything below it?", node.Name), node.Path)
		}
	case key.Matches(msg, m.keys.MoveUp):
		m.moveSelected(-1)
	case key.Matches(msg, m.keys.MoveDown):
		m.moveSelected(1)

	case key.Matches(msg, m.keys.Attach):
		if node := m.selectedTitle(); node != nil {
			m.openPrompt(promptAttach, "Build playlist for "+node.Name+" from directory", "/path/to/videos", "", node.Path)
			return m, textinput.Blink
		}
	case key.Matches(msg, m.keys.Populate):
		if node := m.tree.SelectedNode(); node != nil {
			m.openPrompt(promptPopulate, "Populate "+node.Name+" from base directory", "/path/to/course", "", node.Path)
			return m, textinput.Blink
		}
	case key.Matches(msg, m.keys.AddLink):
		if node := m.selectedTitle(); node != nil {
			m.openPrompt(promptAddLink, "Link for "+node.Name, "https://", "", node.Path)
			return m, textinput.Blink
		}
	case key.Matches(msg, m.keys.Clear):
		if node := m.selectedTitle(); node != nil {
			if node.Playlist == "" {
				m.setError(fmt.Errorf("no playlist found for '%s'", node.Name))
				break
			}
			m.openConfirm(confirmClearPlaylist, fmt.Sprintf("Delete the playlist of '%s'?", node.Name), node.Path)
		}
	case key.Matches(msg, m.keys.Edit):
		m.openEditor()
	case key.Matches(msg, m.keys.Copy):
		if node := m.selectedTitle(); node != nil {
			if node.Playlist == "" {
				m.setError(fmt.Errorf("no playlist found for '%s'", node.Name))
				break
			}
			m.copyText(m.lib.ResolvePlaylist(node.Playlist))
		}

	case key.Matches(msg, m.keys.Focus):
		if m.isSplitView {
			m.focus = focusDetail
		}
	case key.Matches(msg, m.keys.Reload):
		m.reload(true)
	}

	if m.tree.SelectedKey() != before {
		m.report = ""
		m.describeSelection()
		m.updateDetail()
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.form.Update(msg)
	switch {
	case m.form.Done():
		req := m.form.Request()
		m.form = nil
		m.focus = focusTree
		m.addItem(req)
		return m, nil
	case m.form.Aborted():
		m.form = nil
		m.focus = focusTree
		return m, nil
	}
	return m, cmd
}

func (m Model) updatePrompt(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.focus = m.returnFocus
			return m, nil
		case "enter":
			m.focus = m.returnFocus
			m.submitPrompt(m.prompt.kind, m.target, m.prompt.Value())
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		m.focus = m.returnFocus
		m.submitConfirm(m.confirm.kind, m.target)
	case "n", "N", "esc", "q":
		m.focus = m.returnFocus
	}
	return m, nil
}

func (m *Model) openPrompt(kind promptKind, title, placeholder, value string, target model.Path) {
	m.prompt = newPrompt(kind, title, placeholder, value, m.theme)
	m.prompt.SetWidth(m.width)
	m.target = target
	m.returnFocus = m.focus
	m.focus = focusPrompt
}

func (m *Model) openConfirm(kind confirmKind, question string, target model.Path) {
	m.confirm = newConfirm(kind, question, m.theme)
	m.target = target
	m.returnFocus = m.focus
	m.focus = focusConfirm
}

func (m *Model) openHelp() {
	m.returnFocus = m.focus
	m.focus = focusHelp
}

func (m *Model) helpContext() Context {
	switch m.returnFocus {
	case focusEditor:
		return ContextEditor
	case focusDetail:
		return ContextDetail
	}
	return ContextTree
}

// submitPrompt applies a confirmed prompt value
func (m *Model) submitPrompt(kind promptKind, target model.Path, value string) {
	switch kind {
	case promptAddTopic:
		m.addTopic(value)
	case promptRename:
		m.renameItem(target, value)
	case promptAttach:
		m.attachDirectory(target, value)
	case promptPopulate:
		m.populate(target, value)
	case promptAddLink:
		m.addLink(target, value)
	case promptDescription:
		if err := m.editor.SetDescription(m.prompt.index, value); err != nil {
			m.setError(err)
		}
	}
}

// submitConfirm runs a confirmed action
func (m *Model) submitConfirm(kind confirmKind, target model.Path) {
	switch kind {
	case confirmDelete:
		m.deleteItem(target)
	case confirmClearPlaylist:
		m.clearPlaylist(target)
	case confirmDiscardEdits:
		m.closeEditor()
	}
}

func (m *Model) selectedTitle() *TreeNode {
	node := m.tree.SelectedNode()
	if node == nil {
		return nil
	}
	if node.Kind != model.KindTitle {
		m.setError(fmt.Errorf("%w: '%s' is a %s", model.ErrNotTitle, node.Name, node.Kind))
		return nil
	}
	return node
}

func (m *Model) addTopic(name string) {
	after := ""
	if p := m.tree.SelectedPath(); p != nil {
		after = p.Topic()
	}
	path, err := m.lib.AddTopic(name, after)
	m.rebuild(path)
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("Added topic '%s'.", path.Topic()))
}

func (m *Model) addItem(req store.AddRequest) {
	path, err := m.lib.AddItem(req)
	m.rebuild(path)
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("Added %s '%s'.", req.Kind, path.Name()))
}

func (m *Model) renameItem(path model.Path, newName string) {
	renamed, err := m.lib.RenameItem(path, newName)
	if renamed != nil {
		m.tree.RenameKey(path, renamed)
	}
	m.rebuild(renamed)
	if err != nil {
		m.setError(err)
		return
	}
	m.describeSelection()
}

func (m *Model) deleteItem(path model.Path) {
	err := m.lib.DeleteItem(path)
	m.rebuild(nil)
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("Deleted '%s'.", path.Name()))
}

func (m *Model) moveSelected(delta int) {
	path := m.tree.SelectedPath()
	if path == nil {
		return
	}
	moved, err := m.lib.MoveItem(path, delta)
	if err != nil {
		m.setError(err)
		return
	}
	if moved {
		m.rebuild(path)
	}
}

func (m *Model) attachDirectory(path model.Path, dir string) {
	file, err := m.lib.AttachDirectory(path, config.ExpandHome(dir))
	m.rebuild(nil)
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus("Playlist created: " + file)
}

func (m *Model) populate(path model.Path, baseDir string) {
	report, err := m.lib.Populate(path, config.ExpandHome(baseDir))
	m.rebuild(nil)
	if err != nil && report == nil {
		m.setError(err)
		return
	}
	m.report = reportMarkdown(path, report)
	m.updateDetail()
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("Populate: %d created, %d skipped, %d without directory, %d failed.",
		report.Count(store.PopulateCreated), report.Count(store.PopulateSkipped),
		report.Count(store.PopulateNotFound), report.Count(store.PopulateFailed)))
}

func reportMarkdown(path model.Path, report store.PopulateReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Populate %s\n\n", path.Name())
	if len(report) == 0 {
		sb.WriteString("No titles below this node.\n")
	}
	for _, r := range report {
		fmt.Fprintf(&sb, "- %s\n", r.Message())
	}
	return sb.String()
}

func (m *Model) addLink(path model.Path, url string) {
	file, err := m.lib.AddLink(path, url)
	m.rebuild(nil)
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus("Playlist created: " + file)
}

func (m *Model) clearPlaylist(path model.Path) {
	old, err := m.lib.ClearPlaylist(path)
	m.rebuild(nil)
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus("Deleted playlist " + old)
}

func (m *Model) openEditor() {
	node := m.selectedTitle()
	if node == nil {
		return
	}
	if node.Playlist == "" {
		m.setError(fmt.Errorf("no playlist found for '%s'", node.Name))
		return
	}
	entries, err := m.lib.LoadPlaylist(node.Playlist)
	if err != nil {
		m.setError(err)
		return
	}
	m.editor = NewPlaylistEditor(node.Path, node.Playlist, entries, m.theme)
	m.editor.SetSize(m.width, m.bodyHeight())
	m.focus = focusEditor
}

func (m *Model) closeEditor() {
	m.focus = focusTree
	m.editor = PlaylistEditorModel{}
	m.describeSelection()
	m.updateDetail()
}

func (m *Model) savePlaylist(msg PlaylistSaveMsg) {
	if err := m.lib.SavePlaylist(msg.File, msg.Entries); err != nil {
		m.setError(err)
		return
	}
	if m.focus == focusEditor {
		m.editor.MarkSaved()
	}
	m.setStatus("Saved " + msg.File)
}

func (m *Model) copyText(text string) {
	if err := m.copy(text); err != nil {
		m.setError(fmt.Errorf("copy to clipboard: %w", err))
		return
	}
	m.setStatus("Copied " + text)
}

// reload picks up external edits. Silent unless something changed or the
// user asked for it.
func (m *Model) reload(manual bool) {
	res, err := m.lib.Reload()
	if err != nil {
		m.setError(err)
		return
	}
	if !res.Changed() {
		if manual {
			m.setStatus("No changes on disk.")
		}
		return
	}
	m.rebuild(nil)
	switch n := len(res.Topics); {
	case n == 0:
		m.setStatus("Reloaded topic list.")
	case n == 1:
		m.setStatus(fmt.Sprintf("Reloaded '%s' from disk.", res.Topics[0]))
	default:
		m.setStatus(fmt.Sprintf("Reloaded %d topics from disk.", n))
	}
}

// rebuild projects the library into the tree again and optionally moves
// the cursor to reveal
func (m *Model) rebuild(reveal model.Path) {
	if m.watcher != nil {
		// Topics added here or by a reloaded registry may live in new directories
		if err := m.watcher.Track(m.lib.WatchedFiles()); err != nil {
			log.Printf("warning: %v", err)
		}
	}
	m.tree.Build(m.lib.Roots())
	if reveal != nil {
		m.tree.Reveal(reveal)
	}
	m.updateDetail()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.flushErr = m.lib.Flush()
	return m, tea.Quit
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// describeSelection shows the "on select" message for the cursor node
func (m *Model) describeSelection() {
	path := m.tree.SelectedPath()
	if path == nil {
		m.setStatus("")
		return
	}
	sel, err := m.lib.Describe(path)
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus(sel.Message())
}

func (m *Model) bodyHeight() int {
	// header, message area, help line
	if h := m.height - 3; h > 0 {
		return h
	}
	return 0
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.ready = true
	m.isSplitView = width > SplitViewThreshold
	if !m.isSplitView && m.focus == focusDetail {
		m.focus = focusTree
	}

	body := m.bodyHeight()
	treeWidth := width
	if m.isSplitView {
		treeWidth = int(float64(width) * 0.4)
		detailWidth := width - treeWidth
		m.viewport.Width = detailWidth - 4
		m.viewport.Height = body - 2
		m.renderer = m.newRenderer(m.viewport.Width)
	}
	m.tree.SetSize(treeWidth-4, body-2)
	m.editor.SetSize(width, body)
	m.prompt.SetWidth(width)
	m.help.Width = width
	m.updateDetail()
}

func (m *Model) newRenderer(width int) *glamour.TermRenderer {
	style := glamour.WithAutoStyle()
	if m.markdownStyle != "" {
		style = glamour.WithStandardStyle(m.markdownStyle)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil
	}
	return r
}

// detailMarkdown describes the selection, or the last populate report
func (m *Model) detailMarkdown() string {
	if m.report != "" {
		return m.report
	}
	path := m.tree.SelectedPath()
	if path == nil {
		return "# vidnav\n\nThe library is empty. Press `A` to add a topic.\n"
	}
	node, err := m.lib.Lookup(path)
	if err != nil {
		return fmt.Sprintf("> %v\n", err)
	}
	var playlist model.Playlist
	var loadErr error
	if node.HasPlaylist() {
		playlist, loadErr = m.lib.LoadPlaylist(node.Playlist)
	}
	return export.SelectionMarkdown(path, node, playlist, loadErr)
}

func (m *Model) updateDetail() {
	if !m.isSplitView {
		return
	}
	md := m.detailMarkdown()
	if m.renderer == nil {
		m.viewport.SetContent(md)
		return
	}
	rendered, err := m.renderer.Render(md)
	if err != nil {
		m.viewport.SetContent(fmt.Sprintf("Error rendering markdown: %v", err))
		return
	}
	m.viewport.SetContent(rendered)
	m.viewport.GotoTop()
}

// View renders the application
func (m Model) View() string {
	if !m.ready {
		return "Loading library..."
	}

	header := m.renderHeader()
	body := m.renderBody()
	switch m.focus {
	case focusPrompt:
		body = m.overlay(m.prompt.View())
	case focusConfirm:
		body = m.overlay(m.confirm.View())
	case focusForm:
		body = m.overlay(m.theme.Renderer.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(m.theme.Primary).
			Padding(1, 2).
			Render(m.form.View()))
	case focusHelp:
		full := m.keys.FullHelp()
		if m.returnFocus == focusEditor {
			full = m.editor.keys.FullHelp()
		}
		body = m.overlay(RenderContextHelp(m.helpContext(), m.theme, m.width, m.bodyHeight()) +
			"\n" + m.help.FullHelpView(full))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderStatus(), m.renderHelpLine())
}

func (m Model) overlay(box string) string {
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderHeader() string {
	r := m.theme.Renderer
	title := r.NewStyle().Foreground(m.theme.Primary).Bold(true).Render("vidnav")
	dir := r.NewStyle().Foreground(m.theme.Muted).Render(m.lib.Dir())
	marker := ""
	if m.lib.Unsaved() {
		marker = r.NewStyle().Foreground(m.theme.Warning).Render("  [unsaved]")
	}
	return title + "  " + dir + marker
}

func (m Model) renderBody() string {
	if m.focus == focusEditor {
		return m.editor.View()
	}

	r := m.theme.Renderer
	panel := func(focused bool) lipgloss.Style {
		color := m.theme.Border
		if focused {
			color = m.theme.Primary
		}
		return r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(color)
	}

	body := m.bodyHeight() - 2
	if body < 1 {
		body = 1
	}
	if !m.isSplitView {
		return panel(true).Width(m.width - 2).Height(body).Render(m.tree.View())
	}
	treeWidth := int(float64(m.width) * 0.4)
	treeView := panel(m.focus != focusDetail).Width(treeWidth - 2).Height(body).Render(m.tree.View())
	detailView := panel(m.focus == focusDetail).Width(m.width - treeWidth - 2).Height(body).Render(m.viewport.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, treeView, detailView)
}

func (m Model) renderStatus() string {
	r := m.theme.Renderer
	style := r.NewStyle().Foreground(m.theme.Subtext)
	if m.statusErr {
		style = r.NewStyle().Foreground(m.theme.Error)
	}
	return style.Render(truncateRunes(m.status, maxInt(m.width, 20)))
}

func (m Model) renderHelpLine() string {
	if m.focus == focusEditor {
		return m.help.ShortHelpView(m.editor.keys.ShortHelp())
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

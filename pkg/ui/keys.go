package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings of the tree view
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Top         key.Binding
	Bottom      key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Expand      key.Binding
	Collapse    key.Binding
	Toggle      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding

	Add      key.Binding
	AddTopic key.Binding
	Rename   key.Binding
	Delete   key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding

	Attach   key.Binding
	Populate key.Binding
	AddLink  key.Binding
	Clear    key.Binding
	Edit     key.Binding
	Copy     key.Binding

	Focus  key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the tree view bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Top:         key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		PageUp:      key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("ctrl+u", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("ctrl+d", "page down")),
		Expand:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "expand")),
		Collapse:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "collapse")),
		Toggle:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "toggle/open")),
		ExpandAll:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "collapse all")),

		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add item")),
		AddTopic: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "add topic")),
		Rename:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Delete:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		MoveUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		MoveDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),

		Attach:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "playlist from dir")),
		Populate: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "populate")),
		AddLink:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "add link")),
		Clear:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete playlist")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit playlist")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy path")),

		Focus:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus detail")),
		Reload: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is shown in the footer
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.Rename, k.Delete, k.Edit, k.Help, k.Quit}
}

// FullHelp is shown in the help overlay
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.Expand, k.Collapse, k.Toggle, k.ExpandAll, k.CollapseAll},
		{k.Add, k.AddTopic, k.Rename, k.Delete, k.MoveUp, k.MoveDown},
		{k.Attach, k.Populate, k.AddLink, k.Clear, k.Edit, k.Copy},
		{k.Focus, k.Reload, k.Help, k.Quit},
	}
}

// EditorKeyMap holds the bindings of the playlist editor
type EditorKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Delete   key.Binding
	Describe key.Binding
	Copy     key.Binding
	Save     key.Binding
	Close    key.Binding
}

// DefaultEditorKeyMap returns the playlist editor bindings
func DefaultEditorKeyMap() EditorKeyMap {
	return EditorKeyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Select:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		MoveUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		MoveDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		Delete:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Describe: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit description")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy url")),
		Save:     key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Close:    key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "close")),
	}
}

// ShortHelp is shown in the editor footer
func (k EditorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.MoveUp, k.MoveDown, k.Delete, k.Describe, k.Copy, k.Save, k.Close}
}

// FullHelp is shown in the help overlay
func (k EditorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.MoveUp, k.MoveDown, k.Delete, k.Describe},
		{k.Copy, k.Save, k.Close},
	}
}

// tree.go - topic/subtopic/title tree, a projection of the library rebuilt
// after every change
package ui

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/vidnav/pkg/model"
)

// TreeState is the persisted expand/collapse state of the tree view, saved
// to <library>/.vidnav/tree-state.json.
//
// File format (JSON):
//
//	{
//	  "version": 1,
//	  "expanded": {
//	    "Go/Concurrency": true,   // explicitly expanded
//	    "Rust": false             // explicitly collapsed
//	  }
//	}
//
// Only values that differ from the default expansion are stored. Keys are
// path keys, so they survive moves; renames remap them. A corrupt or
// missing file means defaults.
type TreeState struct {
	Version  int             `json:"version"`
	Expanded map[string]bool `json:"expanded"`
}

// TreeStateVersion is the current schema version for tree persistence
const TreeStateVersion = 1

// DefaultTreeState returns an empty state
func DefaultTreeState() *TreeState {
	return &TreeState{
		Version:  TreeStateVersion,
		Expanded: make(map[string]bool),
	}
}

const treeStateFileName = "tree-state.json"

// TreeStatePath returns the tree state file inside stateDir
func TreeStatePath(stateDir string) string {
	return filepath.Join(stateDir, treeStateFileName)
}

// ExpansionState maps the path key of every container to whether it is
// expanded. It is captured before a rebuild and restored after it.
type ExpansionState map[string]bool

// TreeNode is one row of the tree view
type TreeNode struct {
	Path     model.Path
	Key      string
	Name     string
	Kind     model.Kind
	Playlist string
	Children []*TreeNode
	Expanded bool
	Depth    int // 0 for topics
	Parent   *TreeNode
}

// IsContainer reports whether the node can hold children
func (n *TreeNode) IsContainer() bool {
	return n.Kind != model.KindTitle
}

// TreeModel manages the tree view state
type TreeModel struct {
	roots          []*TreeNode
	flatList       []*TreeNode // visible nodes in display order
	nodeMap        map[string]*TreeNode
	cursor         int
	theme          Theme
	width          int
	height         int
	viewportOffset int
	expandDepth    int // containers shallower than this start expanded

	built    bool
	stateDir string // empty disables persistence
}

// NewTreeModel creates an empty tree model
func NewTreeModel(theme Theme) TreeModel {
	return TreeModel{
		theme:       theme,
		nodeMap:     make(map[string]*TreeNode),
		expandDepth: 1,
	}
}

// SetStateDir sets where tree-state.json lives. Call before Build.
func (t *TreeModel) SetStateDir(dir string) {
	t.stateDir = dir
}

// SetExpandDepth sets the default expansion depth: 0 collapses everything,
// 1 expands topics, 2 also expands their subtopics.
func (t *TreeModel) SetExpandDepth(depth int) {
	if depth < 0 {
		depth = 0
	}
	t.expandDepth = depth
}

// SetSize updates the available dimensions
func (t *TreeModel) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.ensureCursorVisible()
}

// Build replaces the projection with the given topic roots. On the first
// build the persisted state is loaded; afterwards expansion and the
// selection carry over by path key.
func (t *TreeModel) Build(roots []*model.Node) {
	selected := t.SelectedKey()
	var state ExpansionState
	if t.built {
		state = t.CaptureExpansion()
	}

	t.roots = nil
	t.nodeMap = make(map[string]*TreeNode)
	for _, root := range roots {
		t.roots = append(t.roots, t.buildNode(root, model.Path{root.Name}, 0, nil))
	}

	if t.built {
		t.applyExpansion(state)
	} else {
		t.loadState()
	}
	t.rebuildFlatList()
	if selected != "" {
		t.SelectByKey(selected)
	}
	t.built = true
	t.ensureCursorVisible()
}

func (t *TreeModel) buildNode(n *model.Node, path model.Path, depth int, parent *TreeNode) *TreeNode {
	node := &TreeNode{
		Path:     path,
		Key:      path.Key(),
		Name:     n.Name,
		Kind:     n.Kind,
		Playlist: n.Playlist,
		Depth:    depth,
		Parent:   parent,
	}
	node.Expanded = node.IsContainer() && t.defaultExpanded(node)
	t.nodeMap[node.Key] = node
	for _, c := range n.Children {
		node.Children = append(node.Children, t.buildNode(c, path.Child(c.Name), depth+1, node))
	}
	return node
}

func (t *TreeModel) defaultExpanded(node *TreeNode) bool {
	return node.Depth < t.expandDepth
}

// CaptureExpansion records the expansion of every container by path key
func (t *TreeModel) CaptureExpansion() ExpansionState {
	state := make(ExpansionState, len(t.nodeMap))
	for key, node := range t.nodeMap {
		if node.IsContainer() {
			state[key] = node.Expanded
		}
	}
	return state
}

// RestoreExpansion applies a captured state. Containers missing from it
// keep their default; keys of nodes that no longer exist are ignored.
func (t *TreeModel) RestoreExpansion(state ExpansionState) {
	t.applyExpansion(state)
	t.rebuildFlatList()
}

func (t *TreeModel) applyExpansion(state map[string]bool) {
	for key, expanded := range state {
		if node, ok := t.nodeMap[key]; ok && node.IsContainer() {
			node.Expanded = expanded
		}
	}
}

// RenameKey moves the remembered state of the node at oldPath and its
// descendants to newPath. Call it right after a rename and before the next
// Build so expansion and the selection follow the renamed node.
func (t *TreeModel) RenameKey(oldPath, newPath model.Path) {
	node, ok := t.nodeMap[oldPath.Key()]
	if !ok || oldPath.Equal(newPath) {
		return
	}
	var remap func(n *TreeNode, path model.Path)
	remap = func(n *TreeNode, path model.Path) {
		delete(t.nodeMap, n.Key)
		n.Path = path
		n.Key = path.Key()
		n.Name = path.Name()
		t.nodeMap[n.Key] = n
		for _, c := range n.Children {
			remap(c, path.Child(c.Name))
		}
	}
	remap(node, newPath)
	t.saveState()
}

// Reveal expands every ancestor of path and selects it. It reports false
// when path is not in the tree.
func (t *TreeModel) Reveal(path model.Path) bool {
	node, ok := t.nodeMap[path.Key()]
	if !ok {
		return false
	}
	changed := false
	for p := node.Parent; p != nil; p = p.Parent {
		if !p.Expanded {
			p.Expanded = true
			changed = true
		}
	}
	if changed {
		t.rebuildFlatList()
		t.saveState()
	}
	return t.SelectByKey(node.Key)
}

// saveState persists the expansion values that differ from the default.
// Errors are logged and otherwise ignored.
func (t *TreeModel) saveState() {
	if t.stateDir == "" {
		return
	}
	state := DefaultTreeState()
	for key, node := range t.nodeMap {
		if node.IsContainer() && node.Expanded != t.defaultExpanded(node) {
			state.Expanded[key] = node.Expanded
		}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Printf("warning: failed to marshal tree state: %v", err)
		return
	}
	if err := os.MkdirAll(t.stateDir, 0755); err != nil {
		log.Printf("warning: failed to create state directory %s: %v", t.stateDir, err)
		return
	}
	path := TreeStatePath(t.stateDir)
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("warning: failed to write tree state to %s: %v", path, err)
	}
}

// loadState applies the persisted state, if any
func (t *TreeModel) loadState() {
	if t.stateDir == "" {
		return
	}
	data, err := os.ReadFile(TreeStatePath(t.stateDir))
	if err != nil {
		return
	}
	var state TreeState
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("warning: invalid tree state file, using defaults: %v", err)
		return
	}
	t.applyExpansion(state.Expanded)
}

// View renders the visible rows
func (t *TreeModel) View() string {
	if !t.built || len(t.flatList) == 0 {
		return t.renderEmptyState()
	}

	var sb strings.Builder
	start, end := t.visibleRange()
	for i := start; i < end; i++ {
		line := t.renderNode(t.flatList[i])
		if i == t.cursor {
			line = t.theme.Selected.Render(line)
		}
		sb.WriteString(line)
		if i < end-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (t *TreeModel) renderEmptyState() string {
	r := t.theme.Renderer
	titleStyle := r.NewStyle().Foreground(t.theme.Primary).Bold(true)
	mutedStyle := r.NewStyle().Foreground(t.theme.Muted)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("No topics yet"))
	sb.WriteString("\n\n")
	sb.WriteString(mutedStyle.Render("Press A to add a topic, ? for help."))
	return sb.String()
}

func (t *TreeModel) renderNode(node *TreeNode) string {
	r := t.theme.Renderer
	var sb strings.Builder

	prefix := t.buildTreePrefix(node)
	sb.WriteString(prefix)

	indicatorStyle := r.NewStyle().Foreground(t.theme.Secondary)
	sb.WriteString(indicatorStyle.Render(t.getExpandIndicator(node)))
	sb.WriteString(" ")

	icon, color := t.theme.KindIcon(node.Kind, node.Playlist != "")
	sb.WriteString(r.NewStyle().Foreground(color).Render(icon))
	sb.WriteString(" ")

	suffix := ""
	if node.IsContainer() && !node.Expanded && len(node.Children) > 0 {
		suffix = fmt.Sprintf(" (%d)", len(node.Children))
	}

	maxName := t.width - node.Depth*4 - 4 - len(suffix)
	if maxName < 10 {
		maxName = 10
	}
	name := truncateRunes(node.Name, maxName)
	if node.Kind == model.KindTopic {
		name = r.NewStyle().Bold(true).Render(name)
	}
	sb.WriteString(name)
	if suffix != "" {
		sb.WriteString(r.NewStyle().Foreground(t.theme.Muted).Render(suffix))
	}
	return sb.String()
}

// truncateRunes shortens s to at most width terminal cells
func truncateRunes(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

func (t *TreeModel) buildTreePrefix(node *TreeNode) string {
	if node.Depth == 0 {
		return ""
	}
	var parts []string
	var ancestors []*TreeNode
	for p := node.Parent; p != nil && p.Depth > 0; p = p.Parent {
		ancestors = append([]*TreeNode{p}, ancestors...)
	}
	for _, a := range ancestors {
		if t.isLastChild(a) {
			parts = append(parts, "    ")
		} else {
			parts = append(parts, "│   ")
		}
	}
	if t.isLastChild(node) {
		parts = append(parts, "└── ")
	} else {
		parts = append(parts, "├── ")
	}
	return t.theme.Renderer.NewStyle().Foreground(t.theme.Muted).Render(strings.Join(parts, ""))
}

func (t *TreeModel) isLastChild(node *TreeNode) bool {
	siblings := t.roots
	if node.Parent != nil {
		siblings = node.Parent.Children
	}
	return len(siblings) > 0 && siblings[len(siblings)-1] == node
}

func (t *TreeModel) getExpandIndicator(node *TreeNode) string {
	if !node.IsContainer() || len(node.Children) == 0 {
		return "•"
	}
	if node.Expanded {
		return "▾"
	}
	return "▸"
}

// SelectedNode returns the node under the cursor, or nil
func (t *TreeModel) SelectedNode() *TreeNode {
	if t.cursor >= 0 && t.cursor < len(t.flatList) {
		return t.flatList[t.cursor]
	}
	return nil
}

// SelectedPath returns the path of the node under the cursor, or nil
func (t *TreeModel) SelectedPath() model.Path {
	if n := t.SelectedNode(); n != nil {
		return n.Path
	}
	return nil
}

// SelectedKey returns the path key under the cursor, or ""
func (t *TreeModel) SelectedKey() string {
	if n := t.SelectedNode(); n != nil {
		return n.Key
	}
	return ""
}

// SelectByKey moves the cursor to the visible node with the given key
func (t *TreeModel) SelectByKey(key string) bool {
	for i, node := range t.flatList {
		if node.Key == key {
			t.cursor = i
			t.ensureCursorVisible()
			return true
		}
	}
	return false
}

// Node returns the node with the given key, visible or not
func (t *TreeModel) Node(key string) (*TreeNode, bool) {
	n, ok := t.nodeMap[key]
	return n, ok
}

// MoveDown moves the cursor down one row
func (t *TreeModel) MoveDown() {
	if t.cursor < len(t.flatList)-1 {
		t.cursor++
	}
	t.ensureCursorVisible()
}

// MoveUp moves the cursor up one row
func (t *TreeModel) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
	}
	t.ensureCursorVisible()
}

// ToggleExpand expands or collapses the selected container
func (t *TreeModel) ToggleExpand() {
	node := t.SelectedNode()
	if node != nil && len(node.Children) > 0 {
		node.Expanded = !node.Expanded
		t.rebuildFlatList()
		t.saveState()
	}
}

// ExpandAll expands every container
func (t *TreeModel) ExpandAll() {
	t.setAll(true)
}

// CollapseAll collapses every container
func (t *TreeModel) CollapseAll() {
	t.setAll(false)
}

func (t *TreeModel) setAll(expanded bool) {
	key := t.SelectedKey()
	for _, node := range t.nodeMap {
		if node.IsContainer() {
			node.Expanded = expanded
		}
	}
	t.rebuildFlatList()
	if !t.SelectByKey(key) {
		// The selection is hidden now; select its topic
		if n, ok := t.nodeMap[key]; ok {
			t.SelectByKey(model.Path{n.Path.Topic()}.Key())
		}
	}
	t.saveState()
}

// JumpToTop moves the cursor to the first row
func (t *TreeModel) JumpToTop() {
	t.cursor = 0
	t.ensureCursorVisible()
}

// JumpToBottom moves the cursor to the last row
func (t *TreeModel) JumpToBottom() {
	if len(t.flatList) > 0 {
		t.cursor = len(t.flatList) - 1
	}
	t.ensureCursorVisible()
}

// JumpToParent moves the cursor to the parent of the selection
func (t *TreeModel) JumpToParent() {
	node := t.SelectedNode()
	if node == nil || node.Parent == nil {
		return
	}
	t.SelectByKey(node.Parent.Key)
}

// ExpandOrMoveToChild expands a collapsed container, or moves into an
// expanded one
func (t *TreeModel) ExpandOrMoveToChild() {
	node := t.SelectedNode()
	if node == nil || len(node.Children) == 0 {
		return
	}
	if !node.Expanded {
		node.Expanded = true
		t.rebuildFlatList()
		t.saveState()
		return
	}
	t.SelectByKey(node.Children[0].Key)
}

// CollapseOrJumpToParent collapses an expanded container, otherwise jumps
// to the parent
func (t *TreeModel) CollapseOrJumpToParent() {
	node := t.SelectedNode()
	if node == nil {
		return
	}
	if len(node.Children) > 0 && node.Expanded {
		node.Expanded = false
		t.rebuildFlatList()
		t.saveState()
		return
	}
	t.JumpToParent()
}

// PageDown moves the cursor down by half a page
func (t *TreeModel) PageDown() {
	t.cursor += t.pageSize()
	if t.cursor >= len(t.flatList) {
		t.cursor = len(t.flatList) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureCursorVisible()
}

// PageUp moves the cursor up by half a page
func (t *TreeModel) PageUp() {
	t.cursor -= t.pageSize()
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureCursorVisible()
}

func (t *TreeModel) pageSize() int {
	if size := t.height / 2; size >= 1 {
		return size
	}
	return 5
}

func (t *TreeModel) visibleCount() int {
	if t.height <= 0 {
		return 20
	}
	return t.height
}

// visibleRange returns the [start, end) rows shown in the viewport
func (t *TreeModel) visibleRange() (start, end int) {
	if len(t.flatList) == 0 {
		return 0, 0
	}
	start = t.viewportOffset
	end = start + t.visibleCount()
	if end > len(t.flatList) {
		end = len(t.flatList)
		start = end - t.visibleCount()
	}
	if start < 0 {
		start = 0
	}
	return start, end
}

// ensureCursorVisible scrolls the viewport so the cursor row is shown
func (t *TreeModel) ensureCursorVisible() {
	visible := t.visibleCount()
	if t.cursor < t.viewportOffset {
		t.viewportOffset = t.cursor
	}
	if t.cursor >= t.viewportOffset+visible {
		t.viewportOffset = t.cursor - visible + 1
	}
	if t.viewportOffset < 0 {
		t.viewportOffset = 0
	}
}

func (t *TreeModel) rebuildFlatList() {
	t.flatList = t.flatList[:0]
	for _, root := range t.roots {
		t.appendVisible(root)
	}
	if t.cursor >= len(t.flatList) {
		t.cursor = len(t.flatList) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

func (t *TreeModel) appendVisible(node *TreeNode) {
	t.flatList = append(t.flatList, node)
	if node.Expanded {
		for _, child := range node.Children {
			t.appendVisible(child)
		}
	}
}

// IsBuilt returns whether the tree has been built
func (t *TreeModel) IsBuilt() bool {
	return t.built
}

// NodeCount returns the number of visible rows
func (t *TreeModel) NodeCount() int {
	return len(t.flatList)
}

// RootCount returns the number of topics
func (t *TreeModel) RootCount() int {
	return len(t.roots)
}

// VisibleKeys returns the path keys of the visible rows in order
func (t *TreeModel) VisibleKeys() []string {
	keys := make([]string, len(t.flatList))
	for i, n := range t.flatList {
		keys[i] = n.Key
	}
	return keys
}

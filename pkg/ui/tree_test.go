package ui

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/vidnav/pkg/model"
)

func newTreeTestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(io.Discard))
}

func testRoots(t *testing.T) []*model.Node {
	t.Helper()
	goTopic, err := model.DecodeTopic("Go", []byte(`{
		"Basics": {"Intro": "p/intro.json", "Types": ""},
		"Concurrency": {"Channels": ""},
		"Tools": ""
	}`))
	if err != nil {
		t.Fatal(err)
	}
	rust, err := model.DecodeTopic("Rust", []byte(`{"Ownership": ""}`))
	if err != nil {
		t.Fatal(err)
	}
	return []*model.Node{goTopic, rust}
}

func newTestTree(t *testing.T) (TreeModel, []*model.Node) {
	t.Helper()
	roots := testRoots(t)
	tree := NewTreeModel(newTreeTestTheme())
	tree.Build(roots)
	return tree, roots
}

func assertVisible(t *testing.T, tree *TreeModel, want ...string) {
	t.Helper()
	got := tree.VisibleKeys()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("visible = %v\nwant      %v", got, want)
	}
}

func TestTreeBuildEmpty(t *testing.T) {
	tree := NewTreeModel(newTreeTestTheme())
	tree.Build(nil)

	if !tree.IsBuilt() {
		t.Error("expected tree to be marked as built")
	}
	if tree.RootCount() != 0 || tree.NodeCount() != 0 {
		t.Errorf("expected empty tree, got %d roots %d rows", tree.RootCount(), tree.NodeCount())
	}
	if tree.SelectedNode() != nil || tree.SelectedPath() != nil {
		t.Error("empty tree should have no selection")
	}
	if !strings.Contains(tree.View(), "No topics yet") {
		t.Errorf("unexpected empty view: %q", tree.View())
	}
}

func TestTreeBuildDefaultExpansion(t *testing.T) {
	tree, _ := newTestTree(t)
	if tree.RootCount() != 2 {
		t.Errorf("expected 2 roots, got %d", tree.RootCount())
	}
	assertVisible(t, &tree, "Go", "Go/Basics", "Go/Concurrency", "Go/Tools", "Rust", "Rust/Ownership")

	node, ok := tree.Node("Go/Basics/Intro")
	if !ok || node.Kind != model.KindTitle || node.Playlist != "p/intro.json" || node.Depth != 2 {
		t.Errorf("Intro node = %+v", node)
	}
	if node.Parent == nil || node.Parent.Key != "Go/Basics" {
		t.Error("parent link missing")
	}
}

func TestTreeExpandDepth(t *testing.T) {
	roots := testRoots(t)
	tests := []struct {
		depth int
		rows  int
	}{
		{-1, 2},
		{0, 2},
		{1, 6},
		{2, 9},
	}
	for _, tt := range tests {
		tree := NewTreeModel(newTreeTestTheme())
		tree.SetExpandDepth(tt.depth)
		tree.Build(roots)
		if tree.NodeCount() != tt.rows {
			t.Errorf("depth %d: %d rows, want %d", tt.depth, tree.NodeCount(), tt.rows)
		}
	}
}

func TestTreeNavigation(t *testing.T) {
	tree, _ := newTestTree(t)

	tree.MoveUp()
	if tree.SelectedKey() != "Go" {
		t.Errorf("MoveUp at top moved to %s", tree.SelectedKey())
	}
	tree.MoveDown()
	tree.MoveDown()
	if tree.SelectedKey() != "Go/Concurrency" {
		t.Errorf("selected %s", tree.SelectedKey())
	}
	tree.JumpToBottom()
	if tree.SelectedKey() != "Rust/Ownership" {
		t.Errorf("JumpToBottom selected %s", tree.SelectedKey())
	}
	tree.MoveDown()
	if tree.SelectedKey() != "Rust/Ownership" {
		t.Error("MoveDown past the end should stay put")
	}
	tree.JumpToParent()
	if tree.SelectedKey() != "Rust" {
		t.Errorf("JumpToParent selected %s", tree.SelectedKey())
	}
	tree.JumpToParent()
	if tree.SelectedKey() != "Rust" {
		t.Error("JumpToParent on a topic should do nothing")
	}
	tree.JumpToTop()
	if !tree.SelectedPath().Equal(model.Path{"Go"}) {
		t.Errorf("JumpToTop selected %v", tree.SelectedPath())
	}
}

func TestTreeToggleExpand(t *testing.T) {
	tree, _ := newTestTree(t)
	tree.SelectByKey("Go/Basics")
	tree.ToggleExpand()
	assertVisible(t, &tree, "Go", "Go/Basics", "Go/Basics/Intro", "Go/Basics/Types", "Go/Concurrency", "Go/Tools", "Rust", "Rust/Ownership")

	tree.ToggleExpand()
	if tree.NodeCount() != 6 {
		t.Errorf("collapse left %d rows", tree.NodeCount())
	}

	// Titles have nothing to toggle
	tree.SelectByKey("Go/Tools")
	tree.ToggleExpand()
	if tree.NodeCount() != 6 {
		t.Error("toggling a title changed the tree")
	}
}

func TestTreeExpandOrMoveToChild(t *testing.T) {
	tree, _ := newTestTree(t)
	tree.SelectByKey("Go/Concurrency")

	tree.ExpandOrMoveToChild()
	if tree.SelectedKey() != "Go/Concurrency" || tree.NodeCount() != 7 {
		t.Fatalf("first press should expand: %s, %d rows", tree.SelectedKey(), tree.NodeCount())
	}
	tree.ExpandOrMoveToChild()
	if tree.SelectedKey() != "Go/Concurrency/Channels" {
		t.Errorf("second press should enter: %s", tree.SelectedKey())
	}
	tree.ExpandOrMoveToChild()
	if tree.SelectedKey() != "Go/Concurrency/Channels" {
		t.Error("leaf should not move")
	}
}

func TestTreeCollapseOrJumpToParent(t *testing.T) {
	tree, _ := newTestTree(t)
	tree.SelectByKey("Go/Tools")

	tree.CollapseOrJumpToParent()
	if tree.SelectedKey() != "Go" {
		t.Fatalf("leaf should jump to parent, at %s", tree.SelectedKey())
	}
	tree.CollapseOrJumpToParent()
	if tree.SelectedKey() != "Go" || tree.NodeCount() != 3 {
		t.Errorf("expanded topic should collapse: %s, %d rows", tree.SelectedKey(), tree.NodeCount())
	}
}

func TestTreeExpandAllCollapseAll(t *testing.T) {
	tree, _ := newTestTree(t)
	tree.ExpandAll()
	if tree.NodeCount() != 9 {
		t.Errorf("ExpandAll shows %d rows", tree.NodeCount())
	}
	tree.SelectByKey("Go/Basics/Types")
	tree.CollapseAll()
	assertVisible(t, &tree, "Go", "Rust")
	if tree.SelectedKey() != "Go" {
		t.Errorf("hidden selection should fall back to its topic, got %s", tree.SelectedKey())
	}
}

func TestTreeRebuildKeepsExpansionAndCursor(t *testing.T) {
	tree, roots := newTestTree(t)
	tree.SelectByKey("Go/Basics")
	tree.ToggleExpand()
	tree.SelectByKey("Go/Basics/Types")

	if _, err := model.InsertInsidePath(roots[0], model.Path{"Go", "Concurrency"}, "Mutexes", model.KindTitle); err != nil {
		t.Fatal(err)
	}
	tree.Build(roots)

	if tree.SelectedKey() != "Go/Basics/Types" {
		t.Errorf("cursor moved to %s", tree.SelectedKey())
	}
	if n, _ := tree.Node("Go/Basics"); !n.Expanded {
		t.Error("expansion lost on rebuild")
	}
	if n, _ := tree.Node("Go/Concurrency/Mutexes"); n == nil {
		t.Error("new node missing after rebuild")
	}
}

func TestTreeRebuildKeepsSlashNamedNode(t *testing.T) {
	music, err := model.DecodeTopic("Music", []byte(`{"AC": {"DC": {"Live": ""}}, "AC/DC": {"Back in Black": ""}}`))
	if err != nil {
		t.Fatal(err)
	}
	roots := []*model.Node{music}
	tree := NewTreeModel(newTreeTestTheme())
	tree.SetExpandDepth(2)
	tree.Build(roots)

	slashed := model.Path{"Music", "AC/DC"}
	if !tree.SelectByKey(slashed.Key()) {
		t.Fatalf("%s not visible", slashed.Key())
	}
	tree.Build(roots)

	if got := tree.SelectedPath(); !got.Equal(slashed) {
		t.Errorf("selection after rebuild = %q, want %q", []string(got), []string(slashed))
	}
	if n, ok := tree.Node(model.Path{"Music", "AC", "DC"}.Key()); !ok || n.Name != "DC" {
		t.Errorf("nested AC/DC node = %+v", n)
	}
}

func TestTreeRebuildAfterDeleteClampsCursor(t *testing.T) {
	tree, roots := newTestTree(t)
	tree.JumpToBottom()
	if err := model.RemovePath(roots[1], model.Path{"Rust", "Ownership"}); err != nil {
		t.Fatal(err)
	}
	tree.Build(roots)
	if tree.SelectedKey() != "Rust" {
		t.Errorf("cursor = %s, want Rust", tree.SelectedKey())
	}
}

func TestTreeRenameKeepsExpansion(t *testing.T) {
	tree, roots := newTestTree(t)
	tree.SelectByKey("Go/Basics")
	tree.ToggleExpand()

	oldPath := model.Path{"Go", "Basics"}
	newPath, err := model.Rename(roots[0], oldPath, "Fundamentals")
	if err != nil {
		t.Fatal(err)
	}
	tree.RenameKey(oldPath, newPath)
	tree.Build(roots)

	if tree.SelectedKey() != "Go/Fundamentals" {
		t.Errorf("selection = %s", tree.SelectedKey())
	}
	n, ok := tree.Node("Go/Fundamentals")
	if !ok || !n.Expanded {
		t.Error("renamed subtopic lost its expansion")
	}
	if _, ok := tree.Node("Go/Fundamentals/Intro"); !ok {
		t.Error("descendants not rebuilt under the new key")
	}
}

func TestTreeMoveKeepsExpansion(t *testing.T) {
	tree, roots := newTestTree(t)
	tree.SelectByKey("Go/Concurrency")
	tree.ToggleExpand()

	moved, err := model.Move(roots[0], model.Path{"Go", "Concurrency"}, -1)
	if err != nil || !moved {
		t.Fatalf("Move = %v, %v", moved, err)
	}
	tree.Build(roots)

	assertVisible(t, &tree, "Go", "Go/Concurrency", "Go/Concurrency/Channels", "Go/Basics", "Go/Tools", "Rust", "Rust/Ownership")
	if tree.SelectedKey() != "Go/Concurrency" {
		t.Errorf("selection = %s", tree.SelectedKey())
	}
}

func TestCaptureRestoreExpansion(t *testing.T) {
	tree, _ := newTestTree(t)
	tree.SelectByKey("Go/Basics")
	tree.ToggleExpand()
	before := tree.VisibleKeys()

	state := tree.CaptureExpansion()
	if _, ok := state["Go/Basics/Intro"]; ok {
		t.Error("titles must not be captured")
	}
	if !state["Go/Basics"] || state["Go/Concurrency"] {
		t.Errorf("state = %v", state)
	}

	tree.CollapseAll()
	tree.RestoreExpansion(state)
	if strings.Join(tree.VisibleKeys(), ",") != strings.Join(before, ",") {
		t.Errorf("restore gave %v, want %v", tree.VisibleKeys(), before)
	}

	// Unknown keys are ignored
	tree.RestoreExpansion(ExpansionState{"Nope/Gone": true})
}

func TestTreeReveal(t *testing.T) {
	tree, _ := newTestTree(t)
	tree.SetExpandDepth(0)
	if !tree.Reveal(model.Path{"Go", "Concurrency", "Channels"}) {
		t.Fatal("Reveal failed")
	}
	if tree.SelectedKey() != "Go/Concurrency/Channels" {
		t.Errorf("selection = %s", tree.SelectedKey())
	}
	if tree.Reveal(model.Path{"Go", "Missing"}) {
		t.Error("Reveal of a missing path should fail")
	}
}

func TestTreeStatePath(t *testing.T) {
	if got := TreeStatePath(filepath.Join("lib", ".vidnav")); got != filepath.Join("lib", ".vidnav", "tree-state.json") {
		t.Errorf("TreeStatePath = %s", got)
	}
	if s := DefaultTreeState(); s.Version != TreeStateVersion || s.Expanded == nil {
		t.Errorf("DefaultTreeState = %+v", s)
	}
}

func TestSaveStateOnlyNonDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".vidnav")
	tree := NewTreeModel(newTreeTestTheme())
	tree.SetStateDir(dir)
	tree.Build(testRoots(t))

	tree.SelectByKey("Go/Basics")
	tree.ToggleExpand()
	tree.SelectByKey("Rust")
	tree.ToggleExpand()

	data, err := os.ReadFile(TreeStatePath(dir))
	if err != nil {
		t.Fatalf("state not written: %v", err)
	}
	var state TreeState
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatal(err)
	}
	if state.Version != TreeStateVersion {
		t.Errorf("version = %d", state.Version)
	}
	want := map[string]bool{"Go/Basics": true, "Rust": false}
	if len(state.Expanded) != len(want) {
		t.Errorf("expanded = %v, want %v", state.Expanded, want)
	}
	for k, v := range want {
		if got, ok := state.Expanded[k]; !ok || got != v {
			t.Errorf("expanded[%s] = %v, %v", k, got, ok)
		}
	}
}

func TestLoadState(t *testing.T) {
	dir := t.TempDir()
	content := `{"version": 1, "expanded": {"Go": false, "Rust": true, "Go/Concurrency": true, "Stale/Key": true}}`
	if err := os.WriteFile(TreeStatePath(dir), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tree := NewTreeModel(newTreeTestTheme())
	tree.SetStateDir(dir)
	tree.Build(testRoots(t))
	assertVisible(t, &tree, "Go", "Rust", "Rust/Ownership")

	tree.SelectByKey("Go")
	tree.ToggleExpand()
	assertVisible(t, &tree, "Go", "Go/Basics", "Go/Concurrency", "Go/Concurrency/Channels", "Go/Tools", "Rust", "Rust/Ownership")
}

func TestLoadStateMissingOrCorrupted(t *testing.T) {
	for _, content := range []string{"", "{not json"} {
		dir := t.TempDir()
		if content != "" {
			if err := os.WriteFile(TreeStatePath(dir), []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
		}
		tree := NewTreeModel(newTreeTestTheme())
		tree.SetStateDir(dir)
		tree.Build(testRoots(t))
		if tree.NodeCount() != 6 {
			t.Errorf("content %q: expected defaults, got %d rows", content, tree.NodeCount())
		}
	}
}

func TestRenameKeyPersists(t *testing.T) {
	dir := t.TempDir()
	tree := NewTreeModel(newTreeTestTheme())
	tree.SetStateDir(dir)
	roots := testRoots(t)
	tree.Build(roots)
	tree.SelectByKey("Go/Basics")
	tree.ToggleExpand()

	newPath, err := model.Rename(roots[0], model.Path{"Go", "Basics"}, "Start")
	if err != nil {
		t.Fatal(err)
	}
	tree.RenameKey(model.Path{"Go", "Basics"}, newPath)

	data, err := os.ReadFile(TreeStatePath(dir))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"Go/Start": true`) || strings.Contains(string(data), "Go/Basics") {
		t.Errorf("state after rename = %s", data)
	}
}

func TestTreeViewRendering(t *testing.T) {
	tree, _ := newTestTree(t)
	tree.SetSize(80, 20)
	view := tree.View()

	for _, want := range []string{"Go", "├── ", "└── ", "Basics (2)", "Tools", "▾", "▸"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if lines := strings.Split(view, "\n"); len(lines) != 6 {
		t.Errorf("expected 6 lines, got %d", len(lines))
	}
}

func TestTreeViewScrolls(t *testing.T) {
	tree, _ := newTestTree(t)
	tree.SetSize(80, 3)
	tree.JumpToBottom()

	start, end := tree.visibleRange()
	if start != 3 || end != 6 {
		t.Errorf("visibleRange = %d,%d", start, end)
	}
	view := tree.View()
	if strings.Contains(view, "Basics") || !strings.Contains(view, "Ownership") {
		t.Errorf("view not scrolled:\n%s", view)
	}

	tree.JumpToTop()
	if start, _ := tree.visibleRange(); start != 0 {
		t.Errorf("start after JumpToTop = %d", start)
	}
}

func TestTreePageNavigation(t *testing.T) {
	tree, _ := newTestTree(t)
	tree.SetSize(80, 4)
	tree.PageDown()
	if tree.SelectedKey() != "Go/Concurrency" {
		t.Errorf("PageDown selected %s", tree.SelectedKey())
	}
	tree.PageDown()
	tree.PageDown()
	if tree.SelectedKey() != "Rust/Ownership" {
		t.Errorf("PageDown should clamp, got %s", tree.SelectedKey())
	}
	tree.PageUp()
	tree.PageUp()
	tree.PageUp()
	if tree.SelectedKey() != "Go" {
		t.Errorf("PageUp should clamp, got %s", tree.SelectedKey())
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"abcdefgh", 5, "abcd…"},
		{"日本語テキスト", 5, "日本…"},
	}
	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.width); got != tt.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

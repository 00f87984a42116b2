package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/vidnav/pkg/model"
	"github.com/vanderheijden86/vidnav/pkg/store"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func openTestLibrary(t *testing.T) *store.Library {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"topics_list.json": `["Go.json"]`,
		"Go.json":          `{"Basics": {"Intro": "", "Types": ""}, "Tools": "playlists/tools.json"}`,
	})
	lib, err := store.Open(dir, store.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return lib
}

func TestChooseLibraryDir(t *testing.T) {
	home, _ := os.UserHomeDir()
	tests := []struct {
		hint, configured, want string
	}{
		{"/lib", "/cfg", "/lib"},
		{"", "/cfg", "/cfg"},
		{"", "", "."},
	}
	if home != "" {
		tests = append(tests, struct{ hint, configured, want string }{"", "~/videos", filepath.Join(home, "videos")})
	}
	for _, tt := range tests {
		if got := chooseLibraryDir(tt.hint, tt.configured); got != tt.want {
			t.Errorf("chooseLibraryDir(%q, %q) = %q, want %q", tt.hint, tt.configured, got, tt.want)
		}
	}
}

func TestWriteTree(t *testing.T) {
	lib := openTestLibrary(t)
	var buf bytes.Buffer
	writeTree(&buf, lib.Roots())

	want := strings.Join([]string{
		"Go",
		"├── Basics/",
		"│   ├── Intro",
		"│   └── Types",
		"└── Tools  -> playlists/tools.json",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("writeTree output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteTreeEmpty(t *testing.T) {
	var buf bytes.Buffer
	writeTree(&buf, nil)
	if strings.TrimSpace(buf.String()) != "No topics." {
		t.Errorf("got %q", buf.String())
	}
}

func TestRunAttachTitle(t *testing.T) {
	lib := openTestLibrary(t)
	media := t.TempDir()
	writeFiles(t, media, map[string]string{"a.mp4": "", "b.mkv": "", "notes.txt": ""})

	var buf bytes.Buffer
	path := model.Path{"Go", "Basics", "Intro"}
	if err := runAttach(&buf, lib, path, media); err != nil {
		t.Fatalf("runAttach: %v", err)
	}
	if !strings.Contains(buf.String(), "Created playlist for 'Intro'") {
		t.Errorf("output = %q", buf.String())
	}
	node, _ := lib.Lookup(path)
	entries, err := lib.LoadPlaylist(node.Playlist)
	if err != nil {
		t.Fatalf("LoadPlaylist: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(entries))
	}

	// A second attach is refused
	if err := runAttach(&buf, lib, path, media); err == nil {
		t.Error("expected error attaching twice")
	}
}

func TestRunAttachPopulatesSubtopic(t *testing.T) {
	lib := openTestLibrary(t)
	base := t.TempDir()
	writeFiles(t, base, map[string]string{"Intro/one.mp4": ""})

	var buf bytes.Buffer
	if err := runAttach(&buf, lib, model.Path{"Go", "Basics"}, base); err != nil {
		t.Fatalf("runAttach: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Created playlist for 'Intro'") {
		t.Errorf("missing created line: %q", out)
	}
	if !strings.Contains(out, "No matching directory found for 'Types'.") {
		t.Errorf("missing not-found line: %q", out)
	}
}

func TestRunAttachUnknownPath(t *testing.T) {
	lib := openTestLibrary(t)
	var buf bytes.Buffer
	if err := runAttach(&buf, lib, model.Path{"Go", "Nope"}, t.TempDir()); err == nil {
		t.Error("expected error for unknown path")
	}
}

func TestWriteExampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vidnav", "config.yaml")
	if err := writeExampleConfig(path); err != nil {
		t.Fatalf("writeExampleConfig: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("config file is empty")
	}
	if err := writeExampleConfig(path); err == nil {
		t.Error("expected error when the file already exists")
	}
	if err := writeExampleConfig(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestRunAttachSlashInName(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"topics_list.json": `["Music.json"]`,
		"Music.json":       `{"AC": {"DC": ""}, "AC/DC": ""}`,
	})
	lib, err := store.Open(dir, store.Options{})
	if err != nil {
		t.Fatal(err)
	}
	media := t.TempDir()
	writeFiles(t, media, map[string]string{"thunder.mp4": ""})

	var buf bytes.Buffer
	if err := runAttach(&buf, lib, model.ParsePath("Music/AC%2FDC"), media); err != nil {
		t.Fatalf("runAttach: %v", err)
	}
	slashed, _ := lib.Lookup(model.Path{"Music", "AC/DC"})
	nested, _ := lib.Lookup(model.Path{"Music", "AC", "DC"})
	if !slashed.HasPlaylist() || nested.HasPlaylist() {
		t.Errorf("playlist attached to the wrong node: %q %q", slashed.Playlist, nested.Playlist)
	}
}

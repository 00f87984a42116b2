package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/vanderheijden86/vidnav/pkg/config"
	"github.com/vanderheijden86/vidnav/pkg/export"
	"github.com/vanderheijden86/vidnav/pkg/loader"
	"github.com/vanderheijden86/vidnav/pkg/model"
	"github.com/vanderheijden86/vidnav/pkg/store"
	"github.com/vanderheijden86/vidnav/pkg/ui"
	"github.com/vanderheijden86/vidnav/pkg/version"
	"github.com/vanderheijden86/vidnav/pkg/watcher"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	dirFlag := flag.String("dir", "", "Library directory (default: found by walking up from the current directory)")
	configPath := flag.String("config", "", "Configuration file (default: ~/.config/vidnav/config.yaml)")
	printTree := flag.Bool("print", false, "Print the library tree as text")
	robotTree := flag.Bool("robot-tree", false, "Print the library as JSON")
	exportFile := flag.String("export-md", "", "Export the library to a Markdown file (e.g., library.md)")
	attachPath := flag.String("attach", "", "Build playlists for TOPIC/SUBTOPIC/TITLE (use with -from; write / inside a name as %2F)")
	fromDir := flag.String("from", "", "Directory scanned by -attach: the title's own folder, or a base folder for a topic or subtopic")
	listLibraries := flag.Bool("libraries", false, "List libraries found in the configured discovery paths")
	initConfig := flag.Bool("init-config", false, "Write an example configuration file and exit")
	flag.Parse()

	if *help {
		fmt.Println("Usage: vn [options]")
		fmt.Println("\nA terminal navigator for video playlists organized by topic.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("vn %s\n", version.Version)
		os.Exit(0)
	}

	if *initConfig {
		path := *configPath
		if path == "" {
			path = config.UserConfigPath()
		}
		if err := writeExampleConfig(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
		os.Exit(0)
	}

	dirHint := *dirFlag
	if dirHint == "" {
		if detected, ok := config.DetectLibrary(); ok {
			dirHint = detected
		}
	}
	cfg, err := config.Load(*configPath, dirHint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *listLibraries {
		libs := config.DiscoverLibraries(*cfg)
		if len(libs) == 0 {
			fmt.Println("No libraries found. Add discovery.scan_paths to your config.")
			os.Exit(0)
		}
		for _, l := range libs {
			fmt.Printf("%-20s %s\n", l.Name, l.Path)
		}
		os.Exit(0)
	}

	dir := chooseLibraryDir(dirHint, cfg.Library.Dir)
	lib, err := loader.Open(dir, *cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *attachPath != "" {
		if *fromDir == "" {
			fmt.Fprintln(os.Stderr, "Error: -attach needs -from DIR")
			os.Exit(1)
		}
		if err := runAttach(os.Stdout, lib, model.ParsePath(*attachPath), config.ExpandHome(*fromDir)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *robotTree {
		out := export.BuildRobotLibrary(lib, lib.Dir(), version.Version, lib.Problems(), time.Now())
		if err := export.WriteRobotJSON(os.Stdout, out); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding library: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *exportFile != "" {
		fmt.Printf("Exporting to %s...\n", *exportFile)
		opts := export.MarkdownOptions{Title: filepath.Base(lib.Dir()), Entries: true, Now: time.Now()}
		if err := export.SaveMarkdownToFile(lib, *exportFile, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Done!")
		os.Exit(0)
	}

	if *printTree || !term.IsTerminal(int(os.Stdout.Fd())) {
		writeTree(os.Stdout, lib.Roots())
		os.Exit(0)
	}

	if err := runTUI(lib, *cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// chooseLibraryDir picks the library: an explicit or detected directory,
// then the configured one, then the current directory
func chooseLibraryDir(hint, configured string) string {
	if hint != "" {
		return hint
	}
	if configured != "" {
		return config.ExpandHome(configured)
	}
	return "."
}

func writeExampleConfig(path string) error {
	if path == "" {
		return errors.New("no user config directory; pass -config FILE")
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	data, err := config.ExampleConfig().Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// runAttach builds a playlist for one title from dir, or populates every
// title below a topic or subtopic from subfolders of dir
func runAttach(w io.Writer, lib *store.Library, path model.Path, dir string) error {
	node, err := lib.Lookup(path)
	if err != nil {
		return err
	}
	if node.Kind == model.KindTitle {
		file, err := lib.AttachDirectory(path, dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Created playlist for '%s' in %s\n", path.Name(), file)
		return nil
	}

	report, err := lib.Populate(path, dir)
	for _, r := range report {
		fmt.Fprintln(w, r.Message())
	}
	if err != nil {
		return err
	}
	if n := report.Count(store.PopulateFailed); n > 0 {
		return fmt.Errorf("%d playlist(s) could not be built", n)
	}
	return nil
}

// writeTree prints the library as an indented outline
func writeTree(w io.Writer, roots []*model.Node) {
	if len(roots) == 0 {
		fmt.Fprintln(w, "No topics.")
		return
	}
	for _, root := range roots {
		fmt.Fprintln(w, root.Name)
		writeChildren(w, root.Children, "")
	}
}

func writeChildren(w io.Writer, children []*model.Node, prefix string) {
	for i, c := range children {
		last := i == len(children)-1
		branch, next := "├── ", "│   "
		if last {
			branch, next = "└── ", "    "
		}
		line := c.Name
		switch {
		case c.IsContainer():
			line += "/"
		case c.HasPlaylist():
			line += "  -> " + c.Playlist
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, branch, line)
		writeChildren(w, c.Children, prefix+next)
	}
}

func runTUI(lib *store.Library, cfg config.Config) error {
	stateDir := filepath.Join(lib.Dir(), config.StateDirName)

	// The alternate screen owns the terminal; log output goes to a file or nowhere
	if os.Getenv("VN_DEBUG") != "" {
		if err := os.MkdirAll(stateDir, 0755); err == nil {
			if f, err := tea.LogToFile(filepath.Join(stateDir, "debug.log"), "vn"); err == nil {
				defer f.Close()
			}
		}
	} else {
		log.SetOutput(io.Discard)
	}

	var w *watcher.Watcher
	if cfg.Watch.IsEnabled() {
		var err error
		w, err = watcher.NewWatcher(lib.Dir(),
			watcher.WithDebounceDuration(time.Duration(cfg.Watch.DebounceMS)*time.Millisecond),
			watcher.WithFiles(lib.WatchedFiles()),
		)
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			log.Printf("warning: reloading on external edits disabled: %v", err)
			if w != nil {
				w.Stop()
			}
			w = nil
		} else {
			defer w.Stop()
		}
	}

	m := ui.NewModel(lib, ui.DefaultTheme(lipgloss.DefaultRenderer()), ui.Options{
		StateDir:    stateDir,
		ExpandDepth: cfg.Tree.GetExpandDepth(),
		Watcher:     w,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running vn: %w", err)
	}
	if fm, ok := final.(ui.Model); ok {
		if err := fm.FlushError(); err != nil {
			return fmt.Errorf("saving library: %w", err)
		}
	}
	// A crash path or an interrupted program did not flush
	return lib.Flush()
}

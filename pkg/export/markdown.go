// Package export renders a library outside the TUI: a Markdown outline for
// people and a JSON document for scripts.
package export

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vanderheijden86/vidnav/pkg/model"
)

// Source is the read side of a library. *store.Library implements it.
type Source interface {
	Roots() []*model.Node
	LoadPlaylist(path string) (model.Playlist, error)
}

// MarkdownOptions controls GenerateMarkdown
type MarkdownOptions struct {
	Title string
	// Entries lists each playlist's videos under its title
	Entries bool
	// Now stamps the report; the zero value omits the "Generated" line
	Now time.Time
}

// Stats counts the nodes of a library
type Stats struct {
	Topics       int `json:"topics"`
	Subtopics    int `json:"subtopics"`
	Titles       int `json:"titles"`
	WithPlaylist int `json:"with_playlist"`
}

// Count walks every root and tallies node kinds
func Count(roots []*model.Node) Stats {
	var s Stats
	for _, root := range roots {
		model.Walk(root, func(_ model.Path, n *model.Node) bool {
			switch n.Kind {
			case model.KindTopic:
				s.Topics++
			case model.KindSubtopic:
				s.Subtopics++
			case model.KindTitle:
				s.Titles++
				if n.HasPlaylist() {
					s.WithPlaylist++
				}
			}
			return true
		})
	}
	return s
}

// GenerateMarkdown renders the library as a nested Markdown outline, one
// section per topic in registry order.
func GenerateMarkdown(src Source, opts MarkdownOptions) (string, error) {
	if opts.Title == "" {
		opts.Title = "Video Library"
	}
	roots := src.Roots()
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", opts.Title)
	if !opts.Now.IsZero() {
		fmt.Fprintf(&sb, "Generated: %s\n\n", opts.Now.Format(time.RFC1123))
	}

	stats := Count(roots)
	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- **Topics**: %d\n", stats.Topics)
	fmt.Fprintf(&sb, "- **Subtopics**: %d\n", stats.Subtopics)
	fmt.Fprintf(&sb, "- **Titles**: %d\n", stats.Titles)
	fmt.Fprintf(&sb, "- **With playlist**: %d\n\n", stats.WithPlaylist)

	for _, root := range roots {
		fmt.Fprintf(&sb, "## %s\n\n", root.Name)
		if len(root.Children) == 0 {
			sb.WriteString("_No items._\n\n")
			continue
		}
		for _, child := range root.Children {
			writeNode(&sb, src, child, 0, opts.Entries)
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func writeNode(sb *strings.Builder, src Source, n *model.Node, depth int, entries bool) {
	indent := strings.Repeat("  ", depth)
	if n.Kind != model.KindTitle {
		fmt.Fprintf(sb, "%s- **%s**\n", indent, escape(n.Name))
		for _, c := range n.Children {
			writeNode(sb, src, c, depth+1, entries)
		}
		return
	}

	if !n.HasPlaylist() {
		fmt.Fprintf(sb, "%s- %s\n", indent, escape(n.Name))
		return
	}
	playlist, err := src.LoadPlaylist(n.Playlist)
	switch {
	case errors.Is(err, model.ErrNotFound):
		fmt.Fprintf(sb, "%s- %s (`%s`, missing)\n", indent, escape(n.Name), n.Playlist)
		return
	case err != nil:
		fmt.Fprintf(sb, "%s- %s (`%s`, unreadable)\n", indent, escape(n.Name), n.Playlist)
		return
	}
	fmt.Fprintf(sb, "%s- %s (`%s`, %s)\n", indent, escape(n.Name), n.Playlist, plural(len(playlist), "video"))
	if entries {
		for _, e := range playlist {
			fmt.Fprintf(sb, "%s  - [%s](%s)\n", indent, escape(e.Display()), linkTarget(e.URL))
		}
	}
}

// SelectionMarkdown describes one node and, for titles, its playlist. The
// TUI renders it in the detail pane.
func SelectionMarkdown(path model.Path, n *model.Node, playlist model.Playlist, loadErr error) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", escape(n.Name))
	if len(path) > 1 {
		fmt.Fprintf(&sb, "_%s_\n\n", escape(strings.Join(path[:len(path)-1], " / ")))
	}

	if n.Kind != model.KindTitle {
		fmt.Fprintf(&sb, "**%s** with %s\n\n", titleCase(n.Kind.String()), plural(len(n.Children), "item"))
		for _, c := range n.Children {
			marker := ""
			if c.IsContainer() {
				marker = "/"
			}
			fmt.Fprintf(&sb, "- %s%s\n", escape(c.Name), marker)
		}
		return sb.String()
	}

	if !n.HasPlaylist() {
		sb.WriteString("No playlist attached.\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "Playlist: `%s`\n\n", n.Playlist)
	if loadErr != nil {
		fmt.Fprintf(&sb, "> %v\n", loadErr)
		return sb.String()
	}
	if len(playlist) == 0 {
		sb.WriteString("The playlist is empty.\n")
		return sb.String()
	}
	for i, e := range playlist {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, escape(e.Display()))
	}
	return sb.String()
}

// SaveMarkdownToFile writes the outline of src to filename
func SaveMarkdownToFile(src Source, filename string, opts MarkdownOptions) error {
	content, err := GenerateMarkdown(src, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "#", `\#`,
)

func escape(s string) string {
	return mdEscaper.Replace(s)
}

// linkTarget makes local paths usable as Markdown link targets
func linkTarget(url string) string {
	if strings.ContainsAny(url, " ()") {
		return "<" + url + ">"
	}
	return url
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

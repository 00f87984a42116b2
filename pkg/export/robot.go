package export

import (
	"io"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/vidnav/pkg/model"
)

// RobotNode is one node of the -robot-tree document
type RobotNode struct {
	Name     string      `json:"name"`
	Kind     string      `json:"kind"`
	Path     string      `json:"path"`
	Playlist string      `json:"playlist,omitempty"`
	Videos   *int        `json:"videos,omitempty"` // nil when the playlist is missing or unset
	Children []RobotNode `json:"children,omitempty"`
}

// RobotLibrary is the document printed by -robot-tree
type RobotLibrary struct {
	GeneratedAt string      `json:"generated_at"`
	Dir         string      `json:"dir"`
	Version     string      `json:"version"`
	Stats       Stats       `json:"stats"`
	Topics      []RobotNode `json:"topics"`
	Problems    []string    `json:"problems,omitempty"`
}

// BuildRobotLibrary converts the loaded library into its JSON form.
// Playlists are opened to count their videos.
func BuildRobotLibrary(src Source, dir, version string, problems []error, now time.Time) RobotLibrary {
	roots := src.Roots()
	out := RobotLibrary{
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Dir:         dir,
		Version:     version,
		Stats:       Count(roots),
		Topics:      make([]RobotNode, 0, len(roots)),
	}
	for _, root := range roots {
		out.Topics = append(out.Topics, robotNode(src, model.Path{root.Name}, root))
	}
	for _, p := range problems {
		out.Problems = append(out.Problems, p.Error())
	}
	return out
}

func robotNode(src Source, path model.Path, n *model.Node) RobotNode {
	rn := RobotNode{
		Name:     n.Name,
		Kind:     n.Kind.String(),
		Path:     path.Key(),
		Playlist: n.Playlist,
	}
	if n.HasPlaylist() {
		if pl, err := src.LoadPlaylist(n.Playlist); err == nil {
			count := len(pl)
			rn.Videos = &count
		}
	}
	for _, c := range n.Children {
		rn.Children = append(rn.Children, robotNode(src, path.Child(c.Name), c))
	}
	return rn
}

// WriteRobotJSON encodes v with two-space indentation
func WriteRobotJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

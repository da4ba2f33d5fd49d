package session

import (
	"fmt"
	"strings"

	"github.com/bethropolis/quill/internal/types"
)

// Kind is the lifecycle type of a tab.
type Kind int

const (
	// Untitled tabs are scratch documents with no file behind them.
	Untitled Kind = iota
	// Bound tabs are backed by a file on disk.
	Bound
)

func (k Kind) String() string {
	if k == Bound {
		return "bound"
	}
	return "untitled"
}

// ParseKind reads a persisted kind. The legacy names "newtab" and "normal"
// are accepted as well.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "untitled", "newtab", "":
		return Untitled, nil
	case "bound", "normal":
		return Bound, nil
	}
	return Untitled, fmt.Errorf("unknown tab kind %q", s)
}

// Tab is one open document. Content is only authoritative while the tab is
// inactive; the active tab's text lives in the buffer.
type Tab struct {
	Active   bool
	Path     string
	Content  string
	Position types.Position
	Kind     Kind
}

// NewUntitled returns an empty scratch tab.
func NewUntitled() Tab {
	return Tab{Position: types.Start, Kind: Untitled}
}

// Title is the label shown for the tab.
func (t Tab) Title() string {
	if t.Path == "" {
		return "[untitled]"
	}
	return t.Path
}

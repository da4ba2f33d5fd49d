// Package session keeps the ordered list of open tabs and the active index.
package session

import (
	"errors"

	"github.com/bethropolis/quill/internal/buffer"
	"github.com/bethropolis/quill/internal/logger"
	"github.com/bethropolis/quill/internal/types"
)

var (
	ErrSoleUntitled  = errors.New("cannot close the only untitled tab")
	ErrFreshUntitled = errors.New("current tab is already a new untitled tab")
	ErrTooFewTabs    = errors.New("need at least two tabs")
	ErrAlreadyOpen   = errors.New("file is already open")
	ErrNoSuchTab     = errors.New("no such tab")
)

// Flusher writes a Bound tab to disk. It may rewrite t.Content (for
// example to renormalize indentation) before writing.
type Flusher func(t *Tab) error

// Reader loads the document at path.
type Reader func(path string) (string, error)

// Session is the arena of tabs plus the index of the active one. The
// visible buffer always shows the active tab.
type Session struct {
	buf    buffer.Buffer
	tabs   []Tab
	active int
}

// New creates a session with a single untitled tab shown in buf.
func New(buf buffer.Buffer) *Session {
	t := NewUntitled()
	t.Active = true
	buf.SetText("")
	return &Session{buf: buf, tabs: []Tab{t}}
}

// Len returns the number of open tabs.
func (s *Session) Len() int { return len(s.tabs) }

// ActiveIndex returns the 0-based index of the active tab.
func (s *Session) ActiveIndex() int { return s.active }

// Active returns the active tab. The pointer stays valid until the next
// operation that adds or removes tabs.
func (s *Session) Active() *Tab { return &s.tabs[s.active] }

// Tabs returns a copy of the tab list.
func (s *Session) Tabs() []Tab {
	out := make([]Tab, len(s.tabs))
	copy(out, s.tabs)
	return out
}

// Buffer returns the visible buffer.
func (s *Session) Buffer() buffer.Buffer { return s.buf }

// Snapshot copies the buffer text and cursor into the active tab.
func (s *Session) Snapshot() {
	t := &s.tabs[s.active]
	t.Content = s.buf.Text()
	t.Position = s.buf.Cursor()
}

// restore shows the active tab in the buffer, falling back to the buffer
// start when the stored position is no longer valid.
func (s *Session) restore() {
	t := &s.tabs[s.active]
	s.buf.SetText(t.Content)
	if err := s.buf.SetCursor(t.Position); err != nil {
		logger.Debugf("session: position %s of %s invalid, using 1.0", t.Position, t.Title())
		t.Position = types.Start
		_ = s.buf.SetCursor(types.Start)
	}
}

// switchTo deactivates the current tab and shows tab i.
func (s *Session) switchTo(i int) {
	s.tabs[s.active].Active = false
	s.active = i
	s.tabs[s.active].Active = true
	s.restore()
}

// IsFreshUntitled reports whether the active tab is an untitled tab with no text.
func (s *Session) IsFreshUntitled() bool {
	t := s.tabs[s.active]
	return t.Kind == Untitled && s.buf.Text() == ""
}

// NewTab inserts an untitled tab right after the active one and activates it.
func (s *Session) NewTab() error {
	if s.IsFreshUntitled() {
		return ErrFreshUntitled
	}
	s.Snapshot()
	s.insertAfter(NewUntitled())
	return nil
}

func (s *Session) insertAfter(t Tab) {
	s.tabs[s.active].Active = false
	at := s.active + 1
	s.tabs = append(s.tabs, Tab{})
	copy(s.tabs[at+1:], s.tabs[at:])
	t.Active = true
	s.tabs[at] = t
	s.active = at
	s.restore()
}

// DeleteTab closes the active tab. A Bound tab is flushed first; if that
// fails nothing changes. The preceding tab becomes active, or a fresh
// untitled tab when the list runs empty.
func (s *Session) DeleteTab(flush Flusher) error {
	if len(s.tabs) == 1 && s.tabs[0].Kind == Untitled {
		return ErrSoleUntitled
	}
	s.Snapshot()
	if t := s.tabs[s.active]; t.Kind == Bound && flush != nil {
		if err := flush(&t); err != nil {
			return err
		}
	}

	removed := s.tabs[s.active].Title()
	s.tabs = append(s.tabs[:s.active], s.tabs[s.active+1:]...)
	if len(s.tabs) == 0 {
		s.tabs = append(s.tabs, NewUntitled())
	}
	if s.active > 0 {
		s.active--
	}
	s.tabs[s.active].Active = true
	s.restore()
	logger.Debugf("session: closed %s, %d tabs left", removed, len(s.tabs))
	return nil
}

// Walk activates the next (dir > 0) or previous (dir < 0) tab, circularly.
func (s *Session) Walk(dir int) error {
	if len(s.tabs) < 2 {
		return ErrTooFewTabs
	}
	s.Snapshot()
	n := len(s.tabs)
	step := 1
	if dir < 0 {
		step = -1
	}
	s.switchTo(((s.active+step)%n + n) % n)
	return nil
}

// Activate switches to tab i.
func (s *Session) Activate(i int) error {
	if i < 0 || i >= len(s.tabs) {
		return ErrNoSuchTab
	}
	if i == s.active {
		return nil
	}
	s.Snapshot()
	s.switchTo(i)
	return nil
}

// FindPath returns the index of the tab bound to path, or -1.
func (s *Session) FindPath(path string) int {
	if path == "" {
		return -1
	}
	for i, t := range s.tabs {
		if t.Path == path {
			return i
		}
	}
	return -1
}

// OpenBound adds a Bound tab for path after the active tab and shows it.
func (s *Session) OpenBound(path, content string, pos types.Position) error {
	if s.FindPath(path) >= 0 {
		return ErrAlreadyOpen
	}
	s.Snapshot()
	s.insertAfter(Tab{Path: path, Content: content, Position: pos, Kind: Bound})
	return nil
}

// Load reads path into the active tab. The path must not be open already.
// A Bound active tab is flushed before it is replaced.
func (s *Session) Load(path string, read Reader, flush Flusher) error {
	if s.FindPath(path) >= 0 {
		return ErrAlreadyOpen
	}
	content, err := read(path)
	if err != nil {
		return err
	}
	s.Snapshot()
	if t := s.tabs[s.active]; t.Kind == Bound && flush != nil {
		if err := flush(&t); err != nil {
			return err
		}
	}
	t := &s.tabs[s.active]
	t.Path = path
	t.Kind = Bound
	t.Content = content
	t.Position = types.Start
	s.restore()
	return nil
}

// Bind turns the active tab into a Bound tab for path.
func (s *Session) Bind(path string) {
	t := &s.tabs[s.active]
	t.Path = path
	t.Kind = Bound
}

// JumpTo places the cursor on line of the document at path, switching to
// its tab or opening it when needed. The column is always 0.
func (s *Session) JumpTo(path string, line int, read Reader) (types.Position, error) {
	switch i := s.FindPath(path); {
	case i == s.active:
	case i >= 0:
		s.Snapshot()
		s.switchTo(i)
	default:
		content, err := read(path)
		if err != nil {
			return types.Position{}, err
		}
		if err := s.OpenBound(path, content, types.Start); err != nil {
			return types.Position{}, err
		}
	}
	p := s.buf.Clamp(types.Position{Line: line, Col: 0})
	p.Col = 0
	_ = s.buf.SetCursor(p)
	s.tabs[s.active].Position = p
	return p, nil
}

// Replace installs a restored tab list. The first tab flagged active wins,
// otherwise the first tab; an empty list yields one untitled tab.
func (s *Session) Replace(tabs []Tab) {
	if len(tabs) == 0 {
		tabs = []Tab{NewUntitled()}
	}
	s.tabs = make([]Tab, len(tabs))
	copy(s.tabs, tabs)
	s.active = 0
	for i, t := range s.tabs {
		if t.Active {
			s.active = i
			break
		}
	}
	for i := range s.tabs {
		s.tabs[i].Active = i == s.active
	}
	s.restore()
}

// ForEach calls fn for every tab, letting it update the tab in place.
// Call Snapshot first so the active tab carries the buffer contents.
func (s *Session) ForEach(fn func(i int, t *Tab)) {
	for i := range s.tabs {
		fn(i, &s.tabs[i])
	}
}

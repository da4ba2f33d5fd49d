// internal/core/editor.go
package core

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/bethropolis/quill/internal/buffer"
	"github.com/bethropolis/quill/internal/clipboard"
	"github.com/bethropolis/quill/internal/core/find"
	"github.com/bethropolis/quill/internal/event"
	"github.com/bethropolis/quill/internal/logger"
	"github.com/bethropolis/quill/internal/mode"
	"github.com/bethropolis/quill/internal/prefs"
	"github.com/bethropolis/quill/internal/runner"
	"github.com/bethropolis/quill/internal/session"
	"github.com/bethropolis/quill/internal/store"
	"github.com/bethropolis/quill/internal/types"
	"github.com/bethropolis/quill/internal/utils"
)

//go:embed help.txt
var defaultHelp string

var (
	ErrNoPath         = errors.New("no file name given")
	ErrWouldOverwrite = errors.New("can not overwrite an existing file")
	ErrExtension      = errors.New("file type not allowed")
	ErrNoSelection    = errors.New("nothing selected")
	ErrLineRange      = errors.New("line out of range")
	ErrNoTrace        = errors.New("no errors from last run")
	ErrNoLink         = errors.New("no link on that line")
	ErrEmptyClipboard = errors.New("clipboard is empty")
)

// Notifier receives user feedback. The status bar implements it.
type Notifier interface {
	Bell()
	SetTitle(title string)
	SetTemporaryMessage(format string, args ...interface{})
}

type nopNotifier struct{}

func (nopNotifier) Bell()                                      {}
func (nopNotifier) SetTitle(string)                            {}
func (nopNotifier) SetTemporaryMessage(string, ...interface{}) {}

// Options configures an Editor. Zero values pick defaults.
type Options struct {
	TabWidth   int
	Extensions []string // empty allows any file
	HelpText   string
	SaveAll    bool

	Producer  runner.Producer
	Clipboard clipboard.Clipboard
	Notifier  Notifier
	Events    *event.Manager
	Store     *store.Store
}

// parkedView is the tab text hidden while Help or ErrorView shows
// something else in the buffer.
type parkedView struct {
	content string
	cursor  types.Position
}

// Editor is the single state aggregate: buffer, tabs, search session,
// mode, preferences and the last error trace. Every exported method takes
// the one mutex, so cross-component invariants hold between calls.
type Editor struct {
	mu sync.Mutex

	buf     *buffer.SliceBuffer
	session *session.Session
	finder  *find.Manager
	modes   *mode.Controller
	prefs   prefs.Prefs
	lastDir string

	trace  *runner.Trace
	parked *parkedView

	tabWidth   int
	extensions []string
	helpText   string
	saveAll    bool

	producer runner.Producer
	clip     clipboard.Clipboard
	notifier Notifier
	events   *event.Manager
	store    *store.Store
}

// NewEditor creates an editor with one untitled tab in Normal mode.
func NewEditor(opts Options) *Editor {
	buf := buffer.NewSliceBuffer()
	e := &Editor{
		buf:        buf,
		session:    session.New(buf),
		finder:     find.NewManager(buf),
		modes:      mode.NewController(),
		prefs:      prefs.Default(),
		tabWidth:   opts.TabWidth,
		extensions: opts.Extensions,
		helpText:   opts.HelpText,
		saveAll:    opts.SaveAll,
		producer:   opts.Producer,
		clip:       opts.Clipboard,
		notifier:   opts.Notifier,
		events:     opts.Events,
		store:      opts.Store,
	}
	if e.tabWidth <= 0 {
		e.tabWidth = utils.DefaultTabWidth
	}
	if e.helpText == "" {
		e.helpText = defaultHelp
	}
	if e.producer == nil {
		e.producer = runner.NewShell(runner.DefaultCommand, 0)
	}
	if e.clip == nil {
		e.clip = &clipboard.Memory{}
	}
	if e.notifier == nil {
		e.notifier = nopNotifier{}
	}
	if e.events == nil {
		e.events = event.NewManager()
	}
	e.modes.OnChange(func(from, to mode.Mode) {
		logger.DebugTagf("mode", "%s -> %s", from, to)
		e.events.Dispatch(event.TypeModeChanged, event.ModeChangedData{From: from, To: to})
	})
	e.normalTitleLocked()
	return e
}

// reject reports a refused or failed operation and hands err back.
func (e *Editor) reject(err error) error {
	var se *mode.StateError
	switch {
	case errors.As(err, &se):
		logger.Debugf("editor: %v", err)
	case errors.Is(err, find.ErrEmptyQuery), errors.Is(err, find.ErrNoMatches),
		errors.Is(err, find.ErrSingleMatch), errors.Is(err, find.ErrSameWord):
		logger.DebugTagf("search", "%v", err)
	default:
		logger.Warnf("editor: %v", err)
	}
	e.notifier.Bell()
	e.notifier.SetTemporaryMessage("%v", err)
	return err
}

func (e *Editor) normalTitleLocked() {
	e.notifier.SetTitle(fmt.Sprintf("Quill %d/%d", e.session.ActiveIndex()+1, e.session.Len()))
}

func (e *Editor) tabChangedLocked() {
	e.normalTitleLocked()
	e.events.Dispatch(event.TypeTabChanged, event.TabChangedData{
		Index: e.session.ActiveIndex(),
		Count: e.session.Len(),
		Title: e.session.Active().Title(),
	})
}

// Mode returns the current mode.
func (e *Editor) Mode() mode.Mode {
	return e.modes.Current()
}

// AffordancesEnabled reports whether Save and Open are currently offered.
func (e *Editor) AffordancesEnabled() bool {
	return e.modes.AffordancesEnabled()
}

// Text returns what the buffer currently shows.
func (e *Editor) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Text()
}

// Cursor returns the insertion cursor.
func (e *Editor) Cursor() types.Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Cursor()
}

// Selection returns the selected range, if any.
func (e *Editor) Selection() (types.Range, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Selection()
}

// SetCursor moves the cursor, clamped to the document.
func (e *Editor) SetCursor(p types.Position) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = e.buf.SetCursor(e.buf.Clamp(p))
}

// MoveCursor steps the cursor by dCol characters, wrapping across line
// ends, then by dLine lines, keeping the column where the line allows it.
// The selection is dropped. It reports whether the cursor moved.
func (e *Editor) MoveCursor(dLine, dCol int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	cur := e.buf.Cursor()
	next := cur
	if dCol != 0 {
		off, err := e.buf.Offset(cur)
		if err != nil {
			return false
		}
		next = e.buf.PositionAt(off + dCol)
	}
	if dLine != 0 {
		line := next.Line + dLine
		if line < 1 || line > e.buf.LineCount() {
			return false
		}
		next = e.buf.Clamp(types.Position{Line: line, Col: next.Col})
	}
	e.buf.ClearSelection()
	if next == cur {
		return false
	}
	return e.buf.SetCursor(next) == nil
}

// Select sets the selection and puts the cursor at its end.
func (e *Editor) Select(r types.Range) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.buf.SetSelection(r); err != nil {
		return err
	}
	sel, _ := e.buf.Selection()
	return e.buf.SetCursor(sel.End)
}

// Tabs returns a snapshot of the tab list with the active tab's content
// taken from the buffer.
func (e *Editor) Tabs() []session.Tab {
	e.mu.Lock()
	defer e.mu.Unlock()
	tabs := e.session.Tabs()
	if e.parked == nil {
		tabs[e.session.ActiveIndex()].Content = e.buf.Text()
		tabs[e.session.ActiveIndex()].Position = e.buf.Cursor()
	} else {
		tabs[e.session.ActiveIndex()].Content = e.parked.content
		tabs[e.session.ActiveIndex()].Position = e.parked.cursor
	}
	return tabs
}

// Modified reports whether the shown tab text changed since it was
// loaded or saved.
func (e *Editor) Modified() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.parked == nil && e.buf.IsModified()
}

// ActiveIndex returns the 0-based index of the active tab.
func (e *Editor) ActiveIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.ActiveIndex()
}

// Prefs returns the display preferences.
func (e *Editor) Prefs() prefs.Prefs {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prefs
}

// LastDir returns the directory of the last opened or saved file.
func (e *Editor) LastDir() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastDir
}

// Trace returns the error trace of the last failed run, or nil.
func (e *Editor) Trace() *runner.Trace {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.trace
}

// SearchState reports whether a search holds matches and whether a
// replacement has been armed for it.
func (e *Editor) SearchState() (searching, replacing bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.finder.Active(), e.finder.Replacing()
}

// parkLocked hides the active tab's text and shows text read only.
func (e *Editor) parkLocked(text string) {
	if e.parked == nil {
		e.parked = &parkedView{content: e.buf.Text(), cursor: e.buf.Cursor()}
	}
	e.buf.SetText(text)
}

// unparkLocked puts the tab text back, with its cursor.
func (e *Editor) unparkLocked() {
	if e.parked == nil {
		return
	}
	p := e.parked
	e.parked = nil
	e.buf.SetText(p.content)
	_ = e.buf.SetCursor(e.buf.Clamp(p.cursor))
}

// leaveModeLocked returns to Normal from any mode, undoing what the mode
// changed in the buffer.
func (e *Editor) leaveModeLocked() {
	switch e.modes.Current() {
	case mode.Search, mode.Replace, mode.ReplaceAll:
		e.finder.Stop()
		e.buf.ClearSelection()
	case mode.Help, mode.ErrorView:
		e.unparkLocked()
	}
	if e.modes.Exit() != mode.Normal {
		e.normalTitleLocked()
	}
}

// Cancel leaves the current mode (Escape).
func (e *Editor) Cancel() mode.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	left := e.modes.Current()
	e.leaveModeLocked()
	return left
}

// requireNormal is the guard shared by tab, file and text operations.
func (e *Editor) requireNormal(op string) error {
	return e.modes.Require(op, mode.Normal)
}

// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bethropolis/quill/internal/event"
	"github.com/bethropolis/quill/internal/mode"
	"github.com/bethropolis/quill/internal/types"
	"github.com/rivo/uniseg"
)

// Config defines the behavior of the status bar.
type Config struct {
	MessageTimeout time.Duration
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{MessageTimeout: 4 * time.Second}
}

// StatusBar holds the title line, the mode/tab indicator and transient
// messages. It also counts bells, which stand in for an audible beep.
type StatusBar struct {
	config Config
	mu     sync.RWMutex
	now    func() time.Time

	title      string
	filePath   string
	cursorPos  types.Position
	isModified bool
	editorMode mode.Mode
	tabIndex   int
	tabCount   int

	tempMessage     string
	tempMessageTime time.Time
	bells           int
}

// New creates a new StatusBar with the given configuration.
func New(config Config) *StatusBar {
	return &StatusBar{config: config, now: time.Now, tabCount: 1}
}

// SetTitle replaces the title line.
func (sb *StatusBar) SetTitle(title string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.title = title
}

// Title returns the current title line.
func (sb *StatusBar) Title() string {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.title
}

// Bell records an audible notification.
func (sb *StatusBar) Bell() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.bells++
}

// Bells returns how many times Bell was called.
func (sb *StatusBar) Bells() int {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.bells
}

// SetFileInfo updates the file path shown in the status bar.
func (sb *StatusBar) SetFileInfo(path string, modified bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
	sb.isModified = modified
}

// SetCursorInfo updates the cursor position shown.
func (sb *StatusBar) SetCursorInfo(pos types.Position) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.cursorPos = pos
}

// SetTemporaryMessage displays a message for a configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = sb.now()
}

// ResetTemporaryMessage clears any temporary message being displayed
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// Subscribe keeps the indicator in sync with mode and tab events.
func (sb *StatusBar) Subscribe(em *event.Manager) {
	em.Subscribe(event.TypeModeChanged, func(e event.Event) bool {
		if d, ok := e.Data.(event.ModeChangedData); ok {
			sb.mu.Lock()
			sb.editorMode = d.To
			sb.mu.Unlock()
		}
		return false
	})
	em.Subscribe(event.TypeTabChanged, func(e event.Event) bool {
		if d, ok := e.Data.(event.TabChangedData); ok {
			sb.mu.Lock()
			sb.tabIndex = d.Index
			sb.tabCount = d.Count
			sb.filePath = d.Title
			sb.mu.Unlock()
		}
		return false
	})
	em.Subscribe(event.TypeBufferSaved, func(e event.Event) bool {
		if d, ok := e.Data.(event.BufferSavedData); ok {
			sb.SetTemporaryMessage("Saved %s", d.FilePath)
		}
		return false
	})
}

// Text builds the status line: the temporary message while it is fresh,
// otherwise the title and indicator.
func (sb *StatusBar) Text() string {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if !sb.tempMessageTime.IsZero() {
		if sb.now().Sub(sb.tempMessageTime) <= sb.config.MessageTimeout {
			return sb.tempMessage
		}
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}

	var b strings.Builder
	if sb.title != "" {
		b.WriteString(sb.title)
		b.WriteString(" -- ")
	}
	fPath := sb.filePath
	if fPath == "" {
		fPath = "[untitled]"
	}
	b.WriteString(fPath)
	if sb.isModified {
		b.WriteString(" [Modified]")
	}
	fmt.Fprintf(&b, " -- Tab %d/%d -- Line: %d, Col: %d -- %s",
		sb.tabIndex+1, sb.tabCount, sb.cursorPos.Line, sb.cursorPos.Col, sb.editorMode)
	return b.String()
}

// Render returns the status line cut or padded to exactly width cells.
func (sb *StatusBar) Render(width int) string {
	if width <= 0 {
		return ""
	}
	return Fit(sb.Text(), width)
}

// Fit truncates text to width display cells by grapheme cluster and pads
// the remainder with spaces.
func Fit(text string, width int) string {
	var b strings.Builder
	gr := uniseg.NewGraphemes(text)
	used := 0
	for gr.Next() {
		w := gr.Width()
		if used+w > width {
			break
		}
		b.WriteString(gr.Str())
		used += w
	}
	b.WriteString(strings.Repeat(" ", width-used))
	return b.String()
}

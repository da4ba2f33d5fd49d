package core

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bethropolis/quill/internal/mode"
	"github.com/bethropolis/quill/internal/types"
	"github.com/bethropolis/quill/internal/utils"
)

const commentPrefix = "##"

// editable guards every buffer mutation: only Normal mode edits.
func (e *Editor) editable(op string) error {
	return e.requireNormal(op)
}

// deleteSelectionLocked removes the selection and parks the cursor at
// its start. It reports whether there was one.
func (e *Editor) deleteSelectionLocked() (bool, error) {
	sel, ok := e.buf.Selection()
	if !ok {
		return false, nil
	}
	e.buf.ClearSelection()
	if err := e.buf.Delete(sel); err != nil {
		return false, err
	}
	return true, e.buf.SetCursor(sel.Start)
}

// InsertText types text at the cursor, replacing the selection.
func (e *Editor) InsertText(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editable("insert"); err != nil {
		return e.reject(err)
	}
	if _, err := e.deleteSelectionLocked(); err != nil {
		return err
	}
	end, err := e.buf.Insert(e.buf.Cursor(), text)
	if err != nil {
		return err
	}
	return e.buf.SetCursor(end)
}

// DeleteBackward removes the selection, or the character before the cursor.
func (e *Editor) DeleteBackward() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editable("delete"); err != nil {
		return e.reject(err)
	}
	if had, err := e.deleteSelectionLocked(); had || err != nil {
		return err
	}
	cur := e.buf.Cursor()
	off, err := e.buf.Offset(cur)
	if err != nil || off == 0 {
		return err
	}
	start := e.buf.PositionAt(off - 1)
	if err := e.buf.Delete(types.Range{Start: start, End: cur}); err != nil {
		return err
	}
	return e.buf.SetCursor(start)
}

// Newline breaks the line at the cursor with automatic indentation:
//   - at column 0 a bare newline is inserted;
//   - inside the leading whitespace of a non-blank line that whitespace
//     is carried to the new line;
//   - otherwise the new line starts with as many tabs as the current one.
func (e *Editor) Newline() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editable("newline"); err != nil {
		return e.reject(err)
	}
	if _, err := e.deleteSelectionLocked(); err != nil {
		return err
	}

	cur := e.buf.Cursor()
	indent := ""
	if cur.Col > 0 {
		line, err := e.buf.Line(cur.Line)
		if err != nil {
			return err
		}
		split := utils.RuneIndexToByteOffset(line, cur.Col)
		head, tail := line[:split], line[split:]
		switch {
		case utils.IsBlank(head) && (tail == "" || !utils.IsBlank(tail)):
			indent = head
		default:
			if tail != "" && utils.IsBlank(tail) {
				line = head
			}
			indent = strings.Repeat("\t", utils.LeadingTabs(line))
		}
	}

	end, err := e.buf.Insert(cur, "\n"+indent)
	if err != nil {
		return err
	}
	return e.buf.SetCursor(end)
}

// selectedLinesLocked returns the first and last line touched by the selection.
func (e *Editor) selectedLinesLocked() (int, int, error) {
	sel, ok := e.buf.Selection()
	if !ok {
		return 0, 0, ErrNoSelection
	}
	return sel.Start.Line, sel.End.Line, nil
}

// prefixLinesLocked inserts prefix at the start of every selected line.
func (e *Editor) prefixLinesLocked(op, prefix string) error {
	if err := e.editable(op); err != nil {
		return err
	}
	first, last, err := e.selectedLinesLocked()
	if err != nil {
		return err
	}
	sel, _ := e.buf.Selection()
	for n := first; n <= last; n++ {
		if _, err := e.buf.Insert(types.Position{Line: n}, prefix); err != nil {
			return err
		}
	}
	e.reselectLinesLocked(sel, first, last)
	return nil
}

// reselectLinesLocked selects whole lines first..last after a line edit,
// keeping an empty-column end where the old selection had one.
func (e *Editor) reselectLinesLocked(old types.Range, first, last int) {
	endLine, _ := e.buf.Line(last)
	end := types.Position{Line: last, Col: utf8.RuneCountInString(endLine)}
	if old.End.Col == 0 {
		end.Col = 0
	}
	_ = e.buf.SetSelection(types.Range{Start: types.Position{Line: first}, End: end})
}

// Indent adds a tab in front of every selected line.
func (e *Editor) Indent() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.prefixLinesLocked("indent", "\t"); err != nil {
		return e.reject(err)
	}
	return nil
}

// Comment adds ## in front of every selected line.
func (e *Editor) Comment() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.prefixLinesLocked("comment", commentPrefix); err != nil {
		return e.reject(err)
	}
	return nil
}

// Unindent removes one leading tab from every non-empty selected line.
// Nothing changes unless all of them start with a tab.
func (e *Editor) Unindent() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editable("unindent"); err != nil {
		return e.reject(err)
	}
	first, last, err := e.selectedLinesLocked()
	if err != nil {
		return e.reject(err)
	}
	for n := first; n <= last; n++ {
		line, _ := e.buf.Line(n)
		if line != "" && line[0] != '\t' {
			return nil
		}
	}
	sel, _ := e.buf.Selection()
	for n := first; n <= last; n++ {
		if line, _ := e.buf.Line(n); line == "" {
			continue
		}
		if err := e.buf.Delete(types.Range{Start: types.Position{Line: n}, End: types.Position{Line: n, Col: 1}}); err != nil {
			return err
		}
	}
	e.reselectLinesLocked(sel, first, last)
	return nil
}

// Uncomment removes the first ## of every selected line whose text,
// ignoring leading whitespace, starts with ##.
func (e *Editor) Uncomment() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editable("uncomment"); err != nil {
		return e.reject(err)
	}
	first, last, err := e.selectedLinesLocked()
	if err != nil {
		return e.reject(err)
	}
	sel, _ := e.buf.Selection()
	for n := first; n <= last; n++ {
		line, _ := e.buf.Line(n)
		if !strings.HasPrefix(strings.TrimLeft(line, " \t"), commentPrefix) {
			continue
		}
		col := utf8.RuneCountInString(line[:strings.Index(line, commentPrefix)])
		r := types.Range{Start: types.Position{Line: n, Col: col}, End: types.Position{Line: n, Col: col + 2}}
		if err := e.buf.Delete(r); err != nil {
			return err
		}
	}
	e.reselectLinesLocked(sel, first, last)
	return nil
}

// SelectAll selects the whole document.
func (e *Editor) SelectAll() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.modes.Require("select all", mode.Normal, mode.Help, mode.ErrorView); err != nil {
		return e.reject(err)
	}
	return e.buf.SetSelection(types.Range{Start: types.Start, End: e.buf.End()})
}

// Copy puts the selection on the clipboard.
func (e *Editor) Copy() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	sel, ok := e.buf.Selection()
	if !ok {
		return "", e.reject(ErrNoSelection)
	}
	text, err := e.buf.Read(sel)
	if err != nil {
		return "", err
	}
	if err := e.clip.Write(text); err != nil {
		return "", e.reject(err)
	}
	return text, nil
}

// Paste inserts the clipboard at the cursor, replacing the selection. A
// single-line paste leaves the cursor after it, a multi-line paste at
// its start.
func (e *Editor) Paste() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editable("paste"); err != nil {
		return e.reject(err)
	}
	text, err := e.clip.Read()
	if err != nil {
		return e.reject(err)
	}
	if text == "" {
		return e.reject(ErrEmptyClipboard)
	}
	if _, err := e.deleteSelectionLocked(); err != nil {
		return err
	}
	at := e.buf.Cursor()
	end, err := e.buf.Insert(at, text)
	if err != nil {
		return err
	}
	if strings.Contains(text, "\n") {
		return e.buf.SetCursor(at)
	}
	return e.buf.SetCursor(end)
}

// PromptGotoLine shows the line range in the title.
func (e *Editor) PromptGotoLine() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireNormal("go to line"); err != nil {
		return e.reject(err)
	}
	e.notifier.SetTitle(fmt.Sprintf("Go to line, 1-%d:", e.buf.LineCount()))
	return nil
}

// GotoLine moves the cursor to the start of line n.
func (e *Editor) GotoLine(n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireNormal("go to line"); err != nil {
		return e.reject(err)
	}
	if n < 1 || n > e.buf.LineCount() {
		return e.reject(fmt.Errorf("%w: %d not in 1-%d", ErrLineRange, n, e.buf.LineCount()))
	}
	e.buf.ClearSelection()
	e.normalTitleLocked()
	return e.buf.SetCursor(types.Position{Line: n})
}

// Help shows the help text read only until Cancel.
func (e *Editor) Help() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.modes.Enter(mode.Help); err != nil {
		return e.reject(err)
	}
	e.parkLocked(e.helpText)
	e.notifier.SetTitle("Help")
	return nil
}

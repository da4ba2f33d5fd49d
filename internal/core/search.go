package core

import (
	"errors"
	"fmt"

	"github.com/bethropolis/quill/internal/core/find"
	"github.com/bethropolis/quill/internal/event"
	"github.com/bethropolis/quill/internal/mode"
	"github.com/bethropolis/quill/internal/types"
)

// EnterSearch opens the search prompt.
func (e *Editor) EnterSearch() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.modes.Enter(mode.Search); err != nil {
		return e.reject(err)
	}
	e.finder.Stop()
	e.notifier.SetTitle("Search:")
	return nil
}

// EnterReplace opens the replace prompt. With all set, the final submit
// replaces every match at once.
func (e *Editor) EnterReplace(all bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	m := mode.Replace
	if all {
		m = mode.ReplaceAll
	}
	if err := e.modes.Enter(m); err != nil {
		return e.reject(err)
	}
	e.finder.Stop()
	e.notifier.SetTitle("Replace this:")
	return nil
}

// SubmitQuery runs a search for query and selects the first match.
func (e *Editor) SubmitQuery(query string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.modes.Require("search", mode.Search, mode.Replace, mode.ReplaceAll); err != nil {
		return 0, e.reject(err)
	}
	if e.finder.Replacing() {
		return 0, e.reject(&mode.StateError{Mode: e.modes.Current(), Op: "new search while replacing"})
	}

	e.buf.ClearSelection()
	n, err := e.finder.StartSearch(query)
	if err != nil {
		if e.modes.Current() == mode.Search {
			e.notifier.SetTitle("Search:")
		} else {
			e.notifier.SetTitle("Replace this:")
		}
		return 0, e.reject(err)
	}

	if e.modes.Current() == mode.Search {
		e.notifier.SetTitle(fmt.Sprintf("Found: %d matches", n))
	} else {
		e.notifier.SetTitle(fmt.Sprintf("Replace %d matches with:", n))
	}
	e.showFoundLocked()
	return n, nil
}

// showFoundLocked selects the found match, cursor at its start.
func (e *Editor) showFoundLocked() {
	r, ok := e.finder.Cursor()
	if !ok {
		e.buf.ClearSelection()
		return
	}
	_ = e.buf.SetSelection(r)
	_ = e.buf.SetCursor(r.Start)
	e.events.Dispatch(event.TypeSearchUpdated, event.SearchUpdatedData{
		Query:   e.finder.Query(),
		Count:   e.finder.Count(),
		Ordinal: e.finder.PositionInSet(),
		Current: r,
	})
}

// ShowNext moves to the following match, wrapping around.
func (e *Editor) ShowNext() (types.Range, error) {
	return e.step(e.finder.ShowNext)
}

// ShowPrev moves to the preceding match, wrapping around.
func (e *Editor) ShowPrev() (types.Range, error) {
	return e.step(e.finder.ShowPrev)
}

func (e *Editor) step(move func() (types.Range, error)) (types.Range, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.modes.Require("show match", mode.Search, mode.Replace, mode.ReplaceAll); err != nil {
		return types.Range{}, e.reject(err)
	}
	r, err := move()
	if err != nil {
		if errors.Is(err, find.ErrSingleMatch) {
			// one match: nothing to cycle to
			e.notifier.Bell()
			return r, err
		}
		return r, e.reject(err)
	}
	e.notifier.SetTitle(fmt.Sprintf("Search: %d/%d", e.finder.PositionInSet(), e.finder.Count()))
	e.showFoundLocked()
	return r, nil
}

// SubmitReplacement arms the replace session with newWord.
func (e *Editor) SubmitReplacement(newWord string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.modes.Require("replace", mode.Replace, mode.ReplaceAll); err != nil {
		return e.reject(err)
	}
	if err := e.finder.BeginReplace(newWord); err != nil {
		return e.reject(err)
	}
	format := "Replacing %d matches of %s with: %s"
	if e.modes.Current() == mode.ReplaceAll {
		format = "Replacing ALL %d matches of %s with: %s"
	}
	e.notifier.SetTitle(fmt.Sprintf(format, e.finder.Remaining(), e.finder.Query(), newWord))
	return nil
}

// ReplaceNext replaces the highlighted match. The session ends, back in
// Normal mode, once no match is left; done reports that.
func (e *Editor) ReplaceNext() (done bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.modes.Require("replace", mode.Replace); err != nil {
		return false, e.reject(err)
	}
	query, newWord := e.finder.Query(), e.finder.NewWord()
	done, err = e.finder.ReplaceCurrent()
	if err != nil && !errors.Is(err, find.ErrStaleMatches) {
		return false, e.reject(err)
	}
	if done {
		e.leaveModeLocked()
		if err != nil {
			return true, e.reject(err)
		}
		return true, nil
	}
	e.notifier.SetTitle(fmt.Sprintf("Replacing %d matches of %s with: %s", e.finder.Remaining(), query, newWord))
	e.showFoundLocked()
	return false, nil
}

// ReplaceAll replaces every scheduled match and returns to Normal mode.
func (e *Editor) ReplaceAll() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.modes.Require("replace all", mode.ReplaceAll); err != nil {
		return 0, e.reject(err)
	}
	n, err := e.finder.ReplaceAll()
	e.leaveModeLocked()
	if err != nil {
		return n, e.reject(err)
	}
	e.notifier.SetTemporaryMessage("Replaced %d matches", n)
	return n, nil
}

// StopSearch ends a search or replace session.
func (e *Editor) StopSearch() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.modes.Require("stop search", mode.Search, mode.Replace, mode.ReplaceAll); err != nil {
		return e.reject(err)
	}
	e.leaveModeLocked()
	return nil
}

// SearchNext finds the next occurrence of the last query after the
// cursor in Normal mode, wrapping to the top, and selects it.
func (e *Editor) SearchNext() (types.Range, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireNormal("search next"); err != nil {
		return types.Range{}, e.reject(err)
	}
	from := e.buf.Cursor()
	if sel, ok := e.buf.Selection(); ok && sel.Start == from {
		from = sel.End
	}
	r, err := e.finder.FindFrom(from)
	if err != nil {
		return types.Range{}, e.reject(err)
	}
	_ = e.buf.SetSelection(r)
	_ = e.buf.SetCursor(r.End)
	return r, nil
}

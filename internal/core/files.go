package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bethropolis/quill/internal/event"
	"github.com/bethropolis/quill/internal/fileio"
	"github.com/bethropolis/quill/internal/logger"
	"github.com/bethropolis/quill/internal/session"
	"github.com/bethropolis/quill/internal/types"
	"github.com/bethropolis/quill/internal/utils"
)

// resolvePath makes path absolute, relative to the working directory.
func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", ErrNoPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}

func (e *Editor) allowedLocked(path string) bool {
	if len(e.extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, want := range e.extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// flush writes a Bound tab with its indentation renormalized. The tab
// keeps its old content when the write fails.
func (e *Editor) flush(t *session.Tab) error {
	tabbed := utils.TabifyText(t.Content, e.tabWidth)
	if err := fileio.WriteDocument(t.Path, tabbed); err != nil {
		return err
	}
	t.Content = tabbed
	e.events.Dispatch(event.TypeBufferSaved, event.BufferSavedData{FilePath: t.Path})
	return nil
}

// showSavedLocked puts the text that was written back into the buffer,
// keeping the cursor where it was as far as possible, and marks it clean.
func (e *Editor) showSavedLocked(tabbed string) {
	if tabbed != e.buf.Text() {
		cur := e.buf.Cursor()
		e.buf.SetText(tabbed)
		_ = e.buf.SetCursor(e.buf.Clamp(cur))
	}
	e.buf.MarkClean()
}

// NewTab opens an untitled tab after the active one.
func (e *Editor) NewTab() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireNormal("new tab"); err != nil {
		return e.reject(err)
	}
	if err := e.session.NewTab(); err != nil {
		return e.reject(err)
	}
	e.tabChangedLocked()
	return nil
}

// DeleteTab closes the active tab, saving it first if it is bound to a file.
func (e *Editor) DeleteTab() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireNormal("close tab"); err != nil {
		return e.reject(err)
	}
	if err := e.session.DeleteTab(e.flush); err != nil {
		return e.reject(err)
	}
	e.tabChangedLocked()
	return nil
}

// Walk activates the next (dir > 0) or previous tab.
func (e *Editor) Walk(dir int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireNormal("walk tabs"); err != nil {
		return e.reject(err)
	}
	if err := e.session.Walk(dir); err != nil {
		return e.reject(err)
	}
	e.tabChangedLocked()
	return nil
}

// Open loads path. An untitled tab holding text keeps it: the file then
// opens in a new tab. Otherwise the file replaces the active tab, which is
// saved first when it is bound.
func (e *Editor) Open(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireNormal("open"); err != nil {
		return e.reject(err)
	}
	abs, err := resolvePath(path)
	if err != nil {
		return e.reject(err)
	}
	if !e.allowedLocked(abs) {
		return e.reject(fmt.Errorf("%w: %s", ErrExtension, filepath.Base(abs)))
	}
	if e.session.FindPath(abs) >= 0 {
		return e.reject(fmt.Errorf("%w: %s", session.ErrAlreadyOpen, abs))
	}

	active := e.session.Active()
	if active.Kind == session.Untitled && e.buf.Text() != "" {
		content, err := fileio.ReadDocument(abs)
		if err != nil {
			return e.reject(err)
		}
		if err := e.session.OpenBound(abs, content, types.Start); err != nil {
			return e.reject(err)
		}
	} else if err := e.session.Load(abs, fileio.ReadDocument, e.flush); err != nil {
		return e.reject(err)
	}

	e.lastDir = filepath.Dir(abs)
	logger.Infof("opened %s", abs)
	e.events.Dispatch(event.TypeBufferLoaded, event.BufferLoadedData{FilePath: abs})
	e.tabChangedLocked()
	return nil
}

// Save writes the active tab. An empty path means the tab's own file.
// An untitled tab becomes bound to path. A bound tab saved under another
// path opens that path as a new tab with the same text. Existing files
// and paths open in other tabs are never overwritten.
func (e *Editor) Save(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireNormal("save"); err != nil {
		return e.reject(err)
	}
	active := e.session.Active()
	if strings.TrimSpace(path) == "" {
		path = active.Path
	}
	abs, err := resolvePath(path)
	if err != nil {
		return e.reject(err)
	}

	if active.Kind == session.Bound && abs == active.Path {
		return e.saveActiveLocked()
	}
	if e.session.FindPath(abs) >= 0 {
		return e.reject(fmt.Errorf("%w: %s", session.ErrAlreadyOpen, abs))
	}
	if fileio.Exists(abs) {
		return e.reject(fmt.Errorf("%w: %s", ErrWouldOverwrite, abs))
	}

	content := utils.TabifyText(e.buf.Text(), e.tabWidth)
	if err := fileio.WriteDocument(abs, content); err != nil {
		return e.reject(err)
	}
	if active.Kind == session.Untitled {
		e.showSavedLocked(content)
		e.session.Bind(abs)
	} else if err := e.session.OpenBound(abs, content, e.buf.Clamp(e.buf.Cursor())); err != nil {
		return e.reject(err)
	}

	e.lastDir = filepath.Dir(abs)
	e.events.Dispatch(event.TypeBufferSaved, event.BufferSavedData{FilePath: abs})
	e.tabChangedLocked()
	return nil
}

func (e *Editor) saveActiveLocked() error {
	e.session.Snapshot()
	active := e.session.Active()
	if err := e.flush(active); err != nil {
		return e.reject(err)
	}
	e.showSavedLocked(active.Content)
	e.normalTitleLocked()
	return nil
}

// forcedSaveLocked writes every bound tab (only the active one when
// saveAll is off) and then shows the active tab renormalized. Untitled
// tabs are not written; their remembered cursor goes back to the start.
// On a failed write the buffer is left as it was.
func (e *Editor) forcedSaveLocked() error {
	e.session.Snapshot()
	activeIdx := e.session.ActiveIndex()

	var firstErr error
	e.session.ForEach(func(i int, t *session.Tab) {
		switch {
		case t.Kind == session.Untitled:
			if i != activeIdx {
				t.Position = types.Start
			}
		case e.saveAll || i == activeIdx:
			if err := e.flush(t); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	})
	if firstErr != nil {
		return firstErr
	}
	e.showSavedLocked(utils.TabifyText(e.buf.Text(), e.tabWidth))
	return nil
}

// SaveAll writes every bound tab.
func (e *Editor) SaveAll() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireNormal("save all"); err != nil {
		return e.reject(err)
	}
	if err := e.forcedSaveLocked(); err != nil {
		return e.reject(err)
	}
	return nil
}

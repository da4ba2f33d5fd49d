package core

import (
	"errors"

	"github.com/bethropolis/quill/internal/event"
	"github.com/bethropolis/quill/internal/fileio"
	"github.com/bethropolis/quill/internal/logger"
	"github.com/bethropolis/quill/internal/store"
)

// RestoreSession loads the session record and reopens its tabs. A
// malformed record is reported and the defaults stay in place.
func (e *Editor) RestoreSession() error {
	if e.store == nil {
		return nil
	}
	rec, err := e.store.Load()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.prefs = rec.Prefs
	e.lastDir = rec.RestoreLastDir()
	if tabs := rec.Restore(fileio.ReadDocument); len(tabs) > 0 {
		e.session.Replace(tabs)
	}
	e.tabChangedLocked()

	var cerr *store.ConfigError
	if errors.As(err, &cerr) {
		e.notifier.SetTemporaryMessage("%v", err)
	}
	return err
}

// record builds the persisted form of the session.
func (e *Editor) recordLocked() store.Record {
	tabs := e.session.Tabs()
	active := e.session.ActiveIndex()
	tabs[active].Content = e.buf.Text()
	tabs[active].Position = e.buf.Cursor()
	if e.parked != nil {
		tabs[active].Content = e.parked.content
		tabs[active].Position = e.parked.cursor
	}
	return store.Record{Prefs: e.prefs, LastDir: e.lastDir, Tabs: store.FromTabs(tabs)}
}

// SaveSession writes the session record.
func (e *Editor) SaveSession() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveSessionLocked()
}

func (e *Editor) saveSessionLocked() error {
	if e.store == nil {
		return nil
	}
	if err := e.store.Save(e.recordLocked()); err != nil {
		return e.reject(err)
	}
	return nil
}

// Quit leaves any mode, writes every bound tab and the session record.
// Both writes are attempted; the first error is returned.
func (e *Editor) Quit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.leaveModeLocked()

	err := e.forcedSaveLocked()
	if err != nil {
		logger.Errorf("quit: %v", err)
	}
	if serr := e.saveSessionLocked(); err == nil {
		err = serr
	}
	e.events.Dispatch(event.TypeAppQuit, event.AppQuitData{})
	return err
}

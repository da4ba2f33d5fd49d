package core

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bethropolis/quill/internal/event"
	"github.com/bethropolis/quill/internal/fileio"
	"github.com/bethropolis/quill/internal/logger"
	"github.com/bethropolis/quill/internal/mode"
	"github.com/bethropolis/quill/internal/runner"
	"github.com/bethropolis/quill/internal/session"
	"github.com/bethropolis/quill/internal/types"
)

// Run saves and executes the active file. It blocks until the program
// exits. A non-zero exit shows the parsed error trace in ErrorView.
func (e *Editor) Run(ctx context.Context) (runner.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireNormal("run"); err != nil {
		return runner.Result{}, e.reject(err)
	}
	active := e.session.Active()
	if active.Kind != session.Bound {
		return runner.Result{}, e.reject(&mode.StateError{Mode: mode.Normal, Op: "run untitled tab"})
	}
	path := active.Path

	if err := e.forcedSaveLocked(); err != nil {
		return runner.Result{}, e.reject(err)
	}

	logger.Infof("running %s", path)
	res, err := e.producer.Run(ctx, path)
	if err != nil {
		return res, e.reject(fmt.Errorf("run %s: %w", filepath.Base(path), err))
	}
	if len(res.Stdout) > 0 {
		logger.Infof("run output:\n%s", res.Stdout)
	}

	if !res.Failed() {
		e.notifier.SetTemporaryMessage("%s finished", filepath.Base(path))
		e.events.Dispatch(event.TypeRunFinished, event.RunFinishedData{FilePath: path})
		return res, nil
	}

	e.trace = runner.ParseTrace(string(res.Stderr))
	logger.Warnf("run of %s exited with %d, %d error links", path, res.ExitCode, len(e.trace.Locations))
	e.events.Dispatch(event.TypeRunFinished, event.RunFinishedData{
		FilePath: path,
		ExitCode: res.ExitCode,
		Links:    len(e.trace.Locations),
	})
	if len(e.trace.Lines) == 0 {
		e.notifier.SetTemporaryMessage("%s exited with status %d", filepath.Base(path), res.ExitCode)
		return res, nil
	}
	if err := e.showTraceLocked(); err != nil {
		return res, e.reject(err)
	}
	return res, nil
}

func (e *Editor) showTraceLocked() error {
	if err := e.modes.EnterErrorView(); err != nil {
		return err
	}
	e.parkLocked(e.trace.Text())
	e.notifier.SetTitle(fmt.Sprintf("Errors: %d links", len(e.trace.Locations)))
	return nil
}

// ShowErrors shows the trace of the last failed run again.
func (e *Editor) ShowErrors() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireNormal("show errors"); err != nil {
		return e.reject(err)
	}
	if e.trace == nil || len(e.trace.Lines) == 0 {
		return e.reject(ErrNoTrace)
	}
	e.trace.Reset()
	if err := e.showTraceLocked(); err != nil {
		return e.reject(err)
	}
	return nil
}

// FollowLink jumps to the location linked from line n of the error view.
func (e *Editor) FollowLink(n int) (types.Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.modes.Require("follow link", mode.ErrorView); err != nil {
		return types.Position{}, e.reject(err)
	}
	if n < 1 || n > len(e.trace.Lines) || e.trace.Lines[n-1].Link < 0 {
		return types.Position{}, e.reject(ErrNoLink)
	}
	loc, _ := e.trace.Select(e.trace.Lines[n-1].Link)
	return e.jumpLocked(loc)
}

// FollowCursor follows the link on the cursor line of the error view.
func (e *Editor) FollowCursor() (types.Position, error) {
	e.mu.Lock()
	line := e.buf.Cursor().Line
	e.mu.Unlock()
	return e.FollowLink(line)
}

// NextError jumps to the next location of the last trace, cycling. It
// works from the error view and from Normal mode.
func (e *Editor) NextError() (types.Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.modes.Require("next error", mode.Normal, mode.ErrorView); err != nil {
		return types.Position{}, e.reject(err)
	}
	if e.trace.Empty() {
		return types.Position{}, e.reject(ErrNoTrace)
	}
	loc, _ := e.trace.Next()
	return e.jumpLocked(loc)
}

// jumpLocked leaves the error view, then moves to loc, opening its file
// in a new tab when it is not open yet.
func (e *Editor) jumpLocked(loc runner.Location) (types.Position, error) {
	e.leaveModeLocked()
	path := loc.Path
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	pos, err := e.session.JumpTo(path, loc.Line, fileio.ReadDocument)
	if err != nil {
		return types.Position{}, e.reject(err)
	}
	e.tabChangedLocked()
	return pos, nil
}

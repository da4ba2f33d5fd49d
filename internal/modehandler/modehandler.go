// internal/modehandler/modehandler.go
package modehandler

import (
	"context"
	"path/filepath"

	"github.com/bethropolis/quill/internal/core"
	"github.com/bethropolis/quill/internal/input"
	"github.com/bethropolis/quill/internal/logger"
	"github.com/bethropolis/quill/internal/mode"
	"github.com/bethropolis/quill/internal/statusbar"
	"github.com/gdamore/tcell/v2"
)

// ModeHandler turns commands into editor operations. It owns the text of
// the prompt being typed; everything else lives in the editor.
type ModeHandler struct {
	editor         *core.Editor
	inputProcessor *input.InputProcessor
	statusBar      *statusbar.StatusBar

	prompt           Prompt
	promptBuf        string
	savedTitle       string
	forceQuitPending bool
}

// Config holds dependencies for the ModeHandler.
type Config struct {
	Editor         *core.Editor
	InputProcessor *input.InputProcessor // nil for the default bindings
	StatusBar      *statusbar.StatusBar
}

// New creates a new ModeHandler.
func New(cfg Config) *ModeHandler {
	if cfg.Editor == nil || cfg.StatusBar == nil {
		panic("modehandler.New: Missing required dependencies in Config")
	}
	if cfg.InputProcessor == nil {
		cfg.InputProcessor = input.NewInputProcessor()
	}
	return &ModeHandler{
		editor:         cfg.Editor,
		inputProcessor: cfg.InputProcessor,
		statusBar:      cfg.StatusBar,
	}
}

// State reports the mode, search phase and open prompt.
func (mh *ModeHandler) State() State {
	s := State{Mode: mh.editor.Mode(), Prompt: mh.prompt}
	switch s.Mode {
	case mode.Search, mode.Replace, mode.ReplaceAll:
		searching, replacing := mh.editor.SearchState()
		switch {
		case !searching:
			s.Phase = PhaseQuery
		case s.Mode == mode.Search:
			s.Phase = PhaseBrowse
		case !replacing:
			s.Phase = PhaseReplacement
		default:
			s.Phase = PhaseConfirm
		}
	}
	return s
}

// PromptText returns what has been typed into the current prompt.
func (mh *ModeHandler) PromptText() string {
	return mh.promptBuf
}

// HandleKeyEvent decodes a key press and handles it. quit reports that
// the application should exit.
func (mh *ModeHandler) HandleKeyEvent(ctx context.Context, ev *tcell.EventKey) (quit bool, err error) {
	return mh.Handle(ctx, mh.inputProcessor.ProcessEvent(ev))
}

// Handle runs one command. A command line argument answers the prompt the
// command opens, so "search foo" both enters Search mode and submits foo.
func (mh *ModeHandler) Handle(ctx context.Context, ev input.CommandEvent) (quit bool, err error) {
	before := mh.editor.Mode()
	if ev.Command != input.CommandQuit {
		mh.forceQuitPending = false
	}

	if ev.Arg != "" {
		quit, err = mh.handleWithArg(ctx, ev)
	} else {
		act := Dispatch(mh.State(), ev.Command)
		logger.DebugTagf("input", "%s -> %s", ev.Command, act)
		quit, err = mh.executeAction(ctx, act, ev)
	}

	if after := mh.editor.Mode(); after != before {
		mh.promptBuf = ""
	}
	return quit, err
}

// handleWithArg runs a command that came with its argument: the command
// itself, then the argument typed and submitted.
func (mh *ModeHandler) handleWithArg(ctx context.Context, ev input.CommandEvent) (bool, error) {
	switch ev.Command {
	case input.CommandSubmit:
		mh.promptBuf = ev.Arg
		return mh.Handle(ctx, input.CommandEvent{Command: input.CommandSubmit})
	case input.CommandInsertRune:
		act := Dispatch(mh.State(), ev.Command)
		return mh.executeAction(ctx, act, ev)
	}

	if quit, err := mh.Handle(ctx, input.CommandEvent{Command: ev.Command}); quit || err != nil {
		return quit, err
	}
	if !opensPrompt[ev.Command] {
		return false, nil
	}
	switch phase := mh.State().Phase; {
	case phase == PhaseQuery, mh.prompt != PromptNone:
	default:
		return false, nil
	}
	mh.promptBuf = ev.Arg
	return mh.Handle(ctx, input.CommandEvent{Command: input.CommandSubmit})
}

var opensPrompt = map[input.Command]bool{
	input.CommandSearch:     true,
	input.CommandReplace:    true,
	input.CommandReplaceAll: true,
	input.CommandGotoLine:   true,
	input.CommandOpen:       true,
	input.CommandSave:       true,
}

// openPrompt asks a question in Normal mode; the title is restored when
// the prompt closes.
func (mh *ModeHandler) openPrompt(p Prompt, title, initial string) {
	if mh.prompt == PromptNone {
		mh.savedTitle = mh.statusBar.Title()
	}
	mh.prompt = p
	mh.promptBuf = initial
	if title != "" {
		mh.statusBar.SetTitle(title)
	}
}

// closePrompt drops the prompt. A cancelled prompt puts the old title
// back; an answered one leaves the title the editor set.
func (mh *ModeHandler) closePrompt(cancelled bool) {
	if mh.prompt == PromptNone {
		return
	}
	mh.prompt = PromptNone
	mh.promptBuf = ""
	if cancelled {
		mh.statusBar.SetTitle(mh.savedTitle)
	}
}

// activePath returns the file of the active tab, or "".
func (mh *ModeHandler) activePath() string {
	tabs := mh.editor.Tabs()
	return tabs[mh.editor.ActiveIndex()].Path
}

// openDir is where the open prompt starts.
func (mh *ModeHandler) openDir() string {
	dir := mh.editor.LastDir()
	if dir == "" {
		return ""
	}
	return dir + string(filepath.Separator)
}

package modehandler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bethropolis/quill/internal/input"
	"github.com/bethropolis/quill/internal/logger"
)

// ErrBadLineNumber is returned when the goto prompt does not hold a number.
var ErrBadLineNumber = errors.New("not a line number")

// moveDeltas are the line and column steps of the cursor commands.
var moveDeltas = map[input.Command]struct{ line, col int }{
	input.CommandMoveLeft:  {0, -1},
	input.CommandMoveRight: {0, 1},
	input.CommandMoveUp:    {-1, 0},
	input.CommandMoveDown:  {1, 0},
}

// executeAction performs act. Editor errors have already been reported to
// the user by the editor; they are returned for the caller to log.
func (mh *ModeHandler) executeAction(ctx context.Context, act Action, ev input.CommandEvent) (bool, error) {
	e := mh.editor
	var err error

	switch act {
	case ActIgnore:
	case ActBell:
		mh.statusBar.Bell()

	// --- Prompt text ---
	case ActPromptAppend:
		if ev.Arg != "" {
			mh.promptBuf += ev.Arg
		} else {
			mh.promptBuf += string(ev.Rune)
		}
	case ActPromptBackspace:
		if mh.promptBuf == "" {
			mh.statusBar.Bell()
			break
		}
		_, size := utf8.DecodeLastRuneInString(mh.promptBuf)
		mh.promptBuf = mh.promptBuf[:len(mh.promptBuf)-size]
	case ActPromptClose:
		mh.closePrompt(true)
	case ActPromptSubmit:
		err = mh.submitPrompt()
	case ActGotoPrompt:
		mh.openPrompt(PromptGoto, "", "")
		if err = e.PromptGotoLine(); err != nil {
			mh.closePrompt(true)
		}
	case ActOpenPrompt:
		mh.openPrompt(PromptOpen, "Open:", mh.openDir())
	case ActSavePrompt:
		mh.openPrompt(PromptSave, "Save as:", mh.activePath())

	// --- Editing ---
	case ActInsert:
		text := ev.Arg
		if text == "" {
			text = string(ev.Rune)
		}
		err = e.InsertText(text)
	case ActNewline:
		err = e.Newline()
	case ActDeleteBackward:
		err = e.DeleteBackward()
	case ActIndent:
		err = e.Indent()
	case ActUnindent:
		err = e.Unindent()
	case ActComment:
		err = e.Comment()
	case ActUncomment:
		err = e.Uncomment()
	case ActSelectAll:
		err = e.SelectAll()
	case ActCopy:
		_, err = e.Copy()
	case ActPaste:
		err = e.Paste()

	// --- Search and replace ---
	case ActEnterSearch:
		err = e.EnterSearch()
	case ActEnterReplace:
		err = e.EnterReplace(false)
	case ActEnterReplaceAll:
		err = e.EnterReplace(true)
	case ActSubmitQuery:
		if _, err = e.SubmitQuery(mh.promptBuf); err == nil {
			mh.promptBuf = ""
		}
	case ActSubmitReplacement:
		if err = e.SubmitReplacement(mh.promptBuf); err == nil {
			mh.promptBuf = ""
		}
	case ActReplaceNext:
		_, err = e.ReplaceNext()
	case ActReplaceAll:
		_, err = e.ReplaceAll()
	case ActShowNext:
		_, err = e.ShowNext()
	case ActShowPrev:
		_, err = e.ShowPrev()
	case ActSearchNext:
		_, err = e.SearchNext()
	case ActCancel:
		e.Cancel()

	// --- Tabs ---
	case ActNewTab:
		err = e.NewTab()
	case ActDeleteTab:
		err = e.DeleteTab()
	case ActNextTab:
		err = e.Walk(1)
	case ActPrevTab:
		err = e.Walk(-1)

	// --- Run ---
	case ActRun:
		_, err = e.Run(ctx)
	case ActShowErrors:
		err = e.ShowErrors()
	case ActFollowCursor:
		_, err = e.FollowCursor()
	case ActNextError:
		_, err = e.NextError()

	// --- View ---
	case ActMoveCursor:
		d := moveDeltas[ev.Command]
		if !e.MoveCursor(d.line, d.col) {
			mh.statusBar.Bell()
		}
	case ActHelp:
		err = e.Help()
	case ActToggleColor:
		p := e.ToggleColor()
		mh.statusBar.SetTemporaryMessage("Palette: %s", p)
	case ActWiderScrollbar:
		err = e.WiderScrollbar()
	case ActNarrowerScrollbar:
		err = e.NarrowerScrollbar()

	case ActQuit:
		return mh.quit()

	default:
		logger.Warnf("modehandler: unhandled action %s", act)
	}
	return false, err
}

// submitPrompt answers the open Normal mode prompt. The prompt stays open
// when the answer is refused so it can be corrected.
func (mh *ModeHandler) submitPrompt() error {
	text := strings.TrimSpace(mh.promptBuf)
	var err error
	switch mh.prompt {
	case PromptGoto:
		n, perr := strconv.Atoi(text)
		if perr != nil {
			mh.statusBar.Bell()
			mh.statusBar.SetTemporaryMessage("%q is %v", text, ErrBadLineNumber)
			return fmt.Errorf("%w: %q", ErrBadLineNumber, text)
		}
		err = mh.editor.GotoLine(n)
	case PromptOpen:
		err = mh.editor.Open(text)
	case PromptSave:
		err = mh.editor.Save(text)
	}
	if err != nil {
		return err
	}
	mh.closePrompt(false)
	return nil
}

// quit saves and reports that the application may exit. When saving
// fails the first request is refused; a second one quits anyway.
func (mh *ModeHandler) quit() (bool, error) {
	mh.closePrompt(true)
	err := mh.editor.Quit()
	if err == nil || mh.forceQuitPending {
		return true, err
	}
	mh.forceQuitPending = true
	mh.statusBar.SetTemporaryMessage("Saving failed: %v. Quit again to leave anyway.", err)
	return false, err
}

package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/bethropolis/quill/internal/modehandler"
	"github.com/bethropolis/quill/internal/tui"
)

// updateStatusBarContent pushes the current editor state to the status bar.
func (a *App) updateStatusBarContent() {
	a.statusBar.SetFileInfo(a.activeTab().Path, a.editor.Modified())
	a.statusBar.SetCursorInfo(a.editor.Cursor())
}

// drawStatus writes the status line, and the prompt when one is open.
func (a *App) drawStatus(out io.Writer) {
	fmt.Fprintln(out, strings.TrimRight(a.statusBar.Render(a.width), " "))
	if p := a.modeHandler.PromptText(); p != "" {
		fmt.Fprintf(out, "> %s\n", p)
	}
}

// promptOpen reports whether the user is typing into a prompt.
func (a *App) promptOpen() bool {
	s := a.modeHandler.State()
	return s.Prompt != modehandler.PromptNone || s.Phase == modehandler.PhaseQuery || s.Phase == modehandler.PhaseReplacement
}

// draw redraws the whole screen from the editor state.
func (a *App) draw(ui *tui.TUI) {
	width, _ := ui.Size()
	sel, selected := a.editor.Selection()
	fg, bg := a.editor.Prefs().Colors()
	ui.Draw(tui.View{
		Lines:      strings.Split(a.editor.Text(), "\n"),
		Cursor:     a.editor.Cursor(),
		Selection:  sel,
		Selected:   selected,
		Fg:         fg,
		Bg:         bg,
		Status:     a.statusBar.Render(width),
		PromptOpen: a.promptOpen(),
		Prompt:     a.modeHandler.PromptText(),
	})
}

// builtin handles the commands that only inspect the editor.
func (a *App) builtin(line string, out io.Writer) bool {
	switch strings.TrimSpace(line) {
	case "text":
		fmt.Fprintln(out, a.editor.Text())
	case "tabs":
		active := a.editor.ActiveIndex()
		for i, t := range a.editor.Tabs() {
			marker := " "
			if i == active {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %d %s %s\n", marker, i+1, t.Title(), t.Position)
		}
	case "status":
		fmt.Fprintln(out, a.statusBar.Text())
	default:
		return false
	}
	return true
}

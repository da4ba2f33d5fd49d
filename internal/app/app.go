// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bethropolis/quill/internal/clipboard"
	"github.com/bethropolis/quill/internal/config"
	"github.com/bethropolis/quill/internal/core"
	"github.com/bethropolis/quill/internal/event"
	"github.com/bethropolis/quill/internal/fileio"
	"github.com/bethropolis/quill/internal/input"
	"github.com/bethropolis/quill/internal/logger"
	"github.com/bethropolis/quill/internal/modehandler"
	"github.com/bethropolis/quill/internal/runner"
	"github.com/bethropolis/quill/internal/session"
	"github.com/bethropolis/quill/internal/statusbar"
	"github.com/bethropolis/quill/internal/store"
	"github.com/bethropolis/quill/internal/tui"
	"github.com/gdamore/tcell/v2"
)

// App wires the editor to its collaborators and drives it from a stream
// of command lines or from a terminal screen.
type App struct {
	editor       *core.Editor
	statusBar    *statusbar.StatusBar
	eventManager *event.Manager
	modeHandler  *modehandler.ModeHandler

	width int // status line width
}

// NewApp builds the editor from cfg, restores the last session and opens
// files in tabs of their own.
func NewApp(cfg *config.Config, files []string) (*App, error) {
	helpText := ""
	if cfg.Editor.HelpFile != "" {
		text, err := fileio.ReadDocument(cfg.Editor.HelpFile)
		if err != nil {
			logger.Warnf("App: help file: %v", err)
		} else {
			helpText = text
		}
	}

	statusBar := statusbar.New(statusbar.DefaultConfig())
	eventManager := event.NewManager()
	statusBar.Subscribe(eventManager)

	editor := core.NewEditor(core.Options{
		TabWidth:   cfg.Editor.TabWidth,
		Extensions: cfg.Editor.Extensions,
		HelpText:   helpText,
		SaveAll:    cfg.Run.SaveAllEnabled(),
		Producer:   runner.NewShell(cfg.Run.Command, cfg.Run.Timeout.Duration),
		Clipboard:  clipboard.New(cfg.Clipboard.Enabled()),
		Notifier:   statusBar,
		Events:     eventManager,
		Store:      store.New(cfg.Editor.SessionFile),
	})

	a := &App{
		editor:       editor,
		statusBar:    statusBar,
		eventManager: eventManager,
		modeHandler:  modehandler.New(modehandler.Config{Editor: editor, StatusBar: statusBar}),
		width:        80,
	}
	a.subscribe()

	var cfgErr *store.ConfigError
	if err := editor.RestoreSession(); err != nil && !errors.As(err, &cfgErr) {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	for _, f := range files {
		a.openFile(f)
	}
	a.updateStatusBarContent()
	return a, nil
}

// openFile opens path in a new tab unless a tab already shows it.
func (a *App) openFile(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		logger.Warnf("App: %s: %v", path, err)
		return
	}
	for _, t := range a.editor.Tabs() {
		if t.Path == abs {
			logger.Debugf("App: %s already open", abs)
			return
		}
	}
	if fresh := a.activeTab().Kind == session.Untitled && a.editor.Text() == ""; !fresh {
		if err := a.editor.NewTab(); err != nil {
			logger.Warnf("App: new tab for %s: %v", abs, err)
			return
		}
	}
	if err := a.editor.Open(abs); err != nil {
		logger.Warnf("App: open %s: %v", abs, err)
	}
}

// Editor exposes the editor for embedding and tests.
func (a *App) Editor() *core.Editor {
	return a.editor
}

// Run reads command lines from in until quit or end of input, writing the
// status line to out after each one. End of input quits as well, so the
// session is always saved.
func (a *App) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	a.start("F1 or \"help\" for keys, \"quit\" to leave")
	a.drawStatus(out)

	lines := readLines(ctx, in)
	for {
		var line string
		select {
		case <-ctx.Done():
			logger.Infof("App: %v, quitting", ctx.Err())
			return a.quitNow(context.WithoutCancel(ctx))
		case l, ok := <-lines:
			if !ok {
				return a.quitNow(ctx)
			}
			line = l
		}
		if strings.TrimSpace(line) == "" || a.builtin(line, out) {
			continue
		}

		ev, ok := input.ParseLine(line)
		if !ok {
			a.statusBar.Bell()
			a.statusBar.SetTemporaryMessage("Unknown command: %s", strings.Fields(line)[0])
			a.drawStatus(out)
			continue
		}
		if ev.Command == input.CommandInsertRune || ev.Command == input.CommandSubmit {
			ev.Arg = unescape(ev.Arg)
		}
		quit, err := a.modeHandler.Handle(ctx, ev)
		if err != nil {
			logger.Debugf("App: %s: %v", ev.Command, err)
		}
		if quit {
			logger.Infof("App: quit")
			return err
		}
		a.updateStatusBarContent()
		a.drawStatus(out)
	}
}

// RunScreen drives the editor from key presses on ui until quit. Closing
// the screen quits as well.
func (a *App) RunScreen(ctx context.Context, ui *tui.TUI) error {
	a.start("F1 for keys, Ctrl-Q to leave")
	a.draw(ui)

	events := pollEvents(ctx, ui)
	for {
		var ev tcell.Event
		select {
		case <-ctx.Done():
			logger.Infof("App: %v, quitting", ctx.Err())
			return a.quitNow(context.WithoutCancel(ctx))
		case e, ok := <-events:
			if !ok {
				return a.quitNow(ctx)
			}
			ev = e
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			quit, err := a.modeHandler.HandleKeyEvent(ctx, ev)
			if err != nil {
				logger.Debugf("App: key %s: %v", ev.Name(), err)
			}
			if quit {
				logger.Infof("App: quit")
				return err
			}
		case *tcell.EventResize:
			ui.Sync()
		}
		a.updateStatusBarContent()
		a.draw(ui)
	}
}

// pollEvents feeds the screen's events to the returned channel, which is
// closed when the screen is.
func pollEvents(ctx context.Context, ui *tui.TUI) <-chan tcell.Event {
	events := make(chan tcell.Event)
	go func() {
		defer close(events)
		for {
			ev := ui.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events
}

// start announces the active tab and greets the user with hint.
func (a *App) start(hint string) {
	a.eventManager.Dispatch(event.TypeTabChanged, event.TabChangedData{
		Index: a.editor.ActiveIndex(),
		Count: len(a.editor.Tabs()),
		Title: a.activeTab().Title(),
	})
	a.statusBar.SetTemporaryMessage("Quill %s - %s", config.Version, hint)
}

// readLines feeds the lines of in to the returned channel, which is
// closed at end of input.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Errorf("App: reading commands: %v", err)
		}
	}()
	return lines
}

// quitNow quits on behalf of a closed input, asking twice if needed.
func (a *App) quitNow(ctx context.Context) error {
	quitEv := input.CommandEvent{Command: input.CommandQuit}
	quit, err := a.modeHandler.Handle(ctx, quitEv)
	if !quit {
		_, err = a.modeHandler.Handle(ctx, quitEv)
	}
	return err
}

func (a *App) activeTab() session.Tab {
	return a.editor.Tabs()[a.editor.ActiveIndex()]
}

var escapes = strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\\`, `\`)

// unescape lets one command line carry newlines and tabs.
func unescape(s string) string {
	return escapes.Replace(s)
}

package modehandler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/bethropolis/quill/internal/core"
	"github.com/bethropolis/quill/internal/input"
	"github.com/bethropolis/quill/internal/mode"
	"github.com/bethropolis/quill/internal/runner"
	"github.com/bethropolis/quill/internal/statusbar"
	"github.com/bethropolis/quill/internal/store"
	"github.com/bethropolis/quill/internal/types"
	"github.com/gdamore/tcell/v2"
)

type stubProducer struct {
	res runner.Result
}

func (p stubProducer) Run(context.Context, string) (runner.Result, error) {
	return p.res, nil
}

type fixture struct {
	mh     *ModeHandler
	editor *core.Editor
	status *statusbar.StatusBar
	dir    string
}

func newFixture(t *testing.T, opts core.Options) *fixture {
	t.Helper()
	dir := t.TempDir()
	sb := statusbar.New(statusbar.DefaultConfig())
	opts.Notifier = sb
	if opts.Store == nil {
		opts.Store = store.New(filepath.Join(dir, store.DefaultFileName))
	}
	e := core.NewEditor(opts)
	return &fixture{
		mh:     New(Config{Editor: e, StatusBar: sb}),
		editor: e,
		status: sb,
		dir:    dir,
	}
}

func (f *fixture) do(t *testing.T, line string) error {
	t.Helper()
	ev, ok := input.ParseLine(line)
	if !ok {
		t.Fatalf("bad command line %q", line)
	}
	_, err := f.mh.Handle(context.Background(), ev)
	return err
}

func (f *fixture) keys(t *testing.T, evs ...*tcell.EventKey) {
	t.Helper()
	for _, ev := range evs {
		if _, err := f.mh.HandleKeyEvent(context.Background(), ev); err != nil {
			t.Fatalf("key %s: %v", ev.Name(), err)
		}
	}
}

func runes(s string) []*tcell.EventKey {
	var evs []*tcell.EventKey
	for _, r := range s {
		evs = append(evs, tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	return evs
}

var (
	enter  = tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)
	escape = tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)
	ctrlR  = tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl)
	altN   = tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModAlt)
)

func TestSearchFromCommandLine(t *testing.T) {
	f := newFixture(t, core.Options{})
	if err := f.do(t, "insert hello world hello"); err != nil {
		t.Fatal(err)
	}
	if err := f.do(t, "search hello"); err != nil {
		t.Fatal(err)
	}
	if s := f.mh.State(); s.Mode != mode.Search || s.Phase != PhaseBrowse {
		t.Fatalf("state = %+v", s)
	}
	if got := f.status.Title(); got != "Found: 2 matches" {
		t.Errorf("title = %q", got)
	}
	if err := f.do(t, "next"); err != nil {
		t.Fatal(err)
	}
	if got := f.status.Title(); got != "Search: 2/2" {
		t.Errorf("title = %q", got)
	}
	if err := f.do(t, "cancel"); err != nil {
		t.Fatal(err)
	}
	if f.editor.Mode() != mode.Normal || f.status.Title() != "Quill 1/1" {
		t.Errorf("mode %s title %q", f.editor.Mode(), f.status.Title())
	}
}

func TestReplaceWithKeys(t *testing.T) {
	f := newFixture(t, core.Options{})
	_ = f.do(t, "insert hello world hello")

	f.keys(t, ctrlR)
	if s := f.mh.State(); s.Phase != PhaseQuery {
		t.Fatalf("state = %+v", s)
	}
	f.keys(t, runes("hellx")...)
	f.keys(t, tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	f.keys(t, runes("o")...)
	if f.mh.PromptText() != "hello" {
		t.Fatalf("prompt = %q", f.mh.PromptText())
	}
	f.keys(t, enter)
	if s := f.mh.State(); s.Phase != PhaseReplacement || f.mh.PromptText() != "" {
		t.Fatalf("state = %+v prompt %q", s, f.mh.PromptText())
	}
	f.keys(t, runes("bye")...)
	f.keys(t, enter)
	if s := f.mh.State(); s.Phase != PhaseConfirm {
		t.Fatalf("state = %+v", s)
	}
	if got := f.status.Title(); got != "Replacing 2 matches of hello with: bye" {
		t.Errorf("title = %q", got)
	}
	f.keys(t, enter, enter)
	if f.editor.Mode() != mode.Normal {
		t.Errorf("mode = %s", f.editor.Mode())
	}
	if got := f.editor.Text(); got != "bye world bye" {
		t.Errorf("text = %q", got)
	}
}

func TestTypingBellsInBrowse(t *testing.T) {
	f := newFixture(t, core.Options{})
	_ = f.do(t, "insert abc abc")
	_ = f.do(t, "search abc")
	bells := f.status.Bells()
	f.keys(t, runes("x")...)
	if f.status.Bells() != bells+1 || f.editor.Text() != "abc abc" {
		t.Errorf("bells %d text %q", f.status.Bells(), f.editor.Text())
	}
}

func TestGotoPrompt(t *testing.T) {
	f := newFixture(t, core.Options{})
	_ = f.do(t, "insert a\nb\nc")
	if err := f.do(t, "goto 2"); err != nil {
		t.Fatal(err)
	}
	if f.editor.Cursor() != (types.Position{Line: 2}) || f.mh.State().Prompt != PromptNone {
		t.Errorf("cursor %s state %+v", f.editor.Cursor(), f.mh.State())
	}

	_ = f.do(t, "goto")
	if f.status.Title() != "Go to line, 1-3:" {
		t.Errorf("title = %q", f.status.Title())
	}
	if err := f.do(t, "submit x"); !errors.Is(err, ErrBadLineNumber) {
		t.Errorf("err = %v", err)
	}
	if err := f.do(t, "submit 9"); !errors.Is(err, core.ErrLineRange) {
		t.Errorf("err = %v", err)
	}
	if f.mh.State().Prompt != PromptGoto {
		t.Fatal("prompt closed after a refused answer")
	}
	f.keys(t, escape)
	if f.mh.State().Prompt != PromptNone || f.status.Title() != "Quill 1/1" {
		t.Errorf("state %+v title %q", f.mh.State(), f.status.Title())
	}
}

func TestSaveAndOpenPrompts(t *testing.T) {
	f := newFixture(t, core.Options{Extensions: []string{".py"}})
	_ = f.do(t, "insert print(1)")
	path := filepath.Join(f.dir, "one.py")
	if err := f.do(t, "save "+path); err != nil {
		t.Fatal(err)
	}
	if b, err := os.ReadFile(path); err != nil || string(b) != "print(1)" {
		t.Fatalf("saved %q, %v", b, err)
	}

	_ = f.do(t, "save")
	if f.mh.PromptText() != path {
		t.Errorf("save prompt starts with %q", f.mh.PromptText())
	}
	f.keys(t, escape)

	other := filepath.Join(f.dir, "two.py")
	if err := os.WriteFile(other, []byte("x = 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	_ = f.do(t, "open")
	if f.mh.PromptText() != f.dir+string(filepath.Separator) {
		t.Errorf("open prompt starts with %q", f.mh.PromptText())
	}
	if err := f.do(t, "submit "+other); err != nil {
		t.Fatal(err)
	}
	if f.editor.Text() != "x = 2" {
		t.Errorf("text = %q", f.editor.Text())
	}
}

func TestRunErrorViewWithKeys(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "boom.py")
	if err := os.WriteFile(doc, []byte("a = 1\nb()\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	stderr := fmt.Sprintf("Traceback (most recent call last):\n  File \"%s\", line 2, in <module>\nNameError", doc)
	f := newFixture(t, core.Options{Producer: stubProducer{runner.Result{Stderr: []byte(stderr), ExitCode: 1}}})
	if err := f.do(t, "open "+doc); err != nil {
		t.Fatal(err)
	}
	if err := f.do(t, "run"); err != nil {
		t.Fatal(err)
	}
	if f.editor.Mode() != mode.ErrorView {
		t.Fatalf("mode = %s", f.editor.Mode())
	}
	f.keys(t, runes("z")...)
	if f.editor.Text() != stderr {
		t.Error("error view is editable")
	}
	f.keys(t, altN)
	if f.editor.Mode() != mode.Normal || f.editor.Cursor() != (types.Position{Line: 2}) {
		t.Errorf("mode %s cursor %s", f.editor.Mode(), f.editor.Cursor())
	}
}

func TestQuit(t *testing.T) {
	f := newFixture(t, core.Options{})
	quit, err := f.mh.Handle(context.Background(), input.CommandEvent{Command: input.CommandQuit})
	if !quit || err != nil {
		t.Errorf("quit = %v, %v", quit, err)
	}
	if _, err := os.Stat(filepath.Join(f.dir, store.DefaultFileName)); err != nil {
		t.Errorf("session not written: %v", err)
	}
}

func TestQuitTwiceWhenSavingFails(t *testing.T) {
	dir := t.TempDir()
	// a directory where the session file should be
	f := newFixture(t, core.Options{Store: store.New(dir)})
	ctx := context.Background()
	quitEv := input.CommandEvent{Command: input.CommandQuit}

	quit, err := f.mh.Handle(ctx, quitEv)
	if quit || err == nil {
		t.Fatalf("first quit = %v, %v", quit, err)
	}
	quit, _ = f.mh.Handle(ctx, quitEv)
	if !quit {
		t.Error("second quit refused")
	}
}

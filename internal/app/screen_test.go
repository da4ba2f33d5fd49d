package app

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/bethropolis/quill/internal/tui"
	"github.com/bethropolis/quill/internal/types"
	"github.com/gdamore/tcell/v2"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.SetSize(40, 6)
	t.Cleanup(s.Fini)
	return s
}

func typeText(s tcell.SimulationScreen, text string) {
	for _, r := range text {
		s.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
}

func screenRow(s tcell.SimulationScreen, y int) string {
	cells, width, _ := s.GetContents()
	var b strings.Builder
	for x := 0; x < width; x++ {
		if c := cells[y*width+x]; len(c.Runes) > 0 {
			b.WriteRune(c.Runes[0])
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func TestScreenSession(t *testing.T) {
	cfg, _ := testConfig(t)
	a, err := NewApp(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	s := newSimScreen(t)
	typeText(s, "hi")
	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	typeText(s, "x")
	s.InjectKey(tcell.KeyLeft, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)

	if err := a.RunScreen(context.Background(), tui.NewWithScreen(s)); err != nil {
		t.Fatal(err)
	}
	if got := a.Editor().Text(); got != "hi\nx" {
		t.Errorf("text = %q", got)
	}
	if got := a.Editor().Cursor(); got != (types.Position{Line: 2, Col: 0}) {
		t.Errorf("cursor = %s", got)
	}
	if r0, r1 := screenRow(s, 0), screenRow(s, 1); r0 != "1 hi" || r1 != "2 x" {
		t.Errorf("screen rows %q %q", r0, r1)
	}
	if x, y, _ := s.GetCursor(); x != 2 || y != 1 {
		t.Errorf("screen cursor at %d,%d", x, y)
	}
	if _, err := os.Stat(cfg.Editor.SessionFile); err != nil {
		t.Errorf("session not saved: %v", err)
	}
}

func TestScreenShowsSearchPrompt(t *testing.T) {
	cfg, _ := testConfig(t)
	a, err := NewApp(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	s := newSimScreen(t)
	typeText(s, "ab ab")
	s.InjectKey(tcell.KeyCtrlF, 0, tcell.ModCtrl)
	typeText(s, "ab")
	s.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)

	if err := a.RunScreen(context.Background(), tui.NewWithScreen(s)); err != nil {
		t.Fatal(err)
	}
	if got := screenRow(s, 5); got != "> ab" {
		t.Errorf("prompt row = %q", got)
	}
	if got := a.Editor().Text(); got != "ab ab" {
		t.Errorf("text = %q", got)
	}
}

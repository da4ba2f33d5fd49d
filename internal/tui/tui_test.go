package tui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bethropolis/quill/internal/types"
	"github.com/gdamore/tcell/v2"
)

func newTestTUI(t *testing.T, width, height int) (*TUI, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.SetSize(width, height)
	t.Cleanup(s.Fini)
	return NewWithScreen(s), s
}

// row returns the text on screen row y, without trailing blanks.
func row(s tcell.SimulationScreen, y int) string {
	cells, width, _ := s.GetContents()
	var b strings.Builder
	for x := 0; x < width; x++ {
		c := cells[y*width+x]
		if len(c.Runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(c.Runes[0])
	}
	return strings.TrimRight(b.String(), " ")
}

func TestLayoutExpandsTabs(t *testing.T) {
	tests := []struct {
		line string
		col  int
		want int
	}{
		{"abc", 2, 2},
		{"\tab", 1, 4},
		{"\tab", 3, 6},
		{"a\tb", 2, 4},
		{"日本", 1, 2},
	}
	for _, tt := range tests {
		if got := visualColumn(tt.line, tt.col); got != tt.want {
			t.Errorf("visualColumn(%q, %d) = %d, want %d", tt.line, tt.col, got, tt.want)
		}
	}
}

func TestDrawLinesAndStatus(t *testing.T) {
	ui, s := newTestTUI(t, 20, 5)
	ui.Draw(View{
		Lines:     []string{"one", "\ttwo"},
		Cursor:    types.Position{Line: 2, Col: 1},
		Selection: types.Range{Start: types.Position{Line: 1, Col: 0}, End: types.Position{Line: 1, Col: 2}},
		Selected:  true,
		Fg:        "#000000",
		Bg:        "#D3D7CF",
		Status:    "Quill 1/1",
	})

	if got := row(s, 0); got != "1 one" {
		t.Errorf("row 0 = %q", got)
	}
	if got := row(s, 1); got != "2     two" {
		t.Errorf("row 1 = %q", got)
	}
	if got := row(s, 4); got != "Quill 1/1" {
		t.Errorf("status row = %q", got)
	}
	if x, y, visible := s.GetCursor(); x != 6 || y != 1 || !visible {
		t.Errorf("cursor at %d,%d visible %v", x, y, visible)
	}

	cells, width, _ := s.GetContents()
	for x, want := range map[int]bool{2: true, 3: true, 4: false} {
		_, _, attr := cells[0*width+x].Style.Decompose()
		if got := attr&tcell.AttrReverse != 0; got != want {
			t.Errorf("cell %d selected = %v, want %v", x, got, want)
		}
	}
}

func TestDrawScrollsToCursor(t *testing.T) {
	ui, s := newTestTUI(t, 20, 5)
	lines := make([]string, 30)
	for i := range lines {
		lines[i] = fmt.Sprintf("line%d", i+1)
	}
	ui.Draw(View{Lines: lines, Cursor: types.Position{Line: 10, Col: 0}})

	if got := row(s, 0); got != " 7 line7" {
		t.Errorf("row 0 = %q", got)
	}
	if got := row(s, 3); got != "10 line10" {
		t.Errorf("row 3 = %q", got)
	}
	if x, y, _ := s.GetCursor(); x != 3 || y != 3 {
		t.Errorf("cursor at %d,%d", x, y)
	}

	// moving up inside the window does not scroll
	ui.Draw(View{Lines: lines, Cursor: types.Position{Line: 8, Col: 0}})
	if got := row(s, 0); got != " 7 line7" {
		t.Errorf("row 0 after moving up = %q", got)
	}
}

func TestDrawPrompt(t *testing.T) {
	ui, s := newTestTUI(t, 20, 5)
	ui.Draw(View{
		Lines:      []string{"abc"},
		Status:     "Search:",
		PromptOpen: true,
		Prompt:     "ab",
	})
	if got := row(s, 3); got != "Search:" {
		t.Errorf("status row = %q", got)
	}
	if got := row(s, 4); got != "> ab" {
		t.Errorf("prompt row = %q", got)
	}
	if x, y, _ := s.GetCursor(); x != 4 || y != 4 {
		t.Errorf("cursor at %d,%d", x, y)
	}
}

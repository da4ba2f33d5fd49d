package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestProcessEvent(t *testing.T) {
	p := NewInputProcessor()
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want CommandEvent
	}{
		{"plain rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), CommandEvent{Command: CommandInsertRune, Rune: 'x'}},
		{"shifted rune", tcell.NewEventKey(tcell.KeyRune, 'X', tcell.ModShift), CommandEvent{Command: CommandInsertRune, Rune: 'X'}},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), CommandEvent{Command: CommandSubmit}},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), CommandEvent{Command: CommandCancel}},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), CommandEvent{Command: CommandIndent}},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModShift), CommandEvent{Command: CommandUnindent}},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), CommandEvent{Command: CommandBackspace}},
		{"ctrl-f", tcell.NewEventKey(tcell.KeyCtrlF, 0, tcell.ModCtrl), CommandEvent{Command: CommandSearch}},
		{"ctrl-r", tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl), CommandEvent{Command: CommandReplace}},
		{"ctrl-shift-r", tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl|tcell.ModShift), CommandEvent{Command: CommandReplaceAll}},
		{"alt-R", tcell.NewEventKey(tcell.KeyRune, 'R', tcell.ModAlt), CommandEvent{Command: CommandReplaceAll}},
		{"alt-n", tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModAlt), CommandEvent{Command: CommandNext}},
		{"alt-w", tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModAlt), CommandEvent{Command: CommandNextTab}},
		{"ctrl-q", tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl), CommandEvent{Command: CommandQuit}},
		{"ctrl-plus", tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModCtrl), CommandEvent{Command: CommandWiderScrollbar}},
		{"f1", tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), CommandEvent{Command: CommandHelp}},
		{"unbound ctrl", tcell.NewEventKey(tcell.KeyCtrlB, 0, tcell.ModCtrl), CommandEvent{Command: CommandUnknown}},
		{"unbound alt", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModAlt), CommandEvent{Command: CommandUnknown}},
		{"arrow up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), CommandEvent{Command: CommandMoveUp}},
		{"arrow left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), CommandEvent{Command: CommandMoveLeft}},
		{"unbound key", tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone), CommandEvent{Command: CommandUnknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ProcessEvent(tt.ev); got != tt.want {
				t.Errorf("ProcessEvent() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBind(t *testing.T) {
	p := NewInputProcessor()
	p.Bind(tcell.KeyF2, CommandRun)
	if got := p.ProcessEvent(tcell.NewEventKey(tcell.KeyF2, 0, tcell.ModNone)); got.Command != CommandRun {
		t.Errorf("F2 = %s", got.Command)
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want CommandEvent
		ok   bool
	}{
		{"search foo", CommandEvent{Command: CommandSearch, Arg: "foo"}, true},
		{"  Submit  two words ", CommandEvent{Command: CommandSubmit, Arg: "two words "}, true},
		{"next", CommandEvent{Command: CommandNext}, true},
		{"replace-all", CommandEvent{Command: CommandReplaceAll}, true},
		{"unknown", CommandEvent{}, false},
		{"bogus x", CommandEvent{}, false},
		{"", CommandEvent{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseLine(%q) = %+v, %v; want %+v, %v", tt.line, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCommandNamesRoundTrip(t *testing.T) {
	for c := CommandOpen; c <= CommandMoveDown; c++ {
		got, ok := ParseCommand(c.String())
		if !ok || got != c {
			t.Errorf("ParseCommand(%q) = %v, %v", c.String(), got, ok)
		}
	}
}

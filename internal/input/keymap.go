// internal/input/keymap.go
package input

import (
	"github.com/gdamore/tcell/v2"
)

// Keymap maps special keys to commands.
type Keymap map[tcell.Key]Command

// RuneKeymap maps runes typed with a modifier to commands.
type RuneKeymap map[rune]Command

// InputProcessor translates tcell key events into CommandEvents.
type InputProcessor struct {
	keymap  Keymap     // plain special keys
	ctrlMap Keymap     // control keys, KeyCtrlA..KeyCtrlZ
	altMap  RuneKeymap // Alt + rune
	ctrlRun RuneKeymap // Ctrl + printable rune, where the terminal reports one
}

// NewInputProcessor creates a processor with the default bindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:  make(Keymap),
		ctrlMap: make(Keymap),
		altMap:  make(RuneKeymap),
		ctrlRun: make(RuneKeymap),
	}
	p.loadDefaultBindings()
	return p
}

func (p *InputProcessor) loadDefaultBindings() {
	p.keymap[tcell.KeyEnter] = CommandSubmit
	p.keymap[tcell.KeyEscape] = CommandCancel
	p.keymap[tcell.KeyBackspace] = CommandBackspace
	p.keymap[tcell.KeyBackspace2] = CommandBackspace
	p.keymap[tcell.KeyTab] = CommandIndent
	p.keymap[tcell.KeyBacktab] = CommandUnindent
	p.keymap[tcell.KeyF1] = CommandHelp
	p.keymap[tcell.KeyLeft] = CommandMoveLeft
	p.keymap[tcell.KeyRight] = CommandMoveRight
	p.keymap[tcell.KeyUp] = CommandMoveUp
	p.keymap[tcell.KeyDown] = CommandMoveDown

	p.ctrlMap[tcell.KeyCtrlF] = CommandSearch
	p.ctrlMap[tcell.KeyCtrlR] = CommandReplace
	p.ctrlMap[tcell.KeyCtrlG] = CommandGotoLine
	p.ctrlMap[tcell.KeyCtrlN] = CommandNewTab
	p.ctrlMap[tcell.KeyCtrlD] = CommandDeleteTab
	p.ctrlMap[tcell.KeyCtrlA] = CommandSelectAll
	p.ctrlMap[tcell.KeyCtrlC] = CommandCopy
	p.ctrlMap[tcell.KeyCtrlV] = CommandPaste
	p.ctrlMap[tcell.KeyCtrlE] = CommandRun
	p.ctrlMap[tcell.KeyCtrlK] = CommandSearchNext
	p.ctrlMap[tcell.KeyCtrlS] = CommandSave
	p.ctrlMap[tcell.KeyCtrlO] = CommandOpen
	p.ctrlMap[tcell.KeyCtrlQ] = CommandQuit

	p.altMap['n'] = CommandNext
	p.altMap['p'] = CommandPrev
	p.altMap['t'] = CommandToggleColor
	p.altMap['w'] = CommandNextTab
	p.altMap['q'] = CommandPrevTab
	p.altMap['c'] = CommandComment
	p.altMap['u'] = CommandUncomment
	p.altMap['e'] = CommandShowErrors
	p.altMap['R'] = CommandReplaceAll // terminals without Ctrl-Shift

	p.ctrlRun['+'] = CommandWiderScrollbar
	p.ctrlRun['='] = CommandWiderScrollbar
	p.ctrlRun['-'] = CommandNarrowerScrollbar
}

// Bind overrides the command of a plain special key.
func (p *InputProcessor) Bind(key tcell.Key, c Command) {
	p.keymap[key] = c
}

// ProcessEvent returns the command for a key event. Plain runes become
// CommandInsertRune; what that means is left to the mode handler.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) CommandEvent {
	key := ev.Key()
	mod := ev.Modifiers()
	r := ev.Rune()

	// Ctrl-Shift-R where the terminal reports it
	if key == tcell.KeyCtrlR && mod&tcell.ModShift != 0 {
		return CommandEvent{Command: CommandReplaceAll}
	}

	// Enter, Tab, Backspace and Escape share codes with control keys,
	// so the plain map goes first.
	if c, ok := p.keymap[key]; ok && mod&tcell.ModAlt == 0 {
		return CommandEvent{Command: c}
	}
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		if c, ok := p.ctrlMap[key]; ok {
			return CommandEvent{Command: c}
		}
		return CommandEvent{Command: CommandUnknown}
	}

	if key != tcell.KeyRune {
		return CommandEvent{Command: CommandUnknown}
	}
	switch {
	case mod&tcell.ModAlt != 0:
		if c, ok := p.altMap[r]; ok {
			return CommandEvent{Command: c}
		}
		return CommandEvent{Command: CommandUnknown}
	case mod&tcell.ModCtrl != 0:
		if c, ok := p.ctrlRun[r]; ok {
			return CommandEvent{Command: c}
		}
		return CommandEvent{Command: CommandUnknown}
	}
	return CommandEvent{Command: CommandInsertRune, Rune: r}
}

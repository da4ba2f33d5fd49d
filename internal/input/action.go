// internal/input/action.go
package input

import "strings"

// Command is a user request, independent of how it was typed.
type Command int

const (
	CommandUnknown Command = iota

	// --- Files and tabs ---
	CommandOpen
	CommandSave
	CommandNewTab
	CommandDeleteTab
	CommandNextTab
	CommandPrevTab
	CommandQuit

	// --- Search and replace ---
	CommandSearch
	CommandReplace
	CommandReplaceAll
	CommandNext // next match, or next error
	CommandPrev
	CommandSearchNext

	// --- Prompt and text ---
	CommandInsertRune // Rune or Arg carries the text
	CommandSubmit     // Enter: submits a prompt or breaks the line
	CommandBackspace
	CommandCancel
	CommandIndent
	CommandUnindent
	CommandComment
	CommandUncomment
	CommandSelectAll
	CommandCopy
	CommandPaste
	CommandGotoLine

	// --- Run ---
	CommandRun
	CommandShowErrors

	// --- View ---
	CommandHelp
	CommandToggleColor
	CommandWiderScrollbar
	CommandNarrowerScrollbar

	// --- Cursor ---
	CommandMoveLeft
	CommandMoveRight
	CommandMoveUp
	CommandMoveDown
)

var commandNames = map[Command]string{
	CommandUnknown:           "unknown",
	CommandOpen:              "open",
	CommandSave:              "save",
	CommandNewTab:            "new-tab",
	CommandDeleteTab:         "delete-tab",
	CommandNextTab:           "walk",
	CommandPrevTab:           "walk-back",
	CommandQuit:              "quit",
	CommandSearch:            "search",
	CommandReplace:           "replace",
	CommandReplaceAll:        "replace-all",
	CommandNext:              "next",
	CommandPrev:              "prev",
	CommandSearchNext:        "search-next",
	CommandInsertRune:        "insert",
	CommandSubmit:            "submit",
	CommandBackspace:         "backspace",
	CommandCancel:            "cancel",
	CommandIndent:            "indent",
	CommandUnindent:          "unindent",
	CommandComment:           "comment",
	CommandUncomment:         "uncomment",
	CommandSelectAll:         "select-all",
	CommandCopy:              "copy",
	CommandPaste:             "paste",
	CommandGotoLine:          "goto",
	CommandRun:               "run",
	CommandShowErrors:        "errors",
	CommandHelp:              "help",
	CommandToggleColor:       "toggle-color",
	CommandWiderScrollbar:    "wider",
	CommandNarrowerScrollbar: "narrower",
	CommandMoveLeft:          "left",
	CommandMoveRight:         "right",
	CommandMoveUp:            "up",
	CommandMoveDown:          "down",
}

var commandsByName = func() map[string]Command {
	m := make(map[string]Command, len(commandNames))
	for c, n := range commandNames {
		m[n] = c
	}
	return m
}()

func (c Command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return "unknown"
}

// ParseCommand looks a command up by its name, case-insensitively.
func ParseCommand(name string) (Command, bool) {
	c, ok := commandsByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok || c == CommandUnknown {
		return CommandUnknown, false
	}
	return c, true
}

// CommandEvent is a decoded request with its payload.
type CommandEvent struct {
	Command Command
	Rune    rune   // CommandInsertRune from a key press
	Arg     string // argument typed on a command line
}

// ParseLine decodes "name argument..." into a CommandEvent. The argument
// is everything after the first run of spaces, kept verbatim.
func ParseLine(line string) (CommandEvent, bool) {
	line = strings.TrimLeft(line, " \t")
	name, arg, _ := strings.Cut(line, " ")
	c, ok := ParseCommand(name)
	if !ok {
		return CommandEvent{}, false
	}
	return CommandEvent{Command: c, Arg: strings.TrimLeft(arg, " ")}, true
}

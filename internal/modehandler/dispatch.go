package modehandler

import (
	"github.com/bethropolis/quill/internal/input"
	"github.com/bethropolis/quill/internal/mode"
)

// Phase narrows the search modes to the prompt currently being answered.
type Phase int

const (
	PhaseNone        Phase = iota
	PhaseQuery             // typing the word to look for
	PhaseBrowse            // Search mode with matches shown
	PhaseReplacement       // matches shown, typing the new word
	PhaseConfirm           // replacement armed, waiting for Enter
)

// Prompt is a one-line question asked in Normal mode.
type Prompt int

const (
	PromptNone Prompt = iota
	PromptGoto
	PromptOpen
	PromptSave
)

// State is everything Dispatch looks at.
type State struct {
	Mode   mode.Mode
	Phase  Phase
	Prompt Prompt
}

// Action is what the handler does in response to a command.
type Action int

const (
	ActIgnore Action = iota
	ActBell

	ActPromptAppend
	ActPromptBackspace
	ActPromptSubmit
	ActPromptClose
	ActGotoPrompt
	ActOpenPrompt
	ActSavePrompt

	ActInsert
	ActNewline
	ActDeleteBackward
	ActIndent
	ActUnindent
	ActComment
	ActUncomment
	ActSelectAll
	ActCopy
	ActPaste

	ActEnterSearch
	ActEnterReplace
	ActEnterReplaceAll
	ActSubmitQuery
	ActSubmitReplacement
	ActReplaceNext
	ActReplaceAll
	ActShowNext
	ActShowPrev
	ActSearchNext
	ActCancel

	ActNewTab
	ActDeleteTab
	ActNextTab
	ActPrevTab

	ActRun
	ActShowErrors
	ActFollowCursor
	ActNextError

	ActMoveCursor
	ActHelp
	ActToggleColor
	ActWiderScrollbar
	ActNarrowerScrollbar
	ActQuit
)

var actionNames = [...]string{
	"ignore", "bell",
	"prompt-append", "prompt-backspace", "prompt-submit", "prompt-close",
	"goto-prompt", "open-prompt", "save-prompt",
	"insert", "newline", "delete-backward", "indent", "unindent", "comment",
	"uncomment", "select-all", "copy", "paste",
	"enter-search", "enter-replace", "enter-replace-all", "submit-query",
	"submit-replacement", "replace-next", "replace-all", "show-next", "show-prev",
	"search-next", "cancel",
	"new-tab", "delete-tab", "next-tab", "prev-tab",
	"run", "show-errors", "follow-cursor", "next-error",
	"move-cursor", "help", "toggle-color", "wider-scrollbar", "narrower-scrollbar", "quit",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// normalActions are the commands that only act in Normal mode with no
// prompt open.
var normalActions = map[input.Command]Action{
	input.CommandOpen:       ActOpenPrompt,
	input.CommandSave:       ActSavePrompt,
	input.CommandGotoLine:   ActGotoPrompt,
	input.CommandNewTab:     ActNewTab,
	input.CommandDeleteTab:  ActDeleteTab,
	input.CommandNextTab:    ActNextTab,
	input.CommandPrevTab:    ActPrevTab,
	input.CommandSearch:     ActEnterSearch,
	input.CommandReplace:    ActEnterReplace,
	input.CommandReplaceAll: ActEnterReplaceAll,
	input.CommandSearchNext: ActSearchNext,
	input.CommandIndent:     ActIndent,
	input.CommandUnindent:   ActUnindent,
	input.CommandComment:    ActComment,
	input.CommandUncomment:  ActUncomment,
	input.CommandPaste:      ActPaste,
	input.CommandRun:        ActRun,
	input.CommandShowErrors: ActShowErrors,
	input.CommandHelp:       ActHelp,
}

// Dispatch decides what a command means in state s. It has no side effects.
func Dispatch(s State, c input.Command) Action {
	prompting := s.Mode == mode.Normal && s.Prompt != PromptNone
	typing := prompting || s.Phase == PhaseQuery || s.Phase == PhaseReplacement

	switch c {
	case input.CommandUnknown:
		return ActIgnore
	case input.CommandQuit:
		return ActQuit
	case input.CommandToggleColor:
		return ActToggleColor
	case input.CommandWiderScrollbar:
		return ActWiderScrollbar
	case input.CommandNarrowerScrollbar:
		return ActNarrowerScrollbar

	case input.CommandCancel:
		switch {
		case prompting:
			return ActPromptClose
		case s.Mode == mode.Normal:
			return ActIgnore
		}
		return ActCancel

	case input.CommandInsertRune:
		switch {
		case typing:
			return ActPromptAppend
		case s.Mode == mode.Normal:
			return ActInsert
		}
		return ActBell

	case input.CommandBackspace:
		switch {
		case typing:
			return ActPromptBackspace
		case s.Mode == mode.Normal:
			return ActDeleteBackward
		}
		return ActBell

	case input.CommandSubmit:
		return dispatchSubmit(s, prompting)

	case input.CommandNext:
		switch s.Mode {
		case mode.Normal, mode.ErrorView:
			if prompting {
				return ActBell
			}
			return ActNextError
		case mode.Search, mode.Replace, mode.ReplaceAll:
			if s.Phase != PhaseQuery {
				return ActShowNext
			}
		}
		return ActBell

	case input.CommandPrev:
		switch s.Mode {
		case mode.Search, mode.Replace, mode.ReplaceAll:
			if s.Phase != PhaseQuery {
				return ActShowPrev
			}
		}
		return ActBell

	case input.CommandMoveLeft, input.CommandMoveRight, input.CommandMoveUp, input.CommandMoveDown:
		switch s.Mode {
		case mode.Normal, mode.Help, mode.ErrorView:
			if !prompting {
				return ActMoveCursor
			}
		}
		return ActBell

	case input.CommandSelectAll, input.CommandCopy:
		switch s.Mode {
		case mode.Normal, mode.Help, mode.ErrorView:
			if prompting {
				return ActBell
			}
			if c == input.CommandCopy {
				return ActCopy
			}
			return ActSelectAll
		}
		return ActBell
	}

	if a, ok := normalActions[c]; ok && s.Mode == mode.Normal && !prompting {
		return a
	}
	return ActBell
}

func dispatchSubmit(s State, prompting bool) Action {
	switch s.Mode {
	case mode.Normal:
		if prompting {
			return ActPromptSubmit
		}
		return ActNewline
	case mode.ErrorView:
		return ActFollowCursor
	case mode.Help:
		return ActIgnore
	}
	switch s.Phase {
	case PhaseQuery:
		return ActSubmitQuery
	case PhaseBrowse:
		return ActShowNext
	case PhaseReplacement:
		return ActSubmitReplacement
	case PhaseConfirm:
		if s.Mode == mode.ReplaceAll {
			return ActReplaceAll
		}
		return ActReplaceNext
	}
	return ActIgnore
}

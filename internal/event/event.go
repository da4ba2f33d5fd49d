// internal/event/event.go
package event

import (
	"github.com/bethropolis/quill/internal/mode"
	"github.com/bethropolis/quill/internal/types"
)

// Type identifies the kind of event.
type Type int

// Define specific event types.
const (
	TypeUnknown Type = iota

	TypeModeChanged   // Mode controller moved to another state
	TypeTabChanged    // Active tab or tab count changed
	TypeBufferLoaded  // A document was read from disk into a tab
	TypeBufferSaved   // A document was written to disk
	TypeSearchUpdated // Match set or current match changed
	TypeRunFinished   // The run producer returned

	TypeAppQuit // Fired just before application termination begins
)

var typeNames = map[Type]string{
	TypeModeChanged:   "ModeChanged",
	TypeTabChanged:    "TabChanged",
	TypeBufferLoaded:  "BufferLoaded",
	TypeBufferSaved:   "BufferSaved",
	TypeSearchUpdated: "SearchUpdated",
	TypeRunFinished:   "RunFinished",
	TypeAppQuit:       "AppQuit",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "Unknown"
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// ModeChangedData carries both ends of a mode transition.
type ModeChangedData struct {
	From, To mode.Mode
}

// TabChangedData describes the active tab after a tab operation.
type TabChangedData struct {
	Index int // 0-based
	Count int
	Title string
}

// BufferLoadedData contains info about the loaded buffer.
type BufferLoadedData struct {
	FilePath string
}

// BufferSavedData contains info about the saved buffer.
type BufferSavedData struct {
	FilePath string
}

// SearchUpdatedData reports the match set state. Ordinal is 1-based, 0 when
// no match is selected.
type SearchUpdatedData struct {
	Query   string
	Count   int
	Ordinal int
	Current types.Range
}

// RunFinishedData summarises a run.
type RunFinishedData struct {
	FilePath string
	ExitCode int
	Links    int
}

// AppQuitData could contain exit code or reason later.
type AppQuitData struct{}

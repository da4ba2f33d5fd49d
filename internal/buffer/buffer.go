// internal/buffer/buffer.go
package buffer

import (
	"fmt"

	"github.com/bethropolis/quill/internal/types"
)

// Buffer is the addressable text store of the active document.
// Positions use 1-based lines and 0-based rune columns.
type Buffer interface {
	Text() string
	SetText(text string)
	Read(r types.Range) (string, error)
	Insert(pos types.Position, text string) (types.Position, error)
	Delete(r types.Range) error
	Search(needle string, from types.Position) (types.Position, bool)

	Line(n int) (string, error)
	LineCount() int
	End() types.Position
	Valid(p types.Position) bool
	Clamp(p types.Position) types.Position
	Offset(p types.Position) (int, error)
	PositionAt(offset int) types.Position

	Cursor() types.Position
	SetCursor(p types.Position) error
	Selection() (types.Range, bool)
	SetSelection(r types.Range) error
	ClearSelection()

	IsModified() bool
	MarkClean()
}

// PositionError reports an address that does not exist in the buffer.
type PositionError struct {
	Pos    types.Position
	Reason string
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("invalid position %s: %s", e.Pos, e.Reason)
}

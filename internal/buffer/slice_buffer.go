// internal/buffer/slice_buffer.go
package buffer

import (
	"strings"
	"unicode/utf8"

	"github.com/bethropolis/quill/internal/types"
	"github.com/bethropolis/quill/internal/utils"
)

// SliceBuffer stores the document as a slice of lines without their
// terminating newlines. There is always at least one line.
type SliceBuffer struct {
	lines     []string
	cursor    types.Position
	selection *types.Range
	modified  bool // Track if buffer has unsaved changes
}

// NewSliceBuffer creates an empty SliceBuffer.
func NewSliceBuffer() *SliceBuffer {
	return &SliceBuffer{
		lines:  []string{""},
		cursor: types.Start,
	}
}

// NewSliceBufferFromText creates a buffer holding text, cursor at the start.
func NewSliceBufferFromText(text string) *SliceBuffer {
	sb := NewSliceBuffer()
	sb.SetText(text)
	return sb
}

// Text returns the full document.
func (sb *SliceBuffer) Text() string {
	return strings.Join(sb.lines, "\n")
}

// SetText replaces the whole document, resets cursor and selection
// and clears the modified flag.
func (sb *SliceBuffer) SetText(text string) {
	sb.lines = strings.Split(text, "\n")
	sb.cursor = types.Start
	sb.selection = nil
	sb.modified = false
}

// LineCount returns the number of lines (never zero).
func (sb *SliceBuffer) LineCount() int {
	return len(sb.lines)
}

// Line returns the text of 1-based line n.
func (sb *SliceBuffer) Line(n int) (string, error) {
	if n < 1 || n > len(sb.lines) {
		return "", &PositionError{Pos: types.Position{Line: n}, Reason: "line out of range"}
	}
	return sb.lines[n-1], nil
}

// End is the position after the last character.
func (sb *SliceBuffer) End() types.Position {
	last := len(sb.lines)
	return types.Position{Line: last, Col: utf8.RuneCountInString(sb.lines[last-1])}
}

// Valid reports whether p addresses an existing location.
func (sb *SliceBuffer) Valid(p types.Position) bool {
	return sb.validate(p) == nil
}

func (sb *SliceBuffer) validate(p types.Position) error {
	if p.Line < 1 || p.Line > len(sb.lines) {
		return &PositionError{Pos: p, Reason: "line out of range"}
	}
	if p.Col < 0 || p.Col > utf8.RuneCountInString(sb.lines[p.Line-1]) {
		return &PositionError{Pos: p, Reason: "column out of range"}
	}
	return nil
}

// Clamp moves p to the nearest valid location.
func (sb *SliceBuffer) Clamp(p types.Position) types.Position {
	if p.Line < 1 {
		return types.Start
	}
	if p.Line > len(sb.lines) {
		return sb.End()
	}
	if p.Col < 0 {
		p.Col = 0
	}
	if n := utf8.RuneCountInString(sb.lines[p.Line-1]); p.Col > n {
		p.Col = n
	}
	return p
}

// Offset converts p to a rune offset from the start of the document.
// Newlines count as one character.
func (sb *SliceBuffer) Offset(p types.Position) (int, error) {
	if err := sb.validate(p); err != nil {
		return 0, err
	}
	off := 0
	for i := 0; i < p.Line-1; i++ {
		off += utf8.RuneCountInString(sb.lines[i]) + 1
	}
	return off + p.Col, nil
}

// PositionAt converts a rune offset into a position, clamping to the document.
func (sb *SliceBuffer) PositionAt(offset int) types.Position {
	if offset <= 0 {
		return types.Start
	}
	for i, line := range sb.lines {
		n := utf8.RuneCountInString(line)
		if offset <= n {
			return types.Position{Line: i + 1, Col: offset}
		}
		offset -= n + 1
	}
	return sb.End()
}

// byteOffset returns the byte offset of p inside Text().
func (sb *SliceBuffer) byteOffset(p types.Position) int {
	off := 0
	for i := 0; i < p.Line-1; i++ {
		off += len(sb.lines[i]) + 1
	}
	return off + utils.RuneIndexToByteOffset(sb.lines[p.Line-1], p.Col)
}

// positionAtByte is the inverse of byteOffset over text.
func positionAtByte(text string, off int) types.Position {
	head := text[:off]
	line := strings.Count(head, "\n") + 1
	lineStart := strings.LastIndexByte(head, '\n') + 1
	return types.Position{Line: line, Col: utf8.RuneCountInString(head[lineStart:])}
}

// Read returns the text covered by r.
func (sb *SliceBuffer) Read(r types.Range) (string, error) {
	r = types.NewRange(r.Start, r.End)
	if err := sb.validate(r.Start); err != nil {
		return "", err
	}
	if err := sb.validate(r.End); err != nil {
		return "", err
	}
	text := sb.Text()
	return text[sb.byteOffset(r.Start):sb.byteOffset(r.End)], nil
}

// Insert puts text at pos and returns the position just after it.
func (sb *SliceBuffer) Insert(pos types.Position, text string) (types.Position, error) {
	if err := sb.validate(pos); err != nil {
		return pos, err
	}
	if text == "" {
		return pos, nil
	}

	line := sb.lines[pos.Line-1]
	split := utils.RuneIndexToByteOffset(line, pos.Col)
	head, tail := line[:split], line[split:]

	inserted := strings.Split(text, "\n")
	newLines := make([]string, 0, len(sb.lines)+len(inserted)-1)
	newLines = append(newLines, sb.lines[:pos.Line-1]...)

	var end types.Position
	if len(inserted) == 1 {
		newLines = append(newLines, head+inserted[0]+tail)
		end = types.Position{Line: pos.Line, Col: pos.Col + utf8.RuneCountInString(inserted[0])}
	} else {
		newLines = append(newLines, head+inserted[0])
		newLines = append(newLines, inserted[1:len(inserted)-1]...)
		last := inserted[len(inserted)-1]
		newLines = append(newLines, last+tail)
		end = types.Position{Line: pos.Line + len(inserted) - 1, Col: utf8.RuneCountInString(last)}
	}
	newLines = append(newLines, sb.lines[pos.Line:]...)

	sb.lines = newLines
	sb.modified = true
	sb.revalidateMarks()
	return end, nil
}

// Delete removes the text covered by r.
func (sb *SliceBuffer) Delete(r types.Range) error {
	r = types.NewRange(r.Start, r.End)
	if err := sb.validate(r.Start); err != nil {
		return err
	}
	if err := sb.validate(r.End); err != nil {
		return err
	}
	if r.Empty() {
		return nil
	}

	first := sb.lines[r.Start.Line-1]
	last := sb.lines[r.End.Line-1]
	merged := first[:utils.RuneIndexToByteOffset(first, r.Start.Col)] +
		last[utils.RuneIndexToByteOffset(last, r.End.Col):]

	newLines := make([]string, 0, len(sb.lines)-(r.End.Line-r.Start.Line))
	newLines = append(newLines, sb.lines[:r.Start.Line-1]...)
	newLines = append(newLines, merged)
	newLines = append(newLines, sb.lines[r.End.Line:]...)

	sb.lines = newLines
	sb.modified = true
	sb.revalidateMarks()
	return nil
}

// Search finds the first occurrence of needle at or after from.
// The match is literal and case-sensitive.
func (sb *SliceBuffer) Search(needle string, from types.Position) (types.Position, bool) {
	if needle == "" {
		return types.Position{}, false
	}
	from = sb.Clamp(from)
	text := sb.Text()
	start := sb.byteOffset(from)
	idx := strings.Index(text[start:], needle)
	if idx < 0 {
		return types.Position{}, false
	}
	return positionAtByte(text, start+idx), true
}

// Cursor returns the insertion cursor.
func (sb *SliceBuffer) Cursor() types.Position {
	return sb.cursor
}

// SetCursor moves the insertion cursor.
func (sb *SliceBuffer) SetCursor(p types.Position) error {
	if err := sb.validate(p); err != nil {
		return err
	}
	sb.cursor = p
	return nil
}

// Selection returns the selected range, if any.
func (sb *SliceBuffer) Selection() (types.Range, bool) {
	if sb.selection == nil || sb.selection.Empty() {
		return types.Range{}, false
	}
	return *sb.selection, true
}

// SetSelection selects r.
func (sb *SliceBuffer) SetSelection(r types.Range) error {
	r = types.NewRange(r.Start, r.End)
	if err := sb.validate(r.Start); err != nil {
		return err
	}
	if err := sb.validate(r.End); err != nil {
		return err
	}
	sb.selection = &r
	return nil
}

// ClearSelection drops the selection.
func (sb *SliceBuffer) ClearSelection() {
	sb.selection = nil
}

// IsModified returns true if the buffer has unsaved changes.
func (sb *SliceBuffer) IsModified() bool {
	return sb.modified
}

// MarkClean resets the modified flag after a save.
func (sb *SliceBuffer) MarkClean() {
	sb.modified = false
}

// revalidateMarks keeps cursor and selection inside the document after an edit.
func (sb *SliceBuffer) revalidateMarks() {
	sb.cursor = sb.Clamp(sb.cursor)
	if sb.selection != nil {
		r := types.NewRange(sb.Clamp(sb.selection.Start), sb.Clamp(sb.selection.End))
		sb.selection = &r
	}
}

// Ensure SliceBuffer satisfies the Buffer interface
var _ Buffer = (*SliceBuffer)(nil)

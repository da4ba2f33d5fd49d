// internal/types/position.go
package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is a location between characters in a buffer.
// Line is 1-based, Col is the 0-based rune index within the line.
type Position struct {
	Line int
	Col  int // Rune index
}

// Start is the first location of every buffer.
var Start = Position{Line: 1, Col: 0}

// String formats the position as "line.col", the form persisted in the session record.
func (p Position) String() string {
	return fmt.Sprintf("%d.%d", p.Line, p.Col)
}

// ParsePosition parses a "line.col" string. Lines must be >= 1 and columns >= 0.
func ParsePosition(s string) (Position, error) {
	lineStr, colStr, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return Position{}, fmt.Errorf("position %q: missing '.' separator", s)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil {
		return Position{}, fmt.Errorf("position %q: bad line: %w", s, err)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil {
		return Position{}, fmt.Errorf("position %q: bad column: %w", s, err)
	}
	if line < 1 || col < 0 {
		return Position{}, fmt.Errorf("position %q: out of range", s)
	}
	return Position{Line: line, Col: col}, nil
}

// Compare orders positions lexicographically by (Line, Col).
// It returns -1, 0 or +1.
func (p Position) Compare(o Position) int {
	switch {
	case p.Line < o.Line:
		return -1
	case p.Line > o.Line:
		return 1
	case p.Col < o.Col:
		return -1
	case p.Col > o.Col:
		return 1
	}
	return 0
}

// Less reports whether p sorts before o.
func (p Position) Less(o Position) bool { return p.Compare(o) < 0 }
